package payment

import (
	"context"
	"errors"
	"time"

	"github.com/Arulthas05/gym-management-backend/internal/invoice"
	"github.com/Arulthas05/gym-management-backend/internal/logger"
	"github.com/Arulthas05/gym-management-backend/internal/member"
	"github.com/Arulthas05/gym-management-backend/internal/metrics"
)

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrNoTransaction  = errors.New("payment has no gateway transaction to refund")
	ErrNoInvoice      = errors.New("no invoice available for this payment")
)

// Notifier is satisfied by email.Service.
type Notifier interface {
	SendPaymentConfirmation(ctx context.Context, email, name string, amount float64, invoiceNumber string) error
	SendPaymentReminder(ctx context.Context, email, name string, amount float64, dueDate string) error
}

// Invoicer is satisfied by invoice.Generator.
type Invoicer interface {
	Generate(d invoice.Details) (string, error)
}

type Service interface {
	Process(ctx context.Context, req ProcessRequest) (*Payment, error)
	Get(ctx context.Context, id int) (*Payment, error)
	List(ctx context.Context, memberID int, status Status, paymentType Type, page, limit int) ([]PaymentWithMember, int, error)
	PaymentsByUser(ctx context.Context, userID int) ([]Payment, error)
	Confirm(ctx context.Context, id int) error
	Refund(ctx context.Context, id int) error
	InvoicePath(ctx context.Context, id int) (string, error)

	SendPaymentReminders(ctx context.Context) error
}

type service struct {
	repo       Repository
	memberRepo member.Repository
	gateway    Gateway
	notifier   Notifier
	invoices   Invoicer
}

func NewService(repo Repository, memberRepo member.Repository, gateway Gateway, notifier Notifier, invoices Invoicer) Service {
	return &service{
		repo:       repo,
		memberRepo: memberRepo,
		gateway:    gateway,
		notifier:   notifier,
		invoices:   invoices,
	}
}

// Process settles a payment and its side effect (membership activation or
// order completion) atomically, then renders the invoice and emails the
// member. The post-commit steps are best effort: the payment stands even
// if they fail.
func (s *service) Process(ctx context.Context, req ProcessRequest) (*Payment, error) {
	if _, err := s.memberRepo.GetByID(ctx, req.MemberID); err != nil {
		return nil, ErrMemberNotFound
	}

	invoiceNumber := invoice.Number(time.Now())

	p, err := s.repo.Process(ctx, ProcessParams{
		MemberID:      req.MemberID,
		Amount:        req.Amount,
		Type:          req.Type,
		Method:        req.Method,
		TransactionID: req.TransactionID,
		Description:   req.Description,
		InvoiceNumber: invoiceNumber,
		PlanID:        req.PlanID,
		OrderID:       req.OrderID,
	})
	if err != nil {
		metrics.RecordPayment(string(req.Type), "failed")
		return nil, err
	}

	metrics.RecordPayment(string(req.Type), "completed")

	withEmail, err := s.memberRepo.GetWithEmail(ctx, req.MemberID)
	if err != nil {
		logger.Errorf("Post-payment lookup failed for member %d: %v", req.MemberID, err)
		return p, nil
	}

	path, err := s.invoices.Generate(invoice.Details{
		InvoiceNumber: invoiceNumber,
		MemberName:    withEmail.FirstName + " " + withEmail.LastName,
		MemberEmail:   withEmail.Email,
		Amount:        req.Amount,
		PaymentType:   string(req.Type),
		Date:          time.Now(),
	})
	if err != nil {
		logger.Errorf("Invoice generation failed for payment %d: %v", p.ID, err)
	} else if err := s.repo.SetInvoicePath(ctx, p.ID, path); err != nil {
		logger.Errorf("Failed to record invoice path for payment %d: %v", p.ID, err)
	} else {
		p.InvoicePath = &path
	}

	if err := s.notifier.SendPaymentConfirmation(ctx, withEmail.Email, withEmail.FirstName, req.Amount, invoiceNumber); err != nil {
		logger.Errorf("Payment confirmation email failed for member %d: %v", req.MemberID, err)
	}

	return p, nil
}

func (s *service) Get(ctx context.Context, id int) (*Payment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, memberID int, status Status, paymentType Type, page, limit int) ([]PaymentWithMember, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	total, err := s.repo.Count(ctx, memberID, status, paymentType)
	if err != nil {
		return nil, 0, err
	}

	payments, err := s.repo.List(ctx, memberID, status, paymentType, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

func (s *service) PaymentsByUser(ctx context.Context, userID int) ([]Payment, error) {
	m, err := s.memberRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, ErrMemberNotFound
	}

	return s.repo.MemberPayments(ctx, m.ID)
}

func (s *service) Confirm(ctx context.Context, id int) error {
	if err := s.repo.Confirm(ctx, id); err != nil {
		return err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil
	}

	metrics.RecordPayment(string(p.PaymentType), "completed")
	return nil
}

// Refund pushes the refund through the gateway first; only a gateway
// acknowledgement flips the payment to refunded, and a completed payment
// is the only refundable state.
func (s *service) Refund(ctx context.Context, id int) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if p.PaymentStatus != StatusCompleted {
		return ErrNotRefundable
	}
	if p.TransactionID == nil || *p.TransactionID == "" {
		return ErrNoTransaction
	}

	if err := s.gateway.Refund(ctx, *p.TransactionID, p.Amount); err != nil {
		return err
	}

	if err := s.repo.MarkRefunded(ctx, id); err != nil {
		return err
	}

	metrics.RecordPayment(string(p.PaymentType), "refunded")
	return nil
}

func (s *service) InvoicePath(ctx context.Context, id int) (string, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	if p.InvoicePath == nil || *p.InvoicePath == "" {
		return "", ErrNoInvoice
	}

	return *p.InvoicePath, nil
}

// SendPaymentReminders emails members whose payment has sat pending for
// more than three days. The due date shown is a week from creation.
func (s *service) SendPaymentReminders(ctx context.Context) error {
	pending, err := s.repo.PendingOlderThan(ctx, 3)
	if err != nil {
		return err
	}

	for _, rem := range pending {
		dueDate := rem.CreatedAt.AddDate(0, 0, 7).Format("2006-01-02")
		if err := s.notifier.SendPaymentReminder(ctx, rem.Email, rem.FirstName, rem.Amount, dueDate); err != nil {
			logger.Errorf("Payment reminder failed for %s: %v", rem.Email, err)
			continue
		}
	}

	if len(pending) > 0 {
		logger.Infof("Sent %d payment reminders", len(pending))
	}

	return nil
}
