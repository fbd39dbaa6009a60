package supplement

import (
	"context"
	"errors"
	"time"

	"github.com/Arulthas05/gym-management-backend/internal/invoice"
	"github.com/Arulthas05/gym-management-backend/internal/logger"
	"github.com/Arulthas05/gym-management-backend/internal/member"
	"github.com/Arulthas05/gym-management-backend/internal/metrics"
)

var ErrMemberNotFound = errors.New("member not found")

// Notifier is satisfied by email.Service.
type Notifier interface {
	SendPaymentConfirmation(ctx context.Context, email, name string, amount float64, invoiceNumber string) error
}

// Invoicer is satisfied by invoice.Generator.
type Invoicer interface {
	Generate(d invoice.Details) (string, error)
}

// PaymentStore records the invoice path once the document exists.
type PaymentStore interface {
	SetInvoicePath(ctx context.Context, paymentID int, path string) error
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Supplement, error)
	Get(ctx context.Context, id int) (*Supplement, error)
	List(ctx context.Context, category string, onlyActive bool, page, limit int) ([]Supplement, int, error)
	Update(ctx context.Context, id int, req UpdateRequest) error
	Delete(ctx context.Context, id int) error

	CreateOrder(ctx context.Context, memberID int, items []OrderItemRequest) (*OrderWithItems, error)
	CreateOrderByUser(ctx context.Context, userID int, items []OrderItemRequest) (*OrderWithItems, error)
	Purchase(ctx context.Context, userID int, req PurchaseRequest) (*OrderWithItems, string, error)
	GetOrder(ctx context.Context, orderID int) (*OrderWithItems, error)
	MemberOrders(ctx context.Context, memberID int) ([]OrderWithItems, error)
	MemberOrdersByUser(ctx context.Context, userID int) ([]OrderWithItems, error)
}

type service struct {
	repo       Repository
	memberRepo member.Repository
	payments   PaymentStore
	notifier   Notifier
	invoices   Invoicer
}

func NewService(repo Repository, memberRepo member.Repository, payments PaymentStore, notifier Notifier, invoices Invoicer) Service {
	return &service{
		repo:       repo,
		memberRepo: memberRepo,
		payments:   payments,
		notifier:   notifier,
		invoices:   invoices,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Supplement, error) {
	return s.repo.Create(ctx, req)
}

func (s *service) Get(ctx context.Context, id int) (*Supplement, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, category string, onlyActive bool, page, limit int) ([]Supplement, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	total, err := s.repo.Count(ctx, category, onlyActive)
	if err != nil {
		return nil, 0, err
	}

	supplements, err := s.repo.List(ctx, category, onlyActive, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	return supplements, total, nil
}

func (s *service) Update(ctx context.Context, id int, req UpdateRequest) error {
	return s.repo.Update(ctx, id, req)
}

func (s *service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) CreateOrder(ctx context.Context, memberID int, items []OrderItemRequest) (*OrderWithItems, error) {
	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		return nil, ErrMemberNotFound
	}

	order, err := s.repo.CreateOrder(ctx, memberID, items)
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			metrics.RecordOrder("out_of_stock")
		}
		return nil, err
	}

	metrics.RecordOrder("success")
	return order, nil
}

// CreateOrderByUser resolves the caller's member profile first; members
// can only order for themselves.
func (s *service) CreateOrderByUser(ctx context.Context, userID int, items []OrderItemRequest) (*OrderWithItems, error) {
	m, err := s.memberRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, ErrMemberNotFound
	}

	return s.CreateOrder(ctx, m.ID, items)
}

// Purchase settles a single-item order for the authenticated member. The
// order, stock decrement and payment row commit together; the invoice and
// email happen afterwards and never unwind the sale.
func (s *service) Purchase(ctx context.Context, userID int, req PurchaseRequest) (*OrderWithItems, string, error) {
	m, err := s.memberRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, "", ErrMemberNotFound
	}

	invoiceNumber := invoice.Number(time.Now())

	order, paymentID, err := s.repo.Purchase(ctx, PurchaseParams{
		MemberID:      m.ID,
		SupplementID:  req.SupplementID,
		Quantity:      req.Quantity,
		TransactionID: req.PaymentIntentID,
		InvoiceNumber: invoiceNumber,
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			metrics.RecordOrder("out_of_stock")
		}
		return nil, "", err
	}

	metrics.RecordOrder("success")
	metrics.RecordPayment("supplement", "completed")

	withEmail, err := s.memberRepo.GetWithEmail(ctx, m.ID)
	if err != nil {
		logger.Errorf("Post-purchase lookup failed for member %d: %v", m.ID, err)
		return order, invoiceNumber, nil
	}

	path, err := s.invoices.Generate(invoice.Details{
		InvoiceNumber: invoiceNumber,
		MemberName:    withEmail.FirstName + " " + withEmail.LastName,
		MemberEmail:   withEmail.Email,
		Amount:        order.TotalAmount,
		PaymentType:   "supplement",
		Date:          time.Now(),
	})
	if err != nil {
		logger.Errorf("Invoice generation failed for payment %d: %v", paymentID, err)
	} else if err := s.payments.SetInvoicePath(ctx, paymentID, path); err != nil {
		logger.Errorf("Failed to record invoice path for payment %d: %v", paymentID, err)
	}

	if err := s.notifier.SendPaymentConfirmation(ctx, withEmail.Email, withEmail.FirstName, order.TotalAmount, invoiceNumber); err != nil {
		logger.Errorf("Payment confirmation email failed for member %d: %v", m.ID, err)
	}

	return order, invoiceNumber, nil
}

func (s *service) GetOrder(ctx context.Context, orderID int) (*OrderWithItems, error) {
	return s.repo.GetOrder(ctx, orderID)
}

func (s *service) MemberOrders(ctx context.Context, memberID int) ([]OrderWithItems, error) {
	return s.repo.MemberOrders(ctx, memberID)
}

func (s *service) MemberOrdersByUser(ctx context.Context, userID int) ([]OrderWithItems, error) {
	m, err := s.memberRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, ErrMemberNotFound
	}

	return s.repo.MemberOrders(ctx, m.ID)
}
