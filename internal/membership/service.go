package membership

import (
	"context"
	"errors"
	"time"

	"github.com/Arulthas05/gym-management-backend/internal/invoice"
	"github.com/Arulthas05/gym-management-backend/internal/logger"
	"github.com/Arulthas05/gym-management-backend/internal/member"
	"github.com/Arulthas05/gym-management-backend/internal/metrics"
	"github.com/Arulthas05/gym-management-backend/internal/plan"
)

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrPlanNotFound   = errors.New("membership plan not found or inactive")
)

// PlanStore is the slice of the plan repository the lifecycle manager needs.
type PlanStore interface {
	GetByID(ctx context.Context, id int) (*plan.Plan, error)
	GetActive(ctx context.Context, id int) (*plan.Plan, error)
}

// Notifier is satisfied by email.Service.
type Notifier interface {
	SendMembershipExpiryReminder(ctx context.Context, email, name, endDate string, daysLeft int) error
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
	Assign(ctx context.Context, req AssignRequest) (*Membership, error)
	Purchase(ctx context.Context, userID int, req PurchaseRequest) (*Membership, string, error)
	Get(ctx context.Context, id int) (*Membership, error)
	List(ctx context.Context, memberID int, status Status, page, limit int) ([]MembershipDetails, int, error)
	Update(ctx context.Context, id int, req UpdateRequest) error
	Delete(ctx context.Context, id int) error
	CheckExpiring(ctx context.Context, daysAhead int) ([]MembershipDetails, error)

	ExpireOverdue(ctx context.Context) (int64, error)
	SendExpiryReminders(ctx context.Context) error
	AutoRenew(ctx context.Context) (int, error)
}

type service struct {
	repo       Repository
	memberRepo member.Repository
	planStore  PlanStore
	payments   PaymentStore
	notifier   Notifier
	invoices   Invoicer
}

func NewService(
	repo Repository,
	memberRepo member.Repository,
	planStore PlanStore,
	payments PaymentStore,
	notifier Notifier,
	invoices Invoicer,
) Service {
	return &service{
		repo:       repo,
		memberRepo: memberRepo,
		planStore:  planStore,
		payments:   payments,
		notifier:   notifier,
		invoices:   invoices,
	}
}

// Assign is the admin path. It retires any existing active membership the
// same way Purchase does, so the one-active-membership rule holds on both
// paths.
func (s *service) Assign(ctx context.Context, req AssignRequest) (*Membership, error) {
	if _, err := s.memberRepo.GetByID(ctx, req.MemberID); err != nil {
		return nil, ErrMemberNotFound
	}
	if _, err := s.planStore.GetByID(ctx, req.PlanID); err != nil {
		return nil, ErrPlanNotFound
	}

	return s.repo.Assign(ctx, req)
}

func (s *service) Purchase(ctx context.Context, userID int, req PurchaseRequest) (*Membership, string, error) {
	m, err := s.memberRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, "", ErrMemberNotFound
	}

	p, err := s.planStore.GetActive(ctx, req.PlanID)
	if err != nil {
		return nil, "", ErrPlanNotFound
	}

	invoiceNumber := invoice.Number(time.Now())

	created, paymentID, err := s.repo.Purchase(ctx, PurchaseParams{
		MemberID:       m.ID,
		PlanID:         p.ID,
		PlanName:       p.Name,
		Price:          p.Price,
		DurationMonths: p.DurationMonths,
		TransactionID:  req.PaymentIntentID,
		InvoiceNumber:  invoiceNumber,
	})
	if err != nil {
		return nil, "", err
	}

	metrics.RecordMembershipPurchase()
	metrics.RecordPayment("membership", "completed")

	// The purchase is committed; everything below is best effort.
	s.finishPayment(ctx, paymentID, invoiceNumber, m, p.Price, "membership")

	return created, invoiceNumber, nil
}

// finishPayment renders the invoice and notifies the member after the
// transaction has committed. Failures are logged, never propagated.
func (s *service) finishPayment(ctx context.Context, paymentID int, invoiceNumber string, m *member.Member, amount float64, paymentType string) {
	withEmail, err := s.memberRepo.GetWithEmail(ctx, m.ID)
	if err != nil {
		logger.Errorf("Post-payment lookup failed for member %d: %v", m.ID, err)
		return
	}

	path, err := s.invoices.Generate(invoice.Details{
		InvoiceNumber: invoiceNumber,
		MemberName:    withEmail.FirstName + " " + withEmail.LastName,
		MemberEmail:   withEmail.Email,
		Amount:        amount,
		PaymentType:   paymentType,
		Date:          time.Now(),
	})
	if err != nil {
		logger.Errorf("Invoice generation failed for payment %d: %v", paymentID, err)
	} else if err := s.payments.SetInvoicePath(ctx, paymentID, path); err != nil {
		logger.Errorf("Failed to record invoice path for payment %d: %v", paymentID, err)
	}

	if err := s.notifier.SendPaymentConfirmation(ctx, withEmail.Email, withEmail.FirstName, amount, invoiceNumber); err != nil {
		logger.Errorf("Payment confirmation email failed for member %d: %v", m.ID, err)
	}
}

func (s *service) Get(ctx context.Context, id int) (*Membership, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, memberID int, status Status, page, limit int) ([]MembershipDetails, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	total, err := s.repo.Count(ctx, memberID, status)
	if err != nil {
		return nil, 0, err
	}

	memberships, err := s.repo.List(ctx, memberID, status, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	return memberships, total, nil
}

func (s *service) Update(ctx context.Context, id int, req UpdateRequest) error {
	return s.repo.Update(ctx, id, req)
}

func (s *service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) CheckExpiring(ctx context.Context, daysAhead int) ([]MembershipDetails, error) {
	if daysAhead < 1 {
		daysAhead = 7
	}
	return s.repo.ExpiringWithin(ctx, daysAhead)
}

// ExpireOverdue transitions every active membership past its end date.
// Safe to run repeatedly; an already-expired row no longer matches.
func (s *service) ExpireOverdue(ctx context.Context) (int64, error) {
	rows, err := s.repo.ExpireOverdue(ctx)
	if err != nil {
		return 0, err
	}
	metrics.RecordSweep("expire_memberships", rows)
	return rows, nil
}

// SendExpiryReminders notifies members whose membership ends in exactly 7,
// 3 or 1 day(s). No state is mutated.
func (s *service) SendExpiryReminders(ctx context.Context) error {
	for _, days := range []int{7, 3, 1} {
		expiring, err := s.repo.ExpiringInExactly(ctx, days)
		if err != nil {
			return err
		}

		for _, m := range expiring {
			if err := s.notifier.SendMembershipExpiryReminder(ctx, m.Email, m.FirstName, m.EndDate, days); err != nil {
				logger.Errorf("Expiry reminder failed for %s: %v", m.Email, err)
				continue
			}
			logger.Infof("Expiry reminder (%d days) sent to %s", days, m.Email)
		}
	}

	return nil
}

// AutoRenew renews every eligible membership in its own transaction, so a
// failure for one member never blocks the rest. Returns the renewal count.
func (s *service) AutoRenew(ctx context.Context) (int, error) {
	candidates, err := s.repo.AutoRenewCandidates(ctx)
	if err != nil {
		return 0, err
	}

	renewed := 0
	for _, cand := range candidates {
		invoiceNumber := invoice.Number(time.Now())

		if _, err := s.repo.Renew(ctx, cand, invoiceNumber); err != nil {
			logger.Errorf("Auto-renewal failed for member %d: %v", cand.MemberID, err)
			continue
		}

		renewed++
		metrics.RecordPayment("membership", "completed")

		if err := s.notifier.SendPaymentConfirmation(ctx, cand.Email, cand.FirstName, cand.PlanPrice, invoiceNumber); err != nil {
			logger.Errorf("Renewal confirmation email failed for %s: %v", cand.Email, err)
		}
	}

	return renewed, nil
}
