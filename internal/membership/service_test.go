package membership

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/Arulthas05/gym-management-backend/internal/invoice"
	"github.com/Arulthas05/gym-management-backend/internal/logger"
	"github.com/Arulthas05/gym-management-backend/internal/member"
	"github.com/Arulthas05/gym-management-backend/internal/plan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

// Mock repositories
type MockMembershipRepo struct{ mock.Mock }
type MockMemberRepo struct{ mock.Mock }
type MockPlanStore struct{ mock.Mock }
type MockPaymentStore struct{ mock.Mock }
type MockNotifier struct{ mock.Mock }
type MockInvoicer struct{ mock.Mock }

func (m *MockMembershipRepo) Assign(ctx context.Context, req AssignRequest) (*Membership, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Membership), args.Error(1)
}

func (m *MockMembershipRepo) Purchase(ctx context.Context, p PurchaseParams) (*Membership, int, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).(*Membership), args.Int(1), args.Error(2)
}

func (m *MockMembershipRepo) GetByID(ctx context.Context, id int) (*Membership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Membership), args.Error(1)
}

func (m *MockMembershipRepo) GetActiveForMember(ctx context.Context, memberID int) (*Membership, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Membership), args.Error(1)
}

func (m *MockMembershipRepo) List(ctx context.Context, memberID int, status Status, limit, offset int) ([]MembershipDetails, error) {
	args := m.Called(ctx, memberID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]MembershipDetails), args.Error(1)
}

func (m *MockMembershipRepo) Count(ctx context.Context, memberID int, status Status) (int, error) {
	args := m.Called(ctx, memberID, status)
	return args.Int(0), args.Error(1)
}

func (m *MockMembershipRepo) Update(ctx context.Context, id int, req UpdateRequest) error {
	return m.Called(ctx, id, req).Error(0)
}

func (m *MockMembershipRepo) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockMembershipRepo) ExpiringWithin(ctx context.Context, daysAhead int) ([]MembershipDetails, error) {
	args := m.Called(ctx, daysAhead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]MembershipDetails), args.Error(1)
}

func (m *MockMembershipRepo) ExpiringInExactly(ctx context.Context, days int) ([]MembershipDetails, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]MembershipDetails), args.Error(1)
}

func (m *MockMembershipRepo) ExpireOverdue(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMembershipRepo) AutoRenewCandidates(ctx context.Context) ([]RenewCandidate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]RenewCandidate), args.Error(1)
}

func (m *MockMembershipRepo) Renew(ctx context.Context, cand RenewCandidate, invoiceNumber string) (*Membership, error) {
	args := m.Called(ctx, cand, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Membership), args.Error(1)
}

func (m *MockMemberRepo) Create(ctx context.Context, userID int, firstName, lastName, phone string) (*member.Member, error) {
	args := m.Called(ctx, userID, firstName, lastName, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberRepo) GetByID(ctx context.Context, id int) (*member.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberRepo) GetByUserID(ctx context.Context, userID int) (*member.Member, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.Member), args.Error(1)
}

func (m *MockMemberRepo) GetWithEmail(ctx context.Context, id int) (*member.MemberWithEmail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*member.MemberWithEmail), args.Error(1)
}

func (m *MockMemberRepo) List(ctx context.Context, search string, limit, offset int) ([]member.MemberWithEmail, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]member.MemberWithEmail), args.Error(1)
}

func (m *MockMemberRepo) Count(ctx context.Context, search string) (int, error) {
	args := m.Called(ctx, search)
	return args.Int(0), args.Error(1)
}

func (m *MockMemberRepo) Update(ctx context.Context, id int, req member.UpdateRequest, bmi *float64) error {
	return m.Called(ctx, id, req, bmi).Error(0)
}

func (m *MockMemberRepo) SetQRCode(ctx context.Context, id int, qrPath string) error {
	return m.Called(ctx, id, qrPath).Error(0)
}

func (m *MockMemberRepo) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPlanStore) GetByID(ctx context.Context, id int) (*plan.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.Plan), args.Error(1)
}

func (m *MockPlanStore) GetActive(ctx context.Context, id int) (*plan.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.Plan), args.Error(1)
}

func (m *MockPaymentStore) SetInvoicePath(ctx context.Context, paymentID int, path string) error {
	return m.Called(ctx, paymentID, path).Error(0)
}

func (m *MockNotifier) SendMembershipExpiryReminder(ctx context.Context, email, name, endDate string, daysLeft int) error {
	return m.Called(ctx, email, name, endDate, daysLeft).Error(0)
}

func (m *MockNotifier) SendPaymentConfirmation(ctx context.Context, email, name string, amount float64, invoiceNumber string) error {
	return m.Called(ctx, email, name, amount, invoiceNumber).Error(0)
}

func (m *MockInvoicer) Generate(d invoice.Details) (string, error) {
	args := m.Called(d)
	return args.String(0), args.Error(1)
}

func newTestService() (Service, *MockMembershipRepo, *MockMemberRepo, *MockPlanStore, *MockPaymentStore, *MockNotifier, *MockInvoicer) {
	repo := new(MockMembershipRepo)
	mr := new(MockMemberRepo)
	ps := new(MockPlanStore)
	pay := new(MockPaymentStore)
	n := new(MockNotifier)
	inv := new(MockInvoicer)
	return NewService(repo, mr, ps, pay, n, inv), repo, mr, ps, pay, n, inv
}

func TestService_Purchase(t *testing.T) {
	monthly := &plan.Plan{ID: 2, Name: "Monthly", Price: 49.90, DurationMonths: 1, IsActive: true}

	t.Run("purchase succeeds and finishes payment", func(t *testing.T) {
		svc, repo, mr, ps, pay, n, inv := newTestService()

		mr.On("GetByUserID", mock.Anything, 10).Return(&member.Member{ID: 7, FirstName: "Nina", LastName: "Silva"}, nil)
		ps.On("GetActive", mock.Anything, 2).Return(monthly, nil)
		repo.On("Purchase", mock.Anything, mock.MatchedBy(func(p PurchaseParams) bool {
			return p.MemberID == 7 && p.PlanID == 2 && p.Price == 49.90 && p.TransactionID == "pi_123" && p.InvoiceNumber != ""
		})).Return(&Membership{ID: 1, MemberID: 7, PlanID: 2, Status: StatusActive}, 42, nil)
		mr.On("GetWithEmail", mock.Anything, 7).Return(&member.MemberWithEmail{
			Member: member.Member{ID: 7, FirstName: "Nina", LastName: "Silva"}, Email: "nina@example.com",
		}, nil)
		inv.On("Generate", mock.Anything).Return("uploads/invoices/INV-1.pdf", nil)
		pay.On("SetInvoicePath", mock.Anything, 42, "uploads/invoices/INV-1.pdf").Return(nil)
		n.On("SendPaymentConfirmation", mock.Anything, "nina@example.com", "Nina", 49.90, mock.Anything).Return(nil)

		created, invoiceNumber, err := svc.Purchase(context.Background(), 10, PurchaseRequest{PlanID: 2, PaymentIntentID: "pi_123"})
		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.NotEmpty(t, invoiceNumber)
		repo.AssertExpectations(t)
		pay.AssertExpectations(t)
	})

	t.Run("invoice failure does not fail the purchase", func(t *testing.T) {
		svc, repo, mr, ps, pay, n, inv := newTestService()

		mr.On("GetByUserID", mock.Anything, 10).Return(&member.Member{ID: 7}, nil)
		ps.On("GetActive", mock.Anything, 2).Return(monthly, nil)
		repo.On("Purchase", mock.Anything, mock.Anything).Return(&Membership{ID: 1, Status: StatusActive}, 42, nil)
		mr.On("GetWithEmail", mock.Anything, 7).Return(&member.MemberWithEmail{Email: "nina@example.com"}, nil)
		inv.On("Generate", mock.Anything).Return("", errors.New("pdf write failed"))
		n.On("SendPaymentConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		_, _, err := svc.Purchase(context.Background(), 10, PurchaseRequest{PlanID: 2, PaymentIntentID: "pi_123"})
		assert.NoError(t, err)
		pay.AssertNotCalled(t, "SetInvoicePath", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("inactive plan rejected before any write", func(t *testing.T) {
		svc, repo, mr, ps, _, _, _ := newTestService()

		mr.On("GetByUserID", mock.Anything, 10).Return(&member.Member{ID: 7}, nil)
		ps.On("GetActive", mock.Anything, 9).Return(nil, errors.New("sql: no rows in result set"))

		_, _, err := svc.Purchase(context.Background(), 10, PurchaseRequest{PlanID: 9, PaymentIntentID: "pi_123"})
		assert.ErrorIs(t, err, ErrPlanNotFound)
		repo.AssertNotCalled(t, "Purchase", mock.Anything, mock.Anything)
	})

	t.Run("unknown user rejected", func(t *testing.T) {
		svc, repo, mr, _, _, _, _ := newTestService()

		mr.On("GetByUserID", mock.Anything, 99).Return(nil, errors.New("sql: no rows in result set"))

		_, _, err := svc.Purchase(context.Background(), 99, PurchaseRequest{PlanID: 2, PaymentIntentID: "pi_123"})
		assert.ErrorIs(t, err, ErrMemberNotFound)
		repo.AssertNotCalled(t, "Purchase", mock.Anything, mock.Anything)
	})
}

func TestService_Assign(t *testing.T) {
	svc, repo, mr, ps, _, _, _ := newTestService()

	req := AssignRequest{MemberID: 7, PlanID: 2, StartDate: "2026-09-01", EndDate: "2026-10-01"}

	mr.On("GetByID", mock.Anything, 7).Return(&member.Member{ID: 7}, nil)
	ps.On("GetByID", mock.Anything, 2).Return(&plan.Plan{ID: 2}, nil)
	repo.On("Assign", mock.Anything, req).Return(&Membership{ID: 3, MemberID: 7, Status: StatusActive}, nil)

	created, err := svc.Assign(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, StatusActive, created.Status)
	repo.AssertExpectations(t)
}

func TestService_ExpireOverdue(t *testing.T) {
	svc, repo, _, _, _, _, _ := newTestService()

	repo.On("ExpireOverdue", mock.Anything).Return(int64(5), nil).Once()
	rows, err := svc.ExpireOverdue(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(5), rows)

	// second sweep matches nothing
	repo.On("ExpireOverdue", mock.Anything).Return(int64(0), nil).Once()
	rows, err = svc.ExpireOverdue(context.Background())
	assert.NoError(t, err)
	assert.Zero(t, rows)
}

func TestService_SendExpiryReminders(t *testing.T) {
	svc, repo, _, _, _, n, _ := newTestService()

	repo.On("ExpiringInExactly", mock.Anything, 7).Return([]MembershipDetails{
		{Membership: Membership{ID: 1, EndDate: "2026-09-06"}, Email: "a@example.com", FirstName: "Amal"},
	}, nil)
	repo.On("ExpiringInExactly", mock.Anything, 3).Return([]MembershipDetails{}, nil)
	repo.On("ExpiringInExactly", mock.Anything, 1).Return([]MembershipDetails{
		{Membership: Membership{ID: 2, EndDate: "2026-08-31"}, Email: "b@example.com", FirstName: "Bimal"},
	}, nil)
	n.On("SendMembershipExpiryReminder", mock.Anything, "a@example.com", "Amal", "2026-09-06", 7).Return(nil)
	n.On("SendMembershipExpiryReminder", mock.Anything, "b@example.com", "Bimal", "2026-08-31", 1).Return(errors.New("smtp down"))

	// One failed send does not fail the sweep.
	err := svc.SendExpiryReminders(context.Background())
	assert.NoError(t, err)
	n.AssertExpectations(t)
}

func TestService_AutoRenew(t *testing.T) {
	svc, repo, _, _, _, n, _ := newTestService()

	candidates := []RenewCandidate{
		{MembershipID: 1, MemberID: 7, PlanID: 2, DurationMonths: 1, PlanPrice: 49.90, PlanName: "Monthly", FirstName: "Nina", Email: "nina@example.com"},
		{MembershipID: 2, MemberID: 8, PlanID: 2, DurationMonths: 1, PlanPrice: 49.90, PlanName: "Monthly", FirstName: "Ray", Email: "ray@example.com"},
	}

	repo.On("AutoRenewCandidates", mock.Anything).Return(candidates, nil)
	repo.On("Renew", mock.Anything, candidates[0], mock.Anything).Return(&Membership{ID: 10, Status: StatusActive}, nil)
	// One failing renewal does not block the other.
	repo.On("Renew", mock.Anything, candidates[1], mock.Anything).Return(nil, errors.New("deadlock detected"))
	n.On("SendPaymentConfirmation", mock.Anything, "nina@example.com", "Nina", 49.90, mock.Anything).Return(nil)

	renewed, err := svc.AutoRenew(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, renewed)
	n.AssertNotCalled(t, "SendPaymentConfirmation", mock.Anything, "ray@example.com", mock.Anything, mock.Anything, mock.Anything)
}
