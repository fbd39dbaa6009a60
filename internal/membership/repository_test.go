package membership

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() {
		sqlxDB.Close()
	}

	return repo, mock, closer
}

func membershipRows(id, memberID, planID int, start, end string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "member_id", "plan_id", "start_date", "end_date",
		"status", "auto_renewal", "created_at", "updated_at",
	}).AddRow(id, memberID, planID, start, end, "active", false, now, now)
}

func TestAssign(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	req := AssignRequest{MemberID: 7, PlanID: 2, StartDate: "2026-09-01", EndDate: "2026-10-01"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM members WHERE id = $1 FOR UPDATE")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	// Prior active membership retired first.
	mock.ExpectExec("UPDATE member_memberships SET status = 'expired'").
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO member_memberships").
		WithArgs(7, 2, "2026-09-01", "2026-10-01", false).
		WillReturnRows(membershipRows(11, 7, 2, "2026-09-01", "2026-10-01"))
	mock.ExpectCommit()

	m, err := repo.Assign(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 11, m.ID)
	require.Equal(t, StatusActive, m.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchase(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	p := PurchaseParams{
		MemberID: 7, PlanID: 2, PlanName: "Monthly", Price: 49.90,
		DurationMonths: 1, TransactionID: "pi_123", InvoiceNumber: "INV-202608-1",
	}

	start := time.Now().Format("2006-01-02")
	end := time.Now().AddDate(0, 1, 0).Format("2006-01-02")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM members WHERE id = $1 FOR UPDATE")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec("UPDATE member_memberships SET status = 'expired'").
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("INSERT INTO member_memberships").
		WithArgs(7, 2, start, end).
		WillReturnRows(membershipRows(12, 7, 2, start, end))
	mock.ExpectQuery("INSERT INTO payments").
		WithArgs(7, 49.90, "pi_123", "INV-202608-1", "Monthly Membership Purchase").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectCommit()

	m, paymentID, err := repo.Purchase(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, 12, m.ID)
	require.Equal(t, 42, paymentID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchase_PaymentFailureRollsBack(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	p := PurchaseParams{MemberID: 7, PlanID: 2, PlanName: "Monthly", Price: 49.90, DurationMonths: 1, InvoiceNumber: "INV-202608-2"}

	start := time.Now().Format("2006-01-02")
	end := time.Now().AddDate(0, 1, 0).Format("2006-01-02")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM members WHERE id = $1 FOR UPDATE")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec("UPDATE member_memberships SET status = 'expired'").
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("INSERT INTO member_memberships").
		WithArgs(7, 2, start, end).
		WillReturnRows(membershipRows(13, 7, 2, start, end))
	mock.ExpectQuery("INSERT INTO payments").
		WillReturnError(errors.New("duplicate key value violates unique constraint"))
	mock.ExpectRollback()

	_, _, err := repo.Purchase(context.Background(), p)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRenew_RetiresExistingActive(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	// A stale candidate's end_date can come due after a purchase already
	// gave the member a new active membership; renewal must retire it the
	// same way Assign and Purchase do or the member ends up with two.
	cand := RenewCandidate{
		MembershipID: 5, MemberID: 7, PlanID: 2,
		DurationMonths: 1, PlanPrice: 49.90, PlanName: "Monthly",
	}

	start := time.Now().Format("2006-01-02")
	end := time.Now().AddDate(0, 1, 0).Format("2006-01-02")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM members WHERE id = $1 FOR UPDATE")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec("UPDATE member_memberships SET status = 'expired'").
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO member_memberships").
		WithArgs(7, 2, start, end).
		WillReturnRows(membershipRows(21, 7, 2, start, end))
	mock.ExpectExec("INSERT INTO payments").
		WithArgs(7, 49.90, "INV-202609-9").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	m, err := repo.Renew(context.Background(), cand, "INV-202609-9")
	require.NoError(t, err)
	require.Equal(t, 21, m.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExpireOverdue(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec("UPDATE member_memberships").
		WillReturnResult(sqlmock.NewResult(0, 3))

	rows, err := repo.ExpireOverdue(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	status := StatusCancelled
	mock.ExpectExec("UPDATE member_memberships").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), 99, UpdateRequest{Status: &status})
	require.ErrorIs(t, err, ErrMembershipNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
