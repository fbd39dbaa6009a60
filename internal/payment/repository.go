package payment

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrNotPending      = errors.New("payment is not pending")
	ErrNotRefundable   = errors.New("payment is not refundable")
	ErrPlanNotFound    = errors.New("membership plan not found")
	ErrOrderNotPending = errors.New("order not found or not pending")
)

const paymentColumns = `id, member_id, amount, payment_type, payment_method, payment_status,
	transaction_id, invoice_number, invoice_path, order_id, description, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Process writes the payment row and applies its settlement effect in the
// same transaction: a membership payment retires the member's current
// active membership and opens the new one; a supplement payment completes
// the referenced order. Either everything lands or nothing does.
func (r *repository) Process(ctx context.Context, p ProcessParams) (*Payment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var transactionID *string
	if p.TransactionID != "" {
		transactionID = &p.TransactionID
	}

	var pay Payment
	err = tx.GetContext(ctx, &pay, `
		INSERT INTO payments (member_id, amount, payment_type, payment_method, payment_status, transaction_id, invoice_number, order_id, description)
		VALUES ($1, $2, $3, $4, 'completed', $5, $6, $7, $8)
		RETURNING `+paymentColumns,
		p.MemberID, p.Amount, string(p.Type), p.Method, transactionID, p.InvoiceNumber, p.OrderID, p.Description)
	if err != nil {
		return nil, err
	}

	switch {
	case p.Type == TypeMembership && p.PlanID != nil:
		if err := activateMembership(ctx, tx, p.MemberID, *p.PlanID); err != nil {
			return nil, err
		}
	case p.Type == TypeSupplement && p.OrderID != nil:
		if err := completeOrder(ctx, tx, *p.OrderID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &pay, nil
}

func activateMembership(ctx context.Context, tx *sqlx.Tx, memberID, planID int) error {
	var lockedID int
	if err := tx.GetContext(ctx, &lockedID,
		`SELECT id FROM members WHERE id = $1 FOR UPDATE`, memberID); err != nil {
		return err
	}

	var durationMonths int
	err := tx.GetContext(ctx, &durationMonths,
		`SELECT duration_months FROM membership_plans WHERE id = $1`, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPlanNotFound
		}
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE member_memberships SET status = 'expired', updated_at = NOW()
		 WHERE member_id = $1 AND status = 'active'`, memberID); err != nil {
		return err
	}

	startDate := time.Now().Format("2006-01-02")
	endDate := time.Now().AddDate(0, durationMonths, 0).Format("2006-01-02")

	_, err = tx.ExecContext(ctx, `
		INSERT INTO member_memberships (member_id, plan_id, start_date, end_date, status, auto_renewal)
		VALUES ($1, $2, $3, $4, 'active', false)`,
		memberID, planID, startDate, endDate)
	return err
}

func completeOrder(ctx context.Context, tx *sqlx.Tx, orderID int) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE supplement_orders SET status = 'completed' WHERE id = $1 AND status = 'pending'`, orderID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrOrderNotPending
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Payment, error) {
	var p Payment
	err := r.db.GetContext(ctx, &p,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *repository) List(ctx context.Context, memberID int, status Status, paymentType Type, limit, offset int) ([]PaymentWithMember, error) {
	query := `
		SELECT p.id, p.member_id, p.amount, p.payment_type, p.payment_method, p.payment_status,
		       p.transaction_id, p.invoice_number, p.invoice_path, p.order_id, p.description, p.created_at,
		       m.first_name, m.last_name, u.email
		FROM payments p
		JOIN members m ON p.member_id = m.id
		JOIN users u ON m.user_id = u.id
		WHERE ($1 = 0 OR p.member_id = $1)
		  AND ($2 = '' OR p.payment_status = $2)
		  AND ($3 = '' OR p.payment_type = $3)
		ORDER BY p.created_at DESC
		LIMIT $4 OFFSET $5
	`

	payments := []PaymentWithMember{}
	err := r.db.SelectContext(ctx, &payments, query,
		memberID, string(status), string(paymentType), limit, offset)
	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *repository) Count(ctx context.Context, memberID int, status Status, paymentType Type) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM payments
		WHERE ($1 = 0 OR member_id = $1)
		  AND ($2 = '' OR payment_status = $2)
		  AND ($3 = '' OR payment_type = $3)`,
		memberID, string(status), string(paymentType))
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *repository) MemberPayments(ctx context.Context, memberID int) ([]Payment, error) {
	payments := []Payment{}
	err := r.db.SelectContext(ctx, &payments, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE member_id = $1
		ORDER BY created_at DESC`, memberID)
	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *repository) Confirm(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE payments SET payment_status = 'completed' WHERE id = $1 AND payment_status = 'pending'`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotPending
	}

	return nil
}

func (r *repository) MarkRefunded(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE payments SET payment_status = 'refunded' WHERE id = $1 AND payment_status = 'completed'`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotRefundable
	}

	return nil
}

func (r *repository) SetInvoicePath(ctx context.Context, paymentID int, path string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE payments SET invoice_path = $2 WHERE id = $1`, paymentID, path)
	return err
}

// PendingOlderThan lists pending payments stale for more than the given
// number of days, with the member contact the reminder needs.
func (r *repository) PendingOlderThan(ctx context.Context, days int) ([]PendingReminder, error) {
	query := `
		SELECT p.id, p.amount, p.created_at, m.first_name, u.email
		FROM payments p
		JOIN members m ON p.member_id = m.id
		JOIN users u ON m.user_id = u.id
		WHERE p.payment_status = 'pending'
		  AND p.created_at < NOW() - ($1 || ' days')::interval
		ORDER BY p.created_at
	`

	reminders := []PendingReminder{}
	err := r.db.SelectContext(ctx, &reminders, query, days)
	if err != nil {
		return nil, err
	}

	return reminders, nil
}
