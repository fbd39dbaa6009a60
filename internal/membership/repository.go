package membership

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrMembershipNotFound = errors.New("membership not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Dates travel as YYYY-MM-DD strings end to end, so the DATE columns are
// formatted in SQL rather than scanned into time.Time.
const membershipColumns = `id, member_id, plan_id,
	to_char(start_date, 'YYYY-MM-DD') AS start_date,
	to_char(end_date, 'YYYY-MM-DD') AS end_date,
	status, auto_renewal, created_at, updated_at`

func (r *repository) Assign(ctx context.Context, req AssignRequest) (*Membership, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Serialize concurrent assigns/purchases for the same member.
	var memberID int
	if err := tx.GetContext(ctx, &memberID,
		`SELECT id FROM members WHERE id = $1 FOR UPDATE`, req.MemberID); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE member_memberships SET status = 'expired', updated_at = NOW()
		 WHERE member_id = $1 AND status = 'active'`, req.MemberID); err != nil {
		return nil, err
	}

	var m Membership
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO member_memberships (member_id, plan_id, start_date, end_date, status, auto_renewal)
		VALUES ($1, $2, $3, $4, 'active', $5)
		RETURNING `+membershipColumns,
		req.MemberID, req.PlanID, req.StartDate, req.EndDate, req.AutoRenewal,
	).StructScan(&m)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) Purchase(ctx context.Context, p PurchaseParams) (*Membership, int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, 0, err
	}
	defer tx.Rollback()

	var memberID int
	if err := tx.GetContext(ctx, &memberID,
		`SELECT id FROM members WHERE id = $1 FOR UPDATE`, p.MemberID); err != nil {
		return nil, 0, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE member_memberships SET status = 'expired', updated_at = NOW()
		 WHERE member_id = $1 AND status = 'active'`, p.MemberID); err != nil {
		return nil, 0, err
	}

	startDate := time.Now().Format(dateLayout)
	endDate := time.Now().AddDate(0, p.DurationMonths, 0).Format(dateLayout)

	var m Membership
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO member_memberships (member_id, plan_id, start_date, end_date, status, auto_renewal)
		VALUES ($1, $2, $3, $4, 'active', false)
		RETURNING `+membershipColumns,
		p.MemberID, p.PlanID, startDate, endDate,
	).StructScan(&m)
	if err != nil {
		return nil, 0, err
	}

	var paymentID int
	err = tx.GetContext(ctx, &paymentID, `
		INSERT INTO payments (member_id, amount, payment_type, payment_method, payment_status, transaction_id, invoice_number, description)
		VALUES ($1, $2, 'membership', 'stripe', 'completed', $3, $4, $5)
		RETURNING id`,
		p.MemberID, p.Price, p.TransactionID, p.InvoiceNumber, p.PlanName+" Membership Purchase")
	if err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, err
	}

	return &m, paymentID, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Membership, error) {
	var m Membership
	err := r.db.GetContext(ctx, &m,
		`SELECT `+membershipColumns+` FROM member_memberships WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) GetActiveForMember(ctx context.Context, memberID int) (*Membership, error) {
	var m Membership
	err := r.db.GetContext(ctx, &m, `
		SELECT `+membershipColumns+`
		FROM member_memberships
		WHERE member_id = $1 AND status = 'active'
		ORDER BY end_date DESC
		LIMIT 1`, memberID)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) List(ctx context.Context, memberID int, status Status, limit, offset int) ([]MembershipDetails, error) {
	query := `
		SELECT mm.id, mm.member_id, mm.plan_id,
		       to_char(mm.start_date, 'YYYY-MM-DD') AS start_date,
		       to_char(mm.end_date, 'YYYY-MM-DD') AS end_date,
		       mm.status, mm.auto_renewal, mm.created_at, mm.updated_at,
		       m.first_name, m.last_name, u.email,
		       mp.name AS plan_name, mp.price AS plan_price,
		       GREATEST(mm.end_date - CURRENT_DATE, 0) AS days_remaining
		FROM member_memberships mm
		JOIN members m ON mm.member_id = m.id
		JOIN users u ON m.user_id = u.id
		JOIN membership_plans mp ON mm.plan_id = mp.id
		WHERE ($1 = 0 OR mm.member_id = $1)
		  AND ($2 = '' OR mm.status = $2)
		ORDER BY mm.created_at DESC
		LIMIT $3 OFFSET $4
	`

	memberships := []MembershipDetails{}
	err := r.db.SelectContext(ctx, &memberships, query, memberID, string(status), limit, offset)
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *repository) Count(ctx context.Context, memberID int, status Status) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM member_memberships
		WHERE ($1 = 0 OR member_id = $1) AND ($2 = '' OR status = $2)`,
		memberID, string(status))
	return count, err
}

func (r *repository) Update(ctx context.Context, id int, req UpdateRequest) error {
	query := `
		UPDATE member_memberships SET
			start_date = COALESCE($1, start_date),
			end_date = COALESCE($2, end_date),
			status = COALESCE($3, status),
			plan_id = COALESCE($4, plan_id),
			auto_renewal = COALESCE($5, auto_renewal),
			updated_at = NOW()
		WHERE id = $6
	`

	result, err := r.db.ExecContext(ctx, query,
		req.StartDate, req.EndDate, req.Status, req.PlanID, req.AutoRenewal, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrMembershipNotFound
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM member_memberships WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrMembershipNotFound
	}

	return nil
}

func (r *repository) ExpiringWithin(ctx context.Context, daysAhead int) ([]MembershipDetails, error) {
	query := `
		SELECT mm.id, mm.member_id, mm.plan_id,
		       to_char(mm.start_date, 'YYYY-MM-DD') AS start_date,
		       to_char(mm.end_date, 'YYYY-MM-DD') AS end_date,
		       mm.status, mm.auto_renewal, mm.created_at, mm.updated_at,
		       m.first_name, m.last_name, u.email,
		       mp.name AS plan_name, mp.price AS plan_price,
		       mm.end_date - CURRENT_DATE AS days_remaining
		FROM member_memberships mm
		JOIN members m ON mm.member_id = m.id
		JOIN users u ON m.user_id = u.id
		JOIN membership_plans mp ON mm.plan_id = mp.id
		WHERE mm.status = 'active'
		  AND mm.end_date BETWEEN CURRENT_DATE AND CURRENT_DATE + $1
		ORDER BY mm.end_date ASC
	`

	memberships := []MembershipDetails{}
	err := r.db.SelectContext(ctx, &memberships, query, daysAhead)
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

// ExpiringInExactly matches on equality so the reminder fires once per
// threshold day, never as a range.
func (r *repository) ExpiringInExactly(ctx context.Context, days int) ([]MembershipDetails, error) {
	query := `
		SELECT mm.id, mm.member_id, mm.plan_id,
		       to_char(mm.start_date, 'YYYY-MM-DD') AS start_date,
		       to_char(mm.end_date, 'YYYY-MM-DD') AS end_date,
		       mm.status, mm.auto_renewal, mm.created_at, mm.updated_at,
		       m.first_name, m.last_name, u.email,
		       mp.name AS plan_name, mp.price AS plan_price,
		       mm.end_date - CURRENT_DATE AS days_remaining
		FROM member_memberships mm
		JOIN members m ON mm.member_id = m.id
		JOIN users u ON m.user_id = u.id
		JOIN membership_plans mp ON mm.plan_id = mp.id
		WHERE mm.status = 'active'
		  AND mm.end_date = CURRENT_DATE + $1
	`

	memberships := []MembershipDetails{}
	err := r.db.SelectContext(ctx, &memberships, query, days)
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *repository) ExpireOverdue(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE member_memberships
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'active' AND end_date < CURRENT_DATE`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *repository) AutoRenewCandidates(ctx context.Context) ([]RenewCandidate, error) {
	query := `
		SELECT mm.id, mm.member_id, mm.plan_id,
		       mp.duration_months, mp.price, mp.name AS plan_name,
		       m.first_name, u.email
		FROM member_memberships mm
		JOIN membership_plans mp ON mm.plan_id = mp.id
		JOIN members m ON mm.member_id = m.id
		JOIN users u ON m.user_id = u.id
		WHERE mm.auto_renewal = true
		  AND mm.status = 'expired'
		  AND mm.end_date = CURRENT_DATE - 1
	`

	candidates := []RenewCandidate{}
	err := r.db.SelectContext(ctx, &candidates, query)
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

func (r *repository) Renew(ctx context.Context, cand RenewCandidate, invoiceNumber string) (*Membership, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var memberID int
	if err := tx.GetContext(ctx, &memberID,
		`SELECT id FROM members WHERE id = $1 FOR UPDATE`, cand.MemberID); err != nil {
		return nil, err
	}

	// A candidate row's end_date can come around again after a purchase has
	// already replaced it, so retire whatever is active before inserting.
	if _, err := tx.ExecContext(ctx,
		`UPDATE member_memberships SET status = 'expired', updated_at = NOW()
		 WHERE member_id = $1 AND status = 'active'`, cand.MemberID); err != nil {
		return nil, err
	}

	startDate := time.Now().Format(dateLayout)
	endDate := time.Now().AddDate(0, cand.DurationMonths, 0).Format(dateLayout)

	var m Membership
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO member_memberships (member_id, plan_id, start_date, end_date, status, auto_renewal)
		VALUES ($1, $2, $3, $4, 'active', true)
		RETURNING `+membershipColumns,
		cand.MemberID, cand.PlanID, startDate, endDate,
	).StructScan(&m)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO payments (member_id, amount, payment_type, payment_method, payment_status, invoice_number, description)
		VALUES ($1, $2, 'membership', 'auto-renewal', 'completed', $3, 'Auto-renewed membership')`,
		cand.MemberID, cand.PlanPrice, invoiceNumber)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &m, nil
}
