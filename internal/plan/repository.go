package plan

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrPlanNotFound = errors.New("membership plan not found")

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const planColumns = `id, name, description, price, duration_months, features, is_active, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, req CreateRequest) (*Plan, error) {
	query := `
		INSERT INTO membership_plans (name, description, price, duration_months, features)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + planColumns

	var p Plan
	err := r.db.GetContext(ctx, &p, query,
		req.Name, req.Description, req.Price, req.DurationMonths, Features(req.Features))
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*Plan, error) {
	var p Plan
	err := r.db.GetContext(ctx, &p, `SELECT `+planColumns+` FROM membership_plans WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetActive returns the plan only when it can still be purchased.
func (r *Repository) GetActive(ctx context.Context, id int) (*Plan, error) {
	var p Plan
	err := r.db.GetContext(ctx, &p,
		`SELECT `+planColumns+` FROM membership_plans WHERE id = $1 AND is_active = true`, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) ListActive(ctx context.Context) ([]Plan, error) {
	plans := []Plan{}
	err := r.db.SelectContext(ctx, &plans,
		`SELECT `+planColumns+` FROM membership_plans WHERE is_active = true ORDER BY price ASC`)
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *Repository) Update(ctx context.Context, id int, req UpdateRequest) error {
	var features interface{}
	if req.Features != nil {
		features = Features(req.Features)
	}

	query := `
		UPDATE membership_plans SET
			name = COALESCE($1, name),
			description = COALESCE($2, description),
			price = COALESCE($3, price),
			duration_months = COALESCE($4, duration_months),
			features = COALESCE($5, features),
			is_active = COALESCE($6, is_active),
			updated_at = NOW()
		WHERE id = $7
	`

	result, err := r.db.ExecContext(ctx, query,
		req.Name, req.Description, req.Price, req.DurationMonths, features, req.IsActive, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPlanNotFound
	}

	return nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM membership_plans WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPlanNotFound
	}

	return nil
}
