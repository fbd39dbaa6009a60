package trainer

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrTrainerNotFound = errors.New("trainer not found")

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const trainerColumns = `id, user_id, first_name, last_name, phone, specialization, hourly_rate, is_available, rating, created_at`

func (r *Repository) Create(ctx context.Context, req CreateRequest) (*Trainer, error) {
	query := `
		INSERT INTO trainers (user_id, first_name, last_name, phone, specialization, hourly_rate)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + trainerColumns

	var t Trainer
	err := r.db.GetContext(ctx, &t, query,
		req.UserID, req.FirstName, req.LastName, req.Phone, req.Specialization, req.HourlyRate)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*Trainer, error) {
	var t Trainer
	err := r.db.GetContext(ctx, &t, `SELECT `+trainerColumns+` FROM trainers WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetAvailable returns the trainer only when bookable.
func (r *Repository) GetAvailable(ctx context.Context, id int) (*Trainer, error) {
	var t Trainer
	err := r.db.GetContext(ctx, &t,
		`SELECT `+trainerColumns+` FROM trainers WHERE id = $1 AND is_available = true`, id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repository) List(ctx context.Context, onlyAvailable bool) ([]Trainer, error) {
	query := `SELECT ` + trainerColumns + ` FROM trainers`
	if onlyAvailable {
		query += ` WHERE is_available = true`
	}
	query += ` ORDER BY rating DESC, last_name ASC`

	trainers := []Trainer{}
	err := r.db.SelectContext(ctx, &trainers, query)
	if err != nil {
		return nil, err
	}
	return trainers, nil
}

func (r *Repository) Update(ctx context.Context, id int, req UpdateRequest) error {
	query := `
		UPDATE trainers SET
			first_name = COALESCE($1, first_name),
			last_name = COALESCE($2, last_name),
			phone = COALESCE($3, phone),
			specialization = COALESCE($4, specialization),
			hourly_rate = COALESCE($5, hourly_rate),
			is_available = COALESCE($6, is_available),
			rating = COALESCE($7, rating)
		WHERE id = $8
	`

	result, err := r.db.ExecContext(ctx, query,
		req.FirstName, req.LastName, req.Phone, req.Specialization,
		req.HourlyRate, req.IsAvailable, req.Rating, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrTrainerNotFound
	}

	return nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trainers WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrTrainerNotFound
	}

	return nil
}
