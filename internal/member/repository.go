package member

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrMemberNotFound = errors.New("member not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const memberColumns = `id, user_id, first_name, last_name, phone,
	to_char(date_of_birth, 'YYYY-MM-DD') AS date_of_birth,
	gender, height_cm, weight_kg, bmi, qr_code, created_at`

func (r *repository) Create(ctx context.Context, userID int, firstName, lastName, phone string) (*Member, error) {
	query := `
		INSERT INTO members (user_id, first_name, last_name, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + memberColumns

	var m Member
	err := r.db.GetContext(ctx, &m, query, userID, firstName, lastName, phone)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Member, error) {
	var m Member
	err := r.db.GetContext(ctx, &m, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) GetByUserID(ctx context.Context, userID int) (*Member, error) {
	var m Member
	err := r.db.GetContext(ctx, &m, `SELECT `+memberColumns+` FROM members WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) GetWithEmail(ctx context.Context, id int) (*MemberWithEmail, error) {
	query := `
		SELECT m.id, m.user_id, m.first_name, m.last_name, m.phone,
		       to_char(m.date_of_birth, 'YYYY-MM-DD') AS date_of_birth,
		       m.gender, m.height_cm, m.weight_kg, m.bmi, m.qr_code, m.created_at,
		       u.email
		FROM members m
		JOIN users u ON m.user_id = u.id
		WHERE m.id = $1
	`

	var m MemberWithEmail
	err := r.db.GetContext(ctx, &m, query, id)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) List(ctx context.Context, search string, limit, offset int) ([]MemberWithEmail, error) {
	query := `
		SELECT m.id, m.user_id, m.first_name, m.last_name, m.phone,
		       to_char(m.date_of_birth, 'YYYY-MM-DD') AS date_of_birth,
		       m.gender, m.height_cm, m.weight_kg, m.bmi, m.qr_code, m.created_at,
		       u.email
		FROM members m
		JOIN users u ON m.user_id = u.id
		WHERE ($1 = '' OR m.first_name ILIKE '%' || $1 || '%' OR m.last_name ILIKE '%' || $1 || '%' OR u.email ILIKE '%' || $1 || '%')
		ORDER BY m.created_at DESC
		LIMIT $2 OFFSET $3
	`

	members := []MemberWithEmail{}
	err := r.db.SelectContext(ctx, &members, query, search, limit, offset)
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *repository) Count(ctx context.Context, search string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM members m
		JOIN users u ON m.user_id = u.id
		WHERE ($1 = '' OR m.first_name ILIKE '%' || $1 || '%' OR m.last_name ILIKE '%' || $1 || '%' OR u.email ILIKE '%' || $1 || '%')
	`

	var count int
	err := r.db.GetContext(ctx, &count, query, search)
	return count, err
}

func (r *repository) Update(ctx context.Context, id int, req UpdateRequest, bmi *float64) error {
	query := `
		UPDATE members SET
			first_name = COALESCE($1, first_name),
			last_name = COALESCE($2, last_name),
			phone = COALESCE($3, phone),
			date_of_birth = COALESCE($4, date_of_birth),
			gender = COALESCE($5, gender),
			height_cm = COALESCE($6, height_cm),
			weight_kg = COALESCE($7, weight_kg),
			bmi = COALESCE($8, bmi)
		WHERE id = $9
	`

	result, err := r.db.ExecContext(ctx, query,
		req.FirstName, req.LastName, req.Phone, req.DateOfBirth,
		req.Gender, req.HeightCM, req.WeightKG, bmi, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrMemberNotFound
	}

	return nil
}

func (r *repository) SetQRCode(ctx context.Context, id int, qrPath string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE members SET qr_code = $1 WHERE id = $2`, qrPath, id)
	return err
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrMemberNotFound
	}

	return nil
}
