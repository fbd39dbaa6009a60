package plan

import "time"

type Plan struct {
	ID             int       `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Description    string    `db:"description" json:"description"`
	Price          float64   `db:"price" json:"price"`
	DurationMonths int       `db:"duration_months" json:"duration_months"`
	Features       Features  `db:"features" json:"features"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Popular mirrors the storefront highlighting rule: longer commitments get
// flagged.
func (p *Plan) Popular() bool {
	return p.DurationMonths >= 6
}

type CreateRequest struct {
	Name           string   `json:"name" binding:"required"`
	Description    string   `json:"description"`
	Price          float64  `json:"price" binding:"required,gt=0"`
	DurationMonths int      `json:"durationMonths" binding:"required,gte=1"`
	Features       []string `json:"features"`
}

type UpdateRequest struct {
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	Price          *float64 `json:"price"`
	DurationMonths *int     `json:"durationMonths"`
	Features       []string `json:"features"`
	IsActive       *bool    `json:"isActive"`
}
