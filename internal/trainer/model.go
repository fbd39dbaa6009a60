package trainer

import "time"

type Trainer struct {
	ID             int       `db:"id" json:"id"`
	UserID         int       `db:"user_id" json:"user_id"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	Phone          string    `db:"phone" json:"phone"`
	Specialization string    `db:"specialization" json:"specialization"`
	HourlyRate     float64   `db:"hourly_rate" json:"hourly_rate"`
	IsAvailable    bool      `db:"is_available" json:"is_available"`
	Rating         float64   `db:"rating" json:"rating"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type CreateRequest struct {
	UserID         int     `json:"userId" binding:"required"`
	FirstName      string  `json:"firstName" binding:"required"`
	LastName       string  `json:"lastName" binding:"required"`
	Phone          string  `json:"phone"`
	Specialization string  `json:"specialization"`
	HourlyRate     float64 `json:"hourlyRate" binding:"gte=0"`
}

type UpdateRequest struct {
	FirstName      *string  `json:"firstName"`
	LastName       *string  `json:"lastName"`
	Phone          *string  `json:"phone"`
	Specialization *string  `json:"specialization"`
	HourlyRate     *float64 `json:"hourlyRate"`
	IsAvailable    *bool    `json:"isAvailable"`
	Rating         *float64 `json:"rating"`
}
