package member

import "time"

type Member struct {
	ID          int       `db:"id" json:"id"`
	UserID      int       `db:"user_id" json:"user_id"`
	FirstName   string    `db:"first_name" json:"first_name"`
	LastName    string    `db:"last_name" json:"last_name"`
	Phone       string    `db:"phone" json:"phone"`
	DateOfBirth *string   `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender      *string   `db:"gender" json:"gender,omitempty"`
	HeightCM    *float64  `db:"height_cm" json:"height_cm,omitempty"`
	WeightKG    *float64  `db:"weight_kg" json:"weight_kg,omitempty"`
	BMI         *float64  `db:"bmi" json:"bmi,omitempty"`
	QRCode      *string   `db:"qr_code" json:"qr_code,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// MemberWithEmail joins in the owning user's email for notification sends.
type MemberWithEmail struct {
	Member
	Email string `db:"email" json:"email"`
}

type UpdateRequest struct {
	FirstName   *string  `json:"firstName"`
	LastName    *string  `json:"lastName"`
	Phone       *string  `json:"phone"`
	DateOfBirth *string  `json:"dateOfBirth"`
	Gender      *string  `json:"gender"`
	HeightCM    *float64 `json:"heightCm"`
	WeightKG    *float64 `json:"weightKg"`
}
