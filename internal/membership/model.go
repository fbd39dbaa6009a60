package membership

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

const dateLayout = "2006-01-02"

type Membership struct {
	ID          int       `db:"id" json:"id"`
	MemberID    int       `db:"member_id" json:"member_id"`
	PlanID      int       `db:"plan_id" json:"plan_id"`
	StartDate   string    `db:"start_date" json:"start_date"`
	EndDate     string    `db:"end_date" json:"end_date"`
	Status      Status    `db:"status" json:"status"`
	AutoRenewal bool      `db:"auto_renewal" json:"auto_renewal"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// MembershipDetails joins member and plan data for listings and reminders.
type MembershipDetails struct {
	Membership
	FirstName     string  `db:"first_name" json:"first_name"`
	LastName      string  `db:"last_name" json:"last_name"`
	Email         string  `db:"email" json:"email"`
	PlanName      string  `db:"plan_name" json:"plan_name"`
	PlanPrice     float64 `db:"plan_price" json:"plan_price"`
	DaysRemaining int     `db:"days_remaining" json:"days_remaining"`
}

// RenewCandidate is a membership eligible for auto-renewal: expired exactly
// one day ago with the flag set.
type RenewCandidate struct {
	MembershipID   int     `db:"id"`
	MemberID       int     `db:"member_id"`
	PlanID         int     `db:"plan_id"`
	DurationMonths int     `db:"duration_months"`
	PlanPrice      float64 `db:"price"`
	PlanName       string  `db:"plan_name"`
	FirstName      string  `db:"first_name"`
	Email          string  `db:"email"`
}

type AssignRequest struct {
	MemberID    int    `json:"memberId" binding:"required"`
	PlanID      int    `json:"planId" binding:"required"`
	StartDate   string `json:"startDate" binding:"required"`
	EndDate     string `json:"endDate" binding:"required"`
	AutoRenewal bool   `json:"autoRenewal"`
}

type PurchaseRequest struct {
	PlanID          int    `json:"planId" binding:"required"`
	PaymentIntentID string `json:"paymentIntentId" binding:"required"`
}

type UpdateRequest struct {
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Status      *Status `json:"status"`
	PlanID      *int    `json:"planId"`
	AutoRenewal *bool   `json:"autoRenewal"`
}
