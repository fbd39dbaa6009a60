package payment

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

type Type string

const (
	TypeMembership      Type = "membership"
	TypeSupplement      Type = "supplement"
	TypeTrainingSession Type = "training_session"
)

type Payment struct {
	ID            int       `db:"id" json:"id"`
	MemberID      int       `db:"member_id" json:"member_id"`
	Amount        float64   `db:"amount" json:"amount"`
	PaymentType   Type      `db:"payment_type" json:"payment_type"`
	PaymentMethod string    `db:"payment_method" json:"payment_method"`
	PaymentStatus Status    `db:"payment_status" json:"payment_status"`
	TransactionID *string   `db:"transaction_id" json:"transaction_id,omitempty"`
	InvoiceNumber string    `db:"invoice_number" json:"invoice_number"`
	InvoicePath   *string   `db:"invoice_path" json:"invoice_path,omitempty"`
	OrderID       *int      `db:"order_id" json:"order_id,omitempty"`
	Description   string    `db:"description" json:"description"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type PaymentWithMember struct {
	Payment
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Email     string `db:"email" json:"email"`
}

// PendingReminder is a stale pending payment the reminder sweep emails
// about.
type PendingReminder struct {
	PaymentID int       `db:"id"`
	Email     string    `db:"email"`
	FirstName string    `db:"first_name"`
	Amount    float64   `db:"amount"`
	CreatedAt time.Time `db:"created_at"`
}

type ProcessRequest struct {
	MemberID      int     `json:"memberId" binding:"required"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Type          Type    `json:"type" binding:"required,oneof=membership supplement training_session"`
	Method        string  `json:"method" binding:"required"`
	TransactionID string  `json:"transactionId"`
	Description   string  `json:"description"`
	PlanID        *int    `json:"planId"`
	OrderID       *int    `json:"orderId"`
}
