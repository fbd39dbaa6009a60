package payment

import "context"

type ProcessParams struct {
	MemberID      int
	Amount        float64
	Type          Type
	Method        string
	TransactionID string
	Description   string
	InvoiceNumber string
	PlanID        *int
	OrderID       *int
}

type Repository interface {
	Process(ctx context.Context, p ProcessParams) (*Payment, error)
	GetByID(ctx context.Context, id int) (*Payment, error)
	List(ctx context.Context, memberID int, status Status, paymentType Type, limit, offset int) ([]PaymentWithMember, error)
	Count(ctx context.Context, memberID int, status Status, paymentType Type) (int, error)
	MemberPayments(ctx context.Context, memberID int) ([]Payment, error)
	Confirm(ctx context.Context, id int) error
	MarkRefunded(ctx context.Context, id int) error
	SetInvoicePath(ctx context.Context, paymentID int, path string) error
	PendingOlderThan(ctx context.Context, days int) ([]PendingReminder, error)
}
