package supplement

import "context"

type PurchaseParams struct {
	MemberID      int
	SupplementID  int
	Quantity      int
	TransactionID string
	InvoiceNumber string
}

type Repository interface {
	Create(ctx context.Context, req CreateRequest) (*Supplement, error)
	GetByID(ctx context.Context, id int) (*Supplement, error)
	List(ctx context.Context, category string, onlyActive bool, limit, offset int) ([]Supplement, error)
	Count(ctx context.Context, category string, onlyActive bool) (int, error)
	Update(ctx context.Context, id int, req UpdateRequest) error
	Delete(ctx context.Context, id int) error

	CreateOrder(ctx context.Context, memberID int, items []OrderItemRequest) (*OrderWithItems, error)
	Purchase(ctx context.Context, p PurchaseParams) (*OrderWithItems, int, error)
	GetOrder(ctx context.Context, orderID int) (*OrderWithItems, error)
	MemberOrders(ctx context.Context, memberID int) ([]OrderWithItems, error)
	CompleteOrder(ctx context.Context, orderID int) error
}
