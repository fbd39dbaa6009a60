package supplement

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

type Supplement struct {
	ID            int       `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Description   string    `db:"description" json:"description"`
	Category      string    `db:"category" json:"category"`
	Price         float64   `db:"price" json:"price"`
	StockQuantity int       `db:"stock_quantity" json:"stock_quantity"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type Order struct {
	ID          int         `db:"id" json:"id"`
	MemberID    int         `db:"member_id" json:"member_id"`
	TotalAmount float64     `db:"total_amount" json:"total_amount"`
	Status      OrderStatus `db:"status" json:"status"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
}

// OrderItem captures the unit price at order time; later catalog price
// changes do not rewrite history.
type OrderItem struct {
	ID           int     `db:"id" json:"id"`
	OrderID      int     `db:"order_id" json:"order_id"`
	SupplementID int     `db:"supplement_id" json:"supplement_id"`
	Quantity     int     `db:"quantity" json:"quantity"`
	UnitPrice    float64 `db:"unit_price" json:"unit_price"`
}

type OrderItemDetails struct {
	OrderItem
	SupplementName string `db:"supplement_name" json:"supplement_name"`
}

type OrderWithItems struct {
	Order
	Items []OrderItemDetails `json:"items"`
}

type CreateRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	StockQuantity int     `json:"stockQuantity" binding:"gte=0"`
}

type UpdateRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Category      *string  `json:"category"`
	Price         *float64 `json:"price"`
	StockQuantity *int     `json:"stockQuantity"`
	IsActive      *bool    `json:"isActive"`
}

type OrderItemRequest struct {
	SupplementID int `json:"supplementId" binding:"required"`
	Quantity     int `json:"quantity" binding:"required,gt=0"`
}

type CreateOrderRequest struct {
	MemberID int                `json:"memberId"`
	Items    []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type PurchaseRequest struct {
	SupplementID    int    `json:"supplementId" binding:"required"`
	Quantity        int    `json:"quantity" binding:"required,gt=0"`
	PaymentIntentID string `json:"paymentIntentId"`
}
