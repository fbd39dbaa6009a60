package supplement

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/jmoiron/sqlx"
)

var (
	ErrSupplementNotFound = errors.New("supplement not found or inactive")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrOrderNotFound      = errors.New("order not found")
)

const supplementColumns = `id, name, description, category, price, stock_quantity, is_active, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req CreateRequest) (*Supplement, error) {
	query := `
		INSERT INTO supplements (name, description, category, price, stock_quantity, is_active)
		VALUES ($1, $2, $3, $4, $5, true)
		RETURNING ` + supplementColumns

	var s Supplement
	err := r.db.GetContext(ctx, &s, query,
		req.Name, req.Description, req.Category, req.Price, req.StockQuantity)
	if err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Supplement, error) {
	var s Supplement
	err := r.db.GetContext(ctx, &s,
		`SELECT `+supplementColumns+` FROM supplements WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSupplementNotFound
		}
		return nil, err
	}

	return &s, nil
}

func (r *repository) List(ctx context.Context, category string, onlyActive bool, limit, offset int) ([]Supplement, error) {
	query := `
		SELECT ` + supplementColumns + `
		FROM supplements
		WHERE ($1 = '' OR category = $1)
		  AND (NOT $2 OR is_active)
		ORDER BY name
		LIMIT $3 OFFSET $4
	`

	var supplements []Supplement
	err := r.db.SelectContext(ctx, &supplements, query, category, onlyActive, limit, offset)
	if err != nil {
		return nil, err
	}

	return supplements, nil
}

func (r *repository) Count(ctx context.Context, category string, onlyActive bool) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM supplements
		WHERE ($1 = '' OR category = $1)
		  AND (NOT $2 OR is_active)`, category, onlyActive)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *repository) Update(ctx context.Context, id int, req UpdateRequest) error {
	query := `
		UPDATE supplements SET
			name = COALESCE($1, name),
			description = COALESCE($2, description),
			category = COALESCE($3, category),
			price = COALESCE($4, price),
			stock_quantity = COALESCE($5, stock_quantity),
			is_active = COALESCE($6, is_active)
		WHERE id = $7
	`

	result, err := r.db.ExecContext(ctx, query,
		req.Name, req.Description, req.Category, req.Price, req.StockQuantity, req.IsActive, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrSupplementNotFound
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM supplements WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrSupplementNotFound
	}

	return nil
}

// lockAndDecrement locks the supplement row, verifies it is active with
// enough stock, decrements, and returns the price snapshot. Locking rows
// in a fixed order (callers sort by supplement id) keeps two overlapping
// multi-item orders from deadlocking.
func lockAndDecrement(ctx context.Context, tx *sqlx.Tx, supplementID, quantity int) (float64, error) {
	var row struct {
		Price         float64 `db:"price"`
		StockQuantity int     `db:"stock_quantity"`
		IsActive      bool    `db:"is_active"`
	}

	err := tx.GetContext(ctx, &row, `
		SELECT price, stock_quantity, is_active
		FROM supplements
		WHERE id = $1
		FOR UPDATE`, supplementID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrSupplementNotFound
		}
		return 0, err
	}

	if !row.IsActive {
		return 0, ErrSupplementNotFound
	}
	if row.StockQuantity < quantity {
		return 0, ErrInsufficientStock
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE supplements SET stock_quantity = stock_quantity - $2 WHERE id = $1`,
		supplementID, quantity)
	if err != nil {
		return 0, err
	}

	return row.Price, nil
}

func insertOrderItems(ctx context.Context, tx *sqlx.Tx, orderID int, items []OrderItemRequest, prices map[int]float64) ([]OrderItemDetails, error) {
	details := make([]OrderItemDetails, 0, len(items))

	for _, item := range items {
		query := `
			INSERT INTO supplement_order_items (order_id, supplement_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
			RETURNING id, order_id, supplement_id, quantity, unit_price,
				(SELECT name FROM supplements WHERE id = $2) AS supplement_name
		`

		var d OrderItemDetails
		err := tx.GetContext(ctx, &d, query, orderID, item.SupplementID, item.Quantity, prices[item.SupplementID])
		if err != nil {
			return nil, err
		}

		details = append(details, d)
	}

	return details, nil
}

// CreateOrder validates stock, inserts the order with its price-snapshot
// items, and decrements stock, all in one transaction. One bad item aborts
// the whole order.
func (r *repository) CreateOrder(ctx context.Context, memberID int, items []OrderItemRequest) (*OrderWithItems, error) {
	return r.createOrder(ctx, memberID, items, OrderPending, nil)
}

// Purchase is the single-item variant: the payment is already authorized,
// so the order lands completed and a payment row is written alongside it.
func (r *repository) Purchase(ctx context.Context, p PurchaseParams) (*OrderWithItems, int, error) {
	items := []OrderItemRequest{{SupplementID: p.SupplementID, Quantity: p.Quantity}}

	var paymentID int
	order, err := r.createOrder(ctx, p.MemberID, items, OrderCompleted, func(ctx context.Context, tx *sqlx.Tx, o *Order) error {
		return tx.GetContext(ctx, &paymentID, `
			INSERT INTO payments (member_id, amount, payment_type, payment_method, payment_status, transaction_id, invoice_number, order_id, description)
			VALUES ($1, $2, 'supplement', 'stripe', 'completed', $3, $4, $5, 'Supplement purchase')
			RETURNING id`,
			p.MemberID, o.TotalAmount, p.TransactionID, p.InvoiceNumber, o.ID)
	})
	if err != nil {
		return nil, 0, err
	}

	return order, paymentID, nil
}

func (r *repository) createOrder(
	ctx context.Context,
	memberID int,
	items []OrderItemRequest,
	status OrderStatus,
	settle func(context.Context, *sqlx.Tx, *Order) error,
) (*OrderWithItems, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	sorted := make([]OrderItemRequest, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].SupplementID < sorted[j].SupplementID })

	prices := make(map[int]float64, len(sorted))
	total := 0.0
	for _, item := range sorted {
		price, err := lockAndDecrement(ctx, tx, item.SupplementID, item.Quantity)
		if err != nil {
			return nil, err
		}
		prices[item.SupplementID] = price
		total += price * float64(item.Quantity)
	}

	var order Order
	err = tx.GetContext(ctx, &order, `
		INSERT INTO supplement_orders (member_id, total_amount, status)
		VALUES ($1, $2, $3)
		RETURNING id, member_id, total_amount, status, created_at`,
		memberID, total, string(status))
	if err != nil {
		return nil, err
	}

	details, err := insertOrderItems(ctx, tx, order.ID, items, prices)
	if err != nil {
		return nil, err
	}

	if settle != nil {
		if err := settle(ctx, tx, &order); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &OrderWithItems{Order: order, Items: details}, nil
}

func (r *repository) GetOrder(ctx context.Context, orderID int) (*OrderWithItems, error) {
	var order Order
	err := r.db.GetContext(ctx, &order, `
		SELECT id, member_id, total_amount, status, created_at
		FROM supplement_orders WHERE id = $1`, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	items, err := r.orderItems(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return &OrderWithItems{Order: order, Items: items}, nil
}

func (r *repository) orderItems(ctx context.Context, orderID int) ([]OrderItemDetails, error) {
	query := `
		SELECT oi.id, oi.order_id, oi.supplement_id, oi.quantity, oi.unit_price,
		       s.name AS supplement_name
		FROM supplement_order_items oi
		JOIN supplements s ON oi.supplement_id = s.id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`

	var items []OrderItemDetails
	err := r.db.SelectContext(ctx, &items, query, orderID)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *repository) MemberOrders(ctx context.Context, memberID int) ([]OrderWithItems, error) {
	var orders []Order
	err := r.db.SelectContext(ctx, &orders, `
		SELECT id, member_id, total_amount, status, created_at
		FROM supplement_orders
		WHERE member_id = $1
		ORDER BY created_at DESC`, memberID)
	if err != nil {
		return nil, err
	}

	result := make([]OrderWithItems, 0, len(orders))
	for _, o := range orders {
		items, err := r.orderItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, OrderWithItems{Order: o, Items: items})
	}

	return result, nil
}

func (r *repository) CompleteOrder(ctx context.Context, orderID int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE supplement_orders SET status = 'completed' WHERE id = $1 AND status = 'pending'`, orderID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}
