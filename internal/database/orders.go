package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, order_number, customer_name, customer_phone, table_id, staff_id, notes,
	total_amount, is_cake_order, down_payment_amount, down_payment_due_date,
	status, payment_status, paid_at, completed_at, auto_cleared, auto_cleared_at,
	created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerName, &o.CustomerPhone, &o.TableID, &o.StaffID, &o.Notes,
		&o.TotalAmount, &o.IsCakeOrder, &o.DownPaymentAmount, &o.DownPaymentDueDate,
		&o.Status, &o.PaymentStatus, &o.PaidAt, &o.CompletedAt, &o.AutoCleared, &o.AutoClearedAt,
		&o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

func collectOrders(rows pgx.Rows) ([]Order, error) {
	defer rows.Close()
	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

type CreateOrderParams struct {
	OrderNumber        string
	CustomerName       string
	CustomerPhone      string
	TableID            pgtype.UUID
	StaffID            pgtype.UUID
	Notes              pgtype.Text
	TotalAmount        pgtype.Numeric
	IsCakeOrder        bool
	DownPaymentAmount  pgtype.Numeric
	DownPaymentDueDate pgtype.Timestamptz
	Status             OrderStatus
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO orders (order_number, customer_name, customer_phone, table_id, staff_id, notes,
			total_amount, is_cake_order, down_payment_amount, down_payment_due_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+orderColumns,
		arg.OrderNumber, arg.CustomerName, arg.CustomerPhone, arg.TableID, arg.StaffID, arg.Notes,
		arg.TotalAmount, arg.IsCakeOrder, arg.DownPaymentAmount, arg.DownPaymentDueDate, arg.Status,
	)
	return scanOrder(row)
}

type CreateOrderItemParams struct {
	OrderID    uuid.UUID
	MenuItemID uuid.UUID
	Quantity   int32
	UnitPrice  pgtype.Numeric
	Subtotal   pgtype.Numeric
	Notes      pgtype.Text
}

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO order_items (order_id, menu_item_id, quantity, unit_price, subtotal, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, order_id, menu_item_id, quantity, unit_price, subtotal, notes`,
		arg.OrderID, arg.MenuItemID, arg.Quantity, arg.UnitPrice, arg.Subtotal, arg.Notes,
	)
	var i OrderItem
	err := row.Scan(&i.ID, &i.OrderID, &i.MenuItemID, &i.Quantity, &i.UnitPrice, &i.Subtotal, &i.Notes)
	return i, err
}

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	row := q.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	return scanOrder(row)
}

func (q *Queries) GetOrderByNumber(ctx context.Context, orderNumber string) (Order, error) {
	row := q.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_number = $1`, orderNumber)
	return scanOrder(row)
}

// GetLastOrderNumberForDay returns the order number of the most recently
// created order whose number starts with the given date prefix
// (e.g. "ORD-20260901-"). Returns pgx.ErrNoRows for the first order of a day.
func (q *Queries) GetLastOrderNumberForDay(ctx context.Context, prefix string) (string, error) {
	var orderNumber string
	err := q.db.QueryRow(ctx, `
		SELECT order_number FROM orders
		WHERE order_number LIKE $1 || '%'
		ORDER BY created_at DESC
		LIMIT 1`, prefix,
	).Scan(&orderNumber)
	return orderNumber, err
}

type ListOrdersParams struct {
	// Empty string means "no filter" for both status fields.
	Status        string
	PaymentStatus string
	Limit         int32
	Offset        int32
}

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE ($1::text = '' OR status = $1::text)
		  AND ($2::text = '' OR payment_status = $2::text)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		arg.Status, arg.PaymentStatus, arg.Limit, arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (q *Queries) ListOrdersByPhone(ctx context.Context, customerPhone string) ([]Order, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE customer_phone = $1
		ORDER BY created_at DESC`, customerPhone,
	)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

// ListKitchenQueue returns paid orders awaiting or under preparation,
// oldest payment first.
func (q *Queries) ListKitchenQueue(ctx context.Context) ([]Order, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE payment_status = 'PAID' AND status IN ('WAITING', 'COOKING')
		ORDER BY paid_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

func (q *Queries) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, `
		SELECT id, order_id, menu_item_id, quantity, unit_price, subtotal, notes
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`, orderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderItem
	for rows.Next() {
		var i OrderItem
		if err := rows.Scan(&i.ID, &i.OrderID, &i.MenuItemID, &i.Quantity, &i.UnitPrice, &i.Subtotal, &i.Notes); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

type UpdateOrderStatusParams struct {
	ID         uuid.UUID
	NewStatus  OrderStatus
	FromStatus OrderStatus
	StaffID    pgtype.UUID
}

// UpdateOrderStatus applies a status transition guarded by the expected
// current status, so a racing transition loses with pgx.ErrNoRows instead of
// clobbering the winner. Entering COMPLETED stamps completed_at.
func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE orders
		SET status = $2,
		    staff_id = COALESCE($4, staff_id),
		    completed_at = CASE WHEN $2::text = 'COMPLETED' THEN now() ELSE completed_at END,
		    updated_at = now()
		WHERE id = $1 AND status = $3
		RETURNING `+orderColumns,
		arg.ID, arg.NewStatus, arg.FromStatus, arg.StaffID,
	)
	return scanOrder(row)
}

type MarkOrderPaidParams struct {
	ID      uuid.UUID
	StaffID uuid.UUID
}

// MarkOrderPaid records payment and releases the order to the kitchen in one
// conditional update. The payment_status guard makes double-payment a
// pgx.ErrNoRows conflict rather than a silent overwrite.
func (q *Queries) MarkOrderPaid(ctx context.Context, arg MarkOrderPaidParams) (Order, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE orders
		SET payment_status = 'PAID',
		    paid_at = now(),
		    status = 'WAITING',
		    staff_id = $2,
		    updated_at = now()
		WHERE id = $1 AND payment_status <> 'PAID'
		RETURNING `+orderColumns,
		arg.ID, arg.StaffID,
	)
	return scanOrder(row)
}

// CancelOrder cancels an order unless it is completed, already cancelled, or
// paid. The precondition lives in the WHERE clause so concurrent staff
// actions cannot both succeed.
func (q *Queries) CancelOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE orders
		SET status = 'CANCELLED', updated_at = now()
		WHERE id = $1
		  AND status NOT IN ('COMPLETED', 'CANCELLED')
		  AND payment_status <> 'PAID'
		RETURNING `+orderColumns, id,
	)
	return scanOrder(row)
}

type UpdateOrderParams struct {
	ID                 uuid.UUID
	CustomerName       string
	CustomerPhone      string
	TableID            pgtype.UUID
	Notes              pgtype.Text
	TotalAmount        pgtype.Numeric
	IsCakeOrder        bool
	DownPaymentAmount  pgtype.Numeric
	DownPaymentDueDate pgtype.Timestamptz
}

func (q *Queries) UpdateOrder(ctx context.Context, arg UpdateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE orders
		SET customer_name = $2,
		    customer_phone = $3,
		    table_id = $4,
		    notes = $5,
		    total_amount = $6,
		    is_cake_order = $7,
		    down_payment_amount = $8,
		    down_payment_due_date = $9,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+orderColumns,
		arg.ID, arg.CustomerName, arg.CustomerPhone, arg.TableID, arg.Notes,
		arg.TotalAmount, arg.IsCakeOrder, arg.DownPaymentAmount, arg.DownPaymentDueDate,
	)
	return scanOrder(row)
}

func (q *Queries) DeleteOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) error {
	_, err := q.db.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID)
	return err
}

// DeleteOrder hard-deletes an order (items cascade). Completed orders are
// kept for reporting; deleting one returns pgx.ErrNoRows.
func (q *Queries) DeleteOrder(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var deleted uuid.UUID
	err := q.db.QueryRow(ctx, `
		DELETE FROM orders
		WHERE id = $1 AND status <> 'COMPLETED'
		RETURNING id`, id,
	).Scan(&deleted)
	return deleted, err
}

// AutoClearOverdueOrders bulk-cancels unpaid non-cake orders created before
// the cutoff. The auto_cleared guard keeps overlapping sweeps from touching
// the same order twice.
func (q *Queries) AutoClearOverdueOrders(ctx context.Context, cutoff time.Time) ([]Order, error) {
	rows, err := q.db.Query(ctx, `
		UPDATE orders
		SET status = 'CANCELLED', auto_cleared = TRUE, auto_cleared_at = now(), updated_at = now()
		WHERE is_cake_order = FALSE
		  AND payment_status = 'PENDING'
		  AND auto_cleared = FALSE
		  AND status NOT IN ('COMPLETED', 'CANCELLED')
		  AND created_at < $1
		RETURNING `+orderColumns, cutoff,
	)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

// AutoClearOverdueCakeOrders bulk-cancels cake orders whose down payment is
// overdue as of the given instant.
func (q *Queries) AutoClearOverdueCakeOrders(ctx context.Context, now time.Time) ([]Order, error) {
	rows, err := q.db.Query(ctx, `
		UPDATE orders
		SET status = 'CANCELLED', auto_cleared = TRUE, auto_cleared_at = now(), updated_at = now()
		WHERE is_cake_order = TRUE
		  AND payment_status = 'PENDING'
		  AND auto_cleared = FALSE
		  AND status NOT IN ('COMPLETED', 'CANCELLED')
		  AND down_payment_due_date < $1
		RETURNING `+orderColumns, now,
	)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

type GetOrderStatsParams struct {
	DayStart time.Time
	DayEnd   time.Time
}

type GetOrderStatsRow struct {
	TodayOrders      int64
	TodayPaidRevenue pgtype.Numeric
	PendingOrders    int64
	ActiveOrders     int64
}

func (q *Queries) GetOrderStats(ctx context.Context, arg GetOrderStatsParams) (GetOrderStatsRow, error) {
	var row GetOrderStatsRow
	err := q.db.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE created_at >= $1 AND created_at < $2),
			COALESCE(SUM(total_amount) FILTER (WHERE payment_status = 'PAID' AND created_at >= $1 AND created_at < $2), 0),
			COUNT(*) FILTER (WHERE status = 'PENDING'),
			COUNT(*) FILTER (WHERE payment_status = 'PAID' AND status IN ('WAITING', 'COOKING'))
		FROM orders`,
		arg.DayStart, arg.DayEnd,
	).Scan(&row.TodayOrders, &row.TodayPaidRevenue, &row.PendingOrders, &row.ActiveOrders)
	return row, err
}
