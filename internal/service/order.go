package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/kopiroti/api/internal/database"
	"github.com/kopiroti/api/internal/enum"
	"github.com/shopspring/decimal"
)

// The allocator reads MAX-style state outside the unique index, so two
// concurrent creates can pick the same number. One retry is enough: the
// loser re-reads after the winner committed.
const maxOrderNumberRetries = 2

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods the order service needs.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetSettings(ctx context.Context) (database.Settings, error)
	GetLastOrderNumberForDay(ctx context.Context, prefix string) (string, error)
	GetMenuItemForOrder(ctx context.Context, id uuid.UUID) (database.MenuItem, error)
	DecrementMenuItemStock(ctx context.Context, arg database.DecrementMenuItemStockParams) (database.MenuItem, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	UpdateOrder(ctx context.Context, arg database.UpdateOrderParams) (database.Order, error)
	DeleteOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) error
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	MarkOrderPaid(ctx context.Context, arg database.MarkOrderPaidParams) (database.Order, error)
	CancelOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
// This allows the service to create store instances from transactions.
type NewOrderStore func(db database.DBTX) OrderStore

// Notifier pushes order events to connected dashboards. Publish must not
// block; a slow or absent listener never delays an order.
type Notifier interface {
	Publish(event string, payload any)
}

// CreateOrderRequest is the validated input for creating an order.
type CreateOrderRequest struct {
	CustomerName  string
	CustomerPhone string
	TableID       string
	StaffID       uuid.UUID // zero for customer-placed QR orders
	Notes         string
	Items         []OrderItemRequest
}

// OrderItemRequest is a single line in the order.
type OrderItemRequest struct {
	MenuItemID string
	Quantity   int32
	Notes      string
}

// UpdateOrderRequest replaces an order's details and lines before payment.
type UpdateOrderRequest struct {
	ID            uuid.UUID
	CustomerName  string
	CustomerPhone string
	TableID       string
	Notes         string
	Items         []OrderItemRequest
}

// OrderResult is a full order with its lines.
type OrderResult struct {
	Order database.Order
	Items []database.OrderItem
}

// OrderService handles the order lifecycle: creation, edits, payment, and
// status transitions.
type OrderService struct {
	pool     TxBeginner
	store    OrderStore
	newStore NewOrderStore
	notifier Notifier
	now      func() time.Time
}

// NewOrderService creates a new OrderService. The store operates on the pool
// directly; newStore builds per-transaction stores.
func NewOrderService(pool TxBeginner, store OrderStore, newStore NewOrderStore, notifier Notifier) *OrderService {
	return &OrderService{
		pool:     pool,
		store:    store,
		newStore: newStore,
		notifier: notifier,
		now:      time.Now,
	}
}

// processedItem holds a priced order line awaiting insert.
type processedItem struct {
	params database.CreateOrderItemParams
}

// CreateOrder validates against the catalog, snapshots prices, decrements
// cabinet food stock, and creates the order atomically. Retries once on an
// order_number unique constraint violation (concurrent transactions reading
// the same last number for the day).
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResult, error) {
	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, ErrCustomerName
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}

	var lastErr error
	for attempt := 0; attempt < maxOrderNumberRetries; attempt++ {
		result, err := s.createOrderTx(ctx, req)
		if err == nil {
			s.publish(enum.EventOrderCreated, result)
			return result, nil
		}
		if isOrderNumberConflict(err) {
			lastErr = err
			continue
		}
		return nil, err
	}
	// Retries exhausted: surface a conflict the caller can act on instead
	// of the raw constraint violation.
	return nil, fmt.Errorf("%w: %v", ErrOrderNumberConflict, lastErr)
}

// isOrderNumberConflict checks if the error is a unique constraint violation
// on the order number (pgconn error code 23505).
func isOrderNumberConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "orders_order_number_key"
	}
	return false
}

// createOrderTx executes the full order creation in a single transaction.
func (s *OrderService) createOrderTx(ctx context.Context, req CreateOrderRequest) (*OrderResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	settings, err := store.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	nowUTC := s.now().UTC()
	orderNumber, err := s.nextOrderNumber(ctx, store, nowUTC)
	if err != nil {
		return nil, err
	}

	// --- Process lines: validate, take stock, snapshot prices ---
	items, total, isCake, err := s.processItems(ctx, store, req.Items, true)
	if err != nil {
		return nil, err
	}

	// --- Cake orders: derive down payment and its deadline ---
	downPayment := pgtype.Numeric{}
	dueDate := pgtype.Timestamptz{}
	if isCake {
		dp := total.Div(decimal.NewFromInt(2)).Round(2)
		downPayment = decimalToNumeric(dp)
		dueDate = pgtype.Timestamptz{
			Time:  nowUTC.Add(time.Duration(settings.AutoClearCakeDays) * 24 * time.Hour),
			Valid: true,
		}
	}

	status := database.OrderStatusPENDING
	if settings.ApprovalMode == enum.ApprovalModeRequiresApproval {
		status = database.OrderStatusPENDINGAPPROVAL
	}

	tableID, err := parseOptionalUUID(req.TableID)
	if err != nil {
		return nil, ErrInvalidTableID
	}

	staffID := pgtype.UUID{}
	if req.StaffID != uuid.Nil {
		staffID = pgtype.UUID{Bytes: req.StaffID, Valid: true}
	}

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		OrderNumber:        orderNumber,
		CustomerName:       req.CustomerName,
		CustomerPhone:      req.CustomerPhone,
		TableID:            tableID,
		StaffID:            staffID,
		Notes:              textOrNull(req.Notes),
		TotalAmount:        decimalToNumeric(total),
		IsCakeOrder:        isCake,
		DownPaymentAmount:  downPayment,
		DownPaymentDueDate: dueDate,
		Status:             status,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	var inserted []database.OrderItem
	for _, pi := range items {
		pi.params.OrderID = order.ID
		item, err := store.CreateOrderItem(ctx, pi.params)
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
		inserted = append(inserted, item)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &OrderResult{Order: order, Items: inserted}, nil
}

// nextOrderNumber allocates the next ORD-YYYYMMDD-NNN number for the day.
// The sequence widens past 999 instead of wrapping.
func (s *OrderService) nextOrderNumber(ctx context.Context, store OrderStore, nowUTC time.Time) (string, error) {
	prefix := nowUTC.Format("ORD-20060102-")
	last, err := store.GetLastOrderNumberForDay(ctx, prefix)
	seq := 1
	if err == nil {
		n, convErr := strconv.Atoi(last[strings.LastIndex(last, "-")+1:])
		if convErr != nil {
			return "", fmt.Errorf("parse order number %q: %w", last, convErr)
		}
		seq = n + 1
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("get last order number: %w", err)
	}
	return fmt.Sprintf("%s%03d", prefix, seq), nil
}

// processItems validates lines against the catalog and prices them at the
// current menu price. With takeStock set, cabinet food lines atomically
// decrement stock_qty; a line that loses the stock race comes back as
// InsufficientStockError.
func (s *OrderService) processItems(ctx context.Context, store OrderStore, lines []OrderItemRequest, takeStock bool) ([]processedItem, decimal.Decimal, bool, error) {
	total := decimal.Zero
	isCake := false
	var items []processedItem

	for i, line := range lines {
		if line.Quantity <= 0 {
			return nil, decimal.Zero, false, fmt.Errorf("item[%d]: %w", i, ErrInvalidQuantity)
		}

		menuItemID, err := uuid.Parse(line.MenuItemID)
		if err != nil {
			return nil, decimal.Zero, false, fmt.Errorf("item[%d]: %w", i, ErrInvalidMenuItemID)
		}

		item, err := store.GetMenuItemForOrder(ctx, menuItemID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, decimal.Zero, false, fmt.Errorf("item[%d]: %w", i, ErrMenuItemNotFound)
			}
			return nil, decimal.Zero, false, fmt.Errorf("item[%d]: get menu item: %w", i, err)
		}

		if !item.IsAvailable {
			return nil, decimal.Zero, false, &ItemUnavailableError{Name: item.Name}
		}

		if takeStock && item.Category == enum.CategoryCabinetFood && item.StockQty.Valid {
			if _, err := store.DecrementMenuItemStock(ctx, database.DecrementMenuItemStockParams{
				ID:       menuItemID,
				Quantity: line.Quantity,
			}); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil, decimal.Zero, false, &InsufficientStockError{
						Name:      item.Name,
						Requested: line.Quantity,
						Remaining: item.StockQty.Int32,
					}
				}
				return nil, decimal.Zero, false, fmt.Errorf("item[%d]: decrement stock: %w", i, err)
			}
		}

		if item.Category == enum.CategoryCake {
			isCake = true
		}

		unitPrice := numericToDecimal(item.Price)
		subtotal := unitPrice.Mul(decimal.NewFromInt32(line.Quantity))
		total = total.Add(subtotal)

		items = append(items, processedItem{
			params: database.CreateOrderItemParams{
				MenuItemID: menuItemID,
				Quantity:   line.Quantity,
				UnitPrice:  decimalToNumeric(unitPrice),
				Subtotal:   decimalToNumeric(subtotal),
				Notes:      textOrNull(line.Notes),
			},
		})
	}

	return items, total, isCake, nil
}

// UpdateOrder replaces an order's customer details and lines. Only unpaid,
// non-terminal orders are editable. Lines are re-priced at current menu
// prices; stock is not re-adjusted.
func (s *OrderService) UpdateOrder(ctx context.Context, req UpdateOrderRequest) (*OrderResult, error) {
	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, ErrCustomerName
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrder(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if order.PaymentStatus == database.PaymentStatusPAID ||
		order.Status == database.OrderStatusCOMPLETED ||
		order.Status == database.OrderStatusCANCELLED {
		return nil, ErrOrderNotEditable
	}

	settings, err := store.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	if err := store.DeleteOrderItemsByOrder(ctx, order.ID); err != nil {
		return nil, fmt.Errorf("delete order items: %w", err)
	}

	items, total, isCake, err := s.processItems(ctx, store, req.Items, false)
	if err != nil {
		return nil, err
	}

	// Down payment follows the new total; the deadline stays anchored to the
	// original creation time.
	downPayment := pgtype.Numeric{}
	dueDate := pgtype.Timestamptz{}
	if isCake {
		dp := total.Div(decimal.NewFromInt(2)).Round(2)
		downPayment = decimalToNumeric(dp)
		dueDate = pgtype.Timestamptz{
			Time:  order.CreatedAt.UTC().Add(time.Duration(settings.AutoClearCakeDays) * 24 * time.Hour),
			Valid: true,
		}
	}

	tableID, err := parseOptionalUUID(req.TableID)
	if err != nil {
		return nil, ErrInvalidTableID
	}

	updated, err := store.UpdateOrder(ctx, database.UpdateOrderParams{
		ID:                 order.ID,
		CustomerName:       req.CustomerName,
		CustomerPhone:      req.CustomerPhone,
		TableID:            tableID,
		Notes:              textOrNull(req.Notes),
		TotalAmount:        decimalToNumeric(total),
		IsCakeOrder:        isCake,
		DownPaymentAmount:  downPayment,
		DownPaymentDueDate: dueDate,
	})
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	var inserted []database.OrderItem
	for _, pi := range items {
		pi.params.OrderID = order.ID
		item, err := store.CreateOrderItem(ctx, pi.params)
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
		inserted = append(inserted, item)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	result := &OrderResult{Order: updated, Items: inserted}
	s.publish(enum.EventOrderUpdated, result)
	return result, nil
}

// UpdateStatus applies a lifecycle transition. The DB update is guarded by
// the status read here, so a concurrent transition surfaces as
// ErrStatusConflict instead of overwriting.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, to database.OrderStatus, staffID uuid.UUID) (*database.Order, error) {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if !CanTransition(order.Status, to) {
		return nil, &TransitionError{From: order.Status, To: to}
	}

	sid := pgtype.UUID{}
	if staffID != uuid.Nil {
		sid = pgtype.UUID{Bytes: staffID, Valid: true}
	}

	updated, err := s.store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{
		ID:         id,
		NewStatus:  to,
		FromStatus: order.Status,
		StaffID:    sid,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStatusConflict
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	s.publish(enum.EventOrderStatusChanged, updated)
	return &updated, nil
}

// Approve releases an order held for approval.
func (s *OrderService) Approve(ctx context.Context, id, staffID uuid.UUID) (*database.Order, error) {
	return s.UpdateStatus(ctx, id, database.OrderStatusAPPROVED, staffID)
}

// Reject declines an order held for approval.
func (s *OrderService) Reject(ctx context.Context, id, staffID uuid.UUID) (*database.Order, error) {
	return s.UpdateStatus(ctx, id, database.OrderStatusREJECTED, staffID)
}

// MarkAsPaid records payment and releases the order to the kitchen queue.
// Paying twice returns ErrAlreadyPaid.
func (s *OrderService) MarkAsPaid(ctx context.Context, id, staffID uuid.UUID) (*database.Order, error) {
	updated, err := s.store.MarkOrderPaid(ctx, database.MarkOrderPaidParams{ID: id, StaffID: staffID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := s.store.GetOrder(ctx, id); errors.Is(getErr, pgx.ErrNoRows) {
				return nil, ErrOrderNotFound
			}
			return nil, ErrAlreadyPaid
		}
		return nil, fmt.Errorf("mark order paid: %w", err)
	}

	s.publish(enum.EventOrderPaymentUpdated, updated)
	return &updated, nil
}

// Cancel cancels an unpaid, non-terminal order.
func (s *OrderService) Cancel(ctx context.Context, id uuid.UUID) (*database.Order, error) {
	updated, err := s.store.CancelOrder(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.cancelRefusal(ctx, id)
		}
		return nil, fmt.Errorf("cancel order: %w", err)
	}

	s.publish(enum.EventOrderStatusChanged, updated)
	return &updated, nil
}

// cancelRefusal re-reads the order to name the reason the conditional cancel
// matched no row.
func (s *OrderService) cancelRefusal(ctx context.Context, id uuid.UUID) error {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("get order: %w", err)
	}
	switch {
	case order.Status == database.OrderStatusCOMPLETED:
		return ErrCancelCompleted
	case order.PaymentStatus == database.PaymentStatusPAID:
		return ErrCancelPaidOrder
	default:
		return ErrOrderNotCancellable
	}
}

// Delete removes an order and its lines. Completed orders stay for
// reporting.
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("get order: %w", err)
	}

	if _, err := s.store.DeleteOrder(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrDeleteCompletedOrder
		}
		return fmt.Errorf("delete order: %w", err)
	}

	s.publish(enum.EventOrderDeleted, map[string]string{
		"id":           order.ID.String(),
		"order_number": order.OrderNumber,
	})
	return nil
}

func (s *OrderService) publish(event string, payload any) {
	if s.notifier != nil {
		s.notifier.Publish(event, payload)
	}
}

// --- Helpers ---

func parseOptionalUUID(s string) (pgtype.UUID, error) {
	if s == "" {
		return pgtype.UUID{}, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{}, err
	}
	return pgtype.UUID{Bytes: id, Valid: true}, nil
}

func textOrNull(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
