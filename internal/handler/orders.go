package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/kopiroti/api/internal/database"
	"github.com/kopiroti/api/internal/middleware"
	"github.com/kopiroti/api/internal/service"
	"github.com/shopspring/decimal"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*service.OrderResult, error)
	UpdateOrder(ctx context.Context, req service.UpdateOrderRequest) (*service.OrderResult, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, to database.OrderStatus, staffID uuid.UUID) (*database.Order, error)
	Approve(ctx context.Context, id, staffID uuid.UUID) (*database.Order, error)
	Reject(ctx context.Context, id, staffID uuid.UUID) (*database.Order, error)
	MarkAsPaid(ctx context.Context, id, staffID uuid.UUID) (*database.Order, error)
	Cancel(ctx context.Context, id uuid.UUID) (*database.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderStore defines the database methods needed by the order read endpoints.
// Satisfied by *database.Queries; narrow interface for testability.
type OrderStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (database.Order, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	ListOrdersByPhone(ctx context.Context, customerPhone string) ([]database.Order, error)
	ListKitchenQueue(ctx context.Context) ([]database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc   OrderServicer
	store OrderStore
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer, store OrderStore) *OrderHandler {
	return &OrderHandler{svc: svc, store: store}
}

// RegisterRoutes registers the staff-facing order endpoints.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/queue", h.KitchenQueue)
	r.Get("/number/{number}", h.GetByNumber)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Patch("/{id}/status", h.UpdateStatus)
	r.Post("/{id}/pay", h.Pay)
	r.Post("/{id}/approve", h.Approve)
	r.Post("/{id}/reject", h.Reject)
	r.Post("/{id}/cancel", h.Cancel)
	r.Delete("/{id}", h.Delete)
}

// RegisterPublicRoutes registers the customer-facing endpoints (QR flow,
// no authentication).
func (h *OrderHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/number/{number}", h.GetByNumber)
	r.Get("/history", h.ListByPhone)
}

// --- Request / Response types ---

type createOrderRequest struct {
	CustomerName  string                   `json:"customer_name"`
	CustomerPhone string                   `json:"customer_phone"`
	TableID       string                   `json:"table_id"`
	Notes         string                   `json:"notes"`
	Items         []createOrderItemRequest `json:"items"`
}

type createOrderItemRequest struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int32  `json:"quantity"`
	Notes      string `json:"notes"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type orderResponse struct {
	ID                 uuid.UUID           `json:"id"`
	OrderNumber        string              `json:"order_number"`
	CustomerName       string              `json:"customer_name"`
	CustomerPhone      string              `json:"customer_phone"`
	TableID            *string             `json:"table_id"`
	StaffID            *string             `json:"staff_id"`
	Notes              *string             `json:"notes"`
	TotalAmount        string              `json:"total_amount"`
	IsCakeOrder        bool                `json:"is_cake_order"`
	DownPaymentAmount  *string             `json:"down_payment_amount"`
	DownPaymentDueDate *time.Time          `json:"down_payment_due_date"`
	Status             string              `json:"status"`
	PaymentStatus      string              `json:"payment_status"`
	PaidAt             *time.Time          `json:"paid_at"`
	CompletedAt        *time.Time          `json:"completed_at"`
	AutoCleared        bool                `json:"auto_cleared"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
	Items              []orderItemResponse `json:"items"`
}

type orderItemResponse struct {
	ID         uuid.UUID `json:"id"`
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Quantity   int32     `json:"quantity"`
	UnitPrice  string    `json:"unit_price"`
	Subtotal   string    `json:"subtotal"`
	Notes      *string   `json:"notes"`
}

// orderListResponse wraps a list of orders with pagination metadata.
type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// --- Handlers ---

// Create handles POST /orders. Works both authenticated (cashier at the
// counter) and unauthenticated (customer scanning a table QR).
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.CustomerName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "customer_name is required"})
		return
	}
	if len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "items are required"})
		return
	}
	for i, item := range req.Items {
		if item.MenuItemID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": formatItemError(i, "menu_item_id is required"),
			})
			return
		}
		if item.Quantity <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": formatItemError(i, "quantity must be > 0"),
			})
			return
		}
	}

	staffID := uuid.Nil
	if claims := middleware.ClaimsFromContext(r.Context()); claims != nil {
		staffID = claims.StaffID
	}

	svcItems := make([]service.OrderItemRequest, len(req.Items))
	for i, item := range req.Items {
		svcItems[i] = service.OrderItemRequest{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			Notes:      item.Notes,
		}
	}

	result, err := h.svc.CreateOrder(r.Context(), service.CreateOrderRequest{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		TableID:       req.TableID,
		StaffID:       staffID,
		Notes:         req.Notes,
		Items:         svcItems,
	})
	if err != nil {
		writeOrderError(w, err, "create order")
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(result))
}

// List handles GET /orders with optional status and payment_status filters.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 100 {
		limit = 100
	}

	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	params := database.ListOrdersParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		if _, err := service.ParseStatus(s); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status filter"})
			return
		}
		params.Status = s
	}
	if s := r.URL.Query().Get("payment_status"); s != "" {
		params.PaymentStatus = s
	}

	orders, err := h.store.ListOrders(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = dbOrderToResponse(o)
	}

	writeJSON(w, http.StatusOK, orderListResponse{
		Orders: resp,
		Limit:  limit,
		Offset: offset,
	})
}

// KitchenQueue handles GET /orders/queue: paid orders awaiting or under
// preparation, oldest payment first.
func (h *OrderHandler) KitchenQueue(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListKitchenQueue(r.Context())
	if err != nil {
		log.Printf("ERROR: list kitchen queue: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		items, err := h.store.ListOrderItemsByOrder(r.Context(), o.ID)
		if err != nil {
			log.Printf("ERROR: list order items: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		resp[i] = dbOrderToResponse(o)
		resp[i].Items = itemResponses(items)
	}

	writeJSON(w, http.StatusOK, map[string]any{"orders": resp})
}

// Get handles GET /orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.writeOrderWithItems(w, r, order)
}

// GetByNumber handles GET /orders/number/{number}: customer order lookup.
func (h *OrderHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	if number == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "order number is required"})
		return
	}

	order, err := h.store.GetOrderByNumber(r.Context(), number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order by number: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.writeOrderWithItems(w, r, order)
}

// ListByPhone handles GET /orders/history?phone=: a customer's past orders.
func (h *OrderHandler) ListByPhone(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if phone == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "phone is required"})
		return
	}

	orders, err := h.store.ListOrdersByPhone(r.Context(), phone)
	if err != nil {
		log.Printf("ERROR: list orders by phone: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = dbOrderToResponse(o)
	}

	writeJSON(w, http.StatusOK, map[string]any{"orders": resp})
}

// Update handles PUT /orders/{id}: replaces customer details and lines on an
// unpaid order.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	svcItems := make([]service.OrderItemRequest, len(req.Items))
	for i, item := range req.Items {
		svcItems[i] = service.OrderItemRequest{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			Notes:      item.Notes,
		}
	}

	result, err := h.svc.UpdateOrder(r.Context(), service.UpdateOrderRequest{
		ID:            orderID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		TableID:       req.TableID,
		Notes:         req.Notes,
		Items:         svcItems,
	})
	if err != nil {
		writeOrderError(w, err, "update order")
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(result))
}

// UpdateStatus handles PATCH /orders/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status is required"})
		return
	}

	status, err := service.ParseStatus(req.Status)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
		return
	}

	updated, err := h.svc.UpdateStatus(r.Context(), orderID, status, staffIDFromContext(r))
	if err != nil {
		writeOrderError(w, err, "update order status")
		return
	}

	writeJSON(w, http.StatusOK, dbOrderToResponse(*updated))
}

// Pay handles POST /orders/{id}/pay.
func (h *OrderHandler) Pay(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	updated, err := h.svc.MarkAsPaid(r.Context(), orderID, claims.StaffID)
	if err != nil {
		writeOrderError(w, err, "mark order paid")
		return
	}

	writeJSON(w, http.StatusOK, dbOrderToResponse(*updated))
}

// Approve handles POST /orders/{id}/approve.
func (h *OrderHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.svc.Approve, "approve order")
}

// Reject handles POST /orders/{id}/reject.
func (h *OrderHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.svc.Reject, "reject order")
}

func (h *OrderHandler) decide(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id, staffID uuid.UUID) (*database.Order, error), op string) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	updated, err := fn(r.Context(), orderID, claims.StaffID)
	if err != nil {
		writeOrderError(w, err, op)
		return
	}

	writeJSON(w, http.StatusOK, dbOrderToResponse(*updated))
}

// Cancel handles POST /orders/{id}/cancel.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	cancelled, err := h.svc.Cancel(r.Context(), orderID)
	if err != nil {
		writeOrderError(w, err, "cancel order")
		return
	}

	writeJSON(w, http.StatusOK, dbOrderToResponse(*cancelled))
}

// Delete handles DELETE /orders/{id}.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	if err := h.svc.Delete(r.Context(), orderID); err != nil {
		writeOrderError(w, err, "delete order")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

func (h *OrderHandler) writeOrderWithItems(w http.ResponseWriter, r *http.Request, order database.Order) {
	items, err := h.store.ListOrderItemsByOrder(r.Context(), order.ID)
	if err != nil {
		log.Printf("ERROR: list order items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := dbOrderToResponse(order)
	resp.Items = itemResponses(items)
	writeJSON(w, http.StatusOK, resp)
}

func staffIDFromContext(r *http.Request) uuid.UUID {
	if claims := middleware.ClaimsFromContext(r.Context()); claims != nil {
		return claims.StaffID
	}
	return uuid.Nil
}

func formatItemError(idx int, msg string) string {
	return "items[" + strconv.Itoa(idx) + "]: " + msg
}

// isValidationError checks if the error is a known validation error
// from the service layer that should result in 400 Bad Request.
func isValidationError(err error) bool {
	var unavailable *service.ItemUnavailableError
	return errors.Is(err, service.ErrEmptyItems) ||
		errors.Is(err, service.ErrCustomerName) ||
		errors.Is(err, service.ErrInvalidQuantity) ||
		errors.Is(err, service.ErrInvalidMenuItemID) ||
		errors.Is(err, service.ErrMenuItemNotFound) ||
		errors.Is(err, service.ErrInvalidTableID) ||
		errors.Is(err, service.ErrInvalidStatus) ||
		errors.As(err, &unavailable)
}

// writeOrderError maps service errors to HTTP status codes.
func writeOrderError(w http.ResponseWriter, err error, op string) {
	var insufficient *service.InsufficientStockError
	var transition *service.TransitionError
	switch {
	case errors.As(err, &insufficient):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":     insufficient.Error(),
			"item":      insufficient.Name,
			"requested": insufficient.Requested,
			"remaining": insufficient.Remaining,
		})
	case errors.As(err, &transition):
		writeJSON(w, http.StatusConflict, map[string]string{"error": transition.Error()})
	case errors.Is(err, service.ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
	case isValidationError(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyPaid),
		errors.Is(err, service.ErrOrderNotEditable),
		errors.Is(err, service.ErrOrderNotCancellable),
		errors.Is(err, service.ErrCancelCompleted),
		errors.Is(err, service.ErrCancelPaidOrder),
		errors.Is(err, service.ErrOrderNumberConflict),
		errors.Is(err, service.ErrDeleteCompletedOrder),
		errors.Is(err, service.ErrStatusConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		log.Printf("ERROR: %s: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func toOrderResponse(result *service.OrderResult) orderResponse {
	resp := dbOrderToResponse(result.Order)
	resp.Items = itemResponses(result.Items)
	return resp
}

func itemResponses(items []database.OrderItem) []orderItemResponse {
	resp := make([]orderItemResponse, len(items))
	for i, item := range items {
		resp[i] = orderItemResponse{
			ID:         item.ID,
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			UnitPrice:  numericToString(item.UnitPrice),
			Subtotal:   numericToString(item.Subtotal),
		}
		if item.Notes.Valid {
			resp[i].Notes = &item.Notes.String
		}
	}
	return resp
}

// dbOrderToResponse converts a database.Order to an orderResponse.
func dbOrderToResponse(o database.Order) orderResponse {
	resp := orderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		TotalAmount:   numericToString(o.TotalAmount),
		IsCakeOrder:   o.IsCakeOrder,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		AutoCleared:   o.AutoCleared,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}

	if o.TableID.Valid {
		s := uuid.UUID(o.TableID.Bytes).String()
		resp.TableID = &s
	}
	if o.StaffID.Valid {
		s := uuid.UUID(o.StaffID.Bytes).String()
		resp.StaffID = &s
	}
	if o.Notes.Valid {
		resp.Notes = &o.Notes.String
	}
	if o.DownPaymentAmount.Valid {
		s := numericToString(o.DownPaymentAmount)
		resp.DownPaymentAmount = &s
	}
	if o.DownPaymentDueDate.Valid {
		resp.DownPaymentDueDate = &o.DownPaymentDueDate.Time
	}
	if o.PaidAt.Valid {
		resp.PaidAt = &o.PaidAt.Time
	}
	if o.CompletedAt.Valid {
		resp.CompletedAt = &o.CompletedAt.Time
	}

	return resp
}

func numericToString(n pgtype.Numeric) string {
	if !n.Valid {
		return "0.00"
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return "0.00"
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}
