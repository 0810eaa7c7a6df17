package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/kopiroti/api/internal/auth"
	"github.com/kopiroti/api/internal/database"
	"github.com/kopiroti/api/internal/handler"
	"github.com/kopiroti/api/internal/middleware"
	"github.com/kopiroti/api/internal/service"
)

// --- Mock OrderServicer ---

type mockOrderService struct {
	createFn       func(ctx context.Context, req service.CreateOrderRequest) (*service.OrderResult, error)
	updateFn       func(ctx context.Context, req service.UpdateOrderRequest) (*service.OrderResult, error)
	updateStatusFn func(ctx context.Context, id uuid.UUID, to database.OrderStatus, staffID uuid.UUID) (*database.Order, error)
	approveFn      func(ctx context.Context, id, staffID uuid.UUID) (*database.Order, error)
	rejectFn       func(ctx context.Context, id, staffID uuid.UUID) (*database.Order, error)
	markAsPaidFn   func(ctx context.Context, id, staffID uuid.UUID) (*database.Order, error)
	cancelFn       func(ctx context.Context, id uuid.UUID) (*database.Order, error)
	deleteFn       func(ctx context.Context, id uuid.UUID) error
}

func (m *mockOrderService) CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*service.OrderResult, error) {
	return m.createFn(ctx, req)
}

func (m *mockOrderService) UpdateOrder(ctx context.Context, req service.UpdateOrderRequest) (*service.OrderResult, error) {
	return m.updateFn(ctx, req)
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, to database.OrderStatus, staffID uuid.UUID) (*database.Order, error) {
	return m.updateStatusFn(ctx, id, to, staffID)
}

func (m *mockOrderService) Approve(ctx context.Context, id, staffID uuid.UUID) (*database.Order, error) {
	return m.approveFn(ctx, id, staffID)
}

func (m *mockOrderService) Reject(ctx context.Context, id, staffID uuid.UUID) (*database.Order, error) {
	return m.rejectFn(ctx, id, staffID)
}

func (m *mockOrderService) MarkAsPaid(ctx context.Context, id, staffID uuid.UUID) (*database.Order, error) {
	return m.markAsPaidFn(ctx, id, staffID)
}

func (m *mockOrderService) Cancel(ctx context.Context, id uuid.UUID) (*database.Order, error) {
	return m.cancelFn(ctx, id)
}

func (m *mockOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

// --- Mock OrderStore ---

type mockOrderStore struct {
	getOrderFn              func(ctx context.Context, id uuid.UUID) (database.Order, error)
	getOrderByNumberFn      func(ctx context.Context, orderNumber string) (database.Order, error)
	listOrdersFn            func(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	listOrdersByPhoneFn     func(ctx context.Context, customerPhone string) ([]database.Order, error)
	listKitchenQueueFn      func(ctx context.Context) ([]database.Order, error)
	listOrderItemsByOrderFn func(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
}

func (m *mockOrderStore) GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error) {
	if m.getOrderFn != nil {
		return m.getOrderFn(ctx, id)
	}
	return database.Order{}, pgx.ErrNoRows
}

func (m *mockOrderStore) GetOrderByNumber(ctx context.Context, orderNumber string) (database.Order, error) {
	if m.getOrderByNumberFn != nil {
		return m.getOrderByNumberFn(ctx, orderNumber)
	}
	return database.Order{}, pgx.ErrNoRows
}

func (m *mockOrderStore) ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error) {
	if m.listOrdersFn != nil {
		return m.listOrdersFn(ctx, arg)
	}
	return []database.Order{}, nil
}

func (m *mockOrderStore) ListOrdersByPhone(ctx context.Context, customerPhone string) ([]database.Order, error) {
	if m.listOrdersByPhoneFn != nil {
		return m.listOrdersByPhoneFn(ctx, customerPhone)
	}
	return []database.Order{}, nil
}

func (m *mockOrderStore) ListKitchenQueue(ctx context.Context) ([]database.Order, error) {
	if m.listKitchenQueueFn != nil {
		return m.listKitchenQueueFn(ctx)
	}
	return []database.Order{}, nil
}

func (m *mockOrderStore) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error) {
	if m.listOrderItemsByOrderFn != nil {
		return m.listOrderItemsByOrderFn(ctx, orderID)
	}
	return []database.OrderItem{}, nil
}

// --- Test helpers ---

const testJWTSecret = "test-secret-for-orders"

func setupOrderRouter(svc *mockOrderService, store *mockOrderStore) *chi.Mux {
	h := handler.NewOrderHandler(svc, store)
	r := chi.NewRouter()
	r.Route("/orders", func(r chi.Router) {
		r.Use(middleware.Authenticate(testJWTSecret))
		h.RegisterRoutes(r)
	})
	r.Route("/public/orders", h.RegisterPublicRoutes)
	return r
}

func testClaims(role string) *auth.Claims {
	return &auth.Claims{
		StaffID: uuid.New(),
		Role:    role,
	}
}

func doAuthRequest(t *testing.T, router http.Handler, method, path string, body interface{}, claims *auth.Claims) *httptest.ResponseRecorder {
	t.Helper()

	token, err := auth.GenerateToken(testJWTSecret, claims.StaffID, claims.Role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := newJSONRequest(t, method, path, body)
	req.Header.Set("Authorization", "Bearer "+token)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func doRequest(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	req := newJSONRequest(t, method, path, body)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func newJSONRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()

	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func testNumeric(t *testing.T, s string) pgtype.Numeric {
	t.Helper()
	var n pgtype.Numeric
	if err := n.Scan(s); err != nil {
		t.Fatalf("scan numeric %q: %v", s, err)
	}
	return n
}

// --- Helpers to build test data ---

func testOrder(t *testing.T, staffID uuid.UUID) database.Order {
	now := time.Now()
	return database.Order{
		ID:            uuid.New(),
		OrderNumber:   "ORD-20260301-001",
		CustomerName:  "Budi",
		CustomerPhone: "081234567890",
		StaffID:       pgtype.UUID{Bytes: staffID, Valid: true},
		TotalAmount:   testNumeric(t, "50000.00"),
		Status:        database.OrderStatusPENDING,
		PaymentStatus: database.PaymentStatusPENDING,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func testOrderResult(t *testing.T, staffID uuid.UUID) *service.OrderResult {
	order := testOrder(t, staffID)
	return &service.OrderResult{
		Order: order,
		Items: []database.OrderItem{
			{
				ID:         uuid.New(),
				OrderID:    order.ID,
				MenuItemID: uuid.New(),
				Quantity:   2,
				UnitPrice:  testNumeric(t, "25000.00"),
				Subtotal:   testNumeric(t, "50000.00"),
			},
		},
	}
}

// --- Tests ---

func TestOrderCreate_HappyPath(t *testing.T) {
	claims := testClaims("CASHIER")

	svc := &mockOrderService{
		createFn: func(ctx context.Context, req service.CreateOrderRequest) (*service.OrderResult, error) {
			if req.StaffID != claims.StaffID {
				t.Errorf("staff_id: got %v, want %v", req.StaffID, claims.StaffID)
			}
			if req.CustomerName != "Budi" {
				t.Errorf("customer_name: got %v, want Budi", req.CustomerName)
			}
			if len(req.Items) != 1 {
				t.Errorf("items count: got %d, want 1", len(req.Items))
			}
			return testOrderResult(t, claims.StaffID), nil
		},
	}

	router := setupOrderRouter(svc, &mockOrderStore{})
	rr := doAuthRequest(t, router, "POST", "/orders", map[string]interface{}{
		"customer_name":  "Budi",
		"customer_phone": "081234567890",
		"items": []map[string]interface{}{
			{"menu_item_id": uuid.New().String(), "quantity": 2},
		},
	}, claims)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["order_number"] != "ORD-20260301-001" {
		t.Errorf("order_number: got %v, want ORD-20260301-001", resp["order_number"])
	}
	if resp["status"] != "PENDING" {
		t.Errorf("status: got %v, want PENDING", resp["status"])
	}
	if resp["total_amount"] != "50000.00" {
		t.Errorf("total_amount: got %v, want 50000.00", resp["total_amount"])
	}

	items, ok := resp["items"].([]interface{})
	if !ok || len(items) != 1 {
		t.Fatalf("items: got %v, want 1 item", resp["items"])
	}
	item := items[0].(map[string]interface{})
	if item["unit_price"] != "25000.00" {
		t.Errorf("unit_price: got %v, want 25000.00", item["unit_price"])
	}
}

func TestOrderCreate_PublicQRFlow(t *testing.T) {
	// A customer ordering via table QR is not authenticated; the order is
	// created without a staff attribution.
	svc := &mockOrderService{
		createFn: func(ctx context.Context, req service.CreateOrderRequest) (*service.OrderResult, error) {
			if req.StaffID != uuid.Nil {
				t.Errorf("staff_id: got %v, want uuid.Nil", req.StaffID)
			}
			return testOrderResult(t, uuid.Nil), nil
		},
	}

	router := setupOrderRouter(svc, &mockOrderStore{})
	rr := doRequest(t, router, "POST", "/public/orders", map[string]interface{}{
		"customer_name": "Sari",
		"items": []map[string]interface{}{
			{"menu_item_id": uuid.New().String(), "quantity": 1},
		},
	})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
}

func TestOrderCreate_MissingCustomerName(t *testing.T) {
	router := setupOrderRouter(&mockOrderService{}, &mockOrderStore{})
	rr := doAuthRequest(t, router, "POST", "/orders", map[string]interface{}{
		"items": []map[string]interface{}{
			{"menu_item_id": uuid.New().String(), "quantity": 1},
		},
	}, testClaims("CASHIER"))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestOrderCreate_EmptyItems(t *testing.T) {
	router := setupOrderRouter(&mockOrderService{}, &mockOrderStore{})
	rr := doAuthRequest(t, router, "POST", "/orders", map[string]interface{}{
		"customer_name": "Budi",
		"items":         []map[string]interface{}{},
	}, testClaims("CASHIER"))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestOrderCreate_ZeroQuantity(t *testing.T) {
	router := setupOrderRouter(&mockOrderService{}, &mockOrderStore{})
	rr := doAuthRequest(t, router, "POST", "/orders", map[string]interface{}{
		"customer_name": "Budi",
		"items": []map[string]interface{}{
			{"menu_item_id": uuid.New().String(), "quantity": 0},
		},
	}, testClaims("CASHIER"))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestOrderCreate_InsufficientStock(t *testing.T) {
	svc := &mockOrderService{
		createFn: func(ctx context.Context, req service.CreateOrderRequest) (*service.OrderResult, error) {
			return nil, &service.InsufficientStockError{Name: "Croissant", Requested: 3, Remaining: 1}
		},
	}

	router := setupOrderRouter(svc, &mockOrderStore{})
	rr := doAuthRequest(t, router, "POST", "/orders", map[string]interface{}{
		"customer_name": "Budi",
		"items": []map[string]interface{}{
			{"menu_item_id": uuid.New().String(), "quantity": 3},
		},
	}, testClaims("CASHIER"))

	if rr.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusConflict, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["item"] != "Croissant" {
		t.Errorf("item: got %v, want Croissant", resp["item"])
	}
	if resp["remaining"] != float64(1) {
		t.Errorf("remaining: got %v, want 1", resp["remaining"])
	}
}

func TestOrderCreate_ItemUnavailable(t *testing.T) {
	svc := &mockOrderService{
		createFn: func(ctx context.Context, req service.CreateOrderRequest) (*service.OrderResult, error) {
			return nil, &service.ItemUnavailableError{Name: "Es Kopi"}
		},
	}

	router := setupOrderRouter(svc, &mockOrderStore{})
	rr := doAuthRequest(t, router, "POST", "/orders", map[string]interface{}{
		"customer_name": "Budi",
		"items": []map[string]interface{}{
			{"menu_item_id": uuid.New().String(), "quantity": 1},
		},
	}, testClaims("CASHIER"))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusBadRequest, rr.Body.String())
	}
}

func TestOrderCreate_NumberConflict(t *testing.T) {
	svc := &mockOrderService{
		createFn: func(ctx context.Context, req service.CreateOrderRequest) (*service.OrderResult, error) {
			return nil, fmt.Errorf("%w: create order: duplicate key", service.ErrOrderNumberConflict)
		},
	}

	router := setupOrderRouter(svc, &mockOrderStore{})
	rr := doAuthRequest(t, router, "POST", "/orders", map[string]interface{}{
		"customer_name": "Budi",
		"items": []map[string]interface{}{
			{"menu_item_id": uuid.New().String(), "quantity": 1},
		},
	}, testClaims("CASHIER"))

	if rr.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusConflict, rr.Body.String())
	}
}

func TestOrderGet_HappyPath(t *testing.T) {
	claims := testClaims("CASHIER")
	order := testOrder(t, claims.StaffID)

	store := &mockOrderStore{
		getOrderFn: func(ctx context.Context, id uuid.UUID) (database.Order, error) {
			if id != order.ID {
				t.Errorf("id: got %v, want %v", id, order.ID)
			}
			return order, nil
		},
	}

	router := setupOrderRouter(&mockOrderService{}, store)
	rr := doAuthRequest(t, router, "GET", "/orders/"+order.ID.String(), nil, claims)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["customer_name"] != "Budi" {
		t.Errorf("customer_name: got %v, want Budi", resp["customer_name"])
	}
}

func TestOrderGet_NotFound(t *testing.T) {
	router := setupOrderRouter(&mockOrderService{}, &mockOrderStore{})
	rr := doAuthRequest(t, router, "GET", "/orders/"+uuid.New().String(), nil, testClaims("CASHIER"))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestOrderGetByNumber_PublicLookup(t *testing.T) {
	order := testOrder(t, uuid.New())

	store := &mockOrderStore{
		getOrderByNumberFn: func(ctx context.Context, orderNumber string) (database.Order, error) {
			if orderNumber != order.OrderNumber {
				t.Errorf("order_number: got %v, want %v", orderNumber, order.OrderNumber)
			}
			return order, nil
		},
	}

	router := setupOrderRouter(&mockOrderService{}, store)
	rr := doRequest(t, router, "GET", "/public/orders/number/"+order.OrderNumber, nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
}

func TestOrderList_PassesFilters(t *testing.T) {
	var captured database.ListOrdersParams
	store := &mockOrderStore{
		listOrdersFn: func(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error) {
			captured = arg
			return []database.Order{}, nil
		},
	}

	router := setupOrderRouter(&mockOrderService{}, store)
	rr := doAuthRequest(t, router, "GET", "/orders?status=WAITING&payment_status=PAID&limit=5&offset=10", nil, testClaims("CASHIER"))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
	if captured.Status != "WAITING" {
		t.Errorf("status filter: got %v, want WAITING", captured.Status)
	}
	if captured.PaymentStatus != "PAID" {
		t.Errorf("payment_status filter: got %v, want PAID", captured.PaymentStatus)
	}
	if captured.Limit != 5 || captured.Offset != 10 {
		t.Errorf("pagination: got limit=%d offset=%d, want 5/10", captured.Limit, captured.Offset)
	}
}

func TestOrderList_InvalidStatusFilter(t *testing.T) {
	router := setupOrderRouter(&mockOrderService{}, &mockOrderStore{})
	rr := doAuthRequest(t, router, "GET", "/orders?status=BOGUS", nil, testClaims("CASHIER"))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestOrderUpdateStatus_HappyPath(t *testing.T) {
	claims := testClaims("KITCHEN")
	order := testOrder(t, claims.StaffID)
	order.Status = database.OrderStatusCOOKING

	svc := &mockOrderService{
		updateStatusFn: func(ctx context.Context, id uuid.UUID, to database.OrderStatus, staffID uuid.UUID) (*database.Order, error) {
			if to != database.OrderStatusCOOKING {
				t.Errorf("to: got %v, want COOKING", to)
			}
			if staffID != claims.StaffID {
				t.Errorf("staff_id: got %v, want %v", staffID, claims.StaffID)
			}
			return &order, nil
		},
	}

	router := setupOrderRouter(svc, &mockOrderStore{})
	rr := doAuthRequest(t, router, "PATCH", "/orders/"+order.ID.String()+"/status",
		map[string]interface{}{"status": "COOKING"}, claims)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["status"] != "COOKING" {
		t.Errorf("status: got %v, want COOKING", resp["status"])
	}
}

func TestOrderUpdateStatus_InvalidTransition(t *testing.T) {
	svc := &mockOrderService{
		updateStatusFn: func(ctx context.Context, id uuid.UUID, to database.OrderStatus, staffID uuid.UUID) (*database.Order, error) {
			return nil, &service.TransitionError{From: database.OrderStatusCOMPLETED, To: database.OrderStatusCOOKING}
		},
	}

	router := setupOrderRouter(svc, &mockOrderStore{})
	rr := doAuthRequest(t, router, "PATCH", "/orders/"+uuid.New().String()+"/status",
		map[string]interface{}{"status": "COOKING"}, testClaims("KITCHEN"))

	if rr.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusConflict, rr.Body.String())
	}
}

func TestOrderUpdateStatus_UnknownStatus(t *testing.T) {
	router := setupOrderRouter(&mockOrderService{}, &mockOrderStore{})
	rr := doAuthRequest(t, router, "PATCH", "/orders/"+uuid.New().String()+"/status",
		map[string]interface{}{"status": "SHIPPED"}, testClaims("KITCHEN"))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestOrderPay_HappyPath(t *testing.T) {
	claims := testClaims("CASHIER")
	order := testOrder(t, claims.StaffID)
	order.Status = database.OrderStatusWAITING
	order.PaymentStatus = database.PaymentStatusPAID

	svc := &mockOrderService{
		markAsPaidFn: func(ctx context.Context, id, staffID uuid.UUID) (*database.Order, error) {
			if staffID != claims.StaffID {
				t.Errorf("staff_id: got %v, want %v", staffID, claims.StaffID)
			}
			return &order, nil
		},
	}

	router := setupOrderRouter(svc, &mockOrderStore{})
	rr := doAuthRequest(t, router, "POST", "/orders/"+order.ID.String()+"/pay", nil, claims)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	if resp["payment_status"] != "PAID" {
		t.Errorf("payment_status: got %v, want PAID", resp["payment_status"])
	}
	if resp["status"] != "WAITING" {
		t.Errorf("status: got %v, want WAITING", resp["status"])
	}
}

func TestOrderPay_AlreadyPaid(t *testing.T) {
	svc := &mockOrderService{
		markAsPaidFn: func(ctx context.Context, id, staffID uuid.UUID) (*database.Order, error) {
			return nil, service.ErrAlreadyPaid
		},
	}

	router := setupOrderRouter(svc, &mockOrderStore{})
	rr := doAuthRequest(t, router, "POST", "/orders/"+uuid.New().String()+"/pay", nil, testClaims("CASHIER"))

	if rr.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusConflict)
	}
}

func TestOrderCancel_PaidOrderRefused(t *testing.T) {
	svc := &mockOrderService{
		cancelFn: func(ctx context.Context, id uuid.UUID) (*database.Order, error) {
			return nil, service.ErrCancelPaidOrder
		},
	}

	router := setupOrderRouter(svc, &mockOrderStore{})
	rr := doAuthRequest(t, router, "POST", "/orders/"+uuid.New().String()+"/cancel", nil, testClaims("CASHIER"))

	if rr.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusConflict)
	}
	resp := decodeResponse(t, rr)
	if resp["error"] != "must refund before cancelling a paid order" {
		t.Errorf("error message: got %v, want refund message", resp["error"])
	}
}

func TestOrderCancel_CompletedRefused(t *testing.T) {
	svc := &mockOrderService{
		cancelFn: func(ctx context.Context, id uuid.UUID) (*database.Order, error) {
			return nil, service.ErrCancelCompleted
		},
	}

	router := setupOrderRouter(svc, &mockOrderStore{})
	rr := doAuthRequest(t, router, "POST", "/orders/"+uuid.New().String()+"/cancel", nil, testClaims("CASHIER"))

	if rr.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusConflict)
	}
	resp := decodeResponse(t, rr)
	if resp["error"] != "cannot cancel a completed order" {
		t.Errorf("error message: got %v, want completed message", resp["error"])
	}
}

func TestOrderDelete_HappyPath(t *testing.T) {
	orderID := uuid.New()
	svc := &mockOrderService{
		deleteFn: func(ctx context.Context, id uuid.UUID) error {
			if id != orderID {
				t.Errorf("id: got %v, want %v", id, orderID)
			}
			return nil
		},
	}

	router := setupOrderRouter(svc, &mockOrderStore{})
	rr := doAuthRequest(t, router, "DELETE", "/orders/"+orderID.String(), nil, testClaims("ADMIN"))

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusNoContent)
	}
}

func TestOrderDelete_CompletedRefused(t *testing.T) {
	svc := &mockOrderService{
		deleteFn: func(ctx context.Context, id uuid.UUID) error {
			return service.ErrDeleteCompletedOrder
		},
	}

	router := setupOrderRouter(svc, &mockOrderStore{})
	rr := doAuthRequest(t, router, "DELETE", "/orders/"+uuid.New().String(), nil, testClaims("ADMIN"))

	if rr.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusConflict)
	}
}

func TestOrderUpdate_NotEditable(t *testing.T) {
	svc := &mockOrderService{
		updateFn: func(ctx context.Context, req service.UpdateOrderRequest) (*service.OrderResult, error) {
			return nil, service.ErrOrderNotEditable
		},
	}

	router := setupOrderRouter(svc, &mockOrderStore{})
	rr := doAuthRequest(t, router, "PUT", "/orders/"+uuid.New().String(), map[string]interface{}{
		"customer_name": "Budi",
		"items": []map[string]interface{}{
			{"menu_item_id": uuid.New().String(), "quantity": 1},
		},
	}, testClaims("CASHIER"))

	if rr.Code != http.StatusConflict {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusConflict)
	}
}

func TestOrders_RequireAuth(t *testing.T) {
	router := setupOrderRouter(&mockOrderService{}, &mockOrderStore{})
	rr := doRequest(t, router, "GET", "/orders", nil)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}
