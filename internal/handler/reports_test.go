package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/kopiroti/api/internal/database"
	"github.com/kopiroti/api/internal/handler"
	"github.com/kopiroti/api/internal/middleware"
)

// --- Mock ReportsStore ---

type mockReportsStore struct {
	getOrderStatsFn func(ctx context.Context, arg database.GetOrderStatsParams) (database.GetOrderStatsRow, error)
}

func (m *mockReportsStore) GetOrderStats(ctx context.Context, arg database.GetOrderStatsParams) (database.GetOrderStatsRow, error) {
	return m.getOrderStatsFn(ctx, arg)
}

func setupReportsRouter(store *mockReportsStore) *chi.Mux {
	h := handler.NewReportsHandler(store)
	r := chi.NewRouter()
	r.Route("/reports", func(r chi.Router) {
		r.Use(middleware.Authenticate(testJWTSecret))
		h.RegisterRoutes(r)
	})
	return r
}

// --- Tests ---

func TestStats_HappyPath(t *testing.T) {
	var captured database.GetOrderStatsParams
	store := &mockReportsStore{
		getOrderStatsFn: func(ctx context.Context, arg database.GetOrderStatsParams) (database.GetOrderStatsRow, error) {
			captured = arg
			return database.GetOrderStatsRow{
				TodayOrders:      14,
				TodayPaidRevenue: testNumeric(t, "420000.00"),
				PendingOrders:    2,
				ActiveOrders:     5,
			}, nil
		},
	}

	router := setupReportsRouter(store)
	rr := doAuthRequest(t, router, "GET", "/reports/stats?day=2026-03-01", nil, testClaims("ADMIN"))

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	if got := captured.DayEnd.Sub(captured.DayStart).Hours(); got != 24 {
		t.Errorf("stats window: got %v hours, want 24", got)
	}
	if captured.DayStart.Format("2006-01-02") != "2026-03-01" {
		t.Errorf("day start: got %v, want 2026-03-01", captured.DayStart)
	}

	resp := decodeResponse(t, rr)
	if resp["today_orders"] != float64(14) {
		t.Errorf("today_orders: got %v, want 14", resp["today_orders"])
	}
	if resp["today_paid_revenue"] != "420000.00" {
		t.Errorf("today_paid_revenue: got %v, want 420000.00", resp["today_paid_revenue"])
	}
	if resp["active_orders"] != float64(5) {
		t.Errorf("active_orders: got %v, want 5", resp["active_orders"])
	}
}

func TestStats_InvalidDay(t *testing.T) {
	router := setupReportsRouter(&mockReportsStore{
		getOrderStatsFn: func(ctx context.Context, arg database.GetOrderStatsParams) (database.GetOrderStatsRow, error) {
			t.Fatal("store should not be called for an invalid day")
			return database.GetOrderStatsRow{}, nil
		},
	})
	rr := doAuthRequest(t, router, "GET", "/reports/stats?day=yesterday", nil, testClaims("ADMIN"))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
