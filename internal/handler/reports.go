package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kopiroti/api/internal/database"
)

// ReportsStore defines the database methods needed by report handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ReportsStore interface {
	GetOrderStats(ctx context.Context, arg database.GetOrderStatsParams) (database.GetOrderStatsRow, error)
}

// ReportsHandler handles the dashboard stats endpoint.
type ReportsHandler struct {
	store ReportsStore
	now   func() time.Time
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(store ReportsStore) *ReportsHandler {
	return &ReportsHandler{store: store, now: time.Now}
}

// RegisterRoutes registers report endpoints.
func (h *ReportsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/stats", h.Stats)
}

type orderStatsResponse struct {
	Day              string `json:"day"`
	TodayOrders      int64  `json:"today_orders"`
	TodayPaidRevenue string `json:"today_paid_revenue"`
	PendingOrders    int64  `json:"pending_orders"`
	ActiveOrders     int64  `json:"active_orders"`
}

// Stats returns the dashboard counters: today's order count and paid
// revenue, plus current pending and in-preparation totals. The day
// boundary follows UTC, same as order numbering.
func (h *ReportsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	const layout = "2006-01-02"

	day := h.now().UTC().Truncate(24 * time.Hour)
	if s := r.URL.Query().Get("day"); s != "" {
		t, err := time.Parse(layout, s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid day format, expected YYYY-MM-DD"})
			return
		}
		day = t
	}

	row, err := h.store.GetOrderStats(r.Context(), database.GetOrderStatsParams{
		DayStart: day,
		DayEnd:   day.AddDate(0, 0, 1),
	})
	if err != nil {
		log.Printf("ERROR: get order stats: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, orderStatsResponse{
		Day:              day.Format(layout),
		TodayOrders:      row.TodayOrders,
		TodayPaidRevenue: numericToString(row.TodayPaidRevenue),
		PendingOrders:    row.PendingOrders,
		ActiveOrders:     row.ActiveOrders,
	})
}
