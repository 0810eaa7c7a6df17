package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/kopiroti/api/internal/database"
	"github.com/kopiroti/api/internal/enum"
	"github.com/shopspring/decimal"
)

// MenuStore defines the database methods needed by menu handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type MenuStore interface {
	CreateMenuItem(ctx context.Context, arg database.CreateMenuItemParams) (database.MenuItem, error)
	GetMenuItem(ctx context.Context, id uuid.UUID) (database.MenuItem, error)
	ListMenuItems(ctx context.Context, category string) ([]database.MenuItem, error)
	UpdateMenuItem(ctx context.Context, arg database.UpdateMenuItemParams) (database.MenuItem, error)
	RestockMenuItem(ctx context.Context, arg database.RestockMenuItemParams) (database.MenuItem, error)
}

// MenuHandler handles menu catalog endpoints.
type MenuHandler struct {
	store MenuStore
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(store MenuStore) *MenuHandler {
	return &MenuHandler{store: store}
}

// RegisterRoutes registers the admin-facing menu endpoints.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Post("/{id}/restock", h.Restock)
}

// RegisterPublicRoutes registers the read endpoints used by the customer
// menu page and the cashier screen.
func (h *MenuHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

// --- Request / Response types ---

type menuItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       string `json:"price"`
	IsAvailable *bool  `json:"is_available"`
	StockQty    *int32 `json:"stock_qty"`
}

type restockRequest struct {
	StockQty int32 `json:"stock_qty"`
}

type menuItemResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Category    string    `json:"category"`
	Price       string    `json:"price"`
	IsAvailable bool      `json:"is_available"`
	StockQty    *int32    `json:"stock_qty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// --- Handlers ---

// Create handles POST /menu (admin).
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, price, ok := decodeMenuItemRequest(w, r)
	if !ok {
		return
	}

	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}

	item, err := h.store.CreateMenuItem(r.Context(), database.CreateMenuItemParams{
		Name:        req.Name,
		Description: textOrNull(req.Description),
		Category:    req.Category,
		Price:       price,
		IsAvailable: isAvailable,
		StockQty:    stockOrNull(req.Category, req.StockQty),
	})
	if err != nil {
		log.Printf("ERROR: create menu item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, dbMenuItemToResponse(item))
}

// List handles GET /menu with an optional category filter.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category != "" && !isValidCategory(category) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category"})
		return
	}

	items, err := h.store.ListMenuItems(r.Context(), category)
	if err != nil {
		log.Printf("ERROR: list menu items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]menuItemResponse, len(items))
	for i, item := range items {
		resp[i] = dbMenuItemToResponse(item)
	}

	writeJSON(w, http.StatusOK, map[string]any{"menu_items": resp})
}

// Get handles GET /menu/{id}.
func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	item, err := h.store.GetMenuItem(r.Context(), itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
			return
		}
		log.Printf("ERROR: get menu item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, dbMenuItemToResponse(item))
}

// Update handles PUT /menu/{id} (admin).
func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	req, price, ok := decodeMenuItemRequest(w, r)
	if !ok {
		return
	}

	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}

	item, err := h.store.UpdateMenuItem(r.Context(), database.UpdateMenuItemParams{
		ID:          itemID,
		Name:        req.Name,
		Description: textOrNull(req.Description),
		Category:    req.Category,
		Price:       price,
		IsAvailable: isAvailable,
		StockQty:    stockOrNull(req.Category, req.StockQty),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
			return
		}
		log.Printf("ERROR: update menu item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, dbMenuItemToResponse(item))
}

// Restock handles POST /menu/{id}/restock (admin): sets the absolute stock
// level for a cabinet food item, e.g. after the morning bake delivery.
func (h *MenuHandler) Restock(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	var req restockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.StockQty < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "stock_qty must be >= 0"})
		return
	}

	item, err := h.store.RestockMenuItem(r.Context(), database.RestockMenuItemParams{
		ID:       itemID,
		StockQty: req.StockQty,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
			return
		}
		log.Printf("ERROR: restock menu item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, dbMenuItemToResponse(item))
}

// --- Helpers ---

// decodeMenuItemRequest decodes and validates the shared create/update body.
// Writes the error response itself when validation fails.
func decodeMenuItemRequest(w http.ResponseWriter, r *http.Request) (menuItemRequest, pgtype.Numeric, bool) {
	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return req, pgtype.Numeric{}, false
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return req, pgtype.Numeric{}, false
	}
	if !isValidCategory(req.Category) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category"})
		return req, pgtype.Numeric{}, false
	}

	priceDec, err := decimal.NewFromString(req.Price)
	if err != nil || priceDec.IsNegative() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid price"})
		return req, pgtype.Numeric{}, false
	}
	var price pgtype.Numeric
	if err := price.Scan(priceDec.String()); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid price"})
		return req, pgtype.Numeric{}, false
	}

	if req.StockQty != nil && *req.StockQty < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "stock_qty must be >= 0"})
		return req, pgtype.Numeric{}, false
	}

	return req, price, true
}

func isValidCategory(category string) bool {
	switch category {
	case enum.CategoryCoffee, enum.CategoryDrink, enum.CategoryCabinetFood, enum.CategoryCake:
		return true
	}
	return false
}

// stockOrNull keeps stock tracking exclusive to cabinet food; other
// categories store NULL and are never stock-checked at order time.
func stockOrNull(category string, qty *int32) pgtype.Int4 {
	if category != enum.CategoryCabinetFood || qty == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: *qty, Valid: true}
}

func textOrNull(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func dbMenuItemToResponse(item database.MenuItem) menuItemResponse {
	resp := menuItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Category:    item.Category,
		Price:       numericToString(item.Price),
		IsAvailable: item.IsAvailable,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
	if item.Description.Valid {
		resp.Description = &item.Description.String
	}
	if item.StockQty.Valid {
		qty := item.StockQty.Int32
		resp.StockQty = &qty
	}
	return resp
}
