package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kopiroti/api/internal/database"
	"github.com/kopiroti/api/internal/enum"
)

// SettingsStore defines the database methods needed by settings handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type SettingsStore interface {
	GetSettings(ctx context.Context) (database.Settings, error)
	UpdateSettings(ctx context.Context, arg database.UpdateSettingsParams) (database.Settings, error)
}

// SettingsHandler handles the café policy endpoints (admin only).
type SettingsHandler struct {
	store SettingsStore
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(store SettingsStore) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// RegisterRoutes registers settings endpoints.
func (h *SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Put("/", h.Update)
}

// --- Request / Response types ---

type updateSettingsRequest struct {
	ApprovalMode         string `json:"approval_mode"`
	AutoClearNormalHours int32  `json:"auto_clear_normal_hours"`
	AutoClearCakeDays    int32  `json:"auto_clear_cake_days"`
}

type settingsResponse struct {
	ApprovalMode         string    `json:"approval_mode"`
	AutoClearNormalHours int32     `json:"auto_clear_normal_hours"`
	AutoClearCakeDays    int32     `json:"auto_clear_cake_days"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// --- Handlers ---

// Get handles GET /settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.GetSettings(r.Context())
	if err != nil {
		log.Printf("ERROR: get settings: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, dbSettingsToResponse(settings))
}

// Update handles PUT /settings. Changes take effect on the next order and
// the next sweeper pass; existing orders are not re-evaluated.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.ApprovalMode != enum.ApprovalModeDirect && req.ApprovalMode != enum.ApprovalModeRequiresApproval {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid approval_mode"})
		return
	}
	if req.AutoClearNormalHours <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "auto_clear_normal_hours must be > 0"})
		return
	}
	if req.AutoClearCakeDays <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "auto_clear_cake_days must be > 0"})
		return
	}

	settings, err := h.store.UpdateSettings(r.Context(), database.UpdateSettingsParams{
		ApprovalMode:         req.ApprovalMode,
		AutoClearNormalHours: req.AutoClearNormalHours,
		AutoClearCakeDays:    req.AutoClearCakeDays,
	})
	if err != nil {
		log.Printf("ERROR: update settings: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, dbSettingsToResponse(settings))
}

// --- Helpers ---

func dbSettingsToResponse(s database.Settings) settingsResponse {
	return settingsResponse{
		ApprovalMode:         s.ApprovalMode,
		AutoClearNormalHours: s.AutoClearNormalHours,
		AutoClearCakeDays:    s.AutoClearCakeDays,
		UpdatedAt:            s.UpdatedAt,
	}
}
