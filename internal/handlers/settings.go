package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/kontor-app/kontor/internal/httpx"
	"github.com/kontor-app/kontor/internal/models"
	"github.com/kontor-app/kontor/internal/services"
	"github.com/kontor-app/kontor/internal/validation"
)

// SettingsHandler exposes the company profile and its configuration blob.
type SettingsHandler struct {
	Svc *services.SettingsService
}

func NewSettingsHandler(svc *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{Svc: svc}
}

// Get: GET /settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Svc.Get()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_settings", nil)
		return
	}
	if c == nil {
		httpx.JSONError(w, http.StatusNotFound, "company_not_configured", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

// Update: PUT /settings – upserts company master data plus the settings blob.
// The blob is persisted verbatim; only name is required.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in models.Company
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if in.Name == "" {
		writeViolations(w, r, validation.Violations{"name": "required"})
		return
	}
	c, err := h.Svc.Update(in)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_settings", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

// Layouts: GET /layouts
func (h *SettingsHandler) Layouts(w http.ResponseWriter, r *http.Request) {
	ls, err := h.Svc.Layouts()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_layouts", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": ls})
}

// CreateLayout: POST /layouts
func (h *SettingsHandler) CreateLayout(w http.ResponseWriter, r *http.Request) {
	var in models.Layout
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if in.Name == "" {
		writeViolations(w, r, validation.Violations{"name": "required"})
		return
	}
	l, err := h.Svc.CreateLayout(in)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_layout", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, l)
}
