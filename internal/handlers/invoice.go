package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kontor-app/kontor/internal/httpx"
	"github.com/kontor-app/kontor/internal/services"
)

// InvoiceHandler mirrors the offer endpoints for invoices plus the Mahnung
// escalation.
type InvoiceHandler struct {
	Svc *services.InvoiceService
}

func NewInvoiceHandler(svc *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{Svc: svc}
}

// List: GET /invoices
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	p := listParams(r)
	invs, total, err := h.Svc.List(p)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_invoices", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": invs, "total": total, "limit": p.Limit, "offset": p.Offset})
}

// Show: GET /invoices/{id}
func (h *InvoiceHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	inv, _, err := h.Svc.Get(id)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_invoice", nil)
		return
	}
	if inv == nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

// Create: POST /invoices
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.DocumentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	inv, violations, err := h.Svc.Create(in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !violations.Empty() {
		writeViolations(w, r, violations)
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

// Send: POST /invoices/{id}/send
func (h *InvoiceHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	inv, err := h.Svc.Send(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"id": inv.ID, "status": inv.Status})
}

// MarkPaid: POST /invoices/{id}/mark-paid
func (h *InvoiceHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	inv, err := h.Svc.MarkPaid(id, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"id": inv.ID, "status": inv.Status})
}

// Remind: POST /invoices/{id}/remind
func (h *InvoiceHandler) Remind(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	inv, err := h.Svc.Remind(id, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"id":             inv.ID,
		"status":         inv.Status,
		"reminder_level": inv.ReminderLevel,
	})
}
