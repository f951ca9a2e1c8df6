package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/kontor-app/kontor/internal/httpx"
	"github.com/kontor-app/kontor/internal/services"
)

// OfferHandler exposes the offer pages' submit and list endpoints.
type OfferHandler struct {
	Svc *services.OfferService
}

func NewOfferHandler(svc *services.OfferService) *OfferHandler {
	return &OfferHandler{Svc: svc}
}

// List: GET /offers
func (h *OfferHandler) List(w http.ResponseWriter, r *http.Request) {
	p := listParams(r)
	offers, total, err := h.Svc.List(p)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_offers", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": offers, "total": total, "limit": p.Limit, "offset": p.Offset})
}

// Show: GET /offers/{id}
func (h *OfferHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	offer, _, err := h.Svc.Get(id)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_offer", nil)
		return
	}
	if offer == nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, offer)
}

// Create: POST /offers
func (h *OfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.DocumentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	offer, violations, err := h.Svc.Create(in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !violations.Empty() {
		writeViolations(w, r, violations)
		return
	}
	httpx.JSON(w, http.StatusCreated, offer)
}

// Update: PUT /offers/{id}
func (h *OfferHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var in services.DocumentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	offer, violations, err := h.Svc.Update(id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !violations.Empty() {
		writeViolations(w, r, violations)
		return
	}
	httpx.JSON(w, http.StatusOK, offer)
}

// Transition: POST /offers/{id}/{send|accept|reject}
func (h *OfferHandler) Transition(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
			return
		}
		offer, err := h.Svc.Transition(id, action)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"id": offer.ID, "status": offer.Status})
	}
}

// Convert: POST /offers/{id}/convert-to-invoice
func (h *OfferHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	inv, err := h.Svc.ConvertToInvoice(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"invoice_id": inv.ID, "number": inv.Number, "status": inv.Status})
}
