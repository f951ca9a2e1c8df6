package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/kontor-app/kontor/internal/httpx"
	"github.com/kontor-app/kontor/internal/i18n"
	"github.com/kontor-app/kontor/internal/services"
	"github.com/kontor-app/kontor/internal/validation"
)

// idParam parses the {id} path segment.
func idParam(r *http.Request) (uint, bool) {
	n, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || n <= 0 {
		return 0, false
	}
	return uint(n), true
}

// listParams reads ?limit and ?page with the same clamping the document list
// pages rely on.
func listParams(r *http.Request) services.ListParams {
	p := services.ListParams{Limit: 50}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			p.Limit = n
		}
	}
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			p.Offset = (n - 1) * p.Limit
		}
	}
	p.Status = r.URL.Query().Get("status")
	if v := r.URL.Query().Get("customer_id"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.CustomerID = uint(n)
		}
	}
	return p
}

// writeViolations answers 422 with the field-path → message map, translated
// for the client's Accept-Language.
func writeViolations(w http.ResponseWriter, r *http.Request, v validation.Violations) {
	lang := i18n.DetectLanguage(r.Header.Get("Accept-Language"))
	httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", i18n.Translate(lang, v))
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, services.ErrInvalidTransition):
		httpx.JSONError(w, http.StatusConflict, "invalid_transition", nil)
	case errors.Is(err, services.ErrReminderTooEarly):
		httpx.JSONError(w, http.StatusConflict, "reminder_too_early", nil)
	case errors.Is(err, services.ErrReminderLevelMax):
		httpx.JSONError(w, http.StatusConflict, "reminder_level_max", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
