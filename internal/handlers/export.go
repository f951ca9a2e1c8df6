package handlers

import (
	"net/http"
	"time"

	"github.com/kontor-app/kontor/internal/export"
	"github.com/kontor-app/kontor/internal/httpx"
	"github.com/kontor-app/kontor/internal/models"
	"github.com/kontor-app/kontor/internal/services"

	"gorm.io/gorm"
)

// ExportHandler serves the file downloads: offer lists and DATEV batches.
type ExportHandler struct {
	DB     *gorm.DB
	Offers *services.OfferService
}

func NewExportHandler(db *gorm.DB, offers *services.OfferService) *ExportHandler {
	return &ExportHandler{DB: db, Offers: offers}
}

func (h *ExportHandler) loadOffers(r *http.Request) ([]models.Offer, error) {
	p := listParams(r)
	// exports are unpaged; reuse the filter but lift the page size
	p.Limit = 10000
	p.Offset = 0
	offers, _, err := h.Offers.List(p)
	return offers, err
}

// OffersCSV: GET /export/offers.csv
func (h *ExportHandler) OffersCSV(w http.ResponseWriter, r *http.Request) {
	offers, err := h.loadOffers(r)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "export_failed", nil)
		return
	}
	httpx.Attachment(w, export.OffersFilename("csv", time.Now().Format("2006-01-02")), "text/csv; charset=utf-8")
	if err := export.OffersCSV(w, offers); err != nil {
		// headers already sent; nothing useful left to do
		_ = err
	}
}

// OffersXLSX: GET /export/offers.xlsx
func (h *ExportHandler) OffersXLSX(w http.ResponseWriter, r *http.Request) {
	offers, err := h.loadOffers(r)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "export_failed", nil)
		return
	}
	httpx.Attachment(w, export.OffersFilename("xlsx", time.Now().Format("2006-01-02")),
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := export.OffersXLSX(w, offers); err != nil {
		_ = err
	}
}

// DATEV: POST /export/datev?from=YYYY-MM-DD&to=YYYY-MM-DD&encoding=latin1|utf8
func (h *ExportHandler) DATEV(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	from := firstOfMonth(now)
	to := now
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_date", map[string]string{"from": "invalid_date"})
			return
		}
		from = t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_date", map[string]string{"to": "invalid_date"})
			return
		}
		to = t
	}
	enc := export.EncodingLatin1
	if r.URL.Query().Get("encoding") == "utf8" {
		enc = export.EncodingUTF8BOM
	}

	var invoices []models.Invoice
	err := h.DB.Preload("Items").Preload("Customer").
		Where("status <> ?", models.InvoiceDraft).
		Where("issue_date >= ? AND issue_date < ?", from, to.AddDate(0, 0, 1)).
		Order("issue_date asc").Find(&invoices).Error
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "export_failed", nil)
		return
	}

	contentType := "text/csv; charset=iso-8859-1"
	if enc == export.EncodingUTF8BOM {
		contentType = "text/csv; charset=utf-8"
	}
	httpx.Attachment(w, export.DATEVFilename(from), contentType)
	if err := export.DATEVBatch(w, invoices, from, to, enc); err != nil {
		_ = err
	}
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
