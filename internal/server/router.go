package server

import (
	"net/http"
	"time"

	"github.com/kontor-app/kontor/internal/config"
	"github.com/kontor-app/kontor/internal/handlers"
	"github.com/kontor-app/kontor/internal/httpx"
	"github.com/kontor-app/kontor/internal/services"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB) http.Handler {
	mux := http.NewServeMux()

	settingsSvc := services.NewSettingsService(db)
	offerSvc := services.NewOfferService(db, settingsSvc)
	invoiceSvc := services.NewInvoiceService(db, settingsSvc)

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		// lightweight DB check (SELECT 1) – no details in the body
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Offer endpoints
	oh := handlers.NewOfferHandler(offerSvc)
	mux.HandleFunc("GET /offers", oh.List)
	mux.HandleFunc("POST /offers", oh.Create)
	mux.HandleFunc("GET /offers/{id}", oh.Show)
	mux.HandleFunc("PUT /offers/{id}", oh.Update)
	mux.HandleFunc("POST /offers/{id}/send", oh.Transition("send"))
	mux.HandleFunc("POST /offers/{id}/accept", oh.Transition("accept"))
	mux.HandleFunc("POST /offers/{id}/reject", oh.Transition("reject"))
	mux.HandleFunc("POST /offers/{id}/convert-to-invoice", oh.Convert)

	// Invoice endpoints
	ih := handlers.NewInvoiceHandler(invoiceSvc)
	mux.HandleFunc("GET /invoices", ih.List)
	mux.HandleFunc("POST /invoices", ih.Create)
	mux.HandleFunc("GET /invoices/{id}", ih.Show)
	mux.HandleFunc("POST /invoices/{id}/send", ih.Send)
	mux.HandleFunc("POST /invoices/{id}/mark-paid", ih.MarkPaid)
	mux.HandleFunc("POST /invoices/{id}/remind", ih.Remind)

	// Customer endpoints
	ch := handlers.NewCustomerHandler(db)
	mux.HandleFunc("GET /customers", ch.List)
	mux.HandleFunc("POST /customers", ch.Create)
	mux.HandleFunc("PUT /customers/{id}", ch.Update)

	// Settings & layouts
	sh := handlers.NewSettingsHandler(settingsSvc)
	mux.HandleFunc("GET /settings", sh.Get)
	mux.HandleFunc("PUT /settings", sh.Update)
	mux.HandleFunc("GET /layouts", sh.Layouts)
	mux.HandleFunc("POST /layouts", sh.CreateLayout)

	// Export downloads
	eh := handlers.NewExportHandler(db, offerSvc)
	mux.HandleFunc("GET /export/offers.csv", eh.OffersCSV)
	mux.HandleFunc("GET /export/offers.xlsx", eh.OffersXLSX)
	mux.HandleFunc("POST /export/datev", eh.DATEV)

	return withRecover(withLogging(mux))
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		config.Logger().WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				config.Logger().WithField("panic", rec).Error("recovered handler panic")
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
