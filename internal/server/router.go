package server

import (
	"net/http"
	"time"

	"github.com/shopbill/billing-app/internal/handlers"
	"github.com/shopbill/billing-app/internal/httpx"
	"github.com/shopbill/billing-app/internal/logger"
	"github.com/shopbill/billing-app/internal/services"

	"gorm.io/gorm"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB, renderer handlers.Renderer, mediaDir string) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	//revive:disable:unused-parameter simple handlers intentionally ignore *http.Request
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Shop profile
	setupHandler := handlers.NewSetupHandler(db)
	mux.HandleFunc("/setup", setupHandler.Handle)

	// Item endpoints. List/Create via /items. Update/Delete via /items/update & /items/delete for simplicity.
	catalogSvc := services.NewCatalogService(db)
	itemHandler := handlers.NewItemHandler(db, catalogSvc)
	mux.HandleFunc("/items", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			itemHandler.List(w, r)
		case http.MethodPost:
			itemHandler.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	})
	mux.HandleFunc("/items/update", requireMethod(http.MethodPost, itemHandler.Update))
	mux.HandleFunc("/items/delete", requireMethod(http.MethodPost, itemHandler.Delete))

	// Customer directory
	customerHandler := handlers.NewCustomerHandler(db)
	mux.HandleFunc("/customers", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			customerHandler.List(w, r)
		case http.MethodPost:
			customerHandler.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	})

	// Invoice endpoints
	invSvc := services.NewInvoiceService(db)
	invHandler := handlers.NewInvoiceHandler(db, invSvc, renderer, mediaDir)
	mux.HandleFunc("/invoices", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			invHandler.List(w, r)
		case http.MethodPost:
			invHandler.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	})
	mux.HandleFunc("/invoices/detail", requireMethod(http.MethodGet, invHandler.Detail))
	mux.HandleFunc("/invoices/status", requireMethod(http.MethodPost, invHandler.UpdateStatus))
	mux.HandleFunc("/invoices/pdf", requireMethod(http.MethodGet, invHandler.PDF))

	// Reports
	reportHandler := handlers.NewReportHandler(db)
	mux.HandleFunc("/reports/daily-sales", requireMethod(http.MethodGet, reportHandler.DailySales))

	// Root placeholder
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, werr := w.Write([]byte("Billing App API")); werr != nil {
			_ = werr
		}
	})
	//revive:enable:unused-parameter

	return withRecover(withLogging(mux))
}

func requireMethod(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		next(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func withLogging(next http.Handler) http.Handler {
	log := logger.WithComponent("http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func withRecover(next http.Handler) http.Handler {
	log := logger.WithComponent("http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panic")
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
