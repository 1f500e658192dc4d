// Package http exposes the ledger view-model to the presentation layer as a
// small JSON API.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"hisab/internal/ledger"
	applog "hisab/internal/log"
)

// NewServer builds the HTTP server serving the ledger API on addr.
func NewServer(addr string, l *ledger.Ledger, logger *applog.Logger) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        NewRouter(l, logger),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
}

// NewRouter wires the API routes.
func NewRouter(l *ledger.Ledger, logger *applog.Logger) *chi.Mux {
	h := &handlers{ledger: l}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(applog.Middleware(logger.WithComponent(applog.ComponentHTTP)))
	r.Use(requestLogger)

	r.Get("/healthz", h.health)
	r.Get("/readyz", h.ready)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ledger", h.getLedger)
		r.Get("/categories", h.getCategories)
		r.Post("/transactions", h.addTransaction)
		r.Delete("/transactions/{id}", h.deleteTransaction)
		r.Put("/budget", h.updateBudget)
		r.Post("/months/previous", h.previousMonth)
		r.Post("/months/next", h.nextMonth)
	})

	return r
}

// requestLogger logs one line per completed request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		logger := applog.FromContext(r.Context())
		logger.InfoContext(r.Context(), "HTTP request completed",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, ww.Status(),
			applog.FieldDuration, time.Since(start).Milliseconds(),
			applog.FieldRequestID, chimw.GetReqID(r.Context()))
	})
}
