/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions: the
  wiring layer connecting URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:     unique ID per request for tracing
  2. requestLogger: structured request logging, logger injected into context
  3. Recoverer:     panic recovery (500 instead of crash)
  4. CORS:          cross-origin requests for the dashboard frontend

ROUTE GROUPS:
  /api/shifts       Shift close-out and listing
  /api/days         Day closing, next-day opening, summaries
  /api/credit       Signed-bill itemization and finalization
  /api/repayments   Paid-bill recording and listing
  /api/attendants   Roster management and derived status
  /api/customers    Credit customer registry
  /api/reports      Finance range reports
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/smartcash/shift-ledger/logger"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, log zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", h.ListShifts)
			r.Post("/", h.CloseShift)
		})

		r.Route("/days", func(r chi.Router) {
			r.Get("/{date}/summary", h.DaySummary)
			r.Post("/{date}/close", h.CloseDay)
			r.Post("/{date}/next", h.OpenNextDay)
		})

		r.Route("/credit", func(r chi.Router) {
			r.Get("/{date}", h.GetCreditLedger)
			r.Post("/{date}/entries", h.RecordCreditLine)
			r.Post("/{date}/finalize", h.FinalizeCreditLedger)
		})

		r.Route("/repayments", func(r chi.Router) {
			r.Get("/", h.ListRepayments)
			r.Post("/", h.RecordRepayment)
		})

		r.Route("/attendants", func(r chi.Router) {
			r.Get("/", h.ListAttendants)
			r.Post("/", h.RegisterAttendant)
			r.Get("/status", h.RosterStatus)
			r.Delete("/{id}", h.DeleteAttendant)
		})

		r.Get("/customers", h.ListCustomers)
		r.Get("/reports/range", h.RangeReport)
	})

	return r
}

// requestLogger injects the logger into the request context and logs each
// completed request with its chi request ID.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLog := log.With().
				Str("request_id", middleware.GetReqID(r.Context())).
				Logger()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context(), reqLog)))

			reqLog.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		})
	}
}
