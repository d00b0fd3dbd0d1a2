package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/diewo77/dashcore/i18n"
	"github.com/diewo77/dashcore/internal/handlers"
	"github.com/diewo77/dashcore/internal/metrics"
	"github.com/diewo77/dashcore/internal/services"
	"github.com/diewo77/dashcore/internal/store"
	"github.com/diewo77/dashcore/risk"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux    *http.ServeMux
	logger *slog.Logger
	quotes *handlers.QuoteHandler
	risks  *handlers.RiskHandler
}

// NewApp creates a new application with all routes configured.
func NewApp(db *gorm.DB, rules risk.Rules, logger *slog.Logger, opts ...services.RiskOption) *App {
	app := &App{
		mux:    http.NewServeMux(),
		logger: logger,
		quotes: handlers.NewQuoteHandler(services.NewQuoteService(store.NewQuoteStore(db), logger), logger),
		risks:  handlers.NewRiskHandler(services.NewRiskService(store.NewRiskStore(db), rules, logger, opts...), logger),
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler := withRequestID(withPreferences(withLogging(a.logger, a.mux)))
	handler.ServeHTTP(w, r)
}

func (a *App) setupRoutes() {
	a.mux.HandleFunc("GET /healthz", handlers.Health)
	a.mux.Handle("GET /metrics", metrics.Handler())

	// Quotes
	a.mux.HandleFunc("POST /api/quotes/totals", a.quotes.Totals)
	a.mux.HandleFunc("POST /api/quotes", a.quotes.Create)
	a.mux.HandleFunc("GET /api/quotes", a.quotes.List)
	a.mux.HandleFunc("GET /api/quotes/{id}", a.quotes.View)
	a.mux.HandleFunc("PUT /api/quotes/{id}", a.quotes.Update)
	a.mux.HandleFunc("DELETE /api/quotes/{id}", a.quotes.Delete)

	// Contract risk
	a.mux.HandleFunc("POST /api/contracts/{ref}/risk", a.risks.Assess)
	a.mux.HandleFunc("GET /api/contracts/{ref}/risk", a.risks.View)
	a.mux.HandleFunc("GET /api/risk-assessments", a.risks.List)

	a.mux.HandleFunc("GET /api/variance", handlers.Variance)
}

type ctxKey string

const ctxRequestID ctxKey = "request_id"

// RequestIDFrom returns the request ID set by withRequestID.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxRequestID).(string)
	return id
}

// withRequestID reuses an incoming X-Request-ID or generates one.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxRequestID, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withLogging logs and times each request. It must wrap the mux directly
// so that r.Pattern is visible after dispatch.
func withLogging(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTP(r.Method, route, rec.status, elapsed)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", elapsed.String(),
			"request_id", RequestIDFrom(r.Context()),
		)
	})
}

// withPreferences picks the response language: ?lang, then the lang cookie,
// then Accept-Language.
func withPreferences(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := ""
		if c, err := r.Cookie("lang"); err == nil && c.Value != "" {
			lang = c.Value
		}
		if q := r.URL.Query().Get("lang"); q != "" {
			lang = q
		}
		if lang != "fr" && lang != "en" {
			lang = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		}
		next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
	})
}
