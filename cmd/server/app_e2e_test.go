package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/dashcore/internal/db"
	"github.com/diewo77/dashcore/internal/logging"
	"github.com/diewo77/dashcore/internal/services"
	"github.com/diewo77/dashcore/risk"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupE2EApp(t *testing.T) *App {
	t.Helper()
	dbi, err := gorm.Open(sqlite.Open("file:e2e_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(dbi); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return NewApp(dbi, risk.DefaultRules(), logging.Discard(), services.WithClock(func() time.Time { return now }))
}

func TestHealthAndRequestID(t *testing.T) {
	app := setupE2EApp(t)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status %d", rec.Code)
	}
	if len(rec.Header().Get("X-Request-ID")) != 36 {
		t.Fatalf("expected generated request id, got %q", rec.Header().Get("X-Request-ID"))
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") != "abc-123" {
		t.Fatalf("incoming request id not propagated")
	}
}

func TestValidationLanguageE2E(t *testing.T) {
	app := setupE2EApp(t)
	body := `{"items":[{"quantity":-1,"unit_price":10}]}`

	req := httptest.NewRequest(http.MethodPost, "/api/quotes/totals", strings.NewReader(body))
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "Must not be negative") {
		t.Fatalf("expected english violation, got %d %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/quotes/totals?lang=fr", strings.NewReader(body))
	req.Header.Set("Accept-Language", "en")
	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), "négatif") {
		t.Fatalf("expected french violation, got %s", rec.Body.String())
	}
}

func TestRiskAndMetricsE2E(t *testing.T) {
	app := setupE2EApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/contracts/C-77/risk",
		strings.NewReader(`{"counterparty":"ACME","value":150000,"expiration_date":"2025-05-01"}`))
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("assess status %d: %s", rec.Code, rec.Body.String())
	}
	// high value (75) + expired (90) -> 83, critical
	if !strings.Contains(rec.Body.String(), `"risk_score":83`) || !strings.Contains(rec.Body.String(), `"risk_level":"critical"`) {
		t.Fatalf("unexpected assessment: %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `dashcore_risk_assessments_total{level="critical"}`) {
		t.Fatalf("risk counter missing from metrics output")
	}
	if !strings.Contains(rec.Body.String(), `route="POST /api/contracts/{ref}/risk"`) {
		t.Fatalf("route label missing from metrics output")
	}
}
