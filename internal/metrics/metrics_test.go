package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveQuote(t *testing.T) {
	okBefore := testutil.ToFloat64(quoteComputations.WithLabelValues("nominal", "ok"))
	errBefore := testutil.ToFloat64(quoteComputations.WithLabelValues("nominal", "error"))
	overBefore := testutil.ToFloat64(overDiscounts)

	ObserveQuote("nominal", nil, true)
	ObserveQuote("nominal", errors.New("boom"), false)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(quoteComputations.WithLabelValues("nominal", "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(quoteComputations.WithLabelValues("nominal", "error")))
	assert.Equal(t, overBefore+1, testutil.ToFloat64(overDiscounts))
}

func TestHandlerExposesCollectors(t *testing.T) {
	ObserveRisk("high", 75)
	ObserveHTTP(http.MethodGet, "/healthz", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `dashcore_risk_assessments_total{level="high"}`)
	assert.Contains(t, body, "dashcore_risk_score_bucket")
	assert.Contains(t, body, "dashcore_http_request_duration_seconds")
}
