// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// quoteComputations counts totals computations by tax mode and result
	quoteComputations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashcore_quote_computations_total",
		Help: "Quote totals computations by tax mode and result",
	}, []string{"tax_mode", "result"})

	// overDiscounts counts computations flagged over-discount
	overDiscounts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dashcore_quote_over_discount_total",
		Help: "Quote totals computations where a discount exceeded its base",
	})

	// riskAssessments counts assessments by resulting level
	riskAssessments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashcore_risk_assessments_total",
		Help: "Contract risk assessments by level",
	}, []string{"level"})

	riskScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dashcore_risk_score",
		Help:    "Distribution of aggregated risk scores",
		Buckets: []float64{10, 25, 40, 50, 60, 75, 90, 100},
	})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dashcore_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	}, []string{"method", "route", "status"})
)

// ObserveQuote records one totals computation.
func ObserveQuote(taxMode string, err error, overDiscount bool) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	quoteComputations.WithLabelValues(taxMode, result).Inc()
	if overDiscount {
		overDiscounts.Inc()
	}
}

// ObserveRisk records one assessment.
func ObserveRisk(level string, score int) {
	riskAssessments.WithLabelValues(level).Inc()
	riskScore.Observe(float64(score))
}

// ObserveHTTP records one served request.
func ObserveHTTP(method, route string, status int, d time.Duration) {
	httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler exposes the default registry.
func Handler() http.Handler { return promhttp.Handler() }
