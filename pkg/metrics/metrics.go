package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	AnalysesTotal       *prometheus.CounterVec
	AnalysisDuration    prometheus.Histogram
	ScrapeDuration      *prometheus.HistogramVec
	CheckoutsTotal      *prometheus.CounterVec
)

var initOnce sync.Once

// Init registers all collectors. Safe to call more than once; promauto
// panics on duplicate registration otherwise.
func Init() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		)

		AnalysesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analyses_total",
				Help: "Total number of analysis runs.",
			},
			[]string{"status", "error_type"}, // status: success, failure
		)

		AnalysisDuration = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "analysis_duration_seconds",
				Help:    "End-to-end duration of analysis runs.",
				Buckets: []float64{1, 5, 10, 15, 30, 60, 120},
			},
		)

		ScrapeDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scrape_duration_seconds",
				Help:    "Duration of browser page scrapes.",
				Buckets: []float64{1, 5, 10, 15, 30, 60},
			},
			[]string{"domain"},
		)

		CheckoutsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_sessions_total",
				Help: "Total number of checkout session requests.",
			},
			[]string{"outcome"}, // created, failed
		)
	})
}
