package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pettag_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pettag_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	LookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pettag_lookups_total",
		Help: "Public lookups by outcome (found, unclaimed, invalid, error)",
	}, []string{"outcome"})

	ActivationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pettag_activations_total",
		Help: "Tag activation attempts by result",
	}, []string{"result"})

	TagsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pettag_tags_created_total",
		Help: "Tags created as available by the admin tools",
	})

	ScansRecordedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pettag_scans_recorded_total",
		Help: "Scan events written, by geolocation sub-outcome",
	}, []string{"location_status"})

	ScanWriteFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pettag_scan_write_failures_total",
		Help: "Scan events dropped because the store write failed",
	})

	PendingScans = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pettag_pending_scans",
		Help: "Profile loads waiting for the browser geolocation result",
	})
)

// Handler expone el registry por defecto para /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
