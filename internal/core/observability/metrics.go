package observability

import (
	"errors"
	"strconv"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backendLabel atomic.Value
	disabled     atomic.Bool
)

func init() {
	backendLabel.Store("none")
}

// SetBackend labels HTTP samples with the backend kind the process serves.
func SetBackend(s string) {
	if s == "" {
		s = "none"
	}
	backendLabel.Store(s)
}

func getBackend() string {
	if v := backendLabel.Load(); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "none"
}

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status", "backend"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~20s
		},
		[]string{"method", "route", "status", "backend"},
	)

	backendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocoder_backend_requests_total",
			Help: "Geocoding backend calls by service and operation.",
		},
		[]string{"service", "operation"},
	)

	backendErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocoder_backend_errors_total",
			Help: "Geocoding backend calls that failed and were answered with an empty result.",
		},
		[]string{"service", "operation"},
	)

	backendLatencySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geocoder_backend_latency_seconds",
			Help:    "Latency of geocoding backend calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"service", "operation"},
	)

	filterRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocoder_filter_rejections_total",
			Help: "Filter mutations rejected by limit or vocabulary.",
		},
		[]string{"filter"},
	)

	buildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name:        "app_build_info",
			Help:        "Build information for the binary.",
			ConstLabels: nil,
		},
		[]string{"version"},
	)
)

// Init also exposes the collectors through reg, e.g. a dedicated metrics
// listener. With enabled false observations become no-ops.
func Init(reg prometheus.Registerer, enabled bool) {
	disabled.Store(!enabled)
	if reg == nil || !enabled {
		return
	}
	for _, c := range []prometheus.Collector{
		httpRequestsTotal,
		httpRequestDurationSeconds,
		backendRequestsTotal,
		backendErrorsTotal,
		backendLatencySeconds,
		filterRejectionsTotal,
	} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				panic(err)
			}
		}
	}
}

func ObserveHTTP(method, route string, status int, durationSeconds float64) {
	if disabled.Load() {
		return
	}
	b := getBackend()
	st := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, st, b).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route, st, b).Observe(durationSeconds)
}

// ObserveBackendCall records one backend round trip; a non-nil err also
// counts as an error.
func ObserveBackendCall(service, operation string, err error, durationSeconds float64) {
	if disabled.Load() {
		return
	}
	backendRequestsTotal.WithLabelValues(service, operation).Inc()
	backendLatencySeconds.WithLabelValues(service, operation).Observe(durationSeconds)
	if err != nil {
		backendErrorsTotal.WithLabelValues(service, operation).Inc()
	}
}

func IncFilterRejection(filter string) {
	if disabled.Load() {
		return
	}
	filterRejectionsTotal.WithLabelValues(filter).Inc()
}

func ExposeBuildInfo(version string) {
	if version == "" {
		version = "dev"
	}
	buildInfo.WithLabelValues(version).Set(1)
}
