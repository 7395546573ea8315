package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Compositor metrics
var (
	CompareRendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewer_core_compare_renders_total",
			Help: "Total number of compare compositions by mode and status",
		},
		[]string{"mode", "status"},
	)

	CompareRenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "viewer_core_compare_render_duration_seconds",
			Help:    "Compare composition duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.016, 0.033, 0.05, 0.1, 0.25, 0.5},
		},
		[]string{"mode"},
	)

	CompareFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewer_core_compare_fallbacks_total",
			Help: "Total number of math-mode compositions degraded to the difference blend",
		},
		[]string{"mode", "reason"},
	)

	CompareRedrawsCoalesced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "viewer_core_compare_redraws_coalesced_total",
			Help: "Redraw requests merged into an already pending frame",
		},
	)

	CompareSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "viewer_core_compare_sessions_active",
			Help: "Number of live compare compositors",
		},
	)
)

// Transport metrics
var (
	TransportActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewer_core_transport_actions_total",
			Help: "Total number of transport actions by action",
		},
		[]string{"action"},
	)

	TransportEnforcementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewer_core_transport_range_enforcements_total",
			Help: "Range enforcement outcomes during playback",
		},
		[]string{"outcome"},
	)

	TransportControllersActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "viewer_core_transport_controllers_active",
			Help: "Number of live transport controllers",
		},
	)
)

// Frame-rate probe metrics
var (
	ProbeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewer_core_probe_total",
			Help: "Total number of frame-rate probes by status",
		},
		[]string{"status"},
	)

	ProbeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "viewer_core_probe_duration_seconds",
			Help:    "Frame-rate probe duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	ProbeCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "viewer_core_probe_cache_hits_total",
			Help: "Total number of frame-rate cache hits",
		},
	)

	ProbeCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "viewer_core_probe_cache_misses_total",
			Help: "Total number of frame-rate cache misses",
		},
	)

	ProbeCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "viewer_core_probe_cache_entries",
			Help: "Number of remembered frame rates",
		},
	)
)

// Filesystem retry metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewer_core_filesystem_retry_attempts_total",
			Help: "Retries of filesystem operations after a stale NFS handle",
		},
		[]string{"operation"},
	)

	FilesystemRetryOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewer_core_filesystem_retry_outcomes_total",
			Help: "Retried filesystem operations by final outcome",
		},
		[]string{"operation", "outcome"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewer_core_filesystem_stale_errors_total",
			Help: "ESTALE errors seen by filesystem operations",
		},
		[]string{"operation"},
	)

	FilesystemOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "viewer_core_filesystem_operation_duration_seconds",
			Help:    "Duration of filesystem operations including retries",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"operation"},
	)
)
