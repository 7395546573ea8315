package metrics

import (
	"media-viewer-core/internal/compare"
	"media-viewer-core/internal/filesystem"
	"media-viewer-core/internal/probe"
	"media-viewer-core/internal/transport"
)

// compareObserver implements compare.Observer using the Prometheus metrics
// declared in this package.
type compareObserver struct{}

// NewCompareObserver creates an observer that records compositor metrics.
func NewCompareObserver() compare.Observer {
	return &compareObserver{}
}

func (o *compareObserver) ObserveRender(mode string, durationSeconds float64, err error) {
	CompareRenderDuration.WithLabelValues(mode).Observe(durationSeconds)
	status := "success"
	if err != nil {
		status = "error"
	}
	CompareRendersTotal.WithLabelValues(mode, status).Inc()
}

func (o *compareObserver) ObserveFallback(mode, reason string) {
	CompareFallbacksTotal.WithLabelValues(mode, reason).Inc()
}

func (o *compareObserver) ObserveCoalesced() {
	CompareRedrawsCoalesced.Inc()
}

func (o *compareObserver) ObserveSession(delta int) {
	CompareSessionsActive.Add(float64(delta))
}

// transportObserver implements transport.Observer.
type transportObserver struct{}

// NewTransportObserver creates an observer that records transport metrics.
func NewTransportObserver() transport.Observer {
	return &transportObserver{}
}

func (o *transportObserver) ObserveAction(action string) {
	TransportActionsTotal.WithLabelValues(action).Inc()
}

func (o *transportObserver) ObserveEnforcement(outcome string) {
	TransportEnforcementsTotal.WithLabelValues(outcome).Inc()
}

func (o *transportObserver) ObserveLifecycle(delta int) {
	TransportControllersActive.Add(float64(delta))
}

// probeObserver implements probe.Observer.
type probeObserver struct{}

// NewProbeObserver creates an observer that records frame-rate probe metrics.
func NewProbeObserver() probe.Observer {
	return &probeObserver{}
}

func (o *probeObserver) ObserveProbe(status string, durationSeconds float64) {
	ProbeTotal.WithLabelValues(status).Inc()
	if status == "success" || status == "error" {
		ProbeDuration.Observe(durationSeconds)
	}
}

func (o *probeObserver) ObserveCacheHit() {
	ProbeCacheHits.Inc()
}

func (o *probeObserver) ObserveCacheMiss() {
	ProbeCacheMisses.Inc()
}

// filesystemObserver implements filesystem.Observer.
type filesystemObserver struct{}

// NewFilesystemObserver creates an observer that records NFS retry metrics.
func NewFilesystemObserver() filesystem.Observer {
	return &filesystemObserver{}
}

func (o *filesystemObserver) ObserveRetryAttempt(op string) {
	FilesystemRetryAttempts.WithLabelValues(op).Inc()
}

func (o *filesystemObserver) ObserveRetrySuccess(op string) {
	FilesystemRetryOutcomes.WithLabelValues(op, "success").Inc()
}

func (o *filesystemObserver) ObserveRetryFailure(op string) {
	FilesystemRetryOutcomes.WithLabelValues(op, "failure").Inc()
}

func (o *filesystemObserver) ObserveRetryDuration(op string, durationSeconds float64) {
	FilesystemOperationDuration.WithLabelValues(op).Observe(durationSeconds)
}

func (o *filesystemObserver) ObserveStaleError(op string) {
	FilesystemStaleErrors.WithLabelValues(op).Inc()
}
