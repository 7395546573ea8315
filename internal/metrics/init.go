package metrics

// Label values known up front. Kept in sync with the strings the engine
// packages report.
var (
	compareModes = []string{
		"wipe-horizontal", "wipe-vertical", "difference", "abs-difference",
		"subtract", "multiply", "screen", "add",
	}
	fallbackReasons    = []string{"oversized", "time-based", "unsupported", "error"}
	transportActions   = []string{"play", "pause", "toggle", "step", "seek", "jump_in", "jump_out", "set_in", "set_out", "clear_range", "rate", "loop", "once"}
	enforcementResults = []string{"loop", "once", "stop", "snap_in", "ended_loop"}
	probeStatuses      = []string{"success", "error", "cancelled", "stale"}
	filesystemOps      = []string{"stat", "open"}
)

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, mode := range compareModes {
		CompareRendersTotal.WithLabelValues(mode, "success")
		CompareRendersTotal.WithLabelValues(mode, "error")
		CompareRenderDuration.WithLabelValues(mode)
		for _, reason := range fallbackReasons {
			CompareFallbacksTotal.WithLabelValues(mode, reason)
		}
	}

	for _, action := range transportActions {
		TransportActionsTotal.WithLabelValues(action)
	}
	for _, outcome := range enforcementResults {
		TransportEnforcementsTotal.WithLabelValues(outcome)
	}

	for _, status := range probeStatuses {
		ProbeTotal.WithLabelValues(status)
	}

	for _, op := range filesystemOps {
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemRetryOutcomes.WithLabelValues(op, "success")
		FilesystemRetryOutcomes.WithLabelValues(op, "failure")
		FilesystemStaleErrors.WithLabelValues(op)
		FilesystemOperationDuration.WithLabelValues(op)
	}
}
