// Package metrics provides Prometheus instrumentation for the viewer engine.
//
// All metrics are prefixed with "viewer_core_".
//
// # Metric Categories
//
// ## Compositor
//
//   - CompareRendersTotal: compositions by mode and status
//   - CompareRenderDuration: composition time by mode
//   - CompareFallbacksTotal: math modes degraded to the difference blend, by reason
//   - CompareRedrawsCoalesced: redraw triggers merged into a pending frame
//   - CompareSessionsActive: live compositors
//
// ## Transport
//
//   - TransportActionsTotal: play/pause/step/seek/range/rate actions
//   - TransportEnforcementsTotal: range enforcement outcomes (loop, once, stop, snap_in)
//   - TransportControllersActive: live transport controllers
//
// ## Frame-rate probe
//
//   - ProbeTotal, ProbeDuration: ffprobe lookups by status
//   - ProbeCacheHits, ProbeCacheMisses, ProbeCacheEntries: detected-rate cache
//
// # Observers
//
// The engine packages do not import this package. They report through small
// Observer interfaces (compare.Observer, transport.Observer, probe.Observer)
// implemented here, so a host wires metrics in with:
//
//	comp := compare.New(..., compare.WithObserver(metrics.NewCompareObserver()))
//
// A nil observer disables recording, which keeps tests free of global state.
//
// # Exposition
//
// Metrics are registered with the default registry through promauto and
// served by promhttp.Handler(); see viewerctl serve-metrics.
package metrics
