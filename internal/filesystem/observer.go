package filesystem

import "sync"

// Observer records retry metrics. Implementations are provided by the
// metrics package to break the import cycle between filesystem and metrics.
// op is "stat" or "open".
type Observer interface {
	ObserveRetryAttempt(op string)
	ObserveRetrySuccess(op string)
	ObserveRetryFailure(op string)
	ObserveRetryDuration(op string, durationSeconds float64)
	ObserveStaleError(op string)
}

var (
	observerMu      sync.RWMutex
	defaultObserver Observer
)

// SetObserver sets the package-level metrics observer.
// Call this once at startup after creating the observer implementation.
func SetObserver(o Observer) {
	observerMu.Lock()
	defer observerMu.Unlock()
	defaultObserver = o
}

// observe returns the package-level observer, or nil when none is set.
func observe() Observer {
	observerMu.RLock()
	defer observerMu.RUnlock()
	return defaultObserver
}
