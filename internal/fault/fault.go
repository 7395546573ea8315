// Package fault defines the error kinds shared by the viewer engine.
//
// Nothing in the engine is fatal. Operations that cannot run yet return an
// error wrapping one of the sentinels below so that callers (and tests) can
// tell a deferred action from a real failure, then log and carry on.
package fault

import (
	"errors"
	"fmt"

	"media-viewer-core/internal/logging"
)

// Sentinel errors for engine operations.
var (
	// ErrNotReady indicates the bound media or surface has no metadata,
	// natural size or layout yet. State is unchanged; retry on the next signal.
	ErrNotReady = errors.New("not ready")

	// ErrDestroyed indicates the controller was released. Stale callbacks
	// land here and are dropped.
	ErrDestroyed = errors.New("controller destroyed")

	// ErrUnsupported indicates a compositing path is unavailable for the
	// inputs (tainted, oversized or time-based source). Callers fall back.
	ErrUnsupported = errors.New("unsupported operation")
)

// NotReady wraps ErrNotReady with the operation and a reason.
func NotReady(op, reason string) error {
	return fmt.Errorf("%s: %w: %s", op, ErrNotReady, reason)
}

// Unsupported wraps ErrUnsupported with the operation and a reason.
func Unsupported(op, reason string) error {
	return fmt.Errorf("%s: %w: %s", op, ErrUnsupported, reason)
}

// Destroyed wraps ErrDestroyed with the operation name.
func Destroyed(op string) error {
	return fmt.Errorf("%s: %w", op, ErrDestroyed)
}

// Expected reports whether err is one of the kinds the engine absorbs
// silently (not ready or destroyed).
func Expected(err error) bool {
	return errors.Is(err, ErrNotReady) || errors.Is(err, ErrDestroyed)
}

// Absorb is the log-and-continue helper for call sites. Expected kinds are
// logged at debug, anything else at warn. It returns true when err was nil or
// expected.
func Absorb(log *logging.Logger, op string, err error) bool {
	if err == nil {
		return true
	}
	if Expected(err) {
		log.Debug("%s deferred: %v", op, err)
		return true
	}
	log.Warn("%s failed: %v", op, err)
	return false
}
