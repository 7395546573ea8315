package transport

import (
	"media-viewer-core/internal/config"
	"media-viewer-core/internal/media"
	"media-viewer-core/internal/signal"
)

// Variant selects how much of the transport is exposed.
type Variant int

const (
	// VariantAdvanced is the full viewer bar: range, stepping, speed.
	VariantAdvanced Variant = iota
	// VariantPreview autoplays on a loop with no range or transport
	// controls; those actions are no-ops.
	VariantPreview
)

func (v Variant) String() string {
	if v == VariantPreview {
		return "preview"
	}
	return "advanced"
}

// Rate bounds.
const (
	MinRate = 0.25
	MaxRate = 2.0
	// RateStep is the increment used by the speed keys.
	RateStep = 0.25
)

// Options configures a Controller.
type Options struct {
	Variant     Variant
	DefaultRate float64
	DefaultFPS  float64
	Step        int
	// Sink receives play-state signals. Nil discards them.
	Sink signal.Sink
	// Observer records metrics. Nil disables recording.
	Observer Observer
}

// OptionsFrom builds options from the transport settings section.
func OptionsFrom(s config.TransportSettings) Options {
	return Options{
		DefaultRate: s.DefaultRate,
		DefaultFPS:  s.DefaultFPS,
		Step:        s.Step,
	}
}

func (o *Options) normalize() {
	if o.DefaultRate <= 0 {
		o.DefaultRate = 1
	}
	o.DefaultRate = ClampRate(o.DefaultRate)
	o.DefaultFPS = media.NormalizeFPS(o.DefaultFPS)
	if o.Step < 1 {
		o.Step = 1
	}
	if o.Sink == nil {
		o.Sink = signal.NopSink{}
	}
}

// Observer receives transport events for metrics. Implementations must be
// cheap; they run inline with playback.
type Observer interface {
	ObserveAction(action string)
	ObserveEnforcement(outcome string)
	ObserveLifecycle(delta int)
}
