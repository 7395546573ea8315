package compare

import (
	"image"

	"media-viewer-core/internal/config"
	"media-viewer-core/internal/geometry"
)

// Options configures a Compositor.
type Options struct {
	// RefreshCap bounds recomputation per second while media plays.
	RefreshCap    float64
	MaxMathPixels int
	Gain          float64
	Observer      Observer
}

// OptionsFrom builds options from the compare settings section.
func OptionsFrom(s config.CompareSettings) Options {
	return Options{
		RefreshCap:    s.RefreshCap,
		MaxMathPixels: s.MaxMathPixels,
		Gain:          s.Gain,
	}
}

func (o *Options) normalize() {
	if !geometry.IsFinite(o.RefreshCap) || o.RefreshCap <= 0 {
		o.RefreshCap = 30
	}
	if o.MaxMathPixels <= 0 {
		o.MaxMathPixels = 4_000_000
	}
	if !geometry.IsFinite(o.Gain) || o.Gain < 1 {
		o.Gain = 4
	}
}

// Observer receives compositor events for metrics.
type Observer interface {
	ObserveRender(mode string, durationSeconds float64, err error)
	ObserveFallback(mode, reason string)
	ObserveCoalesced()
	ObserveSession(delta int)
}

// Frame is one composed view handed to the Renderer.
type Frame struct {
	Mode Mode
	// Applied is what was rendered: Mode, or ModeAbsDifference after a
	// fallback.
	Applied Mode
	// Wipe is A's clip in viewport pixels for wipe modes.
	Wipe geometry.Rect
	// Image is the computed bitmap for math modes. It is nil when Layered
	// is set.
	Image *image.NRGBA
	// Layered asks the renderer to stack A over B with a difference blend
	// because pixels could not be computed.
	Layered  bool
	Fallback string
}

// Renderer displays composed frames.
type Renderer interface {
	Render(Frame)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(Frame)

// Render implements Renderer.
func (f RendererFunc) Render(fr Frame) { f(fr) }
