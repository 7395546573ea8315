package transform

import (
	"media-viewer-core/internal/config"
	"media-viewer-core/internal/geometry"
)

// Options bounds zoom and controls pan at fit.
type Options struct {
	ZoomMin float64
	ZoomMax float64
	// ZoomStep is the multiplicative factor of one wheel notch or key press.
	ZoomStep float64
	// PanAtFit allows panning content that overflows the viewport at zoom=1.
	PanAtFit bool
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return OptionsFrom(config.Defaults().Transform)
}

// OptionsFrom converts the settings section into controller options.
func OptionsFrom(s config.TransformSettings) Options {
	o := Options{
		ZoomMin:  s.ZoomMin,
		ZoomMax:  s.ZoomMax,
		ZoomStep: s.ZoomStep,
		PanAtFit: s.PanAtFit,
	}
	o.normalize()
	return o
}

func (o *Options) normalize() {
	if !geometry.IsFinite(o.ZoomMin) || o.ZoomMin <= 0 {
		o.ZoomMin = 0.1
	}
	if !geometry.IsFinite(o.ZoomMax) || o.ZoomMax <= 0 {
		o.ZoomMax = 8
	}
	if o.ZoomMin > o.ZoomMax {
		o.ZoomMin, o.ZoomMax = o.ZoomMax, o.ZoomMin
	}
	// Fit must stay reachable.
	if o.ZoomMin > 1 {
		o.ZoomMin = 1
	}
	if o.ZoomMax < 1 {
		o.ZoomMax = 1
	}
	if !geometry.IsFinite(o.ZoomStep) || o.ZoomStep <= 1 {
		o.ZoomStep = 1.25
	}
}
