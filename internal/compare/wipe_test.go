package compare

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"media-viewer-core/internal/fault"
	"media-viewer-core/internal/geometry"

	"pgregory.net/rapid"
)

func TestWipeClip(t *testing.T) {
	vp := geometry.Size{W: 800, H: 600}

	tests := []struct {
		name     string
		mode     Mode
		percent  float64
		expected geometry.Rect
	}{
		{"horizontal half", ModeWipeHorizontal, 50, geometry.Rect{W: 400, H: 600}},
		{"vertical quarter", ModeWipeVertical, 25, geometry.Rect{W: 800, H: 150}},
		{"clamped high", ModeWipeHorizontal, 140, geometry.Rect{W: 800, H: 600}},
		{"clamped low", ModeWipeVertical, -3, geometry.Rect{W: 800, H: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WipeClip(vp, tt.mode, tt.percent)
			if err != nil {
				t.Fatalf("WipeClip() error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %+v, got %+v", tt.expected, got)
			}
		})
	}

	if _, err := WipeClip(geometry.Size{}, ModeWipeHorizontal, 50); !errors.Is(err, fault.ErrNotReady) {
		t.Errorf("Expected ErrNotReady without viewport, got %v", err)
	}
	if _, err := WipeClip(vp, ModeAdd, 50); !errors.Is(err, fault.ErrUnsupported) {
		t.Errorf("Expected ErrUnsupported for math mode, got %v", err)
	}
}

func TestWipePercentClampedProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		pos := rapid.Float64Range(-1e6, 1e6).Draw(t, "pos")
		start := rapid.Float64Range(-1000, 1000).Draw(t, "start")
		length := rapid.Float64Range(-10, 5000).Draw(t, "length")

		p := PercentFromPointer(pos, start, length)
		if p < 0 || p > 100 || math.IsNaN(p) {
			t.Fatalf("percent %v outside [0, 100]", p)
		}
		if c := ClampPercent(pos); c < 0 || c > 100 {
			t.Fatalf("clamped %v outside [0, 100]", c)
		}
	})
}

func TestPercentFromPointer(t *testing.T) {
	tests := []struct {
		pos, start, length float64
		expected           float64
	}{
		{150, 100, 200, 25},
		{0, 100, 200, 0},
		{900, 100, 200, 100},
		{150, 100, 0, DefaultWipePercent},
		{math.NaN(), 0, 100, DefaultWipePercent},
	}

	for _, tt := range tests {
		if got := PercentFromPointer(tt.pos, tt.start, tt.length); got != tt.expected {
			t.Errorf("Expected PercentFromPointer(%v, %v, %v)=%v, got %v", tt.pos, tt.start, tt.length, tt.expected, got)
		}
	}
}

func TestComposeWipe(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	a := solid(100, 50, red)
	b := solid(100, 50, blue)

	out, err := ComposeWipe(a, b, ModeWipeHorizontal, 30)
	if err != nil {
		t.Fatalf("ComposeWipe() error: %v", err)
	}
	if got := out.NRGBAAt(29, 10); got != red {
		t.Errorf("Expected A inside the clip, got %v", got)
	}
	if got := out.NRGBAAt(30, 10); got != blue {
		t.Errorf("Expected B outside the clip, got %v", got)
	}

	out, err = ComposeWipe(a, b, ModeWipeVertical, 50)
	if err != nil {
		t.Fatalf("ComposeWipe() error: %v", err)
	}
	if out.NRGBAAt(50, 24) != red || out.NRGBAAt(50, 25) != blue {
		t.Errorf("Expected vertical split at row 25, got %v / %v", out.NRGBAAt(50, 24), out.NRGBAAt(50, 25))
	}

	if _, err := ComposeWipe(a, b, ModeAdd, 50); !errors.Is(err, fault.ErrUnsupported) {
		t.Errorf("Expected ErrUnsupported for math mode, got %v", err)
	}
	if got := out.Bounds(); got != image.Rect(0, 0, 100, 50) {
		t.Errorf("Expected 100x50 output, got %v", got)
	}
}
