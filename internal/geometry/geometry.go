package geometry

import "math"

// Size is a width/height pair in device-independent pixels.
type Size struct {
	W float64
	H float64
}

// Valid reports whether both dimensions are finite and positive.
func (s Size) Valid() bool {
	return IsFinite(s.W) && IsFinite(s.H) && s.W > 0 && s.H > 0
}

// Aspect returns W/H, or 0 when the size is not valid.
func (s Size) Aspect() float64 {
	if !s.Valid() {
		return 0
	}
	return s.W / s.H
}

// Pixels returns the pixel count of the size.
func (s Size) Pixels() float64 {
	return s.W * s.H
}

// Point is a position or offset in device-independent pixels.
type Point struct {
	X float64
	Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p multiplied by k on both axes.
func (p Point) Scale(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Clamp limits v to [lo, hi]. NaN collapses to lo. If the bounds are
// reversed they are swapped.
func Clamp(v, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to the unit interval.
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// ClampInt limits v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if lo > hi {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FitHeight returns the zoom=1 box for content of the given aspect ratio:
// the box takes the full viewport height and its width follows the aspect,
// overflowing horizontally for wide content instead of shrinking.
func FitHeight(aspect float64, viewport Size) (Size, bool) {
	if !IsFinite(aspect) || aspect <= 0 || !viewport.Valid() {
		return Size{}, false
	}
	return Size{W: viewport.H * aspect, H: viewport.H}, true
}

// ContainFit scales content to lie entirely within the viewport while
// preserving aspect ratio.
func ContainFit(content, viewport Size) (Size, bool) {
	if !content.Valid() || !viewport.Valid() {
		return Size{}, false
	}
	scale := math.Min(viewport.W/content.W, viewport.H/content.H)
	return Size{W: content.W * scale, H: content.H * scale}, true
}

// Overflow returns how far box exceeds viewport on each axis, never negative.
func Overflow(box, viewport Size) Size {
	return Size{
		W: math.Max(0, box.W-viewport.W),
		H: math.Max(0, box.H-viewport.H),
	}
}
