package compare

import (
	"image"

	"media-viewer-core/internal/fault"
	"media-viewer-core/internal/geometry"

	"golang.org/x/image/draw"
)

// DefaultWipePercent is the wipe position of a new compare session.
const DefaultWipePercent = 50

// ClampPercent limits p to [0, 100]. Non-finite input yields the default.
func ClampPercent(p float64) float64 {
	if !geometry.IsFinite(p) {
		return DefaultWipePercent
	}
	return geometry.Clamp(p, 0, 100)
}

// PercentFromPointer maps a pointer position on a slider track to a wipe
// percentage. Positions outside the track clamp to the ends.
func PercentFromPointer(pos, trackStart, trackLength float64) float64 {
	if !geometry.IsFinite(trackLength) || trackLength <= 0 || !geometry.IsFinite(pos) {
		return DefaultWipePercent
	}
	return geometry.Clamp01((pos-trackStart)/trackLength) * 100
}

// WipeClip returns the region of the viewport where asset A shows. The clip
// is in viewport pixels and does not depend on zoom or pan.
func WipeClip(viewport geometry.Size, mode Mode, percent float64) (geometry.Rect, error) {
	if !viewport.Valid() {
		return geometry.Rect{}, fault.NotReady("wipe clip", "viewport not laid out")
	}
	p := ClampPercent(percent) / 100
	switch mode {
	case ModeWipeHorizontal:
		return geometry.Rect{W: viewport.W * p, H: viewport.H}, nil
	case ModeWipeVertical:
		return geometry.Rect{W: viewport.W, H: viewport.H * p}, nil
	}
	return geometry.Rect{}, fault.Unsupported("wipe clip", string(mode))
}

// ComposeWipe renders a still wipe: B fills the output and A is drawn over
// it inside the clip. Both are brought to the size of the smaller source.
func ComposeWipe(a, b image.Image, mode Mode, percent float64) (*image.NRGBA, error) {
	if !mode.IsWipe() {
		return nil, fault.Unsupported("compose wipe", string(mode))
	}
	w, h, err := commonSize(a, b)
	if err != nil {
		return nil, err
	}
	clip, _ := WipeClip(geometry.Size{W: float64(w), H: float64(h)}, mode, percent)
	rect := image.Rect(0, 0, int(clip.W+0.5), int(clip.H+0.5))

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), fitTo(b, w, h), image.Point{}, draw.Src)
	draw.Draw(out, rect, fitTo(a, w, h), image.Point{}, draw.Src)
	return out, nil
}
