package compare

import (
	"image"
	"sync"

	"media-viewer-core/internal/element"
	"media-viewer-core/internal/fault"
	"media-viewer-core/internal/geometry"
	"media-viewer-core/internal/media"
)

// Source is one side of a comparison.
type Source interface {
	ID() string
	// NaturalSize is the intrinsic size; ok is false until it is known.
	NaturalSize() (geometry.Size, bool)
	// Bitmap returns the pixels to compose. It returns fault.ErrNotReady
	// while decoding and fault.ErrUnsupported when pixels cannot be read.
	Bitmap() (image.Image, error)
	TimeBased() bool
}

// Timed is a Source backed by a playable element.
type Timed interface {
	Source
	Element() element.Element
}

// Still is an image source. It is not ready until an image is set.
type Still struct {
	id string

	mu  sync.RWMutex
	img image.Image
	// tainted marks pixels that may be shown but not read back.
	tainted bool
}

// NewStill returns a still source. img may be nil while decoding.
func NewStill(id string, img image.Image) *Still {
	return &Still{id: id, img: img}
}

// LoadStill decodes path with media.LoadBitmap.
func LoadStill(id, path string) (*Still, error) {
	img, err := media.LoadBitmap(path, media.MaxBitmapDimension, media.MaxBitmapPixels)
	if err != nil {
		return nil, err
	}
	return NewStill(id, img), nil
}

// SetImage replaces the decoded image.
func (s *Still) SetImage(img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.img = img
}

// SetTainted marks the pixels unreadable.
func (s *Still) SetTainted(tainted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tainted = tainted
}

// ID implements Source.
func (s *Still) ID() string { return s.id }

// TimeBased implements Source.
func (s *Still) TimeBased() bool { return false }

// NaturalSize implements Source.
func (s *Still) NaturalSize() (geometry.Size, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.img == nil {
		return geometry.Size{}, false
	}
	b := s.img.Bounds()
	size := geometry.Size{W: float64(b.Dx()), H: float64(b.Dy())}
	return size, size.Valid()
}

// Bitmap implements Source.
func (s *Still) Bitmap() (image.Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.img == nil {
		return nil, fault.NotReady("bitmap", "still not decoded")
	}
	if s.tainted {
		return nil, fault.Unsupported("bitmap", "pixels not readable")
	}
	return s.img, nil
}

// FrameFunc returns the decoded picture at media time t.
type FrameFunc func(t float64) (image.Image, error)

// Video is a time-based source: an element plus a frame decoder.
type Video struct {
	el     element.Element
	size   geometry.Size
	frames FrameFunc
}

// NewVideo returns a video source of the given natural size.
func NewVideo(el element.Element, size geometry.Size, frames FrameFunc) *Video {
	return &Video{el: el, size: size, frames: frames}
}

// ID implements Source.
func (v *Video) ID() string { return v.el.ID() }

// Element implements Timed.
func (v *Video) Element() element.Element { return v.el }

// TimeBased implements Source.
func (v *Video) TimeBased() bool { return true }

// NaturalSize implements Source.
func (v *Video) NaturalSize() (geometry.Size, bool) {
	if _, ok := v.el.Duration(); !ok {
		return geometry.Size{}, false
	}
	return v.size, v.size.Valid()
}

// Bitmap implements Source.
func (v *Video) Bitmap() (image.Image, error) {
	if _, ok := v.el.Duration(); !ok {
		return nil, fault.NotReady("bitmap", "no metadata yet")
	}
	if v.frames == nil {
		return nil, fault.Unsupported("bitmap", "no frame decoder")
	}
	return v.frames(v.el.CurrentTime())
}
