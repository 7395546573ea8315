package geometry

import (
	"sync"
	"time"
)

// DefaultViewportTTL is how long a measured viewport is reused before the
// provider is asked again.
const DefaultViewportTTL = 250 * time.Millisecond

// Viewport is the measured display area of a rendering surface.
type Viewport struct {
	Width  float64
	Height float64
	// DPR is the device pixel ratio; values <= 0 are treated as 1.
	DPR float64
}

// Size returns the viewport dimensions.
func (v Viewport) Size() Size {
	return Size{W: v.Width, H: v.Height}
}

// PixelRatio returns the device pixel ratio, defaulting to 1.
func (v Viewport) PixelRatio() float64 {
	if !IsFinite(v.DPR) || v.DPR <= 0 {
		return 1
	}
	return v.DPR
}

// ViewportProvider measures the current viewport. ok is false while the
// surface is not laid out yet.
type ViewportProvider interface {
	Viewport() (vp Viewport, ok bool)
}

// ViewportFunc adapts a function to ViewportProvider.
type ViewportFunc func() (Viewport, bool)

// Viewport implements ViewportProvider.
func (f ViewportFunc) Viewport() (Viewport, bool) {
	return f()
}

// StaticViewport is a fixed-size provider.
type StaticViewport Viewport

// Viewport implements ViewportProvider.
func (s StaticViewport) Viewport() (Viewport, bool) {
	v := Viewport(s)
	return v, v.Size().Valid()
}

// ViewportCache memoizes a provider for a short TTL so repeated geometry
// reads during one gesture do not force a layout each time.
type ViewportCache struct {
	provider ViewportProvider
	ttl      time.Duration
	now      func() time.Time

	mu       sync.Mutex
	cached   Viewport
	cachedAt time.Time
	valid    bool
}

// NewViewportCache wraps provider. A ttl <= 0 uses DefaultViewportTTL.
func NewViewportCache(provider ViewportProvider, ttl time.Duration) *ViewportCache {
	if ttl <= 0 {
		ttl = DefaultViewportTTL
	}
	return &ViewportCache{provider: provider, ttl: ttl, now: time.Now}
}

// SetClock replaces the time source. Used by tests.
func (c *ViewportCache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Viewport implements ViewportProvider. Unready measurements are not cached.
func (c *ViewportCache) Viewport() (Viewport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.valid && now.Sub(c.cachedAt) < c.ttl {
		return c.cached, true
	}
	if c.provider == nil {
		return Viewport{}, false
	}
	vp, ok := c.provider.Viewport()
	if !ok || !vp.Size().Valid() {
		c.valid = false
		return Viewport{}, false
	}
	c.cached = vp
	c.cachedAt = now
	c.valid = true
	return vp, true
}

// Invalidate drops the cached measurement. Call on resize or mode change.
func (c *ViewportCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
}
