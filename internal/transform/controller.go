package transform

import (
	"fmt"
	"math"
	"sync"

	"media-viewer-core/internal/fault"
	"media-viewer-core/internal/geometry"
	"media-viewer-core/internal/logging"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats/scalar"
)

// SnapEpsilon is the distance from 1.0 within which zoom snaps to fit.
const SnapEpsilon = 0.01

// Transform is the rendering-layer view of the current state. Offsets are
// screen pixels from the viewport center to the content box center.
type Transform struct {
	ScaleX  float64
	ScaleY  float64
	OffsetX float64
	OffsetY float64
}

// CSS renders t as a CSS transform value.
func (t Transform) CSS() string {
	return fmt.Sprintf("translate(%.3fpx, %.3fpx) scale(%.4f, %.4f)", t.OffsetX, t.OffsetY, t.ScaleX, t.ScaleY)
}

// Controller owns zoom and pan for one rendering surface. It is safe for
// concurrent use.
type Controller struct {
	id       string
	log      *logging.Logger
	viewport geometry.ViewportProvider

	mu      sync.Mutex
	opts    Options
	natural geometry.Size
	zoom    float64
	pan     geometry.Point
	drag    *dragState
}

type dragState struct {
	last geometry.Point
}

// New creates a controller at fit. viewport supplies the surface size; it
// is typically a geometry.ViewportCache.
func New(viewport geometry.ViewportProvider, opts Options) *Controller {
	opts.normalize()
	id := uuid.NewString()[:8]
	return &Controller{
		id:       id,
		log:      logging.For("transform").With(id),
		viewport: viewport,
		opts:     opts,
		zoom:     1,
	}
}

// ID returns the controller instance id.
func (c *Controller) ID() string {
	return c.id
}

// SetContent binds a new natural content size. Unless hold is set the view
// returns to fit, as it does on every asset change.
func (c *Controller) SetContent(natural geometry.Size, hold bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.natural = natural
	c.drag = nil
	if !hold {
		c.zoom = 1
		c.pan = geometry.Point{}
		return
	}
	c.clampLocked()
}

// SetOptions applies new bounds, e.g. after a settings reload, and
// re-clamps the current state into them.
func (c *Controller) SetOptions(opts Options) {
	opts.normalize()
	c.mu.Lock()
	defer c.mu.Unlock()

	c.opts = opts
	c.zoom = geometry.Clamp(c.zoom, opts.ZoomMin, opts.ZoomMax)
	c.snapLocked()
	c.clampLocked()
}

// Options returns the active options.
func (c *Controller) Options() Options {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts
}

// Zoom returns the current zoom; 1 is fit.
func (c *Controller) Zoom() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom
}

// PanOffset returns the current pan offset.
func (c *Controller) PanOffset() geometry.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pan
}

// Transform returns the current transform.
func (c *Controller) Transform() Transform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Transform{ScaleX: c.zoom, ScaleY: c.zoom, OffsetX: c.pan.X, OffsetY: c.pan.Y}
}

// geometry reports the viewport and the zoom=1 box. ok is false while either
// the natural size or the layout is unknown.
func (c *Controller) geometryLocked() (geometry.Viewport, geometry.Size, bool) {
	if c.viewport == nil || !c.natural.Valid() {
		return geometry.Viewport{}, geometry.Size{}, false
	}
	vp, ok := c.viewport.Viewport()
	if !ok {
		return geometry.Viewport{}, geometry.Size{}, false
	}
	base, ok := geometry.FitHeight(c.natural.Aspect(), vp.Size())
	if !ok {
		return geometry.Viewport{}, geometry.Size{}, false
	}
	return vp, base, true
}

// BaseBox returns the zoom=1 content box for the current viewport.
func (c *Controller) BaseBox() (geometry.Size, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, base, ok := c.geometryLocked()
	if !ok {
		return geometry.Size{}, fault.NotReady("base box", "content or viewport size unknown")
	}
	return base, nil
}

// Limits returns the largest allowed pan magnitude on each axis at the
// current zoom.
func (c *Controller) Limits() (geometry.Point, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	vp, base, ok := c.geometryLocked()
	if !ok {
		return geometry.Point{}, fault.NotReady("limits", "content or viewport size unknown")
	}
	return PanLimits(base, vp.Size(), c.zoom, c.opts.PanAtFit), nil
}

// PanLimits computes the clamp bound per axis in screen pixels, the unit
// pan is stored in. Each axis takes the largest of three overflows: the
// zoomed box beyond the viewport, the zoomed box beyond its own fit size,
// and (with panAtFit) the fit box beyond the viewport, shrunk with the box
// below fit. Half of that is the limit, so some of the box always stays on
// screen.
func PanLimits(base, viewport geometry.Size, zoom float64, panAtFit bool) geometry.Point {
	zoomed := geometry.Size{W: base.W * zoom, H: base.H * zoom}
	ovViewport := geometry.Overflow(zoomed, viewport)
	ovContent := geometry.Overflow(zoomed, base)
	var ovBase geometry.Size
	if panAtFit {
		ov := geometry.Overflow(base, viewport)
		k := math.Min(zoom, 1)
		ovBase = geometry.Size{W: ov.W * k, H: ov.H * k}
	}
	return geometry.Point{
		X: math.Max(ovViewport.W, math.Max(ovContent.W, ovBase.W)) / 2,
		Y: math.Max(ovViewport.H, math.Max(ovContent.H, ovBase.H)) / 2,
	}
}

// AnchorPan returns the pan that keeps the content under anchor fixed when
// zoom changes by ratio. anchor is relative to the viewport center.
func AnchorPan(pan, anchor geometry.Point, ratio float64) geometry.Point {
	return anchor.Add(pan.Sub(anchor).Scale(ratio))
}

func (c *Controller) snapLocked() {
	if scalar.EqualWithinAbs(c.zoom, 1, SnapEpsilon) {
		c.zoom = 1
		c.pan = geometry.Point{}
	}
}

func (c *Controller) clampLocked() {
	vp, base, ok := c.geometryLocked()
	if !ok {
		return
	}
	if c.zoom == 1 {
		ov := geometry.Overflow(base, vp.Size())
		if !c.opts.PanAtFit || (ov.W == 0 && ov.H == 0) {
			c.pan = geometry.Point{}
			return
		}
	}
	lim := PanLimits(base, vp.Size(), c.zoom, c.opts.PanAtFit)
	c.pan.X = geometry.Clamp(c.pan.X, -lim.X, lim.X)
	c.pan.Y = geometry.Clamp(c.pan.Y, -lim.Y, lim.Y)
}

// SetZoom moves to next, clamped to the zoom bounds. With an anchor (a
// pointer position in viewport coordinates, origin top-left) the content
// point under it stays put; without one pan scales by the zoom ratio.
// Zoom within SnapEpsilon of 1 snaps to fit.
func (c *Controller) SetZoom(next float64, anchor *geometry.Point) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setZoomLocked(next, anchor)
}

func (c *Controller) setZoomLocked(next float64, anchor *geometry.Point) error {
	vp, _, ok := c.geometryLocked()
	if !ok {
		return fault.NotReady("set zoom", "content or viewport size unknown")
	}
	if !geometry.IsFinite(next) {
		next = c.zoom
	}
	next = geometry.Clamp(next, c.opts.ZoomMin, c.opts.ZoomMax)
	ratio := next / c.zoom

	if anchor != nil {
		a := geometry.Point{X: anchor.X - vp.Width/2, Y: anchor.Y - vp.Height/2}
		c.pan = AnchorPan(c.pan, a, ratio)
	} else {
		c.pan = c.pan.Scale(ratio)
	}
	c.zoom = next
	c.snapLocked()
	c.clampLocked()
	c.log.Debug("zoom=%.4f pan=(%.2f, %.2f)", c.zoom, c.pan.X, c.pan.Y)
	return nil
}

// ZoomBy multiplies the zoom by factor.
func (c *Controller) ZoomBy(factor float64, anchor *geometry.Point) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !geometry.IsFinite(factor) || factor <= 0 {
		return nil
	}
	return c.setZoomLocked(c.zoom*factor, anchor)
}

// Pan adds (dx, dy) scaled by max(1, zoom) and clamps.
func (c *Controller) Pan(dx, dy float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.panLocked(dx, dy)
}

func (c *Controller) panLocked(dx, dy float64) error {
	if _, _, ok := c.geometryLocked(); !ok {
		return fault.NotReady("pan", "content or viewport size unknown")
	}
	if !geometry.IsFinite(dx) {
		dx = 0
	}
	if !geometry.IsFinite(dy) {
		dy = 0
	}
	k := math.Max(1, c.zoom)
	c.pan = c.pan.Add(geometry.Point{X: dx * k, Y: dy * k})
	c.clampLocked()
	return nil
}

// ResetToFit returns to zoom 1 with no pan.
func (c *Controller) ResetToFit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zoom = 1
	c.pan = geometry.Point{}
}

// OneToOneZoom returns the zoom at which one content pixel covers one
// device pixel. ok is false when the natural size or viewport is unknown.
func (c *Controller) OneToOneZoom() (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	vp, _, ok := c.geometryLocked()
	if !ok {
		return 0, false
	}
	return c.natural.H / (vp.Height * vp.PixelRatio()), true
}

// ContentPoint maps a viewport position to content coordinates in fit-box
// units relative to the box center.
func (c *Controller) ContentPoint(p geometry.Point) (geometry.Point, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	vp, _, ok := c.geometryLocked()
	if !ok {
		return geometry.Point{}, fault.NotReady("content point", "content or viewport size unknown")
	}
	a := geometry.Point{X: p.X - vp.Width/2, Y: p.Y - vp.Height/2}
	return a.Sub(c.pan).Scale(1 / c.zoom), nil
}
