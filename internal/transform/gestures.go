package transform

import (
	"math"

	"media-viewer-core/internal/fault"
	"media-viewer-core/internal/geometry"
)

// HandleWheel zooms one step per notch around the pointer. Negative deltaY
// (wheel up) zooms in.
func (c *Controller) HandleWheel(deltaY float64, pointer geometry.Point) error {
	if deltaY == 0 || !geometry.IsFinite(deltaY) {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	factor := c.opts.ZoomStep
	if deltaY > 0 {
		factor = 1 / factor
	}
	return c.setZoomLocked(c.zoom*factor, &pointer)
}

// HandleDoubleClick toggles between fit and a close-up at the pointer. The
// close-up is 1:1 when that is larger than fit, otherwise two steps in.
func (c *Controller) HandleDoubleClick(pointer geometry.Point) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	vp, _, ok := c.geometryLocked()
	if !ok {
		return fault.NotReady("double click", "content or viewport size unknown")
	}
	if c.zoom != 1 {
		c.zoom = 1
		c.pan = geometry.Point{}
		return nil
	}

	target := c.opts.ZoomStep * c.opts.ZoomStep
	if one := c.natural.H / (vp.Height * vp.PixelRatio()); one > 1+SnapEpsilon {
		target = one
	}
	return c.setZoomLocked(target, &pointer)
}

// HandleKey applies the zoom shortcuts: + or = zooms in, - zooms out, 0
// fits and 1 shows actual pixels. Arrow keys pan by step pixels. It reports
// whether the key was consumed.
func (c *Controller) HandleKey(key string, step float64) (bool, error) {
	switch key {
	case "+", "=":
		return true, c.ZoomBy(c.Options().ZoomStep, nil)
	case "-", "_":
		return true, c.ZoomBy(1/c.Options().ZoomStep, nil)
	case "0":
		c.ResetToFit()
		return true, nil
	case "1":
		z, ok := c.OneToOneZoom()
		if !ok {
			return true, fault.NotReady("one to one", "content or viewport size unknown")
		}
		return true, c.SetZoom(z, nil)
	case "ArrowLeft":
		return true, c.Pan(step, 0)
	case "ArrowRight":
		return true, c.Pan(-step, 0)
	case "ArrowUp":
		return true, c.Pan(0, step)
	case "ArrowDown":
		return true, c.Pan(0, -step)
	}
	return false, nil
}

// BeginDrag captures the pointer for panning.
func (c *Controller) BeginDrag(p geometry.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drag = &dragState{last: p}
}

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drag != nil
}

// DragTo pans so the content follows the pointer. Pan scales its input by
// max(1, zoom), so the pointer delta is divided by the same factor first.
func (c *Controller) DragTo(p geometry.Point) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.drag == nil {
		return nil
	}
	d := p.Sub(c.drag.last)
	c.drag.last = p
	k := math.Max(1, c.zoom)
	return c.panLocked(d.X/k, d.Y/k)
}

// EndDrag releases the pointer.
func (c *Controller) EndDrag() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drag = nil
}
