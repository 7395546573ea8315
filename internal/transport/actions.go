package transport

import (
	"fmt"

	"media-viewer-core/internal/fault"
	"media-viewer-core/internal/geometry"
)

func (c *Controller) preview() bool {
	return c.opts.Variant == VariantPreview
}

// Play starts playback. A playhead outside the range, or parked at the out
// point of an enforced range, first jumps to the in point. Before metadata
// has loaded the request is remembered and replayed when it arrives.
func (c *Controller) Play() error {
	if c.destroyed {
		return fault.Destroyed("play")
	}
	in, out, err := c.readyRange("play")
	if err != nil {
		c.pendingPlay = true
		return err
	}
	c.observeAction("play")

	cur := c.CurrentFrame()
	if cur < in || cur > out || (c.enforced() && cur >= out-c.epsilon()) {
		c.seekFrame(in)
	}
	if err := c.el.Play(); err != nil {
		return fmt.Errorf("play %s: %w", c.el.ID(), err)
	}
	return nil
}

// Pause pauses playback and drops a deferred play.
func (c *Controller) Pause() error {
	if c.destroyed {
		return fault.Destroyed("pause")
	}
	c.pendingPlay = false
	c.observeAction("pause")
	c.el.Pause()
	return nil
}

// TogglePlay plays when paused and pauses when playing. A deferred play
// counts as playing.
func (c *Controller) TogglePlay() error {
	if c.destroyed {
		return fault.Destroyed("toggle play")
	}
	c.observeAction("toggle")
	if c.pendingPlay {
		c.pendingPlay = false
		return nil
	}
	if c.el.Paused() {
		return c.Play()
	}
	return c.Pause()
}

// StepFrames pauses and moves the playhead by direction*step frames. With
// loop set the playhead wraps to the opposite bound, otherwise it clamps.
func (c *Controller) StepFrames(direction int) error {
	return c.stepBy(direction, c.step)
}

func (c *Controller) stepBy(direction, step int) error {
	if c.destroyed {
		return fault.Destroyed("step")
	}
	if c.preview() || direction == 0 {
		return nil
	}
	in, out, err := c.readyRange("step")
	if err != nil {
		return err
	}
	c.observeAction("step")
	if !c.el.Paused() {
		c.el.Pause()
	}

	if direction > 0 {
		direction = 1
	} else {
		direction = -1
	}
	next := c.CurrentFrame() + direction*step
	switch {
	case c.loop && next > out:
		next = in
	case c.loop && next < in:
		next = out
	default:
		next = geometry.ClampInt(next, in, out)
	}
	c.seekFrame(next)
	return nil
}

// SeekFrame moves the playhead to frame, clamped to the clip.
func (c *Controller) SeekFrame(frame int) error {
	if c.destroyed {
		return fault.Destroyed("seek")
	}
	if _, _, err := c.readyRange("seek"); err != nil {
		return err
	}
	fc, _ := c.FrameCount()
	c.observeAction("seek")
	c.seekFrame(geometry.ClampInt(frame, 0, fc))
	return nil
}

// JumpToIn moves the playhead to the in point.
func (c *Controller) JumpToIn() error {
	return c.jump("jump_in", true)
}

// JumpToOut moves the playhead to the out point.
func (c *Controller) JumpToOut() error {
	return c.jump("jump_out", false)
}

func (c *Controller) jump(action string, toIn bool) error {
	if c.destroyed {
		return fault.Destroyed(action)
	}
	if c.preview() {
		return nil
	}
	in, out, err := c.readyRange(action)
	if err != nil {
		return err
	}
	c.observeAction(action)
	if toIn {
		c.seekFrame(in)
	} else {
		c.seekFrame(out)
	}
	return nil
}

// SetInFrame sets the in point. The range is re-normalized and a playhead
// left outside it snaps to the nearer bound.
func (c *Controller) SetInFrame(frame int) error {
	return c.setMark("set_in", &c.in, frame)
}

// SetOutFrame sets the out point. See SetInFrame.
func (c *Controller) SetOutFrame(frame int) error {
	return c.setMark("set_out", &c.out, frame)
}

// MarkIn sets the in point at the playhead.
func (c *Controller) MarkIn() error {
	return c.SetInFrame(c.CurrentFrame())
}

// MarkOut sets the out point at the playhead.
func (c *Controller) MarkOut() error {
	return c.SetOutFrame(c.CurrentFrame())
}

func (c *Controller) setMark(action string, m *mark, frame int) error {
	if c.destroyed {
		return fault.Destroyed(action)
	}
	if c.preview() {
		return nil
	}
	c.observeAction(action)
	m.frame = frame
	m.set = true
	c.normalizeRange()
	c.snapIntoRange()
	return nil
}

// ClearRange removes both marks.
func (c *Controller) ClearRange() error {
	if c.destroyed {
		return fault.Destroyed("clear range")
	}
	if c.preview() {
		return nil
	}
	c.observeAction("clear_range")
	c.in, c.out = mark{}, mark{}
	return nil
}

// snapIntoRange moves a playhead outside the range to the nearer bound.
func (c *Controller) snapIntoRange() {
	in, out, err := c.readyRange("snap")
	if err != nil {
		return
	}
	cur := c.CurrentFrame()
	switch {
	case cur < in:
		c.seekFrame(in)
	case cur > out:
		c.seekFrame(out)
	}
}

// SetLoop sets looping. Loop and once are exclusive: enabling one clears
// the other.
func (c *Controller) SetLoop(loop bool) error {
	if c.destroyed {
		return fault.Destroyed("set loop")
	}
	if c.preview() {
		return nil
	}
	c.observeAction("loop")
	c.loop = loop
	if loop {
		c.once = false
	}
	return nil
}

// SetOnce sets play-once. See SetLoop.
func (c *Controller) SetOnce(once bool) error {
	if c.destroyed {
		return fault.Destroyed("set once")
	}
	if c.preview() {
		return nil
	}
	c.observeAction("once")
	c.once = once
	if once {
		c.loop = false
	}
	return nil
}

// Loop reports whether looping is on.
func (c *Controller) Loop() bool { return c.loop }

// Once reports whether play-once is on.
func (c *Controller) Once() bool { return c.once }

// SetStep sets the frame increment; values below 1 become 1.
func (c *Controller) SetStep(step int) error {
	if c.destroyed {
		return fault.Destroyed("set step")
	}
	if step < 1 {
		step = 1
	}
	c.step = step
	return nil
}

// Step returns the frame increment.
func (c *Controller) Step() int { return c.step }

// SetPlaybackRate clamps rate to [MinRate, MaxRate], rounds it to two
// decimals and applies it to the element.
func (c *Controller) SetPlaybackRate(rate float64) error {
	if c.destroyed {
		return fault.Destroyed("set playback rate")
	}
	if c.preview() {
		return nil
	}
	if !geometry.IsFinite(rate) {
		return nil
	}
	c.observeAction("rate")
	c.rate = ClampRate(rate)
	c.applyRate()
	return nil
}

// AdjustPlaybackRate changes the rate by delta.
func (c *Controller) AdjustPlaybackRate(delta float64) error {
	return c.SetPlaybackRate(c.rate + delta)
}

// GetPlaybackRate returns the committed rate.
func (c *Controller) GetPlaybackRate() float64 {
	return c.rate
}
