package transport

import (
	"media-viewer-core/internal/fault"
)

// Track describes the scrub track on screen along its drag axis.
type Track struct {
	Start  float64
	Length float64
}

// FrameAtPointer maps a pointer position on the track to a frame of the clip.
func (c *Controller) FrameAtPointer(pos float64, track Track) (int, error) {
	fc, ok := c.FrameCount()
	if !ok {
		return 0, fault.NotReady("pointer frame", "no duration or frame count yet")
	}
	return FrameAtPointer(pos, track.Start, track.Length, fc), nil
}

// BeginScrub starts a playhead drag. Range enforcement is suspended until
// EndScrub.
func (c *Controller) BeginScrub() error {
	if c.destroyed {
		return fault.Destroyed("begin scrub")
	}
	c.seeking = true
	return nil
}

// ScrubTo seeks to the frame under the pointer.
func (c *Controller) ScrubTo(pos float64, track Track) error {
	if c.destroyed {
		return fault.Destroyed("scrub")
	}
	if !c.ready() {
		return fault.NotReady("scrub", "no metadata yet")
	}
	frame, err := c.FrameAtPointer(pos, track)
	if err != nil {
		return err
	}
	c.seekFrame(frame)
	return nil
}

// EndScrub ends the drag and enforces the range once.
func (c *Controller) EndScrub() error {
	if c.destroyed {
		return fault.Destroyed("end scrub")
	}
	if !c.seeking {
		return nil
	}
	c.seeking = false
	c.snapIntoRange()
	return nil
}

// Seeking reports whether a scrub or handle drag is in progress.
func (c *Controller) Seeking() bool {
	return c.seeking
}

// BeginHandleDrag captures an in or out handle. Enforcement is suspended
// while the handle moves.
func (c *Controller) BeginHandleDrag(h Handle) error {
	if c.destroyed {
		return fault.Destroyed("begin handle drag")
	}
	if c.preview() || h == HandleNone {
		return nil
	}
	c.drag = h
	c.seeking = true
	return nil
}

// DragHandleTo moves the captured handle to the pointer. Only the range is
// updated; playhead side effects wait for EndHandleDrag.
func (c *Controller) DragHandleTo(pos float64, track Track) error {
	if c.destroyed {
		return fault.Destroyed("drag handle")
	}
	if c.drag == HandleNone {
		return nil
	}
	frame, err := c.FrameAtPointer(pos, track)
	if err != nil {
		return err
	}
	m := &c.in
	if c.drag == HandleOut {
		m = &c.out
	}
	m.frame, m.set = frame, true
	c.normalizeRange()
	return nil
}

// EndHandleDrag releases the handle and applies the range change once.
func (c *Controller) EndHandleDrag() error {
	if c.destroyed {
		return fault.Destroyed("end handle drag")
	}
	if c.drag == HandleNone {
		return nil
	}
	action := "set_in"
	if c.drag == HandleOut {
		action = "set_out"
	}
	c.drag = HandleNone
	c.seeking = false
	c.observeAction(action)
	c.normalizeRange()
	c.snapIntoRange()
	return nil
}

// DraggingHandle returns the captured handle, if any.
func (c *Controller) DraggingHandle() Handle {
	return c.drag
}
