package transport

import (
	"math"

	"media-viewer-core/internal/element"
	"media-viewer-core/internal/fault"
	"media-viewer-core/internal/signal"
)

// Follow makes f mirror the bound element one way: play, pause, seeks and
// rate changes are copied to f, and f is re-seeked when it drifts more
// than one frame. Nothing flows back from f. The link is released by the
// returned cancel or by Destroy.
func (c *Controller) Follow(f element.Element) (signal.CancelFunc, error) {
	if c.destroyed {
		return nil, fault.Destroyed("follow")
	}

	sync := func(e element.Event) {
		switch e.Kind {
		case element.Play:
			if f.Paused() {
				fault.Absorb(c.log, "follower play", f.Play())
			}
		case element.Pause:
			f.Pause()
			f.Seek(c.el.CurrentTime())
		case element.Seeked:
			f.Seek(c.el.CurrentTime())
		case element.RateChange:
			f.SetPlaybackRate(c.el.PlaybackRate())
		case element.TimeUpdate:
			if math.Abs(f.CurrentTime()-c.el.CurrentTime()) > 1/c.fps {
				f.Seek(c.el.CurrentTime())
			}
		}
	}

	cancel := c.el.Subscribe(signal.Guard(c.scope, sync))
	c.scope.Add(cancel)

	f.Seek(c.el.CurrentTime())
	f.SetPlaybackRate(c.el.PlaybackRate())
	if !c.el.Paused() && f.Paused() {
		fault.Absorb(c.log, "follower play", f.Play())
	}
	c.log.Debug("%s follows %s", f.ID(), c.el.ID())
	return cancel, nil
}
