package transport

// ShiftMultiplier scales the frame step when shift is held.
const ShiftMultiplier = 10

// HandleKey applies the transport shortcuts and reports whether key was
// consumed. Keys use DOM key names.
//
//	space        toggle play
//	ArrowLeft    step back (shift: x10)
//	ArrowRight   step forward (shift: x10)
//	i / o        mark in / out at the playhead
//	[ / ]        jump to in / out
//	+ / -        speed up / down
//	l            toggle loop
//	x            clear range
func (c *Controller) HandleKey(key string, shift bool) (bool, error) {
	step := c.step
	if shift {
		step *= ShiftMultiplier
	}

	switch key {
	case " ", "Spacebar":
		return true, c.TogglePlay()
	case "ArrowLeft":
		return true, c.stepBy(-1, step)
	case "ArrowRight":
		return true, c.stepBy(1, step)
	case "i", "I":
		return true, c.MarkIn()
	case "o", "O":
		return true, c.MarkOut()
	case "[":
		return true, c.JumpToIn()
	case "]":
		return true, c.JumpToOut()
	case "+", "=":
		return true, c.AdjustPlaybackRate(RateStep)
	case "-", "_":
		return true, c.AdjustPlaybackRate(-RateStep)
	case "l", "L":
		return true, c.SetLoop(!c.loop)
	case "x", "X":
		return true, c.ClearRange()
	}
	return false, nil
}
