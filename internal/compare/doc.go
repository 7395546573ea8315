// Package compare renders two assets against each other.
//
// Wipe modes show asset A inside a clip rectangle measured in viewport
// pixels, so the split stays put while the content zooms and pans. Math
// modes blend the two bitmaps per channel at the smaller common size; the
// difference mode applies a gain so small deltas become visible.
//
// Large outputs and time-based sources degrade to a plain absolute
// difference, and sources whose pixels cannot be read degrade to a layered
// difference frame the renderer draws with its own blending. The
// Compositor schedules at most one redraw per frame and, while math-mode
// media plays, recomputes at no more than the configured refresh cap.
package compare
