// Package scheduler provides the single cooperative loop the viewer engine
// runs on. Pointer input, media signals and background results are posted to
// its queue; animation work (playback redraws, drags, diff recomputation)
// asks for a frame and is coalesced to at most one call per frame.
package scheduler
