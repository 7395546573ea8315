// Package transport implements frame-accurate playback control for a
// video or audio element.
//
// A Controller converts between media time and frame indices
// (frame = round(time*fps)), keeps an in/out range normalized so that
// 0 <= in <= out <= frameCount, and enforces it on every time update:
// looping back to in, or pausing at out for play-once and for a restricted
// range without loop. Stepping, jumps and range edits work in frame space
// and convert to time once.
//
// Actions on an element without metadata return an error wrapping
// fault.ErrNotReady and change nothing, except Play which is replayed when
// metadata arrives. Every subscription is owned by the controller's
// signal.Scope and released by Destroy.
//
// The preview variant autoplays on a loop; range, step and speed actions
// are no-ops there.
package transport
