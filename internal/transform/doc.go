// Package transform implements zoom and pan for a displayed asset.
//
// At zoom 1 the content box takes the full viewport height and its width
// follows the content aspect ratio, so very wide content overflows
// horizontally instead of shrinking. Pan is the screen offset from the
// viewport center to the content box center. It is clamped per axis to half
// the largest overflow at the current zoom and forced to zero at fit unless
// panning at fit is enabled and the content overflows.
//
// Geometry operations return an error wrapping fault.ErrNotReady and leave
// the state untouched until both the natural size and the viewport are
// known, so callers can retry on the next frame.
package transform
