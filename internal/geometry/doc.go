// Package geometry holds the pure sizing helpers used by the viewer:
// clamping, the height-first fit used for the zoom=1 box, contain-fit, and a
// short-lived cache over viewport measurements.
package geometry
