// Package probe detects frame rate and frame count with ffprobe.
//
// A Session owns the lookup for the asset on screen: starting a lookup for
// the next asset cancels the previous one, and a result that arrives after
// its session moved on is discarded instead of applied. Detected rates are
// remembered in a Cache keyed by asset id and reported through the
// FrameRateDetected signal.
package probe
