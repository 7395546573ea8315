package transport

import (
	"fmt"
	"math"

	"media-viewer-core/internal/geometry"
	"media-viewer-core/internal/media"

	"gonum.org/v1/gonum/floats/scalar"
)

// FrameAt converts a media time to the nearest frame index.
func FrameAt(t, fps float64) int {
	if !geometry.IsFinite(t) || t <= 0 {
		return 0
	}
	return media.RoundFrames(t * media.NormalizeFPS(fps))
}

// TimeAt converts a frame index to its media time.
func TimeAt(frame int, fps float64) float64 {
	if frame < 0 {
		frame = 0
	}
	return float64(frame) / media.NormalizeFPS(fps)
}

// ClampRate limits a playback rate to [MinRate, MaxRate] with two decimals.
// Non-finite input becomes 1.
func ClampRate(rate float64) float64 {
	if !geometry.IsFinite(rate) {
		return 1
	}
	return scalar.Round(geometry.Clamp(rate, MinRate, MaxRate), 2)
}

// FrameAtPointer maps a pointer position on a scrub track of the given start
// and length to a frame in [0, frameCount].
func FrameAtPointer(pos, trackStart, trackLength float64, frameCount int) int {
	if frameCount <= 0 || !geometry.IsFinite(trackLength) || trackLength <= 0 {
		return 0
	}
	return int(math.Round(geometry.Clamp01((pos-trackStart)/trackLength) * float64(frameCount)))
}

// Timecode formats a frame as non-drop-frame HH:MM:SS:FF using the
// rate rounded to whole frames per second.
func Timecode(frame int, fps float64) string {
	if frame < 0 {
		frame = 0
	}
	base := int(math.Round(media.NormalizeFPS(fps)))
	ff := frame % base
	secs := frame / base
	return fmt.Sprintf("%02d:%02d:%02d:%02d", secs/3600, secs/60%60, secs%60, ff)
}

// percentOf returns frame as a percentage of frameCount.
func percentOf(frame, frameCount int) float64 {
	if frameCount <= 0 {
		return 0
	}
	return geometry.Clamp(float64(frame)*100/float64(frameCount), 0, 100)
}
