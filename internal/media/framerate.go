package media

import (
	"strconv"
	"strings"

	"media-viewer-core/internal/geometry"
)

// MaxFPS bounds accepted frame rates; anything above is treated as garbage
// metadata.
const MaxFPS = 1000

// ValidFPS reports whether fps is usable as a divisor.
func ValidFPS(fps float64) bool {
	return geometry.IsFinite(fps) && fps > 0 && fps <= MaxFPS
}

// NormalizeFPS coerces fps into [1, MaxFPS], substituting DefaultFPS for
// non-finite or non-positive input.
func NormalizeFPS(fps float64) float64 {
	if !geometry.IsFinite(fps) || fps <= 0 {
		return DefaultFPS
	}
	return geometry.Clamp(fps, 1, MaxFPS)
}

// ParseFrameRate parses a rate as found in container metadata: a fraction
// ("30000/1001", "25/1"), a decimal ("29.97") or an integer ("24").
// ok is false for empty, zero, negative, non-finite or malformed input,
// including ffprobe's "0/0".
func ParseFrameRate(s string) (fps float64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if num, den, found := strings.Cut(s, "/"); found {
		n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return 0, false
		}
		d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err != nil || d == 0 {
			return 0, false
		}
		fps = n / d
	} else {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		fps = v
	}

	if !ValidFPS(fps) {
		return 0, false
	}
	return fps, true
}
