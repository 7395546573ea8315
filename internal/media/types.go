package media

import (
	"math"
	"path/filepath"
	"strings"

	"media-viewer-core/internal/geometry"
)

// Kind is the broad type of an asset.
type Kind string

const (
	// KindImage is a still image.
	KindImage Kind = "image"
	// KindVideo is a time-based asset with pictures.
	KindVideo Kind = "video"
	// KindAudio is a time-based asset without pictures.
	KindAudio Kind = "audio"
	// KindOther is anything the viewer cannot display.
	KindOther Kind = "other"
)

// DefaultFPS is used when neither the asset nor a probe supplies a rate.
const DefaultFPS = 30

// Asset is the descriptor the asset layer hands to the viewer. Every field
// is best effort; zero means unknown.
type Asset struct {
	ID   string `json:"id"`
	Path string `json:"path,omitempty"`
	Kind Kind   `json:"kind"`

	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
	Duration float64 `json:"duration,omitempty"` // seconds

	// FPS is a numeric rate. FrameRate is the textual form ("30000/1001",
	// "29.97") and is consulted when FPS is unset.
	FPS        float64 `json:"fps,omitempty"`
	FrameRate  string  `json:"frameRate,omitempty"`
	FrameCount int     `json:"frameCount,omitempty"`
}

// TimeBased reports whether the asset plays over time.
func (a Asset) TimeBased() bool {
	return a.Kind == KindVideo || a.Kind == KindAudio
}

// NaturalSize returns the intrinsic pixel size if known.
func (a Asset) NaturalSize() (geometry.Size, bool) {
	s := geometry.Size{W: float64(a.Width), H: float64(a.Height)}
	return s, s.Valid()
}

// ResolveFPS returns the asset's frame rate, or fallback when it has none.
// ok reports whether the asset itself supplied the value.
func (a Asset) ResolveFPS(fallback float64) (fps float64, ok bool) {
	if ValidFPS(a.FPS) {
		return a.FPS, true
	}
	if v, parsed := ParseFrameRate(a.FrameRate); parsed {
		return v, true
	}
	return NormalizeFPS(fallback), false
}

// ResolveFrameCount returns the authoritative frame count when the asset
// carries one, otherwise derives it from duration*fps. ok is false when
// neither is available.
func (a Asset) ResolveFrameCount(fps float64) (int, bool) {
	if a.FrameCount > 0 {
		return a.FrameCount, true
	}
	return FramesForDuration(a.Duration, fps)
}

// MaxFrames bounds frame indices and counts derived from times.
const MaxFrames = math.MaxInt32

// RoundFrames rounds a fractional frame position to an index in
// [0, MaxFrames].
func RoundFrames(frames float64) int {
	if math.IsNaN(frames) || frames <= 0 {
		return 0
	}
	if frames >= MaxFrames {
		return MaxFrames
	}
	return int(math.Round(frames))
}

// FramesForDuration converts a duration in seconds into a frame count.
func FramesForDuration(duration, fps float64) (int, bool) {
	if !geometry.IsFinite(duration) || duration <= 0 || !ValidFPS(fps) {
		return 0, false
	}
	return RoundFrames(duration * fps), true
}

// ImageExtensions maps file extensions to whether they are supported image formats.
var ImageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".webp": true, ".tiff": true, ".tif": true,
	".heic": true, ".heif": true, ".avif": true,
}

// VideoExtensions maps file extensions to whether they are supported video formats.
var VideoExtensions = map[string]bool{
	".mp4": true, ".mkv": true, ".avi": true, ".mov": true,
	".wmv": true, ".flv": true, ".webm": true, ".m4v": true,
	".mpeg": true, ".mpg": true, ".3gp": true, ".ts": true,
}

// AudioExtensions maps file extensions to whether they are supported audio formats.
var AudioExtensions = map[string]bool{
	".mp3": true, ".wav": true, ".flac": true, ".aac": true,
	".m4a": true, ".ogg": true, ".opus": true,
}

// KindFromPath returns the Kind for a file path based on its extension.
func KindFromPath(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ImageExtensions[ext]:
		return KindImage
	case VideoExtensions[ext]:
		return KindVideo
	case AudioExtensions[ext]:
		return KindAudio
	default:
		return KindOther
	}
}
