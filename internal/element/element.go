package element

import (
	"fmt"

	"media-viewer-core/internal/signal"
)

// EventKind identifies a media element signal.
type EventKind int

const (
	// TimeUpdate fires as the playback position advances or after a seek.
	TimeUpdate EventKind = iota
	// LoadedMetadata fires once duration and dimensions are known.
	LoadedMetadata
	// DurationChange fires when the duration changes.
	DurationChange
	// Play fires when playback is requested.
	Play
	// Pause fires when playback pauses, including at natural end.
	Pause
	// Ended fires when playback reaches the end of the media.
	Ended
	// RateChange fires when the playback rate changes.
	RateChange
	// Seeking fires when a seek starts.
	Seeking
	// Seeked fires when a seek completes.
	Seeked
)

var kindNames = map[EventKind]string{
	TimeUpdate:     "timeupdate",
	LoadedMetadata: "loadedmetadata",
	DurationChange: "durationchange",
	Play:           "play",
	Pause:          "pause",
	Ended:          "ended",
	RateChange:     "ratechange",
	Seeking:        "seeking",
	Seeked:         "seeked",
}

// String returns the DOM-style event name.
func (k EventKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is one signal from an element.
type Event struct {
	Kind EventKind
	// Time is the element's current time when the event fired.
	Time float64
}

// Element is a playable media element. Implementations are driven from a
// single goroutine and deliver events synchronously on it.
type Element interface {
	// ID identifies the element's asset for signals and logs.
	ID() string

	CurrentTime() float64
	// Seek moves the playhead. Values outside [0, duration] are clamped.
	Seek(t float64)
	// Duration returns the media duration in seconds; ok is false until
	// metadata has loaded.
	Duration() (d float64, ok bool)

	Paused() bool
	Ended() bool
	// Play starts playback. It may fail if the media cannot play yet.
	Play() error
	Pause()

	PlaybackRate() float64
	SetPlaybackRate(rate float64)

	// Loop controls native looping at the natural end of the media.
	Loop() bool
	SetLoop(loop bool)

	// Subscribe registers fn for every event. The returned func removes it.
	Subscribe(fn func(Event)) signal.CancelFunc
}
