package element

import (
	"media-viewer-core/internal/fault"
	"media-viewer-core/internal/geometry"
	"media-viewer-core/internal/signal"
)

// Sim is a deterministic in-memory Element. Time only moves when Advance is
// called, which makes transport behavior reproducible in tests and in the
// headless player. It is not safe for concurrent use.
type Sim struct {
	id       string
	duration float64
	loaded   bool
	t        float64
	paused   bool
	ended    bool
	rate     float64
	loop     bool
	// FailPlay makes Play return an error, as a browser does when autoplay
	// is blocked.
	FailPlay bool

	bus *signal.Bus[Event]
}

var _ Element = (*Sim)(nil)

// NewSim returns a paused element. A duration <= 0 leaves metadata
// unloaded until LoadMetadata is called.
func NewSim(id string, duration float64) *Sim {
	s := &Sim{
		id:     id,
		paused: true,
		rate:   1,
		bus:    signal.NewBus[Event](),
	}
	if geometry.IsFinite(duration) && duration > 0 {
		s.duration = duration
		s.loaded = true
	}
	return s
}

func (s *Sim) emit(kind EventKind) {
	s.bus.Emit(Event{Kind: kind, Time: s.t})
}

// ID implements Element.
func (s *Sim) ID() string { return s.id }

// CurrentTime implements Element.
func (s *Sim) CurrentTime() float64 { return s.t }

// Duration implements Element.
func (s *Sim) Duration() (float64, bool) { return s.duration, s.loaded }

// Paused implements Element.
func (s *Sim) Paused() bool { return s.paused }

// Ended implements Element.
func (s *Sim) Ended() bool { return s.ended }

// PlaybackRate implements Element.
func (s *Sim) PlaybackRate() float64 { return s.rate }

// Loop implements Element.
func (s *Sim) Loop() bool { return s.loop }

// SetLoop implements Element.
func (s *Sim) SetLoop(loop bool) { s.loop = loop }

// Subscribe implements Element.
func (s *Sim) Subscribe(fn func(Event)) signal.CancelFunc {
	return s.bus.Subscribe(fn)
}

// Listeners returns the number of live subscriptions.
func (s *Sim) Listeners() int {
	return s.bus.Len()
}

// LoadMetadata sets the duration and fires the metadata events.
func (s *Sim) LoadMetadata(duration float64) {
	if !geometry.IsFinite(duration) || duration <= 0 {
		return
	}
	s.duration = duration
	s.loaded = true
	s.emit(LoadedMetadata)
	s.emit(DurationChange)
}

// Seek implements Element.
func (s *Sim) Seek(t float64) {
	if !geometry.IsFinite(t) {
		return
	}
	if s.loaded {
		t = geometry.Clamp(t, 0, s.duration)
	} else if t < 0 {
		t = 0
	}
	s.emit(Seeking)
	s.t = t
	s.ended = false
	s.emit(Seeked)
	s.emit(TimeUpdate)
}

// Play implements Element.
func (s *Sim) Play() error {
	if s.FailPlay {
		return fault.NotReady("play", "playback blocked")
	}
	if !s.paused {
		return nil
	}
	if s.ended {
		s.t = 0
		s.ended = false
	}
	s.paused = false
	s.emit(Play)
	return nil
}

// Pause implements Element.
func (s *Sim) Pause() {
	if s.paused {
		return
	}
	s.paused = true
	s.emit(Pause)
}

// SetPlaybackRate implements Element.
func (s *Sim) SetPlaybackRate(rate float64) {
	if !geometry.IsFinite(rate) || rate <= 0 || rate == s.rate {
		return
	}
	s.rate = rate
	s.emit(RateChange)
}

// Advance moves playback forward by dt wall-clock seconds, firing
// timeupdate and, at the natural end, either wrapping (native loop) or
// pausing with ended.
func (s *Sim) Advance(dt float64) {
	if s.paused || !geometry.IsFinite(dt) || dt <= 0 {
		return
	}
	s.t += dt * s.rate

	if s.loaded && s.t >= s.duration {
		if s.loop {
			s.t = 0
			s.emit(Seeked)
			s.emit(TimeUpdate)
			return
		}
		s.t = s.duration
		s.paused = true
		s.ended = true
		s.emit(TimeUpdate)
		s.emit(Pause)
		s.emit(Ended)
		return
	}
	s.emit(TimeUpdate)
}
