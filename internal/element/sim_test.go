package element

import (
	"errors"
	"testing"

	"media-viewer-core/internal/fault"
)

func collect(s *Sim) *[]EventKind {
	var kinds []EventKind
	s.Subscribe(func(e Event) { kinds = append(kinds, e.Kind) })
	return &kinds
}

func TestSimUnloaded(t *testing.T) {
	s := NewSim("clip", 0)
	if _, ok := s.Duration(); ok {
		t.Error("Expected duration to be unknown")
	}

	events := collect(s)
	s.LoadMetadata(10)
	if d, ok := s.Duration(); !ok || d != 10 {
		t.Errorf("Expected duration 10, got %v ok=%v", d, ok)
	}
	if len(*events) != 2 || (*events)[0] != LoadedMetadata {
		t.Errorf("Expected metadata events, got %v", *events)
	}
}

func TestSimPlayAdvance(t *testing.T) {
	s := NewSim("clip", 10)
	events := collect(s)

	if err := s.Play(); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	s.Advance(1)
	if s.CurrentTime() != 1 {
		t.Errorf("Expected t=1, got %v", s.CurrentTime())
	}

	s.SetPlaybackRate(2)
	s.Advance(1)
	if s.CurrentTime() != 3 {
		t.Errorf("Expected t=3 at 2x, got %v", s.CurrentTime())
	}

	want := []EventKind{Play, TimeUpdate, RateChange, TimeUpdate}
	if len(*events) != len(want) {
		t.Fatalf("Expected %v, got %v", want, *events)
	}
	for i := range want {
		if (*events)[i] != want[i] {
			t.Errorf("Event %d = %v, want %v", i, (*events)[i], want[i])
		}
	}
}

func TestSimNaturalEnd(t *testing.T) {
	s := NewSim("clip", 2)
	events := collect(s)

	_ = s.Play()
	s.Advance(5)

	if !s.Ended() || !s.Paused() || s.CurrentTime() != 2 {
		t.Errorf("Expected ended+paused at 2, got ended=%v paused=%v t=%v", s.Ended(), s.Paused(), s.CurrentTime())
	}
	last := (*events)[len(*events)-1]
	if last != Ended {
		t.Errorf("Expected last event ended, got %v", last)
	}

	// Play after end restarts from zero.
	_ = s.Play()
	if s.CurrentTime() != 0 || s.Ended() {
		t.Errorf("Expected restart at 0, got t=%v ended=%v", s.CurrentTime(), s.Ended())
	}
}

func TestSimNativeLoop(t *testing.T) {
	s := NewSim("clip", 2)
	s.SetLoop(true)
	_ = s.Play()
	s.Advance(3)

	if s.Paused() || s.Ended() || s.CurrentTime() != 0 {
		t.Errorf("Expected wrap to 0 while playing, got t=%v paused=%v", s.CurrentTime(), s.Paused())
	}
}

func TestSimSeekClamps(t *testing.T) {
	s := NewSim("clip", 10)
	s.Seek(-4)
	if s.CurrentTime() != 0 {
		t.Errorf("Expected 0, got %v", s.CurrentTime())
	}
	s.Seek(40)
	if s.CurrentTime() != 10 {
		t.Errorf("Expected 10, got %v", s.CurrentTime())
	}
}

func TestSimFailPlay(t *testing.T) {
	s := NewSim("clip", 10)
	s.FailPlay = true
	err := s.Play()
	if !errors.Is(err, fault.ErrNotReady) {
		t.Errorf("Expected not-ready error, got %v", err)
	}
	if !s.Paused() {
		t.Error("Expected element to stay paused")
	}
}

func TestEventKindString(t *testing.T) {
	if TimeUpdate.String() != "timeupdate" {
		t.Errorf("Unexpected name %q", TimeUpdate.String())
	}
	if EventKind(99).String() != "event(99)" {
		t.Errorf("Unexpected name %q", EventKind(99).String())
	}
}
