package transport

import (
	"testing"

	"media-viewer-core/internal/element"
)

func TestScrubSuspendsEnforcement(t *testing.T) {
	obs := newRecordingObserver()
	c, _ := newClip(t, Options{Observer: obs})
	_ = c.SetInFrame(100)
	_ = c.SetOutFrame(200)
	track := Track{Start: 0, Length: 300}

	_ = c.BeginScrub()
	if !c.Seeking() {
		t.Fatal("Expected seeking during scrub")
	}
	_ = c.ScrubTo(30, track)
	if got := c.CurrentFrame(); got != 30 {
		t.Errorf("Expected scrub to frame 30 outside range, got %d", got)
	}
	if obs.enforcements["snap_in"] != 0 {
		t.Errorf("Expected no enforcement while seeking, got %v", obs.enforcements)
	}

	_ = c.EndScrub()
	if c.Seeking() {
		t.Error("Expected seeking cleared")
	}
	if got := c.CurrentFrame(); got != 100 {
		t.Errorf("Expected snap to in 100 after scrub, got %d", got)
	}
}

func TestHandleDrag(t *testing.T) {
	c, _ := newClip(t, Options{})
	track := Track{Start: 100, Length: 600}
	_ = c.SeekFrame(20)

	_ = c.BeginHandleDrag(HandleIn)
	if c.DraggingHandle() != HandleIn {
		t.Fatal("Expected in handle captured")
	}
	_ = c.DragHandleTo(160, track)
	_ = c.DragHandleTo(250, track)

	if got := c.CurrentFrame(); got != 20 {
		t.Errorf("Expected playhead untouched during drag, got %d", got)
	}
	if in, _, _ := c.Range(); in != 75 {
		t.Errorf("Expected in frame 75, got %d", in)
	}

	_ = c.EndHandleDrag()
	if got := c.CurrentFrame(); got != 75 {
		t.Errorf("Expected playhead snapped to 75 on release, got %d", got)
	}
	if c.Seeking() || c.DraggingHandle() != HandleNone {
		t.Error("Expected drag released")
	}

	_ = c.BeginHandleDrag(HandleOut)
	_ = c.DragHandleTo(0, track)
	_ = c.EndHandleDrag()
	in, out, _ := c.Range()
	if in != 0 || out != 75 {
		t.Errorf("Expected out dragged past in to swap into [0, 75], got [%d, %d]", in, out)
	}
}

func TestHandleKey(t *testing.T) {
	c, sim := newClip(t, Options{})

	tests := []struct {
		name  string
		key   string
		shift bool
		check func() bool
	}{
		{"shift right steps ten", "ArrowRight", true, func() bool { return c.CurrentFrame() == 10 }},
		{"right steps one", "ArrowRight", false, func() bool { return c.CurrentFrame() == 11 }},
		{"left steps back", "ArrowLeft", false, func() bool { return c.CurrentFrame() == 10 }},
		{"mark in", "i", false, func() bool { in, _, _ := c.Range(); return in == 10 }},
		{"speed up", "+", false, func() bool { return c.GetPlaybackRate() == 1.25 }},
		{"slow down", "-", false, func() bool { return c.GetPlaybackRate() == 1 }},
		{"loop toggle", "l", false, func() bool { return c.Loop() }},
		{"jump out", "]", false, func() bool { return c.CurrentFrame() == 300 }},
		{"jump in", "[", false, func() bool { return c.CurrentFrame() == 10 }},
		{"space plays", " ", false, func() bool { return !sim.Paused() }},
		{"space pauses", " ", false, func() bool { return sim.Paused() }},
		{"clear range", "x", false, func() bool { in, _, _ := c.Range(); return in == 0 }},
	}

	for _, tt := range tests {
		handled, err := c.HandleKey(tt.key, tt.shift)
		if !handled || err != nil {
			t.Fatalf("%s: expected key %q handled, got handled=%v err=%v", tt.name, tt.key, handled, err)
		}
		if !tt.check() {
			t.Errorf("%s: unexpected state %+v", tt.name, c.Snapshot())
		}
	}

	if handled, _ := c.HandleKey("q", false); handled {
		t.Error("Expected unknown key ignored")
	}
}

func TestFollowerMirrorsPrimary(t *testing.T) {
	c, primary := newClip(t, Options{})
	follower := element.NewSim("b", 10)

	cancel, err := c.Follow(follower)
	if err != nil {
		t.Fatalf("Follow() error: %v", err)
	}

	_ = c.Play()
	if follower.Paused() {
		t.Error("Expected follower to play")
	}

	primary.Advance(0.5)
	if follower.CurrentTime() != primary.CurrentTime() {
		t.Errorf("Expected follower resynced to %v, got %v", primary.CurrentTime(), follower.CurrentTime())
	}

	_ = c.SetPlaybackRate(1.5)
	if follower.PlaybackRate() != 1.5 {
		t.Errorf("Expected follower rate 1.5, got %v", follower.PlaybackRate())
	}

	_ = c.Pause()
	if !follower.Paused() {
		t.Error("Expected follower to pause")
	}

	follower.Seek(7)
	if primary.CurrentTime() == 7 {
		t.Error("Expected follower seeks not to reach the primary")
	}

	cancel()
	_ = c.Play()
	if !follower.Paused() {
		t.Error("Expected follower detached after cancel")
	}
}
