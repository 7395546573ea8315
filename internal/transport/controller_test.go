package transport

import (
	"errors"
	"testing"

	"media-viewer-core/internal/element"
	"media-viewer-core/internal/fault"
	"media-viewer-core/internal/media"
	"media-viewer-core/internal/signal"

	"pgregory.net/rapid"
)

type recordingObserver struct {
	actions      map[string]int
	enforcements map[string]int
	live         int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{actions: map[string]int{}, enforcements: map[string]int{}}
}

func (o *recordingObserver) ObserveAction(a string)      { o.actions[a]++ }
func (o *recordingObserver) ObserveEnforcement(e string) { o.enforcements[e]++ }
func (o *recordingObserver) ObserveLifecycle(d int)      { o.live += d }

// newClip returns a loaded 10s clip at 30fps (300 frames).
func newClip(t *testing.T, opts Options) (*Controller, *element.Sim) {
	t.Helper()
	sim := element.NewSim("clip", 10)
	c := New(sim, opts)
	if err := c.SetMediaInfo(MediaInfo{FPS: 30, FrameCount: 300}); err != nil {
		t.Fatalf("SetMediaInfo() error: %v", err)
	}
	t.Cleanup(c.Destroy)
	return c, sim
}

func TestLoopRangeScenario(t *testing.T) {
	sim := element.NewSim("clip", 0)
	obs := newRecordingObserver()
	c := New(sim, Options{Observer: obs})
	defer c.Destroy()

	_ = c.SetMediaInfo(MediaInfo{FPS: 30, FrameCount: 300})
	_ = c.SetLoop(true)
	_ = c.SetInFrame(60)
	_ = c.SetOutFrame(120)
	sim.LoadMetadata(10)

	if err := c.Play(); err != nil {
		t.Fatalf("Play() error: %v", err)
	}
	if got := c.CurrentFrame(); got != 60 {
		t.Fatalf("Expected playback to start at frame 60, got %d", got)
	}

	wrapped := false
	prev := c.CurrentFrame()
	for i := 0; i < 200; i++ {
		sim.Advance(1.0 / 30)
		cur := c.CurrentFrame()
		if cur > 120 {
			t.Fatalf("Expected frame never above 120, got %d at tick %d", cur, i)
		}
		if cur < prev {
			wrapped = true
			if cur != 60 {
				t.Errorf("Expected loop back to frame 60, got %d", cur)
			}
		}
		prev = cur
	}

	if !wrapped {
		t.Error("Expected playback to loop back to the in point")
	}
	if sim.Paused() || c.State() != StatePlaying {
		t.Errorf("Expected to keep playing, got state %v paused=%v", c.State(), sim.Paused())
	}
	if obs.enforcements["loop"] == 0 {
		t.Error("Expected loop enforcements to be observed")
	}
}

func TestPlaybackRateClamp(t *testing.T) {
	tests := []struct {
		name     string
		rate     float64
		expected float64
	}{
		{"above max", 3.0, 2.0},
		{"below min", 0.1, 0.25},
		{"rounds to two decimals", 1.237, 1.24},
		{"in range", 0.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, sim := newClip(t, Options{})
			if err := c.SetPlaybackRate(tt.rate); err != nil {
				t.Fatalf("SetPlaybackRate() error: %v", err)
			}
			if got := c.GetPlaybackRate(); got != tt.expected {
				t.Errorf("Expected rate %v, got %v", tt.expected, got)
			}
			if got := sim.PlaybackRate(); got != tt.expected {
				t.Errorf("Expected element rate %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestAdjustPlaybackRate(t *testing.T) {
	c, _ := newClip(t, Options{DefaultRate: 1})
	_ = c.AdjustPlaybackRate(0.25)
	_ = c.AdjustPlaybackRate(0.25)
	if got := c.GetPlaybackRate(); got != 1.5 {
		t.Errorf("Expected rate 1.5, got %v", got)
	}
	_ = c.AdjustPlaybackRate(5)
	if got := c.GetPlaybackRate(); got != MaxRate {
		t.Errorf("Expected rate capped at %v, got %v", MaxRate, got)
	}
}

func TestExternalRateChangeDoesNotFeedBack(t *testing.T) {
	c, sim := newClip(t, Options{})

	sim.SetPlaybackRate(1.5)
	if got := c.GetPlaybackRate(); got != 1.5 {
		t.Errorf("Expected controller to adopt 1.5, got %v", got)
	}

	sim.SetPlaybackRate(4)
	if got := c.GetPlaybackRate(); got != 2 {
		t.Errorf("Expected controller to clamp external rate to 2, got %v", got)
	}
	if got := sim.PlaybackRate(); got != 4 {
		t.Errorf("Expected element rate untouched at 4, got %v", got)
	}
}

func TestDefaultRateApplied(t *testing.T) {
	sim := element.NewSim("clip", 10)
	c := New(sim, Options{DefaultRate: 0.5})
	defer c.Destroy()
	if sim.PlaybackRate() != 0.5 || c.GetPlaybackRate() != 0.5 {
		t.Errorf("Expected default rate 0.5, got element=%v controller=%v", sim.PlaybackRate(), c.GetPlaybackRate())
	}
}

func TestRangeInvariantProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		sim := element.NewSim("clip", 10)
		c := New(sim, Options{})
		defer c.Destroy()
		fc := rapid.IntRange(1, 5000).Draw(t, "frameCount")
		_ = c.SetMediaInfo(MediaInfo{FPS: 30, FrameCount: fc})

		ops := rapid.IntRange(1, 30).Draw(t, "ops")
		for i := 0; i < ops; i++ {
			v := rapid.IntRange(-1000, 10000).Draw(t, "frame")
			if rapid.Bool().Draw(t, "in") {
				_ = c.SetInFrame(v)
			} else {
				_ = c.SetOutFrame(v)
			}
			in, out, ok := c.Range()
			if !ok {
				t.Fatal("range unavailable")
			}
			if in < 0 || in > out || out > fc {
				t.Fatalf("range [%d, %d] violates 0 <= in <= out <= %d", in, out, fc)
			}
		}
	})
}

func TestLoopOnceExclusive(t *testing.T) {
	c, _ := newClip(t, Options{})

	_ = c.SetOnce(true)
	_ = c.SetLoop(true)
	if !c.Loop() || c.Once() {
		t.Errorf("Expected loop=true once=false, got loop=%v once=%v", c.Loop(), c.Once())
	}

	_ = c.SetOnce(true)
	if c.Loop() || !c.Once() {
		t.Errorf("Expected loop=false once=true, got loop=%v once=%v", c.Loop(), c.Once())
	}
}

func TestLoopOnceExclusiveProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		sim := element.NewSim("clip", 10)
		c := New(sim, Options{})
		defer c.Destroy()
		for i := 0; i < 20; i++ {
			on := rapid.Bool().Draw(t, "on")
			if rapid.Bool().Draw(t, "loop") {
				_ = c.SetLoop(on)
				if on && c.Once() {
					t.Fatal("loop set but once still on")
				}
			} else {
				_ = c.SetOnce(on)
				if on && c.Loop() {
					t.Fatal("once set but loop still on")
				}
			}
		}
	})
}

func TestStopAtOut(t *testing.T) {
	tests := []struct {
		name    string
		once    bool
		outcome string
	}{
		{"once", true, "once"},
		{"restricted range without loop", false, "stop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := newRecordingObserver()
			c, sim := newClip(t, Options{Observer: obs})
			_ = c.SetOnce(tt.once)
			_ = c.SetOutFrame(60)

			_ = c.Play()
			for i := 0; i < 100 && !sim.Paused(); i++ {
				sim.Advance(1.0 / 30)
			}

			if !sim.Paused() {
				t.Fatal("Expected playback to stop at out")
			}
			if got := c.CurrentFrame(); got != 60 {
				t.Errorf("Expected playhead at out frame 60, got %d", got)
			}
			if c.State() != StatePaused {
				t.Errorf("Expected state paused, got %v", c.State())
			}
			if obs.enforcements[tt.outcome] != 1 {
				t.Errorf("Expected one %q enforcement, got %v", tt.outcome, obs.enforcements)
			}

			_ = c.Play()
			if got := c.CurrentFrame(); got != 0 {
				t.Errorf("Expected replay from in point 0, got %d", got)
			}
		})
	}
}

func TestFullRangeRunsToEnd(t *testing.T) {
	obs := newRecordingObserver()
	c, sim := newClip(t, Options{Observer: obs})

	_ = c.Play()
	for i := 0; i < 400; i++ {
		sim.Advance(1.0 / 30)
	}

	if c.State() != StateEnded {
		t.Errorf("Expected state ended, got %v", c.State())
	}
	if len(obs.enforcements) != 0 {
		t.Errorf("Expected no enforcement on a full range, got %v", obs.enforcements)
	}
}

func TestLoopAfterNaturalEnd(t *testing.T) {
	sim := element.NewSim("short", 0.1)
	obs := newRecordingObserver()
	c := New(sim, Options{Observer: obs})
	defer c.Destroy()
	_ = c.SetMediaInfo(MediaInfo{FPS: 30})
	_ = c.SetLoop(true)

	_ = c.Play()
	sim.Advance(1)

	if sim.Paused() || c.State() != StatePlaying {
		t.Errorf("Expected looping playback, got state %v paused=%v", c.State(), sim.Paused())
	}
	if got := c.CurrentFrame(); got != 0 {
		t.Errorf("Expected restart at frame 0, got %d", got)
	}
	if obs.enforcements["ended_loop"] != 1 {
		t.Errorf("Expected one ended_loop enforcement, got %v", obs.enforcements)
	}
}

func TestSnapInOnExternalSeek(t *testing.T) {
	c, sim := newClip(t, Options{})
	_ = c.SetInFrame(90)

	sim.Seek(1)
	if got := c.CurrentFrame(); got != 90 {
		t.Errorf("Expected snap to in frame 90, got %d", got)
	}
}

func TestStepFrames(t *testing.T) {
	tests := []struct {
		name      string
		loop      bool
		start     int
		step      int
		direction int
		expected  int
	}{
		{"forward", false, 70, 1, 1, 71},
		{"backward with step", false, 70, 5, -1, 65},
		{"clamps at out", false, 120, 1, 1, 120},
		{"clamps at in", false, 60, 1, -1, 60},
		{"wraps forward under loop", true, 120, 1, 1, 60},
		{"wraps backward under loop", true, 60, 1, -1, 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newClip(t, Options{})
			_ = c.SetInFrame(60)
			_ = c.SetOutFrame(120)
			_ = c.SetLoop(tt.loop)
			_ = c.SetStep(tt.step)
			_ = c.SeekFrame(tt.start)

			if err := c.StepFrames(tt.direction); err != nil {
				t.Fatalf("StepFrames() error: %v", err)
			}
			if got := c.CurrentFrame(); got != tt.expected {
				t.Errorf("Expected frame %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestStepPausesPlayback(t *testing.T) {
	c, sim := newClip(t, Options{})
	_ = c.Play()
	sim.Advance(0.5)

	_ = c.StepFrames(1)
	if !sim.Paused() {
		t.Error("Expected step to pause playback")
	}
	if got := c.CurrentFrame(); got != 16 {
		t.Errorf("Expected frame 16, got %d", got)
	}
}

func TestSetMarksSnapPlayhead(t *testing.T) {
	c, _ := newClip(t, Options{})

	_ = c.SeekFrame(30)
	_ = c.SetInFrame(60)
	if got := c.CurrentFrame(); got != 60 {
		t.Errorf("Expected playhead snapped to in 60, got %d", got)
	}

	_ = c.SeekFrame(200)
	_ = c.SetOutFrame(100)
	if got := c.CurrentFrame(); got != 100 {
		t.Errorf("Expected playhead snapped to out 100, got %d", got)
	}

	_ = c.SetInFrame(150)
	in, out, _ := c.Range()
	if in != 100 || out != 150 {
		t.Errorf("Expected swapped range [100, 150], got [%d, %d]", in, out)
	}
}

func TestMarkAndJump(t *testing.T) {
	c, _ := newClip(t, Options{})

	_ = c.SeekFrame(45)
	_ = c.MarkIn()
	_ = c.SeekFrame(90)
	_ = c.MarkOut()

	_ = c.JumpToIn()
	if got := c.CurrentFrame(); got != 45 {
		t.Errorf("Expected jump to in 45, got %d", got)
	}
	_ = c.JumpToOut()
	if got := c.CurrentFrame(); got != 90 {
		t.Errorf("Expected jump to out 90, got %d", got)
	}

	_ = c.ClearRange()
	if in, out, _ := c.Range(); in != 0 || out != 300 {
		t.Errorf("Expected full range after clear, got [%d, %d]", in, out)
	}
}

func TestActionsDeferUntilMetadata(t *testing.T) {
	sim := element.NewSim("clip", 0)
	c := New(sim, Options{})
	defer c.Destroy()

	if c.State() != StateIdle {
		t.Errorf("Expected idle state, got %v", c.State())
	}
	for name, op := range map[string]func() error{
		"step":     func() error { return c.StepFrames(1) },
		"seek":     func() error { return c.SeekFrame(10) },
		"jump in":  c.JumpToIn,
		"jump out": c.JumpToOut,
	} {
		if err := op(); !errors.Is(err, fault.ErrNotReady) {
			t.Errorf("Expected %s to return ErrNotReady, got %v", name, err)
		}
	}

	if err := c.Play(); !errors.Is(err, fault.ErrNotReady) {
		t.Fatalf("Expected Play to defer, got %v", err)
	}
	if !sim.Paused() {
		t.Fatal("Expected element to stay paused before metadata")
	}

	sim.LoadMetadata(5)
	if sim.Paused() || c.State() != StatePlaying {
		t.Errorf("Expected deferred play to start, got state %v", c.State())
	}
}

func TestToggleCancelsDeferredPlay(t *testing.T) {
	sim := element.NewSim("clip", 0)
	c := New(sim, Options{})
	defer c.Destroy()

	if err := c.TogglePlay(); !errors.Is(err, fault.ErrNotReady) {
		t.Fatalf("Expected first toggle to defer, got %v", err)
	}
	if err := c.TogglePlay(); err != nil {
		t.Fatalf("Expected second toggle to cancel the deferred play, got %v", err)
	}

	sim.LoadMetadata(5)
	if !sim.Paused() || c.State() == StatePlaying {
		t.Errorf("Expected element to stay paused after toggling twice, got state %v", c.State())
	}

	if err := c.TogglePlay(); err != nil {
		t.Fatalf("TogglePlay() error: %v", err)
	}
	if sim.Paused() {
		t.Error("Expected toggle after metadata to play")
	}
}

func TestDestroyReleasesListeners(t *testing.T) {
	obs := newRecordingObserver()
	sim := element.NewSim("clip", 10)
	c := New(sim, Options{Observer: obs})
	follower := element.NewSim("follower", 10)
	_, _ = c.Follow(follower)

	if sim.Listeners() != 2 {
		t.Fatalf("Expected 2 listeners, got %d", sim.Listeners())
	}
	if obs.live != 1 {
		t.Errorf("Expected 1 live controller, got %d", obs.live)
	}

	c.Destroy()
	c.Destroy()

	if sim.Listeners() != 0 {
		t.Errorf("Expected listeners released, got %d", sim.Listeners())
	}
	if obs.live != 0 {
		t.Errorf("Expected 0 live controllers, got %d", obs.live)
	}
	if err := c.Play(); !errors.Is(err, fault.ErrDestroyed) {
		t.Errorf("Expected ErrDestroyed, got %v", err)
	}
	if err := c.SetInFrame(1); !errors.Is(err, fault.ErrDestroyed) {
		t.Errorf("Expected ErrDestroyed, got %v", err)
	}
}

func TestRemountDoesNotAccumulateListeners(t *testing.T) {
	sim := element.NewSim("clip", 10)
	for i := 0; i < 25; i++ {
		c := New(sim, Options{})
		c.Destroy()
	}
	if sim.Listeners() != 0 {
		t.Errorf("Expected 0 listeners after remounts, got %d", sim.Listeners())
	}
}

func TestPlayStateSignals(t *testing.T) {
	rec := &signal.Recorder{}
	c, sim := newClip(t, Options{Sink: rec})

	_ = c.TogglePlay()
	sim.Advance(0.1)
	_ = c.TogglePlay()

	want := []signal.PlayStateSignal{{AssetID: "clip", Playing: true}, {AssetID: "clip", Playing: false}}
	if len(rec.States) != len(want) {
		t.Fatalf("Expected %d play-state signals, got %v", len(want), rec.States)
	}
	for i := range want {
		if rec.States[i] != want[i] {
			t.Errorf("Expected signal %d=%+v, got %+v", i, want[i], rec.States[i])
		}
	}
}

func TestApplyAsset(t *testing.T) {
	c, _ := newClip(t, Options{})
	_ = c.ApplyAsset(media.Asset{Kind: media.KindVideo, FrameRate: "24000/1001", FrameCount: 240})

	if got := c.FPS(); got < 23.97 || got > 23.98 {
		t.Errorf("Expected fps ~23.976, got %v", got)
	}
	if fc, _ := c.FrameCount(); fc != 240 {
		t.Errorf("Expected frame count 240, got %d", fc)
	}
}

func TestSetMediaInfoGuardsFPS(t *testing.T) {
	c, _ := newClip(t, Options{})
	_ = c.SetMediaInfo(MediaInfo{FPS: -5})
	if got := c.FPS(); got != media.DefaultFPS {
		t.Errorf("Expected fallback fps %v, got %v", media.DefaultFPS, got)
	}
}

func TestPreviewVariant(t *testing.T) {
	sim := element.NewSim("preview", 2)
	c := New(sim, Options{Variant: VariantPreview})
	defer c.Destroy()

	if sim.Paused() {
		t.Fatal("Expected preview to autoplay")
	}
	if !c.Loop() {
		t.Error("Expected preview to loop")
	}

	_ = c.SetInFrame(10)
	_ = c.SetPlaybackRate(2)
	_ = c.SetLoop(false)
	if in, _, _ := c.Range(); in != 0 {
		t.Errorf("Expected range untouched in preview, got in=%d", in)
	}
	if c.GetPlaybackRate() != 1 || !c.Loop() {
		t.Errorf("Expected rate and loop untouched, got rate=%v loop=%v", c.GetPlaybackRate(), c.Loop())
	}

	for i := 0; i < 200; i++ {
		sim.Advance(1.0 / 30)
	}
	if sim.Paused() {
		t.Error("Expected preview to keep looping")
	}
}

func TestSnapshot(t *testing.T) {
	c, _ := newClip(t, Options{})
	_ = c.SetInFrame(75)
	_ = c.SetOutFrame(150)
	_ = c.SeekFrame(90)

	s := c.Snapshot()
	if s.In != 75 || s.Out != 150 || !s.Restricted {
		t.Errorf("Expected restricted range [75, 150], got [%d, %d] restricted=%v", s.In, s.Out, s.Restricted)
	}
	if s.InPercent != 25 || s.OutPercent != 50 || s.PlayheadPercent != 30 {
		t.Errorf("Expected percents 25/50/30, got %v/%v/%v", s.InPercent, s.OutPercent, s.PlayheadPercent)
	}
	if s.Timecode != "00:00:03:00" {
		t.Errorf("Expected timecode 00:00:03:00, got %s", s.Timecode)
	}
	if s.State != StateReady {
		t.Errorf("Expected state ready, got %v", s.State)
	}
}
