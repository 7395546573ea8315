package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestPostRunsInOrder(t *testing.T) {
	l := New(60)
	var got []int
	for i := 0; i < 3; i++ {
		i := i
		l.Post(func() { got = append(got, i) })
	}

	if n := l.Drain(); n != 3 {
		t.Errorf("Expected 3 callbacks, got %d", n)
	}
	for i, v := range got {
		if v != i {
			t.Errorf("Expected FIFO order, got %v", got)
			break
		}
	}
}

func TestPostFromCallbackIsDrained(t *testing.T) {
	l := New(60)
	ran := false
	l.Post(func() { l.Post(func() { ran = true }) })
	l.Drain()
	if !ran {
		t.Error("Expected nested post to run in the same drain")
	}
}

func TestRequestFrameCoalesces(t *testing.T) {
	l := New(60)
	calls := 0
	last := ""

	if l.RequestFrame("redraw", func(time.Time) { calls++; last = "first" }) {
		t.Error("First request should not be coalesced")
	}
	if !l.RequestFrame("redraw", func(time.Time) { calls++; last = "second" }) {
		t.Error("Second request should be coalesced")
	}
	l.RequestFrame("other", func(time.Time) { calls++ })

	if n := l.Frame(time.Now()); n != 2 {
		t.Errorf("Expected 2 frame callbacks, got %d", n)
	}
	if calls != 2 || last != "second" {
		t.Errorf("Expected latest callback per key, calls=%d last=%q", calls, last)
	}
	if l.FramePending("redraw") {
		t.Error("Expected no pending frame after run")
	}
}

func TestRequestFrameFromFrameRunsNextFrame(t *testing.T) {
	l := New(60)
	count := 0
	var tick func(time.Time)
	tick = func(time.Time) {
		count++
		if count < 3 {
			l.RequestFrame("anim", tick)
		}
	}
	l.RequestFrame("anim", tick)

	l.Frame(time.Now())
	if count != 1 {
		t.Fatalf("Expected 1 call in first frame, got %d", count)
	}
	l.Frame(time.Now())
	l.Frame(time.Now())
	l.Frame(time.Now())
	if count != 3 {
		t.Errorf("Expected animation to stop after 3 frames, got %d", count)
	}
}

func TestCancelFrame(t *testing.T) {
	l := New(60)
	ran := false
	l.RequestFrame("x", func(time.Time) { ran = true })
	l.CancelFrame("x")
	l.CancelFrame("missing")
	l.Frame(time.Now())
	if ran {
		t.Error("Expected cancelled frame not to run")
	}
}

func TestPanicIsContained(t *testing.T) {
	l := New(60)
	ran := false
	l.Post(func() { panic("boom") })
	l.Post(func() { ran = true })
	l.Drain()
	if !ran {
		t.Error("Expected loop to continue after panic")
	}
}

func TestSetRate(t *testing.T) {
	l := New(60)
	l.SetRate(30)
	l.SetRate(10)
	if got := l.Interval(); got != 100*time.Millisecond {
		t.Errorf("Expected 100ms interval, got %v", got)
	}
	l.SetRate(0)
	if got := l.Interval(); got != time.Second/DefaultRefreshHz {
		t.Errorf("Expected default interval, got %v", got)
	}
}

func TestRun(t *testing.T) {
	l := New(200)
	ctx, cancel := context.WithCancel(context.Background())

	var frames atomic.Int32
	var tick func(time.Time)
	tick = func(time.Time) {
		if frames.Add(1) >= 3 {
			cancel()
			return
		}
		l.RequestFrame("anim", tick)
	}
	l.Post(func() { l.RequestFrame("anim", tick) })

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("Run did not finish")
	}
	if frames.Load() < 3 {
		t.Errorf("Expected at least 3 frames, got %d", frames.Load())
	}
}
