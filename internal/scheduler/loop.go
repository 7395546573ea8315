package scheduler

import (
	"context"
	"math"
	"sync"
	"time"

	"media-viewer-core/internal/logging"
)

// DefaultRefreshHz is the display refresh rate assumed when none is given.
const DefaultRefreshHz = 60

var log = logging.For("scheduler")

// Loop is the cooperative queue every engine callback runs on. Work posted
// with Post runs in FIFO order; frame callbacks requested with RequestFrame
// run once per frame and are coalesced by key, so several triggers in the
// same frame collapse to one call.
//
// Loop itself is safe for concurrent use. The callbacks it runs are not
// expected to be: Run executes them all on one goroutine.
type Loop struct {
	mu       sync.Mutex
	queue    []func()
	frames   map[string]func(time.Time)
	order    []string
	interval time.Duration

	wake   chan struct{}
	rateCh chan time.Duration
}

// New returns a Loop ticking at hz frames per second (<= 0 selects
// DefaultRefreshHz).
func New(hz float64) *Loop {
	return &Loop{
		frames:   make(map[string]func(time.Time)),
		interval: intervalFor(hz),
		wake:     make(chan struct{}, 1),
		rateCh:   make(chan time.Duration, 1),
	}
}

func intervalFor(hz float64) time.Duration {
	if hz <= 0 || math.IsNaN(hz) {
		hz = DefaultRefreshHz
	}
	return time.Duration(float64(time.Second) / hz)
}

// Interval returns the frame interval.
func (l *Loop) Interval() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.interval
}

// SetRate changes the frame rate. A running loop picks it up on its next
// iteration.
func (l *Loop) SetRate(hz float64) {
	d := intervalFor(hz)
	l.mu.Lock()
	l.interval = d
	l.mu.Unlock()

	select {
	case l.rateCh <- d:
	default:
		// A pending change is already queued; the loop re-reads interval.
		select {
		case <-l.rateCh:
		default:
		}
		l.rateCh <- d
	}
}

// Post enqueues fn on the main queue.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// RequestFrame schedules fn for the next frame under key. If a callback
// is already pending for key it is replaced and coalesced is true.
func (l *Loop) RequestFrame(key string, fn func(now time.Time)) (coalesced bool) {
	if fn == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, pending := l.frames[key]; pending {
		l.frames[key] = fn
		return true
	}
	l.frames[key] = fn
	l.order = append(l.order, key)
	return false
}

// CancelFrame drops a pending frame callback.
func (l *Loop) CancelFrame(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, pending := l.frames[key]; !pending {
		return
	}
	delete(l.frames, key)
	for i, k := range l.order {
		if k == key {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// FramePending reports whether a callback is scheduled for key.
func (l *Loop) FramePending(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.frames[key]
	return ok
}

// Drain runs queued work until the queue is empty, including work posted
// by the callbacks themselves. It returns the number of callbacks run.
func (l *Loop) Drain() int {
	n := 0
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return n
		}
		fn := l.queue[0]
		l.queue = l.queue[1:]
		l.mu.Unlock()

		l.run(fn)
		n++
	}
}

// Frame drains the main queue and then runs the frame callbacks pending at
// the start of the frame. Callbacks that request another frame are
// scheduled for the following one. It returns the number of frame
// callbacks run.
func (l *Loop) Frame(now time.Time) int {
	l.Drain()

	l.mu.Lock()
	order := l.order
	frames := l.frames
	l.order = nil
	l.frames = make(map[string]func(time.Time))
	l.mu.Unlock()

	for _, key := range order {
		fn := frames[key]
		l.run(func() { fn(now) })
	}
	return len(order)
}

// run executes fn, containing panics so one failing controller does not take
// down the loop.
func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("callback panicked: %v", r)
		}
	}()
	fn()
}

// Run drives frames until ctx is cancelled. Posted work is drained as soon
// as it arrives; frame callbacks run on the ticker.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
			l.Drain()
		case d := <-l.rateCh:
			ticker.Reset(d)
			log.Debug("frame interval set to %v", d)
		case now := <-ticker.C:
			l.Frame(now)
		}
	}
}
