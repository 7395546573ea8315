package compare

import (
	"context"
	"errors"
	"time"

	"media-viewer-core/internal/element"
	"media-viewer-core/internal/fault"
	"media-viewer-core/internal/geometry"
	"media-viewer-core/internal/logging"
	"media-viewer-core/internal/scheduler"
	"media-viewer-core/internal/signal"

	"github.com/google/uuid"
)

// Compositor renders two sources as a wipe or a math-mode bitmap and keeps
// the result in step with playback. All methods and callbacks run on the
// scheduler loop goroutine.
type Compositor struct {
	id       string
	log      *logging.Logger
	loop     *scheduler.Loop
	viewport geometry.ViewportProvider
	renderer Renderer
	opts     Options

	ctx    context.Context
	cancel context.CancelFunc
	// session owns the media subscriptions of the current pair.
	session *signal.Scope

	a, b        Source
	mode        Mode
	wipe        float64
	lastCompute time.Time
	frameKey    string
	destroyed   bool
}

// New creates a compositor that schedules its redraws on loop and hands
// frames to renderer.
func New(loop *scheduler.Loop, viewport geometry.ViewportProvider, renderer Renderer, opts Options) *Compositor {
	opts.normalize()
	id := uuid.NewString()[:8]
	ctx, cancel := context.WithCancel(context.Background())
	c := &Compositor{
		id:       id,
		log:      logging.For("compare").With(id),
		loop:     loop,
		viewport: viewport,
		renderer: renderer,
		opts:     opts,
		ctx:      ctx,
		cancel:   cancel,
		mode:     ModeWipeHorizontal,
		wipe:     DefaultWipePercent,
		frameKey: "compare:" + id,
	}
	if opts.Observer != nil {
		opts.Observer.ObserveSession(1)
	}
	return c
}

// ID returns the compositor instance id.
func (c *Compositor) ID() string {
	return c.id
}

// Render composes a over b in mode with the wipe at wipePercent. A new
// pair of sources starts a new session. The draw itself happens on the
// next frame.
func (c *Compositor) Render(a, b Source, mode Mode, wipePercent float64) error {
	if c.destroyed {
		return fault.Destroyed("render")
	}
	if !mode.IsWipe() && !mode.IsMath() {
		return fault.Unsupported("render", string(mode))
	}
	if a != c.a || b != c.b {
		c.startSession(a, b)
	}
	c.mode = mode
	c.wipe = ClampPercent(wipePercent)
	c.requestRedraw()
	return nil
}

// startSession binds a new pair, resets the wipe and replaces the media
// subscriptions of the previous pair.
func (c *Compositor) startSession(a, b Source) {
	if c.session != nil {
		c.session.Close()
	}
	c.session = signal.NewScope()

	c.a, c.b = a, b
	c.wipe = DefaultWipePercent
	c.lastCompute = time.Time{}

	for _, s := range []Source{a, b} {
		if t, ok := s.(Timed); ok {
			c.session.Add(t.Element().Subscribe(signal.Guard(c.session, c.onMediaEvent)))
		}
	}
	c.log.Debug("session started")
}

func (c *Compositor) onMediaEvent(e element.Event) {
	switch e.Kind {
	case element.Play, element.Pause, element.Seeked,
		element.LoadedMetadata, element.DurationChange:
		c.requestRedraw()
	case element.TimeUpdate:
		// While playing the render loop already redraws every frame.
		if !c.playing() {
			c.requestRedraw()
		}
	}
}

// SetMode switches the compare mode.
func (c *Compositor) SetMode(mode Mode) error {
	if c.destroyed {
		return fault.Destroyed("set mode")
	}
	if !mode.IsWipe() && !mode.IsMath() {
		return fault.Unsupported("set mode", string(mode))
	}
	c.mode = mode
	c.requestRedraw()
	return nil
}

// Mode returns the current mode.
func (c *Compositor) Mode() Mode {
	return c.mode
}

// SetWipePercent moves the wipe; p is clamped to [0, 100].
func (c *Compositor) SetWipePercent(p float64) error {
	if c.destroyed {
		return fault.Destroyed("set wipe")
	}
	c.wipe = ClampPercent(p)
	if c.mode.IsWipe() {
		c.requestRedraw()
	}
	return nil
}

// SetWipeFromPointer moves the wipe to the pointer on the slider track.
func (c *Compositor) SetWipeFromPointer(pos, trackStart, trackLength float64) error {
	return c.SetWipePercent(PercentFromPointer(pos, trackStart, trackLength))
}

// WipePercent returns the wipe position.
func (c *Compositor) WipePercent() float64 {
	return c.wipe
}

// ContentReady tells the compositor a source finished decoding or the
// layout changed, retrying a deferred draw.
func (c *Compositor) ContentReady() {
	c.requestRedraw()
}

// SetOptions applies reloaded settings.
func (c *Compositor) SetOptions(opts Options) {
	if opts.Observer == nil {
		opts.Observer = c.opts.Observer
	}
	opts.normalize()
	c.opts = opts
	c.requestRedraw()
}

// Destroy releases every subscription and drops pending redraws.
func (c *Compositor) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.cancel()
	if c.session != nil {
		c.session.Close()
	}
	c.loop.CancelFrame(c.frameKey)
	if c.opts.Observer != nil {
		c.opts.Observer.ObserveSession(-1)
	}
	c.log.Debug("destroyed")
}

func (c *Compositor) playing() bool {
	for _, s := range []Source{c.a, c.b} {
		if t, ok := s.(Timed); ok && !t.Element().Paused() {
			return true
		}
	}
	return false
}

func (c *Compositor) requestRedraw() {
	if c.destroyed || c.a == nil || c.b == nil {
		return
	}
	if c.loop.RequestFrame(c.frameKey, c.onFrame) && c.opts.Observer != nil {
		c.opts.Observer.ObserveCoalesced()
	}
}

// onFrame draws and, while math-mode media plays, keeps itself scheduled.
// Recomputation is capped at RefreshCap per second.
func (c *Compositor) onFrame(now time.Time) {
	if c.destroyed {
		return
	}
	live := c.playing() && c.mode.IsMath()
	interval := time.Duration(float64(time.Second) / c.opts.RefreshCap)

	if !live || c.lastCompute.IsZero() || now.Sub(c.lastCompute) >= interval {
		c.draw(now)
	}
	if live {
		c.loop.RequestFrame(c.frameKey, c.onFrame)
	}
}

func (c *Compositor) draw(now time.Time) {
	if _, ok := c.a.NaturalSize(); !ok {
		c.log.Debug("draw deferred: %s size unknown", c.a.ID())
		return
	}
	if _, ok := c.b.NaturalSize(); !ok {
		c.log.Debug("draw deferred: %s size unknown", c.b.ID())
		return
	}

	start := time.Now()
	var err error
	if c.mode.IsWipe() {
		err = c.drawWipe()
	} else {
		err = c.drawMath()
	}
	if errors.Is(err, fault.ErrNotReady) {
		fault.Absorb(c.log, "draw", err)
		return
	}
	c.lastCompute = now
	if c.opts.Observer != nil {
		c.opts.Observer.ObserveRender(string(c.mode), time.Since(start).Seconds(), err)
	}
}

func (c *Compositor) drawWipe() error {
	if c.viewport == nil {
		return fault.NotReady("wipe", "no viewport")
	}
	vp, ok := c.viewport.Viewport()
	if !ok {
		return fault.NotReady("wipe", "viewport not laid out")
	}
	clip, err := WipeClip(vp.Size(), c.mode, c.wipe)
	if err != nil {
		return err
	}
	c.renderer.Render(Frame{Mode: c.mode, Applied: c.mode, Wipe: clip})
	return nil
}

func (c *Compositor) drawMath() error {
	imgA, errA := c.a.Bitmap()
	imgB, errB := c.b.Bitmap()
	if err := errors.Join(errA, errB); err != nil {
		if errors.Is(err, fault.ErrNotReady) {
			return err
		}
		c.fallback(err)
		return nil
	}

	res, err := Compose(c.ctx, imgA, imgB, c.mode, MathOptions{
		Gain:      c.opts.Gain,
		MaxPixels: c.opts.MaxMathPixels,
		TimeBased: c.a.TimeBased() || c.b.TimeBased(),
	})
	if err != nil {
		if errors.Is(err, fault.ErrNotReady) || errors.Is(err, context.Canceled) {
			return err
		}
		c.fallback(err)
		return nil
	}
	if res.Fallback != "" && c.opts.Observer != nil {
		c.opts.Observer.ObserveFallback(string(c.mode), res.Fallback)
	}
	c.renderer.Render(Frame{Mode: c.mode, Applied: res.Applied, Image: res.Image, Fallback: res.Fallback})
	return nil
}

// fallback renders a layered difference blend when pixels cannot be
// computed.
func (c *Compositor) fallback(err error) {
	reason := ReasonError
	if errors.Is(err, fault.ErrUnsupported) {
		reason = ReasonUnsupported
	}
	c.log.Debug("math mode %s degraded (%s): %v", c.mode, reason, err)
	if c.opts.Observer != nil {
		c.opts.Observer.ObserveFallback(string(c.mode), reason)
	}
	c.renderer.Render(Frame{Mode: c.mode, Applied: ModeAbsDifference, Layered: true, Fallback: reason})
}
