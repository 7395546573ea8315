package transport

import (
	"math"

	"media-viewer-core/internal/element"
	"media-viewer-core/internal/fault"
	"media-viewer-core/internal/logging"
	"media-viewer-core/internal/media"
	"media-viewer-core/internal/signal"

	"github.com/google/uuid"
)

// Controller owns playback state for one element. Element events are
// delivered synchronously, so a Controller must be driven from the same
// goroutine as its element (the scheduler loop); it holds no locks.
type Controller struct {
	id    string
	el    element.Element
	opts  Options
	log   *logging.Logger
	scope *signal.Scope

	state      State
	fps        float64
	frameCount int // authoritative count, 0 when unknown
	in, out    mark
	step       int
	loop       bool
	once       bool
	rate       float64
	seeking    bool
	drag       Handle

	pendingPlay  bool
	applyingRate bool
	enforcing    bool
	playing      bool
	destroyed    bool
}

// MediaInfo carries best-effort metadata. Zero fields leave the current
// value unchanged.
type MediaInfo struct {
	FPS        float64
	FrameCount int
}

// New binds a controller to el and subscribes to its events. The
// subscription lives until Destroy.
func New(el element.Element, opts Options) *Controller {
	opts.normalize()
	id := uuid.NewString()[:8]
	c := &Controller{
		id:    id,
		el:    el,
		opts:  opts,
		log:   logging.For("transport").With(id),
		scope: signal.NewScope(),
		fps:   opts.DefaultFPS,
		step:  opts.Step,
		rate:  opts.DefaultRate,
	}

	if opts.Variant == VariantPreview {
		c.loop = true
	}
	c.scope.Add(el.Subscribe(signal.Guard(c.scope, c.handle)))

	c.applyRate()
	if _, ok := el.Duration(); ok {
		c.state = StateReady
	}
	if !el.Paused() {
		c.state = StatePlaying
		c.playing = true
	}
	if c.opts.Observer != nil {
		c.opts.Observer.ObserveLifecycle(1)
	}
	c.log.Debug("bound to %s (%s)", el.ID(), opts.Variant)

	if opts.Variant == VariantPreview && c.state == StateReady {
		c.autoplay()
	}
	return c
}

// ID returns the controller instance id.
func (c *Controller) ID() string {
	return c.id
}

// Element returns the bound element.
func (c *Controller) Element() element.Element {
	return c.el
}

// Destroy releases every subscription. Further actions return an error
// wrapping fault.ErrDestroyed. Safe to call more than once.
func (c *Controller) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.pendingPlay = false
	c.scope.Close()
	if c.opts.Observer != nil {
		c.opts.Observer.ObserveLifecycle(-1)
	}
	c.log.Debug("destroyed")
}

// Destroyed reports whether Destroy has run.
func (c *Controller) Destroyed() bool {
	return c.destroyed
}

func (c *Controller) handle(e element.Event) {
	switch e.Kind {
	case element.LoadedMetadata, element.DurationChange:
		c.onMetadata()
	case element.Play:
		c.state = StatePlaying
		c.setPlaying(true)
	case element.Pause:
		if !c.el.Ended() {
			c.state = StatePaused
		}
		c.setPlaying(false)
	case element.Ended:
		c.onEnded()
	case element.Seeked:
		if c.state == StateEnded && !c.el.Ended() {
			c.state = StatePaused
		}
	case element.TimeUpdate:
		c.enforce()
	case element.RateChange:
		c.syncRate()
	}
}

func (c *Controller) onMetadata() {
	if c.state == StateIdle {
		c.state = StateReady
	}
	c.normalizeRange()

	if c.opts.Variant == VariantPreview {
		c.autoplay()
		return
	}
	if c.pendingPlay {
		c.pendingPlay = false
		fault.Absorb(c.log, "deferred play", c.Play())
	}
}

func (c *Controller) autoplay() {
	if c.el.Paused() {
		fault.Absorb(c.log, "autoplay", c.Play())
	}
}

func (c *Controller) onEnded() {
	c.state = StateEnded
	if !c.loop {
		return
	}
	in, _, _ := c.Range()
	c.seekFrame(in)
	c.state = StateReady
	c.observeEnforcement("ended_loop")
	if err := c.el.Play(); err != nil {
		fault.Absorb(c.log, "loop restart", err)
	}
}

func (c *Controller) setPlaying(playing bool) {
	if c.playing == playing {
		return
	}
	c.playing = playing
	c.opts.Sink.PlayStateChanged(c.el.ID(), playing)
}

func (c *Controller) observeAction(action string) {
	if c.opts.Observer != nil {
		c.opts.Observer.ObserveAction(action)
	}
}

func (c *Controller) observeEnforcement(outcome string) {
	if c.opts.Observer != nil {
		c.opts.Observer.ObserveEnforcement(outcome)
	}
	c.log.Debug("range enforcement: %s", outcome)
}

// SetMediaInfo applies a supplied or detected frame rate and frame count.
// The rate is coerced into a usable range; the range is re-normalized.
func (c *Controller) SetMediaInfo(info MediaInfo) error {
	if c.destroyed {
		return fault.Destroyed("set media info")
	}
	if info.FPS != 0 {
		c.fps = media.NormalizeFPS(info.FPS)
	}
	if info.FrameCount > 0 {
		c.frameCount = info.FrameCount
	}
	c.normalizeRange()
	return nil
}

// ApplyAsset resolves frame rate and count from an asset descriptor.
func (c *Controller) ApplyAsset(a media.Asset) error {
	fps, _ := a.ResolveFPS(c.opts.DefaultFPS)
	info := MediaInfo{FPS: fps}
	if a.FrameCount > 0 {
		info.FrameCount = a.FrameCount
	}
	return c.SetMediaInfo(info)
}

// FPS returns the frame rate in use.
func (c *Controller) FPS() float64 {
	return c.fps
}

// FrameCount returns the authoritative frame count, or one derived from the
// element's duration. ok is false when neither is known.
func (c *Controller) FrameCount() (int, bool) {
	if c.frameCount > 0 {
		return c.frameCount, true
	}
	d, ok := c.el.Duration()
	if !ok {
		return 0, false
	}
	return media.FramesForDuration(d, c.fps)
}

// CurrentFrame returns the frame under the playhead.
func (c *Controller) CurrentFrame() int {
	return FrameAt(c.el.CurrentTime(), c.fps)
}

// ready reports whether the element has metadata.
func (c *Controller) ready() bool {
	_, ok := c.el.Duration()
	return ok
}

// readyRange returns the range of a loaded element.
func (c *Controller) readyRange(op string) (in, out int, err error) {
	if !c.ready() {
		return 0, 0, fault.NotReady(op, "no metadata yet")
	}
	in, out, ok := c.Range()
	if !ok {
		return 0, 0, fault.NotReady(op, "frame count unknown")
	}
	return in, out, nil
}

func (c *Controller) seekFrame(frame int) {
	c.el.Seek(TimeAt(frame, c.fps))
}

// normalizeRange clamps the marks into [0, frameCount] and swaps them when
// inverted.
func (c *Controller) normalizeRange() {
	fc, known := c.FrameCount()
	for _, m := range []*mark{&c.in, &c.out} {
		if !m.set {
			continue
		}
		if m.frame < 0 {
			m.frame = 0
		}
		if known && m.frame > fc {
			m.frame = fc
		}
	}
	if c.in.set && c.out.set && c.in.frame > c.out.frame {
		c.in.frame, c.out.frame = c.out.frame, c.in.frame
	}
}

// Range returns the effective bounds. Unset marks mean 0 and frameCount.
// ok is false while the frame count is unknown.
func (c *Controller) Range() (in, out int, ok bool) {
	fc, known := c.FrameCount()
	if !known {
		return 0, 0, false
	}
	in, out = 0, fc
	if c.in.set {
		in = c.in.frame
	}
	if c.out.set {
		out = c.out.frame
	}
	if in > out {
		in = out
	}
	return in, out, true
}

// restricted reports whether the range is narrower than the clip.
func (c *Controller) restricted() bool {
	in, out, ok := c.Range()
	if !ok {
		return false
	}
	fc, _ := c.FrameCount()
	return in != 0 || out != fc
}

// enforced reports whether range enforcement applies at all.
func (c *Controller) enforced() bool {
	return c.restricted() || c.loop || c.once
}

func (c *Controller) epsilon() int {
	if c.step > 1 {
		return c.step
	}
	return 1
}

// enforce keeps the playhead inside the range. It runs on every time update
// while not seeking.
func (c *Controller) enforce() {
	if c.seeking || c.enforcing || c.destroyed || !c.enforced() {
		return
	}
	in, out, err := c.readyRange("enforce")
	if err != nil {
		return
	}

	c.enforcing = true
	defer func() { c.enforcing = false }()

	cur := c.CurrentFrame()
	if cur < in {
		c.seekFrame(in)
		c.observeEnforcement("snap_in")
		return
	}
	if c.el.Paused() || cur < out-c.epsilon() {
		return
	}

	switch {
	case c.loop:
		c.seekFrame(in)
		c.state = StateReady
		c.observeEnforcement("loop")
		if c.el.Paused() {
			fault.Absorb(c.log, "loop resume", c.el.Play())
		} else {
			c.state = StatePlaying
		}
	case c.once:
		c.el.Pause()
		c.seekFrame(out)
		c.observeEnforcement("once")
	default:
		c.el.Pause()
		c.seekFrame(out)
		c.observeEnforcement("stop")
	}
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// Snapshot returns the committed state.
func (c *Controller) Snapshot() Snapshot {
	fc, known := c.FrameCount()
	in, out, _ := c.Range()
	frame := c.CurrentFrame()
	return Snapshot{
		AssetID:         c.el.ID(),
		Variant:         c.opts.Variant,
		State:           c.state,
		FPS:             c.fps,
		Frame:           frame,
		FrameCount:      fc,
		FrameCountKnown: known,
		In:              in,
		Out:             out,
		Restricted:      c.restricted(),
		Loop:            c.loop,
		Once:            c.once,
		Rate:            c.rate,
		Step:            c.step,
		Seeking:         c.seeking,
		Timecode:        Timecode(frame, c.fps),
		InPercent:       percentOf(in, fc),
		OutPercent:      percentOf(out, fc),
		PlayheadPercent: percentOf(frame, fc),
	}
}

func (c *Controller) applyRate() {
	if math.Abs(c.el.PlaybackRate()-c.rate) < 1e-9 {
		return
	}
	c.applyingRate = true
	c.el.SetPlaybackRate(c.rate)
	c.applyingRate = false
}

// syncRate adopts a rate changed outside this controller without pushing
// it back to the element.
func (c *Controller) syncRate() {
	if c.applyingRate {
		return
	}
	r := ClampRate(c.el.PlaybackRate())
	if r != c.rate {
		c.log.Debug("external rate change %.2f -> %.2f", c.rate, r)
		c.rate = r
	}
}
