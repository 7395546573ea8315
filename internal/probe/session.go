package probe

import (
	"context"
	"errors"
	"sync"
	"time"

	"media-viewer-core/internal/fault"
	"media-viewer-core/internal/logging"
	"media-viewer-core/internal/media"
	"media-viewer-core/internal/signal"

	"github.com/google/uuid"
)

// Probe outcomes reported to the Observer.
const (
	StatusSuccess   = "success"
	StatusError     = "error"
	StatusCancelled = "cancelled"
	StatusStale     = "stale"
)

// Observer records probe outcomes. Implemented by the metrics package.
type Observer interface {
	ObserveProbe(status string, durationSeconds float64)
	ObserveCacheHit()
	ObserveCacheMiss()
}

// Lookup detects media info for a file.
type Lookup interface {
	Probe(ctx context.Context, file string) (Info, error)
}

// Options configures a Session.
type Options struct {
	Cache    *Cache
	Sink     signal.Sink
	Observer Observer
	// Post delivers results on the owner's goroutine. When nil results are
	// applied on the lookup goroutine.
	Post func(func())
}

// Session runs frame-rate lookups for the asset currently on screen. Each
// Start supersedes the previous lookup; results of superseded lookups are
// cached but never applied.
type Session struct {
	id     string
	log    *logging.Logger
	lookup Lookup
	opts   Options
	tokens signal.TokenSource

	mu       sync.Mutex
	cancel   context.CancelFunc
	disposed bool
	wg       sync.WaitGroup
}

// NewSession creates a session around lookup.
func NewSession(lookup Lookup, opts Options) *Session {
	if opts.Sink == nil {
		opts.Sink = signal.NopSink{}
	}
	id := uuid.NewString()[:8]
	return &Session{
		id:     id,
		log:    logging.For("probe").With(id),
		lookup: lookup,
		opts:   opts,
	}
}

// Start looks up the rate of asset and passes it to apply. A cached result
// is applied before Start returns; otherwise the lookup runs in the
// background.
func (s *Session) Start(asset media.Asset, apply func(Info)) error {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return fault.Destroyed("probe start")
	}
	s.stopLocked()
	token := s.tokens.Next()

	if s.opts.Cache != nil {
		if info, ok := s.opts.Cache.Get(asset.ID); ok {
			s.mu.Unlock()
			s.observeCache(true)
			s.log.Debug("cache hit for %s: %.3f fps", asset.ID, info.FPS)
			s.opts.Sink.FrameRateDetected(asset.ID, info.FPS)
			if apply != nil {
				apply(info)
			}
			return nil
		}
		s.observeCache(false)
	}
	if asset.Path == "" {
		s.mu.Unlock()
		return fault.Unsupported("probe start", "asset has no path")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go s.run(ctx, token, asset, apply)
	return nil
}

func (s *Session) run(ctx context.Context, token signal.Token, asset media.Asset, apply func(Info)) {
	defer s.wg.Done()

	start := time.Now()
	info, err := s.lookup.Probe(ctx, asset.Path)
	elapsed := time.Since(start).Seconds()

	if err == nil && s.opts.Cache != nil {
		s.opts.Cache.Set(asset.ID, info)
	}

	deliver := func() {
		switch {
		case errors.Is(err, context.Canceled):
			s.observe(StatusCancelled, elapsed)
		case !token.Current():
			s.log.Debug("discarding stale result for %s", asset.ID)
			s.observe(StatusStale, elapsed)
		case err != nil:
			s.log.Warn("probe %s failed: %v", asset.ID, err)
			s.observe(StatusError, elapsed)
		default:
			s.observe(StatusSuccess, elapsed)
			s.opts.Sink.FrameRateDetected(asset.ID, info.FPS)
			if apply != nil {
				apply(info)
			}
		}
	}
	if s.opts.Post != nil {
		s.opts.Post(deliver)
		return
	}
	deliver()
}

// Stop cancels the lookup in flight. Its result, if any, is discarded.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Session) stopLocked() {
	s.tokens.CancelAll()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Dispose stops the session for good. Later Starts fail.
func (s *Session) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.disposed = true
}

// Wait blocks until every lookup goroutine has finished and handed off its
// result.
func (s *Session) Wait() {
	s.wg.Wait()
}

func (s *Session) observe(status string, seconds float64) {
	if s.opts.Observer != nil {
		s.opts.Observer.ObserveProbe(status, seconds)
	}
}

func (s *Session) observeCache(hit bool) {
	if s.opts.Observer == nil {
		return
	}
	if hit {
		s.opts.Observer.ObserveCacheHit()
	} else {
		s.opts.Observer.ObserveCacheMiss()
	}
}
