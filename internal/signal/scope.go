package signal

import "sync"

// Scope owns every subscription a controller makes. Close revokes them all
// exactly once; afterwards Active is false and guarded callbacks are dropped.
type Scope struct {
	mu      sync.Mutex
	cancels []CancelFunc
	closed  bool
}

// NewScope returns an open scope.
func NewScope() *Scope {
	return &Scope{}
}

// Add takes ownership of cancel. If the scope is already closed cancel runs
// immediately.
func (s *Scope) Add(cancel CancelFunc) {
	if cancel == nil {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		cancel()
		return
	}
	s.cancels = append(s.cancels, cancel)
	s.mu.Unlock()
}

// Active reports whether the scope has not been closed.
func (s *Scope) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// Len returns the number of subscriptions held.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cancels)
}

// Close revokes all subscriptions in reverse order of registration.
func (s *Scope) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	cancels := s.cancels
	s.cancels = nil
	s.mu.Unlock()

	for i := len(cancels) - 1; i >= 0; i-- {
		cancels[i]()
	}
}

// Guard wraps fn so it is a no-op once the scope is closed.
func Guard[E any](s *Scope, fn func(E)) func(E) {
	return func(e E) {
		if s.Active() {
			fn(e)
		}
	}
}

// Listen subscribes a guarded fn to bus and registers the cancel with s.
func Listen[E any](s *Scope, bus *Bus[E], fn func(E)) {
	s.Add(bus.Subscribe(Guard(s, fn)))
}
