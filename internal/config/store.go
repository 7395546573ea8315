package config

import (
	"sync/atomic"

	"media-viewer-core/internal/logging"
	"media-viewer-core/internal/signal"
)

// Store holds the current settings and notifies subscribers when they are
// replaced. Readers always see a complete Settings value.
type Store struct {
	current atomic.Pointer[Settings]
	changes *signal.Bus[*Settings]
}

// NewStore returns a Store holding s (or Defaults when s is nil).
func NewStore(s *Settings) *Store {
	if s == nil {
		d := Defaults()
		s = &d
	}
	st := &Store{changes: signal.NewBus[*Settings]()}
	st.current.Store(s)
	return st
}

// Get returns the current settings. Callers must not modify the result.
func (st *Store) Get() *Settings {
	return st.current.Load()
}

// Set replaces the settings, applies the log level and notifies
// subscribers.
func (st *Store) Set(s *Settings) {
	if s == nil {
		return
	}
	st.current.Store(s)
	if level, ok := logging.ParseLevel(s.LogLevel); ok {
		logging.SetLevel(level)
	}
	st.changes.Emit(s)
}

// Subscribe registers fn for every Set.
func (st *Store) Subscribe(fn func(*Settings)) signal.CancelFunc {
	return st.changes.Subscribe(fn)
}
