package signal

import "sync/atomic"

// TokenSource hands out cancellation tokens for background lookups. Starting
// a new lookup invalidates every token issued before it.
type TokenSource struct {
	gen atomic.Uint64
}

// Token identifies one generation of a TokenSource.
type Token struct {
	src *TokenSource
	gen uint64
}

// Next invalidates outstanding tokens and returns a fresh one.
func (s *TokenSource) Next() Token {
	return Token{src: s, gen: s.gen.Add(1)}
}

// CancelAll invalidates outstanding tokens without issuing a new one.
func (s *TokenSource) CancelAll() {
	s.gen.Add(1)
}

// Current reports whether t is still the latest token of its source. Late
// results must check this before being applied.
func (t Token) Current() bool {
	return t.src != nil && t.src.gen.Load() == t.gen
}
