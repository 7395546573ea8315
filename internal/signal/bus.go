package signal

import "sync"

// CancelFunc revokes a subscription. Calling it more than once is safe.
type CancelFunc func()

// Bus is a synchronous dispatcher for events of type E. Handlers run in
// subscription order on the goroutine calling Emit.
type Bus[E any] struct {
	mu       sync.Mutex
	nextID   uint64
	handlers map[uint64]func(E)
	order    []uint64
}

// NewBus returns an empty Bus.
func NewBus[E any]() *Bus[E] {
	return &Bus[E]{handlers: make(map[uint64]func(E))}
}

// Subscribe registers fn and returns the function that removes it.
func (b *Bus[E]) Subscribe(fn func(E)) CancelFunc {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers == nil {
		b.handlers = make(map[uint64]func(E))
	}
	b.nextID++
	id := b.nextID
	b.handlers[id] = fn
	b.order = append(b.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus[E]) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.handlers, id)
	for i, v := range b.order {
		if v == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Emit delivers e to every handler subscribed at the time of the call.
// Handlers removed during dispatch are skipped.
func (b *Bus[E]) Emit(e E) {
	b.mu.Lock()
	ids := make([]uint64, len(b.order))
	copy(ids, b.order)
	b.mu.Unlock()

	for _, id := range ids {
		b.mu.Lock()
		fn, ok := b.handlers[id]
		b.mu.Unlock()
		if ok {
			fn(e)
		}
	}
}

// Len returns the number of live subscriptions.
func (b *Bus[E]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers)
}
