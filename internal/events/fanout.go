package events

import (
	"sync"

	"github.com/google/uuid"
)

// fanout keeps the subscriber set shared by every Bus implementation.
type fanout struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func newFanout() *fanout {
	return &fanout{handlers: make(map[string]Handler)}
}

func (f *fanout) add(h Handler) func() {
	id := uuid.NewString()

	f.mu.Lock()
	f.handlers[id] = h
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.handlers, id)
			f.mu.Unlock()
		})
	}
}

// dispatch calls every handler outside the lock so handlers may unsubscribe.
func (f *fanout) dispatch(msg HostMessage) {
	f.mu.RLock()
	handlers := make([]Handler, 0, len(f.handlers))
	for _, h := range f.handlers {
		handlers = append(handlers, h)
	}
	f.mu.RUnlock()

	for _, h := range handlers {
		h(msg)
	}
}

func (f *fanout) len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.handlers)
}
