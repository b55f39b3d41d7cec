package events

import (
	"context"
	"sync"
)

// LocalBus is an in-process Bus. Posted messages are recorded and handed to
// OnPost; Deliver plays the host side.
type LocalBus struct {
	subs *fanout

	mu     sync.Mutex
	posted []Envelope

	// OnPost, when set, is called after every Post.
	OnPost func(Envelope)
}

func NewLocalBus() *LocalBus {
	return &LocalBus{subs: newFanout()}
}

func (b *LocalBus) Post(ctx context.Context, targetOrigin string, msg HostMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := Envelope{TargetOrigin: targetOrigin, Message: msg}

	b.mu.Lock()
	b.posted = append(b.posted, env)
	onPost := b.OnPost
	b.mu.Unlock()

	if onPost != nil {
		onPost(env)
	}
	return nil
}

func (b *LocalBus) Subscribe(h Handler) func() {
	return b.subs.add(h)
}

// Deliver dispatches msg to every current subscriber.
func (b *LocalBus) Deliver(msg HostMessage) {
	b.subs.dispatch(msg)
}

// Subscribers returns the number of registered handlers.
func (b *LocalBus) Subscribers() int {
	return b.subs.len()
}

// Posted returns a copy of every envelope sent so far.
func (b *LocalBus) Posted() []Envelope {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Envelope(nil), b.posted...)
}
