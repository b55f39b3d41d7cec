package events

import "context"

// Handler receives inbound host messages. Transports may call it from their
// own goroutine.
type Handler func(HostMessage)

// Bus is a broadcast channel shared with the host frame.
type Bus interface {
	// Post sends msg to the host at targetOrigin.
	Post(ctx context.Context, targetOrigin string, msg HostMessage) error
	// Subscribe registers h for every inbound message. The returned func
	// removes it and is safe to call more than once.
	Subscribe(h Handler) (unsubscribe func())
}
