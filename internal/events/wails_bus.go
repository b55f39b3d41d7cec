package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"chatterbox/internal/logx"
)

// Wails event names bridged by the frontend to window.postMessage.
const (
	WailsHostInbound  = "host:message"
	WailsHostOutbound = "host:post"
)

// WailsBus relays host messages through the Wails runtime event system. The
// frontend forwards window "message" events as WailsHostInbound and posts
// WailsHostOutbound envelopes to window.parent.
type WailsBus struct {
	ctx  context.Context
	subs *fanout

	mu     sync.Mutex
	cancel func()

	emit func(ctx context.Context, name string, data ...interface{})
	on   func(ctx context.Context, name string, cb func(data ...interface{})) func()
}

// NewWailsBus needs the context Wails passes to OnStartup.
func NewWailsBus(ctx context.Context) *WailsBus {
	return &WailsBus{
		ctx:  ctx,
		subs: newFanout(),
		emit: runtime.EventsEmit,
		on:   runtime.EventsOn,
	}
}

func (b *WailsBus) Post(ctx context.Context, targetOrigin string, msg HostMessage) error {
	if b.ctx == nil {
		return errors.New("wails bus is not started")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	b.emit(b.ctx, WailsHostOutbound, Envelope{TargetOrigin: targetOrigin, Message: msg})
	return nil
}

// Subscribe attaches h. The runtime listener is registered with the first
// subscriber and dropped with the last one.
func (b *WailsBus) Subscribe(h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	remove := b.subs.add(h)
	if b.cancel == nil && b.ctx != nil {
		b.cancel = b.on(b.ctx, WailsHostInbound, b.receive)
	}

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		remove()
		if b.subs.len() == 0 && b.cancel != nil {
			b.cancel()
			b.cancel = nil
		}
	}
}

func (b *WailsBus) receive(data ...interface{}) {
	if len(data) == 0 {
		return
	}
	msg, err := decodeHostMessage(data[0])
	if err != nil {
		logx.Debug("dropping undecodable host message", "error", err.Error())
		return
	}
	b.subs.dispatch(msg)
}

// decodeHostMessage converts whatever the runtime handed us (usually a
// map[string]interface{} from the frontend) into a HostMessage.
func decodeHostMessage(v interface{}) (HostMessage, error) {
	var raw []byte
	switch t := v.(type) {
	case string:
		raw = []byte(t)
	case []byte:
		raw = t
	default:
		var err error
		if raw, err = json.Marshal(v); err != nil {
			return HostMessage{}, err
		}
	}
	var msg HostMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return HostMessage{}, err
	}
	return msg, nil
}
