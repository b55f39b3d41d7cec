package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"chatterbox/internal/logx"
)

const (
	// wsWriteTimeout bounds a single outbound frame.
	wsWriteTimeout = 5 * time.Second
	// wsMaxMessageSize caps inbound frames; config payloads are tiny.
	wsMaxMessageSize = 64 * 1024
)

// WebsocketBus talks to a host process over a websocket. Outbound messages
// are written as Envelope JSON frames; inbound frames are HostMessage JSON and
// are stamped with the origin of the dialed URL.
type WebsocketBus struct {
	conn   *websocket.Conn
	origin string
	subs   *fanout

	writeMu sync.Mutex
	done    chan struct{}
	once    sync.Once
}

// DialWebsocketBus connects to rawURL and starts the read loop.
func DialWebsocketBus(ctx context.Context, rawURL string, header http.Header) (*WebsocketBus, error) {
	origin, err := originOf(rawURL)
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, rawURL, header)
	if err != nil {
		return nil, fmt.Errorf("dial host bus: %w", err)
	}
	conn.SetReadLimit(wsMaxMessageSize)

	b := &WebsocketBus{
		conn:   conn,
		origin: origin,
		subs:   newFanout(),
		done:   make(chan struct{}),
	}
	go b.readLoop()
	return b, nil
}

func (b *WebsocketBus) Post(ctx context.Context, targetOrigin string, msg HostMessage) error {
	select {
	case <-b.done:
		return errors.New("host bus is closed")
	default:
	}

	deadline := time.Now().Add(wsWriteTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	if err := b.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return b.conn.WriteJSON(Envelope{TargetOrigin: targetOrigin, Message: msg})
}

func (b *WebsocketBus) Subscribe(h Handler) func() {
	return b.subs.add(h)
}

// Done is closed once the read loop exits.
func (b *WebsocketBus) Done() <-chan struct{} {
	return b.done
}

// Close sends a close frame and tears down the connection.
func (b *WebsocketBus) Close() error {
	var err error
	b.once.Do(func() {
		b.writeMu.Lock()
		_ = b.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "client closing"),
			time.Now().Add(time.Second),
		)
		b.writeMu.Unlock()
		err = b.conn.Close()
	})
	return err
}

func (b *WebsocketBus) readLoop() {
	defer close(b.done)
	for {
		_, data, err := b.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logx.Warn("host bus closed unexpectedly", "error", err.Error())
			}
			return
		}
		var msg HostMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logx.Debug("dropping undecodable host frame", "error", err.Error())
			continue
		}
		// The socket is the trust boundary; never take the origin from the frame.
		msg.Origin = b.origin
		b.subs.dispatch(msg)
	}
}

// originOf maps a ws(s) URL to the http(s) origin of the same host.
func originOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse host bus url: %w", err)
	}
	switch u.Scheme {
	case "ws":
		return "http://" + u.Host, nil
	case "wss":
		return "https://" + u.Host, nil
	default:
		return "", fmt.Errorf("host bus url must use ws or wss, got %q", u.Scheme)
	}
}
