package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"chatterbox/internal/errs"
	"chatterbox/internal/events"
	"chatterbox/internal/logx"
	"chatterbox/internal/models"
)

// DefaultHostConfigTimeout is how long Request waits for the host.
const DefaultHostConfigTimeout = 3000 * time.Millisecond

type HostConfigChannelOptions struct {
	// ParentOrigin is where the request is posted. Required.
	ParentOrigin string
	// Timeout defaults to DefaultHostConfigTimeout.
	Timeout time.Duration
	// EnforceOrigin drops inbound messages whose origin is not ParentOrigin.
	EnforceOrigin bool
}

// HostConfigChannel asks the host frame for a config payload.
type HostConfigChannel struct {
	bus  events.Bus
	opts HostConfigChannelOptions
}

func NewHostConfigChannel(bus events.Bus, opts HostConfigChannelOptions) *HostConfigChannel {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultHostConfigTimeout
	}
	return &HostConfigChannel{bus: bus, opts: opts}
}

// Accepts reports whether msg is a config message this channel trusts.
func (c *HostConfigChannel) Accepts(msg events.HostMessage) bool {
	if !events.IsConfigMessage(msg) {
		return false
	}
	if c.opts.EnforceOrigin && msg.Origin != c.opts.ParentOrigin {
		logx.Warn("ignoring config message from unexpected origin",
			"origin", msg.Origin, "expected", c.opts.ParentOrigin)
		return false
	}
	return true
}

// Decode turns an accepted config message into a preferences patch.
func (c *HostConfigChannel) Decode(msg events.HostMessage) (models.PreferencesPatch, error) {
	var patch models.PreferencesPatch
	if err := json.Unmarshal(msg.Payload, &patch); err != nil {
		return models.PreferencesPatch{}, err
	}
	if err := patch.Validate(); err != nil {
		return models.PreferencesPatch{}, err
	}
	return patch, nil
}

// Request posts CONFIG_REQUESTED to the parent origin and waits for the first
// acceptable config message. The listener is attached before the post and the
// deadline starts once the post returns. Exactly one of patch or error is
// produced; on timeout or cancellation the error matches
// errs.ErrHostConfigUnavailable. The bus listener is removed before Request
// returns.
func (c *HostConfigChannel) Request(ctx context.Context) (models.PreferencesPatch, error) {
	if c.opts.ParentOrigin == "" {
		return models.PreferencesPatch{}, errs.HostConfigUnavailable(errors.New("parent origin is unknown"))
	}

	responses := make(chan models.PreferencesPatch, 1)
	unsubscribe := c.bus.Subscribe(func(msg events.HostMessage) {
		if !c.Accepts(msg) {
			return
		}
		patch, err := c.Decode(msg)
		if err != nil {
			logx.Debug("ignoring malformed config payload", "error", err.Error())
			return
		}
		select {
		case responses <- patch:
		default:
		}
	})
	defer unsubscribe()

	if err := c.bus.Post(ctx, c.opts.ParentOrigin, events.NewConfigRequested()); err != nil {
		return models.PreferencesPatch{}, errs.HostConfigUnavailable(err)
	}

	timer := time.NewTimer(c.opts.Timeout)
	defer timer.Stop()

	var cause error
	select {
	case patch := <-responses:
		return patch, nil
	case <-timer.C:
		cause = context.DeadlineExceeded
	case <-ctx.Done():
		cause = ctx.Err()
	}
	// A response that raced the deadline still wins.
	select {
	case patch := <-responses:
		return patch, nil
	default:
	}
	return models.PreferencesPatch{}, errs.HostConfigUnavailable(cause)
}
