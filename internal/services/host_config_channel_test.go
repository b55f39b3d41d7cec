package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatterbox/internal/errs"
	"chatterbox/internal/events"
	"chatterbox/internal/models"
	"chatterbox/internal/services"
)

const hostOrigin = "https://host.example"

func configResponse(payload string) events.HostMessage {
	return events.HostMessage{Name: events.ConfigResponse, Payload: json.RawMessage(payload), Origin: hostOrigin}
}

// replyAfter makes the host answer every request with msgs after delay.
func replyAfter(bus *events.LocalBus, delay time.Duration, msgs ...events.HostMessage) {
	bus.OnPost = func(env events.Envelope) {
		if env.Message.Name != events.ConfigRequested {
			return
		}
		go func() {
			time.Sleep(delay)
			for _, m := range msgs {
				bus.Deliver(m)
			}
		}()
	}
}

func TestHostConfigChannel_ResolvesBeforeDeadline(t *testing.T) {
	bus := events.NewLocalBus()
	replyAfter(bus, 500*time.Millisecond, configResponse(`{"colorMode":"light"}`))
	ch := services.NewHostConfigChannel(bus, services.HostConfigChannelOptions{ParentOrigin: hostOrigin})

	start := time.Now()
	patch, err := ch.Request(context.Background())
	require.NoError(t, err)

	require.NotNil(t, patch.ColorMode)
	assert.Equal(t, models.ColorModeLight, *patch.ColorMode)
	assert.Less(t, time.Since(start), services.DefaultHostConfigTimeout)
	assert.Equal(t, 0, bus.Subscribers())

	posted := bus.Posted()
	require.Len(t, posted, 1)
	assert.Equal(t, hostOrigin, posted[0].TargetOrigin)
	assert.Equal(t, events.NewConfigRequested(), posted[0].Message)
}

func TestHostConfigChannel_DeadlineStartsAfterPost(t *testing.T) {
	bus := events.NewLocalBus()
	bus.OnPost = func(events.Envelope) {
		// Slow write: longer than the whole deadline.
		time.Sleep(80 * time.Millisecond)
		go func() {
			time.Sleep(10 * time.Millisecond)
			bus.Deliver(configResponse(`{"customUsername":"slow-host"}`))
		}()
	}
	ch := services.NewHostConfigChannel(bus, services.HostConfigChannelOptions{
		ParentOrigin: hostOrigin,
		Timeout:      50 * time.Millisecond,
	})

	patch, err := ch.Request(context.Background())
	require.NoError(t, err)
	require.NotNil(t, patch.CustomUsername)
	assert.Equal(t, "slow-host", *patch.CustomUsername)
	assert.Equal(t, 0, bus.Subscribers())
}

func TestHostConfigChannel_TimesOut(t *testing.T) {
	bus := events.NewLocalBus()
	ch := services.NewHostConfigChannel(bus, services.HostConfigChannelOptions{
		ParentOrigin: hostOrigin,
		Timeout:      50 * time.Millisecond,
	})

	_, err := ch.Request(context.Background())

	assert.ErrorIs(t, err, errs.ErrHostConfigUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 0, bus.Subscribers())
}

func TestHostConfigChannel_MalformedMessagesDoNotResolveOrExtend(t *testing.T) {
	bus := events.NewLocalBus()
	replyAfter(bus, 10*time.Millisecond,
		events.HostMessage{Name: "SOMETHING_ELSE", Payload: json.RawMessage(`{}`)},
		configResponse(`[1]`),
		configResponse(`{"colorMode":"sepia"}`),
		configResponse(`{"playSoundOnNewMessage":"loud"}`),
	)
	timeout := 100 * time.Millisecond
	ch := services.NewHostConfigChannel(bus, services.HostConfigChannelOptions{ParentOrigin: hostOrigin, Timeout: timeout})

	start := time.Now()
	_, err := ch.Request(context.Background())
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, errs.ErrHostConfigUnavailable)
	assert.GreaterOrEqual(t, elapsed, timeout)
	assert.Less(t, elapsed, 3*timeout)
	assert.Equal(t, 0, bus.Subscribers())
}

func TestHostConfigChannel_FirstResponseWins(t *testing.T) {
	bus := events.NewLocalBus()
	replyAfter(bus, 10*time.Millisecond,
		configResponse(`{"customUsername":"first"}`),
		configResponse(`{"customUsername":"second"}`),
	)
	ch := services.NewHostConfigChannel(bus, services.HostConfigChannelOptions{ParentOrigin: hostOrigin, Timeout: time.Second})

	patch, err := ch.Request(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", *patch.CustomUsername)

	// A late message after completion reaches nobody.
	bus.Deliver(configResponse(`{"customUsername":"late"}`))
	assert.Equal(t, 0, bus.Subscribers())
}

func TestHostConfigChannel_EnforceOrigin(t *testing.T) {
	spoofed := configResponse(`{"colorMode":"light"}`)
	spoofed.Origin = "https://evil.example"

	bus := events.NewLocalBus()
	replyAfter(bus, 10*time.Millisecond, spoofed, configResponse(`{"customUsername":"trusted"}`))
	ch := services.NewHostConfigChannel(bus, services.HostConfigChannelOptions{
		ParentOrigin:  hostOrigin,
		Timeout:       time.Second,
		EnforceOrigin: true,
	})

	patch, err := ch.Request(context.Background())
	require.NoError(t, err)
	assert.Nil(t, patch.ColorMode)
	assert.Equal(t, "trusted", *patch.CustomUsername)
}

func TestHostConfigChannel_WithoutOriginCheckAcceptsAnySender(t *testing.T) {
	other := configResponse(`{"colorMode":"light"}`)
	other.Origin = "https://elsewhere.example"
	ch := services.NewHostConfigChannel(events.NewLocalBus(), services.HostConfigChannelOptions{ParentOrigin: hostOrigin})

	assert.True(t, ch.Accepts(other))
}

func TestHostConfigChannel_MissingParentOrigin(t *testing.T) {
	bus := events.NewLocalBus()
	ch := services.NewHostConfigChannel(bus, services.HostConfigChannelOptions{})

	_, err := ch.Request(context.Background())

	assert.ErrorIs(t, err, errs.ErrHostConfigUnavailable)
	assert.Empty(t, bus.Posted())
}

func TestHostConfigChannel_CallerCancellation(t *testing.T) {
	bus := events.NewLocalBus()
	ch := services.NewHostConfigChannel(bus, services.HostConfigChannelOptions{ParentOrigin: hostOrigin})

	ctx, cancel := context.WithCancel(context.Background())
	bus.OnPost = func(events.Envelope) { cancel() }

	_, err := ch.Request(ctx)

	assert.ErrorIs(t, err, errs.ErrHostConfigUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, bus.Subscribers())
}

type failingBus struct{ *events.LocalBus }

func (failingBus) Post(context.Context, string, events.HostMessage) error {
	return errors.New("frame detached")
}

func TestHostConfigChannel_PostFailure(t *testing.T) {
	bus := failingBus{events.NewLocalBus()}
	ch := services.NewHostConfigChannel(bus, services.HostConfigChannelOptions{ParentOrigin: hostOrigin})

	_, err := ch.Request(context.Background())

	assert.ErrorIs(t, err, errs.ErrHostConfigUnavailable)
	assert.Equal(t, 0, bus.Subscribers())
}
