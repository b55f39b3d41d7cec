package events

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// UI event names published to the frontend.
const (
	SettingsReady   = "settings:ready"
	SettingsChanged = "settings:changed"
	SettingsFailed  = "settings:failed"
	UpdateAvailable = "app:update-available"
)

// Emit publishes a UI event. It is a no-op until EnableRuntimeEmitter or
// SetCustomEmitter is called.
var Emit = func(ctx context.Context, name string, data any) {}

// EnableRuntimeEmitter routes Emit to the Wails runtime and the log.
func EnableRuntimeEmitter() {
	Emit = func(ctx context.Context, name string, data any) {
		runtime.EventsEmit(ctx, name, data)
		logUIEvent(name, data)
	}
}

func SetCustomEmitter(f func(ctx context.Context, name string, data any)) {
	if f == nil {
		Emit = func(context.Context, string, any) {}
		return
	}
	Emit = f
}

// FailureEvent is the payload of SettingsFailed.
type FailureEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
