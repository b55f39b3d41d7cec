package events

import (
	"chatterbox/internal/logx"
)

// logUIEvent mirrors UI events into the log. Settings payloads carry the
// private key, so only failures log their body.
func logUIEvent(name string, data any) {
	switch name {
	case SettingsFailed:
		if evt, ok := data.(FailureEvent); ok {
			logx.Warn("ui event", "event", name, "code", evt.Code, "message", evt.Message)
			return
		}
		logx.Warn("ui event", "event", name)
	default:
		logx.Debug("ui event", "event", name)
	}
}
