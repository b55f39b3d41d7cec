package events

import (
	"bytes"
	"encoding/json"
)

// Names of the messages exchanged with a host frame.
const (
	ConfigRequested = "CONFIG_REQUESTED"
	ConfigResponse  = "CONFIG_RESPONSE"
)

// HostMessage is one message on the host bus. Origin is filled in by the
// transport for inbound messages and is empty for outbound ones.
type HostMessage struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
	Origin  string          `json:"origin,omitempty"`
}

// Envelope is what transports put on the wire for an outbound message.
type Envelope struct {
	TargetOrigin string      `json:"targetOrigin"`
	Message      HostMessage `json:"message"`
}

// NewConfigRequested builds the handshake request.
func NewConfigRequested() HostMessage {
	return HostMessage{Name: ConfigRequested, Payload: json.RawMessage(`{}`)}
}

// NewConfigResponse builds a config message carrying payload.
func NewConfigResponse(payload any) (HostMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return HostMessage{}, err
	}
	return HostMessage{Name: ConfigResponse, Payload: data}, nil
}

// IsConfigMessage reports whether msg is a config message whose payload is a
// JSON object.
func IsConfigMessage(msg HostMessage) bool {
	if msg.Name != ConfigResponse {
		return false
	}
	trimmed := bytes.TrimSpace(msg.Payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	return json.Valid(trimmed)
}
