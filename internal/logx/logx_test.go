package logx

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorWritesFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)

	Error(errors.New("boom"), "seed write failed", "key", "userSettings")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "userSettings", entry["key"])
	assert.Equal(t, "seed write failed", entry["message"])
}

func TestOddFieldsAreDropped(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)

	Info("hello", "dangling")

	assert.Contains(t, buf.String(), "odd number of fields")
	assert.Contains(t, buf.String(), `"message":"hello"`)
}
