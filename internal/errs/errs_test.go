package errs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByCode(t *testing.T) {
	err := HostConfigUnavailable(context.DeadlineExceeded)

	assert.True(t, errors.Is(err, ErrHostConfigUnavailable))
	assert.False(t, errors.Is(err, ErrSettingsCorrupted))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestIsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("bootstrap: %w", SettingsCorrupted(errors.New("bad json")))

	assert.True(t, errors.Is(err, ErrSettingsCorrupted))
	assert.Equal(t, CodeSettingsCorrupted, CodeOf(err))
	assert.Equal(t, "bootstrap: stored settings are corrupted: bad json", err.Error())
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, Code(""), CodeOf(errors.New("plain")))
}

func TestInvalidArgumentKeepsCause(t *testing.T) {
	cause := errors.New("color mode must be 'light' or 'dark'")
	err := InvalidArgument(cause)

	assert.Equal(t, CodeInvalidArgument, CodeOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "color mode")
}
