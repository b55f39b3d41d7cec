// Package errs defines the bootstrap error taxonomy.
//
// Every AppError carries a Code; errors.Is matches on the code so callers can
// test against the sentinels below regardless of the wrapped cause.
package errs

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeIdentityGenerationFailed Code = "identity_generation_failed"
	CodeHostConfigUnavailable    Code = "host_config_unavailable"
	CodeSettingsCorrupted        Code = "settings_corrupted"
	CodePersistenceWriteFailed   Code = "persistence_write_failed"
	CodeNotReady                 Code = "not_ready"
	CodeInvalidArgument          Code = "invalid_argument"
)

type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// Is matches any AppError with the same code.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrIdentityGenerationFailed = New(CodeIdentityGenerationFailed, "identity generation failed")
	ErrHostConfigUnavailable    = New(CodeHostConfigUnavailable, "host config unavailable")
	ErrSettingsCorrupted        = New(CodeSettingsCorrupted, "stored settings are corrupted")
	ErrPersistenceWriteFailed   = New(CodePersistenceWriteFailed, "failed to persist settings")
	ErrNotReady                 = New(CodeNotReady, "settings are not ready")
)

func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

func IdentityGenerationFailed(cause error) error {
	return Wrap(CodeIdentityGenerationFailed, "identity generation failed", cause)
}

func HostConfigUnavailable(cause error) error {
	return Wrap(CodeHostConfigUnavailable, "host config unavailable", cause)
}

func SettingsCorrupted(cause error) error {
	return Wrap(CodeSettingsCorrupted, "stored settings are corrupted", cause)
}

func PersistenceWriteFailed(cause error) error {
	return Wrap(CodePersistenceWriteFailed, "failed to persist settings", cause)
}

func InvalidArgument(cause error) error {
	return Wrap(CodeInvalidArgument, "invalid argument", cause)
}

// CodeOf returns the code of the first AppError in err's chain, or "".
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
