package toggles

import (
	"errors"
	"fmt"
)

// ToggleErrorType categorizes toggle errors.
type ToggleErrorType int

const (
	// ToggleParseFailed indicates a malformed toggle declaration.
	ToggleParseFailed ToggleErrorType = iota
	// ToggleReadFailed indicates a declaration file could not be read.
	ToggleReadFailed
)

// ToggleError represents a toggle declaration or resolution error.
type ToggleError struct {
	// Type categorizes the error.
	Type ToggleErrorType
	// Message is the error message.
	Message string
	// File is the declaration file (or "overrides" for caller values).
	File string
	// Key is the offending toggle key, if any.
	Key string
	// Cause is the underlying error (if any).
	Cause error
}

// Error implements the error interface.
func (e *ToggleError) Error() string {
	msg := e.Message
	if e.Key != "" {
		msg = fmt.Sprintf("%s [key: %s]", msg, e.Key)
	}
	if e.File != "" {
		msg = fmt.Sprintf("%s (file: %s)", msg, e.File)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause error for error unwrapping.
func (e *ToggleError) Unwrap() error {
	return e.Cause
}

func newParseError(file, key, message string, cause error) *ToggleError {
	return &ToggleError{
		Type:    ToggleParseFailed,
		Message: message,
		File:    file,
		Key:     key,
		Cause:   cause,
	}
}

// IsToggleParseError reports whether err is, or wraps, a ToggleParseFailed error.
func IsToggleParseError(err error) bool {
	var te *ToggleError
	return errors.As(err, &te) && te.Type == ToggleParseFailed
}
