package app

import "fmt"

// AppErrorType represents the type of application error.
type AppErrorType int

const (
	// ValidationFailed indicates invalid render options.
	ValidationFailed AppErrorType = iota
	// StagingFailed indicates the staging directory could not be prepared.
	StagingFailed
	// ConfirmFailed indicates the confirmation collaborator failed.
	ConfirmFailed
	// CleanFailed indicates stale staging directories could not be removed.
	CleanFailed
)

// AppError represents an application-layer error. Errors raised by the
// render and commit stages are returned unwrapped so callers can inspect
// them directly.
type AppError struct {
	// Type is the error type.
	Type AppErrorType
	// Message is the error message.
	Message string
	// Cause is the underlying error.
	Cause error
}

// Error returns the error message.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError.
func NewAppError(errType AppErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// NewValidationError creates a validation error.
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ValidationFailed, message, cause)
}

// NewStagingError creates a staging error.
func NewStagingError(message string, cause error) *AppError {
	return NewAppError(StagingFailed, message, cause)
}

// NewConfirmError creates a confirmation error.
func NewConfirmError(message string, cause error) *AppError {
	return NewAppError(ConfirmFailed, message, cause)
}

// NewCleanError creates a clean error.
func NewCleanError(message string, cause error) *AppError {
	return NewAppError(CleanFailed, message, cause)
}
