package component

import (
	"errors"
	"fmt"
)

// ComponentErrorType represents the type of component error.
type ComponentErrorType int

const (
	// PathNotFound indicates the component root is missing or not a directory.
	PathNotFound ComponentErrorType = iota
	// WalkFailed indicates an I/O error while listing the component tree.
	WalkFailed
	// InvalidPath indicates the component path could not be interpreted.
	InvalidPath
)

// String returns the string representation of the error type.
func (t ComponentErrorType) String() string {
	switch t {
	case PathNotFound:
		return "PathNotFound"
	case WalkFailed:
		return "WalkFailed"
	case InvalidPath:
		return "InvalidPath"
	default:
		return "Unknown"
	}
}

// ComponentError represents a component-specific error.
type ComponentError struct {
	// Type is the error type classification.
	Type ComponentErrorType
	// Message is the human-readable error message.
	Message string
	// Path is the component path that caused the error.
	Path string
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *ComponentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("component error [%s] for path '%s': %s: %v",
			e.Type.String(), e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("component error [%s] for path '%s': %s",
		e.Type.String(), e.Path, e.Message)
}

// Unwrap returns the underlying cause for error wrapping.
func (e *ComponentError) Unwrap() error {
	return e.Cause
}

// NewPathNotFoundError creates a PathNotFound error.
func NewPathNotFoundError(path, message string, cause error) *ComponentError {
	return &ComponentError{Type: PathNotFound, Path: path, Message: message, Cause: cause}
}

// NewWalkError creates a WalkFailed error.
func NewWalkError(path string, cause error) *ComponentError {
	return &ComponentError{Type: WalkFailed, Path: path, Message: "failed to list component files", Cause: cause}
}

// NewInvalidPathError creates an InvalidPath error.
func NewInvalidPathError(path string, cause error) *ComponentError {
	return &ComponentError{Type: InvalidPath, Path: path, Message: "invalid component path", Cause: cause}
}

// IsPathNotFound reports whether err is, or wraps, a PathNotFound error.
func IsPathNotFound(err error) bool {
	var ce *ComponentError
	return errors.As(err, &ce) && ce.Type == PathNotFound
}
