package merge

import (
	"errors"
	"fmt"

	"github.com/tacogips/esops/internal/manifest"
)

// MergeErrorType represents the type of merge error.
type MergeErrorType int

const (
	// FileNotToggledForMerge indicates an override-classified file would
	// replace an existing destination file.
	FileNotToggledForMerge MergeErrorType = iota
	// MergeTypeMismatch indicates a JSON merge where one side is not valid JSON.
	MergeTypeMismatch
	// IOFailed indicates a filesystem error while applying an action.
	IOFailed
)

// String returns the string representation of the error type.
func (t MergeErrorType) String() string {
	switch t {
	case FileNotToggledForMerge:
		return "FileNotToggledForMerge"
	case MergeTypeMismatch:
		return "MergeTypeMismatch"
	case IOFailed:
		return "IOFailed"
	default:
		return "Unknown"
	}
}

// MergeError is returned when a file action cannot be applied.
type MergeError struct {
	// Type is the error type classification.
	Type MergeErrorType
	// Action is the merge action being applied.
	Action manifest.MergeAction
	// RelativePath identifies the file within the component.
	RelativePath string
	// From is the incoming file.
	From string
	// To is the target file.
	To string
	// Message is the human-readable error message.
	Message string
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *MergeError) Error() string {
	msg := fmt.Sprintf("%s [%s] %s: %s", e.Type, e.Action, e.RelativePath, e.Message)
	if e.Type == MergeTypeMismatch {
		msg = fmt.Sprintf("%s (from: %s, to: %s)", msg, e.From, e.To)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause for error wrapping.
func (e *MergeError) Unwrap() error {
	return e.Cause
}

func newError(t MergeErrorType, a manifest.FileAction, message string, cause error) *MergeError {
	return &MergeError{
		Type:         t,
		Action:       a.Action,
		RelativePath: a.RelativePath,
		From:         a.From,
		To:           a.To,
		Message:      message,
		Cause:        cause,
	}
}

// IsFileNotToggledForMerge reports whether err is, or wraps, an override collision.
func IsFileNotToggledForMerge(err error) bool {
	var me *MergeError
	return errors.As(err, &me) && me.Type == FileNotToggledForMerge
}

// IsMergeTypeMismatch reports whether err is, or wraps, a JSON type mismatch.
func IsMergeTypeMismatch(err error) bool {
	var me *MergeError
	return errors.As(err, &me) && me.Type == MergeTypeMismatch
}
