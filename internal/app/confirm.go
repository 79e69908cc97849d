package app

import (
	"context"
	"errors"
)

// ErrConfirmCancelled is returned by a Confirmer when the user aborts the
// prompt instead of answering it.
var ErrConfirmCancelled = errors.New("confirmation cancelled")

// Confirmer asks the user whether to go ahead with an overwrite.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, message string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

// AlwaysConfirm approves every overwrite. Used for --yes.
var AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) {
	return true, nil
})
