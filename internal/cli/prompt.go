package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/tacogips/esops/internal/app"
)

// errNoTerminal is returned when confirmation is needed but stdin is not
// interactive.
var errNoTerminal = errors.New("cannot confirm overwrite without a terminal; rerun with --yes to overwrite")

// promptConfirmer asks for confirmation with a survey prompt.
type promptConfirmer struct {
	ask         func(message string) (bool, error)
	interactive func() bool
}

func newPromptConfirmer() *promptConfirmer {
	return &promptConfirmer{
		ask: func(message string) (bool, error) {
			var ok bool
			prompt := &survey.Confirm{
				Message: message,
				Default: true,
				Help:    "Yes replaces the listed files. No leaves the project untouched.",
			}
			err := survey.AskOne(prompt, &ok)
			return ok, err
		},
		interactive: func() bool { return isTerminal(os.Stdin) },
	}
}

// Confirm implements app.Confirmer.
func (p *promptConfirmer) Confirm(ctx context.Context, message string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, app.ErrConfirmCancelled
	}
	if !p.interactive() {
		return false, errNoTerminal
	}

	ok, err := p.ask(message)
	if err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return false, app.ErrConfirmCancelled
		}
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return ok, nil
}
