package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/stretchr/testify/assert"

	"github.com/tacogips/esops/internal/app"
)

func stubConfirmer(answer bool, err error, interactive bool) (*promptConfirmer, *string) {
	var asked string
	return &promptConfirmer{
		ask: func(message string) (bool, error) {
			asked = message
			return answer, err
		},
		interactive: func() bool { return interactive },
	}, &asked
}

func TestPromptConfirmer_Confirm(t *testing.T) {
	t.Run("yes", func(t *testing.T) {
		p, asked := stubConfirmer(true, nil, true)
		ok, err := p.Confirm(context.Background(), "Overwrite?")
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "Overwrite?", *asked)
	})

	t.Run("no", func(t *testing.T) {
		p, _ := stubConfirmer(false, nil, true)
		ok, err := p.Confirm(context.Background(), "Overwrite?")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("interrupt cancels", func(t *testing.T) {
		p, _ := stubConfirmer(false, terminal.InterruptErr, true)
		_, err := p.Confirm(context.Background(), "Overwrite?")
		assert.ErrorIs(t, err, app.ErrConfirmCancelled)
	})

	t.Run("cancelled context", func(t *testing.T) {
		p, asked := stubConfirmer(true, nil, true)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := p.Confirm(ctx, "Overwrite?")
		assert.ErrorIs(t, err, app.ErrConfirmCancelled)
		assert.Empty(t, *asked)
	})

	t.Run("no terminal", func(t *testing.T) {
		p, asked := stubConfirmer(true, nil, false)
		_, err := p.Confirm(context.Background(), "Overwrite?")
		assert.ErrorIs(t, err, errNoTerminal)
		assert.Empty(t, *asked)
	})

	t.Run("prompt failure", func(t *testing.T) {
		p, _ := stubConfirmer(false, errors.New("broken pipe"), true)
		_, err := p.Confirm(context.Background(), "Overwrite?")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, app.ErrConfirmCancelled)
		assert.Contains(t, err.Error(), "broken pipe")
	})
}
