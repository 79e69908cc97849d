package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Output destinations; replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// markdownEnabled is set from output.markdown in the configuration.
var markdownEnabled = true

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#008700", Dark: "#5fd75f"}).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#af8700", Dark: "#ffd75f"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#d70000", Dark: "#ff5f5f"}).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6c6c6c", Dark: "#8a8a8a"})
)

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func styled(style lipgloss.Style, symbol string) string {
	if globalNoColor || !isTerminal(stdout) {
		return symbol
	}
	return style.Render(symbol)
}

// printSuccess prints a success message
func printSuccess(msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintf(stdout, "%s %s\n", styled(successStyle, "✓"), msg)
}

// printWarning prints a warning message
func printWarning(msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintf(stdout, "%s %s\n", styled(warningStyle, "⚠"), msg)
}

// printMuted prints a de-emphasized line
func printMuted(msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintln(stdout, styled(mutedStyle, msg))
}

// printError prints an error message to stderr
func printError(err error) {
	symbol := "✗"
	if !globalNoColor && isTerminal(stderr) {
		symbol = errorStyle.Render(symbol)
	}
	fmt.Fprintf(stderr, "%s Error: %v\n", symbol, err)
}

// printMarkdown prints a markdown report, rendered for the terminal when
// stdout is one.
func printMarkdown(md string) {
	if globalQuiet {
		return
	}
	fmt.Fprint(stdout, renderMarkdown(md, markdownEnabled && !globalNoColor && isTerminal(stdout)))
}

// renderMarkdown returns md as-is unless rich is set, in which case it is
// rendered with glamour. Rendering failures fall back to the raw text.
func renderMarkdown(md string, rich bool) string {
	if !rich {
		return md
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
