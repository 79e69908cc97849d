package debug

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu      sync.RWMutex
	enabled bool
	noColor bool
	quiet   bool
	out     io.Writer = os.Stderr
	logger            = newLogger(os.Stderr, false, false)
)

const timeFormat = "15:04:05.000"

func newLogger(w io.Writer, debugOn, plain bool) zerolog.Logger {
	cw := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    plain,
		TimeFormat: timeFormat,
		FormatLevel: func(i interface{}) string {
			level, _ := i.(string)
			switch level {
			case zerolog.LevelDebugValue:
				return "[DEBUG]"
			case zerolog.LevelWarnValue:
				return "[WARN]"
			default:
				return "[" + strings.ToUpper(level) + "]"
			}
		},
	}

	level := zerolog.WarnLevel
	if debugOn {
		level = zerolog.DebugLevel
	}
	return zerolog.New(cw).With().Timestamp().Logger().Level(level)
}

// rebuild must be called with mu held.
func rebuild() {
	logger = newLogger(out, enabled, noColor)
}

// SetDebug enables or disables debug mode
func SetDebug(enable bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = enable
	rebuild()
}

// IsEnabled returns whether debug mode is enabled
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetNoColor enables or disables colored output
func SetNoColor(disable bool) {
	mu.Lock()
	defer mu.Unlock()
	noColor = disable
	rebuild()
}

// SetQuiet suppresses warnings. Debug output is unaffected.
func SetQuiet(q bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = q
}

// SetOutput redirects log output. Used by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	rebuild()
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Logger returns a logger tagged with the given component name.
func Logger(component string) zerolog.Logger {
	return current().With().Str("component", component).Logger()
}

// Debug prints a debug message with timestamp
func Debug(format string, args ...interface{}) {
	if !IsEnabled() {
		return
	}
	l := current()
	l.Debug().Msg(fmt.Sprintf(format, args...))
}

// Warn prints a warning unless quiet mode is on.
func Warn(format string, args ...interface{}) {
	mu.RLock()
	q := quiet
	mu.RUnlock()
	if q {
		return
	}
	l := current()
	l.Warn().Msg(fmt.Sprintf(format, args...))
}

// DebugSection prints a section header for debug output
func DebugSection(section string) {
	if !IsEnabled() {
		return
	}
	l := current()
	l.Debug().Msg("=== " + section + " ===")
}

// DebugValue prints key=value style debug info
func DebugValue(key string, value interface{}) {
	if !IsEnabled() {
		return
	}
	l := current()
	l.Debug().Interface(key, value).Msg("")
}

