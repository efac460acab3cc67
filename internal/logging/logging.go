// Package logging builds the zerolog logger shared by convey's components.
// Debug output is opt-in through the DEBUG environment variable so normal runs
// keep stdout and stderr clean for the interactive flow.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Enabled reports whether debug logging was requested.
func Enabled() bool {
	return os.Getenv("DEBUG") != ""
}

// New returns a human-readable debug logger writing to w when DEBUG is set,
// and a no-op logger otherwise.
func New(w io.Writer) zerolog.Logger {
	if !Enabled() {
		return zerolog.Nop()
	}
	return NewConsole(w, zerolog.DebugLevel)
}

// NewConsole returns a console logger at the given level regardless of DEBUG.
func NewConsole(w io.Writer, level zerolog.Level) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: true}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
