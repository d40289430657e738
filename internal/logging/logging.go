// Package logging defines the five-severity Logger contract the pipeline's
// external collaborators must satisfy, with a zerolog-backed default.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the external collaborator contract: five severity methods,
// each accepting a message and structured key-value pairs.
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
	Fatal(msg string, kv ...any)
}

// zlog adapts zerolog.Logger to the Logger interface.
type zlog struct {
	z zerolog.Logger
}

// New returns a Logger writing human-readable console output to w.
func New(w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return &zlog{z: zerolog.New(console).With().Timestamp().Logger()}
}

// NewJSON returns a Logger writing structured JSON lines to w, suitable
// for piping into a log-aggregation sink (an external collaborator this
// module does not own).
func NewJSON(w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}
	return &zlog{z: zerolog.New(w).With().Timestamp().Logger()}
}

func (l *zlog) event(e *zerolog.Event, msg string, kv []any) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		e = e.Interface(key, kv[i+1])
	}
	e.Msg(msg)
}

func (l *zlog) Debug(msg string, kv ...any) { l.event(l.z.Debug(), msg, kv) }
func (l *zlog) Info(msg string, kv ...any)  { l.event(l.z.Info(), msg, kv) }
func (l *zlog) Warn(msg string, kv ...any)  { l.event(l.z.Warn(), msg, kv) }
func (l *zlog) Error(msg string, kv ...any) { l.event(l.z.Error(), msg, kv) }
func (l *zlog) Fatal(msg string, kv ...any) { l.event(l.z.Error(), msg, kv) }

// Nop is a Logger that discards everything, useful in tests.
type Nop struct{}

func (Nop) Debug(string, ...any) {}
func (Nop) Info(string, ...any)  {}
func (Nop) Warn(string, ...any)  {}
func (Nop) Error(string, ...any) {}
func (Nop) Fatal(string, ...any) {}
