package ggdoc

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the package logger. Accessed atomically so SetLogger may
// race with logging from worker goroutines.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for ggdoc and its sub-packages.
// By default ggdoc produces no log output. Pass nil to restore silence.
//
// Log levels used by ggdoc:
//   - [slog.LevelDebug]: captures, steps, locker reference counts
//   - [slog.LevelInfo]: document replaced, history cleared, actions finished
//   - [slog.LevelWarn]: evicted payloads, cancelled actions, rollbacks
//   - [slog.LevelError]: invariant violations
//
// Example:
//
//	ggdoc.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Sub-packages (actions, tools) call it
// to share one configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
