//go:build !nogpu

package gpu

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler silently discards all log records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// slogger returns the current package logger.
func slogger() *slog.Logger { return loggerPtr.Load() }

// setLogger installs l, tagged with the accelerator name, as the package
// logger. Called from Accelerator.SetLogger when crt.SetLogger propagates.
// A nil logger silences the package.
func setLogger(l *slog.Logger) {
	if l == nil {
		loggerPtr.Store(slog.New(nopHandler{}))
		return
	}
	loggerPtr.Store(l.With("accelerator", acceleratorName))
}
