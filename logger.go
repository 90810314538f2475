package matte

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record. Enabled reports false for all levels, so
// the per-run Debug lines in the pipeline and scheduler never build their
// attributes unless a logger has been installed.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger returns the silent logger matte starts with.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr holds the active logger. The preview worker and pipeline bands
// read it while the caller may be swapping it.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger installs the logger used by pipelines, schedulers and sessions.
// Until it is called nothing is logged; nil restores that silence. It may be
// called while preview runs are in flight.
//
// What gets logged:
//   - [slog.LevelDebug]: stage timings, superseded and committed generations
//   - [slog.LevelInfo]: image load, save and crop
//   - [slog.LevelWarn]: empty tolerance band, failed preview runs
//
// Example:
//
//	matte.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the installed logger, or the silent default.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
