// Package cli implements the attredit command-line interface.
//
// This package provides an interactive terminal editor for equipment
// attribute lists, non-interactive inspection and scripted export, and a
// local HTTP API. The CLI is built using cobra and logs via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - edit: Interactive editor with an input pane and a grouped preview
//   - inspect: Print the attribute rows of a file as a table
//   - export: Apply scripted edits and export the result
//   - serve: Serve an editing session over HTTP
//   - config: Show or initialise the configuration file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context, and parse, edit and export events are
// logged through the observability hooks.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/attredit/pkg/editor"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// elapsed returns the time since start, rounded to the millisecond.
func (p *progress) elapsed() time.Duration {
	return time.Since(p.start).Round(time.Millisecond)
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Exported 12 records (3ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, p.elapsed())
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Hooks and notices
// =============================================================================

// logHooks logs editor and HTTP events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnParse(_ context.Context, records, rows int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("Parse failed", "err", err, "took", d)
		return
	}
	h.logger.Debug("Parsed", "records", records, "rows", rows, "took", d)
}

func (h logHooks) OnMutation(_ context.Context, op string, equip, attr int, err error) {
	if err != nil {
		h.logger.Debug("Edit failed", "op", op, "equip", equip, "attr", attr, "err", err)
		return
	}
	h.logger.Debug("Edit", "op", op, "equip", equip, "attr", attr)
}

func (h logHooks) OnExport(_ context.Context, target string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("Export failed", "target", target, "err", err)
		return
	}
	h.logger.Debug("Export", "target", target, "bytes", size, "took", d)
}

func (h logHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("HTTP request", "method", method, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("HTTP response", "method", method, "path", path, "status", status, "took", d)
}

// logNotifier forwards editor notices to the logger. Errors are returned to
// the caller as well, so they are logged at debug level only.
func logNotifier(l *log.Logger) editor.Notifier {
	return editor.NotifierFunc(func(n editor.Notice) {
		if n.Level == editor.LevelError {
			l.Debug(n.Title, "err", n.Message, "code", n.Code)
			return
		}
		l.Info(n.Title, "detail", n.Message)
	})
}
