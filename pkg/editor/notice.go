package editor

import (
	apperrors "github.com/matzehuels/attredit/pkg/errors"
)

// Level is the severity of a notice.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

// String returns "info" or "error".
func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "info"
}

// Notice is a transient, user-visible message (a toast).
type Notice struct {
	Level   Level          `json:"-"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Code    apperrors.Code `json:"code,omitempty"`
}

// Notifier receives notices emitted by an [Editor].
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to [Notifier].
type NotifierFunc func(Notice)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notice) { f(n) }

// Recorder is a Notifier that keeps every notice. Useful for tests and for
// collecting the notices of one HTTP request.
type Recorder struct {
	Notices []Notice
}

// Notify appends n.
func (r *Recorder) Notify(n Notice) { r.Notices = append(r.Notices, n) }

// Errors returns the number of error notices.
func (r *Recorder) Errors() int {
	count := 0
	for _, n := range r.Notices {
		if n.Level == LevelError {
			count++
		}
	}
	return count
}

// Reset drops all recorded notices.
func (r *Recorder) Reset() { r.Notices = nil }

// ErrorNotice builds an error notice whose message includes the causes of err.
func ErrorNotice(title string, err error) Notice {
	return Notice{
		Level:   LevelError,
		Title:   title,
		Message: apperrors.Detail(err),
		Code:    apperrors.GetCode(err),
	}
}

// ExportedNotice is the notice for a successful export to sink.
func ExportedNotice(sink Sink) Notice {
	return Notice{
		Level:   LevelInfo,
		Title:   "Exported",
		Message: "JSON written to " + sink.Name(),
	}
}

type discard struct{}

func (discard) Notify(Notice) {}
