package editor

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"

	apperrors "github.com/matzehuels/attredit/pkg/errors"
)

// Sink is an export destination.
type Sink interface {
	// Name identifies the sink in notices and logs.
	Name() string

	// Write delivers the exported JSON.
	Write(ctx context.Context, data []byte) error
}

// ClipboardSink writes to the system clipboard.
type ClipboardSink struct {
	writeAll func(string) error
}

// NewClipboardSink returns a sink backed by the system clipboard.
func NewClipboardSink() *ClipboardSink {
	return &ClipboardSink{}
}

// Name returns "clipboard".
func (s *ClipboardSink) Name() string { return "clipboard" }

// Write copies data to the clipboard.
func (s *ClipboardSink) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	write := s.writeAll
	if write == nil {
		if clipboard.Unsupported {
			return fmt.Errorf("clipboard is not supported on this system")
		}
		write = clipboard.WriteAll
	}
	return write(string(data))
}

// FileSink writes to a file, replacing it.
type FileSink struct {
	Path string
}

// Name returns the file path.
func (s FileSink) Name() string { return s.Path }

// Write creates or truncates the file and writes data followed by a newline.
func (s FileSink) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := apperrors.ValidatePath(s.Path); err != nil {
		return err
	}
	buf := make([]byte, 0, len(data)+1)
	buf = append(append(buf, data...), '\n')
	if err := os.WriteFile(s.Path, buf, 0644); err != nil {
		return fmt.Errorf("write %s: %w", s.Path, err)
	}
	return nil
}

// WriterSink writes to an arbitrary writer such as stdout.
type WriterSink struct {
	W     io.Writer
	Label string
}

// Name returns the label, or "writer".
func (s WriterSink) Name() string {
	if s.Label == "" {
		return "writer"
	}
	return s.Label
}

// Write writes data followed by a newline.
func (s WriterSink) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.W.Write(data); err != nil {
		return err
	}
	_, err := io.WriteString(s.W, "\n")
	return err
}
