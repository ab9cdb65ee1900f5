// Package output wraps stdout/stderr style streams for command output.
//
// A Writer appends a line ending to every message that lacks one and runs the
// message through a style function before handing it to the wrapped stream.
package output

import (
	"io"
	"strings"

	"github.com/arthur-debert/commander/internal/term"
	"github.com/arthur-debert/commander/pkg/color"
)

// DefaultEnding is appended to messages that do not already end with it
const DefaultEnding = "\n"

type flusher interface {
	Flush() error
}

// Writer is an output sink bound to one stream
type Writer struct {
	out       io.Writer
	styleFunc color.StyleFunc
	// Ending is the line terminator used when a Print call does not set one
	Ending string
}

// New wraps out
func New(out io.Writer) *Writer {
	return &Writer{
		out:       out,
		styleFunc: color.Identity,
		Ending:    DefaultEnding,
	}
}

// SetStyleFunc sets the default style function. It only takes effect on
// terminals; elsewhere, and for a nil f, messages are written unstyled.
func (w *Writer) SetStyleFunc(f color.StyleFunc) {
	if f != nil && w.IsTerminal() {
		w.styleFunc = f
		return
	}
	w.styleFunc = color.Identity
}

// IsTerminal reports whether the wrapped stream is an interactive terminal
func (w *Writer) IsTerminal() bool { return term.IsTerminal(w.out) }

type printConfig struct {
	style  color.StyleFunc
	ending *string
}

// PrintOption adjusts a single Print call
type PrintOption func(*printConfig)

// WithStyle styles this message with f instead of the default style function
func WithStyle(f color.StyleFunc) PrintOption {
	return func(c *printConfig) { c.style = f }
}

// WithEnding terminates this message with ending; "" disables the terminator
func WithEnding(ending string) PrintOption {
	return func(c *printConfig) { c.ending = &ending }
}

// Print writes msg followed by the line ending, styled
func (w *Writer) Print(msg string, opts ...PrintOption) error {
	cfg := printConfig{}
	for _, o := range opts {
		o(&cfg)
	}

	ending := w.Ending
	if cfg.ending != nil {
		ending = *cfg.ending
	}
	if ending != "" && !strings.HasSuffix(msg, ending) {
		msg += ending
	}

	style := cfg.style
	if style == nil {
		style = w.styleFunc
	}
	if style == nil {
		style = color.Identity
	}

	_, err := io.WriteString(w.out, style(msg))
	return err
}

// Write passes p through to the wrapped stream untouched
func (w *Writer) Write(p []byte) (int, error) { return w.out.Write(p) }

// Flush flushes the wrapped stream when it supports flushing
func (w *Writer) Flush() error {
	if f, ok := w.out.(flusher); ok {
		return f.Flush()
	}
	return nil
}
