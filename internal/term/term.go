// Package term answers whether a stream is attached to an interactive terminal.
package term

import "github.com/mattn/go-isatty"

type fder interface {
	Fd() uintptr
}

type terminalReporter interface {
	IsTerminal() bool
}

// IsTerminal reports whether v is an interactive terminal. Streams exposing a
// file descriptor are checked with isatty; streams that report the answer
// themselves are trusted; anything else is not a terminal.
func IsTerminal(v any) bool {
	switch s := v.(type) {
	case terminalReporter:
		return s.IsTerminal()
	case fder:
		fd := s.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	default:
		return false
	}
}
