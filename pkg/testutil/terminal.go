package testutil

import "bytes"

// Terminal is an in-memory stream with a configurable TTY answer
type Terminal struct {
	bytes.Buffer
	TTY bool
}

// NewTerminal returns a stream reporting itself as an interactive terminal
func NewTerminal() *Terminal { return &Terminal{TTY: true} }

// NewPipe returns a stream reporting itself as redirected output
func NewPipe() *Terminal { return &Terminal{} }

// IsTerminal reports the configured answer
func (t *Terminal) IsTerminal() bool { return t.TTY }
