package command

import (
	"fmt"
	"io"
)

// Options holds parsed flags and positionals keyed by name. A caller may
// also place io.Writer values under StdoutOption and StderrOption to
// redirect a single invocation.
type Options map[string]any

// Keys reserved for stream overrides
const (
	StdoutOption = "stdout"
	StderrOption = "stderr"
)

// Get returns the raw value for key
func (o Options) Get(key string) (any, bool) {
	v, ok := o[key]
	return v, ok
}

// Bool returns key as a bool, false when absent
func (o Options) Bool(key string) bool {
	b, _ := o[key].(bool)
	return b
}

// Int returns key as an int, 0 when absent or not numeric
func (o Options) Int(key string) int {
	switch v := o[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Float returns key as a float64, 0 when absent or not numeric
func (o Options) Float(key string) float64 {
	switch v := o[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// String returns key formatted as a string, "" when absent
func (o Options) String(key string) string {
	v, ok := o[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Strings returns key as a string slice
func (o Options) Strings(key string) []string {
	s, _ := o[key].([]string)
	return s
}

// Writer returns key as an io.Writer
func (o Options) Writer(key string) (io.Writer, bool) {
	w, ok := o[key].(io.Writer)
	return w, ok && w != nil
}
