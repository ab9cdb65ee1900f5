package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/arthur-debert/commander/pkg/color"
	"github.com/arthur-debert/commander/pkg/errors"
	"github.com/arthur-debert/commander/pkg/output"
)

// Command is a single subcommand
type Command interface {
	// Help is the description shown in listings and help text. The first
	// line is used as the synopsis.
	Help() string
	// AddArguments declares the command's positionals and flags
	AddArguments(p *Parser)
	// Handle runs the command. A non-empty result is printed to stdout.
	Handle(ctx context.Context, env *Env, args []string, opts Options) (any, error)
}

// Factory creates a fresh Command
type Factory func() Command

// Base provides defaults for every Command method. Embed it and override
// what the command needs.
type Base struct{}

func (Base) Help() string { return "" }

func (Base) AddArguments(*Parser) {}

func (Base) Handle(context.Context, *Env, []string, Options) (any, error) {
	return nil, errors.New(errors.ErrNotImplemented, "command does not implement Handle")
}

// Env is what a running command writes through
type Env struct {
	Stdout *output.Writer
	Stderr *output.Writer
	Style  *color.Style
	Colors *color.Resolver
}

// NewEnv resolves the style for the color switches and wraps the streams.
// Nil streams default to os.Stdout and os.Stderr. Unless colors are
// disabled, stderr renders through the Error role.
func NewEnv(stdout, stderr io.Writer, colors *color.Resolver, noColor, forceColor bool) (*Env, error) {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	if colors == nil {
		colors = color.DefaultResolver()
	}
	style, err := colors.Resolve(noColor, forceColor)
	if err != nil {
		return nil, err
	}

	env := &Env{
		Stdout: output.New(stdout),
		Stderr: output.New(stderr),
		Style:  style,
		Colors: colors,
	}
	if !noColor {
		env.Stderr.SetStyleFunc(style.Func(color.Error))
	}
	return env, nil
}

// BuildParser creates the parser for cmd and lets it declare its arguments
func BuildParser(cmd Command, prog, subcommand string) *Parser {
	p := NewParser(prog, subcommand, cmd.Help())
	cmd.AddArguments(p)
	return p
}

// Synopsis is the first line of a help text
func Synopsis(help string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(help), "\n")
	return strings.TrimSpace(line)
}

// IsEmpty reports whether a result prints nothing: nil, zero numbers,
// false, and empty strings, slices and maps.
func IsEmpty(result any) bool {
	if result == nil {
		return true
	}
	v := reflect.ValueOf(result)
	switch v.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return v.IsZero()
	case reflect.Pointer, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// Execute applies the per-invocation options to env, runs cmd and prints
// its result.
func Execute(ctx context.Context, cmd Command, env *Env, args []string, opts Options) (any, error) {
	noColor, forceColor := opts.Bool(NoColorFlag), opts.Bool(ForceColorFlag)
	if noColor && forceColor {
		return nil, color.ConflictError()
	}
	if env.Colors == nil {
		env.Colors = color.DefaultResolver()
	}
	switch {
	case forceColor:
		env.Style = env.Colors.ColorStyle(true)
	case noColor:
		env.Style = color.NoStyle()
		env.Stderr.SetStyleFunc(nil)
	}
	if w, ok := opts.Writer(StdoutOption); ok {
		env.Stdout = output.New(w)
	}
	if w, ok := opts.Writer(StderrOption); ok {
		env.Stderr = output.New(w)
	}

	result, err := cmd.Handle(ctx, env, args, opts)
	if err != nil {
		return nil, err
	}
	if !IsEmpty(result) {
		if err := env.Stdout.Print(fmt.Sprint(result)); err != nil {
			return result, errors.Wrap(err, errors.ErrInternal, "failed to write result")
		}
	}
	return result, nil
}
