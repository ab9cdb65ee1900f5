// Package dispatcher resolves the subcommand named on the command line and
// runs it.
//
// A Run walks START -> RESOLVE -> {HELP, VERSION, RUN} -> DONE. Help and
// version are answered by the dispatcher itself; anything else must name a
// registered command.
package dispatcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/commander/internal/version"
	"github.com/arthur-debert/commander/pkg/color"
	"github.com/arthur-debert/commander/pkg/command"
	"github.com/arthur-debert/commander/pkg/errors"
	"github.com/arthur-debert/commander/pkg/logging"
	"github.com/arthur-debert/commander/pkg/output"
	"github.com/arthur-debert/commander/pkg/registry"
	"github.com/arthur-debert/commander/pkg/suggest"
)

// Exit codes
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Reserved subcommands and top-level switches
const (
	HelpCommand    = "help"
	VersionCommand = "version"
	CommandsFlag   = "--commands"
	defaultProg    = "commander"
)

type state int

const (
	stateStart state = iota
	stateResolve
	stateHelp
	stateVersion
	stateRun
	stateDone
)

func (s state) String() string {
	return [...]string{"START", "RESOLVE", "HELP", "VERSION", "RUN", "DONE"}[s]
}

// Dispatcher runs one subcommand per Run call
type Dispatcher struct {
	registry *registry.Registry
	version  string
	stdout   io.Writer
	stderr   io.Writer
	colors   *color.Resolver
	logger   zerolog.Logger
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithVersion sets the string printed by "version"
func WithVersion(v string) Option {
	return func(d *Dispatcher) {
		if v != "" {
			d.version = v
		}
	}
}

// WithStreams replaces os.Stdout and os.Stderr
func WithStreams(stdout, stderr io.Writer) Option {
	return func(d *Dispatcher) {
		if stdout != nil {
			d.stdout = stdout
		}
		if stderr != nil {
			d.stderr = stderr
		}
	}
}

// WithResolver sets how command styles are picked
func WithResolver(r *color.Resolver) Option {
	return func(d *Dispatcher) { d.colors = r }
}

// WithLogger replaces the component logger
func WithLogger(l zerolog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// New creates a dispatcher over reg
func New(reg *registry.Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: reg,
		version:  version.Version,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		logger:   logging.GetLogger("dispatcher"),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.colors == nil {
		d.colors = color.NewResolver(os.Getenv(color.ColorsEnv), d.stdout)
	}
	return d
}

type invocation struct {
	argv       []string
	prog       string
	subcommand string
	rest       []string
	listing    bool

	code   int
	err    error
	logger zerolog.Logger
}

// Run dispatches argv, argv[0] being the program. It returns the exit code.
// A non-nil error is a failure the caller must report in full, which
// happens when --traceback was given.
func (d *Dispatcher) Run(ctx context.Context, argv []string) (int, error) {
	inv := &invocation{
		argv:   argv,
		logger: d.logger.With().Str("invocation", uuid.NewString()).Logger(),
	}

	for st := stateStart; st != stateDone; {
		inv.logger.Trace().Stringer("state", st).Msg("Dispatcher transition")
		switch st {
		case stateStart:
			st = d.start(inv)
		case stateResolve:
			st = d.resolve(inv)
		case stateHelp:
			st = d.help(inv)
		case stateVersion:
			st = d.printVersion(inv)
		case stateRun:
			st = d.run(ctx, inv)
		}
	}

	inv.logger.Debug().Int("code", inv.code).Bool("propagated", inv.err != nil).Msg("Dispatch finished")
	return inv.code, inv.err
}

func (d *Dispatcher) start(inv *invocation) state {
	inv.prog = defaultProg
	if len(inv.argv) > 0 && inv.argv[0] != "" {
		inv.prog = filepath.Base(inv.argv[0])
	}
	inv.subcommand = HelpCommand
	if len(inv.argv) > 1 {
		inv.subcommand = inv.argv[1]
		inv.rest = inv.argv[2:]
	}
	return stateResolve
}

func (d *Dispatcher) resolve(inv *invocation) state {
	top := inv.argv[min(1, len(inv.argv)):]
	switch {
	case inv.subcommand == HelpCommand:
		return stateHelp
	case inv.subcommand == VersionCommand || isOnly(top, "-v", "--version"):
		return stateVersion
	case isOnly(top, "-h", "--help"):
		inv.listing = true
		return stateHelp
	}

	if !d.registry.Has(inv.subcommand) {
		d.unknown(inv, inv.subcommand)
		return stateDone
	}
	return stateRun
}

func isOnly(args []string, flags ...string) bool {
	return len(args) == 1 && slices.Contains(flags, args[0])
}

func (d *Dispatcher) help(inv *invocation) state {
	out := output.New(d.stdout)

	if !inv.listing {
		for _, arg := range inv.rest {
			if strings.HasPrefix(arg, "-") {
				continue
			}
			if !d.registry.Has(arg) {
				d.unknown(inv, arg)
				return stateDone
			}
			cmd, err := d.load(inv, arg)
			if err != nil {
				return stateDone
			}
			d.check(inv, command.BuildParser(cmd, inv.prog, arg).PrintHelp(d.stdout))
			return stateDone
		}
	}

	commandsOnly := !inv.listing && slices.Contains(inv.rest, CommandsFlag)
	d.check(inv, out.Print(d.mainHelpText(inv.prog, commandsOnly)))
	return stateDone
}

func (d *Dispatcher) mainHelpText(prog string, commandsOnly bool) string {
	names := d.registry.Commands()
	if commandsOnly {
		return strings.Join(names, "\n")
	}

	lines := []string{
		fmt.Sprintf(`Type "%s help <subcommand>" for help on a specific subcommand.`, prog),
		"",
		"Available subcommands:",
		"",
	}

	width := 0
	for _, name := range names {
		width = max(width, lipgloss.Width(name))
	}
	nameColumn := lipgloss.NewStyle().PaddingLeft(2).Width(width + 5)
	for _, name := range names {
		synopsis := ""
		if cmd, err := d.registry.Load(name); err == nil {
			synopsis = command.Synopsis(cmd.Help())
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top, nameColumn.Render(name), synopsis)
		lines = append(lines, strings.TrimRight(row, " "))
	}
	return strings.Join(lines, "\n")
}

func (d *Dispatcher) printVersion(inv *invocation) state {
	d.check(inv, output.New(d.stdout).Print(d.version))
	return stateDone
}

func (d *Dispatcher) run(ctx context.Context, inv *invocation) state {
	logging.LogCommand(inv.logger, inv.subcommand, inv.rest)
	done := logging.LogOperationStart(inv.logger, inv.subcommand)
	defer done()

	cmd, err := d.load(inv, inv.subcommand)
	if err != nil {
		return stateDone
	}

	parser := command.BuildParser(cmd, inv.prog, inv.subcommand)
	args, opts, err := parser.Parse(inv.rest)
	if errors.Is(err, command.ErrHelp) {
		d.check(inv, parser.PrintHelp(d.stdout))
		return stateDone
	}
	if err != nil {
		stderr := output.New(d.stderr)
		_ = stderr.Print(parser.Usage())
		_ = stderr.Print(fmt.Sprintf("%s: error: %s", parser.Prog(), errors.Summary(err)))
		inv.code = ExitUsage
		return stateDone
	}

	env, err := command.NewEnv(d.stdout, d.stderr, d.colors, false, false)
	if err != nil {
		d.fail(inv, output.New(d.stderr), err, opts.Bool(command.TracebackFlag))
		return stateDone
	}

	result, err := command.Execute(ctx, cmd, env, args, opts)
	if err != nil {
		d.fail(inv, env.Stderr, err, opts.Bool(command.TracebackFlag))
		return stateDone
	}
	inv.logger.Debug().Interface("result", result).Msg("Command finished")
	d.check(inv, env.Stdout.Flush())
	return stateDone
}

func (d *Dispatcher) load(inv *invocation, name string) (command.Command, error) {
	cmd, err := d.registry.Load(name)
	if err != nil {
		d.fail(inv, output.New(d.stderr), err, false)
		return nil, err
	}
	return cmd, nil
}

// fail reports err as "Kind: message" and exits 1, or propagates it when
// traceback is set
func (d *Dispatcher) fail(inv *invocation, stderr *output.Writer, err error, traceback bool) {
	inv.logger.Debug().Err(err).Bool("traceback", traceback).Msg("Command failed")
	inv.code = ExitError
	if traceback {
		inv.err = errors.Traceback(err)
		return
	}
	_ = stderr.Print(fmt.Sprintf("%s: %s", errors.KindName(err), errors.Summary(err)))
}

func (d *Dispatcher) unknown(inv *invocation, name string) {
	msg := fmt.Sprintf("Unknown command: %q", name)
	if s, ok := suggest.Closest(name, d.registry.Commands()); ok {
		msg += fmt.Sprintf(". Did you mean %q?", s)
	}
	msg += fmt.Sprintf("\nType \"%s help\" for usage.", inv.prog)

	inv.logger.Debug().Str("command", name).Msg("Unknown command")
	_ = output.New(d.stderr).Print(msg)
	inv.code = ExitError
}

// check records a failure to write to the output streams
func (d *Dispatcher) check(inv *invocation, err error) {
	if err != nil {
		inv.logger.Warn().Err(err).Msg("Failed to write output")
		inv.code = ExitError
	}
}
