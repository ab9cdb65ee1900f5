package command

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/arthur-debert/commander/pkg/errors"
)

// Flags every command accepts
const (
	NoColorFlag    = "no-color"
	ForceColorFlag = "force-color"
	TracebackFlag  = "traceback"
	HelpFlag       = "help"
)

// ErrHelp is returned by Parse when -h/--help was given
var ErrHelp = pflag.ErrHelp

// Kind is the type a positional argument converts to
type Kind int

const (
	String Kind = iota
	Int
	Float
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	default:
		return "string"
	}
}

// ParseKind maps a type name onto a Kind
func ParseKind(name string) (Kind, bool) {
	switch strings.ToLower(name) {
	case "", "str", "string":
		return String, true
	case "int", "integer":
		return Int, true
	case "float", "number":
		return Float, true
	}
	return String, false
}

func (k Kind) convert(raw string) (any, error) {
	switch k {
	case Int:
		return strconv.Atoi(raw)
	case Float:
		return strconv.ParseFloat(raw, 64)
	default:
		return raw, nil
	}
}

// Argument is a declared positional
type Argument struct {
	Name string
	Help string
	Kind Kind
}

// Parser is the argument parser built for a single subcommand
type Parser struct {
	prog       string
	subcommand string
	cmd        *cobra.Command
	positional []Argument
	remaining  *Argument
}

// NewParser creates a parser named "prog subcommand" that already carries
// the common options.
func NewParser(prog, subcommand, description string) *Parser {
	root := &cobra.Command{Use: prog}
	cmd := &cobra.Command{
		Use:                   subcommand,
		Short:                 description,
		Long:                  description,
		SilenceErrors:         true,
		SilenceUsage:          true,
		DisableAutoGenTag:     true,
		DisableFlagsInUseLine: true,
		Annotations:           map[string]string{},
		Run:                   func(*cobra.Command, []string) {},
	}
	root.AddCommand(cmd)
	cmd.SetUsageTemplate(MsgUsageTemplate)

	common := cmd.PersistentFlags()
	common.Bool(NoColorFlag, false, "disable colored output")
	common.Bool(ForceColorFlag, false, "force colored output")
	common.Bool(TracebackFlag, false, "raise on exception")
	common.BoolP(HelpFlag, "h", false, "show this help message and exit")

	return &Parser{prog: prog, subcommand: subcommand, cmd: cmd}
}

// Flags is where commands declare their own options
func (p *Parser) Flags() *pflag.FlagSet { return p.cmd.Flags() }

// AddArgument declares a required positional
func (p *Parser) AddArgument(name string, kind Kind, help string) {
	p.positional = append(p.positional, Argument{Name: name, Help: help, Kind: kind})
	p.refresh()
}

// AddRemaining collects every positional left after the declared ones.
// They are returned unparsed as the args slice.
func (p *Parser) AddRemaining(name, help string) {
	p.remaining = &Argument{Name: name, Help: help}
	p.refresh()
}

// Arguments returns the declared positionals in order
func (p *Parser) Arguments() []Argument {
	return append([]Argument(nil), p.positional...)
}

func (p *Parser) refresh() {
	use := []string{p.subcommand, "[options]"}
	var all []Argument
	all = append(all, p.positional...)
	for _, a := range p.positional {
		use = append(use, a.Name)
	}
	if p.remaining != nil {
		use = append(use, "["+p.remaining.Name+" ...]")
		all = append(all, *p.remaining)
	}
	p.cmd.Use = strings.Join(use, " ")

	if len(all) == 0 {
		delete(p.cmd.Annotations, "positionals")
		return
	}
	width := 0
	for _, a := range all {
		width = max(width, len(a.Name))
	}
	lines := make([]string, 0, len(all))
	for _, a := range all {
		lines = append(lines, strings.TrimRight(fmt.Sprintf("  %-*s   %s", width, a.Name, a.Help), " "))
	}
	p.cmd.Annotations["positionals"] = strings.Join(lines, "\n")
}

// Prog is the "prog subcommand" pair shown in messages
func (p *Parser) Prog() string { return p.prog + " " + p.subcommand }

// Usage returns the one line usage summary
func (p *Parser) Usage() string { return "usage: " + p.cmd.UseLine() }

// PrintHelp writes the full help text to w
func (p *Parser) PrintHelp(w io.Writer) error {
	p.cmd.SetOut(w)
	return p.cmd.Help()
}

// Parse splits argv into remaining args and options. Declared positionals
// are converted and stored in the options under their names.
func (p *Parser) Parse(argv []string) ([]string, Options, error) {
	if err := p.cmd.ParseFlags(p.shieldNegatives(argv)); err != nil {
		return nil, nil, errors.New(errors.ErrUsage, err.Error())
	}
	flags := p.cmd.Flags()
	if help, _ := flags.GetBool(HelpFlag); help {
		return nil, nil, ErrHelp
	}

	opts := Options{}
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name != HelpFlag {
			opts[f.Name] = flagValue(flags, f)
		}
	})

	rest := make([]string, 0, flags.NArg())
	for _, arg := range flags.Args() {
		rest = append(rest, strings.TrimPrefix(arg, negativeMark))
	}
	if len(rest) < len(p.positional) {
		missing := make([]string, 0, len(p.positional)-len(rest))
		for _, a := range p.positional[len(rest):] {
			missing = append(missing, a.Name)
		}
		return nil, nil, errors.Newf(errors.ErrUsage, "the following arguments are required: %s", strings.Join(missing, ", "))
	}
	for i, a := range p.positional {
		v, err := a.Kind.convert(rest[i])
		if err != nil {
			return nil, nil, errors.Newf(errors.ErrUsage, "argument %s: invalid %s value: %q", a.Name, a.Kind, rest[i])
		}
		opts[a.Name] = v
	}

	extra := rest[len(p.positional):]
	if p.remaining == nil && len(extra) > 0 {
		return nil, nil, errors.Newf(errors.ErrUsage, "unrecognized arguments: %s", strings.Join(extra, " "))
	}
	return append([]string{}, extra...), opts, nil
}

// negativeMark hides a negative number from pflag so it stays a positional
const negativeMark = "\x00"

// shieldNegatives marks tokens like "-3" or "-.5" that are not the value of
// a preceding flag, unless a command declared a digit shorthand.
func (p *Parser) shieldNegatives(argv []string) []string {
	lookup := func(name string, short bool) *pflag.Flag {
		for _, fs := range []*pflag.FlagSet{p.cmd.Flags(), p.cmd.PersistentFlags()} {
			if short {
				if f := fs.ShorthandLookup(name); f != nil {
					return f
				}
			} else if f := fs.Lookup(name); f != nil {
				return f
			}
		}
		return nil
	}
	for d := '0'; d <= '9'; d++ {
		if lookup(string(d), true) != nil {
			return argv
		}
	}

	out := make([]string, len(argv))
	takesValue := false
	for i, arg := range argv {
		out[i] = arg
		switch {
		case arg == "--":
			copy(out[i:], argv[i:])
			return out
		case takesValue:
			takesValue = false
		case isNegativeNumber(arg):
			out[i] = negativeMark + arg
		case strings.HasPrefix(arg, "--") && !strings.Contains(arg, "="):
			f := lookup(arg[2:], false)
			takesValue = f != nil && f.NoOptDefVal == ""
		case strings.HasPrefix(arg, "-") && len(arg) == 2:
			f := lookup(arg[1:], true)
			takesValue = f != nil && f.NoOptDefVal == ""
		}
	}
	return out
}

func isNegativeNumber(s string) bool {
	if len(s) < 2 || s[0] != '-' || !(s[1] == '.' || (s[1] >= '0' && s[1] <= '9')) {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func flagValue(fs *pflag.FlagSet, f *pflag.Flag) any {
	var (
		v   any
		err error
	)
	switch f.Value.Type() {
	case "bool":
		v, err = fs.GetBool(f.Name)
	case "count":
		v, err = fs.GetCount(f.Name)
	case "int":
		v, err = fs.GetInt(f.Name)
	case "float64":
		v, err = fs.GetFloat64(f.Name)
	case "string":
		v, err = fs.GetString(f.Name)
	case "stringSlice":
		v, err = fs.GetStringSlice(f.Name)
	case "duration":
		v, err = fs.GetDuration(f.Name)
	default:
		return f.Value.String()
	}
	if err != nil {
		return f.Value.String()
	}
	return v
}
