package manifest

import (
	"context"
	"os/exec"
	"strings"
	"text/template"

	"github.com/spf13/pflag"

	"github.com/arthur-debert/commander/pkg/command"
	"github.com/arthur-debert/commander/pkg/errors"
	"github.com/arthur-debert/commander/pkg/logging"
)

// Command runs a manifest
type Command struct {
	command.Base
	name      string
	manifest  *Manifest
	templates []*template.Template
}

// NewCommand binds a validated manifest to a command name
func NewCommand(name string, m *Manifest) (*Command, error) {
	tmpls, err := m.templates()
	if err != nil {
		return nil, err
	}
	return &Command{name: name, manifest: m, templates: tmpls}, nil
}

// Help returns the manifest help text
func (c *Command) Help() string { return c.manifest.Help }

// AddArguments declares the manifest positionals and flags
func (c *Command) AddArguments(p *command.Parser) {
	for _, a := range c.manifest.Arguments {
		if a.Remaining {
			p.AddRemaining(a.Name, a.Help)
			continue
		}
		kind, _ := command.ParseKind(a.Type)
		p.AddArgument(a.Name, kind, a.Help)
	}
	fs := p.Flags()
	for _, f := range c.manifest.Flags {
		defineFlag(fs, f)
	}
}

func defineFlag(fs *pflag.FlagSet, f Flag) {
	def, _ := f.defaultValue()
	switch f.flagType() {
	case "bool":
		fs.BoolP(f.Name, f.Short, def.(bool), f.Help)
	case "string":
		fs.StringP(f.Name, f.Short, def.(string), f.Help)
	case "int":
		fs.IntP(f.Name, f.Short, def.(int), f.Help)
	case "count":
		fs.CountP(f.Name, f.Short, f.Help)
	case "float":
		fs.Float64P(f.Name, f.Short, def.(float64), f.Help)
	case "strings":
		fs.StringSliceP(f.Name, f.Short, def.([]string), f.Help)
	}
}

// Handle renders the output template or runs the exec argv
func (c *Command) Handle(ctx context.Context, env *command.Env, args []string, opts command.Options) (any, error) {
	data := templateData(args, opts)

	switch {
	case c.manifest.Output != "":
		return render(c.templates[0], data)
	case len(c.manifest.Exec) > 0:
		argv := make([]string, 0, len(c.templates))
		for _, tmpl := range c.templates {
			s, err := render(tmpl, data)
			if err != nil {
				return nil, err
			}
			argv = append(argv, s)
		}
		return nil, c.run(ctx, env, argv)
	}
	return c.Base.Handle(ctx, env, args, opts)
}

func (c *Command) run(ctx context.Context, env *command.Env, argv []string) error {
	logger := logging.GetLogger("manifest")
	logger.Debug().Str("command", c.name).Strs("argv", argv).Msg("Running manifest exec")

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = env.Stdout
	cmd.Stderr = env.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return errors.Newf(errors.ErrCommand, "%s exited with status %d", argv[0], exitErr.ExitCode()).
				WithDetail("status", exitErr.ExitCode())
		}
		return errors.Wrapf(err, errors.ErrCommand, "failed to run %s", argv[0])
	}
	return nil
}

// templateData exposes options under their name and, for dashed names,
// an underscored alias. Remaining positionals are under "args".
func templateData(args []string, opts command.Options) map[string]any {
	data := make(map[string]any, len(opts)+1)
	for k, v := range opts {
		if k == command.StdoutOption || k == command.StderrOption {
			continue
		}
		data[k] = v
		data[strings.ReplaceAll(k, "-", "_")] = v
	}
	data["args"] = args
	return data
}

func render(tmpl *template.Template, data map[string]any) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", errors.Wrap(err, errors.ErrCommand, "failed to render template")
	}
	return sb.String(), nil
}
