// Package example provides the bundled "example" command, which computes the
// area of a rectangle.
package example

import (
	"context"
	"fmt"

	"github.com/arthur-debert/commander/pkg/command"
	"github.com/arthur-debert/commander/pkg/registry"
)

// Name is the subcommand name
const Name = "example"

func init() {
	registry.Register(Name, New)
}

// Command computes width * height
type Command struct {
	command.Base
}

// New returns the example command
func New() command.Command { return &Command{} }

func (c *Command) Help() string {
	return "An example command that returns an area."
}

func (c *Command) AddArguments(p *command.Parser) {
	p.AddArgument("width", command.Int, "width")
	p.AddArgument("height", command.Int, "height")
	p.Flags().CountP("verbosity", "v", "0: minimal, 1: normal, 2: detailed")
}

func (c *Command) Handle(_ context.Context, _ *command.Env, _ []string, opts command.Options) (any, error) {
	width, height := opts.Int("width"), opts.Int("height")
	area := width * height

	switch v := opts.Int("verbosity"); {
	case v >= 2:
		return fmt.Sprintf("width: %d, height: %d, area: %d", width, height, area), nil
	case v >= 1:
		return fmt.Sprintf("%d * %d = %d", width, height, area), nil
	default:
		return area, nil
	}
}
