package registry

import (
	"path/filepath"
	"slices"
	"sync"

	"github.com/spf13/afero"

	"github.com/arthur-debert/commander/pkg/command"
	"github.com/arthur-debert/commander/pkg/errors"
	"github.com/arthur-debert/commander/pkg/logging"
)

// CommandsDir is the directory below a user path holding manifests
const CommandsDir = "commands"

// Registry resolves command names across sources. The name listing is
// computed once and then reused for the registry's lifetime.
type Registry struct {
	sources []Source

	once  sync.Once
	names []string
}

// New creates a registry; later sources shadow earlier ones
func New(sources ...Source) *Registry {
	return &Registry{sources: sources}
}

// NewDefault combines the bundled commands with the manifests under
// userPath/commands. An empty userPath uses the bundled commands only.
func NewDefault(fs afero.Fs, userPath string) *Registry {
	sources := []Source{Bundled()}
	if userPath != "" {
		sources = append(sources, NewDir(fs, filepath.Join(userPath, CommandsDir)))
	}
	return New(sources...)
}

// Sources returns the registry's sources in priority order, lowest first
func (r *Registry) Sources() []Source {
	return slices.Clone(r.sources)
}

// Commands returns the sorted, de-duplicated names of every command
func (r *Registry) Commands() []string {
	r.once.Do(func() {
		logger := logging.GetLogger("registry")
		names := []string{}
		for _, src := range r.sources {
			names = append(names, src.List()...)
		}
		slices.Sort(names)
		r.names = slices.Compact(names)
		logger.Debug().Int("count", len(r.names)).Msg("Commands discovered")
	})
	return slices.Clone(r.names)
}

// Has reports whether name is a known command
func (r *Registry) Has(name string) bool {
	r.Commands()
	_, found := slices.BinarySearch(r.names, name)
	return found
}

// Load creates the named command from the highest priority source that
// lists it
func (r *Registry) Load(name string) (command.Command, error) {
	logger := logging.GetLogger("registry").With().Str("command", name).Logger()

	for i := len(r.sources) - 1; i >= 0; i-- {
		src := r.sources[i]
		if !slices.Contains(src.List(), name) {
			continue
		}
		cmd, err := src.Load(name)
		if err != nil {
			logger.Debug().Err(err).Str("source", src.Name()).Msg("Command failed to load")
			return nil, errors.Wrapf(err, errors.ErrNotFound, "cannot load command %q", name).
				WithDetail("command", name).
				WithDetail("source", src.Name())
		}
		logger.Trace().Str("source", src.Name()).Msg("Command loaded")
		return cmd, nil
	}
	return nil, errors.Newf(errors.ErrNotFound, "unknown command %q", name).WithDetail("command", name)
}
