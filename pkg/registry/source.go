package registry

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/arthur-debert/commander/pkg/command"
	"github.com/arthur-debert/commander/pkg/errors"
	"github.com/arthur-debert/commander/pkg/logging"
	"github.com/arthur-debert/commander/pkg/manifest"
)

// Source provides named commands
type Source interface {
	// Name identifies the source in logs and error details
	Name() string
	// List returns the sorted command names the source provides
	List() []string
	// Load creates the named command
	Load(name string) (command.Command, error)
}

// hidden names are never listed or loaded
func hidden(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}

var bundled = NewStore[command.Factory]()

// Register adds a bundled command factory. It panics on duplicate names and
// is meant to be called from init().
func Register(name string, factory command.Factory) {
	MustRegister(bundled, name, factory)
}

type factorySource struct {
	name  string
	store Store[command.Factory]
}

// Bundled returns the source of factories added with Register
func Bundled() Source {
	return &factorySource{name: "bundled", store: bundled}
}

// NewFactorySource returns a source over a fixed set of factories
func NewFactorySource(name string, factories map[string]command.Factory) Source {
	s := NewStore[command.Factory]()
	for n, f := range factories {
		MustRegister(s, n, f)
	}
	return &factorySource{name: name, store: s}
}

func (s *factorySource) Name() string { return s.name }

func (s *factorySource) List() []string {
	names := s.store.List()
	return slices.DeleteFunc(names, hidden)
}

func (s *factorySource) Load(name string) (command.Command, error) {
	if hidden(name) {
		return nil, errors.Newf(errors.ErrNotFound, "command %q is private", name)
	}
	factory, err := s.store.Get(name)
	if err != nil {
		return nil, err
	}
	cmd := factory()
	if cmd == nil {
		return nil, errors.Newf(errors.ErrNotFound, "factory for %q returned no command", name)
	}
	return cmd, nil
}

type dirSource struct {
	fs   afero.Fs
	root string
}

// NewDir returns a source of manifest commands stored directly in root
func NewDir(fs afero.Fs, root string) Source {
	return &dirSource{fs: fs, root: root}
}

func (d *dirSource) Name() string { return d.root }

func (d *dirSource) List() []string {
	logger := logging.GetLogger("registry").With().Str("dir", d.root).Logger()

	entries, err := afero.ReadDir(d.fs, d.root)
	if err != nil {
		logger.Debug().Err(err).Msg("Command directory not readable")
		return nil
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || hidden(name) {
			continue
		}
		if !manifest.IsManifest(name) {
			continue
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if !slices.Contains(names, stem) {
			names = append(names, stem)
		}
	}
	slices.Sort(names)

	logger.Trace().Strs("commands", names).Msg("Command directory scanned")
	return names
}

func (d *dirSource) path(name string) (string, bool) {
	for _, ext := range manifest.Extensions {
		p := filepath.Join(d.root, name+ext)
		if info, err := d.fs.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

func (d *dirSource) Load(name string) (command.Command, error) {
	if name == "" || hidden(name) || strings.ContainsAny(name, `/\`) {
		return nil, errors.Newf(errors.ErrNotFound, "invalid command name %q", name)
	}
	p, ok := d.path(name)
	if !ok {
		return nil, errors.Newf(errors.ErrNotFound, "no manifest for %q in %s", name, d.root)
	}
	m, err := manifest.Load(d.fs, p)
	if err != nil {
		return nil, err
	}
	return manifest.NewCommand(name, m)
}
