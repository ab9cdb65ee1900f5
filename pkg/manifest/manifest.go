// Package manifest defines commands declared in TOML or YAML files.
//
// A manifest lists the positionals and flags a command accepts and a body
// that is either an output template or an argv to execute:
//
//	help = "Greet someone"
//	output = "Hello {{.name}}!"
//
//	[[arguments]]
//	name = "name"
package manifest

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/go-viper/mapstructure/v2"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/commander/pkg/command"
	"github.com/arthur-debert/commander/pkg/errors"
	"github.com/arthur-debert/commander/pkg/logging"
)

// Extensions are the manifest file extensions in lookup priority order
var Extensions = []string{".toml", ".yaml", ".yml"}

// IsManifest reports whether filename carries a manifest extension
func IsManifest(filename string) bool {
	ext := filepath.Ext(filename)
	for _, e := range Extensions {
		if ext == e && ext != filename {
			return true
		}
	}
	return false
}

// Argument is a positional declaration
type Argument struct {
	Name      string `toml:"name" yaml:"name"`
	Help      string `toml:"help" yaml:"help"`
	Type      string `toml:"type" yaml:"type"`
	Remaining bool   `toml:"remaining" yaml:"remaining"`
}

// Flag is an option declaration
type Flag struct {
	Name    string `toml:"name" yaml:"name"`
	Short   string `toml:"short" yaml:"short"`
	Type    string `toml:"type" yaml:"type"`
	Default any    `toml:"default" yaml:"default"`
	Help    string `toml:"help" yaml:"help"`
}

// Manifest is a decoded command file
type Manifest struct {
	Help      string     `toml:"help" yaml:"help"`
	Arguments []Argument `toml:"arguments" yaml:"arguments"`
	Flags     []Flag     `toml:"flags" yaml:"flags"`
	Output    string     `toml:"output" yaml:"output"`
	Exec      []string   `toml:"exec" yaml:"exec"`
}

var reservedFlags = map[string]bool{
	command.NoColorFlag:    true,
	command.ForceColorFlag: true,
	command.TracebackFlag:  true,
	command.HelpFlag:       true,
	command.StdoutOption:   true,
	command.StderrOption:   true,
	"args":                 true,
}

var flagTypes = map[string]bool{
	"bool": true, "string": true, "int": true, "float": true, "count": true, "strings": true,
}

// Decode parses data according to ext, rejecting unknown keys
func Decode(data []byte, ext string) (*Manifest, error) {
	var m Manifest
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&m); err != nil {
			return nil, errors.Wrap(err, errors.ErrInvalidInput, "failed to parse TOML")
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil && err != io.EOF {
			return nil, errors.Wrap(err, errors.ErrInvalidInput, "failed to parse YAML")
		}
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unsupported manifest extension %q", ext)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load reads and decodes the manifest at path
func Load(fs afero.Fs, path string) (*Manifest, error) {
	logger := logging.GetLogger("manifest").With().Str("path", path).Logger()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrNotFound, "failed to read manifest")
	}
	m, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Int("arguments", len(m.Arguments)).
		Int("flags", len(m.Flags)).
		Bool("exec", len(m.Exec) > 0).
		Msg("Manifest loaded")
	return m, nil
}

// Validate checks declarations and pre-parses every template
func (m *Manifest) Validate() error {
	seen := map[string]bool{}
	claim := func(kind, name string) error {
		if name == "" {
			return errors.Newf(errors.ErrInvalidInput, "%s without a name", kind)
		}
		if reservedFlags[name] {
			return errors.Newf(errors.ErrInvalidInput, "%s name %q is reserved", kind, name)
		}
		if seen[name] {
			return errors.Newf(errors.ErrInvalidInput, "duplicate name %q", name)
		}
		seen[name] = true
		return nil
	}

	for i, a := range m.Arguments {
		if err := claim("argument", a.Name); err != nil {
			return err
		}
		if a.Remaining {
			if i != len(m.Arguments)-1 {
				return errors.Newf(errors.ErrInvalidInput, "remaining argument %q must be last", a.Name)
			}
			continue
		}
		if _, ok := command.ParseKind(a.Type); !ok {
			return errors.Newf(errors.ErrInvalidInput, "argument %q has unknown type %q", a.Name, a.Type)
		}
	}

	shorts := map[string]string{}
	for _, f := range m.Flags {
		if err := claim("flag", f.Name); err != nil {
			return err
		}
		if !flagTypes[f.flagType()] {
			return errors.Newf(errors.ErrInvalidInput, "flag %q has unknown type %q", f.Name, f.Type)
		}
		if len(f.Short) > 1 || f.Short == "h" {
			return errors.Newf(errors.ErrInvalidInput, "flag %q has invalid shorthand %q", f.Name, f.Short)
		}
		if f.Short != "" {
			if other, ok := shorts[f.Short]; ok {
				return errors.Newf(errors.ErrInvalidInput, "flag %q reuses shorthand %q of flag %q", f.Name, f.Short, other)
			}
			shorts[f.Short] = f.Name
		}
		if _, err := f.defaultValue(); err != nil {
			return errors.Wrapf(err, errors.ErrInvalidInput, "flag %q has an invalid default", f.Name)
		}
	}

	if m.Output != "" && len(m.Exec) > 0 {
		return errors.New(errors.ErrInvalidInput, "output and exec are mutually exclusive")
	}
	if _, err := m.templates(); err != nil {
		return err
	}
	return nil
}

func (f Flag) flagType() string {
	if f.Type == "" {
		return "bool"
	}
	return strings.ToLower(f.Type)
}

// defaultValue converts the declared default to the flag's Go type
func (f Flag) defaultValue() (any, error) {
	var err error
	switch f.flagType() {
	case "bool":
		var v bool
		err = mapstructure.WeakDecode(f.Default, &v)
		return v, err
	case "string":
		var v string
		err = mapstructure.WeakDecode(f.Default, &v)
		return v, err
	case "int", "count":
		var v int
		err = mapstructure.WeakDecode(f.Default, &v)
		return v, err
	case "float":
		var v float64
		err = mapstructure.WeakDecode(f.Default, &v)
		return v, err
	case "strings":
		var v []string
		err = mapstructure.WeakDecode(f.Default, &v)
		return v, err
	}
	return nil, fmt.Errorf("unknown type %q", f.Type)
}

var templateFuncs = template.FuncMap{
	"join":  strings.Join,
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	"trim":  strings.TrimSpace,
}

// templates parses the body; the first element is the output template or
// each exec element in order
func (m *Manifest) templates() ([]*template.Template, error) {
	sources := m.Exec
	if m.Output != "" {
		sources = []string{m.Output}
	}
	parsed := make([]*template.Template, 0, len(sources))
	for i, src := range sources {
		tmpl, err := template.New(fmt.Sprintf("body%d", i)).
			Funcs(templateFuncs).
			Option("missingkey=zero").
			Parse(src)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid template")
		}
		parsed = append(parsed, tmpl)
	}
	return parsed, nil
}
