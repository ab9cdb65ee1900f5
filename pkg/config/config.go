// Package config loads commander settings.
//
// Sources are layered, later ones winning:
//
//  1. embedded defaults
//  2. the config file ($XDG_CONFIG_HOME/commander/config.toml unless a path is given)
//  3. COMMANDER_* environment variables, "_" separating sections
//     (COMMANDER_LOG_VERBOSITY sets log.verbosity)
//  4. explicit overrides
package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	cerrors "github.com/arthur-debert/commander/pkg/errors"
	"github.com/arthur-debert/commander/pkg/logging"
)

// EnvPrefix prefixes every environment variable read as configuration
const EnvPrefix = "COMMANDER_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Config is the resolved configuration
type Config struct {
	// Colors is the palette setting handed to the color resolver
	Colors   string         `koanf:"colors"`
	Commands CommandsConfig `koanf:"commands"`
	Log      LogConfig      `koanf:"log"`
}

// CommandsConfig locates user commands
type CommandsConfig struct {
	Dir string `koanf:"dir"`
}

// LogConfig controls logging.SetupLogger
type LogConfig struct {
	Verbosity int  `koanf:"verbosity"`
	File      bool `koanf:"file"`
}

// Options selects the configuration sources
type Options struct {
	// Path of the config file; empty uses DefaultPath when it exists
	Path string
	// Overrides are applied last, keyed by dotted path ("log.verbosity")
	Overrides map[string]interface{}
}

// DefaultPath is the config file looked up when no path is given
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "commander", "config.toml")
}

// envKey maps COMMANDER_LOG_VERBOSITY to log.verbosity. Empty values are
// skipped so a blank variable does not clear a setting from the file.
func envKey(key, value string) (string, interface{}) {
	if value == "" {
		return "", nil
	}
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "_", "."), value
}

// Load resolves the configuration
func Load(opts Options) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, cerrors.Wrap(err, cerrors.ErrConfig, "failed to load defaults")
	}

	// 2. Config file
	path := opts.Path
	if path == "" {
		if _, err := os.Stat(DefaultPath()); err == nil {
			path = DefaultPath()
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, cerrors.Wrapf(err, cerrors.ErrConfig, "failed to load config from %s", path).
				WithDetail("path", path)
		}
		logger.Debug().Str("path", path).Msg("Config file loaded")
	}

	// 3. Environment
	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, cerrors.Wrap(err, cerrors.ErrConfig, "failed to load env vars")
	}

	// 4. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, cerrors.Wrap(err, cerrors.ErrConfig, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, cerrors.Wrap(err, cerrors.ErrConfig, "failed to unmarshal configuration")
	}

	logger.Debug().
		Str("commandsDir", cfg.Commands.Dir).
		Int("verbosity", cfg.Log.Verbosity).
		Msg("Configuration loaded")
	return &cfg, nil
}
