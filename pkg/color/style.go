package color

import (
	"os"
	"runtime"
	"sync"

	"github.com/muesli/termenv"

	"github.com/arthur-debert/commander/internal/term"
	"github.com/arthur-debert/commander/pkg/errors"
)

// ColorsEnv names the environment variable holding the palette setting
const ColorsEnv = "COMMANDER_COLORS"

// StyleFunc formats a piece of text
type StyleFunc func(string) string

// Identity returns text unchanged
func Identity(text string) string { return text }

// Style holds one formatting function per role. It is immutable.
type Style struct {
	funcs [roleCount]StyleFunc
	plain bool
}

// Func returns the formatting function for a role
func (s *Style) Func(r Role) StyleFunc {
	if s == nil || r < 0 || r >= roleCount || s.funcs[r] == nil {
		return Identity
	}
	return s.funcs[r]
}

// Apply formats text with the role's function
func (s *Style) Apply(r Role, text string) string { return s.Func(r)(text) }

// IsPlain reports whether every role is the identity
func (s *Style) IsPlain() bool { return s == nil || s.plain }

func (s *Style) Error(text string) string   { return s.Apply(Error, text) }
func (s *Style) Success(text string) string { return s.Apply(Success, text) }
func (s *Style) Warning(text string) string { return s.Apply(Warning, text) }
func (s *Style) Notice(text string) string  { return s.Apply(Notice, text) }

func plainStyle() *Style {
	s := &Style{plain: true}
	for i := range s.funcs {
		s.funcs[i] = Identity
	}
	return s
}

// FromPalette builds a Style from an explicit palette
func FromPalette(p Palette) *Style {
	s := &Style{}
	for _, r := range Roles() {
		s.funcs[r] = p[r].Func()
	}
	return s
}

// MakeStyle builds a Style from a configuration string. The empty string
// selects DefaultPalette.
func MakeStyle(setting string) *Style {
	if setting == "" {
		setting = DefaultPalette
	}
	palette, ok := ParseColorSetting(setting)
	if !ok {
		return plainStyle()
	}
	return FromPalette(palette)
}

var (
	noStyle     *Style
	noStyleOnce sync.Once
)

// NoStyle returns the shared style that never colors
func NoStyle() *Style {
	noStyleOnce.Do(func() {
		noStyle = MakeStyle(NoColorPalette)
	})
	return noStyle
}

// SupportsColor reports whether ANSI codes should be written to stream.
func SupportsColor(stream any) bool {
	if runtime.GOOS == "windows" && os.Getenv("ANSICON") == "" {
		return false
	}
	if termenv.EnvNoColor() {
		return false
	}
	return term.IsTerminal(stream)
}

// Resolver selects the Style for an invocation
type Resolver struct {
	// Setting is the palette configuration string
	Setting string
	// Supported reports whether the output can show colors
	Supported func() bool
}

// NewResolver returns a resolver probing stream for color support
func NewResolver(setting string, stream any) *Resolver {
	return &Resolver{
		Setting:   setting,
		Supported: func() bool { return SupportsColor(stream) },
	}
}

// DefaultResolver reads the setting from the environment and checks stdout
func DefaultResolver() *Resolver {
	return NewResolver(os.Getenv(ColorsEnv), os.Stdout)
}

// ColorStyle returns the configured style, or NoStyle when colors are not
// forced and the output does not support them.
func (r *Resolver) ColorStyle(force bool) *Style {
	if !force && (r.Supported == nil || !r.Supported()) {
		return NoStyle()
	}
	return MakeStyle(r.Setting)
}

// Resolve picks the style for the --no-color / --force-color pair
func (r *Resolver) Resolve(noColor, forceColor bool) (*Style, error) {
	if noColor && forceColor {
		return nil, ConflictError()
	}
	if noColor {
		return NoStyle(), nil
	}
	return r.ColorStyle(forceColor), nil
}

// ConflictError is reported when both color switches are set
func ConflictError() error {
	return errors.New(errors.ErrConfig, `"--no-color" and "--force-color" can't be used together`)
}

// ResolveStyle resolves with DefaultResolver
func ResolveStyle(noColor, forceColor bool) (*Style, error) {
	return DefaultResolver().Resolve(noColor, forceColor)
}
