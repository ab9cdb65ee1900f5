package color

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Palette names
const (
	NoColorPalette = "nocolor"
	DarkPalette    = "dark"
	LightPalette   = "light"

	DefaultPalette = DarkPalette
)

// Definition is the styling of a single role
type Definition struct {
	Fg   string   `yaml:"fg,omitempty"`
	Bg   string   `yaml:"bg,omitempty"`
	Opts []string `yaml:"opts,omitempty"`
}

// IsZero reports whether the definition carries no styling at all
func (d Definition) IsZero() bool {
	return d.Fg == "" && d.Bg == "" && len(d.Opts) == 0
}

func (d Definition) equal(o Definition) bool {
	return d.Fg == o.Fg && d.Bg == o.Bg && slices.Equal(d.Opts, o.Opts)
}

// Func returns the formatting function for this definition
func (d Definition) Func() StyleFunc {
	return func(text string) string {
		return Colorize(text, d.Fg, d.Bg, d.Opts...)
	}
}

// Palette maps every role to its definition
type Palette map[Role]Definition

func (p Palette) clone() Palette {
	out := make(Palette, len(p))
	for r, d := range p {
		out[r] = d
	}
	return out
}

// Equal compares two palettes role by role
func (p Palette) Equal(o Palette) bool {
	for _, r := range Roles() {
		if !p[r].equal(o[r]) {
			return false
		}
	}
	return true
}

//go:embed palettes.yaml
var embeddedPalettes []byte

var palettes = mustLoadPalettes(embeddedPalettes)

func mustLoadPalettes(data []byte) map[string]Palette {
	p, err := loadPalettes(data)
	if err != nil {
		panic(fmt.Sprintf("color: embedded palettes are invalid: %v", err))
	}
	return p
}

func loadPalettes(data []byte) (map[string]Palette, error) {
	var raw map[string]map[string]Definition
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse palettes: %w", err)
	}

	out := make(map[string]Palette, len(raw))
	for name, roles := range raw {
		p := make(Palette, roleCount)
		for _, r := range Roles() {
			p[r] = Definition{}
		}
		for roleName, def := range roles {
			r, ok := ParseRole(roleName)
			if !ok {
				return nil, fmt.Errorf("palette %q: unknown role %q", name, roleName)
			}
			p[r] = def
		}
		out[name] = p
	}
	if _, ok := out[NoColorPalette]; !ok {
		return nil, fmt.Errorf("palette %q is missing", NoColorPalette)
	}
	return out, nil
}

// PaletteNames returns the names of the built-in palettes
func PaletteNames() []string {
	names := make([]string, 0, len(palettes))
	for n := range palettes {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// GetPalette returns a copy of a named palette
func GetPalette(name string) (Palette, bool) {
	p, ok := palettes[name]
	if !ok {
		return nil, false
	}
	return p.clone(), true
}

// ParseColorSetting applies a configuration string to the plain palette.
// The second result is false when the string changed nothing, in which case
// callers should not color at all. The empty string changes nothing.
func ParseColorSetting(config string) (Palette, bool) {
	if config == "" {
		return nil, false
	}

	palette := palettes[NoColorPalette].clone()
	for _, part := range strings.Split(strings.ToLower(config), ";") {
		if named, ok := palettes[part]; ok {
			for r, d := range named {
				palette[r] = d
			}
			continue
		}

		roleName, instructions, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		def := parseDefinition(instructions)
		role, known := ParseRole(roleName)
		if known && !def.IsZero() {
			palette[role] = def
		}
	}

	if palette.Equal(palettes[NoColorPalette]) {
		return nil, false
	}
	return palette, true
}

// parseDefinition reads "fg[/bg][,opt...]"
func parseDefinition(instructions string) Definition {
	var def Definition
	styles := strings.Split(instructions, ",")
	colors := strings.Split(styles[0], "/")
	if IsColor(colors[0]) {
		def.Fg = colors[0]
	}
	if len(colors) > 1 && IsColor(colors[1]) {
		def.Bg = colors[1]
	}
	for _, o := range styles[1:] {
		if IsOption(o) {
			def.Opts = append(def.Opts, o)
		}
	}
	return def
}
