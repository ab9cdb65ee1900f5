package color

import "strings"

const (
	escape = "\x1b["
	reset  = "0"

	// Reset is the sequence appended after styled text.
	Reset = escape + reset + "m"
)

var colorNames = []string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

var optionCodes = map[string]string{
	"bold":       "1",
	"underscore": "4",
	"blink":      "5",
	"reverse":    "7",
	"conceal":    "8",
}

func colorIndex(name string) int {
	for i, n := range colorNames {
		if n == name {
			return i
		}
	}
	return -1
}

// IsColor reports whether name is one of the eight supported colors.
func IsColor(name string) bool { return colorIndex(name) >= 0 }

// IsOption reports whether name is a supported text attribute.
func IsOption(name string) bool {
	_, ok := optionCodes[name]
	return ok
}

// Colorize wraps text in the escape codes for the given foreground,
// background and options. Unknown colors and options are skipped.
//
// Two pseudo options change the framing: "noreset" drops the trailing reset,
// and "reset" alone with empty text returns just the reset sequence.
func Colorize(text, fg, bg string, opts ...string) string {
	if text == "" && len(opts) == 1 && opts[0] == "reset" {
		return Reset
	}

	var codes []string
	if i := colorIndex(fg); i >= 0 {
		codes = append(codes, "3"+string(rune('0'+i)))
	}
	if i := colorIndex(bg); i >= 0 {
		codes = append(codes, "4"+string(rune('0'+i)))
	}
	noReset := false
	for _, o := range opts {
		if code, ok := optionCodes[o]; ok {
			codes = append(codes, code)
		}
		if o == "noreset" {
			noReset = true
		}
	}

	var b strings.Builder
	if len(codes) > 0 {
		b.WriteString(escape)
		b.WriteString(strings.Join(codes, ";"))
		b.WriteString("m")
	}
	b.WriteString(text)
	if !noReset {
		b.WriteString(Reset)
	}
	return b.String()
}
