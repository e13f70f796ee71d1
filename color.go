package xtui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

// Level is a terminal color capability level. Colors are downgraded to the
// active Level at flush time using nearest-neighbor mapping.
type Level int

// Capability levels, ordered from least to most capable.
const (
	LevelNone Level = iota
	LevelANSI16
	LevelANSI256
	LevelTrueColor
)

func (l Level) profile() termenv.Profile {
	switch l {
	case LevelTrueColor:
		return termenv.TrueColor
	case LevelANSI256:
		return termenv.ANSI256
	case LevelANSI16:
		return termenv.ANSI
	default:
		return termenv.Ascii
	}
}

// ColorKind tags the variant held by a Color value.
type ColorKind uint8

// Color variants, per the data model: {Default, Ansi16, Ansi256, Rgb}.
const (
	ColorDefault ColorKind = iota
	ColorANSI16
	ColorANSI256
	ColorRGB
)

// Color is a tagged terminal color value. The zero Color is ColorDefault,
// meaning "use the terminal's default foreground/background".
type Color struct {
	Kind ColorKind
	Ansi uint8 // valid for ColorANSI16 (0..15) and ColorANSI256 (0..255)
	R, G, B byte // valid for ColorRGB
}

// NoColor is the default-color value (no explicit color applied).
var NoColor = Color{Kind: ColorDefault}

// ANSI16 constructs a 16-color palette Color (index 0..15).
func ANSI16(n uint8) Color { return Color{Kind: ColorANSI16, Ansi: n & 0x0F} }

// ANSI256 constructs a 256-color palette Color.
func ANSI256(n uint8) Color { return Color{Kind: ColorANSI256, Ansi: n} }

// RGB constructs a 24-bit truecolor Color.
func RGB(r, g, b byte) Color { return Color{Kind: ColorRGB, R: r, G: g, B: b} }

// repr renders the color in the textual form termenv.Profile.Color expects.
func (c Color) repr() string {
	switch c.Kind {
	case ColorANSI16, ColorANSI256:
		return strconv.Itoa(int(c.Ansi))
	case ColorRGB:
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	default:
		return ""
	}
}

// sequence returns the SGR parameter string (without the CSI prefix or the
// trailing "m") for this color downgraded to level, or "" for the default
// color / unrepresentable combinations. bg selects the background variant.
func (c Color) sequence(level Level, bg bool) string {
	if c.Kind == ColorDefault {
		return ""
	}
	profile := level.profile()
	converted := profile.Color(c.repr())
	if converted == nil {
		return ""
	}
	return converted.Sequence(bg)
}

// detectLevel implements the capability table from §4.3: environment-hint
// based color level detection with an optional force override.
func detectLevel(isTTY bool, environ map[string]string) Level {
	if truthy(environ["NO_COLOR"]) || truthy(environ["NODE_DISABLE_COLORS"]) {
		return LevelNone
	}
	if !isTTY {
		return LevelNone
	}

	term := strings.ToLower(environ["TERM"])
	if term == "dumb" {
		return LevelNone
	}

	level := LevelNone
	colorterm := strings.ToLower(environ["COLORTERM"])
	termProgram := strings.ToLower(environ["TERM_PROGRAM"])

	switch {
	case colorterm == "truecolor" || colorterm == "24bit":
		level = LevelTrueColor
	case term == "xterm-kitty":
		level = LevelTrueColor
	case termProgram == "iterm.app" || termProgram == "vscode" || termProgram == "jetbrains":
		level = LevelTrueColor
	case strings.Contains(term, "256color"):
		level = LevelANSI256
	case strings.HasPrefix(term, "xterm") || colorterm != "":
		level = LevelANSI16
	}

	if forced := forceLevel(environ["FORCE_COLOR"]); forced > level {
		level = forced
	}

	return level
}

// forceLevel parses FORCE_COLOR per §6: values 1/2/3/true upgrade detection.
func forceLevel(v string) Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1":
		return LevelANSI16
	case "2":
		return LevelANSI256
	case "3", "true":
		return LevelTrueColor
	default:
		return LevelNone
	}
}

func truthy(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err == nil {
		return b
	}
	// Any non-empty value that is not a boolean counts as set; only values
	// that parse as false ("0", "false", ...) count as unset.
	return true
}
