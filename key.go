package xtui

import "strings"

// Modifiers is a bitset of held modifier keys, attached to both key and
// mouse events (§4.4).
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModAlt
	ModCtrl
)

// Has reports whether m includes all bits of other.
func (m Modifiers) Has(other Modifiers) bool { return m&other == other }

func (m Modifiers) String() string {
	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "alt")
	}
	if m.Has(ModShift) {
		parts = append(parts, "shift")
	}
	return strings.Join(parts, "+")
}

// KeyEvent is a decoded keypress (§4.4 C4). Name identifies the key
// ("a", "enter", "up", "f5", "unknown"); Sequence preserves the raw bytes
// that produced it, primarily for logging and the "unknown" recovery path.
type KeyEvent struct {
	Name      string
	Rune      rune // the literal rune for printable keys, 0 otherwise
	Sequence  []byte
	Modifiers Modifiers
}

// IsPrintable reports whether the event represents a single printable
// rune rather than a named control or function key.
func (k KeyEvent) IsPrintable() bool {
	return k.Rune != 0 && k.Name == string(k.Rune)
}

// Named key constants, per §4.4's decode table.
const (
	KeyEnter     = "enter"
	KeyTab       = "tab"
	KeyBackspace = "backspace"
	KeyEscape    = "escape"
	KeyUp        = "up"
	KeyDown      = "down"
	KeyLeft      = "left"
	KeyRight     = "right"
	KeyHome      = "home"
	KeyEnd       = "end"
	KeyPgUp      = "pgup"
	KeyPgDown    = "pgdown"
	KeyDelete    = "delete"
	KeyInsert    = "insert"
	KeySpace     = "space"
	KeyUnknown   = "unknown"
	KeyF1        = "f1"
	KeyF2        = "f2"
	KeyF3        = "f3"
	KeyF4        = "f4"
	KeyF5        = "f5"
	KeyF6        = "f6"
	KeyF7        = "f7"
	KeyF8        = "f8"
	KeyF9        = "f9"
	KeyF10       = "f10"
	KeyF11       = "f11"
	KeyF12       = "f12"
)

var ctrlLetterNames = map[byte]string{
	0x01: "a", 0x02: "b", 0x03: "c", 0x04: "d", 0x05: "e", 0x06: "f",
	0x07: "g", 0x0B: "k", 0x0C: "l", 0x0E: "n", 0x0F: "o", 0x10: "p",
	0x11: "q", 0x12: "r", 0x13: "s", 0x14: "t", 0x15: "u", 0x16: "v",
	0x17: "w", 0x18: "x", 0x19: "y", 0x1A: "z",
}

// csiLetterToKey maps a CSI sequence's final letter to a key name (tilde
// codes are in csiTildeToKey), grounded on the teacher's key_sequences.go
// table.
var csiLetterToKey = map[byte]string{
	'A': KeyUp, 'B': KeyDown, 'C': KeyRight, 'D': KeyLeft,
	'H': KeyHome, 'F': KeyEnd,
}

// ss3LetterToKey maps the final byte of an SS3 sequence (ESC O <letter>) to
// a key name. xterm and most terminfo entries emit F1-F4 this way rather
// than as tilde codes.
var ss3LetterToKey = map[byte]string{
	'P': KeyF1, 'Q': KeyF2, 'R': KeyF3, 'S': KeyF4,
}

var csiTildeToKey = map[int]string{
	1: KeyHome, 2: KeyInsert, 3: KeyDelete, 4: KeyEnd,
	5: KeyPgUp, 6: KeyPgDown, 7: KeyHome, 8: KeyEnd,
	11: KeyF1, 12: KeyF2, 13: KeyF3, 14: KeyF4,
	15: KeyF5, 17: KeyF6, 18: KeyF7, 19: KeyF8,
	20: KeyF9, 21: KeyF10, 23: KeyF11, 24: KeyF12,
}

// csiModifierToMod decodes the SGR-style modifier parameter (1=none,
// 2=shift, 3=alt, 4=shift+alt, 5=ctrl, ...) used by xterm CSI sequences.
func csiModifierToMod(param int) Modifiers {
	if param <= 0 {
		return 0
	}
	bits := param - 1
	var m Modifiers
	if bits&1 != 0 {
		m |= ModShift
	}
	if bits&2 != 0 {
		m |= ModAlt
	}
	if bits&4 != 0 {
		m |= ModCtrl
	}
	return m
}
