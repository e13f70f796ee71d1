package xtui

// MouseButton identifies which button a mouse event reports, per the SGR
// mouse protocol (§4.4 example #2).
type MouseButton uint8

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
	MouseWheelUp
	MouseWheelDown
)

// MouseEventKind distinguishes the five report shapes named by §4.4: a
// button press, a release, bare hover motion, motion with a button held
// (drag), and a wheel report (scroll).
type MouseEventKind uint8

const (
	MouseDown MouseEventKind = iota
	MouseUp
	MouseMotion
	MouseDrag
	MouseScroll
)

// ScrollDirection is only meaningful on a MouseScroll event.
type ScrollDirection uint8

const (
	ScrollNone ScrollDirection = iota
	ScrollUp
	ScrollDown
)

// MouseEvent is a decoded SGR mouse report: CSI < btn ; x ; y M|m (§4.4).
// X and Y are zero-based cell coordinates. Direction and Delta are only
// populated on a MouseScroll event: the SGR protocol reports one discrete
// wheel step per event, so Delta is always 1.
type MouseEvent struct {
	Kind      MouseEventKind
	Button    MouseButton
	X, Y      int
	Modifiers Modifiers
	Direction ScrollDirection
	Delta     int
}

// decodeSGRButton splits the SGR button parameter into button identity,
// modifiers, and whether it is a motion report (bit 0x20).
func decodeSGRButton(b int) (MouseButton, Modifiers, bool) {
	motion := b&0x20 != 0
	var mods Modifiers
	if b&0x04 != 0 {
		mods |= ModShift
	}
	if b&0x08 != 0 {
		mods |= ModAlt
	}
	if b&0x10 != 0 {
		mods |= ModCtrl
	}

	base := b &^ 0x3C // clear motion/shift/alt/ctrl bits, keep button+wheel bits
	var btn MouseButton
	switch {
	case base&0x40 != 0:
		if base&1 == 0 {
			btn = MouseWheelUp
		} else {
			btn = MouseWheelDown
		}
	default:
		switch base & 0x3 {
		case 0:
			btn = MouseLeft
		case 1:
			btn = MouseMiddle
		case 2:
			btn = MouseRight
		case 3:
			btn = MouseNone
		}
	}
	return btn, mods, motion
}
