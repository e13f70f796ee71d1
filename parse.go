package xtui

import (
	"strconv"
	"strings"
)

// Event is anything the decoder can produce from the input stream (§4.4).
type Event interface{ isEvent() }

func (KeyEvent) isEvent()     {}
func (MouseEvent) isEvent()   {}
func (ResizeEvent) isEvent()  {}
func (PasteEvent) isEvent()   {}
func (FocusEvent) isEvent()   {}

// ResizeEvent reports a terminal size change, normally sourced from a
// SIGWINCH-driven ioctl (§6), but also synthesizable for tests.
type ResizeEvent struct{ Width, Height int }

// PasteEvent carries the text between a bracketed-paste start/end pair
// (CSI 200~ ... CSI 201~), delivered as one event rather than a run of
// individual KeyEvents (§4.4, §3 "Supplemented Features").
type PasteEvent struct{ Text string }

// FocusEvent reports a terminal focus-in/focus-out report (CSI I / CSI O).
type FocusEvent struct{ Gained bool }

// decoderState is the pushdown automaton's state (GLOSSARY "Decoder
// State").
type decoderState int

const (
	stateGround decoderState = iota
	stateEsc
	stateCSI
	stateSS3
	stateOSC
	statePasteActive
)

// Decoder is the Input Decoder (C4): a byte-at-a-time pushdown automaton
// converting a raw input stream into Events. It holds no knowledge of the
// terminal beyond the bytes it is fed; Terminal/Input own the actual read
// loop and any escape-timeout handling.
type Decoder struct {
	state decoderState
	acc   []byte // bytes accumulated for the sequence currently being decoded

	pasteBuf strings.Builder
}

// NewDecoder returns a decoder ready to consume a fresh byte stream.
func NewDecoder() *Decoder {
	return &Decoder{state: stateGround}
}

// Feed advances the automaton by one byte, returning an Event if a
// complete sequence was just recognized. Most calls return nil — sequences
// span several bytes. An unrecognized sequence resolves to a
// KeyEvent{Name: KeyUnknown} together with a non-nil *InputDecodeError,
// which the caller should log and otherwise ignore (§7).
func (d *Decoder) Feed(b byte) (Event, error) {
	var ev Event
	var err error
	switch d.state {
	case stateGround:
		ev, err = d.feedGround(b)
	case stateEsc:
		ev, err = d.feedEsc(b)
	case stateCSI:
		ev, err = d.feedCSI(b)
	case stateSS3:
		ev, err = d.feedSS3(b)
	case stateOSC:
		ev, err = d.feedOSC(b)
	case statePasteActive:
		return d.feedPaste(b)
	default:
		d.reset()
		return nil, nil
	}

	switch ev.(type) {
	case pasteStartMarker:
		d.state = statePasteActive
		d.acc = nil
		d.pasteBuf.Reset()
		return nil, nil
	case pasteEndMarker:
		return nil, nil
	}
	return ev, err
}

// Flush is called when the caller's escape-disambiguation timeout expires
// (~50ms after a lone 0x1B, per §4.4) with no further bytes arriving. A
// standalone ESC resolves to the "escape" key.
func (d *Decoder) Flush() Event {
	if d.state == stateEsc && len(d.acc) == 1 {
		d.reset()
		return KeyEvent{Name: KeyEscape, Sequence: []byte{0x1B}}
	}
	return nil
}

func (d *Decoder) reset() {
	d.state = stateGround
	d.acc = nil
}

func (d *Decoder) feedGround(b byte) (Event, error) {
	switch {
	case b == 0x1B:
		d.state = stateEsc
		d.acc = []byte{b}
		return nil, nil
	case b == '\r' || b == '\n':
		return KeyEvent{Name: KeyEnter, Sequence: []byte{b}}, nil
	case b == '\t':
		return KeyEvent{Name: KeyTab, Sequence: []byte{b}}, nil
	case b == 0x7F || b == 0x08:
		return KeyEvent{Name: KeyBackspace, Sequence: []byte{b}}, nil
	case b == ' ':
		return KeyEvent{Name: KeySpace, Rune: ' ', Sequence: []byte{b}}, nil
	case b >= 0x01 && b <= 0x1A:
		name, ok := ctrlLetterNames[b]
		if !ok {
			return KeyEvent{Name: KeyUnknown, Sequence: []byte{b}}, &InputDecodeError{Bytes: []byte{b}}
		}
		return KeyEvent{Name: name, Modifiers: ModCtrl, Sequence: []byte{b}}, nil
	case b < 0x20:
		return KeyEvent{Name: KeyUnknown, Sequence: []byte{b}}, &InputDecodeError{Bytes: []byte{b}}
	case b < 0x80:
		r := rune(b)
		return KeyEvent{Name: string(r), Rune: r, Sequence: []byte{b}}, nil
	default:
		// UTF-8 continuation/lead byte: accumulate until a full rune decodes.
		return d.feedUTF8(b)
	}
}

func (d *Decoder) feedUTF8(b byte) (Event, error) {
	d.acc = append(d.acc, b)
	r, size := decodeRuneAccum(d.acc)
	if r == utf8RuneError && size == 0 {
		return nil, nil // need more bytes
	}
	seq := d.acc
	d.acc = nil
	if r == utf8RuneError {
		return KeyEvent{Name: KeyUnknown, Sequence: seq}, &InputDecodeError{Bytes: seq}
	}
	return KeyEvent{Name: string(r), Rune: r, Sequence: seq}, nil
}

const utf8RuneError = rune(0xFFFD)

// decodeRuneAccum reports (rune, size>0) once acc holds a complete UTF-8
// sequence, (RuneError, 0) while more bytes are still needed, or
// (RuneError, size>0) if acc is already invalid.
func decodeRuneAccum(acc []byte) (rune, int) {
	n := len(acc)
	lead := acc[0]
	var want int
	switch {
	case lead&0x80 == 0:
		want = 1
	case lead&0xE0 == 0xC0:
		want = 2
	case lead&0xF0 == 0xE0:
		want = 3
	case lead&0xF8 == 0xF0:
		want = 4
	default:
		return utf8RuneError, 1
	}
	if n < want {
		return utf8RuneError, 0
	}
	r, size := decodeRuneBytes(acc[:want])
	return r, size
}

func decodeRuneBytes(b []byte) (rune, int) {
	r := []rune(string(b))
	if len(r) != 1 {
		return utf8RuneError, len(b)
	}
	return r[0], len(b)
}

func (d *Decoder) feedEsc(b byte) (Event, error) {
	d.acc = append(d.acc, b)
	switch b {
	case '[':
		d.state = stateCSI
		d.acc = nil // the CSI body is accumulated without its ESC[ prefix
		return nil, nil
	case 'O':
		d.state = stateSS3
		return nil, nil
	case ']':
		d.state = stateOSC
		return nil, nil
	default:
		// Alt+<key>: ESC followed immediately by a ground-state byte.
		d.reset()
		ev, err := d.feedGround(b)
		if k, ok := ev.(KeyEvent); ok {
			k.Modifiers |= ModAlt
			k.Sequence = append([]byte{0x1B}, k.Sequence...)
			return k, err
		}
		return ev, err
	}
}

// feedSS3 decodes the single byte following "ESC O" (SS3): xterm's encoding
// for F1-F4, distinct from the tilde-coded F5-F12 (§4.4).
func (d *Decoder) feedSS3(b byte) (Event, error) {
	seq := append([]byte{0x1B, 'O'}, b)
	d.reset()
	name, ok := ss3LetterToKey[b]
	if !ok {
		return KeyEvent{Name: KeyUnknown, Sequence: seq}, &InputDecodeError{Bytes: seq}
	}
	return KeyEvent{Name: name, Sequence: seq}, nil
}

func (d *Decoder) feedCSI(b byte) (Event, error) {
	d.acc = append(d.acc, b)

	// Parameter/intermediate bytes: 0x30-0x3F (digits, ';', '<', etc.) and
	// 0x20-0x2F. Final bytes are 0x40-0x7E.
	if b < 0x40 {
		return nil, nil
	}

	seq := d.acc
	d.reset()
	return decodeCSIFinal(seq, b)
}

// decodeCSIFinal interprets a complete CSI sequence (everything after
// "ESC [", including the final byte) per §4.4's decode table.
func decodeCSIFinal(seq []byte, final byte) (Event, error) {
	body := string(seq[:len(seq)-1]) // parameters, without ESC[ prefix or final byte

	switch {
	case final == '~':
		return decodeTildeSeq(body, seq)
	case final == 'M' || final == 'm':
		if strings.HasPrefix(body, "<") {
			return decodeSGRMouse(body[1:], final == 'M', seq)
		}
	}

	if final == 'I' {
		return FocusEvent{Gained: true}, nil
	}
	if final == 'O' {
		return FocusEvent{Gained: false}, nil
	}

	if name, ok := csiLetterToKey[final]; ok {
		mods := parseLeadingModifier(body)
		return KeyEvent{Name: name, Modifiers: mods, Sequence: prefixed(seq)}, nil
	}

	return KeyEvent{Name: KeyUnknown, Sequence: prefixed(seq)}, &InputDecodeError{Bytes: prefixed(seq)}
}

func prefixed(seq []byte) []byte {
	return append([]byte{0x1B, '['}, seq...)
}

// parseLeadingModifier extracts the ";<mod>" suffix xterm appends to
// cursor-key CSI sequences, e.g. "1;5" for ctrl+Up.
func parseLeadingModifier(body string) Modifiers {
	parts := strings.Split(body, ";")
	if len(parts) < 2 {
		return 0
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return csiModifierToMod(n)
}

func decodeTildeSeq(body string, seq []byte) (Event, error) {
	parts := strings.Split(body, ";")
	n, err := strconv.Atoi(parts[0])
	if err != nil {
		return KeyEvent{Name: KeyUnknown, Sequence: prefixed(seq)}, &InputDecodeError{Bytes: prefixed(seq)}
	}

	if n == 200 {
		return pasteStartMarker{}, nil
	}
	if n == 201 {
		return pasteEndMarker{}, nil
	}

	name, ok := csiTildeToKey[n]
	if !ok {
		return KeyEvent{Name: KeyUnknown, Sequence: prefixed(seq)}, &InputDecodeError{Bytes: prefixed(seq)}
	}
	var mods Modifiers
	if len(parts) >= 2 {
		if m, err := strconv.Atoi(parts[1]); err == nil {
			mods = csiModifierToMod(m)
		}
	}
	return KeyEvent{Name: name, Modifiers: mods, Sequence: prefixed(seq)}, nil
}

// decodeSGRMouse decodes the body of "CSI < btn ; x ; y M|m" (pressed is
// true for 'M', false for 'm' — a release), per §4.4 example #2.
func decodeSGRMouse(body string, pressed bool, seq []byte) (Event, error) {
	parts := strings.Split(body, ";")
	if len(parts) != 3 {
		return KeyEvent{Name: KeyUnknown, Sequence: prefixed(seq)}, &InputDecodeError{Bytes: prefixed(seq)}
	}
	b, err1 := strconv.Atoi(parts[0])
	x, err2 := strconv.Atoi(parts[1])
	y, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return KeyEvent{Name: KeyUnknown, Sequence: prefixed(seq)}, &InputDecodeError{Bytes: prefixed(seq)}
	}

	btn, mods, motion := decodeSGRButton(b)

	var kind MouseEventKind
	var dir ScrollDirection
	var delta int
	switch {
	case btn == MouseWheelUp || btn == MouseWheelDown:
		kind = MouseScroll
		delta = 1
		if btn == MouseWheelUp {
			dir = ScrollUp
		} else {
			dir = ScrollDown
		}
	case motion && btn == MouseNone:
		kind = MouseMotion
	case motion:
		kind = MouseDrag
	case !pressed:
		kind = MouseUp
	default:
		kind = MouseDown
	}
	// x,y in the wire protocol are 1-based.
	return MouseEvent{Kind: kind, Button: btn, X: x - 1, Y: y - 1, Modifiers: mods, Direction: dir, Delta: delta}, nil
}

// pasteStartMarker/pasteEndMarker are internal sentinels returned by the
// CSI decoder; the Decoder.Feed wrapper intercepts them so callers
// never see anything but the fully-formed PasteEvent.
type pasteStartMarker struct{}

func (pasteStartMarker) isEvent() {}

type pasteEndMarker struct{}

func (pasteEndMarker) isEvent() {}

func (d *Decoder) feedOSC(b byte) (Event, error) {
	d.acc = append(d.acc, b)
	if b == 0x07 || (len(d.acc) >= 2 && d.acc[len(d.acc)-2] == 0x1B && b == '\\') {
		d.reset()
		return nil, nil // title/clipboard OSC replies are not surfaced as events
	}
	return nil, nil
}

func (d *Decoder) feedPaste(b byte) (Event, error) {
	// Look for the CSI 201~ terminator byte-by-byte against the raw stream.
	d.acc = append(d.acc, b)
	const term = "\x1b[201~"
	if strings.HasSuffix(string(d.acc), term) {
		text := strings.TrimSuffix(string(d.acc), term)
		d.reset()
		d.state = stateGround
		out := d.pasteBuf.String() + text
		d.pasteBuf.Reset()
		return PasteEvent{Text: out}, nil
	}
	return nil, nil
}
