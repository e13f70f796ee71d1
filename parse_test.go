package xtui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedAll(t *testing.T, d *Decoder, s string) []Event {
	t.Helper()
	var events []Event
	for i := 0; i < len(s); i++ {
		ev, _ := d.Feed(s[i])
		if ev != nil {
			events = append(events, ev)
		}
	}
	return events
}

func TestDecoderPrintableRune(t *testing.T) {
	d := NewDecoder()
	events := feedAll(t, d, "a")
	require.Len(t, events, 1)
	assert.Equal(t, KeyEvent{Name: "a", Rune: 'a', Sequence: []byte("a")}, events[0])
}

func TestDecoderCtrlLetter(t *testing.T) {
	d := NewDecoder()
	ev, err := d.Feed(0x03)
	require.NoError(t, err)
	k := ev.(KeyEvent)
	assert.Equal(t, "c", k.Name)
	assert.True(t, k.Modifiers.Has(ModCtrl))
}

func TestDecoderStandaloneEscapeViaFlush(t *testing.T) {
	d := NewDecoder()
	ev, err := d.Feed(0x1B)
	require.NoError(t, err)
	assert.Nil(t, ev)

	ev = d.Flush()
	require.NotNil(t, ev)
	assert.Equal(t, KeyEscape, ev.(KeyEvent).Name)
}

func TestDecoderArrowKey(t *testing.T) {
	d := NewDecoder()
	events := feedAll(t, d, "\x1b[A")
	require.Len(t, events, 1)
	assert.Equal(t, KeyUp, events[0].(KeyEvent).Name)
}

func TestDecoderCtrlArrowKeyModifier(t *testing.T) {
	d := NewDecoder()
	events := feedAll(t, d, "\x1b[1;5A")
	require.Len(t, events, 1)
	k := events[0].(KeyEvent)
	assert.Equal(t, KeyUp, k.Name)
	assert.True(t, k.Modifiers.Has(ModCtrl))
}

func TestDecoderAltPrintable(t *testing.T) {
	d := NewDecoder()
	events := feedAll(t, d, "\x1ba")
	require.Len(t, events, 1)
	k := events[0].(KeyEvent)
	assert.Equal(t, "a", k.Name)
	assert.True(t, k.Modifiers.Has(ModAlt))
}

func TestDecoderSGRMousePress(t *testing.T) {
	d := NewDecoder()
	events := feedAll(t, d, "\x1b[<0;10;5M")
	require.Len(t, events, 1)
	m := events[0].(MouseEvent)
	assert.Equal(t, MouseDown, m.Kind)
	assert.Equal(t, MouseLeft, m.Button)
	assert.Equal(t, 9, m.X)
	assert.Equal(t, 4, m.Y)
}

func TestDecoderSGRMouseRelease(t *testing.T) {
	d := NewDecoder()
	events := feedAll(t, d, "\x1b[<0;10;5m")
	require.Len(t, events, 1)
	assert.Equal(t, MouseUp, events[0].(MouseEvent).Kind)
}

func TestDecoderBracketedPaste(t *testing.T) {
	d := NewDecoder()
	events := feedAll(t, d, "\x1b[200~hello world\x1b[201~")
	require.Len(t, events, 1)
	p := events[0].(PasteEvent)
	assert.Equal(t, "hello world", p.Text)
}

func TestDecoderDeleteKeyTilde(t *testing.T) {
	d := NewDecoder()
	events := feedAll(t, d, "\x1b[3~")
	require.Len(t, events, 1)
	assert.Equal(t, KeyDelete, events[0].(KeyEvent).Name)
}

func TestDecoderUnknownSequenceRecoversAsUnknownKey(t *testing.T) {
	d := NewDecoder()
	ev, err := d.Feed(0x1C) // control byte outside the recognized 0x01-0x1A range
	require.Error(t, err)
	assert.Equal(t, KeyUnknown, ev.(KeyEvent).Name)
}

func TestDecoderEnterAndTab(t *testing.T) {
	d := NewDecoder()
	events := feedAll(t, d, "\r\t")
	require.Len(t, events, 2)
	assert.Equal(t, KeyEnter, events[0].(KeyEvent).Name)
	assert.Equal(t, KeyTab, events[1].(KeyEvent).Name)
}

func TestDecoderMultiByteUTF8Rune(t *testing.T) {
	d := NewDecoder()
	events := feedAll(t, d, "界")
	require.Len(t, events, 1)
	k := events[0].(KeyEvent)
	assert.Equal(t, '界', k.Rune)
}
