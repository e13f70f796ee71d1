package xtui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlushMinimalityOnUnchangedFrame(t *testing.T) {
	f := NewFlusher(10, 1)
	back := NewBuffer(10, 1)
	back.DrawText(0, 0, "hi", DefaultStyle)

	out := f.Flush(back, LevelTrueColor, nil)
	require.NotEmpty(t, out)
	back.ClearDirty()

	out = f.Flush(back, LevelTrueColor, nil)
	assert.Empty(t, out, "flushing an unchanged frame must emit zero bytes")
}

func TestFlushUpdatesFrontToMatchBack(t *testing.T) {
	f := NewFlusher(10, 1)
	back := NewBuffer(10, 1)
	back.DrawText(0, 0, "hello", DefaultStyle)

	f.Flush(back, LevelTrueColor, nil)

	for x := 0; x < 10; x++ {
		want, _ := back.GetCell(x, 0)
		got, _ := f.front.GetCell(x, 0)
		assert.Equal(t, want, got, "front buffer cell %d must match back after flush", x)
	}
}

func TestFlushEmitsCursorPositionOnFirstDifference(t *testing.T) {
	f := NewFlusher(10, 1)
	back := NewBuffer(10, 1)
	back.DrawText(3, 0, "x", DefaultStyle)

	out := f.Flush(back, LevelTrueColor, nil)
	assert.Contains(t, out, ansi.CursorPosition(3, 0))
	assert.Contains(t, out, "x")
}

func TestFlushRunCoalescing(t *testing.T) {
	f := NewFlusher(10, 1)
	back := NewBuffer(10, 1)
	back.DrawText(0, 0, "ab", DefaultStyle) // contiguous run, one cursor move expected

	out := f.Flush(back, LevelTrueColor, nil)
	assert.Equal(t, 1, strings.Count(out, ansi.CursorPosition(0, 0)))
	assert.Contains(t, out, "ab")
}

func TestFlushTwoDisjointRunsEmitTwoCursorMoves(t *testing.T) {
	f := NewFlusher(10, 1)
	back := NewBuffer(10, 1)
	back.SetCell(0, 0, "a", DefaultStyle)
	back.SetCell(5, 0, "b", DefaultStyle)

	out := f.Flush(back, LevelTrueColor, nil)
	assert.Contains(t, out, ansi.CursorPosition(0, 0))
	assert.Contains(t, out, ansi.CursorPosition(5, 0))
}

func TestFlushWideCellSkipsContinuationWrite(t *testing.T) {
	f := NewFlusher(10, 1)
	back := NewBuffer(10, 1)
	back.SetCell(0, 0, "界", DefaultStyle)

	out := f.Flush(back, LevelTrueColor, nil)
	assert.Contains(t, out, "界")
}

func TestFlushZeroSizeBufferEmitsNothing(t *testing.T) {
	f := NewFlusher(0, 0)
	back := NewBuffer(0, 0)
	out := f.Flush(back, LevelTrueColor, nil)
	assert.Empty(t, out)
}

func TestPenAdditiveAttributeClear(t *testing.T) {
	p := &pen{}
	seq := p.transition(Style{Attrs: AttrBold}, LevelTrueColor)
	assert.Contains(t, seq, "1")

	// Removing bold must explicitly clear it, not rely on an implicit reset.
	seq = p.transition(Style{}, LevelTrueColor)
	assert.Contains(t, seq, "22")
}

func TestPenNoChangeEmitsNothing(t *testing.T) {
	p := &pen{}
	p.transition(Style{Attrs: AttrBold}, LevelTrueColor)
	seq := p.transition(Style{Attrs: AttrBold}, LevelTrueColor)
	assert.Empty(t, seq)
}
