package xtui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// pen tracks the flusher's current understanding of the terminal's active
// SGR state across a single Flush call (§4.2 step 3, GLOSSARY "Pen").
type pen struct {
	style Style
	set   bool
}

// transition returns the SGR sequence needed to move the pen from its
// current state to style at the given capability level, or "" if no change
// is needed. The pen is additive only within a run: attributes present in
// the old style but absent from the new one are explicitly cleared.
func (p *pen) transition(style Style, level Level) string {
	if p.set && p.style.Equal(style) {
		return ""
	}

	var params []string

	if !p.set || p.style.Foreground != style.Foreground {
		if seq := style.Foreground.sequence(level, false); seq != "" {
			params = append(params, seq)
		} else {
			params = append(params, "39")
		}
	}
	if !p.set || p.style.Background != style.Background {
		if seq := style.Background.sequence(level, true); seq != "" {
			params = append(params, seq)
		} else {
			params = append(params, "49")
		}
	}

	var prevAttrs Attr
	if p.set {
		prevAttrs = p.style.Attrs
	}
	cleared := prevAttrs &^ style.Attrs
	if cleared != 0 {
		if cleared.Has(AttrBold) || cleared.Has(AttrDim) {
			params = append(params, "22")
		}
		if cleared.Has(AttrItalic) {
			params = append(params, "23")
		}
		if cleared.Has(AttrUnderline) {
			params = append(params, "24")
		}
		if cleared.Has(AttrInverse) {
			params = append(params, "27")
		}
	}
	added := style.Attrs &^ prevAttrs
	if cleared.Has(AttrBold) || cleared.Has(AttrDim) {
		// SGR 22 resets both bold and dim; re-apply whichever the new style keeps.
		added |= style.Attrs & (AttrBold | AttrDim)
	}
	if added.Has(AttrBold) {
		params = append(params, "1")
	}
	if added.Has(AttrDim) {
		params = append(params, "2")
	}
	if added.Has(AttrItalic) {
		params = append(params, "3")
	}
	if added.Has(AttrUnderline) {
		params = append(params, "4")
	}
	if added.Has(AttrInverse) {
		params = append(params, "7")
	}

	p.style = style
	p.set = true

	if len(params) == 0 {
		return ""
	}
	return ansi.CSI + strings.Join(params, ";") + "m"
}

func (p *pen) fullReset() string {
	*p = pen{}
	return ansi.CSI + "0m"
}

// Flusher converts a (front, back) Buffer pair into the shortest correct
// ANSI sequence, per §4.2 (C2 Diff Flusher). It owns the front buffer: the
// front buffer is the source of truth for subsequent diffs and is mutated
// in place by Flush.
type Flusher struct {
	front *Buffer
}

// NewFlusher creates a flusher whose front buffer starts blank at the given
// size.
func NewFlusher(width, height int) *Flusher {
	return &Flusher{front: NewBuffer(width, height)}
}

// Resize grows or shrinks the front buffer to match a new back buffer size.
// The next Flush will therefore treat the whole grid as freshly dirty.
func (f *Flusher) Resize(width, height int) {
	f.front.Resize(width, height)
	f.front.Clear(DefaultStyle)
}

// Repaint marks the entire front buffer as stale so the next Flush
// re-emits every cell, regardless of the back buffer's dirty bitmap.
func (f *Flusher) Repaint() {
	for y := 0; y < f.front.Height(); y++ {
		for x := 0; x < f.front.Width(); x++ {
			f.front.cells[f.front.index(x, y)] = Cell{}
		}
	}
	for y := range f.front.dirty {
		f.front.dirty[y] = true
	}
}

// Flush diffs back against the flusher's front buffer at the given color
// capability level, returning the ANSI byte sequence to write. Rows marked
// dirty in neither back nor the front buffer (see Resize and Repaint) are
// skipped entirely. After Flush the front buffer equals back; back's dirty
// bits are left set, and the caller clears them with Buffer.ClearDirty once
// the bytes are written (§3 Dirty Set invariant (b)). On a TTY,
// Terminal.RenderFullscreen passes
// the returned sequence through compressor.Writer before it reaches the
// real output, the same wrapping teacher's standard_renderer.go applies to
// its own output writer — kept out of this method so Flush stays a pure
// function over (front, back) that tests can assert on byte-for-byte.
func (f *Flusher) Flush(back *Buffer, level Level, cursor *Position) string {
	if back.Width() != f.front.Width() || back.Height() != f.front.Height() {
		f.Resize(back.Width(), back.Height())
	}

	var buf strings.Builder
	p := &pen{}
	wroteAny := false

	for y := 0; y < back.height; y++ {
		if !back.dirty[y] && !f.front.dirty[y] {
			continue
		}
		x := 0
		for x < back.width {
			fc, _ := f.front.GetCell(x, y)
			bc, _ := back.GetCell(x, y)
			if fc.Equal(bc) {
				x++
				continue
			}

			if !wroteAny {
				buf.WriteString(p.fullReset())
				wroteAny = true
			}
			buf.WriteString(ansi.CursorPosition(x, y))

			for x < back.width {
				fc, _ := f.front.GetCell(x, y)
				bc, _ := back.GetCell(x, y)
				if fc.Equal(bc) {
					break
				}
				if bc.isContinuation() {
					x++
					continue
				}
				buf.WriteString(p.transition(bc.Style, level))
				buf.WriteString(bc.Grapheme)
				if bc.Width == 2 {
					x += 2
				} else {
					x++
				}
			}
		}

		copy(f.front.cells[y*f.front.width:(y+1)*f.front.width], back.cells[y*back.width:(y+1)*back.width])
		f.front.dirty[y] = false
	}

	if cursor != nil {
		if wroteAny || cursor.X != 0 || cursor.Y != 0 {
			buf.WriteString(ansi.CursorPosition(cursor.X, cursor.Y))
		}
	}

	return buf.String()
}
