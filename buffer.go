package xtui

import (
	"github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"
)

// Buffer is a width x height grid of styled Cells with a per-row dirty
// bitmap, as described in §3/§4.1 (C1 Cell Buffer).
type Buffer struct {
	width, height int
	cells         []Cell
	dirty         []bool
}

// NewBuffer allocates a buffer of the given size, blank-filled.
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{}
	b.resizeTo(width, height)
	return b
}

// Width returns the buffer's column count.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer's row count.
func (b *Buffer) Height() int { return b.height }

func (b *Buffer) index(x, y int) int { return y*b.width + x }

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.width && y < b.height
}

func (b *Buffer) markDirty(y int) {
	if y >= 0 && y < len(b.dirty) {
		b.dirty[y] = true
	}
}

// DirtyRows returns the indices of rows marked dirty since the last call to
// ClearDirty.
func (b *Buffer) DirtyRows() []int {
	var rows []int
	for y, d := range b.dirty {
		if d {
			rows = append(rows, y)
		}
	}
	return rows
}

// ClearDirty clears every row's dirty bit.
func (b *Buffer) ClearDirty() {
	for y := range b.dirty {
		b.dirty[y] = false
	}
}

// Clear fills every cell with a space in the given style and marks every
// row dirty.
func (b *Buffer) Clear(style Style) {
	blank := blankCell(style)
	for i := range b.cells {
		b.cells[i] = blank
	}
	for y := range b.dirty {
		b.dirty[y] = true
	}
}

// GetCell returns the cell at (x, y) and whether the coordinates were in
// bounds.
func (b *Buffer) GetCell(x, y int) (Cell, bool) {
	if !b.inBounds(x, y) {
		return Cell{}, false
	}
	return b.cells[b.index(x, y)], true
}

// SetCell writes one grapheme cluster at (x, y). Out-of-range coordinates
// are a silent no-op (§4.1 buffer safety). A double-width grapheme writes a
// continuation cell at x+1; if that would fall outside the row, the glyph
// is replaced by a single blank cell instead of spilling (§4.1 wide-char
// policy).
func (b *Buffer) SetCell(x, y int, grapheme string, style Style) {
	if !b.inBounds(x, y) {
		return
	}
	w := ansi.StringWidth(grapheme)
	if w <= 0 {
		w = 1
	}
	if w > 2 {
		w = 2
	}
	if w == 2 {
		if x+1 >= b.width {
			b.cells[b.index(x, y)] = blankCell(style)
			b.markDirty(y)
			return
		}
		b.cells[b.index(x, y)] = Cell{Grapheme: grapheme, Width: 2, Style: style}
		b.cells[b.index(x+1, y)] = continuationCell(style)
		b.markDirty(y)
		return
	}
	b.cells[b.index(x, y)] = Cell{Grapheme: grapheme, Width: 1, Style: style}
	b.markDirty(y)
}

// FillRect fills the intersection of rect and the buffer with glyph in the
// given style.
func (b *Buffer) FillRect(rect Rect, style Style, glyph string) {
	if glyph == "" {
		glyph = " "
	}
	r := rect.Intersect(Rect{X: 0, Y: 0, Width: b.width, Height: b.height})
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			b.SetCell(x, y, glyph, style)
		}
	}
}

// controlGlyph replaces ASCII control characters per §4.1.
const controlGlyph = "·" // "·"

// DrawText draws str starting at (x, y), iterating Unicode grapheme
// clusters. Each cluster's terminal width (1 or 2) is measured; drawing
// stops at the row edge. Tabs expand to the next 8-column stop; control
// characters are replaced with "·".
func (b *Buffer) DrawText(x, y int, str string, style Style) {
	if !b.inBounds(0, y) {
		return
	}
	cursor := x
	gr := uniseg.NewGraphemes(str)
	for gr.Next() {
		if cursor >= b.width {
			return
		}
		cluster := gr.Str()
		if cluster == "\t" {
			next := (cursor/8 + 1) * 8
			if next > b.width {
				next = b.width
			}
			for cursor < next {
				b.SetCell(cursor, y, " ", style)
				cursor++
			}
			continue
		}
		if len(cluster) == 1 && cluster[0] < 0x20 {
			b.SetCell(cursor, y, controlGlyph, style)
			cursor++
			continue
		}
		w := ansi.StringWidth(cluster)
		if w <= 0 {
			continue
		}
		b.SetCell(cursor, y, cluster, style)
		cursor += w
	}
}

// Resize allocates a new grid of the given size, copying the overlapping
// top-left region from the old grid. Extra area is blank-filled; rows
// beyond the new height are discarded.
func (b *Buffer) Resize(width, height int) {
	old := b.cells
	oldW, oldH := b.width, b.height
	b.resizeTo(width, height)
	if old == nil {
		return
	}
	minW, minH := minInt(oldW, width), minInt(oldH, height)
	for y := 0; y < minH; y++ {
		for x := 0; x < minW; x++ {
			b.cells[y*width+x] = old[y*oldW+x]
		}
	}
}

func (b *Buffer) resizeTo(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b.width, b.height = width, height
	b.cells = make([]Cell, width*height)
	blank := blankCell(DefaultStyle)
	for i := range b.cells {
		b.cells[i] = blank
	}
	b.dirty = make([]bool, height)
	for i := range b.dirty {
		b.dirty[i] = true
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
