package xtui

// Attr is a bitmask of text attributes applied to a Cell.
type Attr uint8

// Text attributes supported by the cell grid.
const (
	AttrBold Attr = 1 << iota
	AttrItalic
	AttrUnderline
	AttrDim
	AttrInverse
)

// Has reports whether a contains all of the given attributes.
func (a Attr) Has(other Attr) bool {
	return a&other == other
}

// Style bundles a Cell's foreground/background color and text attributes.
type Style struct {
	Foreground Color
	Background Color
	Attrs      Attr
}

// Equal reports whether two styles resolve to the same appearance.
func (s Style) Equal(o Style) bool {
	return s.Foreground == o.Foreground && s.Background == o.Background && s.Attrs == o.Attrs
}

// DefaultStyle is the zero-value style: default colors, no attributes.
var DefaultStyle = Style{}

// Cell is the atomic unit of the grid: one grapheme cluster (1 or 2 columns
// wide), its colors, and its attributes. A wide cell (Width == 2) is
// followed by a continuation cell (Width == 0, empty Grapheme) that the
// diff flusher skips over.
type Cell struct {
	Grapheme string
	Width    int
	Style    Style
}

// Equal reports whether two cells are visually identical.
func (c Cell) Equal(o Cell) bool {
	return c.Grapheme == o.Grapheme && c.Width == o.Width && c.Style.Equal(o.Style)
}

// blankCell returns a single-width space cell carrying the given style.
func blankCell(style Style) Cell {
	return Cell{Grapheme: " ", Width: 1, Style: style}
}

// continuationCell marks the second column of a wide glyph. It carries no
// content of its own; the flusher must never write it directly.
func continuationCell(style Style) Cell {
	return Cell{Grapheme: "", Width: 0, Style: style}
}

// isContinuation reports whether c is the trailing half of a wide cell.
func (c Cell) isContinuation() bool {
	return c.Width == 0
}
