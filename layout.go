package xtui

// Direction is a Flex container's main axis (§4.5).
type Direction int

const (
	DirectionRow Direction = iota
	DirectionColumn
	DirectionRowReverse
	DirectionColumnReverse
)

// Justify distributes free main-axis space among a Flex line's items.
type Justify int

const (
	JustifyStart Justify = iota
	JustifyEnd
	JustifyCenter
	JustifyBetween
	JustifyAround
	JustifyEvenly
)

// Align positions items on a Flex line's cross axis.
type Align int

const (
	AlignStart Align = iota
	AlignEnd
	AlignCenter
	AlignStretch
	AlignBaseline
)

// Wrap controls whether a Flex container breaks overflowing items onto new
// lines.
type Wrap int

const (
	NoWrap Wrap = iota
	DoWrap
)

// DockEdge is the edge a Dock child consumes space from (§4.5).
type DockEdge int

const (
	DockTop DockEdge = iota
	DockBottom
	DockLeft
	DockRight
	DockFill
)

// Padding is inset applied uniformly (or per-side) before laying out
// children.
type Padding struct {
	Top, Right, Bottom, Left int
}

// Inner returns rect shrunk by the padding, never producing negative
// dimensions.
func (p Padding) Inner(rect Rect) Rect {
	x := rect.X + p.Left
	y := rect.Y + p.Top
	w := rect.Width - p.Left - p.Right
	h := rect.Height - p.Top - p.Bottom
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return NewRect(x, y, w, h)
}

// FlexItem is one child measured for a Flex layout: Basis is its intrinsic
// main-axis size, CrossSize its intrinsic cross-axis size, and Flex its
// growth weight (0 = fixed size).
type FlexItem struct {
	Basis     int
	CrossSize int
	Flex      int
}

// FlexOptions configures a Flex container, per §4.5.
type FlexOptions struct {
	Direction Direction
	Justify   Justify
	Align     Align
	Wrap      Wrap
	Gap       int
	Padding   Padding
}

// isColumn reports whether the container's main axis is vertical.
func (o FlexOptions) isColumn() bool {
	return o.Direction == DirectionColumn || o.Direction == DirectionColumnReverse
}

func (o FlexOptions) isReverse() bool {
	return o.Direction == DirectionRowReverse || o.Direction == DirectionColumnReverse
}

// Flex resolves items into rectangles within rect, per §4.5's five-step
// algorithm. Returned rectangles are in the same order as items.
func Flex(items []FlexItem, rect Rect, opts FlexOptions) []Rect {
	inner := opts.Padding.Inner(rect)
	if len(items) == 0 {
		return nil
	}

	mainSize := inner.Width
	if opts.isColumn() {
		mainSize = inner.Height
	}

	lines := [][]int{}
	if opts.Wrap == NoWrap {
		idx := make([]int, len(items))
		for i := range items {
			idx[i] = i
		}
		lines = append(lines, idx)
	} else {
		lines = wrapIntoLines(items, mainSize, opts.Gap)
	}

	results := make([]Rect, len(items))
	crossOffset := 0
	for _, line := range lines {
		lineCrossSize := 0
		for _, i := range line {
			if items[i].CrossSize > lineCrossSize {
				lineCrossSize = items[i].CrossSize
			}
		}

		lineRects := layoutFlexLine(items, line, mainSize, lineCrossSize, opts)
		for j, i := range line {
			results[i] = placeFlexRect(lineRects[j], inner, opts, crossOffset)
		}
		crossOffset += lineCrossSize + opts.Gap
	}
	return results
}

func wrapIntoLines(items []FlexItem, mainSize, gap int) [][]int {
	var lines [][]int
	var current []int
	used := 0
	for i, item := range items {
		size := item.Basis
		add := size
		if len(current) > 0 {
			add += gap
		}
		if len(current) > 0 && used+add > mainSize {
			lines = append(lines, current)
			current = []int{i}
			used = size
			continue
		}
		current = append(current, i)
		used += add
	}
	if len(current) > 0 {
		lines = append(lines, current)
	}
	return lines
}

// layoutFlexLine positions one line's items along the main axis (step 2-5
// of §4.5), returning main-axis-oriented rects with Y always 0 and X the
// main-axis position; placeFlexRect rotates these into the container's
// actual axis and applies the cross-axis offset.
func layoutFlexLine(items []FlexItem, line []int, mainSize, lineCrossSize int, opts FlexOptions) []Rect {
	fixedSum := 0
	weightSum := 0
	for _, i := range line {
		if items[i].Flex > 0 {
			weightSum += items[i].Flex
		} else {
			fixedSum += items[i].Basis
		}
	}
	gapTotal := opts.Gap * maxInt(0, len(line)-1)
	free := mainSize - fixedSum - gapTotal
	if free < 0 {
		free = 0
	}

	sizes := make([]int, len(line))
	if weightSum > 0 {
		allocated := 0
		type rem struct {
			idx   int
			frac  int
			denom int
		}
		var remainders []rem
		for j, i := range line {
			if items[i].Flex <= 0 {
				sizes[j] = items[i].Basis
				continue
			}
			share := free * items[i].Flex / weightSum
			sizes[j] = share
			allocated += share
			remainders = append(remainders, rem{idx: j, frac: free * items[i].Flex % weightSum, denom: weightSum})
		}
		leftover := free - allocated
		// Remainder distribution favors the highest-weight children in tree order.
		for k := 0; k < leftover && len(remainders) > 0; k++ {
			best := 0
			for m := 1; m < len(remainders); m++ {
				if items[line[remainders[m].idx]].Flex > items[line[remainders[best].idx]].Flex {
					best = m
				}
			}
			sizes[remainders[best].idx]++
			remainders = append(remainders[:best], remainders[best+1:]...)
		}
	} else {
		for j, i := range line {
			sizes[j] = items[i].Basis
		}
	}

	totalUsed := 0
	for _, s := range sizes {
		totalUsed += s
	}
	totalUsed += gapTotal
	slack := mainSize - totalUsed
	if slack < 0 {
		slack = 0
	}

	leadGap, betweenGap := justifyGaps(opts.Justify, slack, len(line))

	rects := make([]Rect, len(line))
	pos := leadGap
	for j := range line {
		rects[j] = Rect{X: pos, Y: 0, Width: sizes[j], Height: lineCrossSize}
		pos += sizes[j] + opts.Gap + betweenGap
	}
	if opts.isReverse() {
		reverseRects(rects, mainSize)
	}
	return rects
}

func justifyGaps(j Justify, slack, count int) (lead, between int) {
	switch j {
	case JustifyStart:
		return 0, 0
	case JustifyEnd:
		return slack, 0
	case JustifyCenter:
		return slack / 2, 0
	case JustifyBetween:
		if count <= 1 {
			return 0, 0
		}
		return 0, slack / (count - 1)
	case JustifyAround:
		if count == 0 {
			return 0, 0
		}
		each := slack / count
		return each / 2, each
	case JustifyEvenly:
		each := slack / (count + 1)
		return each, each
	}
	return 0, 0
}

func reverseRects(rects []Rect, mainSize int) {
	for i := range rects {
		rects[i].X = mainSize - rects[i].X - rects[i].Width
	}
}

// placeFlexRect rotates a main-axis-oriented rect (X=main position, Y=0)
// into the container's actual coordinate space, applying align policy on
// the cross axis and offsetting by lineCrossOffset for multi-line wraps.
func placeFlexRect(r Rect, inner Rect, opts FlexOptions, lineCrossOffset int) Rect {
	crossSize := inner.Height
	if opts.isColumn() {
		crossSize = inner.Width
	}

	crossPos := lineCrossOffset
	h := r.Height
	switch opts.Align {
	case AlignStart:
	case AlignEnd:
		crossPos += crossSize - r.Height
	case AlignCenter:
		crossPos += (crossSize - r.Height) / 2
	case AlignStretch, AlignBaseline:
		h = crossSize
	}

	if opts.isColumn() {
		return NewRect(inner.X+crossPos, inner.Y+r.X, h, r.Width)
	}
	return NewRect(inner.X+r.X, inner.Y+crossPos, r.Width, h)
}

// DockItem is one child to place in a Dock container.
type DockItem struct {
	Edge DockEdge
	Size int // ignored for DockFill
}

// Dock resolves items into rectangles by consuming edges of rect in
// declaration order (§4.5 example #4). Multiple fill items all receive the
// same final remainder rectangle.
func Dock(items []DockItem) func(rect Rect) []Rect {
	return func(rect Rect) []Rect {
		remaining := rect
		results := make([]Rect, len(items))
		fillIdx := []int{}

		for i, item := range items {
			switch item.Edge {
			case DockTop:
				h := minInt(item.Size, remaining.Height)
				results[i] = NewRect(remaining.X, remaining.Y, remaining.Width, h)
				remaining = NewRect(remaining.X, remaining.Y+h, remaining.Width, remaining.Height-h)
			case DockBottom:
				h := minInt(item.Size, remaining.Height)
				results[i] = NewRect(remaining.X, remaining.Y+remaining.Height-h, remaining.Width, h)
				remaining = NewRect(remaining.X, remaining.Y, remaining.Width, remaining.Height-h)
			case DockLeft:
				w := minInt(item.Size, remaining.Width)
				results[i] = NewRect(remaining.X, remaining.Y, w, remaining.Height)
				remaining = NewRect(remaining.X+w, remaining.Y, remaining.Width-w, remaining.Height)
			case DockRight:
				w := minInt(item.Size, remaining.Width)
				results[i] = NewRect(remaining.X+remaining.Width-w, remaining.Y, w, remaining.Height)
				remaining = NewRect(remaining.X, remaining.Y, remaining.Width-w, remaining.Height)
			case DockFill:
				fillIdx = append(fillIdx, i)
			}
		}
		for _, i := range fillIdx {
			results[i] = remaining
		}
		return results
	}
}

// WrapItem is one item measured for a Wrap container.
type WrapItem struct {
	Width, Height int
}

// WrapItems places items left-to-right inside rect, starting a new line
// whenever the next item would exceed the available width (§4.5).
func WrapItems(items []WrapItem, rect Rect) []Rect {
	results := make([]Rect, len(items))
	x, y := rect.X, rect.Y
	lineHeight := 0
	for i, item := range items {
		if x != rect.X && x+item.Width > rect.X+rect.Width {
			x = rect.X
			y += lineHeight
			lineHeight = 0
		}
		results[i] = NewRect(x, y, item.Width, item.Height)
		x += item.Width
		if item.Height > lineHeight {
			lineHeight = item.Height
		}
	}
	return results
}
