package xtui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/rivo/uniseg"
)

// Layer is one entry in a composited snapshot: a component's absolute
// bounds and effective z, per §4.6.
type Layer struct {
	ID          ComponentID
	Bounds      Rect // absolute, in root coordinates
	EffectiveZ  int
	PreorderIdx int
}

// Snapshot walks the tree pre-order, computing each node's absolute bounds
// and effective_z (parent's effective_z + local z), then stably sorts the
// result ascending by effective_z with ties preserving pre-order (§4.6).
// Composition and hit-testing both operate on a Snapshot rather than
// walking the tree directly, satisfying the "layer order determinism"
// property (§8).
func Snapshot(t *Tree) []Layer {
	root, ok := t.Root()
	if !ok {
		return nil
	}
	var layers []Layer
	idx := 0
	var walk func(id ComponentID, origin Position, parentZ int)
	walk = func(id ComponentID, origin Position, parentZ int) {
		bounds := t.Bounds(id)
		abs := NewRect(origin.X+bounds.X, origin.Y+bounds.Y, bounds.Width, bounds.Height)
		z := parentZ + t.Options(id).LocalZ
		layers = append(layers, Layer{ID: id, Bounds: abs, EffectiveZ: z, PreorderIdx: idx})
		idx++
		for _, child := range t.Children(id) {
			walk(child, Position{X: abs.X, Y: abs.Y}, z)
		}
	}
	walk(root, Position{}, 0)

	sort.SliceStable(layers, func(i, j int) bool {
		return layers[i].EffectiveZ < layers[j].EffectiveZ
	})
	return layers
}

// Composite renders every layer (lowest to highest z) and overlays its
// output onto back at its absolute position. Space characters are opaque:
// they overwrite whatever was composited beneath them, matching §4.6's
// "space is not transparent" rule. A panic recovered from a component's
// Render is reported as a RenderError and surfaces as a one-line inverse
// banner in that component's region, without aborting the rest of the
// frame (§7).
func Composite(t *Tree, layers []Layer, back *Buffer, ctx *RenderContext) []error {
	var errs []error
	for _, layer := range layers {
		c, ok := t.Component(layer.ID)
		if !ok {
			continue
		}
		out, err := renderSafely(c, ctx, layer.ID)
		if err != nil {
			errs = append(errs, err)
			drawErrorBanner(back, layer.Bounds, err)
			continue
		}
		t.ClearDirty(layer.ID)
		drawOutput(back, layer.Bounds, out, ctx)
	}
	return errs
}

func renderSafely(c Component, ctx *RenderContext, id ComponentID) (out Output, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &RenderError{ComponentID: fmt.Sprint(id), Cause: panicToError(r)}
		}
	}()
	out = c.Render(ctx)
	return out, nil
}

func panicToError(r interface{}) error {
	if e, ok := r.(error); ok {
		return e
	}
	return fmt.Errorf("%v", r)
}

// drawOutput blits a component's rendered lines into back, confined to its
// own bounds: lines are clipped to bounds.Width so an over-length line from
// a misbehaving component cannot spill into a neighboring layer's cells
// (§4.1 buffer safety extended to layer compositing), and downgraded to
// ASCII substitutes when the host terminal was detected as not safely
// rendering Unicode (§4.3 capability table).
func drawOutput(back *Buffer, bounds Rect, out Output, ctx *RenderContext) {
	style := Style{}
	unicodeSafe := ctx == nil || ctx.Capabilities.UnicodeSafe
	for row, line := range out.Lines {
		y := bounds.Y + row
		if y < 0 || y >= bounds.Bottom() {
			continue
		}
		line = clipToWidth(line, bounds.Width)
		if !unicodeSafe {
			line = asciiFallback(line)
		}
		back.DrawText(bounds.X, y, line, style)
	}
}

// clipToWidth truncates str to the grapheme clusters that fit within width
// terminal columns.
func clipToWidth(str string, width int) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	used := 0
	gr := uniseg.NewGraphemes(str)
	for gr.Next() {
		cluster := gr.Str()
		w := ansi.StringWidth(cluster)
		if w <= 0 {
			w = 1
		}
		if used+w > width {
			break
		}
		b.WriteString(cluster)
		used += w
	}
	return b.String()
}

// asciiFallback replaces every rune outside the printable ASCII range,
// except tab, with "?", the substitute §4.3 calls for on hosts that were
// not detected as Unicode-safe.
func asciiFallback(str string) string {
	var b strings.Builder
	for _, r := range str {
		if r == '\t' || (r >= 0x20 && r < 0x7F) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('?')
	}
	return b.String()
}

func drawErrorBanner(back *Buffer, bounds Rect, err error) {
	style := Style{Foreground: RGB(255, 0, 0), Attrs: AttrInverse}
	back.DrawText(bounds.X, bounds.Y, clipToWidth("render error: "+err.Error(), bounds.Width), style)
}

// HitTest iterates layers from highest to lowest effective_z, dispatching
// the mouse event to the first component whose absolute bounds contain
// (x, y) and that returns true from HandleMouse (§4.6, §8 "Hit-test
// coverage").
func HitTest(t *Tree, layers []Layer, ev MouseEvent) (ComponentID, bool) {
	for i := len(layers) - 1; i >= 0; i-- {
		layer := layers[i]
		if !layer.Bounds.Contains(ev.X, ev.Y) {
			continue
		}
		c, ok := t.Component(layer.ID)
		if !ok {
			continue
		}
		if c.HandleMouse(ev) {
			return layer.ID, true
		}
	}
	return 0, false
}

// resizeHandle is one of the eight bands around a resizable component's
// edges (§4.6).
type resizeHandle int

const (
	handleNone resizeHandle = iota
	handleN
	handleS
	handleE
	handleW
	handleNE
	handleNW
	handleSE
	handleSW
)

const handleBand = 1 // cells wide

// classifyHandle returns which resize handle (x, y) falls in relative to
// bounds, or handleNone if (x, y) is in the body or outside the bounds
// entirely.
func classifyHandle(bounds Rect, x, y int) resizeHandle {
	if !bounds.Contains(x, y) {
		return handleNone
	}
	top := y < bounds.Y+handleBand
	bottom := y >= bounds.Bottom()-handleBand
	left := x < bounds.X+handleBand
	right := x >= bounds.Right()-handleBand

	switch {
	case top && left:
		return handleNW
	case top && right:
		return handleNE
	case bottom && left:
		return handleSW
	case bottom && right:
		return handleSE
	case top:
		return handleN
	case bottom:
		return handleS
	case left:
		return handleW
	case right:
		return handleE
	}
	return handleNone
}

// gestureKind distinguishes a drag from a resize gesture in progress.
type gestureKind int

const (
	gestureNone gestureKind = iota
	gestureDrag
	gestureResize
)

// gesture tracks an in-progress drag or resize started by a mousedown
// inside a draggable/resizable component's bounds (§4.6). Only one gesture
// can be active at a time, matching the single-focus/single-pointer model
// assumed throughout §5.
type gesture struct {
	kind       gestureKind
	target     ComponentID
	handle     resizeHandle
	originX    int
	originY    int
	origBounds Rect
}

// GestureController implements the drag/resize state machine. It is only
// active in fullscreen mode; inline mode must not feed one
// (§4.6 "Inline mode rejects drag/resize").
type GestureController struct {
	active gesture
}

// BeginIfApplicable inspects a mousedown against layers
// (highest to lowest z, consistent with hit-testing) and starts a drag or
// resize gesture if the topmost containing component allows it. It is the
// engine-first precedence decision for the open question in §9: the
// gesture controller checks before the component's own HandleMouse runs,
// so a draggable/resizable component does not also receive the initiating
// mousedown as a normal click.
func (g *GestureController) BeginIfApplicable(t *Tree, layers []Layer, ev MouseEvent) bool {
	if ev.Kind != MouseDown {
		return false
	}
	for i := len(layers) - 1; i >= 0; i-- {
		layer := layers[i]
		if !layer.Bounds.Contains(ev.X, ev.Y) {
			continue
		}
		opts := t.Options(layer.ID)
		if opts.Resizable {
			if h := classifyHandle(layer.Bounds, ev.X, ev.Y); h != handleNone {
				g.active = gesture{kind: gestureResize, target: layer.ID, handle: h, originX: ev.X, originY: ev.Y, origBounds: layer.Bounds}
				return true
			}
		}
		if opts.Draggable {
			g.active = gesture{kind: gestureDrag, target: layer.ID, originX: ev.X, originY: ev.Y, origBounds: layer.Bounds}
			return true
		}
		return false
	}
	return false
}

// Update applies a move/release event to the active gesture, if any,
// returning the target's new bounds and whether a gesture consumed the
// event. The bounds are absolute (root coordinates, like the layer
// snapshot), not parent-relative. parentInner is the parent's inner rect in
// the same absolute coordinates, used to enforce the "at least one cell
// inside the parent" drag constraint.
func (g *GestureController) Update(ev MouseEvent, parentInner Rect) (ComponentID, Rect, bool) {
	if g.active.kind == gestureNone {
		return 0, Rect{}, false
	}
	dx := ev.X - g.active.originX
	dy := ev.Y - g.active.originY

	var result Rect
	switch g.active.kind {
	case gestureDrag:
		result = g.active.origBounds.Add(dx, dy)
		result = clampDragBounds(result, parentInner)
	case gestureResize:
		result = applyResize(g.active.origBounds, g.active.handle, dx, dy)
	}

	target := g.active.target
	if ev.Kind == MouseUp {
		g.active = gesture{}
	}
	return target, result, true
}

// Active reports whether a gesture is currently in progress.
func (g *GestureController) Active() bool { return g.active.kind != gestureNone }

func clampDragBounds(r Rect, parent Rect) Rect {
	minX := parent.X - r.Width + 1
	maxX := parent.Right() - 1
	minY := parent.Y - r.Height + 1
	maxY := parent.Bottom() - 1
	if r.X < minX {
		r.X = minX
	}
	if r.X > maxX {
		r.X = maxX
	}
	if r.Y < minY {
		r.Y = minY
	}
	if r.Y > maxY {
		r.Y = maxY
	}
	return r
}

func applyResize(orig Rect, h resizeHandle, dx, dy int) Rect {
	r := orig
	switch h {
	case handleN:
		r.Y += dy
		r.Height -= dy
	case handleS:
		r.Height += dy
	case handleE:
		r.Width += dx
	case handleW:
		r.X += dx
		r.Width -= dx
	case handleNE:
		r.Y += dy
		r.Height -= dy
		r.Width += dx
	case handleNW:
		r.Y += dy
		r.Height -= dy
		r.X += dx
		r.Width -= dx
	case handleSE:
		r.Height += dy
		r.Width += dx
	case handleSW:
		r.Height += dy
		r.X += dx
		r.Width -= dx
	}
	if r.Width < 1 {
		r.Width = 1
	}
	if r.Height < 1 {
		r.Height = 1
	}
	return r
}

// FocusRing implements declaration-order focus traversal among focusable
// components (§4.6).
type FocusRing struct {
	order   []ComponentID
	current int
	has     bool
}

// BuildFocusRing collects focusable components from a snapshot, in
// ascending pre-order (declaration order), for Tab/Shift-Tab traversal.
func BuildFocusRing(t *Tree, layers []Layer) *FocusRing {
	sorted := append([]Layer(nil), layers...)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].PreorderIdx < sorted[i].PreorderIdx {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	ring := &FocusRing{}
	for _, l := range sorted {
		if t.Options(l.ID).Focusable {
			ring.order = append(ring.order, l.ID)
		}
	}
	return ring
}

// Focused returns the currently focused component, if any.
func (r *FocusRing) Focused() (ComponentID, bool) {
	if !r.has || len(r.order) == 0 {
		return 0, false
	}
	return r.order[r.current], true
}

// Next advances focus forward (Tab) or backward (Shift-Tab).
func (r *FocusRing) Next(reverse bool) (ComponentID, bool) {
	if len(r.order) == 0 {
		return 0, false
	}
	if !r.has {
		r.has = true
		r.current = 0
		return r.order[0], true
	}
	if reverse {
		r.current = (r.current - 1 + len(r.order)) % len(r.order)
	} else {
		r.current = (r.current + 1) % len(r.order)
	}
	return r.order[r.current], true
}
