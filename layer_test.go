package xtui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticComponent struct {
	BaseComponent
	text   string
	handle bool
}

func (c *staticComponent) Render(*RenderContext) Output { return Output{Lines: []string{c.text}} }
func (c *staticComponent) HandleMouse(MouseEvent) bool  { return c.handle }

func TestZOrderCompositionExample(t *testing.T) {
	tree := NewTree()
	rootID := tree.SetRoot(&staticComponent{text: "   "}, NewRect(0, 0, 3, 1))
	a := &staticComponent{text: "AAA"}
	b := &staticComponent{text: "BBB"}
	_, err := tree.AddChild(rootID, a, NodeOptions{LocalZ: 0}, NewRect(0, 0, 3, 1))
	require.NoError(t, err)
	_, err = tree.AddChild(rootID, b, NodeOptions{LocalZ: 1}, NewRect(0, 0, 3, 1))
	require.NoError(t, err)

	layers := Snapshot(tree)
	back := NewBuffer(3, 1)
	errs := Composite(tree, layers, back, &RenderContext{})
	assert.Empty(t, errs)

	for x := 0; x < 3; x++ {
		cell, _ := back.GetCell(x, 0)
		assert.Equal(t, "B", cell.Grapheme)
	}
}

func TestCompositeClipsOverlengthLinesToBounds(t *testing.T) {
	tree := NewTree()
	rootID := tree.SetRoot(&staticComponent{text: "   "}, NewRect(0, 0, 3, 1))
	_, err := tree.AddChild(rootID, &staticComponent{text: "TOOLONG"}, NodeOptions{}, NewRect(0, 0, 3, 1))
	require.NoError(t, err)
	_, err = tree.AddChild(rootID, &staticComponent{text: "xxx"}, NodeOptions{LocalZ: -1}, NewRect(3, 0, 3, 1))
	require.NoError(t, err)

	layers := Snapshot(tree)
	back := NewBuffer(6, 1)
	errs := Composite(tree, layers, back, &RenderContext{})
	assert.Empty(t, errs)

	for x := 0; x < 3; x++ {
		cell, _ := back.GetCell(x, 0)
		assert.Equal(t, string("TOOLONG"[x]), cell.Grapheme)
	}
	for x := 3; x < 6; x++ {
		cell, _ := back.GetCell(x, 0)
		assert.Equal(t, "x", cell.Grapheme, "neighboring layer must not be corrupted by the over-length sibling")
	}
}

func TestCompositeDowngradesToASCIIWhenNotUnicodeSafe(t *testing.T) {
	tree := NewTree()
	tree.SetRoot(&staticComponent{text: "héllo"}, NewRect(0, 0, 5, 1))
	layers := Snapshot(tree)
	back := NewBuffer(5, 1)

	errs := Composite(tree, layers, back, &RenderContext{Capabilities: Capabilities{UnicodeSafe: false}})
	assert.Empty(t, errs)
	cell, _ := back.GetCell(1, 0)
	assert.Equal(t, "?", cell.Grapheme)
}

func TestHitTestPrefersHighestZ(t *testing.T) {
	tree := NewTree()
	rootID := tree.SetRoot(&staticComponent{}, NewRect(0, 0, 3, 1))
	a := &staticComponent{handle: true}
	b := &staticComponent{handle: true}
	_, _ = tree.AddChild(rootID, a, NodeOptions{LocalZ: 0}, NewRect(0, 0, 3, 1))
	bID, _ := tree.AddChild(rootID, b, NodeOptions{LocalZ: 1}, NewRect(0, 0, 3, 1))

	layers := Snapshot(tree)
	hit, ok := HitTest(tree, layers, MouseEvent{X: 1, Y: 0})
	require.True(t, ok)
	assert.Equal(t, bID, hit)
}

func TestHitTestFallsThroughWhenTopReturnsFalse(t *testing.T) {
	tree := NewTree()
	rootID := tree.SetRoot(&staticComponent{}, NewRect(0, 0, 3, 1))
	a := &staticComponent{handle: true}
	b := &staticComponent{handle: false}
	aID, _ := tree.AddChild(rootID, a, NodeOptions{LocalZ: 0}, NewRect(0, 0, 3, 1))
	_, _ = tree.AddChild(rootID, b, NodeOptions{LocalZ: 1}, NewRect(0, 0, 3, 1))

	layers := Snapshot(tree)
	hit, ok := HitTest(tree, layers, MouseEvent{X: 1, Y: 0})
	require.True(t, ok)
	assert.Equal(t, aID, hit)
}

func TestRenderPanicRecoversAsRenderError(t *testing.T) {
	tree := NewTree()
	rootID := tree.SetRoot(&fakeComponent{panicOnRender: true}, NewRect(0, 0, 10, 1))
	layers := Snapshot(tree)
	back := NewBuffer(10, 1)
	errs := Composite(tree, layers, back, &RenderContext{})
	require.Len(t, errs, 1)
	var renderErr *RenderError
	assert.ErrorAs(t, errs[0], &renderErr)
}

func TestGestureControllerDragClampsToParent(t *testing.T) {
	g := &GestureController{}
	tree := NewTree()
	rootID := tree.SetRoot(&staticComponent{}, NewRect(0, 0, 20, 20))
	child := &staticComponent{}
	childID, _ := tree.AddChild(rootID, child, NodeOptions{Draggable: true}, NewRect(5, 5, 4, 4))
	layers := Snapshot(tree)

	started := g.BeginIfApplicable(tree, layers, MouseEvent{Kind: MouseDown, X: 6, Y: 6})
	require.True(t, started)

	parentInner := NewRect(0, 0, 20, 20)
	id, bounds, consumed := g.Update(MouseEvent{Kind: MouseMotion, X: -100, Y: -100}, parentInner)
	require.True(t, consumed)
	assert.Equal(t, childID, id)
	assert.GreaterOrEqual(t, bounds.X, parentInner.X-bounds.Width+1)
	assert.GreaterOrEqual(t, bounds.Y, parentInner.Y-bounds.Height+1)
}

func TestGestureControllerResizeHandleSE(t *testing.T) {
	g := &GestureController{}
	tree := NewTree()
	rootID := tree.SetRoot(&staticComponent{}, NewRect(0, 0, 20, 20))
	_, _ = tree.AddChild(rootID, &staticComponent{}, NodeOptions{Resizable: true}, NewRect(2, 2, 6, 6))
	layers := Snapshot(tree)

	// Bottom-right corner of the child's bounds (2,2,6,6) is (7,7).
	started := g.BeginIfApplicable(tree, layers, MouseEvent{Kind: MouseDown, X: 7, Y: 7})
	require.True(t, started)

	_, bounds, consumed := g.Update(MouseEvent{Kind: MouseMotion, X: 9, Y: 9}, NewRect(0, 0, 20, 20))
	require.True(t, consumed)
	assert.Equal(t, 8, bounds.Width)
	assert.Equal(t, 8, bounds.Height)
}

func TestFocusRingAdvancesInDeclarationOrder(t *testing.T) {
	tree := NewTree()
	rootID := tree.SetRoot(&staticComponent{}, NewRect(0, 0, 10, 10))
	first, _ := tree.AddChild(rootID, &staticComponent{}, NodeOptions{Focusable: true}, NewRect(0, 0, 1, 1))
	second, _ := tree.AddChild(rootID, &staticComponent{}, NodeOptions{Focusable: true}, NewRect(1, 0, 1, 1))

	ring := BuildFocusRing(tree, Snapshot(tree))
	id, ok := ring.Next(false)
	require.True(t, ok)
	assert.Equal(t, first, id)

	id, ok = ring.Next(false)
	require.True(t, ok)
	assert.Equal(t, second, id)

	id, ok = ring.Next(true)
	require.True(t, ok)
	assert.Equal(t, first, id)
}
