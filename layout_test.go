package xtui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlexRowDistributionExample(t *testing.T) {
	items := []FlexItem{
		{Basis: 4, CrossSize: 1},
		{Basis: 0, CrossSize: 1, Flex: 1},
		{Basis: 0, CrossSize: 1, Flex: 2},
	}
	rects := Flex(items, NewRect(0, 0, 20, 1), FlexOptions{Direction: DirectionRow})

	assert.Equal(t, 0, rects[0].X)
	assert.Equal(t, 4, rects[0].Width)
	assert.Equal(t, 4, rects[1].X)
	assert.Equal(t, 5, rects[1].Width)
	assert.Equal(t, 9, rects[2].X)
	assert.Equal(t, 11, rects[2].Width)
}

func TestDockOrderingExample(t *testing.T) {
	layout := Dock([]DockItem{
		{Edge: DockTop, Size: 3},
		{Edge: DockLeft, Size: 10},
		{Edge: DockFill},
	})
	rects := layout(NewRect(0, 0, 50, 15))

	assert.Equal(t, NewRect(0, 0, 50, 3), rects[0])
	assert.Equal(t, NewRect(0, 3, 10, 12), rects[1])
	assert.Equal(t, NewRect(10, 3, 40, 12), rects[2])
}

func TestDockOrderingAlternateExample(t *testing.T) {
	layout := Dock([]DockItem{
		{Edge: DockLeft, Size: 10},
		{Edge: DockTop, Size: 3},
		{Edge: DockFill},
	})
	rects := layout(NewRect(0, 0, 50, 15))

	assert.Equal(t, NewRect(0, 0, 10, 15), rects[0])
	assert.Equal(t, NewRect(10, 0, 40, 3), rects[1])
	assert.Equal(t, NewRect(10, 3, 40, 12), rects[2])
}

func TestWrapItemsBreaksLineOnOverflow(t *testing.T) {
	items := []WrapItem{{Width: 4, Height: 1}, {Width: 4, Height: 1}, {Width: 4, Height: 2}}
	rects := WrapItems(items, NewRect(0, 0, 8, 10))

	assert.Equal(t, NewRect(0, 0, 4, 1), rects[0])
	assert.Equal(t, NewRect(4, 0, 4, 1), rects[1])
	assert.Equal(t, NewRect(0, 1, 4, 2), rects[2])
}

func TestFlexAllRectsContainedInParent(t *testing.T) {
	items := []FlexItem{{Basis: 3, CrossSize: 2}, {Basis: 0, CrossSize: 2, Flex: 1}}
	parent := NewRect(0, 0, 30, 5)
	rects := Flex(items, parent, FlexOptions{Direction: DirectionRow, Padding: Padding{Top: 1, Left: 1, Right: 1, Bottom: 1}})
	inner := (Padding{Top: 1, Left: 1, Right: 1, Bottom: 1}).Inner(parent)
	for _, r := range rects {
		assert.True(t, inner.Contains(r.X, r.Y))
	}
}
