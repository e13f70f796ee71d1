package xtui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeComponent struct {
	BaseComponent
	mountCount   int
	unmountCount int
	renderOut    Output
	panicOnRender bool
}

func (f *fakeComponent) Mount(*RenderContext) error { f.mountCount++; return nil }
func (f *fakeComponent) Unmount()                   { f.unmountCount++ }
func (f *fakeComponent) Render(*RenderContext) Output {
	if f.panicOnRender {
		panic("boom")
	}
	return f.renderOut
}

func TestTreeMountUnmountBalance(t *testing.T) {
	tree := NewTree()
	root := &fakeComponent{}
	rootID := tree.SetRoot(root, NewRect(0, 0, 10, 10))
	child := &fakeComponent{}
	childID, err := tree.AddChild(rootID, child, NodeOptions{}, NewRect(0, 0, 5, 5))
	require.NoError(t, err)

	require.NoError(t, tree.MountAll(&RenderContext{}))
	assert.Equal(t, 1, root.mountCount)
	assert.Equal(t, 1, child.mountCount)

	tree.UnmountAll()
	assert.Equal(t, 1, root.unmountCount)
	assert.Equal(t, 1, child.unmountCount)
	_, ok := tree.Component(childID)
	assert.False(t, ok)
}

func TestTreeDoubleMountIsLifecycleError(t *testing.T) {
	tree := NewTree()
	rootID := tree.SetRoot(&fakeComponent{}, NewRect(0, 0, 10, 10))
	require.NoError(t, tree.MountAll(&RenderContext{}))

	n := tree.nodes[rootID]
	n.mounted = false // simulate a caller re-invoking mount directly
	require.NoError(t, tree.mountSubtree(rootID, &RenderContext{}))
	n.mounted = true
	err := tree.mountSubtree(rootID, &RenderContext{})
	var lifeErr *LifecycleError
	assert.ErrorAs(t, err, &lifeErr)
}

func TestTreeRemoveChildUnmountsAndDeletes(t *testing.T) {
	tree := NewTree()
	rootID := tree.SetRoot(&fakeComponent{}, NewRect(0, 0, 10, 10))
	child := &fakeComponent{}
	childID, _ := tree.AddChild(rootID, child, NodeOptions{}, NewRect(0, 0, 5, 5))
	require.NoError(t, tree.MountAll(&RenderContext{}))

	require.NoError(t, tree.RemoveChild(childID))
	assert.Equal(t, 1, child.unmountCount)
	assert.Empty(t, tree.Children(rootID))
}

func TestTreeMarkDirtyAndClear(t *testing.T) {
	tree := NewTree()
	rootID := tree.SetRoot(&fakeComponent{}, NewRect(0, 0, 10, 10))
	assert.False(t, tree.AnyDirty())
	tree.MarkDirty(rootID)
	assert.True(t, tree.AnyDirty())
	tree.ClearDirty(rootID)
	assert.False(t, tree.AnyDirty())
}
