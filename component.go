package xtui

import "fmt"

// ComponentID identifies a node in the component arena (§9 "Circular
// references"): parent/child edges are ID pairs, never owning
// back-pointers.
type ComponentID uint64

// Output is a component's rendered frame: a finite, non-restartable
// sequence of lines plus an optional requested cursor position (§9
// "Iterator-based line production" — treated as a value, not a stream).
type Output struct {
	Lines  []string
	Cursor *Position
}

// Component is the capability surface every node in the tree implements
// (§4.6, §9 "Dynamic shapes and duck-typed options").
type Component interface {
	Mount(ctx *RenderContext) error
	Unmount()
	Render(ctx *RenderContext) Output
	HandleKey(ev KeyEvent) bool
	HandleMouse(ev MouseEvent) bool
	OnResize(width, height int)
}

// BaseComponent gives embedders no-op defaults for the parts of the
// Component contract they don't care about.
type BaseComponent struct{}

func (BaseComponent) Mount(*RenderContext) error     { return nil }
func (BaseComponent) Unmount()                       {}
func (BaseComponent) HandleKey(KeyEvent) bool        { return false }
func (BaseComponent) HandleMouse(MouseEvent) bool    { return false }
func (BaseComponent) OnResize(int, int)              {}

// NodeOptions configures a node's placement in the z-order and its
// gesture capabilities (§4.6).
type NodeOptions struct {
	LocalZ     int
	Draggable  bool
	Resizable  bool
	Focusable  bool
}

type node struct {
	id       ComponentID
	parent   ComponentID
	hasParent bool
	children []ComponentID
	component Component
	opts      NodeOptions
	bounds    Rect // relative to parent; absolute bounds are computed by the layer manager
	mounted   bool
	dirty     bool
}

// Tree is the component arena (C6): components are indexed by stable ID,
// parent/child edges are plain ID references, and unmount removes IDs
// from the arena rather than relying on reachability.
type Tree struct {
	nodes  map[ComponentID]*node
	nextID ComponentID
	root   ComponentID
	hasRoot bool
}

// NewTree creates an empty arena.
func NewTree() *Tree {
	return &Tree{nodes: make(map[ComponentID]*node)}
}

// SetRoot installs c as the tree's root component, replacing any existing
// root. The root has no parent and LocalZ is always treated as 0.
func (t *Tree) SetRoot(c Component, bounds Rect) ComponentID {
	id := t.alloc(c, NodeOptions{}, bounds)
	t.root = id
	t.hasRoot = true
	return id
}

// Root returns the tree's root ID, or (0, false) if none was set.
func (t *Tree) Root() (ComponentID, bool) { return t.root, t.hasRoot }

func (t *Tree) alloc(c Component, opts NodeOptions, bounds Rect) ComponentID {
	t.nextID++
	id := t.nextID
	t.nodes[id] = &node{id: id, component: c, opts: opts, bounds: bounds}
	return id
}

// AddChild registers c as a child of parent, emitting no event object per
// se (the engine observes the tree change on the next composite) but
// documented here as the childAdded hook point (§4.6).
func (t *Tree) AddChild(parent ComponentID, c Component, opts NodeOptions, bounds Rect) (ComponentID, error) {
	p, ok := t.nodes[parent]
	if !ok {
		return 0, &LifecycleError{Op: "add_child", ID: fmt.Sprint(parent), Msg: "parent not in tree"}
	}
	id := t.alloc(c, opts, bounds)
	t.nodes[id].parent = parent
	t.nodes[id].hasParent = true
	p.children = append(p.children, id)
	return id, nil
}

// RemoveChild unmounts id's subtree (post-order) and removes every node in
// it from the arena — the childRemoved hook point (§4.6).
func (t *Tree) RemoveChild(id ComponentID) error {
	n, ok := t.nodes[id]
	if !ok {
		return &LifecycleError{Op: "remove_child", ID: fmt.Sprint(id), Msg: "not in tree"}
	}
	t.unmountSubtree(id)
	if n.hasParent {
		if p, ok := t.nodes[n.parent]; ok {
			p.children = removeID(p.children, id)
		}
	}
	return nil
}

func removeID(ids []ComponentID, target ComponentID) []ComponentID {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// Component returns the component stored at id.
func (t *Tree) Component(id ComponentID) (Component, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, false
	}
	return n.component, true
}

// Children returns id's children in declaration order.
func (t *Tree) Children(id ComponentID) []ComponentID {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	return n.children
}

// Options returns the NodeOptions a node was registered with.
func (t *Tree) Options(id ComponentID) NodeOptions {
	if n, ok := t.nodes[id]; ok {
		return n.opts
	}
	return NodeOptions{}
}

// Bounds returns a node's bounds, relative to its parent's origin.
func (t *Tree) Bounds(id ComponentID) Rect {
	if n, ok := t.nodes[id]; ok {
		return n.bounds
	}
	return Rect{}
}

// SetBounds updates a node's parent-relative bounds and notifies the
// component via OnResize when its size changed.
func (t *Tree) SetBounds(id ComponentID, bounds Rect) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	changed := n.bounds.Width != bounds.Width || n.bounds.Height != bounds.Height
	n.bounds = bounds
	if changed {
		n.component.OnResize(bounds.Width, bounds.Height)
	}
}

// MarkDirty flags id's component as needing composition. Per §4.6, dirty
// propagation does not climb to ancestors — the engine recomposites the
// whole layer set whenever any node is dirty.
func (t *Tree) MarkDirty(id ComponentID) {
	if n, ok := t.nodes[id]; ok {
		n.dirty = true
	}
}

// ClearDirty clears id's dirty flag, normally called only after a
// successful (non-errored) render of that component.
func (t *Tree) ClearDirty(id ComponentID) {
	if n, ok := t.nodes[id]; ok {
		n.dirty = false
	}
}

// AnyDirty reports whether any node in the tree is dirty.
func (t *Tree) AnyDirty() bool {
	for _, n := range t.nodes {
		if n.dirty {
			return true
		}
	}
	return false
}

// MountAll mounts the tree pre-order from root, returning a LifecycleError
// on the first double-mount it finds (§4.6).
func (t *Tree) MountAll(ctx *RenderContext) error {
	if !t.hasRoot {
		return nil
	}
	return t.mountSubtree(t.root, ctx)
}

func (t *Tree) mountSubtree(id ComponentID, ctx *RenderContext) error {
	n, ok := t.nodes[id]
	if !ok {
		return nil
	}
	if n.mounted {
		return &LifecycleError{Op: "mount", ID: fmt.Sprint(id), Msg: "already mounted"}
	}
	if err := n.component.Mount(ctx); err != nil {
		return err
	}
	n.mounted = true
	for _, child := range n.children {
		if err := t.mountSubtree(child, ctx); err != nil {
			return err
		}
	}
	return nil
}

// UnmountAll tears down the whole tree post-order (leaf-first), per §5's
// stop() contract.
func (t *Tree) UnmountAll() {
	if !t.hasRoot {
		return
	}
	t.unmountSubtree(t.root)
}

func (t *Tree) unmountSubtree(id ComponentID) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	for _, child := range n.children {
		t.unmountSubtree(child)
	}
	if n.mounted {
		n.component.Unmount()
		n.mounted = false
	}
	delete(t.nodes, id)
}
