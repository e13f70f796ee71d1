// Package xtui implements a double-buffered terminal UI rendering engine:
// a cell compositor that drives a tree of stateful components, reconciles
// frame-to-frame differences into minimal ANSI escape streams, schedules
// redraws against a frame budget, and multiplexes raw keyboard/mouse input
// into structured events routed through a z-ordered layer stack.
//
// The engine is single-threaded and cooperative (see Engine.Start): all
// component callbacks run on the same goroutine that drives layout,
// compositing, diffing, and flushing. The only suspension points are
// reading from the input stream and sleeping between frames.
//
// xtui does not ship concrete widgets, shell/SSH/Kubernetes adapters, or
// markdown rendering. It is a rendering core meant to be embedded by those
// collaborators through the interfaces in this package.
package xtui
