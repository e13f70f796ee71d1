package xtui

// RenderContext is passed explicitly to every component callback instead
// of relying on process-wide state (§9 "Global mutable theme/capability").
// The engine builds it in Engine.Start, after Terminal.Initialize, and
// replaces it with a new value on every resize; a given value is never
// mutated.
type RenderContext struct {
	Capabilities Capabilities
	Width        int
	Height       int
}
