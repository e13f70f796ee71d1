package xtui

import "fmt"

// CapabilityError reports that the terminal lacks a mode required at
// Engine.Start, e.g. fullscreen requested on a non-TTY output (§7).
type CapabilityError struct {
	Requested string
	Reason    string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("xtui: capability error: %s: %s", e.Requested, e.Reason)
}

// LifecycleError reports an invalid component or engine lifecycle
// transition: double-mount, unmount of a non-mounted component, or
// starting an already-running engine (§7).
type LifecycleError struct {
	Op   string
	ID   string
	Msg  string
}

func (e *LifecycleError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("xtui: lifecycle error: %s %s: %s", e.Op, e.ID, e.Msg)
	}
	return fmt.Sprintf("xtui: lifecycle error: %s: %s", e.Op, e.Msg)
}

// RenderError wraps a panic or error recovered from a component's Render
// method. It is localized: the frame completes and the engine renders an
// error banner in place of the offending component's output (§7).
type RenderError struct {
	ComponentID string
	Cause       error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("xtui: render error in %q: %v", e.ComponentID, e.Cause)
}

func (e *RenderError) Unwrap() error { return e.Cause }

// InputDecodeError reports a byte sequence the decoder couldn't
// recognize. It is always recovered as a KeyEvent{Name: "unknown"} and
// never propagated to the embedder (§7); it exists so tests and logging
// can observe the recovery.
type InputDecodeError struct {
	Bytes []byte
}

func (e *InputDecodeError) Error() string {
	return fmt.Sprintf("xtui: input decode error: unrecognized sequence %q", e.Bytes)
}

// FlushError reports a failed write to the output stream. Terminal's
// RenderFullscreen and RenderInline return it. The engine treats it as
// fatal: it logs the error and calls Stop, which runs cleanup and moves the
// terminal to Closed. The engine does not pass the error on to the
// embedder: Start has already returned, and Stop and Wait do not report it.
type FlushError struct {
	Cause error
}

func (e *FlushError) Error() string {
	return fmt.Sprintf("xtui: flush error: %v", e.Cause)
}

func (e *FlushError) Unwrap() error { return e.Cause }
