//go:build windows

package xtui

// watchSignals is a no-op on Windows: SIGWINCH and POSIX signal semantics
// don't apply, and Windows console resize is not wired in this engine
// (§1 Non-goals scope out platform-specific terminal adapters beyond the
// core ANSI vocabulary).
func (e *Engine) watchSignals() {}

// watchResize is a no-op on Windows for the same reason.
func (e *Engine) watchResize() {}
