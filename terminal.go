package xtui

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-isatty"
	"github.com/muesli/ansi/compressor"
	"golang.org/x/term"
)

// Mode is the screen mode an engine is acquired under.
type Mode int

// Screen modes, per §4.3.
const (
	ModeInline Mode = iota
	ModeFullscreen
)

// state is the Terminal I/O Manager's acquisition state machine (§4.3).
type state int

const (
	stateUnacquired state = iota
	stateInline
	stateFullscreen
	stateClosed
)

// Capabilities describes what a Terminal detected about its host at
// Initialize time (§4.3).
type Capabilities struct {
	ColorLevel  Level
	UnicodeSafe bool
	IsTTY       bool
}

// Terminal is the Terminal I/O Manager (C3): it acquires and releases the
// terminal as a scoped resource, detects capabilities, and emits
// cursor/buffer/title control sequences. initialize must have a matched
// cleanup executed on every termination path.
type Terminal struct {
	mu sync.Mutex

	out    io.Writer
	sink   io.Writer // out, wrapped in compressor.Writer once capabilities are known
	outFd  uintptr
	hasFd  bool
	environ map[string]string

	state state
	mode  Mode
	caps  Capabilities

	rawState *term.State

	flusher        *Flusher
	width, height  int
	cursorHidden   bool
	inlineLines    int // number of lines written by the last RenderInline call
}

// NewTerminal constructs a Terminal targeting out, using environ (as
// "KEY=VALUE" pairs, e.g. os.Environ()) for capability hints.
func NewTerminal(out io.Writer, environ []string) *Terminal {
	t := &Terminal{
		out:     out,
		sink:    out,
		environ: environMap(environ),
	}
	if f, ok := out.(*os.File); ok {
		t.outFd = f.Fd()
		t.hasFd = true
	}
	return t
}

func environMap(environ []string) map[string]string {
	m := make(map[string]string, len(environ))
	for _, kv := range environ {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			m[kv[:i]] = kv[i+1:]
		} else {
			m[kv] = ""
		}
	}
	return m
}

// detectCapabilities implements §4.3's capability table.
func (t *Terminal) detectCapabilities() Capabilities {
	isTTY := t.hasFd && isatty.IsTerminal(t.outFd)
	level := detectLevel(isTTY, t.environ)
	unicodeSafe := detectUnicodeSafe(t.environ)
	return Capabilities{ColorLevel: level, UnicodeSafe: unicodeSafe, IsTTY: isTTY}
}

// detectUnicodeSafe downgrades to ASCII substitutes on Windows hosts
// without a modern terminal host (§4.3).
func detectUnicodeSafe(environ map[string]string) bool {
	if !isWindowsRuntime() {
		return true
	}
	if environ["WT_SESSION"] != "" {
		return true
	}
	switch strings.ToLower(environ["TERM_PROGRAM"]) {
	case "vscode", "jetbrains":
		return true
	}
	return false
}

// Capabilities returns the capabilities detected at the last Initialize.
func (t *Terminal) Capabilities() Capabilities {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.caps
}

// Initialize transitions the terminal from unacquired to the requested
// mode, detecting capabilities and performing the mode's entry sequence.
// Fullscreen on a non-TTY output returns a *CapabilityError; the caller may
// retry with ModeInline.
func (t *Terminal) Initialize(mode Mode, width, height int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != stateUnacquired {
		return &LifecycleError{Op: "initialize", Msg: "terminal already acquired"}
	}

	t.caps = t.detectCapabilities()
	t.width, t.height = width, height

	if t.caps.IsTTY {
		// Merges/elides redundant SGR and cursor codes across the writes
		// a single Flush/RenderInline call makes, the same wrapping
		// teacher's standard_renderer.go applies to its output writer.
		t.sink = &compressor.Writer{Forward: t.out}
	} else {
		t.sink = t.out
	}

	if mode == ModeFullscreen && !t.caps.IsTTY {
		return &CapabilityError{Requested: "fullscreen", Reason: "output is not a TTY"}
	}

	if t.caps.IsTTY && t.hasFd {
		raw, err := term.MakeRaw(int(t.outFd))
		if err != nil {
			return &CapabilityError{Requested: "raw mode", Reason: err.Error()}
		}
		t.rawState = raw
	}

	t.mode = mode
	switch mode {
	case ModeFullscreen:
		t.state = stateFullscreen
		t.flusher = NewFlusher(width, height)
		t.write(ansi.SetAltScreenSaveCursorMode)
		t.write(ansi.EraseEntireScreen)
		t.write(ansi.CursorHomePosition)
		t.write(ansi.HideCursor)
		t.cursorHidden = true
	case ModeInline:
		t.state = stateInline
	}
	return nil
}

// write emits seq directly unless the terminal is in a degraded
// (non-TTY) state, in which case cursor/mode control sequences are
// suppressed per §4.3's failure mode (plain writes still pass through via
// RenderInline/RenderFullscreen).
func (t *Terminal) write(seq string) {
	if !t.caps.IsTTY {
		return
	}
	_, _ = io.WriteString(t.sink, seq)
}

// RenderFullscreen composites buf via the diff flusher and writes the
// resulting ANSI sequence. Only valid in fullscreen mode.
func (t *Terminal) RenderFullscreen(buf *Buffer, cursor *Position) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != stateFullscreen {
		return &LifecycleError{Op: "render_fullscreen", Msg: "terminal is not in fullscreen mode"}
	}
	out := t.flusher.Flush(buf, t.caps.ColorLevel, cursor)
	buf.ClearDirty()
	if out == "" {
		return nil
	}
	if _, err := io.WriteString(t.sink, out); err != nil {
		return &FlushError{Cause: err}
	}
	return nil
}

// RenderInline clears the previously-rendered inline block by moving the
// cursor back to its first line and erasing each line as it is rewritten,
// then writes the new block in place (§4.3).
func (t *Terminal) RenderInline(lines []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != stateInline {
		return &LifecycleError{Op: "render_inline", Msg: "terminal is not in inline mode"}
	}

	var buf strings.Builder
	if t.caps.IsTTY && t.inlineLines > 0 {
		// The block ends without a newline, so its first line is
		// inlineLines-1 rows above the cursor.
		if t.inlineLines > 1 {
			buf.WriteString(ansi.CursorUp(t.inlineLines - 1))
		}
		buf.WriteString("\r")
	}
	for i, line := range lines {
		if t.caps.IsTTY {
			buf.WriteString(ansi.EraseEntireLine)
		}
		buf.WriteString(line)
		if i < len(lines)-1 {
			buf.WriteString("\r\n")
		}
	}
	if _, err := io.WriteString(t.sink, buf.String()); err != nil {
		return &FlushError{Cause: err}
	}
	t.inlineLines = len(lines)
	return nil
}

// EndRender clears the last inline block (inline mode) and leaves the
// cursor at its first line, or is a no-op in fullscreen mode, where content
// persists until Cleanup. On a degraded (non-TTY) output nothing is written.
func (t *Terminal) EndRender() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != stateInline || t.inlineLines == 0 {
		return nil
	}
	if !t.caps.IsTTY {
		t.inlineLines = 0
		return nil
	}
	var buf strings.Builder
	if t.inlineLines > 1 {
		buf.WriteString(ansi.CursorUp(t.inlineLines - 1))
	}
	buf.WriteString("\r")
	for i := 0; i < t.inlineLines; i++ {
		buf.WriteString(ansi.EraseEntireLine)
		if i < t.inlineLines-1 {
			buf.WriteString("\n")
		}
	}
	if t.inlineLines > 1 {
		buf.WriteString(ansi.CursorUp(t.inlineLines - 1))
	}
	buf.WriteString("\r")
	t.inlineLines = 0
	_, err := io.WriteString(t.sink, buf.String())
	return err
}

// EnableMouse turns on SGR mouse reporting — cell-motion (clicks and
// drags with a button held) always, and all-motion (including bare
// hover) when allMotion is true (§6 "CSI ?1000/1006/1004").
func (t *Terminal) EnableMouse(allMotion bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.write(ansi.EnableMouseSgrExt)
	if allMotion {
		t.write(ansi.EnableMouseAllMotion)
	} else {
		t.write(ansi.EnableMouseCellMotion)
	}
}

// DisableMouse turns off all mouse reporting modes.
func (t *Terminal) DisableMouse() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.write(ansi.DisableMouseAllMotion)
	t.write(ansi.DisableMouseCellMotion)
	t.write(ansi.DisableMouseSgrExt)
}

// EnableBracketedPaste turns on bracketed-paste reporting.
func (t *Terminal) EnableBracketedPaste() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.write(ansi.EnableBracketedPaste)
}

// DisableBracketedPaste turns off bracketed-paste reporting.
func (t *Terminal) DisableBracketedPaste() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.write(ansi.DisableBracketedPaste)
}

// EnableFocusReporting turns on focus-in/focus-out reports (§3
// "Supplemented Features").
func (t *Terminal) EnableFocusReporting() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.write(ansi.SetFocusEventMode)
}

// DisableFocusReporting turns off focus-in/focus-out reports.
func (t *Terminal) DisableFocusReporting() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.write(ansi.ResetFocusEventMode)
}

// SetTitle sets the terminal window title (§6).
func (t *Terminal) SetTitle(title string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.write(ansi.SetWindowTitle(title))
}

// Bell rings the terminal bell (§6).
func (t *Terminal) Bell() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.write("\a")
}

// Resize updates the dimensions the terminal renders against. It does not
// itself resize the buffers — C6/C7 react to resize events and call
// RenderFullscreen/RenderInline with appropriately-sized content; Resize
// only keeps the flusher's front buffer in step.
func (t *Terminal) Resize(width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.width, t.height = width, height
	if t.flusher != nil {
		t.flusher.Resize(width, height)
	}
}

// Cleanup restores the terminal to its pre-acquisition state. It is
// idempotent: a second call is a no-op (§8 "Cleanup idempotence").
func (t *Terminal) Cleanup() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == stateClosed || t.state == stateUnacquired {
		t.state = stateClosed
		return nil
	}

	var err error
	switch t.state {
	case stateFullscreen:
		if t.cursorHidden {
			t.write(ansi.ShowCursor)
			t.cursorHidden = false
		}
		t.write(ansi.ResetAltScreenSaveCursorMode)
	case stateInline:
		if t.cursorHidden {
			t.write(ansi.ShowCursor)
			t.cursorHidden = false
		}
	}

	if t.rawState != nil && t.hasFd {
		if rerr := term.Restore(int(t.outFd), t.rawState); rerr != nil {
			err = fmt.Errorf("xtui: restore terminal state: %w", rerr)
		}
		t.rawState = nil
	}

	t.state = stateClosed
	return err
}

// isWindowsRuntime is overridden in tests; kept as a function (rather than
// a direct runtime.GOOS compare at every call site) so capability tests can
// run deterministically on any host.
var isWindowsRuntime = func() bool { return runtime.GOOS == "windows" }
