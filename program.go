package xtui

import (
	"errors"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/term"
)

// Engine is the embedder-facing entry point (§6 "Embedder surface"): it
// owns the terminal, the component tree, the scheduler, and the input
// reader, and drives the single-threaded frame loop described in §5.
type Engine struct {
	cfg      engineConfig
	terminal *Terminal
	scheduler *Scheduler
	tree     *Tree
	input    *Input
	gestures *GestureController
	focus    *FocusRing
	back     *Buffer
	width, height int
	ctx      *RenderContext

	mailbox chan func(*Tree)
	stopCh  chan struct{}
	doneCh  chan struct{}

	mu              sync.Mutex
	started         bool
	closed          bool
	renderRequested bool

	logger *slog.Logger
}

// NewEngine constructs an Engine from the given options. WithOutput and
// WithInput are required; all other options have defaults matching the
// teacher's Program construction conventions.
func NewEngine(opts ...EngineOption) (*Engine, error) {
	cfg := engineConfig{
		fps:     30,
		mode:    ModeInline,
		signals: true,
		environ: os.Environ(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.output == nil {
		return nil, &LifecycleError{Op: "new_engine", Msg: "WithOutput is required"}
	}
	if cfg.input == nil {
		return nil, &LifecycleError{Op: "new_engine", Msg: "WithInput is required"}
	}
	if cfg.logger == nil {
		cfg.logger = newNopLogger()
	}

	return &Engine{
		cfg:      cfg,
		scheduler: NewScheduler(cfg.fps),
		gestures: &GestureController{},
		mailbox:  make(chan func(*Tree), 64),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		logger:   cfg.logger,
	}, nil
}

// Start acquires the terminal, mounts root, and begins the frame loop. It
// returns once the engine has finished initializing; Stop (or a fatal
// FlushError) ends the loop asynchronously — use Wait to block for that.
func (e *Engine) Start(root Component) error {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return &LifecycleError{Op: "start", Msg: "engine already running"}
	}
	e.started = true
	e.mu.Unlock()

	width, height := e.detectSize()
	e.terminal = NewTerminal(e.cfg.output, e.cfg.environ)
	if err := e.terminal.Initialize(e.cfg.mode, width, height); err != nil {
		return err
	}
	if e.cfg.forcedLevel != nil {
		caps := e.terminal.caps
		caps.ColorLevel = *e.cfg.forcedLevel
		e.terminal.caps = caps
	}

	e.width, e.height = width, height
	e.ctx = &RenderContext{Capabilities: e.terminal.Capabilities(), Width: width, Height: height}
	e.back = NewBuffer(width, height)

	e.tree = NewTree()
	e.tree.SetRoot(root, NewRect(0, 0, width, height))
	if err := e.tree.MountAll(e.ctx); err != nil {
		_ = e.terminal.Cleanup()
		return err
	}

	input, err := NewInput(e.cfg.input)
	if err != nil {
		e.tree.UnmountAll()
		_ = e.terminal.Cleanup()
		return err
	}
	e.input = input
	e.input.Start()

	if e.terminal.Capabilities().IsTTY {
		e.terminal.EnableBracketedPaste()
		if e.cfg.mouse {
			e.terminal.EnableMouse(true)
		}
	}

	if e.cfg.signals {
		e.watchSignals()
	}
	e.watchResize()

	go e.run()
	return nil
}

func (e *Engine) detectSize() (int, int) {
	if f, ok := e.cfg.output.(interface{ Fd() uintptr }); ok {
		if w, h, err := term.GetSize(int(f.Fd())); err == nil {
			return w, h
		}
	}
	return 80, 24
}

// run is the engine's single frame-driving goroutine: the only code that
// mutates the component tree, the back buffer, or the terminal's front
// buffer (§5 "single-threaded cooperative").
func (e *Engine) run() {
	defer close(e.doneCh)

	e.scheduler.RunLoop(e.stopCh, func() bool {
		drained := e.drainEvents()
		e.mu.Lock()
		requested := e.renderRequested
		e.renderRequested = false
		e.mu.Unlock()

		if !drained && !requested && !e.tree.AnyDirty() {
			return false
		}
		e.composeFrame()
		return true
	})
}

// drainEvents empties any pending input events and mailbox callbacks
// without blocking, reporting whether it did anything.
func (e *Engine) drainEvents() bool {
	did := false
	for {
		select {
		case ev, ok := <-e.input.Events():
			if !ok {
				return did
			}
			e.dispatch(ev)
			did = true
		case fn := <-e.mailbox:
			fn(e.tree)
			did = true
		default:
			return did
		}
	}
}

func (e *Engine) dispatch(ev Event) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("event handler panic", "error", panicToError(r))
		}
	}()
	switch v := ev.(type) {
	case KeyEvent:
		e.dispatchKey(v)
	case MouseEvent:
		e.dispatchMouse(v)
	case ResizeEvent:
		e.handleResize(v.Width, v.Height)
	case PasteEvent:
		e.dispatchKey(KeyEvent{Name: "paste", Sequence: []byte(v.Text)})
	case FocusEvent:
		// Focus/blur reporting from the terminal itself; no focus-ring
		// interaction (§3 supplemented feature, observational only).
	}
}

func (e *Engine) dispatchKey(k KeyEvent) {
	if k.Name == KeyTab {
		e.advanceFocus(k.Modifiers.Has(ModShift))
		return
	}
	root, ok := e.tree.Root()
	if !ok {
		return
	}
	e.bubbleKey(root, k)
}

func (e *Engine) bubbleKey(id ComponentID, k KeyEvent) bool {
	c, ok := e.tree.Component(id)
	if !ok {
		return false
	}
	if c.HandleKey(k) {
		return true
	}
	for _, child := range e.tree.Children(id) {
		if e.bubbleKey(child, k) {
			return true
		}
	}
	return false
}

func (e *Engine) advanceFocus(reverse bool) {
	if e.focus == nil {
		e.focus = BuildFocusRing(e.tree, Snapshot(e.tree))
	}
	if prev, ok := e.focus.Focused(); ok {
		e.tree.MarkDirty(prev)
	}
	if next, ok := e.focus.Next(reverse); ok {
		e.tree.MarkDirty(next)
	}
}

func (e *Engine) dispatchMouse(m MouseEvent) {
	layers := Snapshot(e.tree)

	if e.cfg.mode == ModeFullscreen {
		if e.gestures.Active() {
			// Update works in absolute coordinates; SetBounds takes bounds
			// relative to the target's parent.
			parent := NewRect(0, 0, e.width, e.height)
			if n, ok := e.tree.nodes[e.gestures.active.target]; ok && n.hasParent {
				for _, l := range layers {
					if l.ID == n.parent {
						parent = l.Bounds
					}
				}
			}
			if id, bounds, ok := e.gestures.Update(m, parent); ok {
				e.tree.SetBounds(id, bounds.Add(-parent.X, -parent.Y))
				e.tree.MarkDirty(id)
				return
			}
		}
		if e.gestures.BeginIfApplicable(e.tree, layers, m) {
			return
		}
	}

	HitTest(e.tree, layers, m)
}

func (e *Engine) handleResize(width, height int) {
	e.width, e.height = width, height
	e.ctx = &RenderContext{Capabilities: e.terminal.Capabilities(), Width: width, Height: height}
	e.back.Resize(width, height)
	e.terminal.Resize(width, height)
	if root, ok := e.tree.Root(); ok {
		e.tree.SetBounds(root, NewRect(0, 0, width, height))
		e.tree.MarkDirty(root)
	}
}

func (e *Engine) composeFrame() {
	layers := Snapshot(e.tree)
	e.back.Clear(DefaultStyle)
	errs := Composite(e.tree, layers, e.back, e.ctx)
	for _, err := range errs {
		e.logger.Error("render error", "error", err)
	}

	var err error
	if e.cfg.mode == ModeFullscreen {
		err = e.terminal.RenderFullscreen(e.back, nil)
	} else {
		err = e.terminal.RenderInline(inlineLines(e.back))
	}
	if err != nil {
		e.logger.Error("flush error", "error", err)
		go e.Stop()
	}
}

func inlineLines(back *Buffer) []string {
	lines := make([]string, back.Height())
	for y := 0; y < back.Height(); y++ {
		var line []byte
		for x := 0; x < back.Width(); x++ {
			cell, _ := back.GetCell(x, y)
			if cell.isContinuation() {
				continue
			}
			line = append(line, cell.Grapheme...)
		}
		lines[y] = string(line)
	}
	return lines
}

// RequestRender asks the engine to compose a frame on its next tick even
// if nothing is dirty (§6 "engine.request_render()").
func (e *Engine) RequestRender() {
	e.mu.Lock()
	e.renderRequested = true
	e.mu.Unlock()
}

// Post queues fn to run on the engine's single loop goroutine, with
// exclusive access to the tree — the mailbox external async work posts
// results into (§9 "Coroutine/async-flavored render loops").
func (e *Engine) Post(fn func(*Tree)) {
	select {
	case e.mailbox <- fn:
	case <-e.stopCh:
	}
}

// Stop cancels the pending scheduler task, stops the input reader,
// unmounts the root subtree leaf-first, and restores the terminal. It is
// idempotent (§5).
func (e *Engine) Stop() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	e.scheduler.Cancel()
	close(e.stopCh)
	<-e.doneCh

	if e.terminal.Capabilities().IsTTY {
		e.terminal.DisableBracketedPaste()
		if e.cfg.mouse {
			e.terminal.DisableMouse()
		}
	}

	var inputErr error
	if e.input != nil {
		inputErr = e.input.Stop()
	}
	if e.tree != nil {
		e.tree.UnmountAll()
	}
	cleanupErr := e.terminal.Cleanup()
	if e.cfg.logCloser != nil {
		_ = e.cfg.logCloser.Close()
	}

	return errors.Join(inputErr, cleanupErr)
}

// Wait blocks until the frame loop has exited, either via Stop or a fatal
// FlushError.
func (e *Engine) Wait() {
	<-e.doneCh
}

