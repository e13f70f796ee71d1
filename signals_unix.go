//go:build !windows

package xtui

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// watchSignals installs SIGINT/SIGTERM handling that triggers a graceful
// Stop, mirroring the teacher's tea.go behavior of treating interrupts as
// a normal shutdown rather than letting the terminal default handler
// leave raw mode engaged (§5 "Signals (interrupt, termination) trigger
// stop()").
func (e *Engine) watchSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			_ = e.Stop()
		case <-e.stopCh:
		}
		signal.Stop(sigCh)
	}()
}

// watchResize subscribes to SIGWINCH and, on each signal, queries the
// output file descriptor's window size via TIOCGWINSZ and posts a
// handleResize call with the new size into the engine's mailbox (§6).
func (e *Engine) watchResize() {
	f, ok := e.cfg.output.(interface{ Fd() uintptr })
	if !ok || !e.terminal.Capabilities().IsTTY {
		return
	}

	winchCh := make(chan os.Signal, 1)
	signal.Notify(winchCh, syscall.SIGWINCH)
	go func() {
		defer signal.Stop(winchCh)
		for {
			select {
			case <-e.stopCh:
				return
			case <-winchCh:
				ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
				if err != nil {
					continue
				}
				width, height := int(ws.Col), int(ws.Row)
				e.Post(func(*Tree) { e.handleResize(width, height) })
			}
		}
	}()
}
