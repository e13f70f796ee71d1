package xtui

import (
	"io"
	"log/slog"
)

// engineConfig accumulates EngineOption values applied at NewEngine.
type engineConfig struct {
	output  io.Writer
	input   io.Reader
	fps     int
	mode    Mode
	mouse   bool
	signals bool
	environ []string
	logger  *slog.Logger
	logCloser io.Closer
	forcedLevel *Level
}

// EngineOption configures an Engine at construction time (§1 AMBIENT
// STACK, following the teacher's functional-options convention for
// Program).
type EngineOption func(*engineConfig)

// WithOutput sets the engine's output stream. Required.
func WithOutput(w io.Writer) EngineOption {
	return func(c *engineConfig) { c.output = w }
}

// WithInput sets the engine's input stream. Required.
func WithInput(r io.Reader) EngineOption {
	return func(c *engineConfig) { c.input = r }
}

// WithFPS sets the render scheduler's target frame rate.
func WithFPS(fps int) EngineOption {
	return func(c *engineConfig) { c.fps = fps }
}

// WithAltScreen requests fullscreen (alternate-buffer) mode instead of the
// default inline mode.
func WithAltScreen() EngineOption {
	return func(c *engineConfig) { c.mode = ModeFullscreen }
}

// WithMouseAllMotion enables SGR mouse reporting with all-motion tracking
// (clicks, drags and bare hover). Without it the engine enables no mouse
// reporting.
func WithMouseAllMotion() EngineOption {
	return func(c *engineConfig) { c.mouse = true }
}

// WithoutSignals disables the engine's SIGINT/SIGTERM handling, leaving
// signal handling to the embedder.
func WithoutSignals() EngineOption {
	return func(c *engineConfig) { c.signals = false }
}

// WithEnvironment overrides the environment variables used for capability
// detection (§4.3); defaults to os.Environ().
func WithEnvironment(environ []string) EngineOption {
	return func(c *engineConfig) { c.environ = environ }
}

// WithColorProfile forces a specific color capability level, bypassing
// detection.
func WithColorProfile(level Level) EngineOption {
	return func(c *engineConfig) { c.forcedLevel = &level }
}

// WithLogger attaches an slog.Logger the engine uses for diagnostic
// events (decode errors, render errors, lifecycle transitions).
func WithLogger(logger *slog.Logger) EngineOption {
	return func(c *engineConfig) { c.logger = logger }
}

// WithLogFile opens path and logs to it for the engine's lifetime. The
// engine closes the file on Stop.
func WithLogFile(path string) EngineOption {
	return func(c *engineConfig) {
		logger, closer, err := newFileLogger(path)
		if err != nil {
			return
		}
		c.logger = logger
		c.logCloser = closer
	}
}
