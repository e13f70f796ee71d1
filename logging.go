package xtui

import (
	"io"
	"log/slog"
	"os"
)

// newNopLogger is the engine's default logger: discards everything, so an
// embedder that never calls WithLogger pays nothing for logging.
func newNopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newFileLogger opens path for append and returns a slog.Logger writing
// to it, mirroring the teacher's debug-log-to-file convention.
func newFileLogger(path string) (*slog.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})), f, nil
}
