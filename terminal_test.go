package xtui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalNonTTYDegradesInsteadOfEmittingEscapes(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, nil)

	err := term.Initialize(ModeInline, 80, 24)
	require.NoError(t, err)
	assert.False(t, term.Capabilities().IsTTY)

	require.NoError(t, term.RenderInline([]string{"hello"}))
	assert.Equal(t, "hello", buf.String(), "degraded terminals write plain content with no control sequences")
}

func TestTerminalFullscreenOnNonTTYIsCapabilityError(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, nil)

	err := term.Initialize(ModeFullscreen, 80, 24)
	require.Error(t, err)
	var capErr *CapabilityError
	assert.ErrorAs(t, err, &capErr)
}

func TestTerminalDoubleInitializeIsLifecycleError(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, nil)
	require.NoError(t, term.Initialize(ModeInline, 80, 24))

	err := term.Initialize(ModeInline, 80, 24)
	var lifeErr *LifecycleError
	assert.ErrorAs(t, err, &lifeErr)
}

func TestTerminalCleanupIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, nil)
	require.NoError(t, term.Initialize(ModeInline, 80, 24))

	assert.NoError(t, term.Cleanup())
	assert.NoError(t, term.Cleanup())
}

func TestTerminalRenderInlineClearsPreviousBlockOnRepeat(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, nil)
	require.NoError(t, term.Initialize(ModeInline, 80, 24))

	require.NoError(t, term.RenderInline([]string{"a", "b"}))
	buf.Reset()
	require.NoError(t, term.RenderInline([]string{"c"}))
	// Non-TTY: no cursor-up/erase sequences, just the new content.
	assert.Equal(t, "c", buf.String())
}

func TestDetectUnicodeSafeNonWindowsAlwaysTrue(t *testing.T) {
	assert.True(t, detectUnicodeSafe(map[string]string{}))
}

func TestDetectUnicodeSafeOnWindowsNeedsModernHost(t *testing.T) {
	prev := isWindowsRuntime
	isWindowsRuntime = func() bool { return true }
	defer func() { isWindowsRuntime = prev }()

	assert.False(t, detectUnicodeSafe(map[string]string{}))
	assert.True(t, detectUnicodeSafe(map[string]string{"WT_SESSION": "1"}))
	assert.True(t, detectUnicodeSafe(map[string]string{"TERM_PROGRAM": "vscode"}))
}

func TestTerminalRenderFullscreenRequiresFullscreenMode(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, nil)
	require.NoError(t, term.Initialize(ModeInline, 80, 24))

	back := NewBuffer(80, 24)
	err := term.RenderFullscreen(back, nil)
	var lifeErr *LifecycleError
	assert.ErrorAs(t, err, &lifeErr)
}
