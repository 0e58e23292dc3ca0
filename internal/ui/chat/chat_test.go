// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinsokpah/fulltask-tui/internal/config"
	"github.com/akinsokpah/fulltask-tui/internal/session"
	"github.com/akinsokpah/fulltask-tui/internal/store"
)

func newTestModel(t *testing.T) (*Model, *session.Manager) {
	t.Helper()
	st, err := store.NewSessionStore(t.TempDir())
	require.NoError(t, err)
	manager, err := session.NewManager(st)
	require.NoError(t, err)
	creds, err := store.NewCredentialStore(t.TempDir())
	require.NoError(t, err)
	return New(manager, creds, nil, config.Default(), nil), manager
}

func TestFinishExchangeLeavesOtherSessionsStreamAlone(t *testing.T) {
	m, manager := newTestModel(t)

	// Exchange A in the initial session.
	aSID := manager.CurrentID()
	aMID, ok := manager.SubmitTurn("first question", "")
	require.True(t, ok)
	aCancelled := false
	m.cancels[aMID] = func() { aCancelled = true }

	// Exchange B in a fresh session while A is still in flight. The per
	// session gate allows this; both streams run concurrently.
	b := manager.CreateSession()
	bMID, ok := manager.SubmitTurn("second question", "")
	require.True(t, ok)
	bCancelled := false
	m.cancels[bMID] = func() { bCancelled = true }
	m.streaming = true
	m.streamSID = b.ID
	m.streamMID = bMID

	// A completes first. Only A's cancel fires; B keeps streaming.
	m.finishExchange(StreamDoneMsg{
		SessionID: aSID,
		MessageID: aMID,
		FinalText: "first answer",
		Duration:  time.Second,
	})

	assert.True(t, aCancelled)
	assert.False(t, bCancelled, "completing one exchange must not cancel another session's stream")
	assert.True(t, m.streaming, "streaming state must survive an unrelated completion")

	aMsg := manager.Session(aSID).FindMessage(aMID)
	require.NotNil(t, aMsg)
	assert.False(t, aMsg.Pending)
	assert.Equal(t, "first answer", aMsg.Text)

	bMsg := manager.Session(b.ID).FindMessage(bMID)
	require.NotNil(t, bMsg)
	assert.True(t, bMsg.Pending, "the other session's exchange must still be pending")

	// B's own completion releases the last stream.
	m.finishExchange(StreamDoneMsg{
		SessionID: b.ID,
		MessageID: bMID,
		FinalText: "second answer",
		Duration:  time.Second,
	})

	assert.True(t, bCancelled)
	assert.False(t, m.streaming)
	assert.Empty(t, m.cancels)
	assert.Equal(t, "second answer", manager.Session(b.ID).FindMessage(bMID).Text)
}

func TestNextModeCycles(t *testing.T) {
	require.Equal(t, config.ModeSearch, nextMode(config.ModeChat))
	require.Equal(t, config.ModePro, nextMode(config.ModeSearch))
	require.Equal(t, config.ModeChat, nextMode(config.ModePro))
	// Unknown modes reset to chat.
	require.Equal(t, config.ModeChat, nextMode(config.Mode("bogus")))
}

func TestHighlightCodeBlocksPassThrough(t *testing.T) {
	plain := "no code here\njust prose"
	require.Equal(t, plain, highlightCodeBlocks(plain))
}

func TestHighlightCodeBlocksKeepsCodeContent(t *testing.T) {
	input := "before\n```go\nfmt.Println(\"hi\")\n```\nafter"
	out := highlightCodeBlocks(input)
	require.Contains(t, out, "before")
	require.Contains(t, out, "after")
	// The code survives, possibly wrapped in ANSI color sequences.
	require.Contains(t, out, "Println")
	require.NotContains(t, out, "```")
}

func TestHighlightCodeBlocksUnterminated(t *testing.T) {
	input := "prose\n```python\nprint(1)"
	out := highlightCodeBlocks(input)
	require.Contains(t, out, "prose")
	require.Contains(t, out, "print(1)")
}

func TestMarkdownRendererNeverEmptyForErrors(t *testing.T) {
	r := newMarkdownRenderer(60, true)
	out := r.Render("**System Error:** Connection failed. Please try again.")
	require.NotEmpty(t, strings.TrimSpace(out))
}
