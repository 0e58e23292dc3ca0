// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/akinsokpah/fulltask-tui/internal/config"
)

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamChunkMsg carries the cumulative response text after one chunk. Total
// replaces the pending message's display text; it is never a delta.
type StreamChunkMsg struct {
	SessionID string
	MessageID string
	Total     string
}

// StreamDoneMsg ends an exchange, successfully or not.
type StreamDoneMsg struct {
	SessionID string
	MessageID string
	FinalText string
	Duration  time.Duration
	Err       error
}

// =============================================================================
// CONFIG MESSAGES
// =============================================================================

// ConfigReloadedMsg delivers a config picked up by the file watcher.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// =============================================================================
// EVENT CHANNEL
// =============================================================================

// waitEvent returns a command that delivers the next message published to
// the event channel. The Update loop re-arms it after every delivery, so the
// channel always has exactly one reader.
func waitEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}
