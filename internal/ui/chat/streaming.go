// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/akinsokpah/fulltask-tui/internal/openai"
)

const millisecondPrecision = 10 * time.Millisecond

// launchStream builds the completion client from current config and
// credentials and starts the stream goroutine. The returned cancel function
// abandons the stream; late chunks for an abandoned exchange are no-ops in
// the session manager.
func (m *Model) launchStream(sessionID, messageID string, turns []openai.Turn) context.CancelFunc {
	apiKey, err := m.creds.APIKey()
	if err != nil {
		apiKey = ""
	}
	client := openai.NewClient(apiKey)
	client.SetBaseURL(m.cfg.Model.BaseURL)
	client.SetModel(m.cfg.Model.ForMode(m.mode))
	client.SetMaxTokens(m.cfg.Model.MaxTokens)

	ctx, cancel := context.WithCancel(context.Background())
	go runStream(ctx, client, sessionID, messageID, turns, m.events)
	return cancel
}

// runStream drives one completion exchange and publishes its chunks and
// terminal result to the event channel.
func runStream(
	ctx context.Context,
	client *openai.Client,
	sessionID, messageID string,
	turns []openai.Turn,
	events chan<- tea.Msg,
) {
	start := time.Now()

	final, err := client.StreamChat(ctx, turns, func(total string) {
		events <- StreamChunkMsg{
			SessionID: sessionID,
			MessageID: messageID,
			Total:     total,
		}
	})

	events <- StreamDoneMsg{
		SessionID: sessionID,
		MessageID: messageID,
		FinalText: final,
		Duration:  time.Since(start),
		Err:       err,
	}
}
