// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/akinsokpah/fulltask-tui/internal/config"
	"github.com/akinsokpah/fulltask-tui/internal/session"
	"github.com/akinsokpah/fulltask-tui/internal/telemetry"
	"github.com/akinsokpah/fulltask-tui/internal/ui/styles"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if !m.streaming {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StreamChunkMsg:
		if m.manager.PatchAssistant(msg.SessionID, msg.MessageID, msg.Total) {
			// Throttle redraws; the final text lands on StreamDoneMsg.
			if msg.SessionID == m.manager.CurrentID() && m.renderGate.Allow() {
				m.refreshTranscript()
			}
		}
		return m, waitEvent(m.events)

	case StreamDoneMsg:
		m.finishExchange(msg)
		return m, waitEvent(m.events)

	case ConfigReloadedMsg:
		m.cfg = msg.Config
		m.theme = styles.New(m.cfg.UI.Theme)
		m.status = "configuration reloaded"
		m.refreshTranscript()
		return m, waitEvent(m.events)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The credential overlay captures everything while open.
	if m.keyPromptOpen {
		return m.handleKeyPromptKey(msg)
	}

	if key.Matches(msg, keys.Quit) {
		for _, cancel := range m.cancels {
			cancel()
		}
		return m, tea.Quit
	}

	if m.sidebarOpen {
		return m.handleSidebarKey(msg)
	}

	switch {
	case key.Matches(msg, keys.NewSession):
		m.manager.CreateSession()
		m.status = ""
		m.refreshTranscript()
		return m, nil

	case key.Matches(msg, keys.ToggleSidebar):
		m.sidebarOpen = true
		m.sidebarIndex = m.currentSessionIndex()
		return m, nil

	case key.Matches(msg, keys.CycleMode):
		m.mode = nextMode(m.mode)
		m.status = fmt.Sprintf("mode: %s (%s)", m.mode, m.cfg.Model.ForMode(m.mode))
		return m, nil

	case key.Matches(msg, keys.EnterAPIKey):
		m.openKeyPrompt()
		return m, nil

	case key.Matches(msg, keys.Submit):
		return m, m.startExchange()

	case msg.String() == "alt+enter":
		m.textarea.InsertString("\n")
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m *Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sessions := m.manager.Sessions()

	switch {
	case key.Matches(msg, keys.Close), key.Matches(msg, keys.ToggleSidebar):
		m.sidebarOpen = false

	case key.Matches(msg, keys.Up):
		if m.sidebarIndex > 0 {
			m.sidebarIndex--
		}

	case key.Matches(msg, keys.Down):
		if m.sidebarIndex < len(sessions)-1 {
			m.sidebarIndex++
		}

	case key.Matches(msg, keys.Select):
		if m.sidebarIndex < len(sessions) {
			m.manager.SelectSession(sessions[m.sidebarIndex].ID)
		}
		m.sidebarOpen = false
		m.status = ""
		m.refreshTranscript()

	case key.Matches(msg, keys.Delete):
		if m.sidebarIndex < len(sessions) {
			m.manager.DeleteSession(sessions[m.sidebarIndex].ID)
		}
		if m.sidebarIndex >= m.manager.Count() {
			m.sidebarIndex = m.manager.Count() - 1
		}
		m.refreshTranscript()
	}
	return m, nil
}

func (m *Model) handleKeyPromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.keyPromptOpen = false
		m.keyInput.Reset()
		return m, nil

	case "enter":
		entered := strings.TrimSpace(m.keyInput.Value())
		m.keyPromptOpen = false
		m.keyInput.Reset()
		if entered == "" {
			return m, nil
		}
		if err := m.creds.SetAPIKey(entered); err != nil {
			m.status = "failed to save api key: " + err.Error()
			return m, nil
		}
		m.status = "api key saved, resubmit your message"
		return m, nil
	}

	var cmd tea.Cmd
	m.keyInput, cmd = m.keyInput.Update(msg)
	return m, cmd
}

// =============================================================================
// EXCHANGE LIFECYCLE
// =============================================================================

// startExchange submits the composed turn and launches the stream.
func (m *Model) startExchange() tea.Cmd {
	text := strings.TrimSpace(m.textarea.Value())
	if strings.HasPrefix(text, "/") {
		return m.handleSlashCommand(text)
	}

	sid := m.manager.CurrentID()
	if m.manager.InFlight(sid) {
		m.status = "still answering, wait for the current response"
		return nil
	}

	assistantID, ok := m.manager.SubmitTurn(text, m.pendingImage)
	if !ok {
		return nil
	}
	m.textarea.Reset()
	m.pendingImage = ""
	m.status = ""

	turns := m.manager.CompletionTurns(sid, assistantID)
	m.cancels[assistantID] = m.launchStream(sid, assistantID, turns)
	m.streaming = true
	m.streamSID = sid
	m.streamMID = assistantID
	m.refreshTranscript()
	return m.spinner.Tick
}

// finishExchange finalizes the assistant message per the error taxonomy and
// records the exchange in the usage ledger. Only the finished exchange's own
// cancel is released; streams still running in other sessions are untouched.
func (m *Model) finishExchange(msg StreamDoneMsg) {
	if cancel, ok := m.cancels[msg.MessageID]; ok {
		cancel()
		delete(m.cancels, msg.MessageID)
	}
	m.streaming = len(m.cancels) > 0
	if msg.SessionID == m.streamSID && msg.MessageID == m.streamMID {
		m.streamSID, m.streamMID = "", ""
	}

	outcome := telemetry.OutcomeOK
	if msg.Err != nil {
		outcome = telemetry.OutcomeError
		if needsCredential := m.manager.FinalizeFromError(msg.SessionID, msg.MessageID, msg.Err); needsCredential {
			m.openKeyPrompt()
		}
	} else {
		m.manager.FinalizeAssistant(msg.SessionID, msg.MessageID, msg.FinalText, session.OutcomeOK)
		m.lastDuration = msg.Duration.Round(millisecondPrecision).String()
	}

	if m.usage != nil {
		m.usage.Add(telemetry.Record{
			SessionID:       msg.SessionID,
			Model:           m.cfg.Model.ForMode(m.mode),
			Mode:            string(m.mode),
			CompletionChars: len(msg.FinalText),
			Duration:        msg.Duration,
			Outcome:         outcome,
		})
	}

	m.refreshTranscript()
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

func (m *Model) handleSlashCommand(input string) tea.Cmd {
	cmd, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "/help":
		m.status = "/image <path> attach image · /mode chat|search|pro · /key set api key · /quit exit"

	case "/image":
		if rest == "" {
			m.status = "usage: /image <path>"
			break
		}
		m.pendingImage = rest
		m.status = "image attached: " + rest

	case "/mode":
		switch config.Mode(rest) {
		case config.ModeChat, config.ModeSearch, config.ModePro:
			m.mode = config.Mode(rest)
			m.status = fmt.Sprintf("mode: %s (%s)", m.mode, m.cfg.Model.ForMode(m.mode))
		default:
			m.status = "usage: /mode chat|search|pro"
		}

	case "/key":
		m.openKeyPrompt()

	case "/quit":
		return tea.Quit

	default:
		m.status = "unknown command " + cmd
	}

	m.textarea.Reset()
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (m *Model) openKeyPrompt() {
	m.keyPromptOpen = true
	m.keyInput.Reset()
	m.keyInput.Focus()
}

func (m *Model) currentSessionIndex() int {
	current := m.manager.CurrentID()
	for i, s := range m.manager.Sessions() {
		if s.ID == current {
			return i
		}
	}
	return 0
}

func nextMode(mode config.Mode) config.Mode {
	for i, candidate := range config.Modes {
		if candidate == mode {
			return config.Modes[(i+1)%len(config.Modes)]
		}
	}
	return config.ModeChat
}
