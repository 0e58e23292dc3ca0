// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/akinsokpah/fulltask-tui/internal/model"
	"github.com/akinsokpah/fulltask-tui/internal/util"
)

const sidebarWidth = 32

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}

	if m.keyPromptOpen {
		return m.renderKeyPrompt()
	}

	body := m.viewport.View()
	if m.sidebarOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), body)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.theme.InputContainer.Width(m.width-2).Render(m.textarea.View()),
		m.renderStatusBar(),
	)
}

// =============================================================================
// LAYOUT
// =============================================================================

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	inputHeight := 5 // bordered three-line composer
	bodyHeight := height - 1 - inputHeight - 1
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	bodyWidth := width
	if m.sidebarOpen {
		bodyWidth -= sidebarWidth
	}

	if !m.ready {
		m.viewport = viewport.New(bodyWidth, bodyHeight)
		m.ready = true
	} else {
		m.viewport.Width = bodyWidth
		m.viewport.Height = bodyHeight
	}

	m.textarea.SetWidth(width - 4)
	m.keyInput.Width = 48
	m.markdown = newMarkdownRenderer(bodyWidth-4, m.theme.IsDark)
	m.refreshTranscript()
}

// refreshTranscript re-renders the current session into the viewport and
// follows the newest message.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// =============================================================================
// HEADER AND STATUS BAR
// =============================================================================

func (m *Model) renderHeader() string {
	current := m.manager.Current()
	title := model.DefaultTitle
	if current != nil {
		title = current.Title
	}

	left := m.theme.HeaderTitle.Render("FullTask AI Pro") + "  " +
		m.theme.HeaderMeta.Render(util.TruncateWidth(title, m.width/2))

	who := "signed out"
	if m.profile != nil {
		who = m.profile.Initial() + " " + m.profile.DisplayName
	}
	right := m.theme.HeaderMeta.Render(who)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m *Model) renderStatusBar() string {
	mode := m.theme.StatusMode.Render(string(m.mode)) + " " +
		m.theme.StatusStats.Render(m.cfg.Model.ForMode(m.mode))

	var middle string
	switch {
	case m.status != "":
		middle = m.status
	case m.streaming:
		middle = m.spinner.View() + " thinking..."
	case m.cfg.UI.ShowStats && m.lastDuration != "":
		middle = m.theme.StatusStats.Render("last response " + m.lastDuration)
	}

	hints := m.theme.ShortcutKey.Render("ctrl+n") + m.theme.ShortcutDesc.Render(" new  ") +
		m.theme.ShortcutKey.Render("ctrl+s") + m.theme.ShortcutDesc.Render(" sessions  ") +
		m.theme.ShortcutKey.Render("ctrl+o") + m.theme.ShortcutDesc.Render(" mode  ") +
		m.theme.ShortcutKey.Render("ctrl+c") + m.theme.ShortcutDesc.Render(" quit")

	gap := m.width - lipgloss.Width(mode) - lipgloss.Width(middle) - lipgloss.Width(hints) - 4
	if gap < 2 {
		return m.theme.StatusBar.Width(m.width).Render(mode + "  " + middle)
	}
	half := gap / 2
	return m.theme.StatusBar.Width(m.width).Render(
		mode + strings.Repeat(" ", half) + middle + strings.Repeat(" ", gap-half) + hints)
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

func (m *Model) renderTranscript() string {
	current := m.manager.Current()
	if current == nil {
		return ""
	}

	blocks := make([]string, 0, len(current.Messages))
	for _, msg := range current.Messages {
		blocks = append(blocks, m.renderMessage(msg))
	}
	return strings.Join(blocks, "\n\n")
}

func (m *Model) renderMessage(msg *model.Message) string {
	timestamp := m.theme.Timestamp.Render(msg.CreatedAt.Format("15:04"))

	var b strings.Builder
	switch msg.Role {
	case model.RoleUser:
		b.WriteString(m.theme.UserLabel.Render("You") + " " + timestamp + "\n")
		b.WriteString(m.theme.UserText.Render(msg.Text))
		if msg.HasImage() {
			b.WriteString("\n" + m.theme.SourceLine.Render("[image] "+msg.ImagePath))
		}

	case model.RoleAssistant:
		b.WriteString(m.theme.AssistantLabel.Render("FullTask AI") + " " + timestamp + "\n")
		if msg.Pending {
			if msg.Text == "" {
				b.WriteString(m.theme.PendingText.Render(m.spinner.View() + " thinking..."))
			} else {
				// Mid-stream text stays raw; markdown is rendered once the
				// message finalizes.
				b.WriteString(m.theme.AssistantText.Render(msg.Text) + " " + m.spinner.View())
			}
		} else {
			b.WriteString(m.markdown.Render(msg.Text))
		}
		for _, src := range msg.Sources {
			b.WriteString("\n" + m.theme.SourceLine.Render("· "+src.Title+" "+src.URI))
		}
	}
	return b.String()
}

// =============================================================================
// SIDEBAR
// =============================================================================

func (m *Model) renderSidebar() string {
	sessions := m.manager.Sessions()
	currentID := m.manager.CurrentID()

	var b strings.Builder
	b.WriteString(m.theme.SidebarTitle.Render(fmt.Sprintf("Sessions (%d)", len(sessions))))
	b.WriteString("\n\n")

	for i, s := range sessions {
		label := util.TruncateWidth(s.Title, sidebarWidth-6)
		switch {
		case i == m.sidebarIndex:
			label = m.theme.SidebarItemSelected.Render("▸ " + label)
		case s.ID == currentID:
			label = m.theme.SidebarItem.Render("• " + label)
		default:
			label = m.theme.SidebarItem.Render("  " + label)
		}
		if m.manager.InFlight(s.ID) {
			label += m.theme.SidebarItemStreaming.Render(" ⋯")
		}
		b.WriteString(label + "\n")
	}

	b.WriteString("\n" + m.theme.OverlayHint.Render("enter open · x delete · esc close"))
	return m.theme.Sidebar.
		Width(sidebarWidth - 2).
		Height(m.viewport.Height).
		Render(b.String())
}

// =============================================================================
// CREDENTIAL PROMPT
// =============================================================================

func (m *Model) renderKeyPrompt() string {
	content := m.theme.OverlayTitle.Render("OpenAI API Key Required") + "\n\n" +
		"Paste your API key to continue. It is stored encrypted in\n" +
		"~/.fulltask and never leaves this machine.\n\n" +
		m.keyInput.View() + "\n\n" +
		m.theme.OverlayHint.Render("enter save · esc cancel")

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		m.theme.Overlay.Render(content))
}
