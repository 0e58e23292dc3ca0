// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components of the TUI, built once per terminal and
// rebuilt when the configured theme changes.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	// Header
	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderMeta  lipgloss.Style

	// Message bubbles
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	UserText       lipgloss.Style
	AssistantText  lipgloss.Style
	PendingText    lipgloss.Style
	ErrorText      lipgloss.Style
	SourceLine     lipgloss.Style
	Timestamp      lipgloss.Style

	// Sidebar
	Sidebar              lipgloss.Style
	SidebarTitle         lipgloss.Style
	SidebarItem          lipgloss.Style
	SidebarItemSelected  lipgloss.Style
	SidebarItemStreaming lipgloss.Style

	// Input area
	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style

	// Status bar
	StatusBar    lipgloss.Style
	StatusMode   lipgloss.Style
	StatusStats  lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// Overlays
	Overlay      lipgloss.Style
	OverlayTitle lipgloss.Style
	OverlayHint  lipgloss.Style
}

// New builds the theme. theme is "auto", "dark", or "light"; auto follows
// the detected terminal background.
func New(theme string) *Theme {
	isDark := termenv.HasDarkBackground()
	switch theme {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	}

	t := &Theme{
		IsDark:       isDark,
		ColorProfile: termenv.ColorProfile(),
	}

	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.HeaderMeta = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.UserLabel = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.AssistantLabel = lipgloss.NewStyle().
		Foreground(Indigo).
		Bold(true)
	t.UserText = lipgloss.NewStyle().
		Foreground(Text)
	t.AssistantText = lipgloss.NewStyle().
		Foreground(Text)
	t.PendingText = lipgloss.NewStyle().
		Foreground(Amber)
	t.ErrorText = lipgloss.NewStyle().
		Foreground(Rose)
	t.SourceLine = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)
	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Sidebar = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), false, true, false, false).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.SidebarTitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)
	t.SidebarItem = lipgloss.NewStyle().
		Foreground(TextSecondary)
	t.SidebarItemSelected = lipgloss.NewStyle().
		Foreground(Text).
		Background(SurfaceBright).
		Bold(true)
	t.SidebarItemStreaming = lipgloss.NewStyle().
		Foreground(Amber)

	t.InputContainer = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)
	t.StatusMode = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)
	t.StatusStats = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan)
	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Overlay = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(1, 2)
	t.OverlayTitle = lipgloss.NewStyle().
		Foreground(Indigo).
		Bold(true)
	t.OverlayHint = lipgloss.NewStyle().
		Foreground(TextMuted)

	return t
}
