// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/akinsokpah/fulltask-tui/internal/config"
	"github.com/akinsokpah/fulltask-tui/internal/openai"
	"github.com/akinsokpah/fulltask-tui/internal/store"
	"github.com/akinsokpah/fulltask-tui/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)
)

// =============================================================================
// TERMINAL
// =============================================================================

// IsStdoutTTY reports whether stdout is a terminal. Markdown rendering and
// colors are disabled for piped output.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// IsStdinTTY reports whether stdin is a terminal.
func IsStdinTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// =============================================================================
// MARKDOWN OUTPUT
// =============================================================================

// renderMarkdown renders content for terminal display, returning it
// unchanged when rendering is unavailable or stdout is piped.
func renderMarkdown(content string) string {
	if !IsStdoutTTY() {
		return content
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(config.Global().UI.WordWrap),
	)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n") + "\n"
}

// =============================================================================
// CLIENT CONSTRUCTION
// =============================================================================

// newClient builds a completion client from config and stored credentials.
// modelOverride and mode are optional.
func newClient(cfg *config.Config, modelOverride string, mode config.Mode) (*openai.Client, error) {
	creds, err := store.NewCredentialStore("")
	if err != nil {
		return nil, err
	}
	apiKey, err := creds.APIKey()
	if err != nil {
		return nil, err
	}

	client := openai.NewClient(apiKey)
	client.SetBaseURL(cfg.Model.BaseURL)
	if modelOverride != "" {
		client.SetModel(modelOverride)
	} else {
		client.SetModel(cfg.Model.ForMode(mode))
	}
	client.SetMaxTokens(cfg.Model.MaxTokens)
	return client, nil
}

// friendlyCompletionError translates client failures for terminal output.
func friendlyCompletionError(err error) string {
	if openai.IsNotConfigured(err) {
		return "No API key configured. Set one with `fulltask key set` or export OPENAI_API_KEY."
	}
	return "Request failed. Check your connection and try again. (detail: " + err.Error() + ")"
}

// errorf prints a styled error line to stderr.
func errorf(format string, args ...any) {
	fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+fmt.Sprintf(format, args...))
}
