// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/akinsokpah/fulltask-tui/internal/config"
)

// Run starts the TUI and blocks until it exits. While running, edits to the
// config file are picked up live.
func Run(m *Model) error {
	if path, err := config.Path(); err == nil {
		watcher, werr := config.Watch(path, func(cfg *config.Config) {
			m.Publish(ConfigReloadedMsg{Config: cfg})
		})
		if werr == nil {
			defer watcher.Close()
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
