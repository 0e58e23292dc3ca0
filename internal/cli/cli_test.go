// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akinsokpah/fulltask-tui/internal/model"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCmd  Command
		wantArgs []string
	}{
		{"no args launches TUI", nil, CmdTUI, nil},
		{"ask with question", []string{"ask", "hello"}, CmdAsk, []string{"hello"}},
		{"chat", []string{"chat"}, CmdChat, nil},
		{"sessions subcommand", []string{"sessions", "list"}, CmdSessions, []string{"list"}},
		{"version flag", []string{"--version"}, CmdVersion, nil},
		{"help flag", []string{"-h"}, CmdHelp, nil},
		{"unknown falls back to help", []string{"bogus"}, CmdHelp, []string{"bogus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := Parse(tt.args)
			assert.Equal(t, tt.wantCmd, cmd)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "****", maskKey("abcd"))
	assert.Equal(t, "********", maskKey("12345678"))

	masked := maskKey("sk-proj-abcdefgh1234")
	assert.True(t, strings.HasPrefix(masked, "sk-p"))
	assert.True(t, strings.HasSuffix(masked, "1234"))
	assert.NotContains(t, masked, "abcdefgh")
}

func TestSessionMarkdown(t *testing.T) {
	s := &model.Session{
		ID:        "s1",
		Title:     "Goroutines",
		CreatedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Messages: []*model.Message{
			{ID: "m1", Role: model.RoleUser, Text: "What is a goroutine?"},
			{
				ID: "m2", Role: model.RoleAssistant, Text: "A lightweight thread.",
				Sources: []model.Source{{URI: "https://go.dev", Title: "go.dev"}},
			},
		},
	}

	out := sessionMarkdown(s)
	require.Contains(t, out, "# Goroutines")
	assert.Contains(t, out, "## You")
	assert.Contains(t, out, "## FullTask AI")
	assert.Contains(t, out, "What is a goroutine?")
	assert.Contains(t, out, "[go.dev](https://go.dev)")
}

func TestConfigKeysCoverOrder(t *testing.T) {
	require.Len(t, configKeyOrder, len(configKeys))
	for _, key := range configKeyOrder {
		_, ok := configKeys[key]
		assert.True(t, ok, "key %s missing from configKeys", key)
	}
}

func TestFriendlyCompletionErrorKeepsDetailOutOfKeyMessage(t *testing.T) {
	msg := friendlyCompletionError(assertErr{})
	assert.Contains(t, msg, "Request failed")
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
