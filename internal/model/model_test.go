// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"

	"github.com/akinsokpah/fulltask-tui/internal/util"
)

// =============================================================================
// SESSION TESTS
// =============================================================================

func TestNewSessionSeed(t *testing.T) {
	s := NewSession()

	if s.ID == "" {
		t.Error("session id is empty")
	}
	if s.Title != DefaultTitle {
		t.Errorf("title = %q, want %q", s.Title, DefaultTitle)
	}
	if len(s.Messages) != 1 {
		t.Fatalf("seeded session has %d messages, want 1", len(s.Messages))
	}

	welcome := s.Messages[0]
	if welcome.Role != RoleAssistant {
		t.Errorf("welcome role = %q, want assistant", welcome.Role)
	}
	if welcome.Pending {
		t.Error("welcome message must not be pending")
	}
	if welcome.Text != WelcomeText {
		t.Errorf("welcome text = %q", welcome.Text)
	}
	if s.HasUserTurn() {
		t.Error("fresh session reports a user turn")
	}
}

func TestSessionFindMessage(t *testing.T) {
	s := NewSession()
	user := NewUserMessage("hi", "")
	s.Messages = append(s.Messages, user)

	if got := s.FindMessage(user.ID); got != user {
		t.Error("FindMessage did not return the appended message")
	}
	if got := s.FindMessage("absent"); got != nil {
		t.Errorf("FindMessage(absent) = %v, want nil", got)
	}
}

func TestSessionLastMessage(t *testing.T) {
	s := NewSession()
	if last := s.LastMessage(); last == nil || last.Text != WelcomeText {
		t.Fatalf("LastMessage on fresh session = %v, want welcome seed", last)
	}

	s.Messages = append(s.Messages, NewUserMessage("newest", ""))
	if last := s.LastMessage(); last == nil || last.Text != "newest" {
		t.Errorf("LastMessage = %v, want the appended message", last)
	}

	empty := &Session{}
	if last := empty.LastMessage(); last != nil {
		t.Errorf("LastMessage on empty session = %v, want nil", last)
	}
}

func TestSessionClone(t *testing.T) {
	s := NewSession()
	s.Messages = append(s.Messages, NewUserMessage("original", ""))

	c := s.Clone()
	c.Messages[1].Text = "mutated"

	if s.Messages[1].Text != "original" {
		t.Error("clone shares message backing with original")
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestPendingAssistantLifecycleFields(t *testing.T) {
	m := NewPendingAssistantMessage()
	if m.Role != RoleAssistant {
		t.Errorf("role = %q", m.Role)
	}
	if !m.Pending {
		t.Error("placeholder not pending")
	}
	if m.Text != "" {
		t.Errorf("placeholder text = %q, want empty", m.Text)
	}
}

func TestMessagePreview(t *testing.T) {
	m := NewUserMessage("line one\nline two\n\nline three", "")
	got := m.Preview(50)
	if strings.Contains(got, "\n") {
		t.Errorf("preview contains newline: %q", got)
	}
	if got != "line one line two line three" {
		t.Errorf("preview = %q", got)
	}
}

// =============================================================================
// TITLE DERIVATION TESTS
// =============================================================================

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain text", "Hello", "Hello"},
		{"punctuation stripped", "What's up, world?!", "Whats up world"},
		{"whitespace collapsed", "  spaced   out\ttext  ", "spaced out text"},
		{"empty yields image fallback", "", ImageOnlyTitle},
		{"punctuation only yields image fallback", "?!...", ImageOnlyTitle},
		{"exactly max length kept", strings.Repeat("a", TitleMaxRunes), strings.Repeat("a", TitleMaxRunes)},
		{
			"long text truncated with marker",
			"Explain the difference between goroutines and operating system threads",
			"Explain the difference between" + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveTitle(tt.text); got != tt.want {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestDeriveTitleLengthBound(t *testing.T) {
	inputs := []string{
		strings.Repeat("word ", 40),
		strings.Repeat("日本語テキスト", 10),
		"short",
	}
	for _, in := range inputs {
		got := DeriveTitle(in)
		if util.RuneLen(got) > TitleMaxRunes+3 {
			t.Errorf("DeriveTitle(%.20q...) length %d exceeds max+ellipsis", in, util.RuneLen(got))
		}
	}
}
