// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/akinsokpah/fulltask-tui/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultTitle is the placeholder title of a freshly created session.
	DefaultTitle = "New Conversation"

	// TitleMaxRunes is the maximum derived title length before the ellipsis
	// marker is appended.
	TitleMaxRunes = 30

	// ImageOnlyTitle is the title used when the first user turn carried an
	// image but no usable text.
	ImageOnlyTitle = "Image Analysis"

	// WelcomeText seeds every new session with an assistant greeting.
	WelcomeText = "**Welcome to FullTask AI Pro.** I am your advanced AI assistant. " +
		"Ask me anything, or attach an image for analysis."
)

// =============================================================================
// SESSION
// =============================================================================

// Session is a single conversation thread.
//
// Messages is never empty: a session is seeded with one assistant welcome
// message at creation.
type Session struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Messages  []*Message `json:"messages"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewSession creates a session with a placeholder title and the seeded
// assistant welcome message.
func NewSession() *Session {
	return &Session{
		ID:        uuid.NewString(),
		Title:     DefaultTitle,
		Messages:  []*Message{NewAssistantMessage(WelcomeText)},
		CreatedAt: time.Now(),
	}
}

// FindMessage returns the message with the given id, or nil.
func (s *Session) FindMessage(id string) *Message {
	for _, m := range s.Messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// HasUserTurn reports whether the session already contains a user message.
// A session without one still carries the placeholder title.
func (s *Session) HasUserTurn() bool {
	for _, m := range s.Messages {
		if m.Role == RoleUser {
			return true
		}
	}
	return false
}

// LastMessage returns the most recent message, or nil for a (malformed)
// empty session.
func (s *Session) LastMessage() *Message {
	if len(s.Messages) == 0 {
		return nil
	}
	return s.Messages[len(s.Messages)-1]
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	c := *s
	c.Messages = make([]*Message, len(s.Messages))
	for i, m := range s.Messages {
		c.Messages[i] = m.Clone()
	}
	return &c
}

// =============================================================================
// TITLE DERIVATION
// =============================================================================

// DeriveTitle derives a session title from the first user turn's text.
//
// Punctuation is stripped (word characters and spaces survive, after NFC
// normalization), whitespace is collapsed, and the result is cut to
// TitleMaxRunes characters with "..." appended when it was longer. Text that
// reduces to nothing yields ImageOnlyTitle, covering image-only turns.
func DeriveTitle(text string) string {
	normalized := norm.NFC.String(text)

	var b strings.Builder
	b.Grow(len(normalized))
	for _, r := range normalized {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	clean := strings.Join(strings.Fields(b.String()), " ")
	if clean == "" {
		return ImageOnlyTitle
	}
	if util.RuneLen(clean) > TitleMaxRunes {
		return util.TruncateRunesNoEllipsis(clean, TitleMaxRunes) + "..."
	}
	return clean
}
