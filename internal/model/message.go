// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/akinsokpah/fulltask-tui/internal/util"
)

// =============================================================================
// ROLES
// =============================================================================

// Role identifies the author of a message.
type Role string

const (
	// RoleUser is a message authored by the user.
	RoleUser Role = "user"

	// RoleAssistant is a message authored by the model.
	RoleAssistant Role = "assistant"
)

// =============================================================================
// MESSAGE
// =============================================================================

// Source is a reference the assistant cited in a response.
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title,omitempty"`
}

// Message is a single turn in a session.
//
// Pending is true only for an assistant message between its creation and its
// first terminal update. Once Pending is cleared the message is immutable;
// the session manager enforces this.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Pending   bool      `json:"pending,omitempty"`
	ImagePath string    `json:"image_path,omitempty"`
	Sources   []Source  `json:"sources,omitempty"`
}

// NewUserMessage creates a user message carrying text and an optional image.
func NewUserMessage(text, imagePath string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Text:      text,
		CreatedAt: time.Now(),
		ImagePath: imagePath,
	}
}

// NewAssistantMessage creates a finalized assistant message with fixed text.
func NewAssistantMessage(text string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Text:      text,
		CreatedAt: time.Now(),
	}
}

// NewPendingAssistantMessage creates an empty assistant placeholder that will
// be patched as stream chunks arrive and finalized when the stream ends.
func NewPendingAssistantMessage() *Message {
	return &Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		CreatedAt: time.Now(),
		Pending:   true,
	}
}

// HasImage reports whether the message carries an image attachment.
func (m *Message) HasImage() bool {
	return m.ImagePath != ""
}

// Preview returns a single-line preview of the message text, truncated to
// maxRunes characters.
func (m *Message) Preview(maxRunes int) string {
	line := strings.Join(strings.Fields(m.Text), " ")
	return util.TruncateRunes(line, maxRunes)
}

// Clone returns a deep copy of the message.
func (m *Message) Clone() *Message {
	c := *m
	if m.Sources != nil {
		c.Sources = make([]Source, len(m.Sources))
		copy(c.Sources, m.Sources)
	}
	return &c
}
