// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package openai

// =============================================================================
// WIRE TYPES
// =============================================================================

// Message roles in the chat-completion protocol.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ImageURL carries an inline image reference as a data URL.
type ImageURL struct {
	URL string `json:"url"`
}

// ContentPart is one element of a multi-part message content.
type ContentPart struct {
	Type     string    `json:"type"` // "text" or "image_url"
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ChatMessage is a single role-tagged message in a request. Content is either
// a plain string or, for turns carrying an image, a []ContentPart.
type ChatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// TextMessage builds a plain text message.
func TextMessage(role, text string) ChatMessage {
	return ChatMessage{Role: role, Content: text}
}

// MultipartMessage builds a text + inline image message.
func MultipartMessage(role, text, imageDataURL string) ChatMessage {
	return ChatMessage{
		Role: role,
		Content: []ContentPart{
			{Type: "text", Text: text},
			{Type: "image_url", ImageURL: &ImageURL{URL: imageDataURL}},
		},
	}
}

// ChatRequest is the chat-completion request payload.
type ChatRequest struct {
	Model     string        `json:"model"`
	Messages  []ChatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
	Stream    bool          `json:"stream"`
}

// StreamChunk is one parsed SSE payload of a streaming response.
type StreamChunk struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
			Role    string `json:"role,omitempty"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// GetContent returns the content delta from the first choice.
func (c *StreamChunk) GetContent() string {
	if len(c.Choices) > 0 {
		return c.Choices[0].Delta.Content
	}
	return ""
}

// IsDone reports whether the chunk carries a finish reason.
func (c *StreamChunk) IsDone() bool {
	return len(c.Choices) > 0 && c.Choices[0].FinishReason != ""
}

// errorResponse is the provider's error envelope.
type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// =============================================================================
// TURNS
// =============================================================================

// Turn is one conversation turn as the session layer sees it, independent of
// the wire format. ImageDataURL, when set, is an already-encoded data URL.
type Turn struct {
	Role         string
	Text         string
	ImageDataURL string
}

// MessagesFromTurns converts turns into wire messages with the fixed persona
// instruction first. Turns with an image become multi-part content.
func MessagesFromTurns(turns []Turn) []ChatMessage {
	messages := make([]ChatMessage, 0, len(turns)+1)
	messages = append(messages, TextMessage(RoleSystem, SystemInstruction))
	for _, t := range turns {
		if t.ImageDataURL != "" {
			messages = append(messages, MultipartMessage(t.Role, t.Text, t.ImageDataURL))
			continue
		}
		messages = append(messages, TextMessage(t.Role, t.Text))
	}
	return messages
}
