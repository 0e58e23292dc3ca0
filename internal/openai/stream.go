// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// =============================================================================
// SSE READER
// =============================================================================

// doneSentinel terminates an OpenAI stream.
const doneSentinel = "[DONE]"

// SSEReader parses Server-Sent Events from a response body.
type SSEReader struct {
	reader *bufio.Reader
}

// NewSSEReader creates an SSE reader from an io.Reader.
func NewSSEReader(r io.Reader) *SSEReader {
	return &SSEReader{reader: bufio.NewReader(r)}
}

// ReadEvent reads the next event and returns its data payload. Multi-line
// data fields are joined with newlines. Returns io.EOF at end of stream.
func (s *SSEReader) ReadEvent() ([]byte, error) {
	var dataLines [][]byte

	for {
		line, err := s.reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				if len(dataLines) > 0 {
					return bytes.Join(dataLines, []byte("\n")), nil
				}
				return nil, io.EOF
			}
			return nil, err
		}

		line = bytes.TrimRight(line, "\r\n")

		// Blank line ends the event.
		if len(line) == 0 {
			if len(dataLines) > 0 {
				return bytes.Join(dataLines, []byte("\n")), nil
			}
			continue
		}

		if bytes.HasPrefix(line, []byte("data:")) {
			dataLines = append(dataLines, bytes.TrimSpace(line[5:]))
		}
		// Other fields (event:, id:, retry:, comments) are ignored.
	}
}

// =============================================================================
// STREAMING CHAT
// =============================================================================

// ChunkCallback receives the cumulative response text after each chunk.
// The argument is the full text so far, never a delta.
type ChunkCallback func(total string)

// StreamChat sends the conversation to the completion endpoint and streams
// the response, invoking onChunk with the running total after every content
// delta. It returns the final accumulated text.
//
// A missing credential fails with ErrNotConfigured before any request is
// made. Provider or transport failures return an *UpstreamError carrying the
// raw detail; any partial text accumulated before the failure is returned
// alongside it. There is exactly one attempt per call, no internal retry.
func (c *Client) StreamChat(ctx context.Context, turns []Turn, onChunk ChunkCallback) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}

	reqBody := ChatRequest{
		Model:     c.model,
		Messages:  MessagesFromTurns(turns),
		MaxTokens: c.maxTokens,
		Stream:    true,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", strings.NewReader(string(payload)))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := sharedStreamingClient.Do(req)
	if err != nil {
		return "", &UpstreamError{Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", parseErrorResponse(resp)
	}

	var total strings.Builder
	sse := NewSSEReader(resp.Body)

	for {
		select {
		case <-ctx.Done():
			return total.String(), &UpstreamError{Message: "stream cancelled", Err: ctx.Err()}
		default:
		}

		data, err := sse.ReadEvent()
		if err != nil {
			if err == io.EOF {
				// Upstream closed without [DONE]; treat accumulated text
				// as the final answer.
				return total.String(), nil
			}
			return total.String(), &UpstreamError{Message: "stream read failed", Err: err}
		}

		if string(data) == doneSentinel {
			return total.String(), nil
		}

		var chunk StreamChunk
		if err := json.Unmarshal(data, &chunk); err != nil {
			// Skip unparsable keep-alive noise rather than abort the stream.
			continue
		}

		if content := chunk.GetContent(); content != "" {
			total.WriteString(content)
			if onChunk != nil {
				onChunk(total.String())
			}
		}

		// A finish reason ends the response even when the provider never
		// sends the [DONE] sentinel.
		if chunk.IsDone() {
			return total.String(), nil
		}
	}
}
