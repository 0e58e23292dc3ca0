// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package openai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// =============================================================================
// SSE READER TESTS
// =============================================================================

func TestSSEReaderReadEvent(t *testing.T) {
	input := "data: first\n\n" +
		"event: ping\ndata: second\n\n" +
		": comment line\n" +
		"data: third\n"

	r := NewSSEReader(strings.NewReader(input))

	for i, want := range []string{"first", "second", "third"} {
		data, err := r.ReadEvent()
		require.NoError(t, err, "event %d", i)
		require.Equal(t, want, string(data))
	}

	_, err := r.ReadEvent()
	require.Equal(t, io.EOF, err)
}

func TestSSEReaderMultiLineData(t *testing.T) {
	r := NewSSEReader(strings.NewReader("data: line1\ndata: line2\n\n"))
	data, err := r.ReadEvent()
	require.NoError(t, err)
	require.Equal(t, "line1\nline2", string(data))
}

func TestSSEReaderCRLF(t *testing.T) {
	r := NewSSEReader(strings.NewReader("data: payload\r\n\r\n"))
	data, err := r.ReadEvent()
	require.NoError(t, err)
	require.Equal(t, "payload", string(data))
}

// =============================================================================
// STREAMING CHAT TESTS
// =============================================================================

func sseChunk(content string) string {
	return fmt.Sprintf(`data: {"id":"c1","model":"gpt-4o","choices":[{"delta":{"content":%q},"finish_reason":""}]}`+"\n\n", content)
}

func newStreamServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		if status != http.StatusOK {
			w.WriteHeader(status)
			io.WriteString(w, body)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStreamChatCumulativeCallback(t *testing.T) {
	body := sseChunk("H") + sseChunk("e") + sseChunk("l") + "data: [DONE]\n\n"
	srv := newStreamServer(t, body, http.StatusOK)

	c := NewClient("sk-test")
	c.SetBaseURL(srv.URL)

	var calls []string
	final, err := c.StreamChat(context.Background(), []Turn{{Role: RoleUser, Text: "hi"}},
		func(total string) { calls = append(calls, total) })

	require.NoError(t, err)
	require.Equal(t, "Hel", final)
	// Every callback receives the running total, never the delta.
	require.Equal(t, []string{"H", "He", "Hel"}, calls)
}

func TestStreamChatEOFWithoutDone(t *testing.T) {
	srv := newStreamServer(t, sseChunk("partial answer"), http.StatusOK)

	c := NewClient("sk-test")
	c.SetBaseURL(srv.URL)

	final, err := c.StreamChat(context.Background(), []Turn{{Role: RoleUser, Text: "hi"}}, nil)
	require.NoError(t, err)
	require.Equal(t, "partial answer", final)
}

func TestStreamChatSkipsMalformedChunks(t *testing.T) {
	body := sseChunk("ok") + "data: {broken\n\n" + "data: [DONE]\n\n"
	srv := newStreamServer(t, body, http.StatusOK)

	c := NewClient("sk-test")
	c.SetBaseURL(srv.URL)

	final, err := c.StreamChat(context.Background(), []Turn{{Role: RoleUser, Text: "hi"}}, nil)
	require.NoError(t, err)
	require.Equal(t, "ok", final)
}

func TestStreamChatFinishReasonWithoutDone(t *testing.T) {
	body := sseChunk("all") + sseChunk(" set") +
		`data: {"id":"c1","model":"gpt-4o","choices":[{"delta":{},"finish_reason":"stop"}]}` + "\n\n" +
		sseChunk("never delivered")
	srv := newStreamServer(t, body, http.StatusOK)

	c := NewClient("sk-test")
	c.SetBaseURL(srv.URL)

	final, err := c.StreamChat(context.Background(), []Turn{{Role: RoleUser, Text: "hi"}}, nil)
	require.NoError(t, err)
	require.Equal(t, "all set", final)
}

func TestStreamChatNotConfigured(t *testing.T) {
	c := NewClient("")
	_, err := c.StreamChat(context.Background(), []Turn{{Role: RoleUser, Text: "hi"}}, nil)
	require.True(t, IsNotConfigured(err))
}

func TestStreamChatUpstreamError(t *testing.T) {
	body := `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`
	srv := newStreamServer(t, body, http.StatusUnauthorized)

	c := NewClient("sk-test")
	c.SetBaseURL(srv.URL)

	_, err := c.StreamChat(context.Background(), []Turn{{Role: RoleUser, Text: "hi"}}, nil)
	require.True(t, IsUpstream(err))

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, http.StatusUnauthorized, ue.Status)
	require.Equal(t, "invalid_api_key", ue.Code)
	require.Contains(t, ue.Message, "Incorrect API key")
}

func TestStreamChatTransportError(t *testing.T) {
	c := NewClient("sk-test")
	c.SetBaseURL("http://127.0.0.1:0")

	_, err := c.StreamChat(context.Background(), []Turn{{Role: RoleUser, Text: "hi"}}, nil)
	require.True(t, IsUpstream(err))
	require.False(t, IsNotConfigured(err))
}
