// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(" sk-abc ")
	require.True(t, c.IsConfigured())
	require.Equal(t, DefaultModel, c.Model())

	c.SetModel("gpt-4o-mini")
	require.Equal(t, "gpt-4o-mini", c.Model())

	// Empty override keeps the current model.
	c.SetModel("")
	require.Equal(t, "gpt-4o-mini", c.Model())
}

func TestVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/models", r.URL.Path)
		if r.Header.Get("Authorization") != "Bearer sk-good" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"error":{"message":"Incorrect API key provided","code":"invalid_api_key"}}`)
			return
		}
		io.WriteString(w, `{"object":"list","data":[]}`)
	}))
	t.Cleanup(srv.Close)

	good := NewClient("sk-good")
	good.SetBaseURL(srv.URL)
	require.NoError(t, good.Verify(context.Background()))

	bad := NewClient("sk-bad")
	bad.SetBaseURL(srv.URL)
	err := bad.Verify(context.Background())
	require.True(t, IsUpstream(err))
	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, http.StatusUnauthorized, ue.Status)
	require.Equal(t, "invalid_api_key", ue.Code)
}

func TestVerifyNotConfigured(t *testing.T) {
	c := NewClient("")
	require.True(t, IsNotConfigured(c.Verify(context.Background())))
}

func TestMessagesFromTurns(t *testing.T) {
	turns := []Turn{
		{Role: RoleUser, Text: "hello"},
		{Role: RoleAssistant, Text: "hi there"},
		{Role: RoleUser, Text: "what is this?", ImageDataURL: "data:image/png;base64,AAAA"},
	}

	messages := MessagesFromTurns(turns)
	require.Len(t, messages, 4)

	require.Equal(t, RoleSystem, messages[0].Role)
	require.Equal(t, SystemInstruction, messages[0].Content)

	require.Equal(t, "hello", messages[1].Content)
	require.Equal(t, "hi there", messages[2].Content)

	parts, ok := messages[3].Content.([]ContentPart)
	require.True(t, ok, "image turn must be multi-part")
	require.Len(t, parts, 2)
	require.Equal(t, "text", parts[0].Type)
	require.Equal(t, "what is this?", parts[0].Text)
	require.Equal(t, "image_url", parts[1].Type)
	require.Equal(t, "data:image/png;base64,AAAA", parts[1].ImageURL.URL)
}

func TestMultipartMessageWireFormat(t *testing.T) {
	m := MultipartMessage(RoleUser, "look", "data:image/jpeg;base64,Zm9v")
	data, err := json.Marshal(m)
	require.NoError(t, err)

	js := string(data)
	require.Contains(t, js, `"type":"text"`)
	require.Contains(t, js, `"type":"image_url"`)
	require.Contains(t, js, `"url":"data:image/jpeg;base64,Zm9v"`)
}

func TestEncodeImageDataURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pic.png")
	require.NoError(t, os.WriteFile(path, []byte("pngbytes"), 0644))

	url, err := EncodeImageDataURL(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	_, err = EncodeImageDataURL(filepath.Join(dir, "notes.txt"))
	require.Error(t, err)

	_, err = EncodeImageDataURL(filepath.Join(dir, "missing.png"))
	require.Error(t, err)
}
