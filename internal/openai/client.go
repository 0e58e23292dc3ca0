// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package openai

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultBaseURL is the OpenAI API base URL.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is the model used when none is configured.
	DefaultModel = "gpt-4o"

	// DefaultMaxTokens caps the completion length.
	DefaultMaxTokens = 4096

	// DefaultTimeout applies to non-streaming requests.
	DefaultTimeout = 60 * time.Second

	// MaxErrorBodySize bounds how much of an error response body is read.
	MaxErrorBodySize = 1 * 1024 * 1024
)

var (
	// Shared pooled HTTP client for request/response calls.
	sharedHTTPClient = &http.Client{
		Transport: sharedTransport(),
		Timeout:   DefaultTimeout,
	}

	// Streaming requests have no client timeout; lifetime is controlled by
	// the caller's context.
	sharedStreamingClient = &http.Client{
		Transport: sharedTransport(),
	}
)

func sharedTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is a chat-completion client for an OpenAI-compatible endpoint.
type Client struct {
	apiKey    string
	baseURL   string
	model     string
	maxTokens int
}

// NewClient creates a client with default endpoint, model, and token limit.
// An empty apiKey yields a client whose requests fail with ErrNotConfigured.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:    strings.TrimSpace(apiKey),
		baseURL:   DefaultBaseURL,
		model:     DefaultModel,
		maxTokens: DefaultMaxTokens,
	}
}

// SetBaseURL overrides the API base URL (for compatible providers or tests).
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimRight(u, "/")
}

// SetModel overrides the completion model.
func (c *Client) SetModel(model string) {
	if model != "" {
		c.model = model
	}
}

// SetMaxTokens overrides the completion token cap.
func (c *Client) SetMaxTokens(n int) {
	if n > 0 {
		c.maxTokens = n
	}
}

// Model returns the configured completion model.
func (c *Client) Model() string {
	return c.model
}

// IsConfigured reports whether an API key is set.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// Verify checks the credential against the models endpoint without starting
// a completion. It returns nil when the endpoint accepts the key,
// ErrNotConfigured when no key is set, and an *UpstreamError otherwise.
func (c *Client) Verify(ctx context.Context) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := sharedHTTPClient.Do(req)
	if err != nil {
		return &UpstreamError{Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return parseErrorResponse(resp)
	}
	return nil
}

// =============================================================================
// ERROR RESPONSES
// =============================================================================

// parseErrorResponse maps a non-2xx response to an UpstreamError, keeping the
// provider's message and code when the body parses.
func parseErrorResponse(resp *http.Response) *UpstreamError {
	ue := &UpstreamError{Status: resp.StatusCode, Message: resp.Status}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBodySize))
	if err != nil || len(body) == 0 {
		return ue
	}

	var envelope errorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		ue.Message = envelope.Error.Message
		ue.Code = envelope.Error.Code
		if ue.Code == "" {
			ue.Code = envelope.Error.Type
		}
	}
	return ue
}
