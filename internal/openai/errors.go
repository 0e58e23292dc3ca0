// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package openai

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrNotConfigured indicates no API credential is available. Callers should
// surface a credential-entry prompt, not a generic failure.
var ErrNotConfigured = errors.New("openai: api key not configured")

// UpstreamError is any provider-side failure: HTTP error status, malformed
// stream, or transport failure. The raw provider detail is preserved here
// for logs; user-facing text should be a generic wrapper.
type UpstreamError struct {
	Status  int    // HTTP status, 0 for transport failures
	Code    string // provider error code, when present
	Message string // raw provider message
	Err     error  // underlying error, when any
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	switch {
	case e.Status != 0 && e.Code != "":
		return fmt.Sprintf("openai: upstream error (status %d, code %s): %s", e.Status, e.Code, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("openai: upstream error (status %d): %s", e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("openai: upstream error: %v", e.Err)
	default:
		return fmt.Sprintf("openai: upstream error: %s", e.Message)
	}
}

// Unwrap returns the underlying error.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsNotConfigured reports whether err is the missing-credential error.
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}

// IsUpstream reports whether err is a provider-side failure.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
