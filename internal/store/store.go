// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/akinsokpah/fulltask-tui/internal/model"
	"github.com/akinsokpah/fulltask-tui/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrCorrupted reports that the persisted session list could not be parsed.
// The bad file has already been sidelined; callers recover by starting with
// a fresh list and must not surface this to the user.
var ErrCorrupted = errors.New("session store: corrupted state discarded")

// =============================================================================
// SESSION STORE
// =============================================================================

const sessionsFile = "sessions.json"

// SessionStore persists the full session list as a single JSON document.
type SessionStore struct {
	path string
}

// DefaultDir returns the fulltask data directory (~/.fulltask).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".fulltask"), nil
}

// NewSessionStore creates a store rooted at dir. An empty dir selects
// DefaultDir.
func NewSessionStore(dir string) (*SessionStore, error) {
	if dir == "" {
		var err error
		dir, err = DefaultDir()
		if err != nil {
			return nil, err
		}
	}
	return &SessionStore{path: filepath.Join(dir, sessionsFile)}, nil
}

// Path returns the backing file path.
func (s *SessionStore) Path() string {
	return s.path
}

// Load reads the persisted session list.
//
// A missing file yields (nil, nil): first run. An unparsable file is renamed
// to <path>.corrupt and Load returns (nil, ErrCorrupted); the caller starts
// fresh and the evidence stays on disk for inspection.
func (s *SessionStore) Load() ([]*model.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session store: %w", err)
	}

	var sessions []*model.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		os.Rename(s.path, s.path+".corrupt")
		return nil, ErrCorrupted
	}

	// Entries without an id cannot be addressed by any operation; drop them
	// rather than carry unreachable state.
	valid := sessions[:0]
	for _, sess := range sessions {
		if sess != nil && sess.ID != "" {
			valid = append(valid, sess)
		}
	}
	return valid, nil
}

// Save rewrites the whole session list atomically.
func (s *SessionStore) Save(sessions []*model.Session) error {
	if sessions == nil {
		sessions = []*model.Session{}
	}
	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize sessions: %w", err)
	}
	if err := util.AtomicWriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to persist sessions: %w", err)
	}
	return nil
}
