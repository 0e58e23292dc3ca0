// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/akinsokpah/fulltask-tui/internal/store"
	"github.com/akinsokpah/fulltask-tui/internal/util"
)

const profileFile = "profile.json"

// =============================================================================
// PROFILE
// =============================================================================

// Profile is the display identity of the signed-in user.
type Profile struct {
	UID         string    `json:"uid"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	SignedInAt  time.Time `json:"signed_in_at"`
}

// Initial returns the avatar initial for the profile.
func (p *Profile) Initial() string {
	name := strings.TrimSpace(p.DisplayName)
	if name == "" {
		return "?"
	}
	return strings.ToUpper(string([]rune(name)[0]))
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager persists the signed-in profile.
type Manager struct {
	path string
}

// NewManager creates a manager rooted at dir. An empty dir selects the
// default fulltask data directory.
func NewManager(dir string) (*Manager, error) {
	if dir == "" {
		var err error
		dir, err = store.DefaultDir()
		if err != nil {
			return nil, err
		}
	}
	return &Manager{path: filepath.Join(dir, profileFile)}, nil
}

// Login records the profile and marks the user signed in. An empty display
// name is rejected; the uid is assigned here when the provider gave none.
func (m *Manager) Login(p Profile) (*Profile, error) {
	p.DisplayName = strings.TrimSpace(p.DisplayName)
	if p.DisplayName == "" {
		return nil, fmt.Errorf("display name is required")
	}
	if p.UID == "" {
		p.UID = uuid.NewString()
	}
	p.SignedInAt = time.Now()

	data, err := json.MarshalIndent(&p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize profile: %w", err)
	}
	if err := util.AtomicWriteFile(m.path, data, 0600); err != nil {
		return nil, fmt.Errorf("failed to persist profile: %w", err)
	}
	return &p, nil
}

// Logout removes the stored profile. Logging out while signed out is not an
// error.
func (m *Manager) Logout() error {
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove profile: %w", err)
	}
	return nil
}

// Current returns the signed-in profile, or nil when signed out. An
// unreadable profile counts as signed out.
func (m *Manager) Current() *Profile {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return nil
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil
	}
	if p.DisplayName == "" {
		return nil
	}
	return &p
}

// SignedIn reports whether a user is currently signed in.
func (m *Manager) SignedIn() bool {
	return m.Current() != nil
}
