// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)
	return m
}

func TestLoginLogoutRoundTrip(t *testing.T) {
	m := newTestManager(t)
	require.False(t, m.SignedIn())
	require.Nil(t, m.Current())

	p, err := m.Login(Profile{DisplayName: "Akin Sokpah", Email: "akin@fulltask.ai"})
	require.NoError(t, err)
	require.NotEmpty(t, p.UID)
	require.False(t, p.SignedInAt.IsZero())

	require.True(t, m.SignedIn())
	current := m.Current()
	require.Equal(t, "Akin Sokpah", current.DisplayName)
	require.Equal(t, p.UID, current.UID)
	require.Equal(t, "A", current.Initial())

	require.NoError(t, m.Logout())
	require.False(t, m.SignedIn())

	// Logout is idempotent.
	require.NoError(t, m.Logout())
}

func TestLoginRequiresDisplayName(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Login(Profile{DisplayName: "   "})
	require.Error(t, err)
	require.False(t, m.SignedIn())
}

func TestCorruptProfileCountsAsSignedOut(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "profile.json"), []byte("{oops"), 0600))
	require.False(t, m.SignedIn())
}

func TestProfileInitial(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"akin", "A"},
		{"école", "É"},
		{"", "?"},
	}
	for _, tt := range tests {
		p := Profile{DisplayName: tt.name}
		require.Equal(t, tt.want, p.Initial())
	}
}
