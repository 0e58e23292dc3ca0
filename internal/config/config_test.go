// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvModel, EnvBaseURL, EnvMaxTokens, EnvTheme} {
		t.Setenv(key, "")
	}
}

func TestDefaultIsValid(t *testing.T) {
	clearEnv(t)
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, CurrentVersion, cfg.Version)
	require.Equal(t, "gpt-4o", cfg.Model.ForMode(ModeChat))
}

func TestLoadFromMissingFileYieldsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	require.Equal(t, Default().Model.BaseURL, cfg.Model.BaseURL)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Model.Chat = "gpt-4o-mini"
	cfg.Model.MaxTokens = 2048
	cfg.UI.Theme = "dark"
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	require.Equal(t, "gpt-4o-mini", loaded.Model.Chat)
	require.Equal(t, 2048, loaded.Model.MaxTokens)
	require.Equal(t, "dark", loaded.UI.Theme)
}

func TestSparseFileFilledWithDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[model]\nchat = \"gpt-4.1\"\n"), 0600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	require.Equal(t, "gpt-4.1", cfg.Model.Chat)
	// Unset modes inherit the chat model; other fields fall to defaults.
	require.Equal(t, "gpt-4.1", cfg.Model.ForMode(ModeSearch))
	require.Equal(t, "gpt-4.1", cfg.Model.ForMode(ModePro))
	require.Equal(t, Default().Model.BaseURL, cfg.Model.BaseURL)
	require.Equal(t, Default().Model.MaxTokens, cfg.Model.MaxTokens)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvModel, "gpt-5")
	t.Setenv(EnvBaseURL, "https://proxy.example.com/v1")
	t.Setenv(EnvMaxTokens, "1234")
	t.Setenv(EnvTheme, "light")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	require.Equal(t, "gpt-5", cfg.Model.Chat)
	require.Equal(t, "gpt-5", cfg.Model.ForMode(ModePro))
	require.Equal(t, "https://proxy.example.com/v1", cfg.Model.BaseURL)
	require.Equal(t, 1234, cfg.Model.MaxTokens)
	require.Equal(t, "light", cfg.UI.Theme)
}

func TestMalformedFileIsAnError(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("model = {{{"), 0600))

	_, err := LoadFrom(path)
	require.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	clearEnv(t)
	cfg := Default()
	cfg.Model.BaseURL = "ftp://nope"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.UI.Theme = "solarized"
	require.Error(t, cfg.Validate())
}

func TestGlobalSetAndReset(t *testing.T) {
	clearEnv(t)
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)

	custom := Default()
	custom.Model.Chat = "custom-model"
	SetGlobal(custom)
	require.Equal(t, "custom-model", Global().Model.Chat)
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, Default().SaveTo(path))

	changes := make(chan *Config, 1)
	w, err := Watch(path, func(cfg *Config) {
		select {
		case changes <- cfg:
		default:
		}
	})
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	updated := Default()
	updated.Model.Chat = "gpt-4o-mini"
	require.NoError(t, updated.SaveTo(path))

	select {
	case cfg := <-changes:
		require.Equal(t, "gpt-4o-mini", cfg.Model.Chat)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not observe the config write")
	}
}
