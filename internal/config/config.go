// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/akinsokpah/fulltask-tui/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// CurrentVersion is the config schema version written by this build.
const CurrentVersion = 1

const configFile = "config.toml"

// Environment override variables.
const (
	EnvModel     = "FULLTASK_MODEL"
	EnvBaseURL   = "FULLTASK_BASE_URL"
	EnvMaxTokens = "FULLTASK_MAX_TOKENS"
	EnvTheme     = "FULLTASK_THEME"
)

// Mode selects which configured model serves a conversation.
type Mode string

const (
	// ModeChat is the default conversational mode.
	ModeChat Mode = "chat"

	// ModeSearch is the web-answer flavored mode. No retrieval is wired
	// behind it; it only selects a different model.
	ModeSearch Mode = "search"

	// ModePro selects the strongest configured model.
	ModePro Mode = "pro"
)

// Modes lists all selectable modes in display order.
var Modes = []Mode{ModeChat, ModeSearch, ModePro}

// =============================================================================
// CONFIG
// =============================================================================

// Config is the root configuration document.
type Config struct {
	Version   int             `toml:"version"`
	Model     ModelConfig     `toml:"model"`
	UI        UIConfig        `toml:"ui"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// ModelConfig selects the completion endpoint and per-mode models.
type ModelConfig struct {
	BaseURL   string `toml:"base_url"`
	Chat      string `toml:"chat"`
	Search    string `toml:"search"`
	Pro       string `toml:"pro"`
	MaxTokens int    `toml:"max_tokens"`
}

// ForMode returns the model configured for the mode.
func (m ModelConfig) ForMode(mode Mode) string {
	switch mode {
	case ModeSearch:
		return m.Search
	case ModePro:
		return m.Pro
	default:
		return m.Chat
	}
}

// UIConfig holds presentation preferences.
type UIConfig struct {
	// Theme is "auto", "dark", or "light".
	Theme string `toml:"theme"`

	// WordWrap is the markdown render width for plain CLI output.
	WordWrap int `toml:"word_wrap"`

	// ShowStats displays per-exchange timing in the status bar.
	ShowStats bool `toml:"show_stats"`
}

// TelemetryConfig controls the local usage ledger. Records never leave the
// machine.
type TelemetryConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Model: ModelConfig{
			BaseURL:   "https://api.openai.com/v1",
			Chat:      "gpt-4o",
			Search:    "gpt-4o",
			Pro:       "gpt-4o",
			MaxTokens: 4096,
		},
		UI: UIConfig{
			Theme:    "auto",
			WordWrap: 80,
		},
		Telemetry: TelemetryConfig{
			Enabled: true,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the fulltask config directory (~/.fulltask).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".fulltask"), nil
}

// Path returns the config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the config file, falling back to defaults when absent, then
// applies environment overrides and validation. A malformed file is an
// error; configuration mistakes should be loud, unlike session-store
// corruption.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run; defaults apply.
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.migrate()
	cfg.ApplyEnvOverrides()
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to its default path.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to an explicit path.
func (c *Config) SaveTo(path string) error {
	var buf bytes.Buffer
	buf.WriteString("# fulltask configuration\n")
	buf.WriteString("# Environment variables FULLTASK_* override these values.\n\n")
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0600)
}

// =============================================================================
// OVERRIDES, DEFAULTS, VALIDATION
// =============================================================================

// ApplyEnvOverrides applies FULLTASK_* environment variables on top of the
// loaded values. FULLTASK_MODEL overrides every mode.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(EnvModel); v != "" {
		c.Model.Chat = v
		c.Model.Search = v
		c.Model.Pro = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Model.BaseURL = v
	}
	if v := os.Getenv(EnvMaxTokens); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Model.MaxTokens = n
		}
	}
	if v := os.Getenv(EnvTheme); v != "" {
		c.UI.Theme = v
	}
}

// migrate upgrades older config documents in place.
func (c *Config) migrate() {
	if c.Version == 0 {
		c.Version = CurrentVersion
	}
}

// setDefaults fills empty fields so a sparse file still yields a complete
// config.
func (c *Config) setDefaults() {
	def := Default()
	if c.Model.BaseURL == "" {
		c.Model.BaseURL = def.Model.BaseURL
	}
	if c.Model.Chat == "" {
		c.Model.Chat = def.Model.Chat
	}
	if c.Model.Search == "" {
		c.Model.Search = c.Model.Chat
	}
	if c.Model.Pro == "" {
		c.Model.Pro = c.Model.Chat
	}
	if c.Model.MaxTokens <= 0 {
		c.Model.MaxTokens = def.Model.MaxTokens
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
	if c.UI.WordWrap <= 0 {
		c.UI.WordWrap = def.UI.WordWrap
	}
}

// Validate rejects values that would misbehave at runtime.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Model.BaseURL, "http://") && !strings.HasPrefix(c.Model.BaseURL, "https://") {
		return fmt.Errorf("config: model.base_url %q is not an http(s) URL", c.Model.BaseURL)
	}
	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		return fmt.Errorf("config: ui.theme %q must be auto, dark, or light", c.UI.Theme)
	}
	return nil
}

// =============================================================================
// GLOBAL INSTANCE
// =============================================================================

var (
	globalConfig *Config
	globalMu     sync.RWMutex
	globalOnce   sync.Once
)

// Global returns the process-wide config, loading it on first use. A load
// failure falls back to defaults; the error is reported by explicit Load
// calls, not here.
func Global() *Config {
	globalOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
		}
		globalMu.Lock()
		globalConfig = cfg
		globalMu.Unlock()
	})
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalConfig
}

// SetGlobal replaces the process-wide config.
func SetGlobal(cfg *Config) {
	globalOnce.Do(func() {})
	globalMu.Lock()
	globalConfig = cfg
	globalMu.Unlock()
}

// ResetGlobalForTesting clears global state between tests.
func ResetGlobalForTesting() {
	globalMu.Lock()
	globalConfig = nil
	globalMu.Unlock()
	globalOnce = sync.Once{}
}
