// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and persists fulltask configuration.
//
// Configuration lives in ~/.fulltask/config.toml. Precedence, lowest to
// highest: built-in defaults, the config file, environment variables
// (FULLTASK_MODEL, FULLTASK_BASE_URL, FULLTASK_MAX_TOKENS, FULLTASK_THEME).
//
// A process-wide instance is available through Global; the TUI additionally
// watches the file with fsnotify and swaps the global on edits.
package config
