// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the fulltask TUI.
// Colors use Lip Gloss adaptive colors so the palette follows the terminal's
// light or dark background; the configured theme can force either.
package styles
