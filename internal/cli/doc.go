// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the plain-terminal commands of fulltask.
//
// Running the binary with no arguments launches the TUI; everything else is
// dispatched here: one-shot questions (ask), a line-mode REPL (chat), session
// management, credential and profile handling, configuration, and the local
// usage statistics.
package cli
