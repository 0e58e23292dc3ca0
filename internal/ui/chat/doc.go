// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the fulltask TUI: a full-screen Bubble Tea program
// with the session transcript, a session sidebar, the composer, and the
// streaming bridge that patches the pending assistant message as completion
// chunks arrive.
//
// Streaming runs in a goroutine that publishes messages to the model's event
// channel; the Update loop applies each cumulative chunk to the session
// manager and throttles transcript re-rendering so high-frequency chunks do
// not saturate the terminal.
package chat
