// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the in-memory session list and the message state
// machine driving each streamed exchange.
//
// The Manager is the single source of truth for session state. Every mutation
// of the list is mirrored to the store; observers (TUI, CLI) render from
// clones and never hold their own mutable copy.
//
// The lifecycle of one assistant message is strictly
//
//	created (pending) -> patched (pending) ... -> finalized (ok | error)
//
// Terminal messages are immutable: patch and finalize calls against a
// finalized message, a deleted message, or a deleted session are silent
// no-ops. This makes late-arriving stream chunks for an abandoned exchange
// harmless. No code path may leave an assistant message pending; every
// submission must reach a finalized state.
package session
