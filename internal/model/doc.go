// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the conversation data model for fulltask.
//
// A Session is an independently titled conversation thread holding an
// ordered message history. Every session is seeded with a single assistant
// welcome message, so a session's message list is never empty.
//
// A Message is one turn. Assistant messages are created in a pending state
// while a completion streams in; finalizing a message fixes its text and
// clears the pending flag, after which it is treated as immutable.
//
// Session titles start as a placeholder and are rewritten exactly once, from
// the first user turn, via DeriveTitle.
package model
