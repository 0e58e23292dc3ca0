// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package openai implements the streaming chat-completion client for the
// OpenAI API (and any endpoint speaking the same protocol).
//
// The central operation is Client.StreamChat: it formats the conversation
// history plus the new turn into a chat-completion request with the fixed
// persona instruction first, opens a server-sent-events response, and invokes
// the caller's callback with the cumulative text after every chunk. The
// callback argument is always "replace display text with this", never a
// delta; callers must not concatenate successive arguments.
//
// User turns carrying an image are sent as multi-part content with the image
// inlined as a base64 data URL.
package openai
