// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store persists fulltask state under the user's data directory
// (~/.fulltask by default).
//
// SessionStore mirrors the entire session list into a single JSON file. It is
// a pure persistence mirror: every mutation of the list rewrites the whole
// file atomically, and an unparsable file is sidelined and treated as absent
// so corruption never surfaces as a user-facing error.
//
// CredentialStore holds the upstream API key, encrypted at rest with a
// machine-derived key. Environment variables override the stored value.
package store
