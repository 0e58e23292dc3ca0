// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across the fulltask application.
//
// String helpers are UTF-8 safe: truncation counts runes or display columns,
// never bytes, so multi-byte characters are never split. File helpers write
// atomically so persisted state survives a crash mid-write.
package util
