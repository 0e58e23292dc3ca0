// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth records the locally signed-in profile.
//
// Identity is delegated: fulltask does not verify who the user is, it only
// stores the display identity handed to it at login and exposes the signed-in
// boolean that gates the chat surfaces. Logging out removes the profile.
package auth
