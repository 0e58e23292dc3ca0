// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry keeps a local ledger of completed exchanges.
//
// Every finalized exchange is appended to a SQLite database under the
// fulltask data directory. Records never leave the machine; they feed the
// "fulltask stats" command and the optional status bar readout.
package telemetry
