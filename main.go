// fulltask - FullTask AI Pro in your terminal.
//
// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/akinsokpah/fulltask-tui/internal/auth"
	"github.com/akinsokpah/fulltask-tui/internal/cli"
	"github.com/akinsokpah/fulltask-tui/internal/config"
	"github.com/akinsokpah/fulltask-tui/internal/session"
	"github.com/akinsokpah/fulltask-tui/internal/store"
	"github.com/akinsokpah/fulltask-tui/internal/telemetry"
	"github.com/akinsokpah/fulltask-tui/internal/ui/chat"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse(os.Args[1:])

	if cmd == cli.CmdTUI {
		runTUI()
		return
	}
	if err := cli.Dispatch(cmd, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI wires the stores and managers and starts the chat interface.
func runTUI() {
	cfg := config.Global()

	authMgr, err := auth.NewManager("")
	if err != nil {
		fatal(err)
	}
	profile := authMgr.Current()
	if profile == nil {
		fmt.Println("Welcome to FullTask AI Pro.")
		fmt.Println("Sign in first with `fulltask auth login <name>`.")
		os.Exit(1)
	}

	st, err := store.NewSessionStore("")
	if err != nil {
		fatal(err)
	}
	manager, err := session.NewManager(st)
	if err != nil {
		fatal(err)
	}
	if logger := debugLogger(); logger != nil {
		manager.SetLogger(logger)
	}

	creds, err := store.NewCredentialStore("")
	if err != nil {
		fatal(err)
	}

	// The ledger is optional; the chat runs without it.
	var usage *telemetry.UsageStore
	if cfg.Telemetry.Enabled {
		if u, err := telemetry.Open(""); err == nil {
			usage = u
			defer usage.Close()
		}
	}

	m := chat.New(manager, creds, profile, cfg, usage)
	if err := chat.Run(m); err != nil {
		fatal(err)
	}
}

// debugLogger returns a file-backed logger when FULLTASK_DEBUG=1, else nil.
// TUI programs cannot log to stderr without corrupting the display.
func debugLogger() *log.Logger {
	if os.Getenv("FULLTASK_DEBUG") != "1" {
		return nil
	}
	dir, err := store.DefaultDir()
	if err != nil {
		return nil
	}
	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil
	}
	return log.New(io.Writer(f), "", log.LstdFlags|log.Lmicroseconds)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
