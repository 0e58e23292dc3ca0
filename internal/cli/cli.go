// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
)

// Version information, overridden at build time by the main package.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command identifies a top-level CLI command.
type Command string

// Top-level commands.
const (
	CmdTUI      Command = ""
	CmdAsk      Command = "ask"
	CmdChat     Command = "chat"
	CmdSessions Command = "sessions"
	CmdAuth     Command = "auth"
	CmdKey      Command = "key"
	CmdConfig   Command = "config"
	CmdStats    Command = "stats"
	CmdVersion  Command = "version"
	CmdHelp     Command = "help"
)

// Parse splits argv into the command and its arguments. No arguments means
// the TUI.
func Parse(args []string) (Command, []string) {
	if len(args) == 0 {
		return CmdTUI, nil
	}
	switch args[0] {
	case "ask", "chat", "sessions", "auth", "key", "config", "stats", "version", "help":
		return Command(args[0]), args[1:]
	case "-h", "--help":
		return CmdHelp, nil
	case "-v", "--version":
		return CmdVersion, nil
	default:
		return CmdHelp, args
	}
}

// Dispatch runs the parsed command. CmdTUI is handled by the caller.
func Dispatch(cmd Command, args []string) error {
	switch cmd {
	case CmdAsk:
		return HandleAsk(args)
	case CmdChat:
		return HandleChat(args)
	case CmdSessions:
		return HandleSessions(args)
	case CmdAuth:
		return HandleAuth(args)
	case CmdKey:
		return HandleKey(args)
	case CmdConfig:
		return HandleConfig(args)
	case CmdStats:
		return HandleStats(args)
	case CmdVersion:
		HandleVersion()
		return nil
	case CmdHelp:
		if len(args) > 0 {
			fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		}
		PrintUsage()
		return nil
	default:
		PrintUsage()
		return nil
	}
}

// HandleVersion prints build information.
func HandleVersion() {
	fmt.Printf("fulltask %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}

// PrintUsage prints top-level help.
func PrintUsage() {
	fmt.Print(`fulltask - FullTask AI Pro in your terminal

Usage:
  fulltask                     Launch the chat TUI
  fulltask ask <question>      Ask one question, stream the answer
  fulltask chat                Line-mode chat REPL
  fulltask sessions <cmd>      list | show | delete | export
  fulltask auth <cmd>          login | logout | status
  fulltask key <cmd>           set | clear | status
  fulltask config <cmd>        show | get | set | path
  fulltask stats               Local usage statistics
  fulltask version             Version information

Ask flags:
  -i, --image PATH   Attach an image to the question
  -m, --model NAME   Override the configured model
  --mode MODE        chat | search | pro

Environment:
  OPENAI_API_KEY / FULLTASK_API_KEY   API credential override
  FULLTASK_MODEL, FULLTASK_BASE_URL   Model endpoint overrides
`)
}
