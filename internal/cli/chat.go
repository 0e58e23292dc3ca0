// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/peterh/liner"

	"github.com/akinsokpah/fulltask-tui/internal/config"
	"github.com/akinsokpah/fulltask-tui/internal/model"
	"github.com/akinsokpah/fulltask-tui/internal/session"
	"github.com/akinsokpah/fulltask-tui/internal/store"
	"github.com/akinsokpah/fulltask-tui/internal/telemetry"
)

const historyFileName = "chat_history"

// =============================================================================
// INPUT
// =============================================================================

// lineReader wraps liner with a persistent history file.
type lineReader struct {
	line        *liner.State
	historyFile string
}

func newLineReader() *lineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := store.DefaultDir()
	if err != nil {
		dir = os.TempDir()
	}
	r := &lineReader{
		line:        line,
		historyFile: filepath.Join(dir, historyFileName),
	}
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
	return r
}

// Read reads one line, appending non-empty input to history.
func (r *lineReader) Read(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history and releases the terminal.
func (r *lineReader) Close() {
	if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
		r.line.WriteHistory(f)
		f.Close()
	}
	r.line.Close()
}

// =============================================================================
// REPL STATE
// =============================================================================

type replState struct {
	manager *session.Manager
	cfg     *config.Config
	mode    config.Mode

	modelOverride string
	pendingImage  string

	cancelStream context.CancelFunc

	startTime time.Time
	exchanges int
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChat runs the line-mode REPL. Conversations persist to the same
// session file the TUI uses.
func HandleChat(args []string) error {
	if !IsStdinTTY() {
		return fmt.Errorf("chat requires an interactive terminal; use `fulltask ask` for piped input")
	}

	st, err := store.NewSessionStore("")
	if err != nil {
		return err
	}
	manager, err := session.NewManager(st)
	if err != nil {
		return err
	}

	repl := &replState{
		manager:   manager,
		cfg:       config.Global(),
		mode:      config.ModeChat,
		startTime: time.Now(),
	}
	for i := 0; i < len(args); i++ {
		if (args[i] == "-m" || args[i] == "--model") && i+1 < len(args) {
			i++
			repl.modelOverride = args[i]
		}
	}

	input := newLineReader()
	defer input.Close()

	printChatWelcome(repl)

	// Ctrl+C during a stream cancels it; at the prompt liner surfaces it
	// as ErrPromptAborted.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		for range sigChan {
			if repl.cancelStream != nil {
				repl.cancelStream()
			}
		}
	}()

	for {
		line, err := input.Read(promptStyle.Render("you> "))
		if err != nil {
			// Ctrl+C or Ctrl+D at the prompt exits.
			fmt.Println()
			printChatSummary(repl)
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			keepGoing, err := repl.handleCommand(line)
			if err != nil {
				errorf("%v", err)
			}
			if !keepGoing {
				printChatSummary(repl)
				return nil
			}
			continue
		}
		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			printChatSummary(repl)
			return nil
		}

		if err := repl.exchange(line); err != nil {
			errorf("%s", friendlyCompletionError(err))
		}
	}
}

// =============================================================================
// EXCHANGE
// =============================================================================

// exchange submits one user turn, streams the reply to stdout, and finalizes
// the assistant message in the persisted session.
func (r *replState) exchange(text string) error {
	imagePath := r.pendingImage
	r.pendingImage = ""

	sessionID := r.manager.CurrentID()
	assistantID, ok := r.manager.SubmitTurn(text, imagePath)
	if !ok {
		return fmt.Errorf("a response is still in progress for this conversation")
	}

	client, err := newClient(r.cfg, r.modelOverride, r.mode)
	if err != nil {
		r.manager.FinalizeFromError(sessionID, assistantID, err)
		return err
	}

	turns := r.manager.CompletionTurns(sessionID, assistantID)

	ctx, cancel := context.WithCancel(context.Background())
	r.cancelStream = cancel
	defer func() {
		r.cancelStream = nil
		cancel()
	}()

	// On a TTY the reply is collected and rendered as markdown once complete;
	// piped output streams the deltas as they arrive.
	useMarkdown := IsStdoutTTY()
	fmt.Println()
	start := time.Now()
	printed := 0
	final, err := client.StreamChat(ctx, turns, func(total string) {
		if !useMarkdown {
			fmt.Print(total[printed:])
			printed = len(total)
		}
	})
	if useMarkdown && final != "" {
		fmt.Print(renderMarkdown(final))
	}
	fmt.Println()
	fmt.Println()

	if err != nil {
		needsKey := r.manager.FinalizeFromError(sessionID, assistantID, err)
		if needsKey {
			fmt.Println(infoStyle.Render("Set a key with `fulltask key set` and try again."))
		}
	} else {
		r.manager.FinalizeAssistant(sessionID, assistantID, final, session.OutcomeOK)
	}

	r.exchanges++
	if r.cfg.Telemetry.Enabled {
		recordUsage(r.cfg, telemetry.Record{
			SessionID:       sessionID,
			Model:           client.Model(),
			Mode:            string(r.mode),
			PromptChars:     len(text),
			CompletionChars: len(final),
			Duration:        time.Since(start),
			Outcome:         usageOutcome(err),
		})
	}
	return err
}

// =============================================================================
// COMMANDS
// =============================================================================

// handleCommand processes a slash command. Returns false to exit the REPL.
func (r *replState) handleCommand(line string) (bool, error) {
	parts := strings.Fields(line)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "/help", "/h", "/?":
		printChatHelp()
		return true, nil

	case "/new", "/n":
		s := r.manager.CreateSession()
		fmt.Println(successStyle.Render("[New conversation]") + " " + s.Title)
		return true, nil

	case "/sessions", "/ls":
		for i, s := range r.manager.Sessions() {
			marker := "  "
			if s.ID == r.manager.CurrentID() {
				marker = successStyle.Render("* ")
			}
			fmt.Printf("%s%d. %s (%d messages)\n", marker, i+1, s.Title, len(s.Messages))
		}
		return true, nil

	case "/select":
		if len(args) == 0 {
			return true, fmt.Errorf("usage: /select <number>")
		}
		sessions := r.manager.Sessions()
		var n int
		if _, err := fmt.Sscanf(args[0], "%d", &n); err != nil || n < 1 || n > len(sessions) {
			return true, fmt.Errorf("no conversation numbered %q", args[0])
		}
		r.manager.SelectSession(sessions[n-1].ID)
		fmt.Println(successStyle.Render("[Switched]") + " " + sessions[n-1].Title)
		return true, nil

	case "/image", "/i":
		if len(args) == 0 {
			return true, fmt.Errorf("usage: /image <path>")
		}
		path := strings.Join(args, " ")
		if _, err := os.Stat(path); err != nil {
			return true, fmt.Errorf("cannot read %s", path)
		}
		r.pendingImage = path
		fmt.Println(infoStyle.Render("[Image attached; it will be sent with your next message]"))
		return true, nil

	case "/mode":
		if len(args) == 0 {
			fmt.Println(infoStyle.Render("Mode: ") + string(r.mode))
			return true, nil
		}
		m := config.Mode(strings.ToLower(args[0]))
		switch m {
		case config.ModeChat, config.ModeSearch, config.ModePro:
			r.mode = m
			fmt.Println(successStyle.Render("[Mode]") + " " + string(m))
			return true, nil
		default:
			return true, fmt.Errorf("mode must be chat, search, or pro")
		}

	case "/model", "/m":
		if len(args) == 0 {
			name := r.modelOverride
			if name == "" {
				name = r.cfg.Model.ForMode(r.mode)
			}
			fmt.Println(infoStyle.Render("Model: ") + name)
			return true, nil
		}
		r.modelOverride = args[0]
		fmt.Println(successStyle.Render("[Model]") + " " + r.modelOverride)
		return true, nil

	case "/history":
		printTranscript(r.manager.Current())
		return true, nil

	case "/quit", "/q", "/exit":
		return false, nil

	default:
		return true, fmt.Errorf("unknown command %s (type /help)", cmd)
	}
}

// =============================================================================
// DISPLAY
// =============================================================================

func printChatWelcome(r *replState) {
	fmt.Println()
	fmt.Println(promptStyle.Render("FullTask AI Pro"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 30)))
	name := r.modelOverride
	if name == "" {
		name = r.cfg.Model.ForMode(r.mode)
	}
	fmt.Println(infoStyle.Render("Model: ") + name)
	fmt.Println(infoStyle.Render("Conversation: ") + r.manager.Current().Title)
	fmt.Println()
	fmt.Println(infoStyle.Render("Type a message and press Enter. Commands: /help, /quit"))
	fmt.Println()
}

func printChatHelp() {
	commands := []struct {
		cmd  string
		desc string
	}{
		{"/help, /h", "Show this help"},
		{"/new, /n", "Start a new conversation"},
		{"/sessions, /ls", "List conversations"},
		{"/select N", "Switch to conversation N"},
		{"/image PATH", "Attach an image to the next message"},
		{"/mode [chat|search|pro]", "Show or switch mode"},
		{"/model [name]", "Show or override the model"},
		{"/history", "Show the current transcript"},
		{"/quit, /q", "Exit"},
	}
	fmt.Println()
	for _, c := range commands {
		fmt.Printf("  %s  %s\n",
			successStyle.Render(fmt.Sprintf("%-24s", c.cmd)),
			infoStyle.Render(c.desc))
	}
	fmt.Println()
	fmt.Println(infoStyle.Render("Tip: Ctrl+C cancels a streaming response, Ctrl+D exits"))
	fmt.Println()
}

func printTranscript(s *model.Session) {
	if s == nil || len(s.Messages) == 0 {
		fmt.Println(infoStyle.Render("[No messages yet]"))
		return
	}
	fmt.Println()
	for i, msg := range s.Messages {
		role := "AI"
		if msg.Role == model.RoleUser {
			role = "You"
		}
		fmt.Printf("  %d. %s: %s\n", i+1, promptStyle.Render(role), msg.Preview(100))
	}
	fmt.Println()
}

func printChatSummary(r *replState) {
	if r.exchanges == 0 {
		fmt.Println(infoStyle.Render("Goodbye!"))
		return
	}
	elapsed := time.Since(r.startTime).Round(time.Second)
	fmt.Println()
	fmt.Printf("  %s %d\n", infoStyle.Render("Exchanges:"), r.exchanges)
	fmt.Printf("  %s %s\n", infoStyle.Render("Duration:"), elapsed)
	fmt.Println()
	fmt.Println(infoStyle.Render("Goodbye!"))
}
