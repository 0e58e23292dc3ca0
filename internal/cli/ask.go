// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/akinsokpah/fulltask-tui/internal/config"
	"github.com/akinsokpah/fulltask-tui/internal/openai"
	"github.com/akinsokpah/fulltask-tui/internal/telemetry"
)

// HandleAsk sends a single question and streams the answer to stdout.
//
//	fulltask ask "What is a goroutine?"
//	fulltask ask -i photo.jpg "What is in this picture?"
func HandleAsk(args []string) error {
	var (
		imagePath     string
		modelOverride string
		mode          = config.ModeChat
		words         []string
	)

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-i", "--image":
			i++
			if i >= len(args) {
				return fmt.Errorf("%s requires a path", args[i-1])
			}
			imagePath = args[i]
		case "-m", "--model":
			i++
			if i >= len(args) {
				return fmt.Errorf("%s requires a model name", args[i-1])
			}
			modelOverride = args[i]
		case "--mode":
			i++
			if i >= len(args) {
				return fmt.Errorf("--mode requires chat, search, or pro")
			}
			mode = config.Mode(args[i])
		default:
			words = append(words, args[i])
		}
	}

	question := strings.TrimSpace(strings.Join(words, " "))
	if question == "" && imagePath == "" {
		return fmt.Errorf("nothing to ask; usage: fulltask ask [flags] <question>")
	}
	if question == "" {
		question = "Analyze this image"
	}

	cfg := config.Global()
	client, err := newClient(cfg, modelOverride, mode)
	if err != nil {
		return err
	}

	turn := openai.Turn{Role: openai.RoleUser, Text: question}
	if imagePath != "" {
		dataURL, err := openai.EncodeImageDataURL(imagePath)
		if err != nil {
			return err
		}
		turn.ImageDataURL = dataURL
	}

	// On a TTY the answer is collected and rendered as markdown at the end.
	// Piped output streams incrementally: the callback delivers the cumulative
	// text, so printing the suffix since the previous call yields the deltas.
	useMarkdown := IsStdoutTTY()
	start := time.Now()
	printed := 0
	final, err := client.StreamChat(context.Background(), []openai.Turn{turn}, func(total string) {
		if !useMarkdown {
			fmt.Print(total[printed:])
			printed = len(total)
		}
	})
	if useMarkdown && final != "" {
		fmt.Print(renderMarkdown(final))
	}
	fmt.Println()

	recordUsage(cfg, telemetry.Record{
		SessionID:       "ask",
		Model:           client.Model(),
		Mode:            string(mode),
		PromptChars:     len(question),
		CompletionChars: len(final),
		Duration:        time.Since(start),
		Outcome:         usageOutcome(err),
	})

	if err != nil {
		errorf("%s", friendlyCompletionError(err))
		os.Exit(1)
	}
	return nil
}

// recordUsage appends to the ledger when telemetry is enabled; ledger
// failures never fail the command.
func recordUsage(cfg *config.Config, r telemetry.Record) {
	if !cfg.Telemetry.Enabled {
		return
	}
	usage, err := telemetry.Open("")
	if err != nil {
		return
	}
	defer usage.Close()
	_ = usage.Add(r)
}

func usageOutcome(err error) string {
	if err != nil {
		return telemetry.OutcomeError
	}
	return telemetry.OutcomeOK
}
