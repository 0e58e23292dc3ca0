// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/akinsokpah/fulltask-tui/internal/config"
	"github.com/akinsokpah/fulltask-tui/internal/openai"
	"github.com/akinsokpah/fulltask-tui/internal/store"
)

// HandleKey manages the stored API credential.
//
//	fulltask key set
//	fulltask key clear
//	fulltask key status
func HandleKey(args []string) error {
	creds, err := store.NewCredentialStore("")
	if err != nil {
		return err
	}

	sub := "status"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "set":
		return keySet(creds)
	case "clear":
		if err := creds.Clear(); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("API key removed."))
		return nil
	case "status":
		return keyStatus(creds)
	default:
		return fmt.Errorf("unknown key command %q (set, clear, status)", sub)
	}
}

func keySet(creds *store.CredentialStore) error {
	var key string
	if IsStdinTTY() {
		// Echo off so the key never shows on screen or in scrollback.
		fmt.Print(promptStyle.Render("OpenAI API key: "))
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}
		key = string(raw)
	} else {
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read key: %w", err)
		}
		key = line
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("no key entered")
	}
	if err := creds.SetAPIKey(key); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("API key saved.") + " " + infoStyle.Render("Stored encrypted at "+creds.Path()))

	// Best-effort check against the endpoint; the key stays saved either way.
	client := openai.NewClient(key)
	client.SetBaseURL(config.Global().Model.BaseURL)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Verify(ctx); err != nil {
		fmt.Println(infoStyle.Render("Could not verify the key: ") + friendlyCompletionError(err))
	} else {
		fmt.Println(successStyle.Render("Key verified against the API."))
	}
	return nil
}

func keyStatus(creds *store.CredentialStore) error {
	if os.Getenv(store.EnvAPIKey) != "" || os.Getenv(store.EnvAPIKeyAlt) != "" {
		fmt.Println("Using API key from environment.")
		return nil
	}
	key, err := creds.APIKey()
	if err != nil {
		return err
	}
	if key == "" {
		fmt.Println("No API key configured. Set one with `fulltask key set`.")
		return nil
	}
	fmt.Printf("API key configured: %s\n", successStyle.Render(maskKey(key)))
	return nil
}

// maskKey shows only the edges of a credential.
func maskKey(key string) string {
	runes := []rune(key)
	if len(runes) <= 8 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:4]) + strings.Repeat("*", 4) + string(runes[len(runes)-4:])
}
