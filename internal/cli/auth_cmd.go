// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/akinsokpah/fulltask-tui/internal/auth"
)

// HandleAuth manages the local sign-in profile.
//
//	fulltask auth login [name] [email]
//	fulltask auth logout
//	fulltask auth status
func HandleAuth(args []string) error {
	manager, err := auth.NewManager("")
	if err != nil {
		return err
	}

	sub := "status"
	if len(args) > 0 {
		sub = args[0]
		args = args[1:]
	}

	switch sub {
	case "login":
		return authLogin(manager, args)
	case "logout":
		if err := manager.Logout(); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("Signed out."))
		return nil
	case "status":
		if p := manager.Current(); p != nil {
			fmt.Printf("Signed in as %s", successStyle.Render(p.DisplayName))
			if p.Email != "" {
				fmt.Printf(" <%s>", p.Email)
			}
			fmt.Printf("  %s\n", infoStyle.Render("since "+p.SignedInAt.Format("2006-01-02")))
		} else {
			fmt.Println("Signed out. Sign in with `fulltask auth login`.")
		}
		return nil
	default:
		return fmt.Errorf("unknown auth command %q (login, logout, status)", sub)
	}
}

func authLogin(manager *auth.Manager, args []string) error {
	var name, email string
	if len(args) > 0 {
		name = args[0]
	}
	if len(args) > 1 {
		email = args[1]
	}

	if name == "" {
		if !IsStdinTTY() {
			return fmt.Errorf("usage: fulltask auth login <name> [email]")
		}
		fmt.Print(promptStyle.Render("Display name: "))
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read name: %w", err)
		}
		name = strings.TrimSpace(line)
	}

	p, err := manager.Login(auth.Profile{DisplayName: name, Email: email})
	if err != nil {
		return err
	}
	fmt.Printf("%s Welcome, %s.\n", successStyle.Render("Signed in."), p.DisplayName)
	return nil
}
