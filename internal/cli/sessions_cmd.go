// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/akinsokpah/fulltask-tui/internal/model"
	"github.com/akinsokpah/fulltask-tui/internal/session"
	"github.com/akinsokpah/fulltask-tui/internal/store"
	"github.com/akinsokpah/fulltask-tui/internal/util"
)

// HandleSessions manages the persisted conversations.
//
//	fulltask sessions list
//	fulltask sessions show 2
//	fulltask sessions delete 2
//	fulltask sessions export 2 [--json]
func HandleSessions(args []string) error {
	st, err := store.NewSessionStore("")
	if err != nil {
		return err
	}
	manager, err := session.NewManager(st)
	if err != nil {
		return err
	}

	sub := "list"
	if len(args) > 0 {
		sub = args[0]
		args = args[1:]
	}

	switch sub {
	case "list", "ls":
		return sessionsList(manager)
	case "show":
		s, err := sessionByArg(manager, args)
		if err != nil {
			return err
		}
		return sessionsShow(s)
	case "delete", "rm":
		s, err := sessionByArg(manager, args)
		if err != nil {
			return err
		}
		manager.DeleteSession(s.ID)
		fmt.Println(successStyle.Render("Deleted: ") + s.Title)
		return nil
	case "export":
		asJSON := false
		var rest []string
		for _, a := range args {
			if a == "--json" {
				asJSON = true
			} else {
				rest = append(rest, a)
			}
		}
		s, err := sessionByArg(manager, rest)
		if err != nil {
			return err
		}
		return sessionsExport(s, asJSON)
	default:
		return fmt.Errorf("unknown sessions command %q (list, show, delete, export)", sub)
	}
}

// sessionByArg resolves a 1-based list index, defaulting to the current
// conversation when no index is given.
func sessionByArg(manager *session.Manager, args []string) (*model.Session, error) {
	sessions := manager.Sessions()
	if len(args) == 0 {
		if cur := manager.Current(); cur != nil {
			return cur, nil
		}
		return nil, fmt.Errorf("no conversations")
	}
	var n int
	if _, err := fmt.Sscanf(args[0], "%d", &n); err != nil || n < 1 || n > len(sessions) {
		return nil, fmt.Errorf("no conversation numbered %q (see `fulltask sessions list`)", args[0])
	}
	return sessions[n-1], nil
}

func sessionsList(manager *session.Manager) error {
	sessions := manager.Sessions()

	// Align the metadata column on the widest title, counting display cells
	// so CJK titles line up too.
	titleWidth := 0
	for _, s := range sessions {
		if w := util.StringWidth(s.Title); w > titleWidth {
			titleWidth = w
		}
	}

	for i, s := range sessions {
		marker := "  "
		if s.ID == manager.CurrentID() {
			marker = successStyle.Render("* ")
		}
		preview := ""
		if last := s.LastMessage(); last != nil {
			preview = "  " + infoStyle.Render(last.Preview(40))
		}
		fmt.Printf("%s%d. %s  %s%s\n",
			marker, i+1, util.PadRight(s.Title, titleWidth),
			infoStyle.Render(fmt.Sprintf("(%d messages, %s)",
				len(s.Messages), s.CreatedAt.Format("2006-01-02 15:04"))),
			preview)
	}
	return nil
}

func sessionsShow(s *model.Session) error {
	fmt.Print(renderMarkdown(sessionMarkdown(s)))
	return nil
}

func sessionsExport(s *model.Session, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to serialize session: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}
	fmt.Print(sessionMarkdown(s))
	return nil
}

// sessionMarkdown renders a conversation as a markdown document.
func sessionMarkdown(s *model.Session) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.Title)
	fmt.Fprintf(&b, "_%s_\n\n", s.CreatedAt.Format("January 2, 2006 15:04"))
	for _, msg := range s.Messages {
		if msg.Role == model.RoleUser {
			b.WriteString("## You\n\n")
		} else {
			b.WriteString("## FullTask AI\n\n")
		}
		if msg.HasImage() {
			fmt.Fprintf(&b, "_[image: %s]_\n\n", msg.ImagePath)
		}
		b.WriteString(msg.Text)
		b.WriteString("\n\n")
		for _, src := range msg.Sources {
			fmt.Fprintf(&b, "- [%s](%s)\n", src.Title, src.URI)
		}
		if len(msg.Sources) > 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
