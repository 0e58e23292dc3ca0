// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strconv"

	"github.com/akinsokpah/fulltask-tui/internal/config"
)

// HandleConfig reads and edits the config file.
//
//	fulltask config show
//	fulltask config get ui.theme
//	fulltask config set model.chat gpt-4o
//	fulltask config path
func HandleConfig(args []string) error {
	sub := "show"
	if len(args) > 0 {
		sub = args[0]
		args = args[1:]
	}

	switch sub {
	case "show":
		return configShow()
	case "get":
		if len(args) != 1 {
			return fmt.Errorf("usage: fulltask config get <key>")
		}
		return configGet(args[0])
	case "set":
		if len(args) != 2 {
			return fmt.Errorf("usage: fulltask config set <key> <value>")
		}
		return configSet(args[0], args[1])
	case "path":
		path, err := config.Path()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	default:
		return fmt.Errorf("unknown config command %q (show, get, set, path)", sub)
	}
}

// configKeys maps dotted keys to getters and setters on a Config.
var configKeys = map[string]struct {
	get func(*config.Config) string
	set func(*config.Config, string) error
}{
	"model.base_url": {
		get: func(c *config.Config) string { return c.Model.BaseURL },
		set: func(c *config.Config, v string) error { c.Model.BaseURL = v; return nil },
	},
	"model.chat": {
		get: func(c *config.Config) string { return c.Model.Chat },
		set: func(c *config.Config, v string) error { c.Model.Chat = v; return nil },
	},
	"model.search": {
		get: func(c *config.Config) string { return c.Model.Search },
		set: func(c *config.Config, v string) error { c.Model.Search = v; return nil },
	},
	"model.pro": {
		get: func(c *config.Config) string { return c.Model.Pro },
		set: func(c *config.Config, v string) error { c.Model.Pro = v; return nil },
	},
	"model.max_tokens": {
		get: func(c *config.Config) string { return strconv.Itoa(c.Model.MaxTokens) },
		set: func(c *config.Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return fmt.Errorf("max_tokens must be a positive integer")
			}
			c.Model.MaxTokens = n
			return nil
		},
	},
	"ui.theme": {
		get: func(c *config.Config) string { return c.UI.Theme },
		set: func(c *config.Config, v string) error { c.UI.Theme = v; return nil },
	},
	"ui.word_wrap": {
		get: func(c *config.Config) string { return strconv.Itoa(c.UI.WordWrap) },
		set: func(c *config.Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return fmt.Errorf("word_wrap must be a positive integer")
			}
			c.UI.WordWrap = n
			return nil
		},
	},
	"ui.show_stats": {
		get: func(c *config.Config) string { return strconv.FormatBool(c.UI.ShowStats) },
		set: func(c *config.Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("show_stats must be true or false")
			}
			c.UI.ShowStats = b
			return nil
		},
	},
	"telemetry.enabled": {
		get: func(c *config.Config) string { return strconv.FormatBool(c.Telemetry.Enabled) },
		set: func(c *config.Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("enabled must be true or false")
			}
			c.Telemetry.Enabled = b
			return nil
		},
	},
}

// configKeyOrder fixes the show/get listing order.
var configKeyOrder = []string{
	"model.base_url", "model.chat", "model.search", "model.pro", "model.max_tokens",
	"ui.theme", "ui.word_wrap", "ui.show_stats",
	"telemetry.enabled",
}

func configShow() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	for _, key := range configKeyOrder {
		fmt.Printf("%s = %s\n", infoStyle.Render(key), configKeys[key].get(cfg))
	}
	return nil
}

func configGet(key string) error {
	entry, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	fmt.Println(entry.get(cfg))
	return nil
}

func configSet(key, value string) error {
	entry, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := entry.set(cfg, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Printf("%s %s = %s\n", successStyle.Render("Saved:"), key, entry.get(cfg))
	return nil
}
