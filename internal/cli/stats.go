// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"time"

	"github.com/akinsokpah/fulltask-tui/internal/telemetry"
)

// HandleStats prints the local usage ledger.
//
//	fulltask stats
//	fulltask stats recent
func HandleStats(args []string) error {
	usage, err := telemetry.Open("")
	if err != nil {
		return err
	}
	defer usage.Close()

	if len(args) > 0 && args[0] == "recent" {
		return statsRecent(usage)
	}
	return statsSummary(usage)
}

func statsSummary(usage *telemetry.UsageStore) error {
	sum, err := usage.Summarize()
	if err != nil {
		return err
	}
	if sum.Exchanges == 0 {
		fmt.Println(infoStyle.Render("No usage recorded yet."))
		return nil
	}

	avg := sum.TotalDuration / time.Duration(sum.Exchanges)
	fmt.Println(promptStyle.Render("Usage"))
	fmt.Printf("  %s %d (%d errors)\n", infoStyle.Render("Exchanges:"), sum.Exchanges, sum.Errors)
	fmt.Printf("  %s %d prompt / %d completion\n",
		infoStyle.Render("Characters:"), sum.PromptChars, sum.CompletionChars)
	fmt.Printf("  %s %s total, %s average\n",
		infoStyle.Render("Time:"),
		sum.TotalDuration.Round(time.Second),
		avg.Round(time.Millisecond))
	return nil
}

func statsRecent(usage *telemetry.UsageStore) error {
	records, err := usage.Recent(20)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println(infoStyle.Render("No usage recorded yet."))
		return nil
	}
	for _, r := range records {
		line := fmt.Sprintf("%s  %-10s %-8s %6s  %d chars",
			r.Timestamp.Format("2006-01-02 15:04"),
			r.Model, r.Mode,
			r.Duration.Round(time.Millisecond),
			r.CompletionChars)
		if r.Outcome != telemetry.OutcomeOK {
			line += "  " + errorStyle.Render(r.Outcome)
		}
		fmt.Println(line)
	}
	return nil
}
