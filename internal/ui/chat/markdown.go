// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/glamour"
)

// markdownRenderer renders assistant markdown for the transcript.
type markdownRenderer struct {
	renderer *glamour.TermRenderer
}

// newMarkdownRenderer builds a renderer for the given wrap width and theme.
// A nil inner renderer falls back to chroma-highlighted plain text.
func newMarkdownRenderer(width int, dark bool) *markdownRenderer {
	if width < 20 {
		width = 20
	}
	style := "light"
	if dark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		r = nil
	}
	return &markdownRenderer{renderer: r}
}

// Render renders markdown, falling back to code-block highlighting when the
// markdown engine is unavailable or fails.
func (m *markdownRenderer) Render(text string) string {
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(text); err == nil {
			return strings.TrimRight(rendered, "\n")
		}
	}
	return highlightCodeBlocks(text)
}

// highlightCodeBlocks colorizes fenced code blocks with chroma and passes
// everything else through untouched.
func highlightCodeBlocks(text string) string {
	var out strings.Builder
	var code strings.Builder
	var lang string
	inBlock := false

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if !inBlock {
				inBlock = true
				lang = strings.TrimPrefix(trimmed, "```")
				code.Reset()
				continue
			}
			inBlock = false
			if err := quick.Highlight(&out, code.String(), lang, "terminal256", "monokai"); err != nil {
				out.WriteString(code.String())
			}
			continue
		}
		if inBlock {
			code.WriteString(line)
			code.WriteString("\n")
			continue
		}
		out.WriteString(line)
		out.WriteString("\n")
	}

	// An unterminated block is emitted as-is; it is mid-stream output.
	if inBlock {
		out.WriteString(code.String())
	}
	return strings.TrimRight(out.String(), "\n")
}
