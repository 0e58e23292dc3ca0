// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/time/rate"

	"github.com/akinsokpah/fulltask-tui/internal/auth"
	"github.com/akinsokpah/fulltask-tui/internal/config"
	"github.com/akinsokpah/fulltask-tui/internal/session"
	"github.com/akinsokpah/fulltask-tui/internal/store"
	"github.com/akinsokpah/fulltask-tui/internal/telemetry"
	"github.com/akinsokpah/fulltask-tui/internal/ui/styles"
)

// renderRate caps transcript re-renders per second during streaming; chunk
// state is applied on every message regardless.
const renderRate = 30

// Model is the Bubble Tea model for the chat TUI.
type Model struct {
	// Collaborators
	manager *session.Manager
	creds   *store.CredentialStore
	profile *auth.Profile
	cfg     *config.Config
	usage   *telemetry.UsageStore // nil when telemetry is disabled

	// Presentation
	theme    *styles.Theme
	markdown *markdownRenderer
	viewport viewport.Model
	textarea textarea.Model
	keyInput textinput.Model
	spinner  spinner.Model

	// Layout
	width  int
	height int
	ready  bool

	// Mode selection
	mode config.Mode

	// Streaming state. cancels is keyed by assistant message id; the gate in
	// the session manager is per session, so exchanges in different sessions
	// can be in flight at once and each needs its own cancel. streamSID and
	// streamMID identify the most recently launched exchange.
	events     chan tea.Msg
	streaming  bool
	streamSID  string
	streamMID  string
	cancels    map[string]context.CancelFunc
	renderGate *rate.Limiter
	lastDuration string

	// Sidebar
	sidebarOpen  bool
	sidebarIndex int

	// Credential prompt overlay
	keyPromptOpen bool

	// Pending image attachment for the next turn
	pendingImage string

	// Transient status line
	status string
}

// New creates the chat model. usage may be nil.
func New(
	manager *session.Manager,
	creds *store.CredentialStore,
	profile *auth.Profile,
	cfg *config.Config,
	usage *telemetry.UsageStore,
) *Model {
	ta := textarea.New()
	ta.Placeholder = "Ask FullTask AI anything... (/image <path> to attach, /help for commands)"
	ta.Prompt = "┃ "
	ta.CharLimit = 0
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.Focus()

	ki := textinput.New()
	ki.Placeholder = "sk-..."
	ki.EchoMode = textinput.EchoPassword
	ki.EchoCharacter = '•'

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Amber)

	return &Model{
		manager:    manager,
		creds:      creds,
		profile:    profile,
		cfg:        cfg,
		usage:      usage,
		theme:      styles.New(cfg.UI.Theme),
		textarea:   ta,
		keyInput:   ki,
		spinner:    sp,
		mode:       config.ModeChat,
		events:     make(chan tea.Msg, 1),
		cancels:    make(map[string]context.CancelFunc),
		renderGate: rate.NewLimiter(rate.Limit(renderRate), 1),
	}
}

// Publish offers a message to the event channel without blocking. External
// publishers (the config watcher) use it; losing a reload notification is
// harmless, the next write delivers. Stream goroutines write to the channel
// directly so chunk ordering and backpressure are preserved.
func (m *Model) Publish(msg tea.Msg) {
	select {
	case m.events <- msg:
	default:
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, waitEvent(m.events))
}
