// Copyright (c) 2025 Akin S. Sokpah / FullTask
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/akinsokpah/fulltask-tui/internal/model"
	"github.com/akinsokpah/fulltask-tui/internal/openai"
	"github.com/akinsokpah/fulltask-tui/internal/store"
)

// =============================================================================
// OUTCOMES AND FIXED TEXTS
// =============================================================================

// Outcome is the terminal state of an assistant message.
type Outcome int

const (
	// OutcomeOK finalizes a message with its successful completion text.
	OutcomeOK Outcome = iota

	// OutcomeError finalizes a message with a user-facing error text.
	OutcomeError
)

const (
	// CredentialRequiredText finalizes an exchange that failed because no
	// API key is configured.
	CredentialRequiredText = "**Action Required:** Please enter your OpenAI API Key in settings to proceed."

	// UpstreamFailureText finalizes an exchange that failed upstream. The
	// raw provider detail goes to the log, never to the transcript.
	UpstreamFailureText = "**System Error:** Connection failed. Please try again."

	// ImageOnlyTurnText is the user text recorded for an image-only turn.
	ImageOnlyTurnText = "Analyze this image"
)

// =============================================================================
// MANAGER
// =============================================================================

// Manager owns the session list and applies all mutations to it.
//
// All methods are safe for concurrent use; the streaming goroutine calls
// back into Patch/Finalize while the UI reads clones.
type Manager struct {
	mu       sync.Mutex
	store    *store.SessionStore
	sessions []*model.Session
	current  string
	inflight map[string]string // session id -> pending assistant message id
	logger   *log.Logger
}

// NewManager loads persisted state and guarantees a usable session list: on
// first run, or when the persisted state is corrupt, it starts with one fresh
// seeded session. Corruption is recovered silently, never surfaced.
func NewManager(st *store.SessionStore) (*Manager, error) {
	m := &Manager{
		store:    st,
		inflight: make(map[string]string),
		logger:   log.New(io.Discard, "", 0),
	}

	sessions, err := st.Load()
	if err != nil {
		if !errors.Is(err, store.ErrCorrupted) {
			return nil, err
		}
		m.logger.Printf("session store corrupted, reinitializing")
		sessions = nil
	}

	// A loaded session may have been persisted mid-exchange by an earlier
	// crash. Pending placeholders can never finalize now; close them out.
	for _, s := range sessions {
		for _, msg := range s.Messages {
			if msg.Pending {
				msg.Pending = false
				if msg.Text == "" {
					msg.Text = UpstreamFailureText
				}
			}
		}
	}

	m.sessions = sessions
	if len(m.sessions) == 0 {
		m.sessions = []*model.Session{model.NewSession()}
		m.persistLocked()
	}
	m.current = m.sessions[0].ID
	return m, nil
}

// SetLogger directs the manager's diagnostic output.
func (m *Manager) SetLogger(l *log.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l != nil {
		m.logger = l
	}
}

// =============================================================================
// READ ACCESS
// =============================================================================

// Sessions returns a deep copy of the session list, newest first.
func (m *Manager) Sessions() []*model.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Session, len(m.sessions))
	for i, s := range m.sessions {
		out[i] = s.Clone()
	}
	return out
}

// CurrentID returns the current session id.
func (m *Manager) CurrentID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Current returns a deep copy of the current session.
func (m *Manager) Current() *model.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s := m.findLocked(m.current); s != nil {
		return s.Clone()
	}
	return nil
}

// Session returns a deep copy of the session with the given id, or nil.
func (m *Manager) Session(id string) *model.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s := m.findLocked(id); s != nil {
		return s.Clone()
	}
	return nil
}

// Count returns the number of sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// InFlight reports whether a submission is streaming for the session.
func (m *Manager) InFlight(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.inflight[sessionID]
	return ok
}

// =============================================================================
// SESSION LIST MUTATIONS
// =============================================================================

// CreateSession prepends a fresh seeded session, makes it current, and
// persists the list. The returned session is a copy.
func (m *Manager) CreateSession() *model.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.createLocked()
	m.persistLocked()
	return s.Clone()
}

// SelectSession makes the session current. Unknown ids are a silent no-op;
// the return value reports whether the selection happened.
func (m *Manager) SelectSession(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findLocked(id) == nil {
		return false
	}
	m.current = id
	return true
}

// DeleteSession removes the session. If it was current, the new first
// session becomes current; deleting the last session immediately creates a
// fresh one, so the list is never empty. Unknown ids are a silent no-op.
func (m *Manager) DeleteSession(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i, s := range m.sessions {
		if s.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	m.sessions = append(m.sessions[:idx], m.sessions[idx+1:]...)
	delete(m.inflight, id)

	if len(m.sessions) == 0 {
		m.createLocked()
	} else if m.current == id {
		m.current = m.sessions[0].ID
	}
	m.persistLocked()
}

// =============================================================================
// TURN SUBMISSION
// =============================================================================

// SubmitTurn appends a user turn and a pending assistant placeholder to the
// current session, rewrites the title on the session's first user turn, and
// persists. It returns the placeholder's message id as the handle for the
// subsequent patch and finalize calls.
//
// The call is a no-op (ok=false) when the turn is empty (no text after
// trimming and no image) or when a submission is already in flight for the
// current session. The in-flight gate is advisory; even when a caller races
// past the UI-level gate, state is never corrupted, the second submission is
// simply rejected.
func (m *Manager) SubmitTurn(text, imagePath string) (assistantID string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	text = strings.TrimSpace(text)
	if text == "" && imagePath == "" {
		return "", false
	}

	s := m.findLocked(m.current)
	if s == nil {
		return "", false
	}
	if _, busy := m.inflight[s.ID]; busy {
		return "", false
	}

	if text == "" {
		text = ImageOnlyTurnText
	}

	firstUserTurn := !s.HasUserTurn()

	user := model.NewUserMessage(text, imagePath)
	assistant := model.NewPendingAssistantMessage()
	s.Messages = append(s.Messages, user, assistant)

	// The title is rewritten exactly once, from the first user turn.
	if firstUserTurn {
		s.Title = model.DeriveTitle(user.Text)
	}

	m.inflight[s.ID] = assistant.ID
	m.persistLocked()
	return assistant.ID, true
}

// PatchAssistant replaces the pending assistant message's text with the
// cumulative stream total. It does not persist; mid-stream partial text is
// accepted crash loss. Calls referencing a deleted session, a deleted
// message, or an already finalized message are silent no-ops.
func (m *Manager) PatchAssistant(sessionID, messageID, total string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg := m.findMessageLocked(sessionID, messageID)
	if msg == nil || !msg.Pending {
		return false
	}
	msg.Text = total
	return true
}

// FinalizeAssistant fixes the assistant message's terminal text, clears its
// pending flag, and persists. For OutcomeError, finalText must already be
// the user-facing error text, not the raw failure detail. Like patching,
// finalizing a missing or already terminal message is a silent no-op.
func (m *Manager) FinalizeAssistant(sessionID, messageID, finalText string, outcome Outcome) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.inflight[sessionID] == messageID {
		delete(m.inflight, sessionID)
	}

	msg := m.findMessageLocked(sessionID, messageID)
	if msg == nil || !msg.Pending {
		return false
	}

	msg.Text = finalText
	msg.Pending = false
	if outcome == OutcomeError {
		m.logger.Printf("exchange finalized with error in session %s", sessionID)
	}

	m.persistLocked()
	return true
}

// FinalizeFromError maps a completion failure onto the message's terminal
// state per the error taxonomy. It returns true when the failure was a
// missing credential, so the caller can raise a credential-entry prompt.
func (m *Manager) FinalizeFromError(sessionID, messageID string, err error) (needsCredential bool) {
	m.mu.Lock()
	m.logger.Printf("completion failed for session %s: %v", sessionID, err)
	m.mu.Unlock()

	if openai.IsNotConfigured(err) {
		m.FinalizeAssistant(sessionID, messageID, CredentialRequiredText, OutcomeError)
		return true
	}
	m.FinalizeAssistant(sessionID, messageID, UpstreamFailureText, OutcomeError)
	return false
}

// =============================================================================
// COMPLETION INPUT
// =============================================================================

// CompletionTurns builds the completion request history for the exchange
// identified by the pending assistant message: every finalized turn plus the
// user turn that opened the exchange, in order. Pending placeholders and
// empty assistant texts are skipped. Images are re-attached as inline data
// URLs; an unreadable image degrades to its text.
func (m *Manager) CompletionTurns(sessionID, assistantID string) []openai.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.findLocked(sessionID)
	if s == nil {
		return nil
	}

	turns := make([]openai.Turn, 0, len(s.Messages))
	for _, msg := range s.Messages {
		if msg.ID == assistantID {
			break
		}
		if msg.Pending || msg.Text == "" {
			continue
		}

		turn := openai.Turn{Text: msg.Text}
		switch msg.Role {
		case model.RoleUser:
			turn.Role = openai.RoleUser
		case model.RoleAssistant:
			turn.Role = openai.RoleAssistant
		default:
			continue
		}

		if msg.HasImage() {
			if dataURL, err := openai.EncodeImageDataURL(msg.ImagePath); err == nil {
				turn.ImageDataURL = dataURL
			} else {
				m.logger.Printf("dropping image %s from request: %v", msg.ImagePath, err)
			}
		}
		turns = append(turns, turn)
	}
	return turns
}

// =============================================================================
// INTERNAL
// =============================================================================

func (m *Manager) createLocked() *model.Session {
	s := model.NewSession()
	m.sessions = append([]*model.Session{s}, m.sessions...)
	m.current = s.ID
	return s
}

func (m *Manager) findLocked(id string) *model.Session {
	for _, s := range m.sessions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (m *Manager) findMessageLocked(sessionID, messageID string) *model.Message {
	s := m.findLocked(sessionID)
	if s == nil {
		return nil
	}
	return s.FindMessage(messageID)
}

func (m *Manager) persistLocked() {
	if m.store == nil {
		return
	}
	if err := m.store.Save(m.sessions); err != nil {
		m.logger.Printf("failed to persist sessions: %v", err)
	}
}
