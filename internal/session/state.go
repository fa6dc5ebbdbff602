// Package session holds the per-session record of the latest HTML artifact
// and the user-facing turn history.
package session

import (
	"sync"

	"screen2html/internal/history"
	"screen2html/internal/llm"
)

// State is the durable-for-the-session record. CurrentHTML is last writer
// wins; the history only grows.
type State struct {
	mu          sync.RWMutex
	currentHTML string
	history     *history.Log
}

// NewState creates an empty state
func NewState() *State {
	return &State{history: history.NewLog()}
}

// CurrentHTML returns the HTML of the last completed action
func (s *State) CurrentHTML() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentHTML
}

// HasHTML reports whether any action has produced HTML yet
func (s *State) HasHTML() bool {
	return s.CurrentHTML() != ""
}

// History returns a copy of the turn history
func (s *State) History() []history.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.Turns()
}

// Snapshot returns the current HTML together with the history it belongs to
func (s *State) Snapshot() (string, []history.Turn) {
	return s.SnapshotRecent(0)
}

// SnapshotRecent is Snapshot limited to the last n turns (n <= 0 for all)
func (s *State) SnapshotRecent(n int) (string, []history.Turn) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 {
		return s.currentHTML, s.history.Turns()
	}
	return s.currentHTML, s.history.Recent(n)
}

// Len returns the number of turns
func (s *State) Len() int {
	return s.history.Len()
}

// Recent returns the last n turns
func (s *State) Recent(n int) []history.Turn {
	return s.history.Recent(n)
}

// AppendUser echoes a user request into the history
func (s *State) AppendUser(text string) history.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Append(history.Turn{Role: llm.RoleUser, Content: text})
}

// Commit replaces the current HTML and appends the matching assistant turn.
// Readers never observe one without the other.
func (s *State) Commit(label, html string) history.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentHTML = html
	return s.history.Append(history.Turn{
		Role:    llm.RoleAssistant,
		Label:   label,
		Content: html,
	})
}
