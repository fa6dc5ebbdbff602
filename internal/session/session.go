package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"screen2html/internal/conversation"
	"screen2html/internal/llm"
)

// ErrBusy is returned when a session is asked to do something while an
// earlier action is still running
var ErrBusy = errors.New("session is busy with another request")

// Session bundles the dialogue with the model and the state shown to one user.
type Session struct {
	ID           string
	CreatedAt    time.Time
	State        *State
	Conversation *conversation.Context

	// busy is held for the duration of one user action
	busy sync.Mutex
}

// New starts a session whose dialogue is bound to gen
func New(gen llm.Generator, opts ...conversation.Option) *Session {
	return &Session{
		ID:           uuid.New().String(),
		CreatedAt:    time.Now(),
		State:        NewState(),
		Conversation: conversation.New(gen, opts...),
	}
}

// Acquire claims the session for one action. ok is false if another action is
// still in flight; otherwise release must be called when the action ends.
func (s *Session) Acquire() (release func(), ok bool) {
	if !s.busy.TryLock() {
		return nil, false
	}
	return s.busy.Unlock, true
}
