// Package history keeps the ordered turn history shown to the user.
package history

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Log is an append-only sequence of turns. Entries are never modified or
// removed for the lifetime of the session that owns the log.
type Log struct {
	mu    sync.RWMutex
	turns []Turn
}

// NewLog creates an empty log
func NewLog() *Log {
	return &Log{turns: []Turn{}}
}

// Append adds a turn and returns it with its ID and timestamp filled in
func (l *Log) Append(t Turn) Turn {
	l.mu.Lock()
	defer l.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now()
	}
	l.turns = append(l.turns, t)
	return t
}

// Turns returns a copy of every turn in insertion order
func (l *Log) Turns() []Turn {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Recent returns the last n turns
func (l *Log) Recent(n int) []Turn {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n <= 0 || len(l.turns) == 0 {
		return []Turn{}
	}
	start := 0
	if len(l.turns) > n {
		start = len(l.turns) - n
	}
	out := make([]Turn, len(l.turns)-start)
	copy(out, l.turns[start:])
	return out
}

// Len returns the number of turns
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.turns)
}
