package history

import (
	"time"

	"screen2html/internal/llm"
)

// LabelInitialHTML captions the turn written by a completed pipeline run
const LabelInitialHTML = "Initial HTML Code"

// Turn represents a single user-facing entry of the conversation
type Turn struct {
	ID        string    `json:"id"`
	Role      llm.Role  `json:"role"`            // "user" or "assistant"
	Label     string    `json:"label,omitempty"` // display caption, defaults to the role
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Caption returns the label shown above the turn
func (t Turn) Caption() string {
	if t.Label != "" {
		return t.Label
	}
	return string(t.Role)
}
