// Package llm defines the provider-agnostic contract between the pipeline and
// a multimodal generative model backend.
package llm

import (
	"context"
	"errors"
)

// Role of a message in the dialogue with the model
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Image is an encoded raster ready to be sent to a model
type Image struct {
	MIMEType string
	Data     []byte
}

// Message is a single entry of the dialogue. Image is nil for text-only turns.
type Message struct {
	Role    Role
	Content string
	Image   *Image
}

// ErrNoContent is returned by a backend whose response carried no text.
var ErrNoContent = errors.New("model returned no text")

// Generator is the external model capability. Generate receives the full
// accumulated dialogue, the last message being the new prompt, and returns
// the model's reply.
type Generator interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface
type GeneratorFunc func(ctx context.Context, messages []Message) (string, error)

// Generate calls f
func (f GeneratorFunc) Generate(ctx context.Context, messages []Message) (string, error) {
	return f(ctx, messages)
}
