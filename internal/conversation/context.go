// Package conversation owns the single ongoing dialogue with the model.
//
// A Context is an append-only log of messages. Every Send appends the prompt,
// calls the model with the whole log, and appends the reply, so later calls
// see everything earlier calls exchanged. Nothing is ever removed: a failed
// call leaves its prompt in the log without a reply.
//
// Context is not safe for concurrent use; callers serialize actions per
// session.
package conversation

import (
	"context"

	"screen2html/internal/llm"
)

// Context is the accumulated dialogue with one model
type Context struct {
	gen      llm.Generator
	messages []llm.Message
}

// Option configures a Context
type Option func(*Context)

// WithSystemPrompt seeds the dialogue with a fixed system instruction
func WithSystemPrompt(prompt string) Option {
	return func(c *Context) {
		if prompt != "" {
			c.messages = append(c.messages, llm.Message{Role: llm.RoleSystem, Content: prompt})
		}
	}
}

// New creates an empty dialogue bound to gen
func New(gen llm.Generator, opts ...Option) *Context {
	c := &Context{
		gen:      gen,
		messages: make([]llm.Message, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send appends prompt (with image, if non-nil) as a user message, invokes the
// model with the full log and appends the returned text as an assistant
// message.
func (c *Context) Send(ctx context.Context, prompt string, image *llm.Image) (string, error) {
	c.messages = append(c.messages, llm.Message{
		Role:    llm.RoleUser,
		Content: prompt,
		Image:   image,
	})

	reply, err := c.gen.Generate(ctx, c.Messages())
	if err != nil {
		return "", err
	}

	c.messages = append(c.messages, llm.Message{
		Role:    llm.RoleAssistant,
		Content: reply,
	})
	return reply, nil
}

// Messages returns a copy of the log
func (c *Context) Messages() []llm.Message {
	out := make([]llm.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages in the log
func (c *Context) Len() int {
	return len(c.messages)
}
