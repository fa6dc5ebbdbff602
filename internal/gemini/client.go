// Package gemini implements llm.Generator on top of the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"screen2html/internal/llm"
)

// ErrMissingAPIKey is returned when no API key was configured
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

// models is the subset of *genai.Models the client needs
type models interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client sends the whole dialogue to generateContent on every call.
type Client struct {
	models models
	model   string
	config  *genai.GenerateContentConfig
	timeout time.Duration
}

// NewClient creates a Gemini client for model using apiKey. A zero timeout
// means requests never time out.
func NewClient(ctx context.Context, apiKey, model string, timeout time.Duration, settings llm.Settings) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return newClient(client.Models, model, timeout, settings), nil
}

func newClient(m models, model string, timeout time.Duration, settings llm.Settings) *Client {
	return &Client{
		models:  m,
		model:   model,
		config:  generateConfig(settings),
		timeout: timeout,
	}
}

// harmCategories are the categories the safety threshold is applied to
var harmCategories = []genai.HarmCategory{
	genai.HarmCategoryHarassment,
	genai.HarmCategoryHateSpeech,
	genai.HarmCategorySexuallyExplicit,
	genai.HarmCategoryDangerousContent,
}

func generateConfig(s llm.Settings) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(s.Temperature)),
		TopP:             genai.Ptr(float32(s.TopP)),
		TopK:             genai.Ptr(float32(s.TopK)),
		MaxOutputTokens:  int32(s.MaxOutputTokens),
		ResponseMIMEType: s.ResponseMIMEType,
	}
	if s.SafetyThreshold != "" {
		for _, cat := range harmCategories {
			cfg.SafetySettings = append(cfg.SafetySettings, &genai.SafetySetting{
				Category:  cat,
				Threshold: genai.HarmBlockThreshold(s.SafetyThreshold),
			})
		}
	}
	return cfg
}

// Generate implements llm.Generator. System messages become the request's
// system instruction; assistant turns are sent with the "model" role.
func (c *Client) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	contents, system := toContents(messages)

	cfg := *c.config
	cfg.SystemInstruction = system

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.models.GenerateContent(ctx, c.model, contents, &cfg)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	var out strings.Builder
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, p := range resp.Candidates[0].Content.Parts {
			if p != nil && p.Text != "" && !p.Thought {
				out.WriteString(p.Text)
			}
		}
	}
	if out.Len() == 0 {
		return "", llm.ErrNoContent
	}
	return out.String(), nil
}

func toContents(messages []llm.Message) ([]*genai.Content, *genai.Content) {
	var system *genai.Content
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		if m.Role == llm.RoleSystem {
			system = genai.NewContentFromText(m.Content, genai.RoleUser)
			continue
		}

		parts := []*genai.Part{genai.NewPartFromText(m.Content)}
		if m.Image != nil {
			parts = append(parts, genai.NewPartFromBytes(m.Image.Data, m.Image.MIMEType))
		}

		role := genai.Role(genai.RoleUser)
		if m.Role == llm.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromParts(parts, role))
	}
	return contents, system
}
