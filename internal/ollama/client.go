package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"screen2html/internal/llm"
)

// Client handles communication with Ollama
type Client struct {
	baseURL    string
	model      string
	options    *Options
	httpClient *http.Client
}

// NewClient creates a new Ollama client bound to one vision model.
// A zero timeout means requests never time out.
func NewClient(baseURL, model string, timeout time.Duration, settings llm.Settings) *Client {
	return &Client{
		baseURL: baseURL,
		model:   model,
		options: &Options{
			Temperature: settings.Temperature,
			TopP:        settings.TopP,
			TopK:        settings.TopK,
			NumPredict:  settings.MaxOutputTokens,
		},
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Generate implements llm.Generator
func (c *Client) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	msgs := make([]Message, 0, len(messages))
	for _, m := range messages {
		msg := Message{
			Role:    string(m.Role),
			Content: m.Content,
		}
		if m.Image != nil {
			msg.Images = []string{base64.StdEncoding.EncodeToString(m.Image.Data)}
		}
		msgs = append(msgs, msg)
	}

	content, err := c.ChatSync(ctx, msgs)
	if err != nil {
		return "", err
	}
	if content == "" {
		return "", llm.ErrNoContent
	}
	return content, nil
}

// ChatSync sends a non-streaming chat request and returns the complete response
func (c *Client) ChatSync(ctx context.Context, messages []Message) (string, error) {
	req := ChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		Options:  c.options,
	}

	// Marshal request to JSON
	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	// Create HTTP request
	url := fmt.Sprintf("%s/api/chat", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Ollama returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return chatResp.Message.Content, nil
}

// HealthCheck verifies that Ollama is accessible
func (c *Client) HealthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := fmt.Sprintf("%s/api/tags", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("Ollama is unreachable at %s: %w (is Ollama running?)", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fmt.Errorf("Ollama returned status %d", resp.StatusCode)
	}

	return nil
}

// ListModels returns the list of available models
func (c *Client) ListModels() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := fmt.Sprintf("%s/api/tags", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("Ollama returned status %d", resp.StatusCode)
	}

	var result struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	models := make([]string, len(result.Models))
	for i, m := range result.Models {
		models[i] = m.Name
	}

	return models, nil
}

// CheckModel verifies that the configured model has been pulled
func (c *Client) CheckModel() error {
	models, err := c.ListModels()
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}
	for _, m := range models {
		if m == c.model {
			return nil
		}
	}
	return fmt.Errorf("model '%s' not found (pull it with: ollama pull %s)", c.model, c.model)
}
