package ollama

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screen2html/internal/llm"
)

func TestGenerate_SendsHistoryImagesAndOptions(t *testing.T) {
	var got ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(ChatResponse{
			Message: Message{Role: "assistant", Content: "<html></html>"},
			Done:    true,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "llava", 0, llm.DefaultSettings())
	out, err := c.Generate(context.Background(), []llm.Message{
		{Role: llm.RoleUser, Content: "describe", Image: &llm.Image{MIMEType: "image/jpeg", Data: []byte{0xff, 0xd8}}},
		{Role: llm.RoleAssistant, Content: "D"},
		{Role: llm.RoleUser, Content: "refine"},
	})
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", out)

	assert.Equal(t, "llava", got.Model)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, []string{base64.StdEncoding.EncodeToString([]byte{0xff, 0xd8})}, got.Messages[0].Images)
	assert.Empty(t, got.Messages[1].Images)
	assert.Equal(t, "assistant", got.Messages[1].Role)
	require.NotNil(t, got.Options)
	assert.Equal(t, 0.7, got.Options.Temperature)
	assert.Equal(t, 40, got.Options.TopK)
	assert.Equal(t, 8192, got.Options.NumPredict)
}

func TestGenerate_EmptyReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ChatResponse{Done: true})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "llava", 0, llm.DefaultSettings())
	_, err := c.Generate(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "x"}})
	assert.True(t, errors.Is(err, llm.ErrNoContent))
}

func TestChatSync_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "llava", 0, llm.DefaultSettings())
	_, err := c.ChatSync(context.Background(), []Message{{Role: "user", Content: "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestCheckModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[{"name":"llava"},{"name":"llama3"}]}`))
	}))
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL, "llava", 0, llm.DefaultSettings()).CheckModel())
	require.NoError(t, NewClient(srv.URL, "llava", 0, llm.DefaultSettings()).HealthCheck())

	err := NewClient(srv.URL, "bakllava", 0, llm.DefaultSettings()).CheckModel()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama pull bakllava")
}
