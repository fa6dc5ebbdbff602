package factory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screen2html/internal/config"
	"screen2html/internal/gemini"
	"screen2html/internal/ollama"
)

func TestNewGenerator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"models":[{"name":"llava"}]}`))
	}))
	defer srv.Close()

	cfg := config.NewConfig()
	cfg.Provider = config.ProviderOllama
	cfg.OllamaURL = srv.URL
	cfg.ModelName = "llava"

	gen, err := NewGenerator(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &ollama.Client{}, gen)

	cfg.ModelName = "missing"
	_, err = NewGenerator(context.Background(), cfg)
	assert.Error(t, err)

	cfg = config.NewConfig()
	_, err = NewGenerator(context.Background(), cfg)
	assert.ErrorIs(t, err, gemini.ErrMissingAPIKey)

	cfg.Provider = "openai"
	_, err = NewGenerator(context.Background(), cfg)
	assert.EqualError(t, err, "unsupported LLM provider: openai")
}
