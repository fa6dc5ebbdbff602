package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"screen2html/internal/llm"
)

// Provider names
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// Config holds all application configuration
type Config struct {
	// Model settings
	Provider     string        `validate:"oneof=gemini ollama"`
	ModelName    string        `validate:"required"`
	APIKey       string        `validate:"required_if=Provider gemini"`
	OllamaURL    string        `validate:"required_if=Provider ollama"`
	ModelTimeout time.Duration `validate:"gte=0"`
	SystemPrompt string

	// Generation settings, fixed for the deployment
	Temperature      float64 `validate:"gte=0,lte=2"`
	TopP             float64 `validate:"gte=0,lte=1"`
	TopK             int     `validate:"gte=1"`
	MaxOutputTokens  int     `validate:"gte=1"`
	ResponseMIMEType string  `validate:"required"`
	SafetyThreshold  string  `validate:"omitempty,oneof=BLOCK_NONE BLOCK_ONLY_HIGH BLOCK_MEDIUM_AND_ABOVE BLOCK_LOW_AND_ABOVE OFF"`

	// Pipeline settings
	Framework string `validate:"required"`

	// Output settings
	OutputDir   string `validate:"required"`
	LogFilePath string `validate:"required"`

	// HTTP mode
	Serve       bool
	ListenAddr  string        `validate:"required_if=Serve true"`
	SessionTTL  time.Duration `validate:"gt=0"`
	MaxUploadMB int           `validate:"gte=1,lte=20"`

	// Feature flags
	Verbose bool
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	s := llm.DefaultSettings()
	return &Config{
		Provider:     ProviderGemini,
		ModelName:    "gemini-2.0-flash-exp",
		OllamaURL:    "http://localhost:11434",
		ModelTimeout: 0, // the core defines no timeout

		Temperature:      s.Temperature,
		TopP:             s.TopP,
		TopK:             s.TopK,
		MaxOutputTokens:  s.MaxOutputTokens,
		ResponseMIMEType: s.ResponseMIMEType,
		SafetyThreshold:  s.SafetyThreshold,

		Framework: "Regular CSS",

		OutputDir:   ".",
		LogFilePath: expandHome("~/.screen2html/screen2html.log"),

		ListenAddr:  ":8080",
		SessionTTL:  1 * time.Hour,
		MaxUploadMB: 20,
	}
}

// LoadEnv overlays values from a .env file (if present) and the process
// environment. A missing .env file is not an error.
func (c *Config) LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load env file: %w", err)
	}

	c.APIKey = envOr("GEMINI_API_KEY", c.APIKey)
	c.Provider = envOr("SCREEN2HTML_PROVIDER", c.Provider)
	c.ModelName = envOr("SCREEN2HTML_MODEL", c.ModelName)
	c.OllamaURL = envOr("OLLAMA_URL", c.OllamaURL)
	c.Framework = envOr("SCREEN2HTML_FRAMEWORK", c.Framework)
	c.LogFilePath = expandHome(envOr("SCREEN2HTML_LOG_FILE", c.LogFilePath))
	c.SystemPrompt = envOr("SCREEN2HTML_SYSTEM_PROMPT", c.SystemPrompt)
	return nil
}

// Settings returns the generation settings applied to every model call
func (c *Config) Settings() llm.Settings {
	return llm.Settings{
		Temperature:      c.Temperature,
		TopP:             c.TopP,
		TopK:             c.TopK,
		MaxOutputTokens:  c.MaxOutputTokens,
		ResponseMIMEType: c.ResponseMIMEType,
		SafetyThreshold:  c.SafetyThreshold,
	}
}

var validate = validator.New()

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch {
	case fe.Field() == "APIKey":
		return "GEMINI_API_KEY must be set when provider is gemini"
	case fe.Tag() == "required" || fe.Tag() == "required_if":
		return fmt.Sprintf("%s cannot be empty", fe.Field())
	case fe.Tag() == "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value())
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(GetEnv(key)); v != "" {
		return v
	}
	return fallback
}

// expandHome expands the ~ in file paths to the user's home directory
func expandHome(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir := getHomeDir()
		return homeDir + path[1:]
	}
	return path
}

// getHomeDir returns the user's home directory
func getHomeDir() string {
	if home := GetEnv("HOME"); home != "" {
		return home
	}
	// Fallback for Windows
	if home := GetEnv("USERPROFILE"); home != "" {
		return home
	}
	return "."
}

// GetEnv is a wrapper around os.Getenv for easier testing
var GetEnv = os.Getenv
