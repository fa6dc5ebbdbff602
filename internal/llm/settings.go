package llm

// Settings are fixed for a deployment and applied to every call.
type Settings struct {
	Temperature      float64
	TopP             float64
	TopK             int
	MaxOutputTokens  int
	ResponseMIMEType string

	// SafetyThreshold is applied to every harm category the backend knows
	// about, e.g. "BLOCK_NONE".
	SafetyThreshold string
}

// DefaultSettings returns the generation settings the pipeline was tuned with.
func DefaultSettings() Settings {
	return Settings{
		Temperature:      0.7,
		TopP:             0.95,
		TopK:             40,
		MaxOutputTokens:  8192,
		ResponseMIMEType: "text/plain",
		SafetyThreshold:  "BLOCK_NONE",
	}
}
