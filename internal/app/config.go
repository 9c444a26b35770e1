package app

import "time"

// Provider names accepted by Config.Provider.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config holds runtime configuration for the application.
type Config struct {
	InputPath     string
	OutputPath    string
	OutputPDFPath string

	// Provider selects the LLM backend: "openai" (any OpenAI-compatible
	// endpoint) or "gemini".
	Provider string

	// OpenAI-compatible backend
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	// Gemini backend
	GeminiAPIKey string
	GeminiModel  string

	// Behavior
	Timeout  time.Duration // per LLM call
	CacheDir string
	DryRun   bool // extract pairs only, skip evaluation
	Verbose  bool
}
