// Package llm provides the LLM client used for profile extraction and diploma equivalence, and
// the embedding providers behind the embedding signal.
package llm

import (
	"fmt"
	"strings"
	"time"
)

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for yes/no judgements such as diploma equivalence
	TierLite ModelTier = "lite"
	// TierStandard is for structured output: profile extraction
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long or messy documents
	TierAdvanced ModelTier = "advanced"
)

// ParseTier accepts a tier name as written in flags and config files.
func ParseTier(s string) (ModelTier, error) {
	switch tier := ModelTier(strings.ToLower(strings.TrimSpace(s))); tier {
	case TierLite, TierStandard, TierAdvanced:
		return tier, nil
	case "":
		return TierStandard, nil
	default:
		return "", fmt.Errorf("unknown model tier %q: must be lite, standard or advanced", s)
	}
}

// Provider represents an LLM or embedding provider
type Provider string

// Provider constants define supported providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is any OpenAI-compatible API (embeddings only)
	ProviderOpenAI Provider = "openai"
	// ProviderNone disables the provider
	ProviderNone Provider = "none"
)

// Default embedding models per provider
const (
	DefaultGeminiEmbeddingModel = "text-embedding-004"
	DefaultOpenAIEmbeddingModel = "text-embedding-3-small"
)

// DefaultTimeout bounds a single generation call.
const DefaultTimeout = 60 * time.Second

// Config holds the generation models and the embedding model name.
type Config struct {
	Provider       Provider             `mapstructure:"provider"`
	Models         map[ModelTier]string `mapstructure:"models"`
	EmbeddingModel string               `mapstructure:"embedding_model"`
	Temperature    float32              `mapstructure:"temperature"`
	Timeout        time.Duration        `mapstructure:"timeout"`
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		EmbeddingModel: DefaultGeminiEmbeddingModel,
		// Extraction and equivalence want repeatable answers.
		Temperature: 0.1,
		Timeout:     DefaultTimeout,
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok && model != "" {
		return model
	}
	// Fallback chain: try standard, then lite
	for _, fallback := range []ModelTier{TierStandard, TierLite} {
		if model, ok := c.Models[fallback]; ok && model != "" {
			return model
		}
	}
	return ""
}

func (c *Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}
