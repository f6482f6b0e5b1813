package llm

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.Equal(t, DefaultGeminiEmbeddingModel, config.EmbeddingModel)
	assert.Equal(t, DefaultTimeout, config.timeout())
}

func TestGetModel_Fallback(t *testing.T) {
	tests := []struct {
		name     string
		models   map[ModelTier]string
		tier     ModelTier
		expected string
	}{
		{"exact tier", map[ModelTier]string{TierAdvanced: "pro"}, TierAdvanced, "pro"},
		{"falls back to standard", map[ModelTier]string{TierStandard: "flash", TierLite: "lite"}, TierAdvanced, "flash"},
		{"falls back to lite", map[ModelTier]string{TierLite: "lite"}, "unknown", "lite"},
		{"blank entry skipped", map[ModelTier]string{TierAdvanced: "", TierLite: "lite"}, TierAdvanced, "lite"},
		{"nothing configured", map[ModelTier]string{}, TierAdvanced, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{Provider: ProviderGemini, Models: tt.models}
			assert.Equal(t, tt.expected, config.GetModel(tt.tier))
		})
	}
}

func TestParseTier(t *testing.T) {
	tier, err := ParseTier(" Advanced ")
	require.NoError(t, err)
	assert.Equal(t, TierAdvanced, tier)

	tier, err = ParseTier("")
	require.NoError(t, err)
	assert.Equal(t, TierStandard, tier)

	_, err = ParseTier("ultra")
	assert.ErrorContains(t, err, "unknown model tier")
}

func TestExtractTextFromResponse(t *testing.T) {
	_, err := extractTextFromResponse(nil)
	assert.Error(t, err)

	blocked := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
	}
	_, err = extractTextFromResponse(blocked)
	assert.ErrorIs(t, err, errBlocked)

	ok := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"equivalent": `), genai.Text(`true}`)}},
		}},
	}
	text, err := extractTextFromResponse(ok)
	require.NoError(t, err)
	assert.Equal(t, `{"equivalent": true}`, text)
}

func TestProviderError(t *testing.T) {
	err := providerError("gemini-2.5-flash", "generation failed", errBlocked)
	assert.ErrorIs(t, err, errBlocked)
	assert.Contains(t, err.Error(), "gemini/gemini-2.5-flash")
}
