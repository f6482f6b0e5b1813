package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient returns a canned response and records the last prompt.
type stubClient struct {
	response   string
	err        error
	lastPrompt string
	lastTier   ModelTier
}

func (s *stubClient) GenerateContent(_ context.Context, prompt string, tier ModelTier) (string, error) {
	s.lastPrompt, s.lastTier = prompt, tier
	return s.response, s.err
}

func (s *stubClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return s.GenerateContent(ctx, prompt, tier)
}

func (s *stubClient) GetModel(ModelTier) string { return "stub" }
func (s *stubClient) Close() error              { return nil }

func TestBuildExtractionPrompt(t *testing.T) {
	schema := JobProfileSchema()
	prompt := BuildExtractionPrompt(schema, "Senior Go developer, 5+ years")

	assert.Contains(t, prompt, "Extract structured information from the job posting")
	assert.Contains(t, prompt, `"required_skills": ["string"] (required)`)
	assert.Contains(t, prompt, `"max_years": number`)
	assert.Contains(t, prompt, "Return ONLY the JSON object")
	assert.Contains(t, prompt, "Senior Go developer, 5+ years")
}

func TestCandidateProfileSchema_Fields(t *testing.T) {
	schema := CandidateProfileSchema()
	names := make([]string, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"name", "sector", "hard_skills", "soft_skills", "experience", "education", "languages", "culture", "mobility"}, names)
}

func TestExtract(t *testing.T) {
	client := &stubClient{response: "Here you go:\n```json\n{\"title\": \"Backend Developer\"}\n```"}

	data, err := Extract(context.Background(), client, JobProfileSchema(), "posting", TierStandard)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title": "Backend Developer"}`, string(data))
	assert.Equal(t, TierStandard, client.lastTier)
	assert.Contains(t, client.lastPrompt, "posting")
}

func TestExtract_Errors(t *testing.T) {
	_, err := Extract(context.Background(), nil, JobProfileSchema(), "x", TierLite)
	assert.Error(t, err)

	client := &stubClient{err: errors.New("quota exceeded")}
	_, err = Extract(context.Background(), client, JobProfileSchema(), "x", TierLite)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to extract JobProfile")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestExtractTextFromResponse_Extractor(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"a":`), genai.Text(` 1}`)}},
		}},
	}
	text, err := extractTextFromResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, text)

	_, err = extractTextFromResponse(&genai.GenerateContentResponse{})
	assert.ErrorContains(t, err, "no candidates")

	_, err = extractTextFromResponse(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}})
	assert.ErrorContains(t, err, "no content")
}

func TestNewClient_UnsupportedProvider(t *testing.T) {
	_, err := NewClient(context.Background(), &Config{Provider: ProviderOpenAI}, "key")
	assert.ErrorContains(t, err, "unsupported LLM provider")

	_, err = NewClient(context.Background(), nil, "")
	assert.ErrorContains(t, err, "API key is required")
}
