// Package llm - embedder.go provides the embedding providers used by the embedding signal.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"

	"github.com/jonathan/match-engine/internal/embedding"
)

// EmbedderConfig selects and configures an embedding provider.
type EmbedderConfig struct {
	Provider Provider `mapstructure:"provider" validate:"omitempty,oneof=gemini openai none"`
	Model    string   `mapstructure:"model"`
	APIKey   string   `mapstructure:"api_key"`
	BaseURL  string   `mapstructure:"base_url" validate:"omitempty,url"`
}

// NewEmbedder builds the configured provider. ProviderNone (or an empty provider) returns nil,
// which leaves the embedding signal permanently degraded.
func NewEmbedder(ctx context.Context, cfg EmbedderConfig) (embedding.Provider, error) {
	switch cfg.Provider {
	case ProviderNone, "":
		return nil, nil
	case ProviderGemini:
		e, err := NewGeminiEmbedder(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return e, nil
	case ProviderOpenAI:
		e, err := NewOpenAIEmbedder(cfg)
		if err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", cfg.Provider)
	}
}

// GeminiEmbedder embeds texts with a Gemini embedding model.
type GeminiEmbedder struct {
	client *genai.Client
	model  string
}

// NewGeminiEmbedder creates a Gemini embedding provider.
func NewGeminiEmbedder(ctx context.Context, apiKey, model string) (*GeminiEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = DefaultGeminiEmbeddingModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiEmbedder{client: client, model: model}, nil
}

// Embed implements embedding.Provider.
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := e.client.EmbeddingModel(e.model).EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("failed to embed content: %w", err)
	}
	if res == nil || res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, errors.New("empty embedding response")
	}
	return res.Embedding.Values, nil
}

// Name implements embedding.Provider.
func (e *GeminiEmbedder) Name() string {
	return "gemini:" + e.model
}

// Close releases the underlying client.
func (e *GeminiEmbedder) Close() error {
	return e.client.Close()
}

// OpenAIEmbedder embeds texts through any OpenAI-compatible embeddings endpoint.
type OpenAIEmbedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// NewOpenAIEmbedder creates an OpenAI-compatible embedding provider. BaseURL is optional.
func NewOpenAIEmbedder(cfg EmbedderConfig) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIEmbeddingModel
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(clientCfg),
		model:  openai.EmbeddingModel(model),
	}, nil
}

// Embed implements embedding.Provider.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	})
	if err != nil {
		return nil, parseAPIError(err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, errors.New("empty embedding response")
	}
	return resp.Data[0].Embedding, nil
}

// Name implements embedding.Provider.
func (e *OpenAIEmbedder) Name() string {
	return "openai:" + string(e.model)
}

// parseAPIError extracts a human-readable error from the API response.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return fmt.Errorf("embedding API error %d: %s: %w", reqErr.HTTPStatusCode, detail, err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("embedding API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	return fmt.Errorf("embedding request failed: %w", err)
}

// extractDetail reads the "detail" field some OpenAI-compatible hosts return instead of "error".
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
