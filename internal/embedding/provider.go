// Package embedding implements the dense-embedding signal. Texts are embedded by an external
// provider and compared by cosine similarity, with a bonus for aligned concept coverage.
// Provider failures never surface as errors: the signal degrades to a neutral result.
package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"sync"
	"sync/atomic"

	"github.com/jonathan/match-engine/internal/textproc"
)

// Provider turns a text into a fixed-length vector.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// Name identifies the provider and model in logs, metrics and cache keys.
	Name() string
}

// MockDimensions is the vector length produced by MockProvider.
const MockDimensions = 256

// MockProvider is a deterministic offline provider. Each stemmed token is hashed (FNV) into a
// bucket, so texts sharing vocabulary get similar vectors and identical texts get identical ones.
type MockProvider struct {
	// EmbedFunc overrides the default behavior when set.
	EmbedFunc func(ctx context.Context, text string) ([]float32, error)

	calls atomic.Int64
	mu    sync.Mutex
	seen  []string
}

// NewMockProvider creates a mock provider with the default hashing behavior.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// Embed implements Provider.
func (m *MockProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.seen = append(m.seen, text)
	m.mu.Unlock()

	if m.EmbedFunc != nil {
		return m.EmbedFunc(ctx, text)
	}
	return hashedVector(text, MockDimensions), nil
}

// Name implements Provider.
func (m *MockProvider) Name() string {
	return "mock"
}

// CallCount returns the number of Embed calls.
func (m *MockProvider) CallCount() int {
	return int(m.calls.Load())
}

// Texts returns the texts passed to Embed, in call order.
func (m *MockProvider) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.seen...)
}

func hashedVector(text string, dim int) []float32 {
	vec := make([]float32, dim)
	for _, tok := range textproc.Preprocess(text, textproc.LangEnglish) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		vec[h.Sum32()%uint32(dim)]++
	}

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum > 0 {
		norm := float32(math.Sqrt(sum))
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}
