package embedding

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/match-engine/internal/cache"
	"github.com/jonathan/match-engine/internal/types"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.RetryBaseDelay = time.Millisecond
	return cfg
}

func TestScore_IdenticalTexts(t *testing.T) {
	s := NewSignal(testConfig(), NewMockProvider())
	res := s.Score(context.Background(), "Python developer building data pipelines", "Python developer building data pipelines")

	assert.False(t, res.Degraded)
	assert.Equal(t, types.SignalEmbedding, res.Signal)
	assert.Equal(t, 100.0, res.Score)
	assert.InDelta(t, 1.0, res.Metadata[MetaSimilarity].(float64), 1e-6)
}

func TestScore_RelatedBeatsUnrelated(t *testing.T) {
	s := NewSignal(testConfig(), NewMockProvider())
	job := "Backend developer with Kubernetes, Docker and cloud infrastructure experience"

	related := s.Score(context.Background(), job, "Cloud engineer running Docker and Kubernetes infrastructure")
	unrelated := s.Score(context.Background(), job, "Pastry chef specialised in chocolate desserts")

	assert.Greater(t, related.Score, unrelated.Score)
	assert.LessOrEqual(t, related.Score, 100.0)
	assert.GreaterOrEqual(t, unrelated.Score, 0.0)
	assert.Contains(t, related.Evidence, "cloud_infrastructure")
}

func TestScore_ProviderFailureDegrades(t *testing.T) {
	var calls atomic.Int32
	provider := NewMockProvider()
	provider.EmbedFunc = func(context.Context, string) ([]float32, error) {
		calls.Add(1)
		return nil, errors.New("503 service unavailable")
	}

	s := NewSignal(testConfig(), provider)
	res := s.Score(context.Background(), "job text", "candidate text")

	assert.True(t, res.Degraded)
	assert.Equal(t, 0.0, res.Score)
	assert.NotEmpty(t, res.Reason)
	assert.Equal(t, "provider", res.Metadata[MetaErrorKind])
	assert.Equal(t, int32(3), calls.Load(), "transient failures are retried")
}

func TestScore_TimeoutDegrades(t *testing.T) {
	provider := NewMockProvider()
	provider.EmbedFunc = func(ctx context.Context, _ string) ([]float32, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	cfg := testConfig()
	cfg.Timeout = 20 * time.Millisecond
	s := NewSignal(cfg, provider)

	start := time.Now()
	res := s.Score(context.Background(), "job text", "candidate text")

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.True(t, res.Degraded)
	assert.Equal(t, "timeout", res.Metadata[MetaErrorKind])
}

func TestScore_NoProvider(t *testing.T) {
	s := NewSignal(testConfig(), nil)
	assert.False(t, s.Available())

	res := s.Score(context.Background(), "job", "candidate")
	assert.True(t, res.Degraded)
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, "provider", res.Metadata[MetaErrorKind])
}

func TestScore_EmptyText(t *testing.T) {
	s := NewSignal(testConfig(), NewMockProvider())
	res := s.Score(context.Background(), "Go developer", "  ?!  ")

	assert.True(t, res.Degraded)
	assert.Equal(t, "validation", res.Metadata[MetaErrorKind])
}

func TestScore_ZeroVectorIsComputationError(t *testing.T) {
	provider := NewMockProvider()
	provider.EmbedFunc = func(context.Context, string) ([]float32, error) {
		return []float32{0, 0, 0}, nil
	}
	res := NewSignal(testConfig(), provider).Score(context.Background(), "a text", "another text")

	assert.True(t, res.Degraded)
	assert.Equal(t, "computation", res.Metadata[MetaErrorKind])
}

func TestEmbed_UsesVectorCache(t *testing.T) {
	provider := NewMockProvider()
	c := cache.New(cache.Config{MaxEntries: 100, DefaultTTL: time.Hour})
	s := NewSignal(testConfig(), provider, WithCache(c))

	s.Score(context.Background(), "Go developer", "Rust developer")
	s.Score(context.Background(), "Go developer", "Rust developer")

	assert.Equal(t, 2, provider.CallCount())
}

func TestEmbed_PreparesText(t *testing.T) {
	provider := NewMockProvider()
	cfg := testConfig()
	cfg.MaxChars = 12
	s := NewSignal(cfg, provider)

	_, err := s.Embed(context.Background(), "HELLO, World! And more text")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello world "}, provider.Texts())
}

func TestScoreBatch_EmbedsJobOnce(t *testing.T) {
	provider := NewMockProvider()
	s := NewSignal(testConfig(), provider)

	cands := []string{
		"Kubernetes operator developer",
		"Accountant with IFRS experience",
		"Docker and Kubernetes cloud engineer",
		"Nurse",
	}
	results := s.ScoreBatch(context.Background(), "Cloud engineer, Kubernetes, Docker", cands)

	require.Len(t, results, len(cands))
	assert.Equal(t, 1+len(cands), provider.CallCount())
	for _, r := range results {
		assert.False(t, r.Degraded)
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 100.0)
	}
	assert.Greater(t, results[2].Score, results[1].Score)
}

func TestScoreBatch_JobFailureDegradesAll(t *testing.T) {
	s := NewSignal(testConfig(), nil)
	results := s.ScoreBatch(context.Background(), "job", []string{"a", "b"})
	require.Len(t, results, 2)
	for _, r := range results {
		assert.True(t, r.Degraded)
	}
	assert.Empty(t, s.ScoreBatch(context.Background(), "job", nil))
}

func TestConceptBonus(t *testing.T) {
	concepts := []Concept{
		{Name: "x", Keywords: []string{"alpha", "beta"}},
		{Name: "y", Keywords: []string{"gamma"}},
	}

	bonus, alignments := conceptBonus(concepts, "alpha beta", "alpha", 10)
	require.Len(t, alignments, 1, "only concepts present in the job are compared")
	assert.InDelta(t, 2.0/3.0, alignments[0].Alignment, 1e-9)
	assert.InDelta(t, 20.0/3.0, bonus, 1e-9)

	bonus, alignments = conceptBonus(concepts, "delta", "alpha gamma", 10)
	assert.Equal(t, 0.0, bonus)
	assert.Empty(t, alignments)

	bonus, _ = conceptBonus(concepts, "alpha beta gamma", "alpha beta gamma", 10)
	assert.InDelta(t, 10.0, bonus, 1e-9)
}

func TestTokenBucket_Wait(t *testing.T) {
	tb := newTokenBucket(2, 1000)
	ctx := context.Background()
	require.NoError(t, tb.Wait(ctx))
	require.NoError(t, tb.Wait(ctx))
	require.NoError(t, tb.Wait(ctx), "refills quickly at 1000 tokens per second")

	slow := newTokenBucket(1, 0.001)
	require.NoError(t, slow.Wait(ctx))
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, slow.Wait(cancelled), context.Canceled)

	var none *tokenBucket
	assert.NoError(t, none.Wait(ctx))
	assert.Nil(t, newRateLimiter(0))
}

func TestRetryWithBackoff(t *testing.T) {
	attempts := 0
	err := retryWithBackoff(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}, 5, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)

	attempts = 0
	err = retryWithBackoff(context.Background(), func() error {
		attempts++
		return context.DeadlineExceeded
	}, 5, time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, attempts)
}
