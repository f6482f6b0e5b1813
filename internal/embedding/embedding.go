package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/jonathan/match-engine/internal/cache"
	"github.com/jonathan/match-engine/internal/logging"
	"github.com/jonathan/match-engine/internal/metrics"
	"github.com/jonathan/match-engine/internal/textproc"
	"github.com/jonathan/match-engine/internal/types"
)

// Metadata keys set on the embedding SignalResult
const (
	MetaSimilarity = "similarity"
	MetaBaseScore  = "base_score"
	MetaBonus      = "concept_bonus"
	MetaConcepts   = "concepts"
	MetaProvider   = "provider"
	MetaErrorKind  = "error_kind"
)

// Config holds the embedding signal settings.
type Config struct {
	Timeout           time.Duration `json:"timeout" mapstructure:"timeout" validate:"gt=0"`
	MaxChars          int           `json:"max_chars" mapstructure:"max_chars" validate:"gt=0"`
	MaxConcurrent     int64         `json:"max_concurrent" mapstructure:"max_concurrent" validate:"gt=0"`
	RequestsPerMinute int           `json:"requests_per_minute" mapstructure:"requests_per_minute" validate:"gte=0"`
	MaxAttempts       int           `json:"max_attempts" mapstructure:"max_attempts" validate:"gte=1"`
	RetryBaseDelay    time.Duration `json:"retry_base_delay" mapstructure:"retry_base_delay" validate:"gte=0"`
	BatchWorkers      int           `json:"batch_workers" mapstructure:"batch_workers" validate:"gt=0"`
	MaxConceptBonus   float64       `json:"max_concept_bonus" mapstructure:"max_concept_bonus" validate:"gte=0,lte=100"`
	VectorCacheTTL    time.Duration `json:"vector_cache_ttl" mapstructure:"vector_cache_ttl" validate:"gte=0"`
}

// DefaultConfig returns the defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:           120 * time.Second,
		MaxChars:          8000,
		MaxConcurrent:     4,
		RequestsPerMinute: 0,
		MaxAttempts:       3,
		RetryBaseDelay:    500 * time.Millisecond,
		BatchWorkers:      8,
		MaxConceptBonus:   10,
		VectorCacheTTL:    24 * time.Hour,
	}
}

// Signal computes embedding similarity through a rate-limited provider.
type Signal struct {
	cfg      Config
	provider Provider
	concepts []Concept
	sem      *semaphore.Weighted
	limiter  *tokenBucket
	cache    *cache.Cache
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// Option configures a Signal.
type Option func(*Signal)

// WithCache stores embedding vectors in c, keyed by the prepared text and provider name.
func WithCache(c *cache.Cache) Option {
	return func(s *Signal) { s.cache = c }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Signal) { s.logger = logging.Component(logger, "embedding") }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Signal) { s.metrics = m }
}

// WithConcepts replaces the concept taxonomy used for the alignment bonus.
func WithConcepts(concepts []Concept) Option {
	return func(s *Signal) { s.concepts = concepts }
}

// NewSignal creates the embedding signal. A nil provider yields a signal that always degrades.
func NewSignal(cfg Config, provider Provider, opts ...Option) *Signal {
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = def.MaxChars
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = def.MaxConcurrent
	}
	if cfg.BatchWorkers <= 0 {
		cfg.BatchWorkers = def.BatchWorkers
	}

	s := &Signal{
		cfg:      cfg,
		provider: provider,
		concepts: DefaultConcepts,
		sem:      semaphore.NewWeighted(cfg.MaxConcurrent),
		limiter:  newRateLimiter(cfg.RequestsPerMinute),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Available reports whether a provider is configured.
func (s *Signal) Available() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider name, or "none".
func (s *Signal) ProviderName() string {
	if s.provider == nil {
		return "none"
	}
	return s.provider.Name()
}

// Prepare lowercases, strips special characters and bounds the length of text.
func (s *Signal) Prepare(text string) string {
	return textproc.Truncate(textproc.StripSpecial(textproc.Normalize(text)), s.cfg.MaxChars)
}

// Embed returns the vector for text, consulting the vector cache first.
// Errors are *types.ValidationError for empty input and *types.ProviderError otherwise.
func (s *Signal) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.provider == nil {
		return nil, &types.ProviderError{Provider: "none", Message: "no embedding provider configured", Cause: types.ErrProviderUnavailable}
	}
	prepared := s.Prepare(text)
	if prepared == "" {
		return nil, &types.ValidationError{Field: "text", Message: types.ErrEmptyText.Error()}
	}

	key := cache.Key("embedding_vector", prepared, "", s.provider.Name())
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			if vec, ok := v.(vectorPayload); ok {
				return vec, nil
			}
		}
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, &types.ProviderError{Provider: s.provider.Name(), Message: "waiting for provider slot", Cause: err}
	}
	defer s.sem.Release(1)

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, &types.ProviderError{Provider: s.provider.Name(), Message: "waiting for rate limit", Cause: err}
	}

	var vec []float32
	err := retryWithBackoff(ctx, func() error {
		v, err := s.provider.Embed(ctx, prepared)
		if err != nil {
			return err
		}
		if len(v) == 0 {
			return errors.New("empty embedding returned")
		}
		vec = v
		return nil
	}, s.cfg.MaxAttempts, s.cfg.RetryBaseDelay)
	if err != nil {
		s.metrics.EmbeddingCall(s.provider.Name(), "error")
		return nil, &types.ProviderError{Provider: s.provider.Name(), Message: "embedding request failed", Cause: err}
	}
	s.metrics.EmbeddingCall(s.provider.Name(), "ok")

	if s.cache != nil {
		_ = s.cache.Set(key, vectorPayload(vec), s.cfg.VectorCacheTTL)
	}
	return vec, nil
}

// vectorPayload reports its size without JSON-encoding the whole vector.
type vectorPayload []float32

// SizeBytes implements cache.Sizer.
func (v vectorPayload) SizeBytes() int64 { return int64(len(v)) * 4 }

// Score embeds both texts and returns similarity plus the concept bonus, in [0,100].
// Any failure, including the provider timeout, yields a degraded neutral result.
func (s *Signal) Score(ctx context.Context, jobText, candidateText string) types.SignalResult {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	jobVec, err := s.Embed(ctx, jobText)
	if err != nil {
		return s.degrade(err)
	}
	return s.scoreAgainst(ctx, jobText, jobVec, candidateText)
}

func (s *Signal) scoreAgainst(ctx context.Context, jobText string, jobVec []float32, candidateText string) types.SignalResult {
	candVec, err := s.Embed(ctx, candidateText)
	if err != nil {
		return s.degrade(err)
	}

	sim, err := textproc.Cosine32(jobVec, candVec)
	if err != nil {
		return s.degrade(&types.ComputationError{Signal: types.SignalEmbedding, Message: "cosine similarity", Cause: err})
	}

	base := math.Max(0, sim) * 100
	bonus, alignments := conceptBonus(s.concepts, jobText, candidateText, s.cfg.MaxConceptBonus)

	res := types.SignalResult{
		Signal: types.SignalEmbedding,
		Score:  textproc.Clamp(base+bonus, 0, 100),
	}
	for _, a := range alignments {
		if a.Alignment > 0 {
			res.Evidence = append(res.Evidence, a.Concept)
		}
	}
	res.SetMeta(MetaSimilarity, sim)
	res.SetMeta(MetaBaseScore, base)
	res.SetMeta(MetaBonus, bonus)
	res.SetMeta(MetaConcepts, alignments)
	res.SetMeta(MetaProvider, s.provider.Name())
	return res
}

// ScoreBatch embeds jobText once and scores every candidate against it on a worker pool.
// Results are returned in candidate order.
func (s *Signal) ScoreBatch(ctx context.Context, jobText string, candidateTexts []string) []types.SignalResult {
	results := make([]types.SignalResult, len(candidateTexts))
	if len(candidateTexts) == 0 {
		return results
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	jobVec, err := s.Embed(ctx, jobText)
	if err != nil {
		degraded := s.degrade(err)
		for i := range results {
			results[i] = degraded
		}
		return results
	}

	pool, err := ants.NewPool(min(s.cfg.BatchWorkers, len(candidateTexts)))
	if err != nil {
		s.logger.Warn("worker pool unavailable, scoring sequentially", zap.Error(err))
		for i, cand := range candidateTexts {
			results[i] = s.scoreAgainst(ctx, jobText, jobVec, cand)
		}
		return results
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, cand := range candidateTexts {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			results[i] = s.scoreAgainst(ctx, jobText, jobVec, cand)
		}
		if err := pool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()
	return results
}

func (s *Signal) degrade(err error) types.SignalResult {
	kind := types.ErrorKind(err)
	s.logger.Warn("embedding signal degraded", zap.String(logging.FieldProvider, s.ProviderName()), zap.String("kind", kind), zap.Error(err))
	res := types.NeutralSignal(types.SignalEmbedding, fmt.Sprintf("embedding unavailable: %v", err))
	res.SetMeta(MetaErrorKind, kind)
	res.SetMeta(MetaProvider, s.ProviderName())
	return res
}
