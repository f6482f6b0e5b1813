package hybrid

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/match-engine/internal/cache"
	"github.com/jonathan/match-engine/internal/embedding"
	"github.com/jonathan/match-engine/internal/keyword"
	"github.com/jonathan/match-engine/internal/logging"
	"github.com/jonathan/match-engine/internal/metrics"
	"github.com/jonathan/match-engine/internal/semantic"
	"github.com/jonathan/match-engine/internal/textproc"
	"github.com/jonathan/match-engine/internal/types"
	"github.com/jonathan/match-engine/internal/vector"
)

const logTextLimit = 80

// Sink receives every freshly computed result. Results served from the cache are not resent.
type Sink interface {
	SaveHybridResult(ctx context.Context, result *types.HybridResult) error
}

// Aggregator runs the signals and combines them. It is safe for concurrent use; the only
// state shared between calls is the cache.
type Aggregator struct {
	cfg       Config
	keywords  *keyword.Analyzer
	semantic  *semantic.Analyzer
	embedding *embedding.Signal
	cache     *cache.Cache
	sink      Sink
	logger    *zap.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithCache enables signal and result caching.
func WithCache(c *cache.Cache) Option {
	return func(a *Aggregator) { a.cache = c }
}

// WithEmbedding sets the embedding signal. Without one the embedding signal always degrades.
func WithEmbedding(s *embedding.Signal) Option {
	return func(a *Aggregator) {
		if s != nil {
			a.embedding = s
		}
	}
}

// WithKeywordAnalyzer replaces the default keyword analyzer.
func WithKeywordAnalyzer(k *keyword.Analyzer) Option {
	return func(a *Aggregator) {
		if k != nil {
			a.keywords = k
		}
	}
}

// WithSemanticAnalyzer replaces the default semantic analyzer.
func WithSemanticAnalyzer(s *semantic.Analyzer) Option {
	return func(a *Aggregator) {
		if s != nil {
			a.semantic = s
		}
	}
}

// WithSink sends computed results to s.
func WithSink(s Sink) Option {
	return func(a *Aggregator) { a.sink = s }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Aggregator) { a.logger = logging.Component(logger, "hybrid") }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Aggregator) { a.metrics = m }
}

// New creates an Aggregator. Missing analyzers get their defaults.
func New(cfg Config, opts ...Option) *Aggregator {
	def := DefaultConfig()
	if cfg.Mode == "" {
		cfg.Mode = def.Mode
	}
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = def.BatchConcurrency
	}
	if len(cfg.Calibration.FocusBands) == 0 || len(cfg.Calibration.PlainBands) == 0 {
		cfg.Calibration = def.Calibration
	}

	a := &Aggregator{
		cfg:       cfg,
		keywords:  keyword.NewAnalyzer(keyword.DefaultConfig(), nil),
		semantic:  semantic.NewAnalyzer(semantic.DefaultConfig()),
		embedding: embedding.NewSignal(embedding.DefaultConfig(), nil),
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Score computes the hybrid result for one job/candidate pair. Empty texts yield a sentinel
// result together with a ValidationError; signal failures never surface as errors.
func (a *Aggregator) Score(ctx context.Context, jobText, candidateText string, opts Options) (*types.HybridResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return a.score(ctx, jobText, candidateText, a.cfg.resolve(opts), nil)
}

func (a *Aggregator) score(ctx context.Context, jobText, candidateText string, opts resolvedOptions, precomputed *types.SignalResult) (*types.HybridResult, error) {
	start := a.now()
	if err := checkTexts(jobText, candidateText); err != nil {
		return a.sentinel(opts, err.Error()), err
	}

	resultKey := cache.Key("hybrid", jobText, candidateText, opts)
	if cached, ok := a.cacheGet(resultKey); ok {
		if r, ok := cached.(*types.HybridResult); ok {
			return r.Clone(), nil
		}
	}

	pc := DetectProfileContext(candidateText)
	weights := selectWeights(opts.Mode, pc, opts.Weights)

	trace := types.PerformanceTrace{Mode: opts.Mode}
	results := make(map[types.SignalKind]types.SignalResult, len(types.AllSignals))
	for _, kind := range []types.SignalKind{types.SignalVector, types.SignalKeyword, types.SignalSemantic} {
		res, timing := a.runSignal(ctx, kind, jobText, candidateText)
		results[kind] = res
		trace.Signals = append(trace.Signals, timing)
	}

	switch {
	case opts.Mode == types.ModeFast:
		results[types.SignalEmbedding] = types.SignalResult{
			Signal: types.SignalEmbedding,
			Score:  (results[types.SignalVector].Score + results[types.SignalKeyword].Score) / 2,
		}
	case precomputed != nil:
		results[types.SignalEmbedding] = *precomputed
		trace.Signals = append(trace.Signals, types.SignalTiming{Signal: types.SignalEmbedding})
	default:
		res, timing := a.runSignal(ctx, types.SignalEmbedding, jobText, candidateText)
		results[types.SignalEmbedding] = res
		trace.Signals = append(trace.Signals, timing)
	}

	result := &types.HybridResult{
		ID:          uuid.NewString(),
		WeightsUsed: weights,
		Context:     pc,
		Breakdown:   make([]types.SignalBreakdown, 0, len(types.AllSignals)),
	}

	base := 0.0
	degraded := 0
	for _, kind := range types.AllSignals {
		res := results[kind]
		w := weights.For(kind)
		score := textproc.Clamp(res.Score, 0, 100)
		b := types.SignalBreakdown{
			Signal:       kind,
			Score:        textproc.Round2(score),
			Weight:       textproc.Round2(w),
			Contribution: textproc.Round2(score * w),
			Evidence:     res.Evidence,
			Degraded:     res.Degraded,
			Reason:       res.Reason,
		}
		if kind == types.SignalEmbedding && opts.Mode == types.ModeFast {
			b.Substituted = true
			b.Reason = "fast mode: average of vector and keyword scores"
		}
		if res.Degraded {
			degraded++
		}
		base += score * w
		result.Breakdown = append(result.Breakdown, b)
	}

	if degraded == len(types.AllSignals) {
		err := &types.ComputationError{Signal: "hybrid", Message: "no signal could be computed"}
		return a.sentinel(opts, "every signal failed"), err
	}

	kw := results[types.SignalKeyword]
	sem := results[types.SignalSemantic]
	jobSector, _ := kw.Metadata[keyword.MetaJobSector].(string)
	candSector, _ := kw.Metadata[keyword.MetaCandidateSector].(string)
	sameSector, _ := kw.Metadata[keyword.MetaSameSector].(bool)

	calibration, final := calibrate(a.cfg.Calibration, calibrationInput{
		base:            base,
		keyword:         kw.Score,
		semantic:        sem.Score,
		jobSector:       jobSector,
		candidateSector: candSector,
		sameSector:      sameSector,
		context:         pc.Context,
	}, opts.DomainFocus)

	result.Calibration = calibration
	result.FinalScore = textproc.Round2(textproc.Clamp(final, 0, 100))
	result.Confidence = textproc.Round2(confidence(result.Breakdown, candidateCategories(sem)))
	result.Narrative = narrate(result, missingCompetencies(sem))
	trace.Total = a.now().Sub(start)
	result.Performance = trace

	a.metrics.ObserveFinalScore(result.FinalScore)
	a.logger.Debug("hybrid score computed",
		zap.String("candidate", logging.TruncateForLog(candidateText, logTextLimit)),
		zap.Float64("base", calibration.BaseScore),
		zap.Float64("final", result.FinalScore),
		zap.String("band", calibration.Band),
		zap.Duration("took", trace.Total))

	a.cacheSet(resultKey, result)
	if a.sink != nil {
		if err := a.sink.SaveHybridResult(ctx, result.Clone()); err != nil {
			a.logger.Warn("failed to save hybrid result", zap.String("id", result.ID), zap.Error(err))
		}
	}
	return result.Clone(), nil
}

// runSignal serves one signal from the cache or computes it. Degraded results are not cached.
func (a *Aggregator) runSignal(ctx context.Context, kind types.SignalKind, jobText, candidateText string) (types.SignalResult, types.SignalTiming) {
	key := signalKey(a, kind, jobText, candidateText)
	timing := types.SignalTiming{Signal: kind}

	if cached, ok := a.cacheGet(key); ok {
		if res, ok := cached.(types.SignalResult); ok {
			timing.CacheHit = true
			return res, timing
		}
	}

	start := a.now()
	res := a.compute(ctx, kind, jobText, candidateText)
	timing.Duration = a.now().Sub(start)
	a.metrics.ObserveSignal(string(kind), timing.Duration.Seconds())

	if res.Degraded {
		errKind, _ := res.Metadata[embedding.MetaErrorKind].(string)
		if errKind == "" {
			errKind = "computation"
		}
		a.metrics.SignalFailure(string(kind), errKind)
		a.logger.Warn("signal degraded", zap.String(logging.FieldSignal, string(kind)), zap.String("reason", res.Reason))
		return res, timing
	}
	a.logger.Debug("signal computed", zap.String(logging.FieldSignal, string(kind)), zap.Duration("took", timing.Duration))
	a.cacheSet(key, res)
	return res, timing
}

// compute runs one signal, turning a panic into a degraded result carrying a ComputationError.
func (a *Aggregator) compute(ctx context.Context, kind types.SignalKind, jobText, candidateText string) (res types.SignalResult) {
	defer func() {
		if r := recover(); r != nil {
			err := &types.ComputationError{Signal: kind, Message: fmt.Sprint(r)}
			res = types.NeutralSignal(kind, err.Error())
		}
	}()

	switch kind {
	case types.SignalVector:
		return vector.Score(jobText, candidateText)
	case types.SignalKeyword:
		return a.keywords.Score(jobText, candidateText)
	case types.SignalSemantic:
		return a.semantic.Score(jobText, candidateText)
	case types.SignalEmbedding:
		return a.embedding.Score(ctx, jobText, candidateText)
	}
	return types.NeutralSignal(kind, "unknown signal")
}

// sentinel is the result returned when no score can be produced.
func (a *Aggregator) sentinel(opts resolvedOptions, reason string) *types.HybridResult {
	r := &types.HybridResult{
		ID:          uuid.NewString(),
		Sentinel:    true,
		WeightsUsed: selectWeights(opts.Mode, types.ProfileContext{}, opts.Weights),
		Context:     types.ProfileContext{Context: ContextGeneral, ExperienceLevel: LevelMid},
		Breakdown:   make([]types.SignalBreakdown, 0, len(types.AllSignals)),
		Calibration: types.Calibration{DomainFocus: opts.DomainFocus, Band: BandLow},
		Narrative:   sentinelNarrative(reason),
		Performance: types.PerformanceTrace{Mode: opts.Mode, Signals: []types.SignalTiming{}},
	}
	for _, kind := range types.AllSignals {
		r.Breakdown = append(r.Breakdown, types.SignalBreakdown{Signal: kind, Degraded: true, Reason: reason})
	}
	return r
}

func signalKey(a *Aggregator, kind types.SignalKind, jobText, candidateText string) string {
	var opts any
	if kind == types.SignalEmbedding {
		opts = a.embedding.ProviderName()
	}
	return cache.Key("signal:"+string(kind), jobText, candidateText, opts)
}

func embeddingKey(a *Aggregator, jobText, candidateText string) string {
	return signalKey(a, types.SignalEmbedding, jobText, candidateText)
}

func checkTexts(jobText, candidateText string) error {
	if err := checkText("job_text", jobText); err != nil {
		return err
	}
	return checkText("candidate_text", candidateText)
}

func checkText(field, text string) error {
	if strings.TrimSpace(text) == "" {
		return &types.ValidationError{Field: field, Message: types.ErrEmptyText.Error()}
	}
	return nil
}

func (a *Aggregator) cacheGet(key string) (any, bool) {
	if a.cache == nil {
		return nil, false
	}
	return a.cache.Get(key)
}

// cacheSet ignores failures: a value that cannot be cached is simply recomputed next time.
func (a *Aggregator) cacheSet(key string, payload any) {
	if a.cache == nil {
		return
	}
	_ = a.cache.Set(key, payload, a.cfg.ResultTTL)
}
