package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/jonathan/match-engine/internal/cache"
	"github.com/jonathan/match-engine/internal/config"
	"github.com/jonathan/match-engine/internal/dimensions"
	"github.com/jonathan/match-engine/internal/education"
	"github.com/jonathan/match-engine/internal/embedding"
	"github.com/jonathan/match-engine/internal/hybrid"
	"github.com/jonathan/match-engine/internal/keyword"
	"github.com/jonathan/match-engine/internal/llm"
	"github.com/jonathan/match-engine/internal/logging"
	"github.com/jonathan/match-engine/internal/metrics"
)

// engine holds the scoring components shared by every command.
type engine struct {
	cfg        *config.Config
	logger     *zap.Logger
	registry   *prometheus.Registry
	metrics    *metrics.Metrics
	cache      *cache.Cache
	embedding  *embedding.Signal
	provider   embedding.Provider
	client     llm.Client
	aggregator *hybrid.Aggregator
	matcher    *dimensions.Matcher
}

// loadConfig reads --config and applies the logging flags on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if jsonLogs {
		cfg.Logging.JSON = true
	}
	if debugLogs {
		cfg.Logging.Debug = true
	}
	return cfg, nil
}

// newEngine wires the cache, metrics, embedding provider, education resolvers, aggregator and
// matcher from cfg. The LLM client is only created when an API key is available. extra options
// are applied to the aggregator after the defaults.
func newEngine(ctx context.Context, cfg *config.Config, extra ...hybrid.Option) (*engine, error) {
	logger, err := logging.New(cfg.Logging.JSON, cfg.Logging.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	c := cache.New(cfg.Cache, cache.WithLogger(logger), cache.WithMetrics(m))
	c.Start()

	embedderCfg := cfg.Embedding.EmbedderConfig
	embedderCfg.APIKey = cfg.EmbeddingAPIKey()
	provider, err := llm.NewEmbedder(ctx, embedderCfg)
	if err != nil {
		c.Stop()
		return nil, fmt.Errorf("failed to create embedding provider: %w", err)
	}
	signal := embedding.NewSignal(cfg.Embedding.Config, provider,
		embedding.WithCache(c),
		embedding.WithLogger(logger),
		embedding.WithMetrics(m))

	e := &engine{
		cfg:       cfg,
		logger:    logger,
		registry:  reg,
		metrics:   m,
		cache:     c,
		embedding: signal,
		provider:  provider,
	}

	var llmResolver education.Resolver
	if cfg.LLM.APIKey != "" {
		client, err := llm.NewClient(ctx, &cfg.LLM.Config, cfg.LLM.APIKey)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		e.client = client
		llmResolver = education.NewLLMResolver(client,
			education.WithCache(c, cfg.Cache.DefaultTTL),
			education.WithLogger(logger))
	} else {
		logger.Debug("no LLM API key configured, diploma equivalence uses the static table only")
	}

	sectors := keyword.NewAnalyzer(keyword.DefaultConfig(), nil)
	aggOpts := []hybrid.Option{
		hybrid.WithCache(c),
		hybrid.WithEmbedding(signal),
		hybrid.WithKeywordAnalyzer(sectors),
		hybrid.WithLogger(logger),
		hybrid.WithMetrics(m),
	}
	e.aggregator = hybrid.New(cfg.Scoring, append(aggOpts, extra...)...)

	matcherOpts := []dimensions.Option{
		dimensions.WithResolver(education.NewChainResolver(logger, education.NewStaticResolver(), llmResolver)),
		dimensions.WithSectorDetector(sectors),
		dimensions.WithLogger(logger),
		dimensions.WithMetrics(m),
	}
	if signal.Available() {
		matcherOpts = append(matcherOpts, dimensions.WithSimilarity(dimensions.NewEmbeddingSimilarity(signal)))
	}
	e.matcher = dimensions.NewMatcher(cfg.Dimensions, matcherOpts...)

	logger.Debug("engine ready",
		zap.String("mode", string(cfg.Scoring.Mode)),
		zap.String(logging.FieldProvider, signal.ProviderName()),
		zap.Bool("llm", e.client != nil))
	return e, nil
}

// Close stops the cache cleanup task and releases provider clients.
func (e *engine) Close() {
	e.cache.Stop()
	if e.client != nil {
		if err := e.client.Close(); err != nil {
			e.logger.Warn("failed to close LLM client", zap.Error(err))
		}
	}
	if closer, ok := e.provider.(io.Closer); ok {
		_ = closer.Close()
	}
	_ = e.logger.Sync()
}

// setupEngine loads config and builds the engine for a command.
func setupEngine(ctx context.Context) (*engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return newEngine(ctx, cfg)
}

// writeJSON prints v as indented JSON on stdout.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}

// readText reads an input file as a string.
func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	return string(data), nil
}
