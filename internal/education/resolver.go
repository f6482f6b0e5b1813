package education

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/match-engine/internal/cache"
	"github.com/jonathan/match-engine/internal/llm"
	"github.com/jonathan/match-engine/internal/logging"
	"github.com/jonathan/match-engine/internal/prompts"
	"github.com/jonathan/match-engine/internal/textproc"
	"github.com/jonathan/match-engine/internal/types"
)

// ErrUndetermined is returned by a resolver that cannot decide for the given pair.
var ErrUndetermined = errors.New("diploma equivalence undetermined")

// Equivalence is the verdict of a resolver.
type Equivalence struct {
	IsEquivalent bool    `json:"is_equivalent"`
	Confidence   float64 `json:"confidence"` // 0-1
	Explanation  string  `json:"explanation"`
	Source       string  `json:"source,omitempty"`
}

// Resolver decides whether a candidate diploma satisfies a required one.
type Resolver interface {
	Resolve(ctx context.Context, candidateDiploma, requiredDiploma string) (Equivalence, error)
}

// aliasGroups lists diploma names that denote the same qualification.
var aliasGroups = [][]string{
	{"master", "msc", "m2", "master 2", "bac+5", "dea", "dess", "diplome d'ingenieur", "ingenieur", "engineering degree"},
	{"master 1", "m1", "maitrise", "bac+4"},
	{"licence", "bachelor", "bsc", "ba", "bac+3", "but", "licence professionnelle"},
	{"bts", "dut", "deug", "associate degree", "bac+2"},
	{"phd", "doctorat", "doctorate", "ph.d", "bac+8"},
	{"mba", "executive mba"},
}

// StaticResolver decides from a built-in alias table and the parsed level ladder. It never
// calls out and returns ErrUndetermined when either diploma is unrecognised.
type StaticResolver struct {
	groups map[string]int
}

// NewStaticResolver creates a resolver over the default alias table.
func NewStaticResolver() *StaticResolver {
	groups := make(map[string]int)
	for i, g := range aliasGroups {
		for _, name := range g {
			groups[name] = i
		}
	}
	return &StaticResolver{groups: groups}
}

// Resolve implements Resolver.
func (r *StaticResolver) Resolve(_ context.Context, candidateDiploma, requiredDiploma string) (Equivalence, error) {
	cand := strings.TrimSpace(textproc.Fold(candidateDiploma))
	req := strings.TrimSpace(textproc.Fold(requiredDiploma))
	if cand == "" || req == "" {
		return Equivalence{}, ErrUndetermined
	}

	if cand == req {
		return Equivalence{IsEquivalent: true, Confidence: 1, Explanation: "identical diplomas", Source: "static"}, nil
	}
	if gc, ok := r.groups[cand]; ok {
		if gr, ok := r.groups[req]; ok && gc == gr {
			return Equivalence{IsEquivalent: true, Confidence: 0.95, Explanation: "known equivalent diplomas", Source: "static"}, nil
		}
	}

	cl, okC := ParseLevel(cand)
	rl, okR := ParseLevel(req)
	if !okC || !okR {
		return Equivalence{}, ErrUndetermined
	}
	if cl == rl {
		return Equivalence{
			IsEquivalent: true,
			Confidence:   0.85,
			Explanation:  fmt.Sprintf("both diplomas are %s", cl),
			Source:       "static",
		}, nil
	}
	return Equivalence{
		IsEquivalent: false,
		Confidence:   0.85,
		Explanation:  fmt.Sprintf("candidate diploma is %s, required %s", cl, rl),
		Source:       "static",
	}, nil
}

// LLMResolver asks the LLM client to judge equivalence. Verdicts are cached when a cache is set.
type LLMResolver struct {
	client llm.Client
	tier   llm.ModelTier
	cache  *cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// LLMOption configures an LLMResolver.
type LLMOption func(*LLMResolver)

// WithCache caches verdicts for ttl.
func WithCache(c *cache.Cache, ttl time.Duration) LLMOption {
	return func(r *LLMResolver) {
		r.cache = c
		r.ttl = ttl
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) LLMOption {
	return func(r *LLMResolver) { r.logger = logging.Component(logger, "education") }
}

// NewLLMResolver creates a resolver backed by client.
func NewLLMResolver(client llm.Client, opts ...LLMOption) *LLMResolver {
	r := &LLMResolver{client: client, tier: llm.TierLite, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve implements Resolver. Failures are returned as *types.ProviderError.
func (r *LLMResolver) Resolve(ctx context.Context, candidateDiploma, requiredDiploma string) (Equivalence, error) {
	if r.client == nil {
		return Equivalence{}, &types.ProviderError{Provider: "llm", Message: "no LLM client configured", Cause: types.ErrProviderUnavailable}
	}

	key := cache.Key("diploma_equivalence", candidateDiploma, requiredDiploma, r.client.GetModel(r.tier))
	if r.cache != nil {
		if v, ok := r.cache.Get(key); ok {
			if eq, ok := v.(Equivalence); ok {
				return eq, nil
			}
		}
	}

	prompt, err := prompts.Render("education.json", "diploma-equivalence", map[string]string{
		"Candidate": candidateDiploma,
		"Required":  requiredDiploma,
	})
	if err != nil {
		return Equivalence{}, fmt.Errorf("failed to build equivalence prompt: %w", err)
	}

	resp, err := r.client.GenerateJSON(ctx, prompt, r.tier)
	if err != nil {
		return Equivalence{}, &types.ProviderError{Provider: "llm", Message: "equivalence request failed", Cause: err}
	}

	var eq Equivalence
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(resp)), &eq); err != nil {
		return Equivalence{}, &types.ProviderError{Provider: "llm", Message: "invalid equivalence response", Cause: err}
	}
	eq.Confidence = textproc.Clamp(eq.Confidence, 0, 1)
	eq.Source = "llm"

	if r.cache != nil {
		if err := r.cache.Set(key, eq, r.ttl); err != nil {
			r.logger.Warn("failed to cache equivalence", zap.Error(err))
		}
	}
	return eq, nil
}

// ChainResolver tries each resolver in order and returns the first verdict. A resolver that
// fails or returns ErrUndetermined hands over to the next one.
type ChainResolver struct {
	resolvers []Resolver
	logger    *zap.Logger
}

// NewChainResolver creates a fallback chain. Nil resolvers are skipped.
func NewChainResolver(logger *zap.Logger, resolvers ...Resolver) *ChainResolver {
	chain := &ChainResolver{logger: logging.Component(logger, "education")}
	for _, r := range resolvers {
		if r != nil {
			chain.resolvers = append(chain.resolvers, r)
		}
	}
	return chain
}

// Resolve implements Resolver.
func (c *ChainResolver) Resolve(ctx context.Context, candidateDiploma, requiredDiploma string) (Equivalence, error) {
	var errs []error
	for _, r := range c.resolvers {
		eq, err := r.Resolve(ctx, candidateDiploma, requiredDiploma)
		if err == nil {
			return eq, nil
		}
		if !errors.Is(err, ErrUndetermined) {
			c.logger.Warn("equivalence resolver failed", zap.Error(err))
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return Equivalence{}, ErrUndetermined
	}
	return Equivalence{}, errors.Join(errs...)
}
