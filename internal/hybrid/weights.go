package hybrid

import "github.com/jonathan/match-engine/internal/types"

// ModeWeights are the baseline weights per performance mode, before context adjustment.
var ModeWeights = map[types.PerformanceMode]types.Weights{
	types.ModeFast:          {Vector: 0.30, Keyword: 0.35, Embedding: 0.15, Semantic: 0.20},
	types.ModeBalanced:      {Vector: 0.25, Keyword: 0.30, Embedding: 0.25, Semantic: 0.20},
	types.ModeComprehensive: {Vector: 0.20, Keyword: 0.25, Embedding: 0.30, Semantic: 0.25},
}

// ContextMultipliers tilt the baseline towards the signals that work best for a profile
// context. Domain-heavy contexts rely on the semantic categories, IT profiles on exact tooling.
var ContextMultipliers = map[string]types.Weights{
	ContextManagement: {Vector: 0.8, Keyword: 0.9, Embedding: 1.2, Semantic: 1.2},
	ContextFinance:    {Vector: 0.9, Keyword: 1.0, Embedding: 1.0, Semantic: 1.3},
	ContextIT:         {Vector: 1.1, Keyword: 1.2, Embedding: 1.0, Semantic: 0.8},
	ContextBanking:    {Vector: 0.9, Keyword: 1.1, Embedding: 1.0, Semantic: 1.2},
	ContextInsurance:  {Vector: 0.9, Keyword: 1.0, Embedding: 1.0, Semantic: 1.3},
}

// Experience nudges, added before normalization
const (
	juniorKeywordNudge   = 0.05
	seniorSemanticNudge  = 0.03
	seniorEmbeddingNudge = 0.02
)

// selectWeights returns normalized weights for the mode, the detected context and experience
// level. An explicit override wins over everything else.
func selectWeights(mode types.PerformanceMode, pc types.ProfileContext, override *types.Weights) types.Weights {
	if override != nil && override.Total() > 0 {
		return override.Normalized()
	}

	w, ok := ModeWeights[mode]
	if !ok {
		w = ModeWeights[types.ModeBalanced]
	}
	if m, ok := ContextMultipliers[pc.Context]; ok {
		w = types.Weights{
			Vector:    w.Vector * m.Vector,
			Keyword:   w.Keyword * m.Keyword,
			Embedding: w.Embedding * m.Embedding,
			Semantic:  w.Semantic * m.Semantic,
		}
	}

	switch pc.ExperienceLevel {
	case LevelJunior:
		w.Keyword += juniorKeywordNudge
	case LevelSenior, LevelExpert:
		w.Semantic += seniorSemanticNudge
		w.Embedding += seniorEmbeddingNudge
	}
	return w.Normalized()
}
