// Package dimensions scores structured candidate and job profiles along five qualitative
// dimensions (technical, experience, education, soft skills, cultural) plus an externally
// supplied authenticity score, combined with sector-adaptive weights.
package dimensions

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/match-engine/internal/education"
	"github.com/jonathan/match-engine/internal/keyword"
	"github.com/jonathan/match-engine/internal/logging"
	"github.com/jonathan/match-engine/internal/metrics"
	"github.com/jonathan/match-engine/internal/parsing"
	"github.com/jonathan/match-engine/internal/textproc"
	"github.com/jonathan/match-engine/internal/types"
)

// Config holds the matcher thresholds.
type Config struct {
	SimilarThreshold        float64 `json:"similar_threshold" mapstructure:"similar_threshold" validate:"gt=0,lte=1"`
	TransferableThreshold   float64 `json:"transferable_threshold" mapstructure:"transferable_threshold" validate:"gt=0,lte=1,ltefield=SimilarThreshold"`
	SufficientEducation     float64 `json:"sufficient_education" mapstructure:"sufficient_education" validate:"gte=0,lte=1"`
	MaxSpecializationBonus  float64 `json:"max_specialization_bonus" mapstructure:"max_specialization_bonus" validate:"gte=0,lte=1"`
	RecommendationThreshold float64 `json:"recommendation_threshold" mapstructure:"recommendation_threshold" validate:"gte=0,lte=1"`
	HighPriorityThreshold   float64 `json:"high_priority_threshold" mapstructure:"high_priority_threshold" validate:"gte=0,lte=1"`
	// SectorWeights overrides the built-in weight tables when non-empty.
	SectorWeights map[string]types.DimensionWeights `json:"sector_weights,omitempty" mapstructure:"sector_weights"`
}

// DefaultConfig returns the defaults.
func DefaultConfig() Config {
	return Config{
		SimilarThreshold:        0.85,
		TransferableThreshold:   0.70,
		SufficientEducation:     0.7,
		MaxSpecializationBonus:  0.2,
		RecommendationThreshold: 0.6,
		HighPriorityThreshold:   0.4,
	}
}

// Matcher computes DimensionalScores. It is safe for concurrent use.
type Matcher struct {
	cfg        Config
	weights    map[string]types.DimensionWeights
	resolver   education.Resolver
	similarity SkillSimilarity
	sectors    *keyword.Analyzer
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithResolver sets the diploma-equivalence resolver. Without one, education is compared by
// parsed level only.
func WithResolver(r education.Resolver) Option {
	return func(m *Matcher) { m.resolver = r }
}

// WithSimilarity sets the skill similarity used for near-duplicate and transferable skills.
// A nil value keeps the lexical fallback.
func WithSimilarity(s SkillSimilarity) Option {
	return func(m *Matcher) {
		if s != nil {
			m.similarity = s
		}
	}
}

// WithSectorDetector lets the matcher detect the sector from the job when the profile has none.
func WithSectorDetector(a *keyword.Analyzer) Option {
	return func(m *Matcher) { m.sectors = a }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Matcher) { m.logger = logging.Component(logger, "dimensions") }
}

// WithMetrics sets the metrics sink.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Matcher) { m.metrics = mt }
}

// NewMatcher creates a matcher.
func NewMatcher(cfg Config, opts ...Option) *Matcher {
	def := DefaultConfig()
	if cfg.SimilarThreshold <= 0 {
		cfg.SimilarThreshold = def.SimilarThreshold
	}
	if cfg.TransferableThreshold <= 0 {
		cfg.TransferableThreshold = def.TransferableThreshold
	}
	if cfg.SufficientEducation <= 0 {
		cfg.SufficientEducation = def.SufficientEducation
	}
	if cfg.RecommendationThreshold <= 0 {
		cfg.RecommendationThreshold = def.RecommendationThreshold
	}
	if cfg.HighPriorityThreshold <= 0 {
		cfg.HighPriorityThreshold = def.HighPriorityThreshold
	}

	m := &Matcher{
		cfg:        cfg,
		weights:    SectorWeights,
		similarity: LexicalSimilarity{},
		logger:     zap.NewNop(),
	}
	if len(cfg.SectorWeights) > 0 {
		m.weights = cfg.SectorWeights
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Score compares a candidate with a job. authenticity is in [0,1]; values above 1 are read as
// percentages. Profiles are normalized on a copy, so partial profiles are scored with defaults.
func (m *Matcher) Score(ctx context.Context, candidate *types.CandidateProfile, job *types.JobProfile, authenticity float64) (*types.DimensionalScore, error) {
	if candidate == nil {
		return nil, &types.ValidationError{Field: "candidate", Message: "candidate profile is required"}
	}
	if job == nil {
		return nil, &types.ValidationError{Field: "job", Message: "job profile is required"}
	}

	cand := cloneCandidate(candidate)
	jb := cloneJob(job)
	parsing.NormalizeCandidate(cand)
	parsing.NormalizeJob(jb)

	var bd types.DimensionBreakdown
	bd.Technical = m.technical(ctx, cand.HardSkills, jb.RequiredSkills)
	bd.Experience = m.experience(cand.Experience, jb.Experience)
	bd.Education = m.education(ctx, cand.Education, jb.Education)
	bd.SoftSkills = m.softSkills(cand.SoftSkills, jb.SoftSkills)
	bd.Cultural = cultural(cand, jb)
	bd.Authenticity = normalizeAuthenticity(authenticity)

	scores := map[types.Dimension]float64{
		types.DimensionTechnical:    bd.Technical.Score,
		types.DimensionExperience:   bd.Experience.Score,
		types.DimensionEducation:    bd.Education.Score,
		types.DimensionSoftSkills:   bd.SoftSkills.Score,
		types.DimensionCultural:     bd.Cultural.Score,
		types.DimensionAuthenticity: bd.Authenticity,
	}

	weights, sector := weightsFor(m.weights, m.sector(cand, jb))
	overall := 0.0
	for dim, score := range scores {
		overall += weights[dim] * score
		m.metrics.ObserveDimension(string(dim), score)
	}

	result := &types.DimensionalScore{
		Overall:         textproc.Clamp(overall, 0, 1),
		Scores:          scores,
		Breakdown:       bd,
		AdaptiveWeights: weights,
		Sector:          sector,
	}
	result.Recommendations = m.recommend(result)

	m.logger.Debug("dimensional score computed",
		zap.String("sector", sector),
		zap.Float64("overall", result.Overall),
		zap.Int("recommendations", len(result.Recommendations)))
	return result, nil
}

// sector picks the job's sector, then a sector detected from the job's text, then the candidate's.
func (m *Matcher) sector(cand *types.CandidateProfile, job *types.JobProfile) string {
	if job.Sector != "" {
		return job.Sector
	}
	if m.sectors != nil {
		text := strings.Join(append(append([]string{job.Title}, job.RequiredSkills...), job.PreferredSkills...), " ")
		if name, ratio := m.sectors.DetectSector(text); ratio > 0 {
			return name
		}
	}
	return cand.Sector
}

func normalizeAuthenticity(v float64) float64 {
	if v > 1 {
		v /= 100
	}
	return textproc.Clamp(v, 0, 1)
}

func cloneCandidate(p *types.CandidateProfile) *types.CandidateProfile {
	c := *p
	c.HardSkills = append([]string(nil), p.HardSkills...)
	c.SoftSkills = append([]types.SoftSkill(nil), p.SoftSkills...)
	c.Experience.Companies = append([]types.Company(nil), p.Experience.Companies...)
	c.Experience.Positions = append([]string(nil), p.Experience.Positions...)
	c.Education.Specializations = append([]string(nil), p.Education.Specializations...)
	c.Languages = append([]types.Language(nil), p.Languages...)
	c.Culture = cloneCulture(p.Culture)
	c.Mobility.Locations = append([]string(nil), p.Mobility.Locations...)
	return &c
}

func cloneJob(p *types.JobProfile) *types.JobProfile {
	c := *p
	c.RequiredSkills = append([]string(nil), p.RequiredSkills...)
	c.PreferredSkills = append([]string(nil), p.PreferredSkills...)
	c.SoftSkills = append([]types.SoftSkill(nil), p.SoftSkills...)
	c.Experience.CompanyTypes = append([]string(nil), p.Experience.CompanyTypes...)
	c.Education.Fields = append([]string(nil), p.Education.Fields...)
	c.Education.Specializations = append([]string(nil), p.Education.Specializations...)
	c.Languages = append([]types.Language(nil), p.Languages...)
	c.Culture = cloneCulture(p.Culture)
	c.Mobility.Locations = append([]string(nil), p.Mobility.Locations...)
	return &c
}

func cloneCulture(c types.Culture) types.Culture {
	return types.Culture{
		Values:      append([]string(nil), c.Values...),
		Environment: append([]string(nil), c.Environment...),
		Aspirations: append([]string(nil), c.Aspirations...),
	}
}
