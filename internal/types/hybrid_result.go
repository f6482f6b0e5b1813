package types

import "time"

// PerformanceMode selects the baseline weighting and how much work the aggregator does.
type PerformanceMode string

// Performance modes
const (
	ModeFast          PerformanceMode = "fast"
	ModeBalanced      PerformanceMode = "balanced"
	ModeComprehensive PerformanceMode = "comprehensive"
)

// Weights holds one weight per signal. They are normalized by their total before use.
type Weights struct {
	Vector    float64 `json:"vector" validate:"gte=0"`
	Keyword   float64 `json:"keyword" validate:"gte=0"`
	Embedding float64 `json:"embedding" validate:"gte=0"`
	Semantic  float64 `json:"semantic" validate:"gte=0"`
}

// Total returns the sum of all weights.
func (w Weights) Total() float64 {
	return w.Vector + w.Keyword + w.Embedding + w.Semantic
}

// Normalized returns a copy whose weights sum to 1. A zero vector is returned unchanged.
func (w Weights) Normalized() Weights {
	total := w.Total()
	if total <= 0 {
		return w
	}
	return Weights{
		Vector:    w.Vector / total,
		Keyword:   w.Keyword / total,
		Embedding: w.Embedding / total,
		Semantic:  w.Semantic / total,
	}
}

// For returns the weight attached to a signal.
func (w Weights) For(kind SignalKind) float64 {
	switch kind {
	case SignalVector:
		return w.Vector
	case SignalKeyword:
		return w.Keyword
	case SignalEmbedding:
		return w.Embedding
	case SignalSemantic:
		return w.Semantic
	}
	return 0
}

// SignalBreakdown is one signal's contribution to a hybrid score.
type SignalBreakdown struct {
	Signal       SignalKind `json:"signal"`
	Score        float64    `json:"score"`
	Weight       float64    `json:"weight"`
	Contribution float64    `json:"contribution"`
	Evidence     []string   `json:"evidence,omitempty"`
	Degraded     bool       `json:"degraded,omitempty"`
	Substituted  bool       `json:"substituted,omitempty"` // fast mode replaced the embedding signal
	Reason       string     `json:"reason,omitempty"`
}

// ProfileContext is the coarse candidate context detected by the aggregator.
type ProfileContext struct {
	Context         string         `json:"context"`          // management, finance, it, banking, insurance or general
	ExperienceLevel string         `json:"experience_level"` // junior, mid, senior, expert
	Counts          map[string]int `json:"counts,omitempty"`
}

// Calibration describes how the base score was transformed into the final score.
type Calibration struct {
	BaseScore        float64 `json:"base_score"`
	DomainFocus      bool    `json:"domain_focus"`
	SectorAlignment  float64 `json:"sector_alignment,omitempty"`
	Transferability  float64 `json:"transferability,omitempty"`
	AdjustedScore    float64 `json:"adjusted_score"`
	Band             string  `json:"band"`
	JobSector        string  `json:"job_sector,omitempty"`
	CandidateSector  string  `json:"candidate_sector,omitempty"`
	CandidateContext string  `json:"candidate_context,omitempty"`
}

// Narrative is the human-readable explanation attached to a hybrid result.
type Narrative struct {
	DominantSignal      SignalKind `json:"dominant_signal,omitempty"`
	Strengths           []string   `json:"strengths,omitempty"`
	Weaknesses          []string   `json:"weaknesses,omitempty"`
	MissingCompetencies []string   `json:"missing_competencies,omitempty"`
	Justification       string     `json:"justification"`
}

// SignalTiming records how long a signal took and whether it came from the cache.
type SignalTiming struct {
	Signal   SignalKind    `json:"signal"`
	Duration time.Duration `json:"duration_ns"`
	CacheHit bool          `json:"cache_hit"`
}

// PerformanceTrace records the cost of producing a hybrid result.
type PerformanceTrace struct {
	Mode    PerformanceMode `json:"mode"`
	Signals []SignalTiming  `json:"signals"`
	Total   time.Duration   `json:"total_ns"`
}

// HybridResult is the full output of hybrid scoring for one job/candidate pair.
type HybridResult struct {
	ID             string            `json:"id"`
	CandidateIndex int               `json:"candidate_index"`
	FinalScore     float64           `json:"final_score"` // 0-100
	Confidence     float64           `json:"confidence"`  // 0-100
	Breakdown      []SignalBreakdown `json:"breakdown"`
	WeightsUsed    Weights           `json:"weights_used"`
	Context        ProfileContext    `json:"context"`
	Calibration    Calibration       `json:"calibration"`
	Narrative      Narrative         `json:"narrative"`
	Performance    PerformanceTrace  `json:"performance"`
	Sentinel       bool              `json:"sentinel,omitempty"` // no signal could be produced
}

// Signal returns the breakdown entry for a signal kind, if present.
func (r *HybridResult) Signal(kind SignalKind) (SignalBreakdown, bool) {
	for _, b := range r.Breakdown {
		if b.Signal == kind {
			return b, true
		}
	}
	return SignalBreakdown{}, false
}

// Clone returns a deep copy so cached results are never mutated by callers.
func (r *HybridResult) Clone() *HybridResult {
	if r == nil {
		return nil
	}
	c := *r
	c.Breakdown = make([]SignalBreakdown, len(r.Breakdown))
	for i, b := range r.Breakdown {
		b.Evidence = append([]string(nil), b.Evidence...)
		c.Breakdown[i] = b
	}
	if r.Context.Counts != nil {
		c.Context.Counts = make(map[string]int, len(r.Context.Counts))
		for k, v := range r.Context.Counts {
			c.Context.Counts[k] = v
		}
	}
	c.Narrative.Strengths = append([]string(nil), r.Narrative.Strengths...)
	c.Narrative.Weaknesses = append([]string(nil), r.Narrative.Weaknesses...)
	c.Narrative.MissingCompetencies = append([]string(nil), r.Narrative.MissingCompetencies...)
	c.Performance.Signals = append([]SignalTiming(nil), r.Performance.Signals...)
	return &c
}
