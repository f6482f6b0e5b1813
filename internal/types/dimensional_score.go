package types

// Dimension names one axis of the multi-dimensional matcher.
type Dimension string

// Dimensions scored by the matcher
const (
	DimensionTechnical    Dimension = "technical"
	DimensionExperience   Dimension = "experience"
	DimensionEducation    Dimension = "education"
	DimensionSoftSkills   Dimension = "soft_skills"
	DimensionCultural     Dimension = "cultural"
	DimensionAuthenticity Dimension = "authenticity"
)

// DimensionWeights maps each dimension to its relative weight.
type DimensionWeights map[Dimension]float64

// Normalized returns a copy whose weights sum to 1.
func (w DimensionWeights) Normalized() DimensionWeights {
	total := 0.0
	for _, v := range w {
		total += v
	}
	out := make(DimensionWeights, len(w))
	for k, v := range w {
		if total > 0 {
			out[k] = v / total
		} else {
			out[k] = 0
		}
	}
	return out
}

// SkillMatch describes how one required skill was satisfied.
type SkillMatch struct {
	Required    string  `json:"required"`
	Matched     string  `json:"matched,omitempty"`
	Similarity  float64 `json:"similarity"`
	Explanation string  `json:"explanation,omitempty"`
}

// TechnicalBreakdown partitions required skills.
type TechnicalBreakdown struct {
	Score        float64      `json:"score"`
	Exact        []SkillMatch `json:"exact"`
	Similar      []SkillMatch `json:"similar"`
	Transferable []SkillMatch `json:"transferable"`
	Missing      []string     `json:"missing"`
}

// ExperienceBreakdown holds the four blended experience sub-scores.
type ExperienceBreakdown struct {
	Score            float64 `json:"score"`
	YearsFit         float64 `json:"years_fit"`
	RelevanceRatio   float64 `json:"relevance_ratio"`
	CompanyTypeMatch float64 `json:"company_type_match"`
	SeniorityMatch   float64 `json:"seniority_match"`
	CandidateLevel   string  `json:"candidate_level,omitempty"`
	RequiredLevel    string  `json:"required_level,omitempty"`
}

// EducationBreakdown explains the education score.
type EducationBreakdown struct {
	Score               float64 `json:"score"`
	Equivalent          bool    `json:"equivalent"`
	EquivalenceReason   string  `json:"equivalence_reason,omitempty"`
	CandidateLevel      int     `json:"candidate_level"`
	RequiredLevel       int     `json:"required_level"`
	SpecializationBonus float64 `json:"specialization_bonus"`
}

// SoftSkillBreakdown partitions required soft skills.
type SoftSkillBreakdown struct {
	Score        float64      `json:"score"`
	Matched      []string     `json:"matched"`
	Transferable []SkillMatch `json:"transferable"`
	Missing      []string     `json:"missing"`
}

// CulturalBreakdown holds the three set similarities.
type CulturalBreakdown struct {
	Score       float64 `json:"score"`
	Values      float64 `json:"values"`
	Environment float64 `json:"environment"`
	Aspirations float64 `json:"aspirations"`
}

// DimensionBreakdown collects the per-dimension details.
type DimensionBreakdown struct {
	Technical    TechnicalBreakdown  `json:"technical"`
	Experience   ExperienceBreakdown `json:"experience"`
	Education    EducationBreakdown  `json:"education"`
	SoftSkills   SoftSkillBreakdown  `json:"soft_skills"`
	Cultural     CulturalBreakdown   `json:"cultural"`
	Authenticity float64             `json:"authenticity"`
}

// Recommendation is an actionable note for an underperforming dimension.
type Recommendation struct {
	Dimension    Dimension `json:"dimension"`
	Priority     string    `json:"priority"` // high, medium, low
	Impact       float64   `json:"impact"`   // weight * (1 - score)
	Message      string    `json:"message"`
	ExpectedGain float64   `json:"expected_gain"`
}

// DimensionalScore is the output of the multi-dimensional matcher.
type DimensionalScore struct {
	Overall         float64               `json:"overall"` // 0-1
	Scores          map[Dimension]float64 `json:"scores"`
	Breakdown       DimensionBreakdown    `json:"breakdown"`
	AdaptiveWeights DimensionWeights      `json:"adaptive_weights"`
	Sector          string                `json:"sector"`
	Recommendations []Recommendation      `json:"recommendations"`
}
