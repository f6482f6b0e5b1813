package dimensions

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/match-engine/internal/textproc"
	"github.com/jonathan/match-engine/internal/types"
)

// Recommendation priorities
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

const maxListed = 3

// recommend emits one recommendation per dimension scoring below the threshold, ordered by
// impact = weight * (1 - score). Expected gain is the overall improvement from lifting the
// dimension to the threshold.
func (m *Matcher) recommend(s *types.DimensionalScore) []types.Recommendation {
	recs := []types.Recommendation{}
	for dim, score := range s.Scores {
		if score >= m.cfg.RecommendationThreshold {
			continue
		}
		w := s.AdaptiveWeights[dim]
		priority := PriorityLow
		switch {
		case score < m.cfg.HighPriorityThreshold:
			priority = PriorityHigh
		case score < (m.cfg.HighPriorityThreshold+m.cfg.RecommendationThreshold)/2:
			priority = PriorityMedium
		}
		recs = append(recs, types.Recommendation{
			Dimension:    dim,
			Priority:     priority,
			Impact:       textproc.Round2(w * (1 - score)),
			Message:      message(dim, s.Breakdown),
			ExpectedGain: textproc.Round2(w * (m.cfg.RecommendationThreshold - score)),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Impact != recs[j].Impact {
			return recs[i].Impact > recs[j].Impact
		}
		return recs[i].Dimension < recs[j].Dimension
	})
	return recs
}

func listed(items []string) string {
	if len(items) > maxListed {
		return strings.Join(items[:maxListed], ", ") + fmt.Sprintf(" and %d more", len(items)-maxListed)
	}
	return strings.Join(items, ", ")
}

func message(dim types.Dimension, bd types.DimensionBreakdown) string {
	switch dim {
	case types.DimensionTechnical:
		if len(bd.Technical.Missing) > 0 {
			return "Acquire the missing technical skills: " + listed(bd.Technical.Missing)
		}
		return "Deepen the transferable skills into direct experience with the required stack"
	case types.DimensionExperience:
		e := bd.Experience
		switch {
		case e.YearsFit < 1:
			return "Experience is below the required range; highlight the most relevant years"
		case e.SeniorityMatch < 1:
			return fmt.Sprintf("Seniority %s is below the required %s level", e.CandidateLevel, e.RequiredLevel)
		case e.CompanyTypeMatch < 1:
			return "Experience comes from different company types than the role expects"
		default:
			return "Emphasize experience directly relevant to the role"
		}
	case types.DimensionEducation:
		return "Education is below the requirement; consider certifications or a specialization in the field"
	case types.DimensionSoftSkills:
		if len(bd.SoftSkills.Missing) > 0 {
			return "Demonstrate the missing soft skills with concrete examples: " + listed(bd.SoftSkills.Missing)
		}
		return "Back the transferable soft skills with concrete examples"
	case types.DimensionCultural:
		return "Values and work environment differ from the company culture; check the cultural fit"
	case types.DimensionAuthenticity:
		return "Profile claims lack supporting evidence; add verifiable achievements"
	}
	return "Improve " + string(dim)
}
