package dimensions

import (
	"github.com/jonathan/match-engine/internal/textproc"
	"github.com/jonathan/match-engine/internal/types"
)

// Experience blend weights
const (
	yearsWeight       = 0.4
	relevanceWeight   = 0.3
	companyTypeWeight = 0.2
	seniorityWeight   = 0.1
)

const (
	overqualifiedStep   = 0.05 // penalty per year above the maximum
	overqualifiedMax    = 0.3
	seniorityGapPenalty = 0.2
	unknownRelevance    = 0.5
)

// seniorityLadder orders seniority levels. Aliases map onto the same rung.
var seniorityLadder = map[string]int{
	"intern":       0,
	"entry":        0,
	"graduate":     0,
	"junior":       0,
	"debutant":     0,
	"mid":          1,
	"intermediate": 1,
	"confirmed":    1,
	"confirme":     1,
	"senior":       2,
	"experienced":  2,
	"lead":         3,
	"principal":    3,
	"staff":        3,
	"expert":       3,
	"manager":      4,
	"director":     4,
	"head":         4,
	"executive":    4,
	"vp":           4,
	"chief":        4,
}

var seniorityNames = []string{"junior", "mid", "senior", "lead", "executive"}

// seniorityRank resolves a seniority label, looking at each word so "senior engineer" works.
func seniorityRank(label string) (int, bool) {
	folded := textproc.Fold(label)
	if r, ok := seniorityLadder[folded]; ok {
		return r, true
	}
	best, found := -1, false
	for _, w := range textproc.Tokenize(folded) {
		if r, ok := seniorityLadder[w]; ok && r > best {
			best, found = r, true
		}
	}
	return best, found
}

// seniorityFromYears infers a rung when the profile does not state one.
func seniorityFromYears(years float64) int {
	switch {
	case years >= 12:
		return 3
	case years >= 7:
		return 2
	case years >= 3:
		return 1
	default:
		return 0
	}
}

// yearsFit is 1 inside [min,max], y/min below the minimum and a gentle penalty above the maximum.
// A max of 0 means no upper bound.
func yearsFit(years, minYears, maxYears float64) float64 {
	switch {
	case minYears > 0 && years < minYears:
		return years / minYears
	case maxYears > 0 && years > maxYears:
		return 1 - min(overqualifiedMax, overqualifiedStep*(years-maxYears))
	default:
		return 1
	}
}

func (m *Matcher) experience(cand types.CandidateExperience, req types.ExperienceRequirement) types.ExperienceBreakdown {
	bd := types.ExperienceBreakdown{
		YearsFit: yearsFit(cand.TotalYears, req.MinYears, req.MaxYears),
	}

	switch {
	case cand.TotalYears <= 0:
		bd.RelevanceRatio = 0
	case cand.RelevantYears <= 0:
		bd.RelevanceRatio = unknownRelevance
	default:
		bd.RelevanceRatio = min(1, cand.RelevantYears/cand.TotalYears)
	}

	bd.CompanyTypeMatch = companyTypeOverlap(cand.Companies, req.CompanyTypes)

	candRank, ok := seniorityRank(cand.Seniority)
	if !ok {
		candRank = seniorityFromYears(cand.TotalYears)
	}
	bd.CandidateLevel = seniorityNames[candRank]
	bd.SeniorityMatch = 1
	if reqRank, ok := seniorityRank(req.Seniority); ok {
		bd.RequiredLevel = seniorityNames[reqRank]
		if gap := reqRank - candRank; gap > 0 {
			bd.SeniorityMatch = max(0, 1-seniorityGapPenalty*float64(gap))
		}
	}

	bd.Score = textproc.Clamp(
		yearsWeight*bd.YearsFit+
			relevanceWeight*bd.RelevanceRatio+
			companyTypeWeight*bd.CompanyTypeMatch+
			seniorityWeight*bd.SeniorityMatch,
		0, 1)
	return bd
}

// companyTypeOverlap is the share of required company types found in the candidate's history.
// A job that names none scores 1.
func companyTypeOverlap(companies []types.Company, required []string) float64 {
	if len(required) == 0 {
		return 1
	}
	seen := make(map[string]struct{}, len(companies))
	for _, c := range companies {
		if c.Type != "" {
			seen[textproc.Fold(c.Type)] = struct{}{}
		}
	}
	found := 0
	for _, t := range required {
		if _, ok := seen[textproc.Fold(t)]; ok {
			found++
		}
	}
	return float64(found) / float64(len(required))
}
