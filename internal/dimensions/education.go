package dimensions

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/match-engine/internal/education"
	"github.com/jonathan/match-engine/internal/textproc"
	"github.com/jonathan/match-engine/internal/types"
)

const (
	unknownEducation    = 0.3 // candidate level cannot be read
	neutralEducation    = 0.5 // requirement cannot be read
	specializationBonus = 0.1 // per matching field or specialization
)

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// education resolves diploma equivalence first; if the diplomas are not equivalent it compares
// parsed levels. A capped bonus is added for matching fields and specializations.
func (m *Matcher) education(ctx context.Context, cand types.CandidateEducation, req types.EducationRequirement) types.EducationBreakdown {
	bd := types.EducationBreakdown{CandidateLevel: -1, RequiredLevel: -1}

	reqText := firstNonEmpty(req.Diploma, req.Level)
	candText := firstNonEmpty(cand.Diploma, cand.Level)
	if lvl, ok := parseLevel(req.Level, req.Diploma); ok {
		bd.RequiredLevel = int(lvl)
	}
	if lvl, ok := parseLevel(cand.Level, cand.Diploma); ok {
		bd.CandidateLevel = int(lvl)
	}

	bd.SpecializationBonus = m.specializationBonus(cand, req)

	if reqText == "" {
		bd.Score = 1
		bd.EquivalenceReason = "no education requirement"
		return bd
	}

	var base float64
	switch {
	case m.resolveEquivalent(ctx, candText, reqText, &bd):
		base = bd.Score
	case bd.CandidateLevel < 0:
		base = unknownEducation
	case bd.RequiredLevel < 0:
		base = neutralEducation
	case bd.CandidateLevel >= bd.RequiredLevel:
		base = m.cfg.SufficientEducation
	default:
		base = m.cfg.SufficientEducation * float64(bd.CandidateLevel) / float64(bd.RequiredLevel)
	}

	bd.Score = textproc.Clamp(base+bd.SpecializationBonus, 0, 1)
	return bd
}

// parseLevel reads the explicit level first, then the diploma wording.
func parseLevel(level, diploma string) (education.Level, bool) {
	if lvl, ok := education.ParseLevel(level); ok {
		return lvl, true
	}
	return education.ParseLevel(diploma)
}

// resolveEquivalent asks the resolver and records the verdict. It reports true only for an
// equivalent verdict, leaving the confidence in bd.Score.
func (m *Matcher) resolveEquivalent(ctx context.Context, candText, reqText string, bd *types.EducationBreakdown) bool {
	if m.resolver == nil || candText == "" {
		return false
	}
	eq, err := m.resolver.Resolve(ctx, candText, reqText)
	if err != nil {
		m.logger.Debug("diploma equivalence unresolved", zap.Error(err))
		return false
	}
	bd.EquivalenceReason = eq.Explanation
	if !eq.IsEquivalent {
		return false
	}
	bd.Equivalent = true
	bd.Score = textproc.Clamp(eq.Confidence, 0, 1)
	return true
}

func (m *Matcher) specializationBonus(cand types.CandidateEducation, req types.EducationRequirement) float64 {
	wanted := append(append([]string(nil), req.Fields...), req.Specializations...)
	if len(wanted) == 0 {
		return 0
	}
	have := append([]string{cand.Field, cand.Diploma}, cand.Specializations...)

	matches := 0
	for _, w := range wanted {
		fw := textproc.Fold(w)
		if fw == "" {
			continue
		}
		for _, h := range have {
			fh := textproc.Fold(h)
			if fh != "" && (strings.Contains(fh, fw) || strings.Contains(fw, fh)) {
				matches++
				break
			}
		}
	}
	return min(m.cfg.MaxSpecializationBonus, specializationBonus*float64(matches))
}
