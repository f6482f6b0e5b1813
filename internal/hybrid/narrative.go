package hybrid

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jonathan/match-engine/internal/semantic"
	"github.com/jonathan/match-engine/internal/textproc"
	"github.com/jonathan/match-engine/internal/types"
)

const (
	strengthThreshold = 70
	weaknessThreshold = 40

	dispersionPenalty      = 2
	fullCoverageBoost      = 10
	multiDomainBoost       = 5
	multiDomainCategories  = 3
	maxMissingCompetencies = 10
)

var signalLabels = map[types.SignalKind]string{
	types.SignalVector:    "vocabulary overlap",
	types.SignalKeyword:   "sector keyword coverage",
	types.SignalEmbedding: "overall semantic similarity",
	types.SignalSemantic:  "domain expertise alignment",
}

// confidence is 100 minus twice the standard deviation of the signal scores, boosted when
// every signal ran and when the candidate spans several semantic categories.
func confidence(breakdown []types.SignalBreakdown, candidateCategories int) float64 {
	if len(breakdown) == 0 {
		return 0
	}
	mean := 0.0
	for _, b := range breakdown {
		mean += b.Score
	}
	mean /= float64(len(breakdown))
	variance := 0.0
	full := true
	for _, b := range breakdown {
		variance += (b.Score - mean) * (b.Score - mean)
		if b.Degraded || b.Substituted {
			full = false
		}
	}
	sigma := math.Sqrt(variance / float64(len(breakdown)))

	c := 100 - dispersionPenalty*sigma
	if full {
		c += fullCoverageBoost
	}
	if candidateCategories >= multiDomainCategories {
		c += multiDomainBoost
	}
	return textproc.Clamp(c, 0, 100)
}

// dominantSignal is the signal with the largest contribution; ties keep the canonical order.
func dominantSignal(breakdown []types.SignalBreakdown) types.SignalKind {
	var best types.SignalKind
	bestC := -1.0
	for _, b := range breakdown {
		if b.Contribution > bestC {
			best, bestC = b.Signal, b.Contribution
		}
	}
	return best
}

func narrate(r *types.HybridResult, missing []string) types.Narrative {
	n := types.Narrative{
		DominantSignal:      dominantSignal(r.Breakdown),
		Strengths:           []string{},
		Weaknesses:          []string{},
		MissingCompetencies: missing,
	}
	if len(n.MissingCompetencies) > maxMissingCompetencies {
		n.MissingCompetencies = n.MissingCompetencies[:maxMissingCompetencies]
	}

	for _, b := range r.Breakdown {
		label := signalLabels[b.Signal]
		switch {
		case b.Degraded:
			n.Weaknesses = append(n.Weaknesses, fmt.Sprintf("%s unavailable", label))
		case b.Substituted:
			// derived from vector and keyword, already reported there
		case b.Score >= strengthThreshold:
			n.Strengths = append(n.Strengths, fmt.Sprintf("strong %s (%.0f)", label, b.Score)+evidenceSuffix(b.Evidence))
		case b.Score < weaknessThreshold:
			n.Weaknesses = append(n.Weaknesses, fmt.Sprintf("weak %s (%.0f)", label, b.Score))
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Final score %.0f/100 (%s band, confidence %.0f). ", r.FinalScore, r.Calibration.Band, r.Confidence)
	if n.DominantSignal != "" {
		fmt.Fprintf(&sb, "The score is driven mostly by %s. ", signalLabels[n.DominantSignal])
	}
	fmt.Fprintf(&sb, "Candidate profile reads as %s, %s level", r.Context.Context, r.Context.ExperienceLevel)
	if r.Calibration.JobSector != "" {
		fmt.Fprintf(&sb, " for a %s role", strings.ReplaceAll(r.Calibration.JobSector, "_", " "))
	}
	sb.WriteString(".")
	if len(n.Strengths) > 0 {
		sb.WriteString(" Strengths: " + strings.Join(n.Strengths, "; ") + ".")
	}
	if len(n.Weaknesses) > 0 {
		sb.WriteString(" Weaknesses: " + strings.Join(n.Weaknesses, "; ") + ".")
	}
	if len(n.MissingCompetencies) > 0 {
		sb.WriteString(" Missing: " + strings.Join(n.MissingCompetencies, ", ") + ".")
	}
	n.Justification = sb.String()
	return n
}

func evidenceSuffix(evidence []string) string {
	if len(evidence) == 0 {
		return ""
	}
	shown := evidence
	if len(shown) > 3 {
		shown = shown[:3]
	}
	return ": " + strings.Join(shown, ", ")
}

// sentinelNarrative explains a result that no signal could produce.
func sentinelNarrative(reason string) types.Narrative {
	return types.Narrative{
		Strengths:     []string{},
		Weaknesses:    []string{},
		Justification: "No compatibility score could be computed: " + reason + ".",
	}
}

// missingCompetencies reads the semantic signal's missing list, sorted for stable output.
func missingCompetencies(res types.SignalResult) []string {
	v, ok := res.Metadata[semantic.MetaMissingCompetencies].([]string)
	if !ok {
		return []string{}
	}
	out := append([]string(nil), v...)
	sort.Strings(out)
	return out
}

func candidateCategories(res types.SignalResult) int {
	v, _ := res.Metadata[semantic.MetaCandidateCategories].([]string)
	return len(v)
}
