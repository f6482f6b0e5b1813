package dimensions

import (
	"github.com/jonathan/match-engine/internal/textproc"
	"github.com/jonathan/match-engine/internal/types"
)

// neutralCultural is the similarity of two empty sets: nothing to compare is not a mismatch.
const neutralCultural = 0.5

// cultural averages the Jaccard similarity of values, environment and aspirations. Required
// languages and remote work are folded into the environment sets.
func cultural(cand *types.CandidateProfile, job *types.JobProfile) types.CulturalBreakdown {
	candEnv := environment(cand.Culture.Environment, cand.Languages, cand.Mobility.Remote)
	jobEnv := environment(job.Culture.Environment, job.Languages, job.Mobility.Remote)

	bd := types.CulturalBreakdown{
		Values:      setSimilarity(cand.Culture.Values, job.Culture.Values),
		Environment: setSimilarity(candEnv, jobEnv),
		Aspirations: setSimilarity(cand.Culture.Aspirations, job.Culture.Aspirations),
	}
	bd.Score = (bd.Values + bd.Environment + bd.Aspirations) / 3
	return bd
}

func environment(env []string, langs []types.Language, remote bool) []string {
	out := append([]string(nil), env...)
	for _, l := range langs {
		out = append(out, "language:"+textproc.Fold(l.Name))
	}
	if remote {
		out = append(out, "remote")
	}
	return out
}

func setSimilarity(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return neutralCultural
	}
	return textproc.Jaccard(a, b)
}
