package dimensions

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/match-engine/internal/parsing"
	"github.com/jonathan/match-engine/internal/textproc"
	"github.com/jonathan/match-engine/internal/types"
)

// Technical sub-score weights
const (
	similarWeight      = 0.8
	transferableWeight = 0.5
)

// technical partitions the required skills into exact, similar, transferable and missing.
// score = min(1, (exact + 0.8*similar + 0.5*transferable) / required). No requirement scores 1.
func (m *Matcher) technical(ctx context.Context, candSkills, required []string) types.TechnicalBreakdown {
	bd := types.TechnicalBreakdown{
		Exact:        []types.SkillMatch{},
		Similar:      []types.SkillMatch{},
		Transferable: []types.SkillMatch{},
		Missing:      []string{},
	}
	if len(required) == 0 {
		bd.Score = 1
		return bd
	}

	owned := make(map[string]string, len(candSkills))
	for _, s := range candSkills {
		owned[parsing.SkillKey(s)] = s
	}

	for _, req := range required {
		if name, ok := owned[parsing.SkillKey(req)]; ok {
			bd.Exact = append(bd.Exact, types.SkillMatch{Required: req, Matched: name, Similarity: 1})
			continue
		}

		best, bestSim := m.closestSkill(ctx, req, candSkills)
		switch {
		case bestSim > m.cfg.SimilarThreshold:
			bd.Similar = append(bd.Similar, types.SkillMatch{Required: req, Matched: best, Similarity: textproc.Round2(bestSim)})
		case bestSim >= m.cfg.TransferableThreshold:
			bd.Transferable = append(bd.Transferable, types.SkillMatch{
				Required:    req,
				Matched:     best,
				Similarity:  textproc.Round2(bestSim),
				Explanation: transferExplanation(req, best, bestSim),
			})
		default:
			bd.Missing = append(bd.Missing, req)
		}
	}

	weighted := float64(len(bd.Exact)) + similarWeight*float64(len(bd.Similar)) + transferableWeight*float64(len(bd.Transferable))
	bd.Score = min(1, weighted/float64(len(required)))
	return bd
}

// closestSkill returns the candidate skill most similar to required. A provider failure falls
// back to lexical similarity for that pair.
func (m *Matcher) closestSkill(ctx context.Context, required string, candSkills []string) (string, float64) {
	best, bestSim := "", 0.0
	for _, s := range candSkills {
		sim, err := m.similarity.Similarity(ctx, required, s)
		if err != nil {
			m.logger.Debug("skill similarity failed, using lexical fallback", zap.String("skill", required), zap.Error(err))
			sim, _ = LexicalSimilarity{}.Similarity(ctx, required, s)
		}
		if sim > bestSim {
			best, bestSim = s, sim
		}
	}
	return best, bestSim
}
