package hybrid

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/match-engine/internal/types"
)

// ScoreBatch scores one job against many candidates with bounded concurrency. The job is
// embedded once. Failed candidates are skipped and reported through the joined error; the
// successes are returned sorted by final score, highest first, with CandidateIndex set to the
// candidate's position in the input.
func (a *Aggregator) ScoreBatch(ctx context.Context, jobText string, candidateTexts []string, opts Options) ([]*types.HybridResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := checkText("job_text", jobText); err != nil {
		return nil, err
	}
	resolved := a.cfg.resolve(opts)

	var embeddings []types.SignalResult
	if resolved.Mode != types.ModeFast {
		embeddings = a.batchEmbeddings(ctx, jobText, candidateTexts)
	}

	results := make([]*types.HybridResult, len(candidateTexts))
	errs := make([]error, len(candidateTexts))

	var g errgroup.Group
	g.SetLimit(a.cfg.BatchConcurrency)
	for i, text := range candidateTexts {
		g.Go(func() error {
			var pre *types.SignalResult
			if embeddings != nil {
				pre = &embeddings[i]
			}
			r, err := a.score(ctx, jobText, text, resolved, pre)
			if err != nil {
				errs[i] = fmt.Errorf("candidate %d: %w", i, err)
				return nil
			}
			r.CandidateIndex = i
			results[i] = r
			return nil
		})
	}
	_ = g.Wait()

	out := make([]*types.HybridResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].FinalScore != out[j].FinalScore {
			return out[i].FinalScore > out[j].FinalScore
		}
		return out[i].CandidateIndex < out[j].CandidateIndex
	})

	err := errors.Join(errs...)
	if err != nil {
		a.logger.Warn("batch completed with failures",
			zap.Int("candidates", len(candidateTexts)),
			zap.Int("scored", len(out)),
			zap.Error(err))
	}
	return out, err
}

// batchEmbeddings embeds the job once and compares it with every candidate. Cached embedding
// signals are reused; only the remaining candidates go to the provider.
func (a *Aggregator) batchEmbeddings(ctx context.Context, jobText string, candidateTexts []string) []types.SignalResult {
	out := make([]types.SignalResult, len(candidateTexts))
	var pending []int
	for i, text := range candidateTexts {
		key := embeddingKey(a, jobText, text)
		if cached, ok := a.cacheGet(key); ok {
			if res, ok := cached.(types.SignalResult); ok {
				out[i] = res
				continue
			}
		}
		pending = append(pending, i)
	}
	if len(pending) == 0 {
		return out
	}

	texts := make([]string, len(pending))
	for j, i := range pending {
		texts[j] = candidateTexts[i]
	}
	start := a.now()
	scored := a.embedding.ScoreBatch(ctx, jobText, texts)
	a.metrics.ObserveSignal(string(types.SignalEmbedding), a.now().Sub(start).Seconds())

	for j, i := range pending {
		out[i] = scored[j]
		if !scored[j].Degraded {
			a.cacheSet(embeddingKey(a, jobText, candidateTexts[i]), scored[j])
		}
	}
	return out
}
