// Package vector implements the lexical vector signal: TF-IDF weighting over the shared
// vocabulary of two texts, compared by cosine similarity.
package vector

import (
	"errors"
	"math"
	"sort"

	"github.com/jonathan/match-engine/internal/textproc"
	"github.com/jonathan/match-engine/internal/types"
)

// maxCommonTerms bounds the evidence list returned with a score.
const maxCommonTerms = 10

// Analysis is the full output of one comparison.
type Analysis struct {
	Score       float64            `json:"score"`
	Vocabulary  []string           `json:"vocabulary"`
	JobVector   []float64          `json:"job_vector"`
	CandVector  []float64          `json:"candidate_vector"`
	CommonTerms []string           `json:"common_terms"`
	Language    textproc.Language  `json:"language"`
	TermWeights map[string]float64 `json:"-"`
}

// Analyze preprocesses both texts with a shared language and computes the TF-IDF cosine score.
// Either side having no tokens yields score 0 and empty vectors.
func Analyze(jobText, candidateText string) Analysis {
	lang := textproc.DetectLanguage(jobText, candidateText)
	jobTokens := textproc.Preprocess(jobText, lang)
	candTokens := textproc.Preprocess(candidateText, lang)

	a := Analysis{
		Vocabulary:  []string{},
		JobVector:   []float64{},
		CandVector:  []float64{},
		CommonTerms: []string{},
		Language:    lang,
	}
	if len(jobTokens) == 0 || len(candTokens) == 0 {
		return a
	}

	jobTF := termFrequencies(jobTokens)
	candTF := termFrequencies(candTokens)
	vocab := vocabulary(jobTF, candTF)

	a.Vocabulary = vocab
	a.JobVector = make([]float64, len(vocab))
	a.CandVector = make([]float64, len(vocab))
	for i, term := range vocab {
		w := idf(term, jobTF, candTF)
		a.JobVector[i] = jobTF[term] * w
		a.CandVector[i] = candTF[term] * w
	}
	l2Normalize(a.JobVector)
	l2Normalize(a.CandVector)

	sim, err := textproc.Cosine(a.JobVector, a.CandVector)
	if err != nil && !errors.Is(err, types.ErrZeroVector) {
		sim = 0
	}
	a.Score = textproc.Clamp(sim*100, 0, 100)
	a.TermWeights = make(map[string]float64)
	a.CommonTerms = commonTerms(vocab, a.JobVector, a.CandVector, a.TermWeights)
	return a
}

// Score runs Analyze and packages the result as a signal.
func Score(jobText, candidateText string) types.SignalResult {
	a := Analyze(jobText, candidateText)
	res := types.SignalResult{
		Signal:   types.SignalVector,
		Score:    a.Score,
		Evidence: a.CommonTerms,
	}
	res.SetMeta("vocabulary_size", len(a.Vocabulary))
	res.SetMeta("language", string(a.Language))
	if len(a.Vocabulary) == 0 {
		res.Reason = "no usable tokens on one side"
	}
	return res
}

func termFrequencies(tokens []string) map[string]float64 {
	counts := make(map[string]float64, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	n := float64(len(tokens))
	for t := range counts {
		counts[t] /= n
	}
	return counts
}

func vocabulary(a, b map[string]float64) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for t := range a {
		seen[t] = struct{}{}
	}
	for t := range b {
		seen[t] = struct{}{}
	}
	vocab := make([]string, 0, len(seen))
	for t := range seen {
		vocab = append(vocab, t)
	}
	sort.Strings(vocab)
	return vocab
}

// idf over exactly two documents: ln(1 + 2/df). A term present in one document keeps
// a positive weight (ln 3) and a shared term still counts (ln 2).
func idf(term string, docs ...map[string]float64) float64 {
	df := 0
	for _, d := range docs {
		if _, ok := d[term]; ok {
			df++
		}
	}
	if df == 0 {
		return 0
	}
	return math.Log(1 + float64(len(docs))/float64(df))
}

func l2Normalize(v []float64) {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i] /= norm
	}
}

// commonTerms returns up to maxCommonTerms terms present on both sides, ordered by
// their combined weight and then alphabetically.
func commonTerms(vocab []string, job, cand []float64, weights map[string]float64) []string {
	type termWeight struct {
		term   string
		weight float64
	}
	var shared []termWeight
	for i, term := range vocab {
		if job[i] > 0 && cand[i] > 0 {
			w := job[i] * cand[i]
			shared = append(shared, termWeight{term, w})
			weights[term] = w
		}
	}
	sort.Slice(shared, func(i, j int) bool {
		if shared[i].weight != shared[j].weight {
			return shared[i].weight > shared[j].weight
		}
		return shared[i].term < shared[j].term
	})
	if len(shared) > maxCommonTerms {
		shared = shared[:maxCommonTerms]
	}
	out := make([]string, len(shared))
	for i, s := range shared {
		out[i] = s.term
	}
	return out
}
