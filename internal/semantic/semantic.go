package semantic

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/match-engine/internal/textproc"
	"github.com/jonathan/match-engine/internal/types"
)

// Score weights
const (
	WeightDirectMatch         = 0.50
	WeightDomainAlignment     = 0.25
	WeightExperienceRelevance = 0.15
	WeightSkillDepth          = 0.10
)

const (
	maxEntities            = 10
	minEntityLen           = 4
	missingPerCategory     = 2
	maxMissingCompetencies = 5
)

// Config holds tunables for the semantic signal.
type Config struct {
	// SimilarityThreshold is the edit similarity above which two terms are considered the same competency.
	SimilarityThreshold float64 `json:"similarity_threshold" mapstructure:"similarity_threshold" validate:"gt=0,lte=1"`
}

// DefaultConfig returns the defaults.
func DefaultConfig() Config {
	return Config{SimilarityThreshold: 0.8}
}

// Extraction holds the terms found in one text.
type Extraction struct {
	Terms    map[Category][]string `json:"terms"`
	Entities []string              `json:"entities"`
}

// Total returns the number of category terms found.
func (e Extraction) Total() int {
	n := 0
	for _, terms := range e.Terms {
		n += len(terms)
	}
	return n
}

// NonEmpty returns the categories with at least one term, in declaration order.
func (e Extraction) NonEmpty() []Category {
	var cats []Category
	for _, c := range Categories {
		if len(e.Terms[c]) > 0 {
			cats = append(cats, c)
		}
	}
	return cats
}

// allTerms returns category terms then entities, deduplicated, in a stable order.
func (e Extraction) allTerms() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(t string) {
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	for _, c := range Categories {
		for _, t := range e.Terms[c] {
			add(t)
		}
	}
	for _, t := range e.Entities {
		add(t)
	}
	return out
}

// Result is the full output of the semantic signal.
type Result struct {
	Score               float64               `json:"score"`
	DirectMatchRatio    float64               `json:"direct_match_ratio"` // 0-1
	DomainAlignment     float64               `json:"domain_alignment"`
	ExperienceRelevance float64               `json:"experience_relevance"`
	SkillDepth          float64               `json:"skill_depth"`
	CategoriesCovered   int                   `json:"categories_covered"`
	MatchedTerms        []string              `json:"matched_terms"`
	MissingCompetencies []string              `json:"missing_competencies"`
	MissingByCategory   map[Category][]string `json:"missing_by_category"`
	Job                 Extraction            `json:"job"`
	Candidate           Extraction            `json:"candidate"`
}

// Analyzer extracts and compares categorized terms. It is safe for concurrent use.
type Analyzer struct {
	cfg   Config
	terms map[Category][]string
}

// NewAnalyzer creates an Analyzer over the built-in category lists.
func NewAnalyzer(cfg Config) *Analyzer {
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = DefaultConfig().SimilarityThreshold
	}
	folded := make(map[Category][]string, len(categoryTerms))
	for c, terms := range categoryTerms {
		for _, t := range terms {
			folded[c] = append(folded[c], textproc.Fold(t))
		}
	}
	return &Analyzer{cfg: cfg, terms: folded}
}

// Extract scans text for category terms and capitalized entity candidates.
func (a *Analyzer) Extract(text string) Extraction {
	doc := textproc.NewDoc(text)
	ext := Extraction{Terms: make(map[Category][]string, len(Categories)), Entities: []string{}}
	for _, c := range Categories {
		for _, t := range a.terms[c] {
			if doc.Contains(t) {
				ext.Terms[c] = append(ext.Terms[c], t)
			}
		}
	}
	ext.Entities = extractEntities(text)
	return ext
}

// extractEntities returns up to maxEntities capitalized or dotted tokens, which recovers
// product and technology names missing from the static lists.
func extractEntities(text string) []string {
	seen := make(map[string]struct{})
	entities := []string{}
	for _, tok := range textproc.Tokenize(text) {
		if len(entities) >= maxEntities {
			break
		}
		if utf8.RuneCountInString(tok) < minEntityLen {
			continue
		}
		first, _ := utf8.DecodeRuneInString(tok)
		if !unicode.IsUpper(first) && !strings.Contains(tok, ".") {
			continue
		}
		if !hasLetter(tok) {
			continue
		}
		f := textproc.Fold(tok)
		if _, stop := entityStopwords[f]; stop || textproc.IsStopword(f) {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		entities = append(entities, f)
	}
	return entities
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// Analyze extracts both texts and computes the contextual metrics and final score.
func (a *Analyzer) Analyze(jobText, candidateText string) Result {
	job := a.Extract(jobText)
	cand := a.Extract(candidateText)

	res := Result{
		Job:               job,
		Candidate:         cand,
		MatchedTerms:      []string{},
		MissingByCategory: make(map[Category][]string),
	}

	candTerms := cand.allTerms()
	jobTerms := job.allTerms()
	matched := 0
	for _, t := range jobTerms {
		if a.hasSimilar(t, candTerms) {
			matched++
			res.MatchedTerms = append(res.MatchedTerms, t)
		}
	}
	if len(jobTerms) > 0 {
		res.DirectMatchRatio = float64(matched) / float64(len(jobTerms))
	}

	jobCats := job.NonEmpty()
	candCats := cand.NonEmpty()
	res.CategoriesCovered = len(candCats)
	if len(jobCats) > 0 {
		both := 0
		for _, c := range jobCats {
			if len(cand.Terms[c]) > 0 {
				both++
			}
		}
		res.DomainAlignment = float64(both) / float64(len(jobCats)) * 100
	}

	res.ExperienceRelevance = math.Min(100, float64(cand.Total())/math.Max(1, float64(job.Total()))*100)
	res.SkillDepth = skillDepth(cand)
	res.MissingCompetencies, res.MissingByCategory = a.missingCompetencies(job, candTerms)

	score := WeightDirectMatch*res.DirectMatchRatio*100 +
		WeightDomainAlignment*res.DomainAlignment +
		WeightExperienceRelevance*res.ExperienceRelevance +
		WeightSkillDepth*res.SkillDepth
	res.Score = textproc.Clamp(score, 0, 100)
	return res
}

// skillDepth is the mean per-category count over the maximum count, as a percentage.
// Even coverage across categories scores high; a single dominant category scores low.
func skillDepth(e Extraction) float64 {
	maxCount, sum := 0, 0
	for _, c := range Categories {
		n := len(e.Terms[c])
		sum += n
		if n > maxCount {
			maxCount = n
		}
	}
	if maxCount == 0 {
		return 0
	}
	avg := float64(sum) / float64(len(Categories))
	return avg / float64(maxCount) * 100
}

func (a *Analyzer) missingCompetencies(job Extraction, candTerms []string) ([]string, map[Category][]string) {
	byCat := make(map[Category][]string)
	overall := []string{}
	for _, c := range Categories {
		for _, t := range job.Terms[c] {
			if len(byCat[c]) >= missingPerCategory {
				break
			}
			if !a.hasSimilar(t, candTerms) {
				byCat[c] = append(byCat[c], t)
			}
		}
		for _, t := range byCat[c] {
			if len(overall) < maxMissingCompetencies {
				overall = append(overall, t)
			}
		}
	}
	return overall, byCat
}

// hasSimilar reports whether any candidate term contains, is contained by, or is within
// the edit-similarity threshold of term.
func (a *Analyzer) hasSimilar(term string, candidates []string) bool {
	for _, c := range candidates {
		if c == term {
			return true
		}
		if min(len(c), len(term)) >= textproc.ShortTermLen && (strings.Contains(c, term) || strings.Contains(term, c)) {
			return true
		}
		if textproc.EditSimilarity(term, c) >= a.cfg.SimilarityThreshold {
			return true
		}
	}
	return false
}

// Metadata keys set on the semantic SignalResult
const (
	MetaCategoriesCovered   = "categories_covered"
	MetaMissingCompetencies = "missing_competencies"
	MetaDomainAlignment     = "domain_alignment"
	MetaCandidateCategories = "candidate_categories"
)

// Score runs Analyze and packages the result as a signal.
func (a *Analyzer) Score(jobText, candidateText string) types.SignalResult {
	r := a.Analyze(jobText, candidateText)
	cats := make([]string, 0, len(r.Candidate.Terms))
	for _, c := range r.Candidate.NonEmpty() {
		cats = append(cats, string(c))
	}
	sort.Strings(cats)

	res := types.SignalResult{
		Signal:   types.SignalSemantic,
		Score:    r.Score,
		Evidence: r.MatchedTerms,
	}
	res.SetMeta(MetaCategoriesCovered, r.CategoriesCovered)
	res.SetMeta(MetaMissingCompetencies, r.MissingCompetencies)
	res.SetMeta(MetaDomainAlignment, r.DomainAlignment)
	res.SetMeta(MetaCandidateCategories, cats)
	return res
}
