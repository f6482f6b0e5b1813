package keyword

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/match-engine/internal/textproc"
	"github.com/jonathan/match-engine/internal/types"
)

// MatchKind classifies how a taxonomy keyword was found.
type MatchKind string

// Match kinds
const (
	MatchExact  MatchKind = "exact"
	MatchFuzzy  MatchKind = "fuzzy"
	MatchAbsent MatchKind = "absent"
)

const (
	// minFuzzyLen is the shortest keyword eligible for fuzzy matching
	minFuzzyLen = 5
	// fuzzyLengthTolerance bounds the length difference between a keyword and a fuzzy window
	fuzzyLengthTolerance = 0.3
)

// Config holds the tunable constants of the keyword signal.
type Config struct {
	SameSectorBonus float64 `json:"same_sector_bonus" mapstructure:"same_sector_bonus" validate:"gte=0,lte=1"`
	FuzzyThreshold  float64 `json:"fuzzy_threshold" mapstructure:"fuzzy_threshold" validate:"gt=0,lte=1"`
	FuzzyWeight     float64 `json:"fuzzy_weight" mapstructure:"fuzzy_weight" validate:"gte=0,lte=1"`
}

// DefaultConfig returns the empirically tuned defaults.
func DefaultConfig() Config {
	return Config{
		SameSectorBonus: 0.10,
		FuzzyThreshold:  0.6,
		FuzzyWeight:     0.7,
	}
}

// KeywordMatch records how one taxonomy keyword matched a text.
type KeywordMatch struct {
	Keyword    string    `json:"keyword"`
	Kind       MatchKind `json:"kind"`
	MatchedAs  string    `json:"matched_as,omitempty"`
	Similarity float64   `json:"similarity"`
}

// SectorMatch is the coverage of one sector's keywords in a text.
type SectorMatch struct {
	Sector  string         `json:"sector"`
	Score   float64        `json:"score"`
	Exact   int            `json:"exact"`
	Fuzzy   int            `json:"fuzzy"`
	Matches []KeywordMatch `json:"matches"`
}

// Result is the full output of the keyword signal.
type Result struct {
	Score           float64            `json:"score"`
	JobSector       string             `json:"job_sector"`
	CandidateSector string             `json:"candidate_sector"`
	SameSector      bool               `json:"same_sector"`
	BonusApplied    bool               `json:"bonus_applied"`
	Matches         []KeywordMatch     `json:"matches"`
	SectorScores    map[string]float64 `json:"sector_scores"`
}

// Analyzer scores texts against a sector taxonomy. It is immutable and safe for concurrent use.
type Analyzer struct {
	cfg      Config
	taxonomy []Sector
}

// NewAnalyzer creates an Analyzer. A nil taxonomy uses DefaultTaxonomy.
func NewAnalyzer(cfg Config, taxonomy []Sector) *Analyzer {
	if taxonomy == nil {
		taxonomy = DefaultTaxonomy
	}
	folded := make([]Sector, len(taxonomy))
	for i, s := range taxonomy {
		kws := make([]string, 0, len(s.Keywords))
		for _, kw := range s.Keywords {
			if f := strings.TrimSpace(textproc.Fold(kw)); f != "" {
				kws = append(kws, f)
			}
		}
		folded[i] = Sector{Name: s.Name, Keywords: kws}
	}
	return &Analyzer{cfg: cfg, taxonomy: folded}
}

// Sectors returns the sector names in declaration order.
func (a *Analyzer) Sectors() []string {
	names := make([]string, len(a.taxonomy))
	for i, s := range a.taxonomy {
		names[i] = s.Name
	}
	return names
}

// DetectSector returns the sector with the highest share of keywords present in text and that share.
// Ties, including the all-zero case, go to the earliest declared sector.
func (a *Analyzer) DetectSector(text string) (string, float64) {
	return a.detect(textproc.NewDoc(text))
}

func (a *Analyzer) detect(doc textproc.Doc) (string, float64) {
	best, bestRatio := "", -1.0
	for _, s := range a.taxonomy {
		if len(s.Keywords) == 0 {
			continue
		}
		found := 0
		for _, kw := range s.Keywords {
			if doc.Contains(kw) {
				found++
			}
		}
		ratio := float64(found) / float64(len(s.Keywords))
		if ratio > bestRatio {
			best, bestRatio = s.Name, ratio
		}
	}
	if bestRatio < 0 {
		return "", 0
	}
	return best, bestRatio
}

// SectorScore measures how well text covers the keywords of sector.
// Unknown sectors score 0.
func (a *Analyzer) SectorScore(text, sector string) SectorMatch {
	return a.sectorScore(textproc.NewDoc(text), sector)
}

func (a *Analyzer) sectorScore(doc textproc.Doc, sector string) SectorMatch {
	sm := SectorMatch{Sector: sector, Matches: []KeywordMatch{}}
	var keywords []string
	for _, s := range a.taxonomy {
		if s.Name == sector {
			keywords = s.Keywords
			break
		}
	}
	if len(keywords) == 0 {
		return sm
	}

	for _, kw := range keywords {
		m := a.classify(doc, kw)
		switch m.Kind {
		case MatchExact:
			sm.Exact++
		case MatchFuzzy:
			sm.Fuzzy++
		}
		sm.Matches = append(sm.Matches, m)
	}
	raw := 100 * (float64(sm.Exact) + a.cfg.FuzzyWeight*float64(sm.Fuzzy)) / float64(len(keywords))
	sm.Score = textproc.Clamp(raw, 0, 100)
	return sm
}

// Analyze evaluates the candidate text against the job's detected sector and applies the
// same-sector bonus when the candidate's own best sector matches.
func (a *Analyzer) Analyze(jobText, candidateText string) Result {
	jobDoc := textproc.NewDoc(jobText)
	candDoc := textproc.NewDoc(candidateText)

	jobSector, _ := a.detect(jobDoc)
	candSector, candRatio := a.detect(candDoc)

	res := Result{
		JobSector:       jobSector,
		CandidateSector: candSector,
		SectorScores:    make(map[string]float64, len(a.taxonomy)),
		Matches:         []KeywordMatch{},
	}
	for _, s := range a.taxonomy {
		res.SectorScores[s.Name] = a.sectorScore(candDoc, s.Name).Score
	}

	if candDoc.Empty() {
		return res
	}

	sm := a.sectorScore(candDoc, jobSector)
	res.Matches = sm.Matches
	res.Score = sm.Score
	// an all-zero candidate has no sector of its own, only the tie-break default
	res.SameSector = candRatio > 0 && candSector == jobSector
	if res.SameSector {
		res.Score = math.Min(100, res.Score*(1+a.cfg.SameSectorBonus))
		res.BonusApplied = true
	}
	return res
}

// Score runs Analyze and packages the result as a signal.
func (a *Analyzer) Score(jobText, candidateText string) types.SignalResult {
	r := a.Analyze(jobText, candidateText)
	evidence := make([]string, 0, len(r.Matches))
	for _, m := range r.Matches {
		if m.Kind != MatchAbsent {
			evidence = append(evidence, m.Keyword)
		}
	}
	res := types.SignalResult{
		Signal:   types.SignalKeyword,
		Score:    r.Score,
		Evidence: evidence,
	}
	res.SetMeta(MetaJobSector, r.JobSector)
	res.SetMeta(MetaCandidateSector, r.CandidateSector)
	res.SetMeta(MetaSameSector, r.SameSector)
	res.SetMeta(MetaSectorScores, r.SectorScores)
	return res
}

// Metadata keys set on the keyword SignalResult
const (
	MetaJobSector       = "job_sector"
	MetaCandidateSector = "candidate_sector"
	MetaSameSector      = "same_sector"
	MetaSectorScores    = "sector_scores"
)

func (a *Analyzer) classify(doc textproc.Doc, kw string) KeywordMatch {
	if doc.Contains(kw) {
		return KeywordMatch{Keyword: kw, Kind: MatchExact, MatchedAs: kw, Similarity: 1}
	}
	if as, sim, ok := a.fuzzyMatch(doc, kw); ok {
		return KeywordMatch{Keyword: kw, Kind: MatchFuzzy, MatchedAs: as, Similarity: sim}
	}
	return KeywordMatch{Keyword: kw, Kind: MatchAbsent}
}

// fuzzyMatch compares kw against every window of the same word count and returns the most
// similar window at or above the threshold. Windows must share the first letter and have a
// comparable length, which keeps short unrelated words from matching.
func (a *Analyzer) fuzzyMatch(doc textproc.Doc, kw string) (string, float64, bool) {
	kwLen := utf8.RuneCountInString(kw)
	if kwLen < minFuzzyLen || len(doc.Words) == 0 {
		return "", 0, false
	}
	kwWords := textproc.Tokenize(kw)
	n := len(kwWords)
	if n == 0 || n > len(doc.Words) {
		return "", 0, false
	}
	tolerance := math.Max(1, float64(kwLen)*fuzzyLengthTolerance)

	bestSim, bestWindow := 0.0, ""
	for i := 0; i+n <= len(doc.Words); i++ {
		window := strings.Join(doc.Words[i:i+n], " ")
		if window[0] != kw[0] {
			continue
		}
		if math.Abs(float64(utf8.RuneCountInString(window)-kwLen)) > tolerance {
			continue
		}
		sim := textproc.EditSimilarity(kw, window)
		if sim > bestSim {
			bestSim, bestWindow = sim, window
		}
	}
	if bestSim >= a.cfg.FuzzyThreshold {
		return bestWindow, bestSim, true
	}
	return "", 0, false
}
