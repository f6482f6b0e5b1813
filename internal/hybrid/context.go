package hybrid

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/match-engine/internal/textproc"
	"github.com/jonathan/match-engine/internal/types"
)

// Profile contexts
const (
	ContextManagement = "management"
	ContextFinance    = "finance"
	ContextIT         = "it"
	ContextBanking    = "banking"
	ContextInsurance  = "insurance"
	ContextGeneral    = "general"
)

// Experience levels
const (
	LevelJunior = "junior"
	LevelMid    = "mid"
	LevelSenior = "senior"
	LevelExpert = "expert"
)

// minContextHits is the keyword count a context needs before it beats "general".
const minContextHits = 2

// contextKeywords drives the profile-context detector. It overlaps the keyword signal's sector
// taxonomy on purpose: the two detectors answer different questions and are tuned separately.
// Declaration order breaks ties.
var contextKeywords = []struct {
	context  string
	keywords []string
}{
	{ContextManagement, []string{"manager", "management", "team lead", "leadership", "director", "head of", "supervis", "strategy", "stakeholder", "budget owner", "encadrement"}},
	{ContextFinance, []string{"finance", "financial", "accounting", "audit", "controller", "ifrs", "treasury", "fp&a", "consolidation", "comptabilite"}},
	{ContextIT, []string{"developer", "software", "engineer", "programming", "devops", "cloud", "docker", "kubernetes", "sql", "api", "backend", "frontend", "python", "java", "node.js"}},
	{ContextBanking, []string{"bank", "banking", "credit", "loan", "basel", "kyc", "aml", "trading", "retail banking", "banque"}},
	{ContextInsurance, []string{"insurance", "actuar", "underwriting", "claims", "solvency", "reinsurance", "premium", "assurance"}},
}

// levelKeywords is checked top-down; the first level with a hit wins.
var levelKeywords = []struct {
	level    string
	keywords []string
}{
	{LevelExpert, []string{"expert", "principal", "chief", "head of", "vp", "cto", "architect"}},
	{LevelSenior, []string{"senior", "lead", "staff", "sr"}},
	{LevelJunior, []string{"junior", "intern", "internship", "graduate", "entry level", "trainee", "apprentice", "stagiaire", "alternance"}},
	{LevelMid, []string{"intermediate", "mid-level", "mid level", "confirmed", "confirme"}},
}

var yearsRe = regexp.MustCompile(`(\d{1,2})\s*\+?\s*(?:years?|yrs?|ans|annees)`)

// DetectProfileContext classifies a candidate text into a coarse context and experience level.
func DetectProfileContext(text string) types.ProfileContext {
	doc := textproc.NewDoc(text)

	pc := types.ProfileContext{
		Context:         ContextGeneral,
		ExperienceLevel: experienceLevel(doc),
		Counts:          make(map[string]int, len(contextKeywords)),
	}

	best := 0
	for _, c := range contextKeywords {
		n := 0
		for _, kw := range c.keywords {
			if doc.Contains(kw) {
				n++
			}
		}
		pc.Counts[c.context] = n
		if n >= minContextHits && n > best {
			pc.Context, best = c.context, n
		}
	}
	return pc
}

func experienceLevel(doc textproc.Doc) string {
	for _, l := range levelKeywords {
		for _, kw := range l.keywords {
			if hasTerm(doc, kw) {
				return l.level
			}
		}
	}

	years := -1
	for _, m := range yearsRe.FindAllStringSubmatch(doc.Text, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > years {
			years = n
		}
	}
	switch {
	case years >= 12:
		return LevelExpert
	case years >= 7:
		return LevelSenior
	case years >= 3:
		return LevelMid
	case years >= 0:
		return LevelJunior
	default:
		return LevelMid
	}
}

// hasTerm matches single words on word boundaries ("lead" must not match "leadership") and
// compound terms as substrings.
func hasTerm(doc textproc.Doc, term string) bool {
	if strings.ContainsAny(term, " -.&") {
		return doc.Contains(term)
	}
	return doc.HasWord(term)
}
