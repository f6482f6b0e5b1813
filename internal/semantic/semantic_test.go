package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/match-engine/internal/types"
)

const (
	recipeText   = "Whisk the eggs with sugar, fold in flour and bake the cake for forty minutes"
	contractText = "The licensee shall indemnify the licensor against any liability arising under this agreement"
)

func TestExtract(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	ext := a.Extract("Risk Manager for Solvency II compliance at an insurance group, leading a team of actuaries using Python")

	assert.Contains(t, ext.Terms[CategoryRegulatory], "compliance")
	assert.Contains(t, ext.Terms[CategoryRegulatory], "solvency ii")
	assert.Contains(t, ext.Terms[CategoryInsurance], "insurance")
	assert.Contains(t, ext.Terms[CategoryRisk], "risk")
	assert.Contains(t, ext.Terms[CategoryManagement], "manager")
	assert.Contains(t, ext.Terms[CategoryTechnology], "python")
	assert.Contains(t, ext.Entities, "solvency")
	assert.NotContains(t, ext.Entities, "for", "short tokens are never entities")
}

func TestExtract_ShortTermsNeedWordBoundary(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	ext := a.Extract("capital gitlab")
	assert.NotContains(t, ext.Terms[CategoryTechnology], "api")
	assert.NotContains(t, ext.Terms[CategoryTechnology], "git")
}

func TestExtract_EntitiesNeedCapitalOrDot(t *testing.T) {
	ext := NewAnalyzer(DefaultConfig()).Extract("worked with kubernetes and node.js on payment systems")
	assert.Equal(t, []string{"node.js"}, ext.Entities)
}

func TestExtract_EntitiesCapped(t *testing.T) {
	ext := NewAnalyzer(DefaultConfig()).Extract(
		"Alpha Bravo Charlie Delta Echo Foxtrot Golf Hotel India Juliet Kilo Lima Mike November")
	assert.Len(t, ext.Entities, maxEntities)
	assert.Equal(t, "alpha", ext.Entities[0])
}

func TestAnalyze_ScenarioA(t *testing.T) {
	r := NewAnalyzer(DefaultConfig()).Analyze(
		"Senior Backend Developer, Node.js, PostgreSQL, Docker, 5+ years",
		"Node.js, Express, PostgreSQL, 6 years",
	)

	assert.Greater(t, r.Score, 0.0)
	assert.Contains(t, r.MatchedTerms, "node.js")
	assert.Contains(t, r.MatchedTerms, "postgresql")
	assert.NotContains(t, r.MissingCompetencies, "node.js")
	assert.NotContains(t, r.MissingCompetencies, "postgresql")
	assert.NotEmpty(t, r.MissingCompetencies)
	assert.InDelta(t, 100.0, r.DomainAlignment, 1e-9)
}

func TestAnalyze_ScenarioB_Disjoint(t *testing.T) {
	r := NewAnalyzer(DefaultConfig()).Analyze(contractText, recipeText)

	assert.Equal(t, 0.0, r.Score)
	assert.NotEmpty(t, r.MissingCompetencies)
	assert.Contains(t, r.MissingByCategory[CategoryRegulatory], "liability")
}

func TestAnalyze_MissingCompetenciesBounded(t *testing.T) {
	job := "Compliance, GDPR, contract law, legal clauses; insurance underwriting, claims, actuarial; " +
		"credit risk, fraud, stress testing; Python, Docker, Kubernetes; strategy, leadership, planning; " +
		"accounting, IFRS, treasury"
	r := NewAnalyzer(DefaultConfig()).Analyze(job, "cooking")

	assert.Len(t, r.MissingCompetencies, maxMissingCompetencies)
	for cat, terms := range r.MissingByCategory {
		assert.LessOrEqual(t, len(terms), missingPerCategory, string(cat))
	}
}

func TestAnalyze_FuzzyCompetencyMatch(t *testing.T) {
	a := NewAnalyzer(DefaultConfig())
	assert.True(t, a.hasSimilar("kubernetes", []string{"kubernets"}))
	assert.True(t, a.hasSimilar("risk", []string{"credit risk"}))
	assert.False(t, a.hasSimilar("python", []string{"java"}))
}

func TestSkillDepth(t *testing.T) {
	even := Extraction{Terms: map[Category][]string{}}
	for _, c := range Categories {
		even.Terms[c] = []string{"x"}
	}
	assert.InDelta(t, 100.0, skillDepth(even), 1e-9)

	single := Extraction{Terms: map[Category][]string{CategoryTechnology: {"a", "b"}}}
	assert.InDelta(t, 100.0/6.0, skillDepth(single), 1e-9)

	assert.Equal(t, 0.0, skillDepth(Extraction{Terms: map[Category][]string{}}))
}

func TestAnalyze_ExperienceRelevanceCapped(t *testing.T) {
	r := NewAnalyzer(DefaultConfig()).Analyze(
		"Python developer",
		"Python, Docker, Kubernetes, AWS, risk management, accounting, compliance",
	)
	assert.Equal(t, 100.0, r.ExperienceRelevance)
	assert.LessOrEqual(t, r.Score, 100.0)
}

func TestScore_Signal(t *testing.T) {
	res := NewAnalyzer(DefaultConfig()).Score("Python developer, risk management", "Python engineer in risk")
	require.Equal(t, types.SignalSemantic, res.Signal)
	assert.Contains(t, res.Metadata, MetaCategoriesCovered)
	assert.GreaterOrEqual(t, res.Score, 0.0)
	assert.LessOrEqual(t, res.Score, 100.0)
}
