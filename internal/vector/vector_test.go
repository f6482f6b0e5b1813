package vector

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/match-engine/internal/types"
)

const (
	scenarioJob       = "Senior Backend Developer, Node.js, PostgreSQL, Docker, 5+ years"
	scenarioCandidate = "Node.js, Express, PostgreSQL, 6 years"
)

func TestAnalyze_IdenticalTexts(t *testing.T) {
	a := Analyze("distributed systems engineering with kubernetes", "distributed systems engineering with kubernetes")
	assert.InDelta(t, 100.0, a.Score, 1e-6)
	assert.NotEmpty(t, a.CommonTerms)
}

func TestAnalyze_ScenarioA(t *testing.T) {
	a := Analyze(scenarioJob, scenarioCandidate)
	assert.Greater(t, a.Score, 0.0)
	assert.LessOrEqual(t, a.Score, 100.0)
	assert.Contains(t, a.CommonTerms, "postgresql")
	assert.Contains(t, a.CommonTerms, "node")
}

func TestAnalyze_DisjointVocabulary(t *testing.T) {
	a := Analyze(
		"Whisk the eggs with sugar, fold in flour and bake the cake for forty minutes",
		"The licensee shall indemnify the licensor against any liability arising under this agreement",
	)
	assert.Equal(t, 0.0, a.Score)
	assert.Empty(t, a.CommonTerms)
}

func TestAnalyze_EmptyCandidate(t *testing.T) {
	a := Analyze(scenarioJob, "")
	assert.Equal(t, 0.0, a.Score)
	assert.Empty(t, a.JobVector)
	assert.Empty(t, a.CandVector)
	assert.Empty(t, a.Vocabulary)
}

func TestAnalyze_WordOrderInvariance(t *testing.T) {
	job := "golang microservices kafka postgresql observability kubernetes"
	cand := "kubernetes operators golang services postgresql tuning"
	shuffled := "tuning postgresql services golang operators kubernetes"

	a := Analyze(job, cand)
	b := Analyze(job, shuffled)
	assert.InDelta(t, a.Score, b.Score, 1e-9)
}

func TestAnalyze_VocabularySortedAndNormalized(t *testing.T) {
	a := Analyze("zeta alpha gamma", "alpha beta")
	require.NotEmpty(t, a.Vocabulary)
	for i := 1; i < len(a.Vocabulary); i++ {
		assert.Less(t, a.Vocabulary[i-1], a.Vocabulary[i])
	}

	var norm float64
	for _, x := range a.JobVector {
		norm += x * x
	}
	assert.InDelta(t, 1.0, norm, 1e-9)
}

func TestAnalyze_CommonTermsBounded(t *testing.T) {
	words := []string{"apple", "banana", "cherry", "damson", "elderberry", "feijoa", "guava",
		"huckleberry", "jackfruit", "kiwano", "lychee", "mango", "nectarine"}
	text := strings.Join(words, " ")
	a := Analyze(text, text)
	assert.Len(t, a.CommonTerms, maxCommonTerms)
}

func TestIDF(t *testing.T) {
	a := map[string]float64{"x": 1, "y": 1}
	b := map[string]float64{"x": 1}
	assert.InDelta(t, 0.6931, idf("x", a, b), 1e-4)
	assert.InDelta(t, 1.0986, idf("y", a, b), 1e-4)
	assert.Equal(t, 0.0, idf("z", a, b))
}

func TestScore_Signal(t *testing.T) {
	res := Score(scenarioJob, scenarioCandidate)
	assert.Equal(t, types.SignalVector, res.Signal)
	assert.Greater(t, res.Score, 0.0)
	assert.Contains(t, res.Metadata, "vocabulary_size")

	empty := Score("", "anything here")
	assert.Equal(t, 0.0, empty.Score)
	assert.NotEmpty(t, empty.Reason)
}
