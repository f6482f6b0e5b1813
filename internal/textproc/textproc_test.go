package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/match-engine/internal/types"
)

func TestNormalizeAndFold(t *testing.T) {
	assert.Equal(t, "expérience", Normalize("EXPÉRIENCE"))
	assert.Equal(t, "experience", Fold("EXPÉRIENCE"))
	assert.Equal(t, "fi", Normalize("ﬁ"))
}

func TestStripSpecial(t *testing.T) {
	assert.Equal(t, "node js postgresql 5 years", StripSpecial("node.js, postgresql (5+ years)!"))
	assert.Equal(t, "", StripSpecial("?!..."))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héll", Truncate("héllo", 4))
	assert.Equal(t, "héllo", Truncate("héllo", 10))
	assert.Equal(t, "héllo", Truncate("héllo", 0))
}

func TestTokenize_DropsPunctuationAndSpaces(t *testing.T) {
	tokens := Tokenize("Hello, world! Go is great.")
	assert.Equal(t, []string{"Hello", "world", "Go", "is", "great"}, tokens)
}

func TestPreprocess(t *testing.T) {
	tokens := Preprocess("The developers are developing 12 scalable APIs in Go", LangEnglish)

	assert.NotContains(t, tokens, "the")
	assert.NotContains(t, tokens, "12")
	assert.NotContains(t, tokens, "go", "tokens under three runes are dropped")
	assert.Contains(t, tokens, "develop")
	assert.Contains(t, tokens, "api")
}

func TestPreprocess_Empty(t *testing.T) {
	assert.Empty(t, Preprocess("", LangEnglish))
	assert.Empty(t, Preprocess("the and of", LangEnglish))
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, LangFrench, DetectLanguage("Nous cherchons un développeur pour notre équipe avec des compétences"))
	assert.Equal(t, LangSpanish, DetectLanguage("Buscamos un desarrollador con experiencia para nuestro equipo y también"))
	assert.Equal(t, LangEnglish, DetectLanguage("We are looking for a developer with experience"))
	assert.Equal(t, LangEnglish, DetectLanguage(""))
}

func TestStem_UnknownLanguageReturnsWord(t *testing.T) {
	assert.Equal(t, "running", Stem("running", Language("klingon")))
	assert.Equal(t, "run", Stem("running", LangEnglish))
}

func TestEditSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, EditSimilarity("", ""))
	assert.Equal(t, 1.0, EditSimilarity("kubernetes", "kubernetes"))
	assert.InDelta(t, 0.5, EditSimilarity("abcd", "abxy"), 1e-9)
	assert.Equal(t, 0.0, EditSimilarity("abc", ""))
}

func TestCosine(t *testing.T) {
	sim, err := Cosine([]float64{1, 0}, []float64{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-9)

	sim, err = Cosine([]float64{1, 0}, []float64{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, sim, 1e-9)

	_, err = Cosine([]float64{0, 0}, []float64{1, 0})
	assert.ErrorIs(t, err, types.ErrZeroVector)

	_, err = Cosine([]float64{1}, []float64{1, 0})
	assert.Error(t, err)
}

func TestCosine32(t *testing.T) {
	sim, err := Cosine32([]float32{1, 1}, []float32{2, 2})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-6)

	_, err = Cosine32([]float32{0}, []float32{0})
	assert.ErrorIs(t, err, types.ErrZeroVector)
}

func TestJaccard(t *testing.T) {
	assert.InDelta(t, 1.0/3.0, Jaccard([]string{"Innovation", "Teamwork"}, []string{"innovation", "autonomy"}), 1e-9)
	assert.Equal(t, 1.0, Jaccard([]string{"Équipe"}, []string{"equipe "}))
	assert.Equal(t, 0.0, Jaccard(nil, nil))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-5, 0, 100))
	assert.Equal(t, 100.0, Clamp(150, 0, 100))
	assert.Equal(t, 42.0, Clamp(42, 0, 100))
	assert.Equal(t, 12.35, Round2(12.345678))
}

func TestDoc_Contains(t *testing.T) {
	d := NewDoc("Capital Markets, REST API design and Machine Learning")

	assert.True(t, d.Contains("api"))
	assert.False(t, d.Contains("pit"), "short terms only match whole words")
	assert.True(t, d.Contains("machine learning"))
	assert.True(t, d.Contains("capit"))
	assert.False(t, d.Contains(""))
	assert.True(t, d.HasWord("rest"))
	assert.False(t, d.Empty())
	assert.True(t, NewDoc("  ...  ").Empty())
}
