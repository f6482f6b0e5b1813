package prompts

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	prompt, err := Get("parsing.json", "extract-job-profile")
	require.NoError(t, err)
	assert.Contains(t, prompt, "Extract structured information from the job posting")

	_, err = Get("nonexistent.json", "some-key")
	assert.ErrorContains(t, err, "not found")

	_, err = Get("parsing.json", "nonexistent-key")
	assert.ErrorContains(t, err, `prompt key "nonexistent-key" not found`)
}

func TestMustGet(t *testing.T) {
	assert.Panics(t, func() { MustGet("education.json", "missing") })
	assert.NotPanics(t, func() {
		assert.NotEmpty(t, MustGet("parsing.json", "extraction-rules"))
	})
}

func TestRender_DiplomaEquivalence(t *testing.T) {
	prompt, err := Render("education.json", "diploma-equivalence", map[string]string{
		"Candidate": "Master 2 Finance",
		"Required":  "Bac+5",
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "Candidate diploma: Master 2 Finance")
	assert.Contains(t, prompt, "Required diploma: Bac+5")
	assert.NotContains(t, prompt, "{{")
}

func TestRender_MissingField(t *testing.T) {
	_, err := Render("education.json", "diploma-equivalence", map[string]string{"Candidate": "BTS"})
	assert.ErrorContains(t, err, "failed to render prompt")
}

func TestList(t *testing.T) {
	keys, err := List("parsing.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"extract-candidate-profile", "extract-job-profile", "extraction-rules"}, keys)

	_, err = List("nonexistent.json")
	assert.Error(t, err)
}

func TestParseLibrary(t *testing.T) {
	lib, err := parseLibrary(fstest.MapFS{
		"a.json": {Data: []byte(`{"greet": "hello {{.Name}}"}`)},
		"b.txt":  {Data: []byte("ignored")},
	})
	require.NoError(t, err)
	assert.Len(t, lib, 1)
	assert.Equal(t, "hello {{.Name}}", lib["a.json"]["greet"])

	_, err = parseLibrary(fstest.MapFS{"bad.json": {Data: []byte(`["not", "an", "object"]`)}})
	assert.ErrorContains(t, err, "failed to parse prompt file bad.json")
}
