package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDocument_ValidCandidate(t *testing.T) {
	doc := `{
		"name": "Jane",
		"hard_skills": ["Go", "PostgreSQL"],
		"soft_skills": ["communication", {"name": "leadership", "examples": ["led a team of 5"], "validated": true}],
		"experience": {"total_years": 6, "relevant_years": 4, "companies": [{"name": "Acme", "type": "startup"}]},
		"education": {"level": "Bac+5", "specializations": ["distributed systems"]},
		"languages": [{"name": "English", "level": "C1"}]
	}`
	assert.NoError(t, ValidateDocument(CandidateProfile, []byte(doc)))
}

func TestValidateDocument_EmptyObjectIsValid(t *testing.T) {
	assert.NoError(t, ValidateDocument(CandidateProfile, []byte(`{}`)))
	assert.NoError(t, ValidateDocument(JobProfile, []byte(`{}`)))
}

func TestValidateDocument_WrongTypes(t *testing.T) {
	doc := `{"required_skills": "Go", "experience": {"min_years": -2}, "soft_skills": [42]}`

	err := ValidateDocument(JobProfile, []byte(doc))
	require.Error(t, err)

	validationErr, ok := AsValidationError(err)
	require.True(t, ok, "error should be ValidationError type")

	fields := map[string]bool{}
	for _, fe := range validationErr.Errors {
		fields[fe.Field] = true
	}
	assert.True(t, fields["required_skills"])
	assert.True(t, fields["experience.min_years"])
	assert.True(t, fields["soft_skills.0"])
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidateDocument_NotAnObject(t *testing.T) {
	err := ValidateDocument(CandidateProfile, []byte(`["Go"]`))
	validationErr, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
	assert.Nil(t, validationErr.Errors[0].Path())
}

func TestValidateDocument_MalformedJSON(t *testing.T) {
	err := ValidateDocument(CandidateProfile, []byte(`{"name":`))
	require.Error(t, err)
	_, ok := AsValidationError(err)
	assert.False(t, ok)
}

func TestValidateDocument_UnknownSchema(t *testing.T) {
	err := ValidateDocument("missing.schema.json", []byte(`{}`))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "schema not found")
}

func TestValidateValue(t *testing.T) {
	assert.NoError(t, ValidateValue(CandidateProfile, map[string]any{"hard_skills": []any{"Go"}}))
	assert.Error(t, ValidateValue(CandidateProfile, map[string]any{"hard_skills": []any{1.0}}))
}

func TestFieldError_Path(t *testing.T) {
	assert.Equal(t, []string{"experience", "companies", "1", "name"}, FieldError{Field: "experience.companies.1.name"}.Path())
}
