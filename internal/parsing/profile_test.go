package parsing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/match-engine/internal/schemas"
	"github.com/jonathan/match-engine/internal/types"
)

func droppedFields(dropped []schemas.FieldError) []string {
	out := make([]string, len(dropped))
	for i, fe := range dropped {
		out[i] = fe.Field
	}
	return out
}

func TestParseCandidateProfile(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantError   bool
		wantDropped []string
		validate    func(*testing.T, *types.CandidateProfile)
	}{
		{
			name: "Valid profile",
			input: `{
				"name": "Ada Lovelace",
				"sector": "Information Technology",
				"hard_skills": ["golang", "PostgreSQL"],
				"soft_skills": ["Leadership", {"name": "Communication", "examples": ["ran weekly demos"]}],
				"experience": {"total_years": 8, "relevant_years": 6, "seniority": "Senior"},
				"languages": [{"name": "English", "level": "C1"}]
			}`,
			validate: func(t *testing.T, p *types.CandidateProfile) {
				assert.Equal(t, "Ada Lovelace", p.Name)
				assert.Equal(t, "information_technology", p.Sector)
				assert.Equal(t, []string{"Go", "PostgreSQL"}, p.HardSkills)
				require.Len(t, p.SoftSkills, 2)
				assert.Equal(t, types.SoftSkillDetailed, p.SoftSkills[1].Kind)
				assert.Equal(t, 6.0, p.Experience.RelevantYears)
				assert.Equal(t, "senior", p.Experience.Seniority)
			},
		},
		{
			name: "Invalid fields are defaulted",
			input: `{
				"name": "Ada",
				"hard_skills": ["golang", 42, "k8s", "Go"],
				"soft_skills": ["Leadership", 7],
				"experience": {"total_years": 8, "relevant_years": -2, "seniority": 5},
				"languages": [{"level": "B2"}, {"name": "English", "level": "C1"}]
			}`,
			wantDropped: []string{
				"hard_skills.1",
				"soft_skills.1",
				"experience.relevant_years",
				"experience.seniority",
				"languages.0",
			},
			validate: func(t *testing.T, p *types.CandidateProfile) {
				assert.Equal(t, []string{"Go", "Kubernetes"}, p.HardSkills)
				require.Len(t, p.SoftSkills, 1)
				assert.Equal(t, "Leadership", p.SoftSkills[0].Name)
				assert.Equal(t, 8.0, p.Experience.TotalYears)
				assert.Zero(t, p.Experience.RelevantYears)
				assert.Empty(t, p.Experience.Seniority)
				assert.Equal(t, []types.Language{{Name: "English", Level: "C1"}}, p.Languages)
			},
		},
		{
			name:  "Empty object gives an empty profile",
			input: `{}`,
			validate: func(t *testing.T, p *types.CandidateProfile) {
				assert.Empty(t, p.HardSkills)
				assert.NotNil(t, p.HardSkills)
				assert.Zero(t, p.Experience.TotalYears)
			},
		},
		{
			name:      "Not JSON",
			input:     `{"name": `,
			wantError: true,
		},
		{
			name:      "Not an object",
			input:     `["Go", "Docker"]`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, dropped, err := ParseCandidateProfile([]byte(tt.input))
			if tt.wantError {
				assert.Error(t, err)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, p)
			if tt.wantDropped != nil {
				assert.ElementsMatch(t, tt.wantDropped, droppedFields(dropped))
			} else {
				assert.Empty(t, dropped)
			}
			if tt.validate != nil {
				tt.validate(t, p)
			}
		})
	}
}

func TestParseCandidateProfile_ErrorTypes(t *testing.T) {
	_, _, err := ParseCandidateProfile([]byte(`not json`))
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.GreaterOrEqual(t, decodeErr.Offset, int64(0))
	assert.Contains(t, err.Error(), "at offset")

	_, _, err = ParseCandidateProfile([]byte(`"just a string"`))
	var validationErr *types.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "profile", validationErr.Field)
}

func TestParseJobProfile(t *testing.T) {
	p, dropped, err := ParseJobProfile([]byte(`{
		"title": " Backend Engineer ",
		"sector": "Technology",
		"required_skills": ["nodejs", "Docker", null],
		"preferred_skills": "Kubernetes",
		"experience": {"min_years": 7, "max_years": 3, "company_types": ["startup"]},
		"education": {"level": "Bac+5", "fields": ["Computer Science"]}
	}`))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"required_skills.2", "preferred_skills"}, droppedFields(dropped))
	assert.Equal(t, "Backend Engineer", p.Title)
	assert.Equal(t, "technology", p.Sector)
	assert.Equal(t, []string{"Node.js", "Docker"}, p.RequiredSkills)
	assert.Empty(t, p.PreferredSkills)
	assert.Equal(t, 3.0, p.Experience.MinYears)
	assert.Equal(t, 7.0, p.Experience.MaxYears)
	assert.Equal(t, "Bac+5", p.Education.Level)
}

func TestPruneAndCompact(t *testing.T) {
	doc := map[string]any{
		"a": []any{"x", 1.0, "y", 2.0},
		"b": map[string]any{"c": "keep", "d": "drop"},
	}

	assert.True(t, prune(doc, []string{"a", "1"}))
	assert.True(t, prune(doc, []string{"a", "3"}))
	assert.True(t, prune(doc, []string{"b", "d"}))
	assert.False(t, prune(doc, []string{"b", "missing"}))
	assert.False(t, prune(doc, []string{"a", "9"}))
	assert.False(t, prune(doc, nil))

	compact(doc)

	assert.Equal(t, []any{"x", "y"}, doc["a"])
	assert.Equal(t, map[string]any{"c": "keep"}, doc["b"])
}
