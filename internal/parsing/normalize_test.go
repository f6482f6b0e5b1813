package parsing

import (
	"testing"

	"github.com/jonathan/match-engine/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeSkillName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Golang to Go", "Golang", "Go"},
		{"golang to Go", "golang", "Go"},
		{"GOLANG to Go", "GOLANG", "Go"},
		{"go lang to Go", "go lang", "Go"},
		{"JavaScript normalization", "javascript", "JavaScript"},
		{"JS to JavaScript", "js", "JavaScript"},
		{"JS to JavaScript uppercase", "JS", "JavaScript"},
		{"TypeScript normalization", "typescript", "TypeScript"},
		{"TS to TypeScript", "ts", "TypeScript"},
		{"K8s to Kubernetes", "k8s", "Kubernetes"},
		{"Kubernetes stays Kubernetes", "Kubernetes", "Kubernetes"},
		{"react.js to React", "react.js", "React"},
		{"reactjs to React", "reactjs", "React"},
		{"vue.js to Vue", "vue.js", "Vue"},
		{"node.js stays node.js", "node.js", "Node.js"},
		{"nodejs to Node.js", "nodejs", "Node.js"},
		{"Python stays Python", "Python", "Python"},
		{"python to Python", "python", "Python"},
		{"PYTHON to Python", "PYTHON", "Python"},
		{"Empty string", "", ""},
		{"Whitespace only", "   ", ""},
		{"Multi-word stays as-is", "Distributed Systems", "Distributed Systems"},
		{"Already normalized", "Go", "Go"},
		{"Mixed case single word", "JavaScript", "JavaScript"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeSkillName(tt.input)
			assert.Equal(t, tt.expected, result, "should normalize skill name correctly")
		})
	}
}

func TestNormalizeSkills(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"Canonicalizes names", []string{"golang", "javascript"}, []string{"Go", "JavaScript"}},
		{"Deduplicates after normalization", []string{"Go", "Golang", "go lang"}, []string{"Go"}},
		{"Drops empty entries", []string{"", "  ", "Docker"}, []string{"Docker"}},
		{"Keeps first occurrence order", []string{"k8s", "Docker", "kubernetes"}, []string{"Kubernetes", "Docker"}},
		{"Nil input", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeSkills(tt.input))
		})
	}
}

func TestNormalizeSoftSkills_DetailedWins(t *testing.T) {
	in := []types.SoftSkill{
		types.SimpleSoftSkill("Leadership"),
		{Name: "  "},
		types.DetailedSoftSkill("leadership", []string{"led a team of 6"}, true),
		{Name: "Rigor"},
	}

	out := NormalizeSoftSkills(in)

	assert.Len(t, out, 2)
	assert.Equal(t, types.SoftSkillDetailed, out[0].Kind)
	assert.Equal(t, []string{"led a team of 6"}, out[0].Examples)
	assert.Equal(t, types.SoftSkillSimple, out[1].Kind, "missing kind defaults to simple")
}

func TestNormalizeSector(t *testing.T) {
	assert.Equal(t, "information_technology", NormalizeSector("Information Technology"))
	assert.Equal(t, "sante", NormalizeSector("Santé"))
	assert.Equal(t, "banking_insurance", NormalizeSector("Banking / Insurance"))
	assert.Equal(t, "", NormalizeSector(""))
}

func TestNormalizeCandidate(t *testing.T) {
	p := &types.CandidateProfile{
		Name:       "  Ada  ",
		HardSkills: []string{"golang", "Go", "k8s"},
		Experience: types.CandidateExperience{
			TotalYears:    4,
			RelevantYears: 9,
			Seniority:     "Senior",
			Companies:     []types.Company{{Name: " Acme ", Type: "Startup"}, {}},
			Positions:     []string{"Engineer", "engineer", ""},
		},
		Languages: []types.Language{{Name: "English"}, {Name: "english"}, {Name: ""}},
	}

	NormalizeCandidate(p)

	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, []string{"Go", "Kubernetes"}, p.HardSkills)
	assert.Equal(t, 4.0, p.Experience.RelevantYears, "relevant years are capped by total years")
	assert.Equal(t, "senior", p.Experience.Seniority)
	assert.Equal(t, []types.Company{{Name: "Acme", Type: "startup"}}, p.Experience.Companies)
	assert.Equal(t, []string{"Engineer"}, p.Experience.Positions)
	assert.Len(t, p.Languages, 1)
	assert.NotNil(t, p.SoftSkills)
	assert.NotNil(t, p.Culture.Values)

	NormalizeCandidate(nil)
}

func TestNormalizeJob(t *testing.T) {
	p := &types.JobProfile{
		Title:          " Backend Engineer ",
		RequiredSkills: []string{"nodejs", "Node.js"},
		Experience:     types.ExperienceRequirement{MinYears: 8, MaxYears: 3},
	}

	NormalizeJob(p)

	assert.Equal(t, "Backend Engineer", p.Title)
	assert.Equal(t, []string{"Node.js"}, p.RequiredSkills)
	assert.Equal(t, 3.0, p.Experience.MinYears)
	assert.Equal(t, 8.0, p.Experience.MaxYears)
	assert.NotNil(t, p.PreferredSkills)
}
