package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/match-engine/internal/config"
	"github.com/jonathan/match-engine/internal/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// isolate runs the test from an empty directory with no credentials in the environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "DATABASE_URL", "MATCH_LLM_API_KEY", "MATCH_EMBEDDING_API_KEY", "MATCH_DATABASE_URL"} {
		t.Setenv(key, "")
	}
	return dir
}

func TestScoringOptions(t *testing.T) {
	tests := []struct {
		name        string
		mode        string
		domainFocus string
		wantError   bool
		validate    func(*testing.T, *bool)
	}{
		{
			name: "defaults",
			validate: func(t *testing.T, focus *bool) {
				assert.Nil(t, focus)
			},
		},
		{
			name:        "forced focus",
			mode:        "fast",
			domainFocus: "true",
			validate: func(t *testing.T, focus *bool) {
				require.NotNil(t, focus)
				assert.True(t, *focus)
			},
		},
		{
			name:        "focus off",
			domainFocus: "false",
			validate: func(t *testing.T, focus *bool) {
				require.NotNil(t, focus)
				assert.False(t, *focus)
			},
		},
		{name: "bad focus", domainFocus: "maybe", wantError: true},
		{name: "bad mode", mode: "turbo", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := scoringOptions(tt.mode, tt.domainFocus)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, types.PerformanceMode(tt.mode), opts.Mode)
			if tt.validate != nil {
				tt.validate(t, opts.DomainFocus)
			}
		})
	}
}

func TestCandidateFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.txt", "Go developer")
	writeFile(t, dir, "a.md", "Python developer")
	writeFile(t, dir, "notes.pdf", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.txt"), 0755))

	files, err := candidateFiles([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.md"), filepath.Join(dir, "b.txt")}, files)

	explicit := []string{filepath.Join(dir, "b.txt"), filepath.Join(dir, "a.md")}
	files, err = candidateFiles(explicit)
	require.NoError(t, err)
	assert.Equal(t, explicit, files, "explicit files keep their order")

	_, err = candidateFiles([]string{t.TempDir()})
	assert.ErrorContains(t, err, "no .txt or .md files")

	_, err = candidateFiles([]string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}

func TestErrorMessages(t *testing.T) {
	joined := errors.Join(errors.New("candidate 0: empty"), errors.New("candidate 2: empty"))
	assert.Equal(t, []string{"candidate 0: empty", "candidate 2: empty"}, errorMessages(joined))
	assert.Equal(t, []string{"plain"}, errorMessages(errors.New("plain")))
}

func TestLoadProfiles(t *testing.T) {
	dir := t.TempDir()
	candPath := writeFile(t, dir, "candidate.json", `{"hard_skills": ["golang", 3], "sector": "Technology"}`)
	jobPath := writeFile(t, dir, "job.json", `{"title": "Backend Engineer", "required_skills": ["Go"], "experience": {"min_years": "five"}}`)

	cand, job, dropped, err := loadProfiles(candPath, jobPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go"}, cand.HardSkills)
	assert.Equal(t, "technology", cand.Sector)
	assert.Equal(t, "Backend Engineer", job.Title)

	fields := make([]string, len(dropped))
	for i, fe := range dropped {
		fields[i] = fe.Field
	}
	assert.Equal(t, []string{"candidate.hard_skills.1", "job.experience.min_years"}, fields)

	badPath := writeFile(t, dir, "bad.json", `[1, 2]`)
	_, _, _, err = loadProfiles(badPath, jobPath)
	assert.ErrorContains(t, err, "invalid candidate profile")

	_, _, _, err = loadProfiles(filepath.Join(dir, "missing.json"), jobPath)
	assert.ErrorContains(t, err, "failed to read candidate profile")
}

func TestNewEngine_Defaults(t *testing.T) {
	isolate(t)

	cfg := config.Defaults()
	e, err := newEngine(context.Background(), &cfg)
	require.NoError(t, err)
	defer e.Close()

	assert.Nil(t, e.client, "no LLM client without an API key")
	assert.False(t, e.embedding.Available(), "provider none leaves embeddings degraded")

	opts, err := scoringOptions("", "")
	require.NoError(t, err)
	result, err := e.aggregator.Score(context.Background(),
		"Senior Backend Developer, Node.js, PostgreSQL, Docker, 5+ years",
		"Node.js, Express, PostgreSQL, 6 years",
		opts)
	require.NoError(t, err)
	emb, ok := result.Signal(types.SignalEmbedding)
	require.True(t, ok)
	assert.True(t, emb.Degraded)
	assert.Positive(t, result.FinalScore)
}

func TestParseProfileCommand_JSON(t *testing.T) {
	dir := isolate(t)
	in := writeFile(t, dir, "job.json", `{"title": "  Data Engineer ", "required_skills": ["python", "SQL", 42]}`)
	out := filepath.Join(dir, "out.json")

	rootCmd.SetArgs([]string{"parse-profile", "--kind", "job", "--in", in, "--out", out})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var job types.JobProfile
	require.NoError(t, json.Unmarshal(data, &job))
	assert.Equal(t, "Data Engineer", job.Title)
	assert.Equal(t, []string{"Python", "SQL"}, job.RequiredSkills)
}

func TestParseProfileCommand_TextNeedsAPIKey(t *testing.T) {
	dir := isolate(t)
	in := writeFile(t, dir, "job.txt", "We are hiring a data engineer.")

	rootCmd.SetArgs([]string{"parse-profile", "--kind", "job", "--in", in, "--out", ""})
	err := rootCmd.ExecuteContext(context.Background())
	assert.ErrorContains(t, err, "API key is required")
}

func TestCLI_FlagsValidation(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantError   bool
		errorString string
	}{
		{
			name:        "score without --candidate",
			args:        []string{"score", "--job", "job.txt"},
			wantError:   true,
			errorString: "required",
		},
		{
			name:        "score-dimensions without --job",
			args:        []string{"score-dimensions", "--candidate", "c.json"},
			wantError:   true,
			errorString: "required",
		},
		{
			name:        "parse-profile with bad kind",
			args:        []string{"parse-profile", "--kind", "resume", "--in", "x.json"},
			wantError:   true,
			errorString: "must be candidate or job",
		},
	}

	binaryPath := getBinaryPath(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binaryPath, tt.args...)
			output, err := cmd.CombinedOutput()

			if tt.wantError {
				assert.Error(t, err)
				if tt.errorString != "" {
					assert.Contains(t, string(output), tt.errorString)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
