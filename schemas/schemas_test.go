package schemas_test

import (
	"encoding/json"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/match-engine/schemas"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	files, err := fs.Glob(schemas.FS, "*.schema.json")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{schemas.CandidateProfile, schemas.JobProfile}, files)

	for _, schemaFile := range files {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := schemas.FS.ReadFile(schemaFile)
			require.NoError(t, err, "should be able to read schema file")

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file should be valid JSON")
			assert.Equal(t, "object", schemaObj["type"])
			assert.Contains(t, schemaObj, "properties")
		})
	}
}

func TestSchemaFiles_Compile(t *testing.T) {
	for _, schemaFile := range []string{schemas.CandidateProfile, schemas.JobProfile} {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := schemas.FS.ReadFile(schemaFile)
			require.NoError(t, err)

			_, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
			assert.NoError(t, err, "internal $refs should resolve")
		})
	}
}

func TestSQLMigrations_Present(t *testing.T) {
	files, err := fs.Glob(schemas.FS, "sql/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	data, err := schemas.FS.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "CREATE TABLE IF NOT EXISTS hybrid_results")
	assert.Contains(t, string(data), "CREATE TABLE IF NOT EXISTS dimensional_scores")
}
