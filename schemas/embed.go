// Package schemas holds the JSON Schemas for the structured profiles and the SQL DDL of the
// result store, embedded so binaries and tests do not depend on the working directory.
package schemas

import "embed"

// Schema file names
const (
	CandidateProfile = "candidate_profile.schema.json"
	JobProfile       = "job_profile.schema.json"
)

// FS contains every *.schema.json file and the sql/ migrations.
//
//go:embed *.schema.json sql/*.sql
var FS embed.FS
