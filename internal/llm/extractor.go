// Package llm - extractor.go provides generic LLM-based structured extraction.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/match-engine/internal/prompts"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "JobProfile", "CandidateProfile")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint shown to the model
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString(prompts.MustGet("parsing.json", "extraction-rules"))
	sb.WriteString("\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// Extract runs an extraction schema against text and returns the cleaned JSON response.
func Extract(ctx context.Context, client Client, schema ExtractionSchema, text string, tier ModelTier) ([]byte, error) {
	if client == nil {
		return nil, fmt.Errorf("no LLM client configured")
	}
	resp, err := client.GenerateJSON(ctx, BuildExtractionPrompt(schema, text), tier)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", schema.Name, err)
	}
	return []byte(CleanJSONBlock(resp)), nil
}

// --- Predefined Schemas ---

const (
	experienceHint = `{"total_years": number, "relevant_years": number, "seniority": "string", "companies": [{"name": "string", "type": "string", "sector": "string"}], "positions": ["string"]}`
	educationHint  = `{"level": "string", "diploma": "string", "field": "string", "specializations": ["string"]}`
	languagesHint  = `[{"name": "string", "level": "string"}]`
	cultureHint    = `{"values": ["string"], "environment": ["string"], "aspirations": ["string"]}`
	mobilityHint   = `{"locations": ["string"], "remote": bool, "willing_to_relocate": bool}`
)

// CandidateProfileSchema returns the extraction schema for resumes.
func CandidateProfileSchema() ExtractionSchema {
	return ExtractionSchema{
		Name:        "CandidateProfile",
		Description: prompts.MustGet("parsing.json", "extract-candidate-profile"),
		Fields: []SchemaField{
			{Name: "name", Type: `"string"`, Description: "Candidate full name"},
			{Name: "sector", Type: `"string"`, Description: "Main professional sector"},
			{Name: "hard_skills", Type: `["string"]`, Description: "Technical skills, tools, methods", Required: true},
			{Name: "soft_skills", Type: `["string" | {"name": "string", "examples": ["string"], "validated": bool}]`, Description: "Interpersonal skills"},
			{Name: "experience", Type: experienceHint, Required: true},
			{Name: "education", Type: educationHint, Description: "level as written, e.g. Bac+5, master, phd"},
			{Name: "languages", Type: languagesHint},
			{Name: "culture", Type: cultureHint, Description: "Values, preferred environment, career aspirations"},
			{Name: "mobility", Type: mobilityHint},
		},
	}
}

// JobProfileSchema returns the extraction schema for job postings.
func JobProfileSchema() ExtractionSchema {
	return ExtractionSchema{
		Name:        "JobProfile",
		Description: prompts.MustGet("parsing.json", "extract-job-profile"),
		Fields: []SchemaField{
			{Name: "title", Type: `"string"`, Required: true},
			{Name: "company", Type: `"string"`},
			{Name: "sector", Type: `"string"`, Description: "Sector of the hiring company"},
			{Name: "required_skills", Type: `["string"]`, Description: "Mandatory technical skills", Required: true},
			{Name: "preferred_skills", Type: `["string"]`, Description: "Nice-to-have technical skills"},
			{Name: "soft_skills", Type: `["string"]`},
			{Name: "experience", Type: `{"min_years": number, "max_years": number, "seniority": "string", "company_types": ["string"]}`},
			{Name: "education", Type: `{"level": "string", "diploma": "string", "fields": ["string"], "specializations": ["string"]}`},
			{Name: "languages", Type: languagesHint},
			{Name: "culture", Type: cultureHint},
			{Name: "mobility", Type: mobilityHint},
		},
	}
}
