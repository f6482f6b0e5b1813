// Package schemas validates structured documents against the embedded JSON Schemas.
package schemas

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	rootschemas "github.com/jonathan/match-engine/schemas"
)

// Schema names
const (
	CandidateProfile = rootschemas.CandidateProfile
	JobProfile       = rootschemas.JobProfile
)

const rootField = "(root)"

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string // dotted path, e.g. "experience.total_years" or "hard_skills.2"
	Type    string // gojsonschema error type, e.g. "invalid_type"
	Message string
}

// Path splits Field into its segments. It is empty for document-level errors.
func (fe FieldError) Path() []string {
	if fe.Field == "" || fe.Field == rootField {
		return nil
	}
	return strings.Split(fe.Field, ".")
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

var (
	compiledMu sync.Mutex
	compiled   = map[string]*gojsonschema.Schema{}
)

// Compile loads and compiles an embedded schema. Compiled schemas are reused.
func Compile(name string) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if s, ok := compiled[name]; ok {
		return s, nil
	}
	data, err := rootschemas.FS.ReadFile(name)
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "schema not found", Cause: err}
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "schema does not compile", Cause: err}
	}
	compiled[name] = s
	return s, nil
}

// ValidateDocument validates raw JSON against the named embedded schema.
func ValidateDocument(name string, doc []byte) error {
	return validate(name, gojsonschema.NewBytesLoader(doc))
}

// ValidateValue validates an already decoded value (maps, slices, scalars) against the named schema.
func ValidateValue(name string, v any) error {
	return validate(name, gojsonschema.NewGoLoader(v))
}

func validate(name string, doc gojsonschema.JSONLoader) error {
	s, err := Compile(name)
	if err != nil {
		return err
	}
	result, err := s.Validate(doc)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	return fromResult(result)
}

func fromResult(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	// Build structured error
	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = rootField
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Type:    desc.Type(),
			Message: desc.Description(),
		})
	}

	return validationErr
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}
