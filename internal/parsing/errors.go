package parsing

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ExtractionError reports that the LLM could not turn text into a profile document.
type ExtractionError struct {
	Schema string
	Cause  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract %s: %v", e.Schema, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// DecodeError reports a profile document that is not usable JSON. Offset is the byte offset
// of a syntax error, or -1.
type DecodeError struct {
	Message string
	Offset  int64
	Cause   error
}

func newDecodeError(msg string, err error) *DecodeError {
	de := &DecodeError{Message: msg, Offset: -1, Cause: err}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		de.Offset = syntaxErr.Offset
	}
	return de
}

func (e *DecodeError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset %d: %v", e.Message, e.Offset, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}
