// Package parsing is the boundary between loosely typed extraction output and the scoring core.
// Profiles are validated against the embedded JSON Schemas; fields that fail validation are
// dropped so they take their defaults, and the result is normalized.
package parsing

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jonathan/match-engine/internal/schemas"
	"github.com/jonathan/match-engine/internal/types"
)

// maxPrunePasses bounds how many validate-and-prune rounds a document gets. Pruning a field can
// only remove data, so a handful of passes always converges for these schemas.
const maxPrunePasses = 4

// ParseCandidateProfile validates, repairs, decodes and normalizes a candidate profile document.
// The returned field errors list what was dropped and defaulted.
func ParseCandidateProfile(data []byte) (*types.CandidateProfile, []schemas.FieldError, error) {
	var p types.CandidateProfile
	dropped, err := parseDocument(schemas.CandidateProfile, data, &p)
	if err != nil {
		return nil, dropped, err
	}
	NormalizeCandidate(&p)
	return &p, dropped, nil
}

// ParseJobProfile validates, repairs, decodes and normalizes a job profile document.
func ParseJobProfile(data []byte) (*types.JobProfile, []schemas.FieldError, error) {
	var p types.JobProfile
	dropped, err := parseDocument(schemas.JobProfile, data, &p)
	if err != nil {
		return nil, dropped, err
	}
	NormalizeJob(&p)
	return &p, dropped, nil
}

func parseDocument(schema string, data []byte, out any) ([]schemas.FieldError, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, newDecodeError("profile is not valid JSON", err)
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, &types.ValidationError{Field: "profile", Message: "profile must be a JSON object"}
	}

	dropped, err := repair(schema, obj)
	if err != nil {
		return dropped, err
	}

	cleaned, err := json.Marshal(obj)
	if err != nil {
		return dropped, newDecodeError("failed to re-encode profile", err)
	}
	if err := json.Unmarshal(cleaned, out); err != nil {
		return dropped, newDecodeError("failed to decode profile", err)
	}
	return dropped, nil
}

// repair validates obj and removes every invalid field until the document validates.
func repair(schema string, obj map[string]any) ([]schemas.FieldError, error) {
	var dropped []schemas.FieldError
	for pass := 0; pass < maxPrunePasses; pass++ {
		err := schemas.ValidateValue(schema, obj)
		if err == nil {
			return dropped, nil
		}
		ve, ok := schemas.AsValidationError(err)
		if !ok {
			return dropped, fmt.Errorf("failed to validate profile: %w", err)
		}

		progress := false
		seen := make(map[string]struct{}, len(ve.Errors))
		for _, fe := range ve.Errors {
			if _, dup := seen[fe.Field]; dup {
				continue
			}
			seen[fe.Field] = struct{}{}
			if prune(obj, fe.Path()) {
				dropped = append(dropped, fe)
				progress = true
			}
		}
		compact(obj)
		if !progress {
			first := ve.Errors[0]
			return dropped, &types.ValidationError{Field: first.Field, Message: first.Message}
		}
	}

	if err := schemas.ValidateValue(schema, obj); err != nil {
		return dropped, &types.ValidationError{Field: "profile", Message: fmt.Sprintf("profile still invalid after repair: %v", err)}
	}
	return dropped, nil
}

// removed marks an array element for deletion until compact runs.
type removed struct{}

// prune removes the value at path. Array elements are marked and dropped by compact so the
// indexes of the other errors in the same pass stay valid.
func prune(node any, path []string) bool {
	if len(path) == 0 {
		return false
	}
	for _, seg := range path[:len(path)-1] {
		next, ok := child(node, seg)
		if !ok {
			return false
		}
		node = next
	}

	last := path[len(path)-1]
	switch n := node.(type) {
	case map[string]any:
		if _, ok := n[last]; !ok {
			return false
		}
		delete(n, last)
		return true
	case []any:
		i, err := strconv.Atoi(last)
		if err != nil || i < 0 || i >= len(n) {
			return false
		}
		n[i] = removed{}
		return true
	}
	return false
}

func child(node any, seg string) (any, bool) {
	switch n := node.(type) {
	case map[string]any:
		v, ok := n[seg]
		return v, ok
	case []any:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= len(n) {
			return nil, false
		}
		return n[i], true
	}
	return nil, false
}

// compact drops the elements marked by prune, recursively.
func compact(node any) any {
	switch n := node.(type) {
	case map[string]any:
		for k, v := range n {
			n[k] = compact(v)
		}
		return n
	case []any:
		out := n[:0]
		for _, v := range n {
			if _, gone := v.(removed); gone {
				continue
			}
			out = append(out, compact(v))
		}
		return out
	}
	return node
}
