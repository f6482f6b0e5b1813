package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SoftSkillKind tags which variant a SoftSkill holds.
type SoftSkillKind string

// Soft skill variants
const (
	SoftSkillSimple   SoftSkillKind = "simple"
	SoftSkillDetailed SoftSkillKind = "detailed"
)

// SoftSkill is either a bare name (Simple) or a name backed by examples (Detailed).
// Extractors emit both shapes; JSON decoding accepts a string or an object so scoring
// code only ever sees this one type.
type SoftSkill struct {
	Kind      SoftSkillKind `json:"kind"`
	Name      string        `json:"name"`
	Examples  []string      `json:"examples,omitempty"`
	Validated bool          `json:"validated,omitempty"`
}

// SimpleSoftSkill builds the name-only variant.
func SimpleSoftSkill(name string) SoftSkill {
	return SoftSkill{Kind: SoftSkillSimple, Name: strings.TrimSpace(name)}
}

// DetailedSoftSkill builds the variant carrying supporting examples.
func DetailedSoftSkill(name string, examples []string, validated bool) SoftSkill {
	return SoftSkill{
		Kind:      SoftSkillDetailed,
		Name:      strings.TrimSpace(name),
		Examples:  examples,
		Validated: validated,
	}
}

// UnmarshalJSON accepts either "name" or {"name": ..., "examples": [...], "validated": bool}.
func (s *SoftSkill) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = SoftSkill{}
		return nil
	}

	if strings.HasPrefix(trimmed, "\"") {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return fmt.Errorf("failed to decode soft skill name: %w", err)
		}
		*s = SimpleSoftSkill(name)
		return nil
	}

	var raw struct {
		Name      string   `json:"name"`
		Skill     string   `json:"skill"`
		Examples  []string `json:"examples"`
		Validated bool     `json:"validated"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode soft skill object: %w", err)
	}
	name := raw.Name
	if name == "" {
		name = raw.Skill
	}
	if len(raw.Examples) == 0 && !raw.Validated {
		*s = SimpleSoftSkill(name)
		return nil
	}
	*s = DetailedSoftSkill(name, raw.Examples, raw.Validated)
	return nil
}

// SoftSkillNames returns the non-empty names of the given skills.
func SoftSkillNames(skills []SoftSkill) []string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		if s.Name != "" {
			names = append(names, s.Name)
		}
	}
	return names
}
