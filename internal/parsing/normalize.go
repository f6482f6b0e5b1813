package parsing

import (
	"math"
	"strings"

	"github.com/jonathan/match-engine/internal/textproc"
	"github.com/jonathan/match-engine/internal/types"
)

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"vue.js":     "Vue",
	"vuejs":      "Vue",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"node":       "Node.js",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
	"psql":       "PostgreSQL",
	"mysql":      "MySQL",
	"mongo":      "MongoDB",
	"mongodb":    "MongoDB",
	"sql":        "SQL",
	"aws":        "AWS",
	"gcp":        "GCP",
	"api":        "API",
	"rest":       "REST",
	"html":       "HTML",
	"css":        "CSS",
	"php":        "PHP",
	"sap":        "SAP",
	"ifrs":       "IFRS",
	"crm":        "CRM",
	"erp":        "ERP",
	"etl":        "ETL",
	"seo":        "SEO",
	"ml":         "Machine Learning",
	"ai":         "AI",
	"vba":        "VBA",
	"ms excel":   "Excel",
	"excel":      "Excel",
	"c#":         "C#",
	"c++":        "C++",
}

// NormalizeSkillName normalizes a skill name to its canonical form
func NormalizeSkillName(skillName string) string {
	normalized := strings.TrimSpace(skillName)
	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if canonical, ok := skillNormalizations[lower]; ok {
		return canonical
	}

	// All-caps single words that aren't known acronyms are capitalized on the first letter only
	if normalized == strings.ToUpper(normalized) && len(normalized) > 1 {
		if !strings.Contains(lower, " ") && normalized != lower {
			return strings.ToUpper(normalized[:1]) + strings.ToLower(normalized[1:])
		}
	}

	// Mixed case is kept as-is
	if normalized != strings.ToUpper(normalized) && normalized != lower {
		return normalized
	}

	// If all lowercase and single word, capitalize first letter
	if normalized == lower && !strings.Contains(normalized, " ") {
		return strings.ToUpper(normalized[:1]) + normalized[1:]
	}

	return normalized
}

// SkillKey is the comparison key of a skill: canonical name, folded.
func SkillKey(skillName string) string {
	return textproc.Fold(NormalizeSkillName(skillName))
}

// NormalizeSkills canonicalizes skill names and drops empties and duplicates, keeping first
// occurrence order.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		name := NormalizeSkillName(s)
		if name == "" {
			continue
		}
		key := textproc.Fold(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

// NormalizeSoftSkills trims names and drops empties and duplicates. When a skill appears twice
// the detailed variant wins.
func NormalizeSoftSkills(skills []types.SoftSkill) []types.SoftSkill {
	out := make([]types.SoftSkill, 0, len(skills))
	seen := make(map[string]int, len(skills))
	for _, s := range skills {
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" {
			continue
		}
		if s.Kind == "" {
			s.Kind = types.SoftSkillSimple
		}
		key := textproc.Fold(s.Name)
		if idx, dup := seen[key]; dup {
			if out[idx].Kind == types.SoftSkillSimple && s.Kind == types.SoftSkillDetailed {
				out[idx] = s
			}
			continue
		}
		seen[key] = len(out)
		out = append(out, s)
	}
	return out
}

// NormalizeSector folds a sector name into the snake_case form used by the taxonomy.
func NormalizeSector(sector string) string {
	return strings.Join(strings.FieldsFunc(textproc.Fold(sector), func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '/'
	}), "_")
}

// cleanList trims entries and drops empties and case-insensitive duplicates.
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		key := textproc.Fold(it)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}
	return out
}

func cleanYears(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// NormalizeCandidate canonicalizes a candidate profile in place so scoring never sees nil
// slices, negative years or duplicate skills.
func NormalizeCandidate(p *types.CandidateProfile) {
	if p == nil {
		return
	}
	p.Name = strings.TrimSpace(p.Name)
	p.Sector = NormalizeSector(p.Sector)
	p.HardSkills = NormalizeSkills(p.HardSkills)
	p.SoftSkills = NormalizeSoftSkills(p.SoftSkills)

	exp := &p.Experience
	exp.TotalYears = cleanYears(exp.TotalYears)
	exp.RelevantYears = min(cleanYears(exp.RelevantYears), exp.TotalYears)
	exp.Seniority = textproc.Fold(exp.Seniority)
	exp.Positions = cleanList(exp.Positions)
	companies := make([]types.Company, 0, len(exp.Companies))
	for _, c := range exp.Companies {
		c.Name = strings.TrimSpace(c.Name)
		c.Type = textproc.Fold(c.Type)
		c.Sector = textproc.Fold(c.Sector)
		if c.Name == "" && c.Type == "" {
			continue
		}
		companies = append(companies, c)
	}
	exp.Companies = companies

	p.Education.Specializations = cleanList(p.Education.Specializations)
	p.Languages = normalizeLanguages(p.Languages)
	normalizeCulture(&p.Culture)
	p.Mobility.Locations = cleanList(p.Mobility.Locations)
}

// NormalizeJob canonicalizes a job profile in place. An inverted year range is swapped.
func NormalizeJob(p *types.JobProfile) {
	if p == nil {
		return
	}
	p.Title = strings.TrimSpace(p.Title)
	p.Company = strings.TrimSpace(p.Company)
	p.Sector = NormalizeSector(p.Sector)
	p.RequiredSkills = NormalizeSkills(p.RequiredSkills)
	p.PreferredSkills = NormalizeSkills(p.PreferredSkills)
	p.SoftSkills = NormalizeSoftSkills(p.SoftSkills)

	exp := &p.Experience
	exp.MinYears = cleanYears(exp.MinYears)
	exp.MaxYears = cleanYears(exp.MaxYears)
	if exp.MaxYears > 0 && exp.MaxYears < exp.MinYears {
		exp.MinYears, exp.MaxYears = exp.MaxYears, exp.MinYears
	}
	exp.Seniority = textproc.Fold(exp.Seniority)
	exp.CompanyTypes = cleanList(exp.CompanyTypes)

	p.Education.Fields = cleanList(p.Education.Fields)
	p.Education.Specializations = cleanList(p.Education.Specializations)
	p.Languages = normalizeLanguages(p.Languages)
	normalizeCulture(&p.Culture)
	p.Mobility.Locations = cleanList(p.Mobility.Locations)
}

func normalizeLanguages(langs []types.Language) []types.Language {
	out := make([]types.Language, 0, len(langs))
	seen := make(map[string]struct{}, len(langs))
	for _, l := range langs {
		l.Name = strings.TrimSpace(l.Name)
		if l.Name == "" {
			continue
		}
		key := textproc.Fold(l.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		l.Level = strings.TrimSpace(l.Level)
		out = append(out, l)
	}
	return out
}

func normalizeCulture(c *types.Culture) {
	c.Values = cleanList(c.Values)
	c.Environment = cleanList(c.Environment)
	c.Aspirations = cleanList(c.Aspirations)
}
