package embedding

import (
	"sort"

	"github.com/jonathan/match-engine/internal/textproc"
)

// Concept is a coarse competency family used for the alignment bonus. It is deliberately
// broader than the keyword signal's sectors.
type Concept struct {
	Name     string
	Keywords []string
}

// DefaultConcepts is the built-in concept taxonomy.
var DefaultConcepts = []Concept{
	{"data_analytics", []string{"data", "analytics", "analysis", "statistics", "sql", "dashboard", "reporting", "excel", "visualization", "modeling"}},
	{"software_engineering", []string{"software", "code", "programming", "development", "developer", "architecture", "testing", "api", "backend", "frontend"}},
	{"cloud_infrastructure", []string{"cloud", "aws", "azure", "gcp", "docker", "kubernetes", "infrastructure", "devops", "terraform", "deployment"}},
	{"leadership", []string{"lead", "leadership", "manage", "management", "team", "mentor", "coaching", "strategy", "stakeholder"}},
	{"client_relations", []string{"client", "customer", "sales", "account", "relationship", "negotiation", "service"}},
	{"risk_compliance", []string{"risk", "compliance", "regulation", "regulatory", "audit", "control", "governance", "legal"}},
	{"financial_expertise", []string{"finance", "financial", "accounting", "budget", "investment", "banking", "insurance", "valuation"}},
	{"communication", []string{"communication", "presentation", "writing", "collaboration", "interpersonal", "negotiation"}},
}

// ConceptAlignment is the per-concept coverage comparison.
type ConceptAlignment struct {
	Concept           string  `json:"concept"`
	JobCoverage       float64 `json:"job_coverage"`
	CandidateCoverage float64 `json:"candidate_coverage"`
	Alignment         float64 `json:"alignment"`
}

// conceptBonus scores how well the candidate covers the concepts the job mentions.
// For each concept active in the job, alignment is the harmonic mean of both coverage ratios;
// the bonus is the mean alignment scaled to maxBonus.
func conceptBonus(concepts []Concept, jobText, candidateText string, maxBonus float64) (float64, []ConceptAlignment) {
	jobDoc := textproc.NewDoc(jobText)
	candDoc := textproc.NewDoc(candidateText)

	var alignments []ConceptAlignment
	sum := 0.0
	for _, c := range concepts {
		if len(c.Keywords) == 0 {
			continue
		}
		j := coverage(jobDoc, c.Keywords)
		if j == 0 {
			continue
		}
		k := coverage(candDoc, c.Keywords)
		align := 0.0
		if k > 0 {
			align = 2 * j * k / (j + k)
		}
		sum += align
		alignments = append(alignments, ConceptAlignment{
			Concept:           c.Name,
			JobCoverage:       j,
			CandidateCoverage: k,
			Alignment:         align,
		})
	}
	if len(alignments) == 0 {
		return 0, nil
	}

	sort.SliceStable(alignments, func(a, b int) bool {
		return alignments[a].Alignment > alignments[b].Alignment
	})
	bonus := sum / float64(len(alignments)) * maxBonus
	return textproc.Clamp(bonus, 0, maxBonus), alignments
}

func coverage(doc textproc.Doc, keywords []string) float64 {
	found := 0
	for _, kw := range keywords {
		if doc.Contains(kw) {
			found++
		}
	}
	return float64(found) / float64(len(keywords))
}
