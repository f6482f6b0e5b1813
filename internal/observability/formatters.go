// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/match-engine/internal/schemas"
	"github.com/jonathan/match-engine/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// writeList writes up to limit items as bullets, then a count of the rest.
func writeList(sb *strings.Builder, title string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(title + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
	sb.WriteString("\n")
}

// PrintJobProfile outputs a human-readable summary of a parsed job profile.
func (p *Printer) PrintJobProfile(profile *types.JobProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:  %s\n", profile.Company))
	sb.WriteString(fmt.Sprintf("Role:     %s\n", profile.Title))
	if profile.Sector != "" {
		sb.WriteString(fmt.Sprintf("Sector:   %s\n", profile.Sector))
	}
	exp := profile.Experience
	if exp.MaxYears > 0 {
		sb.WriteString(fmt.Sprintf("Years:    %.0f-%.0f\n", exp.MinYears, exp.MaxYears))
	} else if exp.MinYears > 0 {
		sb.WriteString(fmt.Sprintf("Years:    %.0f+\n", exp.MinYears))
	}
	sb.WriteString("\n")

	writeList(&sb, "Required Skills", profile.RequiredSkills, maxItemsToShow)
	writeList(&sb, "Preferred Skills", profile.PreferredSkills, 3)
	writeList(&sb, "Soft Skills", types.SoftSkillNames(profile.SoftSkills), 3)

	p.printBox("PARSED JOB PROFILE", strings.TrimRight(sb.String(), "\n"))
}

// PrintCandidateProfile outputs a human-readable summary of a parsed candidate profile.
func (p *Printer) PrintCandidateProfile(profile *types.CandidateProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:      %s\n", profile.Name))
	if profile.Sector != "" {
		sb.WriteString(fmt.Sprintf("Sector:    %s\n", profile.Sector))
	}
	sb.WriteString(fmt.Sprintf("Years:     %.0f (%.0f relevant)\n", profile.Experience.TotalYears, profile.Experience.RelevantYears))
	if profile.Experience.Seniority != "" {
		sb.WriteString(fmt.Sprintf("Seniority: %s\n", profile.Experience.Seniority))
	}
	if profile.Education.Level != "" || profile.Education.Diploma != "" {
		sb.WriteString(fmt.Sprintf("Education: %s %s\n", profile.Education.Level, profile.Education.Diploma))
	}
	sb.WriteString("\n")

	writeList(&sb, "Hard Skills", profile.HardSkills, maxItemsToShow)
	writeList(&sb, "Soft Skills", types.SoftSkillNames(profile.SoftSkills), 3)

	p.printBox("PARSED CANDIDATE PROFILE", strings.TrimRight(sb.String(), "\n"))
}

// PrintHybridResult outputs the final score, the per-signal breakdown and the narrative.
func (p *Printer) PrintHybridResult(result *types.HybridResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score:      %.1f / 100 (%s)\n", result.FinalScore, result.Calibration.Band))
	sb.WriteString(fmt.Sprintf("Confidence: %.1f\n", result.Confidence))
	sb.WriteString(fmt.Sprintf("Context:    %s, %s\n", result.Context.Context, result.Context.ExperienceLevel))
	if result.Calibration.DomainFocus {
		sb.WriteString(fmt.Sprintf("Sectors:    job %s, candidate %s\n", result.Calibration.JobSector, result.Calibration.CandidateSector))
	}
	sb.WriteString("\n")

	sb.WriteString("Signals:\n")
	for _, b := range result.Breakdown {
		line := fmt.Sprintf("  %-10s %5.1f  x%.2f = %5.1f", b.Signal, b.Score, b.Weight, b.Contribution)
		switch {
		case b.Substituted:
			line += "  (substituted)"
		case b.Degraded:
			line += "  (degraded)"
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n")

	writeList(&sb, "Strengths", result.Narrative.Strengths, 3)
	writeList(&sb, "Weaknesses", result.Narrative.Weaknesses, 3)
	writeList(&sb, "Missing", result.Narrative.MissingCompetencies, maxItemsToShow)

	p.printBox("HYBRID SCORE", strings.TrimRight(sb.String(), "\n"))
}

// PrintBatchResults outputs a ranking of batch results, best first.
func (p *Printer) PrintBatchResults(results []*types.HybridResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidates scored: %d\n\n", len(results)))
	for rank, r := range results {
		sb.WriteString(fmt.Sprintf("#%-3d candidate %-4d %5.1f  %-8s conf %.0f\n",
			rank+1, r.CandidateIndex, r.FinalScore, r.Calibration.Band, r.Confidence))
	}

	p.printBox("BATCH RANKING", strings.TrimRight(sb.String(), "\n"))
}

// PrintDimensionalScore outputs the per-dimension scores, adaptive weights and recommendations.
func (p *Printer) PrintDimensionalScore(score *types.DimensionalScore) {
	if score == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall: %.2f   Sector: %s\n\n", score.Overall, score.Sector))

	dims := make([]types.Dimension, 0, len(score.Scores))
	for d := range score.Scores {
		dims = append(dims, d)
	}
	sort.Slice(dims, func(i, j int) bool {
		wi, wj := score.AdaptiveWeights[dims[i]], score.AdaptiveWeights[dims[j]]
		if wi != wj {
			return wi > wj
		}
		return dims[i] < dims[j]
	})
	for _, d := range dims {
		sb.WriteString(fmt.Sprintf("  %-13s %.2f  (weight %.2f)\n", d, score.Scores[d], score.AdaptiveWeights[d]))
	}
	sb.WriteString("\n")

	writeList(&sb, "Missing Skills", score.Breakdown.Technical.Missing, maxItemsToShow)

	if len(score.Recommendations) > 0 {
		sb.WriteString("Recommendations:\n")
		for _, r := range score.Recommendations {
			sb.WriteString(fmt.Sprintf("  [%s] %s\n", r.Priority, r.Message))
		}
	}

	p.printBox("DIMENSIONAL SCORE", strings.TrimRight(sb.String(), "\n"))
}

// PrintDroppedFields outputs the profile fields that failed validation and were defaulted.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintDroppedFields(dropped []schemas.FieldError) {
	if len(dropped) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ ALL FIELDS VALID")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Defaulted %d fields:\n\n", len(dropped)))

	for i, fe := range dropped {
		msg := fe.Message
		if len(msg) > 45 {
			msg = msg[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("⚠ %s\n", fe.Field))
		sb.WriteString(fmt.Sprintf("  %s\n", msg))
		if i < len(dropped)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("DEFAULTED FIELDS", sb.String())
}
