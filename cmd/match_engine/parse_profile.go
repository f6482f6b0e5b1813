package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/match-engine/internal/llm"
	"github.com/jonathan/match-engine/internal/observability"
	"github.com/jonathan/match-engine/internal/parsing"
	"github.com/jonathan/match-engine/internal/schemas"
	"github.com/jonathan/match-engine/internal/types"
)

var parseProfileCmd = &cobra.Command{
	Use:   "parse-profile",
	Short: "Validate or extract a CandidateProfile / JobProfile",
	Long: "Turn an input file into a validated profile. A .json input is validated against the profile " +
		"schema, with invalid fields defaulted; any other input is treated as free text and extracted " +
		"with the configured LLM.",
	RunE: runParseProfile,
}

var (
	parseKind       string
	parseInputFile  string
	parseOutputFile string
	parseTier       string
)

func init() {
	parseProfileCmd.Flags().StringVarP(&parseKind, "kind", "k", "", "Profile kind: candidate or job (required)")
	parseProfileCmd.Flags().StringVarP(&parseInputFile, "in", "i", "", "Path to the input file (required)")
	parseProfileCmd.Flags().StringVarP(&parseOutputFile, "out", "o", "", "Path to the output JSON file (default: stdout)")
	parseProfileCmd.Flags().StringVar(&parseTier, "tier", "standard", "Model tier used for text extraction: lite, standard or advanced")

	_ = parseProfileCmd.MarkFlagRequired("kind")
	_ = parseProfileCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(parseProfileCmd)
}

func runParseProfile(cmd *cobra.Command, _ []string) error {
	if parseKind != "candidate" && parseKind != "job" {
		return fmt.Errorf("invalid --kind %q: must be candidate or job", parseKind)
	}
	data, err := os.ReadFile(parseInputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	var (
		profile any
		dropped []schemas.FieldError
	)
	if strings.EqualFold(filepath.Ext(parseInputFile), ".json") {
		profile, dropped, err = parseJSONProfile(parseKind, data)
	} else {
		profile, dropped, err = extractProfile(cmd, parseKind, string(data))
	}
	if err != nil {
		return err
	}

	if verbose {
		p := observability.NewPrinter(os.Stdout)
		p.PrintDroppedFields(dropped)
		if parseOutputFile == "" {
			printProfile(p, profile)
			return nil
		}
	} else {
		for _, fe := range dropped {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: defaulted %s: %s\n", fe.Field, fe.Message)
		}
	}

	if parseOutputFile == "" {
		return writeJSON(os.Stdout, profile)
	}
	f, err := os.Create(parseOutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = f.Close() }()
	if err := writeJSON(f, profile); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "Output: %s\n", parseOutputFile)
	return nil
}

func parseJSONProfile(kind string, data []byte) (any, []schemas.FieldError, error) {
	if kind == "candidate" {
		p, dropped, err := parsing.ParseCandidateProfile(data)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse candidate profile: %w", err)
		}
		return p, dropped, nil
	}
	p, dropped, err := parsing.ParseJobProfile(data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse job profile: %w", err)
	}
	return p, dropped, nil
}

func extractProfile(cmd *cobra.Command, kind, text string) (any, []schemas.FieldError, error) {
	tier, err := llm.ParseTier(parseTier)
	if err != nil {
		return nil, nil, err
	}
	ctx := cmd.Context()
	e, err := setupEngine(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer e.Close()
	if e.client == nil {
		return nil, nil, fmt.Errorf("API key is required to extract profiles from text (set GEMINI_API_KEY or llm.api_key)")
	}

	extractor := parsing.NewExtractor(e.client, parsing.WithTier(tier), parsing.WithLogger(e.logger))
	if kind == "candidate" {
		p, dropped, err := extractor.Candidate(ctx, text)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to extract candidate profile: %w", err)
		}
		return p, dropped, nil
	}
	p, dropped, err := extractor.Job(ctx, text)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to extract job profile: %w", err)
	}
	return p, dropped, nil
}

func printProfile(p *observability.Printer, profile any) {
	switch v := profile.(type) {
	case *types.CandidateProfile:
		p.PrintCandidateProfile(v)
	case *types.JobProfile:
		p.PrintJobProfile(v)
	}
}
