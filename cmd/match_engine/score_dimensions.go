package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/match-engine/internal/observability"
	"github.com/jonathan/match-engine/internal/parsing"
	"github.com/jonathan/match-engine/internal/schemas"
	"github.com/jonathan/match-engine/internal/types"
)

var scoreDimensionsCmd = &cobra.Command{
	Use:   "score-dimensions",
	Short: "Rate a structured candidate profile against a structured job profile",
	Long: "Score a CandidateProfile JSON against a JobProfile JSON across six dimensions with " +
		"sector-adaptive weights. Invalid profile fields are defaulted and reported on stderr.",
	RunE: runScoreDimensions,
}

var (
	dimCandidateFile string
	dimJobFile       string
	dimAuthenticity  float64
)

func init() {
	scoreDimensionsCmd.Flags().StringVarP(&dimCandidateFile, "candidate", "c", "", "Path to the CandidateProfile JSON file (required)")
	scoreDimensionsCmd.Flags().StringVarP(&dimJobFile, "job", "j", "", "Path to the JobProfile JSON file (required)")
	scoreDimensionsCmd.Flags().Float64Var(&dimAuthenticity, "authenticity", 0, "Upstream authenticity score, 0-1 or 0-100")

	_ = scoreDimensionsCmd.MarkFlagRequired("candidate")
	_ = scoreDimensionsCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(scoreDimensionsCmd)
}

// loadProfiles reads and validates both profile files.
func loadProfiles(candidatePath, jobPath string) (*types.CandidateProfile, *types.JobProfile, []schemas.FieldError, error) {
	candData, err := os.ReadFile(candidatePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to read candidate profile: %w", err)
	}
	jobData, err := os.ReadFile(jobPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to read job profile: %w", err)
	}

	cand, candDropped, err := parsing.ParseCandidateProfile(candData)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid candidate profile: %w", err)
	}
	job, jobDropped, err := parsing.ParseJobProfile(jobData)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid job profile: %w", err)
	}

	dropped := make([]schemas.FieldError, 0, len(candDropped)+len(jobDropped))
	for _, fe := range candDropped {
		fe.Field = "candidate." + fe.Field
		dropped = append(dropped, fe)
	}
	for _, fe := range jobDropped {
		fe.Field = "job." + fe.Field
		dropped = append(dropped, fe)
	}
	return cand, job, dropped, nil
}

func runScoreDimensions(cmd *cobra.Command, _ []string) error {
	if dimAuthenticity < 0 || dimAuthenticity > 100 {
		return fmt.Errorf("--authenticity must be between 0 and 100, got %g", dimAuthenticity)
	}
	cand, job, dropped, err := loadProfiles(dimCandidateFile, dimJobFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	e, err := setupEngine(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	for _, fe := range dropped {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: defaulted %s: %s\n", fe.Field, fe.Message)
	}

	score, err := e.matcher.Score(ctx, cand, job, dimAuthenticity)
	if err != nil {
		return fmt.Errorf("failed to score dimensions: %w", err)
	}

	if verbose {
		observability.NewPrinter(os.Stdout).PrintDimensionalScore(score)
		return nil
	}
	return writeJSON(os.Stdout, score)
}
