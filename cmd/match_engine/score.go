package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/match-engine/internal/hybrid"
	"github.com/jonathan/match-engine/internal/observability"
	"github.com/jonathan/match-engine/internal/types"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one candidate against one job posting",
	Long: "Score a candidate text file against a job posting text file. Prints the hybrid result " +
		"(final 0-100 score, confidence, per-signal breakdown) as JSON, or a summary with --verbose.",
	RunE: runScore,
}

var (
	scoreJobFile       string
	scoreCandidateFile string
	scoreMode          string
	scoreDomainFocus   string
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreJobFile, "job", "j", "", "Path to the job posting text file (required)")
	scoreCmd.Flags().StringVarP(&scoreCandidateFile, "candidate", "c", "", "Path to the candidate text file (required)")
	scoreCmd.Flags().StringVar(&scoreMode, "mode", "", "Performance mode: fast, balanced or comprehensive (default from config)")
	scoreCmd.Flags().StringVar(&scoreDomainFocus, "domain-focus", "", "Force domain-focus calibration on or off (true|false)")

	_ = scoreCmd.MarkFlagRequired("job")
	_ = scoreCmd.MarkFlagRequired("candidate")

	rootCmd.AddCommand(scoreCmd)
}

// scoringOptions builds per-call options from the --mode and --domain-focus flags.
func scoringOptions(mode, domainFocus string) (hybrid.Options, error) {
	opts := hybrid.Options{Mode: types.PerformanceMode(mode)}
	switch domainFocus {
	case "":
	case "true":
		v := true
		opts.DomainFocus = &v
	case "false":
		v := false
		opts.DomainFocus = &v
	default:
		return opts, fmt.Errorf("invalid --domain-focus %q: must be true or false", domainFocus)
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func runScore(cmd *cobra.Command, _ []string) error {
	opts, err := scoringOptions(scoreMode, scoreDomainFocus)
	if err != nil {
		return err
	}
	jobText, err := readText(scoreJobFile)
	if err != nil {
		return err
	}
	candidateText, err := readText(scoreCandidateFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	e, err := setupEngine(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	result, err := e.aggregator.Score(ctx, jobText, candidateText, opts)
	if err != nil {
		return fmt.Errorf("failed to score candidate: %w", err)
	}

	if verbose {
		observability.NewPrinter(os.Stdout).PrintHybridResult(result)
		return nil
	}
	return writeJSON(os.Stdout, result)
}
