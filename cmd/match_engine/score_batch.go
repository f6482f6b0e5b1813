package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/match-engine/internal/observability"
	"github.com/jonathan/match-engine/internal/types"
)

var scoreBatchCmd = &cobra.Command{
	Use:   "score-batch",
	Short: "Rank many candidates against one job posting",
	Long: "Score every candidate against one job posting with bounded concurrency. --candidates takes a " +
		"directory (every .txt and .md file in it) or a list of files. Results are ranked best first; " +
		"candidates that fail are reported without aborting the batch.",
	RunE: runScoreBatch,
}

var (
	batchJobFile     string
	batchCandidates  []string
	batchMode        string
	batchDomainFocus string
)

func init() {
	scoreBatchCmd.Flags().StringVarP(&batchJobFile, "job", "j", "", "Path to the job posting text file (required)")
	scoreBatchCmd.Flags().StringSliceVarP(&batchCandidates, "candidates", "c", nil, "Candidate directory or comma-separated files (required)")
	scoreBatchCmd.Flags().StringVar(&batchMode, "mode", "", "Performance mode: fast, balanced or comprehensive (default from config)")
	scoreBatchCmd.Flags().StringVar(&batchDomainFocus, "domain-focus", "", "Force domain-focus calibration on or off (true|false)")

	_ = scoreBatchCmd.MarkFlagRequired("job")
	_ = scoreBatchCmd.MarkFlagRequired("candidates")

	rootCmd.AddCommand(scoreBatchCmd)
}

// batchEntry pairs a ranked result with the file it came from.
type batchEntry struct {
	File   string              `json:"file"`
	Result *types.HybridResult `json:"result"`
}

// batchOutput is the JSON printed by score-batch.
type batchOutput struct {
	Results []batchEntry `json:"results"`
	Errors  []string     `json:"errors,omitempty"`
}

// candidateFiles expands a single directory argument into its text files, sorted by name.
func candidateFiles(args []string) ([]string, error) {
	if len(args) == 1 {
		info, err := os.Stat(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to stat candidates: %w", err)
		}
		if info.IsDir() {
			entries, err := os.ReadDir(args[0])
			if err != nil {
				return nil, fmt.Errorf("failed to read candidates directory: %w", err)
			}
			var files []string
			for _, entry := range entries {
				ext := strings.ToLower(filepath.Ext(entry.Name()))
				if entry.IsDir() || (ext != ".txt" && ext != ".md") {
					continue
				}
				files = append(files, filepath.Join(args[0], entry.Name()))
			}
			slices.Sort(files)
			if len(files) == 0 {
				return nil, fmt.Errorf("no .txt or .md files found in %s", args[0])
			}
			return files, nil
		}
	}
	return args, nil
}

func runScoreBatch(cmd *cobra.Command, _ []string) error {
	opts, err := scoringOptions(batchMode, batchDomainFocus)
	if err != nil {
		return err
	}
	jobText, err := readText(batchJobFile)
	if err != nil {
		return err
	}
	files, err := candidateFiles(batchCandidates)
	if err != nil {
		return err
	}
	texts := make([]string, len(files))
	for i, f := range files {
		if texts[i], err = readText(f); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	e, err := setupEngine(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	results, batchErr := e.aggregator.ScoreBatch(ctx, jobText, texts, opts)
	if results == nil && batchErr != nil {
		return fmt.Errorf("failed to score batch: %w", batchErr)
	}

	out := batchOutput{Results: make([]batchEntry, len(results))}
	for i, r := range results {
		out.Results[i] = batchEntry{File: files[r.CandidateIndex], Result: r}
	}
	if batchErr != nil {
		out.Errors = errorMessages(batchErr)
	}

	if verbose {
		p := observability.NewPrinter(os.Stdout)
		p.PrintBatchResults(results)
		for i, f := range files {
			fmt.Fprintf(os.Stdout, "candidate %-4d %s\n", i, f)
		}
		for _, msg := range out.Errors {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
		}
		return nil
	}
	return writeJSON(os.Stdout, out)
}

// errorMessages unpacks a joined error into one message per candidate.
func errorMessages(err error) []string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}
