// Package main provides the match_engine CLI: one-shot scoring commands and the HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "match_engine",
	Short: "Candidate/job matching engine",
	Long: "match_engine scores how well a candidate fits a job posting. It blends four text signals " +
		"into a calibrated 0-100 hybrid score and rates structured profiles across six dimensions.",
	SilenceUsage: true,
}

var (
	configPath string
	verbose    bool
	jsonLogs   bool
	debugLogs  bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML or JSON config file (default: ./match-engine.{yaml,json})")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print human-readable summaries instead of JSON")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Emit logs as JSON")
	rootCmd.PersistentFlags().BoolVar(&debugLogs, "debug", false, "Enable debug logging")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
