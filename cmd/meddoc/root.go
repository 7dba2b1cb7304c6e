package main

import (
	"github.com/spf13/cobra"

	"github.com/Rovlad/meddoc-parse/internal/api"
	"github.com/Rovlad/meddoc-parse/version"
)

var (
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "meddoc",
	Short: "Medical document analysis service with LLM-powered extraction",
	Long: `Meddoc analyzes photographed or scanned medical documents. It classifies
each upload into a known document type and extracts structured,
schema-validated fields using a multimodal LLM.

Supported document types:
  - Prescriptions
  - Lab reports
  - Doctor's visit summaries
  - Diagnostic imaging results`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.meddoc/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
