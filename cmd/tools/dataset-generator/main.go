package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "dataset-generator",
	Short:        "Synthetic visa applicant dataset tooling",
	Long:         "Generates labelled applicant rows with the rule the approval model is trained on.",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(labelCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
