package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"visa-predictor/internal/common/logger"
	"visa-predictor/internal/dataset"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a labelled CSV dataset",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().Int("rows", dataset.DefaultRows, "Number of rows to generate")
	generateCmd.Flags().Int64("seed", 0, "Random seed (0 uses the current time)")
	generateCmd.Flags().String("out", "visa_dataset.csv", "Output file, - for stdout")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	rows, _ := cmd.Flags().GetInt("rows")
	seed, _ := cmd.Flags().GetInt64("seed")
	out, _ := cmd.Flags().GetString("out")

	if rows <= 0 {
		return fmt.Errorf("--rows must be positive, got %d", rows)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	w := cmd.OutOrStdout()
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()
		w = f
	}

	summary, err := dataset.NewGenerator(seed).WriteCSV(w, rows)
	if err != nil {
		return err
	}

	log := logger.NewStructured("info", "console")
	log.Info("Dataset generated", map[string]interface{}{
		"rows":         summary.Rows,
		"approved":     summary.Approved,
		"approvalRate": fmt.Sprintf("%.3f", summary.ApprovalRate()),
		"seed":         seed,
		"out":          out,
	})
	return nil
}
