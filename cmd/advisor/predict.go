// cmd/advisor/predict.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"college-advisor/internal/admission"
	"college-advisor/internal/datasets"
	"college-advisor/internal/models"
)

func newPredictCmd(opts *globalOptions) *cobra.Command {
	var (
		marks float64
		exam  string
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict a rank from exam marks",
		Example: `  advisor predict --marks 280 --exam "JEE Advanced"
  advisor predict --marks 175`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("marks") {
				return fmt.Errorf("--marks is required")
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			log := opts.logger()

			e := models.Exam(exam)
			path := cfg.Datasets.MainsRankTable
			if e.IsAdvanced() {
				path = cfg.Datasets.AdvancedRankTable
			}
			table, err := datasets.LoadRankTable(path)
			if err != nil {
				return err
			}

			var ranks *datasets.Tables
			if e.IsAdvanced() {
				ranks = datasets.NewTables(table, nil, nil, nil)
			} else {
				ranks = datasets.NewTables(nil, table, nil, nil)
			}

			rank, ok := admission.NewPredictor(ranks, log).Predict(marks, e)
			if !ok {
				return fmt.Errorf("no rank could be predicted for %v marks in %s", marks, exam)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %v marks -> predicted rank %d\n", exam, marks, rank)
			return nil
		},
	}

	cmd.Flags().Float64Var(&marks, "marks", 0, "exam marks")
	cmd.Flags().StringVar(&exam, "exam", string(models.ExamJEEMains), `exam name; only "JEE Advanced" selects the advanced table`)
	return cmd
}
