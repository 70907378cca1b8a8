// cmd/advisor/validate.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"college-advisor/internal/datasets"
)

func newValidateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the shape of the four dataset files",
		Long: `Validate the rank and seat allocation files named in the configuration against
their JSON schemas. Every file is checked; the command fails if any is invalid.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			files := []struct {
				kind datasets.Kind
				path string
			}{
				{datasets.KindRankTable, cfg.Datasets.AdvancedRankTable},
				{datasets.KindRankTable, cfg.Datasets.MainsRankTable},
				{datasets.KindSeatTable, cfg.Datasets.AdvancedSeatTable},
				{datasets.KindSeatTable, cfg.Datasets.MainsSeatTable},
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, f := range files {
				if err := datasets.ValidateFile(f.kind, f.path); err != nil {
					failed++
					fmt.Fprintf(out, "FAIL  %-5s %s: %v\n", f.kind, f.path, err)
					continue
				}
				fmt.Fprintf(out, "ok    %-5s %s\n", f.kind, f.path)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d dataset files invalid", failed, len(files))
			}
			return nil
		},
	}
}
