// cmd/advisor/import_seats.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"college-advisor/internal/common/database"
	"college-advisor/internal/datasets"
	"college-advisor/internal/models"
)

func newImportSeatsCmd(opts *globalOptions) *cobra.Command {
	var (
		exam string
		file string
	)

	cmd := &cobra.Command{
		Use:   "import-seats",
		Short: "Load a seat allocation file into PostgreSQL",
		Long: `Replace the stored seat table for one exam with the contents of a seat
allocation file. The table is created if it does not exist. Row order is kept.`,
		Example: `  advisor import-seats --exam "JEE Advanced" --file data/adv_seats.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			e := models.Exam(exam)
			if file == "" {
				file = cfg.Datasets.MainsSeatTable
				if e.IsAdvanced() {
					file = cfg.Datasets.AdvancedSeatTable
				}
			}
			records, err := datasets.LoadSeatTable(file)
			if err != nil {
				return err
			}

			pg, err := database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			defer pg.Close()

			ctx := cmd.Context()
			if err := pg.Ping(ctx); err != nil {
				return err
			}
			if err := datasets.EnsureSeatSchema(ctx, pg.DB, cfg.Datasets.SeatTableName); err != nil {
				return err
			}
			n, err := datasets.ImportSeatTable(ctx, pg.DB, cfg.Datasets.SeatTableName, e, records)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d %s seat records into %s\n", n, e.TableKey(), cfg.Datasets.SeatTableName)
			return nil
		},
	}

	cmd.Flags().StringVar(&exam, "exam", string(models.ExamJEEMains), "exam the seat table belongs to")
	cmd.Flags().StringVarP(&file, "file", "f", "", "seat allocation file (defaults to the configured file for the exam)")
	return cmd
}
