// cmd/advisor/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"college-advisor/internal/common/config"
	"college-advisor/internal/common/database"
	"college-advisor/internal/common/logger"
	"college-advisor/internal/datasets"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configFile string
	dataDir    string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "advisor",
		Short: "Engineering admission seat advisor",
		Long: `advisor answers seat-availability questions against the JEE rank and seat
allocation tables without a running Zeebe broker. It also validates dataset
files and imports seat tables into PostgreSQL.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is configs/config.yaml)")
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "directory holding adv_rank.json, mains_rank.json, adv_seats.json and mains_seats.json")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level for diagnostics written to stderr")

	root.AddCommand(
		newAdviseCmd(opts),
		newPredictCmd(opts),
		newValidateCmd(opts),
		newImportSeatsCmd(opts),
		newTasksCmd(opts),
	)
	return root
}

func (o *globalOptions) logger() logger.Logger {
	return logger.NewStructured(o.logLevel, "console", "stderr")
}

func (o *globalOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configFile != "" {
		cfg, err = config.LoadFromFile(o.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if o.dataDir != "" {
		cfg.Datasets.AdvancedRankTable = filepath.Join(o.dataDir, "adv_rank.json")
		cfg.Datasets.MainsRankTable = filepath.Join(o.dataDir, "mains_rank.json")
		cfg.Datasets.AdvancedSeatTable = filepath.Join(o.dataDir, "adv_seats.json")
		cfg.Datasets.MainsSeatTable = filepath.Join(o.dataDir, "mains_seats.json")
	}
	return cfg, nil
}

// loadTables reads the reference tables the way the worker manager does, connecting to
// PostgreSQL only when the seat source asks for it.
func (o *globalOptions) loadTables(ctx context.Context, cfg *config.Config, log logger.Logger) (*datasets.Tables, error) {
	if cfg.Datasets.SeatSource != config.SeatSourcePostgres {
		return datasets.Load(ctx, cfg.Datasets, nil, log)
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, err
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	return datasets.Load(ctx, cfg.Datasets, pg.DB, log)
}
