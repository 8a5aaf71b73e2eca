// Package cli implements the solarscreen command-line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	appscreening "github.com/ukgridlab/solarscreen/internal/application/screening"
	"github.com/ukgridlab/solarscreen/internal/config"
	csvsource "github.com/ukgridlab/solarscreen/internal/infrastructure/dataset/csv"
	"github.com/ukgridlab/solarscreen/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	CSVPath    string
}

// NewRootCommand creates the root cobra command with all global flags and
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "solarscreen",
		Short: "Rank UK census areas by untapped rooftop solar potential",
		Long: "solarscreen screens LSOA-level solar installation data for areas where\n" +
			"modelled potential is high but current uptake is low, producing ranked\n" +
			"tables and colour-coded map payloads for grid-connection planning.",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pf.StringVar(&opts.CSVPath, "csv", "", "model table CSV path override")

	cmd.AddCommand(
		newServeCmd(opts),
		newScreenCmd(opts),
		newSummaryCmd(opts),
		newIngestCmd(opts),
	)
	return cmd
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCommand().Execute()
}

// loadConfig resolves configuration from file/environment plus flag overrides.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.CSVPath != "" {
		cfg.Dataset.Source = "csv"
		cfg.Dataset.CSVPath = opts.CSVPath
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (logging.Logger, error) {
	return logging.NewLogger(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
}

// newLocalService loads the dataset from the configured CSV and returns a
// ready screening service. The CLI always reads the file directly; pointing
// it at Postgres is a serve-mode concern.
func newLocalService(ctx context.Context, cfg *config.Config, logger logging.Logger) (*appscreening.Service, error) {
	source := csvsource.NewLoader(cfg.Dataset.CSVPath, logger)
	svc := appscreening.NewService(source, logger)
	if err := svc.Reload(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}
