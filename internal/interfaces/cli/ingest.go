package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	csvsource "github.com/ukgridlab/solarscreen/internal/infrastructure/dataset/csv"
	pgsource "github.com/ukgridlab/solarscreen/internal/infrastructure/dataset/postgres"
)

func newIngestCmd(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Load the model table CSV into Postgres",
		Long: "ingest validates the CSV the same way serve does, runs any pending\n" +
			"schema migrations, and upserts every kept row into the lsoa_model table\n" +
			"so the server can run with dataset.source=postgres.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}

			loader := csvsource.NewLoader(cfg.Dataset.CSVPath, logger)
			ds, err := loader.Load(cmd.Context())
			if err != nil {
				return err
			}

			if err := pgsource.Migrate(cfg.Database, logger); err != nil {
				return err
			}
			pool, err := pgsource.Connect(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer pool.Close()

			repo := pgsource.NewRepository(pool, logger)
			if err := repo.Ingest(cmd.Context(), ds); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d record(s) into lsoa_model\n", len(ds))
			return nil
		},
	}
}
