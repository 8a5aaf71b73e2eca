package postgres

import (
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/ukgridlab/solarscreen/internal/config"
	"github.com/ukgridlab/solarscreen/internal/infrastructure/monitoring/logging"
	"github.com/ukgridlab/solarscreen/pkg/errors"
)

// Migrate applies all pending schema migrations from cfg.MigrationPath.
// Already being up to date is not an error.
func Migrate(cfg config.DatabaseConfig, logger logging.Logger) error {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	dsn := "pgx5://" + BuildDSN(cfg)[len("postgres://"):]

	m, err := migrate.New("file://"+cfg.MigrationPath, dsn)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to initialise migrator")
	}
	defer func() {
		_, _ = m.Close()
	}()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "schema migration failed")
	}

	version, dirty, _ := m.Version()
	logger.Info("schema migrations applied",
		logging.Int64("version", int64(version)),
		logging.Bool("dirty", dirty),
	)
	return nil
}
