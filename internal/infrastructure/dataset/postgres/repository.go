// Package postgres provides the PostgreSQL-backed dataset source: the model
// table can be ingested into and loaded from the lsoa_model table instead of
// being read from a CSV file on every start.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ukgridlab/solarscreen/internal/config"
	"github.com/ukgridlab/solarscreen/internal/domain/lsoa"
	"github.com/ukgridlab/solarscreen/internal/infrastructure/monitoring/logging"
	"github.com/ukgridlab/solarscreen/internal/infrastructure/monitoring/prometheus"
	"github.com/ukgridlab/solarscreen/pkg/errors"
)

// BuildDSN renders a pgx connection string from the database configuration.
func BuildDSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, cfg.SSLMode)
}

// Connect establishes a pgx connection pool and verifies it with a ping.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(BuildDSN(cfg))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "invalid postgres configuration")
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create postgres pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "postgres ping failed")
	}
	return pool, nil
}

// Repository loads and ingests the LSOA model table.
type Repository struct {
	pool    *pgxpool.Pool
	logger  logging.Logger
	metrics *prometheus.Metrics
}

// NewRepository constructs a Repository over an established pool.
func NewRepository(pool *pgxpool.Pool, logger logging.Logger) *Repository {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Repository{pool: pool, logger: logger.Named("postgres")}
}

// WithMetrics attaches row-drop counters incremented on every load.
func (r *Repository) WithMetrics(m *prometheus.Metrics) *Repository {
	r.metrics = m
	return r
}

// Name identifies the repository on the readiness probe.
func (r *Repository) Name() string { return "postgres" }

// Check verifies database connectivity.
func (r *Repository) Check(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

const loadQuery = `
SELECT lsoa_code, lsoa_name, latitude, longitude, category,
       solar_connections, population, solar_per_1000_pop,
       potential_lat_score, priority_score
FROM lsoa_model
ORDER BY id`

// Load reads every stored row and applies the same validation as the CSV
// loader: rows with out-of-bounds coordinates are skipped rather than
// surfaced as errors.
func (r *Repository) Load(ctx context.Context) (lsoa.Dataset, error) {
	rows, err := r.pool.Query(ctx, loadQuery)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to query lsoa_model")
	}
	defer rows.Close()

	ds := make(lsoa.Dataset, 0, 1024)
	dropped := 0
	for rows.Next() {
		var row modelRow
		if err := rows.Scan(
			&row.Code, &row.Name, &row.Latitude, &row.Longitude, &row.Category,
			&row.SolarConnections, &row.Population, &row.SolarPer1000Pop,
			&row.PotentialLatScore, &row.PriorityScore,
		); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan lsoa_model row")
		}
		rec, ok := row.toRecord()
		if !ok {
			dropped++
			if r.metrics != nil {
				r.metrics.DatasetRowsDropped.WithLabelValues(prometheus.DropReasonOutOfBounds).Inc()
			}
			continue
		}
		ds = append(ds, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "lsoa_model iteration failed")
	}

	r.logger.Info("model table loaded from postgres",
		logging.Int("rows_kept", len(ds)),
		logging.Int("rows_dropped", dropped),
	)
	return ds, nil
}

const ingestStmt = `
INSERT INTO lsoa_model (lsoa_code, lsoa_name, latitude, longitude, category,
                        solar_connections, population, solar_per_1000_pop,
                        potential_lat_score, priority_score)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (lsoa_code) DO UPDATE SET
  lsoa_name = EXCLUDED.lsoa_name,
  latitude = EXCLUDED.latitude,
  longitude = EXCLUDED.longitude,
  category = EXCLUDED.category,
  solar_connections = EXCLUDED.solar_connections,
  population = EXCLUDED.population,
  solar_per_1000_pop = EXCLUDED.solar_per_1000_pop,
  potential_lat_score = EXCLUDED.potential_lat_score,
  priority_score = EXCLUDED.priority_score`

// Ingest upserts a validated dataset, batched over a single round trip group.
func (r *Repository) Ingest(ctx context.Context, ds lsoa.Dataset) error {
	batch := &pgx.Batch{}
	for _, rec := range ds {
		batch.Queue(ingestStmt,
			rec.Code, rec.Name, rec.Latitude, rec.Longitude, rec.Category,
			optPtr(rec.SolarConnections), optPtr(rec.Population),
			optPtr(rec.SolarPer1000Pop), optPtr(rec.PotentialLatScore),
			optPtr(rec.PriorityScore),
		)
	}
	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range ds {
		if _, err := br.Exec(); err != nil {
			return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to upsert lsoa_model row")
		}
	}
	r.logger.Info("model table ingested", logging.Int("rows", len(ds)))
	return nil
}

// modelRow mirrors one lsoa_model row with nullable numeric columns.
type modelRow struct {
	Code              string
	Name              string
	Latitude          float64
	Longitude         float64
	Category          string
	SolarConnections  *float64
	Population        *float64
	SolarPer1000Pop   *float64
	PotentialLatScore *float64
	PriorityScore     *float64
}

// toRecord converts a scanned row to a domain Record, reporting false when
// the coordinates fall outside the supported bounding box.
func (m modelRow) toRecord() (lsoa.Record, bool) {
	if !lsoa.WithinUKBounds(m.Latitude, m.Longitude) {
		return lsoa.Record{}, false
	}
	return lsoa.Record{
		Code:              m.Code,
		Name:              m.Name,
		Latitude:          m.Latitude,
		Longitude:         m.Longitude,
		Category:          m.Category,
		SolarConnections:  fromPtr(m.SolarConnections),
		Population:        fromPtr(m.Population),
		SolarPer1000Pop:   fromPtr(m.SolarPer1000Pop),
		PotentialLatScore: fromPtr(m.PotentialLatScore),
		PriorityScore:     fromPtr(m.PriorityScore),
	}, true
}

func fromPtr(p *float64) lsoa.OptionalFloat {
	if p == nil {
		return lsoa.None()
	}
	return lsoa.Some(*p)
}

func optPtr(o lsoa.OptionalFloat) *float64 {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}
