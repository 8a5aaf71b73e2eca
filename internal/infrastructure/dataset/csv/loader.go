// Package csv loads and validates the LSOA model table from a CSV file.
// Parsing is deliberately tolerant: an unparsable optional value degrades to
// an absent field and an invalid coordinate drops the row, while only a
// missing mandatory column aborts the load.
package csv

import (
	"context"
	encsv "encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ukgridlab/solarscreen/internal/domain/lsoa"
	"github.com/ukgridlab/solarscreen/internal/infrastructure/monitoring/logging"
	"github.com/ukgridlab/solarscreen/internal/infrastructure/monitoring/prometheus"
	"github.com/ukgridlab/solarscreen/pkg/errors"
)

// Required and recognised column names. Header matching is case-insensitive
// after trimming; unrecognised columns are ignored.
const (
	colLatitude          = "latitude"
	colLongitude         = "longitude"
	colCode              = "lsoa_code"
	colName              = "lsoa_name"
	colCategory          = "category"
	colSolarConnections  = "solar_connections"
	colPopulation        = "population"
	colSolarPer1000Pop   = "solar_per_1000_pop"
	colPotentialLatScore = "potential_lat_score"
	colPriorityScore     = "priority_score"
)

// LoadStats summarises the outcome of one load pass.
type LoadStats struct {
	RowsRead            int
	RowsKept            int
	DroppedMissingCoord int
	DroppedOutOfBounds  int
	DroppedMalformed    int
}

// Loader reads the model table from a fixed path.
type Loader struct {
	path    string
	logger  logging.Logger
	metrics *prometheus.Metrics

	stats LoadStats
}

// NewLoader constructs a Loader for the CSV file at path.
func NewLoader(path string, logger logging.Logger) *Loader {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Loader{path: path, logger: logger.Named("csv")}
}

// WithMetrics attaches row-drop counters incremented on every load.
func (l *Loader) WithMetrics(m *prometheus.Metrics) *Loader {
	l.metrics = m
	return l
}

// Path returns the source file path, used by the file watcher.
func (l *Loader) Path() string { return l.path }

// Stats returns the statistics of the most recent Load call.
func (l *Loader) Stats() LoadStats { return l.stats }

// Name identifies the loader on the readiness probe.
func (l *Loader) Name() string { return "dataset" }

// Check reports whether the source file is still present and readable.
func (l *Loader) Check(ctx context.Context) error {
	if _, err := os.Stat(l.path); err != nil {
		return errors.Wrap(err, errors.ErrCodeDataSourceRead, "model table unavailable")
	}
	return nil
}

// Load parses the source file into a validated Dataset. It fails with
// ErrCodeDataSchema only when the latitude or longitude column is entirely
// absent; every other malformed-value condition degrades to a per-row drop or
// an absent field. An empty (but well-formed) file yields an empty Dataset.
func (l *Loader) Load(ctx context.Context) (lsoa.Dataset, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceRead, "failed to open model table").
			WithDetail("path=" + l.path)
	}
	defer f.Close()
	return l.parse(ctx, f)
}

func (l *Loader) parse(ctx context.Context, r io.Reader) (lsoa.Dataset, error) {
	reader := encsv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeDataSchema, "model table is empty").
			WithDetail("path=" + l.path)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDataSourceRead, "failed to read model table header")
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols[colLatitude]; !ok {
		return nil, errors.New(errors.ErrCodeDataSchema, "required column latitude is missing")
	}
	if _, ok := cols[colLongitude]; !ok {
		return nil, errors.New(errors.ErrCodeDataSchema, "required column longitude is missing")
	}

	stats := LoadStats{}
	ds := make(lsoa.Dataset, 0, 1024)
	for {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDataSourceRead, "model table load cancelled")
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A structurally broken row (bare quote etc.) is routine data
			// cleaning, not a load failure.
			stats.DroppedMalformed++
			continue
		}
		stats.RowsRead++

		rec, drop := buildRecord(row, cols)
		switch drop {
		case dropNone:
			ds = append(ds, rec)
			stats.RowsKept++
		case dropMissingCoord:
			stats.DroppedMissingCoord++
		case dropOutOfBounds:
			stats.DroppedOutOfBounds++
		}
	}

	l.stats = stats
	if l.metrics != nil {
		l.metrics.DatasetRowsDropped.WithLabelValues(prometheus.DropReasonMissingCoords).
			Add(float64(stats.DroppedMissingCoord))
		l.metrics.DatasetRowsDropped.WithLabelValues(prometheus.DropReasonOutOfBounds).
			Add(float64(stats.DroppedOutOfBounds))
		l.metrics.DatasetRowsDropped.WithLabelValues(prometheus.DropReasonMalformedRow).
			Add(float64(stats.DroppedMalformed))
	}
	l.logger.Info("model table loaded",
		logging.String("path", l.path),
		logging.Int("rows_read", stats.RowsRead),
		logging.Int("rows_kept", stats.RowsKept),
		logging.Int("dropped_missing_coord", stats.DroppedMissingCoord),
		logging.Int("dropped_out_of_bounds", stats.DroppedOutOfBounds),
		logging.Int("dropped_malformed", stats.DroppedMalformed),
	)
	return ds, nil
}

type dropReason int

const (
	dropNone dropReason = iota
	dropMissingCoord
	dropOutOfBounds
)

func buildRecord(row []string, cols map[string]int) (lsoa.Record, dropReason) {
	lat := parseOptional(cell(row, cols, colLatitude))
	lon := parseOptional(cell(row, cols, colLongitude))
	if !lat.Valid || !lon.Valid {
		return lsoa.Record{}, dropMissingCoord
	}
	if !lsoa.WithinUKBounds(lat.Value, lon.Value) {
		return lsoa.Record{}, dropOutOfBounds
	}

	return lsoa.Record{
		Code:              strings.TrimSpace(cell(row, cols, colCode)),
		Name:              strings.TrimSpace(cell(row, cols, colName)),
		Latitude:          lat.Value,
		Longitude:         lon.Value,
		Category:          strings.TrimSpace(cell(row, cols, colCategory)),
		SolarConnections:  parseOptional(cell(row, cols, colSolarConnections)),
		Population:        parseOptional(cell(row, cols, colPopulation)),
		SolarPer1000Pop:   parseOptional(cell(row, cols, colSolarPer1000Pop)),
		PotentialLatScore: parseOptional(cell(row, cols, colPotentialLatScore)),
		PriorityScore:     parseOptional(cell(row, cols, colPriorityScore)),
	}, dropNone
}

// cell returns the raw value of the named column, or "" when the column is
// absent from the header or the row is short.
func cell(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseOptional coerces a raw cell to a number, degrading to absent on any
// parse failure or non-finite value.
func parseOptional(raw string) lsoa.OptionalFloat {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return lsoa.None()
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return lsoa.None()
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return lsoa.None()
	}
	return lsoa.Some(v)
}
