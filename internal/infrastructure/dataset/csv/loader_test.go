package csv

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukgridlab/solarscreen/internal/domain/lsoa"
	"github.com/ukgridlab/solarscreen/internal/infrastructure/monitoring/logging"
	"github.com/ukgridlab/solarscreen/internal/infrastructure/monitoring/prometheus"
	"github.com/ukgridlab/solarscreen/pkg/errors"
)

func writeCSV(t *testing.T, content string) *Loader {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model_table.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return NewLoader(path, logging.NewNopLogger())
}

func TestLoad_HappyPath(t *testing.T) {
	l := writeCSV(t, `lsoa_code,lsoa_name,latitude,longitude,category,solar_connections,population,solar_per_1000_pop,potential_lat_score,priority_score
 E01000001 , City of London 001A ,51.51,-0.09,High potential / Low uptake (PRIORITY),12,1500,8.0,0.91,0.85
E01000002,City of London 001B,51.52,-0.08,Low potential / Low uptake,,1200,,0.42,
`)
	ds, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, ds, 2)

	r := ds[0]
	assert.Equal(t, "E01000001", r.Code, "string fields are trimmed")
	assert.Equal(t, "City of London 001A", r.Name)
	assert.Equal(t, lsoa.CategoryPriority, r.Category)
	assert.Equal(t, 51.51, r.Latitude)
	assert.Equal(t, lsoa.Some(12.0), r.SolarConnections)
	assert.Equal(t, lsoa.Some(0.85), r.PriorityScore)

	// Empty optional cells become absent, not zero.
	assert.False(t, ds[1].SolarConnections.Valid)
	assert.False(t, ds[1].PriorityScore.Valid)

	stats := l.Stats()
	assert.Equal(t, 2, stats.RowsRead)
	assert.Equal(t, 2, stats.RowsKept)
}

func TestLoad_MissingRequiredColumnIsSchemaError(t *testing.T) {
	for _, header := range []string{
		"lsoa_code,longitude\nE01,0.5\n",
		"lsoa_code,latitude\nE01,51\n",
	} {
		l := writeCSV(t, header)
		_, err := l.Load(context.Background())
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeDataSchema), "want DATA_001, got %v", err)
	}
}

func TestLoad_EmptyFileIsSchemaError(t *testing.T) {
	l := writeCSV(t, "")
	_, err := l.Load(context.Background())
	assert.True(t, errors.IsCode(err, errors.ErrCodeDataSchema))
}

func TestLoad_DropsBadCoordinates(t *testing.T) {
	l := writeCSV(t, `lsoa_code,latitude,longitude
KEEP,51.5,-0.1
NOLAT,,-0.1
BADLAT,not-a-number,-0.1
SOUTH,40.0,-0.1
EAST,51.5,10.0
`)
	ds, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.Equal(t, "KEEP", ds[0].Code)

	stats := l.Stats()
	assert.Equal(t, 2, stats.DroppedMissingCoord)
	assert.Equal(t, 2, stats.DroppedOutOfBounds)
}

func TestLoad_DropCountersExported(t *testing.T) {
	m := prometheus.NewMetrics()
	l := writeCSV(t, `lsoa_code,latitude,longitude
KEEP,51.5,-0.1
NOLAT,,-0.1
SOUTH,40.0,-0.1
`).WithMetrics(m)

	_, err := l.Load(context.Background())
	require.NoError(t, err)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body),
		`solarscreen_dataset_rows_dropped_total{reason="missing_coordinates"} 1`)
	assert.Contains(t, string(body),
		`solarscreen_dataset_rows_dropped_total{reason="out_of_bounds"} 1`)
}

func TestLoad_UnparsableOptionalBecomesMissing(t *testing.T) {
	l := writeCSV(t, `lsoa_code,latitude,longitude,population,priority_score
A,51.5,-0.1,n/a,NaN
`)
	ds, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.False(t, ds[0].Population.Valid)
	assert.False(t, ds[0].PriorityScore.Valid, "NaN is not a usable score")
}

func TestLoad_UnrecognisedColumnsIgnored(t *testing.T) {
	l := writeCSV(t, `latitude,longitude,wibble,lsoa_code
51.5,-0.1,whatever,A
`)
	ds, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.Equal(t, "A", ds[0].Code)
}

func TestLoad_ShortRowsTolerated(t *testing.T) {
	l := writeCSV(t, `lsoa_code,latitude,longitude,population
A,51.5,-0.1
`)
	ds, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.False(t, ds[0].Population.Valid)
}

func TestLoad_HeaderCaseInsensitive(t *testing.T) {
	l := writeCSV(t, `LSOA_Code,Latitude,LONGITUDE
A,51.5,-0.1
`)
	ds, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds, 1)
}

func TestLoad_MissingFile(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "nope.csv"), nil)
	_, err := l.Load(context.Background())
	assert.True(t, errors.IsCode(err, errors.ErrCodeDataSourceRead))
}

func TestLoad_CancelledContext(t *testing.T) {
	l := writeCSV(t, "latitude,longitude\n51.5,-0.1\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := l.Load(ctx)
	assert.Error(t, err)
}
