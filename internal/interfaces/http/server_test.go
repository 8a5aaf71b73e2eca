package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appscreening "github.com/ukgridlab/solarscreen/internal/application/screening"
	"github.com/ukgridlab/solarscreen/internal/config"
	"github.com/ukgridlab/solarscreen/internal/domain/lsoa"
	"github.com/ukgridlab/solarscreen/internal/infrastructure/monitoring/logging"
	"github.com/ukgridlab/solarscreen/internal/infrastructure/monitoring/prometheus"
	"github.com/ukgridlab/solarscreen/internal/interfaces/http/handlers"
)

type memSource struct{ ds lsoa.Dataset }

func (s memSource) Load(context.Context) (lsoa.Dataset, error) { return s.ds, nil }

func testDataset() lsoa.Dataset {
	mk := func(code string, score float64) lsoa.Record {
		return lsoa.Record{
			Code: code, Name: "Area " + code,
			Latitude: 51.5, Longitude: -0.1,
			Category:      lsoa.CategoryPriority,
			Population:    lsoa.Some(1200),
			PriorityScore: lsoa.Some(score),
		}
	}
	return lsoa.Dataset{mk("E01000001", 10), mk("E01000002", 20), mk("E01000003", 40)}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	svc := appscreening.NewService(memSource{ds: testDataset()}, logging.NewNopLogger())
	require.NoError(t, svc.Reload(context.Background()))

	display := config.DisplayConfig{Gamma: 1.5, MaxPoints: 16500, TopN: 50, HistogramBins: 20}
	return NewRouter(RouterConfig{
		ScreeningHandler: handlers.NewScreeningHandler(svc, display),
		HealthHandler:    handlers.NewHealthHandler("test"),
		Logger:           logging.NewNopLogger(),
		Metrics:          prometheus.NewMetrics(),
	})
}

func get(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRouter_Probes(t *testing.T) {
	router := newTestRouter(t)
	assert.Equal(t, http.StatusOK, get(t, router, "/healthz").Code)
	assert.Equal(t, http.StatusOK, get(t, router, "/readyz").Code)
}

func TestRouter_Metrics(t *testing.T) {
	router := newTestRouter(t)
	rec := get(t, router, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "solarscreen_")
}

func TestRouter_MapEndpoint(t *testing.T) {
	router := newTestRouter(t)
	rec := get(t, router, "/api/v1/screening/map?gamma=1.0")
	require.Equal(t, http.StatusOK, rec.Code)

	var view appscreening.MapView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Points, 3)
	assert.Equal(t, "E01000003", view.Points[0].Code)
	assert.InDelta(t, 1.0, view.Points[0].Percentile, 1e-12)
	require.NotNil(t, view.Center)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_TableEndpoint(t *testing.T) {
	router := newTestRouter(t)
	rec := get(t, router, "/api/v1/screening/table?top_n=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var view appscreening.TableView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Rows, 2)
	assert.Equal(t, "E01000003", view.Rows[0].Code)
	assert.Equal(t, "E01000002", view.Rows[1].Code)
}

func TestRouter_SummaryEndpoint(t *testing.T) {
	router := newTestRouter(t)
	rec := get(t, router, "/api/v1/screening/summary")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":3`)
}

func TestRouter_CategoriesEndpoint(t *testing.T) {
	router := newTestRouter(t)
	rec := get(t, router, "/api/v1/screening/categories")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.CategoriesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{lsoa.CategoryPriority}, resp.Categories)
	assert.Equal(t, 1200.0, resp.MaxPopulation)
}

func TestRouter_BadParamIs400(t *testing.T) {
	router := newTestRouter(t)
	assert.Equal(t, http.StatusBadRequest, get(t, router, "/api/v1/screening/map?max_points=nope").Code)
}

func TestRouter_UnknownRouteIs404(t *testing.T) {
	router := newTestRouter(t)
	assert.Equal(t, http.StatusNotFound, get(t, router, "/api/v1/screening/unknown").Code)
}

func TestServer_StartStop(t *testing.T) {
	srv := NewServer(config.ServerConfig{Port: 0}, newTestRouter(t), logging.NewNopLogger())
	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	require.NoError(t, srv.Stop(context.Background()))
	assert.NoError(t, <-done)
}
