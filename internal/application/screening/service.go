// Package screening is the application layer of the pipeline: it owns the
// loaded Dataset and its PercentileMap, and assembles the map, table,
// summary, and relationship payloads for the display surfaces. All state is
// read-only between reloads; every view call is one full, synchronous,
// side-effect-free pass over the in-memory dataset.
package screening

import (
	"context"
	"sync"
	"time"

	"github.com/ukgridlab/solarscreen/internal/domain/lsoa"
	"github.com/ukgridlab/solarscreen/internal/domain/screening"
	"github.com/ukgridlab/solarscreen/internal/infrastructure/monitoring/logging"
	"github.com/ukgridlab/solarscreen/internal/infrastructure/monitoring/prometheus"
	"github.com/ukgridlab/solarscreen/pkg/errors"
)

// Source loads a validated Dataset from wherever the model table lives
// (CSV file, Postgres). Load is called once at start and again on reload.
type Source interface {
	Load(ctx context.Context) (lsoa.Dataset, error)
}

// ViewCache stores rendered view payloads. Implementations must treat Get
// misses as ErrCacheMiss-like errors; any cache failure only costs a
// recomputation, never correctness.
type ViewCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
}

// Service orchestrates load, rank, filter, selection, and colour encoding.
type Service struct {
	source  Source
	logger  logging.Logger
	metrics *prometheus.Metrics
	cache   ViewCache

	mu          sync.RWMutex
	dataset     lsoa.Dataset
	percentiles screening.PercentileMap
	generation  int64
	loaded      bool
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *prometheus.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithViewCache attaches a view-payload cache.
func WithViewCache(c ViewCache) Option {
	return func(s *Service) { s.cache = c }
}

// NewService constructs a Service over source. Call Reload before serving.
func NewService(source Source, logger logging.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &Service{source: source, logger: logger.Named("screening")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reload loads the dataset from the source and rebuilds the percentile map.
// This is the only operation that replaces either; a failed reload keeps the
// previous dataset in place. Reload is the single writer, so all view methods
// take the read lock only.
func (s *Service) Reload(ctx context.Context) error {
	started := time.Now()
	ds, err := s.source.Load(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CodeUnknown, "dataset reload failed")
	}
	pm := screening.RankPriorityPercentiles(ds)

	s.mu.Lock()
	s.dataset = ds
	s.percentiles = pm
	s.generation++
	s.loaded = true
	generation := s.generation
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.DatasetRecords.Set(float64(len(ds)))
		s.metrics.DatasetReloadsTotal.Inc()
	}
	s.logger.Info("dataset loaded",
		logging.Int("records", len(ds)),
		logging.Int64("generation", generation),
		logging.Duration("elapsed", time.Since(started)),
	)
	return nil
}

// snapshot returns the current dataset, percentile map, and generation under
// the read lock.
func (s *Service) snapshot() (lsoa.Dataset, screening.PercentileMap, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, nil, 0, errors.New(errors.ErrCodeDataNotLoaded, "no dataset loaded")
	}
	return s.dataset, s.percentiles, s.generation, nil
}

// Categories returns the category values present in the loaded dataset, in
// display order.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	ds, _, _, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return ds.Categories(), nil
}

// MaxPopulation returns the largest population value in the loaded dataset,
// the data-driven upper bound for the population filter control.
func (s *Service) MaxPopulation(ctx context.Context) (float64, error) {
	ds, _, _, err := s.snapshot()
	if err != nil {
		return 0, err
	}
	return ds.MaxPopulation(), nil
}

// MapView computes the colour-encoded point set for the map surface.
func (s *Service) MapView(ctx context.Context, params ViewParams) (*MapView, error) {
	ds, pm, gen, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	params = params.normalized(ds)

	var cached MapView
	if s.cacheGet(ctx, cacheKey(prometheus.ViewMap, gen, params), &cached) {
		return &cached, nil
	}

	defer s.observe(prometheus.ViewMap, time.Now())
	view := screening.Filter(ds, params.filter())
	shown := screening.SelectTop(view, params.MaxPoints)

	out := &MapView{Points: make([]MapPoint, 0, len(shown))}
	var sumLat, sumLon float64
	for _, r := range shown {
		p := pm.Lookup(r.Code)
		rgb := screening.PercentileColor(p, params.Gamma)
		out.Points = append(out.Points, MapPoint{
			Record:     r,
			Percentile: p,
			Color:      rgb,
			Alpha:      screening.FillAlpha,
		})
		sumLat += r.Latitude
		sumLon += r.Longitude
	}
	if len(shown) > 0 {
		out.Center = &ViewCenter{
			Latitude:  sumLat / float64(len(shown)),
			Longitude: sumLon / float64(len(shown)),
		}
	}

	s.cacheSet(ctx, cacheKey(prometheus.ViewMap, gen, params), out)
	return out, nil
}

// TableView computes the ordered, truncated top-N rows for the table
// surface. It draws from the same filtered view as the map but its cap is
// independent: changing the map's point cap never changes table contents.
func (s *Service) TableView(ctx context.Context, params ViewParams) (*TableView, error) {
	ds, _, gen, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	params = params.normalized(ds)

	var cached TableView
	if s.cacheGet(ctx, cacheKey(prometheus.ViewTable, gen, params), &cached) {
		return &cached, nil
	}

	defer s.observe(prometheus.ViewTable, time.Now())
	view := screening.Filter(ds, params.filter())
	rows := screening.SelectTop(view, params.TopN)

	out := &TableView{Rows: append(lsoa.Dataset{}, rows...)}
	s.cacheSet(ctx, cacheKey(prometheus.ViewTable, gen, params), out)
	return out, nil
}

// Summary computes the headline metrics of the filtered view.
func (s *Service) Summary(ctx context.Context, params ViewParams) (*screening.Summary, error) {
	ds, _, _, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	params = params.normalized(ds)

	defer s.observe(prometheus.ViewSummary, time.Now())
	view := screening.Filter(ds, params.filter())
	summary := screening.Summarize(view)
	return &summary, nil
}

// Relationships computes the scatter series and uptake distribution of the
// filtered view.
func (s *Service) Relationships(ctx context.Context, params ViewParams) (*Relationships, error) {
	ds, _, _, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	params = params.normalized(ds)

	defer s.observe(prometheus.ViewRelationships, time.Now())
	view := screening.Filter(ds, params.filter())
	return &Relationships{
		Scatter:   screening.RelationshipSeries(view),
		Histogram: screening.UptakeHistogram(view, params.HistogramBins),
	}, nil
}

func (s *Service) observe(view string, started time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.ViewRequestsTotal.WithLabelValues(view).Inc()
	s.metrics.ViewComputeDuration.WithLabelValues(view).Observe(time.Since(started).Seconds())
}

func (s *Service) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	if err := s.cache.Get(ctx, key, dest); err != nil {
		if s.metrics != nil {
			s.metrics.CacheMissesTotal.Inc()
		}
		return false
	}
	if s.metrics != nil {
		s.metrics.CacheHitsTotal.Inc()
	}
	return true
}

func (s *Service) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		// A broken cache only costs recomputation.
		s.logger.Warn("view cache write failed", logging.Err(err))
	}
}
