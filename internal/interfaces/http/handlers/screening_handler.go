package handlers

import (
	"context"
	"net/http"
	"sync"

	appscreening "github.com/ukgridlab/solarscreen/internal/application/screening"
	"github.com/ukgridlab/solarscreen/internal/config"
	"github.com/ukgridlab/solarscreen/internal/domain/screening"
)

// ScreeningService is the application-layer surface the handler depends on.
type ScreeningService interface {
	Categories(ctx context.Context) ([]string, error)
	MaxPopulation(ctx context.Context) (float64, error)
	MapView(ctx context.Context, params appscreening.ViewParams) (*appscreening.MapView, error)
	TableView(ctx context.Context, params appscreening.ViewParams) (*appscreening.TableView, error)
	Summary(ctx context.Context, params appscreening.ViewParams) (*screening.Summary, error)
	Relationships(ctx context.Context, params appscreening.ViewParams) (*appscreening.Relationships, error)
}

// ScreeningHandler serves the map, table, summary, and relationship views.
type ScreeningHandler struct {
	service ScreeningService

	mu       sync.RWMutex
	defaults config.DisplayConfig
}

// NewScreeningHandler creates a new ScreeningHandler.
func NewScreeningHandler(service ScreeningService, defaults config.DisplayConfig) *ScreeningHandler {
	return &ScreeningHandler{service: service, defaults: defaults}
}

// SetDefaults replaces the display defaults applied to requests that omit a
// parameter. Used by configuration hot-reload.
func (h *ScreeningHandler) SetDefaults(defaults config.DisplayConfig) {
	h.mu.Lock()
	h.defaults = defaults
	h.mu.Unlock()
}

// params assembles ViewParams from the configured defaults overlaid with the
// request's query parameters. Unknown parameters are ignored; malformed ones
// are rejected.
func (h *ScreeningHandler) params(r *http.Request) (appscreening.ViewParams, error) {
	h.mu.RLock()
	defaults := h.defaults
	h.mu.RUnlock()

	p := appscreening.DefaultViewParams(defaults)
	p.Categories = queryCategories(r)

	if err := queryFloat(r, "min_population", &p.MinPopulation); err != nil {
		return p, err
	}
	if err := queryFloat(r, "gamma", &p.Gamma); err != nil {
		return p, err
	}
	if err := queryInt(r, "max_points", &p.MaxPoints); err != nil {
		return p, err
	}
	if err := queryInt(r, "top_n", &p.TopN); err != nil {
		return p, err
	}
	if err := queryInt(r, "bins", &p.HistogramBins); err != nil {
		return p, err
	}
	return p, nil
}

// Map handles GET /api/v1/screening/map.
func (h *ScreeningHandler) Map(w http.ResponseWriter, r *http.Request) {
	p, err := h.params(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	view, err := h.service.MapView(r.Context(), p)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Table handles GET /api/v1/screening/table.
func (h *ScreeningHandler) Table(w http.ResponseWriter, r *http.Request) {
	p, err := h.params(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	view, err := h.service.TableView(r.Context(), p)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Summary handles GET /api/v1/screening/summary.
func (h *ScreeningHandler) Summary(w http.ResponseWriter, r *http.Request) {
	p, err := h.params(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	summary, err := h.service.Summary(r.Context(), p)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Relationships handles GET /api/v1/screening/relationships.
func (h *ScreeningHandler) Relationships(w http.ResponseWriter, r *http.Request) {
	p, err := h.params(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	rel, err := h.service.Relationships(r.Context(), p)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rel)
}

// CategoriesResponse describes the filter controls the dataset supports: the
// category values present plus the data-driven population slider bound.
type CategoriesResponse struct {
	Categories    []string `json:"categories"`
	MaxPopulation float64  `json:"max_population"`
}

// Categories handles GET /api/v1/screening/categories.
func (h *ScreeningHandler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.service.Categories(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	maxPop, err := h.service.MaxPopulation(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CategoriesResponse{Categories: cats, MaxPopulation: maxPop})
}
