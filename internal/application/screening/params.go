package screening

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/ukgridlab/solarscreen/internal/config"
	"github.com/ukgridlab/solarscreen/internal/domain/lsoa"
	"github.com/ukgridlab/solarscreen/internal/domain/screening"
)

// ViewParams are the control-surface inputs of one recomputation. The core
// treats them as plain values; nothing is retained between calls.
type ViewParams struct {
	// Categories to keep. Nil (as opposed to empty) means "all categories
	// present in the dataset", matching the control surface's default state.
	Categories []string

	// MinPopulation is the population floor; negative values are clamped to 0.
	MinPopulation float64

	// MaxPoints caps the map point count.
	MaxPoints int

	// TopN caps the table row count.
	TopN int

	// Gamma is the colour sensitivity exponent, clamped to the supported range.
	Gamma float64

	// HistogramBins is the uptake-distribution bucket count.
	HistogramBins int
}

// DefaultViewParams builds ViewParams from the configured display defaults.
func DefaultViewParams(d config.DisplayConfig) ViewParams {
	return ViewParams{
		MinPopulation: 0,
		MaxPoints:     d.MaxPoints,
		TopN:          d.TopN,
		Gamma:         d.Gamma,
		HistogramBins: d.HistogramBins,
	}
}

// normalized clamps out-of-range values and resolves the nil-categories
// default against the dataset.
func (p ViewParams) normalized(ds lsoa.Dataset) ViewParams {
	if p.Categories == nil {
		p.Categories = ds.Categories()
	}
	if p.MinPopulation < 0 {
		p.MinPopulation = 0
	}
	if p.MaxPoints < 1 {
		p.MaxPoints = config.DefaultMaxPoints
	}
	if p.TopN < 1 {
		p.TopN = config.DefaultTopN
	}
	if p.Gamma == 0 {
		p.Gamma = config.DefaultGamma
	}
	p.Gamma = screening.ClampGamma(p.Gamma)
	if p.HistogramBins < 1 {
		p.HistogramBins = config.DefaultHistogramBins
	}
	return p
}

func (p ViewParams) filter() screening.FilterParams {
	return screening.NewFilterParams(p.Categories, p.MinPopulation)
}

// cacheKey derives a deterministic key for a view payload. The dataset
// generation is part of the key, so a reload implicitly invalidates every
// cached view.
func cacheKey(view string, generation int64, p ViewParams) string {
	cats := append([]string(nil), p.Categories...)
	sort.Strings(cats)
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|%s|%g|%d|%d|%g|%d",
		view, generation, strings.Join(cats, "\x1f"),
		p.MinPopulation, p.MaxPoints, p.TopN, p.Gamma, p.HistogramBins)
	return view + ":" + hex.EncodeToString(h.Sum(nil))[:32]
}
