// Package screening implements the numeric core of the solar under-utilisation
// pipeline: the global percentile rank of the priority score, the gamma-curved
// diverging colour encoding, and the filter/selection logic that produces map
// and table views. Every function is pure; the only state is the immutable
// PercentileMap built once per loaded dataset.
package screening

import (
	"sort"

	"github.com/ukgridlab/solarscreen/internal/domain/lsoa"
)

// NeutralPercentile is the rank assumed for records whose priority score is
// absent and therefore have no PercentileMap entry.
const NeutralPercentile = 0.5

// PercentileMap maps an LSOA code to the percentile rank of its priority
// score in (0,1], computed once over the entire validated dataset. It is
// immutable for the lifetime of a loaded dataset: filter changes never
// rebuild it, which is what keeps a record's colour stable while the
// displayed subset changes. Only reloading the source data produces a new map.
type PercentileMap map[string]float64

// Lookup returns the percentile rank for code, clamped to [0,1], defaulting
// to NeutralPercentile for codes without an entry.
func (m PercentileMap) Lookup(code string) float64 {
	p, ok := m[code]
	if !ok {
		return NeutralPercentile
	}
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// RankPriorityPercentiles computes the percentile rank of priority_score for
// every record that has one, using the fractional average-rank convention:
// records are ordered by score ascending, each record receives the mean
// ordinal (1-based) position among all records with an equal score, and that
// mean is divided by the count of scored records. The result lies in (0,1]
// with the highest score at exactly 1. Records with an absent score receive
// no entry.
//
// Percentile rank is used instead of min-max scaling because it spreads a
// skewed score distribution evenly across the colour gradient.
func RankPriorityPercentiles(ds lsoa.Dataset) PercentileMap {
	type scored struct {
		code  string
		score float64
	}
	items := make([]scored, 0, len(ds))
	for _, r := range ds {
		if r.PriorityScore.Valid {
			items = append(items, scored{code: r.Code, score: r.PriorityScore.Value})
		}
	}
	out := make(PercentileMap, len(items))
	if len(items) == 0 {
		return out
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].score < items[j].score
	})

	n := float64(len(items))
	for lo := 0; lo < len(items); {
		hi := lo
		for hi+1 < len(items) && items[hi+1].score == items[lo].score {
			hi++
		}
		// Mean of the 1-based positions lo+1 .. hi+1.
		avgRank := float64(lo+hi+2) / 2
		pct := avgRank / n
		for i := lo; i <= hi; i++ {
			out[items[i].code] = pct
		}
		lo = hi + 1
	}
	return out
}
