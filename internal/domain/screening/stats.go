package screening

import (
	"sort"

	"github.com/ukgridlab/solarscreen/internal/domain/lsoa"
)

// Summary aggregates a filtered view for the headline metrics row. Medians
// exclude absent values entirely; a median over zero present values is itself
// absent, never zero.
type Summary struct {
	Count           int                `json:"count"`
	MedianUptake    lsoa.OptionalFloat `json:"median_uptake_per_1000"`
	MedianPotential lsoa.OptionalFloat `json:"median_potential_score"`
	PriorityCount   int                `json:"priority_count"`
}

// Summarize computes the Summary of a filtered view.
func Summarize(view lsoa.Dataset) Summary {
	s := Summary{Count: len(view)}
	uptake := make([]float64, 0, len(view))
	potential := make([]float64, 0, len(view))
	for _, r := range view {
		if r.SolarPer1000Pop.Valid {
			uptake = append(uptake, r.SolarPer1000Pop.Value)
		}
		if r.PotentialLatScore.Valid {
			potential = append(potential, r.PotentialLatScore.Value)
		}
		if r.Category == lsoa.CategoryPriority {
			s.PriorityCount++
		}
	}
	s.MedianUptake = median(uptake)
	s.MedianPotential = median(potential)
	return s
}

// median returns the middle value of vs, or the mean of the two middle values
// for even lengths. The input slice is not modified.
func median(vs []float64) lsoa.OptionalFloat {
	if len(vs) == 0 {
		return lsoa.None()
	}
	sorted := make([]float64, len(vs))
	copy(sorted, vs)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return lsoa.Some(sorted[mid])
	}
	return lsoa.Some((sorted[mid-1] + sorted[mid]) / 2)
}

// ScatterPoint is one (potential, uptake) pair for the relationship panel.
type ScatterPoint struct {
	Potential float64 `json:"potential_lat_score"`
	Uptake    float64 `json:"solar_per_1000_pop"`
}

// RelationshipSeries returns the scatter pairs of a filtered view, excluding
// records missing either coordinate.
func RelationshipSeries(view lsoa.Dataset) []ScatterPoint {
	out := make([]ScatterPoint, 0, len(view))
	for _, r := range view {
		if r.PotentialLatScore.Valid && r.SolarPer1000Pop.Valid {
			out = append(out, ScatterPoint{
				Potential: r.PotentialLatScore.Value,
				Uptake:    r.SolarPer1000Pop.Value,
			})
		}
	}
	return out
}

// HistogramBin is one bucket of the uptake distribution. Low is inclusive;
// High is exclusive except for the last bin, which includes the maximum.
type HistogramBin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// UptakeHistogram buckets solar_per_1000_pop over a filtered view into bins
// equal-width buckets between the observed minimum and maximum. Absent values
// are excluded. A view with no present values yields no bins; a degenerate
// range (all values equal) yields a single bin holding everything.
func UptakeHistogram(view lsoa.Dataset, bins int) []HistogramBin {
	if bins < 1 {
		bins = 1
	}
	vals := make([]float64, 0, len(view))
	for _, r := range view {
		if r.SolarPer1000Pop.Valid {
			vals = append(vals, r.SolarPer1000Pop.Value)
		}
	}
	if len(vals) == 0 {
		return nil
	}

	min, max := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min == max {
		return []HistogramBin{{Low: min, High: max, Count: len(vals)}}
	}

	width := (max - min) / float64(bins)
	out := make([]HistogramBin, bins)
	for i := range out {
		out[i].Low = min + float64(i)*width
		out[i].High = min + float64(i+1)*width
	}
	out[bins-1].High = max
	for _, v := range vals {
		idx := int((v - min) / width)
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
	}
	return out
}
