// Package lsoa defines the core value types of the screening domain: one
// Record per Lower Layer Super Output Area (LSOA), the validated Dataset, and
// the category vocabulary. Everything here is a plain immutable value; no I/O
// and no reference to how records are stored or rendered.
package lsoa

import (
	"encoding/json"
	"math"
)

// UK bounding box. Records whose centroid falls outside are discarded at
// load time.
const (
	MinLatitude  = 48.0
	MaxLatitude  = 61.0
	MinLongitude = -9.0
	MaxLongitude = 3.0
)

// WithinUKBounds reports whether the coordinate pair is finite and inside the
// supported UK bounding box.
func WithinUKBounds(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= MinLatitude && lat <= MaxLatitude && lon >= MinLongitude && lon <= MaxLongitude
}

// OptionalFloat is a numeric field that may be absent. Optional columns that
// fail to parse become absent rather than zero, and consumers must decide
// explicitly how absence behaves (sort last, fail a threshold, default to a
// neutral percentile).
type OptionalFloat struct {
	Value float64
	Valid bool
}

// Some returns a present OptionalFloat.
func Some(v float64) OptionalFloat {
	return OptionalFloat{Value: v, Valid: true}
}

// None returns an absent OptionalFloat.
func None() OptionalFloat {
	return OptionalFloat{}
}

// Or returns the contained value, or def when absent.
func (o OptionalFloat) Or(def float64) float64 {
	if o.Valid {
		return o.Value
	}
	return def
}

// MarshalJSON encodes an absent value as null, matching how the rendering
// surface expects missing tooltip fields.
func (o OptionalFloat) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// UnmarshalJSON accepts null or a number.
func (o *OptionalFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = OptionalFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// Record is the atomic entity of the screening pipeline: one validated row of
// the model table. Latitude and longitude are always present and in-bounds;
// every other numeric field may be absent.
type Record struct {
	Code              string        `json:"lsoa_code"`
	Name              string        `json:"lsoa_name"`
	Latitude          float64       `json:"latitude"`
	Longitude         float64       `json:"longitude"`
	Category          string        `json:"category"`
	SolarConnections  OptionalFloat `json:"solar_connections"`
	Population        OptionalFloat `json:"population"`
	SolarPer1000Pop   OptionalFloat `json:"solar_per_1000_pop"`
	PotentialLatScore OptionalFloat `json:"potential_lat_score"`
	PriorityScore     OptionalFloat `json:"priority_score"`
}

// Dataset is an ordered collection of valid Records. Order carries no meaning
// beyond providing the deterministic tie-break for stable sorts. A Dataset is
// built once at load time and read-only afterwards; filtered views are always
// fresh slices, never in-place mutations.
type Dataset []Record

// Categories returns the distinct category values present in the dataset, the
// known four first in preferred order and any others sorted after them.
func (d Dataset) Categories() []string {
	present := make(map[string]bool, 8)
	for _, r := range d {
		if r.Category != "" {
			present[r.Category] = true
		}
	}
	return OrderCategories(present)
}

// MaxPopulation returns the largest present population value, or 0 when every
// record's population is absent.
func (d Dataset) MaxPopulation() float64 {
	max := 0.0
	for _, r := range d {
		if r.Population.Valid && r.Population.Value > max {
			max = r.Population.Value
		}
	}
	return max
}
