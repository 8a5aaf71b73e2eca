package screening

import (
	"github.com/ukgridlab/solarscreen/internal/domain/lsoa"
	"github.com/ukgridlab/solarscreen/internal/domain/screening"
)

// MapPoint is one rendered map marker: the raw record fields for tooltips
// plus the computed percentile and fill colour.
type MapPoint struct {
	lsoa.Record
	Percentile float64       `json:"percentile"`
	Color      screening.RGB `json:"color"`
	Alpha      uint8         `json:"alpha"`
}

// ViewCenter is the initial camera position: the mean coordinate of the
// rendered points.
type ViewCenter struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MapView is the payload handed to the map surface. An empty Points slice
// with a nil Center is the well-formed "no data for current filters" result.
type MapView struct {
	Points []MapPoint  `json:"points"`
	Center *ViewCenter `json:"center,omitempty"`
}

// TableView is the payload handed to the table surface: ordered, truncated,
// raw fields only, no colour.
type TableView struct {
	Rows lsoa.Dataset `json:"rows"`
}

// Relationships is the payload for the relationship panels.
type Relationships struct {
	Scatter   []screening.ScatterPoint `json:"scatter"`
	Histogram []screening.HistogramBin `json:"histogram"`
}
