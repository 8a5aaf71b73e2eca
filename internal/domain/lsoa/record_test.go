package lsoa

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithinUKBounds(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     bool
	}{
		{"london", 51.5, -0.12, true},
		{"lat lower edge", 48, 0, true},
		{"lat upper edge", 61, 0, true},
		{"lon lower edge", 52, -9, true},
		{"lon upper edge", 52, 3, true},
		{"south of box", 47.9, 0, false},
		{"north of box", 61.1, 0, false},
		{"west of box", 52, -9.1, false},
		{"east of box", 52, 3.1, false},
		{"nan latitude", math.NaN(), 0, false},
		{"inf longitude", 52, math.Inf(1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WithinUKBounds(tt.lat, tt.lon))
		})
	}
}

func TestOptionalFloat_Or(t *testing.T) {
	assert.Equal(t, 3.5, Some(3.5).Or(0))
	assert.Equal(t, 0.5, None().Or(0.5))
	// A present zero is still a value, not absence.
	assert.Equal(t, 0.0, Some(0).Or(7))
}

func TestOptionalFloat_JSONRoundTrip(t *testing.T) {
	type payload struct {
		Population OptionalFloat `json:"population"`
		Uptake     OptionalFloat `json:"uptake"`
	}
	in := payload{Population: Some(1200), Uptake: None()}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"population":1200,"uptake":null}`, string(data))

	var out payload
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestOrderCategories(t *testing.T) {
	present := map[string]bool{
		CategoryLowBoth:          true,
		"Zebra custom":           true,
		CategoryPriority:         true,
		"Another custom":         true,
		CategoryHighPotentialUse: true,
	}
	got := OrderCategories(present)
	assert.Equal(t, []string{
		CategoryPriority,
		CategoryHighPotentialUse,
		CategoryLowBoth,
		"Another custom",
		"Zebra custom",
	}, got)
}

func TestDataset_Categories(t *testing.T) {
	ds := Dataset{
		{Code: "A", Category: CategoryLowBoth},
		{Code: "B", Category: CategoryPriority},
		{Code: "C", Category: CategoryPriority},
		{Code: "D", Category: ""},
	}
	assert.Equal(t, []string{CategoryPriority, CategoryLowBoth}, ds.Categories())
}

func TestDataset_MaxPopulation(t *testing.T) {
	assert.Equal(t, 0.0, Dataset{}.MaxPopulation())
	ds := Dataset{
		{Population: Some(1500)},
		{Population: None()},
		{Population: Some(900)},
	}
	assert.Equal(t, 1500.0, ds.MaxPopulation())
}
