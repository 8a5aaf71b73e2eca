package screening

import "github.com/ukgridlab/solarscreen/internal/domain/lsoa"

// FilterParams are the predicates applied to the validated dataset before
// either display surface sees it. They arrive as plain values from the
// control surface; the core holds no filter state between calls.
type FilterParams struct {
	// Categories is the set of category values that pass the filter.
	Categories map[string]bool

	// MinPopulation is the population floor. A record with an absent
	// population fails the check whenever the floor is positive.
	MinPopulation float64
}

// NewFilterParams builds FilterParams from a category list and floor.
func NewFilterParams(categories []string, minPopulation float64) FilterParams {
	set := make(map[string]bool, len(categories))
	for _, c := range categories {
		set[c] = true
	}
	return FilterParams{Categories: set, MinPopulation: minPopulation}
}

// Filter returns the order-preserving subset of ds whose category is allowed
// and whose population meets the floor. The result is always a fresh slice;
// ds is never mutated.
func Filter(ds lsoa.Dataset, p FilterParams) lsoa.Dataset {
	out := make(lsoa.Dataset, 0, len(ds))
	for _, r := range ds {
		if !p.Categories[r.Category] {
			continue
		}
		if p.MinPopulation > 0 {
			if !r.Population.Valid || r.Population.Value < p.MinPopulation {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}
