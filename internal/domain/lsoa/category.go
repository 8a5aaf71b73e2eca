package lsoa

import "sort"

// The four categories produced by the upstream potential/uptake model.
// Category is an open set: the source table may carry other values, which are
// kept and sorted after the known four.
const (
	CategoryPriority         = "High potential / Low uptake (PRIORITY)"
	CategoryHighPotentialUse = "High potential / High uptake"
	CategoryLowPotentialUse  = "Low potential / High uptake"
	CategoryLowBoth          = "Low potential / Low uptake"
)

// preferredCategoryOrder is the display order of the known categories, the
// priority quadrant first.
var preferredCategoryOrder = []string{
	CategoryPriority,
	CategoryHighPotentialUse,
	CategoryLowPotentialUse,
	CategoryLowBoth,
}

// OrderCategories returns the categories of the present set in display order:
// known categories first in preferred order, unknown ones sorted
// lexicographically after them.
func OrderCategories(present map[string]bool) []string {
	out := make([]string, 0, len(present))
	known := make(map[string]bool, len(preferredCategoryOrder))
	for _, c := range preferredCategoryOrder {
		known[c] = true
		if present[c] {
			out = append(out, c)
		}
	}
	var extra []string
	for c := range present {
		if !known[c] {
			extra = append(extra, c)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}
