package screening

import (
	"sort"

	"github.com/ukgridlab/solarscreen/internal/domain/lsoa"
)

// SelectTop orders view descending by priority score and truncates to at most
// n records. Records with an absent score sort last; ties keep their original
// load order (stable sort). The input slice is never reordered in place.
//
// SelectTop is applied twice per recomputation with independent caps: once
// for the map's rendering cap and once for the table's top-N. Changing one
// cap never affects the other surface.
func SelectTop(view lsoa.Dataset, n int) lsoa.Dataset {
	sorted := make(lsoa.Dataset, len(view))
	copy(sorted, view)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].PriorityScore, sorted[j].PriorityScore
		switch {
		case a.Valid && b.Valid:
			return a.Value > b.Value
		case a.Valid:
			return true
		default:
			return false
		}
	})

	if n < 0 {
		n = 0
	}
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
