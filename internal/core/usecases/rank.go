package usecases

import (
	"cmp"
	"slices"

	"github.com/samirrijal/cctvlocator/internal/core/domain"
)

// rankResults orders cameras by distance; at equal distance a status of
// exactly "Working" comes first. The sort is stable, so full ties keep
// store order.
func rankResults(results []domain.NearbyCamera) {
	slices.SortStableFunc(results, func(a, b domain.NearbyCamera) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(tieRank(a.Status), tieRank(b.Status))
	})
}

func tieRank(status string) int {
	if status == rankedStatus {
		return 0
	}
	return 1
}
