// internal/engine/match/grouping.go
package match

import "tour-workers/internal/models"

// groupThreshold is the minimum confidence against the seed for a candidate
// to join the seed's group.
const groupThreshold = 0.7

// GroupOffers partitions offers into hotel groups with a single seed-based
// pass: each not-yet-assigned offer opens a group and every later unassigned
// offer joins it when it matches the seed with confidence above the
// threshold. Membership is decided against the seed only, never against
// other members, and an offer is never re-evaluated once assigned. The
// partition is therefore deterministic in input order but deliberately not a
// transitive closure; preserving that semantics is part of the contract.
func GroupOffers(offers []models.TourOffer) [][]models.TourOffer {
	if len(offers) == 0 {
		return nil
	}

	assigned := make([]bool, len(offers))
	var groups [][]models.TourOffer

	for i := range offers {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		group := []models.TourOffer{offers[i]}

		for j := i + 1; j < len(offers); j++ {
			if assigned[j] {
				continue
			}
			if IsMatchingHotel(offers[i], offers[j]).Confidence > groupThreshold {
				assigned[j] = true
				group = append(group, offers[j])
			}
		}

		groups = append(groups, group)
	}

	return groups
}
