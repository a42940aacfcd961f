// internal/engine/match/grouping_test.go
package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tour-workers/internal/models"
)

func TestGroupOffers_Empty(t *testing.T) {
	assert.Nil(t, GroupOffers(nil))
	assert.Nil(t, GroupOffers([]models.TourOffer{}))
}

func TestGroupOffers_MergesSameHotelAcrossProviders(t *testing.T) {
	offers := []models.TourOffer{
		offer("Rixos Premium Belek", func(o *models.TourOffer) { o.Provider = "level-travel" }),
		offer("Crystal Waterworld", func(o *models.TourOffer) { o.Provider = "sletat" }),
		offer("RIXOS PREMIUM BELEK RESORT", func(o *models.TourOffer) { o.Provider = "travelata" }),
	}

	groups := GroupOffers(offers)

	assert.Len(t, groups, 2)
	assert.Len(t, groups[0], 2)
	assert.Equal(t, "level-travel", groups[0][0].Provider)
	assert.Equal(t, "travelata", groups[0][1].Provider)
	assert.Len(t, groups[1], 1)
}

func TestGroupOffers_MembershipDecidedAgainstSeedOnly(t *testing.T) {
	// B matches seed A and C matches seed A, so all three group together
	// even though B and C might not match each other directly; conversely,
	// an offer matching B but not A would open its own group. The partition
	// is seed-based, not a transitive closure.
	seed := offer("Grand Palace", func(o *models.TourOffer) {
		o.Latitude = floatPtr(36.5000)
		o.Longitude = floatPtr(32.0000)
	})
	nearEast := offer("Grand Palace Alanya", func(o *models.TourOffer) {
		o.Latitude = floatPtr(36.5000)
		o.Longitude = floatPtr(32.0040) // ~360m east of seed
	})
	nearWest := offer("Grand Palace Beach", func(o *models.TourOffer) {
		o.Latitude = floatPtr(36.5000)
		o.Longitude = floatPtr(31.9960) // ~360m west of seed, ~720m from nearEast
	})

	// sanity: the two satellites do not match each other directly
	assert.Equal(t, 0.0, IsMatchingHotel(nearEast, nearWest).Confidence)

	groups := GroupOffers([]models.TourOffer{seed, nearEast, nearWest})
	assert.Len(t, groups, 1)
	assert.Len(t, groups[0], 3)
}

func TestGroupOffers_Deterministic(t *testing.T) {
	offers := []models.TourOffer{
		offer("Rixos Premium Belek"),
		offer("Rixos Premium Belek Hotel"),
		offer("Crystal Waterworld"),
		offer("Отель Жемчужина"),
		offer("Жемчужина СПА"),
	}

	first := GroupOffers(offers)
	for i := 0; i < 5; i++ {
		again := GroupOffers(offers)
		assert.Equal(t, first, again)
	}
}

func TestGroupOffers_EveryOfferAssignedExactlyOnce(t *testing.T) {
	offers := []models.TourOffer{
		offer("Rixos Premium Belek"),
		offer("RIXOS PREMIUM BELEK RESORT"),
		offer("Crystal Waterworld"),
		offer("Seaside Palace"),
	}

	groups := GroupOffers(offers)

	total := 0
	for _, g := range groups {
		total += len(g)
	}
	assert.Equal(t, len(offers), total)
}
