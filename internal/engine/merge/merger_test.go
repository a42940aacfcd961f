// internal/engine/merge/merger_test.go
package merge

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"tour-workers/internal/models"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestMergeGroup_Empty(t *testing.T) {
	assert.Equal(t, models.Hotel{}, MergeGroup(nil))
}

func TestMergeGroup_PrimarySourceSelection(t *testing.T) {
	poor := models.TourOffer{
		Hotel:       "Rixos Premium Belek",
		Stars:       intPtr(4),
		Destination: "Турция",
		Country:     "Турция",
		City:        "Белек",
	}
	rich := models.TourOffer{
		Hotel:       "RIXOS PREMIUM BELEK RESORT",
		Stars:       intPtr(5),
		Destination: "Турция",
		Country:     "Turkey",
		City:        "Belek",
		Description: strings.Repeat("Просторный отель у моря. ", 4),
		Images:      []string{"https://img.example/1.jpg", "https://img.example/2.jpg"},
		Rating:      floatPtr(4.6),
	}

	hotel := MergeGroup([]models.TourOffer{poor, rich})

	assert.Equal(t, "RIXOS PREMIUM BELEK RESORT", hotel.Name)
	assert.Equal(t, 5, hotel.Stars)
	assert.Equal(t, "Turkey", hotel.Location.Country)
	assert.Equal(t, "Belek", hotel.Location.City)
}

func TestMergeGroup_NoLocationFallbackFromSecondarySources(t *testing.T) {
	// the primary source wins even when secondaries carry richer location
	// data; this mirrors the source behavior and is deliberate
	primary := models.TourOffer{
		Hotel:       "Rixos Premium Belek",
		Description: "Очень длинное описание, которое делает этот оффер основным источником данных.",
	}
	secondary := models.TourOffer{
		Hotel:     "Rixos Premium Belek",
		Country:   "Турция",
		City:      "Белек",
		Latitude:  floatPtr(36.86),
		Longitude: floatPtr(31.05),
	}

	hotel := MergeGroup([]models.TourOffer{primary, secondary})

	assert.Empty(t, hotel.Location.Country)
	assert.Empty(t, hotel.Location.City)
	assert.Nil(t, hotel.Location.Latitude)
}

func TestMergeGroup_ImagesDedupedAndCapped(t *testing.T) {
	var many []string
	for i := 0; i < 15; i++ {
		many = append(many, fmt.Sprintf("https://img.example/%d.jpg", i))
	}

	a := models.TourOffer{
		Hotel:  "Rixos Premium Belek",
		Image:  "https://img.example/0.jpg", // duplicate of the first list entry
		Images: many[:5],
	}
	b := models.TourOffer{
		Hotel:  "Rixos Premium Belek",
		Images: many, // overlaps a's images entirely
	}

	hotel := MergeGroup([]models.TourOffer{a, b})

	assert.Len(t, hotel.Images, 10)
	seen := make(map[string]bool)
	for _, url := range hotel.Images {
		assert.False(t, seen[url], "duplicate image url %s", url)
		seen[url] = true
	}
	// first-seen order preserved
	assert.Equal(t, "https://img.example/0.jpg", hotel.Images[0])
}

func TestMergeGroup_RatingMaxAndReviewsSum(t *testing.T) {
	group := []models.TourOffer{
		{Hotel: "Rixos", Rating: floatPtr(4.2), ReviewsCount: 120},
		{Hotel: "Rixos", Rating: floatPtr(4.7), ReviewsCount: 80},
		{Hotel: "Rixos"}, // no rating, no reviews
	}

	hotel := MergeGroup(group)

	assert.Equal(t, 4.7, hotel.Rating)
	assert.Equal(t, 200, hotel.ReviewsTotal)
}

func TestMergeGroup_Highlights(t *testing.T) {
	t.Run("first beach line", func(t *testing.T) {
		hotel := MergeGroup([]models.TourOffer{
			{Hotel: "Rixos", BeachDistance: floatPtr(50), Wifi: true},
			{Hotel: "Rixos", BeachDistance: floatPtr(400), Aquapark: true},
		})
		assert.Contains(t, hotel.Highlights, "Первая линия пляжа")
		assert.Contains(t, hotel.Highlights, "Бесплатный Wi-Fi")
		assert.Contains(t, hotel.Highlights, "Аквапарк")
	})

	t.Run("near beach distance text", func(t *testing.T) {
		hotel := MergeGroup([]models.TourOffer{
			{Hotel: "Rixos", BeachDistance: floatPtr(250)},
		})
		assert.Contains(t, hotel.Highlights, "250м до пляжа")
		assert.NotContains(t, hotel.Highlights, "Первая линия пляжа")
	})

	t.Run("far from beach gets no beach highlight", func(t *testing.T) {
		hotel := MergeGroup([]models.TourOffer{
			{Hotel: "Rixos", BeachDistance: floatPtr(900)},
		})
		for _, h := range hotel.Highlights {
			assert.NotContains(t, h, "пляж")
		}
	})
}

func TestMergeGroup_Tags(t *testing.T) {
	group := []models.TourOffer{
		{Hotel: "Rixos", Stars: intPtr(5), IsHot: true},
		{Hotel: "Rixos", KidsClub: true, BeachDistance: floatPtr(40)},
	}

	hotel := MergeGroup(group)

	assert.ElementsMatch(t,
		[]string{"Семейный", "Люкс", "Пляжный", "Горящий тур"},
		hotel.Tags)
}

func TestMergeGroup_DeterministicID(t *testing.T) {
	group := []models.TourOffer{
		{Hotel: "Rixos Premium Belek Hotel", Stars: intPtr(5), Destination: "Турция"},
	}

	first := MergeGroup(group).ID
	assert.Equal(t, "rixospremiumbelek_5_турция", first)

	for i := 0; i < 3; i++ {
		assert.Equal(t, first, MergeGroup(group).ID)
	}
}

func TestMergeGroup_IDReplacesSpacesInDestination(t *testing.T) {
	group := []models.TourOffer{
		{Hotel: "Sunrise Park", Stars: intPtr(4), Destination: "Шарм эль Шейх"},
	}
	hotel := MergeGroup(group)
	assert.Equal(t, "sunrisepark_4_шарм_эль_шейх", hotel.ID)
	assert.NotContains(t, hotel.ID, " ")
}
