// internal/engine/merge/merger.go
package merge

import (
	"fmt"
	"strings"

	"tour-workers/internal/engine/similarity"
	"tour-workers/internal/models"
)

const (
	maxImages       = 10
	shortDescrRunes = 200
	firstLineMeters = 100.0
	nearBeachMeters = 500.0
)

// MergeGroup collapses a hotel group into one canonical Hotel record. The
// most information-rich offer becomes the primary source; location data comes
// from the primary only, with no fallback scan over the rest of the group.
func MergeGroup(group []models.TourOffer) models.Hotel {
	if len(group) == 0 {
		return models.Hotel{}
	}

	primary := pickPrimary(group)

	stars := 0
	if primary.Stars != nil {
		stars = *primary.Stars
	}

	hotel := models.Hotel{
		ID:    buildHotelID(primary, stars),
		Name:  strings.TrimSpace(primary.Hotel),
		Stars: stars,
		Location: models.HotelLocation{
			Country:         primary.Country,
			City:            primary.City,
			Latitude:        primary.Latitude,
			Longitude:       primary.Longitude,
			BeachDistance:   primary.BeachDistance,
			AirportDistance: primary.AirportDistance,
		},
		Images:           mergeImages(group),
		DescriptionFull:  primary.Description,
		DescriptionShort: shorten(primary.Description),
		Highlights:       buildHighlights(group),
		Features:         buildFeatures(group),
		Tags:             buildTags(group),
	}

	for _, o := range group {
		if o.Rating != nil && *o.Rating > hotel.Rating {
			hotel.Rating = *o.Rating
		}
		hotel.ReviewsTotal += o.ReviewsCount
	}

	return hotel
}

// pickPrimary selects the offer with the richest detail: description length
// plus image count plus a 10-point bonus when a rating is present.
func pickPrimary(group []models.TourOffer) models.TourOffer {
	best := group[0]
	bestScore := -1

	for _, o := range group {
		score := len(o.Description) + imageCount(o)
		if o.Rating != nil {
			score += 10
		}
		if score > bestScore {
			bestScore = score
			best = o
		}
	}
	return best
}

func imageCount(o models.TourOffer) int {
	n := len(o.Images)
	if o.Image != "" {
		n++
	}
	return n
}

// mergeImages unions the single image and image lists of the whole group,
// deduplicated by exact URL in first-seen order, capped at 10.
func mergeImages(group []models.TourOffer) []string {
	seen := make(map[string]bool)
	var images []string

	add := func(url string) {
		if url == "" || seen[url] || len(images) >= maxImages {
			return
		}
		seen[url] = true
		images = append(images, url)
	}

	for _, o := range group {
		add(o.Image)
		for _, url := range o.Images {
			add(url)
		}
	}
	return images
}

func buildHighlights(group []models.TourOffer) []string {
	var highlights []string

	minBeach := -1.0
	for _, o := range group {
		if o.BeachDistance == nil {
			continue
		}
		if minBeach < 0 || *o.BeachDistance < minBeach {
			minBeach = *o.BeachDistance
		}
	}
	if minBeach >= 0 {
		if minBeach < firstLineMeters {
			highlights = append(highlights, "Первая линия пляжа")
		} else if minBeach < nearBeachMeters {
			highlights = append(highlights, fmt.Sprintf("%dм до пляжа", int(minBeach)))
		}
	}

	features := buildFeatures(group)
	for _, f := range []struct{ key, label string }{
		{"wifi", "Бесплатный Wi-Fi"},
		{"pool", "Бассейн"},
		{"kidsClub", "Детский клуб"},
		{"fitness", "Фитнес-зал"},
		{"aquapark", "Аквапарк"},
	} {
		if features[f.key] {
			highlights = append(highlights, f.label)
		}
	}
	return highlights
}

// buildFeatures ORs the amenity flags across the group.
func buildFeatures(group []models.TourOffer) map[string]bool {
	features := make(map[string]bool)
	for _, o := range group {
		if o.Wifi {
			features["wifi"] = true
		}
		if o.Pool {
			features["pool"] = true
		}
		if o.KidsClub {
			features["kidsClub"] = true
		}
		if o.Fitness {
			features["fitness"] = true
		}
		if o.Aquapark {
			features["aquapark"] = true
		}
	}
	return features
}

func buildTags(group []models.TourOffer) []string {
	var family, lux, beach, hot bool
	for _, o := range group {
		if o.KidsClub || o.Aquapark {
			family = true
		}
		if o.Stars != nil && *o.Stars >= 5 {
			lux = true
		}
		if o.BeachDistance != nil && *o.BeachDistance < firstLineMeters {
			beach = true
		}
		if o.IsHot {
			hot = true
		}
	}

	var tags []string
	if family {
		tags = append(tags, "Семейный")
	}
	if lux {
		tags = append(tags, "Люкс")
	}
	if beach {
		tags = append(tags, "Пляжный")
	}
	if hot {
		tags = append(tags, "Горящий тур")
	}
	return tags
}

// buildHotelID derives a deterministic id from the normalized primary name,
// star count and destination: stable across runs for the same inputs.
func buildHotelID(primary models.TourOffer, stars int) string {
	id := fmt.Sprintf("%s_%d_%s",
		similarity.NormalizeHotelName(primary.Hotel),
		stars,
		strings.ToLower(primary.Destination),
	)
	return strings.ReplaceAll(id, " ", "_")
}

// shorten truncates a description to roughly 200 runes at a word boundary.
func shorten(s string) string {
	runes := []rune(s)
	if len(runes) <= shortDescrRunes {
		return s
	}
	cut := string(runes[:shortDescrRunes])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}
