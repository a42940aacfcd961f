// internal/engine/match/matcher.go
package match

import (
	"math"

	"tour-workers/internal/engine/similarity"
	"tour-workers/internal/models"
)

// Reason codes carried alongside the match confidence so downstream logs can
// tell why two offers were considered the same hotel.
const (
	ReasonCoordinatesMatch         = "coordinates_match"
	ReasonExactNameMatch           = "exact_name_match"
	ReasonHighSimilarity           = "high_similarity"
	ReasonMediumSimilarityFeatures = "medium_similarity_with_features"
	ReasonNoMatch                  = "no_match"
)

// MatchResult is the outcome of one pairwise hotel comparison.
type MatchResult struct {
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// IsMatchingHotel decides whether two offers describe the same physical
// hotel. Rules are evaluated in strict priority order; the first rule that
// fires wins. A missing star rating never satisfies the star-equality rules:
// that asymmetry is intentional and kept from the source behavior.
func IsMatchingHotel(a, b models.TourOffer) MatchResult {
	// Rule 1: both geotagged, under 500 m apart, names loosely similar.
	if a.Latitude != nil && a.Longitude != nil && b.Latitude != nil && b.Longitude != nil {
		dist := similarity.GeoDistanceKm(*a.Latitude, *a.Longitude, *b.Latitude, *b.Longitude)
		if dist < 0.5 && similarity.Similarity(a.Hotel, b.Hotel) > 0.5 {
			return MatchResult{Confidence: 0.95, Reason: ReasonCoordinatesMatch}
		}
	}

	// Rule 2: identical normalized names.
	normA := similarity.NormalizeHotelName(a.Hotel)
	normB := similarity.NormalizeHotelName(b.Hotel)
	if normA == normB {
		return MatchResult{Confidence: 0.9, Reason: ReasonExactNameMatch}
	}

	sim := similarity.Similarity(a.Hotel, b.Hotel)
	sameStars := a.Stars != nil && b.Stars != nil && *a.Stars == *b.Stars

	// Rule 3: very similar names, same stars, same destination or arrival city.
	if sim > 0.8 && sameStars &&
		(a.Destination == b.Destination || a.ArrivalCity == b.ArrivalCity) {
		return MatchResult{Confidence: 0.85, Reason: ReasonHighSimilarity}
	}

	// Rule 4: similar names, same stars, same city, beach distances within 100 m.
	if sim > 0.7 && sameStars && a.City == b.City &&
		a.BeachDistance != nil && b.BeachDistance != nil &&
		math.Abs(*a.BeachDistance-*b.BeachDistance) < 100 {
		return MatchResult{Confidence: 0.75, Reason: ReasonMediumSimilarityFeatures}
	}

	return MatchResult{Confidence: 0, Reason: ReasonNoMatch}
}
