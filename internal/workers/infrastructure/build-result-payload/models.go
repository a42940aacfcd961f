// internal/workers/infrastructure/build-result-payload/models.go
package buildresultpayload

import "tour-workers/internal/models"

type Input struct {
	RequestID string            `json:"requestId"`
	TourCards []models.TourCard `json:"tourCards"`
}

// CardSummary is the flat per-hotel view the bot and webapp renderers
// consume; everything presentation needs, nothing the engine keeps internal.
type CardSummary struct {
	Title      string   `json:"title"`
	PriceFrom  float64  `json:"priceFrom"`
	PriceTo    float64  `json:"priceTo"`
	Stars      int      `json:"stars"`
	Rating     float64  `json:"rating,omitempty"`
	MatchScore float64  `json:"matchScore"`
	Badges     []string `json:"badges,omitempty"`
	Link       string   `json:"link,omitempty"`
	Photo      string   `json:"photo,omitempty"`
}

type PayloadMetadata struct {
	Timestamp    string `json:"timestamp"`
	Version      string `json:"version"`
	TotalResults int    `json:"totalResults"`
}

type ResultPayload struct {
	RequestID string          `json:"requestId"`
	Status    string          `json:"status"`
	Results   []CardSummary   `json:"results"`
	Metadata  PayloadMetadata `json:"metadata"`
}

type Output struct {
	Payload ResultPayload `json:"resultPayload"`
}
