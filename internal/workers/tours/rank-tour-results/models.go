// internal/workers/tours/rank-tour-results/models.go
package ranktourresults

import "tour-workers/internal/models"

type Input struct {
	Offers          []models.TourOffer     `json:"offers"`
	SearchRequest   models.SearchRequest   `json:"searchRequest"`
	PriorityWeights models.PriorityWeights `json:"priorityWeights"`
}

type Output struct {
	TourCards  []models.TourCard `json:"tourCards"`
	TotalCards int               `json:"totalCards"`
	DurationMs int64             `json:"durationMs"`
}
