// internal/workers/tours/parse-search-criteria/models.go
package parsesearchcriteria

import "tour-workers/internal/models"

type Input struct {
	RawFilters map[string]interface{} `json:"rawFilters"`
}

type Output struct {
	SearchRequest   models.SearchRequest   `json:"searchRequest"`
	PriorityWeights models.PriorityWeights `json:"priorityWeights"`
}
