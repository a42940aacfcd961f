// internal/engine/engine.go
// Package engine ties the deduplication and ranking stages together:
// provider offers are grouped by hotel identity, each group is merged
// into a single hotel card, and the cards are scored against the search
// request and sorted by relevance.
package engine

import (
	"tour-workers/internal/engine/cards"
	"tour-workers/internal/engine/match"
	"tour-workers/internal/models"
)

// RankAndGroup is the single entry point the workers call. It is pure:
// no I/O, deterministic for a given input order.
func RankAndGroup(offers []models.TourOffer, req models.SearchRequest, weights models.PriorityWeights) []models.TourCard {
	groups := match.GroupOffers(offers)
	return cards.BuildCards(groups, req, weights)
}
