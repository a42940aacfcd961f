// internal/engine/cards/assembler.go
package cards

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"tour-workers/internal/engine/merge"
	"tour-workers/internal/engine/scoring"
	"tour-workers/internal/models"
)

// budgetFloorRatio drops suspiciously cheap offers: anything under 40% of
// the budget is assumed to be a data glitch or an unusable date window.
const budgetFloorRatio = 0.4

// BuildCards assembles one card per hotel group and sorts them descending by
// match score. Groups whose offers all fail the budget filter produce no card.
func BuildCards(groups [][]models.TourOffer, req models.SearchRequest, weights models.PriorityWeights) []models.TourCard {
	var result []models.TourCard
	for _, group := range groups {
		if card, ok := BuildCard(group, req, weights); ok {
			result = append(result, card)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].MatchScore > result[j].MatchScore
	})
	return result
}

// BuildCard merges one group into a Hotel, converts the surviving offers to
// price-sorted options and annotates the card with badges and the best-price
// / best-value / recommended picks.
func BuildCard(group []models.TourOffer, req models.SearchRequest, weights models.PriorityWeights) (models.TourCard, bool) {
	surviving := filterByBudget(group, req)
	if len(surviving) == 0 {
		return models.TourCard{}, false
	}

	// the first surviving offer (input order) represents the group in the
	// hotel-level ranking; all offers share the same hotel context
	score := scoring.ScoreOption(surviving[0], req, weights)

	options := make([]models.TourOption, 0, len(surviving))
	for _, o := range surviving {
		options = append(options, toOption(o))
	}
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Price < options[j].Price
	})

	bestPrice := options[0]
	bestValue := pickBestValue(options)

	card := models.TourCard{
		Hotel:   merge.MergeGroup(group),
		Options: options,
		PriceRange: models.PriceRange{
			Min: options[0].Price,
			Max: options[len(options)-1].Price,
		},
		BestPrice:   bestPrice,
		BestValue:   bestValue,
		Recommended: bestValue, // alias today; see DESIGN.md
		MatchScore:  score.Total,
		Score:       score,
		Badges:      buildBadges(options),
	}
	return card, true
}

// filterByBudget applies the group-level budget window: the whole offer
// price, multiplied by adult count for per-person budgets, must land in
// [0.4*budget, budget]. The price sub-score uses a different per-person
// formula; both are kept faithfully.
func filterByBudget(group []models.TourOffer, req models.SearchRequest) []models.TourOffer {
	var out []models.TourOffer
	for _, o := range group {
		price := o.Price
		if req.BudgetType == models.BudgetTypePerPerson {
			price = o.Price * float64(req.Adults)
		}
		if price < budgetFloorRatio*req.Budget || price > req.Budget {
			continue
		}
		out = append(out, o)
	}
	return out
}

func toOption(o models.TourOffer) models.TourOption {
	return models.TourOption{
		Provider:          o.Provider,
		Price:             o.Price,
		PriceOld:          o.PriceOld,
		StartDate:         o.StartDate,
		EndDate:           o.EndDate,
		Nights:            o.Nights,
		Room:              o.Room,
		Meal:              o.Meal,
		Link:              o.Link,
		Available:         true,
		InstantConfirm:    o.InstantConfirm,
		IsHot:             o.IsHot,
		TransferIncluded:  o.TransferIncluded,
		InsuranceIncluded: o.InsuranceIncluded,
	}
}

func pickBestValue(options []models.TourOption) models.TourOption {
	best := options[0]
	bestScore := valueScore(options[0])
	for _, opt := range options[1:] {
		if s := valueScore(opt); s > bestScore {
			bestScore = s
			best = opt
		}
	}
	return best
}

// valueScore is the cheapness-plus-perks heuristic behind the bestValue
// pick: inverse price in 10k units plus flat bonuses for included services.
func valueScore(opt models.TourOption) float64 {
	score := 0.0
	if opt.Price > 0 {
		score = 100 / (opt.Price / 10000)
	}

	meal := strings.ToLower(opt.Meal)
	switch {
	case strings.Contains(meal, "ультра") || strings.Contains(meal, "ultra"),
		strings.Contains(meal, "все включено") || strings.Contains(meal, "all"):
		score += 20
	case strings.Contains(meal, "полный") || strings.Contains(meal, "full"):
		score += 10
	}

	if opt.TransferIncluded {
		score += 10
	}
	if opt.InsuranceIncluded {
		score += 5
	}
	if opt.InstantConfirm {
		score += 15
	}
	return score
}

func buildBadges(options []models.TourOption) []models.Badge {
	var badges []models.Badge

	for _, opt := range options {
		if opt.IsHot {
			badges = append(badges, models.Badge{Type: models.BadgeHot, Label: "Горящий тур"})
			break
		}
	}

	maxDiscount := 0
	for _, opt := range options {
		if opt.PriceOld > opt.Price && opt.PriceOld > 0 {
			pct := int(math.Round((1 - opt.Price/opt.PriceOld) * 100))
			if pct > maxDiscount {
				maxDiscount = pct
			}
		}
	}
	if maxDiscount > 0 {
		badges = append(badges, models.Badge{
			Type:  models.BadgeDiscount,
			Label: fmt.Sprintf("-%d%%", maxDiscount),
			Value: maxDiscount,
		})
	}

	allInstant := true
	for _, opt := range options {
		if !opt.InstantConfirm {
			allInstant = false
			break
		}
	}
	if allInstant && len(options) > 0 {
		badges = append(badges, models.Badge{
			Type:  models.BadgeExclusive,
			Label: "Моментальное подтверждение",
		})
	}

	return badges
}
