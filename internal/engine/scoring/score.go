// internal/engine/scoring/score.go
package scoring

import (
	"strings"

	"tour-workers/internal/models"
)

// Canonical criterion names of the nine sub-scores.
const (
	CriterionPrice      = "price"
	CriterionStars      = "stars"
	CriterionBeach      = "beach"
	CriterionMeal       = "meal"
	CriterionLocation   = "location"
	CriterionReviews    = "reviews"
	CriterionFamily     = "family"
	CriterionActivities = "activities"
	CriterionQuietness  = "quietness"
)

// weight keys as the bot/webapp send them; beachLine is the historical
// priority name for the beach criterion.
var criterionAliases = map[string]string{
	CriterionPrice:      CriterionPrice,
	CriterionStars:      CriterionStars,
	CriterionBeach:      CriterionBeach,
	"beachLine":         CriterionBeach,
	CriterionMeal:       CriterionMeal,
	CriterionLocation:   CriterionLocation,
	CriterionReviews:    CriterionReviews,
	CriterionFamily:     CriterionFamily,
	CriterionActivities: CriterionActivities,
	CriterionQuietness:  CriterionQuietness,
}

const RequirementAllInclusive = "all_inclusive"

// ScoreOption computes the nine sub-scores for one bookable offer against
// the search request and folds them into a weighted 0-100 total. Criteria
// absent from weights do not participate in the average; an empty weight set
// yields total 0. Absent offer fields fall back to the documented defaults
// instead of failing.
func ScoreOption(o models.TourOffer, req models.SearchRequest, weights models.PriorityWeights) models.ScoreBreakdown {
	b := models.ScoreBreakdown{
		Price:      priceScore(o, req),
		Stars:      starsScore(o),
		Beach:      beachScore(o),
		Meal:       mealScore(o, req),
		Location:   locationScore(o),
		Reviews:    reviewsScore(o),
		Family:     familyScore(o, req),
		Activities: activitiesScore(o),
		Quietness:  quietnessScore(o, req),
	}
	b.Total = weightedTotal(b, weights)
	return b
}

func weightedTotal(b models.ScoreBreakdown, weights models.PriorityWeights) float64 {
	byName := map[string]float64{
		CriterionPrice:      b.Price,
		CriterionStars:      b.Stars,
		CriterionBeach:      b.Beach,
		CriterionMeal:       b.Meal,
		CriterionLocation:   b.Location,
		CriterionReviews:    b.Reviews,
		CriterionFamily:     b.Family,
		CriterionActivities: b.Activities,
		CriterionQuietness:  b.Quietness,
	}

	var sumWeighted, sumWeights float64
	for key, w := range weights {
		canonical, known := criterionAliases[key]
		if !known || w < 0 {
			continue
		}
		sumWeighted += w * byName[canonical]
		sumWeights += w
	}

	if sumWeights <= 0 {
		return 0
	}
	return clamp(100*sumWeighted/sumWeights, 0, 100)
}

// priceScore rewards the 70-90% band of the effective budget. The effective
// budget halves a total budget but uses a per-person budget as-is; the group
// pre-filter in the card assembler uses a different formula on purpose.
func priceScore(o models.TourOffer, req models.SearchRequest) float64 {
	effectiveBudget := req.Budget / 2
	if req.BudgetType == models.BudgetTypePerPerson {
		effectiveBudget = req.Budget
	}
	if effectiveBudget <= 0 || o.Price > effectiveBudget {
		return 0
	}

	optimalMin := 0.7 * effectiveBudget
	optimalMax := 0.9 * effectiveBudget

	switch {
	case o.Price >= optimalMin && o.Price <= optimalMax:
		return 1.0
	case o.Price < optimalMin:
		return clamp(0.5+(o.Price/optimalMin)*0.5, 0, 1)
	default:
		return 0.9
	}
}

func starsScore(o models.TourOffer) float64 {
	if o.Stars == nil {
		return 0
	}
	return clamp(float64(*o.Stars)/5, 0, 1)
}

func beachScore(o models.TourOffer) float64 {
	score := 0.5
	if o.BeachLine != nil {
		score = 1 - float64(*o.BeachLine-1)*0.25
		if score < 0 {
			score = 0
		}
	}
	if isSand(o.BeachType) || isSand(o.BeachSurface) {
		score += 0.1
	}
	if o.BeachDistance != nil {
		if *o.BeachDistance <= 100 {
			score += 0.1
		} else if *o.BeachDistance > 500 {
			score -= 0.2
		}
	}
	return clamp(score, 0, 1)
}

func isSand(beachType string) bool {
	t := strings.ToLower(beachType)
	return strings.Contains(t, "песч") || strings.Contains(t, "песок") || strings.Contains(t, "sand")
}

func mealScore(o models.TourOffer, req models.SearchRequest) float64 {
	meal := strings.ToLower(o.Meal)
	allInclusive := strings.Contains(meal, "все включено") || strings.Contains(meal, "all")

	for _, r := range req.Requirements {
		if r == RequirementAllInclusive {
			if allInclusive {
				return 1.0
			}
			return 0.3
		}
	}

	switch {
	case strings.Contains(meal, "ультра") || strings.Contains(meal, "ultra"):
		return 1.0
	case allInclusive:
		return 0.9
	case strings.Contains(meal, "полный") || strings.Contains(meal, "full"):
		return 0.7
	case strings.Contains(meal, "полупансион") || strings.Contains(meal, "half"):
		return 0.6
	case strings.Contains(meal, "завтрак") || strings.Contains(meal, "breakfast") || strings.Contains(meal, "bb"):
		return 0.5
	case strings.Contains(meal, "без питания"):
		return 0.3
	case strings.Contains(meal, "ro"):
		return 0.2
	default:
		return 0.5
	}
}

func locationScore(o models.TourOffer) float64 {
	score := 0.5
	if o.AirportDistance != nil {
		if *o.AirportDistance <= 30 {
			score += 0.2
		} else if *o.AirportDistance > 100 {
			score -= 0.1
		}
	}
	if o.Latitude != nil && o.Longitude != nil {
		score += 0.1
	}
	return clamp(score, 0, 1)
}

func reviewsScore(o models.TourOffer) float64 {
	if o.Rating == nil {
		return 0.5
	}
	return clamp(*o.Rating/5, 0, 1)
}

func familyScore(o models.TourOffer, req models.SearchRequest) float64 {
	if req.Children == 0 {
		return 0.5
	}

	score := 0.3
	if o.KidsClub {
		score += 0.3
	}
	if o.Aquapark {
		score += 0.2
	}
	if o.Pool {
		score += 0.1
	}
	meal := strings.ToLower(o.Meal)
	if strings.Contains(meal, "все включено") || strings.Contains(meal, "all") {
		score += 0.1
	}
	return clamp(score, 0, 1)
}

func activitiesScore(o models.TourOffer) float64 {
	score := 0.3
	if o.Aquapark {
		score += 0.2
	}
	if o.Fitness {
		score += 0.1
	}
	if o.Pool {
		score += 0.1
	}
	if o.Wifi {
		score += 0.1
	}
	if o.AirportDistance != nil && *o.AirportDistance <= 50 {
		score += 0.1
	}
	if strings.Contains(strings.ToLower(o.Description), "анимация") {
		score += 0.1
	}
	return clamp(score, 0, 1)
}

func quietnessScore(o models.TourOffer, req models.SearchRequest) float64 {
	score := 0.7
	descr := strings.ToLower(o.Description)

	if o.Aquapark {
		score -= 0.2
	}
	if o.KidsClub {
		score -= 0.1
	}
	if strings.Contains(descr, "анимация") {
		score -= 0.2
	}
	if strings.Contains(descr, "дискотека") {
		score -= 0.2
	}
	if strings.Contains(descr, "тихий") {
		score += 0.2
	}
	if strings.Contains(descr, "уединенный") {
		score += 0.2
	}
	if req.Adults > 0 && req.Children == 0 {
		score += 0.1
	}
	if o.AirportDistance != nil && *o.AirportDistance > 70 {
		score += 0.1
	}
	return clamp(score, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
