// internal/models/hotel.go
package models

// Hotel is the canonical merged identity of one physical property, rebuilt
// fresh on every search from a group of offers. Never persisted.
type Hotel struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Stars            int             `json:"stars"`
	Location         HotelLocation   `json:"location"`
	Images           []string        `json:"images,omitempty"`
	DescriptionShort string          `json:"descriptionShort,omitempty"`
	DescriptionFull  string          `json:"descriptionFull,omitempty"`
	Highlights       []string        `json:"highlights,omitempty"`
	Rating           float64         `json:"rating,omitempty"`
	ReviewsTotal     int             `json:"reviewsTotal,omitempty"`
	Features         map[string]bool `json:"features,omitempty"`
	Tags             []string        `json:"tags,omitempty"`
}

type HotelLocation struct {
	Country         string   `json:"country,omitempty"`
	City            string   `json:"city,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	BeachDistance   *float64 `json:"beachDistance,omitempty"`
	AirportDistance *float64 `json:"airportDistance,omitempty"`
}

// TourOption is the bookable unit surfaced to the user, derived one-to-one
// from a surviving TourOffer within a group.
type TourOption struct {
	Provider          string  `json:"provider"`
	Price             float64 `json:"price"`
	PriceOld          float64 `json:"priceOld,omitempty"`
	StartDate         string  `json:"startDate,omitempty"`
	EndDate           string  `json:"endDate,omitempty"`
	Nights            int     `json:"nights,omitempty"`
	Room              string  `json:"room,omitempty"`
	Meal              string  `json:"meal,omitempty"`
	Link              string  `json:"link,omitempty"`
	Available         bool    `json:"available"`
	InstantConfirm    bool    `json:"instantConfirm,omitempty"`
	IsHot             bool    `json:"isHot,omitempty"`
	TransferIncluded  bool    `json:"transferIncluded,omitempty"`
	InsuranceIncluded bool    `json:"insuranceIncluded,omitempty"`
}

// ScoreBreakdown holds the nine independent sub-scores in [0,1] and the
// weighted total in [0,100].
type ScoreBreakdown struct {
	Price      float64 `json:"price"`
	Stars      float64 `json:"stars"`
	Beach      float64 `json:"beach"`
	Meal       float64 `json:"meal"`
	Location   float64 `json:"location"`
	Reviews    float64 `json:"reviews"`
	Family     float64 `json:"family"`
	Activities float64 `json:"activities"`
	Quietness  float64 `json:"quietness"`
	Total      float64 `json:"total"`
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Badge annotates a card for the presentation layer. Value carries the
// discount percentage for discount badges and is 0 otherwise.
type Badge struct {
	Type  string `json:"type"`
	Label string `json:"label,omitempty"`
	Value int    `json:"value,omitempty"`
}

const (
	BadgeHot       = "hot"
	BadgeDiscount  = "discount"
	BadgeExclusive = "exclusive"
)

// TourCard is the final output unit: one merged hotel with its bookable
// options, ranked and badge-annotated. Options are sorted ascending by price.
type TourCard struct {
	Hotel       Hotel          `json:"hotel"`
	Options     []TourOption   `json:"options"`
	PriceRange  PriceRange     `json:"priceRange"`
	BestPrice   TourOption     `json:"bestPrice"`
	BestValue   TourOption     `json:"bestValue"`
	Recommended TourOption     `json:"recommended"`
	MatchScore  float64        `json:"matchScore"`
	Score       ScoreBreakdown `json:"score"`
	Badges      []Badge        `json:"badges,omitempty"`
}
