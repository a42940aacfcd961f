// internal/models/tour.go
package models

// TourOffer is one bookable travel package as delivered by a provider,
// already normalized to this schema upstream. Field presence varies between
// providers; pointer fields distinguish "absent" from zero.
type TourOffer struct {
	Provider          string   `json:"provider"`
	Hotel             string   `json:"hotel"`
	Stars             *int     `json:"stars,omitempty"`
	Price             float64  `json:"price"`
	PriceOld          float64  `json:"priceOld,omitempty"`
	Nights            int      `json:"nights,omitempty"`
	StartDate         string   `json:"startDate,omitempty"`
	EndDate           string   `json:"endDate,omitempty"`
	Meal              string   `json:"meal,omitempty"`
	Room              string   `json:"room,omitempty"`
	Destination       string   `json:"destination,omitempty"`
	Country           string   `json:"country,omitempty"`
	City              string   `json:"city,omitempty"`
	ArrivalCity       string   `json:"arrivalCity,omitempty"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
	BeachDistance     *float64 `json:"beachDistance,omitempty"`
	BeachLine         *int     `json:"beachLine,omitempty"`
	BeachType         string   `json:"beachType,omitempty"`
	BeachSurface      string   `json:"beachSurface,omitempty"`
	AirportDistance   *float64 `json:"airportDistance,omitempty"`
	Rating            *float64 `json:"rating,omitempty"`
	ReviewsCount      int      `json:"reviewsCount,omitempty"`
	Image             string   `json:"image,omitempty"`
	Images            []string `json:"images,omitempty"`
	Wifi              bool     `json:"wifi,omitempty"`
	Pool              bool     `json:"pool,omitempty"`
	KidsClub          bool     `json:"kidsClub,omitempty"`
	Fitness           bool     `json:"fitness,omitempty"`
	Aquapark          bool     `json:"aquapark,omitempty"`
	InstantConfirm    bool     `json:"instantConfirm,omitempty"`
	IsHot             bool     `json:"isHot,omitempty"`
	TransferIncluded  bool     `json:"transferIncluded,omitempty"`
	InsuranceIncluded bool     `json:"insuranceIncluded,omitempty"`
	Description       string   `json:"description,omitempty"`
	Link              string   `json:"link,omitempty"`
}

// SearchRequest carries the user-side context a ranking run is scored against.
type SearchRequest struct {
	Budget       float64  `json:"budget"`
	BudgetType   string   `json:"budgetType"` // "total" or "perPerson"
	Adults       int      `json:"adults"`
	Children     int      `json:"children"`
	Destination  string   `json:"destination"`
	Requirements []string `json:"requirements,omitempty"`
}

const (
	BudgetTypeTotal     = "total"
	BudgetTypePerPerson = "perPerson"
)

// PriorityWeights maps a criterion name to its non-negative weight. A missing
// key means the criterion does not participate in the weighted average.
type PriorityWeights map[string]float64
