// internal/workers/tours/check-price-drops/models.go
package checkpricedrops

import "tour-workers/internal/models"

type Input struct {
	SubscriptionID string            `json:"subscriptionId"`
	TourCards      []models.TourCard `json:"tourCards"`
}

// PriceDropAlert describes one hotel whose best price fell below the stored
// snapshot by at least the configured threshold.
type PriceDropAlert struct {
	HotelID       string  `json:"hotelId"`
	HotelName     string  `json:"hotelName"`
	PreviousPrice float64 `json:"previousPrice"`
	CurrentPrice  float64 `json:"currentPrice"`
	DropPercent   float64 `json:"dropPercent"`
	Provider      string  `json:"provider,omitempty"`
	Link          string  `json:"link,omitempty"`
}

type Output struct {
	Alerts       []PriceDropAlert `json:"priceDropAlerts"`
	CheckedCount int              `json:"checkedCount"`
	AlertCount   int              `json:"alertCount"`
}
