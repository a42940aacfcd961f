// internal/workers/tours/validate-offer-batch/models.go
package validateofferbatch

import "tour-workers/internal/models"

type Input struct {
	Offers []models.TourOffer `json:"offers"`
}

type OfferError struct {
	OfferIndex int    `json:"offerIndex"`
	Provider   string `json:"provider"`
	Field      string `json:"field"`
	Message    string `json:"message"`
}

type Output struct {
	Offers            []models.TourOffer `json:"offers"`
	AcceptedCount     int                `json:"acceptedCount"`
	DroppedCount      int                `json:"droppedCount"`
	RejectsByProvider map[string]int     `json:"rejectsByProvider"`
	ValidationErrors  []OfferError       `json:"validationErrors"`
}
