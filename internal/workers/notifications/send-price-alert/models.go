// internal/workers/notifications/send-price-alert/models.go
package sendpricealert

// Alert mirrors the shape produced by the price-drop check so the BPMN can
// pipe alert objects straight into this worker.
type Alert struct {
	HotelID       string  `json:"hotelId,omitempty"`
	HotelName     string  `json:"hotelName"`
	PreviousPrice float64 `json:"previousPrice"`
	CurrentPrice  float64 `json:"currentPrice"`
	DropPercent   float64 `json:"dropPercent"`
	Link          string  `json:"link,omitempty"`
}

type Input struct {
	UserID  string `json:"userId"`
	Channel string `json:"channel"` // "email" or "sms"
	Alert   Alert  `json:"alert"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"` // "sent", "disabled"
	Channel        string `json:"channel"`
	SentAt         string `json:"sentAt"` // ISO 8601
}

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

const (
	StatusSent     = "sent"
	StatusDisabled = "disabled"
)
