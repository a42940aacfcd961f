// internal/workers/tours/check-price-drops/config.go
package checkpricedrops

import "time"

type Config struct {
	Timeout time.Duration

	// MinDropPercent is the smallest relative price decrease, in percent,
	// that produces an alert.
	MinDropPercent float64

	// SnapshotTTL bounds how long a stored best price survives without a
	// fresh search confirming it.
	SnapshotTTL time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:        20 * time.Second,
		MinDropPercent: 10,
		SnapshotTTL:    30 * 24 * time.Hour,
	}
}
