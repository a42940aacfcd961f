// internal/workers/tours/rank-tour-results/config.go
package ranktourresults

import (
	"time"

	"tour-workers/internal/models"
)

type Config struct {
	MaxCards int
	Timeout  time.Duration
	// DefaultWeights is used when a search carries no priorities; without
	// weights every card would score zero.
	DefaultWeights models.PriorityWeights
}

func LoadConfig() *Config {
	return &Config{
		MaxCards: 50,
		Timeout:  30 * time.Second,
		DefaultWeights: models.PriorityWeights{
			"price": 3,
			"stars": 1,
			"meal":  1,
			"beach": 1,
		},
	}
}
