// internal/workers/tours/validate-offer-batch/config.go
package validateofferbatch

import "time"

type Config struct {
	Timeout       time.Duration
	MaxBatchSize  int
	FailOnAllDrop bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       15 * time.Second,
		MaxBatchSize:  5000,
		FailOnAllDrop: false,
	}
}
