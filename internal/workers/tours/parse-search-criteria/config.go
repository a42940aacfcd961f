// internal/workers/tours/parse-search-criteria/config.go
package parsesearchcriteria

import "time"

type Config struct {
	Timeout       time.Duration
	DefaultAdults int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       10 * time.Second,
		DefaultAdults: 2,
	}
}
