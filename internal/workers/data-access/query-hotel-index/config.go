// internal/workers/data-access/query-hotel-index/config.go
package queryhotelindex

import "time"

type Config struct {
	Timeout      time.Duration
	DefaultIndex string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      15 * time.Second,
		DefaultIndex: "hotels",
	}
}
