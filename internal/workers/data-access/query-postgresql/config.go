// internal/workers/data-access/query-postgresql/config.go
package querypostgresql

import "time"

type Config struct {
	Timeout time.Duration
	// MaxRows caps the limit a workflow may request per query.
	MaxRows int
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
		MaxRows: 200,
	}
}
