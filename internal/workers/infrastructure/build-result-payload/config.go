// internal/workers/infrastructure/build-result-payload/config.go
package buildresultpayload

import "time"

type Config struct {
	Timeout      time.Duration
	RegistryPath string
	AppVersion   string
	CacheTTL     time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      10 * time.Second,
		RegistryPath: "configs/activity-registry.json",
		AppVersion:   "1.0.0",
		CacheTTL:     5 * time.Minute,
	}
}
