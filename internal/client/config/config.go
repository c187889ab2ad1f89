package config

import "time"

// Config holds runtime settings for the portal CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend API, including the /api prefix.
//   - DatabasePath: path of the local sqlite database (credential storage).
//   - RequestTimeout: per-request timeout for gateway calls.
type Config struct {
	ServerBaseURL  string
	DatabasePath   string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8000/api"
	c.DatabasePath = "portal.db"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
