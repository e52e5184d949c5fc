package config

import "time"

// Config holds runtime settings for the company admin CLI.
//
// Fields:
//   - ServerURL: base URL of the backend REST API.
//   - DatabasePath: SQLite file that keeps the credential pair across runs.
//   - RequestTimeout: upper bound for a single backend request.
//   - LogLevel: zerolog level name (debug, info, warn, error).
type Config struct {
	ServerURL      string
	DatabasePath   string
	RequestTimeout time.Duration
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:3001"
	c.DatabasePath = "session.db"
	c.RequestTimeout = 15 * time.Second
	c.LogLevel = "info"
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
