package config

import "time"

// Config holds runtime settings for the PharmTrack console.
//
// Fields:
//   - APIRootURL: base URL of the backend REST API, including the /api
//     prefix. Every request path is relative to it.
//   - RequestTimeout: per-request wall-clock bound. A request exceeding it
//     surfaces as a network failure, never a hang.
//   - OnlineCheckInterval: how often the client probes backend reachability
//     (and drains a pending password sync, when one exists).
//   - LocalDBPath: path of the local sqlite database holding the session
//     and the recovery cache.
type Config struct {
	APIRootURL          string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	LocalDBPath         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIRootURL = "http://127.0.0.1:8000/api"
	c.RequestTimeout = 15 * time.Second
	c.OnlineCheckInterval = 30 * time.Second
	c.LocalDBPath = "pharmtrack.db"
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
