package config

import "time"

// Config holds runtime settings for the CloudSafe CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend REST endpoint.
//   - DatabasePath: path of the local SQLite database holding the session.
//   - DownloadDir: directory (under the working dir) downloads land in.
//   - HTTPTimeout: per-request deadline for gateway calls.
type Config struct {
	ServerBaseURL string
	DatabasePath  string
	DownloadDir   string
	HTTPTimeout   time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.DatabasePath = "cloudsafe.db"
	c.DownloadDir = "downloads"
	c.HTTPTimeout = 30 * time.Second
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
