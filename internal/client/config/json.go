package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/cloudsafe/cloudsafe/internal/flagx"
	"github.com/cloudsafe/cloudsafe/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the timeout either as a string like
// "30s" or as integer nanoseconds.
type JsonConfig struct {
	ServerBaseURL string         `json:"server_base_url"`
	DatabasePath  string         `json:"database_path"`
	DownloadDir   string         `json:"download_dir"`
	HTTPTimeout   timex.Duration `json:"http_timeout"`
}

// parseJson overlays Config with values loaded from a JSON file selected via
// the -c / -config flags. Absent file path means no JSON is loaded. Only
// non-zero JSON values override the current Config.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.DownloadDir != "" {
		cfg.DownloadDir = jc.DownloadDir
	}
	if jc.HTTPTimeout.Duration != 0 {
		cfg.HTTPTimeout = time.Duration(jc.HTTPTimeout.Duration)
	}
}
