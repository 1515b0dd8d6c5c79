// Package config loads runtime configuration for the CloudSafe CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend REST endpoint
//	-d string   path of the local session database file
//	-t int      HTTP request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so values can be
// either strings like "30s" or integer nanoseconds:
//
//	{
//	  "server_base_url": "https://cloudsafe.example.com",
//	  "database_path": "cloudsafe.db",
//	  "download_dir": "downloads",
//	  "http_timeout": "45s"
//	}
package config
