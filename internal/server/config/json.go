package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/cloudsafe/cloudsafe/internal/flagx"
	"github.com/cloudsafe/cloudsafe/internal/timex"
)

// JsonConfig is a DTO used only for reading JSON configuration files. It uses
// timex.Duration for interval fields, which allows parsing both string values
// such as "60m" and integer nanoseconds. After unmarshalling, its fields are
// copied into the runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr          string         `json:"endpoint_addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	S3RootUser            string         `json:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
}

// parseJson overlays Config with values loaded from a JSON file selected via
// the -c / -config flags. Absent file path means no JSON is loaded. Only
// non-zero JSON values override the current Config. Read or unmarshal errors
// panic.
func parseJson(config *Config) {
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

	if jc.EndpointAddr != "" {
		config.EndpointAddr = jc.EndpointAddr
	}
	if jc.DatabaseDSN != "" {
		config.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.SecretKey != "" {
		config.SecretKey = jc.SecretKey
	}
	if jc.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = time.Duration(jc.TokenValidityDuration.Duration)
	}
	if jc.S3RootUser != "" {
		config.S3RootUser = jc.S3RootUser
	}
	if jc.S3RootPassword != "" {
		config.S3RootPassword = jc.S3RootPassword
	}
	if jc.S3Bucket != "" {
		config.S3Bucket = jc.S3Bucket
	}
	if jc.S3Region != "" {
		config.S3Region = jc.S3Region
	}
	if jc.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = jc.S3BaseEndpoint
	}
}
