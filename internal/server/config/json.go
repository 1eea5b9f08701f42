package config

import (
	"encoding/json"
	"os"
	"time"

	"lockbox/internal/flagx"
	"lockbox/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "168h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr          string         `json:"endpoint_addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	StorageDriver         string         `json:"storage_driver"`
	StorageRoot           string         `json:"storage_root"`
	DocumentMaxBytes      int64          `json:"document_max_bytes"`
	UploadMaxBytes        int64          `json:"upload_max_bytes"`
	CORSAllowedOrigins    []string       `json:"cors_allowed_origins"`
	S3RootUser            string         `json:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. Only keys present in
// the file override earlier stages. An unreadable or invalid file panics,
// since the server cannot start with half-applied configuration.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(file, &raw); err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	has := func(key string) bool {
		_, ok := raw[key]
		return ok
	}

	if has("endpoint_addr") {
		config.EndpointAddr = c.EndpointAddr
	}
	if has("database_dsn") {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if has("secret_key") {
		config.SecretKey = c.SecretKey
	}
	if has("token_validity_duration") {
		config.TokenValidityDuration = time.Duration(c.TokenValidityDuration.Duration)
	}
	if has("storage_driver") {
		config.StorageDriver = c.StorageDriver
	}
	if has("storage_root") {
		config.StorageRoot = c.StorageRoot
	}
	if has("document_max_bytes") {
		config.DocumentMaxBytes = c.DocumentMaxBytes
	}
	if has("upload_max_bytes") {
		config.UploadMaxBytes = c.UploadMaxBytes
	}
	if has("cors_allowed_origins") {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
	if has("s3_root_user") {
		config.S3RootUser = c.S3RootUser
	}
	if has("s3_root_password") {
		config.S3RootPassword = c.S3RootPassword
	}
	if has("s3_bucket") {
		config.S3Bucket = c.S3Bucket
	}
	if has("s3_region") {
		config.S3Region = c.S3Region
	}
	if has("s3_base_endpoint") {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
}
