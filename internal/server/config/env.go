package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables. A .env file in
// the working directory is loaded first, without overriding variables already
// present in the environment.
//
// Recognized variables:
//
//	ADDRESS          HTTP bind address
//	DATABASE_DSN     PostgreSQL DSN
//	JWT_SECRET       token signing secret
//	TOKEN_VALIDITY   bearer token lifetime, e.g. "168h"
//	STORAGE_DRIVER   "disk" or "s3"
//	STORAGE_ROOT     disk driver directory
//	DOCUMENT_MAX_BYTES, UPLOAD_MAX_BYTES
//	CORS_ORIGINS     comma-separated origin list
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	setString("ADDRESS", &config.EndpointAddr)
	setString("DATABASE_DSN", &config.DatabaseDSN)
	setString("JWT_SECRET", &config.SecretKey)
	setString("STORAGE_DRIVER", &config.StorageDriver)
	setString("STORAGE_ROOT", &config.StorageRoot)
	setString("S3_ROOT_USER", &config.S3RootUser)
	setString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	setString("S3_BUCKET", &config.S3Bucket)
	setString("S3_REGION", &config.S3Region)
	setString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)

	if v, ok := os.LookupEnv("TOKEN_VALIDITY"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.TokenValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv("DOCUMENT_MAX_BYTES"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.DocumentMaxBytes = n
		}
	}
	if v, ok := os.LookupEnv("UPLOAD_MAX_BYTES"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.UploadMaxBytes = n
		}
	}
	if v, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		config.CORSAllowedOrigins = origins
	}
}
