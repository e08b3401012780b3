// Package config loads the service configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup.
type Config struct {
	Port                string
	ProjectID           string
	StorageBucket       string
	DocumentsCollection string
	UsersCollection     string
	JWTSecret           string

	// MaxUploadBytes caps a single uploaded PDF.
	MaxUploadBytes int64
	// MaxBulkFiles caps the number of files in one bulk upload.
	MaxBulkFiles int
	// LoginRatePerMinute and LoginBurst shape the per-IP login limiter.
	LoginRatePerMinute float64
	LoginBurst         int
	// TrustProxyHeader lets the limiter key on X-Forwarded-For. Enable only
	// when a trusted proxy terminates client connections.
	TrustProxyHeader bool
}

// Load reads the configuration. A .env file is applied when present; real
// environment variables win. PROJECT_ID, STORAGE_BUCKET and JWT_SECRET are
// required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                GetEnv("PORT", "8080"),
		ProjectID:           GetEnv("PROJECT_ID", ""),
		StorageBucket:       GetEnv("STORAGE_BUCKET", ""),
		DocumentsCollection: GetEnv("FIRESTORE_COLLECTION", "documents"),
		UsersCollection:     GetEnv("FIRESTORE_USERS_COLLECTION", "users"),
		JWTSecret:           GetEnv("JWT_SECRET", ""),
		MaxUploadBytes:      getEnvInt64("MAX_UPLOAD_BYTES", 10<<20),
		MaxBulkFiles:        int(getEnvInt64("MAX_BULK_FILES", 20)),
		LoginRatePerMinute:  5,
		LoginBurst:          5,
		TrustProxyHeader:    GetEnv("TRUST_PROXY", "") == "true",
	}

	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	if cfg.StorageBucket == "" {
		return nil, fmt.Errorf("STORAGE_BUCKET environment variable must be set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable must be set")
	}
	return cfg, nil
}

// GetEnv reads an environment variable or returns a default value.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
