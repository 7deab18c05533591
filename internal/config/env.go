package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL    string
	OCRBaseURL    string
	Bucket        string
	StorageBase   string
	SessionDBPath string
	HTTPTimeout   time.Duration
	AwsAccessKey  string
	AwsSecretKey  string
	AwsRegion     string
}

// LoadConfig loads the environment variables and returns config
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:    getEnv("EXPENSYNC_API_URL", "http://localhost:3000"),
		OCRBaseURL:    getEnv("EXPENSYNC_OCR_URL", ""),
		Bucket:        getEnv("EXPENSYNC_BUCKET", "receipts"),
		StorageBase:   getEnv("EXPENSYNC_STORAGE_PUBLIC_BASE", ""),
		SessionDBPath: getEnv("EXPENSYNC_SESSION_DB", defaultSessionDBPath()),
		HTTPTimeout:   getEnvDuration("EXPENSYNC_HTTP_TIMEOUT", 30*time.Second),
		AwsAccessKey:  getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey:  getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:     getEnv("AWS_REGION", "us-east-2"),
	}

	// The OCR service rides on the same host unless pointed elsewhere
	// (it runs behind its own tunnel in most deployments).
	if cfg.OCRBaseURL == "" {
		cfg.OCRBaseURL = cfg.APIBaseURL
	}

	return cfg
}

func defaultSessionDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "expensync-session.db"
	}
	return filepath.Join(home, ".expensync", "session.db")
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("WARN: %s=%q not a duration, using default %s", key, v, def)
		return def
	}
	return d
}
