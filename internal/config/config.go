package config

import (
	"fmt"
	"os"
)

// Config holds environment-driven settings for the service
type Config struct {
	AppEnv     string
	Port       string
	CronSecret string

	PGHost     string
	PGPort     string
	PGUser     string
	PGPassword string
	PGDatabase string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	// Optional Nominatim-compatible endpoint for the enrichment path
	GeocoderBaseURL string
}

// Load reads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		AppEnv:          getEnv("APP_ENV", "development"),
		Port:            getEnv("PORT", "8080"),
		CronSecret:      os.Getenv("CRON_SECRET"),
		PGHost:          os.Getenv("PG_HOST"),
		PGPort:          getEnv("PG_PORT", "5432"),
		PGUser:          os.Getenv("PG_USER"),
		PGPassword:      os.Getenv("PG_PASSWORD"),
		PGDatabase:      os.Getenv("PG_DB"),
		RedisHost:       os.Getenv("REDIS_HOST"),
		RedisPort:       getEnv("REDIS_PORT", "6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		GeocoderBaseURL: getEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
	}
	return cfg
}

// Validate checks that settings required at startup are present.
// Missing store credentials are fatal: no partial work is attempted without them.
func (c *Config) Validate() error {
	if c.PGHost == "" || c.PGUser == "" || c.PGDatabase == "" {
		return fmt.Errorf("missing postgres credentials: PG_HOST, PG_USER and PG_DB must be set")
	}
	return nil
}

// IsProduction reports whether the service runs in a production deployment
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// CronSecretConfigured reports whether the sync trigger secret is set.
// In production an unset secret must refuse sync triggers rather than
// run unauthenticated.
func (c *Config) CronSecretConfigured() bool {
	return c.CronSecret != ""
}

// PostgresDSN builds the connection string shared by sqlx and GORM
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
