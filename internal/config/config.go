package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN          string
	Environment    string
	OrgTimezone    string
	MigrationsPath string
}

func Load() (*Config, error) {
	// Load .env if present; plain environment variables otherwise.
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		DBDSN:          os.Getenv("DB_DSN"),
		Environment:    os.Getenv("ENV"),
		OrgTimezone:    os.Getenv("ORG_TIMEZONE"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.OrgTimezone == "" {
		// All stored instants are UTC; the organizational zone only
		// drives weekday/minute-of-day bucketing for working hours.
		cfg.OrgTimezone = "UTC"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}

// Location resolves the configured organizational time zone. The engine
// never uses the process-local zone for schedule bucketing.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.OrgTimezone)
	if err != nil {
		return nil, fmt.Errorf("load org timezone %q: %w", c.OrgTimezone, err)
	}
	return loc, nil
}
