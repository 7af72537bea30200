package config

import (
	"os"
	"strconv"
	"time"

	"github.com/Douglas-Pedroso/tecnocomparador/pkg/store"
)

// Config carries runtime settings, all coming from environment variables
// with working defaults for local development.
type Config struct {
	Port string

	// DatabaseURL selects the Postgres store when set; otherwise products
	// land in the local SQLite file.
	DatabaseURL string
	SQLitePath  string

	// ChromiumPath points at an externally installed chromium binary, used
	// in containerized deploys where chromedp's default lookup fails.
	ChromiumPath string

	Retention            time.Duration
	MaxConcurrentScrapes int
}

func Load() *Config {
	cfg := &Config{
		Port:                 "5000",
		SQLitePath:           "./products.db",
		Retention:            store.RetentionWindow,
		MaxConcurrentScrapes: 3,
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.SQLitePath = v
	}
	cfg.ChromiumPath = os.Getenv("CHROMIUM_PATH")

	if v := os.Getenv("RETENTION_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			cfg.Retention = time.Duration(days) * 24 * time.Hour
		}
	}
	if v := os.Getenv("MAX_CONCURRENT_SCRAPES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxConcurrentScrapes = n
		}
	}

	return cfg
}
