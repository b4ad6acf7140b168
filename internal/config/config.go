package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Store backends
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config holds the runtime settings, read from the environment with an
// optional .env file
type Config struct {
	Port          string
	StoreBackend  string
	DatabaseURL   string
	BidLockWait   time.Duration
	SweepInterval time.Duration // 0 disables the built-in lifecycle sweeper
}

// Load reads the configuration. Missing values fall back to sane defaults;
// DATABASE_URL wins over the discrete DB_* variables.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:         ":8080",
		StoreBackend: StoreMemory,
		BidLockWait:  2 * time.Second,
	}

	if p := os.Getenv("PORT"); p != "" {
		cfg.Port = ":" + p
	}
	if backend := os.Getenv("STORE_BACKEND"); backend != "" {
		cfg.StoreBackend = backend
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" && cfg.StoreBackend == StorePostgres {
		cfg.DatabaseURL = buildPostgresDSN()
	}
	if raw := os.Getenv("BID_LOCK_WAIT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.BidLockWait = d
		}
	}
	if raw := os.Getenv("SWEEP_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.SweepInterval = d
		}
	}

	return cfg
}

// buildPostgresDSN assembles the connection URL from discrete DB_* variables
func buildPostgresDSN() string {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	sslmode := os.Getenv("DB_SSLMODE")

	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		user, password, host, port, dbname, sslmode,
	)
}
