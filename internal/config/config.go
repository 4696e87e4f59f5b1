package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DatabasePostgres = "postgres"
	DatabaseMySQL    = "mysql"
	DatabaseSQLite   = "sqlite"
)

const defaultPostgresDSN = "host=localhost user=postgres password=postgres dbname=polls port=5432 sslmode=disable TimeZone=UTC"

type Config struct {
	Port          string
	DatabaseType  string
	DatabaseURL   string
	SessionSecret string
	RedisAddr     string
	CacheTTL      time.Duration
	PageSize      int
	SeedDemo      bool
}

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function, applying defaults.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:          getenv("PORT"),
		DatabaseType:  strings.ToLower(getenv("DATABASE_TYPE")),
		DatabaseURL:   getenv("DATABASE_URL"),
		SessionSecret: getenv("SESSION_SECRET"),
		RedisAddr:     getenv("REDIS_ADDR"),
		CacheTTL:      30 * time.Second,
		PageSize:      5,
		SeedDemo:      true,
	}

	if cfg.Port == "" {
		cfg.Port = "8000"
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("invalid PORT %q", cfg.Port)
	}

	switch cfg.DatabaseType {
	case "":
		cfg.DatabaseType = DatabasePostgres
	case DatabasePostgres, DatabaseMySQL, DatabaseSQLite:
	default:
		return Config{}, fmt.Errorf("unsupported DATABASE_TYPE %q", cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType != DatabasePostgres {
			return Config{}, fmt.Errorf("DATABASE_URL required for %s", cfg.DatabaseType)
		}
		// Fallback for local dev if not set
		cfg.DatabaseURL = defaultPostgresDSN
	}

	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "secret_key_change_me"
	}

	if v := getenv("CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl < 0 {
			return Config{}, fmt.Errorf("invalid CACHE_TTL %q", v)
		}
		cfg.CacheTTL = ttl
	}

	if v := getenv("PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid PAGE_SIZE %q", v)
		}
		cfg.PageSize = n
	}

	if v := getenv("SEED_DEMO"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SEED_DEMO %q", v)
		}
		cfg.SeedDemo = b
	}

	return cfg, nil
}
