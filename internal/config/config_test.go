package config

import (
	"testing"
	"time"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("Port = %q, want 8000", cfg.Port)
	}
	if cfg.DatabaseType != DatabasePostgres {
		t.Errorf("DatabaseType = %q, want postgres", cfg.DatabaseType)
	}
	if cfg.DatabaseURL != defaultPostgresDSN {
		t.Errorf("DatabaseURL = %q, want default DSN", cfg.DatabaseURL)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("CacheTTL = %v, want 30s", cfg.CacheTTL)
	}
	if cfg.PageSize != 5 {
		t.Errorf("PageSize = %d, want 5", cfg.PageSize)
	}
	if !cfg.SeedDemo {
		t.Error("SeedDemo should default to true")
	}
	if cfg.SessionSecret == "" {
		t.Error("SessionSecret should have a fallback")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"PORT":          "9090",
		"DATABASE_TYPE": "SQLite",
		"DATABASE_URL":  "file:polls.db",
		"REDIS_ADDR":    "localhost:6379",
		"CACHE_TTL":     "2m",
		"PAGE_SIZE":     "20",
		"SEED_DEMO":     "false",
	}))
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.DatabaseType != DatabaseSQLite {
		t.Errorf("DatabaseType = %q", cfg.DatabaseType)
	}
	if cfg.DatabaseURL != "file:polls.db" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q", cfg.RedisAddr)
	}
	if cfg.CacheTTL != 2*time.Minute {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
	if cfg.PageSize != 20 {
		t.Errorf("PageSize = %d", cfg.PageSize)
	}
	if cfg.SeedDemo {
		t.Error("SeedDemo should be false")
	}
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"bad port", map[string]string{"PORT": "http"}},
		{"unknown database", map[string]string{"DATABASE_TYPE": "oracle"}},
		{"sqlite without url", map[string]string{"DATABASE_TYPE": "sqlite"}},
		{"bad ttl", map[string]string{"CACHE_TTL": "soon"}},
		{"negative ttl", map[string]string{"CACHE_TTL": "-1s"}},
		{"zero page size", map[string]string{"PAGE_SIZE": "0"}},
		{"bad seed flag", map[string]string{"SEED_DEMO": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromEnv(env(tt.vars)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
