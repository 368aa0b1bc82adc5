package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StoragePgsql  = "pgsql"
	StorageMemory = "memory"
)

// Config holds application configuration.
type Config struct {
	Port           string
	IsProduction   bool
	LogLevel       string
	StorageDriver  string
	DatabaseURL    string
	MigrationsPath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	BalanceCacheTTL          time.Duration
	StructuralLockTTL        time.Duration
	StructuralRetryAttempts  int
	StructuralRetryBaseDelay time.Duration

	RateLimit          string
	CORSAllowedOrigins []string

	IntegrityCron     string
	WorkerConcurrency int
}

// RedisEnabled reports whether a Redis address is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_DRIVER", StoragePgsql)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("BALANCE_CACHE_TTL", "10m")
	v.SetDefault("STRUCTURAL_LOCK_TTL", "30s")
	v.SetDefault("STRUCTURAL_RETRY_ATTEMPTS", 3)
	v.SetDefault("STRUCTURAL_RETRY_BASE_DELAY", "50ms")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("INTEGRITY_CRON", "@every 1h")
	v.SetDefault("WORKER_CONCURRENCY", 5)
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:                     v.GetString("PORT"),
		IsProduction:             v.GetBool("IS_PRODUCTION"),
		LogLevel:                 strings.ToLower(v.GetString("LOG_LEVEL")),
		StorageDriver:            strings.ToLower(v.GetString("STORAGE_DRIVER")),
		DatabaseURL:              v.GetString("PGSQL_URL"),
		MigrationsPath:           v.GetString("MIGRATIONS_PATH"),
		RedisAddr:                v.GetString("REDIS_ADDR"),
		RedisPassword:            v.GetString("REDIS_PASSWORD"),
		RedisDB:                  v.GetInt("REDIS_DB"),
		BalanceCacheTTL:          v.GetDuration("BALANCE_CACHE_TTL"),
		StructuralLockTTL:        v.GetDuration("STRUCTURAL_LOCK_TTL"),
		StructuralRetryAttempts:  v.GetInt("STRUCTURAL_RETRY_ATTEMPTS"),
		StructuralRetryBaseDelay: v.GetDuration("STRUCTURAL_RETRY_BASE_DELAY"),
		RateLimit:                v.GetString("RATE_LIMIT"),
		IntegrityCron:            v.GetString("INTEGRITY_CRON"),
		WorkerConcurrency:        v.GetInt("WORKER_CONCURRENCY"),
	}
	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	switch cfg.StorageDriver {
	case StoragePgsql:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when STORAGE_DRIVER is %s", StoragePgsql)
		}
	case StorageMemory:
		log.Println("Warning: STORAGE_DRIVER=memory keeps the ledger in process memory only.")
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.StructuralRetryAttempts < 1 {
		log.Printf("Warning: STRUCTURAL_RETRY_ATTEMPTS=%d is invalid. Defaulting to 1.\n", cfg.StructuralRetryAttempts)
		cfg.StructuralRetryAttempts = 1
	}
	if cfg.WorkerConcurrency < 1 {
		cfg.WorkerConcurrency = 1
	}
	return cfg, nil
}
