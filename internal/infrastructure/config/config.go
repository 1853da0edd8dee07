package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the full service configuration, loaded once at startup from
// environment variables. Nothing in here is mutable after process start.
type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth       AuthConfig
	Validation ValidationConfig
	Mongo      MongoConfig
	Redis      RedisConfig
	Cache      CacheConfig
	Audit      AuditConfig
}

// AuthConfig groups the token and integrity-hash settings. HashPrefix
// salts the hid digest and must never reach clients or logs.
type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET, required"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,  default=15m"`
	HashPrefix string        `env:"HASH_PREFIX, required"`
}

// ValidationConfig carries the tunable rule bounds.
type ValidationConfig struct {
	MinAge int `env:"USER_MIN_AGE, default=100"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=user_service"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// CacheConfig controls the gender-counts cache.
type CacheConfig struct {
	CountsTTL time.Duration `env:"COUNTS_CACHE_TTL, default=30s"`
}

// AuditConfig controls the asynchronous audit pipeline.
type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}
