package config

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// StoreDriver selects the credential store: mongo, postgres or sqlite.
	StoreDriver string `env:"STORE_DRIVER, default=mongo"`

	JWT       JWTConfig
	Security  SecurityConfig
	Mongo     MongoConfig
	Postgres  PostgresConfig
	SQLite    SQLiteConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type JWTConfig struct {
	// Secret is base64-encoded HMAC key material.
	Secret string `env:"JWT_SECRET"`
	// ExpirationMillis is the token lifetime in milliseconds.
	ExpirationMillis int64 `env:"JWT_EXPIRATION, default=86400000"`
}

type SecurityConfig struct {
	BcryptCost       int           `env:"BCRYPT_COST,        default=10"`
	LoginMaxAttempts int64         `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	LoginLockWindow  time.Duration `env:"LOGIN_LOCK_WINDOW,  default=15m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=booking"`
}

type PostgresConfig struct {
	DatabaseURL string `env:"DATABASE_URL"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH, default=booking.db"`
}

type RedisConfig struct {
	// Addr is optional; without it login throttling is disabled.
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type RateLimitConfig struct {
	RPS   float64 `env:"RATE_LIMIT_RPS,   default=10"`
	Burst int     `env:"RATE_LIMIT_BURST, default=20"`
}

type CORSConfig struct {
	AllowOrigins []string `env:"CORS_ALLOW_ORIGINS, default=*"`
}

// TokenLifetime converts the configured milliseconds into a duration.
func (c *Config) TokenLifetime() time.Duration {
	return time.Duration(c.JWT.ExpirationMillis) * time.Millisecond
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if key, err := base64.StdEncoding.DecodeString(c.JWT.Secret); err != nil {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be base64: %w", err))
	} else if len(key) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must decode to at least 32 bytes"))
	}
	if c.JWT.ExpirationMillis < 1000 {
		errs = append(errs, errors.New("JWT_EXPIRATION must be at least 1000 ms"))
	}
	if c.Security.LoginMaxAttempts <= 0 {
		errs = append(errs, errors.New("LOGIN_MAX_ATTEMPTS must be positive"))
	}
	if c.Security.LoginLockWindow <= 0 {
		errs = append(errs, errors.New("LOGIN_LOCK_WINDOW must be positive"))
	}
	if c.RateLimit.RPS <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS must be positive"))
	}
	if c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_BURST must be positive"))
	}

	switch c.StoreDriver {
	case StoreMongo:
	case StorePostgres:
		if c.Postgres.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	case StoreSQLite:
		if c.SQLite.Path == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	return errors.Join(errs...)
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
