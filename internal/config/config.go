// Package config loads runtime configuration from the environment (and an optional .env file).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"cardenal_backend/internal/platform/db"
)

// Storage backend variants.
const (
	BackendRelational = "relational"
	BackendFlat       = "flat"
)

// Credential schemes.
const (
	SchemePlain  = "plain"
	SchemeBcrypt = "bcrypt"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App        AppConfig
	Storage    StorageConfig
	Relational db.Config
	Redis      RedisConfig
	Logger     LoggerConfig
	Auth       AuthConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Port     string
	TimeZone string
}

// StorageConfig selects the storage backend variant.
type StorageConfig struct {
	Backend string
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret        string
	TokenTTLMinutes  int
	CredentialScheme string
	BcryptCost       int

	// AttemptsPerMinute limits /login and /password/reset per client. 0 disables the limit.
	AttemptsPerMinute int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Port:     getEnv("APP_PORT", "8080"),
			TimeZone: getEnv("TIMEZONE", "America/Mexico_City"),
		},
		Storage: StorageConfig{
			Backend: getEnv("STORAGE_BACKEND", BackendRelational),
		},
		Relational: db.LoadConfigFromEnv(),
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "127.0.0.1"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:         os.Getenv("JWT_SECRET"),
			TokenTTLMinutes:   getEnvAsInt("JWT_TTL_MINUTES", 60*24),
			CredentialScheme:  getEnv("CREDENTIAL_SCHEME", SchemePlain),
			BcryptCost:        getEnvAsInt("BCRYPT_COST", 10),
			AttemptsPerMinute: getEnvAsInt("AUTH_ATTEMPTS_PER_MINUTE", 10),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case BackendRelational, BackendFlat:
	default:
		return fmt.Errorf("invalid STORAGE_BACKEND %q (want %q or %q)", c.Storage.Backend, BackendRelational, BackendFlat)
	}
	switch c.Auth.CredentialScheme {
	case SchemePlain, SchemeBcrypt:
	default:
		return fmt.Errorf("invalid CREDENTIAL_SCHEME %q", c.Auth.CredentialScheme)
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return ":" + a.Port
}

// Addr returns the Redis address.
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

// TokenTTL returns the JWT lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	if a.TokenTTLMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
