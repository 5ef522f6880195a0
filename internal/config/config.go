package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// EnvProduction is the APP_ENV value that hides stack traces and requires a real secret.
const EnvProduction = "production"

// devSecret signs tokens outside production when JWT_SECRET is unset.
const devSecret = "dev-secret-change-me"

// Config holds process configuration read from the environment.
type Config struct {
	Port        string
	Env         string
	DBDriver    string
	DBPath      string
	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration
	CORSOrigin  string

	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:          getenv("PORT"),
		Env:           getenv("APP_ENV"),
		DBDriver:      getenv("DB_DRIVER"),
		DBPath:        getenv("DB_PATH"),
		DatabaseURL:   getenv("DATABASE_URL"),
		JWTSecret:     getenv("JWT_SECRET"),
		CORSOrigin:    getenv("CORS_ORIGIN"),
		AdminEmail:    getenv("ADMIN_EMAIL"),
		AdminPassword: getenv("ADMIN_PASSWORD"),
		AdminName:     getenv("ADMIN_NAME"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "expenses.db"
	}
	if cfg.DBDriver == "" {
		cfg.DBDriver = "sqlite"
		if cfg.DatabaseURL != "" {
			cfg.DBDriver = "postgres"
		}
	}
	if cfg.DBDriver == "postgres" && cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required for the postgres driver")
	}
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = "*"
	}
	if cfg.AdminName == "" {
		cfg.AdminName = "Admin"
	}

	cfg.JWTTTL = 24 * time.Hour
	if raw := getenv("JWT_EXPIRES_IN"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid JWT_EXPIRES_IN %q: %w", raw, err)
		}
		if ttl <= 0 {
			return Config{}, fmt.Errorf("JWT_EXPIRES_IN must be positive, got %s", ttl)
		}
		cfg.JWTTTL = ttl
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return Config{}, errors.New("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = devSecret
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// DSN returns the data source name for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.DBPath
}
