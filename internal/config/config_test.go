package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(env(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "expenses.db", cfg.DSN())
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, devSecret, cfg.JWTSecret)
	assert.Equal(t, "*", cfg.CORSOrigin)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_PostgresFromURL(t *testing.T) {
	cfg, err := load(env(map[string]string{"DATABASE_URL": "postgres://u:p@localhost/app"}))
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "postgres://u:p@localhost/app", cfg.DSN())
}

func TestLoad_PostgresWithoutURL(t *testing.T) {
	_, err := load(env(map[string]string{"DB_DRIVER": "postgres"}))
	assert.Error(t, err)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	_, err := load(env(map[string]string{"APP_ENV": "production"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cfg, err := load(env(map[string]string{"APP_ENV": "production", "JWT_SECRET": "s"}))
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_TokenTTL(t *testing.T) {
	cfg, err := load(env(map[string]string{"JWT_EXPIRES_IN": "90m"}))
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, cfg.JWTTTL)

	_, err = load(env(map[string]string{"JWT_EXPIRES_IN": "soon"}))
	assert.Error(t, err)

	_, err = load(env(map[string]string{"JWT_EXPIRES_IN": "-1h"}))
	assert.Error(t, err)
}
