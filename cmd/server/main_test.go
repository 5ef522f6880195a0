package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"expense-journal/internal/auth"
	"expense-journal/internal/config"
	"expense-journal/internal/handlers"
	"expense-journal/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		Env:        "development",
		CORSOrigin: "*",
		JWTSecret:  "test-secret",
		JWTTTL:     time.Hour,
		AdminName:  "Admin",
	}
}

func TestSetupRouter(t *testing.T) {
	// Setup dependencies
	db, err := storage.NewDB(":memory:")
	require.NoError(t, err, "failed to create database")
	defer db.Close()

	cfg := testConfig()
	service := auth.NewService(db, auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL))
	h := handlers.NewHandlers(db, service, zerolog.Nop())

	// Create router - this panics if two patterns conflict
	mux := setupRouter(h, cfg, zerolog.Nop())

	// Verify routes
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{
			name:       "Health check",
			method:     "GET",
			path:       "/api/health",
			wantStatus: http.StatusOK,
		},
		{
			name:       "Unknown route",
			method:     "GET",
			path:       "/expenses",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "List transactions requires auth",
			method:     "GET",
			path:       "/api/transactions",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Stats requires auth",
			method:     "GET",
			path:       "/api/transactions/stats",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Dashboard requires auth",
			method:     "GET",
			path:       "/api/dashboard/stats",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Login with bad credentials",
			method:     "POST",
			path:       "/api/auth/login",
			body:       `{"email":"nobody@example.com","password":"x"}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "CORS preflight",
			method:     "OPTIONS",
			path:       "/api/transactions",
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code,
				"%s %s returned unexpected status", tt.method, tt.path)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestBootstrapAdmin(t *testing.T) {
	db, err := storage.NewDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	cfg := testConfig()
	cfg.AdminEmail = "admin@example.com"
	cfg.AdminPassword = "changeme"
	service := auth.NewService(db, auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL))
	ctx := context.Background()

	require.NoError(t, bootstrapAdmin(ctx, db, service, cfg, zerolog.Nop()))
	count, err := db.UserCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, _, err = service.Login(ctx, "admin@example.com", "changeme")
	assert.NoError(t, err)

	// A second start leaves the existing users alone.
	require.NoError(t, bootstrapAdmin(ctx, db, service, cfg, zerolog.Nop()))
	count, err = db.UserCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBootstrapAdminSkippedWithoutCredentials(t *testing.T) {
	db, err := storage.NewDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	cfg := testConfig()
	service := auth.NewService(db, auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL))

	require.NoError(t, bootstrapAdmin(context.Background(), db, service, cfg, zerolog.Nop()))
	count, err := db.UserCount(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}
