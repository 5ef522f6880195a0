package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"expense-journal/internal/auth"
	"expense-journal/internal/config"
	"expense-journal/internal/handlers"
	"expense-journal/internal/logger"
	"expense-journal/internal/storage"

	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(false)
		bootLog.Fatal().Err(err).Msg("Invalid configuration")
	}

	log := logger.New(cfg.IsProduction())

	ctx := context.Background()
	db, err := storage.Open(ctx, cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("Failed to open database")
	}
	defer db.Close()

	service := auth.NewService(db, auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL))

	if err := bootstrapAdmin(ctx, db, service, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin user")
	}

	h := handlers.NewHandlers(db, service, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      setupRouter(h, cfg, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("driver", cfg.DBDriver).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupRouter wraps the API routes in the middleware chain.
func setupRouter(h *handlers.Handlers, cfg config.Config, log zerolog.Logger) http.Handler {
	return handlers.Recovery(log, !cfg.IsProduction())(
		handlers.Logger(log)(
			handlers.RequestID(log)(
				handlers.CORS(cfg.CORSOrigin)(
					h.Routes(),
				),
			),
		),
	)
}

// bootstrapAdmin registers the configured admin account when the database
// has no users yet.
func bootstrapAdmin(ctx context.Context, db *storage.DB, service *auth.Service, cfg config.Config, log zerolog.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	count, err := db.UserCount(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	user, _, err := service.Register(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName)
	if err != nil {
		return err
	}
	log.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("Created admin user")
	return nil
}
