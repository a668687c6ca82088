package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tinggo/tinggo/internal/config"
	"github.com/tinggo/tinggo/internal/domain"
	"github.com/tinggo/tinggo/internal/handler"
	"github.com/tinggo/tinggo/internal/logger"
	"github.com/tinggo/tinggo/internal/repository/postgres"
	"github.com/tinggo/tinggo/internal/repository/sqlite"
	"github.com/tinggo/tinggo/internal/service"
	"github.com/tinggo/tinggo/internal/supabase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	lg := logger.Init("tinggo", cfg.Debug)

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = lg.WithContext(ctx)

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		lg.Fatal().Err(err).Msg("failed to run migrations")
	}
	lg.Info().Msg("database migrations applied")

	remote, err := supabase.New(cfg.Supabase.URL, cfg.Supabase.Key)
	if err != nil {
		lg.Fatal().Err(err).Msg("failed to create supabase client")
	}
	if remote.Ping(ctx) {
		lg.Info().Str("url", cfg.Supabase.URL).Msg("supabase reachable")
	} else {
		lg.Warn().Str("url", cfg.Supabase.URL).Msg("supabase not reachable, continuing with the local store")
	}

	limiter := service.PerMinute(cfg.RatePerMin)
	go limiter.Run(ctx)

	svc := handler.Services{
		Auth:       service.NewAuthService(db.Users(), remote, cfg.SecretKey, cfg.BcryptCost, cfg.SessionTTL),
		Profiles:   service.NewProfileService(db.Users(), db.Profiles(), db.Avatars(), remote),
		Dashboards: service.NewDashboardService(db.Users()),
		Limiter:    limiter,
		Ping:       db.Ping,
	}

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: handler.New(svc, handler.Options{
			CookieSecure:    cfg.CookieSecure,
			AllowedHosts:    cfg.AllowedHosts,
			DefaultLanguage: domain.Language(cfg.LanguageCode),
		}, lg),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	go func() {
		lg.Info().
			Str("addr", srv.Addr).
			Bool("debug", cfg.Debug).
			Str("email_backend", cfg.EmailBackend).
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	lg.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error().Err(err).Msg("server shutdown error")
		os.Exit(1)
	}
	lg.Info().Msg("server stopped")
}

// openDatabase picks Postgres for postgres:// URLs and SQLite otherwise.
func openDatabase(ctx context.Context, cfg config.Config) (domain.Database, error) {
	if cfg.UsesPostgres() {
		return postgres.New(ctx, cfg.DatabaseURL)
	}
	return sqlite.New(cfg.DatabaseURL)
}
