// Command server runs the dairy farm backend: the HTTP API plus the
// background scans that emit check-up reminders and milk production
// anomaly alerts.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-dairy-backend/internal/config"
	httpapi "github.com/tbourn/go-dairy-backend/internal/http"
	"github.com/tbourn/go-dairy-backend/internal/observability"
	"github.com/tbourn/go-dairy-backend/internal/repo"
	"github.com/tbourn/go-dairy-backend/internal/scheduler"
	"github.com/tbourn/go-dairy-backend/internal/services"
	"github.com/tbourn/go-dairy-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Tracing (no-op shutdown when disabled)
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		if err := shutdownOTel(context.Background()); err != nil {
			log.Error().Err(err).Msg("otel shutdown failed")
		}
	}()

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}
	if cfg.OTEL.Enabled {
		if err := repo.EnableTracing(db); err != nil {
			log.Fatal().Err(err).Msg("db tracing setup failed")
		}
	}

	// Background scans
	alerts := &services.AlertsService{
		DB:            db,
		Health:        &services.HealthService{DB: db},
		Analytics:     &services.AnalyticsService{DB: db},
		Notifications: &services.NotificationService{DB: db},
	}
	sched := scheduler.New(alerts, log.With().Str("component", "scheduler").Logger())
	sched.CheckupSpec = cfg.CheckupCron
	sched.AnomalySpec = cfg.AnomalyCron
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("scheduler start failed")
	}
	defer sched.Stop()

	engine := gin.New()
	httpapi.RegisterRoutes(engine, db, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("version", version).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server crashed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
