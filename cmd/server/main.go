// Command server runs the phishing-simulation backend: campaign landing
// pages, click tracking, URL/email scanning, notification delivery, and the
// operator-facing group API.
//
// Startup order: env → config → logging → database → tracing → router →
// HTTP server with graceful shutdown.
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

	_ "github.com/decoynet/go-phishsim-backend/docs"
	"github.com/decoynet/go-phishsim-backend/internal/config"
	httpapi "github.com/decoynet/go-phishsim-backend/internal/http"
	"github.com/decoynet/go-phishsim-backend/internal/observability"
	"github.com/decoynet/go-phishsim-backend/internal/repo"
	"github.com/decoynet/go-phishsim-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

// @title       Phishing Simulation Backend API
// @version     1.0
// @description Campaign click tracking, URL reputation scanning, email content scanning, and notification delivery for phishing-awareness exercises.
//
// @contact.name  DecoyNet
// @contact.url   https://github.com/decoynet/go-phishsim-backend
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @BasePath /
func main() {
	// .env is optional; real deployments configure via the environment.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	// APP_VERSION wins over the linker stamp (useful for containerized builds
	// that tag images without relinking).
	version = sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)

	level := sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	log.Info().
		Str("version", version).
		Str("port", cfg.Port).
		Stringer("log_level", level).
		Msg("starting phishsim backend")

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("setup tracing")
	}
	defer func() {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(c); err != nil {
			log.Warn().Err(err).Msg("tracer shutdown")
		}
	}()

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("http server failed")
	}

	// Drain in-flight requests; blocking scans can hold connections, so the
	// grace period must cover the scan ceiling.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Scanner.MaxWait+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("stopped")
}
