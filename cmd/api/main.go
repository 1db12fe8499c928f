package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/prescription-api/config"
	"github.com/jwalitptl/prescription-api/internal/handler"
	prescriptionHandler "github.com/jwalitptl/prescription-api/internal/handler/prescription"
	"github.com/jwalitptl/prescription-api/internal/middleware"
	"github.com/jwalitptl/prescription-api/internal/repository/postgres"
	"github.com/jwalitptl/prescription-api/internal/router"
	"github.com/jwalitptl/prescription-api/internal/seed"
	prescriptionService "github.com/jwalitptl/prescription-api/internal/service/prescription"
	"github.com/jwalitptl/prescription-api/pkg/logger"
)

func main() {
	logger.Setup(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// The database may still be coming up when the process starts.
	db, err := postgres.WaitForDB(cfg.Database, cfg.Database.StartupRetries, cfg.Database.StartupDelay)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()
	if err := postgres.InitSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize schema")
	}

	prescriptionRepo := postgres.NewPrescriptionRepository(db)

	if err := seed.NewLoader(prescriptionRepo).Run(ctx, cfg.Seed.File); err != nil {
		log.Fatal().Err(err).Msg("failed to seed database")
	}

	prescriptionSvc := prescriptionService.NewService(prescriptionRepo)

	h := handler.NewHandler(cfg.AppName, cfg.Version)
	prescriptionH := prescriptionHandler.NewHandler(prescriptionSvc)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.Security.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Security.AllowedOrigins
	}

	r := router.NewRouter(prescriptionH, h, router.Config{
		CORSConfig:       corsConfig,
		RequestTimeout:   cfg.Server.RequestTimeout,
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimitRPS:     cfg.RateLimit.RequestsPerSecond,
		RateLimitBurst:   cfg.RateLimit.Burst,
	})
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
