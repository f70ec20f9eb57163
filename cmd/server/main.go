package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/warehouse_pulse/backend/internal/config"
	"github.com/warehouse_pulse/backend/internal/db"
	"github.com/warehouse_pulse/backend/internal/export"
	httpapi "github.com/warehouse_pulse/backend/internal/http"
	"github.com/warehouse_pulse/backend/internal/service"
	"github.com/warehouse_pulse/backend/internal/warehouse"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "warehouse-pulse-backend").Logger()

	ctx := context.Background()
	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect db")
	}
	defer store.Close()

	flows, found, err := warehouse.LoadFlowMap(cfg.RoutesCSV)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.RoutesCSV).Msg("failed to parse route map")
	}
	if !found {
		logger.Warn().Str("path", cfg.RoutesCSV).Msg("route map missing, all flows will be unknown")
	} else {
		logger.Info().Int("routes", flows.Len()).Msg("route map loaded")
	}

	out, err := export.NewWriter(cfg.OutputDir)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.OutputDir).Msg("failed to create output dir")
	}

	extractor := &service.ExtractionService{Store: store, Out: out, Flows: flows, Logger: logger}

	router := httpapi.Router(cfg, store, out, extractor, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
