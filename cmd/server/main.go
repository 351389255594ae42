package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/chrstroll/swell-recap/internal/adapter/geocode"
	httpadapter "github.com/chrstroll/swell-recap/internal/adapter/http"
	kafkaadapter "github.com/chrstroll/swell-recap/internal/adapter/kafka"
	"github.com/chrstroll/swell-recap/internal/adapter/openmeteo"
	"github.com/chrstroll/swell-recap/internal/adapter/store"
	"github.com/chrstroll/swell-recap/internal/config"
	"github.com/chrstroll/swell-recap/internal/observability"
	"github.com/chrstroll/swell-recap/internal/recap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open summary store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	meteo := openmeteo.NewClient(cfg.FetchTimeout, cfg.FetchRate, logger)

	// Place labels are feature-flagged via GEOCODE_ENABLED.
	var labeler recap.Labeler
	if cfg.GeocodeEnabled {
		client := geocode.NewClient(cfg.GeocodeTimeout, logger)
		labeler = geocode.NewCachedLabeler(client, cfg.LabelCacheSize, cfg.LabelCacheTTL, nil)
		logger.Info("reverse geocoding enabled", "cache_size", cfg.LabelCacheSize, "cache_ttl", cfg.LabelCacheTTL)
	} else {
		logger.Info("reverse geocoding disabled")
	}

	// Summary publication is enabled by setting KAFKA_BROKERS.
	var publisher recap.Publisher
	var kafkaPub *kafkaadapter.Publisher
	if cfg.PublishEnabled() {
		kafkaPub = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaSummaryTopic, logger)
		publisher = kafkaPub
		logger.Info("summary publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSummaryTopic)
	} else {
		logger.Info("summary publishing disabled")
	}

	svc := recap.New(meteo, meteo, st, labeler, publisher, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Nightly snapshot pass re-reduces yesterday once its hours are all observed.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.SnapshotSchedule, func() {
		date := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
		if err := svc.Snapshot(ctx, date); err != nil {
			logger.Error("snapshot pass failed", "date", date, "error", err)
		}
	}); err != nil {
		logger.Error("invalid snapshot schedule", "schedule", cfg.SnapshotSchedule, "error", err)
		os.Exit(1)
	}
	scheduler.Start()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	<-scheduler.Stop().Done()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPub != nil {
		if err := kafkaPub.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
