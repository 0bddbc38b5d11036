package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"surveyanalytics/internal/analytics"
	"surveyanalytics/internal/config"
	"surveyanalytics/internal/logger"
	"surveyanalytics/internal/metrics"
	"surveyanalytics/internal/server"
	"surveyanalytics/internal/service"
	"surveyanalytics/internal/storage"
	"surveyanalytics/internal/storage/providers"
	httptransport "surveyanalytics/internal/transport/http"
)

func main() {
	cfg := config.MustLoad()
	slog.SetDefault(logger.New(cfg.Env, os.Stdout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.InitDB(ctx, cfg.DatabaseUrl, cfg.DB.MaxConns)
	if err != nil {
		slog.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	allProviders := providers.New(db)
	store := allProviders.Store()
	collector := metrics.New("survey_analytics")

	analyticsService := service.NewAnalyticsService(store, service.AnalyticsConfig{
		Workers:        cfg.Analytics.Workers,
		TextSampleSize: cfg.Analytics.TextSampleSize,
		DefaultRange:   analytics.Range(cfg.Analytics.DefaultRange),
		QueryTimeout:   cfg.Analytics.QueryTimeout,
	}, collector)
	exportService := service.NewExportService(store, collector)

	router := httptransport.Router(httptransport.RouterDeps{
		Analytics: analyticsService,
		Exports:   exportService,
		DB:        allProviders,
		Metrics:   collector.Handler(),
		Recorder:  collector,
		JWTSecret: cfg.JWT.Secret,
	})

	addr := ":" + cfg.Server.Port
	if err := server.Start(ctx, addr, cfg.Server.AllowedOrigins, router); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
