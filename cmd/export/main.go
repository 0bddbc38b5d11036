package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"surveyanalytics/internal/config"
	"surveyanalytics/internal/domains"
	"surveyanalytics/internal/logger"
	"surveyanalytics/internal/service"
	"surveyanalytics/internal/storage"
	"surveyanalytics/internal/storage/providers"
)

func main() {
	var (
		configPath string
		surveyID   int64
		ownerID    int64
		format     string
		out        string
	)
	flag.StringVar(&configPath, "config", "", "config path, CONFIG_PATH or ./config/local.yaml when empty")
	flag.Int64Var(&surveyID, "survey", 0, "survey id to export")
	flag.Int64Var(&ownerID, "owner", 0, "account id that owns the survey")
	flag.StringVar(&format, "format", "json", "csv or json")
	flag.StringVar(&out, "out", "", "output file, stdout when empty")
	flag.Parse()

	if err := run(configPath, surveyID, ownerID, format, out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, surveyID, ownerID int64, format, out string) error {
	if surveyID <= 0 || ownerID <= 0 {
		return errors.New("-survey and -owner are required")
	}
	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}
	if configPath == "" {
		configPath = "./config/local.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	slog.SetDefault(logger.New(cfg.Env, os.Stderr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.InitDB(ctx, cfg.DatabaseUrl, cfg.DB.MaxConns)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	exports := service.NewExportService(providers.New(db).Store(), nil)
	job, err := exports.Prepare(ctx, ownerID, surveyID, format)
	if err != nil {
		return fmt.Errorf("export survey %d: %w", surveyID, err)
	}

	w := os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := job.Render(w); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	slog.Info("export written", "survey_id", surveyID, "format", job.Format, "status", job.Status, "rows", job.Rows())
	if job.Status == domains.StatusDegraded {
		return fmt.Errorf("export of survey %d is degraded: store unavailable", surveyID)
	}
	return nil
}
