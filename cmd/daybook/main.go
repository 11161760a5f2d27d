package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/daybook/adapter/cli"
	"github.com/felixgeelhaar/daybook/internal/app"
	"github.com/felixgeelhaar/daybook/pkg/config"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("failed to load config, using defaults", "error", err)
		cfg = &config.Config{AppEnv: "development"}
	}

	if cfg.IsDevelopment() {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	cli.SetLogger(logger)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	cli.SetApp(&cli.App{
		AddTaskHandler:        container.AddTaskHandler,
		StartTaskHandler:      container.StartTaskHandler,
		CompleteTaskHandler:   container.CompleteTaskHandler,
		PromoteBacklogHandler: container.PromoteBacklogHandler,
		DemoteTaskHandler:     container.DemoteTaskHandler,
		UpdateRankHandler:     container.UpdateRankHandler,
		AddBacklogItemHandler: container.AddBacklogItemHandler,
		ReviewBacklogHandler:  container.ReviewBacklogHandler,
		RolloverDayHandler:    container.RolloverDayHandler,

		GetDayHandler:      container.GetDayHandler,
		ListBacklogHandler: container.ListBacklogHandler,

		GenerateInsightsHandler:   container.GenerateInsightsHandler,
		AcknowledgeInsightHandler: container.AcknowledgeInsightHandler,
		RecordEnergyHandler:       container.RecordEnergyHandler,
		UpdateStreaksHandler:      container.UpdateStreaksHandler,

		GetRecentInsightsHandler: container.GetRecentInsightsHandler,
		GetReportHandler:         container.GetReportHandler,
		SuggestEnergyHandler:     container.SuggestEnergyHandler,

		InsightLimit: cfg.InsightLimit,
	})

	cli.Execute(ctx)
}
