package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/duskwatch/crime-report-gen/internal/adapter/boundary"
	"github.com/duskwatch/crime-report-gen/internal/adapter/csvsource"
	"github.com/duskwatch/crime-report-gen/internal/adapter/figure"
	"github.com/duskwatch/crime-report-gen/internal/observability"
	"github.com/duskwatch/crime-report-gen/internal/report"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Build the report figures and manifest from local datasets",
	RunE:  runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gen := report.New(cfg,
		csvsource.New(logger),
		boundary.New(logger),
		figure.New(logger, cfg.PieTopN, cfg.MapWidth, cfg.MapHeight),
		logger, metrics)

	if err := gen.Run(ctx); err != nil {
		logger.Error("report generation failed", "error", err)
		return err
	}
	return nil
}
