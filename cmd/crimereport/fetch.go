package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/duskwatch/crime-report-gen/internal/adapter/fetch"
)

var flagForce bool

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the incident datasets into the data directory",
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&flagForce, "force", false, "re-download even when files already exist")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	downloader := fetch.New(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for _, region := range cfg.EnabledRegions() {
		rc := cfg.Region(region)
		if rc.DatasetURL == "" {
			logger.Warn("no dataset url configured", "region", region)
		} else if err := downloader.Fetch(ctx, rc.DatasetURL, cfg.CSVFile(region), flagForce); err != nil {
			return err
		}

		// Boundary files have no public mirror by default; fetch only
		// when a URL is configured.
		if rc.BoundaryURL == "" {
			logger.Info("no boundary url configured, skipping", "region", region)
			continue
		}
		if err := downloader.Fetch(ctx, rc.BoundaryURL, cfg.BoundaryFile(region), flagForce); err != nil {
			return err
		}
	}
	return nil
}
