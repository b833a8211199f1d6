// Command crimereport builds the summer 2014 crime activity report for
// Seattle and San Francisco: it loads the city incident CSVs, assigns each
// incident to a neighborhood, splits activity by daylight, and renders the
// report figures plus a JSON manifest into the output directory.
//
// Usage:
//
//	crimereport fetch              # download the public datasets
//	crimereport render             # build the report from local data
//	crimereport validate           # sanity-check datasets without rendering
//	crimereport sample --rows 500  # generate synthetic fixtures instead
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/duskwatch/crime-report-gen/internal/config"
	"github.com/duskwatch/crime-report-gen/internal/observability"
)

var (
	flagConfig    string
	flagOut       string
	flagDataDir   string
	flagLogLevel  string
	flagLogFormat string
	flagRegions   []string
)

var rootCmd = &cobra.Command{
	Use:   "crimereport",
	Short: "Generate the Seattle / San Francisco summer 2014 crime report",
	Long: `crimereport is a one-shot report generator. It reads city incident CSVs
and neighborhood boundary files, bins incidents by category, hour, weekday and
neighborhood, splits them into day and night using sunrise and sunset at the
city center, and writes PNG figures plus a JSON manifest.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVarP(&flagOut, "out", "o", "", "output directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "dataset directory (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format: json, text")
	rootCmd.PersistentFlags().StringSliceVarP(&flagRegions, "region", "r", nil, "regions to process (seattle, sanfrancisco); default is all enabled")

	rootCmd.AddCommand(renderCmd, fetchCmd, validateCmd, sampleCmd)
}

// loadConfig resolves the effective configuration: defaults, then the YAML
// file, then environment, then command line flags.
func loadConfig() (*config.Config, error) {
	path := flagConfig
	if path == "" {
		path = os.Getenv("CRIMEREPORT_CONFIG")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if flagOut != "" {
		cfg.OutputDir = flagOut
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.LogFormat = flagLogFormat
	}
	if err := cfg.SelectRegions(flagRegions); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
}

func main() {
	// A local .env is a convenience for development; absence is fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "crimereport:", err)
		os.Exit(1)
	}
}
