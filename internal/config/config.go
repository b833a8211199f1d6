// Package config loads generator settings from defaults, an optional YAML
// file, and CRIMEREPORT_* environment variables, in that order. Later layers
// override earlier ones, so an environment variable always beats the file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/duskwatch/crime-report-gen/internal/domain"
)

const datasetBaseURL = "https://s3.amazonaws.com/content.udacity-data.com/courses/ud359/"

// RegionConfig holds per-region input settings. Empty paths fall back to
// conventional filenames under Config.DataDir.
type RegionConfig struct {
	Enabled      bool   `yaml:"enabled"`
	CSVPath      string `yaml:"csv_path"`
	BoundaryPath string `yaml:"boundary_path"`
	DatasetURL   string `yaml:"dataset_url"`
	BoundaryURL  string `yaml:"boundary_url"`
}

// Config holds the full runtime configuration for a report run.
type Config struct {
	OutputDir   string `yaml:"output_dir"`
	DataDir     string `yaml:"data_dir"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	MetricsFile bool   `yaml:"metrics_file"`
	PieTopN     int    `yaml:"pie_top_n"`
	MapWidth    int    `yaml:"map_width"`
	MapHeight   int    `yaml:"map_height"`

	Seattle      RegionConfig `yaml:"seattle"`
	SanFrancisco RegionConfig `yaml:"sanfrancisco"`
}

func defaults() *Config {
	return &Config{
		OutputDir:   "out",
		DataDir:     "data",
		LogLevel:    "info",
		LogFormat:   "json",
		MetricsFile: true,
		PieTopN:     8,
		MapWidth:    1400,
		MapHeight:   1400,
		Seattle: RegionConfig{
			Enabled:    true,
			DatasetURL: datasetBaseURL + "seattle_incidents_summer_2014.csv",
		},
		SanFrancisco: RegionConfig{
			Enabled:    true,
			DatasetURL: datasetBaseURL + "sanfrancisco_incidents_summer_2014.csv",
		},
	}
}

// Load builds the configuration for a run. path names an optional YAML file;
// an empty path skips the file layer.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.OutputDir = getEnv("CRIMEREPORT_OUTPUT_DIR", cfg.OutputDir)
	cfg.DataDir = getEnv("CRIMEREPORT_DATA_DIR", cfg.DataDir)
	cfg.LogLevel = getEnv("CRIMEREPORT_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("CRIMEREPORT_LOG_FORMAT", cfg.LogFormat)
	cfg.MetricsFile = getEnvBool("CRIMEREPORT_METRICS_FILE", cfg.MetricsFile)
	cfg.PieTopN = getEnvInt("CRIMEREPORT_PIE_TOP_N", cfg.PieTopN)
	cfg.MapWidth = getEnvInt("CRIMEREPORT_MAP_WIDTH", cfg.MapWidth)
	cfg.MapHeight = getEnvInt("CRIMEREPORT_MAP_HEIGHT", cfg.MapHeight)

	applyRegionEnv("CRIMEREPORT_SEATTLE", &cfg.Seattle)
	applyRegionEnv("CRIMEREPORT_SANFRANCISCO", &cfg.SanFrancisco)
}

func applyRegionEnv(prefix string, rc *RegionConfig) {
	rc.Enabled = getEnvBool(prefix+"_ENABLED", rc.Enabled)
	rc.CSVPath = getEnv(prefix+"_CSV_PATH", rc.CSVPath)
	rc.BoundaryPath = getEnv(prefix+"_BOUNDARY_PATH", rc.BoundaryPath)
	rc.DatasetURL = getEnv(prefix+"_DATASET_URL", rc.DatasetURL)
	rc.BoundaryURL = getEnv(prefix+"_BOUNDARY_URL", rc.BoundaryURL)
}

// Region returns the settings block for the given region.
func (c *Config) Region(r domain.Region) *RegionConfig {
	if r == domain.RegionSanFrancisco {
		return &c.SanFrancisco
	}
	return &c.Seattle
}

// EnabledRegions lists the regions a run should process, in render order.
func (c *Config) EnabledRegions() []domain.Region {
	var out []domain.Region
	for _, region := range domain.Regions() {
		if c.Region(region).Enabled {
			out = append(out, region)
		}
	}
	return out
}

// SelectRegions replaces the enabled set with exactly the named regions. An
// empty list leaves the configured set untouched.
func (c *Config) SelectRegions(names []string) error {
	if len(names) == 0 {
		return nil
	}
	want := make(map[domain.Region]bool, len(names))
	for _, name := range names {
		region, err := domain.ParseRegion(name)
		if err != nil {
			return err
		}
		want[region] = true
	}
	for _, region := range domain.Regions() {
		c.Region(region).Enabled = want[region]
	}
	return nil
}

// CSVFile resolves the incident dataset path for a region.
func (c *Config) CSVFile(r domain.Region) string {
	if p := c.Region(r).CSVPath; p != "" {
		return p
	}
	return filepath.Join(c.DataDir, string(r)+"_incidents_summer_2014.csv")
}

// BoundaryFile resolves the neighborhood boundary path for a region.
func (c *Config) BoundaryFile(r domain.Region) string {
	if p := c.Region(r).BoundaryPath; p != "" {
		return p
	}
	return filepath.Join(c.DataDir, string(r)+"_neighborhoods.geojson")
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output_dir is required")
	}
	if c.DataDir == "" {
		return errors.New("data_dir is required")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("log_format %q is not one of json, text", c.LogFormat)
	}
	if c.PieTopN < 1 {
		return errors.New("pie_top_n must be at least 1")
	}
	if c.MapWidth < 200 || c.MapHeight < 200 {
		return errors.New("map_width and map_height must be at least 200")
	}
	if len(c.EnabledRegions()) == 0 {
		return errors.New("at least one region must be enabled")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
