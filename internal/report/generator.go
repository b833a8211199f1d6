// Package report orchestrates a full report run: load incidents, assign
// neighborhoods, split day and night, aggregate, and render figures.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/duskwatch/crime-report-gen/internal/aggregate"
	"github.com/duskwatch/crime-report-gen/internal/config"
	"github.com/duskwatch/crime-report-gen/internal/domain"
	"github.com/duskwatch/crime-report-gen/internal/geo"
	"github.com/duskwatch/crime-report-gen/internal/observability"
)

// Source loads one region's incident dataset.
type Source interface {
	Load(region domain.Region, path string) ([]domain.Incident, domain.SourceStats, error)
}

// BoundaryLoader reads a region's neighborhood polygons.
type BoundaryLoader interface {
	Load(region domain.Region, path string) ([]domain.Neighborhood, error)
}

// Renderer draws the report figures.
type Renderer interface {
	CategoryPie(counts []aggregate.CategoryCount, title, path string) error
	HourLines(day, night [24]int, title, path string) error
	WeekdayLines(day, night [7]int, title, path string) error
	NeighborhoodMap(hoods []domain.Neighborhood, counts map[string]int, title, path string) error
}

// Generator runs the whole report: every enabled region, end to end.
type Generator struct {
	cfg      *config.Config
	source   Source
	bounds   BoundaryLoader
	renderer Renderer
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates a Generator with the given stages and observability.
func New(cfg *config.Config, source Source, bounds BoundaryLoader, renderer Renderer, logger *slog.Logger, metrics *observability.Metrics) *Generator {
	return &Generator{
		cfg:      cfg,
		source:   source,
		bounds:   bounds,
		renderer: renderer,
		logger:   logger,
		metrics:  metrics,
	}
}

// RegionReport is the manifest entry for one processed region.
type RegionReport struct {
	Region        domain.Region   `json:"region"`
	RowsRead      int             `json:"rows_read"`
	Parsed        int             `json:"parsed"`
	Dropped       map[string]int  `json:"dropped,omitempty"`
	Neighborhoods int             `json:"neighborhoods"`
	Unassigned    int             `json:"unassigned"`
	Day           aggregate.Slice `json:"day"`
	Night         aggregate.Slice `json:"night"`
	Figures       []string        `json:"figures"`
}

// Manifest summarizes a completed run, written alongside the figures.
type Manifest struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Regions     []RegionReport `json:"regions"`
}

// Run generates the full report into the configured output directory.
func (g *Generator) Run(ctx context.Context) error {
	start := time.Now()
	regions := g.cfg.EnabledRegions()
	g.logger.Info("report run started", "regions", len(regions), "output", g.cfg.OutputDir)

	if err := os.MkdirAll(g.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	manifest := Manifest{
		RunID:       uuid.NewString(),
		GeneratedAt: domain.Now().UTC(),
	}

	for _, region := range regions {
		if err := ctx.Err(); err != nil {
			return err
		}
		regionReport, err := g.runRegion(ctx, region)
		if err != nil {
			return fmt.Errorf("region %s: %w", region, err)
		}
		manifest.Regions = append(manifest.Regions, regionReport)
	}

	if err := g.writeManifest(manifest); err != nil {
		return err
	}

	if g.cfg.MetricsFile {
		g.metrics.RunTimestamp.Set(float64(domain.Now().Unix()))
		path := filepath.Join(g.cfg.OutputDir, "crime_report.prom")
		if err := g.metrics.WriteFile(path); err != nil {
			return fmt.Errorf("write metrics file: %w", err)
		}
	}

	g.logger.Info("report run finished",
		"run_id", manifest.RunID,
		"duration", time.Since(start).Round(time.Millisecond).String(),
	)
	return nil
}

func (g *Generator) runRegion(ctx context.Context, region domain.Region) (RegionReport, error) {
	logger := g.logger.With("region", string(region))
	regionReport := RegionReport{Region: region}

	var incidents []domain.Incident
	var stats domain.SourceStats
	err := g.timeStage("load", func() error {
		var err error
		incidents, stats, err = g.source.Load(region, g.cfg.CSVFile(region))
		return err
	})
	if err != nil {
		return regionReport, err
	}
	regionReport.RowsRead = stats.Rows
	regionReport.Parsed = stats.Parsed
	regionReport.Dropped = stats.Dropped

	g.metrics.RowsRead.WithLabelValues(string(region)).Add(float64(stats.Rows))
	g.metrics.IncidentsParsed.WithLabelValues(string(region)).Add(float64(stats.Parsed))
	for reason, n := range stats.Dropped {
		g.metrics.RowsDropped.WithLabelValues(string(region), reason).Add(float64(n))
	}
	logger.Info("dataset loaded",
		"rows", stats.Rows, "parsed", stats.Parsed, "dropped", stats.Rows-stats.Parsed)

	if err := ctx.Err(); err != nil {
		return regionReport, err
	}

	// Neighborhood assignment must happen before the day/night split so the
	// assignments survive into both halves.
	var hoods []domain.Neighborhood
	boundaryPath := g.cfg.BoundaryFile(region)
	if _, statErr := os.Stat(boundaryPath); statErr == nil {
		err = g.timeStage("boundaries", func() error {
			var err error
			hoods, err = g.bounds.Load(region, boundaryPath)
			if err != nil {
				return err
			}
			index, err := geo.NewIndex(hoods)
			if err != nil {
				return err
			}
			assigned := index.Assign(incidents)
			regionReport.Unassigned = assigned.Unassigned
			g.metrics.PointsUnassigned.WithLabelValues(string(region)).Add(float64(assigned.Unassigned))
			logger.Info("neighborhoods assigned",
				"neighborhoods", index.Size(),
				"assigned", assigned.Assigned,
				"unassigned", assigned.Unassigned,
			)
			return nil
		})
		if err != nil {
			return regionReport, err
		}
		regionReport.Neighborhoods = len(hoods)
	} else {
		logger.Warn("boundary file not found, skipping neighborhood maps", "path", boundaryPath)
	}

	if err := ctx.Err(); err != nil {
		return regionReport, err
	}

	lat, lon := region.Center()
	domain.ClassifyDaylight(incidents, lat, lon)
	day, night := domain.SplitDayNight(incidents)
	g.metrics.DaylightSplit.WithLabelValues(string(region), "day").Add(float64(len(day)))
	g.metrics.DaylightSplit.WithLabelValues(string(region), "night").Add(float64(len(night)))
	logger.Info("daylight split", "day", len(day), "night", len(night))

	regionReport.Day = aggregate.Summarize(day)
	regionReport.Night = aggregate.Summarize(night)

	err = g.timeStage("render", func() error {
		figures, err := g.renderFigures(ctx, region, hoods, regionReport.Day, regionReport.Night)
		regionReport.Figures = figures
		return err
	})
	if err != nil {
		return regionReport, err
	}

	return regionReport, nil
}

func (g *Generator) renderFigures(ctx context.Context, region domain.Region, hoods []domain.Neighborhood, day, night aggregate.Slice) ([]string, error) {
	display := region.DisplayName()

	type job struct {
		file   string
		kind   string
		render func(path string) error
	}

	jobs := []job{
		{
			file: fmt.Sprintf("%s_categories_day.png", region),
			kind: "pie",
			render: func(path string) error {
				return g.renderer.CategoryPie(day.Categories, display+" incidents by category (day)", path)
			},
		},
		{
			file: fmt.Sprintf("%s_categories_night.png", region),
			kind: "pie",
			render: func(path string) error {
				return g.renderer.CategoryPie(night.Categories, display+" incidents by category (night)", path)
			},
		},
		{
			file: fmt.Sprintf("%s_by_hour.png", region),
			kind: "lines",
			render: func(path string) error {
				return g.renderer.HourLines(day.ByHour, night.ByHour, display+" incidents by hour", path)
			},
		},
		{
			file: fmt.Sprintf("%s_by_weekday.png", region),
			kind: "lines",
			render: func(path string) error {
				return g.renderer.WeekdayLines(day.ByWeekday, night.ByWeekday, display+" incidents by weekday", path)
			},
		},
	}

	if len(hoods) > 0 {
		jobs = append(jobs,
			job{
				file: fmt.Sprintf("%s_neighborhood_map_day.png", region),
				kind: "map",
				render: func(path string) error {
					return g.renderer.NeighborhoodMap(hoods, day.ByNeighborhood, display+" incidents by neighborhood (day)", path)
				},
			},
			job{
				file: fmt.Sprintf("%s_neighborhood_map_night.png", region),
				kind: "map",
				render: func(path string) error {
					return g.renderer.NeighborhoodMap(hoods, night.ByNeighborhood, display+" incidents by neighborhood (night)", path)
				},
			},
		)
	}

	figures := make([]string, 0, len(jobs))
	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			return figures, err
		}
		path := filepath.Join(g.cfg.OutputDir, j.file)
		if err := j.render(path); err != nil {
			return figures, err
		}
		g.metrics.ChartsRendered.WithLabelValues(string(region), j.kind).Inc()
		figures = append(figures, j.file)
	}
	return figures, nil
}

func (g *Generator) writeManifest(m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(g.cfg.OutputDir, "report_manifest.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	g.logger.Info("manifest written", "path", path, "regions", len(m.Regions))
	return nil
}

// timeStage runs fn and records its wall time under the stage label.
func (g *Generator) timeStage(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	g.metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	return err
}
