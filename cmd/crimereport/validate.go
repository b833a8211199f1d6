package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/duskwatch/crime-report-gen/internal/adapter/boundary"
	"github.com/duskwatch/crime-report-gen/internal/adapter/csvsource"
	"github.com/duskwatch/crime-report-gen/internal/domain"
	"github.com/duskwatch/crime-report-gen/internal/geo"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check local datasets for layout, parse and coordinate problems",
	Long: `validate runs the report's ingest path against the local datasets
without rendering anything. It checks that the CSV layouts match the city
portals, that rows parse at an acceptable rate, that coordinates fall inside
the city, that timestamps fall in summer 2014, and that the boundary files
load when present.`,
	RunE: runValidate,
}

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// coordBox is the plausible coordinate envelope for a city. Points outside
// it are portal placeholders or entry errors.
type coordBox struct {
	minLon, maxLon float64
	minLat, maxLat float64
}

var coordBoxes = map[domain.Region]coordBox{
	domain.RegionSeattle:      {minLon: -123.2, maxLon: -121.5, minLat: 47.2, maxLat: 48.0},
	domain.RegionSanFrancisco: {minLon: -123.2, maxLon: -122.0, minLat: 37.2, maxLat: 38.2},
}

// Rows may legitimately slip outside the expected envelopes; fail only past
// these rates.
const (
	maxDropRate    = 0.20
	maxOutsideRate = 0.01
	maxOffSeason   = 0.01
)

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	source := csvsource.New(logger)
	bounds := boundary.New(logger)

	fmt.Println("=== Crime Dataset Validation ===")
	fmt.Println()

	var phases []*phase
	var totalRows, totalIncidents int

	for _, region := range cfg.EnabledRegions() {
		path := cfg.CSVFile(region)

		layout := checkLayout(region, path)
		phases = append(phases, layout)
		if !layout.passed() {
			// Without the expected columns the remaining phases would
			// only repeat the same failure.
			continue
		}

		incidents, stats, err := source.Load(region, path)
		if err != nil {
			layout.errorf("load: %v", err)
			continue
		}
		totalRows += stats.Rows
		totalIncidents += stats.Parsed

		phases = append(phases,
			checkParseRate(region, stats),
			checkCoordinates(region, incidents),
			checkSeason(region, incidents),
		)

		boundaryPath := cfg.BoundaryFile(region)
		if _, err := os.Stat(boundaryPath); err != nil {
			fmt.Printf("  Note: %s has no boundary file at %s, skipping neighborhood phase\n", region, boundaryPath)
			continue
		}
		phases = append(phases, checkBoundaries(region, boundaryPath, bounds, incidents))
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-46s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Datasets: %d rows read, %d incidents parsed\n", totalRows, totalIncidents)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if !allPassed {
		fmt.Println("\nValidation FAILED.")
		return errors.New("dataset validation failed")
	}
	fmt.Println("\nAll validations passed.")
	return nil
}

// checkLayout verifies the CSV header carries every column the parser needs.
func checkLayout(region domain.Region, path string) *phase {
	p := &phase{name: fmt.Sprintf("%s: layout (required columns)", region)}

	f, err := os.Open(path)
	if err != nil {
		p.errorf("open: %v", err)
		return p
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		p.errorf("read header: %v", err)
		return p
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[strings.TrimSpace(col)] = true
	}
	for _, col := range csvsource.RequiredColumns(region) {
		if !present[col] {
			p.errorf("missing column %q", col)
		}
	}
	return p
}

// checkParseRate fails when too many rows were rejected during parsing.
func checkParseRate(region domain.Region, stats domain.SourceStats) *phase {
	p := &phase{name: fmt.Sprintf("%s: parse (drop rate)", region)}

	if stats.Parsed == 0 {
		p.errorf("no rows parsed out of %d", stats.Rows)
		return p
	}
	dropped := stats.Rows - stats.Parsed
	rate := float64(dropped) / float64(stats.Rows)
	if rate > maxDropRate {
		p.errorf("dropped %d of %d rows (%.1f%%, limit %.0f%%)", dropped, stats.Rows, rate*100, maxDropRate*100)
		for reason, n := range stats.Dropped {
			p.errorf("  %s: %d", reason, n)
		}
	}
	return p
}

// checkCoordinates verifies incident points fall inside the city envelope.
func checkCoordinates(region domain.Region, incidents []domain.Incident) *phase {
	p := &phase{name: fmt.Sprintf("%s: coordinates (city envelope)", region)}
	if len(incidents) == 0 {
		return p
	}

	box, ok := coordBoxes[region]
	if !ok {
		p.errorf("no coordinate envelope defined for %s", region)
		return p
	}

	outside := 0
	for i := range incidents {
		inc := &incidents[i]
		if inc.Lon < box.minLon || inc.Lon > box.maxLon || inc.Lat < box.minLat || inc.Lat > box.maxLat {
			outside++
			if outside <= 5 {
				p.errorf("incident %s at (%.5f, %.5f) outside envelope", inc.ID, inc.Lon, inc.Lat)
			}
		}
	}
	rate := float64(outside) / float64(len(incidents))
	if rate <= maxOutsideRate {
		// A handful of strays is expected portal noise.
		p.errors = nil
	} else {
		p.errorf("%d of %d incidents outside envelope (%.2f%%, limit %.0f%%)", outside, len(incidents), rate*100, maxOutsideRate*100)
	}
	return p
}

// checkSeason verifies timestamps land in the summer 2014 window.
func checkSeason(region domain.Region, incidents []domain.Incident) *phase {
	p := &phase{name: fmt.Sprintf("%s: timestamps (summer 2014)", region)}
	if len(incidents) == 0 {
		return p
	}

	loc := region.TimeZone()
	seasonStart := time.Date(2014, time.June, 1, 0, 0, 0, 0, loc)
	seasonEnd := time.Date(2014, time.September, 1, 0, 0, 0, 0, loc)

	offSeason := 0
	for i := range incidents {
		ts := incidents[i].Time
		if ts.Before(seasonStart) || !ts.Before(seasonEnd) {
			offSeason++
			if offSeason <= 5 {
				p.errorf("incident %s at %s outside summer 2014", incidents[i].ID, ts.Format(time.RFC3339))
			}
		}
	}
	rate := float64(offSeason) / float64(len(incidents))
	if rate <= maxOffSeason {
		p.errors = nil
	} else {
		p.errorf("%d of %d incidents outside summer 2014 (%.2f%%)", offSeason, len(incidents), rate*100)
	}
	return p
}

// checkBoundaries loads the boundary file and spot-checks that the
// neighborhoods actually cover the incidents.
func checkBoundaries(region domain.Region, path string, bounds *boundary.Loader, incidents []domain.Incident) *phase {
	p := &phase{name: fmt.Sprintf("%s: boundaries (neighborhood cover)", region)}

	hoods, err := bounds.Load(region, path)
	if err != nil {
		p.errorf("load: %v", err)
		return p
	}
	if len(hoods) == 0 {
		p.errorf("no neighborhoods in %s", path)
		return p
	}

	index, err := geo.NewIndex(hoods)
	if err != nil {
		p.errorf("index: %v", err)
		return p
	}
	if len(incidents) == 0 {
		return p
	}

	probe := make([]domain.Incident, len(incidents))
	copy(probe, incidents)
	stats := index.Assign(probe)
	if stats.Assigned == 0 {
		p.errorf("none of %d incidents fall inside any of the %d neighborhoods", len(incidents), len(hoods))
	} else if stats.Unassigned > stats.Assigned {
		p.errorf("%d of %d incidents unassigned; boundary file may not match the city", stats.Unassigned, len(probe))
	}
	return p
}
