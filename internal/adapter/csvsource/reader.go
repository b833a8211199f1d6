// Package csvsource reads the regional incident CSV exports and normalizes
// them into domain incidents.
package csvsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/duskwatch/crime-report-gen/internal/domain"
)

// Source loads incident CSV files from disk.
// It implements report.Source.
type Source struct {
	logger *slog.Logger
}

// New creates a CSV source.
func New(logger *slog.Logger) *Source {
	return &Source{logger: logger}
}

var seattleColumns = []string{
	"Summarized Offense Description",
	"Occurred Date or Date Range Start",
	"Longitude",
	"Latitude",
}

var sfColumns = []string{"Category", "Date", "Time", "X", "Y"}

// RequiredColumns returns the header names a region's CSV must carry.
func RequiredColumns(region domain.Region) []string {
	if region == domain.RegionSanFrancisco {
		return append([]string(nil), sfColumns...)
	}
	return append([]string(nil), seattleColumns...)
}

// Load reads one region's CSV export and returns the incidents that parsed,
// along with per-reason drop counts for the rows that did not.
func (s *Source) Load(region domain.Region, path string) ([]domain.Incident, domain.SourceStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.SourceStats{}, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	if region == domain.RegionSanFrancisco {
		return s.read(f, path, sfColumns, parseSFRow)
	}
	return s.read(f, path, seattleColumns, parseSeattleRow)
}

type rowParser func(get func(col string) string) (domain.Incident, error)

func (s *Source) read(f io.Reader, path string, required []string, parse rowParser) ([]domain.Incident, domain.SourceStats, error) {
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, domain.SourceStats{}, fmt.Errorf("read header of %s: %w", path, err)
	}
	// Exports from the city portals sometimes open with a UTF-8 BOM.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		colIdx[strings.TrimSpace(col)] = i
	}
	for _, col := range required {
		if _, ok := colIdx[col]; !ok {
			return nil, domain.SourceStats{}, fmt.Errorf("%s: missing required column %q", path, col)
		}
	}

	stats := domain.SourceStats{Dropped: make(map[string]int)}
	var incidents []domain.Incident
	lineNum := 1

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		lineNum++
		if err != nil {
			stats.Rows++
			stats.Dropped["malformed"]++
			s.logger.Debug("skipping malformed row", "path", path, "line", lineNum, "error", err)
			continue
		}
		if emptyRow(row) {
			continue
		}
		stats.Rows++

		get := func(col string) string {
			idx, ok := colIdx[col]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		inc, err := parse(get)
		if err != nil {
			reason := dropReason(err)
			stats.Dropped[reason]++
			s.logger.Debug("dropping row", "path", path, "line", lineNum, "reason", reason, "error", err)
			continue
		}
		incidents = append(incidents, inc)
		stats.Parsed++
	}

	return incidents, stats, nil
}

func parseSeattleRow(get func(col string) string) (domain.Incident, error) {
	return domain.ParseSeattleRecord(domain.RawSeattleRecord{
		CDWID:          get("RMS CDW ID"),
		GeneralOffense: get("General Offense Number"),
		OffenseType:    get("Offense Type"),
		OffenseSummary: get("Summarized Offense Description"),
		DateReported:   get("Date Reported"),
		OccurredStart:  get("Occurred Date or Date Range Start"),
		OccurredEnd:    get("Occurred Date Range End"),
		HundredBlock:   get("Hundred Block Location"),
		DistrictSector: get("District/Sector"),
		ZoneBeat:       get("Zone/Beat"),
		Longitude:      get("Longitude"),
		Latitude:       get("Latitude"),
	})
}

func parseSFRow(get func(col string) string) (domain.Incident, error) {
	return domain.ParseSFRecord(domain.RawSFRecord{
		IncidentNum: get("IncidntNum"),
		Category:    get("Category"),
		Description: get("Descript"),
		DayOfWeek:   get("DayOfWeek"),
		Date:        get("Date"),
		Time:        get("Time"),
		District:    get("PdDistrict"),
		Resolution:  get("Resolution"),
		Address:     get("Address"),
		X:           get("X"),
		Y:           get("Y"),
		PdID:        get("PdId"),
	})
}

func dropReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoTimestamp):
		return "timestamp"
	case errors.Is(err, domain.ErrBadCoordinates):
		return "coordinates"
	default:
		return "other"
	}
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
