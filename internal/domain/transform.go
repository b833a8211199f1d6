package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Source CSV timestamp layouts.
const (
	seattleTimeLayout = "01/02/2006 03:04:05 PM"
	sfDateLayout      = "01/02/2006"
	sfClockLayout     = "15:04"
)

// Row-level rejection causes. Readers branch on these to label drop counts.
var (
	// ErrNoTimestamp marks rows whose date columns are all empty or unparseable.
	ErrNoTimestamp = errors.New("no usable timestamp")
	// ErrBadCoordinates marks rows without a usable WGS-84 position. Zero is
	// the ungeocoded sentinel in both extracts and is rejected here.
	ErrBadCoordinates = errors.New("no usable coordinates")
)

// Canonical cross-city crime categories. Each police department labels
// offenses in its own vocabulary; every figure is computed over this shared
// set so the two cities stay comparable.
const (
	CategoryTheft        = "theft"
	CategoryBurglary     = "burglary"
	CategoryVehicleTheft = "vehicle theft"
	CategoryAssault      = "assault"
	CategoryRobbery      = "robbery"
	CategoryNarcotics    = "narcotics"
	CategoryVandalism    = "vandalism"
	CategoryFraud        = "fraud"
	CategoryDUI          = "dui"
	CategoryProstitution = "prostitution"
	CategoryDisorderly   = "disorderly conduct"
	CategoryWeapons      = "weapons"
	CategoryOther        = "other"
)

// categoryRules maps fragments of the source labels onto the canonical set.
// Order matters: the first matching rule wins, so the more specific
// fragments come before the general ones ("vehicle theft" before "theft").
var categoryRules = []struct {
	fragment string
	category string
}{
	{"vehicle theft", CategoryVehicleTheft},
	{"auto theft", CategoryVehicleTheft},
	{"recovered vehicle", CategoryVehicleTheft},
	{"car prowl", CategoryTheft},
	{"larceny", CategoryTheft},
	{"theft", CategoryTheft},
	{"shoplift", CategoryTheft},
	{"pickpocket", CategoryTheft},
	{"purse snatch", CategoryTheft},
	{"stolen property", CategoryTheft},
	{"burglary", CategoryBurglary},
	{"robbery", CategoryRobbery},
	{"assault", CategoryAssault},
	{"narcotic", CategoryNarcotics},
	{"drug", CategoryNarcotics},
	{"vandal", CategoryVandalism},
	{"property damage", CategoryVandalism},
	{"graffiti", CategoryVandalism},
	{"fraud", CategoryFraud},
	{"forgery", CategoryFraud},
	{"counterfeit", CategoryFraud},
	{"bad checks", CategoryFraud},
	{"embezzle", CategoryFraud},
	{"driving under the influence", CategoryDUI},
	{"dui", CategoryDUI},
	{"prostitution", CategoryProstitution},
	{"disorderly", CategoryDisorderly},
	{"disturbance", CategoryDisorderly},
	{"drunkenness", CategoryDisorderly},
	{"public nuisance", CategoryDisorderly},
	{"loitering", CategoryDisorderly},
	{"weapon", CategoryWeapons},
}

// ParseSeattleRecord converts one Seattle CSV row into a normalized
// Incident. The occurred-start timestamp is preferred; rows carrying only a
// reported date fall back to it. Rows without a parseable timestamp or a
// real coordinate pair are errors the caller counts and drops.
func ParseSeattleRecord(rec RawSeattleRecord) (Incident, error) {
	ts, err := parseSeattleTime(rec.OccurredStart, rec.DateReported)
	if err != nil {
		return Incident{}, err
	}
	lon, lat, err := parseCoords(rec.Longitude, rec.Latitude)
	if err != nil {
		return Incident{}, err
	}

	return Incident{
		ID:          newIncidentID(RegionSeattle, ts, lon, lat, rec.OffenseSummary),
		Region:      RegionSeattle,
		Category:    NormalizeCategory(rec.OffenseSummary),
		RawCategory: strings.TrimSpace(rec.OffenseSummary),
		Description: strings.TrimSpace(rec.OffenseType),
		Time:        ts,
		Lon:         lon,
		Lat:         lat,
		District:    strings.TrimSpace(rec.DistrictSector),
		Address:     strings.TrimSpace(rec.HundredBlock),
	}, nil
}

// ParseSFRecord converts one San Francisco CSV row into a normalized
// Incident. Date and Time columns combine into one zoned timestamp; an
// empty Time means midnight.
func ParseSFRecord(rec RawSFRecord) (Incident, error) {
	ts, err := parseSFTime(rec.Date, rec.Time)
	if err != nil {
		return Incident{}, err
	}
	lon, lat, err := parseCoords(rec.X, rec.Y)
	if err != nil {
		return Incident{}, err
	}

	return Incident{
		ID:          newIncidentID(RegionSanFrancisco, ts, lon, lat, rec.Category),
		Region:      RegionSanFrancisco,
		Category:    NormalizeCategory(rec.Category),
		RawCategory: strings.TrimSpace(rec.Category),
		Description: strings.TrimSpace(rec.Description),
		Time:        ts,
		Lon:         lon,
		Lat:         lat,
		District:    strings.TrimSpace(rec.District),
		Address:     strings.TrimSpace(rec.Address),
	}, nil
}

// parseSeattleTime tries the occurred-start column, then the reported date.
// Both use the 12-hour Pacific layout "06/28/2014 08:55:00 AM".
func parseSeattleTime(occurred, reported string) (time.Time, error) {
	for _, v := range []string{occurred, reported} {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if t, err := time.ParseInLocation(seattleTimeLayout, v, RegionSeattle.TimeZone()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: occurred=%q reported=%q", ErrNoTimestamp, occurred, reported)
}

// parseSFTime combines the date column with the optional HH:MM clock column.
func parseSFTime(date, clock string) (time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", ErrNoTimestamp)
	}

	layout, value := sfDateLayout, date
	if clock = strings.TrimSpace(clock); clock != "" {
		layout = sfDateLayout + " " + sfClockLayout
		value = date + " " + clock
	}

	t, err := time.ParseInLocation(layout, value, RegionSanFrancisco.TimeZone())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrNoTimestamp, value)
	}
	return t, nil
}

// parseCoords validates a WGS-84 pair. Zero coordinates and the lat-90
// placeholder the SFPD extract uses for ungeocoded reports are rejected
// along with parse failures.
func parseCoords(lonStr, latStr string) (float64, float64, error) {
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: longitude %q", ErrBadCoordinates, lonStr)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: latitude %q", ErrBadCoordinates, latStr)
	}
	if lon == 0 || lat == 0 {
		return 0, 0, fmt.Errorf("%w: ungeocoded (%g, %g)", ErrBadCoordinates, lon, lat)
	}
	if lat >= 90 || lat <= -90 {
		return 0, 0, fmt.Errorf("%w: latitude %g out of range", ErrBadCoordinates, lat)
	}
	return lon, lat, nil
}

// NormalizeCategory maps a free-form source label onto the canonical
// category set by case-insensitive fragment match. Unknown and empty labels
// normalize to CategoryOther, so the result is never empty.
func NormalizeCategory(raw string) string {
	label := strings.ToLower(strings.TrimSpace(raw))
	if label == "" {
		return CategoryOther
	}
	for _, rule := range categoryRules {
		if strings.Contains(label, rule.fragment) {
			return rule.category
		}
	}
	return CategoryOther
}

// newIncidentID produces a deterministic ID from the report's key fields.
// Re-parsing the same CSV row always yields the same ID, so merged or
// re-rendered datasets never double-count.
func newIncidentID(region Region, ts time.Time, lon, lat float64, rawCategory string) string {
	input := fmt.Sprintf("%s|%s|%.6f|%.6f|%s", region, ts.UTC().Format(time.RFC3339), lon, lat, rawCategory)
	hash := sha256.Sum256([]byte(input))
	return string(region) + "-" + hex.EncodeToString(hash[:8])
}
