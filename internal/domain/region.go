package domain

import (
	"fmt"
	"strings"
	"time"
)

// Region identifies one of the two fixed report datasets.
type Region string

const (
	RegionSeattle      Region = "seattle"
	RegionSanFrancisco Region = "sanfrancisco"
)

// Both cities record civil time in the Pacific zone.
var pacific = mustLoadLocation("America/Los_Angeles")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// Regions lists the supported regions in render order.
func Regions() []Region {
	return []Region{RegionSeattle, RegionSanFrancisco}
}

// ParseRegion validates a region name from config or CLI input. Matching is
// case-insensitive and "sf" is accepted as shorthand for San Francisco.
func ParseRegion(s string) (Region, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(RegionSeattle):
		return RegionSeattle, nil
	case string(RegionSanFrancisco), "sf":
		return RegionSanFrancisco, nil
	default:
		return "", fmt.Errorf("unknown region %q", s)
	}
}

// Center returns the reference coordinate for sunrise and sunset
// computation. Sunrise shifts by under two minutes across either city, so a
// single center point classifies every incident.
func (r Region) Center() (lat, lon float64) {
	switch r {
	case RegionSanFrancisco:
		return 37.7749, -122.4194
	default:
		return 47.6062, -122.3321
	}
}

// TimeZone returns the IANA zone the region's timestamps are recorded in.
func (r Region) TimeZone() *time.Location {
	return pacific
}

// DisplayName returns the human-readable city name for figure titles.
func (r Region) DisplayName() string {
	switch r {
	case RegionSanFrancisco:
		return "San Francisco"
	default:
		return "Seattle"
	}
}
