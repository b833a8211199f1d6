package domain

import (
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// DaylightAt reports whether t falls inside [sunrise, sunset) at the given
// coordinates. The civil date is taken in t's own zone and the comparison
// happens in UTC. Inside polar day or night the library returns zero times;
// neither city sees those, but zero times classify as night.
func DaylightAt(t time.Time, lat, lon float64) bool {
	rise, set := sunrise.SunriseSunset(lat, lon, t.Year(), t.Month(), t.Day())
	if rise.IsZero() || set.IsZero() {
		return false
	}
	u := t.UTC()
	return !u.Before(rise) && u.Before(set)
}

// ClassifyDaylight stamps every incident's Daylight flag, using one
// reference coordinate for the whole set.
func ClassifyDaylight(incidents []Incident, lat, lon float64) {
	for i := range incidents {
		incidents[i].Daylight = DaylightAt(incidents[i].Time, lat, lon)
	}
}

// SplitDayNight partitions incidents on the Daylight flag.
func SplitDayNight(incidents []Incident) (day, night []Incident) {
	for _, inc := range incidents {
		if inc.Daylight {
			day = append(day, inc)
		} else {
			night = append(night, inc)
		}
	}
	return day, night
}
