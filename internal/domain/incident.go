package domain

import "time"

// RawSeattleRecord mirrors one row of the Seattle Police Department offense
// extract. Every field holds the CSV cell verbatim; parsing happens in
// ParseSeattleRecord.
type RawSeattleRecord struct {
	CDWID          string // "RMS CDW ID"
	GeneralOffense string // "General Offense Number"
	OffenseType    string // "Offense Type", e.g. "THEFT-CARPROWL"
	OffenseSummary string // "Summarized Offense Description", e.g. "CAR PROWL"
	DateReported   string // "Date Reported"
	OccurredStart  string // "Occurred Date or Date Range Start"
	OccurredEnd    string // "Occurred Date Range End"
	HundredBlock   string // "Hundred Block Location"
	DistrictSector string // "District/Sector"
	ZoneBeat       string // "Zone/Beat"
	Longitude      string
	Latitude       string
}

// RawSFRecord mirrors one row of the SFPD reported-incident extract.
// X is longitude and Y latitude, both WGS-84 decimal degrees.
type RawSFRecord struct {
	IncidentNum string // "IncidntNum"
	Category    string
	Description string // "Descript"
	DayOfWeek   string
	Date        string // "06/08/2014"
	Time        string // "23:50", 24-hour clock
	District    string // "PdDistrict"
	Resolution  string
	Address     string
	X           string
	Y           string
	PdID        string // "PdId"
}

// Incident is the normalized cross-city record every report figure is
// computed from. Time carries the region's civil zone; Lon/Lat are WGS-84.
// Daylight and Neighborhood are stamped after parsing, by the sun split and
// the polygon index.
type Incident struct {
	ID           string    `json:"id"`
	Region       Region    `json:"region"`
	Category     string    `json:"category"`
	RawCategory  string    `json:"raw_category,omitempty"`
	Description  string    `json:"description,omitempty"`
	Time         time.Time `json:"time"`
	Lon          float64   `json:"lon"`
	Lat          float64   `json:"lat"`
	District     string    `json:"district,omitempty"`
	Address      string    `json:"address,omitempty"`
	Daylight     bool      `json:"daylight"`
	Neighborhood string    `json:"neighborhood,omitempty"`
}

// SourceStats counts what happened to the rows of one dataset read.
type SourceStats struct {
	Rows    int
	Parsed  int
	Dropped map[string]int // reason label -> count
}
