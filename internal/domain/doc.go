// Package domain models police incident reports from the Seattle and
// San Francisco summer 2014 open-data extracts.
//
// # Data Sources
//
// Seattle rows come from the Seattle Police Department offense report
// extract. The columns that matter here are "Summarized Offense Description"
// (the offense label), "Occurred Date or Date Range Start" with "Date
// Reported" as the fallback, and "Longitude"/"Latitude". Timestamps use a
// 12-hour clock in Pacific civil time:
//
//	"06/28/2014 08:55:00 AM"
//
// San Francisco rows come from the SFPD reported-incident extract:
// "Category" (the offense label), a "Date" column ("06/08/2014") paired
// with a 24-hour "Time" column ("23:50"), and WGS-84 coordinates in "X"
// (longitude) and "Y" (latitude).
//
// # Normalization
//
// Both layouts collapse into [Incident]: a canonical category, one zoned
// timestamp, and a lon/lat pair. Offense labels map onto a shared category
// set by case-insensitive fragment matching (see [NormalizeCategory]), so
// "LARCENY/THEFT" and "BIKE THEFT" both count as "theft" and the two cities
// chart against the same legend. Labels matching no rule become "other".
//
// Rows are dropped, never guessed: a row with no parseable timestamp in any
// date column, a zero coordinate (the ungeocoded sentinel in both extracts),
// or the SFPD latitude-90 placeholder fails parsing with [ErrNoTimestamp] or
// [ErrBadCoordinates], and readers count the drop by reason.
//
// # Day and Night
//
// Every figure is rendered twice, split by daylight. An incident is "day"
// when its timestamp falls inside [sunrise, sunset) computed for that civil
// date at the region's center coordinate; everything else, including rows on
// dates where no sun times resolve, is "night". See [DaylightAt].
//
// # ID Generation
//
// Incident IDs are deterministic SHA-256 hashes of
// region|time|lon|lat|label, shortened to 8 bytes and prefixed with the
// region ("seattle-1a2b..."). Re-parsing a row always yields the same ID, so
// merged or re-rendered datasets never double-count.
package domain
