package csvsource

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duskwatch/crime-report-gen/internal/domain"
)

const seattleHeader = "RMS CDW ID,General Offense Number,Offense Type,Summarized Offense Description,Date Reported,Occurred Date or Date Range Start,Occurred Date Range End,Hundred Block Location,District/Sector,Zone/Beat,Longitude,Latitude"

const sfHeader = "IncidntNum,Category,Descript,DayOfWeek,Date,Time,PdDistrict,Resolution,Address,X,Y,Location,PdId"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeDataset(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "incidents.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadSeattle(t *testing.T) {
	body := seattleHeader + "\n" +
		"483839,2014213067,THEFT-CARPROWL,CAR PROWL,06/28/2014 11:02:00 AM,06/28/2014 08:55:00 AM,,4XX BLOCK OF BROADWAY E,C,C1,-122.320803,47.623322\n" +
		"483840,2014213068,BURGLARY-FORCE-RES,BURGLARY,07/01/2014 09:00:00 AM,07/01/2014 02:30:00 AM,,12XX BLOCK OF PINE ST,E,E2,-122.318342,47.615413\n" +
		"483841,2014213069,THEFT-OTH,THEFT,07/02/2014 10:00:00 AM,07/02/2014 08:00:00 AM,,8XX BLOCK OF 5TH AVE,K,K3,0,0\n" +
		"483842,2014213070,ASSLT-NONAGG,ASSAULT,,,,,K,K3,-122.33,47.60\n"

	src := New(discardLogger())
	incidents, stats, err := src.Load(domain.RegionSeattle, writeDataset(t, body))

	require.NoError(t, err)
	require.Len(t, incidents, 2)
	assert.Equal(t, 4, stats.Rows)
	assert.Equal(t, 2, stats.Parsed)
	assert.Equal(t, 1, stats.Dropped["coordinates"])
	assert.Equal(t, 1, stats.Dropped["timestamp"])

	assert.Equal(t, domain.CategoryTheft, incidents[0].Category)
	assert.Equal(t, domain.CategoryBurglary, incidents[1].Category)
	assert.Equal(t, 8, incidents[0].Time.Hour())
}

func TestLoadSanFrancisco(t *testing.T) {
	body := sfHeader + "\n" +
		`140734311,LARCENY/THEFT,GRAND THEFT FROM LOCKED AUTO,Sunday,06/08/2014,23:50,RICHMOND,NONE,800 Block of LA PLAYA ST,-122.509652,37.772313,"(37.772313, -122.509652)",14073431106244` + "\n" +
		`140736317,ASSAULT,BATTERY,Monday,06/09/2014,14:30,MISSION,NONE,1400 Block of VALENCIA ST,-122.420874,37.750372,"(37.750372, -122.420874)",14073631704134` + "\n"

	src := New(discardLogger())
	incidents, stats, err := src.Load(domain.RegionSanFrancisco, writeDataset(t, body))

	require.NoError(t, err)
	require.Len(t, incidents, 2)
	assert.Equal(t, 2, stats.Parsed)
	assert.Empty(t, stats.Dropped)
	assert.Equal(t, domain.CategoryTheft, incidents[0].Category)
	assert.Equal(t, 23, incidents[0].Time.Hour())
	assert.Equal(t, "RICHMOND", incidents[0].District)
}

func TestLoadStripsByteOrderMark(t *testing.T) {
	body := "\uFEFF" + sfHeader + "\n" +
		`1,VANDALISM,SMASHED WINDOW,Friday,07/11/2014,02:15,PARK,NONE,STANYAN ST,-122.453,37.766,"(37.766, -122.453)",1` + "\n"

	src := New(discardLogger())
	incidents, _, err := src.Load(domain.RegionSanFrancisco, writeDataset(t, body))

	require.NoError(t, err)
	require.Len(t, incidents, 1)
	assert.Equal(t, domain.CategoryVandalism, incidents[0].Category)
}

func TestLoadMissingColumn(t *testing.T) {
	body := "IncidntNum,Category,Descript,DayOfWeek,Date,Time,PdDistrict,Resolution,Address,X\n" +
		"1,ASSAULT,BATTERY,Monday,06/09/2014,14:30,MISSION,NONE,VALENCIA ST,-122.42\n"

	src := New(discardLogger())
	_, _, err := src.Load(domain.RegionSanFrancisco, writeDataset(t, body))

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Y"`)
}

func TestLoadSkipsBlankAndShortRows(t *testing.T) {
	body := seattleHeader + "\n" +
		"\n" +
		",,,,,,,,,,,\n" +
		"1,2,THEFT-OTH,THEFT,07/02/2014 10:00:00 AM,07/02/2014 08:00:00 AM,,5TH AVE,K,K3,-122.33,47.60\n"

	src := New(discardLogger())
	incidents, stats, err := src.Load(domain.RegionSeattle, writeDataset(t, body))

	require.NoError(t, err)
	require.Len(t, incidents, 1)
	assert.Equal(t, 1, stats.Rows)
	assert.Equal(t, 1, stats.Parsed)
}

func TestLoadMissingFile(t *testing.T) {
	src := New(discardLogger())
	_, _, err := src.Load(domain.RegionSeattle, filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}

func TestRequiredColumns(t *testing.T) {
	assert.Contains(t, RequiredColumns(domain.RegionSeattle), "Summarized Offense Description")
	assert.Contains(t, RequiredColumns(domain.RegionSanFrancisco), "Category")

	// Callers get their own copy.
	cols := RequiredColumns(domain.RegionSanFrancisco)
	cols[0] = "tampered"
	assert.Equal(t, "Category", RequiredColumns(domain.RegionSanFrancisco)[0])
}
