package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"

	"github.com/duskwatch/crime-report-gen/internal/domain"
)

var flagRows int

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Generate synthetic datasets in the city portal layouts",
	Long: `sample writes synthetic incident CSVs and a neighborhood grid GeoJSON
for each enabled region, using the same column layouts as the real city portal
exports. The output is deterministic, so fixtures can be regenerated at any
time without touching the real datasets.`,
	RunE: runSample,
}

func init() {
	sampleCmd.Flags().IntVar(&flagRows, "rows", 500, "incident rows to generate per region")
	sampleCmd.Flags().BoolVar(&flagForce, "force", false, "overwrite existing files")
}

// cityBox is the coordinate span synthetic incidents are drawn from. It sits
// well inside the validation envelope for the city.
type cityBox struct {
	minLon, maxLon float64
	minLat, maxLat float64
}

var sampleBoxes = map[domain.Region]cityBox{
	domain.RegionSeattle:      {minLon: -122.41, maxLon: -122.25, minLat: 47.50, maxLat: 47.73},
	domain.RegionSanFrancisco: {minLon: -122.51, maxLon: -122.37, minLat: 37.71, maxLat: 37.81},
}

var seattleOffenses = []string{
	"CAR PROWL", "BURGLARY", "VEHICLE THEFT", "ASSAULT", "PROPERTY DAMAGE",
	"NARCOTICS", "SHOPLIFTING", "ROBBERY", "DISTURBANCE", "BIKE THEFT",
}

var sfCategories = []string{
	"LARCENY/THEFT", "ASSAULT", "VEHICLE THEFT", "VANDALISM", "DRUG/NARCOTIC",
	"BURGLARY", "ROBBERY", "SUSPICIOUS OCC", "DRUNKENNESS", "PROSTITUTION",
}

var sfDistricts = []string{
	"SOUTHERN", "MISSION", "NORTHERN", "CENTRAL", "BAYVIEW",
	"INGLESIDE", "TARAVAL", "TENDERLOIN", "RICHMOND", "PARK",
}

var seattleSectors = []string{"B", "D", "E", "K", "M", "N", "Q", "R", "U", "W"}

func runSample(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagRows < 1 {
		return fmt.Errorf("--rows must be at least 1, got %d", flagRows)
	}
	logger := newLogger(cfg)

	// Fixed seed keeps fixtures reproducible across runs.
	rng := rand.New(rand.NewSource(1))

	for _, region := range cfg.EnabledRegions() {
		csvPath := cfg.CSVFile(region)
		if skipExisting(csvPath) {
			logger.Info("sample dataset already present", "region", region, "path", csvPath)
		} else {
			if err := writeSampleCSV(region, csvPath, flagRows, rng); err != nil {
				return fmt.Errorf("sample csv for %s: %w", region, err)
			}
			logger.Info("wrote sample dataset", "region", region, "path", csvPath, "rows", flagRows)
		}

		boundaryPath := cfg.BoundaryFile(region)
		if skipExisting(boundaryPath) {
			logger.Info("sample boundaries already present", "region", region, "path", boundaryPath)
			continue
		}
		if err := writeSampleBoundaries(region, boundaryPath); err != nil {
			return fmt.Errorf("sample boundaries for %s: %w", region, err)
		}
		logger.Info("wrote sample boundaries", "region", region, "path", boundaryPath)
	}
	return nil
}

func skipExisting(path string) bool {
	if flagForce {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func writeSampleCSV(region domain.Region, path string, rows int, rng *rand.Rand) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := seattleSampleHeader
	rowFn := seattleSampleRow
	if region == domain.RegionSanFrancisco {
		header = sfSampleHeader
		rowFn = sfSampleRow
	}
	if err := w.Write(header); err != nil {
		return err
	}

	box := sampleBoxes[region]
	loc := region.TimeZone()
	seasonStart := time.Date(2014, time.June, 1, 0, 0, 0, 0, loc)
	const seasonSeconds = 92 * 24 * 60 * 60

	for i := 0; i < rows; i++ {
		ts := seasonStart.Add(time.Duration(rng.Intn(seasonSeconds)) * time.Second)
		lon := sampleCoord(rng, box.minLon, box.maxLon)
		lat := sampleCoord(rng, box.minLat, box.maxLat)

		// Every 97th row carries the portal's placeholder coordinates, the
		// way the real exports do.
		placeholder := i > 0 && i%97 == 0

		if err := w.Write(rowFn(rng, i, ts, lon, lat, placeholder)); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// sampleCoord draws from a triangular distribution so incidents cluster
// toward the middle of the span, which makes the choropleths less flat.
func sampleCoord(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (rng.Float64()+rng.Float64())/2*(hi-lo)
}

var seattleSampleHeader = []string{
	"RMS CDW ID", "General Offense Number", "Offense Type",
	"Summarized Offense Description", "Date Reported",
	"Occurred Date or Date Range Start", "Occurred Date Range End",
	"Hundred Block Location", "District/Sector", "Zone/Beat",
	"Longitude", "Latitude",
}

func seattleSampleRow(rng *rand.Rand, i int, ts time.Time, lon, lat float64, placeholder bool) []string {
	offense := seattleOffenses[rng.Intn(len(seattleOffenses))]
	sector := seattleSectors[rng.Intn(len(seattleSectors))]
	lonStr := fmt.Sprintf("%.6f", lon)
	latStr := fmt.Sprintf("%.6f", lat)
	if placeholder {
		lonStr, latStr = "", ""
	}
	return []string{
		fmt.Sprintf("%d", 300000+i),
		fmt.Sprintf("2014%06d", 100000+i),
		strings.ReplaceAll(offense, " ", "-"),
		offense,
		ts.Add(24 * time.Hour).Format("01/02/2006 03:04:05 PM"),
		ts.Format("01/02/2006 03:04:05 PM"),
		"",
		fmt.Sprintf("%d00 BLOCK OF PINE ST", 1+rng.Intn(99)),
		sector,
		fmt.Sprintf("%s%d", sector, 1+rng.Intn(3)),
		lonStr,
		latStr,
	}
}

var sfSampleHeader = []string{
	"IncidntNum", "Category", "Descript", "DayOfWeek", "Date", "Time",
	"PdDistrict", "Resolution", "Address", "X", "Y", "Location", "PdId",
}

func sfSampleRow(rng *rand.Rand, i int, ts time.Time, lon, lat float64, placeholder bool) []string {
	category := sfCategories[rng.Intn(len(sfCategories))]
	xStr := fmt.Sprintf("%.6f", lon)
	yStr := fmt.Sprintf("%.6f", lat)
	if placeholder {
		// The SF portal parks unlocated incidents at the north pole.
		xStr, yStr = "0", "90"
	}
	return []string{
		fmt.Sprintf("%d", 140100000+i),
		category,
		category,
		ts.Weekday().String(),
		ts.Format("01/02/2006"),
		ts.Format("15:04"),
		sfDistricts[rng.Intn(len(sfDistricts))],
		"NONE",
		fmt.Sprintf("%d00 Block of MARKET ST", 1+rng.Intn(30)),
		xStr,
		yStr,
		fmt.Sprintf("(%s, %s)", yStr, xStr),
		fmt.Sprintf("%d", 14010000000000+i),
	}
}

// writeSampleBoundaries writes a grid of square neighborhoods covering the
// sample coordinate box, named like map sectors (A1 through D4).
func writeSampleBoundaries(region domain.Region, path string) error {
	box := sampleBoxes[region]
	const cells = 4
	lonStep := (box.maxLon - box.minLon) / cells
	latStep := (box.maxLat - box.minLat) / cells

	fc := geojson.NewFeatureCollection()
	for r := 0; r < cells; r++ {
		for c := 0; c < cells; c++ {
			lon0 := box.minLon + float64(c)*lonStep
			lat0 := box.minLat + float64(r)*latStep
			lon1 := lon0 + lonStep
			lat1 := lat0 + latStep
			ring := orb.Ring{
				{lon0, lat0}, {lon1, lat0}, {lon1, lat1}, {lon0, lat1}, {lon0, lat0},
			}
			feature := geojson.NewFeature(orb.Polygon{ring})
			feature.Properties["name"] = fmt.Sprintf("%c%d", 'A'+r, c+1)
			fc.Append(feature)
		}
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
