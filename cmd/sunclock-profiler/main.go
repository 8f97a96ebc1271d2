package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/nathan-osman/go-sunrise"
	"github.com/sixdouglas/suncalc"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/solar"
	"github.com/soniakeys/unit"

	"github.com/thurmanmarka/sunclock"
	"github.com/thurmanmarka/sunclock/internal/solver"
	"github.com/thurmanmarka/sunclock/internal/sun"
	"github.com/thurmanmarka/sunclock/internal/timeutil"
)

type stats struct {
	count int
	sum   float64
	min   float64
	max   float64
}

func (s *stats) add(v float64) {
	if math.IsNaN(v) {
		return
	}
	if s.count == 0 {
		s.min, s.max = v, v
	} else {
		s.min = math.Min(s.min, v)
		s.max = math.Max(s.max, v)
	}
	s.sum += v
	s.count++
}

func (s *stats) avg() float64 {
	if s.count == 0 {
		return math.NaN()
	}
	return s.sum / float64(s.count)
}

func (s *stats) print(title string) {
	fmt.Printf("\n%s:\n", title)
	fmt.Printf("  count: %d\n", s.count)
	fmt.Printf("  min:   %.4f\n", s.min)
	fmt.Printf("  max:   %.4f\n", s.max)
	fmt.Printf("  avg:   %.4f\n", s.avg())
}

func diffMinutesSigned(a, b time.Time) float64 {
	// If either time is zero, treat as "no data".
	if a.IsZero() || b.IsZero() {
		return math.NaN()
	}
	return a.Sub(b).Minutes()
}

// reference is one row of reference data for a local calendar date.
type reference struct {
	date      time.Time
	rise, set time.Time
}

// referenceSource yields reference rise/set times for a local date.
type referenceSource func(date time.Time) (reference, error)

func suncalcSource(lat, lon float64) referenceSource {
	return func(date time.Time) (reference, error) {
		noon := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, date.Location())
		times := suncalc.GetTimes(noon, lat, lon)
		rise := times[suncalc.Sunrise].Value
		set := times[suncalc.Sunset].Value
		if rise.IsZero() || set.IsZero() {
			return reference{}, fmt.Errorf("suncalc has no rise/set")
		}
		return reference{date: date, rise: rise.In(date.Location()), set: set.In(date.Location())}, nil
	}
}

func goSunriseSource(lat, lon float64) referenceSource {
	return func(date time.Time) (reference, error) {
		rise, set := sunrise.SunriseSunset(lat, lon, date.Year(), date.Month(), date.Day())
		if rise.IsZero() || set.IsZero() {
			return reference{}, fmt.Errorf("go-sunrise has no rise/set")
		}
		return reference{date: date, rise: rise.In(date.Location()), set: set.In(date.Location())}, nil
	}
}

// CSV format:
//
// date,rise,set
// 2025-01-01,07:32,17:12
// 2025-01-02,07:32,17:13
//
// - date is YYYY-MM-DD
// - rise/set are local times in HH:MM (24-hour clock)
// - All times are assumed to be in the timezone given by -tz.
func readCSV(path string, loc *time.Location) ([]reference, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open refcsv %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // allow variable, we validate

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	var refs []reference
	for i, row := range records {
		if i == 0 && len(row) >= 1 && strings.EqualFold(row[0], "date") {
			continue
		}
		if len(row) < 3 {
			log.Printf("row %d: expected at least 3 columns (date,rise,set), got %d, skipping", i+1, len(row))
			continue
		}

		date, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(row[0]), loc)
		if err != nil {
			log.Printf("row %d: invalid date %q: %v, skipping", i+1, row[0], err)
			continue
		}
		rise, err := parseLocalTime(date, strings.TrimSpace(row[1]), loc)
		if err != nil {
			log.Printf("row %d: invalid rise time %q: %v, skipping", i+1, row[1], err)
			continue
		}
		set, err := parseLocalTime(date, strings.TrimSpace(row[2]), loc)
		if err != nil {
			log.Printf("row %d: invalid set time %q: %v, skipping", i+1, row[2], err)
			continue
		}
		refs = append(refs, reference{date: date, rise: rise, set: set})
	}
	return refs, nil
}

// modelError compares the solar model with Meeus' full theory at local noon
// of date, returning the RA and Dec differences in degrees. Both sides are
// evaluated at the same dynamical time.
func modelError(date time.Time) (dRA, dDec float64) {
	year, month, day := date.Date()
	offset := timeutil.ZoneOffsetHours(date)
	T := timeutil.EpochTime(year, month, day, 0.5+(solver.ReferenceOffset-offset)/24)
	pos := sun.PositionAt(T)

	// ApparentEquatorial takes a JDE; shift UT by the same ΔT the model uses.
	noon := time.Date(year, month, day, 12, 0, 0, 0, date.Location())
	ra, dec := solar.ApparentEquatorial(julian.TimeToJD(noon.UTC().Add(timeutil.DeltaT(year))))

	dRA = pos.RA - timeutil.Normalize360(unit.Angle(ra).Deg())
	if dRA > 180 {
		dRA -= 360
	} else if dRA < -180 {
		dRA += 360
	}
	return dRA, pos.Dec - dec.Deg()
}

func main() {
	var (
		lat     = flag.Float64("lat", 0, "latitude in degrees (north positive)")
		lon     = flag.Float64("lon", 0, "longitude in degrees (east positive, west negative)")
		tzName  = flag.String("tz", "UTC", "IANA time zone name (e.g. America/Phoenix)")
		ref     = flag.String("ref", "csv", "reference source: csv, suncalc, or gosunrise")
		refCSV  = flag.String("refcsv", "", "path to reference ephemeris CSV file (date,rise,set) for -ref csv")
		startS  = flag.String("start", "", "first date YYYY-MM-DD for library references (default: Jan 1 this year)")
		days    = flag.Int("days", 366, "number of days for library references")
		verbose = flag.Bool("verbose", false, "log per-day errors instead of only summary")
		outCSV  = flag.String("outcsv", "", "optional path to write per-row error CSV")
	)

	flag.Parse()

	loc, err := time.LoadLocation(*tzName)
	if err != nil {
		log.Fatalf("failed to load timezone %q: %v", *tzName, err)
	}

	if *lat == 0 && *lon == 0 {
		log.Println("warning: lat=0 lon=0 (Gulf of Guinea). Did you mean to set -lat/-lon?")
	}

	coords := sunclock.Coordinates{Lat: *lat, Lon: *lon}
	if err := coords.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	var refs []reference
	switch strings.ToLower(*ref) {
	case "csv":
		if *refCSV == "" {
			log.Fatalf("missing -refcsv (path to reference CSV)")
		}
		refs, err = readCSV(*refCSV, loc)
		if err != nil {
			log.Fatalf("%v", err)
		}
	case "suncalc", "gosunrise":
		src := suncalcSource(*lat, *lon)
		if strings.EqualFold(*ref, "gosunrise") {
			src = goSunriseSource(*lat, *lon)
		}

		start := time.Date(time.Now().In(loc).Year(), time.January, 1, 0, 0, 0, 0, loc)
		if *startS != "" {
			start, err = time.ParseInLocation("2006-01-02", *startS, loc)
			if err != nil {
				log.Fatalf("invalid -start %q: %v", *startS, err)
			}
		}
		for i := 0; i < *days; i++ {
			date := start.AddDate(0, 0, i)
			r, err := src(date)
			if err != nil {
				log.Printf("%s: %v, skipping", date.Format("2006-01-02"), err)
				continue
			}
			refs = append(refs, r)
		}
	default:
		log.Fatalf("unknown -ref %q (use csv, suncalc, or gosunrise)", *ref)
	}

	if len(refs) == 0 {
		log.Fatalf("no reference rows")
	}

	var outWriter *csv.Writer
	if *outCSV != "" {
		outFile, err := os.Create(*outCSV)
		if err != nil {
			log.Fatalf("failed to create outcsv %q: %v", *outCSV, err)
		}
		defer outFile.Close()

		outWriter = csv.NewWriter(outFile)
		defer outWriter.Flush()

		if err := outWriter.Write([]string{"date", "rise_signed", "set_signed", "ra_err_deg", "dec_err_deg"}); err != nil {
			log.Fatalf("failed to write outcsv header: %v", err)
		}
	}

	var (
		riseAbs, setAbs       stats
		riseSigned, setSigned stats
		raErr, decErr         stats
		skipped               int
	)

	for _, r := range refs {
		dateStr := r.date.Format("2006-01-02")

		rs, err := sunclock.RiseSetFor(coords, r.date)
		if err != nil {
			log.Printf("%s: sunclock error: %v, skipping", dateStr, err)
			skipped++
			continue
		}

		rSigned := diffMinutesSigned(rs.Rise, r.rise)
		sSigned := diffMinutesSigned(rs.Set, r.set)
		riseSigned.add(rSigned)
		setSigned.add(sSigned)
		riseAbs.add(math.Abs(rSigned))
		setAbs.add(math.Abs(sSigned))

		dRA, dDec := modelError(r.date)
		raErr.add(math.Abs(dRA))
		decErr.add(math.Abs(dDec))

		if *verbose {
			fmt.Printf("%s: rise err=%+.2f min (got=%s ref=%s), set err=%+.2f min (got=%s ref=%s), dRA=%+.4f° dDec=%+.4f°\n",
				dateStr,
				rSigned, rs.Rise.Format("15:04"), r.rise.Format("15:04"),
				sSigned, rs.Set.Format("15:04"), r.set.Format("15:04"),
				dRA, dDec)
		}

		if outWriter != nil {
			rec := []string{
				dateStr,
				fmt.Sprintf("%.6f", rSigned),
				fmt.Sprintf("%.6f", sSigned),
				fmt.Sprintf("%.6f", dRA),
				fmt.Sprintf("%.6f", dDec),
			}
			if err := outWriter.Write(rec); err != nil {
				log.Printf("%s: failed to write outcsv: %v", dateStr, err)
			}
		}
	}

	fmt.Println("=== sunclock profiler summary ===")
	fmt.Printf("Reference: %s\n", strings.ToLower(*ref))
	fmt.Printf("Lat/Lon:   %.4f / %.4f\n", *lat, *lon)
	fmt.Printf("TZ:        %s\n", loc.String())
	fmt.Printf("Rows:      %d (processed), %d skipped\n", len(refs)-skipped, skipped)

	if riseAbs.count == 0 {
		fmt.Println("No valid rows to compute stats.")
		return
	}

	riseAbs.print("Rise error (minutes)")
	setAbs.print("Set error (minutes)")
	riseSigned.print("Rise signed error (minutes, ours - ref)")
	setSigned.print("Set signed error (minutes, ours - ref)")
	raErr.print("Solar model RA error vs Meeus (degrees)")
	decErr.print("Solar model Dec error vs Meeus (degrees)")
}

func parseLocalTime(date time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	// Expect HH:MM (optionally HH:MM:SS).
	layout := "15:04"
	if strings.Count(hhmm, ":") == 2 {
		layout = "15:04:05"
	}

	parsed, err := time.ParseInLocation(layout, hhmm, loc)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), 0, loc), nil
}
