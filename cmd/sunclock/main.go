package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/charmbracelet/lipgloss"

	"github.com/thurmanmarka/sunclock"
	"github.com/thurmanmarka/sunclock/internal/config"
)

func main() {
	log.SetFlags(0)

	// - If no args or first arg starts with "-", run rise/set mode.
	// - Otherwise treat the first arg as a subcommand (e.g. "year").
	if len(os.Args) < 2 || strings.HasPrefix(os.Args[1], "-") {
		runRiseSet(os.Args[1:])
		return
	}

	switch os.Args[1] {
	case "year":
		runYear(os.Args[2:])
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `sunclock – sunrise and sunset clock times

Usage:
  sunclock [flags]           # sunrise/sunset for one date
  sunclock year [flags]      # table of sunrise/sunset for a run of days

Common flags:
  -config string
        path to JSON config file (default "sunclock.json")
  -lat float
        latitude in degrees (north positive)
  -lon float
        longitude in degrees (east positive, west negative)
  -tz string
        IANA time zone name for the local clock
  -v
        trace solver iterations to stderr
  -save
        write the resolved observer back to the config file

Rise/set flags:
  -date string
        date in YYYY-MM-DD (optional, defaults to today)
  -event string
        event: rise, set, or both (default "both")
  -json
        output result as JSON

Year flags:
  sunclock year -h
`)
}

// ---------------------
// Shared observer flags
// ---------------------

type observerFlags struct {
	configPath *string
	lat, lon   *float64
	tz         *string
	verbose    *bool
	save       *bool
}

func addObserverFlags(fs *flag.FlagSet) observerFlags {
	return observerFlags{
		configPath: fs.String("config", "sunclock.json", "path to JSON config file"),
		lat:        fs.Float64("lat", 0, "latitude in degrees (north positive)"),
		lon:        fs.Float64("lon", 0, "longitude in degrees (east positive, west negative)"),
		tz:         fs.String("tz", "", "IANA time zone name (e.g. Asia/Tokyo)"),
		verbose:    fs.Bool("v", false, "trace solver iterations to stderr"),
		save:       fs.Bool("save", false, "write the resolved observer back to the config file"),
	}
}

// resolve loads the config file and lets explicitly set flags override it.
func (of observerFlags) resolve(fs *flag.FlagSet) (*config.Config, *time.Location, []sunclock.Option) {
	cfg, err := config.Load(*of.configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lat":
			cfg.Observer.Latitude = *of.lat
			cfg.Observer.Name = ""
		case "lon":
			cfg.Observer.Longitude = *of.lon
			cfg.Observer.Name = ""
		case "tz":
			cfg.Observer.TimeZone = *of.tz
		}
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if *of.save {
		if err := cfg.Save(*of.configPath); err != nil {
			log.Fatalf("failed to save config: %v", err)
		}
		log.Printf("saved observer to %s", *of.configPath)
	}

	loc, err := cfg.Observer.Location()
	if err != nil {
		log.Fatalf("%v", err)
	}

	var opts []sunclock.Option
	if *of.verbose {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, sunclock.WithLogger(logger))
	}

	return cfg, loc, opts
}

func coordsOf(cfg *config.Config) sunclock.Coordinates {
	return sunclock.Coordinates{
		Lat:       cfg.Observer.Latitude,
		Lon:       cfg.Observer.Longitude,
		Elevation: cfg.Observer.Elevation,
	}
}

// ---------------------
// Rise/set (default) mode
// ---------------------

func runRiseSet(args []string) {
	fs := flag.NewFlagSet("sunclock", flag.ExitOnError)

	of := addObserverFlags(fs)
	dateS := fs.String("date", "", "date in YYYY-MM-DD (optional, defaults to today in the observer's time zone)")
	event := fs.String("event", "both", "event: rise, set, or both")
	jsonOut := fs.Bool("json", false, "output result as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: sunclock [flags]

Flags:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}

	cfg, loc, opts := of.resolve(fs)
	date := parseDateOrToday(*dateS, loc)
	coords := coordsOf(cfg)

	rs, err := sunclock.RiseSetFor(coords, date, opts...)
	if err != nil {
		log.Fatalf("error computing sunrise/sunset: %v", err)
	}

	if *jsonOut {
		printJSON(cfg, coords, date, *event, rs)
	} else {
		printHuman(cfg, coords, date, *event, rs)
	}
}

// ---------------------
// Year subcommand
// ---------------------

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	polarStyle  = lipgloss.NewStyle().Faint(true)
)

func runYear(args []string) {
	fs := flag.NewFlagSet("year", flag.ExitOnError)

	of := addObserverFlags(fs)
	startS := fs.String("start", "", "first date in YYYY-MM-DD (optional, defaults to January 1 of the current year)")
	days := fs.Int("days", 0, "number of days (optional, defaults to the config's almanac.days)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: sunclock year [flags]

Flags:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("failed to parse flags: %v", err)
	}

	cfg, loc, opts := of.resolve(fs)

	var start time.Time
	if *startS == "" {
		start = time.Date(time.Now().In(loc).Year(), time.January, 1, 0, 0, 0, 0, loc)
	} else {
		start = parseDateOrToday(*startS, loc)
	}

	n := cfg.Almanac.Days
	if *days > 0 {
		n = *days
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rows, err := sunclock.Almanac(ctx, coordsOf(cfg), start, n, opts...)
	if err != nil {
		log.Fatalf("error computing almanac: %v", err)
	}

	title := fmt.Sprintf("lat=%.4f lon=%.4f (%s)", cfg.Observer.Latitude, cfg.Observer.Longitude, loc)
	if cfg.Observer.Name != "" {
		title = cfg.Observer.Name + " " + title
	}
	fmt.Println(headerStyle.Render(title))
	fmt.Println(headerStyle.Render("date        rise   set"))

	for _, r := range rows {
		if r.Err != nil {
			fmt.Println(polarStyle.Render(fmt.Sprintf("%s  --:--  --:--", r.Date.Format("2006-01-02"))))
			continue
		}
		fmt.Printf("%s  %s  %s\n", r.Date.Format("2006-01-02"), r.Rise, r.Set)
	}
}

// ---------------------
// Shared helpers
// ---------------------

func parseDateOrToday(s string, loc *time.Location) time.Time {
	if s == "" {
		now := time.Now().In(loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	}
	date, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		log.Fatalf("invalid date %q: %v", s, err)
	}
	return date
}

func printHuman(cfg *config.Config, coords sunclock.Coordinates, date time.Time, event string, rs sunclock.RiseSet) {
	if cfg.Observer.Name != "" {
		fmt.Printf("Sunrise/sunset for %s (lat=%.6f lon=%.6f)\n", cfg.Observer.Name, coords.Lat, coords.Lon)
	} else {
		fmt.Printf("Sunrise/sunset for lat=%.6f lon=%.6f\n", coords.Lat, coords.Lon)
	}
	fmt.Printf("Date: %s (%s)\n\n", date.Format("2006-01-02"), date.Location())

	switch strings.ToLower(event) {
	case "rise":
		fmt.Printf("Rise: %s\n", rs.Rise.Format("15:04"))
	case "set":
		fmt.Printf("Set:  %s\n", rs.Set.Format("15:04"))
	case "both":
		fmt.Printf("Rise: %s\n", rs.Rise.Format("15:04"))
		fmt.Printf("Set:  %s\n", rs.Set.Format("15:04"))
	default:
		fmt.Fprintf(os.Stderr, "unknown event %q, showing both\n", event)
		fmt.Printf("Rise: %s\n", rs.Rise.Format("15:04"))
		fmt.Printf("Set:  %s\n", rs.Set.Format("15:04"))
	}
}

type jsonOutput struct {
	Name      string     `json:"name,omitempty"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Date      string     `json:"date"` // YYYY-MM-DD
	Rise      *time.Time `json:"rise,omitempty"`
	Set       *time.Time `json:"set,omitempty"`
	Timezone  string     `json:"timezone"`
}

func printJSON(cfg *config.Config, coords sunclock.Coordinates, date time.Time, event string, rs sunclock.RiseSet) {
	out := jsonOutput{
		Name:      cfg.Observer.Name,
		Latitude:  coords.Lat,
		Longitude: coords.Lon,
		Date:      date.Format("2006-01-02"),
		Timezone:  date.Location().String(),
	}

	switch strings.ToLower(event) {
	case "rise":
		out.Rise = &rs.Rise
	case "set":
		out.Set = &rs.Set
	default:
		out.Rise = &rs.Rise
		out.Set = &rs.Set
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("failed to encode JSON: %v", err)
	}
}
