// Package sunclock computes local sunrise and sunset clock times for a
// location and calendar date.
//
// The solar model is a low-precision analytic one: a 19-term series for the
// Sun's ecliptic longitude and a 6-term series for its distance, combined
// with a fixed-point iteration that walks from local noon to the instant the
// upper limb of the Sun touches the horizon. Results are good to about a
// minute for latitudes where the Sun actually rises and sets.
//
// The public entry points are Sunrise, Sunset and RiseSetFor; Almanac
// computes a whole run of days concurrently.
package sunclock

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/thurmanmarka/sunclock/internal/solver"
	"github.com/thurmanmarka/sunclock/internal/sun"
	"github.com/thurmanmarka/sunclock/internal/timeutil"
)

// Coordinates represent an observer's location.
type Coordinates struct {
	Lat       float64 // degrees, north positive
	Lon       float64 // degrees, east positive (west negative, e.g. -105 for 105°W)
	Elevation float64 // meters above sea level (the model does not use it)
}

// Validate reports whether the coordinates can be used for a calculation.
// Longitude may be any finite value; it is normalized by the model.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: %v", ErrInvalidLatitude, c.Lat)
	}
	if math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidLongitude, c.Lon)
	}
	return nil
}

// RiseSet holds sunrise and sunset of a given date.
type RiseSet struct {
	Rise time.Time
	Set  time.Time
}

var (
	// ErrNoRiseNoSet is returned when the Sun does not rise or set on that
	// date at that location. ErrAlwaysUp and ErrAlwaysDown wrap it.
	ErrNoRiseNoSet = sun.ErrNoRiseNoSet

	// ErrAlwaysUp is returned during polar day.
	ErrAlwaysUp = sun.ErrAlwaysUp

	// ErrAlwaysDown is returned during polar night.
	ErrAlwaysDown = sun.ErrAlwaysDown

	// ErrDidNotConverge is returned when the iteration limit is reached.
	ErrDidNotConverge = solver.ErrDidNotConverge

	// ErrInvalidLatitude is returned for latitudes outside [-90, 90].
	ErrInvalidLatitude = errors.New("latitude out of range [-90, 90]")

	// ErrInvalidLongitude is returned for NaN or infinite longitudes.
	ErrInvalidLongitude = errors.New("longitude is not a finite number")
)

// Option tunes a calculation.
type Option func(*solver.Options)

// WithLogger traces every solver iteration at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *solver.Options) { o.Logger = l }
}

// WithMaxIterations overrides the iteration limit (default 100).
func WithMaxIterations(n int) Option {
	return func(o *solver.Options) { o.MaxIterations = n }
}

// WithTolerance overrides the convergence threshold, in days.
func WithTolerance(days float64) Option {
	return func(o *solver.Options) { o.Tolerance = days }
}

func buildOptions(opts []Option) solver.Options {
	var o solver.Options
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Sunrise returns the local clock time of sunrise at loc on the calendar day
// of date. The UTC offset of date's Location at local noon defines the local
// clock; the time-of-day part of date is ignored.
func Sunrise(loc Coordinates, date time.Time, opts ...Option) (TimeOfDay, error) {
	return event(loc, date, solver.Rise, buildOptions(opts))
}

// Sunset returns the local clock time of sunset at loc on the calendar day of
// date. See Sunrise for how date is interpreted.
func Sunset(loc Coordinates, date time.Time, opts ...Option) (TimeOfDay, error) {
	return event(loc, date, solver.Set, buildOptions(opts))
}

func event(loc Coordinates, date time.Time, dir solver.Direction, o solver.Options) (TimeOfDay, error) {
	if err := loc.Validate(); err != nil {
		return 0, err
	}

	year, month, day := date.Date()
	p := solver.Params{
		Lat:        loc.Lat,
		Lon:        timeutil.Normalize360(loc.Lon),
		Year:       year,
		Month:      month,
		Day:        day,
		ZoneOffset: timeutil.ZoneOffsetHours(date),
		Direction:  dir,
	}

	res, err := solver.Solve(p, o)
	if err != nil {
		return 0, fmt.Errorf("sun%s %s: %w", dir, date.Format("2006-01-02"), err)
	}
	return TimeOfDay(res.D), nil
}

// RiseSetFor returns sunrise and sunset at loc on the calendar day of date,
// as times in date's Location.
func RiseSetFor(loc Coordinates, date time.Time, opts ...Option) (RiseSet, error) {
	o := buildOptions(opts)

	rise, err := event(loc, date, solver.Rise, o)
	if err != nil {
		return RiseSet{}, err
	}
	set, err := event(loc, date, solver.Set, o)
	if err != nil {
		return RiseSet{}, err
	}
	set = afterRise(rise, set)

	return RiseSet{
		Rise: rise.On(date),
		Set:  set.On(date),
	}, nil
}

// SlideIntoSunset is shorthand for RiseSetFor with default options.
func SlideIntoSunset(loc Coordinates, date time.Time) (RiseSet, error) {
	return RiseSetFor(loc, date)
}

// DaylightHours calculates the time between sunrise and sunset, in hours.
//
// If the Sun does not rise or set on the given date (polar regions), it
// returns 0 and an error wrapping ErrNoRiseNoSet; errors.Is with ErrAlwaysUp
// tells polar day from polar night.
func DaylightHours(loc Coordinates, date time.Time, opts ...Option) (float64, error) {
	o := buildOptions(opts)

	rise, err := event(loc, date, solver.Rise, o)
	if err != nil {
		return 0, err
	}
	set, err := event(loc, date, solver.Set, o)
	if err != nil {
		return 0, err
	}

	return (float64(afterRise(rise, set)) - float64(rise)) * 24, nil
}

// afterRise moves a sunset onto the night following rise. Near midnight the
// noon-seeded search can settle on the previous night's sunset, which leaves
// set at or before rise.
func afterRise(rise, set TimeOfDay) TimeOfDay {
	for set <= rise {
		set++
	}
	return set
}
