package sunclock

import (
	"fmt"
	"math"
	"time"

	"github.com/thurmanmarka/sunclock/internal/timeutil"
)

// TimeOfDay is a fraction of a day elapsed since local midnight.
// Solver results normally fall in [0,1); a sunset after midnight is
// reported past 1 by RiseSetFor and Almanac.
type TimeOfDay float64

// Clock returns the hour and minute on the clock face, rounded to the
// nearest minute. Whole days are dropped, and a minute that rounds to 60 is
// carried into the hour.
func (t TimeOfDay) Clock() (hour, minute int) {
	return timeutil.Clock(float64(t))
}

// String formats the time as HH:MM.
func (t TimeOfDay) String() string {
	h, m := t.Clock()
	return fmt.Sprintf("%02d:%02d", h, m)
}

// Duration returns the time since midnight, rounded to the second.
func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(math.Round(float64(t)*86400)) * time.Second
}

// On places the time of day on date's calendar day in date's Location.
func (t TimeOfDay) On(date time.Time) time.Time {
	year, month, day := date.Date()
	return timeutil.FractionToWallClock(year, month, day, float64(t), date.Location())
}
