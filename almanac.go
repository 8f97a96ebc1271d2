package sunclock

import (
	"context"
	"errors"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thurmanmarka/sunclock/internal/solver"
)

// Day is one row of an almanac.
type Day struct {
	Date time.Time // local midnight in the start date's Location
	Rise TimeOfDay
	Set  TimeOfDay // always after Rise; past 1 when the Sun sets after midnight

	// Err is non-nil when the Sun does not rise or set that day
	// (it wraps ErrNoRiseNoSet). Rise and Set are zero in that case.
	Err error
}

// Almanac computes sunrise and sunset for days consecutive calendar days
// starting at start's calendar day, in start's Location. Days are computed
// concurrently; each is independent.
//
// Polar days are reported through Day.Err rather than failing the run. Any
// other error (invalid coordinates, non-convergence, cancellation) aborts the
// whole almanac.
func Almanac(ctx context.Context, loc Coordinates, start time.Time, days int, opts ...Option) ([]Day, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	if days <= 0 {
		return nil, nil
	}

	o := buildOptions(opts)
	year, month, day := start.Date()
	tz := start.Location()

	out := make([]Day, days)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := range out {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			// time.Date normalizes the day overflow across months and years.
			date := time.Date(year, month, day+i, 0, 0, 0, 0, tz)
			row := Day{Date: date}

			rise, err := event(loc, date, solver.Rise, o)
			if err == nil {
				var set TimeOfDay
				set, err = event(loc, date, solver.Set, o)
				if err == nil {
					row.Rise, row.Set = rise, afterRise(rise, set)
				}
			}

			if err != nil {
				if !errors.Is(err, ErrNoRiseNoSet) {
					return err
				}
				row.Err = err
				if o.Logger != nil {
					o.Logger.Debug("no rise/set", "date", date.Format("2006-01-02"), "error", err)
				}
			}

			out[i] = row
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
