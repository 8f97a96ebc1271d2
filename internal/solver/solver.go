package solver

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/thurmanmarka/sunclock/internal/sun"
	"github.com/thurmanmarka/sunclock/internal/timeutil"
)

// Direction selects which horizon crossing the solver looks for. Its value is
// the sign applied to the target hour angle.
type Direction int

const (
	// Rise is the morning crossing, before transit (negative hour angle).
	Rise Direction = -1
	// Set is the evening crossing, after transit (positive hour angle).
	Set Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Rise:
		return "rise"
	case Set:
		return "set"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// DefaultSeed starts the search at local noon.
var DefaultSeed = timeutil.TimeVar(12, 0, 0)

const (
	// DefaultTolerance is the convergence threshold in days (about 4.3 s).
	DefaultTolerance = 0.00005

	// DefaultMaxIterations bounds the loop for dates that never settle.
	DefaultMaxIterations = 100

	// ReferenceOffset is the UTC offset, in hours, that the model's epoch
	// and sidereal constants are expressed in.
	ReferenceOffset = 9.0
)

// ErrDidNotConverge is returned when the correction never drops below the
// tolerance within the iteration budget.
var ErrDidNotConverge = errors.New("rise/set iteration did not converge")

// Params describes one rise or set search.
type Params struct {
	Lat, Lon   float64 // degrees, north and east positive
	Year       int
	Month      time.Month
	Day        int
	ZoneOffset float64 // hours east of UTC for the local clock
	Direction  Direction
}

// Options tune the iteration. Zero values select the defaults.
type Options struct {
	Seed          float64 // initial day fraction; 0 means DefaultSeed
	Tolerance     float64
	MaxIterations int
	Logger        *slog.Logger // per-iteration trace at debug level; nil disables
}

func (o Options) withDefaults() Options {
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	return o
}

// Trace holds everything computed during one iteration.
type Trace struct {
	D          float64 // local day fraction the step was evaluated at
	T          float64 // epoch time variable
	Position   sun.Snapshot
	Sidereal   float64 // local sidereal time, degrees
	Altitude   float64 // apparent rise/set altitude, degrees
	Target     float64 // hour angle of the crossing, degrees
	Actual     float64 // Sun's hour angle at D, degrees
	Correction float64 // dd, days
}

// Result is the outcome of a converged search.
type Result struct {
	D          float64 // local day fraction of the event
	Iterations int
}

// Step evaluates the model once at local day fraction d and returns the
// correction that moves d toward the crossing.
func Step(p Params, d float64) (Trace, error) {
	// Shift the local clock onto the model's reference zone.
	dRef := d + (ReferenceOffset-p.ZoneOffset)/24.0

	T := timeutil.EpochTime(p.Year, p.Month, p.Day, dRef)
	pos := sun.PositionAt(T)
	st := sun.SiderealTime(T, dRef, p.Lon)
	alt := sun.RiseSetAltitude(pos.Distance)

	tr := Trace{
		D:        d,
		T:        T,
		Position: pos,
		Sidereal: st,
		Altitude: alt,
	}

	h, err := sun.HourAngleAt(alt, pos.Dec, p.Lat)
	if err != nil {
		return tr, err
	}

	tr.Target = float64(p.Direction) * h
	tr.Actual = sun.SunHourAngle(st, pos.RA)
	tr.Correction = Revise(tr.Target, tr.Actual)

	return tr, nil
}

// Solve iterates Step from the seed until the correction is within
// tolerance, returning the local day fraction of the crossing.
func Solve(p Params, opts Options) (Result, error) {
	opts = opts.withDefaults()

	d := opts.Seed
	for i := 1; i <= opts.MaxIterations; i++ {
		tr, err := Step(p, d)
		if err != nil {
			return Result{D: d, Iterations: i}, err
		}

		d += tr.Correction

		if opts.Logger != nil {
			opts.Logger.Debug("solver step",
				"direction", p.Direction,
				"iteration", i,
				"ra", tr.Position.RA,
				"dec", tr.Position.Dec,
				"distance", tr.Position.Distance,
				"sidereal", tr.Sidereal,
				"altitude", tr.Altitude,
				"target_hour_angle", tr.Target,
				"sun_hour_angle", tr.Actual,
				"dd", tr.Correction,
			)
		}

		if math.Abs(tr.Correction) <= opts.Tolerance {
			return Result{D: d, Iterations: i}, nil
		}
	}

	return Result{D: d, Iterations: opts.MaxIterations},
		fmt.Errorf("%w after %d iterations", ErrDidNotConverge, opts.MaxIterations)
}
