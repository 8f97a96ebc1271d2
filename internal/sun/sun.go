package sun

import (
	"errors"
	"fmt"

	"github.com/thurmanmarka/sunclock/internal/timeutil"
)

const (
	// SemiDiameter is the Sun's apparent radius at 1 AU, degrees.
	SemiDiameter = 0.266994

	// Refraction is the atmospheric refraction at the horizon, degrees.
	Refraction = 0.585556

	// Parallax is the Sun's horizontal parallax at 1 AU, degrees.
	Parallax = 0.0024428
)

var (
	// ErrNoRiseNoSet is returned when the Sun does not cross the horizon on
	// that date at that latitude.
	ErrNoRiseNoSet = errors.New("sun does not rise or set on this date")

	// ErrAlwaysUp means the Sun stays above the horizon (polar day).
	ErrAlwaysUp = fmt.Errorf("%w: sun is always above the horizon", ErrNoRiseNoSet)

	// ErrAlwaysDown means the Sun stays below the horizon (polar night).
	ErrAlwaysDown = fmt.Errorf("%w: sun is always below the horizon", ErrNoRiseNoSet)
)

// RiseSetAltitude returns the altitude (degrees) of the Sun's center when its
// upper limb touches the horizon, for a geocentric distance in AU.
// The observer elevation term is always zero in this model.
func RiseSetAltitude(distance float64) float64 {
	s := SemiDiameter / distance
	const e = 0.0
	p := Parallax / distance
	return -s - e - Refraction + p
}

// HourAngleAt returns the unsigned hour angle (degrees, [0,180]) at which the
// Sun reaches the given altitude, for declination dec and observer latitude
// lat. If the altitude is never reached that day, ErrAlwaysUp or
// ErrAlwaysDown is returned instead of a NaN.
func HourAngleAt(altitude, dec, lat float64) (float64, error) {
	cosH := (timeutil.SinD(altitude) - timeutil.SinD(dec)*timeutil.SinD(lat)) /
		(timeutil.CosD(dec) * timeutil.CosD(lat))

	switch {
	case cosH < -1:
		return 0, ErrAlwaysUp
	case cosH > 1:
		return 0, ErrAlwaysDown
	}

	return timeutil.AcosD(cosH), nil
}

// SunHourAngle returns the Sun's actual hour angle from local sidereal time
// and right ascension. It is signed and not normalized;
// solver.Revise folds it onto the circle.
func SunHourAngle(sidereal, ra float64) float64 {
	return sidereal - ra
}
