package sun

import (
	"math"

	"github.com/thurmanmarka/sunclock/internal/timeutil"
)

// term is one periodic correction a·sin(phase + rate·T), all in degrees.
type term struct {
	amp, phase, rate float64
}

// longitudeTerms are the periodic corrections to the Sun's mean ecliptic
// longitude. The first amplitude has a secular part applied in
// EclipticLongitude.
var longitudeTerms = [...]term{
	{1.9146, 357.538, 359.991},
	{0.0200, 355.05, 719.981},
	{0.0048, 234.95, 19.341},
	{0.0020, 247.1, 329.64},
	{0.0018, 297.8, 4452.67},
	{0.0018, 251.3, 0.20},
	{0.0015, 343.2, 450.37},
	{0.0013, 81.4, 225.18},
	{0.0008, 132.5, 659.29},
	{0.0007, 153.3, 90.38},
	{0.0007, 206.8, 30.35},
	{0.0006, 29.8, 337.18},
	{0.0005, 207.4, 1.50},
	{0.0005, 291.2, 22.81},
	{0.0004, 234.9, 315.56},
	{0.0004, 157.3, 299.30},
	{0.0004, 21.1, 720.02},
	{0.0003, 352.5, 1079.97},
	{0.0003, 329.7, 44.43},
}

// distanceTerms make up log10 of the geocentric distance. The first amplitude
// has a secular part applied in Distance; the third term is constant.
var distanceTerms = [...]term{
	{0.007256, 267.54, 359.991},
	{0.000091, 265.1, 719.98},
	{0.000030, 90.0, 0},
	{0.000013, 27.8, 4452.67},
	{0.000007, 254.0, 450.4},
	{0.000007, 156.0, 329.5},
}

// Snapshot holds the solar quantities evaluated at one value of T.
type Snapshot struct {
	Longitude float64 // ecliptic longitude, degrees [0,360)
	Obliquity float64 // obliquity of the ecliptic, degrees
	RA        float64 // right ascension, degrees [0,360)
	Dec       float64 // declination, degrees
	Distance  float64 // geocentric distance, AU
}

// PositionAt evaluates the whole solar model at T.
func PositionAt(T float64) Snapshot {
	lon := EclipticLongitude(T)
	eps := Obliquity(T)

	return Snapshot{
		Longitude: lon,
		Obliquity: eps,
		RA:        rightAscension(lon, eps),
		Dec:       declination(lon, eps),
		Distance:  Distance(T),
	}
}

// EclipticLongitude returns the Sun's apparent ecliptic longitude in degrees,
// normalized to [0,360).
func EclipticLongitude(T float64) float64 {
	l := 280.4603 + 360.00769*T
	for i, c := range longitudeTerms {
		amp := c.amp
		if i == 0 {
			amp -= 0.00005 * T
		}
		l += amp * timeutil.SinD(c.phase+c.rate*T)
	}
	return timeutil.Normalize360(l)
}

// Obliquity returns the obliquity of the ecliptic in degrees.
func Obliquity(T float64) float64 {
	return 23.439291 - 0.000130042*T
}

// Distance returns the Sun's geocentric distance in AU.
func Distance(T float64) float64 {
	var q float64
	for i, c := range distanceTerms {
		amp := c.amp
		if i == 0 {
			amp -= 0.0000002 * T
		}
		q += amp * timeutil.SinD(c.phase+c.rate*T)
	}
	return math.Pow(10, q)
}

// RightAscension returns the Sun's right ascension in degrees [0,360).
func RightAscension(T float64) float64 {
	return rightAscension(EclipticLongitude(T), Obliquity(T))
}

// Declination returns the Sun's declination in degrees.
func Declination(T float64) float64 {
	return declination(EclipticLongitude(T), Obliquity(T))
}

// rightAscension converts ecliptic longitude to right ascension. atan only
// fixes the angle modulo 180, so the result is moved into the same half
// circle as the longitude.
func rightAscension(lon, eps float64) float64 {
	ra := timeutil.AtanD(timeutil.TanD(lon) * timeutil.CosD(eps))
	ra = timeutil.Normalize360(ra)

	if lon >= 0 && lon < 180 {
		if ra >= 180 {
			ra -= 180
		}
		if ra < 0 {
			ra += 180
		}
	}
	if lon >= 180 && lon < 360 {
		if ra <= 180 {
			ra += 180
		}
		if ra > 360 {
			ra -= 180
		}
	}
	return ra
}

func declination(lon, eps float64) float64 {
	return timeutil.AsinD(timeutil.SinD(lon) * timeutil.SinD(eps))
}

// SiderealTime returns the local sidereal time in degrees [0,360) for T, the
// day fraction d in the model's reference zone, and the observer's east
// longitude.
func SiderealTime(T, d, lon float64) float64 {
	st := 325.4606 + 360.007700536*T + 0.00000003879*T*T + 360.0*d + lon
	return timeutil.Normalize360(st)
}
