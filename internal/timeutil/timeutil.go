package timeutil

import (
	"math"
	"time"
)

// -----------------------------
// Basic degree/radian helpers and trig with degree inputs.
// -----------------------------

func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180.0
}

func Rad2Deg(r float64) float64 {
	return r * 180.0 / math.Pi
}

func SinD(deg float64) float64 {
	return math.Sin(Deg2Rad(deg))
}

func CosD(deg float64) float64 {
	return math.Cos(Deg2Rad(deg))
}

func TanD(deg float64) float64 {
	return math.Tan(Deg2Rad(deg))
}

// AsinD returns asin(x) in degrees. x must already be in [-1,1].
func AsinD(x float64) float64 {
	return Rad2Deg(math.Asin(x))
}

// AcosD returns acos(x) in degrees. x must already be in [-1,1].
func AcosD(x float64) float64 {
	return Rad2Deg(math.Acos(x))
}

func AtanD(x float64) float64 {
	return Rad2Deg(math.Atan(x))
}

// Normalize360 maps any angle in degrees into [0,360).
func Normalize360(d float64) float64 {
	d = math.Mod(d, 360.0)
	if d < 0 {
		d += 360.0
	}
	// -1e-17 + 360 rounds to 360.
	if d >= 360.0 {
		d = 0
	}
	return d
}

// -----------------------------
// Time variables
// -----------------------------

// TimeVar converts a clock time into a fraction of a day since midnight.
func TimeVar(hour, minute int, second float64) float64 {
	return float64(hour)/24.0 + float64(minute)/1440.0 + second/86400.0
}

// EpochTime returns the model's continuous time variable T (Julian years
// since 2000) for a calendar date and a day fraction d in the model's
// reference zone (UTC+9). The (65+y)/86400 term approximates ΔT.
func EpochTime(year int, month time.Month, day int, d float64) float64 {
	y := year - 2000
	m := int(month)
	if m <= 2 {
		m += 12
		y--
	}

	fy := float64(y)
	kp := 365*fy + 30*float64(m) + float64(day) - 33.875 +
		math.Floor(3*float64(m+1)/5) + math.Floor(fy/4)
	k := kp + d + DeltaT(y+2000).Seconds()/86400.0

	return k / 365.25
}

// DeltaT is the model's linear approximation of TT - UT for a year.
// EpochTime counts January and February as months of the previous year and
// passes that year here.
func DeltaT(year int) time.Duration {
	return time.Duration(65+year-2000) * time.Second
}

// Clock converts a day fraction into hour and minute, rounding to the
// nearest minute. A rounded 60 carries into the hour, so 0.99999 gives 24:00.
// Fractions outside [0,1) are wrapped onto the clock face first.
func Clock(d float64) (hour, minute int) {
	d -= math.Floor(d)
	h := d * 24
	hf := math.Floor(h)
	minute = int(math.Round((h - hf) * 60))
	hour = int(hf)
	if minute >= 60 {
		hour++
		minute = 0
	}
	return hour, minute
}

// FractionToWallClock converts a day fraction into a time on the given local
// calendar date. The result is assembled from wall-clock fields, so days with
// a DST transition keep the clock reading the model computed.
func FractionToWallClock(year int, month time.Month, day int, d float64, loc *time.Location) time.Time {
	// Round to the nearest second to avoid nanosecond noise.
	sec := int(math.Round(d * 86400))
	return time.Date(year, month, day, 0, 0, sec, 0, loc)
}

// ZoneOffsetHours returns the UTC offset in hours that applies at local noon
// of the given date's calendar day in its location.
func ZoneOffsetHours(date time.Time) float64 {
	year, month, day := date.Date()
	noon := time.Date(year, month, day, 12, 0, 0, 0, date.Location())
	_, offset := noon.Zone()
	return float64(offset) / 3600.0
}
