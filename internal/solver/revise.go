package solver

import "math"

// Revise turns the gap between the target and actual hour angles (degrees)
// into a day-fraction correction. Whole turns are dropped, and of the two
// ways around the circle the shorter one is returned. When both are equally
// long (exactly half a day) the wrapped alternative wins.
func Revise(target, actual float64) float64 {
	dd := (target - actual) / 360

	if dd >= 1 {
		dd -= math.Floor(dd)
	}
	if dd <= -1 {
		dd -= math.Ceil(dd)
	}

	var wrapped float64
	if dd > 0 {
		wrapped = dd - 1
	} else {
		wrapped = dd + 1
	}

	if math.Abs(dd) < math.Abs(wrapped) {
		return dd
	}
	return wrapped
}
