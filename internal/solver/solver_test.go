package solver

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/thurmanmarka/sunclock/internal/sun"
)

func tokyo(dir Direction) Params {
	return Params{
		Lat:        35.6544,
		Lon:        139.7447,
		Year:       2013,
		Month:      time.January,
		Day:        1,
		ZoneOffset: 9,
		Direction:  dir,
	}
}

func TestReviseCases(t *testing.T) {
	tests := []struct {
		name           string
		target, actual float64
		want           float64
	}{
		{"zero", 0, 0, 0},
		{"quarter ahead", 90, 0, 0.25},
		{"long way round", 0, 270, 0.25},
		{"full turn dropped", 360, 0, 0},
		{"more than a turn", 400, 0, 40.0 / 360},
		{"less than minus a turn", -400, 0, -40.0 / 360},
		{"three quarters back", -270, 0, 0.25},
		{"half ahead takes wrapped", 180, 0, -0.5},
		{"half behind takes wrapped", -180, 0, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Revise(tt.target, tt.actual)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Revise(%v, %v) = %v, want %v", tt.target, tt.actual, got, tt.want)
			}
		})
	}
}

// TestReviseShortestPath checks the returned correction is never longer than
// either way around the circle and stays congruent to the raw gap.
func TestReviseShortestPath(t *testing.T) {
	for target := -180.0; target <= 180; target += 3.7 {
		for actual := -359.0; actual < 360; actual += 5.3 {
			raw := (target - actual) / 360
			got := Revise(target, actual)

			frac := raw - math.Trunc(raw)
			alt := frac - 1
			if frac <= 0 {
				alt = frac + 1
			}

			if math.Abs(got) > math.Abs(frac)+1e-12 || math.Abs(got) > math.Abs(alt)+1e-12 {
				t.Fatalf("Revise(%v,%v) = %v, longer than %v or %v", target, actual, got, frac, alt)
			}
			if math.Abs(got) > 0.5+1e-12 {
				t.Fatalf("Revise(%v,%v) = %v, more than half a day", target, actual, got)
			}
			turns := raw - got
			if math.Abs(turns-math.Round(turns)) > 1e-9 {
				t.Fatalf("Revise(%v,%v) = %v not congruent to %v", target, actual, got, raw)
			}
		}
	}
}

func TestSolveTokyo(t *testing.T) {
	tests := []struct {
		dir  Direction
		want float64
	}{
		{Rise, 0.28513629114401323},
		{Set, 0.6934482937979145},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			res, err := Solve(tokyo(tt.dir), Options{})
			if err != nil {
				t.Fatalf("Solve() error = %v", err)
			}
			if math.Abs(res.D-tt.want) > 1e-6 {
				t.Errorf("Solve() = %.10f, want %.10f", res.D, tt.want)
			}
			if res.Iterations < 1 || res.Iterations > 10 {
				t.Errorf("Solve() took %d iterations", res.Iterations)
			}
		})
	}
}

func TestSolveIsFixedPoint(t *testing.T) {
	for _, dir := range []Direction{Rise, Set} {
		p := tokyo(dir)
		res, err := Solve(p, Options{})
		if err != nil {
			t.Fatalf("%s: Solve() error = %v", dir, err)
		}

		tr, err := Step(p, res.D)
		if err != nil {
			t.Fatalf("%s: Step() error = %v", dir, err)
		}
		if math.Abs(tr.Correction) > DefaultTolerance {
			t.Errorf("%s: correction at converged d = %v, want <= %v", dir, tr.Correction, DefaultTolerance)
		}

		again, err := Solve(p, Options{Seed: res.D})
		if err != nil {
			t.Fatalf("%s: re-Solve() error = %v", dir, err)
		}
		if again.Iterations != 1 {
			t.Errorf("%s: re-Solve() from converged d took %d iterations", dir, again.Iterations)
		}
		if math.Abs(again.D-res.D) > DefaultTolerance {
			t.Errorf("%s: re-Solve() moved from %v to %v", dir, res.D, again.D)
		}
	}
}

func TestRiseSetHourAnglesAreSymmetric(t *testing.T) {
	rise, err := Solve(tokyo(Rise), Options{})
	if err != nil {
		t.Fatal(err)
	}
	set, err := Solve(tokyo(Set), Options{})
	if err != nil {
		t.Fatal(err)
	}

	trRise, _ := Step(tokyo(Rise), rise.D)
	trSet, _ := Step(tokyo(Set), set.D)

	if trRise.Target >= 0 || trSet.Target <= 0 {
		t.Fatalf("target hour angles have wrong signs: rise %v, set %v", trRise.Target, trSet.Target)
	}
	if math.Abs(trRise.Target+trSet.Target) > 1 {
		t.Errorf("rise %v and set %v hour angles are not mirror images", trRise.Target, trSet.Target)
	}
}

func TestSolveZoneOffset(t *testing.T) {
	// Shifting the local clock by one hour shifts the result by exactly that.
	p := Params{Lat: 51.5, Lon: 0, Year: 2013, Month: time.March, Day: 20, Direction: Rise}

	utc, err := Solve(p, Options{})
	if err != nil {
		t.Fatal(err)
	}
	p.ZoneOffset = 1
	cet, err := Solve(p, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if diff := cet.D - utc.D; math.Abs(diff-1.0/24) > 2*DefaultTolerance {
		t.Errorf("UTC+1 minus UTC = %v days, want 1/24", diff)
	}
}

func TestSolvePolar(t *testing.T) {
	p := Params{Lat: 78, Lon: 15.6, Year: 2013, Month: time.June, Day: 21, ZoneOffset: 2, Direction: Rise}

	_, err := Solve(p, Options{})
	if !errors.Is(err, sun.ErrAlwaysUp) {
		t.Fatalf("Solve() error = %v, want ErrAlwaysUp", err)
	}

	p.Month = time.December
	_, err = Solve(p, Options{})
	if !errors.Is(err, sun.ErrAlwaysDown) {
		t.Fatalf("Solve() error = %v, want ErrAlwaysDown", err)
	}
}

func TestDefaultSeedIsNoon(t *testing.T) {
	if DefaultSeed != 0.5 {
		t.Errorf("DefaultSeed = %v, want 0.5", DefaultSeed)
	}
	if got := (Options{}).withDefaults().Seed; got != DefaultSeed {
		t.Errorf("withDefaults().Seed = %v", got)
	}
}

func TestSolveIterationLimit(t *testing.T) {
	_, err := Solve(tokyo(Rise), Options{MaxIterations: 1})
	if !errors.Is(err, ErrDidNotConverge) {
		t.Fatalf("Solve() error = %v, want ErrDidNotConverge", err)
	}
}

func TestSolveLogsTrace(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, err := Solve(tokyo(Set), Options{Logger: logger}); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, key := range []string{"solver step", "direction=set", "sidereal=", "dd="} {
		if !strings.Contains(out, key) {
			t.Errorf("trace missing %q:\n%s", key, out)
		}
	}
}
