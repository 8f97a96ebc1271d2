package sunclock

import (
	"testing"
	"time"
	_ "time/tzdata"
)

// local helper (we don't care if there's also one in other *_test.go files).
func diffMinutesDebug(a, b time.Time) float64 {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d.Minutes()
}

// TestEphemeris compares rise/set against published almanac values for a
// handful of locations and dates. Every case must be within two minutes;
// the logged errors are useful when tuning the model:
//
//	go test -run TestEphemeris -v
func TestEphemeris(t *testing.T) {
	locPHX, err := time.LoadLocation("America/Phoenix")
	if err != nil {
		t.Fatalf("failed to load America/Phoenix: %v", err)
	}
	locNY, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("failed to load America/New_York: %v", err)
	}
	locTYO, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("failed to load Asia/Tokyo: %v", err)
	}

	type ephemCase struct {
		name         string
		coords       Coordinates
		date         time.Time // local date (uses location)
		expectedRise time.Time // in same location as date
		expectedSet  time.Time // in same location as date
	}

	phoenix := Coordinates{Lat: 33.4484, Lon: -112.0740}
	newYork := Coordinates{Lat: 40.7128, Lon: -74.0060}
	tokyo := Coordinates{Lat: 35.6544, Lon: 139.7447}

	cases := []ephemCase{
		// Sun reference: sunrise ≈ 07:13, sunset ≈ 17:21 (local, America/Phoenix)
		{
			name:         "Phoenix 2025-11-30",
			coords:       phoenix,
			date:         time.Date(2025, time.November, 30, 0, 0, 0, 0, locPHX),
			expectedRise: time.Date(2025, time.November, 30, 7, 13, 0, 0, locPHX),
			expectedSet:  time.Date(2025, time.November, 30, 17, 21, 0, 0, locPHX),
		},
		// Sun reference: sunrise ≈ 07:28, sunset ≈ 17:25 (local, America/Phoenix)
		{
			name:         "Phoenix 2025-12-21",
			coords:       phoenix,
			date:         time.Date(2025, time.December, 21, 0, 0, 0, 0, locPHX),
			expectedRise: time.Date(2025, time.December, 21, 7, 28, 0, 0, locPHX),
			expectedSet:  time.Date(2025, time.December, 21, 17, 25, 0, 0, locPHX),
		},
		// Sun reference: sunrise ≈ 06:59, sunset ≈ 16:31 (local, America/New_York)
		{
			name:         "NewYork 2025-11-30",
			coords:       newYork,
			date:         time.Date(2025, time.November, 30, 0, 0, 0, 0, locNY),
			expectedRise: time.Date(2025, time.November, 30, 6, 59, 0, 0, locNY),
			expectedSet:  time.Date(2025, time.November, 30, 16, 31, 0, 0, locNY),
		},
		// Sun reference: sunrise ≈ 06:51, sunset ≈ 16:38 (local, Asia/Tokyo)
		{
			name:         "Tokyo 2013-01-01",
			coords:       tokyo,
			date:         time.Date(2013, time.January, 1, 0, 0, 0, 0, locTYO),
			expectedRise: time.Date(2013, time.January, 1, 6, 51, 0, 0, locTYO),
			expectedSet:  time.Date(2013, time.January, 1, 16, 38, 0, 0, locTYO),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rs, err := RiseSetFor(tc.coords, tc.date)
			if err != nil {
				t.Fatalf("[%s] error from RiseSetFor: %v", tc.name, err)
			}

			loc := tc.date.Location()
			gotRise := rs.Rise.In(loc)
			gotSet := rs.Set.In(loc)

			riseErr := diffMinutesDebug(gotRise, tc.expectedRise)
			setErr := diffMinutesDebug(gotSet, tc.expectedSet)

			t.Logf("[%s]:", tc.name)
			t.Logf("  Expected rise: %v", tc.expectedRise)
			t.Logf("  Got      rise: %v", gotRise)
			t.Logf("  Rise error: %.2f minutes", riseErr)
			t.Logf("  Expected set : %v", tc.expectedSet)
			t.Logf("  Got      set : %v", gotSet)
			t.Logf("  Set error : %.2f minutes", setErr)

			if riseErr > 2 || setErr > 2 {
				t.Errorf("[%s] rise error %.2f min, set error %.2f min, want <= 2", tc.name, riseErr, setErr)
			}
		})
	}
}
