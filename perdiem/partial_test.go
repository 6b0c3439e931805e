package perdiem_test

import (
	"errors"
	"testing"

	"github.com/warp/expense-engine/perdiem"
)

// =============================================================================
// BAND TABLE TESTS
// =============================================================================

func TestResolvePercentage_BandTable(t *testing.T) {
	// Each band is inclusive of its upper bound.
	cases := []struct {
		elapsed float64
		want    string
	}{
		{0, "12.5"}, // zero resolves to the first band, not 0%
		{0.5, "12.5"},
		{3, "12.5"},
		{3.01, "25"},
		{6, "25"},
		{6.5, "37.5"},
		{9, "37.5"},
		{10, "50"},
		{12, "50"},
		{15, "62.5"},
		{16, "75"},
		{18, "75"},
		{20, "87.5"},
		{21, "87.5"},
		{21.5, "100"},
		{24, "100"},
	}

	for _, c := range cases {
		pct, err := perdiem.ResolvePercentage(c.elapsed)
		if err != nil {
			t.Fatalf("elapsed %v: unexpected error: %v", c.elapsed, err)
		}
		if pct.String() != c.want {
			t.Errorf("elapsed %v: expected %s%%, got %s%%", c.elapsed, c.want, pct)
		}
	}
}

func TestResolvePercentage_OutOfBounds_Rejected(t *testing.T) {
	for _, elapsed := range []float64{-0.1, -5, 24.01, 48} {
		_, err := perdiem.ResolvePercentage(elapsed)
		if err == nil {
			t.Errorf("elapsed %v: expected error, got none", elapsed)
			continue
		}
		if !errors.Is(err, perdiem.ErrInvalidDuration) {
			t.Errorf("elapsed %v: expected ErrInvalidDuration, got %v", elapsed, err)
		}
	}
}

// =============================================================================
// ELAPSED HOURS PER POSITION
// =============================================================================

func TestElapsedHours_FirstDay_MeasuredToMidnight(t *testing.T) {
	// GIVEN: Check-in at 09:00 on the first day
	// WHEN: Computing elapsed hours
	// THEN: 15 hours remain until end of day

	elapsed, err := perdiem.ElapsedHours(perdiem.PositionFirst, clock(9, 0), clock(15, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed != 15 {
		t.Errorf("expected 15 hours, got %v", elapsed)
	}
}

func TestElapsedHours_LastDay_MeasuredFromMidnight(t *testing.T) {
	// GIVEN: Check-out at 15:00 on the last day
	// WHEN: Computing elapsed hours
	// THEN: 15 hours elapsed since start of day

	elapsed, err := perdiem.ElapsedHours(perdiem.PositionLast, clock(9, 0), clock(15, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed != 15 {
		t.Errorf("expected 15 hours, got %v", elapsed)
	}
}

func TestElapsedHours_SingleDay_BetweenTimes(t *testing.T) {
	// GIVEN: A single-day trip, check-in 13:00, check-out 19:00
	// WHEN: Computing elapsed hours
	// THEN: 6 hours, measured directly between the two times

	elapsed, err := perdiem.ElapsedHours(perdiem.PositionSingle, clock(13, 0), clock(19, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed != 6 {
		t.Errorf("expected 6 hours, got %v", elapsed)
	}
}

func TestElapsedHours_SingleDay_CheckOutBeforeCheckIn_Rejected(t *testing.T) {
	_, err := perdiem.ElapsedHours(perdiem.PositionSingle, clock(19, 0), clock(13, 0))
	if !errors.Is(err, perdiem.ErrInvalidDuration) {
		t.Errorf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestElapsedHours_Interior_FullDay(t *testing.T) {
	// Interior days ignore boundary times entirely.
	elapsed, err := perdiem.ElapsedHours(perdiem.PositionInterior, clock(23, 0), clock(1, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed != 24 {
		t.Errorf("expected 24 hours, got %v", elapsed)
	}
}
