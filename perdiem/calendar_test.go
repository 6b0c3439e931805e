package perdiem_test

import (
	"errors"
	"testing"
	"time"

	"github.com/warp/expense-engine/perdiem"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(year int, month time.Month, day int) perdiem.CalendarDate {
	return perdiem.NewDate(year, month, day)
}

func clock(hour, minute int) perdiem.ClockTime {
	return perdiem.NewClockTime(hour, minute)
}

// =============================================================================
// RANGE EXPANSION TESTS
// =============================================================================

func TestExpandRange_SingleDay_OneElement(t *testing.T) {
	// GIVEN: A trip where start == end
	// WHEN: Expanding the range
	// THEN: Exactly one day comes back

	days, err := perdiem.ExpandRange(date(2025, time.April, 1), date(2025, time.April, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}
	if days[0].Key() != "2025-04-01" {
		t.Errorf("expected 2025-04-01, got %s", days[0].Key())
	}
}

func TestExpandRange_MultiDay_OrderedInclusive(t *testing.T) {
	// GIVEN: A 3-day trip Apr 1 - Apr 3
	// WHEN: Expanding the range
	// THEN: Days come back inclusive and ascending

	days, err := perdiem.ExpandRange(date(2025, time.April, 1), date(2025, time.April, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"2025-04-01", "2025-04-02", "2025-04-03"}
	if len(days) != len(want) {
		t.Fatalf("expected %d days, got %d", len(want), len(days))
	}
	for i, w := range want {
		if days[i].Key() != w {
			t.Errorf("day %d: expected %s, got %s", i, w, days[i].Key())
		}
	}
}

func TestExpandRange_CrossesMonthBoundary(t *testing.T) {
	days, err := perdiem.ExpandRange(date(2025, time.April, 29), date(2025, time.May, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 4 {
		t.Fatalf("expected 4 days, got %d", len(days))
	}
	if days[2].Key() != "2025-05-01" {
		t.Errorf("expected 2025-05-01, got %s", days[2].Key())
	}
}

func TestExpandRange_EndBeforeStart_Rejected(t *testing.T) {
	// GIVEN: end < start
	// WHEN: Expanding the range
	// THEN: InvalidRangeError, no partial result

	days, err := perdiem.ExpandRange(date(2025, time.April, 3), date(2025, time.April, 1))

	if err == nil {
		t.Fatal("expected error, got none")
	}
	if !errors.Is(err, perdiem.ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
	var rangeErr *perdiem.InvalidRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected InvalidRangeError, got %T", err)
	}
	if days != nil {
		t.Errorf("expected no partial result, got %d days", len(days))
	}
}

func TestExpandRange_Deterministic(t *testing.T) {
	// Pure function: two expansions of the same range are identical.
	a, _ := perdiem.ExpandRange(date(2025, time.June, 10), date(2025, time.June, 14))
	b, _ := perdiem.ExpandRange(date(2025, time.June, 10), date(2025, time.June, 14))

	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			t.Errorf("day %d differs: %s vs %s", i, a[i], b[i])
		}
	}
}

// =============================================================================
// PARSING TESTS
// =============================================================================

func TestParseDate_ISO(t *testing.T) {
	d, err := perdiem.ParseDate("2025-04-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2025 || d.Month() != time.April || d.Day() != 1 {
		t.Errorf("parsed wrong date: %s", d)
	}

	if _, err := perdiem.ParseDate("04/01/2025"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestParseClock_HoursFromMidnight(t *testing.T) {
	c, err := perdiem.ParseClock("13:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.HoursFromMidnight() != 13.5 {
		t.Errorf("expected 13.5 hours, got %v", c.HoursFromMidnight())
	}

	if _, err := perdiem.ParseClock("25:00"); err == nil {
		t.Error("expected error for out-of-range hour")
	}
}
