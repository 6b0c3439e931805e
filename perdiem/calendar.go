package perdiem

import (
	"fmt"
	"time"
)

// =============================================================================
// CALENDAR DATE - Day-granularity date (trips are keyed by calendar days)
// =============================================================================

type CalendarDate struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) CalendarDate {
	return CalendarDate{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO date (YYYY-MM-DD).
func ParseDate(s string) (CalendarDate, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return CalendarDate{Time: t}, nil
}

// Comparison
func (d CalendarDate) Before(other CalendarDate) bool { return d.normalize().Before(other.normalize()) }
func (d CalendarDate) Equal(other CalendarDate) bool  { return d.normalize().Equal(other.normalize()) }
func (d CalendarDate) After(other CalendarDate) bool  { return d.normalize().After(other.normalize()) }
func (d CalendarDate) BeforeOrEqual(other CalendarDate) bool {
	return d.Before(other) || d.Equal(other)
}

func (d CalendarDate) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d CalendarDate) AddDays(n int) CalendarDate {
	return CalendarDate{Time: d.Time.AddDate(0, 0, n)}
}

// Properties
func (d CalendarDate) Year() int         { return d.Time.Year() }
func (d CalendarDate) Month() time.Month { return d.Time.Month() }
func (d CalendarDate) Day() int          { return d.Time.Day() }
func (d CalendarDate) IsZero() bool      { return d.Time.IsZero() }

// Key returns the ISO form used as the ProvidedMealsByDay map key.
func (d CalendarDate) Key() string    { return d.normalize().Format("2006-01-02") }
func (d CalendarDate) String() string { return d.Key() }

// =============================================================================
// CLOCK TIME - Time of day on a boundary day
// =============================================================================

type ClockTime struct {
	Hour   int
	Minute int
}

func NewClockTime(hour, minute int) ClockTime {
	return ClockTime{Hour: hour, Minute: minute}
}

// ParseClock parses a 24-hour HH:MM time.
func ParseClock(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid time %q (use HH:MM): %w", s, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// HoursFromMidnight returns the fractional hours elapsed since 00:00.
func (c ClockTime) HoursFromMidnight() float64 {
	return float64(c.Hour) + float64(c.Minute)/60
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// =============================================================================
// RANGE EXPANSION - Trip window to ordered calendar days
// =============================================================================

// ExpandRange returns every calendar day from start to end inclusive, in
// ascending order. A single-day trip yields a one-element sequence. The
// expansion is a pure function: no state, restartable, deterministic.
func ExpandRange(start, end CalendarDate) ([]CalendarDate, error) {
	if end.Before(start) {
		return nil, &InvalidRangeError{Start: start, End: end}
	}

	var days []CalendarDate
	current := start
	for current.BeforeOrEqual(end) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days, nil
}
