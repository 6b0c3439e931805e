/*
Package perdiem implements the travel per-diem allowance calculation engine.

PURPOSE:
  This package contains the pure computation core for reimbursable travel
  allowances. Given a trip's date range, check-in/check-out times, a daily
  rate schedule, and which meals were employer-provided on which days, it
  computes a per-calendar-day allowance and a trip total.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: A monetary amount backed by decimal.Decimal
  - MealKind: Closed enumeration of deductible meals
  - TripWindow: The immutable trip boundary (dates + boundary times)
  - DailyRateSchedule: Location-derived base rate and per-meal rates
  - DailyAllowanceResult / TripAllowanceResult: Audit-complete outputs

DESIGN PRINCIPLES:
  1. Purity: No I/O, no shared state; same inputs always yield same outputs
  2. Precision: Uses decimal.Decimal to avoid floating-point money errors
  3. Auditability: Results record every intermediate value (percentage,
     prorated base, deduction) so no consumer ever recomputes
  4. No clamping: A day's eligible amount may be negative; presentation
     decisions belong to the caller

USAGE:
  window := perdiem.TripWindow{
      StartDate:    perdiem.NewDate(2025, time.April, 1),
      EndDate:      perdiem.NewDate(2025, time.April, 3),
      CheckInTime:  perdiem.NewClockTime(9, 0),
      CheckOutTime: perdiem.NewClockTime(15, 0),
  }
  result, err := perdiem.ComputeTrip(window, schedule, provided)

SEE ALSO:
  - calendar.go: CalendarDate, ClockTime, range expansion
  - partial.go: Elapsed-hours banding for boundary days
  - trip.go: Whole-trip aggregation
*/
package perdiem

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Monetary amount (currency formatting is the caller's concern)
// =============================================================================

type Money struct {
	Value decimal.Decimal
}

func NewMoney(value float64) Money {
	return Money{Value: decimal.NewFromFloat(value)}
}

func NewMoneyFromInt(value int) Money {
	return Money{Value: decimal.NewFromInt(int64(value))}
}

func ZeroMoney() Money {
	return Money{Value: decimal.Zero}
}

func MustParseMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ZeroMoney()
	}
	return Money{Value: d}
}

func (m Money) Add(o Money) Money                { return Money{Value: m.Value.Add(o.Value)} }
func (m Money) Sub(o Money) Money                { return Money{Value: m.Value.Sub(o.Value)} }
func (m Money) Mul(s decimal.Decimal) Money      { return Money{Value: m.Value.Mul(s)} }
func (m Money) Div(s decimal.Decimal) Money      { return Money{Value: m.Value.Div(s)} }
func (m Money) Neg() Money                       { return Money{Value: m.Value.Neg()} }
func (m Money) IsNegative() bool                 { return m.Value.IsNegative() }
func (m Money) IsZero() bool                     { return m.Value.IsZero() }
func (m Money) IsPositive() bool                 { return m.Value.IsPositive() }
func (m Money) Equal(o Money) bool               { return m.Value.Equal(o.Value) }
func (m Money) GreaterThan(o Money) bool         { return m.Value.GreaterThan(o.Value) }
func (m Money) LessThan(o Money) bool            { return m.Value.LessThan(o.Value) }
func (m Money) String() string                   { return m.Value.StringFixed(2) }

// =============================================================================
// MEAL KIND - Closed enumeration of deductible meals
// =============================================================================

type MealKind string

const (
	MealBreakfast MealKind = "breakfast"
	MealLunch     MealKind = "lunch"
	MealDinner    MealKind = "dinner"
)

// AllMealKinds lists every valid meal kind, in deduction-display order.
var AllMealKinds = []MealKind{MealBreakfast, MealLunch, MealDinner}

// ParseMealKind validates an externally supplied meal name.
func ParseMealKind(s string) (MealKind, error) {
	switch MealKind(s) {
	case MealBreakfast, MealLunch, MealDinner:
		return MealKind(s), nil
	}
	return "", &UnknownMealKindError{Kind: s}
}

// MealSet is the set of meals provided on a single day. Order is not
// significant and duplicates never deduct twice (see MealDeduction).
type MealSet []MealKind

func (s MealSet) Contains(kind MealKind) bool {
	for _, k := range s {
		if k == kind {
			return true
		}
	}
	return false
}

// =============================================================================
// RATE SCHEDULE - Location-derived rates, supplied by the caller
// =============================================================================

// MealRates holds the deduction value of each employer-provided meal.
type MealRates struct {
	Breakfast Money
	Lunch     Money
	Dinner    Money
}

// Rate returns the deduction for a single meal kind.
func (r MealRates) Rate(kind MealKind) (Money, error) {
	switch kind {
	case MealBreakfast:
		return r.Breakfast, nil
	case MealLunch:
		return r.Lunch, nil
	case MealDinner:
		return r.Dinner, nil
	}
	return ZeroMoney(), &UnknownMealKindError{Kind: string(kind)}
}

// DailyRateSchedule is the per-location rate input to the engine. It is
// obtained from an external location-rate lookup (see the rates package)
// and treated as a constant for the duration of one calculation.
type DailyRateSchedule struct {
	BaseDailyRate Money
	MealRates     MealRates
}

// Validate reports a MissingScheduleError when the schedule is absent or
// incomplete. The engine refuses to compute with a zero or negative base
// rate or with any unset meal rate.
func (s DailyRateSchedule) Validate() error {
	if !s.BaseDailyRate.IsPositive() {
		return &MissingScheduleError{Reason: "base daily rate is not set"}
	}
	for _, kind := range AllMealKinds {
		rate, err := s.MealRates.Rate(kind)
		if err != nil {
			return err
		}
		if rate.IsNegative() {
			return &MissingScheduleError{Reason: "meal rate for " + string(kind) + " is negative"}
		}
		if rate.IsZero() {
			return &MissingScheduleError{Reason: "meal rate for " + string(kind) + " is not set"}
		}
	}
	return nil
}

// =============================================================================
// TRIP WINDOW - The trip boundary, immutable for one calculation
// =============================================================================

type TripWindow struct {
	StartDate    CalendarDate
	EndDate      CalendarDate
	CheckInTime  ClockTime
	CheckOutTime ClockTime
}

// Validate enforces StartDate <= EndDate.
func (w TripWindow) Validate() error {
	if w.EndDate.Before(w.StartDate) {
		return &InvalidRangeError{Start: w.StartDate, End: w.EndDate}
	}
	return nil
}

// IsSingleDay reports whether the trip covers exactly one calendar day,
// in which case boundary resolution uses both times against each other.
func (w TripWindow) IsSingleDay() bool {
	return w.StartDate.Equal(w.EndDate)
}

// =============================================================================
// DAY POSITION - Which partial-day rule applies to a date
// =============================================================================

type DayPosition string

const (
	PositionFirst    DayPosition = "first"
	PositionInterior DayPosition = "interior"
	PositionLast     DayPosition = "last"
	PositionSingle   DayPosition = "single"
)

// =============================================================================
// PROVIDED MEALS - Per-day meal provisioning, read-only to the engine
// =============================================================================

// ProvidedMealsByDay maps an ISO date key (CalendarDate.Key()) to the meals
// provided that day. Absence of a key means no meals were provided. The
// engine only ever reads this map; the caller rebuilds or mutates it before
// each recalculation.
type ProvidedMealsByDay map[string]MealSet

// MealsOn returns the meals provided on the given date (nil when none).
func (p ProvidedMealsByDay) MealsOn(date CalendarDate) MealSet {
	if p == nil {
		return nil
	}
	return p[date.Key()]
}

// =============================================================================
// RESULTS - Freshly constructed per calculation, never mutated
// =============================================================================

// DailyAllowanceResult is one day's eligible amount plus the full audit
// breakdown. Every intermediate value is recorded so the result is
// self-explanatory without recomputation.
type DailyAllowanceResult struct {
	Date     CalendarDate
	Position DayPosition

	// ElapsedHours is set only for boundary days (first/last/single);
	// nil for interior days, which are always a full day present.
	ElapsedHours *float64

	PercentageApplied decimal.Decimal
	BaseRate          Money // the schedule's full daily rate
	BaseForDay        Money // prorated by PercentageApplied

	MealsProvided MealSet
	MealDeduction Money

	// EligibleAmount = BaseForDay - MealDeduction. May be negative when
	// provided meals exceed the prorated base; the engine does not clamp.
	EligibleAmount Money
}

// TripAllowanceResult is the complete outcome of one trip calculation,
// owned exclusively by the caller that requested it.
type TripAllowanceResult struct {
	Days                []DailyAllowanceResult
	TotalMealDeduction  Money
	TotalEligibleAmount Money
}
