/*
day.go - Single-day allowance computation

PURPOSE:
  Combines partial-day percentage resolution and meal deduction into one
  day's eligible amount, recording every intermediate value so the result
  is fully self-explanatory for display and audit.

ALGORITHM:
  1. Resolve percentageApplied from the day's position and boundary times
  2. baseForDay = baseDailyRate * percentageApplied / 100
  3. mealDeduction = sum of provided-meal rates
  4. eligibleAmount = baseForDay - mealDeduction  (NOT clamped at zero)

SEE ALSO:
  - partial.go: Band table and elapsed-hours rules
  - trip.go: Runs this over every day of a trip
*/
package perdiem

import (
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// ComputeDay computes the allowance for a single day of a trip.
//
// For boundary positions (first/last/single) the elapsed hours are derived
// from checkIn/checkOut per the position's rule and recorded on the result.
// Interior days skip the boundary rules entirely and always apply 100%.
//
// The eligible amount may be negative when provided meals exceed the
// prorated base rate; the engine reports the raw value and leaves any
// flooring decision to the caller.
func ComputeDay(date CalendarDate, position DayPosition, checkIn, checkOut ClockTime, schedule DailyRateSchedule, meals MealSet) (DailyAllowanceResult, error) {
	if err := schedule.Validate(); err != nil {
		return DailyAllowanceResult{}, err
	}

	var (
		percentage   decimal.Decimal
		elapsedHours *float64
	)

	if position == PositionInterior {
		percentage = bandPercentages[len(bandPercentages)-1]
	} else {
		elapsed, err := ElapsedHours(position, checkIn, checkOut)
		if err != nil {
			return DailyAllowanceResult{}, err
		}
		percentage, err = ResolvePercentage(elapsed)
		if err != nil {
			return DailyAllowanceResult{}, err
		}
		elapsedHours = &elapsed
	}

	baseForDay := schedule.BaseDailyRate.Mul(percentage).Div(oneHundred)

	deduction, err := MealDeduction(meals, schedule.MealRates)
	if err != nil {
		return DailyAllowanceResult{}, err
	}

	return DailyAllowanceResult{
		Date:              date,
		Position:          position,
		ElapsedHours:      elapsedHours,
		PercentageApplied: percentage,
		BaseRate:          schedule.BaseDailyRate,
		BaseForDay:        baseForDay,
		MealsProvided:     meals,
		MealDeduction:     deduction,
		EligibleAmount:    baseForDay.Sub(deduction),
	}, nil
}
