/*
trip.go - Whole-trip allowance aggregation

PURPOSE:
  Expands the trip's date range, classifies each day's position, computes
  each day via day.go, and sums the totals. All-or-nothing: any error from
  range expansion, percentage resolution, or meal deduction propagates
  without a partial result.

CALLER PRECONDITION (not enforced here):
  A trip spanning more than one distinct location (postal code) must not
  be computed automatically; the caller flags it for manual calculation
  instead of invoking this function. See rates.RequiresManualCalculation.

SEE ALSO:
  - calendar.go: ExpandRange
  - day.go: Per-day computation
*/
package perdiem

// ClassifyPosition returns the partial-day rule that applies to the day at
// index i of a trip spanning total days.
func ClassifyPosition(i, total int) DayPosition {
	switch {
	case total == 1:
		return PositionSingle
	case i == 0:
		return PositionFirst
	case i == total-1:
		return PositionLast
	default:
		return PositionInterior
	}
}

// ComputeTrip computes the full allowance for a trip. The result's days
// preserve date order and the totals are exact sums of the per-day values.
// Identical inputs always yield a structurally identical result; every
// invocation builds a fresh result and never retains or mutates inputs
// beyond reading them.
func ComputeTrip(window TripWindow, schedule DailyRateSchedule, provided ProvidedMealsByDay) (*TripAllowanceResult, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if err := schedule.Validate(); err != nil {
		return nil, err
	}

	dates, err := ExpandRange(window.StartDate, window.EndDate)
	if err != nil {
		return nil, err
	}

	result := &TripAllowanceResult{
		Days:                make([]DailyAllowanceResult, 0, len(dates)),
		TotalMealDeduction:  ZeroMoney(),
		TotalEligibleAmount: ZeroMoney(),
	}

	for i, date := range dates {
		position := ClassifyPosition(i, len(dates))

		day, err := ComputeDay(date, position, window.CheckInTime, window.CheckOutTime, schedule, provided.MealsOn(date))
		if err != nil {
			return nil, err
		}

		result.Days = append(result.Days, day)
		result.TotalMealDeduction = result.TotalMealDeduction.Add(day.MealDeduction)
		result.TotalEligibleAmount = result.TotalEligibleAmount.Add(day.EligibleAmount)
	}

	return result, nil
}
