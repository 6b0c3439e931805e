/*
partial.go - Partial-day percentage resolution

PURPOSE:
  Maps elapsed hours on a boundary day to a percentage of the base daily
  rate, using eight fixed 3-hour bands. Interior days of a multi-day trip
  are always a full day present, so they resolve to 100% without consulting
  check-in/check-out times.

BAND TABLE (upper bound inclusive):
  (0,  3] -> 12.5%     (12, 15] -> 62.5%
  (3,  6] -> 25%       (15, 18] -> 75%
  (6,  9] -> 37.5%     (18, 21] -> 87.5%
  (9, 12] -> 50%       (21, 24] -> 100%

  Exactly 0 elapsed hours resolves to the first band (12.5%), not 0%:
  a traveler present at all on a day is owed at least the minimum band.

ELAPSED-HOURS RULES PER POSITION:
  first:    hours remaining from check-in to end of day (24:00)
  last:     hours elapsed from start of day (00:00) to check-out
  single:   hours between check-in and check-out directly
  interior: full 24 hours (always resolves to 100%)

SEE ALSO:
  - day.go: Combines percentage, base rate, and meal deduction
*/
package perdiem

import (
	"github.com/shopspring/decimal"
)

const (
	bandWidthHours = 3.0
	hoursPerDay    = 24.0
)

// bandPercentages holds the eight band values in ascending band order.
var bandPercentages = [8]decimal.Decimal{
	decimal.NewFromFloat(12.5),
	decimal.NewFromFloat(25),
	decimal.NewFromFloat(37.5),
	decimal.NewFromFloat(50),
	decimal.NewFromFloat(62.5),
	decimal.NewFromFloat(75),
	decimal.NewFromFloat(87.5),
	decimal.NewFromFloat(100),
}

// ResolvePercentage buckets an elapsed-hours value into its band percentage.
// Values outside [0, 24] fail with InvalidDurationError.
func ResolvePercentage(elapsedHours float64) (decimal.Decimal, error) {
	if elapsedHours < 0 || elapsedHours > hoursPerDay {
		return decimal.Zero, &InvalidDurationError{ElapsedHours: elapsedHours}
	}

	// Walk the band upper bounds; each band is inclusive of its upper
	// bound, and 0 falls into the first band.
	for band := 0; band < len(bandPercentages); band++ {
		upper := bandWidthHours * float64(band+1)
		if elapsedHours <= upper {
			return bandPercentages[band], nil
		}
	}
	return bandPercentages[len(bandPercentages)-1], nil
}

// ElapsedHours returns the elapsed-hours value for a day at the given
// position. Interior days report the full 24 hours, which the band table
// resolves to 100%. A single-day window where check-out precedes check-in
// fails with InvalidDurationError.
func ElapsedHours(position DayPosition, checkIn, checkOut ClockTime) (float64, error) {
	switch position {
	case PositionFirst:
		return hoursPerDay - checkIn.HoursFromMidnight(), nil
	case PositionLast:
		return checkOut.HoursFromMidnight(), nil
	case PositionSingle:
		elapsed := checkOut.HoursFromMidnight() - checkIn.HoursFromMidnight()
		if elapsed < 0 {
			return 0, &InvalidDurationError{ElapsedHours: elapsed}
		}
		return elapsed, nil
	default:
		return hoursPerDay, nil
	}
}
