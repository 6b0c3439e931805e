/*
Package rates provides location-based daily rate schedules for the per-diem
engine.

PURPOSE:
  The engine treats DailyRateSchedule as a constant input; this package is
  the lookup that produces it. Schedules are keyed by postal code, with a
  standard fallback rate for locations that carry no specific entry.

AVAILABLE CATALOGS:
  StaticCatalog: Built-in table of common localities plus the standard rate
  StoreCatalog:  Persisted overrides (sqlite) falling back to another catalog

STANDARD RATE:
  Base $74.00/day with meal deductions of $18 breakfast, $20 lunch,
  $31 dinner. Higher-cost localities carry proportionally higher rates.

SEE ALSO:
  - escalation.go: Multi-location manual-calculation policy
  - perdiem/types.go: DailyRateSchedule definition and validation
*/
package rates

import (
	"context"
	"fmt"

	"github.com/warp/expense-engine/perdiem"
)

// Catalog resolves the rate schedule for a postal code.
type Catalog interface {
	// Schedule returns a validated DailyRateSchedule for the location.
	Schedule(ctx context.Context, postalCode string) (perdiem.DailyRateSchedule, error)
}

// =============================================================================
// STANDARD RATES
// =============================================================================

// DefaultMealRates are the standard per-meal deduction values. They are
// defaults for catalog construction only; the engine always reads rates
// from the schedule it is handed.
func DefaultMealRates() perdiem.MealRates {
	return perdiem.MealRates{
		Breakfast: perdiem.NewMoney(18),
		Lunch:     perdiem.NewMoney(20),
		Dinner:    perdiem.NewMoney(31),
	}
}

// StandardSchedule is the fallback schedule for locations without a
// specific entry.
func StandardSchedule() perdiem.DailyRateSchedule {
	return perdiem.DailyRateSchedule{
		BaseDailyRate: perdiem.NewMoney(74),
		MealRates:     DefaultMealRates(),
	}
}

// NewSchedule builds a schedule with the given base rate and the tiered
// meal rates that accompany it.
func NewSchedule(baseRate, breakfast, lunch, dinner float64) perdiem.DailyRateSchedule {
	return perdiem.DailyRateSchedule{
		BaseDailyRate: perdiem.NewMoney(baseRate),
		MealRates: perdiem.MealRates{
			Breakfast: perdiem.NewMoney(breakfast),
			Lunch:     perdiem.NewMoney(lunch),
			Dinner:    perdiem.NewMoney(dinner),
		},
	}
}

// =============================================================================
// STATIC CATALOG - Built-in locality table with standard fallback
// =============================================================================

type StaticCatalog struct {
	schedules map[string]perdiem.DailyRateSchedule
	fallback  perdiem.DailyRateSchedule
}

// NewStaticCatalog returns a catalog preloaded with a handful of
// high-cost localities. Everything else resolves to the standard rate.
func NewStaticCatalog() *StaticCatalog {
	return &StaticCatalog{
		schedules: map[string]perdiem.DailyRateSchedule{
			"10001": NewSchedule(92, 23, 26, 39), // New York, NY
			"94103": NewSchedule(92, 23, 26, 39), // San Francisco, CA
			"60601": NewSchedule(86, 22, 24, 36), // Chicago, IL
			"20001": NewSchedule(92, 23, 26, 39), // Washington, DC
			"02108": NewSchedule(86, 22, 24, 36), // Boston, MA
			"98101": NewSchedule(86, 22, 24, 36), // Seattle, WA
		},
		fallback: StandardSchedule(),
	}
}

func (c *StaticCatalog) Schedule(_ context.Context, postalCode string) (perdiem.DailyRateSchedule, error) {
	if s, ok := c.schedules[postalCode]; ok {
		return s, c.validated(postalCode, s)
	}
	return c.fallback, c.validated(postalCode, c.fallback)
}

func (c *StaticCatalog) validated(postalCode string, s perdiem.DailyRateSchedule) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("rate schedule for %s: %w", postalCode, err)
	}
	return nil
}

// =============================================================================
// STORE CATALOG - Persisted overrides with fallback
// =============================================================================

// ScheduleStore is the persistence surface a StoreCatalog reads from.
// Implemented by store/sqlite.Store.
type ScheduleStore interface {
	// GetRateSchedule returns nil (no error) when the postal code has no
	// persisted override.
	GetRateSchedule(ctx context.Context, postalCode string) (*perdiem.DailyRateSchedule, error)
}

type StoreCatalog struct {
	store    ScheduleStore
	fallback Catalog
}

func NewStoreCatalog(store ScheduleStore, fallback Catalog) *StoreCatalog {
	return &StoreCatalog{store: store, fallback: fallback}
}

func (c *StoreCatalog) Schedule(ctx context.Context, postalCode string) (perdiem.DailyRateSchedule, error) {
	s, err := c.store.GetRateSchedule(ctx, postalCode)
	if err != nil {
		return perdiem.DailyRateSchedule{}, fmt.Errorf("rate lookup for %s: %w", postalCode, err)
	}
	if s != nil {
		if err := s.Validate(); err != nil {
			return perdiem.DailyRateSchedule{}, fmt.Errorf("rate schedule for %s: %w", postalCode, err)
		}
		return *s, nil
	}
	return c.fallback.Schedule(ctx, postalCode)
}
