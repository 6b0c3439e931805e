package perdiem

// =============================================================================
// MEAL DEDUCTION - Sum of provided-meal rates for one day
// =============================================================================

// MealDeduction returns the total deduction for a day's provided meals.
// Rates always come from the supplied MealRates, never from constants
// baked into the engine. An empty set yields zero. A meal kind outside
// the closed enumeration fails with UnknownMealKindError. Set semantics:
// a duplicated kind deducts once.
func MealDeduction(meals MealSet, rates MealRates) (Money, error) {
	total := ZeroMoney()
	seen := make(map[MealKind]bool, len(meals))

	for _, kind := range meals {
		rate, err := rates.Rate(kind)
		if err != nil {
			return ZeroMoney(), err
		}
		if seen[kind] {
			continue
		}
		seen[kind] = true
		total = total.Add(rate)
	}
	return total, nil
}
