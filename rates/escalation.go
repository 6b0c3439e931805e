package rates

// =============================================================================
// MULTI-LOCATION ESCALATION - Caller-side precondition for the engine
// =============================================================================

// DistinctPostalCodes returns the unique non-empty postal codes across a
// trip's stops, preserving first-seen order.
func DistinctPostalCodes(postalCodes []string) []string {
	var distinct []string
	seen := make(map[string]bool, len(postalCodes))
	for _, code := range postalCodes {
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		distinct = append(distinct, code)
	}
	return distinct
}

// RequiresManualCalculation reports whether a trip spans more than one
// distinct location. When true, the engine must not be invoked
// automatically; the trip is flagged for manual calculation instead.
// This policy lives with the caller, never inside the engine.
func RequiresManualCalculation(postalCodes []string) bool {
	return len(DistinctPostalCodes(postalCodes)) > 1
}

// PrimaryPostalCode returns the rate-lookup location for a single-location
// trip: the first non-empty postal code, or "" when none is recorded
// (which resolves to the standard rate).
func PrimaryPostalCode(postalCodes []string) string {
	distinct := DistinctPostalCodes(postalCodes)
	if len(distinct) == 0 {
		return ""
	}
	return distinct[0]
}
