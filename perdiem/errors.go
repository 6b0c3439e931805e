/*
errors.go - Centralized error types for the per-diem engine

PURPOSE:
  All engine error types in one place for consistency and discoverability.
  Every failure here is a validation failure over malformed or
  out-of-contract input; none are retryable because the computation is
  pure (no I/O, no transient failure modes).

ERROR CATEGORIES:
  1. Range errors    - end date precedes start date
  2. Duration errors - elapsed hours outside [0, 24]
  3. Input errors    - unknown meal kind, missing/incomplete rate schedule

USAGE:
  Callers match with errors.Is / errors.As:

    if errors.Is(err, perdiem.ErrInvalidRange) {
        // surface an inline form warning
    }

SEE ALSO:
  - partial.go: Raises InvalidDurationError
  - trip.go: Raises InvalidRangeError before any partial computation
*/
package perdiem

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRange is returned when a trip's end date precedes its start date.
	ErrInvalidRange = errors.New("invalid range: end date before start date")

	// ErrInvalidDuration is returned when an elapsed-hours value falls
	// outside [0, 24].
	ErrInvalidDuration = errors.New("invalid duration: elapsed hours outside [0, 24]")

	// ErrUnknownMealKind is returned when a meal kind outside
	// {breakfast, lunch, dinner} appears in input.
	ErrUnknownMealKind = errors.New("unknown meal kind")

	// ErrMissingSchedule is returned when the daily rate schedule is absent
	// or incomplete at calculation time.
	ErrMissingSchedule = errors.New("missing or incomplete rate schedule")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidRangeError reports the offending trip boundary dates.
type InvalidRangeError struct {
	Start CalendarDate
	End   CalendarDate
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: end %s before start %s", e.End, e.Start)
}

func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }

// InvalidDurationError reports an out-of-bounds elapsed-hours value.
type InvalidDurationError struct {
	ElapsedHours float64
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("invalid duration: %.2f elapsed hours outside [0, 24]", e.ElapsedHours)
}

func (e *InvalidDurationError) Unwrap() error { return ErrInvalidDuration }

// UnknownMealKindError reports a meal name outside the closed enumeration.
type UnknownMealKindError struct {
	Kind string
}

func (e *UnknownMealKindError) Error() string {
	return fmt.Sprintf("unknown meal kind %q (want breakfast, lunch, or dinner)", e.Kind)
}

func (e *UnknownMealKindError) Unwrap() error { return ErrUnknownMealKind }

// MissingScheduleError reports why a rate schedule was rejected.
type MissingScheduleError struct {
	Reason string
}

func (e *MissingScheduleError) Error() string {
	return fmt.Sprintf("missing schedule: %s", e.Reason)
}

func (e *MissingScheduleError) Unwrap() error { return ErrMissingSchedule }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
// Every engine error is; this helper exists so transport layers map the
// whole taxonomy to a 4xx without enumerating it.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidDuration) ||
		errors.Is(err, ErrUnknownMealKind) ||
		errors.Is(err, ErrMissingSchedule)
}
