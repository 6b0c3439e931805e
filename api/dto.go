/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY ENCODING:
  Monetary values are emitted as JSON numbers (two-decimal semantics);
  currency symbols, locale formatting, and PDF/export rendering are the
  client's responsibility.

SEE ALSO:
  - handlers.go: Uses these types
  - perdiem/types.go: The engine types these project
*/
package api

import (
	"time"

	"github.com/warp/expense-engine/perdiem"
	"github.com/warp/expense-engine/store/sqlite"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// TripDTO represents a trip in API responses.
type TripDTO struct {
	ID           string   `json:"id"`
	EmployeeID   string   `json:"employee_id"`
	PostalCodes  []string `json:"postal_codes"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	CheckInTime  string   `json:"check_in_time"`
	CheckOutTime string   `json:"check_out_time"`
	CreatedAt    string   `json:"created_at,omitempty"`
}

// CreateTripRequest is the request to create a trip.
type CreateTripRequest struct {
	EmployeeID   string   `json:"employee_id"`
	PostalCodes  []string `json:"postal_codes"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	CheckInTime  string   `json:"check_in_time"`
	CheckOutTime string   `json:"check_out_time"`
}

// UpdateMealsRequest replaces a trip's provided-meals state: a map from
// ISO date to the meal names provided that day.
type UpdateMealsRequest struct {
	Meals map[string][]string `json:"meals"`
}

// DailyAllowanceDTO is one row of the day-by-day breakdown table.
type DailyAllowanceDTO struct {
	Date              string   `json:"date"`
	Position          string   `json:"position"`
	ElapsedHours      *float64 `json:"elapsed_hours,omitempty"`
	PercentageApplied float64  `json:"percentage_applied"`
	BaseRate          float64  `json:"base_rate"`
	BaseForDay        float64  `json:"base_for_day"`
	MealsProvided     []string `json:"meals_provided"`
	MealDeduction     float64  `json:"meal_deduction"`
	EligibleAmount    float64  `json:"eligible_amount"`
}

// TripAllowanceDTO is the computed allowance for a whole trip.
type TripAllowanceDTO struct {
	TripID              string              `json:"trip_id"`
	PostalCode          string              `json:"postal_code"`
	Days                []DailyAllowanceDTO `json:"days"`
	TotalMealDeduction  float64             `json:"total_meal_deduction"`
	TotalEligibleAmount float64             `json:"total_eligible_amount"`
}

// ManualCalculationDTO is returned instead of an allowance when a trip
// spans more than one distinct postal code.
type ManualCalculationDTO struct {
	TripID                    string   `json:"trip_id"`
	ManualCalculationRequired bool     `json:"manual_calculation_required"`
	PostalCodes               []string `json:"postal_codes"`
	Message                   string   `json:"message"`
}

// RateScheduleDTO represents a location's rate schedule.
type RateScheduleDTO struct {
	PostalCode    string       `json:"postal_code"`
	BaseDailyRate float64      `json:"base_daily_rate"`
	MealRates     MealRatesDTO `json:"meal_rates"`
}

type MealRatesDTO struct {
	Breakfast float64 `json:"breakfast"`
	Lunch     float64 `json:"lunch"`
	Dinner    float64 `json:"dinner"`
}

// ReportDTO represents a saved allowance report snapshot.
type ReportDTO struct {
	ID                  string              `json:"id"`
	TripID              string              `json:"trip_id"`
	TotalEligibleAmount float64             `json:"total_eligible_amount"`
	TotalMealDeduction  float64             `json:"total_meal_deduction"`
	Days                []DailyAllowanceDTO `json:"days"`
	ComputedAt          string              `json:"computed_at"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toTripDTO(trip sqlite.Trip) TripDTO {
	return TripDTO{
		ID:           trip.ID,
		EmployeeID:   trip.EmployeeID,
		PostalCodes:  trip.PostalCodes,
		StartDate:    trip.StartDate.Key(),
		EndDate:      trip.EndDate.Key(),
		CheckInTime:  trip.CheckInTime.String(),
		CheckOutTime: trip.CheckOutTime.String(),
		CreatedAt:    trip.CreatedAt.Format(time.RFC3339),
	}
}

func toDailyAllowanceDTO(day perdiem.DailyAllowanceResult) DailyAllowanceDTO {
	pct, _ := day.PercentageApplied.Float64()
	baseRate, _ := day.BaseRate.Value.Float64()
	baseForDay, _ := day.BaseForDay.Value.Float64()
	deduction, _ := day.MealDeduction.Value.Float64()
	eligible, _ := day.EligibleAmount.Value.Float64()

	meals := make([]string, len(day.MealsProvided))
	for i, m := range day.MealsProvided {
		meals[i] = string(m)
	}

	return DailyAllowanceDTO{
		Date:              day.Date.Key(),
		Position:          string(day.Position),
		ElapsedHours:      day.ElapsedHours,
		PercentageApplied: pct,
		BaseRate:          baseRate,
		BaseForDay:        baseForDay,
		MealsProvided:     meals,
		MealDeduction:     deduction,
		EligibleAmount:    eligible,
	}
}

func toTripAllowanceDTO(tripID, postalCode string, result *perdiem.TripAllowanceResult) TripAllowanceDTO {
	days := make([]DailyAllowanceDTO, len(result.Days))
	for i, day := range result.Days {
		days[i] = toDailyAllowanceDTO(day)
	}

	deduction, _ := result.TotalMealDeduction.Value.Float64()
	eligible, _ := result.TotalEligibleAmount.Value.Float64()

	return TripAllowanceDTO{
		TripID:              tripID,
		PostalCode:          postalCode,
		Days:                days,
		TotalMealDeduction:  deduction,
		TotalEligibleAmount: eligible,
	}
}

func toRateScheduleDTO(postalCode string, s perdiem.DailyRateSchedule) RateScheduleDTO {
	base, _ := s.BaseDailyRate.Value.Float64()
	breakfast, _ := s.MealRates.Breakfast.Value.Float64()
	lunch, _ := s.MealRates.Lunch.Value.Float64()
	dinner, _ := s.MealRates.Dinner.Value.Float64()

	return RateScheduleDTO{
		PostalCode:    postalCode,
		BaseDailyRate: base,
		MealRates: MealRatesDTO{
			Breakfast: breakfast,
			Lunch:     lunch,
			Dinner:    dinner,
		},
	}
}
