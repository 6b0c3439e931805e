/*
handlers.go - HTTP API handlers for the per-diem allowance service

PURPOSE:
  Exposes trips, provided meals, rate schedules, and allowance calculation
  via REST. Handles HTTP request/response and JSON serialization, and
  delegates all calculation to the perdiem engine.

ENDPOINTS:
  Trips:
    POST   /api/trips                     Create trip
    GET    /api/trips                     List trips
    GET    /api/trips/{id}                Get trip
    PUT    /api/trips/{id}/meals          Replace provided-meals state
    GET    /api/trips/{id}/allowance      Compute trip allowance
    POST   /api/trips/{id}/reports        Compute and persist a report
    GET    /api/trips/{id}/reports        List saved reports

  Rates:
    GET    /api/rates/{postalCode}        Resolve a location's schedule
    PUT    /api/rates/{postalCode}        Persist a rate override

ESCALATION:
  A trip spanning more than one distinct postal code is never computed
  automatically. The allowance endpoints answer 422 with a
  manual-calculation notice, and the engine is not invoked.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input (perdiem.IsClientError)
  - 404: Trip not found
  - 422: Manual calculation required (multi-location trip)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - perdiem/trip.go: The calculation these handlers front
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/warp/expense-engine/perdiem"
	"github.com/warp/expense-engine/rates"
	"github.com/warp/expense-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store
	Rates rates.Catalog
}

// NewHandler creates a handler backed by the given store, with persisted
// rate overrides falling back to the built-in static catalog.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store: store,
		Rates: rates.NewStoreCatalog(store, rates.NewStaticCatalog()),
	}
}

// =============================================================================
// TRIP HANDLERS
// =============================================================================

// CreateTrip creates a new trip.
func (h *Handler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	trip, err := tripFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid trip", err)
		return
	}

	if err := trip.Window().Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid trip window", err)
		return
	}

	if err := h.Store.SaveTrip(r.Context(), trip); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create trip", err)
		return
	}

	writeJSON(w, http.StatusCreated, toTripDTO(trip))
}

func tripFromRequest(req CreateTripRequest) (sqlite.Trip, error) {
	if req.EmployeeID == "" {
		return sqlite.Trip{}, fmt.Errorf("employee_id is required")
	}

	start, err := perdiem.ParseDate(req.StartDate)
	if err != nil {
		return sqlite.Trip{}, err
	}
	end, err := perdiem.ParseDate(req.EndDate)
	if err != nil {
		return sqlite.Trip{}, err
	}
	checkIn, err := perdiem.ParseClock(req.CheckInTime)
	if err != nil {
		return sqlite.Trip{}, err
	}
	checkOut, err := perdiem.ParseClock(req.CheckOutTime)
	if err != nil {
		return sqlite.Trip{}, err
	}

	return sqlite.Trip{
		ID:           uuid.NewString(),
		EmployeeID:   req.EmployeeID,
		PostalCodes:  req.PostalCodes,
		StartDate:    start,
		EndDate:      end,
		CheckInTime:  checkIn,
		CheckOutTime: checkOut,
	}, nil
}

// ListTrips returns all trips.
func (h *Handler) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := h.Store.ListTrips(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list trips", err)
		return
	}

	dtos := make([]TripDTO, len(trips))
	for i, trip := range trips {
		dtos[i] = toTripDTO(trip)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetTrip returns a single trip.
func (h *Handler) GetTrip(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.loadTrip(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toTripDTO(*trip))
}

// loadTrip fetches the {id} trip and writes the error response itself when
// the trip is missing or the store fails.
func (h *Handler) loadTrip(w http.ResponseWriter, r *http.Request) (*sqlite.Trip, bool) {
	id := chi.URLParam(r, "id")

	trip, err := h.Store.GetTrip(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get trip", err)
		return nil, false
	}
	if trip == nil {
		writeError(w, http.StatusNotFound, "Trip not found", nil)
		return nil, false
	}
	return trip, true
}

// =============================================================================
// MEAL HANDLERS
// =============================================================================

// UpdateMeals replaces the provided-meals state for a trip. The next
// allowance calculation reads the new state wholesale; there is no
// incremental recomputation.
func (h *Handler) UpdateMeals(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.loadTrip(w, r)
	if !ok {
		return
	}

	var req UpdateMealsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	provided := make(perdiem.ProvidedMealsByDay, len(req.Meals))
	for dateKey, names := range req.Meals {
		if _, err := perdiem.ParseDate(dateKey); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid meal date", err)
			return
		}
		set := make(perdiem.MealSet, 0, len(names))
		for _, name := range names {
			kind, err := perdiem.ParseMealKind(name)
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid meal kind", err)
				return
			}
			set = append(set, kind)
		}
		provided[dateKey] = set
	}

	if err := h.Store.ReplaceMealProvisions(r.Context(), trip.ID, provided); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update meals", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ALLOWANCE HANDLERS
// =============================================================================

// GetAllowance computes the trip's per-diem allowance.
func (h *Handler) GetAllowance(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.loadTrip(w, r)
	if !ok {
		return
	}

	dto, handled := h.computeAllowance(w, r, trip)
	if handled {
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// computeAllowance runs the escalation check, rate lookup, and engine for
// a trip. When it returns handled=true the response has already been
// written (escalation notice or error).
func (h *Handler) computeAllowance(w http.ResponseWriter, r *http.Request, trip *sqlite.Trip) (TripAllowanceDTO, bool) {
	// Caller-side precondition: multi-location trips are never computed
	// automatically.
	if rates.RequiresManualCalculation(trip.PostalCodes) {
		writeJSON(w, http.StatusUnprocessableEntity, ManualCalculationDTO{
			TripID:                    trip.ID,
			ManualCalculationRequired: true,
			PostalCodes:               rates.DistinctPostalCodes(trip.PostalCodes),
			Message:                   "trip spans multiple locations; calculate the allowance manually",
		})
		return TripAllowanceDTO{}, true
	}

	postalCode := rates.PrimaryPostalCode(trip.PostalCodes)
	schedule, err := h.Rates.Schedule(r.Context(), postalCode)
	if err != nil {
		status := http.StatusInternalServerError
		if perdiem.IsClientError(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, "Failed to resolve rate schedule", err)
		return TripAllowanceDTO{}, true
	}

	provided, err := h.Store.GetMealProvisions(r.Context(), trip.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load provided meals", err)
		return TripAllowanceDTO{}, true
	}

	result, err := perdiem.ComputeTrip(trip.Window(), schedule, provided)
	if err != nil {
		status := http.StatusInternalServerError
		if perdiem.IsClientError(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, "Allowance calculation failed", err)
		return TripAllowanceDTO{}, true
	}

	return toTripAllowanceDTO(trip.ID, postalCode, result), false
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// CreateReport computes the trip allowance and persists it as an audit
// snapshot.
func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.loadTrip(w, r)
	if !ok {
		return
	}

	dto, handled := h.computeAllowance(w, r, trip)
	if handled {
		return
	}

	breakdown, err := json.Marshal(dto.Days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode report", err)
		return
	}

	report := sqlite.Report{
		ID:             uuid.NewString(),
		TripID:         trip.ID,
		TotalEligible:  perdiem.NewMoney(dto.TotalEligibleAmount),
		TotalDeduction: perdiem.NewMoney(dto.TotalMealDeduction),
		BreakdownJSON:  string(breakdown),
		ComputedAt:     time.Now().UTC(),
	}
	if err := h.Store.SaveReport(r.Context(), report); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save report", err)
		return
	}

	writeJSON(w, http.StatusCreated, ReportDTO{
		ID:                  report.ID,
		TripID:              report.TripID,
		TotalEligibleAmount: dto.TotalEligibleAmount,
		TotalMealDeduction:  dto.TotalMealDeduction,
		Days:                dto.Days,
		ComputedAt:          report.ComputedAt.Format(time.RFC3339),
	})
}

// ListReports returns a trip's saved reports, newest first.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	trip, ok := h.loadTrip(w, r)
	if !ok {
		return
	}

	reports, err := h.Store.ListReports(r.Context(), trip.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list reports", err)
		return
	}

	dtos := make([]ReportDTO, len(reports))
	for i, report := range reports {
		var days []DailyAllowanceDTO
		if err := json.Unmarshal([]byte(report.BreakdownJSON), &days); err != nil {
			writeError(w, http.StatusInternalServerError, "Corrupt report breakdown", err)
			return
		}
		eligible, _ := report.TotalEligible.Value.Float64()
		deduction, _ := report.TotalDeduction.Value.Float64()
		dtos[i] = ReportDTO{
			ID:                  report.ID,
			TripID:              report.TripID,
			TotalEligibleAmount: eligible,
			TotalMealDeduction:  deduction,
			Days:                days,
			ComputedAt:          report.ComputedAt.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// RATE HANDLERS
// =============================================================================

// GetRateSchedule resolves the effective schedule for a postal code
// (persisted override, static entry, or standard fallback).
func (h *Handler) GetRateSchedule(w http.ResponseWriter, r *http.Request) {
	postalCode := chi.URLParam(r, "postalCode")

	schedule, err := h.Rates.Schedule(r.Context(), postalCode)
	if err != nil {
		status := http.StatusInternalServerError
		if perdiem.IsClientError(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, "Failed to resolve rate schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, toRateScheduleDTO(postalCode, schedule))
}

// PutRateSchedule persists a rate override for a postal code.
func (h *Handler) PutRateSchedule(w http.ResponseWriter, r *http.Request) {
	postalCode := chi.URLParam(r, "postalCode")

	var req RateScheduleDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	schedule := perdiem.DailyRateSchedule{
		BaseDailyRate: perdiem.NewMoney(req.BaseDailyRate),
		MealRates: perdiem.MealRates{
			Breakfast: perdiem.NewMoney(req.MealRates.Breakfast),
			Lunch:     perdiem.NewMoney(req.MealRates.Lunch),
			Dinner:    perdiem.NewMoney(req.MealRates.Dinner),
		},
	}

	if err := h.Store.UpsertRateSchedule(r.Context(), postalCode, schedule); err != nil {
		if errors.Is(err, perdiem.ErrMissingSchedule) {
			writeError(w, http.StatusBadRequest, "Incomplete rate schedule", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to save rate schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, toRateScheduleDTO(postalCode, schedule))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
