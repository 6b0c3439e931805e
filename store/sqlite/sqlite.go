/*
Package sqlite provides SQLite-backed persistence for trips, provided
meals, rate-schedule overrides, and saved allowance reports.

PURPOSE:
  The engine itself is pure and stateless; this store holds everything the
  surrounding service needs between requests. In production the same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  trips:             Trip windows (dates, boundary times, locations)
  meal_provisions:   One row per (trip, date, meal) - the persisted form
                     of ProvidedMealsByDay, replaced wholesale on update
  rate_schedules:    Per-postal-code overrides of the standard rates
  allowance_reports: Snapshots of computed trip allowances for audit

MONEY STORAGE:
  Monetary values are stored as decimal strings (TEXT), never as REAL,
  so round-tripping through the store loses no precision.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency.

USAGE:
  store, err := sqlite.New("./data/expense.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - rates/catalog.go: StoreCatalog reads overrides via GetRateSchedule
  - api/handlers.go: All HTTP surfaces go through this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/expense-engine/perdiem"
)

// Store implements all persistence used by the service.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Trips (the immutable calculation window plus locations)
	CREATE TABLE IF NOT EXISTS trips (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		postal_codes_json TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		check_in TEXT NOT NULL,
		check_out TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_trips_employee
		ON trips(employee_id);
	CREATE INDEX IF NOT EXISTS idx_trips_start_date
		ON trips(start_date);

	-- Provided meals, one row per (trip, date, meal)
	-- Replaced wholesale on every update: the engine reads a fresh
	-- ProvidedMealsByDay per calculation, so there is no incremental state.
	CREATE TABLE IF NOT EXISTS meal_provisions (
		trip_id TEXT NOT NULL,
		date TEXT NOT NULL,
		meal TEXT NOT NULL,
		PRIMARY KEY (trip_id, date, meal),
		FOREIGN KEY (trip_id) REFERENCES trips(id)
	);

	CREATE INDEX IF NOT EXISTS idx_meal_provisions_trip
		ON meal_provisions(trip_id);

	-- Per-location rate overrides (decimal values stored as TEXT)
	CREATE TABLE IF NOT EXISTS rate_schedules (
		postal_code TEXT PRIMARY KEY,
		base_daily_rate TEXT NOT NULL,
		breakfast_rate TEXT NOT NULL,
		lunch_rate TEXT NOT NULL,
		dinner_rate TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Saved allowance report snapshots (audit surface)
	CREATE TABLE IF NOT EXISTS allowance_reports (
		id TEXT PRIMARY KEY,
		trip_id TEXT NOT NULL,
		total_eligible TEXT NOT NULL,
		total_deduction TEXT NOT NULL,
		breakdown_json TEXT NOT NULL,
		computed_at TEXT NOT NULL,
		FOREIGN KEY (trip_id) REFERENCES trips(id)
	);

	CREATE INDEX IF NOT EXISTS idx_reports_trip
		ON allowance_reports(trip_id, computed_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TRIPS
// =============================================================================

// Trip is the persisted trip record. Window() projects it into the
// engine's input type.
type Trip struct {
	ID           string
	EmployeeID   string
	PostalCodes  []string
	StartDate    perdiem.CalendarDate
	EndDate      perdiem.CalendarDate
	CheckInTime  perdiem.ClockTime
	CheckOutTime perdiem.ClockTime
	CreatedAt    time.Time
}

// Window returns the engine input for this trip.
func (t Trip) Window() perdiem.TripWindow {
	return perdiem.TripWindow{
		StartDate:    t.StartDate,
		EndDate:      t.EndDate,
		CheckInTime:  t.CheckInTime,
		CheckOutTime: t.CheckOutTime,
	}
}

// SaveTrip persists a trip record.
func (s *Store) SaveTrip(ctx context.Context, trip Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	codes, err := json.Marshal(trip.PostalCodes)
	if err != nil {
		return fmt.Errorf("failed to encode postal codes: %w", err)
	}

	createdAt := trip.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO trips (id, employee_id, postal_codes_json, start_date, end_date, check_in, check_out, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		trip.ID, trip.EmployeeID, string(codes),
		trip.StartDate.Key(), trip.EndDate.Key(),
		trip.CheckInTime.String(), trip.CheckOutTime.String(),
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save trip: %w", err)
	}
	return nil
}

// GetTrip returns a trip by ID, or nil when it does not exist.
func (s *Store) GetTrip(ctx context.Context, id string) (*Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, employee_id, postal_codes_json, start_date, end_date, check_in, check_out, created_at
		FROM trips WHERE id = ?`, id)

	trip, err := scanTrip(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return trip, nil
}

// ListTrips returns all trips, most recent start date first.
func (s *Store) ListTrips(ctx context.Context) ([]Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, postal_codes_json, start_date, end_date, check_in, check_out, created_at
		FROM trips ORDER BY start_date DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, *trip)
	}
	return trips, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*Trip, error) {
	var (
		trip              Trip
		codesJSON         string
		startStr, endStr  string
		checkIn, checkOut string
		createdStr        string
	)
	if err := row.Scan(&trip.ID, &trip.EmployeeID, &codesJSON, &startStr, &endStr, &checkIn, &checkOut, &createdStr); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(codesJSON), &trip.PostalCodes); err != nil {
		return nil, fmt.Errorf("corrupt postal codes for trip %s: %w", trip.ID, err)
	}

	var err error
	if trip.StartDate, err = perdiem.ParseDate(startStr); err != nil {
		return nil, err
	}
	if trip.EndDate, err = perdiem.ParseDate(endStr); err != nil {
		return nil, err
	}
	if trip.CheckInTime, err = perdiem.ParseClock(checkIn); err != nil {
		return nil, err
	}
	if trip.CheckOutTime, err = perdiem.ParseClock(checkOut); err != nil {
		return nil, err
	}
	if trip.CreatedAt, err = time.Parse(time.RFC3339, createdStr); err != nil {
		return nil, err
	}
	return &trip, nil
}

// =============================================================================
// MEAL PROVISIONS
// =============================================================================

// ReplaceMealProvisions replaces the full provided-meals state for a trip.
// The engine recomputes wholesale from the latest state, so partial updates
// are never needed.
func (s *Store) ReplaceMealProvisions(ctx context.Context, tripID string, provided perdiem.ProvidedMealsByDay) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM meal_provisions WHERE trip_id = ?`, tripID); err != nil {
		return fmt.Errorf("failed to clear meal provisions: %w", err)
	}

	for dateKey, meals := range provided {
		seen := make(map[perdiem.MealKind]bool, len(meals))
		for _, meal := range meals {
			if seen[meal] {
				continue
			}
			seen[meal] = true
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO meal_provisions (trip_id, date, meal) VALUES (?, ?, ?)`,
				tripID, dateKey, string(meal)); err != nil {
				return fmt.Errorf("failed to save meal provision: %w", err)
			}
		}
	}

	return tx.Commit()
}

// GetMealProvisions rebuilds ProvidedMealsByDay for a trip.
func (s *Store) GetMealProvisions(ctx context.Context, tripID string) (perdiem.ProvidedMealsByDay, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, meal FROM meal_provisions WHERE trip_id = ? ORDER BY date, meal`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to get meal provisions: %w", err)
	}
	defer rows.Close()

	provided := make(perdiem.ProvidedMealsByDay)
	for rows.Next() {
		var dateKey, meal string
		if err := rows.Scan(&dateKey, &meal); err != nil {
			return nil, fmt.Errorf("failed to scan meal provision: %w", err)
		}
		kind, err := perdiem.ParseMealKind(meal)
		if err != nil {
			return nil, fmt.Errorf("corrupt meal provision for trip %s: %w", tripID, err)
		}
		provided[dateKey] = append(provided[dateKey], kind)
	}
	return provided, rows.Err()
}

// =============================================================================
// RATE SCHEDULES
// =============================================================================

// UpsertRateSchedule persists a per-location rate override.
func (s *Store) UpsertRateSchedule(ctx context.Context, postalCode string, schedule perdiem.DailyRateSchedule) error {
	if err := schedule.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rate_schedules (postal_code, base_daily_rate, breakfast_rate, lunch_rate, dinner_rate, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(postal_code) DO UPDATE SET
			base_daily_rate = excluded.base_daily_rate,
			breakfast_rate = excluded.breakfast_rate,
			lunch_rate = excluded.lunch_rate,
			dinner_rate = excluded.dinner_rate,
			updated_at = excluded.updated_at`,
		postalCode,
		schedule.BaseDailyRate.Value.String(),
		schedule.MealRates.Breakfast.Value.String(),
		schedule.MealRates.Lunch.Value.String(),
		schedule.MealRates.Dinner.Value.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save rate schedule: %w", err)
	}
	return nil
}

// GetRateSchedule returns the override for a postal code, or nil when none
// is persisted. Implements rates.ScheduleStore.
func (s *Store) GetRateSchedule(ctx context.Context, postalCode string) (*perdiem.DailyRateSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var base, breakfast, lunch, dinner string
	err := s.db.QueryRowContext(ctx, `
		SELECT base_daily_rate, breakfast_rate, lunch_rate, dinner_rate
		FROM rate_schedules WHERE postal_code = ?`, postalCode).
		Scan(&base, &breakfast, &lunch, &dinner)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rate schedule: %w", err)
	}

	return &perdiem.DailyRateSchedule{
		BaseDailyRate: perdiem.MustParseMoney(base),
		MealRates: perdiem.MealRates{
			Breakfast: perdiem.MustParseMoney(breakfast),
			Lunch:     perdiem.MustParseMoney(lunch),
			Dinner:    perdiem.MustParseMoney(dinner),
		},
	}, nil
}

// =============================================================================
// ALLOWANCE REPORTS
// =============================================================================

// Report is a persisted snapshot of one computed trip allowance. The
// per-day breakdown is kept verbatim as JSON so the audit surface shows
// exactly what the engine produced at computation time.
type Report struct {
	ID             string
	TripID         string
	TotalEligible  perdiem.Money
	TotalDeduction perdiem.Money
	BreakdownJSON  string
	ComputedAt     time.Time
}

// SaveReport persists an allowance report snapshot.
func (s *Store) SaveReport(ctx context.Context, report Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO allowance_reports (id, trip_id, total_eligible, total_deduction, breakdown_json, computed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		report.ID, report.TripID,
		report.TotalEligible.Value.String(),
		report.TotalDeduction.Value.String(),
		report.BreakdownJSON,
		report.ComputedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// ListReports returns a trip's saved reports, newest first.
func (s *Store) ListReports(ctx context.Context, tripID string) ([]Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, trip_id, total_eligible, total_deduction, breakdown_json, computed_at
		FROM allowance_reports WHERE trip_id = ? ORDER BY computed_at DESC`, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var (
			r                   Report
			eligible, deduction string
			computedStr         string
		)
		if err := rows.Scan(&r.ID, &r.TripID, &eligible, &deduction, &r.BreakdownJSON, &computedStr); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		r.TotalEligible = perdiem.MustParseMoney(eligible)
		r.TotalDeduction = perdiem.MustParseMoney(deduction)
		if r.ComputedAt, err = time.Parse(time.RFC3339, computedStr); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
