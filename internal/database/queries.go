package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/zapponejosh/service-calendar/internal/calendar"
)

// =============================================================================
// Helper Functions
// =============================================================================

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Tries multiple formats and returns the zero time if parsing fails.
func parseTimestamp(s string) time.Time {
	if t, err := time.Parse(timestampLayout, s); err == nil {
		return t
	}
	// SQLite datetime('now') format (no timezone)
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// =============================================================================
// Calendar Writes
// =============================================================================

// SaveCalendar stores a generated calendar.
//
// Saving a year again refreshes the computed columns of every service and
// removes services the new run no longer produced. Override columns of
// services that survive are left untouched.
func (db *DB) SaveCalendar(ctx context.Context, cal *calendar.YearCalendar) error {
	if cal == nil {
		return errors.New("save calendar: nil calendar")
	}

	errsJSON, err := json.Marshal(nonNil(cal.ValidationErrors))
	if err != nil {
		return fmt.Errorf("marshal validation errors: %w", err)
	}
	warningsJSON, err := json.Marshal(nonNil(cal.ValidationWarnings))
	if err != nil {
		return fmt.Errorf("marshal validation warnings: %w", err)
	}
	keyDates := make(map[string]string, len(cal.KeyDates))
	for name, d := range cal.KeyDates {
		keyDates[name] = d.Format(dateLayout)
	}
	keyDatesJSON, err := json.Marshal(keyDates)
	if err != nil {
		return fmt.Errorf("marshal key dates: %w", err)
	}

	generatedAt := cal.GeneratedAt.UTC().Format(timestampLayout)

	err = db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO calendars (
				year, algorithm_version, generated_at, validated,
				validation_errors, validation_warnings, key_dates
			) VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(year) DO UPDATE SET
				algorithm_version = excluded.algorithm_version,
				generated_at = excluded.generated_at,
				validated = excluded.validated,
				validation_errors = excluded.validation_errors,
				validation_warnings = excluded.validation_warnings,
				key_dates = excluded.key_dates,
				updated_at = datetime('now')
		`, cal.Year, cal.AlgorithmVersion, generatedAt, boolToInt(cal.Validated),
			string(errsJSON), string(warningsJSON), string(keyDatesJSON))
		if err != nil {
			return fmt.Errorf("upsert calendar %d: %w", cal.Year, err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO services (
				year, date, day_of_week,
				season_id, season_name, season_color,
				special_day_id, special_day_name,
				is_regular_sunday, is_special_weekday,
				generated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(year, date) DO UPDATE SET
				day_of_week = excluded.day_of_week,
				season_id = excluded.season_id,
				season_name = excluded.season_name,
				season_color = excluded.season_color,
				special_day_id = excluded.special_day_id,
				special_day_name = excluded.special_day_name,
				is_regular_sunday = excluded.is_regular_sunday,
				is_special_weekday = excluded.is_special_weekday,
				generated_at = excluded.generated_at,
				updated_at = datetime('now')
		`)
		if err != nil {
			return fmt.Errorf("prepare service upsert: %w", err)
		}
		defer stmt.Close()

		for _, s := range cal.Services {
			r := rowFromService(s)
			_, err := stmt.ExecContext(ctx,
				cal.Year, r.Date, r.DayOfWeek,
				r.SeasonID, r.SeasonName, r.SeasonColor,
				r.SpecialDayID, r.SpecialDayName,
				boolToInt(r.IsRegularSunday), boolToInt(r.IsSpecialWeekday),
				generatedAt,
			)
			if err != nil {
				return fmt.Errorf("upsert service %s: %w", r.Date, err)
			}
		}

		res, err := deleteStaleServices(ctx, tx, cal)
		if err != nil {
			return fmt.Errorf("delete stale services: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			db.logger.Info("removed stale services",
				slog.Int("year", cal.Year),
				slog.Int64("count", n),
			)
		}
		return nil
	})
	if err != nil {
		return err
	}

	db.logger.Info("calendar saved",
		slog.Int("year", cal.Year),
		slog.Int("services", len(cal.Services)),
	)
	return nil
}

// deleteStaleServices removes the year's services whose dates the
// calendar no longer contains.
func deleteStaleServices(ctx context.Context, tx *sql.Tx, cal *calendar.YearCalendar) (sql.Result, error) {
	if len(cal.Services) == 0 {
		return tx.ExecContext(ctx, "DELETE FROM services WHERE year = ?", cal.Year)
	}

	args := make([]interface{}, 0, len(cal.Services)+1)
	args = append(args, cal.Year)
	for _, s := range cal.Services {
		args = append(args, s.Date.Format(dateLayout))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(cal.Services)), ",")

	return tx.ExecContext(ctx,
		"DELETE FROM services WHERE year = ? AND date NOT IN ("+placeholders+")",
		args...,
	)
}

// SetOverride marks the stored service on date as overridden.
// Returns ErrNotFound if no service is stored for that date.
func (db *DB) SetOverride(ctx context.Context, date time.Time, o Override) error {
	at := o.At
	if at.IsZero() {
		at = time.Now()
	}
	res, err := db.ExecContext(ctx, `
		UPDATE services SET
			is_overridden = 1,
			override_reason = ?,
			overridden_by = ?,
			overridden_at = ?,
			updated_at = datetime('now')
		WHERE date = ?
	`, o.Reason, o.By, at.UTC().Format(timestampLayout), date.Format(dateLayout))
	if err != nil {
		return fmt.Errorf("set override: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set override: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearOverride removes an override from the stored service on date.
// Returns ErrNotFound if no service is stored for that date.
func (db *DB) ClearOverride(ctx context.Context, date time.Time) error {
	res, err := db.ExecContext(ctx, `
		UPDATE services SET
			is_overridden = 0,
			override_reason = NULL,
			overridden_by = NULL,
			overridden_at = NULL,
			updated_at = datetime('now')
		WHERE date = ?
	`, date.Format(dateLayout))
	if err != nil {
		return fmt.Errorf("clear override: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("clear override: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// =============================================================================
// Calendar Reads
// =============================================================================

// GetCalendar loads a stored calendar with its services in date order.
// Returns ErrNotFound if the year has not been saved.
func (db *DB) GetCalendar(ctx context.Context, year int) (*calendar.YearCalendar, error) {
	var (
		cal                                  calendar.YearCalendar
		generatedAt                          string
		validated                            int
		errsJSON, warningsJSON, keyDatesJSON string
	)
	err := db.QueryRowContext(ctx, `
		SELECT year, algorithm_version, generated_at, validated,
			validation_errors, validation_warnings, key_dates
		FROM calendars
		WHERE year = ?
	`, year).Scan(&cal.Year, &cal.AlgorithmVersion, &generatedAt, &validated,
		&errsJSON, &warningsJSON, &keyDatesJSON)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query calendar %d: %w", year, err)
	}

	cal.GeneratedAt = parseTimestamp(generatedAt)
	cal.Validated = validated == 1
	if err := json.Unmarshal([]byte(errsJSON), &cal.ValidationErrors); err != nil {
		return nil, fmt.Errorf("unmarshal validation errors: %w", err)
	}
	if err := json.Unmarshal([]byte(warningsJSON), &cal.ValidationWarnings); err != nil {
		return nil, fmt.Errorf("unmarshal validation warnings: %w", err)
	}

	var keyDates map[string]string
	if err := json.Unmarshal([]byte(keyDatesJSON), &keyDates); err != nil {
		return nil, fmt.Errorf("unmarshal key dates: %w", err)
	}
	cal.KeyDates = make(map[string]time.Time, len(keyDates))
	for name, s := range keyDates {
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			return nil, fmt.Errorf("parse key date %s: %w", name, err)
		}
		cal.KeyDates[name] = d
	}

	cal.Services, err = db.servicesForYear(ctx, year)
	if err != nil {
		return nil, err
	}
	cal.Summarize()

	return &cal, nil
}

func (db *DB) servicesForYear(ctx context.Context, year int) ([]calendar.Service, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT date, day_of_week,
			season_id, season_name, season_color,
			special_day_id, special_day_name,
			is_regular_sunday, is_special_weekday,
			is_overridden, override_reason, overridden_by, overridden_at
		FROM services
		WHERE year = ?
		ORDER BY date
	`, year)
	if err != nil {
		return nil, fmt.Errorf("query services %d: %w", year, err)
	}
	defer rows.Close()

	var services []calendar.Service
	for rows.Next() {
		var (
			r              serviceRow
			reason, by, at sql.NullString
		)
		if err := rows.Scan(&r.Date, &r.DayOfWeek,
			&r.SeasonID, &r.SeasonName, &r.SeasonColor,
			&r.SpecialDayID, &r.SpecialDayName,
			&r.IsRegularSunday, &r.IsSpecialWeekday,
			&r.IsOverridden, &reason, &by, &at,
		); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		r.OverrideReason = nullStringPtr(reason)
		r.OverriddenBy = nullStringPtr(by)
		r.OverriddenAt = nullStringPtr(at)

		s, err := r.toService()
		if err != nil {
			return nil, fmt.Errorf("service date %q: %w", r.Date, err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate services: %w", err)
	}
	return services, nil
}

// ListCalendarYears returns every stored year in ascending order.
func (db *DB) ListCalendarYears(ctx context.Context) ([]StoredYear, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT c.year, c.algorithm_version, c.generated_at, c.validated,
			(SELECT COUNT(*) FROM services s WHERE s.year = c.year)
		FROM calendars c
		ORDER BY c.year
	`)
	if err != nil {
		return nil, fmt.Errorf("query calendars: %w", err)
	}
	defer rows.Close()

	years := []StoredYear{}
	for rows.Next() {
		var (
			y           StoredYear
			generatedAt string
		)
		if err := rows.Scan(&y.Year, &y.AlgorithmVersion, &generatedAt, &y.Validated, &y.ServiceCount); err != nil {
			return nil, fmt.Errorf("scan calendar: %w", err)
		}
		y.GeneratedAt = parseTimestamp(generatedAt)
		years = append(years, y)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calendars: %w", err)
	}
	return years, nil
}

// DeleteCalendar removes a stored year and its services.
// Returns ErrNotFound if the year has not been saved.
func (db *DB) DeleteCalendar(ctx context.Context, year int) error {
	res, err := db.ExecContext(ctx, "DELETE FROM calendars WHERE year = ?", year)
	if err != nil {
		return fmt.Errorf("delete calendar %d: %w", year, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete calendar %d: %w", year, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
