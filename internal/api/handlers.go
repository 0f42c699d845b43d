package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/service-calendar/internal/calendar"
	"github.com/zapponejosh/service-calendar/internal/config"
	"github.com/zapponejosh/service-calendar/internal/database"
	"github.com/zapponejosh/service-calendar/internal/logger"
)

// MaxRangeYears bounds GET /api/v1/calendars?start=&end=.
const MaxRangeYears = 10

// Store is the persistence the handlers need. *database.DB implements it.
type Store interface {
	Health(ctx context.Context) error
	SaveCalendar(ctx context.Context, cal *calendar.YearCalendar) error
	GetCalendar(ctx context.Context, year int) (*calendar.YearCalendar, error)
	ListCalendarYears(ctx context.Context) ([]database.StoredYear, error)
}

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	store  Store
	cal    *calendar.Calendar
	cfg    *config.Config
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store Store, cal *calendar.Calendar, cfg *config.Config, logger *slog.Logger) *Handlers {
	return &Handlers{
		store:  store,
		cal:    cal,
		cfg:    cfg,
		logger: logger,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Check database health
	if err := h.store.Health(ctx); err != nil {
		logger.Warn(ctx, h.logger, "health check failed", slog.Any("error", err))
		WriteServiceUnavailable(w, "Database unhealthy")
		return
	}

	WriteSuccess(w, map[string]string{
		"status":            "healthy",
		"algorithm_version": calendar.AlgorithmVersion,
	})
}

// GetCalendar handles GET /api/v1/calendars/{year}
//
// The calendar is generated on every request. When persistence is enabled
// it is saved and the stored copy, including any overrides, is returned.
func (h *Handlers) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	year, ok := yearParam(w, chi.URLParam(r, "year"))
	if !ok {
		return
	}

	cal, err := h.cal.GenerateServicesForYear(year)
	if err != nil {
		h.writeCalendarError(ctx, w, err)
		return
	}

	if h.cfg.PersistCalendars {
		if err := h.store.SaveCalendar(ctx, cal); err != nil {
			logger.Error(ctx, h.logger, "failed to store calendar", err, slog.Int("year", year))
			WriteInternalError(w, "Failed to store calendar")
			return
		}
		stored, err := h.store.GetCalendar(ctx, year)
		if err != nil {
			logger.Error(ctx, h.logger, "failed to reload calendar", err, slog.Int("year", year))
			WriteInternalError(w, "Failed to retrieve calendar")
			return
		}
		cal = stored
	}

	WriteSuccess(w, cal)
}

// GetStoredCalendar handles GET /api/v1/calendars/{year}/stored
func (h *Handlers) GetStoredCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	year, ok := yearParam(w, chi.URLParam(r, "year"))
	if !ok {
		return
	}

	cal, err := h.store.GetCalendar(ctx, year)
	if err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, fmt.Sprintf("No stored calendar for %d", year))
			return
		}
		logger.Error(ctx, h.logger, "failed to get stored calendar", err, slog.Int("year", year))
		WriteInternalError(w, "Failed to retrieve calendar")
		return
	}

	WriteSuccess(w, cal)
}

// ListStoredCalendars handles GET /api/v1/calendars/stored
func (h *Handlers) ListStoredCalendars(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	years, err := h.store.ListCalendarYears(ctx)
	if err != nil {
		logger.Error(ctx, h.logger, "failed to list stored calendars", err)
		WriteInternalError(w, "Failed to list calendars")
		return
	}

	WriteSuccess(w, years)
}

// rangeEntry summarizes one year of a batch generation.
type rangeEntry struct {
	Year               int                `json:"year"`
	Validated          bool               `json:"validated"`
	Metadata           *calendar.Metadata `json:"metadata,omitempty"`
	ValidationErrors   []string           `json:"validation_errors,omitempty"`
	ValidationWarnings []string           `json:"validation_warnings,omitempty"`
	Error              string             `json:"error,omitempty"`
}

// GetCalendarRange handles GET /api/v1/calendars?start=YYYY&end=YYYY
//
// Years that fail are reported per entry and do not fail the request.
func (h *Handlers) GetCalendarRange(w http.ResponseWriter, r *http.Request) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" || endStr == "" {
		WriteBadRequest(w, "Both start and end year parameters are required")
		return
	}

	start, ok := yearParam(w, startStr)
	if !ok {
		return
	}
	end, ok := yearParam(w, endStr)
	if !ok {
		return
	}

	for _, year := range []int{start, end} {
		if err := calendar.HistoricalWindow.Check(year); err != nil {
			WriteBadRequest(w, err.Error())
			return
		}
	}

	// Limit range to prevent abuse
	if start <= end && end-start >= MaxRangeYears {
		WriteBadRequest(w, fmt.Sprintf("Year range cannot exceed %d years", MaxRangeYears))
		return
	}

	entries := []rangeEntry{}
	for _, res := range h.cal.GenerateServicesForYears(start, end) {
		e := rangeEntry{Year: res.Year, Validated: res.Validated()}
		if res.Err != nil {
			e.Error = res.Err.Error()
		} else {
			e.Metadata = &res.Calendar.Metadata
			e.ValidationErrors = res.Calendar.ValidationErrors
			e.ValidationWarnings = res.Calendar.ValidationWarnings
		}
		entries = append(entries, e)
	}

	WriteSuccess(w, map[string]interface{}{
		"start": start,
		"end":   end,
		"years": entries,
	})
}

// GetLiturgicalInfo handles GET /api/v1/liturgical/{date}
func (h *Handlers) GetLiturgicalInfo(w http.ResponseWriter, r *http.Request) {
	dateStr := chi.URLParam(r, "date")

	info, err := h.cal.LiturgicalInfo(calendar.FromString(dateStr))
	if err != nil {
		h.writeCalendarError(r.Context(), w, err)
		return
	}

	WriteSuccess(w, info)
}

// GetServiceInfo handles GET /api/v1/liturgical/service?date=M/D/YY
func (h *Handlers) GetServiceInfo(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		WriteBadRequest(w, "Date parameter is required")
		return
	}

	info := h.cal.LiturgicalInfoForService(dateStr)
	if info == nil {
		WriteBadRequest(w, fmt.Sprintf("Cannot resolve service date %q", dateStr))
		return
	}

	WriteSuccess(w, info)
}

// GetCacheStats handles GET /api/v1/cache
func (h *Handlers) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, h.cal.Cache().Stats())
}

// ClearCache handles POST /api/v1/cache/clear
func (h *Handlers) ClearCache(w http.ResponseWriter, r *http.Request) {
	before := h.cal.Cache().Stats()
	h.cal.ClearCache()
	logger.Info(r.Context(), h.logger, "calendar cache cleared",
		slog.Int("easter_years", before.EasterYears),
		slog.Int("special_days", before.SpecialDays),
		slog.Int("seasons", before.Seasons),
	)

	WriteSuccess(w, map[string]interface{}{
		"cleared": before,
	})
}

// writeCalendarError maps calendar errors to responses.
func (h *Handlers) writeCalendarError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, calendar.ErrYearOutOfRange), errors.Is(err, calendar.ErrInvalidDateFormat):
		WriteBadRequest(w, err.Error())
	default:
		logger.Error(ctx, h.logger, "calendar calculation failed", err)
		WriteError(w, http.StatusInternalServerError, err.Error(), "CALCULATION_ERROR")
	}
}

// yearParam parses a year path or query value, writing 400 on failure.
func yearParam(w http.ResponseWriter, s string) (int, bool) {
	year, err := strconv.Atoi(s)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid year: %s", s))
		return 0, false
	}
	return year, true
}
