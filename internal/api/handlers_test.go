package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zapponejosh/service-calendar/internal/calendar"
	"github.com/zapponejosh/service-calendar/internal/config"
	"github.com/zapponejosh/service-calendar/internal/database"
)

// =============================================================================
// TEST SETUP HELPERS
// =============================================================================

// testEnv sets up a complete test environment with database, config, and router
type testEnv struct {
	db     *database.DB
	cal    *calendar.Calendar
	cfg    *config.Config
	router http.Handler
}

// setupTest creates a fresh test environment
func setupTest(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := database.Open(database.MemoryPath, logger)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Run migrations
	if _, err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	cfg := &config.Config{
		Port:             8080,
		Env:              config.EnvDevelopment,
		DatabasePath:     ":memory:",
		PersistCalendars: true,
		AllowedOrigins:   []string{"http://localhost:5173"},
		LogLevel:         "error",
		LogFormat:        "text",
	}

	cal := calendar.New(calendar.WithLogger(logger))
	handlers := NewHandlers(db, cal, cfg, logger)

	return &testEnv{
		db:     db,
		cal:    cal,
		cfg:    cfg,
		router: SetupRoutes(handlers, cfg, logger),
	}
}

// do sends a request through the full router.
func (env *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

// envelope mirrors Response with a raw data payload.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorInfo      `json:"error"`
}

// decode checks the status code and unmarshals the data payload into v.
func decode(t *testing.T, rr *httptest.ResponseRecorder, wantStatus int, v interface{}) envelope {
	t.Helper()

	if rr.Code != wantStatus {
		t.Fatalf("status = %d, want %d; body = %s", rr.Code, wantStatus, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var env envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if v != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, v); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
	return env
}

// =============================================================================
// HEALTH
// =============================================================================

func TestHealthCheck(t *testing.T) {
	env := setupTest(t)

	var data map[string]string
	resp := decode(t, env.do(t, http.MethodGet, "/health", nil), http.StatusOK, &data)

	if !resp.Success {
		t.Error("Success = false, want true")
	}
	if data["status"] != "healthy" {
		t.Errorf("status = %q, want healthy", data["status"])
	}
}

// failingStore reports every call as failed.
type failingStore struct{ Store }

func (failingStore) Health(context.Context) error { return errors.New("disk gone") }

func TestHealthCheck_Unhealthy(t *testing.T) {
	cfg := &config.Config{AllowedOrigins: []string{"*"}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := SetupRoutes(NewHandlers(failingStore{}, calendar.New(), cfg, logger), cfg, logger)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	resp := decode(t, rr, http.StatusServiceUnavailable, nil)
	if resp.Success || resp.Error == nil || resp.Error.Code != "HEALTH_CHECK_FAILED" {
		t.Errorf("response = %+v, want HEALTH_CHECK_FAILED error", resp)
	}
}

// =============================================================================
// CALENDARS
// =============================================================================

func TestGetCalendar(t *testing.T) {
	env := setupTest(t)

	var cal calendar.YearCalendar
	decode(t, env.do(t, http.MethodGet, "/api/v1/calendars/2025", nil), http.StatusOK, &cal)

	if cal.Year != 2025 {
		t.Errorf("Year = %d, want 2025", cal.Year)
	}
	if !cal.Validated {
		t.Errorf("Validated = false; errors = %v", cal.ValidationErrors)
	}
	if cal.Metadata.TotalServices != 63 {
		t.Errorf("TotalServices = %d, want 63", cal.Metadata.TotalServices)
	}

	// Persisted because PersistCalendars is on
	years, err := env.db.ListCalendarYears(context.Background())
	if err != nil {
		t.Fatalf("ListCalendarYears() error = %v", err)
	}
	if len(years) != 1 || years[0].Year != 2025 {
		t.Errorf("stored years = %+v, want [2025]", years)
	}
}

func TestGetCalendar_NotPersisted(t *testing.T) {
	env := setupTest(t)
	env.cfg.PersistCalendars = false

	decode(t, env.do(t, http.MethodGet, "/api/v1/calendars/2025", nil), http.StatusOK, nil)

	years, err := env.db.ListCalendarYears(context.Background())
	if err != nil {
		t.Fatalf("ListCalendarYears() error = %v", err)
	}
	if len(years) != 0 {
		t.Errorf("stored years = %+v, want none", years)
	}
}

func TestGetCalendar_BadYear(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name string
		path string
	}{
		{"before generation window", "/api/v1/calendars/2023"},
		{"after generation window", "/api/v1/calendars/2101"},
		{"not a number", "/api/v1/calendars/twenty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := decode(t, env.do(t, http.MethodGet, tt.path, nil), http.StatusBadRequest, nil)
			if resp.Error == nil || resp.Error.Code != "BAD_REQUEST" {
				t.Errorf("error = %+v, want BAD_REQUEST", resp.Error)
			}
		})
	}
}

func TestGetStoredCalendar(t *testing.T) {
	env := setupTest(t)

	decode(t, env.do(t, http.MethodGet, "/api/v1/calendars/2026/stored", nil), http.StatusNotFound, nil)

	decode(t, env.do(t, http.MethodGet, "/api/v1/calendars/2026", nil), http.StatusOK, nil)

	var cal calendar.YearCalendar
	decode(t, env.do(t, http.MethodGet, "/api/v1/calendars/2026/stored", nil), http.StatusOK, &cal)
	if cal.Year != 2026 || len(cal.Services) != cal.Metadata.TotalServices {
		t.Errorf("stored calendar year = %d, services = %d, total = %d",
			cal.Year, len(cal.Services), cal.Metadata.TotalServices)
	}

	var years []database.StoredYear
	decode(t, env.do(t, http.MethodGet, "/api/v1/calendars/stored", nil), http.StatusOK, &years)
	if len(years) != 1 || years[0].Year != 2026 {
		t.Errorf("stored years = %+v, want [2026]", years)
	}
}

func TestGetCalendarRange(t *testing.T) {
	env := setupTest(t)

	var data struct {
		Years []rangeEntry `json:"years"`
	}
	decode(t, env.do(t, http.MethodGet, "/api/v1/calendars?start=2023&end=2025", nil), http.StatusOK, &data)

	if len(data.Years) != 3 {
		t.Fatalf("len(years) = %d, want 3", len(data.Years))
	}
	if data.Years[0].Error == "" || data.Years[0].Validated {
		t.Errorf("2023 entry = %+v, want an error", data.Years[0])
	}
	for _, e := range data.Years[1:] {
		if e.Error != "" || !e.Validated || e.Metadata == nil {
			t.Errorf("%d entry = %+v, want validated", e.Year, e)
		}
	}
}

func TestGetCalendarRange_Invalid(t *testing.T) {
	env := setupTest(t)

	tests := []struct {
		name string
		path string
	}{
		{"missing end", "/api/v1/calendars?start=2025"},
		{"bad start", "/api/v1/calendars?start=x&end=2025"},
		{"too many years", "/api/v1/calendars?start=2025&end=2035"},
		{"start before historical window", "/api/v1/calendars?start=1969&end=1970"},
		{"end after historical window", "/api/v1/calendars?start=2100&end=2101"},
		{"extreme years", "/api/v1/calendars?start=-9223372036854775808&end=9223372036854775807"},
		{"end at max int", "/api/v1/calendars?start=9223372036854775806&end=9223372036854775807"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decode(t, env.do(t, http.MethodGet, tt.path, nil), http.StatusBadRequest, nil)
		})
	}
}

func TestGetCalendarRange_StartAfterEnd(t *testing.T) {
	env := setupTest(t)

	var data struct {
		Years []rangeEntry `json:"years"`
	}
	decode(t, env.do(t, http.MethodGet, "/api/v1/calendars?start=2026&end=2025", nil), http.StatusOK, &data)
	if len(data.Years) != 0 {
		t.Errorf("len(years) = %d, want 0", len(data.Years))
	}
}

// =============================================================================
// LITURGICAL INFO
// =============================================================================

func TestGetLiturgicalInfo(t *testing.T) {
	env := setupTest(t)

	var info calendar.LiturgicalInfo
	decode(t, env.do(t, http.MethodGet, "/api/v1/liturgical/2025-04-20", nil), http.StatusOK, &info)

	if info.SpecialDay == nil || info.SpecialDay.ID != calendar.EasterSunday {
		t.Errorf("SpecialDay = %+v, want EASTER_SUNDAY", info.SpecialDay)
	}
	if info.Season.ID != calendar.SeasonEaster {
		t.Errorf("Season = %q, want %q", info.Season.ID, calendar.SeasonEaster)
	}
}

func TestGetLiturgicalInfo_Invalid(t *testing.T) {
	env := setupTest(t)

	for _, path := range []string{
		"/api/v1/liturgical/2025-13-01",
		"/api/v1/liturgical/1969-12-31",
		"/api/v1/liturgical/yesterday",
	} {
		resp := decode(t, env.do(t, http.MethodGet, path, nil), http.StatusBadRequest, nil)
		if resp.Success {
			t.Errorf("%s: Success = true", path)
		}
	}
}

func TestGetServiceInfo(t *testing.T) {
	env := setupTest(t)

	var info calendar.ServiceInfo
	decode(t, env.do(t, http.MethodGet, "/api/v1/liturgical/service?date=12/24/25", nil), http.StatusOK, &info)

	if info.SpecialDay != calendar.ChristmasEve {
		t.Errorf("SpecialDay = %q, want %q", info.SpecialDay, calendar.ChristmasEve)
	}
	if info.Season != calendar.SeasonChristmas {
		t.Errorf("Season = %q, want %q", info.Season, calendar.SeasonChristmas)
	}

	decode(t, env.do(t, http.MethodGet, "/api/v1/liturgical/service?date=13/45/25", nil), http.StatusBadRequest, nil)
	decode(t, env.do(t, http.MethodGet, "/api/v1/liturgical/service", nil), http.StatusBadRequest, nil)
}

// =============================================================================
// CACHE
// =============================================================================

func TestClearCache(t *testing.T) {
	env := setupTest(t)

	decode(t, env.do(t, http.MethodGet, "/api/v1/liturgical/2025-04-20", nil), http.StatusOK, nil)

	var stats calendar.CacheStats
	decode(t, env.do(t, http.MethodGet, "/api/v1/cache", nil), http.StatusOK, &stats)
	if stats.EasterYears == 0 || stats.Seasons == 0 {
		t.Errorf("stats before clear = %+v, want populated", stats)
	}

	decode(t, env.do(t, http.MethodPost, "/api/v1/cache/clear", nil), http.StatusOK, nil)

	decode(t, env.do(t, http.MethodGet, "/api/v1/cache", nil), http.StatusOK, &stats)
	if stats != (calendar.CacheStats{}) {
		t.Errorf("stats after clear = %+v, want empty", stats)
	}
}

// =============================================================================
// ROUTER
// =============================================================================

func TestUnknownRoute(t *testing.T) {
	env := setupTest(t)

	resp := decode(t, env.do(t, http.MethodGet, "/api/v1/readings/today", nil), http.StatusNotFound, nil)
	if resp.Error == nil || resp.Error.Code != "NOT_FOUND" {
		t.Errorf("error = %+v, want NOT_FOUND", resp.Error)
	}
}

func TestCORSPreflight(t *testing.T) {
	env := setupTest(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/calendars/2025", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Access-Control-Allow-Origin = %q, want http://localhost:5173", got)
	}

	req.Header.Set("Origin", "https://elsewhere.example")
	rr = httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin for unknown origin = %q, want empty", got)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := RecoveryMiddleware(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	resp := decode(t, rr, http.StatusInternalServerError, nil)
	if resp.Error == nil || resp.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("error = %+v, want INTERNAL_ERROR", resp.Error)
	}
}
