// Command apitest runs smoke checks against a running service calendar API.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// =============================================================================
// Response Types - Match the actual API response structure
// =============================================================================

type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// HealthResponse is the response for /health
type HealthResponse struct {
	Status           string `json:"status"`
	AlgorithmVersion string `json:"algorithm_version"`
}

// Service is the subset of a generated service the checks read.
type Service struct {
	DateString     string `json:"date_string"`
	SeasonID       string `json:"season_id"`
	SpecialDayID   string `json:"special_day_id"`
	SpecialDayName string `json:"special_day_name"`
}

// CalendarResponse is the response for /api/v1/calendars/{year}
type CalendarResponse struct {
	Year             int       `json:"year"`
	Validated        bool      `json:"validated"`
	ValidationErrors []string  `json:"validation_errors"`
	Services         []Service `json:"services"`
	Metadata         struct {
		TotalServices int `json:"total_services"`
	} `json:"metadata"`
}

// ServiceInfoResponse is the response for /api/v1/liturgical/service
type ServiceInfoResponse struct {
	Season     string `json:"season"`
	SpecialDay string `json:"special_day"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	client       *http.Client
	out          io.Writer
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL string, out io.Writer, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		out:     out,
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintln(tr.out, "Service Calendar API Test Suite")
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintf(tr.out, "Base URL: %s\n", tr.baseURL)

	// Run test groups
	tr.testHealth()
	tr.testYearCalendar()
	tr.testSpecialDays()
	tr.testEdgeCases()
	tr.testBatch()

	// Print summary
	tr.printSummary()
}

// Failed reports whether any check failed.
func (tr *TestRunner) Failed() bool {
	return tr.errorCount > 0
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	resp, err := tr.get("/health")
	if err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	var health HealthResponse
	if err := json.Unmarshal(resp.Data, &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess(fmt.Sprintf("Health check passed (algorithm %s)", health.AlgorithmVersion))
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testYearCalendar() {
	tr.printSection("Year Calendars")

	for _, year := range []int{2025, 2028, 2033} {
		resp, err := tr.get(fmt.Sprintf("/api/v1/calendars/%d", year))
		if err != nil {
			tr.recordError(fmt.Sprint(year), err.Error())
			continue
		}

		var cal CalendarResponse
		if err := json.Unmarshal(resp.Data, &cal); err != nil {
			tr.recordError(fmt.Sprint(year), err.Error())
			continue
		}

		if !cal.Validated {
			tr.recordError(fmt.Sprint(year), strings.Join(cal.ValidationErrors, "; "))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%d: %d services, validated", year, cal.Metadata.TotalServices))

		if tr.verbose {
			for _, s := range cal.Services {
				if s.SpecialDayName != "" {
					fmt.Fprintf(tr.out, "    %s  %s\n", s.DateString, s.SpecialDayName)
				}
			}
		}
	}
}

func (tr *TestRunner) testSpecialDays() {
	tr.printSection("Special Days")

	testCases := []struct {
		date       string
		season     string
		specialDay string
	}{
		{"12/1/24", "ADVENT", "ADVENT_1"},
		{"12/24/24", "CHRISTMAS", "CHRISTMAS_EVE"},
		{"3/5/25", "LENT", "ASH_WEDNESDAY"},
		{"4/13/25", "HOLY_WEEK", "PALM_SUNDAY"},
		{"4/20/25", "EASTER", "EASTER_SUNDAY"},
		{"6/8/25", "PENTECOST", "PENTECOST"},
		{"10/26/25", "REFORMATION", "REFORMATION"},
		{"11/23/25", "CHRIST_THE_KING", "CHRIST_THE_KING"},
		{"7/13/25", "ORDINARY", ""},
	}

	for _, tc := range testCases {
		resp, err := tr.get("/api/v1/liturgical/service?date=" + tc.date)
		if err != nil {
			tr.recordError(tc.date, err.Error())
			continue
		}

		var info ServiceInfoResponse
		if err := json.Unmarshal(resp.Data, &info); err != nil {
			tr.recordError(tc.date, err.Error())
			continue
		}

		if info.Season != tc.season || info.SpecialDay != tc.specialDay {
			tr.recordError(tc.date, fmt.Sprintf("got %s/%s, want %s/%s",
				info.Season, info.SpecialDay, tc.season, tc.specialDay))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s: %s %s", tc.date, info.Season, info.SpecialDay))
	}
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	testCases := []struct {
		path        string
		wantStatus  int
		description string
	}{
		{"/api/v1/calendars/2023", http.StatusBadRequest, "Year before generation window rejected"},
		{"/api/v1/calendars/2101", http.StatusBadRequest, "Year after generation window rejected"},
		{"/api/v1/liturgical/invalid", http.StatusBadRequest, "Invalid date format rejected"},
		{"/api/v1/liturgical/2025-02-30", http.StatusBadRequest, "Impossible date rejected"},
		{"/api/v1/liturgical/service?date=1/1/69", http.StatusBadRequest, "Date before historical window rejected"},
		{"/api/v1/calendars?start=2025", http.StatusBadRequest, "Missing end parameter rejected"},
		{"/api/v1/liturgical/2024-02-29", http.StatusOK, "Leap year date handled"},
	}

	for _, tc := range testCases {
		resp, err := tr.getRaw(tc.path)
		if err != nil {
			tr.recordError(tc.path, err.Error())
			continue
		}
		resp.Body.Close()

		if resp.StatusCode == tc.wantStatus {
			tr.recordSuccess(tc.description)
		} else {
			tr.recordError(tc.path, fmt.Sprintf("HTTP %d, want %d", resp.StatusCode, tc.wantStatus))
		}
	}
}

func (tr *TestRunner) testBatch() {
	tr.printSection("Batch Generation")

	resp, err := tr.get("/api/v1/calendars?start=2024&end=2033")
	if err != nil {
		tr.recordError("Batch", err.Error())
		return
	}

	var data struct {
		Years []struct {
			Year      int    `json:"year"`
			Validated bool   `json:"validated"`
			Error     string `json:"error"`
		} `json:"years"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		tr.recordError("Batch", err.Error())
		return
	}

	for _, y := range data.Years {
		if !y.Validated {
			tr.recordError(fmt.Sprint(y.Year), "not validated "+y.Error)
		}
	}
	if len(data.Years) == 10 {
		tr.recordSuccess("Batch 2024-2033 returned 10 years")
	} else {
		tr.recordError("Batch", fmt.Sprintf("returned %d years, want 10", len(data.Years)))
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

func (tr *TestRunner) get(path string) (*APIResponse, error) {
	resp, err := tr.getRaw(path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return nil, fmt.Errorf("API error: %s", errMsg)
	}

	return &apiResp, nil
}

func (tr *TestRunner) getRaw(path string) (*http.Response, error) {
	return tr.client.Get(tr.baseURL + path)
}

func (tr *TestRunner) printSection(name string) {
	fmt.Fprintln(tr.out)
	fmt.Fprintf(tr.out, "--- %s ---\n", name)
	fmt.Fprintln(tr.out)
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Fprintf(tr.out, "  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Fprintf(tr.out, "  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Fprintln(tr.out)
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintln(tr.out, "Summary")
	fmt.Fprintln(tr.out, "==============================================")
	fmt.Fprintf(tr.out, "  Passed: %d\n", tr.successCount)
	fmt.Fprintf(tr.out, "  Failed: %d\n", tr.errorCount)
	fmt.Fprintln(tr.out)

	if tr.errorCount > 0 {
		fmt.Fprintln(tr.out, "Failures:")
		for _, err := range tr.errors {
			fmt.Fprintf(tr.out, "  • %s\n", err)
		}
		fmt.Fprintln(tr.out)
		fmt.Fprintf(tr.out, "Tests completed with %d failure(s)\n", tr.errorCount)
		return
	}

	fmt.Fprintln(tr.out, "All tests passed! ✓")
}

// =============================================================================
// Main
// =============================================================================

func main() {
	flagSet := pflag.NewFlagSet("apitest", pflag.ContinueOnError)
	baseURL := flagSet.String("url", "http://localhost:8080", "Base URL of the API")
	verbose := flagSet.BoolP("verbose", "v", false, "Verbose output (list special days)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, os.Stdout, *verbose)
	runner.Run()

	// Exit with error code if tests failed
	if runner.Failed() {
		os.Exit(1)
	}
}
