package calendar

import (
	"fmt"
	"sort"
	"time"
)

// MaxServiceGap is the largest number of days allowed between consecutive
// services before a gap is reported.
const MaxServiceGap = 14

// Easter bounds under the Gregorian rules.
const (
	earliestEasterDay = 22 // March
	latestEasterDay   = 25 // April
)

// ValidateEasterDate recomputes Easter for year and returns a
// *CalculationError unless it is a Sunday between March 22 and April 25.
func (c *Calendar) ValidateEasterDate(year int) error {
	easter := c.Easter(year)
	lo := ymd(year, time.March, earliestEasterDay)
	hi := ymd(year, time.April, latestEasterDay)

	if easter.Year() != year || easter.Before(lo) || easter.After(hi) {
		return &CalculationError{
			Year:   year,
			Detail: fmt.Sprintf("easter %s outside %s..%s", FormatDate(easter), FormatDate(lo), FormatDate(hi)),
		}
	}
	if easter.Weekday() != time.Sunday {
		return &CalculationError{
			Year:   year,
			Detail: fmt.Sprintf("easter %s falls on %s", FormatDate(easter), easter.Weekday()),
		}
	}
	return nil
}

// Gap is a run of more than MaxServiceGap days without a service.
type Gap struct {
	After       time.Time `json:"after"`
	Before      time.Time `json:"before"`
	DaysBetween int       `json:"days_between"`
}

// DateRangeReport is the result of ValidateServiceDateRange.
type DateRangeReport struct {
	IsValid    bool        `json:"is_valid"`
	Duplicates []time.Time `json:"duplicates"`
	Gaps       []Gap       `json:"gaps"`
	Message    string      `json:"message,omitempty"`
}

// ValidateServiceDateRange checks a list of service dates for exact
// duplicates and gaps longer than MaxServiceGap days. The input is not
// modified. A date repeated n times is reported n-1 times.
func ValidateServiceDateRange(dates []time.Time) DateRangeReport {
	if len(dates) == 0 {
		return DateRangeReport{IsValid: false, Message: "no dates supplied"}
	}

	sorted := make([]time.Time, len(dates))
	for i, d := range dates {
		sorted[i] = Normalize(d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	report := DateRangeReport{}
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if cur.Equal(prev) {
			report.Duplicates = append(report.Duplicates, cur)
			continue
		}
		if n := daysBetween(prev, cur); n > MaxServiceGap {
			report.Gaps = append(report.Gaps, Gap{After: prev, Before: cur, DaysBetween: n})
		}
	}

	report.IsValid = len(report.Duplicates) == 0 && len(report.Gaps) == 0
	switch {
	case len(report.Duplicates) > 0 && len(report.Gaps) > 0:
		report.Message = fmt.Sprintf("%d duplicate dates and %d gaps", len(report.Duplicates), len(report.Gaps))
	case len(report.Duplicates) > 0:
		report.Message = fmt.Sprintf("%d duplicate dates", len(report.Duplicates))
	case len(report.Gaps) > 0:
		report.Message = fmt.Sprintf("%d gaps over %d days", len(report.Gaps), MaxServiceGap)
	}
	return report
}
