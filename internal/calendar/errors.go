package calendar

import (
	"errors"
	"fmt"
)

// =============================================================================
// Sentinel Errors - use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDateFormat is returned when a date string matches none of the
	// accepted layouts or names an impossible calendar date.
	ErrInvalidDateFormat = errors.New("invalid date format")

	// ErrYearOutOfRange is returned when a year falls outside a YearWindow.
	ErrYearOutOfRange = errors.New("year out of range")

	// ErrCalculation is returned when a computed date is implausible.
	ErrCalculation = errors.New("calculation error")
)

// =============================================================================
// Structured Errors - carry additional context
// =============================================================================

// DateFormatError describes a date input that could not be parsed.
type DateFormatError struct {
	Input  string
	Reason string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("invalid date %q: %s", e.Input, e.Reason)
}

func (e *DateFormatError) Unwrap() error { return ErrInvalidDateFormat }

// YearRangeError reports a year outside the window it was checked against.
type YearRangeError struct {
	Year   int
	Window YearWindow
}

func (e *YearRangeError) Error() string {
	return fmt.Sprintf("year %d outside %s window %d-%d",
		e.Year, e.Window.Name, e.Window.Min, e.Window.Max)
}

func (e *YearRangeError) Unwrap() error { return ErrYearOutOfRange }

// CalculationError reports an implausible computed result for a year.
type CalculationError struct {
	Year   int
	Detail string
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("calculation for %d: %s", e.Year, e.Detail)
}

func (e *CalculationError) Unwrap() error { return ErrCalculation }
