package calendar

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// YearWindow is an inclusive range of accepted years.
type YearWindow struct {
	Name string
	Min  int
	Max  int
}

var (
	// HistoricalWindow bounds dates accepted from callers.
	HistoricalWindow = YearWindow{Name: "historical", Min: 1970, Max: 2100}

	// GenerationWindow bounds years a service calendar can be generated for.
	GenerationWindow = YearWindow{Name: "generation", Min: 2024, Max: 2100}
)

// Check returns a *YearRangeError when year is outside the window.
func (w YearWindow) Check(year int) error {
	if year < w.Min || year > w.Max {
		return &YearRangeError{Year: year, Window: w}
	}
	return nil
}

// Contains reports whether year lies inside the window.
func (w YearWindow) Contains(year int) bool {
	return w.Check(year) == nil
}

// Canonical layouts.
const (
	isoLayout     = "2006-01-02"
	serviceLayout = "1/2/06"
)

// twoDigitPivot: two-digit years below it are 20YY, the rest 19YY.
const twoDigitPivot = 50

var (
	shortDatePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2})$`)
	isoDatePattern   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
)

type inputKind int

const (
	inputTime inputKind = iota + 1
	inputString
)

// DateInput is a date supplied from outside the package: either a native
// time.Time or a string in M/D/YY or YYYY-MM-DD form. Resolve it once with
// ResolveDate.
type DateInput struct {
	kind inputKind
	t    time.Time
	s    string
}

// FromTime wraps a time value.
func FromTime(t time.Time) DateInput { return DateInput{kind: inputTime, t: t} }

// FromString wraps a date string.
func FromString(s string) DateInput { return DateInput{kind: inputString, s: s} }

func (in DateInput) String() string {
	switch in.kind {
	case inputTime:
		return in.t.Format(isoLayout)
	case inputString:
		return in.s
	}
	return "<empty>"
}

// ResolveDate converts a DateInput to the canonical representation: UTC
// midnight of the calendar day.
func ResolveDate(in DateInput) (time.Time, error) {
	switch in.kind {
	case inputTime:
		if in.t.IsZero() {
			return time.Time{}, &DateFormatError{Input: in.String(), Reason: "zero time"}
		}
		return Normalize(in.t), nil
	case inputString:
		return ParseDate(in.s)
	}
	return time.Time{}, &DateFormatError{Input: "", Reason: "empty input"}
}

// ParseDate parses M/D/YY or YYYY-MM-DD. Two-digit years below 50 map to
// the 2000s, the rest to the 1900s.
func ParseDate(s string) (time.Time, error) {
	if m := isoDatePattern.FindStringSubmatch(s); m != nil {
		return buildDate(s, atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if m := shortDatePattern.FindStringSubmatch(s); m != nil {
		yy := atoi(m[3])
		year := 1900 + yy
		if yy < twoDigitPivot {
			year = 2000 + yy
		}
		return buildDate(s, year, atoi(m[1]), atoi(m[2]))
	}
	return time.Time{}, &DateFormatError{Input: s, Reason: "expected M/D/YY or YYYY-MM-DD"}
}

// ParseServiceDate parses a caller-supplied date and checks it against
// HistoricalWindow.
func ParseServiceDate(in DateInput) (time.Time, error) {
	d, err := ResolveDate(in)
	if err != nil {
		return time.Time{}, err
	}
	if err := HistoricalWindow.Check(d.Year()); err != nil {
		return time.Time{}, err
	}
	return d, nil
}

func buildDate(input string, year, month, day int) (time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, &DateFormatError{Input: input, Reason: fmt.Sprintf("month %d out of range", month)}
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 30 -> Mar 2); reject it.
	if d.Day() != day || int(d.Month()) != month {
		return time.Time{}, &DateFormatError{Input: input, Reason: "no such calendar day"}
	}
	return d, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// Normalize strips clock and zone, keeping the calendar day as seen in t's
// own location.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate formats a date as YYYY-MM-DD. This is the cache key form.
func FormatDate(date time.Time) string {
	return date.Format(isoLayout)
}

// FormatServiceDate formats a date as M/D/YY.
func FormatServiceDate(date time.Time) string {
	return date.Format(serviceLayout)
}

// DayName returns the day of week name (Sunday, Monday, etc.)
func DayName(date time.Time) string {
	return date.Weekday().String()
}

// Ordinal returns the ordinal form of a number (1st, 2nd, 3rd, 4th, etc.)
func Ordinal(n int) string {
	if n%100 >= 11 && n%100 <= 13 {
		return fmt.Sprintf("%dth", n)
	}
	switch n % 10 {
	case 1:
		return fmt.Sprintf("%dst", n)
	case 2:
		return fmt.Sprintf("%dnd", n)
	case 3:
		return fmt.Sprintf("%drd", n)
	}
	return fmt.Sprintf("%dth", n)
}

// sameDay reports whether a and b fall on the same calendar day.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// inRange reports start <= d < end.
func inRange(d, start, end time.Time) bool {
	return !d.Before(start) && d.Before(end)
}

// daysBetween returns whole days from a to b.
func daysBetween(a, b time.Time) int {
	return int(Normalize(b).Sub(Normalize(a)).Hours() / 24)
}

// nextWeekday returns the first date on or after d falling on wd.
func nextWeekday(d time.Time, wd time.Weekday) time.Time {
	offset := (int(wd) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, offset)
}

func ymd(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
