package calendar

import "time"

// Lectionary cycles of the three-year Revised Common Lectionary.
const (
	CycleA = "A"
	CycleB = "B"
	CycleC = "C"

	// ReferenceYear is the liturgical year we use as a baseline for cycle
	// calculation: the year beginning Advent 2025 is Year A.
	ReferenceYear  = 2025
	ReferenceCycle = 0 // index into cycles
)

var cycles = [3]string{CycleA, CycleB, CycleC}

// LiturgicalYear returns the starting year of the liturgical year
// that contains the given date.
//
// The liturgical year is identified by the year in which its Advent begins.
// For example, the liturgical year "2024" runs from Advent 2024 through
// the Saturday before Advent 2025.
func LiturgicalYear(date time.Time) int {
	d := Normalize(date)
	year := d.Year()
	if d.Before(AdventStart(year)) {
		return year - 1
	}
	return year
}

// LectionaryCycle determines which lectionary year (A, B or C) applies to
// a given date.
//
// Examples:
//   - November 30, 2025 (Advent 2025): Year A
//   - November 29, 2025 (before Advent 2025): Year C
//   - December 1, 2024 (Advent 2024): Year C
//   - April 20, 2025: Year C
func LectionaryCycle(date time.Time) string {
	offset := (LiturgicalYear(date) - ReferenceYear) % 3
	if offset < 0 {
		offset += 3
	}
	return cycles[(ReferenceCycle+offset)%3]
}
