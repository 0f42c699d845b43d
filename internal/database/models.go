package database

import (
	"time"

	"github.com/zapponejosh/service-calendar/internal/calendar"
)

// timestampLayout is used for every timestamp the store writes.
const timestampLayout = time.RFC3339Nano

// dateLayout is used for the services.date column.
const dateLayout = "2006-01-02"

// StoredYear is one row of the calendars listing.
type StoredYear struct {
	Year             int       `json:"year"`
	AlgorithmVersion string    `json:"algorithm_version"`
	GeneratedAt      time.Time `json:"generated_at"`
	Validated        bool      `json:"validated"`
	ServiceCount     int       `json:"service_count"`
}

// Override marks a stored service as manually adjusted.
type Override struct {
	Reason string
	By     string
	At     time.Time
}

// serviceRow mirrors the services table.
type serviceRow struct {
	Date             string
	DayOfWeek        string
	SeasonID         string
	SeasonName       string
	SeasonColor      string
	SpecialDayID     string
	SpecialDayName   string
	IsRegularSunday  bool
	IsSpecialWeekday bool
	IsOverridden     bool
	OverrideReason   *string
	OverriddenBy     *string
	OverriddenAt     *string
}

func rowFromService(s calendar.Service) serviceRow {
	return serviceRow{
		Date:             s.Date.Format(dateLayout),
		DayOfWeek:        s.DayOfWeek,
		SeasonID:         string(s.SeasonID),
		SeasonName:       s.SeasonName,
		SeasonColor:      s.SeasonColor,
		SpecialDayID:     string(s.SpecialDayID),
		SpecialDayName:   s.SpecialDayName,
		IsRegularSunday:  s.IsRegularSunday,
		IsSpecialWeekday: s.IsSpecialWeekday,
	}
}

// toService converts a stored row back to the calendar type. Rows with an
// unparsable date are reported as errors by the caller.
func (r serviceRow) toService() (calendar.Service, error) {
	d, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return calendar.Service{}, err
	}
	s := calendar.Service{
		Date:             d,
		DateString:       calendar.FormatServiceDate(d),
		DayOfWeek:        r.DayOfWeek,
		SeasonID:         calendar.SeasonID(r.SeasonID),
		SeasonName:       r.SeasonName,
		SeasonColor:      r.SeasonColor,
		SpecialDayID:     calendar.SpecialDayID(r.SpecialDayID),
		SpecialDayName:   r.SpecialDayName,
		IsRegularSunday:  r.IsRegularSunday,
		IsSpecialWeekday: r.IsSpecialWeekday,
		IsOverridden:     r.IsOverridden,
		OverrideReason:   r.OverrideReason,
		OverriddenBy:     r.OverriddenBy,
	}
	if r.OverriddenAt != nil {
		if at, err := time.Parse(timestampLayout, *r.OverriddenAt); err == nil {
			s.OverriddenAt = &at
		}
	}
	return s, nil
}
