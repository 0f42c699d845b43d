package calendar

import (
	"fmt"
	"log/slog"
	"sort"
	"time"
)

// MinServicesPerYear is the fewest services a complete year can hold.
const MinServicesPerYear = 52

// MaxLentenMidweeks caps the Wednesday services between Ash Wednesday and
// Palm Sunday.
const MaxLentenMidweeks = 5

// Service is one scheduled occasion. The override fields are never set by
// the generator; they belong to whoever edits a stored calendar later.
type Service struct {
	Date             time.Time    `json:"date"`
	DateString       string       `json:"date_string"` // M/D/YY
	DayOfWeek        string       `json:"day_of_week"`
	SeasonID         SeasonID     `json:"season_id"`
	SeasonName       string       `json:"season_name"`
	SeasonColor      string       `json:"season_color"`
	SpecialDayID     SpecialDayID `json:"special_day_id,omitempty"`
	SpecialDayName   string       `json:"special_day_name,omitempty"`
	IsRegularSunday  bool         `json:"is_regular_sunday"`
	IsSpecialWeekday bool         `json:"is_special_weekday"`
	IsOverridden     bool         `json:"is_overridden"`
	OverrideReason   *string      `json:"override_reason,omitempty"`
	OverriddenBy     *string      `json:"overridden_by,omitempty"`
	OverriddenAt     *time.Time   `json:"overridden_at,omitempty"`
}

// Metadata summarizes a YearCalendar.
type Metadata struct {
	TotalServices   int `json:"total_services"`
	RegularSundays  int `json:"regular_sundays"`
	SpecialWeekdays int `json:"special_weekdays"`
	OverriddenCount int `json:"overridden_count"`
}

// YearCalendar is the generated service schedule for one year. Services
// are sorted ascending and no two share a date.
type YearCalendar struct {
	Year               int                  `json:"year"`
	Services           []Service            `json:"services"`
	KeyDates           map[string]time.Time `json:"key_dates"`
	Metadata           Metadata             `json:"metadata"`
	Validated          bool                 `json:"validated"`
	ValidationErrors   []string             `json:"validation_errors"`
	ValidationWarnings []string             `json:"validation_warnings"`
	AlgorithmVersion   string               `json:"algorithm_version"`
	GeneratedAt        time.Time            `json:"generated_at"`
}

// generation stages, logged at debug level.
type stage string

const (
	stageStart     stage = "start"
	stageSundays   stage = "sundays-generated"
	stageWeekdays  stage = "weekdays-merged"
	stageValidated stage = "validated"
	stageDone      stage = "done"
)

// GenerateServicesForYear builds every Sunday and special weekday service
// of year, validates the result and returns it.
//
// A year outside GenerationWindow fails with *YearRangeError and an
// implausible Easter with *CalculationError. Any other inconsistency is
// reported in ValidationErrors or ValidationWarnings of the returned
// calendar, with Validated false when there are errors.
func (c *Calendar) GenerateServicesForYear(year int) (*YearCalendar, error) {
	log := c.logger.With(slog.Int("year", year))
	log.Debug("generating services", slog.String("stage", string(stageStart)))

	if err := GenerationWindow.Check(year); err != nil {
		return nil, err
	}
	if err := c.ValidateEasterDate(year); err != nil {
		return nil, err
	}

	services := c.sundayServices(year)
	log.Debug("generating services",
		slog.String("stage", string(stageSundays)),
		slog.Int("sundays", len(services)),
	)

	services = append(services, c.weekdayServices(year)...)
	sort.SliceStable(services, func(i, j int) bool {
		return services[i].Date.Before(services[j].Date)
	})
	log.Debug("generating services",
		slog.String("stage", string(stageWeekdays)),
		slog.Int("services", len(services)),
	)

	errs, warnings := validateServices(year, services)
	log.Debug("generating services", slog.String("stage", string(stageValidated)))

	cal := &YearCalendar{
		Year:               year,
		Services:           services,
		KeyDates:           c.KeyDates(year),
		Metadata:           summarize(services),
		Validated:          len(errs) == 0,
		ValidationErrors:   errs,
		ValidationWarnings: warnings,
		AlgorithmVersion:   AlgorithmVersion,
		GeneratedAt:        c.now().UTC(),
	}

	for _, w := range warnings {
		log.Warn("service calendar warning", slog.String("warning", w))
	}
	for _, e := range errs {
		log.Warn("service calendar error", slog.String("error", e))
	}
	log.Info("generated service calendar",
		slog.String("stage", string(stageDone)),
		slog.Int("services", cal.Metadata.TotalServices),
		slog.Bool("validated", cal.Validated),
	)

	return cal, nil
}

// sundayServices returns a service for every Sunday of year.
func (c *Calendar) sundayServices(year int) []Service {
	var services []Service
	for d := nextWeekday(ymd(year, time.January, 1), time.Sunday); d.Year() == year; d = d.AddDate(0, 0, 7) {
		s := c.newService(d, c.SpecialDay(d), "")
		s.IsRegularSunday = true
		services = append(services, s)
	}
	return services
}

// weekdayServices returns the special services that do not fall on a
// Sunday: Christmas Eve, Ash Wednesday, Maundy Thursday, Good Friday,
// Ascension, the Lenten midweeks and Thanksgiving Eve.
func (c *Calendar) weekdayServices(year int) []Service {
	ashWednesday := c.AshWednesday(year)
	palmSunday := c.PalmSunday(year)

	type occasion struct {
		id   SpecialDayID
		date time.Time
		name string
	}
	occasions := []occasion{
		{ChristmasEve, ymd(year, time.December, 24), ""},
		{AshWednesday, ashWednesday, ""},
		{MaundyThursday, c.MaundyThursday(year), ""},
		{GoodFriday, c.GoodFriday(year), ""},
		{Ascension, c.Ascension(year), ""},
	}

	n := 0
	for d := ashWednesday.AddDate(0, 0, 7); d.Before(palmSunday) && n < MaxLentenMidweeks; d = d.AddDate(0, 0, 7) {
		n++
		name := fmt.Sprintf("%s %s", Ordinal(n), feastDays[LentenMidweek].Name)
		occasions = append(occasions, occasion{LentenMidweek, d, name})
	}

	occasions = append(occasions, occasion{ThanksgivingEve, ThanksgivingEveDay(year), ""})

	var services []Service
	for _, o := range occasions {
		// A Sunday already has its service.
		if o.date.Weekday() == time.Sunday {
			continue
		}
		s := c.newService(o.date, o.id, o.name)
		s.IsSpecialWeekday = true
		services = append(services, s)
	}
	return services
}

// newService describes the service on d. name overrides the feast name
// when set.
func (c *Calendar) newService(d time.Time, special SpecialDayID, name string) Service {
	season := LookupSeason(c.CurrentSeason(d))
	s := Service{
		Date:        d,
		DateString:  FormatServiceDate(d),
		DayOfWeek:   DayName(d),
		SeasonID:    season.ID,
		SeasonName:  season.Name,
		SeasonColor: season.Color,
	}
	if f, ok := feastDays[special]; ok {
		s.SpecialDayID = f.ID
		s.SpecialDayName = f.Name
		s.SeasonColor = f.Color
		if name != "" {
			s.SpecialDayName = name
		}
	}
	return s
}

// validateServices runs the structural checks on a merged service list.
func validateServices(year int, services []Service) (errs, warnings []string) {
	errs, warnings = []string{}, []string{}

	dates := make([]time.Time, len(services))
	for i, s := range services {
		dates[i] = s.Date
	}
	report := ValidateServiceDateRange(dates)
	if report.Message != "" && len(report.Duplicates) == 0 && len(report.Gaps) == 0 {
		errs = append(errs, report.Message)
	}
	for _, d := range report.Duplicates {
		errs = append(errs, fmt.Sprintf("duplicate service date %s", FormatDate(d)))
	}
	for _, g := range report.Gaps {
		warnings = append(warnings, fmt.Sprintf("gap of %d days between %s and %s",
			g.DaysBetween, FormatDate(g.After), FormatDate(g.Before)))
	}

	if len(services) < MinServicesPerYear {
		errs = append(errs, fmt.Sprintf("only %d services, expected at least %d", len(services), MinServicesPerYear))
	}

	var hasEaster, hasChristmas bool
	for _, s := range services {
		switch s.SpecialDayID {
		case EasterSunday:
			hasEaster = true
		case ChristmasEve, ChristmasDay:
			hasChristmas = true
		}
		if s.Date.Year() != year {
			errs = append(errs, fmt.Sprintf("service %s falls outside %d", FormatDate(s.Date), year))
		}
	}
	if !hasEaster {
		errs = append(errs, "no Easter Sunday service")
	}
	if !hasChristmas {
		warnings = append(warnings, "no Christmas service")
	}
	return errs, warnings
}

func summarize(services []Service) Metadata {
	m := Metadata{TotalServices: len(services)}
	for _, s := range services {
		if s.IsRegularSunday {
			m.RegularSundays++
		}
		if s.IsSpecialWeekday {
			m.SpecialWeekdays++
		}
		if s.IsOverridden {
			m.OverriddenCount++
		}
	}
	return m
}

// Summarize recomputes the metadata of a calendar, e.g. after overrides
// were applied to stored services.
func (yc *YearCalendar) Summarize() {
	yc.Metadata = summarize(yc.Services)
}

// YearResult is the outcome of generating one year in a batch.
type YearResult struct {
	Year     int
	Calendar *YearCalendar
	Err      error
}

// Validated reports whether the year generated without errors.
func (r YearResult) Validated() bool {
	return r.Err == nil && r.Calendar != nil && r.Calendar.Validated
}

// GenerateServicesForYears generates every year from start to end
// inclusive. A failing year is recorded in its YearResult and does not
// stop the remaining years. start > end yields no results.
func (c *Calendar) GenerateServicesForYears(start, end int) []YearResult {
	if start > end {
		return nil
	}
	var results []YearResult
	for year := start; ; year++ {
		cal, err := c.GenerateServicesForYear(year)
		if err != nil {
			c.logger.Warn("year generation failed",
				slog.Int("year", year),
				slog.Any("error", err),
			)
		}
		results = append(results, YearResult{Year: year, Calendar: cal, Err: err})
		// end may be math.MaxInt, so stop before year++ wraps.
		if year == end {
			return results
		}
	}
}
