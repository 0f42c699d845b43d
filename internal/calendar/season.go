package calendar

import (
	"log/slog"
	"time"
)

// specialDayCheck matches one special day. Checks run in order and the
// first match wins: Transfiguration is derived from Ash Wednesday and must
// be tested before the fixed dates around it.
type specialDayCheck struct {
	id    SpecialDayID
	match func(c *Calendar, d time.Time) bool
}

var specialDayChecks = []specialDayCheck{
	{Transfiguration, func(c *Calendar, d time.Time) bool {
		return sameDay(d, c.Transfiguration(d.Year()))
	}},
	{ChristmasEve, func(_ *Calendar, d time.Time) bool {
		return d.Month() == time.December && d.Day() == 24
	}},
	{ChristmasDay, func(_ *Calendar, d time.Time) bool {
		return d.Month() == time.December && d.Day() == 25
	}},
	{FirstSundayAdvent, func(_ *Calendar, d time.Time) bool {
		return sameDay(d, AdventStart(d.Year()))
	}},
	{AshWednesday, func(c *Calendar, d time.Time) bool {
		return sameDay(d, c.AshWednesday(d.Year()))
	}},
	{PalmSunday, func(c *Calendar, d time.Time) bool {
		return sameDay(d, c.PalmSunday(d.Year()))
	}},
	{EasterSunday, func(c *Calendar, d time.Time) bool {
		return sameDay(d, c.Easter(d.Year()))
	}},
	{PentecostSunday, func(c *Calendar, d time.Time) bool {
		return sameDay(d, c.Pentecost(d.Year()))
	}},
	{TrinitySunday, func(c *Calendar, d time.Time) bool {
		return sameDay(d, c.TrinitySunday(d.Year()))
	}},
	{Reformation, func(_ *Calendar, d time.Time) bool {
		return sameDay(d, ReformationSunday(d.Year()))
	}},
	{AllSaints, func(_ *Calendar, d time.Time) bool {
		return sameDay(d, AllSaintsSunday(d.Year()))
	}},
	{ChristTheKing, func(_ *Calendar, d time.Time) bool {
		return sameDay(d, ChristTheKingSunday(d.Year()))
	}},
	{Thanksgiving, func(_ *Calendar, d time.Time) bool {
		return sameDay(d, ThanksgivingDay(d.Year()))
	}},
	{MaundyThursday, func(c *Calendar, d time.Time) bool {
		return sameDay(d, c.MaundyThursday(d.Year()))
	}},
	{GoodFriday, func(c *Calendar, d time.Time) bool {
		return sameDay(d, c.GoodFriday(d.Year()))
	}},
	{Ascension, func(c *Calendar, d time.Time) bool {
		return sameDay(d, c.Ascension(d.Year()))
	}},
	{Epiphany, func(_ *Calendar, d time.Time) bool {
		return d.Month() == time.January && d.Day() == 6
	}},
	{BaptismOfOurLord, func(_ *Calendar, d time.Time) bool {
		return sameDay(d, BaptismOfOurLordSunday(d.Year()))
	}},
}

// SpecialDay returns the special day observed on date, or NoSpecialDay.
func (c *Calendar) SpecialDay(date time.Time) SpecialDayID {
	d := Normalize(date)
	return c.cache.specialDays.GetOrCompute(FormatDate(d), func() SpecialDayID {
		for _, check := range specialDayChecks {
			if check.match(c, d) {
				return check.id
			}
		}
		return NoSpecialDay
	})
}

// CurrentSeason returns the season governing date. A special day decides
// the season outright; otherwise the first half-open range containing the
// date wins, and Ordinary Time covers the rest.
func (c *Calendar) CurrentSeason(date time.Time) SeasonID {
	d := Normalize(date)
	return c.cache.seasons.GetOrCompute(FormatDate(d), func() SeasonID {
		if id := c.SpecialDay(d); id != NoSpecialDay {
			// Every feast names its season; see init in tables.go.
			return feastDays[id].Season
		}
		return c.seasonByRange(d)
	})
}

func (c *Calendar) seasonByRange(d time.Time) SeasonID {
	year := d.Year()
	ashWednesday := c.AshWednesday(year)
	palmSunday := c.PalmSunday(year)
	easter := c.Easter(year)
	pentecost := c.Pentecost(year)

	switch {
	case isChristmastide(d):
		return SeasonChristmas
	case inRange(d, ymd(year, time.January, 6), ashWednesday):
		return SeasonEpiphany
	case inRange(d, ashWednesday, palmSunday):
		return SeasonLent
	case inRange(d, palmSunday, easter):
		return SeasonHolyWeek
	case inRange(d, easter, pentecost):
		return SeasonEaster
	case inRange(d, AdventStart(year), ymd(year, time.December, 24)):
		return SeasonAdvent
	}
	return SeasonOrdinary
}

// isChristmastide reports whether d falls in December 24 - January 5.
func isChristmastide(d time.Time) bool {
	switch d.Month() {
	case time.December:
		return d.Day() >= 24
	case time.January:
		return d.Day() <= 5
	}
	return false
}

// SeasonColor returns the display color for date. A special day's color
// takes precedence over its season's.
func (c *Calendar) SeasonColor(date time.Time) string {
	if id := c.SpecialDay(date); id != NoSpecialDay {
		return feastDays[id].Color
	}
	return LookupSeason(c.CurrentSeason(date)).Color
}

// LiturgicalInfo is a read-only snapshot of the liturgical facts of a date.
type LiturgicalInfo struct {
	Date            time.Time `json:"date"`
	Season          Season    `json:"season"`
	SpecialDay      *FeastDay `json:"special_day"`
	Color           string    `json:"color"`
	LiturgicalYear  int       `json:"liturgical_year"`
	LectionaryCycle string    `json:"lectionary_cycle"`
}

// Info returns the liturgical snapshot of a date already resolved to a
// time value.
func (c *Calendar) Info(date time.Time) LiturgicalInfo {
	d := Normalize(date)
	info := LiturgicalInfo{
		Date:            d,
		Season:          LookupSeason(c.CurrentSeason(d)),
		Color:           c.SeasonColor(d),
		LiturgicalYear:  LiturgicalYear(d),
		LectionaryCycle: LectionaryCycle(d),
	}
	if id := c.SpecialDay(d); id != NoSpecialDay {
		f := feastDays[id]
		info.SpecialDay = &f
	}
	return info
}

// LiturgicalInfo resolves a caller-supplied date and returns its snapshot.
// The date must fall inside HistoricalWindow.
func (c *Calendar) LiturgicalInfo(in DateInput) (*LiturgicalInfo, error) {
	d, err := ParseServiceDate(in)
	if err != nil {
		return nil, err
	}
	info := c.Info(d)
	return &info, nil
}

// ServiceInfo is the flat liturgical description of a service date used by
// display layers.
type ServiceInfo struct {
	Date           time.Time    `json:"date"`
	Season         SeasonID     `json:"season"`
	SeasonName     string       `json:"season_name"`
	SeasonColor    string       `json:"season_color"`
	SpecialDay     SpecialDayID `json:"special_day,omitempty"`
	SpecialDayName string       `json:"special_day_name,omitempty"`
}

// LiturgicalInfoForService describes the service date given as M/D/YY (or
// YYYY-MM-DD). It returns nil when the date cannot be resolved; the reason
// is logged.
func (c *Calendar) LiturgicalInfoForService(dateString string) *ServiceInfo {
	d, err := ParseServiceDate(FromString(dateString))
	if err != nil {
		c.logger.Warn("cannot resolve service date",
			slog.String("date", dateString),
			slog.Any("error", err),
		)
		return nil
	}

	season := LookupSeason(c.CurrentSeason(d))
	info := &ServiceInfo{
		Date:        d,
		Season:      season.ID,
		SeasonName:  season.Name,
		SeasonColor: season.Color,
	}
	if id := c.SpecialDay(d); id != NoSpecialDay {
		info.SpecialDay = id
		info.SpecialDayName = feastDays[id].Name
	}
	return info
}
