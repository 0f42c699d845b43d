package calendar

import (
	"time"

	"github.com/rickar/cal/v2/us"
)

// ComputeEaster calculates the date of Easter Sunday for a given year
// using the Meeus/Jones/Butcher computus for the Gregorian calendar.
//
// Integer arithmetic only. The result is midnight UTC of the local
// calendar day, so formatting it never shifts the date.
func ComputeEaster(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return ymd(year, time.Month(month), day)
}

// Easter returns Easter Sunday for year, memoized per year.
func (c *Calendar) Easter(year int) time.Time {
	return c.cache.easter.GetOrCompute(year, func() time.Time {
		return ComputeEaster(year)
	})
}

// AshWednesday is 46 days before Easter (40 days of Lent plus 6 Sundays).
func (c *Calendar) AshWednesday(year int) time.Time {
	return c.Easter(year).AddDate(0, 0, -46)
}

// Transfiguration is the last Sunday before Ash Wednesday.
func (c *Calendar) Transfiguration(year int) time.Time {
	return c.AshWednesday(year).AddDate(0, 0, -3)
}

// PalmSunday is the Sunday before Easter.
func (c *Calendar) PalmSunday(year int) time.Time {
	return c.Easter(year).AddDate(0, 0, -7)
}

// MaundyThursday is the Thursday before Easter.
func (c *Calendar) MaundyThursday(year int) time.Time {
	return c.Easter(year).AddDate(0, 0, -3)
}

// GoodFriday is the Friday before Easter.
func (c *Calendar) GoodFriday(year int) time.Time {
	return c.Easter(year).AddDate(0, 0, -2)
}

// Ascension is 39 days after Easter, always a Thursday.
func (c *Calendar) Ascension(year int) time.Time {
	return c.Easter(year).AddDate(0, 0, 39)
}

// Pentecost is 49 days after Easter.
func (c *Calendar) Pentecost(year int) time.Time {
	return c.Easter(year).AddDate(0, 0, 49)
}

// TrinitySunday is the Sunday after Pentecost.
func (c *Calendar) TrinitySunday(year int) time.Time {
	return c.Pentecost(year).AddDate(0, 0, 7)
}

// AdventStart returns the first Sunday of Advent, the 4th Sunday before
// December 25. It always falls between November 27 and December 3.
func AdventStart(year int) time.Time {
	christmas := ymd(year, time.December, 25)
	back := int(christmas.Weekday())
	if back == 0 {
		back = 7
	}
	return christmas.AddDate(0, 0, -(back + 21))
}

// ChristTheKingSunday is the Sunday before Advent.
func ChristTheKingSunday(year int) time.Time {
	return AdventStart(year).AddDate(0, 0, -7)
}

// ReformationSunday is the last Sunday in October.
func ReformationSunday(year int) time.Time {
	return nextWeekday(ymd(year, time.October, 25), time.Sunday)
}

// AllSaintsSunday is November 1 when that is a Sunday, otherwise the
// Sunday following it (November 2 when November 1 is a Saturday).
func AllSaintsSunday(year int) time.Time {
	return nextWeekday(ymd(year, time.November, 1), time.Sunday)
}

// ThanksgivingDay is the fourth Thursday of November.
func ThanksgivingDay(year int) time.Time {
	actual, _ := us.ThanksgivingDay.Calc(year)
	return Normalize(actual)
}

// ThanksgivingEveDay is the Wednesday before Thanksgiving.
func ThanksgivingEveDay(year int) time.Time {
	return ThanksgivingDay(year).AddDate(0, 0, -1)
}

// BaptismOfOurLordSunday is the first Sunday after the Epiphany.
func BaptismOfOurLordSunday(year int) time.Time {
	return nextWeekday(ymd(year, time.January, 7), time.Sunday)
}

// Key date names used in YearCalendar.KeyDates.
const (
	KeyEaster          = "easter"
	KeyAshWednesday    = "ashWednesday"
	KeyTransfiguration = "transfiguration"
	KeyPalmSunday      = "palmSunday"
	KeyMaundyThursday  = "maundyThursday"
	KeyGoodFriday      = "goodFriday"
	KeyAscension       = "ascension"
	KeyPentecost       = "pentecost"
	KeyTrinitySunday   = "trinitySunday"
	KeyReformation     = "reformationSunday"
	KeyAllSaints       = "allSaints"
	KeyChristTheKing   = "christTheKing"
	KeyAdventStart     = "adventStart"
	KeyThanksgiving    = "thanksgiving"
	KeyThanksgivingEve = "thanksgivingEve"
	KeyChristmasEve    = "christmasEve"
	KeyChristmasDay    = "christmasDay"
	KeyBaptism         = "baptismOfOurLord"
)

// KeyDates returns every named movable and rule-based date of year.
func (c *Calendar) KeyDates(year int) map[string]time.Time {
	return map[string]time.Time{
		KeyEaster:          c.Easter(year),
		KeyAshWednesday:    c.AshWednesday(year),
		KeyTransfiguration: c.Transfiguration(year),
		KeyPalmSunday:      c.PalmSunday(year),
		KeyMaundyThursday:  c.MaundyThursday(year),
		KeyGoodFriday:      c.GoodFriday(year),
		KeyAscension:       c.Ascension(year),
		KeyPentecost:       c.Pentecost(year),
		KeyTrinitySunday:   c.TrinitySunday(year),
		KeyReformation:     ReformationSunday(year),
		KeyAllSaints:       AllSaintsSunday(year),
		KeyChristTheKing:   ChristTheKingSunday(year),
		KeyAdventStart:     AdventStart(year),
		KeyThanksgiving:    ThanksgivingDay(year),
		KeyThanksgivingEve: ThanksgivingEveDay(year),
		KeyChristmasEve:    ymd(year, time.December, 24),
		KeyChristmasDay:    ymd(year, time.December, 25),
		KeyBaptism:         BaptismOfOurLordSunday(year),
	}
}
