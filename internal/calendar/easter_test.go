package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeEaster(t *testing.T) {
	// Published Gregorian Easter dates.
	tests := []struct {
		year     int
		expected time.Time
	}{
		{1970, ymd(1970, time.March, 29)},
		{1981, ymd(1981, time.April, 19)},
		{2000, ymd(2000, time.April, 23)},
		{2008, ymd(2008, time.March, 23)},
		{2011, ymd(2011, time.April, 24)},
		{2019, ymd(2019, time.April, 21)},
		{2024, ymd(2024, time.March, 31)},
		{2025, ymd(2025, time.April, 20)},
		{2026, ymd(2026, time.April, 5)},
		{2027, ymd(2027, time.March, 28)},
		{2028, ymd(2028, time.April, 16)},
		{2029, ymd(2029, time.April, 1)},
		{2030, ymd(2030, time.April, 21)},
		{2038, ymd(2038, time.April, 25)},
		{2049, ymd(2049, time.April, 18)},
		{2050, ymd(2050, time.April, 10)},
		{2076, ymd(2076, time.April, 19)},
		{2100, ymd(2100, time.March, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.expected.Format("2006-01-02"), func(t *testing.T) {
			got := ComputeEaster(tt.year)
			assert.True(t, got.Equal(tt.expected), "ComputeEaster(%d) = %s, want %s",
				tt.year, FormatDate(got), FormatDate(tt.expected))
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestComputeEaster_WithinBoundsForEveryYear(t *testing.T) {
	for year := HistoricalWindow.Min; year <= HistoricalWindow.Max; year++ {
		easter := ComputeEaster(year)
		lo := ymd(year, time.March, 22)
		hi := ymd(year, time.April, 25)

		if easter.Before(lo) || easter.After(hi) {
			t.Errorf("Easter %d = %s, outside March 22 - April 25", year, FormatDate(easter))
		}
		if easter.Weekday() != time.Sunday {
			t.Errorf("Easter %d = %s falls on %s", year, FormatDate(easter), easter.Weekday())
		}
	}
}

func TestMovableFeasts_2025(t *testing.T) {
	cal := New()

	tests := []struct {
		name    string
		got     time.Time
		want    time.Time
		weekday time.Weekday
	}{
		{"ash wednesday", cal.AshWednesday(2025), ymd(2025, time.March, 5), time.Wednesday},
		{"transfiguration", cal.Transfiguration(2025), ymd(2025, time.March, 2), time.Sunday},
		{"palm sunday", cal.PalmSunday(2025), ymd(2025, time.April, 13), time.Sunday},
		{"maundy thursday", cal.MaundyThursday(2025), ymd(2025, time.April, 17), time.Thursday},
		{"good friday", cal.GoodFriday(2025), ymd(2025, time.April, 18), time.Friday},
		{"ascension", cal.Ascension(2025), ymd(2025, time.May, 29), time.Thursday},
		{"pentecost", cal.Pentecost(2025), ymd(2025, time.June, 8), time.Sunday},
		{"trinity", cal.TrinitySunday(2025), ymd(2025, time.June, 15), time.Sunday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, FormatDate(tt.want), FormatDate(tt.got))
			assert.Equal(t, tt.weekday, tt.got.Weekday())
		})
	}
}

func TestAshWednesday_IsEasterMinus46(t *testing.T) {
	cal := New()
	for year := HistoricalWindow.Min; year <= HistoricalWindow.Max; year++ {
		ash := cal.AshWednesday(year)
		require.Equal(t, 46, daysBetween(ash, cal.Easter(year)), "year %d", year)
		require.Equal(t, time.Wednesday, ash.Weekday(), "year %d", year)
		require.Equal(t, time.Thursday, cal.Ascension(year).Weekday(), "year %d", year)
	}
}

func TestEaster_Memoized(t *testing.T) {
	cache := NewCache()
	cal := New(WithCache(cache))

	first := cal.Easter(2026)
	second := cal.Easter(2026)

	assert.True(t, first.Equal(second))
	assert.Equal(t, 1, cache.Stats().EasterYears)

	cal.ClearCache()
	assert.Equal(t, 0, cache.Stats().EasterYears)
	assert.True(t, cal.Easter(2026).Equal(first))
}

func TestAdventStart(t *testing.T) {
	tests := []struct {
		year int
		want time.Time
	}{
		{2024, ymd(2024, time.December, 1)},
		{2025, ymd(2025, time.November, 30)},
		{2026, ymd(2026, time.November, 29)},
		{2033, ymd(2033, time.November, 27)}, // Christmas on a Sunday
	}
	for _, tt := range tests {
		assert.Equal(t, FormatDate(tt.want), FormatDate(AdventStart(tt.year)), "year %d", tt.year)
	}

	for year := HistoricalWindow.Min; year <= HistoricalWindow.Max; year++ {
		advent := AdventStart(year)
		require.Equal(t, time.Sunday, advent.Weekday(), "year %d", year)
		require.False(t, advent.Before(ymd(year, time.November, 27)), "year %d: %s", year, FormatDate(advent))
		require.False(t, advent.After(ymd(year, time.December, 3)), "year %d: %s", year, FormatDate(advent))
		require.Equal(t, FormatDate(advent.AddDate(0, 0, -7)), FormatDate(ChristTheKingSunday(year)))
	}
}

func TestReformationSunday(t *testing.T) {
	assert.Equal(t, "2024-10-27", FormatDate(ReformationSunday(2024)))
	assert.Equal(t, "2025-10-26", FormatDate(ReformationSunday(2025)))
	assert.Equal(t, "2026-10-25", FormatDate(ReformationSunday(2026)))

	for year := 2024; year <= 2100; year++ {
		ref := ReformationSunday(year)
		require.Equal(t, time.Sunday, ref.Weekday())
		require.Equal(t, time.October, ref.Month())
		require.Equal(t, time.November, ref.AddDate(0, 0, 7).Month())
	}
}

func TestAllSaintsSunday_AllWeekdays(t *testing.T) {
	// Nov 1 if Sunday; Nov 2 if Nov 1 is Saturday; otherwise the Sunday
	// after Nov 1.
	threeBranch := func(year int) time.Time {
		nov1 := ymd(year, time.November, 1)
		switch nov1.Weekday() {
		case time.Sunday:
			return nov1
		case time.Saturday:
			return nov1.AddDate(0, 0, 1)
		}
		return nov1.AddDate(0, 0, 7-int(nov1.Weekday()))
	}

	seen := map[time.Weekday]bool{}
	for year := 2024; year <= 2040; year++ {
		seen[ymd(year, time.November, 1).Weekday()] = true
		got := AllSaintsSunday(year)
		assert.Equal(t, FormatDate(threeBranch(year)), FormatDate(got), "year %d", year)
		assert.Equal(t, time.Sunday, got.Weekday())
		assert.LessOrEqual(t, got.Day(), 7)
	}
	assert.Len(t, seen, 7, "every weekday alignment of November 1 covered")

	assert.Equal(t, "2025-11-02", FormatDate(AllSaintsSunday(2025))) // Nov 1 Saturday
	assert.Equal(t, "2026-11-01", FormatDate(AllSaintsSunday(2026))) // Nov 1 Sunday
	assert.Equal(t, "2024-11-03", FormatDate(AllSaintsSunday(2024))) // Nov 1 Friday
}

func TestThanksgiving(t *testing.T) {
	assert.Equal(t, "2024-11-28", FormatDate(ThanksgivingDay(2024)))
	assert.Equal(t, "2025-11-27", FormatDate(ThanksgivingDay(2025)))
	assert.Equal(t, "2026-11-26", FormatDate(ThanksgivingDay(2026)))
	assert.Equal(t, "2025-11-26", FormatDate(ThanksgivingEveDay(2025)))

	for year := 2024; year <= 2100; year++ {
		tg := ThanksgivingDay(year)
		require.Equal(t, time.Thursday, tg.Weekday(), "year %d", year)
		require.Equal(t, time.November, tg.Month(), "year %d", year)
		require.True(t, tg.Day() >= 22 && tg.Day() <= 28, "year %d: %s", year, FormatDate(tg))
		require.Equal(t, time.Wednesday, ThanksgivingEveDay(year).Weekday())
	}
}

func TestBaptismOfOurLordSunday(t *testing.T) {
	assert.Equal(t, "2024-01-07", FormatDate(BaptismOfOurLordSunday(2024)))
	assert.Equal(t, "2025-01-12", FormatDate(BaptismOfOurLordSunday(2025)))
	assert.Equal(t, "2026-01-11", FormatDate(BaptismOfOurLordSunday(2026)))
}

func TestKeyDates(t *testing.T) {
	cal := New()
	keys := cal.KeyDates(2025)

	assert.Equal(t, "2025-04-20", FormatDate(keys[KeyEaster]))
	assert.Equal(t, "2025-11-30", FormatDate(keys[KeyAdventStart]))
	assert.Equal(t, "2025-11-23", FormatDate(keys[KeyChristTheKing]))
	assert.Equal(t, "2025-12-24", FormatDate(keys[KeyChristmasEve]))
	assert.Len(t, keys, 18)
}
