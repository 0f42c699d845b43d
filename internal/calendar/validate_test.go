package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateServiceDateRange(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		report := ValidateServiceDateRange(nil)
		assert.False(t, report.IsValid)
		assert.Equal(t, "no dates supplied", report.Message)
		assert.Empty(t, report.Duplicates)
		assert.Empty(t, report.Gaps)
	})

	t.Run("one duplicate", func(t *testing.T) {
		d := ymd(2025, time.May, 4)
		report := ValidateServiceDateRange([]time.Time{d, ymd(2025, time.May, 11), d})
		assert.False(t, report.IsValid)
		require.Len(t, report.Duplicates, 1)
		assert.True(t, report.Duplicates[0].Equal(d))
		assert.Empty(t, report.Gaps)
	})

	t.Run("one 21 day gap", func(t *testing.T) {
		report := ValidateServiceDateRange([]time.Time{
			ymd(2025, time.June, 29),
			ymd(2025, time.June, 1),
			ymd(2025, time.June, 8),
		})
		assert.False(t, report.IsValid)
		assert.Empty(t, report.Duplicates)
		require.Len(t, report.Gaps, 1)
		assert.Equal(t, Gap{
			After:       ymd(2025, time.June, 8),
			Before:      ymd(2025, time.June, 29),
			DaysBetween: 21,
		}, report.Gaps[0])
	})

	t.Run("gap across daylight saving change", func(t *testing.T) {
		report := ValidateServiceDateRange([]time.Time{
			ymd(2025, time.March, 2),
			ymd(2025, time.March, 23),
		})
		require.Len(t, report.Gaps, 1)
		assert.Equal(t, 21, report.Gaps[0].DaysBetween)
	})

	t.Run("fourteen days is allowed", func(t *testing.T) {
		report := ValidateServiceDateRange([]time.Time{
			ymd(2025, time.June, 1),
			ymd(2025, time.June, 15),
		})
		assert.True(t, report.IsValid)
		assert.Empty(t, report.Message)
	})

	t.Run("input not reordered", func(t *testing.T) {
		in := []time.Time{ymd(2025, time.June, 15), ymd(2025, time.June, 1)}
		ValidateServiceDateRange(in)
		assert.Equal(t, "2025-06-15", FormatDate(in[0]))
	})

	t.Run("same day different clock is a duplicate", func(t *testing.T) {
		a := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
		b := time.Date(2025, time.June, 1, 18, 0, 0, 0, time.UTC)
		report := ValidateServiceDateRange([]time.Time{a, b})
		assert.Len(t, report.Duplicates, 1)
	})
}

func TestValidateEasterDate(t *testing.T) {
	cal := New()
	for year := HistoricalWindow.Min; year <= HistoricalWindow.Max; year++ {
		require.NoError(t, cal.ValidateEasterDate(year), "year %d", year)
	}
}

func TestValidateEasterDate_RejectsImplausibleDate(t *testing.T) {
	cache := NewCache()
	cal := New(WithCache(cache))

	// Poison the memo to stand in for a broken computation.
	cache.easter.GetOrCompute(2030, func() time.Time { return ymd(2030, time.May, 5) })

	err := cal.ValidateEasterDate(2030)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCalculation)

	_, err = cal.GenerateServicesForYear(2030)
	assert.ErrorIs(t, err, ErrCalculation)

	cache.Clear()
	cache.easter.GetOrCompute(2030, func() time.Time { return ymd(2030, time.April, 20) }) // a Saturday
	assert.ErrorIs(t, cal.ValidateEasterDate(2030), ErrCalculation)

	cache.Clear()
	assert.NoError(t, cal.ValidateEasterDate(2030))
}
