package calendar

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemo_GetOrCompute(t *testing.T) {
	var m Memo[string, int]
	calls := 0
	fn := func() int { calls++; return 42 }

	assert.Equal(t, 42, m.GetOrCompute("a", fn))
	assert.Equal(t, 42, m.GetOrCompute("a", fn))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, m.Len())

	m.Clear()
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 42, m.GetOrCompute("a", fn))
	assert.Equal(t, 2, calls)
}

func TestMemo_ConcurrentWritersAgree(t *testing.T) {
	var m Memo[int, time.Time]
	var computed atomic.Int32

	var wg sync.WaitGroup
	results := make([]time.Time, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = m.GetOrCompute(2025, func() time.Time {
				computed.Add(1)
				return ComputeEaster(2025)
			})
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.True(t, r.Equal(results[0]))
	}
	assert.GreaterOrEqual(t, computed.Load(), int32(1))
	assert.Equal(t, 1, m.Len())
}

func TestCache_SharedAcrossCalendarsAndClearedConcurrently(t *testing.T) {
	cache := NewCache()
	a := New(WithCache(cache))
	b := New(WithCache(cache))

	want := a.CurrentSeason(ymd(2025, time.April, 20))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				assert.Equal(t, want, b.CurrentSeason(ymd(2025, time.April, 20)))
			}
		}()
		go func() {
			defer wg.Done()
			cache.Clear()
		}()
	}
	wg.Wait()
}

func TestCalendar_SeparateCachesByDefault(t *testing.T) {
	a := New()
	b := New()
	a.Easter(2025)

	assert.Equal(t, 1, a.Cache().Stats().EasterYears)
	assert.Equal(t, 0, b.Cache().Stats().EasterYears)
}
