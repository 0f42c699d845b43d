package calendar

import (
	"sync"
	"time"
)

// Memo memoizes values by key. Every value stored for a key must be the
// result of a deterministic computation, so racing writers for the same key
// are harmless. It is safe for concurrent use.
type Memo[K comparable, V any] struct {
	m sync.Map
}

// GetOrCompute returns the cached value for key, computing and storing it
// with fn on a miss.
func (m *Memo[K, V]) GetOrCompute(key K, fn func() V) V {
	if v, ok := m.m.Load(key); ok {
		return v.(V)
	}
	v := fn()
	actual, _ := m.m.LoadOrStore(key, v)
	return actual.(V)
}

// Clear drops every entry.
func (m *Memo[K, V]) Clear() {
	m.m.Clear()
}

// Len counts the entries currently stored.
func (m *Memo[K, V]) Len() int {
	n := 0
	m.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Cache holds the memoized calculations shared by a Calendar: Easter by
// year, and special day and season by canonical date string.
//
// Clear is not atomic with respect to concurrent readers. A reader racing a
// Clear may recompute an entry; it never observes a wrong value.
type Cache struct {
	easter      Memo[int, time.Time]
	specialDays Memo[string, SpecialDayID]
	seasons     Memo[string, SeasonID]
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Clear empties every memo. The Easter and per-date memos are cleared
// together since date results derive from the year's Easter.
func (c *Cache) Clear() {
	c.easter.Clear()
	c.specialDays.Clear()
	c.seasons.Clear()
}

// CacheStats reports entry counts per memo.
type CacheStats struct {
	EasterYears int `json:"easter_years"`
	SpecialDays int `json:"special_days"`
	Seasons     int `json:"seasons"`
}

// Stats returns the current entry counts.
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		EasterYears: c.easter.Len(),
		SpecialDays: c.specialDays.Len(),
		Seasons:     c.seasons.Len(),
	}
}
