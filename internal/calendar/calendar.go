// Package calendar computes the Western liturgical calendar: Easter and the
// observances derived from it, the season governing any date, and the
// yearly schedule of services.
package calendar

import (
	"io"
	"log/slog"
	"time"
)

// AlgorithmVersion identifies the calculation rules stamped on generated
// calendars.
const AlgorithmVersion = "2.0.0-mjb"

// Calendar computes liturgical dates through a shared Cache.
// A Calendar is safe for concurrent use.
type Calendar struct {
	cache  *Cache
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Calendar.
type Option func(*Calendar)

// WithCache shares an existing cache. Without it each Calendar gets its own.
func WithCache(c *Cache) Option {
	return func(cal *Calendar) { cal.cache = c }
}

// WithLogger sets the logger. Without it the Calendar discards logs.
func WithLogger(l *slog.Logger) Option {
	return func(cal *Calendar) { cal.logger = l }
}

// WithClock sets the clock used for GeneratedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(cal *Calendar) { cal.now = now }
}

// New creates a Calendar.
func New(opts ...Option) *Calendar {
	cal := &Calendar{}
	for _, opt := range opts {
		opt(cal)
	}
	if cal.cache == nil {
		cal.cache = NewCache()
	}
	if cal.logger == nil {
		cal.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cal.now == nil {
		cal.now = time.Now
	}
	return cal
}

// Cache returns the calendar's cache.
func (c *Calendar) Cache() *Cache {
	return c.cache
}

// ClearCache drops every memoized result.
func (c *Calendar) ClearCache() {
	c.cache.Clear()
	c.logger.Debug("calculation cache cleared")
}
