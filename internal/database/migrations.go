package database

// migrations are applied in order; migration N is migrations[N-1]. Append
// new ones, never edit or reorder applied ones.
var migrations = []string{
	migrationV1Calendars,
	migrationV2ServiceIndexes,
}

// migrationV1Calendars creates the calendar store.
//
// One calendars row per generated year holds the run metadata. Services
// hang off it by year; the override columns belong to editors and are
// never written by regeneration.
const migrationV1Calendars = `
-- Migration 001: calendars and services

CREATE TABLE IF NOT EXISTS calendars (
    year INTEGER PRIMARY KEY,

    algorithm_version TEXT NOT NULL,

    -- RFC 3339 with nanoseconds; identifies the generation run
    generated_at TEXT NOT NULL,

    validated INTEGER NOT NULL DEFAULT 0,

    -- JSON arrays of strings
    validation_errors TEXT NOT NULL DEFAULT '[]',
    validation_warnings TEXT NOT NULL DEFAULT '[]',

    -- JSON object: key date name -> YYYY-MM-DD
    key_dates TEXT NOT NULL DEFAULT '{}',

    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS services (
    id INTEGER PRIMARY KEY AUTOINCREMENT,

    year INTEGER NOT NULL,

    -- YYYY-MM-DD
    date TEXT NOT NULL,
    day_of_week TEXT NOT NULL,

    season_id TEXT NOT NULL,
    season_name TEXT NOT NULL,
    season_color TEXT NOT NULL,

    special_day_id TEXT NOT NULL DEFAULT '',
    special_day_name TEXT NOT NULL DEFAULT '',

    is_regular_sunday INTEGER NOT NULL DEFAULT 0,
    is_special_weekday INTEGER NOT NULL DEFAULT 0,

    -- Editor overrides
    is_overridden INTEGER NOT NULL DEFAULT 0,
    override_reason TEXT,
    overridden_by TEXT,
    overridden_at TEXT,

    -- Matches calendars.generated_at of the run that last wrote the row
    generated_at TEXT NOT NULL,

    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now')),

    FOREIGN KEY (year) REFERENCES calendars(year) ON DELETE CASCADE,
    UNIQUE (year, date)
);
`

// migrationV2ServiceIndexes adds lookups by date and special day.
const migrationV2ServiceIndexes = `
-- Migration 002: service indexes

CREATE INDEX IF NOT EXISTS idx_services_date
    ON services(date);

CREATE INDEX IF NOT EXISTS idx_services_special
    ON services(special_day_id)
    WHERE special_day_id <> '';
`
