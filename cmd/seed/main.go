// Command seed generates service calendars for a range of years and stores
// them in the SQLite database.
//
// Usage:
//
//	go run ./cmd/seed --start 2025 --end 2035 --db data/calendar.db
//
// This tool:
// 1. Creates/opens the SQLite database
// 2. Runs migrations to ensure schema is current
// 3. Generates each year and saves it
// 4. Lists the stored years to verify
//
// Seeding is repeatable. Saving a year again refreshes its services and
// keeps any overrides.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/zapponejosh/service-calendar/internal/calendar"
	"github.com/zapponejosh/service-calendar/internal/database"
)

func main() {
	// Parse command line flags
	flagSet := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	start := flagSet.Int("start", time.Now().Year(), "First year to generate")
	end := flagSet.Int("end", time.Now().Year()+5, "Last year to generate")
	dbPath := flagSet.String("db", "data/calendar.db", "Path to SQLite database")
	keepInvalid := flagSet.Bool("keep-invalid", false, "Store years that fail validation")
	verbose := flagSet.BoolP("verbose", "v", false, "Verbose output")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	opts := seedOptions{Start: *start, End: *end, DBPath: *dbPath, KeepInvalid: *keepInvalid}
	if _, err := run(context.Background(), opts, os.Stdout, logger); err != nil {
		logger.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("seed complete")
}

type seedOptions struct {
	Start       int
	End         int
	DBPath      string
	KeepInvalid bool
}

// SeedStats tracks seed statistics.
type SeedStats struct {
	Stored  int
	Skipped int
	Failed  int
}

func run(ctx context.Context, opts seedOptions, out io.Writer, logger *slog.Logger) (SeedStats, error) {
	var stats SeedStats
	startTime := time.Now()

	if opts.Start > opts.End {
		return stats, fmt.Errorf("start year %d is after end year %d", opts.Start, opts.End)
	}
	for _, year := range []int{opts.Start, opts.End} {
		if err := calendar.HistoricalWindow.Check(year); err != nil {
			return stats, err
		}
	}

	// =========================================================================
	// Step 1: Open database and run migrations
	// =========================================================================
	logger.Info("opening database", slog.String("path", opts.DBPath))

	db, err := database.Open(opts.DBPath, logger)
	if err != nil {
		return stats, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return stats, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("migrations complete", slog.Int("applied", migrated))

	// =========================================================================
	// Step 2: Generate and store each year
	// =========================================================================
	cal := calendar.New(calendar.WithLogger(logger))
	for _, res := range cal.GenerateServicesForYears(opts.Start, opts.End) {
		switch {
		case res.Err != nil:
			stats.Failed++
			continue
		case !res.Validated() && !opts.KeepInvalid:
			logger.Warn("skipping invalid year",
				slog.Int("year", res.Year),
				slog.Any("errors", res.Calendar.ValidationErrors),
			)
			stats.Skipped++
			continue
		}

		if err := db.SaveCalendar(ctx, res.Calendar); err != nil {
			return stats, fmt.Errorf("save %d: %w", res.Year, err)
		}
		stats.Stored++
	}

	// =========================================================================
	// Step 3: Verify
	// =========================================================================
	years, err := db.ListCalendarYears(ctx)
	if err != nil {
		return stats, fmt.Errorf("list stored years: %w", err)
	}

	elapsed := time.Since(startTime)

	logger.Info("seed verified",
		slog.Int("stored_years", len(years)),
		slog.Duration("elapsed", elapsed),
	)

	// Print summary
	fmt.Fprintln(out)
	fmt.Fprintln(out, "=== Seed Summary ===")
	fmt.Fprintf(out, "Years stored:        %d\n", stats.Stored)
	fmt.Fprintf(out, "Years skipped:       %d\n", stats.Skipped)
	fmt.Fprintf(out, "Years failed:        %d\n", stats.Failed)
	fmt.Fprintf(out, "Years in database:   %d\n", len(years))
	fmt.Fprintf(out, "Time elapsed:        %v\n", elapsed.Round(time.Millisecond))

	return stats, nil
}
