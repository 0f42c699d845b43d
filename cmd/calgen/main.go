// Command calgen prints generated service calendars.
//
//	calgen --year 2025
//	calgen --start 2024 --end 2030
//	calgen --year 2025 --format json
//	calgen --date 12/24/25
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/zapponejosh/service-calendar/internal/calendar"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "calgen:", err)
		os.Exit(1)
	}
}

type options struct {
	year    int
	start   int
	end     int
	date    string
	format  string
	verbose bool
}

func run(args []string, stdout, stderr io.Writer) error {
	var opts options

	flagSet := pflag.NewFlagSet("calgen", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.IntVarP(&opts.year, "year", "y", time.Now().Year(), "year to generate")
	flagSet.IntVar(&opts.start, "start", 0, "first year of a batch (with --end)")
	flagSet.IntVar(&opts.end, "end", 0, "last year of a batch (with --start)")
	flagSet.StringVarP(&opts.date, "date", "d", "", "describe a single service date (M/D/YY or YYYY-MM-DD)")
	flagSet.StringVarP(&opts.format, "format", "f", "table", "output format: table or json")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "log generation stages to stderr")

	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if opts.format != "table" && opts.format != "json" {
		return fmt.Errorf("unknown format %q", opts.format)
	}
	batch := flagSet.Changed("start") || flagSet.Changed("end")
	if batch && !(flagSet.Changed("start") && flagSet.Changed("end")) {
		return errors.New("--start and --end must be given together")
	}
	if batch {
		for _, year := range []int{opts.start, opts.end} {
			if err := calendar.HistoricalWindow.Check(year); err != nil {
				return err
			}
		}
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	cal := calendar.New(calendar.WithLogger(log))

	switch {
	case opts.date != "":
		return printDate(stdout, cal, opts)
	case batch:
		return printBatch(stdout, cal, opts)
	default:
		return printYear(stdout, cal, opts)
	}
}

func printDate(w io.Writer, cal *calendar.Calendar, opts options) error {
	info := cal.LiturgicalInfoForService(opts.date)
	if info == nil {
		return fmt.Errorf("cannot resolve date %q", opts.date)
	}
	if opts.format == "json" {
		return writeJSON(w, info)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Date:\t%s (%s)\n", calendar.FormatDate(info.Date), calendar.DayName(info.Date))
	fmt.Fprintf(tw, "Season:\t%s\n", info.SeasonName)
	fmt.Fprintf(tw, "Color:\t%s\n", info.SeasonColor)
	if info.SpecialDayName != "" {
		fmt.Fprintf(tw, "Special day:\t%s\n", info.SpecialDayName)
	}
	fmt.Fprintf(tw, "Lectionary:\tYear %s\n", calendar.LectionaryCycle(info.Date))
	return tw.Flush()
}

func printYear(w io.Writer, cal *calendar.Calendar, opts options) error {
	yc, err := cal.GenerateServicesForYear(opts.year)
	if err != nil {
		return err
	}
	if opts.format == "json" {
		return writeJSON(w, yc)
	}

	fmt.Fprintf(w, "=== Service Calendar for %d ===\n\n", yc.Year)

	type keyDate struct {
		name string
		date time.Time
	}
	var keys []keyDate
	for name, d := range yc.KeyDates {
		keys = append(keys, keyDate{name, d})
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].date.Equal(keys[j].date) {
			return keys[i].name < keys[j].name
		}
		return keys[i].date.Before(keys[j].date)
	})

	fmt.Fprintln(w, "Key Dates:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(tw, "  %s:\t%s\n", k.name, calendar.FormatDate(k.date))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tDAY\tSEASON\tCOLOR\tSPECIAL DAY")
	for _, s := range yc.Services {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			s.DateString, s.DayOfWeek, s.SeasonName, s.SeasonColor, s.SpecialDayName)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d services (%d Sundays, %d special weekdays)\n",
		yc.Metadata.TotalServices, yc.Metadata.RegularSundays, yc.Metadata.SpecialWeekdays)
	printIssues(w, yc)
	return nil
}

func printIssues(w io.Writer, yc *calendar.YearCalendar) {
	for _, e := range yc.ValidationErrors {
		fmt.Fprintf(w, "ERROR: %s\n", e)
	}
	for _, warn := range yc.ValidationWarnings {
		fmt.Fprintf(w, "WARNING: %s\n", warn)
	}
}

// batchRow is the JSON form of one batch year.
type batchRow struct {
	Year      int                `json:"year"`
	Validated bool               `json:"validated"`
	Metadata  *calendar.Metadata `json:"metadata,omitempty"`
	Error     string             `json:"error,omitempty"`
}

func printBatch(w io.Writer, cal *calendar.Calendar, opts options) error {
	results := cal.GenerateServicesForYears(opts.start, opts.end)

	if opts.format == "json" {
		rows := make([]batchRow, 0, len(results))
		for _, r := range results {
			row := batchRow{Year: r.Year, Validated: r.Validated()}
			if r.Err != nil {
				row.Error = r.Err.Error()
			} else {
				row.Metadata = &r.Calendar.Metadata
			}
			rows = append(rows, row)
		}
		return writeJSON(w, rows)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "YEAR\tEASTER\tSERVICES\tSUNDAYS\tWEEKDAYS\tSTATUS")
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(tw, "%d\t-\t-\t-\t-\t%v\n", r.Year, r.Err)
			continue
		}
		m := r.Calendar.Metadata
		status := "ok"
		if !r.Validated() {
			failed++
			status = fmt.Sprintf("%d errors", len(r.Calendar.ValidationErrors))
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%s\n", r.Year,
			calendar.FormatDate(r.Calendar.KeyDates[calendar.KeyEaster]),
			m.TotalServices, m.RegularSundays, m.SpecialWeekdays, status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d of %d years valid\n", len(results)-failed, len(results))
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
