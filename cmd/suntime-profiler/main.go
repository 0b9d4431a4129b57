// Command suntime-profiler measures how far the calculator's rise and set
// times are from a reference.
//
// The reference is either a CSV file of published times or, when -refcsv
// is omitted, the independent NOAA-based model in
// github.com/nathan-osman/go-sunrise evaluated over a date range.
//
// CSV format:
//
//	date,rise,set
//	2025-01-01,07:32,17:12
//	2025-01-02,07:32,17:13
//
//   - date is YYYY-MM-DD
//   - rise/set are local times in HH:MM (24-hour clock)
//   - All times are assumed to be in the timezone given by -tz.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"cloudeng.io/errors"
	"cloudeng.io/logging/ctxlog"
	"github.com/nathan-osman/go-sunrise"

	"github.com/thurmanmarka/suntime"
	"github.com/thurmanmarka/suntime/zone"
)

type config struct {
	lat, lon float64
	tzName   string
	offset   suntime.DegreesOffset
	zenith   float64
	refCSV   string
	from, to string
	outCSV   string
	verbose  bool
}

func main() {
	var (
		cfg      config
		offsetS  string
		logLevel string
	)
	flag.Float64Var(&cfg.lat, "lat", 0, "latitude in degrees (north positive)")
	flag.Float64Var(&cfg.lon, "lon", 0, "longitude in degrees (east positive, west negative)")
	flag.StringVar(&cfg.tzName, "tz", "UTC", `IANA time zone name (e.g. America/Phoenix) or "auto" to look it up from -lat/-lon`)
	flag.StringVar(&offsetS, "offset", "horizon", "degrees below the horizon: horizon, civil, nautical, astronomical or a number")
	flag.Float64Var(&cfg.zenith, "zenith", suntime.DefaultZenith, "reference zenith in degrees")
	flag.StringVar(&cfg.refCSV, "refcsv", "", "path to reference CSV file (date,rise,set); if empty go-sunrise is the reference")
	flag.StringVar(&cfg.from, "from", "", "first date (YYYY-MM-DD) when comparing against go-sunrise; defaults to Jan 1 of this year")
	flag.StringVar(&cfg.to, "to", "", "last date (YYYY-MM-DD) when comparing against go-sunrise; defaults to Dec 31 of the -from year")
	flag.StringVar(&cfg.outCSV, "outcsv", "", "optional path to write per-row error CSV")
	flag.BoolVar(&cfg.verbose, "verbose", false, "print per-day errors instead of only the summary")
	flag.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		log.Fatalf("invalid -log-level %q: %v", logLevel, err)
	}
	ctx := ctxlog.WithLogger(context.Background(),
		slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	offset, err := suntime.ParseDegreesOffset(offsetS)
	if err != nil {
		log.Fatalf("invalid -offset: %v", err)
	}
	cfg.offset = offset

	if err := run(ctx, cfg, os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context, cfg config, out io.Writer) error {
	logger := ctxlog.Logger(ctx)

	if cfg.lat == 0 && cfg.lon == 0 {
		logger.Warn("lat=0 lon=0 (Gulf of Guinea); did you mean to set -lat/-lon?")
	}

	loc, err := resolveZone(cfg)
	if err != nil {
		return err
	}
	ctx = ctxlog.WithAttributes(ctx, "tz", loc.String())

	var (
		rows    []refRow
		source  string
		rowErrs errors.M
	)
	if cfg.refCSV != "" {
		f, err := os.Open(cfg.refCSV)
		if err != nil {
			return fmt.Errorf("failed to open refcsv %q: %w", cfg.refCSV, err)
		}
		defer f.Close()
		rows, err = readReferenceCSV(f, loc, &rowErrs)
		if err != nil {
			return err
		}
		source = cfg.refCSV
	} else {
		if cfg.offset != suntime.Horizon {
			return fmt.Errorf("go-sunrise reference only models the horizon; use -offset horizon or supply -refcsv")
		}
		from, to, err := dateRange(cfg.from, cfg.to, loc, time.Now())
		if err != nil {
			return err
		}
		rows = goSunriseRows(cfg.lat, cfg.lon, from, to, loc)
		source = "go-sunrise"
	}

	var outWriter *csv.Writer
	if cfg.outCSV != "" {
		outFile, err := os.Create(cfg.outCSV)
		if err != nil {
			return fmt.Errorf("failed to create outcsv %q: %w", cfg.outCSV, err)
		}
		defer outFile.Close()
		outWriter = csv.NewWriter(outFile)
		defer outWriter.Flush()
		if err := outWriter.Write([]string{"date", "offset", "rise_err", "set_err", "rise_signed", "set_signed"}); err != nil {
			return fmt.Errorf("failed to write outcsv header: %w", err)
		}
	}

	s := suntime.NewWithZenith(cfg.lat, cfg.lon, cfg.zenith)
	p := profile{rowErrs: &rowErrs}
	for _, row := range rows {
		res, ok := p.compare(ctx, s, row, cfg.offset)
		if !ok {
			continue
		}
		if cfg.verbose {
			fmt.Fprintf(out, "%s %s: rise err=%.2f min (got=%s ref=%s), set err=%.2f min (got=%s ref=%s)\n",
				row.date.Format("2006-01-02"), cfg.offset,
				res.riseErr, res.gotRise.Format("15:04"), row.rise.Format("15:04"),
				res.setErr, res.gotSet.Format("15:04"), row.set.Format("15:04"))
		}
		if outWriter != nil {
			rec := []string{
				row.date.Format("2006-01-02"),
				cfg.offset.String(),
				fmt.Sprintf("%.6f", res.riseErr),
				fmt.Sprintf("%.6f", res.setErr),
				fmt.Sprintf("%.6f", res.riseSigned),
				fmt.Sprintf("%.6f", res.setSigned),
			}
			if err := outWriter.Write(rec); err != nil {
				rowErrs.Append(fmt.Errorf("%s: failed to write outcsv: %w", row.date.Format("2006-01-02"), err))
			}
		}
	}

	p.summary(out, cfg, loc, source)
	if err := rowErrs.Err(); err != nil {
		logger.Warn("rows with problems", "count", len(rowErrs.Unwrap()))
		if cfg.verbose {
			fmt.Fprintf(out, "\nRow problems:\n%v\n", err)
		}
	}
	return nil
}

func resolveZone(cfg config) (*time.Location, error) {
	if !strings.EqualFold(cfg.tzName, "auto") {
		loc, err := time.LoadLocation(cfg.tzName)
		if err != nil {
			return nil, fmt.Errorf("failed to load timezone %q: %w", cfg.tzName, err)
		}
		return loc, nil
	}
	f, err := zone.Default()
	if err != nil {
		return nil, err
	}
	return f.LocationAt(cfg.lat, cfg.lon)
}

// refRow is one reference day; rise and set are in the profiled zone.
type refRow struct {
	date      time.Time
	rise, set time.Time
}

// readReferenceCSV parses date,rise,set rows. Malformed rows are recorded in
// rowErrs and skipped; only an unreadable or empty file is an error.
func readReferenceCSV(rd io.Reader, loc *time.Location, rowErrs *errors.M) ([]refRow, error) {
	r := csv.NewReader(rd)
	r.FieldsPerRecord = -1 // allow variable, we validate

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty CSV file")
	}

	// If first row looks like a header, skip it.
	startIdx := 0
	if len(records[0]) >= 1 && strings.EqualFold(strings.TrimSpace(records[0][0]), "date") {
		startIdx = 1
	}

	rows := make([]refRow, 0, len(records)-startIdx)
	for i := startIdx; i < len(records); i++ {
		row := records[i]
		if len(row) < 3 {
			rowErrs.Append(fmt.Errorf("row %d: expected at least 3 columns (date,rise,set), got %d", i+1, len(row)))
			continue
		}
		dateStr := strings.TrimSpace(row[0])
		date, err := time.ParseInLocation("2006-01-02", dateStr, loc)
		if err != nil {
			rowErrs.Append(fmt.Errorf("row %d: invalid date %q: %w", i+1, dateStr, err))
			continue
		}
		rise, err := parseLocalTime(date, strings.TrimSpace(row[1]))
		if err != nil {
			rowErrs.Append(fmt.Errorf("row %d: invalid rise time %q: %w", i+1, row[1], err))
			continue
		}
		set, err := parseLocalTime(date, strings.TrimSpace(row[2]))
		if err != nil {
			rowErrs.Append(fmt.Errorf("row %d: invalid set time %q: %w", i+1, row[2], err))
			continue
		}
		rows = append(rows, refRow{date: date, rise: rise, set: set})
	}
	return rows, nil
}

// parseLocalTime combines an HH:MM (or HH:MM:SS) clock reading with the
// calendar date and location of date.
func parseLocalTime(date time.Time, hhmm string) (time.Time, error) {
	layout := "15:04"
	if strings.Count(hhmm, ":") == 2 {
		layout = "15:04:05"
	}
	parsed, err := time.Parse(layout, hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), 0, date.Location()), nil
}

// dateRange resolves -from/-to. An empty from means January 1 of now's
// year and an empty to means December 31 of from's year.
func dateRange(fromS, toS string, loc *time.Location, now time.Time) (time.Time, time.Time, error) {
	from := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)
	if fromS != "" {
		var err error
		if from, err = time.ParseInLocation("2006-01-02", fromS, loc); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid -from %q: %w", fromS, err)
		}
	}
	to := time.Date(from.Year(), time.December, 31, 0, 0, 0, 0, loc)
	if toS != "" {
		var err error
		if to, err = time.ParseInLocation("2006-01-02", toS, loc); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid -to %q: %w", toS, err)
		}
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("-to %s is before -from %s", to.Format("2006-01-02"), from.Format("2006-01-02"))
	}
	return from, to, nil
}

// goSunriseRows evaluates the go-sunrise model for each local date in
// [from, to]. Days on which that model reports no event are left out.
func goSunriseRows(lat, lon float64, from, to time.Time, loc *time.Location) []refRow {
	var rows []refRow
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		rise, set := sunrise.SunriseSunset(lat, lon, d.Year(), d.Month(), d.Day())
		if rise.IsZero() || set.IsZero() {
			continue
		}
		rows = append(rows, refRow{date: d, rise: rise.In(loc), set: set.In(loc)})
	}
	return rows
}

type result struct {
	gotRise, gotSet       time.Time
	riseErr, setErr       float64
	riseSigned, setSigned float64
}

type profile struct {
	riseStats, setStats             stats
	riseSignedStats, setSignedStats stats
	total, skipped, noCrossing      int
	rowErrs                         *errors.M
}

func (p *profile) compare(ctx context.Context, s suntime.Sun, row refRow, offset suntime.DegreesOffset) (result, bool) {
	p.total++
	rs, err := s.RiseSetLocal(row.date, offset)
	if err != nil {
		p.skipped++
		if errors.Is(err, suntime.ErrNoCrossing) {
			p.noCrossing++
			ctxlog.Logger(ctx).Debug("no crossing", "date", row.date.Format("2006-01-02"))
			return result{}, false
		}
		p.rowErrs.Append(err)
		return result{}, false
	}
	res := result{
		gotRise:    rs.Rise,
		gotSet:     rs.Set,
		riseErr:    diffMinutes(rs.Rise, row.rise),
		setErr:     diffMinutes(rs.Set, row.set),
		riseSigned: diffMinutesSigned(rs.Rise, row.rise),
		setSigned:  diffMinutesSigned(rs.Set, row.set),
	}
	p.riseStats.add(res.riseErr)
	p.setStats.add(res.setErr)
	p.riseSignedStats.add(res.riseSigned)
	p.setSignedStats.add(res.setSigned)
	return res, true
}

func (p *profile) summary(out io.Writer, cfg config, loc *time.Location, source string) {
	fmt.Fprintln(out, "=== suntime profiler summary ===")
	fmt.Fprintf(out, "Offset:    %s (zenith %.3f)\n", cfg.offset, cfg.zenith)
	fmt.Fprintf(out, "Reference: %s\n", source)
	fmt.Fprintf(out, "Lat/Lon:   %.4f / %.4f\n", cfg.lat, cfg.lon)
	fmt.Fprintf(out, "TZ:        %s\n", loc.String())
	fmt.Fprintf(out, "Rows:      %d (processed), %d skipped, %d without crossing\n",
		p.total-p.skipped, p.skipped, p.noCrossing)

	if p.riseStats.count == 0 {
		fmt.Fprintln(out, "No valid rows to compute stats.")
		return
	}
	p.riseStats.print(out, "Rise error (minutes)")
	p.setStats.print(out, "Set error (minutes)")
	p.riseSignedStats.print(out, "Rise signed error (minutes, our - ref)")
	p.setSignedStats.print(out, "Set signed error (minutes, our - ref)")
}

type stats struct {
	count int
	sum   float64
	min   float64
	max   float64
}

func (s *stats) add(v float64) {
	if math.IsNaN(v) {
		return
	}
	if s.count == 0 {
		s.min, s.max = v, v
	} else {
		s.min = math.Min(s.min, v)
		s.max = math.Max(s.max, v)
	}
	s.sum += v
	s.count++
}

func (s *stats) mean() float64 {
	if s.count == 0 {
		return math.NaN()
	}
	return s.sum / float64(s.count)
}

func (s *stats) print(out io.Writer, title string) {
	fmt.Fprintf(out, "\n%s:\n", title)
	fmt.Fprintf(out, "  count: %d\n", s.count)
	fmt.Fprintf(out, "  min:   %.3f\n", s.min)
	fmt.Fprintf(out, "  max:   %.3f\n", s.max)
	fmt.Fprintf(out, "  mean:  %.3f\n", s.mean())
}

func diffMinutes(a, b time.Time) float64 {
	return math.Abs(diffMinutesSigned(a, b))
}

func diffMinutesSigned(a, b time.Time) float64 {
	// If either time is zero, treat as "no data".
	if a.IsZero() || b.IsZero() {
		return math.NaN()
	}
	return a.Sub(b).Minutes()
}
