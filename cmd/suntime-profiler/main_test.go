package main

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cloudeng.io/errors"

	"github.com/thurmanmarka/suntime"
)

func TestParseLocalTime(t *testing.T) {
	date := time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"07:32", time.Date(2025, time.January, 2, 7, 32, 0, 0, time.UTC), false},
		{"17:13:45", time.Date(2025, time.January, 2, 17, 13, 45, 0, time.UTC), false},
		{"7h32", time.Time{}, true},
	}
	for _, tt := range tests {
		got, err := parseLocalTime(date, tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseLocalTime(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseLocalTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestReadReferenceCSV(t *testing.T) {
	in := strings.Join([]string{
		"date,rise,set",
		"2025-01-01,07:32,17:12",
		"2025-01-02,07:32",
		"2025-13-01,07:32,17:12",
		"2025-01-03,25:00,17:13",
		"2025-01-04,07:31,17:14",
	}, "\n")

	var rowErrs errors.M
	rows, err := readReferenceCSV(strings.NewReader(in), time.UTC, &rowErrs)
	if err != nil {
		t.Fatalf("readReferenceCSV() error = %v", err)
	}
	if got, want := len(rows), 2; got != want {
		t.Fatalf("got %d rows, want %d", got, want)
	}
	if got, want := len(rowErrs.Unwrap()), 3; got != want {
		t.Errorf("got %d row errors, want %d: %v", got, want, rowErrs.Err())
	}
	if got := rows[1].set.Format("2006-01-02 15:04"); got != "2025-01-04 17:14" {
		t.Errorf("last row set = %s", got)
	}

	if _, err := readReferenceCSV(strings.NewReader(""), time.UTC, &rowErrs); err == nil {
		t.Errorf("empty CSV: expected error")
	}
}

func TestDateRange(t *testing.T) {
	now := time.Date(2024, time.May, 5, 12, 0, 0, 0, time.UTC)

	from, to, err := dateRange("", "", time.UTC, now)
	if err != nil {
		t.Fatal(err)
	}
	if from.Format("2006-01-02") != "2024-01-01" || to.Format("2006-01-02") != "2024-12-31" {
		t.Errorf("default range = %v..%v", from, to)
	}

	from, to, err = dateRange("2021-03-01", "", time.UTC, now)
	if err != nil {
		t.Fatal(err)
	}
	if from.Format("2006-01-02") != "2021-03-01" || to.Format("2006-01-02") != "2021-12-31" {
		t.Errorf("range from -from = %v..%v", from, to)
	}

	if _, _, err := dateRange("2021-03-01", "2021-02-01", time.UTC, now); err == nil {
		t.Errorf("reversed range: expected error")
	}
	if _, _, err := dateRange("03/01/2021", "", time.UTC, now); err == nil {
		t.Errorf("bad -from: expected error")
	}
}

func TestStats(t *testing.T) {
	var s stats
	if !math.IsNaN(s.mean()) {
		t.Errorf("empty mean = %v, want NaN", s.mean())
	}
	for _, v := range []float64{2, math.NaN(), -1, 5} {
		s.add(v)
	}
	if s.count != 3 || s.min != -1 || s.max != 5 || s.mean() != 2 {
		t.Errorf("stats = %+v mean %v", s, s.mean())
	}
}

func TestDiffMinutes(t *testing.T) {
	a := time.Date(2025, time.January, 1, 7, 32, 0, 0, time.UTC)
	b := a.Add(-90 * time.Second)
	if got := diffMinutesSigned(b, a); got != -1.5 {
		t.Errorf("diffMinutesSigned = %v, want -1.5", got)
	}
	if got := diffMinutes(b, a); got != 1.5 {
		t.Errorf("diffMinutes = %v, want 1.5", got)
	}
	if got := diffMinutes(time.Time{}, a); !math.IsNaN(got) {
		t.Errorf("diffMinutes with zero time = %v, want NaN", got)
	}
}

func TestGoSunriseRows(t *testing.T) {
	from := time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 6)
	rows := goSunriseRows(52.52, 13.405, from, to, time.UTC)
	if len(rows) != 7 {
		t.Fatalf("got %d rows, want 7", len(rows))
	}
	for _, r := range rows {
		if !r.rise.Before(r.set) {
			t.Errorf("%s: rise %v not before set %v", r.date.Format("2006-01-02"), r.rise, r.set)
		}
	}

}

func TestRunWithCSV(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "berlin.csv")
	csvData := "date,rise,set\n2020-03-19,05:10,17:19\n2020-03-20,05:08,17:21\n"
	if err := os.WriteFile(ref, []byte(csvData), 0o600); err != nil {
		t.Fatal(err)
	}
	outCSV := filepath.Join(dir, "out.csv")

	var out bytes.Buffer
	cfg := config{
		lat:    52.52,
		lon:    13.405,
		tzName: "UTC",
		offset: suntime.Horizon,
		zenith: suntime.DefaultZenith,
		refCSV: ref,
		outCSV: outCSV,
	}
	if err := run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	summary := out.String()
	for _, want := range []string{"Rows:      2 (processed), 0 skipped", "count: 2"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}

	written, err := os.ReadFile(outCSV)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(written)), "\n")
	if len(lines) != 3 {
		t.Fatalf("outcsv has %d lines, want 3:\n%s", len(lines), written)
	}
	if !strings.HasPrefix(lines[1], "2020-03-19,horizon,0.000000,0.000000,") {
		t.Errorf("first outcsv row = %q", lines[1])
	}
}

func TestRunCountsNoCrossing(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "pole.csv")
	if err := os.WriteFile(ref, []byte("2024-12-21,10:00,14:00\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	cfg := config{lat: 89, lon: 0, tzName: "UTC", zenith: suntime.DefaultZenith, refCSV: ref}
	if err := run(context.Background(), cfg, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(out.String(), "0 (processed), 1 skipped, 1 without crossing") {
		t.Errorf("unexpected summary:\n%s", out.String())
	}
}

func TestRunRejectsTwilightWithoutCSV(t *testing.T) {
	cfg := config{lat: 52.52, lon: 13.405, tzName: "UTC", offset: suntime.Civil, zenith: suntime.DefaultZenith}
	if err := run(context.Background(), cfg, &bytes.Buffer{}); err == nil {
		t.Errorf("expected error for civil offset against go-sunrise")
	}
}
