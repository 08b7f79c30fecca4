package generic

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// DATE - Calendar day (PTO is always recorded at day granularity)
// =============================================================================

// Date is a calendar day with no time-of-day or zone. It is comparable and
// safe to use as a map key.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateLayout is the wire and storage format for dates.
const DateLayout = "2006-01-02"

// DisplayLayout is the format used in user-facing messages.
const DisplayLayout = "Jan 02, 2006"

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func Today() Date { return DateOf(time.Now()) }

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) Time() time.Time { return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC) }

// Comparison
func (d Date) Before(other Date) bool        { return d.Time().Before(other.Time()) }
func (d Date) After(other Date) bool         { return d.Time().After(other.Time()) }
func (d Date) Equal(other Date) bool         { return d == other }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }
func (d Date) Compare(other Date) int        { return d.Time().Compare(other.Time()) }

// Arithmetic
func (d Date) AddDays(n int) Date { return DateOf(d.Time().AddDate(0, 0, n)) }

// Properties
func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }
func (d Date) IsWeekend() bool       { wd := d.Weekday(); return wd == time.Saturday || wd == time.Sunday }
func (d Date) IsBusinessDay() bool   { return !d.IsWeekend() }
func (d Date) IsZero() bool          { return d == Date{} }

func (d Date) String() string  { return d.Time().Format(DateLayout) }
func (d Date) Display() string { return d.Time().Format(DisplayLayout) }

// MarshalText lets Date travel as "YYYY-MM-DD" in JSON.
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// BUSINESS DAYS
// =============================================================================

// BusinessDays returns every Monday-Friday date in [from, to], ascending.
// An inverted range yields nothing.
func BusinessDays(from, to Date) []Date {
	var days []Date
	for d := from; d.BeforeOrEqual(to); d = d.AddDays(1) {
		if d.IsBusinessDay() {
			days = append(days, d)
		}
	}
	return days
}

// BusinessDaysBetween counts Monday-Friday dates in [from, to] without
// walking the range.
func BusinessDaysBetween(from, to Date) int {
	if from.After(to) {
		return 0
	}
	total := DaysBetween(from, to) + 1
	weeks, rest := total/7, total%7
	count := weeks * 5
	wd := from.Weekday()
	for i := 0; i < rest; i++ {
		day := (wd + time.Weekday(i)) % 7
		if day != time.Saturday && day != time.Sunday {
			count++
		}
	}
	return count
}

// DaysBetween is the signed number of days from `from` to `to`. It counts
// in Unix seconds because time.Duration saturates after about 292 years.
func DaysBetween(from, to Date) int {
	return int((to.Time().Unix() - from.Time().Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

// FormatDates renders dates for messages: "Jan 02, 2006, Jan 03, 2006".
func FormatDates(dates []Date) string {
	parts := make([]string, len(dates))
	for i, d := range dates {
		parts[i] = d.Display()
	}
	return strings.Join(parts, ", ")
}
