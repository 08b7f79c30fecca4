package generic

import (
	"fmt"
	"time"
)

// =============================================================================
// PERIOD - The window a usage summary is computed for
// =============================================================================

// Period is an inclusive range of calendar days.
//
// Examples:
//   - Calendar year 2025: Jan 1 - Dec 31
//   - Fiscal year 2025:   Apr 1 2025 - Mar 31 2026
type Period struct {
	Start Date
	End   Date
}

// Contains returns true if d is within [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// BusinessDays is the number of weekdays in the period.
func (p Period) BusinessDays() int {
	return BusinessDaysBetween(p.Start, p.End)
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// PeriodType defines how periods are calculated.
type PeriodType string

const (
	PeriodCalendarYear PeriodType = "calendar_year" // Jan 1 - Dec 31
	PeriodFiscalYear   PeriodType = "fiscal_year"   // custom start month
)

// PeriodConfig picks the period a date falls into.
type PeriodConfig struct {
	Type PeriodType

	// For fiscal year: which month starts the fiscal year (1-12).
	FiscalYearStartMonth time.Month
}

// ParsePeriodConfig accepts "calendar" or "fiscal:<month>" (1-12).
func ParsePeriodConfig(s string) (PeriodConfig, error) {
	if s == "" || s == "calendar" || s == string(PeriodCalendarYear) {
		return PeriodConfig{Type: PeriodCalendarYear}, nil
	}
	var month int
	if _, err := fmt.Sscanf(s, "fiscal:%d", &month); err != nil || month < 1 || month > 12 {
		return PeriodConfig{}, fmt.Errorf("invalid period %q: want calendar or fiscal:<1-12>", s)
	}
	return PeriodConfig{Type: PeriodFiscalYear, FiscalYearStartMonth: time.Month(month)}, nil
}

// PeriodFor returns the period that contains date.
func (pc PeriodConfig) PeriodFor(date Date) Period {
	if pc.Type == PeriodFiscalYear && pc.FiscalYearStartMonth > time.January {
		start := NewDate(date.Year, pc.FiscalYearStartMonth, 1)
		if date.Before(start) {
			start = NewDate(date.Year-1, pc.FiscalYearStartMonth, 1)
		}
		end := DateOf(start.Time().AddDate(1, 0, -1))
		return Period{Start: start, End: end}
	}
	return CalendarYear(date.Year)
}

// CalendarYear is Jan 1 - Dec 31 of year.
func CalendarYear(year int) Period {
	return Period{Start: NewDate(year, time.January, 1), End: NewDate(year, time.December, 31)}
}
