package timeoff

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/warp/pto-tracker/generic"
)

// =============================================================================
// USAGE - Days off taken in a period
// =============================================================================

var halfDay = decimal.RequireFromString("0.5")

// Usage summarizes one person's PTO within a period. A full day counts as
// one day off and a half day as half.
type Usage struct {
	Person   string
	Period   generic.Period
	FullDays int
	HalfDays int

	// Allowance is the yearly entitlement in days. Zero means untracked.
	Allowance decimal.Decimal
}

// DaysOff is the total time off in days.
func (u Usage) DaysOff() decimal.Decimal {
	return decimal.NewFromInt(int64(u.FullDays)).Add(halfDay.Mul(decimal.NewFromInt(int64(u.HalfDays))))
}

// Remaining is Allowance minus DaysOff. It can go negative; the tracker
// records absences, it does not police them.
func (u Usage) Remaining() decimal.Decimal {
	return u.Allowance.Sub(u.DaysOff())
}

func (u Usage) Tracked() bool { return u.Allowance.IsPositive() }

// Summarize counts the entries of set that fall within period.
func Summarize(set generic.EntrySet, period generic.Period, allowance decimal.Decimal) Usage {
	u := Usage{Person: set.Person, Period: period, Allowance: allowance}
	for _, e := range set.Entries {
		if !period.Contains(e.Date) {
			continue
		}
		switch e.Kind {
		case generic.KindFullDay:
			u.FullDays++
		case generic.KindHalfDay:
			u.HalfDays++
		}
	}
	return u
}

// UsageCalculator reads entries from the store and summarizes them.
type UsageCalculator struct {
	Store     generic.Store
	Periods   generic.PeriodConfig
	Allowance decimal.Decimal
}

// Calculate returns the usage for person in the period containing asOf.
func (c *UsageCalculator) Calculate(ctx context.Context, person string, asOf generic.Date) (Usage, error) {
	if person == "" {
		return Usage{}, generic.ErrPersonRequired
	}
	entries, err := c.Store.ListEntries(ctx, person)
	if err != nil {
		return Usage{}, generic.Persistence("list entries", err)
	}
	period := c.Periods.PeriodFor(asOf)
	return Summarize(generic.EntrySet{Person: person, Entries: entries}, period, c.Allowance), nil
}
