package generic_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pto-tracker/generic"
)

func TestBusinessDays_SkipsWeekends(t *testing.T) {
	// GIVEN: Friday Jan 5 to Tuesday Jan 9, 2024
	// WHEN: Expanding to business days
	// THEN: Fri, Mon, Tue

	days := generic.BusinessDays(generic.NewDate(2024, time.January, 5), generic.NewDate(2024, time.January, 9))

	assert.Equal(t, []generic.Date{
		generic.NewDate(2024, time.January, 5),
		generic.NewDate(2024, time.January, 8),
		generic.NewDate(2024, time.January, 9),
	}, days)
}

func TestBusinessDays_InvertedAndWeekendOnly(t *testing.T) {
	assert.Empty(t, generic.BusinessDays(generic.NewDate(2024, time.January, 9), generic.NewDate(2024, time.January, 8)))
	assert.Empty(t, generic.BusinessDays(generic.NewDate(2024, time.January, 6), generic.NewDate(2024, time.January, 7)))
	assert.Zero(t, generic.BusinessDaysBetween(generic.NewDate(2024, time.January, 9), generic.NewDate(2024, time.January, 8)))
}

func TestBusinessDaysBetween_MatchesWalk(t *testing.T) {
	start := generic.NewDate(2023, time.December, 25)
	for offset := 0; offset < 7; offset++ {
		from := start.AddDays(offset)
		for length := 0; length < 40; length++ {
			to := from.AddDays(length)
			assert.Equal(t, len(generic.BusinessDays(from, to)), generic.BusinessDaysBetween(from, to), "%s..%s", from, to)
		}
	}
}

func TestBusinessDaysBetween_MultiCenturySpan(t *testing.T) {
	// GIVEN: A range longer than time.Duration can hold (~292 years)
	// WHEN: Counting business days
	// THEN: The closed form still matches the walk

	from := generic.NewDate(1700, time.January, 1)
	to := generic.NewDate(2100, time.December, 31)

	assert.Equal(t, len(generic.BusinessDays(from, to)), generic.BusinessDaysBetween(from, to))
	assert.Equal(t, 146461, generic.DaysBetween(from, to))
	assert.Equal(t, -146461, generic.DaysBetween(to, from))
}

func TestDate_CrossesMonthAndLeapDay(t *testing.T) {
	d := generic.NewDate(2024, time.February, 28)

	assert.Equal(t, generic.NewDate(2024, time.February, 29), d.AddDays(1))
	assert.Equal(t, generic.NewDate(2024, time.March, 1), d.AddDays(2))
	assert.Equal(t, 2, generic.DaysBetween(d, d.AddDays(2)))
	assert.Equal(t, -1, d.AddDays(1).Compare(d.AddDays(2)))
}

func TestDate_Weekend(t *testing.T) {
	assert.True(t, generic.NewDate(2024, time.January, 6).IsWeekend())
	assert.True(t, generic.NewDate(2024, time.January, 7).IsWeekend())
	assert.False(t, generic.NewDate(2024, time.January, 8).IsWeekend())
	assert.True(t, generic.NewDate(2024, time.February, 1).IsBusinessDay())
}

func TestParseDate(t *testing.T) {
	d, err := generic.ParseDate("2024-02-01")
	require.NoError(t, err)
	assert.Equal(t, generic.NewDate(2024, time.February, 1), d)
	assert.Equal(t, "2024-02-01", d.String())
	assert.Equal(t, "Feb 01, 2024", d.Display())

	_, err = generic.ParseDate("02/01/2024")
	assert.Error(t, err)
	_, err = generic.ParseDate("2024-02-30")
	assert.Error(t, err)
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		Date generic.Date `json:"date"`
	}
	b, err := json.Marshal(payload{Date: generic.NewDate(2024, time.March, 4)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-03-04"}`, string(b))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-03-05"}`), &p))
	assert.Equal(t, generic.NewDate(2024, time.March, 5), p.Date)

	assert.Error(t, json.Unmarshal([]byte(`{"date":"March 5"}`), &p))
}

func TestFormatDates(t *testing.T) {
	assert.Equal(t, "Jan 10, 2024, Jan 12, 2024", generic.FormatDates([]generic.Date{
		generic.NewDate(2024, time.January, 10),
		generic.NewDate(2024, time.January, 12),
	}))
	assert.Equal(t, "", generic.FormatDates(nil))
}

func TestPeriodConfig_PeriodFor(t *testing.T) {
	tests := []struct {
		name   string
		config string
		date   generic.Date
		want   generic.Period
	}{
		{
			name:   "calendar year",
			config: "calendar",
			date:   generic.NewDate(2024, time.June, 15),
			want:   generic.CalendarYear(2024),
		},
		{
			name:   "fiscal year after start month",
			config: "fiscal:4",
			date:   generic.NewDate(2024, time.June, 15),
			want:   generic.Period{Start: generic.NewDate(2024, time.April, 1), End: generic.NewDate(2025, time.March, 31)},
		},
		{
			name:   "fiscal year before start month",
			config: "fiscal:4",
			date:   generic.NewDate(2024, time.February, 29),
			want:   generic.Period{Start: generic.NewDate(2023, time.April, 1), End: generic.NewDate(2024, time.March, 31)},
		},
		{
			name:   "fiscal year starting in January is the calendar year",
			config: "fiscal:1",
			date:   generic.NewDate(2024, time.June, 15),
			want:   generic.CalendarYear(2024),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc, err := generic.ParsePeriodConfig(tt.config)
			require.NoError(t, err)
			got := pc.PeriodFor(tt.date)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Contains(tt.date))
		})
	}
}

func TestParsePeriodConfig_Invalid(t *testing.T) {
	for _, s := range []string{"fiscal", "fiscal:13", "fiscal:0", "weekly"} {
		_, err := generic.ParsePeriodConfig(s)
		assert.Error(t, err, s)
	}
}

func TestPeriod_BusinessDays(t *testing.T) {
	assert.Equal(t, 262, generic.CalendarYear(2024).BusinessDays())
}
