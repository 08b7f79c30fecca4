/*
Package generic provides the core vocabulary of the PTO tracker.

PURPOSE:
  Domain types shared by the submission and reconciliation services, the
  persistence gateways, and the HTTP/CLI surfaces. Nothing in this package
  performs I/O.

KEY CONCEPTS IN THIS FILE (types.go):
  - Kind:      FullDay or HalfDay absence
  - Entry:     One person's PTO on one date, with a stable row id
  - EntrySet:  All entries for one person (a snapshot)
  - EditedRow: A row of a user-edited table, paired with the row it came from

INVARIANTS:
  1. At most one Entry per (Person, Date) in the store
  2. No Entry is ever dated on a Saturday or Sunday
  3. RowID never changes once assigned, even when the row's date is edited

HOURS WORKED:
  The stored numeric column is historically named "Hours Worked" but holds
  0 for a full day off and 0.5 for a half day off. The value is kept as a
  decimal so it round-trips through TEXT columns exactly.

SEE ALSO:
  - time.go:   Date and business-day helpers
  - store.go:  Persistence gateway interfaces
  - errors.go: Error taxonomy
*/
package generic

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// KIND - FullDay / HalfDay
// =============================================================================

type Kind string

const (
	KindFullDay Kind = "full_day"
	KindHalfDay Kind = "half_day"
)

var halfDayHours = decimal.RequireFromString("0.5")

// ParseKind accepts the canonical value or the form label ("Full Day").
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(strings.ReplaceAll(s, "_", " "))) {
	case "full day", "fullday", "full":
		return KindFullDay, nil
	case "half day", "halfday", "half":
		return KindHalfDay, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

func (k Kind) Valid() bool { return k == KindFullDay || k == KindHalfDay }

// Label is the text shown in the form and stored in "Hours Worked Text".
func (k Kind) Label() string {
	switch k {
	case KindFullDay:
		return "Full Day"
	case KindHalfDay:
		return "Half Day"
	default:
		return string(k)
	}
}

// HoursWorked is the numeric value stored alongside the label.
func (k Kind) HoursWorked() decimal.Decimal {
	if k == KindHalfDay {
		return halfDayHours
	}
	return decimal.Zero
}

// =============================================================================
// ENTRY
// =============================================================================

// NormalizePerson is the canonical form of a person's name: surrounding
// whitespace removed. Every service and surface keys entries by it.
func NormalizePerson(name string) string { return strings.TrimSpace(name) }

// RowID is an opaque, store-assigned identifier for a stored entry.
type RowID string

type Entry struct {
	ID     RowID
	Person string
	Date   Date
	Kind   Kind
}

func (e Entry) HoursWorked() decimal.Decimal { return e.Kind.HoursWorked() }

// EntrySet is every entry for one person.
type EntrySet struct {
	Person  string
	Entries []Entry
}

// Dates returns the set of dates in the snapshot.
func (s EntrySet) Dates() map[Date]bool {
	dates := make(map[Date]bool, len(s.Entries))
	for _, e := range s.Entries {
		dates[e.Date] = true
	}
	return dates
}

// ByID indexes the snapshot by row id.
func (s EntrySet) ByID() map[RowID]Entry {
	byID := make(map[RowID]Entry, len(s.Entries))
	for _, e := range s.Entries {
		byID[e.ID] = e
	}
	return byID
}

// Rows converts the snapshot into an unedited table, each row pointing back
// at its own entry. Saving these rows unchanged is a no-op.
func (s EntrySet) Rows() []EditedRow {
	rows := make([]EditedRow, len(s.Entries))
	for i, e := range s.Entries {
		rows[i] = EditedRow{Origin: e.ID, Date: e.Date, Kind: e.Kind}
	}
	return rows
}

// SortEntriesDesc orders entries newest first, the order the gateway lists them in.
func SortEntriesDesc(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
}

// SortDates orders dates ascending in place and returns the slice.
func SortDates(dates []Date) []Date {
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// =============================================================================
// EDITED ROW - One row of the editable table
// =============================================================================

// EditedRow is a row of the user-edited table. Origin is the RowID of the
// stored entry the row was loaded from, or empty for a row the user added.
type EditedRow struct {
	Origin RowID
	Date   Date
	Kind   Kind
}

func (r EditedRow) IsNew() bool { return r.Origin == "" }
