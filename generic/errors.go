/*
errors.go - Centralized error types for the PTO tracker

PURPOSE:
  All error types in one place for consistency and discoverability.
  Services return the structured errors below; callers match them with
  errors.Is against the sentinels or errors.As to read the offending dates.

ERROR CATEGORIES:
  1. Validation errors - InvalidRange, RangeTooLong, WeekendDate, DuplicateInBatch, UnknownRow
  2. Conflict errors   - DuplicateDate (date already stored for the person)
  3. Store errors      - PersistenceError, wraps the gateway failure verbatim

USAGE:
  dates, err := submitter.Submit(ctx, req)
  var dup *generic.DuplicateDateError
  if errors.As(err, &dup) {
      fmt.Println("already booked:", generic.FormatDates(dup.Dates))
  }

SEE ALSO:
  - timeoff/submit.go:    Raises InvalidRange / DuplicateDate
  - timeoff/reconcile.go: Raises WeekendDate / DuplicateInBatch / DuplicateDate
*/
package generic

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRange is returned when a date range ends before it starts.
	ErrInvalidRange = errors.New("invalid range: end before start")

	// ErrRangeTooLong is returned when a submitted range spans more days
	// than a single submit may book.
	ErrRangeTooLong = errors.New("range too long")

	// ErrDuplicateDate is returned when PTO already exists for a person on a date.
	ErrDuplicateDate = errors.New("pto already exists on date")

	// ErrDuplicateInBatch is returned when an edited table lists the same date twice.
	ErrDuplicateInBatch = errors.New("duplicate date in edited entries")

	// ErrWeekendDate is returned when an entry falls on Saturday or Sunday.
	ErrWeekendDate = errors.New("pto cannot be recorded on a weekend")

	// ErrPersistence is returned when the persistence gateway fails.
	ErrPersistence = errors.New("persistence failure")

	// ErrPersonRequired is returned when an operation has no person.
	ErrPersonRequired = errors.New("person is required")

	// ErrDateRequired is returned for a row or range without a date.
	ErrDateRequired = errors.New("date is required")

	// ErrInvalidKind is returned for a day type other than FullDay/HalfDay.
	ErrInvalidKind = errors.New("invalid day type")

	// ErrUnknownRow is returned when an edited row points at a row that is
	// not part of the original snapshot.
	ErrUnknownRow = errors.New("unknown row")

	// ErrEntryNotFound is returned by a gateway when an update matches no row.
	ErrEntryNotFound = errors.New("entry not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

type InvalidRangeError struct {
	Start Date
	End   Date
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: end %s is before start %s", e.End, e.Start)
}

func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }

type RangeTooLongError struct {
	Start   Date
	End     Date
	MaxDays int
}

func (e *RangeTooLongError) Error() string {
	return fmt.Sprintf("range %s to %s spans %d days; at most %d can be submitted at once",
		e.Start, e.End, DaysBetween(e.Start, e.End)+1, e.MaxDays)
}

func (e *RangeTooLongError) Unwrap() error { return ErrRangeTooLong }

// DuplicateDateError lists the dates that already have PTO for Person.
type DuplicateDateError struct {
	Person string
	Dates  []Date
}

func (e *DuplicateDateError) Error() string {
	return fmt.Sprintf("PTO already exists for %s on: %s", e.Person, FormatDates(e.Dates))
}

func (e *DuplicateDateError) Unwrap() error { return ErrDuplicateDate }

type DuplicateInBatchError struct {
	Dates []Date
}

func (e *DuplicateInBatchError) Error() string {
	return fmt.Sprintf("duplicate dates in edited entries: %s", FormatDates(e.Dates))
}

func (e *DuplicateInBatchError) Unwrap() error { return ErrDuplicateInBatch }

// WeekendRow identifies an offending row by its position in the edited table.
type WeekendRow struct {
	Index int
	Date  Date
}

type WeekendDateError struct {
	Rows []WeekendRow
}

func (e *WeekendDateError) Error() string {
	parts := make([]string, len(e.Rows))
	for i, r := range e.Rows {
		parts[i] = fmt.Sprintf("row %d (%s, %s)", r.Index+1, r.Date.Display(), r.Date.Weekday())
	}
	return "PTO cannot be recorded on a weekend: " + strings.Join(parts, ", ")
}

func (e *WeekendDateError) Unwrap() error { return ErrWeekendDate }

type UnknownRowError struct {
	IDs []RowID
}

func (e *UnknownRowError) Error() string {
	parts := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		parts[i] = string(id)
	}
	return fmt.Sprintf("edited rows reference unknown or repeated entries: %s", strings.Join(parts, ", "))
}

func (e *UnknownRowError) Unwrap() error { return ErrUnknownRow }

// PersistenceError wraps a gateway failure. The underlying error is kept
// intact so errors.Is can still reach driver-level errors.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }

// Persistence wraps err as a PersistenceError. Nil, validation, conflict and
// already-wrapped errors pass through unchanged.
func Persistence(op string, err error) error {
	if err == nil || IsClientError(err) || IsConflict(err) {
		return err
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrRangeTooLong) ||
		errors.Is(err, ErrWeekendDate) ||
		errors.Is(err, ErrDuplicateInBatch) ||
		errors.Is(err, ErrPersonRequired) ||
		errors.Is(err, ErrInvalidKind) ||
		errors.Is(err, ErrDateRequired) ||
		errors.Is(err, ErrUnknownRow)
}

// IsConflict returns true if the error reports dates that are already taken.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateDate)
}
