package timeoff

import (
	"context"
	"fmt"

	"github.com/warp/pto-tracker/generic"
)

// =============================================================================
// SUBMITTER - Expands a date range into new PTO entries
// =============================================================================

// SubmitRequest asks for PTO on every business day of [Start, End].
type SubmitRequest struct {
	Person string
	Start  generic.Date
	End    generic.Date
	Kind   generic.Kind
}

// SubmitResult lists the dates actually inserted (weekends excluded).
type SubmitResult struct {
	Person   string
	Start    generic.Date
	End      generic.Date
	Kind     generic.Kind
	Inserted []generic.Date
}

// Message is the confirmation shown to the user after a submit.
func (r *SubmitResult) Message() string {
	return fmt.Sprintf("Time off submitted for %s from %s to %s (excluding weekends).",
		r.Person, r.Start.Display(), r.End.Display())
}

// MaxRangeDays is the longest range, in calendar days, one submit may book.
const MaxRangeDays = 366

type Submitter struct {
	Store generic.TxStore
	Locks *PersonLocks // optional
}

func NewSubmitter(store generic.TxStore, locks *PersonLocks) *Submitter {
	return &Submitter{Store: store, Locks: locks}
}

// Validate checks the request without touching the store.
func (req SubmitRequest) Validate() error {
	if generic.NormalizePerson(req.Person) == "" {
		return generic.ErrPersonRequired
	}
	if !req.Kind.Valid() {
		return fmt.Errorf("%w: %q", generic.ErrInvalidKind, req.Kind)
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return generic.ErrDateRequired
	}
	if req.Start.After(req.End) {
		return &generic.InvalidRangeError{Start: req.Start, End: req.End}
	}
	if generic.DaysBetween(req.Start, req.End) >= MaxRangeDays {
		return &generic.RangeTooLongError{Start: req.Start, End: req.End, MaxDays: MaxRangeDays}
	}
	return nil
}

// Submit inserts one entry per business day in the range.
//
// The range may span at most MaxRangeDays calendar days.
//
// This is ALL-OR-NOTHING:
//   - If any date in the range already has PTO for the person, nothing is
//     written and a DuplicateDateError lists every conflicting date.
//   - The conflict check and all inserts run in one store transaction; an
//     insert failure rolls the whole range back and surfaces as PersistenceError.
func (s *Submitter) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	req.Person = generic.NormalizePerson(req.Person)
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.Locks != nil {
		defer s.Locks.Lock(req.Person)()
	}

	result := &SubmitResult{Person: req.Person, Start: req.Start, End: req.End, Kind: req.Kind}

	err := s.Store.WithTx(ctx, func(tx generic.Store) error {
		existing, err := tx.FindEntriesInRange(ctx, req.Person, req.Start, req.End)
		if err != nil {
			return generic.Persistence("find entries in range", err)
		}
		if len(existing) > 0 {
			return &generic.DuplicateDateError{Person: req.Person, Dates: generic.SortDates(existing)}
		}

		for _, day := range generic.BusinessDays(req.Start, req.End) {
			entry := generic.Entry{Person: req.Person, Date: day, Kind: req.Kind}
			if _, err := tx.InsertEntry(ctx, entry); err != nil {
				return generic.Persistence(fmt.Sprintf("insert entry %s", day), err)
			}
			result.Inserted = append(result.Inserted, day)
		}
		return nil
	})
	if err != nil {
		return nil, generic.Persistence("submit", err)
	}
	return result, nil
}
