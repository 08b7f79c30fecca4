package timeoff

import (
	"context"
	"fmt"

	"github.com/warp/pto-tracker/generic"
)

// =============================================================================
// RECONCILER - Applies a user-edited table against the stored entries
// =============================================================================

// Plan is the minimal set of writes that turns the stored entries into the
// edited table. Writes are applied in field order: Deletes, Updates, Inserts.
type Plan struct {
	Person    string
	Deletes   []generic.Date
	Updates   []generic.Update
	Inserts   []generic.Entry
	Skipped   []generic.WeekendRow // weekend rows dropped under WeekendSkip
	Conflicts []generic.Date       // rows not written because the date is taken
}

// Writes is the number of store mutations the plan performs. Deletes count
// as one batched statement.
func (p Plan) Writes() int {
	n := len(p.Updates) + len(p.Inserts)
	if len(p.Deletes) > 0 {
		n++
	}
	return n
}

func (p Plan) Empty() bool { return p.Writes() == 0 }

// SaveResult is returned by Save: what was applied and the refreshed entries.
type SaveResult struct {
	Plan    Plan
	Entries generic.EntrySet
}

type Reconciler struct {
	Store  generic.TxStore
	Policy Policy
	Locks  *PersonLocks // optional
}

func NewReconciler(store generic.TxStore, policy Policy, locks *PersonLocks) *Reconciler {
	return &Reconciler{Store: store, Policy: policy.withDefaults(), Locks: locks}
}

// Diff computes the plan for edited against original without touching a
// store. Validation failures (weekend rows under WeekendReject, duplicate
// dates within the table, unknown row references) are returned as errors.
func Diff(original generic.EntrySet, edited []generic.EditedRow, policy Policy) (Plan, error) {
	original.Person = generic.NormalizePerson(original.Person)
	return plan(original, edited, original.Entries, policy.withDefaults())
}

// LoadedSnapshot rebuilds the table a client edited from the stored entries
// and the row ids the client loaded. Stored rows outside loaded are left out,
// so a save never deletes a row the client did not see; they still count as
// taken dates inside Save. A nil loaded falls back to the ids the edited rows
// reference, which deletes nothing.
func LoadedSnapshot(stored generic.EntrySet, loaded []generic.RowID, edited []generic.EditedRow) generic.EntrySet {
	keep := make(map[generic.RowID]bool, len(loaded))
	if loaded == nil {
		for _, row := range edited {
			if !row.IsNew() {
				keep[row.Origin] = true
			}
		}
	}
	for _, id := range loaded {
		keep[id] = true
	}

	set := generic.EntrySet{Person: stored.Person, Entries: []generic.Entry{}}
	for _, e := range stored.Entries {
		if keep[e.ID] {
			set.Entries = append(set.Entries, e)
		}
	}
	return set
}

// Save reconciles edited against original and applies the result.
//
// Validation runs before any write. The plan is then recomputed inside the
// store transaction against a fresh read, so a date stored since original
// was loaded is reported as a conflict instead of being duplicated.
//
// Under ConflictCommitValid a non-nil *SaveResult is returned together with
// a *generic.DuplicateDateError when some rows were not written. Under
// ConflictAbort any conflict rolls back the whole save.
func (r *Reconciler) Save(ctx context.Context, original generic.EntrySet, edited []generic.EditedRow) (*SaveResult, error) {
	original.Person = generic.NormalizePerson(original.Person)
	policy := r.Policy.withDefaults()
	if _, err := plan(original, edited, original.Entries, policy); err != nil {
		return nil, err
	}
	if r.Locks != nil {
		defer r.Locks.Lock(original.Person)()
	}

	var applied Plan
	err := r.Store.WithTx(ctx, func(tx generic.Store) error {
		stored, err := tx.ListEntries(ctx, original.Person)
		if err != nil {
			return generic.Persistence("list entries", err)
		}
		p, err := plan(original, edited, stored, policy)
		if err != nil {
			return err
		}
		if len(p.Conflicts) > 0 && policy.Conflict == ConflictAbort {
			return &generic.DuplicateDateError{Person: original.Person, Dates: p.Conflicts}
		}
		if err := apply(ctx, tx, p); err != nil {
			return err
		}
		applied = p
		return nil
	})
	if err != nil {
		return nil, generic.Persistence("save changes", err)
	}

	entries, err := r.Store.ListEntries(ctx, original.Person)
	if err != nil {
		return nil, generic.Persistence("reload entries", err)
	}
	result := &SaveResult{
		Plan:    applied,
		Entries: generic.EntrySet{Person: original.Person, Entries: entries},
	}
	if len(applied.Conflicts) > 0 {
		return result, &generic.DuplicateDateError{Person: original.Person, Dates: applied.Conflicts}
	}
	return result, nil
}

func apply(ctx context.Context, tx generic.Store, p Plan) error {
	if len(p.Deletes) > 0 {
		if err := tx.DeleteEntries(ctx, p.Person, p.Deletes); err != nil {
			return generic.Persistence("delete entries", err)
		}
	}
	for _, u := range p.Updates {
		if err := tx.UpdateEntry(ctx, u); err != nil {
			return generic.Persistence(fmt.Sprintf("update entry %s", u.OldDate), err)
		}
	}
	for _, e := range p.Inserts {
		if _, err := tx.InsertEntry(ctx, e); err != nil {
			return generic.Persistence(fmt.Sprintf("insert entry %s", e.Date), err)
		}
	}
	return nil
}

// plan builds the writes for edited. original supplies row identity; stored
// is the current content of the store and decides which dates are taken.
func plan(original generic.EntrySet, edited []generic.EditedRow, stored []generic.Entry, policy Policy) (Plan, error) {
	person := original.Person
	if person == "" {
		return Plan{}, generic.ErrPersonRequired
	}
	p := Plan{Person: person}
	byID := original.ByID()

	// Row references and field checks.
	referenced := make(map[generic.RowID]bool, len(edited))
	var unknown []generic.RowID
	for i, row := range edited {
		if row.Date.IsZero() {
			return Plan{}, fmt.Errorf("row %d: %w", i+1, generic.ErrDateRequired)
		}
		if !row.Kind.Valid() {
			return Plan{}, fmt.Errorf("row %d: %w: %q", i+1, generic.ErrInvalidKind, row.Kind)
		}
		if row.IsNew() {
			continue
		}
		if _, ok := byID[row.Origin]; !ok || referenced[row.Origin] {
			unknown = append(unknown, row.Origin)
			continue
		}
		referenced[row.Origin] = true
	}
	if len(unknown) > 0 {
		return Plan{}, &generic.UnknownRowError{IDs: unknown}
	}

	// Weekend guard.
	skipped := make(map[int]bool)
	for i, row := range edited {
		if row.Date.IsWeekend() {
			p.Skipped = append(p.Skipped, generic.WeekendRow{Index: i, Date: row.Date})
			skipped[i] = true
		}
	}
	if len(p.Skipped) > 0 && policy.Weekend == WeekendReject {
		return Plan{}, &generic.WeekendDateError{Rows: p.Skipped}
	}

	// Intra-batch duplicate guard. A skipped row that came from the store
	// keeps its stored date, which still counts.
	seen := make(map[generic.Date]int)
	var dupes []generic.Date
	for i, row := range edited {
		date := row.Date
		if skipped[i] {
			if row.IsNew() {
				continue
			}
			date = byID[row.Origin].Date
		}
		seen[date]++
		if seen[date] == 2 {
			dupes = append(dupes, date)
		}
	}
	if len(dupes) > 0 {
		return Plan{}, &generic.DuplicateInBatchError{Dates: generic.SortDates(dupes)}
	}

	// Deletion set: stored rows the table no longer references.
	deleting := make(map[generic.Date]bool)
	for _, e := range original.Entries {
		if !referenced[e.ID] && !deleting[e.Date] {
			deleting[e.Date] = true
			p.Deletes = append(p.Deletes, e.Date)
		}
	}
	generic.SortDates(p.Deletes)

	var updates []generic.Update
	for i, row := range edited {
		if row.IsNew() || skipped[i] {
			continue
		}
		orig := byID[row.Origin]
		if orig.Date == row.Date && orig.Kind == row.Kind {
			continue
		}
		updates = append(updates, generic.Update{
			ID:      orig.ID,
			Person:  person,
			OldDate: orig.Date,
			NewDate: row.Date,
			Kind:    row.Kind,
		})
	}

	// Dates taken once deletes have run and moved rows have left their old
	// date. A rejected move keeps its row in place, which can block another
	// move, so settle until no new rejections appear.
	rejected := make(map[generic.RowID]bool)
	var taken map[generic.Date]generic.RowID
	for {
		taken = make(map[generic.Date]generic.RowID, len(stored))
		for _, e := range stored {
			if !deleting[e.Date] {
				taken[e.Date] = e.ID
			}
		}
		for _, u := range updates {
			if u.OldDate != u.NewDate && !rejected[u.ID] && taken[u.OldDate] == u.ID {
				delete(taken, u.OldDate)
			}
		}
		changed := false
		for _, u := range updates {
			if u.OldDate == u.NewDate || rejected[u.ID] {
				continue
			}
			if owner, ok := taken[u.NewDate]; ok && owner != u.ID {
				rejected[u.ID] = true
				changed = true
				continue
			}
			taken[u.NewDate] = u.ID
		}
		if !changed {
			break
		}
	}
	for _, u := range updates {
		if rejected[u.ID] {
			p.Conflicts = append(p.Conflicts, u.NewDate)
			continue
		}
		p.Updates = append(p.Updates, u)
	}

	// Insert set: new rows whose date is free.
	for i, row := range edited {
		if !row.IsNew() || skipped[i] {
			continue
		}
		if _, ok := taken[row.Date]; ok {
			p.Conflicts = append(p.Conflicts, row.Date)
			continue
		}
		taken[row.Date] = ""
		p.Inserts = append(p.Inserts, generic.Entry{Person: person, Date: row.Date, Kind: row.Kind})
	}
	generic.SortDates(p.Conflicts)

	return p, nil
}
