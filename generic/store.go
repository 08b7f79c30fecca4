/*
store.go - Persistence gateway interface for PTO entries

PURPOSE:
  Defines the interface between the PTO services and the database. The
  store is keyed by (person, date) and is the only side-effecting boundary
  of the system. Implementations: SQLite and in-memory.

KEY INTERFACES:
  Store:   Reads and writes of PTO entries
  TxStore: Store plus a transaction boundary (commit / rollback)

UNIQUENESS:
  The store does not have to enforce one entry per (person, date); the
  services check for conflicts inside the transaction before writing.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go:   SQLite
  - generic/store/memory.go:  In-memory for testing

SEE ALSO:
  - timeoff/submit.go:    Uses FindEntriesInRange + InsertEntry
  - timeoff/reconcile.go: Uses ListEntries + Delete/Update/Insert
*/
package generic

import "context"

// =============================================================================
// STORE
// =============================================================================

type Store interface {
	// ListPeople returns the distinct known persons, sorted by name.
	ListPeople(ctx context.Context) ([]string, error)

	// ListEntries returns all entries for person, ordered by date descending.
	ListEntries(ctx context.Context, person string) ([]Entry, error)

	// FindEntriesInRange returns the stored dates for person within [from, to].
	FindEntriesInRange(ctx context.Context, person string, from, to Date) ([]Date, error)

	// InsertEntry stores a new entry. An empty ID is assigned by the store;
	// the stored entry is returned.
	InsertEntry(ctx context.Context, e Entry) (Entry, error)

	// UpdateEntry changes the date and kind of the entry identified by
	// (person, oldDate) and row id. Returns ErrEntryNotFound if nothing matched.
	UpdateEntry(ctx context.Context, u Update) error

	// DeleteEntries removes all of person's entries on the given dates in one statement.
	DeleteEntries(ctx context.Context, person string, dates []Date) error
}

// Update moves one stored row to a new date and/or kind.
type Update struct {
	ID      RowID
	Person  string
	OldDate Date
	NewDate Date
	Kind    Kind
}

// TxStore wraps Store with transaction support.
type TxStore interface {
	Store

	// WithTx executes fn within a transaction.
	// If fn returns error, transaction is rolled back.
	// If fn returns nil, transaction is committed.
	WithTx(ctx context.Context, fn func(Store) error) error
}

// PeopleRegistry is implemented by stores that keep a roster of people who
// may not have any PTO yet.
type PeopleRegistry interface {
	AddPerson(ctx context.Context, name string) error
}
