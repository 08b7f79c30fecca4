package timeoff_test

import (
	"context"
	"errors"
	"time"

	"github.com/warp/pto-tracker/generic"
	"github.com/warp/pto-tracker/generic/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func day(year int, month time.Month, d int) generic.Date {
	return generic.NewDate(year, month, d)
}

// recordingStore counts writes that reach the store, including writes made
// inside WithTx, and can fail a chosen operation.
type recordingStore struct {
	*store.TxMemory

	inserts int
	updates int
	deletes int

	failOn string // "insert", "update", "delete", "list"
	failAt int    // fail on the Nth call of failOn (1-based)
	calls  int
}

var errGatewayDown = errors.New("connection lost")

func newRecordingStore() *recordingStore {
	return &recordingStore{TxMemory: store.NewTxMemory()}
}

func (r *recordingStore) Writes() int { return r.inserts + r.updates + r.deletes }

func (r *recordingStore) reset() { r.inserts, r.updates, r.deletes, r.calls = 0, 0, 0, 0 }

func (r *recordingStore) fail(op string) error {
	if r.failOn != op {
		return nil
	}
	r.calls++
	if r.failAt == 0 || r.calls == r.failAt {
		return errGatewayDown
	}
	return nil
}

func (r *recordingStore) WithTx(ctx context.Context, fn func(generic.Store) error) error {
	return r.TxMemory.WithTx(ctx, func(tx generic.Store) error {
		return fn(&recordingTx{Store: tx, parent: r})
	})
}

func (r *recordingStore) ListEntries(ctx context.Context, person string) ([]generic.Entry, error) {
	if err := r.fail("list"); err != nil {
		return nil, err
	}
	return r.TxMemory.ListEntries(ctx, person)
}

type recordingTx struct {
	generic.Store
	parent *recordingStore
}

func (t *recordingTx) InsertEntry(ctx context.Context, e generic.Entry) (generic.Entry, error) {
	if err := t.parent.fail("insert"); err != nil {
		return e, err
	}
	t.parent.inserts++
	return t.Store.InsertEntry(ctx, e)
}

func (t *recordingTx) UpdateEntry(ctx context.Context, u generic.Update) error {
	if err := t.parent.fail("update"); err != nil {
		return err
	}
	t.parent.updates++
	return t.Store.UpdateEntry(ctx, u)
}

func (t *recordingTx) DeleteEntries(ctx context.Context, person string, dates []generic.Date) error {
	if err := t.parent.fail("delete"); err != nil {
		return err
	}
	t.parent.deletes++
	return t.Store.DeleteEntries(ctx, person, dates)
}

// seed stores entries directly, bypassing the services and the counters.
func seed(s *recordingStore, person string, entries ...generic.Entry) []generic.Entry {
	ctx := context.Background()
	var stored []generic.Entry
	for _, e := range entries {
		e.Person = person
		saved, err := s.TxMemory.InsertEntry(ctx, e)
		if err != nil {
			panic(err)
		}
		stored = append(stored, saved)
	}
	return stored
}

func snapshot(s *recordingStore, person string) generic.EntrySet {
	entries, err := s.TxMemory.ListEntries(context.Background(), person)
	if err != nil {
		panic(err)
	}
	return generic.EntrySet{Person: person, Entries: entries}
}

func datesOf(entries []generic.Entry) []generic.Date {
	dates := make([]generic.Date, len(entries))
	for i, e := range entries {
		dates[i] = e.Date
	}
	return generic.SortDates(dates)
}

func findByDate(set generic.EntrySet, d generic.Date) (generic.Entry, bool) {
	for _, e := range set.Entries {
		if e.Date == d {
			return e, true
		}
	}
	return generic.Entry{}, false
}
