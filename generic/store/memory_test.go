package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pto-tracker/generic"
	"github.com/warp/pto-tracker/generic/store"
)

func day(d int) generic.Date { return generic.NewDate(2024, time.January, d) }

func TestMemory_InsertAssignsIDAndListsNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	first, err := m.InsertEntry(ctx, generic.Entry{Person: "Jordan Lee", Date: day(2), Kind: generic.KindFullDay})
	require.NoError(t, err)
	_, err = m.InsertEntry(ctx, generic.Entry{Person: "Jordan Lee", Date: day(4), Kind: generic.KindHalfDay})
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)

	entries, err := m.ListEntries(ctx, "Jordan Lee")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, day(4), entries[0].Date)
	assert.Equal(t, first.ID, entries[1].ID)

	dates, err := m.FindEntriesInRange(ctx, "Jordan Lee", day(3), day(10))
	require.NoError(t, err)
	assert.Equal(t, []generic.Date{day(4)}, dates)
}

func TestMemory_UpdateMatchesDateAndID(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	e, _ := m.InsertEntry(ctx, generic.Entry{Person: "Jordan Lee", Date: day(2), Kind: generic.KindFullDay})

	err := m.UpdateEntry(ctx, generic.Update{ID: "other", Person: "Jordan Lee", OldDate: day(2), NewDate: day(3), Kind: generic.KindFullDay})
	assert.ErrorIs(t, err, generic.ErrEntryNotFound)

	require.NoError(t, m.UpdateEntry(ctx, generic.Update{ID: e.ID, Person: "Jordan Lee", OldDate: day(2), NewDate: day(3), Kind: generic.KindHalfDay}))
	entries, _ := m.ListEntries(ctx, "Jordan Lee")
	assert.Equal(t, []generic.Entry{{ID: e.ID, Person: "Jordan Lee", Date: day(3), Kind: generic.KindHalfDay}}, entries)
}

func TestMemory_PeopleIncludeRegisteredAndBooked(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	require.NoError(t, m.AddPerson(ctx, "Taylor Brooks"))
	_, _ = m.InsertEntry(ctx, generic.Entry{Person: "Alex Morgan", Date: day(2), Kind: generic.KindFullDay})

	people, err := m.ListPeople(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alex Morgan", "Taylor Brooks"}, people)
}

func TestTxMemory_RollbackOnError(t *testing.T) {
	// GIVEN: One stored entry
	// WHEN: A transaction deletes it, inserts another, then fails
	// THEN: The store is exactly as before

	ctx := context.Background()
	tm := store.NewTxMemory()
	kept, _ := tm.InsertEntry(ctx, generic.Entry{Person: "Jordan Lee", Date: day(2), Kind: generic.KindFullDay})

	boom := errors.New("boom")
	err := tm.WithTx(ctx, func(tx generic.Store) error {
		require.NoError(t, tx.DeleteEntries(ctx, "Jordan Lee", []generic.Date{day(2)}))
		_, err := tx.InsertEntry(ctx, generic.Entry{Person: "Jordan Lee", Date: day(3), Kind: generic.KindFullDay})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	entries, _ := tm.ListEntries(ctx, "Jordan Lee")
	assert.Equal(t, []generic.Entry{kept}, entries)
}

func TestTxMemory_CommitOnSuccess(t *testing.T) {
	ctx := context.Background()
	tm := store.NewTxMemory()

	err := tm.WithTx(ctx, func(tx generic.Store) error {
		_, err := tx.InsertEntry(ctx, generic.Entry{Person: "Jordan Lee", Date: day(3), Kind: generic.KindFullDay})
		if err != nil {
			return err
		}
		dates, err := tx.FindEntriesInRange(ctx, "Jordan Lee", day(1), day(31))
		assert.Equal(t, []generic.Date{day(3)}, dates)
		return err
	})
	require.NoError(t, err)

	entries, _ := tm.ListEntries(ctx, "Jordan Lee")
	assert.Len(t, entries, 1)
}
