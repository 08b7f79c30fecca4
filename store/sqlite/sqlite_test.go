package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pto-tracker/generic"
	"github.com/warp/pto-tracker/store/sqlite"
	"github.com/warp/pto-tracker/timeoff"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func day(d int) generic.Date { return generic.NewDate(2024, time.January, d) }

func insert(t *testing.T, s *sqlite.Store, person string, d generic.Date, kind generic.Kind) generic.Entry {
	t.Helper()
	e, err := s.InsertEntry(context.Background(), generic.Entry{Person: person, Date: d, Kind: kind})
	require.NoError(t, err)
	return e
}

func TestStore_InsertAndList(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	a := insert(t, s, "Jordan Lee", day(2), generic.KindFullDay)
	b := insert(t, s, "Jordan Lee", day(10), generic.KindHalfDay)
	insert(t, s, "Casey Rivera", day(3), generic.KindFullDay)

	entries, err := s.ListEntries(ctx, "Jordan Lee")
	require.NoError(t, err)
	assert.Equal(t, []generic.Entry{b, a}, entries, "newest first, kinds read back from labels")

	none, err := s.ListEntries(ctx, "Nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_FindEntriesInRange(t *testing.T) {
	s := newStore(t)
	insert(t, s, "Jordan Lee", day(12), generic.KindFullDay)
	insert(t, s, "Jordan Lee", day(10), generic.KindFullDay)
	insert(t, s, "Jordan Lee", day(22), generic.KindFullDay)
	insert(t, s, "Casey Rivera", day(11), generic.KindFullDay)

	dates, err := s.FindEntriesInRange(context.Background(), "Jordan Lee", day(8), day(12))
	require.NoError(t, err)
	assert.Equal(t, []generic.Date{day(10), day(12)}, dates)
}

func TestStore_UpdateEntry(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	e := insert(t, s, "Jordan Lee", day(2), generic.KindFullDay)

	err := s.UpdateEntry(ctx, generic.Update{ID: e.ID, Person: "Jordan Lee", OldDate: day(2), NewDate: day(3), Kind: generic.KindHalfDay})
	require.NoError(t, err)

	entries, _ := s.ListEntries(ctx, "Jordan Lee")
	assert.Equal(t, []generic.Entry{{ID: e.ID, Person: "Jordan Lee", Date: day(3), Kind: generic.KindHalfDay}}, entries)

	err = s.UpdateEntry(ctx, generic.Update{Person: "Jordan Lee", OldDate: day(2), NewDate: day(4), Kind: generic.KindFullDay})
	assert.ErrorIs(t, err, generic.ErrEntryNotFound)
}

func TestStore_DeleteEntriesBatch(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	insert(t, s, "Jordan Lee", day(2), generic.KindFullDay)
	insert(t, s, "Jordan Lee", day(3), generic.KindFullDay)
	keep := insert(t, s, "Jordan Lee", day(4), generic.KindFullDay)
	other := insert(t, s, "Casey Rivera", day(2), generic.KindFullDay)

	require.NoError(t, s.DeleteEntries(ctx, "Jordan Lee", []generic.Date{day(2), day(3)}))
	require.NoError(t, s.DeleteEntries(ctx, "Jordan Lee", nil))

	entries, _ := s.ListEntries(ctx, "Jordan Lee")
	assert.Equal(t, []generic.Entry{keep}, entries)
	others, _ := s.ListEntries(ctx, "Casey Rivera")
	assert.Equal(t, []generic.Entry{other}, others)
}

func TestStore_WithTxRollsBack(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	kept := insert(t, s, "Jordan Lee", day(2), generic.KindFullDay)

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx generic.Store) error {
		if err := tx.DeleteEntries(ctx, "Jordan Lee", []generic.Date{day(2)}); err != nil {
			return err
		}
		if _, err := tx.InsertEntry(ctx, generic.Entry{Person: "Jordan Lee", Date: day(3), Kind: generic.KindFullDay}); err != nil {
			return err
		}
		inTx, err := tx.ListEntries(ctx, "Jordan Lee")
		require.NoError(t, err)
		assert.Len(t, inTx, 1)
		assert.Equal(t, day(3), inTx[0].Date)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	entries, _ := s.ListEntries(ctx, "Jordan Lee")
	assert.Equal(t, []generic.Entry{kept}, entries)
}

func TestStore_PeopleAndReset(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.AddPerson(ctx, "Taylor Brooks"))
	require.NoError(t, s.AddPerson(ctx, "Taylor Brooks"))
	insert(t, s, "Alex Morgan", day(2), generic.KindFullDay)

	people, err := s.ListPeople(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alex Morgan", "Taylor Brooks"}, people)

	require.NoError(t, s.Reset(ctx))
	people, err = s.ListPeople(ctx)
	require.NoError(t, err)
	assert.Empty(t, people)
}

// =============================================================================
// SERVICES OVER SQLITE
// =============================================================================

func TestServices_SubmitThenEdit(t *testing.T) {
	// GIVEN: A week submitted through the Submitter
	// WHEN: The table is edited (one row removed, one moved, one added) and saved
	// THEN: The stored rows match the edited table and row ids survive the move

	s := newStore(t)
	ctx := context.Background()
	locks := &timeoff.PersonLocks{}

	_, err := timeoff.NewSubmitter(s, locks).Submit(ctx, timeoff.SubmitRequest{
		Person: "Riley Chen", Start: day(8), End: day(12), Kind: generic.KindFullDay,
	})
	require.NoError(t, err)

	entries, err := s.ListEntries(ctx, "Riley Chen")
	require.NoError(t, err)
	require.Len(t, entries, 5)
	original := generic.EntrySet{Person: "Riley Chen", Entries: entries}

	// entries are Jan 12, 11, 10, 9, 8
	moved := entries[0]
	edited := []generic.EditedRow{
		{Origin: moved.ID, Date: day(15), Kind: generic.KindHalfDay},
		{Origin: entries[1].ID, Date: day(11), Kind: generic.KindFullDay},
		{Origin: entries[2].ID, Date: day(10), Kind: generic.KindFullDay},
		{Origin: entries[3].ID, Date: day(9), Kind: generic.KindFullDay},
		{Date: day(16), Kind: generic.KindHalfDay},
	}

	result, err := timeoff.NewReconciler(s, timeoff.DefaultPolicy(), locks).Save(ctx, original, edited)
	require.NoError(t, err)
	assert.Equal(t, []generic.Date{day(8)}, result.Plan.Deletes)
	assert.Len(t, result.Plan.Updates, 1)
	assert.Len(t, result.Plan.Inserts, 1)

	stored, err := s.ListEntries(ctx, "Riley Chen")
	require.NoError(t, err)
	assert.Equal(t, result.Entries.Entries, stored)
	assert.Equal(t, day(16), stored[0].Date)
	assert.Equal(t, moved.ID, stored[1].ID)
	assert.Equal(t, day(15), stored[1].Date)
	assert.Equal(t, generic.KindHalfDay, stored[1].Kind)
}

func TestServices_SwapDatesWithoutUniqueViolation(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a := insert(t, s, "Riley Chen", day(2), generic.KindFullDay)
	b := insert(t, s, "Riley Chen", day(3), generic.KindHalfDay)
	original := generic.EntrySet{Person: "Riley Chen", Entries: []generic.Entry{b, a}}

	result, err := timeoff.NewReconciler(s, timeoff.DefaultPolicy(), nil).Save(ctx, original, []generic.EditedRow{
		{Origin: a.ID, Date: day(3), Kind: generic.KindFullDay},
		{Origin: b.ID, Date: day(2), Kind: generic.KindHalfDay},
	})
	require.NoError(t, err)
	require.Len(t, result.Entries.Entries, 2)
	assert.Equal(t, a.ID, result.Entries.Entries[0].ID)
	assert.Equal(t, b.ID, result.Entries.Entries[1].ID)
}

func TestServices_AbortRollsBackOnSQLite(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	a := insert(t, s, "Riley Chen", day(2), generic.KindFullDay)
	original := generic.EntrySet{Person: "Riley Chen", Entries: []generic.Entry{a}}
	insert(t, s, "Riley Chen", day(9), generic.KindFullDay)

	policy := timeoff.Policy{Weekend: timeoff.WeekendReject, Conflict: timeoff.ConflictAbort}
	_, err := timeoff.NewReconciler(s, policy, nil).Save(ctx, original, []generic.EditedRow{
		{Date: day(3), Kind: generic.KindFullDay},
		{Date: day(9), Kind: generic.KindFullDay},
	})
	assert.ErrorIs(t, err, generic.ErrDuplicateDate)

	// The Jan 2 delete and the Jan 3 insert were rolled back.
	entries, _ := s.ListEntries(ctx, "Riley Chen")
	require.Len(t, entries, 2)
	assert.Equal(t, day(9), entries[0].Date)
	assert.Equal(t, a, entries[1])
}
