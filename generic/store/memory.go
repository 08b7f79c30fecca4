// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/warp/pto-tracker/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	entries map[string][]generic.Entry
	people  map[string]bool
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string][]generic.Entry),
		people:  make(map[string]bool),
	}
}

func (m *Memory) AddPerson(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.people[name] = true
	return nil
}

func (m *Memory) ListPeople(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listPeopleLocked(), nil
}

func (m *Memory) ListEntries(_ context.Context, person string) ([]generic.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listEntriesLocked(person), nil
}

func (m *Memory) FindEntriesInRange(_ context.Context, person string, from, to generic.Date) ([]generic.Date, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findInRangeLocked(person, from, to), nil
}

func (m *Memory) InsertEntry(_ context.Context, e generic.Entry) (generic.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertLocked(e), nil
}

func (m *Memory) UpdateEntry(_ context.Context, u generic.Update) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateLocked(u)
}

func (m *Memory) DeleteEntries(_ context.Context, person string, dates []generic.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteLocked(person, dates)
	return nil
}

func (m *Memory) listPeopleLocked() []string {
	seen := make(map[string]bool, len(m.people))
	for p := range m.people {
		seen[p] = true
	}
	for p, entries := range m.entries {
		if len(entries) > 0 {
			seen[p] = true
		}
	}
	people := make([]string, 0, len(seen))
	for p := range seen {
		people = append(people, p)
	}
	sort.Strings(people)
	return people
}

func (m *Memory) listEntriesLocked(person string) []generic.Entry {
	result := make([]generic.Entry, len(m.entries[person]))
	copy(result, m.entries[person])
	generic.SortEntriesDesc(result)
	return result
}

func (m *Memory) findInRangeLocked(person string, from, to generic.Date) []generic.Date {
	var dates []generic.Date
	for _, e := range m.entries[person] {
		if from.BeforeOrEqual(e.Date) && e.Date.BeforeOrEqual(to) {
			dates = append(dates, e.Date)
		}
	}
	return generic.SortDates(dates)
}

func (m *Memory) insertLocked(e generic.Entry) generic.Entry {
	if e.ID == "" {
		e.ID = generic.RowID(uuid.NewString())
	}
	m.entries[e.Person] = append(m.entries[e.Person], e)
	return e
}

func (m *Memory) updateLocked(u generic.Update) error {
	entries := m.entries[u.Person]
	for i, e := range entries {
		if e.Date == u.OldDate && (u.ID == "" || e.ID == u.ID) {
			entries[i].Date = u.NewDate
			entries[i].Kind = u.Kind
			return nil
		}
	}
	return generic.ErrEntryNotFound
}

func (m *Memory) deleteLocked(person string, dates []generic.Date) {
	drop := make(map[generic.Date]bool, len(dates))
	for _, d := range dates {
		drop[d] = true
	}
	kept := m.entries[person][:0]
	for _, e := range m.entries[person] {
		if !drop[e.Date] {
			kept = append(kept, e)
		}
	}
	m.entries[person] = kept
}

// =============================================================================
// TRANSACTIONAL MEMORY STORE
// =============================================================================

// TxMemory wraps Memory with transaction support.
type TxMemory struct {
	*Memory
}

func NewTxMemory() *TxMemory {
	return &TxMemory{Memory: NewMemory()}
}

// WithTx executes fn within a transaction.
// For memory store, this is simulated with a snapshot + rollback on error.
func (tm *TxMemory) WithTx(ctx context.Context, fn func(generic.Store) error) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	snapshot := tm.snapshot()

	if err := fn(&txMemoryView{parent: tm}); err != nil {
		tm.restore(snapshot)
		return err
	}
	return nil
}

func (tm *TxMemory) snapshot() memorySnapshot {
	entriesCopy := make(map[string][]generic.Entry, len(tm.entries))
	for k, v := range tm.entries {
		entriesCopy[k] = append([]generic.Entry{}, v...)
	}
	peopleCopy := make(map[string]bool, len(tm.people))
	for k, v := range tm.people {
		peopleCopy[k] = v
	}
	return memorySnapshot{entries: entriesCopy, people: peopleCopy}
}

func (tm *TxMemory) restore(s memorySnapshot) {
	tm.entries = s.entries
	tm.people = s.people
}

type memorySnapshot struct {
	entries map[string][]generic.Entry
	people  map[string]bool
}

// txMemoryView runs against the parent while WithTx holds its lock.
type txMemoryView struct {
	parent *TxMemory
}

func (tv *txMemoryView) ListPeople(_ context.Context) ([]string, error) {
	return tv.parent.listPeopleLocked(), nil
}

func (tv *txMemoryView) ListEntries(_ context.Context, person string) ([]generic.Entry, error) {
	return tv.parent.listEntriesLocked(person), nil
}

func (tv *txMemoryView) FindEntriesInRange(_ context.Context, person string, from, to generic.Date) ([]generic.Date, error) {
	return tv.parent.findInRangeLocked(person, from, to), nil
}

func (tv *txMemoryView) InsertEntry(_ context.Context, e generic.Entry) (generic.Entry, error) {
	return tv.parent.insertLocked(e), nil
}

func (tv *txMemoryView) UpdateEntry(_ context.Context, u generic.Update) error {
	return tv.parent.updateLocked(u)
}

func (tv *txMemoryView) DeleteEntries(_ context.Context, person string, dates []generic.Date) error {
	tv.parent.deleteLocked(person, dates)
	return nil
}
