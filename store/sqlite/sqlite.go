/*
Package sqlite provides a SQLite-backed implementation of the PTO gateway.

PURPOSE:
  Implements generic.Store, generic.TxStore and generic.PeopleRegistry over
  one PTO table plus a roster of people. In production, the same SQL runs
  against any relational store with minor dialect changes.

KEY TABLES:
  rep_leave_pto: One row per person per day off
    id                 opaque row id (uuid), stable across edits
    name               person
    hours_worked_text  "Full Day" | "Half Day"
    hours_worked       decimal text, "0" | "0.5"
    date               YYYY-MM-DD
  people: Known sales reps (so the selector lists reps with no PTO yet)

UNIQUENESS:
  There is deliberately no unique index on (name, date). The services check
  for conflicts inside WithTx; a unique index would also reject a date swap
  between two rows, which is applied as two sequential updates.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety and a single connection, so an
  in-memory database is shared by every query.

USAGE:
  store, err := sqlite.New("./pto.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - generic/store.go: Interface definitions
  - generic/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/pto-tracker/generic"
)

// Compile-time interface checks
var (
	_ generic.TxStore        = (*Store)(nil)
	_ generic.PeopleRegistry = (*Store)(nil)
)

// Store implements the PTO gateway using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rep_leave_pto (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		hours_worked_text TEXT NOT NULL,
		hours_worked TEXT NOT NULL,
		date TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Hot path: listing and range checks per person
	CREATE INDEX IF NOT EXISTS idx_rep_leave_pto_name_date
		ON rep_leave_pto(name, date DESC);

	CREATE TABLE IF NOT EXISTS people (
		name TEXT PRIMARY KEY,
		created_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PEOPLE
// =============================================================================

// AddPerson registers a person. Adding an existing name is a no-op.
func (s *Store) AddPerson(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO people (name, created_at) VALUES (?, ?) ON CONFLICT(name) DO NOTHING",
		name, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// ListPeople returns registered people and anyone with PTO on file.
func (s *Store) ListPeople(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listPeople(ctx, s.db)
}

func listPeople(ctx context.Context, q querier) ([]string, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT name FROM people
		UNION
		SELECT DISTINCT name FROM rep_leave_pto
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	defer rows.Close()

	var people []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		people = append(people, name)
	}
	return people, rows.Err()
}

// =============================================================================
// ENTRIES (generic.Store interface)
// =============================================================================

func (s *Store) ListEntries(ctx context.Context, person string) ([]generic.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listEntries(ctx, s.db, person)
}

func (s *Store) FindEntriesInRange(ctx context.Context, person string, from, to generic.Date) ([]generic.Date, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findEntriesInRange(ctx, s.db, person, from, to)
}

func (s *Store) InsertEntry(ctx context.Context, e generic.Entry) (generic.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return insertEntry(ctx, s.db, e)
}

func (s *Store) UpdateEntry(ctx context.Context, u generic.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateEntry(ctx, s.db, u)
}

func (s *Store) DeleteEntries(ctx context.Context, person string, dates []generic.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteEntries(ctx, s.db, person, dates)
}

func listEntries(ctx context.Context, q querier, person string) ([]generic.Entry, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, hours_worked_text, date
		FROM rep_leave_pto
		WHERE name = ?
		ORDER BY date DESC
	`, person)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []generic.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanEntry(rows *sql.Rows) (generic.Entry, error) {
	var (
		e     generic.Entry
		label string
		date  string
	)
	if err := rows.Scan(&e.ID, &e.Person, &label, &date); err != nil {
		return e, fmt.Errorf("failed to scan entry: %w", err)
	}
	kind, err := generic.ParseKind(label)
	if err != nil {
		return e, fmt.Errorf("entry %s: %w", e.ID, err)
	}
	d, err := generic.ParseDate(date)
	if err != nil {
		return e, fmt.Errorf("entry %s: %w", e.ID, err)
	}
	e.Kind = kind
	e.Date = d
	return e, nil
}

func findEntriesInRange(ctx context.Context, q querier, person string, from, to generic.Date) ([]generic.Date, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT date FROM rep_leave_pto
		WHERE name = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`, person, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query range: %w", err)
	}
	defer rows.Close()

	var dates []generic.Date
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		d, err := generic.ParseDate(raw)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func insertEntry(ctx context.Context, q querier, e generic.Entry) (generic.Entry, error) {
	if e.ID == "" {
		e.ID = generic.RowID(uuid.NewString())
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := q.ExecContext(ctx, `
		INSERT INTO rep_leave_pto (id, name, hours_worked_text, hours_worked, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Person, e.Kind.Label(), hoursText(e.Kind.HoursWorked()), e.Date.String(), now, now)
	if err != nil {
		return e, fmt.Errorf("failed to insert entry: %w", err)
	}
	return e, nil
}

func updateEntry(ctx context.Context, q querier, u generic.Update) error {
	query := `
		UPDATE rep_leave_pto
		SET date = ?, hours_worked_text = ?, hours_worked = ?, updated_at = ?
		WHERE name = ? AND date = ?
	`
	args := []any{
		u.NewDate.String(), u.Kind.Label(), hoursText(u.Kind.HoursWorked()),
		time.Now().UTC().Format(time.RFC3339),
		u.Person, u.OldDate.String(),
	}
	if u.ID != "" {
		query += " AND id = ?"
		args = append(args, u.ID)
	}

	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s on %s: %w", u.Person, u.OldDate, generic.ErrEntryNotFound)
	}
	return nil
}

func deleteEntries(ctx context.Context, q querier, person string, dates []generic.Date) error {
	if len(dates) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(dates)), ",")
	args := make([]any, 0, len(dates)+1)
	args = append(args, person)
	for _, d := range dates {
		args = append(args, d.String())
	}

	_, err := q.ExecContext(ctx,
		"DELETE FROM rep_leave_pto WHERE name = ? AND date IN ("+placeholders+")",
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to delete entries: %w", err)
	}
	return nil
}

// =============================================================================
// TRANSACTIONAL STORE (generic.TxStore interface)
// =============================================================================

// WithTx executes a function within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(store generic.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{tx: sqlTx}); err != nil {
		return err
	}

	return sqlTx.Commit()
}

// txStore runs every statement on the open transaction. The parent lock is
// already held by WithTx.
type txStore struct {
	tx *sql.Tx
}

func (ts *txStore) ListPeople(ctx context.Context) ([]string, error) {
	return listPeople(ctx, ts.tx)
}

func (ts *txStore) ListEntries(ctx context.Context, person string) ([]generic.Entry, error) {
	return listEntries(ctx, ts.tx, person)
}

func (ts *txStore) FindEntriesInRange(ctx context.Context, person string, from, to generic.Date) ([]generic.Date, error) {
	return findEntriesInRange(ctx, ts.tx, person, from, to)
}

func (ts *txStore) InsertEntry(ctx context.Context, e generic.Entry) (generic.Entry, error) {
	return insertEntry(ctx, ts.tx, e)
}

func (ts *txStore) UpdateEntry(ctx context.Context, u generic.Update) error {
	return updateEntry(ctx, ts.tx, u)
}

func (ts *txStore) DeleteEntries(ctx context.Context, person string, dates []generic.Date) error {
	return deleteEntries(ctx, ts.tx, person, dates)
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset removes every entry and person. Dev only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM rep_leave_pto; DELETE FROM people;")
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

func hoursText(d decimal.Decimal) string {
	return d.String()
}
