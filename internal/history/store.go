package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/unkn0wn-root/odatacomplete/internal/customer"
	"github.com/unkn0wn-root/odatacomplete/internal/errdef"
)

const schema = `
CREATE TABLE IF NOT EXISTS selections (
	id          TEXT PRIMARY KEY,
	selected_at INTEGER NOT NULL,
	source      TEXT NOT NULL DEFAULT '',
	query       TEXT NOT NULL DEFAULT '',
	customer_id TEXT NOT NULL DEFAULT '',
	customer    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS selections_selected_at ON selections(selected_at);
`

// Entry is one customer picked from the suggestion list.
type Entry struct {
	ID         string
	SelectedAt time.Time
	Source     string
	Query      string
	Customer   customer.Customer
}

type Store struct {
	path       string
	maxEntries int
	mu         sync.Mutex
	db         *sql.DB
}

// NewStore creates a SQLite backed selection history bounded to maxEntries.
func NewStore(path string, maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = 200
	}
	return &Store{path: path, maxEntries: maxEntries}
}

// Open creates the database file and schema if needed. Calling Open on an
// already open store is a no-op.
func (s *Store) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return nil
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errdef.Wrap(errdef.CodeFilesystem, err, "create history dir")
		}
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return errdef.Wrap(errdef.CodeHistory, err, "open history")
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 2000"); err != nil {
		db.Close()
		return errdef.Wrap(errdef.CodeHistory, err, "configure history")
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return errdef.Wrap(errdef.CodeHistory, err, "create history schema")
	}
	s.db = db
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return errdef.Wrap(errdef.CodeHistory, err, "close history")
}

func (s *Store) conn() (*sql.DB, error) {
	if s.db == nil {
		return nil, errdef.New(errdef.CodeHistory, "history store is not open")
	}
	return s.db, nil
}

// Append records entry, filling in the id and timestamp when missing, and
// prunes the oldest rows beyond the entry limit.
func (s *Store) Append(ctx context.Context, entry Entry) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	db, err := s.conn()
	if err != nil {
		return Entry{}, err
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.SelectedAt.IsZero() {
		entry.SelectedAt = time.Now()
	}
	payload, err := json.Marshal(entry.Customer)
	if err != nil {
		return Entry{}, errdef.Wrap(errdef.CodeHistory, err, "encode customer")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Entry{}, errdef.Wrap(errdef.CodeHistory, err, "begin append")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO selections (id, selected_at, source, query, customer_id, customer) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.SelectedAt.UnixNano(), entry.Source, entry.Query,
		strings.TrimSpace(entry.Customer.CustomerID), string(payload))
	if err != nil {
		return Entry{}, errdef.Wrap(errdef.CodeHistory, err, "insert selection")
	}
	_, err = tx.ExecContext(ctx,
		`DELETE FROM selections WHERE id NOT IN (
			SELECT id FROM selections ORDER BY selected_at DESC, rowid DESC LIMIT ?)`,
		s.maxEntries)
	if err != nil {
		return Entry{}, errdef.Wrap(errdef.CodeHistory, err, "prune history")
	}
	if err := tx.Commit(); err != nil {
		return Entry{}, errdef.Wrap(errdef.CodeHistory, err, "commit append")
	}
	return entry, nil
}

const (
	entriesSQL = `SELECT id, selected_at, source, query, customer FROM selections
		ORDER BY selected_at DESC, rowid DESC`

	// recentSQL keeps the newest row per customer; rows without a customer id
	// stand alone.
	recentSQL = `SELECT id, selected_at, source, query, customer FROM (
		SELECT id, selected_at, source, query, customer, rowid AS rid,
			ROW_NUMBER() OVER (
				PARTITION BY CASE WHEN customer_id = '' THEN '#' || id ELSE customer_id END
				ORDER BY selected_at DESC, rowid DESC
			) AS rn
		FROM selections
	) WHERE rn = 1
	ORDER BY selected_at DESC, rid DESC
	LIMIT ?`
)

// Entries returns every stored selection, newest first.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	return s.query(ctx, entriesSQL)
}

// Recent returns up to limit selections, newest first, keeping only the most
// recent pick of each customer.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, nil
	}
	return s.query(ctx, recentSQL, limit)
}

func (s *Store) query(ctx context.Context, stmt string, args ...any) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errdef.Wrap(errdef.CodeHistory, err, "query history")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			nanos   int64
			payload string
		)
		if err := rows.Scan(&e.ID, &nanos, &e.Source, &e.Query, &payload); err != nil {
			return nil, errdef.Wrap(errdef.CodeHistory, err, "scan history row")
		}
		if err := json.Unmarshal([]byte(payload), &e.Customer); err != nil {
			return nil, errdef.Wrap(errdef.CodeHistory, err, "decode customer %s", e.ID)
		}
		e.SelectedAt = time.Unix(0, nanos)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errdef.Wrap(errdef.CodeHistory, err, "iterate history")
	}
	return entries, nil
}

// Delete removes an entry by id together with every other pick of the same
// customer, so the customer drops out of Recent. Entries without a customer id
// are removed alone. It reports whether any row was removed.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	db, err := s.conn()
	if err != nil {
		return false, err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM selections WHERE id = ?1 OR (
			customer_id <> '' AND
			customer_id = (SELECT customer_id FROM selections WHERE id = ?1))`, id)
	if err != nil {
		return false, errdef.Wrap(errdef.CodeHistory, err, "delete selection")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errdef.Wrap(errdef.CodeHistory, err, "delete selection")
	}
	return n > 0, nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	db, err := s.conn()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM selections`); err != nil {
		return errdef.Wrap(errdef.CodeHistory, err, "clear history")
	}
	return nil
}

// PruneBefore drops selections made before cutoff and returns how many went.
func (s *Store) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM selections WHERE selected_at < ?`, cutoff.UnixNano())
	if err != nil {
		return 0, errdef.Wrap(errdef.CodeHistory, err, "prune history")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errdef.Wrap(errdef.CodeHistory, err, "prune history")
	}
	return n, nil
}
