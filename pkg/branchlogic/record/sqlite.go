package record

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/randalmurphal/branchlogic/pkg/branchlogic/resolve"
)

// SQLiteStore persists field values to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// Compile-time interface check.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite field-value store.
// The path should be a file path (e.g., "./records.db") or ":memory:"
// for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS field_values (
			record_id TEXT NOT NULL,
			event TEXT NOT NULL DEFAULT '',
			field TEXT NOT NULL,
			check_option TEXT NOT NULL DEFAULT '',
			value TEXT NOT NULL,
			PRIMARY KEY (record_id, event, field, check_option)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_field_values_record
		ON field_values(record_id)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(recordID, event, field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err := s.db.Exec(`
		INSERT INTO field_values (record_id, event, field, check_option, value)
		VALUES (?, ?, ?, '', ?)
		ON CONFLICT(record_id, event, field, check_option) DO UPDATE SET
			value = excluded.value
	`, recordID, event, field, value)

	if err != nil {
		return fmt.Errorf("save field value: %w", err)
	}
	return nil
}

// SaveCheckbox implements Store. Selected state is stored as "1"/"0".
func (s *SQLiteStore) SaveCheckbox(recordID, event, field, option string, selected bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	value := "0"
	if selected {
		value = "1"
	}
	_, err := s.db.Exec(`
		INSERT INTO field_values (record_id, event, field, check_option, value)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(record_id, event, field, check_option) DO UPDATE SET
			value = excluded.value
	`, recordID, event, field, option, value)

	if err != nil {
		return fmt.Errorf("save checkbox value: %w", err)
	}
	return nil
}

// Record implements Store.
func (s *SQLiteStore) Record(recordID string) resolve.Provider {
	return &recordView{store: s, recordID: recordID}
}

// DeleteRecord implements Store.
func (s *SQLiteStore) DeleteRecord(recordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	_, err := s.db.Exec(`
		DELETE FROM field_values WHERE record_id = ?
	`, recordID)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}

// lookup resolves one field reference for a record. Checkbox lookups
// on a field the record has rows for return false when the option row
// is absent (never selected); a field with no rows at all is NotFound.
func (s *SQLiteStore) lookup(recordID, name, event, checkOption string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	if checkOption != "" {
		var value string
		err := s.db.QueryRow(`
			SELECT value FROM field_values
			WHERE record_id = ? AND event = ? AND field = ? AND check_option = ?
		`, recordID, event, name, checkOption).Scan(&value)

		if err == sql.ErrNoRows {
			var n int
			err := s.db.QueryRow(`
				SELECT COUNT(*) FROM field_values
				WHERE record_id = ? AND event = ? AND field = ?
			`, recordID, event, name).Scan(&n)
			if err != nil {
				return nil, fmt.Errorf("lookup checkbox field: %w", err)
			}
			if n == 0 {
				return nil, resolve.ErrNotFound
			}
			return false, nil
		}
		if err != nil {
			return nil, fmt.Errorf("lookup checkbox value: %w", err)
		}
		return value == "1", nil
	}

	var value string
	err := s.db.QueryRow(`
		SELECT value FROM field_values
		WHERE record_id = ? AND event = ? AND field = ? AND check_option = ''
	`, recordID, event, name).Scan(&value)

	if err == sql.ErrNoRows {
		return nil, resolve.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup field value: %w", err)
	}
	return value, nil
}

// recordView is the per-record provider handed out by Record.
type recordView struct {
	store    *SQLiteStore
	recordID string
}

// Lookup implements resolve.Provider.
func (r *recordView) Lookup(name, event, checkOption string) (any, error) {
	return r.store.lookup(r.recordID, name, event, checkOption)
}
