package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/Revicx/russian-anki/internal/errors"
	"github.com/Revicx/russian-anki/internal/vocab"
)

// currentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const currentSchemaVersion = 1

// SQLiteStore is the transactional store backend.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenSQLite opens (and if needed creates) a vocabulary database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, errors.NewStoreIO(err)
		}
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.NewStoreIO(err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, errors.NewStoreIO(err)
	}

	return &SQLiteStore{db: db}, nil
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	// Migration 0 -> 1: initial schema
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS vocab (
		  word        TEXT PRIMARY KEY,
		  translation TEXT,
		  context     TEXT,
		  first_seen  INTEGER NOT NULL,
		  source      TEXT
		);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d;", currentSchemaVersion)); err != nil {
			return fmt.Errorf("set user_version: %w", err)
		}
	}

	// Future migrations go here:
	// if version < 2 { ... }

	return nil
}

// Contains reports whether word is already recorded.
func (s *SQLiteStore) Contains(word string) (bool, error) {
	var one int
	err := s.db.QueryRow("SELECT 1 FROM vocab WHERE word = ?", word).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.NewStoreIO(err)
	}
	return true, nil
}

// InsertIfAbsent records rec unless its word already exists. The check and
// insert are atomic at the database level (INSERT OR IGNORE on the primary
// key), so a word can never be recorded twice.
func (s *SQLiteStore) InsertIfAbsent(rec vocab.Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec(
		"INSERT OR IGNORE INTO vocab (word, translation, context, first_seen, source) VALUES (?, ?, ?, ?, ?)",
		rec.Word, nullable(rec.Translation), nullable(rec.Context), rec.FirstSeen, nullable(rec.Source),
	)
	if err != nil {
		return false, errors.NewStoreIO(err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewStoreIO(err)
	}
	return n > 0, nil
}

// Get returns the record for word.
func (s *SQLiteStore) Get(word string) (*vocab.Record, error) {
	row := s.db.QueryRow(
		"SELECT word, translation, context, first_seen, source FROM vocab WHERE word = ?", word)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(word)
	}
	if err != nil {
		return nil, errors.NewStoreIO(err)
	}
	return rec, nil
}

// All returns every record ordered by word.
func (s *SQLiteStore) All() ([]vocab.Record, error) {
	rows, err := s.db.Query(
		"SELECT word, translation, context, first_seen, source FROM vocab ORDER BY word")
	if err != nil {
		return nil, errors.NewStoreIO(err)
	}
	defer rows.Close()

	var records []vocab.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, errors.NewStoreIO(err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreIO(err)
	}
	return records, nil
}

// Count returns the number of stored records.
func (s *SQLiteStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM vocab").Scan(&n); err != nil {
		return 0, errors.NewStoreIO(err)
	}
	return n, nil
}

// SetTranslation fills in the translation of an existing record. A non-empty
// context replaces the stored context snippet.
func (s *SQLiteStore) SetTranslation(word, translation, context string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result sql.Result
	var err error
	if context != "" {
		result, err = s.db.Exec(
			"UPDATE vocab SET translation = ?, context = ? WHERE word = ?", translation, context, word)
	} else {
		result, err = s.db.Exec("UPDATE vocab SET translation = ? WHERE word = ?", translation, word)
	}
	if err != nil {
		return errors.NewStoreIO(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return errors.NewStoreIO(err)
	}
	if n == 0 {
		return errors.NewNotFound(word)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable) (*vocab.Record, error) {
	var rec vocab.Record
	var translation, context, source sql.NullString
	if err := row.Scan(&rec.Word, &translation, &context, &rec.FirstSeen, &source); err != nil {
		return nil, err
	}
	rec.Translation = translation.String
	rec.Context = context.String
	rec.Source = source.String
	return &rec, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
