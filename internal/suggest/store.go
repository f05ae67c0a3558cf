package suggest

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Schema for the learned dictionary. A word pairs the romanized spelling
// with its Devanagari rendering; frequency counts confirmations.
const storeSchema = `
CREATE TABLE IF NOT EXISTS words (
    roman       TEXT NOT NULL,
    devanagari  TEXT NOT NULL,
    frequency   INTEGER NOT NULL DEFAULT 1,
    updated_at  INTEGER NOT NULL,
    PRIMARY KEY (roman, devanagari)
);

CREATE INDEX IF NOT EXISTS idx_words_roman ON words(roman);
`

// queryLimit bounds a prefix lookup; the composition layer applies its
// own candidate cap on top.
const queryLimit = 32

// ErrStoreClosed is returned when the store is used before Init or
// after Destroy.
var ErrStoreClosed = errors.New("dictionary store not open")

// Store is the local SQLite-backed suggestion backend: a learned
// dictionary that ranks candidates by confirmation frequency. It serves
// standalone installations without a suggestion daemon, and the
// terminal simulator.
type Store struct {
	mu   sync.Mutex
	path string
	db   *sql.DB
}

// NewStore creates a Store over the database file at path. The file is
// not opened until Init.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Init implements Backend: opens or creates the database and applies
// the schema.
func (s *Store) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create dictionary directory: %w", err)
	}

	db, err := sql.Open("sqlite3", s.path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("open dictionary: %w", err)
	}

	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return fmt.Errorf("apply dictionary schema: %w", err)
	}

	s.db = db
	return nil
}

// Destroy implements Backend by closing the database.
func (s *Store) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// GetSuggestions implements Backend: all learned words whose romanized
// spelling starts with prefix, most frequently confirmed first.
func (s *Store) GetSuggestions(prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, ErrStoreClosed
	}

	// Half-open range over the roman column; avoids LIKE escaping for
	// prefixes containing % or _.
	rows, err := s.db.Query(`
		SELECT devanagari
		FROM words
		WHERE roman >= ? AND roman < ?
		GROUP BY devanagari
		ORDER BY MAX(frequency) DESC, devanagari ASC
		LIMIT ?`,
		prefix, prefix+"\uffff", queryLimit)
	if err != nil {
		return nil, fmt.Errorf("prefix query: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var word string
		if err := rows.Scan(&word); err != nil {
			return nil, err
		}
		out = append(out, word)
	}
	return out, rows.Err()
}

// ConfirmWord implements Backend: learns the (original, chosen) pair,
// bumping its frequency when already known.
func (s *Store) ConfirmWord(original, chosen string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return ErrStoreClosed
	}
	if original == "" || chosen == "" {
		return nil
	}

	_, err := s.db.Exec(`
		INSERT INTO words (roman, devanagari, frequency, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT (roman, devanagari)
		DO UPDATE SET frequency = frequency + 1, updated_at = excluded.updated_at`,
		original, chosen, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("confirm word: %w", err)
	}
	return nil
}

// WordCount returns the number of learned (roman, devanagari) pairs.
func (s *Store) WordCount() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return 0, ErrStoreClosed
	}

	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM words`).Scan(&n)
	return n, err
}
