package suggest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// seedSchema validates lexicon files before import. Import happens on
// the startup path, so a broken file is rejected loudly instead of
// silently seeding garbage into the dictionary.
const seedSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "array",
	"items": {
		"type": "object",
		"required": ["roman", "devanagari"],
		"properties": {
			"roman":      {"type": "string", "minLength": 1},
			"devanagari": {"type": "string", "minLength": 1},
			"frequency":  {"type": "integer", "minimum": 1}
		},
		"additionalProperties": false
	}
}`

// SeedEntry is one lexicon entry in a seed file.
type SeedEntry struct {
	Roman      string `json:"roman"`
	Devanagari string `json:"devanagari"`
	Frequency  int64  `json:"frequency,omitempty"`
}

var compiledSeedSchema = jsonschema.MustCompileString("seed.schema.json", seedSchema)

// ParseSeed validates and decodes a seed lexicon payload.
func ParseSeed(data []byte) ([]SeedEntry, error) {
	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse seed lexicon: %w", err)
	}

	if err := compiledSeedSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid seed lexicon: %w", err)
	}

	var entries []SeedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode seed lexicon: %w", err)
	}
	return entries, nil
}

// ImportSeed loads the seed lexicon file at path into the store and
// returns the number of entries imported. Existing frequencies are kept
// when higher than the seeded value.
func (s *Store) ImportSeed(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed lexicon: %w", err)
	}

	entries, err := ParseSeed(data)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return 0, ErrStoreClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO words (roman, devanagari, frequency, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (roman, devanagari)
		DO UPDATE SET frequency = MAX(frequency, excluded.frequency),
		              updated_at = excluded.updated_at`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	now := time.Now().UnixNano()
	for _, e := range entries {
		freq := e.Frequency
		if freq <= 0 {
			freq = 1
		}
		if _, err := stmt.Exec(e.Roman, e.Devanagari, freq, now); err != nil {
			return 0, fmt.Errorf("seed %q: %w", e.Roman, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(entries), nil
}
