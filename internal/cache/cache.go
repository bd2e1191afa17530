// Package cache persists two things next to the scan root: the incremental
// per-file match cache, and the last aggregate report for the results viewer.
package cache

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/loghound/loghound/internal/types"
)

const dbFileName = ".loghoundcache.json"

// Entry stores the outcome of one file's scan so an unchanged file can replay
// its matches instead of being re-classified. Key covers the file content; the
// DB fingerprint covers the pattern set.
type Entry struct {
	Key     string        `json:"key"`
	Matches []types.Match `json:"matches,omitempty"`
}

// DB is the on-disk cache. Entries are keyed by path relative to the root.
// A fingerprint mismatch (pattern rules changed) invalidates everything.
type DB struct {
	Fingerprint string           `json:"fingerprint"`
	Entries     map[string]Entry `json:"entries"`
}

// Load reads the cache for root, dropping all entries if the stored
// fingerprint does not match the current pattern set.
func Load(root, fingerprint string) (DB, error) {
	empty := DB{Fingerprint: fingerprint, Entries: map[string]Entry{}}
	b, err := os.ReadFile(filepath.Join(root, dbFileName))
	if err != nil {
		return empty, err
	}
	var db DB
	if err := json.Unmarshal(b, &db); err != nil {
		return empty, err
	}
	if db.Fingerprint != fingerprint || db.Entries == nil {
		return empty, nil
	}
	return db, nil
}

// Save writes the cache for root.
func Save(root string, db DB) error {
	if db.Entries == nil {
		return errors.New("empty cache")
	}
	b, _ := json.MarshalIndent(db, "", "  ")
	return os.WriteFile(filepath.Join(root, dbFileName), b, 0644)
}

// Key derives the change-detection key for a file by streaming its content
// through xxhash. Content-addressed: a rewrite that preserves size and mtime
// still changes the key.
func Key(r io.Reader) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	sum := h.Sum64()
	const hex = "0123456789abcdef"
	var out [16]byte
	for i := 15; i >= 0; i-- {
		out[i] = hex[sum&0xF]
		sum >>= 4
	}
	return string(out[:]), nil
}
