package khalon

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Collection names persisted by the engines. Each one becomes a
// "<name>.json" file in the store directory.
const (
	colAccounts  = "accounts"
	colListings  = "stocks"
	colPositions = "positions"
	colXP        = "xp"
)

// Store persists named collections as pretty-printed JSON files in a single
// directory. It exclusively owns the on-disk mirror of each collection for
// the process lifetime: callers load once at startup and save after each
// mutation.
type Store struct {
	dir string
}

// OpenStore opens (creating if needed) a store rooted at dir.
func OpenStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create store directory %q: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory the store persists into.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

// Load reads a collection into v, a pointer to a mapping keyed by record id.
//
// A missing file is not an error: the persistent file is initialized with an
// empty mapping and v is left empty. Unparseable content is reported as
// ErrStoreCorrupt; the caller is expected to fall back to an empty mapping
// and log the data loss rather than crash.
func (s *Store) Load(collection string, v any) error {
	p := s.path(collection)
	content, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return s.Save(collection, v)
	}
	if err != nil {
		return fmt.Errorf("could not read collection %q: %w", collection, err)
	}
	if len(strings.TrimSpace(string(content))) == 0 {
		return nil
	}
	if err := json.Unmarshal(content, v); err != nil {
		return fmt.Errorf("collection %q does not parse (%v): %w", collection, err, ErrStoreCorrupt)
	}
	return nil
}

// Save serializes v and replaces the persisted collection. The write goes to
// a temporary file first and is renamed over the old one, so a crash
// mid-write never leaves a partial collection visible to a later Load.
// I/O failures are reported as ErrStoreWrite with the old file intact.
func (s *Store) Save(collection string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("could not serialize collection %q: %v: %w", collection, err, ErrStoreWrite)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dir, collection+"-*.json.tmp")
	if err != nil {
		return fmt.Errorf("could not create temp file for %q: %v: %w", collection, err, ErrStoreWrite)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("could not write collection %q: %v: %w", collection, err, ErrStoreWrite)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("could not close collection %q: %v: %w", collection, err, ErrStoreWrite)
	}
	if err := os.Rename(tmpName, s.path(collection)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("could not replace collection %q: %v: %w", collection, err, ErrStoreWrite)
	}
	return nil
}
