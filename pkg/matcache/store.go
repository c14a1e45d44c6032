package matcache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"
)

// Entry is one cached parse result: the resolved atom list summary and
// scalar values a caller needs without re-parsing and re-building a
// MaterialInfo from scratch.
type Entry struct {
	Version         int              `cbor:"1,keyasint"`
	SourceFullDescr string           `cbor:"2,keyasint"`
	AtomSymbols     []string         `cbor:"3,keyasint"`
	AtomCounts      []int            `cbor:"4,keyasint"`
	Density         float64          `cbor:"5,keyasint"`
	NumberDensity   float64          `cbor:"6,keyasint"`
	Temperature     float64          `cbor:"7,keyasint"`
}

// Store is an on-disk, content-addressed cache of Entry values, keyed by
// the sha256 of a data file's bytes combined with a configuration's cache
// signature.
type Store struct {
	mu  sync.Mutex
	dir string
}

// NewStore returns a Store rooted at dir. The directory is created lazily
// on first Put.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Key derives the cache key for a given data file's contents and a
// configuration's cache signature.
func Key(fileContents []byte, cacheSignature string) string {
	h := sha256.New()
	h.Write(fileContents)
	h.Write([]byte{0})
	h.Write([]byte(cacheSignature))
	return hex.EncodeToString(h.Sum(nil))
}

func (s *Store) pathFor(key string) string {
	return filepath.Join(s.dir, key+".cbor")
}

// Get returns the cached entry for key, or (nil, nil) if absent.
func (s *Store) Get(key string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.pathFor(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	entry := &Entry{}
	if err := unmarshal(data, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Put stores entry under key, creating the cache directory if needed.
func (s *Store) Put(key string, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	data, err := marshal(entry)
	if err != nil {
		return err
	}
	return os.WriteFile(s.pathFor(key), data, 0644)
}

// Clear removes every cached entry under the store's directory.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return os.RemoveAll(s.dir)
}
