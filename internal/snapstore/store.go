package snapstore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/edopica/expect-test/internal/canon"
)

// DefaultLockTimeout bounds how long Load and Flush wait for another
// process to release the store before failing with *LockTimeoutError.
const DefaultLockTimeout = 5 * time.Second

// FileSuffix is appended to a module name to form its store file name.
const FileSuffix = ".snapshots.json"

// Record is one accepted snapshot baseline.
type Record struct {
	Key        string
	Value      canon.Value
	Hash       string
	Timestamp  time.Time
	FilePath   string
	LineNumber int
}

// Store is the in-memory working copy of one module's snapshot file.
// At most one working copy per store should exist per process; all
// mutations go through it and persistence is a single atomic flush of the
// whole copy. Store is not safe for concurrent use; the evaluation engine
// is single-threaded.
type Store struct {
	path        string
	lockTimeout time.Duration
	records     map[string]Record
	dirty       bool
}

// Options configures store loading.
type Options struct {
	// LockTimeout overrides DefaultLockTimeout when positive.
	LockTimeout time.Duration
}

// Path returns the store file location for a module within dir.
func Path(dir, module string) string {
	return filepath.Join(dir, module+FileSuffix)
}

// Load reads the persisted store for module under dir. A missing file
// yields an empty store; an unparsable file fails with *CorruptError and
// is left untouched on disk.
func Load(dir, module string, opts Options) (*Store, error) {
	timeout := opts.LockTimeout
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	s := &Store{
		path:        Path(dir, module),
		lockTimeout: timeout,
		records:     make(map[string]Record),
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory %s: %w", dir, err)
	}

	lock, err := acquireLock(s.path, timeout)
	if err != nil {
		return nil, err
	}
	defer lock.release()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read snapshot store %s: %w", s.path, err)
	}

	records, err := unmarshalRecords(data)
	if err != nil {
		return nil, &CorruptError{Path: s.path, Err: err}
	}
	s.records = records
	return s, nil
}

// Path returns the store's file location.
func (s *Store) Path() string { return s.path }

// Len returns the number of records in the working copy.
func (s *Store) Len() int { return len(s.records) }

// Dirty reports whether the working copy has unflushed mutations.
func (s *Store) Dirty() bool { return s.dirty }

// Keys returns all record keys in sorted order.
func (s *Store) Keys() []string {
	m := make(canon.Map, len(s.records))
	for k := range s.records {
		m[k] = canon.Null{}
	}
	return m.SortedKeys()
}

// Lookup returns the record for key, if present.
func (s *Store) Lookup(key string) (Record, bool) {
	rec, ok := s.records[key]
	return rec, ok
}

// Put inserts or overwrites the record for key with a fresh timestamp and
// a recomputed digest. Only the working copy changes; call Flush to
// persist.
func (s *Store) Put(key string, value canon.Value, filePath string, line int, now time.Time) Record {
	rec := Record{
		Key:        key,
		Value:      value,
		Hash:       canon.Digest(value),
		Timestamp:  now.UTC(),
		FilePath:   filePath,
		LineNumber: line,
	}
	s.records[key] = rec
	s.dirty = true
	return rec
}

// Delete removes the record for key from the working copy, reporting
// whether it existed.
func (s *Store) Delete(key string) bool {
	if _, ok := s.records[key]; !ok {
		return false
	}
	delete(s.records, key)
	s.dirty = true
	return true
}

// Flush persists the full working copy: serialize key-sorted, write to a
// temp file, and atomically rename over the target. The store's exclusive
// lock is held for the duration, so concurrent flushers serialize rather
// than race.
func (s *Store) Flush() error {
	data, err := marshalRecords(s.records)
	if err != nil {
		return err
	}

	lock, err := acquireLock(s.path, s.lockTimeout)
	if err != nil {
		return err
	}
	defer lock.release()

	if err := atomicWriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("flush snapshot store %s: %w", s.path, err)
	}
	s.dirty = false
	return nil
}
