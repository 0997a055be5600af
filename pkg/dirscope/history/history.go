// Package history keeps summaries of completed scans in a Badger store:
// when a scan ran, where, and what it found. Only summaries persist; the
// directory cache itself lives and dies with the process.
package history

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// keyPrefix namespaces scan records inside the store.
const keyPrefix = "scan" + "\x00"

// Record summarizes one completed scan.
type Record struct {
	// ID uniquely identifies the record. Assigned on append when empty.
	ID string

	// Root is the absolute path that was scanned.
	Root string

	// TotalSize is the aggregate size of the scanned tree in bytes.
	TotalSize int64

	// Files and Dirs count the entries the scan visited.
	Files int64
	Dirs  int64

	// Elapsed is how long the walk and aggregation took.
	Elapsed time.Duration

	// StartedAt is when the scan began.
	StartedAt time.Time
}

// encode serializes the record with gob.
func (r *Record) encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decode deserializes a record from gob bytes.
func (r *Record) decode(data []byte) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(r)
}

// Store wraps Badger for scan history.
type Store struct {
	db *badger.DB
}

// Open opens or creates a history store at the given path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Badger's own logging is noise here.

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening history store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append stores a record, assigning an ID when the record has none.
// Returns the stored record.
func (s *Store) Append(rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now()
	}

	value, err := rec.encode()
	if err != nil {
		return Record{}, fmt.Errorf("encoding scan record: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(makeKey(rec.StartedAt, rec.ID), value)
	})
	if err != nil {
		return Record{}, fmt.Errorf("storing scan record: %w", err)
	}
	return rec, nil
}

// List returns up to limit records, newest first. A limit of zero or less
// returns everything.
func (s *Store) List(limit int) ([]Record, error) {
	var records []Record

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(keyPrefix)
		// Reverse iteration starts past the last prefixed key.
		seek := append(append([]byte{}, prefix...), 0xff)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(records) >= limit {
				break
			}
			var rec Record
			if err := it.Item().Value(rec.decode); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing scan records: %w", err)
	}
	return records, nil
}

// Prune deletes records older than the cutoff and reports how many were
// removed.
func (s *Store) Prune(olderThan time.Time) (int, error) {
	var removed int

	err := s.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(keyPrefix)
		cutoff := makeKey(olderThan, "")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			if bytes.Compare(key, cutoff) >= 0 {
				break
			}
			if err := txn.Delete(key); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("pruning scan records: %w", err)
	}
	return removed, nil
}

// makeKey orders records by start time; the ID disambiguates scans that
// begin in the same nanosecond.
func makeKey(at time.Time, id string) []byte {
	return []byte(fmt.Sprintf("%s%020d|%s", keyPrefix, at.UnixNano(), id))
}
