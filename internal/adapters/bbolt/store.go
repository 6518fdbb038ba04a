// Package bbolt implements ports.CandidateStore using bbolt (embedded B+ tree).
// Each ontology gets its own bucket holding one key per mention text; values
// are binary-encoded match lists. Writes are transactional: a crash mid-write
// cannot corrupt previously committed entries.
package bbolt

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/corey/reel/internal/ports"
)

// Store implements ports.CandidateStore backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

func bucketName(o ports.Ontology) []byte {
	return []byte("matches:" + string(o))
}

// Load returns every cached entry of an ontology. A missing bucket is an
// empty cache. A record that fails to decode fails the whole load.
func (s *Store) Load(o ports.Ontology) (map[string][]ports.RawMatch, error) {
	entries := make(map[string][]ports.RawMatch)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName(o))
		if b == nil {
			return nil
		}
		// Decoding copies bytes out of the transaction (bbolt slices are
		// only valid within tx).
		return b.ForEach(func(k, v []byte) error {
			matches, err := decodeMatches(v)
			if err != nil {
				return fmt.Errorf("decode %q: %w", k, err)
			}
			entries[string(k)] = matches
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Save upserts entries for an ontology in a single transaction.
func (s *Store) Save(o ports.Ontology, entries map[string][]ports.RawMatch) error {
	encoded := make(map[string][]byte, len(entries))
	for k, v := range entries {
		if k == "" {
			continue // bbolt rejects empty keys
		}
		data, err := encodeMatches(v)
		if err != nil {
			return fmt.Errorf("encode %q: %w", k, err)
		}
		encoded[k] = data
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName(o))
		if err != nil {
			return err
		}
		for k, data := range encoded {
			if err := b.Put([]byte(k), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Count returns the number of cached entries of an ontology.
func (s *Store) Count(o ports.Ontology) (int, error) {
	n := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		if b := tx.Bucket(bucketName(o)); b != nil {
			n = b.Stats().KeyN
		}
		return nil
	})
	return n, err
}

// Delete removes every cached entry of an ontology.
// Idempotent: deleting a missing bucket is not an error.
func (s *Store) Delete(o ports.Ontology) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketName(o)); err == bolt.ErrBucketNotFound {
			return nil // idempotent
		} else {
			return err
		}
	})
}
