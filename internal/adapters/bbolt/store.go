// Package bbolt implements the ports.Storage interface using bbolt (embedded
// B+ tree). The reference list lives as one JSON blob; mappings are stored
// one record per reference ID so commits and removals touch a single key.
// Writes are transactional: a crash mid-write cannot corrupt previously
// committed data.
package bbolt

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/drew/refmap/internal/ports"
)

// Bucket keys
var (
	bucketReferences = []byte("references")
	bucketMappings   = []byte("mappings")
	keyList          = []byte("list")
)

// Store implements ports.Storage backed by bbolt.
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

// SaveReferences persists the reference list wholesale, replacing any
// previously stored list.
func (s *Store) SaveReferences(refs []ports.Reference) error {
	data, err := json.Marshal(refs)
	if err != nil {
		return fmt.Errorf("marshal references: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketReferences)
		if err != nil {
			return err
		}
		return b.Put(keyList, data)
	})
}

// LoadReferences retrieves the stored reference list in import order.
// Returns nil, nil if nothing was imported yet.
func (s *Store) LoadReferences() ([]ports.Reference, error) {
	var data []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketReferences)
		if b == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := b.Get(keyList); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if data == nil {
		return nil, nil
	}

	var refs []ports.Reference
	if err := json.Unmarshal(data, &refs); err != nil {
		return nil, fmt.Errorf("unmarshal references: %w", err)
	}
	return refs, nil
}

// SaveMapping commits one mapping, keyed by reference ID. A later save for
// the same reference overwrites the earlier one.
func (s *Store) SaveMapping(m ports.Mapping) error {
	if m.ReferenceID == "" {
		return fmt.Errorf("mapping has empty reference id")
	}
	if m.Path == "" {
		return fmt.Errorf("mapping for %s has empty path", m.ReferenceID)
	}

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketMappings)
		if err != nil {
			return err
		}
		return b.Put([]byte(m.ReferenceID), data)
	})
}

// LoadMappings retrieves all committed mappings. bbolt iterates keys in
// byte order, which gives the reference-ID sort for free.
// Returns nil, nil if no mappings exist.
func (s *Store) LoadMappings() ([]ports.Mapping, error) {
	var mappings []ports.Mapping

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMappings)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var m ports.Mapping
			if err := json.Unmarshal(v, &m); err != nil {
				return fmt.Errorf("unmarshal mapping %q: %w", k, err)
			}
			mappings = append(mappings, m)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return mappings, nil
}

// DeleteMapping removes the mapping for a reference ID.
// Idempotent: deleting a nonexistent mapping is not an error.
func (s *Store) DeleteMapping(referenceID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMappings)
		if b == nil {
			return nil
		}
		return b.Delete([]byte(referenceID))
	})
}

// UsedPaths returns the set of paths claimed by committed mappings.
func (s *Store) UsedPaths() (map[string]bool, error) {
	used := make(map[string]bool)

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMappings)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var m ports.Mapping
			if err := json.Unmarshal(v, &m); err != nil {
				return fmt.Errorf("unmarshal mapping %q: %w", k, err)
			}
			if m.Path != "" {
				used[m.Path] = true
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return used, nil
}

// Wipe removes all references and mappings. Idempotent.
func (s *Store) Wipe() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketReferences, bucketMappings} {
			if err := tx.DeleteBucket(name); err != nil && err != bolt.ErrBucketNotFound {
				return err
			}
		}
		return nil
	})
}
