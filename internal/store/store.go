// Package store persists JSON snapshots in a bbolt database
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mmcdole/kanal/internal/domain"
	bolt "go.etcd.io/bbolt"
)

const dbFile = "kanal.db"

var bucketSnapshots = []byte("snapshots")

// SnapshotStore implements domain.SnapshotStore using BoltDB.
// Values are kept in memory as encoded JSON so a memory-only store
// behaves the same as a persistent one.
type SnapshotStore struct {
	db *bolt.DB
	mu sync.RWMutex

	cache map[string][]byte
}

var _ domain.SnapshotStore = (*SnapshotStore)(nil)

// Open opens or creates the database in dir. An empty dir gives a
// memory-only store.
func Open(dir string) (*SnapshotStore, error) {
	if dir == "" {
		return &SnapshotStore{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := bolt.Open(filepath.Join(dir, dbFile), 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSnapshots)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SnapshotStore{db: db, cache: make(map[string][]byte)}, nil
}

func (s *SnapshotStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load decodes the value under key into dest. It reports false when the
// key was never saved.
func (s *SnapshotStore) Load(key string, dest any) (bool, error) {
	s.mu.RLock()
	data, ok := s.cache[key]
	s.mu.RUnlock()

	if !ok && s.db != nil {
		err := s.db.View(func(tx *bolt.Tx) error {
			if v := tx.Bucket(bucketSnapshots).Get([]byte(key)); v != nil {
				data = make([]byte, len(v))
				copy(data, v)
			}
			return nil
		})
		if err != nil {
			return false, fmt.Errorf("reading %s: %w", key, err)
		}
		if data != nil {
			s.mu.Lock()
			s.cache[key] = data
			s.mu.Unlock()
		}
	}

	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

// Save encodes value and writes it under key
func (s *SnapshotStore) Save(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSnapshots).Put([]byte(key), data)
	})
}

// Delete removes key; deleting a missing key is not an error
func (s *SnapshotStore) Delete(key string) error {
	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSnapshots).Delete([]byte(key))
	})
}
