package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var rootsBucket = []byte("consensus-roots")

var _ RootStore = &BoltRootStore{}

// BoltRootStore persists roots in a single bbolt bucket.
type BoltRootStore struct {
	db *bolt.DB
}

// NewBoltRootStore opens or creates the database at path.
func NewBoltRootStore(path string) (*BoltRootStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open root store %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(rootsBucket)
		return err
	})
	if err != nil {
		//nolint:errcheck
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &BoltRootStore{db: db}, nil
}

func (s *BoltRootStore) Put(clientID string, height uint64, root []byte) error {
	if err := validate(clientID, root); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(rootsBucket).Put(rootKey(clientID, height), root)
	})
}

func (s *BoltRootStore) Get(clientID string, height uint64) ([]byte, error) {
	var root []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(rootsBucket).Get(rootKey(clientID, height))
		if v == nil {
			return fmt.Errorf("%w: client %s at height %d", ErrRootNotFound, clientID, height)
		}
		// v is only valid for the life of the transaction
		root = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return root, nil
}

func (s *BoltRootStore) Delete(clientID string, height uint64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(rootsBucket).Delete(rootKey(clientID, height))
	})
}

func (s *BoltRootStore) Heights(clientID string) ([]uint64, error) {
	prefix := clientPrefix(clientID)
	var heights []uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(rootsBucket).Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			if len(k) != len(prefix)+8 {
				continue
			}
			heights = append(heights, binary.BigEndian.Uint64(k[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return heights, nil
}

func (s *BoltRootStore) Close() error {
	return s.db.Close()
}
