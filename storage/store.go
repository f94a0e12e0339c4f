package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	ErrRootNotFound    = errors.New("consensus root not found")
	ErrEmptyRoot       = errors.New("consensus root can not be empty")
	ErrEmptyClientID   = errors.New("client id can not be empty")
	ErrInvalidClientID = errors.New("client id can not contain a zero byte")
	ErrUnknownBackend  = errors.New("unknown storage backend")
)

const (
	BackendMemory = "memory"
	BackendBolt   = "bolt"

	// separates the client id from the height in store keys
	keySeparator = 0x00
)

// RootStore keeps the trusted commitment roots of light clients, indexed by
// client id and height.
type RootStore interface {
	Put(clientID string, height uint64, root []byte) error
	Get(clientID string, height uint64) ([]byte, error)
	Delete(clientID string, height uint64) error
	// Heights returns the heights stored for clientID in ascending order.
	Heights(clientID string) ([]uint64, error)
	Close() error
}

// Open returns the store of the given backend. path is ignored for the
// in-memory backend.
func Open(backend, path string) (RootStore, error) {
	switch backend {
	case BackendMemory, "":
		return NewInMemoryRootStore(), nil
	case BackendBolt:
		return NewBoltRootStore(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

var _ RootStore = &InMemoryRootStore{}

type InMemoryRootStore struct {
	mu    sync.RWMutex
	roots map[string][]byte
	// heights per client, only used to list them in order
	heights map[string][]uint64
}

func NewInMemoryRootStore() *InMemoryRootStore {
	return &InMemoryRootStore{
		roots:   make(map[string][]byte),
		heights: make(map[string][]uint64),
	}
}

func (i *InMemoryRootStore) Put(clientID string, height uint64, root []byte) error {
	if err := validate(clientID, root); err != nil {
		return err
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	key := string(rootKey(clientID, height))
	_, present := i.roots[key]
	i.roots[key] = append([]byte(nil), root...)
	if !present {
		hs := append(i.heights[clientID], height)
		sort.Slice(hs, func(a, b int) bool { return hs[a] < hs[b] })
		i.heights[clientID] = hs
	}
	return nil
}

func (i *InMemoryRootStore) Get(clientID string, height uint64) ([]byte, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	root, ok := i.roots[string(rootKey(clientID, height))]
	if !ok {
		return nil, fmt.Errorf("%w: client %s at height %d", ErrRootNotFound, clientID, height)
	}
	return append([]byte(nil), root...), nil
}

func (i *InMemoryRootStore) Delete(clientID string, height uint64) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	key := string(rootKey(clientID, height))
	if _, ok := i.roots[key]; !ok {
		return nil
	}
	delete(i.roots, key)
	hs := i.heights[clientID]
	for j, h := range hs {
		if h == height {
			i.heights[clientID] = append(hs[:j:j], hs[j+1:]...)
			break
		}
	}
	return nil
}

func (i *InMemoryRootStore) Heights(clientID string) ([]uint64, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return append([]uint64(nil), i.heights[clientID]...), nil
}

func (i *InMemoryRootStore) Count() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.roots)
}

func (i *InMemoryRootStore) Close() error {
	return nil
}

func validate(clientID string, root []byte) error {
	if clientID == "" {
		return ErrEmptyClientID
	}
	if strings.IndexByte(clientID, keySeparator) >= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidClientID, clientID)
	}
	if len(root) == 0 {
		return ErrEmptyRoot
	}
	return nil
}

// rootKey is clientID || 0x00 || big endian height, so that the keys of one
// client are contiguous and sorted by height.
func rootKey(clientID string, height uint64) []byte {
	key := make([]byte, len(clientID)+1+8)
	copy(key, clientID)
	key[len(clientID)] = keySeparator
	binary.BigEndian.PutUint64(key[len(clientID)+1:], height)
	return key
}

func clientPrefix(clientID string) []byte {
	return append([]byte(clientID), keySeparator)
}
