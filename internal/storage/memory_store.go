package storage

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store used by tests and local runs without a
// database.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string][]byte

	// FailGets and FailPuts make the store return errors, for exercising the
	// degraded read/write paths.
	FailGets bool
	FailPuts bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailGets {
		return nil, false, errStoreUnavailable
	}
	value, ok := s.records[key]
	if !ok {
		return nil, false, nil
	}
	copied := make([]byte, len(value))
	copy(copied, value)
	return copied, true, nil
}

func (s *MemoryStore) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailPuts {
		return errStoreUnavailable
	}
	copied := make([]byte, len(value))
	copy(copied, value)
	s.records[key] = copied
	return nil
}

type storeError string

func (e storeError) Error() string { return string(e) }

const errStoreUnavailable = storeError("store unavailable")
