package repository

import (
	"context"
	"sync"
)

// memoryStore is an in-process BlobStore double for repository tests.
type memoryStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{blobs: map[string][]byte{}}
}

func (s *memoryStore) Load(_ context.Context, namespace string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.blobs[namespace]
	return payload, ok, nil
}

func (s *memoryStore) Save(_ context.Context, namespace string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[namespace] = payload
	return nil
}

func (s *memoryStore) Delete(_ context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, namespace)
	return nil
}

func (s *memoryStore) Close() error { return nil }
