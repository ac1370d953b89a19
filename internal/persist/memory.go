package persist

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps everything in process memory. It backs tests and
// throwaway servers; restarting loses all saves.
type MemoryStore struct {
	mu    sync.RWMutex
	saves map[string][]byte
	runs  []RunRecord
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{saves: make(map[string][]byte)}
}

func (s *MemoryStore) Save(_ context.Context, deviceID string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(blob))
	copy(cp, blob)
	s.saves[deviceID] = cp
	return nil
}

func (s *MemoryStore) Load(_ context.Context, deviceID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.saves[deviceID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(blob))
	copy(cp, blob)
	return cp, nil
}

func (s *MemoryStore) Delete(_ context.Context, deviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.saves, deviceID)
	return nil
}

func (s *MemoryStore) Append(_ context.Context, rec RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}
	s.runs = append(s.runs, rec)
	return nil
}

func (s *MemoryStore) Recent(_ context.Context, limit int) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.runs) {
		limit = len(s.runs)
	}
	out := make([]RunRecord, 0, limit)
	for i := len(s.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.runs[i])
	}
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
