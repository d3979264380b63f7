package store

import (
	"context"
	"sync"

	"github.com/matzehuels/porenet/pkg/errors"
	"github.com/matzehuels/porenet/pkg/pipeline"
)

// DefaultCapacity is the number of runs a MemoryStore keeps.
const DefaultCapacity = 1000

// MemoryStore keeps runs in memory, evicting the oldest once full.
// It is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	capacity int
	runs     map[string]*pipeline.Result
	order    []string // insertion order, oldest first
}

// NewMemoryStore creates a store holding at most capacity runs. A
// capacity below 1 means DefaultCapacity.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &MemoryStore{
		capacity: capacity,
		runs:     make(map[string]*pipeline.Result),
	}
}

func (s *MemoryStore) Save(_ context.Context, res *pipeline.Result) error {
	if res == nil || res.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "run has no ID")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[res.ID]; ok {
		s.remove(res.ID)
	}
	s.runs[res.ID] = res
	s.order = append(s.order, res.ID)
	for len(s.order) > s.capacity {
		delete(s.runs, s.order[0])
		s.order = s.order[1:]
	}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*pipeline.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.runs[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeRunNotFound, "run %s not found", id)
	}
	return res, nil
}

func (s *MemoryStore) List(_ context.Context, limit int) ([]pipeline.Summary, error) {
	limit = ClampLimit(limit)
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]pipeline.Summary, 0, min(limit, len(s.order)))
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.runs[s.order[i]].Summary())
	}
	return out, nil
}

// Len returns the number of stored runs.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) remove(id string) {
	delete(s.runs, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
