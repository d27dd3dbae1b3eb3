package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/outbreaklab/epidemic-core/pkg/models"
)

// MemoryStore keeps run archives in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]models.StoredRun
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]models.StoredRun)}
}

func (s *MemoryStore) Init(_ context.Context) error { return nil }

func (s *MemoryStore) SaveRun(_ context.Context, run models.StoredRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (models.StoredRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return models.StoredRun{}, ErrRunNotFound
	}
	return run, nil
}

func (s *MemoryStore) ListRuns(_ context.Context, limit int) ([]models.StoredRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]models.StoredRun, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].CreatedAtUnixMs != runs[j].CreatedAtUnixMs {
			return runs[i].CreatedAtUnixMs > runs[j].CreatedAtUnixMs
		}
		return runs[i].ID > runs[j].ID
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}
