package runrecord

import (
	"context"
	"sort"
	"sync"
)

// MemStore is an in-memory Store for tests and dry runs.
type MemStore struct {
	mu          sync.RWMutex
	runs        map[string]Run
	resolutions map[string][]Resolution
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{
		runs:        map[string]Run{},
		resolutions: map[string][]Resolution{},
	}
}

func (s *MemStore) SaveRun(_ context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = *run
	return nil
}

func (s *MemStore) AppendResolution(_ context.Context, res *Resolution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolutions[res.RunID] = append(s.resolutions[res.RunID], *res)
	return nil
}

func (s *MemStore) Run(_ context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &run, nil
}

func (s *MemStore) ListRuns(_ context.Context, graphID string) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Run
	for _, run := range s.runs {
		if graphID == "" || run.GraphID == graphID {
			out = append(out, run)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemStore) Resolutions(_ context.Context, runID string) ([]Resolution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Resolution, len(s.resolutions[runID]))
	copy(out, s.resolutions[runID])
	return out, nil
}

func (s *MemStore) Close() error { return nil }
