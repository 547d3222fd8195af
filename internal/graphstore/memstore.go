package graphstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"compass/internal/graph"
)

// MemStore is an in-memory Store for tests and embedding. Same semantics
// as FileStore: content-addressed, idempotent, collision-checked.
type MemStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{records: make(map[string][]byte)}
}

func (s *MemStore) Save(_ context.Context, g *graph.ActionGraph) (string, error) {
	if err := verifyIdentity(g.ID, g); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	loc := "mem://" + g.ID
	if data, ok := s.records[g.ID]; ok {
		var existing graph.ActionGraph
		if err := json.Unmarshal(data, &existing); err != nil {
			return "", fmt.Errorf("graphstore: unmarshal stored %s: %w", g.ID, err)
		}
		if err := verifyIdentity(g.ID, &existing); err != nil {
			return "", err
		}
		return loc, nil
	}

	data, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("graphstore: marshal %s: %w", g.ID, err)
	}
	s.records[g.ID] = data
	return loc, nil
}

func (s *MemStore) Load(_ context.Context, id string) (*graph.ActionGraph, error) {
	s.mu.RLock()
	data, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	var g graph.ActionGraph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("graphstore: unmarshal %s: %w", id, err)
	}
	return &g, nil
}

func (s *MemStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[id]
	return ok, nil
}

func (s *MemStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Len reports the number of stored records.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

var _ Store = (*MemStore)(nil)
