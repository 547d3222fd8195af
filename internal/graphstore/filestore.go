package graphstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"compass/internal/graph"
)

// FileStore keeps one JSON record per graph id in a directory. The id is
// the filename, so lookup is a stat. Writes go through a temp file plus
// rename: concurrent savers of the same id either see the finished record
// (and no-op) or replace it with identical bytes, never a partial write.
type FileStore struct {
	Dir string
}

// NewFileStore creates a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("graphstore: create store dir: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.Dir, id+".json")
}

// Save persists the graph under its id. If a record already exists it is
// verified against the new graph's identity and left untouched: the stored
// bytes stay stable across recompiles, and the first writer wins. A stored
// record with different structural content under the same id is a fatal
// CollisionError.
func (s *FileStore) Save(_ context.Context, g *graph.ActionGraph) (string, error) {
	if err := verifyIdentity(g.ID, g); err != nil {
		return "", err
	}

	path := s.path(g.ID)
	if existing, err := s.read(path); err == nil {
		if err := verifyIdentity(g.ID, existing); err != nil {
			return "", err
		}
		return path, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("graphstore: probe %s: %w", g.ID, err)
	}

	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return "", fmt.Errorf("graphstore: marshal %s: %w", g.ID, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.Dir, "."+g.ID+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("graphstore: temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("graphstore: write %s: %w", g.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("graphstore: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("graphstore: publish %s: %w", g.ID, err)
	}
	return path, nil
}

// Load reads the record for id and verifies round-trip identity.
func (s *FileStore) Load(_ context.Context, id string) (*graph.ActionGraph, error) {
	g, err := s.read(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if err := verifyIdentity(id, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *FileStore) Exists(_ context.Context, id string) (bool, error) {
	_, err := os.Stat(s.path(id))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("graphstore: stat %s: %w", id, err)
}

func (s *FileStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("graphstore: list: %w", err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

func (s *FileStore) read(path string) (*graph.ActionGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var g graph.ActionGraph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("graphstore: unmarshal %s: %w", filepath.Base(path), err)
	}
	return &g, nil
}

var _ Store = (*FileStore)(nil)
