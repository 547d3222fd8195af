// Package graphstore persists action graphs in a content-addressed store.
// Records are keyed by graph id (the structural hash), so identical content
// maps to exactly one record and re-saving is a no-op. Records are
// immutable: a changed spec compiles to a new graph under a new key.
package graphstore

import (
	"context"
	"errors"
	"fmt"

	"compass/internal/graph"
)

// ErrNotFound is returned by Load for an unknown graph id.
var ErrNotFound = errors.New("graphstore: graph not found")

// CollisionError reports two different graphs claiming the same id. This
// indicates a hashing defect and is fatal: the store never overwrites.
type CollisionError struct {
	ID string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("graphstore: id collision mismatch for %s: stored record has different content", e.ID)
}

// Store is the persistence facade. Save returns the record's location
// (implementation-defined: a file path, a key). All writes are
// atomic-replace-or-noop; a crash never leaves a partial record visible.
type Store interface {
	Save(ctx context.Context, g *graph.ActionGraph) (location string, err error)
	Load(ctx context.Context, id string) (*graph.ActionGraph, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]string, error)
}

// verifyIdentity recomputes the structural id of a stored record and
// checks it against the key it was stored under.
func verifyIdentity(id string, g *graph.ActionGraph) error {
	computed, err := graph.ComputeID(g)
	if err != nil {
		return fmt.Errorf("graphstore: recompute id: %w", err)
	}
	if computed != id {
		return &CollisionError{ID: id}
	}
	return nil
}
