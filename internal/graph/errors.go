package graph

import "errors"

var (
	// ErrNoNodes is returned when a graph has an empty node list.
	ErrNoNodes = errors.New("graph: no nodes")

	// ErrNodeNotFound is returned when an edge references a nonexistent node.
	ErrNodeNotFound = errors.New("graph: node not found")

	// ErrNotSequence is returned when the nodes do not form a single
	// weakly-connected sequence reachable from exactly one root.
	ErrNotSequence = errors.New("graph: nodes do not form a single rooted sequence")

	// ErrCycle is returned when sequential edges form a cycle.
	ErrCycle = errors.New("graph: sequential edge cycle")
)
