// Package graph defines the canonical compiled representation of a
// behavioral specification: an ordered sequence of action nodes linked by
// edges, identified by a content hash of its structure.
package graph

import (
	"fmt"
	"time"
)

// NodeType classifies what a node does when executed.
type NodeType string

const (
	NodeNavigate   NodeType = "navigate"
	NodeInput      NodeType = "input"
	NodeClick      NodeType = "click"
	NodeAssertText NodeType = "assert-text"
	NodeAssertURL  NodeType = "assert-url"
	NodeWait       NodeType = "wait"
	NodeCustom     NodeType = "custom"
)

// EdgeType distinguishes plain sequencing from fallback routing.
type EdgeType string

const (
	EdgeSequential EdgeType = "sequential"
	EdgeFallback   EdgeType = "conditional-fallback"
)

// Authorship records whether a graph came from a human-authored spec or was
// machine-generated.
type Authorship string

const (
	AuthorHuman   Authorship = "human"
	AuthorMachine Authorship = "machine"
)

// StepRef is the back-reference to the source spec step. Traceability only;
// execution never consults it.
type StepRef struct {
	Keyword string `json:"keyword"`
	Text    string `json:"text"`
}

// SelectorRef is the hint bundle the resolver consumes at run time in place
// of a fixed selector.
type SelectorRef struct {
	TextHint       string `json:"text_hint,omitempty"`
	RoleHint       string `json:"role_hint,omitempty"`
	TypeHint       string `json:"type_hint,omitempty"`
	StructuralHint string `json:"structural_hint,omitempty"`
}

// Instructions describes the action a node performs. When Deterministic is
// true every operand is a compile-time literal and no runtime resolution is
// needed; otherwise Target names what must be resolved at execution time.
type Instructions struct {
	Deterministic bool   `json:"deterministic"`
	Value         string `json:"value,omitempty"`    // fill value or expected text
	URL           string `json:"url,omitempty"`      // navigate target or expected URL
	Selector      string `json:"selector,omitempty"` // literal selector fixed at compile time
	Target        string `json:"target,omitempty"`   // symbolic target (e.g. page name) for runtime resolution
	WaitMS        int    `json:"wait_ms,omitempty"`
}

// ActionNode is one atomic step of a compiled graph.
type ActionNode struct {
	ID           string       `json:"id"`
	Type         NodeType     `json:"type"`
	Step         StepRef      `json:"step"`
	Selector     *SelectorRef `json:"selector,omitempty"`
	Instructions Instructions `json:"instructions"`

	// NeedsReview flags custom nodes the builder could not classify.
	NeedsReview bool `json:"needs_review,omitempty"`
}

// Edge links two nodes. From and To are node IDs within the same graph.
type Edge struct {
	ID   string   `json:"id"`
	From string   `json:"from"`
	To   string   `json:"to"`
	Type EdgeType `json:"type"`
}

// Metadata carries provenance. Excluded from the structural identity.
type Metadata struct {
	CreatedAt  time.Time  `json:"created_at"`
	Authorship Authorship `json:"authorship"`
	Version    string     `json:"version,omitempty"`
}

// ActionGraph is the unit of compiled, persisted behavior. Node order is
// execution order. Graphs are immutable once built: a changed spec compiles
// to a new graph with a new ID.
type ActionGraph struct {
	ID       string       `json:"id"`
	SpecHash string       `json:"spec_hash"`
	Nodes    []ActionNode `json:"nodes"`
	Edges    []Edge       `json:"edges"`
	Metadata Metadata     `json:"metadata"`
}

// NodeByID returns the node with the given id, if present.
func (g *ActionGraph) NodeByID(id string) (*ActionNode, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// Validate checks the structural invariants:
//   - every edge references existing node ids
//   - exactly one root (a node with no incoming edge)
//   - every node is reachable from the root (no orphans)
//   - sequential edges form no cycle
//   - input and click nodes carry a selector ref unless their instructions
//     are fully deterministic
func (g *ActionGraph) Validate() error {
	if len(g.Nodes) == 0 {
		return fmt.Errorf("graph %s: %w", g.ID, ErrNoNodes)
	}

	index := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		if _, dup := index[n.ID]; dup {
			return fmt.Errorf("graph %s: duplicate node id %q", g.ID, n.ID)
		}
		index[n.ID] = i
	}

	indegree := make(map[string]int, len(g.Nodes))
	adj := make(map[string][]string, len(g.Nodes))
	for _, e := range g.Edges {
		if _, ok := index[e.From]; !ok {
			return fmt.Errorf("edge %s references source %q: %w", e.ID, e.From, ErrNodeNotFound)
		}
		if _, ok := index[e.To]; !ok {
			return fmt.Errorf("edge %s references target %q: %w", e.ID, e.To, ErrNodeNotFound)
		}
		adj[e.From] = append(adj[e.From], e.To)
		indegree[e.To]++
	}

	var roots []string
	for _, n := range g.Nodes {
		if indegree[n.ID] == 0 {
			roots = append(roots, n.ID)
		}
	}
	if len(roots) != 1 {
		return fmt.Errorf("graph %s has %d roots, want exactly 1: %w", g.ID, len(roots), ErrNotSequence)
	}

	// Reachability from the single root.
	seen := make(map[string]bool, len(g.Nodes))
	stack := []string{roots[0]}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		stack = append(stack, adj[cur]...)
	}
	for _, n := range g.Nodes {
		if !seen[n.ID] {
			return fmt.Errorf("graph %s: node %q unreachable from root: %w", g.ID, n.ID, ErrNotSequence)
		}
	}

	if err := g.checkSequentialAcyclic(index); err != nil {
		return err
	}

	for _, n := range g.Nodes {
		if (n.Type == NodeInput || n.Type == NodeClick) && n.Selector == nil && !n.Instructions.Deterministic {
			return fmt.Errorf("graph %s: node %q (%s) has neither selector ref nor deterministic instructions", g.ID, n.ID, n.Type)
		}
	}
	return nil
}

// checkSequentialAcyclic runs a three-color DFS over sequential edges only.
func (g *ActionGraph) checkSequentialAcyclic(index map[string]int) error {
	seq := make(map[string][]string)
	for _, e := range g.Edges {
		if e.Type == EdgeSequential {
			seq[e.From] = append(seq[e.From], e.To)
		}
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(index))

	var visit func(id string) error
	visit = func(id string) error {
		color[id] = gray
		for _, next := range seq[id] {
			switch color[next] {
			case gray:
				return fmt.Errorf("graph %s: sequential cycle through %q: %w", g.ID, next, ErrCycle)
			case white:
				if err := visit(next); err != nil {
					return err
				}
			}
		}
		color[id] = black
		return nil
	}

	for id := range index {
		if color[id] == white {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}
