package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// nodeIdentity is the identity-bearing projection of a node: type, hint
// bundle, instructions. Node ids and step back-references are excluded so
// that rewording a spec without changing its compiled structure does not
// change the graph id.
type nodeIdentity struct {
	Type         NodeType     `json:"type"`
	Selector     *SelectorRef `json:"selector,omitempty"`
	Instructions Instructions `json:"instructions"`
}

// edgeIdentity references nodes by position rather than id, for the same
// reason node ids are excluded above.
type edgeIdentity struct {
	From int      `json:"from"`
	To   int      `json:"to"`
	Type EdgeType `json:"type"`
}

type graphIdentity struct {
	Nodes []nodeIdentity `json:"nodes"`
	Edges []edgeIdentity `json:"edges"`
}

// ComputeID returns the structural content hash of the graph: a hex SHA-256
// over the ordered (type, hints, instructions) tuples of all nodes plus the
// positional edge structure. Metadata and spec wording do not participate,
// so semantically identical graphs collide to the same id.
func ComputeID(g *ActionGraph) (string, error) {
	pos := make(map[string]int, len(g.Nodes))
	ident := graphIdentity{Nodes: make([]nodeIdentity, 0, len(g.Nodes))}
	for i, n := range g.Nodes {
		pos[n.ID] = i
		ident.Nodes = append(ident.Nodes, nodeIdentity{
			Type:         n.Type,
			Selector:     n.Selector,
			Instructions: n.Instructions,
		})
	}
	for _, e := range g.Edges {
		from, ok := pos[e.From]
		if !ok {
			return "", fmt.Errorf("compute id: edge %s references source %q: %w", e.ID, e.From, ErrNodeNotFound)
		}
		to, ok := pos[e.To]
		if !ok {
			return "", fmt.Errorf("compute id: edge %s references target %q: %w", e.ID, e.To, ErrNodeNotFound)
		}
		ident.Edges = append(ident.Edges, edgeIdentity{From: from, To: to, Type: e.Type})
	}
	// Edge order is not identity-bearing; canonicalize.
	sort.Slice(ident.Edges, func(i, j int) bool {
		if ident.Edges[i].From != ident.Edges[j].From {
			return ident.Edges[i].From < ident.Edges[j].From
		}
		return ident.Edges[i].To < ident.Edges[j].To
	})

	data, err := json.Marshal(ident)
	if err != nil {
		return "", fmt.Errorf("compute id: marshal identity: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
