// Package resolver maps declarative element hints to a concrete locator in
// a live document. Markup drifts between compile time and run time, so
// generated tests never carry fixed selectors; instead each interaction
// calls Resolve with the node's hint bundle and the resolver picks the best
// currently-valid element through a ranked strategy chain.
//
// Resolution is stateless per call. Nothing is cached between calls, so
// drift is surfaced on the run where it happens instead of being masked by
// a stale locator.
package resolver

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Confidence ranks how directly a strategy identified the element.
type Confidence string

const (
	ConfidenceExact  Confidence = "exact"
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Hints is the declarative clue bundle compiled into the action graph.
type Hints struct {
	Text       string
	Role       string
	Type       string
	Structural string // "nth=N" ordinal or "attr=value" pair
}

func (h Hints) String() string {
	var parts []string
	if h.Text != "" {
		parts = append(parts, "text="+h.Text)
	}
	if h.Role != "" {
		parts = append(parts, "role="+h.Role)
	}
	if h.Type != "" {
		parts = append(parts, "type="+h.Type)
	}
	if h.Structural != "" {
		parts = append(parts, "structural="+h.Structural)
	}
	if len(parts) == 0 {
		return "(none)"
	}
	return strings.Join(parts, " ")
}

// Locator is the opaque element handle handed back to the browser driver
// for the actual interaction.
type Locator struct {
	Selector string `json:"selector"`
}

// Candidate is one element a document query matched. Index is the
// element's document order among its query's results; Attributes carries
// the element attributes the document context chose to expose.
type Candidate struct {
	Locator    Locator
	Index      int
	Attributes map[string]string
}

// DocumentContext is the capability boundary to the browser-automation
// driver. All queries return only visible elements, in document order.
type DocumentContext interface {
	// QuerySelector matches an explicit selector.
	QuerySelector(ctx context.Context, selector string) ([]Candidate, error)
	// QueryRoleText matches elements exposing the accessibility role whose
	// accessible text contains text, case-insensitively.
	QueryRoleText(ctx context.Context, role, text string) ([]Candidate, error)
	// QueryText matches interactive elements by visible text content,
	// preferring the innermost element when ancestors repeat the text.
	QueryText(ctx context.Context, text string) ([]Candidate, error)
	// QueryType matches elements by element type ("input", "button", ...).
	QueryType(ctx context.Context, elemType string) ([]Candidate, error)
}

// Resolution is a successful resolve: the locator, how confidently it was
// found, and which strategy found it.
type Resolution struct {
	Locator    Locator
	Confidence Confidence
	Strategy   string
}

// strategy is one rung of the resolution ladder: a pure function from
// (document, hints) to candidates plus the confidence a unique match
// earns. Strategies are tried in order; the first that yields exactly one
// candidate wins, which also breaks ties deterministically.
type strategy struct {
	name       string
	confidence Confidence
	applicable func(explicit string, h Hints) bool
	run        func(ctx context.Context, doc DocumentContext, explicit string, h Hints) ([]Candidate, error)
}

func chain() []strategy {
	return []strategy{
		{
			name:       "explicit-selector",
			confidence: ConfidenceExact,
			applicable: func(explicit string, _ Hints) bool { return explicit != "" },
			run: func(ctx context.Context, doc DocumentContext, explicit string, _ Hints) ([]Candidate, error) {
				return doc.QuerySelector(ctx, explicit)
			},
		},
		{
			name:       "role-and-text",
			confidence: ConfidenceHigh,
			applicable: func(_ string, h Hints) bool { return h.Role != "" && h.Text != "" },
			run: func(ctx context.Context, doc DocumentContext, _ string, h Hints) ([]Candidate, error) {
				return doc.QueryRoleText(ctx, h.Role, h.Text)
			},
		},
		{
			name:       "text",
			confidence: ConfidenceMedium,
			applicable: func(_ string, h Hints) bool { return h.Text != "" },
			run: func(ctx context.Context, doc DocumentContext, _ string, h Hints) ([]Candidate, error) {
				return doc.QueryText(ctx, h.Text)
			},
		},
		{
			name:       "type-and-structure",
			confidence: ConfidenceLow,
			applicable: func(_ string, h Hints) bool { return h.Type != "" },
			run: func(ctx context.Context, doc DocumentContext, _ string, h Hints) ([]Candidate, error) {
				candidates, err := doc.QueryType(ctx, h.Type)
				if err != nil {
					return nil, err
				}
				return narrowStructural(candidates, h.Structural), nil
			},
		},
	}
}

// Resolve walks the strategy chain until one strategy yields exactly one
// confident candidate. Failure reports every attempted strategy with its
// candidate count so the caller can see whether the element vanished (all
// zeros) or went ambiguous (a count above one).
func Resolve(ctx context.Context, doc DocumentContext, explicit string, hints Hints) (Resolution, error) {
	resErr := &ResolutionError{Explicit: explicit, Hints: hints}

	for _, s := range chain() {
		if !s.applicable(explicit, hints) {
			continue
		}
		candidates, err := s.run(ctx, doc, explicit, hints)
		if err != nil {
			return Resolution{}, fmt.Errorf("resolver: strategy %s: %w", s.name, err)
		}
		resErr.Attempts = append(resErr.Attempts, Attempt{Strategy: s.name, Candidates: len(candidates)})

		if len(candidates) == 1 {
			return Resolution{
				Locator:    candidates[0].Locator,
				Confidence: s.confidence,
				Strategy:   s.name,
			}, nil
		}
		if len(candidates) > 1 {
			resErr.Ambiguous = true
		}
	}

	return Resolution{}, resErr
}

// narrowStructural filters candidates by the structural hint: "nth=N"
// selects by ordinal position, "key=value" by attribute. An empty or
// unparsable hint leaves the set unchanged.
func narrowStructural(candidates []Candidate, structural string) []Candidate {
	key, value, ok := strings.Cut(structural, "=")
	if !ok {
		return candidates
	}
	if key == "nth" {
		n, err := strconv.Atoi(value)
		if err != nil {
			return candidates
		}
		for _, c := range candidates {
			if c.Index == n {
				return []Candidate{c}
			}
		}
		return nil
	}
	var narrowed []Candidate
	for _, c := range candidates {
		if c.Attributes[key] == value {
			narrowed = append(narrowed, c)
		}
	}
	return narrowed
}
