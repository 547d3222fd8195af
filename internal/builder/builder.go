// Package builder compiles an ordered list of parsed specification steps
// into an action graph. Classification is best-effort: an ordered rule list
// infers each step's intent, and anything unrecognized becomes a custom
// node flagged for human review instead of being guessed at or dropped.
package builder

import (
	"fmt"
	"strings"
	"time"

	"compass/internal/graph"
	"compass/internal/spechash"
)

// ParsedStep is one step as delivered by the feature parser.
type ParsedStep struct {
	Keyword string // Given, When, Then
	Text    string
}

// Build compiles steps into a validated, identity-stamped action graph.
// Node order is step order; one sequential edge links each consecutive
// pair. Repeated identical steps produce repeated nodes. Any malformed step
// aborts the whole build.
func Build(steps []ParsedStep, authorship graph.Authorship) (*graph.ActionGraph, error) {
	if len(steps) == 0 {
		return nil, ErrEmptySpecification
	}

	g := &graph.ActionGraph{
		SpecHash: HashSteps(steps),
		Metadata: graph.Metadata{
			CreatedAt:  time.Now().UTC().Truncate(time.Second),
			Authorship: authorship,
		},
	}

	for i, step := range steps {
		node, err := buildNode(i, step)
		if err != nil {
			return nil, err
		}
		g.Nodes = append(g.Nodes, node)
		if i > 0 {
			g.Edges = append(g.Edges, graph.Edge{
				ID:   fmt.Sprintf("e%d", i),
				From: fmt.Sprintf("n%d", i),
				To:   fmt.Sprintf("n%d", i+1),
				Type: graph.EdgeSequential,
			})
		}
	}

	id, err := graph.ComputeID(g)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	g.ID = id

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	return g, nil
}

// HashSteps derives the spec hash from the steps' keyword+text lines. The
// builder receives pre-parsed steps, so this is the text-identity the
// normalized source reduces to.
func HashSteps(steps []ParsedStep) string {
	var b strings.Builder
	for _, s := range steps {
		b.WriteString(s.Keyword)
		b.WriteByte(' ')
		b.WriteString(s.Text)
		b.WriteByte('\n')
	}
	return spechash.Hash(b.String())
}

func buildNode(index int, step ParsedStep) (graph.ActionNode, error) {
	literals, balanced := quotedLiterals(step.Text)
	if !balanced {
		return graph.ActionNode{}, &MalformedStepError{
			Index:   index,
			Keyword: step.Keyword,
			Text:    step.Text,
			Reason:  "unbalanced quote: value reference cannot be resolved",
		}
	}

	node := graph.ActionNode{
		ID:   fmt.Sprintf("n%d", index+1),
		Type: classify(step.Text),
		Step: graph.StepRef{Keyword: step.Keyword, Text: step.Text},
	}

	switch node.Type {
	case graph.NodeNavigate:
		if u := urlToken(step.Text); u != "" {
			node.Instructions = graph.Instructions{Deterministic: true, URL: u}
		} else {
			node.Instructions = graph.Instructions{Target: pageName(step.Text)}
		}

	case graph.NodeInput:
		subject, value := subjectAndValue(step.Text)
		if value == "" && len(literals) > 0 {
			value = literals[0]
		}
		node.Instructions = graph.Instructions{Value: value}
		node.Selector = selectorHints(subject)
		if node.Selector == nil {
			node.Selector = &graph.SelectorRef{TypeHint: "input"}
		}
		if node.Selector.TextHint == "" {
			node.Selector.TextHint = subjectNoun(subject)
		}

	case graph.NodeClick:
		node.Instructions = graph.Instructions{}
		node.Selector = selectorHints(step.Text)
		if node.Selector == nil {
			node.Selector = &graph.SelectorRef{}
		}
		if node.Selector.TextHint == "" && len(literals) > 0 {
			node.Selector.TextHint = literals[0]
		}
		if node.Selector.TextHint == "" {
			node.Selector.TextHint = subjectNoun(step.Text)
		}

	case graph.NodeAssertText:
		expected := expectedText(step.Text, literals)
		node.Instructions = graph.Instructions{Deterministic: true, Value: expected}

	case graph.NodeAssertURL:
		expected := urlToken(step.Text)
		if expected == "" && len(literals) > 0 {
			expected = literals[0]
		}
		node.Instructions = graph.Instructions{Deterministic: true, URL: expected}

	case graph.NodeWait:
		node.Instructions = graph.Instructions{Deterministic: true, WaitMS: waitMillis(step.Text)}

	default: // NodeCustom
		node.NeedsReview = true
		node.Instructions = graph.Instructions{Target: step.Text}
	}

	return node, nil
}

// expectedText pulls the asserted literal from an assert-text step: a
// quoted literal wins, otherwise everything after the "text"/"see"/
// "contain" cue.
func expectedText(text string, literals []string) string {
	if len(literals) > 0 {
		return literals[0]
	}
	lower := strings.ToLower(text)
	for _, marker := range []string{" text ", " see ", " contain ", " read "} {
		if idx := strings.Index(lower, marker); idx >= 0 {
			return strings.TrimSpace(text[idx+len(marker):])
		}
	}
	return strings.TrimSpace(text)
}
