package builder

import (
	"strings"

	"compass/internal/graph"
)

// classifyRule maps lexical cues in step text to a node type. Rules are
// evaluated in order; the first match wins. Unmatched steps fall through to
// NodeCustom and are flagged for review rather than dropped.
type classifyRule struct {
	name    string
	typ     graph.NodeType
	phrases []string
}

// classifyRules is ordered most-specific-first. The assert-url rule runs
// before assert-text because "URL should contain" would otherwise match the
// broader "should contain" cue.
var classifyRules = []classifyRule{
	{name: "navigate", typ: graph.NodeNavigate, phrases: []string{
		"navigate", "go to", "goes to", "am on", "is on", "open the", "opens the", "visit",
	}},
	{name: "assert-url", typ: graph.NodeAssertURL, phrases: []string{
		"url should", "url contains", "url is",
	}},
	{name: "input", typ: graph.NodeInput, phrases: []string{
		"enter", "fill", "type in", "types in", "input",
	}},
	{name: "click", typ: graph.NodeClick, phrases: []string{
		"click", "press", "submit the", "submits the", "tap",
	}},
	{name: "assert-text", typ: graph.NodeAssertText, phrases: []string{
		"should see", "should contain", "should read", "see the text", "sees the text",
	}},
	{name: "wait", typ: graph.NodeWait, phrases: []string{
		"wait", "waits",
	}},
}

// classify returns the node type for a step text, or NodeCustom when no
// rule matches.
func classify(text string) graph.NodeType {
	lower := strings.ToLower(text)
	for _, rule := range classifyRules {
		for _, p := range rule.phrases {
			if strings.Contains(lower, p) {
				return rule.typ
			}
		}
	}
	return graph.NodeCustom
}
