// Package feature reads Gherkin-style scenario files into ordered step
// lists for compilation. It understands just enough of the format: Feature
// and Scenario headers, the step keywords, comments, and blank lines.
// Tables, doc strings and scenario outlines are out of scope.
package feature

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"compass/internal/builder"
)

// ErrNoScenario means the file contained no scenario with steps.
var ErrNoScenario = errors.New("feature: no scenario found")

// Scenario is one named ordered step sequence.
type Scenario struct {
	Name  string
	Steps []builder.ParsedStep
}

// Feature is a parsed feature file.
type Feature struct {
	Name      string
	Scenarios []Scenario
}

var stepKeywords = []string{"Given", "When", "Then", "And", "But"}

// Parse reads a feature from r. "And" and "But" inherit the semantic
// keyword of the preceding step.
func Parse(r io.Reader) (*Feature, error) {
	var (
		f       Feature
		current *Scenario
		lastKw  string
		lineNo  int
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if name, ok := strings.CutPrefix(line, "Feature:"); ok {
			f.Name = strings.TrimSpace(name)
			continue
		}
		if name, ok := strings.CutPrefix(line, "Scenario:"); ok {
			f.Scenarios = append(f.Scenarios, Scenario{Name: strings.TrimSpace(name)})
			current = &f.Scenarios[len(f.Scenarios)-1]
			lastKw = ""
			continue
		}
		if strings.HasPrefix(line, "Background:") || strings.HasPrefix(line, "Rule:") {
			continue
		}

		kw, text, ok := splitStep(line)
		if !ok {
			return nil, fmt.Errorf("feature: line %d: not a step: %q", lineNo, line)
		}
		if current == nil {
			// Steps before any Scenario header form an unnamed scenario.
			f.Scenarios = append(f.Scenarios, Scenario{})
			current = &f.Scenarios[len(f.Scenarios)-1]
		}
		if kw == "And" || kw == "But" {
			if lastKw == "" {
				return nil, fmt.Errorf("feature: line %d: %s without a preceding step", lineNo, kw)
			}
			kw = lastKw
		}
		lastKw = kw
		current.Steps = append(current.Steps, builder.ParsedStep{Keyword: kw, Text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("feature: read: %w", err)
	}

	hasSteps := false
	for _, s := range f.Scenarios {
		if len(s.Steps) > 0 {
			hasSteps = true
			break
		}
	}
	if !hasSteps {
		return nil, ErrNoScenario
	}
	return &f, nil
}

// ParseFile parses the feature file at path.
func ParseFile(path string) (*Feature, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("feature: open: %w", err)
	}
	defer file.Close()
	f, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return f, nil
}

func splitStep(line string) (keyword, text string, ok bool) {
	for _, kw := range stepKeywords {
		rest, found := strings.CutPrefix(line, kw+" ")
		if found && strings.TrimSpace(rest) != "" {
			return kw, strings.TrimSpace(rest), true
		}
	}
	return "", "", false
}
