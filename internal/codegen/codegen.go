// Package codegen renders executable step-definition source from an action
// graph. Output is byte-deterministic for a given graph and generator
// version, so regenerating from an unchanged graph produces no diff.
//
// Nodes with a hint bundle compile to resolver calls; a literal selector is
// never baked into generated code. Only fully deterministic instructions
// (literal values, fixed URLs) are embedded directly.
package codegen

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"compass/internal/graph"
)

// GeneratorVersion participates in the traceability header. Bump it when
// the emitted shape changes; same graph + same version = same bytes.
const GeneratorVersion = "compass-gen/1"

// DefaultPackage is the package name for generated files unless the caller
// overrides it.
const DefaultPackage = "steps"

const sourceTemplate = `// Code generated by compass. DO NOT EDIT.
//
// spec-hash: {{.SpecHash}}
// graph-id: {{.GraphID}}
// generator: {{.Generator}}

package {{.Package}}

import "compass/pkg/steprt"

// RegisterSteps binds each compiled step to its runtime action.
func RegisterSteps(r steprt.Registry) {
{{- range .Bindings}}
	r.Step({{printf "%q" .StepText}}, func(t *steprt.T) error {
		return {{.Call}}
	})
{{- end}}
}
`

type binding struct {
	StepText string
	Call     string
}

type templateParams struct {
	SpecHash  string
	GraphID   string
	Generator string
	Package   string
	Bindings  []binding
}

// Options configures generation. The zero value is usable.
type Options struct {
	Package string // package name for the emitted file; DefaultPackage if empty
}

// Generate renders the step-definition source for the graph.
func Generate(g *graph.ActionGraph, opts Options) ([]byte, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("codegen: %w", err)
	}

	pkg := opts.Package
	if pkg == "" {
		pkg = DefaultPackage
	}

	params := templateParams{
		SpecHash:  g.SpecHash,
		GraphID:   g.ID,
		Generator: GeneratorVersion,
		Package:   pkg,
		Bindings:  make([]binding, 0, len(g.Nodes)),
	}
	for i := range g.Nodes {
		call, err := nodeCall(&g.Nodes[i])
		if err != nil {
			return nil, err
		}
		params.Bindings = append(params.Bindings, binding{
			StepText: g.Nodes[i].Step.Text,
			Call:     call,
		})
	}

	tmpl, err := template.New("steps").Parse(sourceTemplate)
	if err != nil {
		return nil, fmt.Errorf("codegen: parse template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params); err != nil {
		return nil, fmt.Errorf("codegen: execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// nodeCall renders the runtime call for one node.
func nodeCall(n *graph.ActionNode) (string, error) {
	ins := n.Instructions
	switch n.Type {
	case graph.NodeNavigate:
		if ins.Deterministic {
			return fmt.Sprintf("t.Navigate(%q)", ins.URL), nil
		}
		return fmt.Sprintf("t.NavigatePage(%q)", ins.Target), nil

	case graph.NodeInput:
		if ins.Deterministic && ins.Selector != "" {
			return fmt.Sprintf("t.FillSelector(%q, %q)", ins.Selector, ins.Value), nil
		}
		return fmt.Sprintf("t.Fill(%s, %q)", hintsLiteral(n.Selector), ins.Value), nil

	case graph.NodeClick:
		if ins.Deterministic && ins.Selector != "" {
			return fmt.Sprintf("t.ClickSelector(%q)", ins.Selector), nil
		}
		return fmt.Sprintf("t.Click(%s)", hintsLiteral(n.Selector)), nil

	case graph.NodeAssertText:
		return fmt.Sprintf("t.AssertText(%q)", ins.Value), nil

	case graph.NodeAssertURL:
		return fmt.Sprintf("t.AssertURL(%q)", ins.URL), nil

	case graph.NodeWait:
		return fmt.Sprintf("t.WaitMS(%d)", ins.WaitMS), nil

	case graph.NodeCustom:
		return fmt.Sprintf("t.Unsupported(%q)", n.Step.Text), nil
	}
	return "", fmt.Errorf("codegen: node %s has unknown type %q", n.ID, n.Type)
}

// hintsLiteral renders a steprt.Hints composite literal with fields in a
// fixed order, omitting empties, so output stays deterministic.
func hintsLiteral(sel *graph.SelectorRef) string {
	if sel == nil {
		return "steprt.Hints{}"
	}
	var fields []string
	if sel.TextHint != "" {
		fields = append(fields, fmt.Sprintf("Text: %q", sel.TextHint))
	}
	if sel.RoleHint != "" {
		fields = append(fields, fmt.Sprintf("Role: %q", sel.RoleHint))
	}
	if sel.TypeHint != "" {
		fields = append(fields, fmt.Sprintf("Type: %q", sel.TypeHint))
	}
	if sel.StructuralHint != "" {
		fields = append(fields, fmt.Sprintf("Structural: %q", sel.StructuralHint))
	}
	return "steprt.Hints{" + strings.Join(fields, ", ") + "}"
}
