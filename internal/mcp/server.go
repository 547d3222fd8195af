// Package mcp exposes the compiler over the Model Context Protocol so
// agent tooling can compile specifications, inspect stored graphs and
// regenerate step code without shelling out to the CLI.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"compass/internal/builder"
	"compass/internal/codegen"
	"compass/internal/feature"
	"compass/internal/graph"
	"compass/internal/graphstore"
	"compass/internal/logging"
)

// Server wraps the MCP SDK server around a graph store.
type Server struct {
	MCPServer *sdkmcp.Server
	Graphs    graphstore.Store
}

// NewServer creates an MCP server exposing the compile, generate and
// inspection tools over the given graph store.
func NewServer(graphs graphstore.Store) *Server {
	s := &Server{Graphs: graphs}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "compass", Version: "dev"},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves MCP over the transport until ctx is cancelled.
func (s *Server) Run(ctx context.Context, t sdkmcp.Transport) error {
	return s.MCPServer.Run(ctx, t)
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "compile_spec",
		Description: "Compile a Gherkin feature source into action graphs and persist them. Returns one graph id per scenario.",
	}, s.handleCompileSpec)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "generate_steps",
		Description: "Generate Go step-definition source for a stored graph.",
	}, s.handleGenerateSteps)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_graphs",
		Description: "List the ids of all stored action graphs.",
	}, s.handleListGraphs)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_graph",
		Description: "Fetch a stored action graph as JSON.",
	}, s.handleGetGraph)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "check_stale",
		Description: "Check whether generated step source is stale relative to a feature source.",
	}, s.handleCheckStale)
}

// --- Tool input/output types ---

type compileSpecInput struct {
	FeatureText string `json:"feature_text" jsonschema:"Gherkin feature source to compile"`
	Authorship  string `json:"authorship,omitempty" jsonschema:"graph authorship (human, machine); default machine"`
}

type compiledScenario struct {
	Scenario    string   `json:"scenario"`
	GraphID     string   `json:"graph_id"`
	SpecHash    string   `json:"spec_hash"`
	NodeCount   int      `json:"node_count"`
	Location    string   `json:"location"`
	NeedsReview []string `json:"needs_review,omitempty"`
}

type compileSpecOutput struct {
	Feature   string             `json:"feature"`
	Scenarios []compiledScenario `json:"scenarios"`
}

type generateStepsInput struct {
	GraphID string `json:"graph_id" jsonschema:"id of a stored graph"`
	Package string `json:"package,omitempty" jsonschema:"Go package name for the generated file (default steps)"`
}

type generateStepsOutput struct {
	Source   string `json:"source"`
	SpecHash string `json:"spec_hash"`
}

type listGraphsInput struct{}

type listGraphsOutput struct {
	IDs []string `json:"ids"`
}

type getGraphInput struct {
	GraphID string `json:"graph_id" jsonschema:"id of a stored graph"`
}

type getGraphOutput struct {
	Graph json.RawMessage `json:"graph"`
}

type checkStaleInput struct {
	Source      string `json:"source" jsonschema:"generated step source to inspect"`
	FeatureText string `json:"feature_text" jsonschema:"current Gherkin feature source"`
}

type checkStaleOutput struct {
	Stale        bool   `json:"stale"`
	EmbeddedHash string `json:"embedded_hash"`
	CurrentHash  string `json:"current_hash"`
}

// --- Tool handlers ---

func (s *Server) handleCompileSpec(ctx context.Context, _ *sdkmcp.CallToolRequest, input compileSpecInput) (*sdkmcp.CallToolResult, compileSpecOutput, error) {
	logger := logging.New("mcp")

	authorship := graph.AuthorMachine
	if input.Authorship == string(graph.AuthorHuman) {
		authorship = graph.AuthorHuman
	}

	f, err := feature.Parse(strings.NewReader(input.FeatureText))
	if err != nil {
		return nil, compileSpecOutput{}, fmt.Errorf("compile_spec: %w", err)
	}

	out := compileSpecOutput{Feature: f.Name}
	for _, sc := range f.Scenarios {
		g, err := builder.Build(sc.Steps, authorship)
		if err != nil {
			return nil, compileSpecOutput{}, fmt.Errorf("compile_spec: scenario %q: %w", sc.Name, err)
		}
		location, err := s.Graphs.Save(ctx, g)
		if err != nil {
			return nil, compileSpecOutput{}, fmt.Errorf("compile_spec: save %q: %w", sc.Name, err)
		}

		compiled := compiledScenario{
			Scenario:  sc.Name,
			GraphID:   g.ID,
			SpecHash:  g.SpecHash,
			NodeCount: len(g.Nodes),
			Location:  location,
		}
		for _, n := range g.Nodes {
			if n.NeedsReview {
				compiled.NeedsReview = append(compiled.NeedsReview, n.Step.Text)
			}
		}
		out.Scenarios = append(out.Scenarios, compiled)
		logger.Info("compiled scenario", "scenario", sc.Name, "graph_id", g.ID, "nodes", len(g.Nodes))
	}
	return nil, out, nil
}

func (s *Server) handleGenerateSteps(ctx context.Context, _ *sdkmcp.CallToolRequest, input generateStepsInput) (*sdkmcp.CallToolResult, generateStepsOutput, error) {
	g, err := s.Graphs.Load(ctx, input.GraphID)
	if err != nil {
		return nil, generateStepsOutput{}, fmt.Errorf("generate_steps: %w", err)
	}
	src, err := codegen.Generate(g, codegen.Options{Package: input.Package})
	if err != nil {
		return nil, generateStepsOutput{}, fmt.Errorf("generate_steps: %w", err)
	}
	return nil, generateStepsOutput{Source: string(src), SpecHash: g.SpecHash}, nil
}

func (s *Server) handleListGraphs(ctx context.Context, _ *sdkmcp.CallToolRequest, _ listGraphsInput) (*sdkmcp.CallToolResult, listGraphsOutput, error) {
	ids, err := s.Graphs.List(ctx)
	if err != nil {
		return nil, listGraphsOutput{}, fmt.Errorf("list_graphs: %w", err)
	}
	return nil, listGraphsOutput{IDs: ids}, nil
}

func (s *Server) handleGetGraph(ctx context.Context, _ *sdkmcp.CallToolRequest, input getGraphInput) (*sdkmcp.CallToolResult, getGraphOutput, error) {
	g, err := s.Graphs.Load(ctx, input.GraphID)
	if err != nil {
		return nil, getGraphOutput{}, fmt.Errorf("get_graph: %w", err)
	}
	data, err := json.Marshal(g)
	if err != nil {
		return nil, getGraphOutput{}, fmt.Errorf("get_graph: encode: %w", err)
	}
	return nil, getGraphOutput{Graph: data}, nil
}

func (s *Server) handleCheckStale(_ context.Context, _ *sdkmcp.CallToolRequest, input checkStaleInput) (*sdkmcp.CallToolResult, checkStaleOutput, error) {
	embedded, err := codegen.EmbeddedSpecHash([]byte(input.Source))
	if err != nil {
		return nil, checkStaleOutput{}, fmt.Errorf("check_stale: %w", err)
	}

	f, err := feature.Parse(strings.NewReader(input.FeatureText))
	if err != nil {
		return nil, checkStaleOutput{}, fmt.Errorf("check_stale: %w", err)
	}
	if len(f.Scenarios) != 1 {
		return nil, checkStaleOutput{}, fmt.Errorf("check_stale: feature must hold exactly one scenario, has %d", len(f.Scenarios))
	}
	current := builder.HashSteps(f.Scenarios[0].Steps)

	return nil, checkStaleOutput{
		Stale:        embedded != current,
		EmbeddedHash: embedded,
		CurrentHash:  current,
	}, nil
}
