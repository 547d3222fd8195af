package codegen

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"compass/internal/builder"
	"compass/internal/graph"
)

func compiled(t *testing.T, steps []builder.ParsedStep) *graph.ActionGraph {
	t.Helper()
	g, err := builder.Build(steps, graph.AuthorMachine)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return g
}

func loginSteps() []builder.ParsedStep {
	return []builder.ParsedStep{
		{Keyword: "Given", Text: "I am on the login page"},
		{Keyword: "When", Text: `I enter email as "bob@example.com"`},
		{Keyword: "And", Text: "I click the submit button"},
		{Keyword: "Then", Text: `I should see "Welcome back"`},
	}
}

func TestGenerateContainsBindings(t *testing.T) {
	g := compiled(t, loginSteps())
	src, err := Generate(g, Options{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	for _, want := range []string{
		"package steps",
		`import "compass/pkg/steprt"`,
		"func RegisterSteps(r steprt.Registry)",
		`r.Step("I am on the login page"`,
		`t.NavigatePage("login")`,
		`t.Fill(steprt.Hints{`,
		`"bob@example.com"`,
		`t.Click(steprt.Hints{`,
		`t.AssertText("Welcome back")`,
	} {
		if !strings.Contains(string(src), want) {
			t.Errorf("generated source missing %q\n%s", want, src)
		}
	}
}

func TestGenerateHeader(t *testing.T) {
	g := compiled(t, loginSteps())
	src, err := Generate(g, Options{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	for _, want := range []string{
		"// Code generated by compass. DO NOT EDIT.",
		"// spec-hash: " + g.SpecHash,
		"// graph-id: " + g.ID,
		"// generator: " + GeneratorVersion,
	} {
		if !strings.Contains(string(src), want) {
			t.Errorf("header missing %q", want)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	g := compiled(t, loginSteps())
	first, err := Generate(g, Options{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Generate(g, Options{})
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("run %d produced different bytes", i)
		}
	}
}

func TestGeneratePackageOverride(t *testing.T) {
	g := compiled(t, loginSteps())
	src, err := Generate(g, Options{Package: "checkout"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(src), "package checkout") {
		t.Errorf("package override not applied:\n%s", src)
	}
}

func TestGenerateDeterministicInstructions(t *testing.T) {
	g := compiled(t, []builder.ParsedStep{
		{Keyword: "Given", Text: "I navigate to /dashboard"},
		{Keyword: "When", Text: "I wait for 2 seconds"},
		{Keyword: "Then", Text: "the URL should contain /dashboard"},
	})
	src, err := Generate(g, Options{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, want := range []string{
		`t.Navigate("/dashboard")`,
		"t.WaitMS(2000)",
		`t.AssertURL("/dashboard")`,
	} {
		if !strings.Contains(string(src), want) {
			t.Errorf("generated source missing %q\n%s", want, src)
		}
	}
}

func TestGenerateCustomStepFailsLoudly(t *testing.T) {
	g := compiled(t, []builder.ParsedStep{
		{Keyword: "Given", Text: "I am on the home page"},
		{Keyword: "When", Text: "the moon is full tonight"},
	})
	src, err := Generate(g, Options{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(src), `t.Unsupported("the moon is full tonight")`) {
		t.Errorf("custom step not routed to Unsupported:\n%s", src)
	}
}

func TestEmbeddedSpecHash(t *testing.T) {
	g := compiled(t, loginSteps())
	src, err := Generate(g, Options{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	got, err := EmbeddedSpecHash(src)
	if err != nil {
		t.Fatalf("embedded hash: %v", err)
	}
	if got != g.SpecHash {
		t.Errorf("embedded hash = %s, want %s", got, g.SpecHash)
	}

	if _, err := EmbeddedSpecHash([]byte("package steps\n")); !errors.Is(err, ErrNoHeader) {
		t.Errorf("expected ErrNoHeader, got %v", err)
	}
}

func TestIsStale(t *testing.T) {
	g := compiled(t, loginSteps())
	src, err := Generate(g, Options{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	stale, err := IsStale(src, g.SpecHash)
	if err != nil {
		t.Fatalf("is stale: %v", err)
	}
	if stale {
		t.Error("source generated from this spec reported stale")
	}

	reworded := compiled(t, []builder.ParsedStep{
		{Keyword: "Given", Text: "I am on the login page"},
		{Keyword: "When", Text: `I enter email as "bob@example.com"`},
		{Keyword: "And", Text: "I click the cancel button"},
		{Keyword: "Then", Text: `I should see "Welcome back"`},
	})
	stale, err = IsStale(src, reworded.SpecHash)
	if err != nil {
		t.Fatalf("is stale: %v", err)
	}
	if !stale {
		t.Error("source generated from a different spec not reported stale")
	}
}
