package feature

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"compass/internal/builder"
)

const loginFeature = `# checkout regression pack
Feature: Login

Scenario: successful login
  Given I am on the login page
  When I enter email as "a@b.com"
  And I enter password as "secret"
  When I click the submit button
  Then I should see "Welcome back"
  But I should see "Log out"
`

func TestParse(t *testing.T) {
	f, err := Parse(strings.NewReader(loginFeature))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f.Name != "Login" {
		t.Errorf("feature name = %q, want Login", f.Name)
	}
	if len(f.Scenarios) != 1 {
		t.Fatalf("scenario count = %d, want 1", len(f.Scenarios))
	}
	sc := f.Scenarios[0]
	if sc.Name != "successful login" {
		t.Errorf("scenario name = %q", sc.Name)
	}

	want := []builder.ParsedStep{
		{Keyword: "Given", Text: "I am on the login page"},
		{Keyword: "When", Text: `I enter email as "a@b.com"`},
		{Keyword: "When", Text: `I enter password as "secret"`},
		{Keyword: "When", Text: "I click the submit button"},
		{Keyword: "Then", Text: `I should see "Welcome back"`},
		{Keyword: "Then", Text: `I should see "Log out"`},
	}
	if diff := cmp.Diff(want, sc.Steps); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_MultipleScenarios(t *testing.T) {
	src := `Feature: Nav
Scenario: home
  Given I am on the home page
Scenario: away
  Given I navigate to /away
`
	f, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(f.Scenarios) != 2 {
		t.Fatalf("scenario count = %d, want 2", len(f.Scenarios))
	}
	if f.Scenarios[1].Name != "away" || len(f.Scenarios[1].Steps) != 1 {
		t.Errorf("second scenario = %+v", f.Scenarios[1])
	}
}

func TestParse_BareSteps(t *testing.T) {
	f, err := Parse(strings.NewReader("Given I am on the home page\nThen I should see \"Hi\"\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(f.Scenarios) != 1 || len(f.Scenarios[0].Steps) != 2 {
		t.Errorf("scenarios = %+v", f.Scenarios)
	}
}

func TestParse_LeadingAnd(t *testing.T) {
	_, err := Parse(strings.NewReader("Scenario: x\n  And I click the submit button\n"))
	if err == nil || !strings.Contains(err.Error(), "And without a preceding step") {
		t.Errorf("err = %v, want leading-And error", err)
	}
}

func TestParse_NonStepLine(t *testing.T) {
	_, err := Parse(strings.NewReader("Scenario: x\n  this is not a step\n"))
	if err == nil || !strings.Contains(err.Error(), "not a step") {
		t.Errorf("err = %v, want not-a-step error", err)
	}
}

func TestParse_Empty(t *testing.T) {
	if _, err := Parse(strings.NewReader("Feature: empty\n")); !errors.Is(err, ErrNoScenario) {
		t.Errorf("err = %v, want ErrNoScenario", err)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "login.feature")
	if err := os.WriteFile(path, []byte(loginFeature), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := ParseFile(path)
	if err != nil {
		t.Fatalf("parse file: %v", err)
	}
	if f.Name != "Login" {
		t.Errorf("feature name = %q", f.Name)
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.feature")); err == nil {
		t.Error("missing file should fail")
	}
}
