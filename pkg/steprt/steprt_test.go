package steprt

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"compass/internal/resolver"
)

// fakeDriver records interactions instead of touching a browser.
type fakeDriver struct {
	navigated []string
	filled    map[string]string
	clicked   []string
	pageText  string
	url       string
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{filled: map[string]string{}}
}

func (d *fakeDriver) Navigate(_ context.Context, url string) error {
	d.navigated = append(d.navigated, url)
	return nil
}

func (d *fakeDriver) Fill(_ context.Context, loc resolver.Locator, value string) error {
	d.filled[loc.Selector] = value
	return nil
}

func (d *fakeDriver) Click(_ context.Context, loc resolver.Locator) error {
	d.clicked = append(d.clicked, loc.Selector)
	return nil
}

func (d *fakeDriver) PageText(_ context.Context) (string, error)   { return d.pageText, nil }
func (d *fakeDriver) CurrentURL(_ context.Context) (string, error) { return d.url, nil }

var _ Driver = (*fakeDriver)(nil)

// fakeDoc answers every query kind from one candidate table.
type fakeDoc struct {
	byRoleText map[string][]resolver.Candidate
	byText     map[string][]resolver.Candidate
	byType     map[string][]resolver.Candidate
}

func (d *fakeDoc) QuerySelector(_ context.Context, selector string) ([]resolver.Candidate, error) {
	return nil, nil
}

func (d *fakeDoc) QueryRoleText(_ context.Context, role, text string) ([]resolver.Candidate, error) {
	return d.byRoleText[role+"|"+strings.ToLower(text)], nil
}

func (d *fakeDoc) QueryText(_ context.Context, text string) ([]resolver.Candidate, error) {
	return d.byText[strings.ToLower(text)], nil
}

func (d *fakeDoc) QueryType(_ context.Context, elemType string) ([]resolver.Candidate, error) {
	return d.byType[elemType], nil
}

var _ resolver.DocumentContext = (*fakeDoc)(nil)

func one(selector string) []resolver.Candidate {
	return []resolver.Candidate{{Locator: resolver.Locator{Selector: selector}}}
}

func newT(driver *fakeDriver, doc *fakeDoc) *T {
	return &T{
		Ctx:     context.Background(),
		Doc:     doc,
		Driver:  driver,
		BaseURL: "https://app.example.com",
		Pages:   map[string]string{"login": "/login"},
	}
}

func TestNavigateJoinsBaseURL(t *testing.T) {
	driver := newFakeDriver()
	rt := newT(driver, &fakeDoc{})

	if err := rt.Navigate("/dashboard"); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if err := rt.Navigate("https://other.example.com/x"); err != nil {
		t.Fatalf("navigate absolute: %v", err)
	}

	want := []string{"https://app.example.com/dashboard", "https://other.example.com/x"}
	for i, w := range want {
		if driver.navigated[i] != w {
			t.Errorf("navigated[%d] = %q, want %q", i, driver.navigated[i], w)
		}
	}
}

func TestNavigatePage(t *testing.T) {
	driver := newFakeDriver()
	rt := newT(driver, &fakeDoc{})

	if err := rt.NavigatePage("login"); err != nil {
		t.Fatalf("navigate page: %v", err)
	}
	if got := driver.navigated[0]; got != "https://app.example.com/login" {
		t.Errorf("navigated = %q", got)
	}

	if err := rt.NavigatePage("signup"); err == nil {
		t.Error("unknown page name should fail")
	}
}

func TestFillResolvesHints(t *testing.T) {
	driver := newFakeDriver()
	doc := &fakeDoc{byRoleText: map[string][]resolver.Candidate{
		"textbox|email": one("#email"),
	}}
	rt := newT(driver, doc)

	err := rt.Fill(Hints{Text: "email", Role: "textbox", Type: "input"}, "a@b.com")
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if got := driver.filled["#email"]; got != "a@b.com" {
		t.Errorf("filled[#email] = %q, want a@b.com", got)
	}
}

func TestClickResolvesHints(t *testing.T) {
	driver := newFakeDriver()
	doc := &fakeDoc{byText: map[string][]resolver.Candidate{
		"submit": one("#submit-btn"),
	}}
	rt := newT(driver, doc)

	if err := rt.Click(Hints{Text: "submit"}); err != nil {
		t.Fatalf("click: %v", err)
	}
	if len(driver.clicked) != 1 || driver.clicked[0] != "#submit-btn" {
		t.Errorf("clicked = %v", driver.clicked)
	}
}

func TestClickResolutionFailureSurfaces(t *testing.T) {
	rt := newT(newFakeDriver(), &fakeDoc{})

	err := rt.Click(Hints{Text: "missing"})
	if !errors.Is(err, resolver.ErrNoMatch) {
		t.Errorf("err = %v, want ErrNoMatch", err)
	}
}

func TestLiteralSelectorBypassesResolution(t *testing.T) {
	driver := newFakeDriver()
	rt := newT(driver, &fakeDoc{})

	if err := rt.FillSelector("#name", "Ada"); err != nil {
		t.Fatalf("fill selector: %v", err)
	}
	if err := rt.ClickSelector("#go"); err != nil {
		t.Fatalf("click selector: %v", err)
	}
	if driver.filled["#name"] != "Ada" || driver.clicked[0] != "#go" {
		t.Errorf("driver state = %+v", driver)
	}
}

func TestAssertText(t *testing.T) {
	driver := newFakeDriver()
	driver.pageText = "Welcome Back, Ada"
	rt := newT(driver, &fakeDoc{})

	if err := rt.AssertText("welcome back"); err != nil {
		t.Errorf("case-insensitive match failed: %v", err)
	}
	if err := rt.AssertText("Goodbye"); !errors.Is(err, ErrAssertion) {
		t.Errorf("err = %v, want ErrAssertion", err)
	}
}

func TestAssertURL(t *testing.T) {
	driver := newFakeDriver()
	driver.url = "https://app.example.com/dashboard?tab=1"
	rt := newT(driver, &fakeDoc{})

	if err := rt.AssertURL("/dashboard"); err != nil {
		t.Errorf("substring match failed: %v", err)
	}
	if err := rt.AssertURL("/settings"); !errors.Is(err, ErrAssertion) {
		t.Errorf("err = %v, want ErrAssertion", err)
	}
}

func TestWaitMSHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rt := newT(newFakeDriver(), &fakeDoc{})
	rt.Ctx = ctx
	cancel()

	start := time.Now()
	err := rt.WaitMS(5000)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if time.Since(start) > time.Second {
		t.Error("cancelled wait blocked")
	}
}

func TestUnsupported(t *testing.T) {
	rt := newT(newFakeDriver(), &fakeDoc{})
	err := rt.Unsupported("the moon is full")
	if err == nil || !strings.Contains(err.Error(), "the moon is full") {
		t.Errorf("err = %v, want step text in message", err)
	}
}

func TestOnResolveObservesOutcomes(t *testing.T) {
	driver := newFakeDriver()
	doc := &fakeDoc{byText: map[string][]resolver.Candidate{
		"submit": one("#submit-btn"),
	}}
	rt := newT(driver, doc)

	var seen []error
	rt.OnResolve = func(_ Hints, _ resolver.Resolution, err error) {
		seen = append(seen, err)
	}

	if err := rt.Click(Hints{Text: "submit"}); err != nil {
		t.Fatalf("click: %v", err)
	}
	if err := rt.Click(Hints{Text: "missing"}); err == nil {
		t.Fatal("expected resolution failure")
	}

	if len(seen) != 2 {
		t.Fatalf("hook fired %d times, want 2", len(seen))
	}
	if seen[0] != nil {
		t.Errorf("first resolution should succeed, hook saw %v", seen[0])
	}
	if seen[1] == nil {
		t.Error("second resolution should fail, hook saw nil")
	}
}

func TestListRegistryPreservesOrder(t *testing.T) {
	var reg ListRegistry
	reg.Step("first", func(*T) error { return nil })
	reg.Step("second", func(*T) error { return nil })

	if len(reg.Bindings) != 2 {
		t.Fatalf("bindings = %d, want 2", len(reg.Bindings))
	}
	if reg.Bindings[0].Text != "first" || reg.Bindings[1].Text != "second" {
		t.Errorf("order = [%s, %s]", reg.Bindings[0].Text, reg.Bindings[1].Text)
	}
}
