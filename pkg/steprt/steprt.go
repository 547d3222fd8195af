// Package steprt is the runtime surface that generated step definitions
// bind against. The code generator emits one Registry.Step call per action
// node; at execution time the registry belongs to the BDD runner and the T
// passed to each handler wraps the live browser session.
//
// Handlers never carry fixed selectors. Interactions go through Resolve,
// which consults the live document with the hint bundle compiled into the
// graph, so markup drift is absorbed at run time instead of breaking the
// generated code.
package steprt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"compass/internal/resolver"
)

// ErrAssertion marks a failed page assertion, as opposed to a resolution
// or driver failure.
var ErrAssertion = errors.New("steprt: assertion failed")

// Hints mirrors the compiled hint bundle. Re-declared here so generated
// code depends only on this package.
type Hints struct {
	Text       string
	Role       string
	Type       string
	Structural string
}

// Registry registers step-definition bindings. Implemented by the external
// BDD runner; the in-package ListRegistry suffices for inspection and
// tests.
type Registry interface {
	Step(text string, handler func(*T) error)
}

// Driver is the interaction half of the browser boundary. The resolver's
// DocumentContext is the query half; adapters implement both over one
// session.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	Fill(ctx context.Context, loc resolver.Locator, value string) error
	Click(ctx context.Context, loc resolver.Locator) error
	PageText(ctx context.Context) (string, error)
	CurrentURL(ctx context.Context) (string, error)
}

// T is the per-scenario execution context handed to each step handler.
type T struct {
	Ctx     context.Context
	Doc     resolver.DocumentContext
	Driver  Driver
	BaseURL string

	// Pages maps symbolic page names ("login") to paths ("/login") for
	// navigate steps whose URL was not literal in the spec.
	Pages map[string]string

	// OnResolve, when set, observes every resolution outcome. Used by the
	// execution recorder.
	OnResolve func(hints Hints, res resolver.Resolution, err error)
}

// Resolve maps a hint bundle to a live locator.
func (t *T) Resolve(h Hints) (resolver.Locator, error) {
	res, err := resolver.Resolve(t.Ctx, t.Doc, "", resolver.Hints{
		Text:       h.Text,
		Role:       h.Role,
		Type:       h.Type,
		Structural: h.Structural,
	})
	if t.OnResolve != nil {
		t.OnResolve(h, res, err)
	}
	if err != nil {
		return resolver.Locator{}, err
	}
	return res.Locator, nil
}

// Navigate loads an absolute URL, or a path joined onto BaseURL.
func (t *T) Navigate(url string) error {
	if strings.HasPrefix(url, "/") && t.BaseURL != "" {
		url = strings.TrimSuffix(t.BaseURL, "/") + url
	}
	return t.Driver.Navigate(t.Ctx, url)
}

// NavigatePage resolves a symbolic page name through the Pages map.
func (t *T) NavigatePage(name string) error {
	path, ok := t.Pages[name]
	if !ok {
		return fmt.Errorf("steprt: unknown page %q", name)
	}
	return t.Navigate(path)
}

// Fill resolves the hints and types value into the element.
func (t *T) Fill(h Hints, value string) error {
	loc, err := t.Resolve(h)
	if err != nil {
		return err
	}
	return t.Driver.Fill(t.Ctx, loc, value)
}

// Click resolves the hints and clicks the element.
func (t *T) Click(h Hints) error {
	loc, err := t.Resolve(h)
	if err != nil {
		return err
	}
	return t.Driver.Click(t.Ctx, loc)
}

// FillSelector fills an element found by a literal selector fixed at
// compile time.
func (t *T) FillSelector(selector, value string) error {
	return t.Driver.Fill(t.Ctx, resolver.Locator{Selector: selector}, value)
}

// ClickSelector clicks an element found by a literal selector.
func (t *T) ClickSelector(selector string) error {
	return t.Driver.Click(t.Ctx, resolver.Locator{Selector: selector})
}

// AssertText fails unless the page's visible text contains want.
func (t *T) AssertText(want string) error {
	text, err := t.Driver.PageText(t.Ctx)
	if err != nil {
		return err
	}
	if !strings.Contains(strings.ToLower(text), strings.ToLower(want)) {
		return fmt.Errorf("%w: page text does not contain %q", ErrAssertion, want)
	}
	return nil
}

// AssertURL fails unless the current URL contains want.
func (t *T) AssertURL(want string) error {
	url, err := t.Driver.CurrentURL(t.Ctx)
	if err != nil {
		return err
	}
	if !strings.Contains(url, want) {
		return fmt.Errorf("%w: url %q does not contain %q", ErrAssertion, url, want)
	}
	return nil
}

// WaitMS sleeps, honoring context cancellation.
func (t *T) WaitMS(ms int) error {
	select {
	case <-time.After(time.Duration(ms) * time.Millisecond):
		return nil
	case <-t.Ctx.Done():
		return t.Ctx.Err()
	}
}

// Unsupported marks a step the compiler could not classify. It fails
// loudly so unreviewed custom nodes never pass silently.
func (t *T) Unsupported(stepText string) error {
	return fmt.Errorf("steprt: step needs manual implementation: %q", stepText)
}

// Binding is one registered step.
type Binding struct {
	Text    string
	Handler func(*T) error
}

// ListRegistry collects bindings in registration order.
type ListRegistry struct {
	Bindings []Binding
}

func (r *ListRegistry) Step(text string, handler func(*T) error) {
	r.Bindings = append(r.Bindings, Binding{Text: text, Handler: handler})
}

var _ Registry = (*ListRegistry)(nil)
