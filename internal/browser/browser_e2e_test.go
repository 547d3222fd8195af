//go:build e2e

package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chromedp/chromedp"

	"compass/internal/resolver"
	"compass/pkg/steprt"
)

const loginPage = `<!DOCTYPE html>
<html><head><title>Login</title></head>
<body>
  <h1>Sign in</h1>
  <form action="/welcome" method="get">
    <label for="email">Email</label>
    <input id="email" name="email" type="text">
    <label for="password">Password</label>
    <input id="password" name="password" type="password">
    <button id="login-btn" type="submit">Submit</button>
  </form>
</body></html>`

const welcomePage = `<!DOCTYPE html>
<html><head><title>Welcome</title></head>
<body><p>Welcome back</p></body></html>`

func newBrowserContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	t.Cleanup(allocCancel)

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	t.Cleanup(browserCancel)
	return browserCtx
}

func newLoginServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(loginPage))
	})
	mux.HandleFunc("/welcome", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(welcomePage))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSession_QueryAndInteract(t *testing.T) {
	srv := newLoginServer(t)
	session := NewSessionFromContext(newBrowserContext(t))
	ctx := context.Background()

	if err := session.Navigate(ctx, srv.URL+"/login"); err != nil {
		t.Fatalf("navigate: %v", err)
	}

	t.Run("role and text query finds the submit button", func(t *testing.T) {
		candidates, err := session.QueryRoleText(ctx, "button", "submit")
		if err != nil {
			t.Fatalf("query: %v", err)
		}
		if len(candidates) != 1 {
			t.Fatalf("candidates = %d, want 1", len(candidates))
		}
		if candidates[0].Locator.Selector != "#login-btn" {
			t.Errorf("selector = %q, want #login-btn", candidates[0].Locator.Selector)
		}
	})

	t.Run("label text reaches the associated input", func(t *testing.T) {
		candidates, err := session.QueryRoleText(ctx, "textbox", "email")
		if err != nil {
			t.Fatalf("query: %v", err)
		}
		if len(candidates) != 1 || candidates[0].Locator.Selector != "#email" {
			t.Errorf("candidates = %+v, want #email", candidates)
		}
	})

	t.Run("type query sees both inputs in document order", func(t *testing.T) {
		candidates, err := session.QueryType(ctx, "input")
		if err != nil {
			t.Fatalf("query: %v", err)
		}
		if len(candidates) != 2 {
			t.Fatalf("candidates = %d, want 2", len(candidates))
		}
		if candidates[0].Locator.Selector != "#email" || candidates[1].Locator.Selector != "#password" {
			t.Errorf("order = %+v", candidates)
		}
		if candidates[1].Attributes["name"] != "password" {
			t.Errorf("attributes = %v", candidates[1].Attributes)
		}
	})

	t.Run("full scenario through the runtime", func(t *testing.T) {
		rt := &steprt.T{
			Ctx:     ctx,
			Doc:     session,
			Driver:  session,
			BaseURL: srv.URL,
			Pages:   map[string]string{"login": "/login"},
		}

		if err := rt.NavigatePage("login"); err != nil {
			t.Fatalf("navigate: %v", err)
		}
		if err := rt.Fill(steprt.Hints{Text: "email", Role: "textbox", Type: "input"}, "a@b.com"); err != nil {
			t.Fatalf("fill: %v", err)
		}
		if err := rt.Click(steprt.Hints{Text: "submit", Role: "button", Type: "button"}); err != nil {
			t.Fatalf("click: %v", err)
		}
		if err := rt.AssertURL("/welcome"); err != nil {
			t.Errorf("assert url: %v", err)
		}
		if err := rt.AssertText("welcome back"); err != nil {
			t.Errorf("assert text: %v", err)
		}
	})

	t.Run("resolution failure reports attempts", func(t *testing.T) {
		if err := session.Navigate(ctx, srv.URL+"/login"); err != nil {
			t.Fatalf("navigate: %v", err)
		}
		_, err := resolver.Resolve(ctx, session, "", resolver.Hints{Text: "no such element"})
		if err == nil {
			t.Fatal("expected resolution failure")
		}
	})
}
