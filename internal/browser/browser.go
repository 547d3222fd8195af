// Package browser adapts a chromedp session to both halves of the runtime
// boundary: the resolver's document queries and the step runtime's driver
// interactions. One Session serves one scenario.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"compass/internal/resolver"
	"compass/pkg/steprt"
)

// Session wraps a chromedp browser context.
type Session struct {
	ctx context.Context
}

var (
	_ resolver.DocumentContext = (*Session)(nil)
	_ steprt.Driver            = (*Session)(nil)
)

// Options configures the browser launch.
type Options struct {
	Headless bool
	Timeout  time.Duration
}

// NewSession launches a browser and returns the session plus a cancel that
// tears the whole allocator down.
func NewSession(parent context.Context, opts Options) (*Session, context.CancelFunc) {
	if opts.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		parent, cancelTimeout = context.WithTimeout(parent, opts.Timeout)
		_ = cancelTimeout // released through the returned cancel chain
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	cancel := func() {
		browserCancel()
		allocCancel()
	}
	return &Session{ctx: browserCtx}, cancel
}

// NewSessionFromContext wraps an existing chromedp context, for tests that
// manage the allocator themselves.
func NewSessionFromContext(ctx context.Context) *Session {
	return &Session{ctx: ctx}
}

// --- steprt.Driver ---

func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.run(ctx, chromedp.Navigate(url), chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		return fmt.Errorf("browser: navigate %s: %w", url, err)
	}
	return nil
}

func (s *Session) Fill(ctx context.Context, loc resolver.Locator, value string) error {
	err := s.run(ctx,
		chromedp.Clear(loc.Selector, chromedp.ByQuery),
		chromedp.SendKeys(loc.Selector, value, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("browser: fill %s: %w", loc.Selector, err)
	}
	return nil
}

func (s *Session) Click(ctx context.Context, loc resolver.Locator) error {
	if err := s.run(ctx, chromedp.Click(loc.Selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("browser: click %s: %w", loc.Selector, err)
	}
	return nil
}

func (s *Session) PageText(ctx context.Context) (string, error) {
	var text string
	if err := s.run(ctx, chromedp.Text("body", &text, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("browser: page text: %w", err)
	}
	return text, nil
}

func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	var url string
	if err := s.run(ctx, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("browser: current url: %w", err)
	}
	return url, nil
}

// run executes actions on the session's browser context while honoring the
// caller's context for cancellation.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	done := make(chan error, 1)
	go func() { done <- chromedp.Run(s.ctx, actions...) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
