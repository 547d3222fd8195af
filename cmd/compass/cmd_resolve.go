package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"compass/internal/browser"
	"compass/internal/resolver"
)

var resolveFlags struct {
	url        string
	selector   string
	text       string
	role       string
	elemType   string
	structural string
	headless   bool
	timeout    time.Duration
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve selector hints against a live page",
	Long: "Launches a browser, loads the page and runs the resolution chain with the\n" +
		"given hints. Prints the winning selector with its strategy and confidence,\n" +
		"or the full attempt trail on failure.",
	RunE: runResolve,
}

func init() {
	f := resolveCmd.Flags()
	f.StringVar(&resolveFlags.url, "url", "", "Page URL to resolve against (required)")
	f.StringVar(&resolveFlags.selector, "selector", "", "Explicit selector (tried before any hints)")
	f.StringVar(&resolveFlags.text, "text", "", "Text hint")
	f.StringVar(&resolveFlags.role, "role", "", "Accessibility role hint")
	f.StringVar(&resolveFlags.elemType, "type", "", "Element type hint")
	f.StringVar(&resolveFlags.structural, "structural", "", "Structural hint (nth=N or attr=value)")
	f.BoolVar(&resolveFlags.headless, "headless", true, "Run the browser headless")
	f.DurationVar(&resolveFlags.timeout, "timeout", 30*time.Second, "Overall timeout")

	_ = resolveCmd.MarkFlagRequired("url")
}

func runResolve(cmd *cobra.Command, _ []string) error {
	session, cancel := browser.NewSession(cmd.Context(), browser.Options{
		Headless: resolveFlags.headless,
		Timeout:  resolveFlags.timeout,
	})
	defer cancel()

	ctx := cmd.Context()
	if err := session.Navigate(ctx, resolveFlags.url); err != nil {
		return err
	}

	hints := resolver.Hints{
		Text:       resolveFlags.text,
		Role:       resolveFlags.role,
		Type:       resolveFlags.elemType,
		Structural: resolveFlags.structural,
	}
	res, err := resolver.Resolve(ctx, session, resolveFlags.selector, hints)

	out := cmd.OutOrStdout()
	if err != nil {
		var resErr *resolver.ResolutionError
		if errors.As(err, &resErr) {
			fmt.Fprintf(out, "no resolution for %s\n", hints)
			for _, a := range resErr.Attempts {
				fmt.Fprintf(out, "  %s: %d candidate(s)\n", a.Strategy, a.Candidates)
			}
		}
		return err
	}

	fmt.Fprintf(out, "selector:   %s\n", res.Locator.Selector)
	fmt.Fprintf(out, "strategy:   %s\n", res.Strategy)
	fmt.Fprintf(out, "confidence: %s\n", res.Confidence)
	return nil
}
