package resolver

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAmbiguous marks a resolution failure where some strategy matched more
// than one equally-confident candidate. Callers must treat it as a hard
// failure, never pick an arbitrary element.
var ErrAmbiguous = errors.New("resolver: ambiguous match")

// ErrNoMatch marks a resolution failure where no strategy matched anything.
var ErrNoMatch = errors.New("resolver: no matching element")

// Attempt records one tried strategy and how many candidates it found.
type Attempt struct {
	Strategy   string `json:"strategy"`
	Candidates int    `json:"candidates"`
}

// ResolutionError reports a failed resolve with the full attempt trail:
// which strategies ran, in order, and the candidate count each produced.
type ResolutionError struct {
	Explicit  string
	Hints     Hints
	Attempts  []Attempt
	Ambiguous bool
}

func (e *ResolutionError) Error() string {
	var b strings.Builder
	b.WriteString("resolver: cannot resolve ")
	b.WriteString(e.Hints.String())
	if e.Explicit != "" {
		fmt.Fprintf(&b, " (explicit %q)", e.Explicit)
	}
	if len(e.Attempts) == 0 {
		b.WriteString(": no applicable strategy")
		return b.String()
	}
	b.WriteString(": attempted")
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, " %s(%d)", a.Strategy, a.Candidates)
	}
	if e.Ambiguous {
		b.WriteString(": ambiguous match")
	}
	return b.String()
}

// Unwrap lets errors.Is distinguish the ambiguous sub-case from a plain
// miss.
func (e *ResolutionError) Unwrap() error {
	if e.Ambiguous {
		return ErrAmbiguous
	}
	return ErrNoMatch
}
