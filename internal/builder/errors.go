package builder

import (
	"errors"
	"fmt"
)

// ErrEmptySpecification is returned when the step list is empty.
var ErrEmptySpecification = errors.New("builder: empty specification")

// MalformedStepError aborts the whole build: no partial graph is produced.
type MalformedStepError struct {
	Index   int    // zero-based position in the step list
	Keyword string
	Text    string
	Reason  string
}

func (e *MalformedStepError) Error() string {
	return fmt.Sprintf("builder: malformed step %d (%s %q): %s", e.Index+1, e.Keyword, e.Text, e.Reason)
}
