package eval

import (
	"errors"
	"fmt"
)

// ErrTimeout marks an evaluation that exceeded its per-call wall-clock
// budget. It is always wrapped in an *Error, so callers can use errors.Is.
var ErrTimeout = errors.New("evaluation exceeded its time budget")

// Error reports one failed evaluation: a logic fault, a missing or
// non-numeric output, or a budget overrun. It is recoverable from the
// runner's point of view; a run only fails once the failure-rate ceiling is
// crossed.
type Error struct {
	// OutputKey names the offending output when the fault is tied to one.
	OutputKey string
	Message   string
	err       error
}

func (e *Error) Error() string {
	if e.OutputKey != "" {
		return fmt.Sprintf("output %q: %s", e.OutputKey, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.err }
