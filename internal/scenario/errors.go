package scenario

import (
	"fmt"
	"strings"
)

// MismatchError means two compared scenarios disagree on their output key
// sets, which would make their statistics incomparable. It always fires
// before any run executes.
type MismatchError struct {
	ScenarioA string
	OutputsA  []string
	ScenarioB string
	OutputsB  []string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("scenarios are not comparable: %q produces outputs [%s] but %q produces [%s]",
		e.ScenarioA, strings.Join(e.OutputsA, ", "),
		e.ScenarioB, strings.Join(e.OutputsB, ", "))
}
