package runner

import (
	"fmt"
	"strings"
)

// RunError means a run crossed its failure-rate ceiling and the surviving
// samples are not trustworthy. It carries the observed rate and a sample of
// underlying causes; individual iteration failures below the ceiling never
// surface as errors.
type RunError struct {
	Iterations int
	Failures   int
	Ceiling    float64
	Causes     []error
}

func (e *RunError) Error() string {
	rate := float64(e.Failures) / float64(e.Iterations)
	var b strings.Builder
	fmt.Fprintf(&b, "run failed: %d of %d iterations failed (%.1f%%, ceiling %.1f%%)",
		e.Failures, e.Iterations, rate*100, e.Ceiling*100)
	if len(e.Causes) > 0 {
		b.WriteString("; sample causes:")
		for _, c := range e.Causes {
			b.WriteString("\n- ")
			b.WriteString(c.Error())
		}
	}
	return b.String()
}
