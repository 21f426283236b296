// Package eval executes one iteration of a simulation's logic against a
// parameter binding. The logic language is a single HCL expression (typically
// an object constructor mapping output keys to formulas), which gives the
// engine a restricted interpreter for free: no loops beyond bounded
// comprehensions, no I/O, no process control, and no ambient globals — the
// only capabilities an expression has are the injected bindings and the
// fixed function table.
package eval

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/decisim/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
)

// DefaultBudget bounds a single evaluation's wall-clock time. Expressions are
// cheap; anything near this limit is pathological (e.g. an enormous for
// comprehension) and is cut off rather than allowed to stall the run.
const DefaultBudget = 100 * time.Millisecond

// Evaluator holds a parsed logic expression and the output keys it must
// produce. It is immutable after construction and safe for concurrent use;
// every Evaluate call builds a fresh EvalContext so no iteration can leak
// state into the next.
type Evaluator struct {
	expr            hcl.Expression
	outputs         []string
	businessContext bool
	budget          time.Duration
}

// Option configures an Evaluator at construction time.
type Option func(*Evaluator)

// WithBusinessContext enables the fixed library of deterministic financial
// helpers (roi, payback_period, runway, npv) and the derived budget
// constants for the logic.
func WithBusinessContext() Option {
	return func(e *Evaluator) { e.businessContext = true }
}

// WithBudget overrides the per-call wall-clock budget.
func WithBudget(d time.Duration) Option {
	return func(e *Evaluator) { e.budget = d }
}

// New parses the logic source text and returns an Evaluator bound to the
// declared output keys. A syntax fault is reported as an *Error.
func New(logic string, outputs []string, opts ...Option) (*Evaluator, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(logic), "logic", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, &Error{Message: "logic has syntax errors: " + diags.Error()}
	}

	e := &Evaluator{
		expr:    expr,
		outputs: append([]string(nil), outputs...),
		budget:  DefaultBudget,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Outputs returns the declared output keys.
func (e *Evaluator) Outputs() []string {
	return append([]string(nil), e.outputs...)
}

// BusinessContext reports whether the financial helper library is enabled.
func (e *Evaluator) BusinessContext() bool { return e.businessContext }

// Evaluate runs the logic once against bindings, drawing randomness only
// from rng. The result must be an object covering every declared output key
// with a finite number; any other shape is an *Error. Exceeding the
// wall-clock budget yields an *Error wrapping ErrTimeout.
func (e *Evaluator) Evaluate(ctx context.Context, bindings map[string]cty.Value, rng func() float64) (map[string]float64, error) {
	evalCtx := &hcl.EvalContext{
		Variables: make(map[string]cty.Value, len(bindings)+1),
		Functions: map[string]function.Function{
			"random": randomFunc(rng),
		},
	}
	for k, v := range bindings {
		evalCtx.Variables[k] = v
	}
	if e.businessContext {
		injectBusinessContext(evalCtx, bindings)
	}

	type outcome struct {
		val   cty.Value
		diags hcl.Diagnostics
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{diags: hcl.Diagnostics{{
					Severity: hcl.DiagError,
					Summary:  fmt.Sprintf("logic panicked: %v", r),
				}}}
			}
		}()
		val, diags := e.expr.Value(evalCtx)
		done <- outcome{val: val, diags: diags}
	}()

	timer := time.NewTimer(e.budget)
	defer timer.Stop()

	var res outcome
	select {
	case res = <-done:
	case <-timer.C:
		ctxlog.FromContext(ctx).Debug("Evaluation aborted, budget exceeded.", "budget", e.budget)
		return nil, &Error{Message: fmt.Sprintf("logic exceeded its %s budget", e.budget), err: ErrTimeout}
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if res.diags.HasErrors() {
		return nil, &Error{Message: "logic evaluation failed: " + res.diags.Error()}
	}
	return e.extractOutputs(res.val)
}

// extractOutputs pulls every declared output key out of the evaluated value
// and checks it is a finite number. Extra keys are ignored.
func (e *Evaluator) extractOutputs(val cty.Value) (map[string]float64, error) {
	if val.IsNull() {
		return nil, &Error{Message: "logic produced a null result"}
	}
	t := val.Type()
	if !t.IsObjectType() && !t.IsMapType() {
		return nil, &Error{Message: fmt.Sprintf("logic must produce an object of outputs, got %s", t.FriendlyName())}
	}
	attrs := val.AsValueMap()

	out := make(map[string]float64, len(e.outputs))
	for _, key := range e.outputs {
		attr, ok := attrs[key]
		if !ok {
			return nil, &Error{OutputKey: key, Message: "missing from logic result"}
		}
		if attr.IsNull() {
			return nil, &Error{OutputKey: key, Message: "value is null"}
		}
		num, err := convert.Convert(attr, cty.Number)
		if err != nil {
			return nil, &Error{OutputKey: key, Message: fmt.Sprintf("value is not numeric: %v", err)}
		}
		f, _ := num.AsBigFloat().Float64()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &Error{OutputKey: key, Message: fmt.Sprintf("value %v is not finite", f)}
		}
		out[key] = f
	}
	return out, nil
}

// randomFunc wraps the injected uniform source as the logic's random()
// function, returning values in [0, 1).
func randomFunc(rng func() float64) function.Function {
	return function.New(&function.Spec{
		Type: function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			return cty.NumberFloatVal(rng()), nil
		},
	})
}
