package eval

import (
	"fmt"
	"math"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
)

// injectBusinessContext adds the deterministic financial helper functions and
// the derived constants to an evaluation context. Everything here is a pure
// function of its arguments or of the bindings, so enabling it never breaks
// seeded reproducibility.
func injectBusinessContext(evalCtx *hcl.EvalContext, bindings map[string]cty.Value) {
	evalCtx.Functions["roi"] = roiFunc
	evalCtx.Functions["payback_period"] = paybackFunc
	evalCtx.Functions["runway"] = runwayFunc
	evalCtx.Functions["npv"] = npvFunc

	consts := map[string]cty.Value{
		"months_per_year":       cty.NumberIntVal(12),
		"weeks_per_year":        cty.NumberIntVal(52),
		"working_days_per_year": cty.NumberIntVal(260),
	}
	// Derived budget constants: when the schema binds a numeric `budget`,
	// expose its monthly and weekly breakdowns.
	if budget, ok := bindings["budget"]; ok {
		if num, err := convert.Convert(budget, cty.Number); err == nil {
			f, _ := num.AsBigFloat().Float64()
			consts["budget_monthly"] = cty.NumberFloatVal(f / 12)
			consts["budget_weekly"] = cty.NumberFloatVal(f / 52)
		}
	}
	evalCtx.Variables["biz"] = cty.ObjectVal(consts)
}

var roiFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "gain", Type: cty.Number},
		{Name: "cost", Type: cty.Number},
	},
	Type: function.StaticReturnType(cty.Number),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		gain := mustFloat(args[0])
		cost := mustFloat(args[1])
		if cost == 0 {
			return cty.NilVal, fmt.Errorf("roi: cost must not be zero")
		}
		return cty.NumberFloatVal((gain - cost) / cost), nil
	},
})

// paybackFunc returns the months until an upfront cost is recovered. A
// non-positive monthly net yields +Inf, which the output check then rejects
// as non-finite if the logic passes it through unguarded.
var paybackFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "cost", Type: cty.Number},
		{Name: "monthly_net", Type: cty.Number},
	},
	Type: function.StaticReturnType(cty.Number),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		cost := mustFloat(args[0])
		net := mustFloat(args[1])
		if net <= 0 {
			return cty.NumberFloatVal(math.Inf(1)), nil
		}
		return cty.NumberFloatVal(cost / net), nil
	},
})

var runwayFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "cash", Type: cty.Number},
		{Name: "monthly_burn", Type: cty.Number},
	},
	Type: function.StaticReturnType(cty.Number),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		cash := mustFloat(args[0])
		burn := mustFloat(args[1])
		if burn <= 0 {
			return cty.NumberFloatVal(math.Inf(1)), nil
		}
		return cty.NumberFloatVal(cash / burn), nil
	},
})

// npvFunc discounts a cashflow series at a per-period rate. The first
// cashflow is period zero (undiscounted).
var npvFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "rate", Type: cty.Number},
		{Name: "cashflows", Type: cty.List(cty.Number)},
	},
	Type: function.StaticReturnType(cty.Number),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		rate := mustFloat(args[0])
		if rate <= -1 {
			return cty.NilVal, fmt.Errorf("npv: rate must be greater than -1")
		}
		var total float64
		period := 0
		for it := args[1].ElementIterator(); it.Next(); period++ {
			_, cf := it.Element()
			total += mustFloat(cf) / math.Pow(1+rate, float64(period))
		}
		return cty.NumberFloatVal(total), nil
	},
})

// mustFloat is safe on arguments the function spec already typed as Number.
func mustFloat(v cty.Value) float64 {
	f, _ := v.AsBigFloat().Float64()
	return f
}
