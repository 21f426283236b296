// Package runner drives N evaluations of a simulation's logic and reduces the
// successful outcomes to aggregated statistics. A sequential loop is the
// reference semantics; iterations are embarrassingly parallel, so the runner
// shards them statically across workers and merges the per-worker
// accumulators with the closed-form Welford combination, in worker order.
//
// Every iteration owns a private random stream seeded from (runSeed,
// iteration index). The stream is handed to the evaluation and never touched
// by the shard again, so an evaluation abandoned on a budget overrun cannot
// disturb any other iteration's draws, and the sample set for a given seed
// and N is the same whatever the worker count.
package runner

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"github.com/vk/decisim/internal/ctxlog"
	"github.com/vk/decisim/internal/eval"
	"github.com/zclconf/go-cty/cty"
)

// DefaultFailureCeiling is the fraction of failed iterations a run tolerates
// before it is abandoned as a whole.
const DefaultFailureCeiling = 0.10

// maxSampledCauses bounds how many underlying iteration errors a RunError
// carries.
const maxSampledCauses = 5

// Options configures one run.
type Options struct {
	// N is the number of iterations. Required, positive.
	N int
	// Seed fixes the run's base random seed for deterministic replay. Nil
	// draws one from process entropy.
	Seed *uint64
	// Workers is the number of concurrent evaluation workers. Zero or one
	// gives the sequential reference behavior.
	Workers int
	// FailureCeiling overrides DefaultFailureCeiling when positive.
	FailureCeiling float64
}

// workerResult is one worker's partial view of the run.
type workerResult struct {
	accs     map[string]*Accumulator
	failures int
	causes   []error
	err      error // only for context cancellation
}

// Run executes opts.N evaluations of ev against bindings and aggregates the
// successful outcomes. Per-iteration evaluation failures (including budget
// overruns) count toward the failure rate instead of aborting; crossing the
// ceiling fails the whole run with a *RunError.
func Run(ctx context.Context, ev *eval.Evaluator, bindings map[string]cty.Value, opts Options) (*Stats, error) {
	if opts.N <= 0 {
		return nil, fmt.Errorf("iteration count must be positive, got %d", opts.N)
	}

	seed := rand.Uint64()
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > opts.N {
		workers = opts.N
	}
	ceiling := opts.FailureCeiling
	if ceiling <= 0 {
		ceiling = DefaultFailureCeiling
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Run starting.", "iterations", opts.N, "workers", workers, "seed", seed, "seeded", opts.Seed != nil)

	outputs := ev.Outputs()
	results := make([]workerResult, workers)

	var wg sync.WaitGroup
	start := 0
	for w := 0; w < workers; w++ {
		iterations := opts.N / workers
		if w < opts.N%workers {
			iterations++
		}

		wg.Add(1)
		go func(w, start, iterations int) {
			defer wg.Done()
			results[w] = runShard(ctx, ev, bindings, outputs, seed, start, iterations)
		}(w, start, iterations)
		start += iterations
	}
	wg.Wait()

	// Merge partial accumulators in worker order via the closed-form Welford
	// combination, never by re-averaging.
	merged := make(map[string]*Accumulator, len(outputs))
	for _, key := range outputs {
		merged[key] = NewAccumulator()
	}
	failures := 0
	var causes []error
	for _, res := range results {
		if res.err != nil {
			return nil, res.err
		}
		failures += res.failures
		for _, c := range res.causes {
			if len(causes) < maxSampledCauses {
				causes = append(causes, c)
			}
		}
		for _, key := range outputs {
			merged[key].Merge(res.accs[key])
		}
	}

	if rate := float64(failures) / float64(opts.N); rate > ceiling {
		logger.Warn("Run abandoned, failure rate over ceiling.", "failures", failures, "rate", rate, "ceiling", ceiling)
		return nil, &RunError{
			Iterations: opts.N,
			Failures:   failures,
			Ceiling:    ceiling,
			Causes:     causes,
		}
	}

	stats := &Stats{
		RunID:      uuid.NewString(),
		Seed:       seed,
		Iterations: opts.N,
		Failures:   failures,
		Outputs:    make(map[string]OutputStats, len(outputs)),
	}
	for _, key := range outputs {
		stats.Outputs[key] = merged[key].Snapshot()
	}
	logger.Debug("Run finished.", "run_id", stats.RunID, "failures", failures)
	return stats, nil
}

// runShard executes one contiguous share of iterations, starting at the
// given global iteration index. Each iteration derives a fresh random stream
// from (seed, index) and hands it to the evaluation; the shard never reads
// that stream afterwards, so a timed-out evaluation keeps exclusive ownership
// of its generator while the loop moves on. An evaluation error is recorded
// as a failure; only context cancellation stops a shard early.
func runShard(ctx context.Context, ev *eval.Evaluator, bindings map[string]cty.Value, outputs []string, seed uint64, start, iterations int) workerResult {
	res := workerResult{accs: make(map[string]*Accumulator, len(outputs))}
	for _, key := range outputs {
		res.accs[key] = NewAccumulator()
	}

	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			res.err = err
			return res
		}

		rng := rand.New(rand.NewPCG(seed, uint64(start+i)))
		out, err := ev.Evaluate(ctx, bindings, rng.Float64)
		if err != nil {
			if ctx.Err() != nil {
				res.err = ctx.Err()
				return res
			}
			res.failures++
			if len(res.causes) < maxSampledCauses {
				res.causes = append(res.causes, err)
			}
			continue
		}
		for _, key := range outputs {
			res.accs[key].Add(out[key])
		}
	}
	return res
}
