package runner

import (
	"fmt"
	"math"
	"sort"
)

// Histogram bin count bounds. The count scales with sqrt of the sample size
// between these limits.
const (
	minBins = 5
	maxBins = 20
)

// Accumulator maintains running statistics for one output key using
// Welford's online algorithm for the first two moments, so mean and variance
// never require a second pass. Samples are additionally retained for the
// percentile and histogram computations, which need the full sorted series;
// that is acceptable because iteration counts stay in the low thousands.
//
// Two accumulators over disjoint sample sets combine via Merge, which uses
// the closed-form Welford combination rather than re-averaging averages.
// That property is what makes sharding a run across workers safe.
type Accumulator struct {
	count   int
	mean    float64
	m2      float64
	min     float64
	max     float64
	samples []float64
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Add folds one sample into the running state.
func (a *Accumulator) Add(x float64) {
	a.count++
	delta := x - a.mean
	a.mean += delta / float64(a.count)
	a.m2 += delta * (x - a.mean)

	if a.count == 1 {
		a.min, a.max = x, x
	} else {
		if x < a.min {
			a.min = x
		}
		if x > a.max {
			a.max = x
		}
	}
	a.samples = append(a.samples, x)
}

// Merge folds b into a. Both sides must have accumulated disjoint sample
// sets of the same output key. b is left untouched.
func (a *Accumulator) Merge(b *Accumulator) {
	if b.count == 0 {
		return
	}
	if a.count == 0 {
		a.count = b.count
		a.mean = b.mean
		a.m2 = b.m2
		a.min = b.min
		a.max = b.max
		a.samples = append(a.samples, b.samples...)
		return
	}

	n := float64(a.count + b.count)
	delta := b.mean - a.mean
	a.mean += delta * float64(b.count) / n
	a.m2 += b.m2 + delta*delta*float64(a.count)*float64(b.count)/n
	a.count += b.count

	if b.min < a.min {
		a.min = b.min
	}
	if b.max > a.max {
		a.max = b.max
	}
	a.samples = append(a.samples, b.samples...)
}

// Count returns the number of accumulated samples.
func (a *Accumulator) Count() int { return a.count }

// Mean returns the running mean, or 0 for an empty accumulator.
func (a *Accumulator) Mean() float64 { return a.mean }

// Variance returns the population variance.
func (a *Accumulator) Variance() float64 {
	if a.count == 0 {
		return 0
	}
	return a.m2 / float64(a.count)
}

// StdDev returns the population standard deviation.
func (a *Accumulator) StdDev() float64 {
	return math.Sqrt(a.Variance())
}

// Min returns the smallest accumulated sample.
func (a *Accumulator) Min() float64 { return a.min }

// Max returns the largest accumulated sample.
func (a *Accumulator) Max() float64 { return a.max }

// Snapshot reduces the accumulated state to its reportable form, computing
// percentiles and the histogram from the sorted sample series.
func (a *Accumulator) Snapshot() OutputStats {
	sorted := append([]float64(nil), a.samples...)
	sort.Float64s(sorted)

	return OutputStats{
		Count:  a.count,
		Mean:   a.mean,
		StdDev: a.StdDev(),
		Min:    a.min,
		Max:    a.max,
		Percentiles: Percentiles{
			P10: nearestRank(sorted, 10),
			P50: nearestRank(sorted, 50),
			P90: nearestRank(sorted, 90),
		},
		Histogram: histogram(sorted),
	}
}

// nearestRank returns the p-th percentile of a sorted series using the
// nearest-rank method.
func nearestRank(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	rank := int(math.Ceil(p / 100 * float64(n)))
	if rank < 1 {
		rank = 1
	}
	if rank > n {
		rank = n
	}
	return sorted[rank-1]
}

// histogram buckets a sorted series into equal-width bins. The bin count is
// ceil(sqrt(n)) clamped to [minBins, maxBins]; a series where every sample is
// identical collapses to a single bin labeled with that value.
func histogram(sorted []float64) []Bin {
	n := len(sorted)
	if n == 0 {
		return nil
	}

	lo, hi := sorted[0], sorted[n-1]
	if lo == hi {
		return []Bin{{
			Label: formatBound(lo),
			Lo:    lo,
			Hi:    hi,
			Count: n,
		}}
	}

	count := int(math.Ceil(math.Sqrt(float64(n))))
	if count < minBins {
		count = minBins
	}
	if count > maxBins {
		count = maxBins
	}
	width := (hi - lo) / float64(count)

	bins := make([]Bin, count)
	for i := range bins {
		bLo := lo + float64(i)*width
		bHi := bLo + width
		brace := ")"
		if i == count-1 {
			bHi = hi
			brace = "]"
		}
		bins[i] = Bin{
			Label: fmt.Sprintf("[%s, %s%s", formatBound(bLo), formatBound(bHi), brace),
			Lo:    bLo,
			Hi:    bHi,
		}
	}

	for _, x := range sorted {
		idx := int((x - lo) / width)
		if idx >= count {
			idx = count - 1
		}
		bins[idx].Count++
	}
	return bins
}

func formatBound(v float64) string {
	return fmt.Sprintf("%.4g", v)
}
