// Package stats implements the population-wide aggregation passes of the
// risk scoring pipeline: per-account amount statistics, per-user monthly
// volume statistics, and account-pair rarity.
//
// Every statistic here is computed over the full entry population before any
// single entry is scored. The three aggregators are independent reductions
// and safe to run concurrently; their outputs are immutable lookup tables.
package stats

import (
	"math"
	"sort"
)

// Summary holds the mean and population standard deviation of a group.
//
// Stddev is nil — not zero — for a group of size one or a group whose
// variance computes to exactly zero. Nil means "no variance signal
// available"; downstream z-score math treats it identically to zero variance
// but the distinction stays visible in code and tests.
type Summary struct {
	Mean   float64
	Stddev *float64
	N      int
}

// Summarize computes mean and population stddev (denominator N, not N-1)
// over the values. The slice is sorted in place first: float accumulation is
// not associative, and a canonical order keeps results bit-identical no
// matter how the caller grouped the inputs.
func Summarize(values []float64) Summary {
	n := len(values)
	if n == 0 {
		return Summary{}
	}
	sort.Float64s(values)

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	s := Summary{Mean: mean, N: n}
	if n == 1 {
		return s
	}

	var varianceSum float64
	for _, v := range values {
		diff := v - mean
		varianceSum += diff * diff
	}
	sd := math.Sqrt(varianceSum / float64(n))
	if sd == 0 {
		return s
	}
	s.Stddev = &sd
	return s
}

// ZScore returns (v - mean) / stddev, or 0 when no variance signal exists.
// The zero-value Summary (empty group) also yields 0.
func (s Summary) ZScore(v float64) float64 {
	if s.Stddev == nil {
		return 0
	}
	return (v - s.Mean) / *s.Stddev
}
