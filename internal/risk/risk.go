// Package risk implements the quantitative risk toolkit used by the analyst
// agent: Monte Carlo simulation over declared probability distributions,
// scenario analysis, sensitivity analysis, historical risk metrics, and the
// aggregation of all of these into a single risk assessment.
//
// Every operation is a pure computation over its inputs. Randomness is
// always drawn from a per-call generator so that concurrent analyses cannot
// interfere with each other; a caller-supplied seed makes a run fully
// reproducible.
package risk

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ErrInvalidArgument is returned when an input violates a precondition.
var ErrInvalidArgument = errors.New("risk: invalid argument")

// ObjectiveFunc maps a set of named variable values to a single outcome,
// e.g. the NPV of a project given sampled revenue and cost values.
type ObjectiveFunc func(values map[string]float64) float64

// OutcomeFunc maps scenario assumptions to a set of named outcome metrics.
type OutcomeFunc func(assumptions map[string]any) map[string]float64

// Interval is a (lower, upper) confidence interval.
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// percentile returns the p-th percentile (p in [0,100]) of data using the
// empirical quantile of the sorted sample.
func percentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return stat.Quantile(p/100, stat.Empirical, sorted, nil)
}

// populationStdDev is the uncorrected (population) standard deviation.
func populationStdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	mean := stat.Mean(data, nil)
	sumSq := 0.0
	for _, v := range data {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(data)))
}
