// Package finance implements the time-value-of-money toolkit used by the
// investor agent: NPV, IRR, payback analysis, break-even analysis, financial
// ratios, and investment performance metrics.
//
// All functions are pure and safe for concurrent use. Invalid inputs fail
// eagerly with ErrInvalidArgument; outcomes that legitimately may not exist
// (IRR convergence, payback recovery) are reported through an ok bool, not
// an error.
package finance

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ErrInvalidArgument is returned when an input violates a precondition.
var ErrInvalidArgument = errors.New("finance: invalid argument")

// CashFlowSeries is an ordered sequence of signed cash flows indexed by
// period. Period 0 is the initial outlay, typically negative.
type CashFlowSeries []float64

// Tolerance and iteration bounds for the IRR root finder.
const (
	irrTolerance    = 1e-6
	irrInitialGuess = 0.10
	irrRateFloor    = -0.99
	// DefaultIRRIterations bounds the Newton-Raphson search.
	DefaultIRRIterations = 100
)

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
