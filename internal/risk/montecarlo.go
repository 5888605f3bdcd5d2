package risk

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// MinIterations is the smallest statistically acceptable simulation size.
// Runs below this are rejected as unreliable.
const MinIterations = 1000

// DefaultIterations is the simulation size used when none is specified.
const DefaultIterations = 10000

// SimulationOptions configures one Monte Carlo run.
type SimulationOptions struct {
	// Iterations is the number of trials; defaults to DefaultIterations
	// when zero, rejected when below MinIterations.
	Iterations int
	// Seed makes the run reproducible. Nil seeds from the wall clock.
	Seed *int64
}

// MonteCarloResult is the immutable summary of one simulation run.
type MonteCarloResult struct {
	Iterations          int                 `json:"iterations"`
	Mean                float64             `json:"mean"`
	StdDev              float64             `json:"std_dev"`
	Percentiles         map[string]float64  `json:"percentiles"`
	VaR95               float64             `json:"var_95"`
	CVaR95              float64             `json:"cvar_95"`
	ProbabilityNegative float64             `json:"probability_negative"`
	ConfidenceIntervals map[string]Interval `json:"confidence_intervals"`
}

// Simulate draws opts.Iterations samples of the declared risk variables,
// evaluates the objective for each draw, and summarizes the outcome
// distribution. The objective sees one map per trial keyed by variable name.
func Simulate(vars []RiskVariable, objective ObjectiveFunc, opts SimulationOptions) (*MonteCarloResult, error) {
	if opts.Iterations == 0 {
		opts.Iterations = DefaultIterations
	}
	if opts.Iterations < MinIterations {
		return nil, fmt.Errorf("%w: monte carlo simulation requires at least %d iterations, got %d",
			ErrInvalidArgument, MinIterations, opts.Iterations)
	}
	if objective == nil {
		return nil, fmt.Errorf("%w: objective function cannot be nil", ErrInvalidArgument)
	}
	if err := validateVariables(vars); err != nil {
		return nil, err
	}

	seed := uint64(time.Now().UnixNano())
	if opts.Seed != nil {
		seed = uint64(*opts.Seed)
	}
	src := rand.NewSource(seed)

	type namedSampler struct {
		name string
		rnd  distuv.Rander
	}
	samplers := make([]namedSampler, len(vars))
	for i, v := range vars {
		rnd, err := v.sampler(src)
		if err != nil {
			return nil, err
		}
		samplers[i] = namedSampler{name: v.Name, rnd: rnd}
	}

	outcomes := make([]float64, opts.Iterations)
	values := make(map[string]float64, len(vars))
	for i := 0; i < opts.Iterations; i++ {
		for _, s := range samplers {
			values[s.name] = s.rnd.Rand()
		}
		outcomes[i] = objective(values)
	}

	return summarize(outcomes), nil
}

// summarize computes the full statistical summary of a set of outcomes.
func summarize(outcomes []float64) *MonteCarloResult {
	mean := stat.Mean(outcomes, nil)

	varAt95 := percentile(outcomes, 5)

	// CVaR is the mean of the tail at or below VaR.
	tailSum, tailCount := 0.0, 0
	negatives := 0
	for _, o := range outcomes {
		if o <= varAt95 {
			tailSum += o
			tailCount++
		}
		if o < 0 {
			negatives++
		}
	}
	cvar := varAt95
	if tailCount > 0 {
		cvar = tailSum / float64(tailCount)
	}

	return &MonteCarloResult{
		Iterations: len(outcomes),
		Mean:       mean,
		StdDev:     populationStdDev(outcomes),
		Percentiles: map[string]float64{
			"p5":  percentile(outcomes, 5),
			"p10": percentile(outcomes, 10),
			"p25": percentile(outcomes, 25),
			"p50": percentile(outcomes, 50),
			"p75": percentile(outcomes, 75),
			"p90": percentile(outcomes, 90),
			"p95": percentile(outcomes, 95),
		},
		VaR95:               varAt95,
		CVaR95:              cvar,
		ProbabilityNegative: float64(negatives) / float64(len(outcomes)),
		ConfidenceIntervals: map[string]Interval{
			"90%": {Lower: percentile(outcomes, 5), Upper: percentile(outcomes, 95)},
			"95%": {Lower: percentile(outcomes, 2.5), Upper: percentile(outcomes, 97.5)},
			"99%": {Lower: percentile(outcomes, 0.5), Upper: percentile(outcomes, 99.5)},
		},
	}
}
