package finance

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// InvestmentPerformance summarizes a realized return series against an
// initial investment.
type InvestmentPerformance struct {
	InitialInvestment float64 `json:"initial_investment"`
	TotalReturns      float64 `json:"total_returns"`
	AnnualizedReturn  float64 `json:"annualized_return"`
	Volatility        float64 `json:"volatility"`
	SharpeRatio       float64 `json:"sharpe_ratio"`
	MaxDrawdown       float64 `json:"max_drawdown"`
	VaR95             float64 `json:"var_95"`
}

// InvestmentMetrics computes performance statistics over periodic returns.
// riskFreeRate is per the same periodization as the annualized return.
func InvestmentMetrics(returns []float64, initialInvestment, riskFreeRate float64) (*InvestmentPerformance, error) {
	if len(returns) == 0 {
		return nil, fmt.Errorf("%w: returns cannot be empty", ErrInvalidArgument)
	}
	if initialInvestment <= 0 {
		return nil, fmt.Errorf("%w: initial investment must be positive, got %g", ErrInvalidArgument, initialInvestment)
	}

	total := 0.0
	for _, r := range returns {
		total += r
	}

	periods := float64(len(returns))
	annualized := math.Pow(1+total/initialInvestment, 1/periods) - 1

	volatility := populationStdDev(returns)

	sharpe := 0.0
	if volatility > 0 {
		sharpe = (annualized - riskFreeRate) / volatility
	}

	return &InvestmentPerformance{
		InitialInvestment: initialInvestment,
		TotalReturns:      total,
		AnnualizedReturn:  annualized,
		Volatility:        volatility,
		SharpeRatio:       sharpe,
		MaxDrawdown:       MaxDrawdown(returns),
		VaR95:             percentile(returns, 5),
	}, nil
}

// MaxDrawdown is the worst peak-to-trough decline of the cumulative return
// series, expressed as a (negative or zero) fraction of the running peak.
func MaxDrawdown(returns []float64) float64 {
	cumulative := 0.0
	peak := math.Inf(-1)
	maxDD := 0.0
	for _, r := range returns {
		cumulative += r
		if cumulative > peak {
			peak = cumulative
		}
		if peak != 0 {
			if dd := (cumulative - peak) / peak; dd < maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
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
