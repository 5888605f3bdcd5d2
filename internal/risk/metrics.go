package risk

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// DefaultConfidenceLevel is used when the caller does not specify one.
const DefaultConfidenceLevel = 0.95

// RiskMetric is one named risk statistic. Each metric carries its own
// methodology, assumptions, and limitations so it can be surfaced without
// re-deriving provenance.
type RiskMetric struct {
	Name            string   `json:"metric_name"`
	Value           float64  `json:"value"`
	ConfidenceLevel float64  `json:"confidence_level"`
	Methodology     string   `json:"methodology"`
	Assumptions     []string `json:"assumptions"`
	Limitations     []string `json:"limitations,omitempty"`
}

// ComputeMetrics derives the standard set of risk statistics from a
// historical return series: VaR, CVaR, max drawdown, volatility, skewness,
// and excess kurtosis.
func ComputeMetrics(historical []float64, confidenceLevel float64) ([]RiskMetric, error) {
	if len(historical) == 0 {
		return nil, fmt.Errorf("%w: historical data cannot be empty", ErrInvalidArgument)
	}
	if confidenceLevel <= 0 || confidenceLevel >= 1 {
		return nil, fmt.Errorf("%w: confidence level %g outside (0,1)", ErrInvalidArgument, confidenceLevel)
	}

	varValue := percentile(historical, (1-confidenceLevel)*100)

	tailSum, tailCount := 0.0, 0
	for _, v := range historical {
		if v <= varValue {
			tailSum += v
			tailCount++
		}
	}
	cvarValue := varValue
	if tailCount > 0 {
		cvarValue = tailSum / float64(tailCount)
	}

	mean := stat.Mean(historical, nil)
	vol := populationStdDev(historical)

	// Third and fourth standardized moments; kurtosis reported as excess.
	skew, kurt := 0.0, 0.0
	if vol > 0 {
		for _, v := range historical {
			z := (v - mean) / vol
			skew += z * z * z
			kurt += z * z * z * z
		}
		n := float64(len(historical))
		skew /= n
		kurt = kurt/n - 3
	}

	return []RiskMetric{
		{
			Name:            "Value at Risk (VaR)",
			Value:           varValue,
			ConfidenceLevel: confidenceLevel,
			Methodology:     "Historical simulation",
			Assumptions:     []string{"Past performance is representative of future risk"},
			Limitations:     []string{"Does not capture tail risks beyond confidence level"},
		},
		{
			Name:            "Conditional Value at Risk (CVaR)",
			Value:           cvarValue,
			ConfidenceLevel: confidenceLevel,
			Methodology:     "Expected shortfall calculation",
			Assumptions:     []string{"Linear relationship between historical and future losses"},
			Limitations:     []string{"Assumes stable distribution of returns"},
		},
		{
			Name:            "Maximum Drawdown",
			Value:           maxDrawdown(historical),
			ConfidenceLevel: 1.0,
			Methodology:     "Peak-to-trough decline calculation",
			Assumptions:     []string{"Drawdown pattern is representative"},
			Limitations:     []string{"Historical measure may not predict future drawdowns"},
		},
		{
			Name:            "Volatility",
			Value:           vol,
			ConfidenceLevel: confidenceLevel,
			Methodology:     "Standard deviation calculation",
			Assumptions:     []string{"Returns are normally distributed"},
			Limitations:     []string{"May underestimate risk for non-normal distributions"},
		},
		{
			Name:            "Skewness",
			Value:           skew,
			ConfidenceLevel: confidenceLevel,
			Methodology:     "Third moment calculation",
			Assumptions:     []string{"Sample skewness represents population skewness"},
			Limitations:     []string{"Sensitive to outliers"},
		},
		{
			Name:            "Kurtosis",
			Value:           kurt,
			ConfidenceLevel: confidenceLevel,
			Methodology:     "Fourth moment calculation (excess kurtosis)",
			Assumptions:     []string{"Sample kurtosis represents population kurtosis"},
			Limitations:     []string{"Sensitive to outliers"},
		},
	}, nil
}

// maxDrawdown is the minimum of (cumulative - runningPeak) / runningPeak
// over the cumulative-sum series.
func maxDrawdown(series []float64) float64 {
	cumulative := 0.0
	peak := math.Inf(-1)
	maxDD := 0.0
	for _, v := range series {
		cumulative += v
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
