package risk

import (
	"errors"
	"math"
	"testing"
)

func metricByName(t *testing.T, metrics []RiskMetric, name string) RiskMetric {
	t.Helper()
	for _, m := range metrics {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("metric %q not found", name)
	return RiskMetric{}
}

func TestComputeMetricsCoreValues(t *testing.T) {
	returns := []float64{0.05, -0.02, 0.03, -0.08, 0.10, 0.01, -0.01, 0.04, -0.03, 0.02}

	metrics, err := ComputeMetrics(returns, 0.95)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(metrics) != 6 {
		t.Fatalf("got %d metrics, want 6", len(metrics))
	}

	varMetric := metricByName(t, metrics, "Value at Risk (VaR)")
	if varMetric.Value != percentile(returns, 5) {
		t.Errorf("VaR = %v, want 5th percentile %v", varMetric.Value, percentile(returns, 5))
	}

	cvarMetric := metricByName(t, metrics, "Conditional Value at Risk (CVaR)")
	if cvarMetric.Value > varMetric.Value {
		t.Errorf("CVaR %v must not exceed VaR %v", cvarMetric.Value, varMetric.Value)
	}

	volMetric := metricByName(t, metrics, "Volatility")
	if volMetric.Value != populationStdDev(returns) {
		t.Errorf("volatility = %v, want %v", volMetric.Value, populationStdDev(returns))
	}

	ddMetric := metricByName(t, metrics, "Maximum Drawdown")
	if ddMetric.Value > 0 {
		t.Errorf("max drawdown = %v, want <= 0", ddMetric.Value)
	}
	if ddMetric.ConfidenceLevel != 1.0 {
		t.Errorf("drawdown confidence = %v, want 1.0", ddMetric.ConfidenceLevel)
	}

	for _, m := range metrics {
		if m.Methodology == "" {
			t.Errorf("%s: empty methodology", m.Name)
		}
		if len(m.Assumptions) == 0 {
			t.Errorf("%s: no assumptions recorded", m.Name)
		}
	}
}

func TestComputeMetricsMonotoneSeriesNoDrawdown(t *testing.T) {
	increasing := []float64{0.01, 0.02, 0.01, 0.03, 0.02}

	metrics, err := ComputeMetrics(increasing, 0.95)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dd := metricByName(t, metrics, "Maximum Drawdown")
	if dd.Value != 0 {
		t.Errorf("max drawdown = %v for all-positive returns, want 0", dd.Value)
	}
}

func TestComputeMetricsSkewSign(t *testing.T) {
	// One large negative outlier among small positives: left-skewed.
	leftSkewed := []float64{0.02, 0.01, 0.02, 0.03, 0.01, 0.02, -0.30}

	metrics, err := ComputeMetrics(leftSkewed, 0.95)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	skew := metricByName(t, metrics, "Skewness")
	if skew.Value >= 0 {
		t.Errorf("skewness = %v for left-skewed data, want negative", skew.Value)
	}
}

func TestComputeMetricsConstantSeries(t *testing.T) {
	constant := []float64{0.01, 0.01, 0.01, 0.01}

	metrics, err := ComputeMetrics(constant, 0.95)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v := metricByName(t, metrics, "Volatility").Value; v != 0 {
		t.Errorf("volatility = %v for constant series, want 0", v)
	}
	if s := metricByName(t, metrics, "Skewness").Value; s != 0 {
		t.Errorf("skewness = %v for constant series, want 0", s)
	}
	if k := metricByName(t, metrics, "Kurtosis").Value; k != 0 {
		t.Errorf("kurtosis = %v for constant series, want 0", k)
	}
}

func TestComputeMetricsInvalidInputs(t *testing.T) {
	if _, err := ComputeMetrics(nil, 0.95); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("empty data: got err %v, want ErrInvalidArgument", err)
	}
	for _, level := range []float64{0, 1, -0.5, 1.5} {
		if _, err := ComputeMetrics([]float64{0.01}, level); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("confidence %v: got err %v, want ErrInvalidArgument", level, err)
		}
	}
}

func TestMaxDrawdownKnownValue(t *testing.T) {
	// Cumulative path: 10, 15, 9, 12. Peak 15, trough 9.
	series := []float64{10, 5, -6, 3}
	want := (9.0 - 15.0) / 15.0

	if got := maxDrawdown(series); math.Abs(got-want) > 1e-12 {
		t.Errorf("maxDrawdown = %v, want %v", got, want)
	}
}
