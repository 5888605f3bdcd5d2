package finance

import (
	"errors"
	"math"
	"testing"
)

const tol = 1e-6

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// ── NPV ──

func TestNPVZeroRateEqualsSum(t *testing.T) {
	tests := []struct {
		name  string
		flows CashFlowSeries
	}{
		{"standard project", CashFlowSeries{-100000, 30000, 35000, 40000, 45000}},
		{"all negative", CashFlowSeries{-10, -20, -30}},
		{"single flow", CashFlowSeries{42}},
		{"mixed signs", CashFlowSeries{-5, 10, -3, 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := 0.0
			for _, cf := range tt.flows {
				sum += cf
			}
			npv, err := NPV(tt.flows, 0)
			if err != nil {
				t.Fatalf("NPV: %v", err)
			}
			if !almostEqual(npv, sum, 1e-9) {
				t.Errorf("NPV at rate 0: got %v, want sum %v", npv, sum)
			}
		})
	}
}

func TestNPVKnownValues(t *testing.T) {
	flows := CashFlowSeries{-100000, 30000, 35000, 40000, 45000}

	npv, err := NPV(flows, 0.10)
	if err != nil {
		t.Fatalf("NPV: %v", err)
	}
	if npv <= 0 {
		t.Errorf("NPV at 10%%: got %v, want positive", npv)
	}
	if !almostEqual(npv, 16986.54, 1.0) {
		t.Errorf("NPV at 10%%: got %v, want ~16986.54", npv)
	}

	npv, err = NPV(flows, 0.50)
	if err != nil {
		t.Fatalf("NPV: %v", err)
	}
	if npv >= 0 {
		t.Errorf("NPV at 50%%: got %v, want negative", npv)
	}
}

func TestNPVInvalidInputs(t *testing.T) {
	if _, err := NPV(nil, 0.1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("empty flows: got %v, want ErrInvalidArgument", err)
	}
	if _, err := NPV(CashFlowSeries{-100, 50}, -0.05); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("negative rate: got %v, want ErrInvalidArgument", err)
	}
}

// ── IRR ──

func TestIRRSimpleTwoFlow(t *testing.T) {
	// For [-A, B] the IRR is exactly B/A - 1.
	tests := []struct {
		a, b float64
	}{
		{100, 110},
		{100, 150},
		{50000, 60000},
		{1, 2},
	}

	for _, tt := range tests {
		irr, ok := IRR(CashFlowSeries{-tt.a, tt.b}, 0)
		if !ok {
			t.Fatalf("IRR(-%v, %v) did not converge", tt.a, tt.b)
		}
		want := tt.b/tt.a - 1
		if !almostEqual(irr, want, tol) {
			t.Errorf("IRR(-%v, %v): got %v, want %v", tt.a, tt.b, irr, want)
		}
	}
}

func TestIRRZeroNPVAtSolution(t *testing.T) {
	flows := CashFlowSeries{-100000, 30000, 35000, 40000, 45000}
	irr, ok := IRR(flows, 0)
	if !ok {
		t.Fatal("IRR did not converge")
	}
	npv, _ := npvAt(flows, irr)
	if !almostEqual(npv, 0, 1e-3) {
		t.Errorf("NPV at IRR %v: got %v, want ~0", irr, npv)
	}
}

func TestIRRNoSolution(t *testing.T) {
	if _, ok := IRR(CashFlowSeries{-100}, 0); ok {
		t.Error("IRR with a single flow should not converge")
	}
	// All-negative flows have no root.
	if irr, ok := IRR(CashFlowSeries{-100, -50, -25}, 0); ok {
		t.Errorf("all-negative flows: got IRR %v, want no convergence", irr)
	}
}

// ── Payback ──

func TestPaybackPeriodExact(t *testing.T) {
	pb, ok := PaybackPeriod(CashFlowSeries{-100000, 25000, 25000, 25000, 25000})
	if !ok {
		t.Fatal("payback should be reached")
	}
	if !almostEqual(pb, 4.0, tol) {
		t.Errorf("payback: got %v, want 4.0", pb)
	}
}

func TestPaybackPeriodInterpolated(t *testing.T) {
	// Cumulative: -100, -40, +30 -> crosses during period 2.
	pb, ok := PaybackPeriod(CashFlowSeries{-100, 60, 70})
	if !ok {
		t.Fatal("payback should be reached")
	}
	// 1 + 40/70 of the second year.
	if !almostEqual(pb, 1+40.0/70.0, tol) {
		t.Errorf("payback: got %v, want %v", pb, 1+40.0/70.0)
	}
}

func TestPaybackPeriodNeverRecovered(t *testing.T) {
	if _, ok := PaybackPeriod(CashFlowSeries{-100, 10, 10}); ok {
		t.Error("payback should never be reached")
	}
}

func TestPaybackPeriodImmediate(t *testing.T) {
	pb, ok := PaybackPeriod(CashFlowSeries{100, -20})
	if !ok || pb != 0 {
		t.Errorf("positive initial flow: got (%v, %v), want (0, true)", pb, ok)
	}
}

func TestDiscountedPaybackLaterThanSimple(t *testing.T) {
	flows := CashFlowSeries{-100000, 40000, 40000, 40000, 40000}
	pb, ok := PaybackPeriod(flows)
	if !ok {
		t.Fatal("payback should be reached")
	}
	dpb, ok := DiscountedPaybackPeriod(flows, 0.10)
	if !ok {
		t.Fatal("discounted payback should be reached")
	}
	if dpb <= pb {
		t.Errorf("discounted payback %v should exceed simple payback %v", dpb, pb)
	}
}

// ── Profitability Index ──

func TestProfitabilityIndexAgreesWithNPVSign(t *testing.T) {
	tests := []struct {
		name  string
		flows CashFlowSeries
		rate  float64
	}{
		{"value creating", CashFlowSeries{-100000, 30000, 35000, 40000, 45000}, 0.10},
		{"value destroying", CashFlowSeries{-100000, 30000, 35000, 40000, 45000}, 0.50},
		{"marginal", CashFlowSeries{-100, 50, 60}, 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			npv, err := NPV(tt.flows, tt.rate)
			if err != nil {
				t.Fatalf("NPV: %v", err)
			}
			pi, err := ProfitabilityIndex(tt.flows, tt.rate)
			if err != nil {
				t.Fatalf("PI: %v", err)
			}
			if (pi > 1) != (npv > 0) {
				t.Errorf("PI %v and NPV %v disagree on value creation", pi, npv)
			}
		})
	}
}

func TestProfitabilityIndexZeroInitialOutlay(t *testing.T) {
	pi, err := ProfitabilityIndex(CashFlowSeries{0, 100}, 0.10)
	if err != nil {
		t.Fatalf("PI: %v", err)
	}
	if !math.IsInf(pi, 1) {
		t.Errorf("PI with zero initial outlay: got %v, want +Inf", pi)
	}
}

// ── AnalyzeCashFlows ──

func TestAnalyzeCashFlows(t *testing.T) {
	flows := CashFlowSeries{-100000, 30000, 35000, 40000, 45000}
	a, err := AnalyzeCashFlows(flows, 0.10)
	if err != nil {
		t.Fatalf("AnalyzeCashFlows: %v", err)
	}
	if a.NPV <= 0 {
		t.Errorf("NPV: got %v, want positive", a.NPV)
	}
	if a.IRR == nil {
		t.Fatal("IRR should converge for this series")
	}
	if *a.IRR <= 0.10 {
		t.Errorf("IRR %v should exceed the 10%% discount rate for a positive-NPV project", *a.IRR)
	}
	if a.PaybackPeriod == nil || a.DiscountedPayback == nil {
		t.Fatal("payback periods should be reached")
	}
	if *a.DiscountedPayback < *a.PaybackPeriod {
		t.Errorf("discounted payback %v should not precede simple payback %v",
			*a.DiscountedPayback, *a.PaybackPeriod)
	}
}

func TestAnalyzeCashFlowsNonConvergent(t *testing.T) {
	a, err := AnalyzeCashFlows(CashFlowSeries{-100, 10, 10}, 0.10)
	if err != nil {
		t.Fatalf("AnalyzeCashFlows: %v", err)
	}
	if a.PaybackPeriod != nil {
		t.Errorf("payback: got %v, want absent", *a.PaybackPeriod)
	}
}

// ── Break-even ──

func TestBreakEven(t *testing.T) {
	be, err := BreakEven(50000, 10, 25)
	if err != nil {
		t.Fatalf("BreakEven: %v", err)
	}
	if !almostEqual(be.Units, 3333.3333333, 1e-4) {
		t.Errorf("units: got %v, want ~3333.33", be.Units)
	}
	if !almostEqual(be.Revenue, 83333.3333333, 1e-3) {
		t.Errorf("revenue: got %v, want ~83333.33", be.Revenue)
	}
	if be.ContributionMargin != 15 {
		t.Errorf("contribution margin: got %v, want 15", be.ContributionMargin)
	}
	if !almostEqual(be.ContributionMarginRatio, 0.6, tol) {
		t.Errorf("contribution margin ratio: got %v, want 0.6", be.ContributionMarginRatio)
	}
	if !math.IsInf(be.OperatingLeverage, 1) {
		t.Errorf("operating leverage: got %v, want +Inf when margin <= fixed costs", be.OperatingLeverage)
	}
}

func TestBreakEvenInvalidPricing(t *testing.T) {
	tests := []struct {
		name             string
		variableCost, price float64
	}{
		{"price equals cost", 10, 10},
		{"price below cost", 10, 8},
		{"zero price", 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BreakEven(1000, tt.variableCost, tt.price); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("got %v, want ErrInvalidArgument", err)
			}
		})
	}
}

// ── Ratios ──

func TestComputeRatios(t *testing.T) {
	equity := 200000.0
	assets := 500000.0
	debt := 80000.0
	ca := 120000.0
	cl := 70000.0

	r := ComputeRatios(RatioInputs{
		Revenue:            250000,
		COGS:               150000,
		OperatingExpenses:  50000,
		InterestExpense:    5000,
		TaxRate:            0.25,
		Equity:             &equity,
		Assets:             &assets,
		Debt:               &debt,
		CurrentAssets:      &ca,
		CurrentLiabilities: &cl,
	})

	if !almostEqual(r.GrossMargin, 40, tol) {
		t.Errorf("gross margin: got %v, want 40", r.GrossMargin)
	}
	if !almostEqual(r.OperatingMargin, 20, tol) {
		t.Errorf("operating margin: got %v, want 20", r.OperatingMargin)
	}
	if r.NetMargin >= r.OperatingMargin {
		t.Errorf("net margin %v should be below operating margin %v", r.NetMargin, r.OperatingMargin)
	}
	if r.ROE == nil || *r.ROE <= 0 {
		t.Error("ROE should be present and positive")
	}
	if r.ROA == nil || *r.ROA <= 0 {
		t.Error("ROA should be present and positive")
	}
	if r.DebtToEquity == nil || !almostEqual(*r.DebtToEquity, 0.4, tol) {
		t.Errorf("debt-to-equity: got %v, want 0.4", r.DebtToEquity)
	}
	if r.CurrentRatio == nil || !almostEqual(*r.CurrentRatio, 120.0/70.0, tol) {
		t.Errorf("current ratio: got %v, want %v", r.CurrentRatio, 120.0/70.0)
	}
	if len(r.ClampedMargins) != 0 {
		t.Errorf("no margins should be clamped, got %v", r.ClampedMargins)
	}
}

func TestComputeRatiosOptionalAbsent(t *testing.T) {
	r := ComputeRatios(RatioInputs{Revenue: 1000, COGS: 600, OperatingExpenses: 200})

	if r.ROE != nil || r.ROA != nil || r.DebtToEquity != nil || r.CurrentRatio != nil {
		t.Error("balance-sheet ratios should be absent without denominators")
	}
}

func TestComputeRatiosClamping(t *testing.T) {
	// COGS far above revenue drives the margins below -100%.
	r := ComputeRatios(RatioInputs{Revenue: 100, COGS: 400, OperatingExpenses: 50})

	if r.GrossMargin != -100 {
		t.Errorf("gross margin: got %v, want clamped -100", r.GrossMargin)
	}
	if len(r.ClampedMargins) == 0 {
		t.Error("clamped margins should be flagged")
	}
}

// ── Investment performance ──

func TestInvestmentMetrics(t *testing.T) {
	returns := []float64{0.02, 0.03, -0.01, 0.04, 0.01}
	p, err := InvestmentMetrics(returns, 1000, 0.0)
	if err != nil {
		t.Fatalf("InvestmentMetrics: %v", err)
	}
	if !almostEqual(p.TotalReturns, 0.09, tol) {
		t.Errorf("total returns: got %v, want 0.09", p.TotalReturns)
	}
	if p.Volatility <= 0 {
		t.Errorf("volatility: got %v, want positive", p.Volatility)
	}
	if p.MaxDrawdown > 0 {
		t.Errorf("max drawdown: got %v, want <= 0", p.MaxDrawdown)
	}
}

func TestInvestmentMetricsInvalid(t *testing.T) {
	if _, err := InvestmentMetrics(nil, 1000, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("empty returns: got %v, want ErrInvalidArgument", err)
	}
	if _, err := InvestmentMetrics([]float64{0.1}, 0, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("zero investment: got %v, want ErrInvalidArgument", err)
	}
}

func TestMaxDrawdownMonotone(t *testing.T) {
	if dd := MaxDrawdown([]float64{0.01, 0.02, 0.03, 0.04}); dd != 0 {
		t.Errorf("monotone increasing series: got %v, want 0", dd)
	}
}
