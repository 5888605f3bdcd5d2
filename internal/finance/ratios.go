package finance

// RatioInputs holds the income-statement and balance-sheet figures the
// ratio calculation works from. Pointer fields are optional; their ratios
// are reported as absent when the denominator is missing or non-positive.
type RatioInputs struct {
	Revenue            float64
	COGS               float64
	OperatingExpenses  float64
	InterestExpense    float64
	TaxRate            float64
	Equity             *float64
	Assets             *float64
	Debt               *float64
	CurrentAssets      *float64
	CurrentLiabilities *float64
}

// FinancialRatios holds derived margins and balance-sheet ratios. Margins
// are percentages clamped to [-100, 100]; when clamping fired, the raw
// figure was outside the informative range and ClampedMargins names the
// affected fields so callers can flag a data-quality issue.
type FinancialRatios struct {
	Revenue         float64  `json:"revenue"`
	TotalCosts      float64  `json:"costs"`
	GrossMargin     float64  `json:"gross_margin"`
	OperatingMargin float64  `json:"operating_margin"`
	NetMargin       float64  `json:"net_margin"`
	ROE             *float64 `json:"roe,omitempty"`
	ROA             *float64 `json:"roa,omitempty"`
	DebtToEquity    *float64 `json:"debt_to_equity,omitempty"`
	CurrentRatio    *float64 `json:"current_ratio,omitempty"`
	ClampedMargins  []string `json:"clamped_margins,omitempty"`
}

// clampMargin clamps a percentage margin to [-100, 100] and records the
// field name when the raw value was outside that range.
func (r *FinancialRatios) clampMargin(name string, v float64) float64 {
	if v > 100 {
		r.ClampedMargins = append(r.ClampedMargins, name)
		return 100
	}
	if v < -100 {
		r.ClampedMargins = append(r.ClampedMargins, name)
		return -100
	}
	return v
}

// ComputeRatios derives margin and balance-sheet ratios from the inputs.
// Margins are zero when revenue is not positive. ROE, ROA, debt-to-equity
// and current ratio are nil unless their denominators are supplied and
// positive — absent, not zero.
func ComputeRatios(in RatioInputs) *FinancialRatios {
	grossProfit := in.Revenue - in.COGS
	operatingIncome := grossProfit - in.OperatingExpenses
	netIncome := operatingIncome - in.InterestExpense - operatingIncome*in.TaxRate

	r := &FinancialRatios{
		Revenue:    in.Revenue,
		TotalCosts: in.COGS + in.OperatingExpenses,
	}

	if in.Revenue > 0 {
		r.GrossMargin = r.clampMargin("gross_margin", grossProfit/in.Revenue*100)
		r.OperatingMargin = r.clampMargin("operating_margin", operatingIncome/in.Revenue*100)
		r.NetMargin = r.clampMargin("net_margin", netIncome/in.Revenue*100)
	}

	if in.Equity != nil && *in.Equity > 0 {
		roe := netIncome / *in.Equity * 100
		r.ROE = &roe
		if in.Debt != nil {
			de := *in.Debt / *in.Equity
			r.DebtToEquity = &de
		}
	}
	if in.Assets != nil && *in.Assets > 0 {
		roa := netIncome / *in.Assets * 100
		r.ROA = &roa
	}
	if in.CurrentLiabilities != nil && *in.CurrentLiabilities > 0 && in.CurrentAssets != nil {
		cr := *in.CurrentAssets / *in.CurrentLiabilities
		r.CurrentRatio = &cr
	}

	return r
}
