package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/strategysim/strategysim/internal/finance"
	"github.com/strategysim/strategysim/pkg/models"
)

// defaultDiscountRate is used when the decision's financial envelope does
// not declare one.
const defaultDiscountRate = 0.10

// InvestorAgent evaluates the decision's financial viability: discounted
// cash flows per option, break-even position, and financial ratios.
type InvestorAgent struct {
	BaseAgent
}

// NewInvestorAgent creates the investor specialist.
func NewInvestorAgent() *InvestorAgent {
	return &InvestorAgent{
		BaseAgent: NewBaseAgent("investor", models.RoleInvestor,
			"Financial viability: NPV, IRR, payback, break-even, ratio analysis"),
	}
}

// Analyze runs the financial toolkit over the decision's envelope and
// option cash flows.
func (a *InvestorAgent) Analyze(ctx context.Context, decision *models.DecisionInput) (*models.AgentAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	analysis := a.begin()

	env := decision.Financials
	if env == nil {
		analysis.Summary = "No financial envelope provided; financial viability cannot be assessed."
		analysis.Recommendation = models.RecommendMoreInfo
		analysis.Confidence = 0.2
		analysis.RiskLevel = models.RiskMedium
		analysis.Concerns = append(analysis.Concerns, "missing financial assumptions")
		return a.finish(analysis, start), nil
	}

	rate := env.DiscountRate
	if rate == 0 {
		rate = defaultDiscountRate
	}

	npvByOption := make(map[string]float64)
	positive, negative := 0, 0
	for _, opt := range decision.Options {
		if len(opt.CashFlows) == 0 {
			continue
		}
		cf, err := finance.AnalyzeCashFlows(opt.CashFlows, rate)
		if err != nil {
			analysis.Concerns = append(analysis.Concerns,
				fmt.Sprintf("option %q: %v", opt.Name, err))
			continue
		}
		analysis.ToolCalls++
		npvByOption[opt.Name] = cf.NPV
		if cf.NPV >= 0 {
			positive++
		} else {
			negative++
		}

		finding := models.Finding{
			Title:  fmt.Sprintf("Option %q NPV", opt.Name),
			Metric: "npv",
			Value:  cf.NPV,
		}
		switch {
		case cf.IRR != nil:
			finding.Detail = fmt.Sprintf("NPV %.0f at %.1f%% discount, IRR %.1f%%", cf.NPV, rate*100, *cf.IRR*100)
		default:
			finding.Detail = fmt.Sprintf("NPV %.0f at %.1f%% discount, IRR did not converge", cf.NPV, rate*100)
		}
		if cf.NPV < 0 {
			finding.Severity = "concern"
		}
		analysis.Findings = append(analysis.Findings, finding)

		if cf.PaybackPeriod == nil {
			analysis.Concerns = append(analysis.Concerns,
				fmt.Sprintf("option %q never recovers its initial outlay", opt.Name))
		}
	}
	analysis.OptionScores = normalizeScores(npvByOption)

	if env.PricePerUnit > 0 {
		be, err := finance.BreakEven(env.FixedCosts, env.VariableCostPerUnit, env.PricePerUnit)
		if err != nil {
			analysis.Concerns = append(analysis.Concerns, err.Error())
		} else {
			analysis.ToolCalls++
			analysis.Metrics["break_even_units"] = be.Units
			analysis.Metrics["contribution_margin"] = be.ContributionMargin
			analysis.Findings = append(analysis.Findings, models.Finding{
				Title:  "Break-even position",
				Detail: fmt.Sprintf("%.0f units (%.0f revenue) to break even", be.Units, be.Revenue),
				Metric: "break_even_units",
				Value:  be.Units,
			})
		}
	}

	if env.Revenue > 0 {
		ratios := finance.ComputeRatios(finance.RatioInputs{
			Revenue:            env.Revenue,
			COGS:               env.COGS,
			OperatingExpenses:  env.OperatingExpenses,
			InterestExpense:    env.InterestExpense,
			TaxRate:            env.TaxRate,
			Equity:             env.Equity,
			Assets:             env.Assets,
			Debt:               env.Debt,
			CurrentAssets:      env.CurrentAssets,
			CurrentLiabilities: env.CurrentLiabilities,
		})
		analysis.ToolCalls++
		analysis.Metrics["gross_margin"] = ratios.GrossMargin
		analysis.Metrics["operating_margin"] = ratios.OperatingMargin
		analysis.Metrics["net_margin"] = ratios.NetMargin
		if ratios.NetMargin < 0 {
			analysis.Concerns = append(analysis.Concerns, "negative net margin at current cost structure")
		}
		for _, clamped := range ratios.ClampedMargins {
			analysis.Concerns = append(analysis.Concerns,
				fmt.Sprintf("margin %q outside plausible range, check input figures", clamped))
		}
		if ratios.DebtToEquity != nil && *ratios.DebtToEquity > 2 {
			analysis.Concerns = append(analysis.Concerns,
				fmt.Sprintf("high leverage: debt/equity %.2f", *ratios.DebtToEquity))
		}
	}

	if len(env.HistoricalReturns) > 0 {
		if initial := largestOptionCost(decision.Options); initial > 0 {
			perf, err := finance.InvestmentMetrics(env.HistoricalReturns, initial, 0.02)
			if err == nil {
				analysis.ToolCalls++
				analysis.Metrics["sharpe_ratio"] = perf.SharpeRatio
				analysis.Metrics["max_drawdown"] = perf.MaxDrawdown
			}
		}
	}

	a.conclude(analysis, len(npvByOption), positive, negative)
	return a.finish(analysis, start), nil
}

// conclude derives the recommendation, confidence and risk level from the
// per-option NPV tallies.
func (a *InvestorAgent) conclude(analysis *models.AgentAnalysis, analyzed, positive, negative int) {
	switch {
	case analyzed == 0:
		analysis.Summary = "No option carried projected cash flows; financial comparison is inconclusive."
		analysis.Recommendation = models.RecommendMoreInfo
		analysis.Confidence = 0.3
		analysis.RiskLevel = models.RiskMedium
	case negative == 0:
		analysis.Summary = fmt.Sprintf("All %d analyzed options have non-negative NPV; the decision is financially sound.", analyzed)
		analysis.Recommendation = models.RecommendProceed
		analysis.Confidence = 0.8
		analysis.RiskLevel = models.RiskLow
	case positive == 0:
		analysis.Summary = fmt.Sprintf("All %d analyzed options destroy value at the assumed discount rate.", analyzed)
		analysis.Recommendation = models.RecommendReject
		analysis.Confidence = 0.75
		analysis.RiskLevel = models.RiskHigh
	default:
		analysis.Summary = fmt.Sprintf("%d of %d analyzed options have positive NPV; choose carefully among them.", positive, analyzed)
		analysis.Recommendation = models.RecommendWithCaution
		analysis.Confidence = 0.6
		analysis.RiskLevel = models.RiskMedium
	}
}

func largestOptionCost(options []models.DecisionOption) float64 {
	largest := 0.0
	for _, opt := range options {
		if opt.EstimatedCost > largest {
			largest = opt.EstimatedCost
		}
	}
	return largest
}
