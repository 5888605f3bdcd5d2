// Package toolkit exposes the quantitative analysis operations as a closed,
// statically-typed catalog. Each operation is an enumerated Op tag bound at
// compile time to a typed request shape and a typed implementation; there is
// no runtime registration and no dispatch by arbitrary name. The catalog's
// JSON-schema metadata exists only to describe the operations to API and
// report consumers.
package toolkit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/strategysim/strategysim/internal/finance"
	"github.com/strategysim/strategysim/internal/risk"
)

// Op identifies one operation in the closed catalog.
type Op uint8

const (
	OpAnalyzeCashFlows Op = iota
	OpBreakEven
	OpFinancialRatios
	OpInvestmentMetrics
	OpMonteCarlo
	OpSensitivity
	OpScenarios
	OpBlackSwans
	OpRiskMetrics
	OpRiskAssessment
	opCount // sentinel, keep last
)

var opNames = [opCount]string{
	OpAnalyzeCashFlows:  "analyze_cash_flows",
	OpBreakEven:         "break_even",
	OpFinancialRatios:   "financial_ratios",
	OpInvestmentMetrics: "investment_metrics",
	OpMonteCarlo:        "monte_carlo_simulation",
	OpSensitivity:       "sensitivity_analysis",
	OpScenarios:         "scenario_analysis",
	OpBlackSwans:        "black_swan_scan",
	OpRiskMetrics:       "risk_metrics",
	OpRiskAssessment:    "risk_assessment",
}

// String returns the operation's wire name.
func (op Op) String() string {
	if op >= opCount {
		return fmt.Sprintf("op(%d)", uint8(op))
	}
	return opNames[op]
}

// ErrUnknownOp is returned when a wire name maps to no catalog operation.
var ErrUnknownOp = fmt.Errorf("toolkit: unknown operation")

// OpFromName resolves a wire name back to its Op tag. Only the API boundary
// needs this; internal callers hold Op values directly.
func OpFromName(name string) (Op, bool) {
	for op, n := range opNames {
		if n == name {
			return Op(op), true
		}
	}
	return opCount, false
}

// Descriptor describes one catalog operation for API and report consumers.
type Descriptor struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Parameters  *Schema `json:"parameters"`
}

// Catalog returns descriptors for every operation, in Op order.
func Catalog() []Descriptor {
	return []Descriptor{
		{
			Name:        OpAnalyzeCashFlows.String(),
			Description: "Discounted cash flow analysis: NPV, IRR, payback periods, profitability index",
			Parameters: ObjectSchema("cash flow analysis parameters", map[string]*Schema{
				"cash_flows":    NumberArrayProp("cash flow series, initial outlay first (negative)"),
				"discount_rate": NumberProp("per-period discount rate, e.g. 0.10"),
			}, "cash_flows", "discount_rate"),
		},
		{
			Name:        OpBreakEven.String(),
			Description: "Break-even units and revenue with contribution margin and operating leverage",
			Parameters: ObjectSchema("break-even parameters", map[string]*Schema{
				"fixed_costs":            NumberProp("total fixed costs per period"),
				"variable_cost_per_unit": NumberProp("variable cost per unit"),
				"price_per_unit":         NumberProp("selling price per unit"),
			}, "fixed_costs", "variable_cost_per_unit", "price_per_unit"),
		},
		{
			Name:        OpFinancialRatios.String(),
			Description: "Margin and balance-sheet ratio analysis from income-statement figures",
			Parameters: ObjectSchema("ratio analysis parameters", map[string]*Schema{
				"revenue":             NumberProp("total revenue"),
				"cogs":                NumberProp("cost of goods sold"),
				"operating_expenses":  NumberProp("operating expenses"),
				"interest_expense":    NumberProp("interest expense"),
				"tax_rate":            NumberProp("effective tax rate, e.g. 0.25"),
				"equity":              NumberProp("shareholder equity (optional)"),
				"assets":              NumberProp("total assets (optional)"),
				"debt":                NumberProp("total debt (optional)"),
				"current_assets":      NumberProp("current assets (optional)"),
				"current_liabilities": NumberProp("current liabilities (optional)"),
			}, "revenue", "cogs", "operating_expenses"),
		},
		{
			Name:        OpInvestmentMetrics.String(),
			Description: "Performance statistics over periodic returns: annualized return, Sharpe, drawdown, VaR",
			Parameters: ObjectSchema("investment metrics parameters", map[string]*Schema{
				"returns":            NumberArrayProp("periodic return series"),
				"initial_investment": NumberProp("initial invested amount"),
				"risk_free_rate":     NumberProp("per-period risk-free rate"),
			}, "returns", "initial_investment"),
		},
		{
			Name:        OpMonteCarlo.String(),
			Description: "Monte Carlo simulation over declared probability distributions",
			Parameters: ObjectSchema("simulation parameters", map[string]*Schema{
				"variables":  ArrayProp("risk variable declarations", variableSchema()),
				"objective":  objectiveSchema(),
				"iterations": IntProp("number of trials, minimum 1000, default 10000"),
				"seed":       IntProp("random seed for reproducible runs (optional)"),
			}, "variables"),
		},
		{
			Name:        OpSensitivity.String(),
			Description: "Sensitivity analysis with tornado-chart ranking and elasticity measures",
			Parameters: ObjectSchema("sensitivity parameters", map[string]*Schema{
				"base_inputs":     ObjectSchema("base-case value per variable", nil),
				"variable_ranges": ObjectSchema("min/max test range per variable", nil),
				"objective":       objectiveSchema(),
				"num_points":      IntProp("test points per variable, default 10"),
			}, "base_inputs", "variable_ranges"),
		},
		{
			Name:        OpScenarios.String(),
			Description: "Scenario evaluation by overlaying assumption overrides on a base case",
			Parameters: ObjectSchema("scenario parameters", map[string]*Schema{
				"base_assumptions": ObjectSchema("base-case assumptions", nil),
				"scenarios":        ArrayProp("scenario definitions", scenarioSchema()),
				"objective":        objectiveSchema(),
			}, "base_assumptions", "scenarios"),
		},
		{
			Name:        OpBlackSwans.String(),
			Description: "Low-probability high-impact event catalogue adjusted for industry and horizon",
			Parameters: ObjectSchema("black swan parameters", map[string]*Schema{
				"decision_context": StringProp("free-text description of the decision"),
				"industry":         StringProp("industry, e.g. technology, healthcare, financial"),
				"time_horizon":     StringProp("time horizon, e.g. short_term, long_term"),
			}, "decision_context"),
		},
		{
			Name:        OpRiskMetrics.String(),
			Description: "Historical risk metrics: VaR, CVaR, max drawdown, volatility, skewness, kurtosis",
			Parameters: ObjectSchema("risk metric parameters", map[string]*Schema{
				"historical_data":  NumberArrayProp("historical return series"),
				"confidence_level": NumberProp("confidence level in (0,1), default 0.95"),
			}, "historical_data"),
		},
		{
			Name:        OpRiskAssessment.String(),
			Description: "Composite risk assessment: simulation, scenarios, sensitivity, metrics, overall score",
			Parameters: ObjectSchema("assessment parameters", map[string]*Schema{
				"decision_context": StringProp("free-text description of the decision"),
				"variables":        ArrayProp("risk variable declarations", variableSchema()),
				"objective":        objectiveSchema(),
				"base_inputs":      ObjectSchema("base-case value per variable", nil),
				"scenarios":        ArrayProp("scenario definitions", scenarioSchema()),
				"historical_data":  NumberArrayProp("historical return series (optional)"),
				"iterations":       IntProp("simulation trials, minimum 1000"),
				"seed":             IntProp("random seed (optional)"),
			}, "decision_context", "variables", "base_inputs"),
		},
	}
}

func variableSchema() *Schema {
	return ObjectSchema("one stochastic input variable", map[string]*Schema{
		"name":         StringProp("unique variable name"),
		"distribution": EnumProp("distribution kind", "normal", "uniform", "triangular", "beta", "exponential", "lognormal"),
		"parameters":   ObjectSchema("distribution parameters keyed by name", nil),
	}, "name", "distribution", "parameters")
}

func objectiveSchema() *Schema {
	return ObjectSchema("linear objective: constant + sum of coefficient*value", map[string]*Schema{
		"coefficients": ObjectSchema("weight per variable, default 1", nil),
		"constant":     NumberProp("constant term"),
	})
}

func scenarioSchema() *Schema {
	return ObjectSchema("one scenario definition", map[string]*Schema{
		"name":          StringProp("scenario name"),
		"scenario_type": EnumProp("scenario kind", "best_case", "base_case", "worst_case", "stress_test", "black_swan"),
		"assumptions":   ObjectSchema("assumption overrides merged onto the base case", nil),
		"probability":   NumberProp("scenario probability in [0,1]"),
	}, "name", "probability")
}

// Invoke decodes args into the operation's typed request and runs it. The
// switch is the entire dispatch surface: adding an operation means adding
// an Op constant, a request type, and a case here.
func Invoke(ctx context.Context, op Op, args json.RawMessage) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch op {
	case OpAnalyzeCashFlows:
		var req CashFlowRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		}
		return finance.AnalyzeCashFlows(req.CashFlows, req.DiscountRate)

	case OpBreakEven:
		var req BreakEvenRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		}
		return finance.BreakEven(req.FixedCosts, req.VariableCostPerUnit, req.PricePerUnit)

	case OpFinancialRatios:
		var req RatioRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		}
		return finance.ComputeRatios(finance.RatioInputs{
			Revenue:            req.Revenue,
			COGS:               req.COGS,
			OperatingExpenses:  req.OperatingExpenses,
			InterestExpense:    req.InterestExpense,
			TaxRate:            req.TaxRate,
			Equity:             req.Equity,
			Assets:             req.Assets,
			Debt:               req.Debt,
			CurrentAssets:      req.CurrentAssets,
			CurrentLiabilities: req.CurrentLiabilities,
		}), nil

	case OpInvestmentMetrics:
		var req PerformanceRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		}
		return finance.InvestmentMetrics(req.Returns, req.InitialInvestment, req.RiskFreeRate)

	case OpMonteCarlo:
		var req SimulationRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		}
		return risk.Simulate(req.Variables, req.Objective.Func(), risk.SimulationOptions{
			Iterations: req.Iterations,
			Seed:       req.Seed,
		})

	case OpSensitivity:
		var req SensitivityRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		}
		return risk.Sensitivity(req.BaseInputs, req.Ranges, req.Objective.Func(), req.NumPoints)

	case OpScenarios:
		var req ScenarioRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		}
		objective := req.Objective.Func()
		return risk.AnalyzeScenarios(req.BaseAssumptions, req.Scenarios, func(assumptions map[string]any) map[string]float64 {
			return map[string]float64{"outcome": objective(NumericAssumptions(assumptions))}
		})

	case OpBlackSwans:
		var req BlackSwanRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		}
		return risk.IdentifyBlackSwans(req.DecisionContext, req.Industry, req.TimeHorizon), nil

	case OpRiskMetrics:
		var req MetricsRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		}
		level := req.ConfidenceLevel
		if level == 0 {
			level = risk.DefaultConfidenceLevel
		}
		return risk.ComputeMetrics(req.HistoricalData, level)

	case OpRiskAssessment:
		var req AssessmentRequest
		if err := decode(args, &req); err != nil {
			return nil, err
		}
		return risk.Assess(risk.AssessmentRequest{
			Context:        req.Context,
			Variables:      req.Variables,
			Objective:      req.Objective.Func(),
			BaseInputs:     req.BaseInputs,
			Scenarios:      req.Scenarios,
			HistoricalData: req.HistoricalData,
			Iterations:     req.Iterations,
			Seed:           req.Seed,
		})

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownOp, op)
	}
}

// NumericAssumptions extracts the float-convertible entries of a scenario
// assumption map for objective evaluation.
func NumericAssumptions(assumptions map[string]any) map[string]float64 {
	out := make(map[string]float64, len(assumptions))
	for k, v := range assumptions {
		switch n := v.(type) {
		case float64:
			out[k] = n
		case float32:
			out[k] = float64(n)
		case int:
			out[k] = float64(n)
		case int64:
			out[k] = float64(n)
		}
	}
	return out
}

func decode(args json.RawMessage, into any) error {
	if err := json.Unmarshal(args, into); err != nil {
		return fmt.Errorf("toolkit: decoding arguments: %w", err)
	}
	return nil
}
