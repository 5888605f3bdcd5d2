package toolkit

import (
	"github.com/strategysim/strategysim/internal/risk"
)

// Typed request shapes, one per operation. The API and CLI decode incoming
// JSON into these; agents construct them directly.

// CashFlowRequest asks for the full discounted-cash-flow analysis.
type CashFlowRequest struct {
	CashFlows    []float64 `json:"cash_flows"`
	DiscountRate float64   `json:"discount_rate"`
}

// BreakEvenRequest asks for a break-even analysis.
type BreakEvenRequest struct {
	FixedCosts          float64 `json:"fixed_costs"`
	VariableCostPerUnit float64 `json:"variable_cost_per_unit"`
	PricePerUnit        float64 `json:"price_per_unit"`
}

// RatioRequest asks for financial-ratio analysis. Pointer fields are
// optional; ratios depending on absent figures are omitted.
type RatioRequest struct {
	Revenue            float64  `json:"revenue"`
	COGS               float64  `json:"cogs"`
	OperatingExpenses  float64  `json:"operating_expenses"`
	InterestExpense    float64  `json:"interest_expense"`
	TaxRate            float64  `json:"tax_rate"`
	Equity             *float64 `json:"equity,omitempty"`
	Assets             *float64 `json:"assets,omitempty"`
	Debt               *float64 `json:"debt,omitempty"`
	CurrentAssets      *float64 `json:"current_assets,omitempty"`
	CurrentLiabilities *float64 `json:"current_liabilities,omitempty"`
}

// PerformanceRequest asks for investment performance statistics.
type PerformanceRequest struct {
	Returns           []float64 `json:"returns"`
	InitialInvestment float64   `json:"initial_investment"`
	RiskFreeRate      float64   `json:"risk_free_rate"`
}

// ObjectiveSpec is a declarative linear objective for simulation requests
// arriving over the wire: outcome = constant + Σ coefficient_i * value_i.
// Variables without a coefficient contribute with weight 1.
type ObjectiveSpec struct {
	Coefficients map[string]float64 `json:"coefficients,omitempty"`
	Constant     float64            `json:"constant,omitempty"`
}

// Func binds the declared coefficients into an objective function over
// sampled values.
func (s ObjectiveSpec) Func() risk.ObjectiveFunc {
	return func(values map[string]float64) float64 {
		total := s.Constant
		for name, v := range values {
			coeff, ok := s.Coefficients[name]
			if !ok {
				coeff = 1
			}
			total += coeff * v
		}
		return total
	}
}

// SimulationRequest asks for a Monte Carlo run over declared variables.
type SimulationRequest struct {
	Variables  []risk.RiskVariable `json:"variables"`
	Objective  ObjectiveSpec       `json:"objective"`
	Iterations int                 `json:"iterations,omitempty"`
	Seed       *int64              `json:"seed,omitempty"`
}

// SensitivityRequest asks for a sensitivity analysis around a base case.
type SensitivityRequest struct {
	BaseInputs map[string]float64    `json:"base_inputs"`
	Ranges     map[string]risk.Range `json:"variable_ranges"`
	Objective  ObjectiveSpec         `json:"objective"`
	NumPoints  int                   `json:"num_points,omitempty"`
}

// ScenarioRequest asks for scenario evaluation over base assumptions.
type ScenarioRequest struct {
	BaseAssumptions map[string]any            `json:"base_assumptions"`
	Scenarios       []risk.ScenarioDefinition `json:"scenarios"`
	Objective       ObjectiveSpec             `json:"objective"`
}

// BlackSwanRequest asks for the adjusted black-swan catalogue.
type BlackSwanRequest struct {
	DecisionContext string `json:"decision_context"`
	Industry        string `json:"industry,omitempty"`
	TimeHorizon     string `json:"time_horizon,omitempty"`
}

// MetricsRequest asks for historical risk metrics.
type MetricsRequest struct {
	HistoricalData  []float64 `json:"historical_data"`
	ConfidenceLevel float64   `json:"confidence_level,omitempty"`
}

// AssessmentRequest asks for the full composite risk assessment.
type AssessmentRequest struct {
	Context        string                    `json:"decision_context"`
	Variables      []risk.RiskVariable       `json:"variables"`
	Objective      ObjectiveSpec             `json:"objective"`
	BaseInputs     map[string]float64        `json:"base_inputs"`
	Scenarios      []risk.ScenarioDefinition `json:"scenarios,omitempty"`
	HistoricalData []float64                 `json:"historical_data,omitempty"`
	Iterations     int                       `json:"iterations,omitempty"`
	Seed           *int64                    `json:"seed,omitempty"`
}
