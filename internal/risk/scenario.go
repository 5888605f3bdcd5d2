package risk

import (
	"fmt"
	"strings"
)

// ScenarioKind classifies a scenario.
type ScenarioKind string

const (
	ScenarioBestCase   ScenarioKind = "best_case"
	ScenarioBaseCase   ScenarioKind = "base_case"
	ScenarioWorstCase  ScenarioKind = "worst_case"
	ScenarioStressTest ScenarioKind = "stress_test"
	ScenarioBlackSwan  ScenarioKind = "black_swan"
)

// ScenarioDefinition declares one named scenario: assumption overrides
// merged onto the base case plus descriptive metadata.
type ScenarioDefinition struct {
	Name        string         `json:"name"`
	Kind        ScenarioKind   `json:"scenario_type"`
	Assumptions map[string]any `json:"assumptions,omitempty"` // overrides, win on key collision
	Probability float64        `json:"probability"`           // in [0, 1]
	Impact      string         `json:"impact_assessment,omitempty"`
	RiskFactors []string       `json:"risk_factors,omitempty"`
	Mitigations []string       `json:"mitigation_strategies,omitempty"`
}

// ScenarioAnalysis pairs a scenario definition with its computed outcomes
// over the merged assumptions.
type ScenarioAnalysis struct {
	Name        string             `json:"scenario_name"`
	Kind        ScenarioKind       `json:"scenario_type"`
	Assumptions map[string]any     `json:"assumptions"`
	Outcomes    map[string]float64 `json:"outcomes"`
	Probability float64            `json:"probability"`
	Impact      string             `json:"impact_assessment"`
	RiskFactors []string           `json:"risk_factors,omitempty"`
	Mitigations []string           `json:"mitigation_strategies,omitempty"`
}

// AnalyzeScenarios evaluates each scenario by overlaying its assumption
// overrides onto the base assumptions and invoking the outcome calculator
// on the merged map. No aggregation happens across scenarios; that is the
// caller's concern.
func AnalyzeScenarios(base map[string]any, defs []ScenarioDefinition, outcome OutcomeFunc) ([]ScenarioAnalysis, error) {
	if outcome == nil {
		return nil, fmt.Errorf("%w: outcome function cannot be nil", ErrInvalidArgument)
	}

	analyses := make([]ScenarioAnalysis, 0, len(defs))
	for _, def := range defs {
		if strings.TrimSpace(def.Name) == "" {
			return nil, fmt.Errorf("%w: scenario name cannot be empty", ErrInvalidArgument)
		}
		if def.Probability < 0 || def.Probability > 1 {
			return nil, fmt.Errorf("%w: scenario %q probability %g outside [0,1]",
				ErrInvalidArgument, def.Name, def.Probability)
		}

		merged := make(map[string]any, len(base)+len(def.Assumptions))
		for k, v := range base {
			merged[k] = v
		}
		for k, v := range def.Assumptions {
			merged[k] = v
		}

		analyses = append(analyses, ScenarioAnalysis{
			Name:        def.Name,
			Kind:        def.Kind,
			Assumptions: merged,
			Outcomes:    outcome(merged),
			Probability: def.Probability,
			Impact:      def.Impact,
			RiskFactors: def.RiskFactors,
			Mitigations: def.Mitigations,
		})
	}
	return analyses, nil
}

// ── Black swan catalogue ──

// blackSwanTemplate is one entry of the fixed low-probability/high-impact
// event catalogue.
type blackSwanTemplate struct {
	key         string
	description string
	probability float64
	riskFactors []string
	assumptions map[string]any
}

var blackSwanCatalogue = []blackSwanTemplate{
	{
		key:         "pandemic",
		description: "Global pandemic disrupting business operations",
		probability: 0.05,
		riskFactors: []string{"supply_chain_disruption", "demand_shock", "workforce_disruption"},
		assumptions: map[string]any{"revenue_impact": -0.4, "cost_increase": 0.2, "recovery_time": 18},
	},
	{
		key:         "financial_crisis",
		description: "Major financial crisis affecting capital markets",
		probability: 0.10,
		riskFactors: []string{"credit_crunch", "market_volatility", "currency_fluctuation"},
		assumptions: map[string]any{"revenue_impact": -0.3, "financing_cost_increase": 0.5, "recovery_time": 24},
	},
	{
		key:         "cyber_attack",
		description: "Major cyber security breach or attack",
		probability: 0.15,
		riskFactors: []string{"data_breach", "system_downtime", "reputation_damage"},
		assumptions: map[string]any{"revenue_impact": -0.2, "recovery_cost": 1000000.0, "recovery_time": 6},
	},
	{
		key:         "regulatory_shock",
		description: "Sudden major regulatory change",
		probability: 0.20,
		riskFactors: []string{"compliance_costs", "business_model_disruption", "market_access"},
		assumptions: map[string]any{"compliance_cost_increase": 0.3, "revenue_impact": -0.15, "adaptation_time": 12},
	},
}

// standingMitigations is attached to every black-swan scenario.
var standingMitigations = []string{
	"Develop contingency plans",
	"Diversify risk exposure",
	"Build financial reserves",
	"Implement early warning systems",
	"Create crisis management protocols",
}

// IdentifyBlackSwans returns the fixed black-swan scenario catalogue with
// probabilities adjusted for the industry and time horizon: technology
// doubles the cyber-attack probability, healthcare and financial scale
// their matching events by 1.5x, and a long (short) horizon scales every
// probability by 1.5x (0.5x).
func IdentifyBlackSwans(decisionContext, industry, timeHorizon string) []ScenarioAnalysis {
	ind := strings.ToLower(industry)
	horizon := strings.ToLower(timeHorizon)

	scenarios := make([]ScenarioAnalysis, 0, len(blackSwanCatalogue))
	for _, tpl := range blackSwanCatalogue {
		p := tpl.probability

		switch {
		case ind == "technology" && tpl.key == "cyber_attack":
			p *= 2
		case ind == "healthcare" && tpl.key == "pandemic":
			p *= 1.5
		case ind == "financial" && tpl.key == "financial_crisis":
			p *= 1.5
		}

		if strings.Contains(horizon, "long") {
			p *= 1.5
		} else if strings.Contains(horizon, "short") {
			p *= 0.5
		}

		scenarios = append(scenarios, ScenarioAnalysis{
			Name:        "Black Swan: " + titleCase(tpl.key),
			Kind:        ScenarioBlackSwan,
			Assumptions: tpl.assumptions,
			Outcomes: map[string]float64{
				"probability":  p,
				"severity":     0.8,
				"impact_score": 0.9,
			},
			Probability: p,
			Impact:      tpl.description,
			RiskFactors: tpl.riskFactors,
			Mitigations: standingMitigations,
		})
	}
	return scenarios
}

// titleCase turns "financial_crisis" into "Financial Crisis".
func titleCase(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
