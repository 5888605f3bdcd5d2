// Package models defines the core data structures used throughout StrategySim:
// decision inputs, agent analyses, and decision reports.
package models

import (
	"fmt"
	"strings"
	"time"
)

// DecisionType represents the kind of strategic decision under analysis.
type DecisionType string

const (
	DecisionPricing              DecisionType = "pricing"
	DecisionMarketEntry          DecisionType = "market_entry"
	DecisionProductLaunch        DecisionType = "product_launch"
	DecisionInvestment           DecisionType = "investment"
	DecisionMergerAcquisition    DecisionType = "merger_acquisition"
	DecisionHiring               DecisionType = "hiring"
	DecisionBudgetAllocation     DecisionType = "budget_allocation"
	DecisionStrategicPartnership DecisionType = "strategic_partnership"
)

// DecisionTypes returns all supported decision types.
func DecisionTypes() []DecisionType {
	return []DecisionType{
		DecisionPricing,
		DecisionMarketEntry,
		DecisionProductLaunch,
		DecisionInvestment,
		DecisionMergerAcquisition,
		DecisionHiring,
		DecisionBudgetAllocation,
		DecisionStrategicPartnership,
	}
}

// Valid reports whether t is a known decision type.
func (t DecisionType) Valid() bool {
	for _, dt := range DecisionTypes() {
		if t == dt {
			return true
		}
	}
	return false
}

// DecisionUrgency represents how time-critical a decision is.
type DecisionUrgency string

const (
	UrgencyLow      DecisionUrgency = "low"
	UrgencyMedium   DecisionUrgency = "medium"
	UrgencyHigh     DecisionUrgency = "high"
	UrgencyCritical DecisionUrgency = "critical"
)

// DecisionOption is one candidate course of action.
type DecisionOption struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	EstimatedCost     float64  `json:"estimated_cost,omitempty"`
	EstimatedTimeline string   `json:"estimated_timeline,omitempty"`
	ConfidenceLevel   float64  `json:"confidence_level,omitempty"` // 0.0 to 1.0
	CashFlows         []float64 `json:"cash_flows,omitempty"`      // projected flows, period 0 first
}

// DecisionConstraint restricts the space of acceptable options.
type DecisionConstraint struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	ConstraintType string `json:"constraint_type"` // budget, time, regulatory, ...
	Value          any    `json:"value"`
	Hard           bool   `json:"hard"` // hard constraints disqualify, soft ones penalize
}

// DecisionContext carries background information for the analysis.
type DecisionContext struct {
	Industry             string   `json:"industry,omitempty"`
	CompanySize          string   `json:"company_size,omitempty"`
	GeographicScope      string   `json:"geographic_scope,omitempty"`
	CompetitiveLandscape string   `json:"competitive_landscape,omitempty"`
	RegulatoryEnv        string   `json:"regulatory_environment,omitempty"`
	MarketConditions     string   `json:"market_conditions,omitempty"`
	RiskTolerance        string   `json:"risk_tolerance,omitempty"`
	StrategicPriorities  []string `json:"strategic_priorities,omitempty"`
}

// FinancialEnvelope holds the numeric assumptions the investor agent works
// from. All fields are optional; agents skip calculations whose inputs are
// missing rather than inventing defaults.
type FinancialEnvelope struct {
	DiscountRate        float64   `json:"discount_rate,omitempty"`
	Revenue             float64   `json:"revenue,omitempty"`
	COGS                float64   `json:"cogs,omitempty"`
	OperatingExpenses   float64   `json:"operating_expenses,omitempty"`
	InterestExpense     float64   `json:"interest_expense,omitempty"`
	TaxRate             float64   `json:"tax_rate,omitempty"`
	Equity              *float64  `json:"equity,omitempty"`
	Assets              *float64  `json:"assets,omitempty"`
	Debt                *float64  `json:"debt,omitempty"`
	CurrentAssets       *float64  `json:"current_assets,omitempty"`
	CurrentLiabilities  *float64  `json:"current_liabilities,omitempty"`
	FixedCosts          float64   `json:"fixed_costs,omitempty"`
	VariableCostPerUnit float64   `json:"variable_cost_per_unit,omitempty"`
	PricePerUnit        float64   `json:"price_per_unit,omitempty"`
	HistoricalReturns   []float64 `json:"historical_returns,omitempty"`
}

// DecisionInput is the structured description of a strategic decision.
type DecisionInput struct {
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	Type           DecisionType         `json:"decision_type"`
	Urgency        DecisionUrgency      `json:"urgency"`
	Options        []DecisionOption     `json:"options"`
	Constraints    []DecisionConstraint `json:"constraints,omitempty"`
	Timeline       string               `json:"timeline"`
	BudgetRange    string               `json:"budget_range,omitempty"`
	SuccessMetrics []string             `json:"success_metrics,omitempty"`
	Stakeholders   []string             `json:"stakeholders,omitempty"`
	Context        DecisionContext      `json:"context,omitempty"`
	Financials     *FinancialEnvelope   `json:"financials,omitempty"`
	CreatedAt      time.Time            `json:"created_at,omitempty"`
}

// ── Validation ──

// ValidationIssue describes one problem found in a DecisionInput.
type ValidationIssue struct {
	Field        string `json:"field"`
	Message      string `json:"message"`
	SuggestedFix string `json:"suggested_fix,omitempty"`
}

// ValidationResult is the outcome of validating a DecisionInput.
type ValidationResult struct {
	Valid             bool              `json:"is_valid"`
	Errors            []ValidationIssue `json:"errors,omitempty"`
	Warnings          []string          `json:"warnings,omitempty"`
	Suggestions       []string          `json:"suggestions,omitempty"`
	CompletenessScore float64           `json:"completeness_score"` // 0.0 to 1.0
}

const (
	minOptions = 2
	maxOptions = 5
)

// Validate checks the decision input for structural errors and scores its
// completeness. Errors make the input unusable; warnings and suggestions
// only indicate that the analysis will be less informed.
func (d *DecisionInput) Validate() ValidationResult {
	var res ValidationResult

	if len(strings.TrimSpace(d.Title)) < 5 {
		res.Errors = append(res.Errors, ValidationIssue{
			Field:   "title",
			Message: "title must be at least 5 characters",
		})
	}
	if len(strings.TrimSpace(d.Description)) < 20 {
		res.Errors = append(res.Errors, ValidationIssue{
			Field:        "description",
			Message:      "description must be at least 20 characters",
			SuggestedFix: "describe the decision, its drivers, and what success looks like",
		})
	}
	if !d.Type.Valid() {
		res.Errors = append(res.Errors, ValidationIssue{
			Field:   "decision_type",
			Message: fmt.Sprintf("unknown decision type %q", d.Type),
		})
	}
	if strings.TrimSpace(d.Timeline) == "" {
		res.Errors = append(res.Errors, ValidationIssue{
			Field:   "timeline",
			Message: "timeline cannot be empty",
		})
	}

	if len(d.Options) < minOptions || len(d.Options) > maxOptions {
		res.Errors = append(res.Errors, ValidationIssue{
			Field:   "options",
			Message: fmt.Sprintf("need between %d and %d options, got %d", minOptions, maxOptions, len(d.Options)),
		})
	}
	seen := make(map[string]bool, len(d.Options))
	for _, opt := range d.Options {
		name := strings.TrimSpace(opt.Name)
		if name == "" {
			res.Errors = append(res.Errors, ValidationIssue{
				Field:   "options",
				Message: "option name cannot be empty",
			})
			continue
		}
		if seen[name] {
			res.Errors = append(res.Errors, ValidationIssue{
				Field:   "options",
				Message: fmt.Sprintf("duplicate option name %q", name),
			})
		}
		seen[name] = true

		if opt.EstimatedCost == 0 {
			res.Warnings = append(res.Warnings, fmt.Sprintf("option %q has no cost estimate", name))
		}
		if opt.EstimatedTimeline == "" {
			res.Warnings = append(res.Warnings, fmt.Sprintf("option %q has no timeline estimate", name))
		}
	}

	if d.BudgetRange == "" {
		res.Warnings = append(res.Warnings, "budget range not specified - this may affect financial analysis")
	}
	if len(d.SuccessMetrics) == 0 {
		res.Warnings = append(res.Warnings, "success metrics not defined - consider adding measurable outcomes")
	}
	if len(d.Stakeholders) == 0 {
		res.Warnings = append(res.Warnings, "stakeholders not identified - consider adding key decision makers")
	}

	res.CompletenessScore = d.completeness()
	if res.CompletenessScore < 0.7 {
		res.Suggestions = append(res.Suggestions, "consider providing more details for better analysis")
	}
	if len(d.Constraints) == 0 {
		res.Suggestions = append(res.Suggestions, "adding constraints will help agents provide more realistic recommendations")
	}

	res.Valid = len(res.Errors) == 0
	return res
}

// completeness scores the input against the fields a full analysis wants.
func (d *DecisionInput) completeness() float64 {
	checks := []bool{
		d.Title != "",
		d.Description != "",
		d.Type != "",
		len(d.Options) > 0,
		d.Timeline != "",
		d.BudgetRange != "",
		len(d.SuccessMetrics) > 0,
		len(d.Stakeholders) > 0,
		len(d.Constraints) > 0,
		d.Financials != nil,
		d.Urgency != "",
		len(d.Options) >= minOptions,
	}
	filled := 0
	for _, ok := range checks {
		if ok {
			filled++
		}
	}
	return float64(filled) / float64(len(checks))
}
