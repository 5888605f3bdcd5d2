package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/strategysim/strategysim/internal/risk"
	"github.com/strategysim/strategysim/pkg/models"
)

// AnalystAgent quantifies the decision's risk profile: Monte Carlo
// simulation over the financial assumptions, scenario evaluation including
// the black-swan catalogue, and sensitivity ranking of the drivers.
type AnalystAgent struct {
	BaseAgent
	iterations int
	seed       *int64
}

// NewAnalystAgent creates the analyst specialist. A non-nil seed makes its
// simulations reproducible, which the API and CLI expose for auditability.
func NewAnalystAgent(iterations int, seed *int64) *AnalystAgent {
	if iterations == 0 {
		iterations = risk.DefaultIterations
	}
	return &AnalystAgent{
		BaseAgent: NewBaseAgent("analyst", models.RoleAnalyst,
			"Quantitative risk: Monte Carlo simulation, scenarios, sensitivity, black swans"),
		iterations: iterations,
		seed:       seed,
	}
}

// Analyze runs the composite risk assessment over the decision's financial
// envelope.
func (a *AnalystAgent) Analyze(ctx context.Context, decision *models.DecisionInput) (*models.AgentAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	analysis := a.begin()

	vars, base, objective := riskModelFor(decision)
	if len(vars) == 0 {
		analysis.Summary = "Insufficient financial assumptions to model outcome uncertainty."
		analysis.Recommendation = models.RecommendMoreInfo
		analysis.Confidence = 0.2
		analysis.RiskLevel = models.RiskMedium
		analysis.Concerns = append(analysis.Concerns, "no revenue or cost assumptions to simulate")
		return a.finish(analysis, start), nil
	}

	var historical []float64
	if decision.Financials != nil {
		historical = decision.Financials.HistoricalReturns
	}

	assessment, err := risk.Assess(risk.AssessmentRequest{
		Context:        decision.Title,
		Variables:      vars,
		Objective:      objective,
		BaseInputs:     base,
		HistoricalData: historical,
		Iterations:     a.iterations,
		Seed:           a.seed,
	})
	if err != nil {
		analysis.Error = err.Error()
		analysis.Summary = "Risk assessment failed."
		analysis.Recommendation = models.RecommendMoreInfo
		return a.finish(analysis, start), nil
	}
	analysis.ToolCalls++

	mc := assessment.MonteCarlo[0]
	analysis.Metrics["overall_risk_score"] = assessment.OverallScore
	analysis.Metrics["probability_negative"] = mc.ProbabilityNegative
	analysis.Metrics["expected_outcome"] = mc.Mean
	analysis.Metrics["var_95"] = mc.VaR95

	analysis.Findings = append(analysis.Findings, models.Finding{
		Title:  "Expected outcome",
		Detail: fmt.Sprintf("Mean %.0f with 90%% of outcomes between %.0f and %.0f", mc.Mean, mc.Percentiles["p5"], mc.Percentiles["p95"]),
		Metric: "expected_outcome",
		Value:  mc.Mean,
	})
	analysis.Findings = append(analysis.Findings, models.Finding{
		Title:  "Downside exposure",
		Detail: fmt.Sprintf("5%% of outcomes fall below %.0f; probability of loss %.1f%%", mc.VaR95, mc.ProbabilityNegative*100),
		Metric: "var_95",
		Value:  mc.VaR95,
	})
	if mc.ProbabilityNegative > 0.2 {
		analysis.Concerns = append(analysis.Concerns,
			fmt.Sprintf("probability of a negative outcome is %.0f%%", mc.ProbabilityNegative*100))
	}

	if len(assessment.Sensitivity.MostSensitive) > 0 {
		analysis.Findings = append(analysis.Findings, models.Finding{
			Title:  "Dominant risk driver",
			Detail: fmt.Sprintf("outcome is most sensitive to %q", assessment.Sensitivity.MostSensitive[0]),
		})
	}

	// Black swan scan feeds the team's risk register through Concerns.
	analysis.ToolCalls++
	swans := risk.IdentifyBlackSwans(decision.Title, decision.Context.Industry, decision.Timeline)
	for _, s := range swans {
		if s.Probability >= 0.2 {
			analysis.Concerns = append(analysis.Concerns,
				fmt.Sprintf("%s (probability %.0f%%)", s.Impact, s.Probability*100))
		}
	}

	analysis.RiskLevel = models.RiskLevelFromScore(assessment.OverallScore)
	analysis.Recommendation = recommendationFromRisk(assessment.OverallScore)
	analysis.Confidence = clamp01(1 - assessment.OverallScore/2)
	analysis.Summary = fmt.Sprintf(
		"Overall risk score %.2f (%s). Expected outcome %.0f, loss probability %.1f%%.",
		assessment.OverallScore, analysis.RiskLevel, mc.Mean, mc.ProbabilityNegative*100)

	return a.finish(analysis, start), nil
}

// recommendationFromRisk maps the composite risk score to a verdict.
func recommendationFromRisk(score float64) models.RecommendationCategory {
	switch {
	case score < 0.3:
		return models.RecommendProceed
	case score < 0.5:
		return models.RecommendWithCaution
	case score < 0.7:
		return models.RecommendModify
	default:
		return models.RecommendReject
	}
}

// riskModelFor derives simulation variables and a profit objective from the
// decision's envelope. Revenue gets a normal distribution around the stated
// figure, total cost a triangular one; ±15% and −20%/+30% spreads mirror
// typical planning uncertainty.
func riskModelFor(decision *models.DecisionInput) ([]risk.RiskVariable, map[string]float64, risk.ObjectiveFunc) {
	env := decision.Financials
	if env == nil || env.Revenue <= 0 {
		return nil, nil, nil
	}

	totalCost := env.COGS + env.OperatingExpenses
	if totalCost <= 0 {
		totalCost = env.Revenue * 0.7
	}

	vars := []risk.RiskVariable{
		{
			Name:         "revenue",
			Distribution: risk.DistNormal,
			Parameters:   map[string]float64{"mean": env.Revenue, "std": env.Revenue * 0.15},
		},
		{
			Name:         "total_cost",
			Distribution: risk.DistTriangular,
			Parameters: map[string]float64{
				"min":  totalCost * 0.8,
				"mode": totalCost,
				"max":  totalCost * 1.3,
			},
		},
	}
	base := map[string]float64{"revenue": env.Revenue, "total_cost": totalCost}
	objective := func(v map[string]float64) float64 {
		return v["revenue"] - v["total_cost"]
	}
	return vars, base, objective
}
