package risk

import (
	"fmt"
	"math"
	"time"
)

// AssessmentRequest bundles the inputs for a comprehensive risk assessment.
type AssessmentRequest struct {
	// Context describes the decision being assessed.
	Context string
	// Variables are the stochastic inputs for simulation and sensitivity.
	Variables []RiskVariable
	// Objective maps sampled variable values to the outcome under study.
	Objective ObjectiveFunc
	// BaseInputs is the deterministic base case for sensitivity analysis.
	BaseInputs map[string]float64
	// Scenarios are evaluated against BaseInputs as the base assumptions.
	Scenarios []ScenarioDefinition
	// HistoricalData, when present, feeds the historical risk metrics.
	HistoricalData []float64
	// Iterations for the Monte Carlo run; zero means DefaultIterations.
	Iterations int
	// Seed makes the assessment reproducible. Nil seeds from the clock.
	Seed *int64
}

// RiskAssessment is the composite result of all risk analyses.
type RiskAssessment struct {
	ID              string              `json:"assessment_id"`
	Context         string              `json:"decision_context"`
	Variables       []RiskVariable      `json:"risk_variables"`
	MonteCarlo      []*MonteCarloResult `json:"monte_carlo_results"`
	Scenarios       []ScenarioAnalysis  `json:"scenario_analyses"`
	Sensitivity     *SensitivityResult  `json:"sensitivity_analysis"`
	Metrics         []RiskMetric        `json:"risk_metrics"`
	OverallScore    float64             `json:"overall_risk_score"` // in [0, 1]
	ConfidenceLevel float64             `json:"confidence_level"`
	Recommendations []string            `json:"recommendations"`
	AssessedAt      time.Time           `json:"assessment_date"`
}

// Recommendation thresholds. These string-emission rules are deterministic
// policy, not derived laws; see the assessment design notes.
const (
	highProbNegativeThreshold = 0.2
	highOverallScoreThreshold = 0.7
)

var standingRecommendations = []string{
	"Monitor key risk variables closely",
	"Develop contingency plans for worst-case scenarios",
	"Consider risk mitigation strategies",
	"Implement early warning systems",
	"Regular risk assessment updates",
}

// Assess runs the full battery: one Monte Carlo simulation, one scenario
// pass, one sensitivity pass, and (when historical data is present) the
// historical risk metrics, then composes the overall risk score and
// threshold-driven recommendations.
func Assess(req AssessmentRequest) (*RiskAssessment, error) {
	if req.Objective == nil {
		return nil, fmt.Errorf("%w: objective function cannot be nil", ErrInvalidArgument)
	}

	mc, err := Simulate(req.Variables, req.Objective, SimulationOptions{
		Iterations: req.Iterations,
		Seed:       req.Seed,
	})
	if err != nil {
		return nil, err
	}

	baseAssumptions := make(map[string]any, len(req.BaseInputs))
	for k, v := range req.BaseInputs {
		baseAssumptions[k] = v
	}
	scenarios, err := AnalyzeScenarios(baseAssumptions, req.Scenarios, func(assumptions map[string]any) map[string]float64 {
		return map[string]float64{"outcome": req.Objective(numericOnly(assumptions))}
	})
	if err != nil {
		return nil, err
	}

	sensitivity, err := Sensitivity(req.BaseInputs, assessmentRanges(req), req.Objective, DefaultSensitivityPoints)
	if err != nil {
		return nil, err
	}

	var metrics []RiskMetric
	if len(req.HistoricalData) > 0 {
		metrics, err = ComputeMetrics(req.HistoricalData, DefaultConfidenceLevel)
		if err != nil {
			return nil, err
		}
	}

	score := overallScore(mc, scenarios)

	recommendations := append([]string(nil), standingRecommendations...)
	if mc.ProbabilityNegative > highProbNegativeThreshold {
		recommendations = append(recommendations,
			"High probability of negative outcomes - consider risk reduction measures")
	}
	if score > highOverallScoreThreshold {
		recommendations = append(recommendations,
			"High overall risk score - recommend conservative approach")
	}

	now := time.Now()
	return &RiskAssessment{
		ID:              "risk_assessment_" + now.Format("20060102_150405"),
		Context:         req.Context,
		Variables:       req.Variables,
		MonteCarlo:      []*MonteCarloResult{mc},
		Scenarios:       scenarios,
		Sensitivity:     sensitivity,
		Metrics:         metrics,
		OverallScore:    score,
		ConfidenceLevel: DefaultConfidenceLevel,
		Recommendations: recommendations,
		AssessedAt:      now,
	}, nil
}

// assessmentRanges derives a sensitivity range per variable: the declared
// min/max distribution parameters when present, otherwise ±50% around the
// base-case value. Variables absent from the base inputs are skipped.
func assessmentRanges(req AssessmentRequest) map[string]Range {
	ranges := make(map[string]Range, len(req.Variables))
	for _, v := range req.Variables {
		base, ok := req.BaseInputs[v.Name]
		if !ok {
			continue
		}
		r := Range{Min: base * 0.5, Max: base * 1.5}
		if min, ok := v.Parameters["min"]; ok {
			r.Min = min
		}
		if max, ok := v.Parameters["max"]; ok {
			r.Max = max
		}
		ranges[v.Name] = r
	}
	return ranges
}

// overallScore is the unweighted mean of three normalized risk signals:
// the probability of a negative outcome, the VaR-to-mean ratio, and the
// fraction of analyzed scenarios that are worst-case. Capped at 1.
func overallScore(mc *MonteCarloResult, scenarios []ScenarioAnalysis) float64 {
	varRatio := 0.0
	if mc.Mean != 0 {
		varRatio = math.Abs(mc.VaR95) / math.Abs(mc.Mean)
	}

	worstFraction := 0.0
	if len(scenarios) > 0 {
		worst := 0
		for _, s := range scenarios {
			if s.Kind == ScenarioWorstCase {
				worst++
			}
		}
		worstFraction = float64(worst) / float64(len(scenarios))
	}

	score := (mc.ProbabilityNegative + varRatio + worstFraction) / 3
	return math.Min(score, 1)
}

// numericOnly extracts the float-convertible entries of an assumption map
// for consumption by an ObjectiveFunc.
func numericOnly(assumptions map[string]any) map[string]float64 {
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
