package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/strategysim/strategysim/pkg/models"
)

// StrategistAgent assesses strategic fit: option alignment with declared
// priorities, budget discipline, and execution risk from option confidence.
type StrategistAgent struct {
	BaseAgent
}

// NewStrategistAgent creates the strategy specialist.
func NewStrategistAgent() *StrategistAgent {
	return &StrategistAgent{
		BaseAgent: NewBaseAgent("strategic_consultant", models.RoleStrategist,
			"Strategic fit, option ranking, execution feasibility"),
	}
}

// Analyze scores each option on strategic alignment, cost discipline and
// stated confidence, then ranks them.
func (a *StrategistAgent) Analyze(ctx context.Context, decision *models.DecisionInput) (*models.AgentAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	analysis := a.begin()

	budget := hardBudgetLimit(decision.Constraints)
	scores := make(map[string]float64, len(decision.Options))
	overBudget := 0
	for _, opt := range decision.Options {
		score := a.scoreOption(decision, opt, budget)
		scores[opt.Name] = score
		if budget > 0 && opt.EstimatedCost > budget {
			overBudget++
			analysis.Concerns = append(analysis.Concerns,
				fmt.Sprintf("option %q exceeds the hard budget limit", opt.Name))
		}
	}
	analysis.OptionScores = scores

	best, bestScore := "", -1.0
	for name, s := range scores {
		if s > bestScore {
			best, bestScore = name, s
		}
	}
	if best != "" {
		analysis.Findings = append(analysis.Findings, models.Finding{
			Title:  "Best strategic fit",
			Detail: fmt.Sprintf("option %q scores highest on alignment and feasibility", best),
			Value:  bestScore,
		})
		analysis.Metrics["best_option_score"] = bestScore
	}

	if len(decision.Context.StrategicPriorities) == 0 {
		analysis.Concerns = append(analysis.Concerns,
			"no strategic priorities declared; alignment scoring is weak")
	}

	switch {
	case overBudget == len(decision.Options) && budget > 0:
		analysis.Summary = "Every option breaches the budget constraint; the decision needs reframing."
		analysis.Recommendation = models.RecommendModify
		analysis.RiskLevel = models.RiskHigh
		analysis.Confidence = 0.7
	case bestScore >= 0.6:
		analysis.Summary = fmt.Sprintf("Option %q is a strong strategic fit.", best)
		analysis.Recommendation = models.RecommendProceed
		analysis.RiskLevel = models.RiskLow
		analysis.Confidence = 0.7
	case bestScore >= 0.4:
		analysis.Summary = "Strategic fit is moderate; sharpen the option set before committing."
		analysis.Recommendation = models.RecommendWithCaution
		analysis.RiskLevel = models.RiskMedium
		analysis.Confidence = 0.6
	default:
		analysis.Summary = "No option aligns well with the declared strategy."
		analysis.Recommendation = models.RecommendDelay
		analysis.RiskLevel = models.RiskHigh
		analysis.Confidence = 0.55
	}

	return a.finish(analysis, start), nil
}

// scoreOption blends alignment with strategic priorities, stated option
// confidence, and budget discipline into a [0,1] score.
func (a *StrategistAgent) scoreOption(decision *models.DecisionInput, opt models.DecisionOption, budget float64) float64 {
	alignment := priorityAlignment(opt, decision.Context.StrategicPriorities)

	confidence := opt.ConfidenceLevel
	if confidence == 0 {
		confidence = 0.5
	}

	costFactor := 1.0
	if budget > 0 && opt.EstimatedCost > 0 {
		if opt.EstimatedCost > budget {
			costFactor = 0.2
		} else {
			// Cheaper options leave strategic slack.
			costFactor = 1 - 0.5*(opt.EstimatedCost/budget)
		}
	}

	return clamp01(0.4*alignment + 0.35*confidence + 0.25*costFactor)
}

// priorityAlignment measures keyword overlap between the option text and
// the declared strategic priorities.
func priorityAlignment(opt models.DecisionOption, priorities []string) float64 {
	if len(priorities) == 0 {
		return 0.5
	}
	text := strings.ToLower(opt.Name + " " + opt.Description)
	matched := 0
	for _, p := range priorities {
		for _, word := range strings.Fields(strings.ToLower(p)) {
			if len(word) >= 4 && strings.Contains(text, word) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(priorities))
}

// hardBudgetLimit returns the tightest hard budget constraint, or 0.
func hardBudgetLimit(constraints []models.DecisionConstraint) float64 {
	limit := 0.0
	for _, c := range constraints {
		if c.ConstraintType != "budget" || !c.Hard {
			continue
		}
		v, ok := budgetValue(c.Value)
		if !ok {
			continue
		}
		if limit == 0 || v < limit {
			limit = v
		}
	}
	return limit
}

func budgetValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
