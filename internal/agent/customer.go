package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/strategysim/strategysim/pkg/models"
)

// Researcher supplies recent market headlines to enrich customer and
// strategy analysis. Implemented by internal/research; optional, and
// failures are never fatal to the analysis.
type Researcher interface {
	Headlines(ctx context.Context, topic string, limit int) ([]string, error)
}

// customerImpact captures the typical customer reaction profile per
// decision type: expected satisfaction delta and churn risk, both [0,1].
type customerImpact struct {
	summary           string
	satisfactionDelta float64 // negative hurts satisfaction
	churnRisk         float64
}

var customerImpacts = map[models.DecisionType]customerImpact{
	models.DecisionPricing:              {"Price changes are felt immediately; expect pushback from price-sensitive segments.", -0.3, 0.5},
	models.DecisionMarketEntry:          {"New-market customers need localized onboarding and support coverage.", 0.1, 0.2},
	models.DecisionProductLaunch:        {"Launches raise engagement but risk disappointing early adopters if quality slips.", 0.3, 0.25},
	models.DecisionInvestment:           {"Investment decisions are mostly invisible to customers in the near term.", 0.0, 0.05},
	models.DecisionMergerAcquisition:    {"Mergers unsettle customers; communication and continuity commitments are critical.", -0.2, 0.4},
	models.DecisionHiring:               {"Hiring affects service quality indirectly through capacity.", 0.1, 0.05},
	models.DecisionBudgetAllocation:     {"Budget shifts surface as changed service levels over quarters.", 0.0, 0.1},
	models.DecisionStrategicPartnership: {"Partnerships can add value but blur accountability for support.", 0.15, 0.15},
}

// CustomerAgent represents the customer's voice: satisfaction impact,
// churn risk, and market perception. When a Researcher is available it
// samples current headlines for market mood.
type CustomerAgent struct {
	BaseAgent
	researcher Researcher
}

// NewCustomerAgent creates the customer representative. researcher may be nil.
func NewCustomerAgent(researcher Researcher) *CustomerAgent {
	return &CustomerAgent{
		BaseAgent: NewBaseAgent("customer_representative", models.RoleCustomer,
			"Customer impact: satisfaction, churn risk, market perception"),
		researcher: researcher,
	}
}

// Analyze evaluates the customer-side consequences of the decision.
func (a *CustomerAgent) Analyze(ctx context.Context, decision *models.DecisionInput) (*models.AgentAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	analysis := a.begin()

	impact, known := customerImpacts[decision.Type]
	if !known {
		impact = customerImpact{"No customer reaction profile for this decision type.", 0, 0.2}
	}

	analysis.Metrics["satisfaction_delta"] = impact.satisfactionDelta
	analysis.Metrics["churn_risk"] = impact.churnRisk
	analysis.Findings = append(analysis.Findings, models.Finding{
		Title:  "Customer reaction profile",
		Detail: impact.summary,
		Metric: "churn_risk",
		Value:  impact.churnRisk,
	})

	if impact.churnRisk >= 0.4 {
		analysis.Concerns = append(analysis.Concerns,
			fmt.Sprintf("elevated churn risk (%.0f%%) for %s decisions", impact.churnRisk*100, decision.Type))
	}
	if impact.satisfactionDelta < 0 {
		analysis.Concerns = append(analysis.Concerns, "expected negative impact on customer satisfaction")
	}

	// Urgent decisions leave less room for customer communication.
	if decision.Urgency == models.UrgencyCritical || decision.Urgency == models.UrgencyHigh {
		analysis.Concerns = append(analysis.Concerns,
			"compressed timeline limits customer communication before the change lands")
	}

	a.addMarketMood(ctx, decision, analysis)

	riskScore := clamp01(impact.churnRisk - impact.satisfactionDelta*0.5)
	analysis.RiskLevel = models.RiskLevelFromScore(riskScore)
	analysis.Confidence = 0.6
	switch {
	case riskScore >= 0.5:
		analysis.Recommendation = models.RecommendModify
		analysis.Summary = "Customer downside is material; rework the rollout to protect retention."
	case riskScore >= 0.3:
		analysis.Recommendation = models.RecommendWithCaution
		analysis.Summary = "Manageable customer impact with a proper communication plan."
	default:
		analysis.Recommendation = models.RecommendProceed
		analysis.Summary = "Customer impact is neutral to positive."
	}

	return a.finish(analysis, start), nil
}

// addMarketMood samples recent headlines when research is available.
func (a *CustomerAgent) addMarketMood(ctx context.Context, decision *models.DecisionInput, analysis *models.AgentAnalysis) {
	if a.researcher == nil {
		return
	}
	topic := decision.Context.Industry
	if topic == "" {
		topic = string(decision.Type)
	}
	headlines, err := a.researcher.Headlines(ctx, topic, 5)
	if err != nil || len(headlines) == 0 {
		return
	}
	analysis.ToolCalls++
	detail := headlines[0]
	if len(headlines) > 1 {
		detail = fmt.Sprintf("%s (and %d more)", headlines[0], len(headlines)-1)
	}
	analysis.Findings = append(analysis.Findings, models.Finding{
		Title:  "Current market headlines",
		Detail: detail,
	})
}
