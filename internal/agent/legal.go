package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/strategysim/strategysim/pkg/models"
)

// complianceItem is one regulatory concern with a [0,1] weight.
type complianceItem struct {
	concern string
	weight  float64
}

// complianceChecklist maps decision types to their typical regulatory
// exposure. Compact by intent; it flags areas for counsel review rather
// than reproducing a legal database.
var complianceChecklist = map[models.DecisionType][]complianceItem{
	models.DecisionPricing: {
		{"price discrimination and predatory pricing rules", 0.5},
		{"contractual price-change notice obligations", 0.3},
	},
	models.DecisionMarketEntry: {
		{"market-specific licensing and registration requirements", 0.6},
		{"data protection and cross-border transfer rules", 0.5},
		{"local employment and tax law", 0.4},
	},
	models.DecisionProductLaunch: {
		{"product safety and labeling requirements", 0.5},
		{"intellectual property clearance", 0.5},
		{"advertising and claims substantiation", 0.3},
	},
	models.DecisionInvestment: {
		{"securities and disclosure obligations", 0.4},
		{"fiduciary duty to existing shareholders", 0.3},
	},
	models.DecisionMergerAcquisition: {
		{"antitrust and merger-control clearance", 0.8},
		{"due diligence on assumed liabilities", 0.7},
		{"change-of-control clauses in key contracts", 0.5},
	},
	models.DecisionHiring: {
		{"employment law and non-discrimination requirements", 0.4},
		{"non-compete enforceability for senior hires", 0.3},
	},
	models.DecisionBudgetAllocation: {
		{"internal authorization and governance thresholds", 0.2},
	},
	models.DecisionStrategicPartnership: {
		{"joint-liability and indemnification allocation", 0.5},
		{"competition law limits on information sharing", 0.4},
	},
}

// LegalAgent reviews the decision for regulatory and contractual exposure.
type LegalAgent struct {
	BaseAgent
}

// NewLegalAgent creates the legal specialist.
func NewLegalAgent() *LegalAgent {
	return &LegalAgent{
		BaseAgent: NewBaseAgent("legal_officer", models.RoleLegal,
			"Regulatory exposure, compliance requirements, contractual risk"),
	}
}

// Analyze walks the compliance checklist for the decision type and weighs
// the regulatory environment and hard regulatory constraints.
func (a *LegalAgent) Analyze(ctx context.Context, decision *models.DecisionInput) (*models.AgentAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	analysis := a.begin()

	items := complianceChecklist[decision.Type]
	exposure := 0.0
	for _, item := range items {
		exposure += item.weight
		severity := "info"
		if item.weight >= 0.6 {
			severity = "critical"
			analysis.Concerns = append(analysis.Concerns, item.concern)
		} else if item.weight >= 0.4 {
			severity = "concern"
		}
		analysis.Findings = append(analysis.Findings, models.Finding{
			Title:    "Compliance review item",
			Detail:   item.concern,
			Severity: severity,
			Value:    item.weight,
		})
	}
	if len(items) > 0 {
		exposure /= float64(len(items))
	}

	// A strict regulatory environment raises the whole profile.
	regEnv := strings.ToLower(decision.Context.RegulatoryEnv)
	if strings.Contains(regEnv, "strict") || strings.Contains(regEnv, "heavily regulated") {
		exposure = clamp01(exposure * 1.4)
		analysis.Concerns = append(analysis.Concerns, "operating under a strict regulatory environment")
	}

	hardRegulatory := 0
	for _, c := range decision.Constraints {
		if c.ConstraintType == "regulatory" && c.Hard {
			hardRegulatory++
			analysis.Concerns = append(analysis.Concerns,
				fmt.Sprintf("hard regulatory constraint: %s", c.Name))
		}
	}
	if hardRegulatory > 0 {
		exposure = clamp01(exposure + 0.15*float64(hardRegulatory))
	}

	analysis.Metrics["regulatory_exposure"] = exposure
	analysis.RiskLevel = models.RiskLevelFromScore(exposure)
	analysis.Confidence = 0.65

	switch {
	case exposure >= 0.7:
		analysis.Recommendation = models.RecommendDelay
		analysis.Summary = "Material regulatory exposure; obtain clearances before committing."
	case exposure >= 0.4:
		analysis.Recommendation = models.RecommendWithCaution
		analysis.Summary = "Moderate regulatory exposure; proceed with counsel review of the flagged items."
	default:
		analysis.Recommendation = models.RecommendProceed
		analysis.Summary = "No blocking legal issues identified for this decision type."
	}

	return a.finish(analysis, start), nil
}
