package models

import "time"

// RecommendationCategory is the final verdict an agent (or the team) reaches.
type RecommendationCategory string

const (
	RecommendProceed     RecommendationCategory = "proceed"
	RecommendWithCaution RecommendationCategory = "proceed_with_caution"
	RecommendModify      RecommendationCategory = "modify_approach"
	RecommendDelay       RecommendationCategory = "delay"
	RecommendReject      RecommendationCategory = "reject"
	RecommendMoreInfo    RecommendationCategory = "seek_more_info"
)

// ActionPriority ranks action items.
type ActionPriority string

const (
	PriorityCritical ActionPriority = "critical"
	PriorityHigh     ActionPriority = "high"
	PriorityMedium   ActionPriority = "medium"
	PriorityLow      ActionPriority = "low"
)

// RiskCategory classifies entries in the risk register.
type RiskCategory string

const (
	RiskCatFinancial    RiskCategory = "financial"
	RiskCatOperational  RiskCategory = "operational"
	RiskCatStrategic    RiskCategory = "strategic"
	RiskCatLegal        RiskCategory = "legal"
	RiskCatRegulatory   RiskCategory = "regulatory"
	RiskCatReputational RiskCategory = "reputational"
	RiskCatMarket       RiskCategory = "market"
	RiskCatTechnical    RiskCategory = "technical"
)

// RiskRegisterEntry is one identified risk with probability and impact in [0,1].
type RiskRegisterEntry struct {
	Category    RiskCategory `json:"category"`
	Description string       `json:"description"`
	Probability float64      `json:"probability"`
	Impact      float64      `json:"impact"`
	Score       float64      `json:"risk_score"` // probability x impact unless overridden
	Mitigations []string     `json:"mitigation_strategies,omitempty"`
	Owner       string       `json:"responsible_party,omitempty"`
}

// ActionItem is an actionable recommendation in the final report.
type ActionItem struct {
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Priority        ActionPriority `json:"priority"`
	Category        string         `json:"category"` // implementation, research, mitigation, ...
	Owner           string         `json:"responsible_party,omitempty"`
	Timeline        string         `json:"timeline,omitempty"`
	SuccessCriteria []string       `json:"success_criteria,omitempty"`
}

// OptionEvaluation aggregates all agents' views of one decision option.
type OptionEvaluation struct {
	OptionName   string             `json:"option_name"`
	OverallScore float64            `json:"overall_score"` // 0.0 to 1.0
	AgentScores  map[string]float64 `json:"agent_scores"`  // agent name -> score
	Strengths    []string           `json:"strengths,omitempty"`
	Weaknesses   []string           `json:"weaknesses,omitempty"`
	Rank         int                `json:"rank"` // 1 = best
}

// ConsensusAnalysis measures how much the agents agree.
type ConsensusAnalysis struct {
	AgreementScore  float64                        `json:"agreement_score"` // 0.0 to 1.0
	MajorityView    RecommendationCategory         `json:"majority_view"`
	Distribution    map[RecommendationCategory]int `json:"distribution"`
	Dissenting      []string                       `json:"dissenting_agents,omitempty"`
	ConflictSummary string                         `json:"conflict_summary,omitempty"`
}

// ReportStatus tracks a report's lifecycle.
type ReportStatus string

const (
	ReportDraft     ReportStatus = "draft"
	ReportCompleted ReportStatus = "completed"
)

// DecisionReport is the merged output of a full team analysis.
type DecisionReport struct {
	ID               string                 `json:"id"`
	Decision         DecisionInput          `json:"decision"`
	Status           ReportStatus           `json:"status"`
	Analyses         []AgentAnalysis        `json:"analyses"`
	OptionRanking    []OptionEvaluation     `json:"option_ranking"`
	RiskRegister     []RiskRegisterEntry    `json:"risk_register,omitempty"`
	ActionItems      []ActionItem           `json:"action_items,omitempty"`
	Consensus        ConsensusAnalysis      `json:"consensus"`
	Recommendation   RecommendationCategory `json:"recommendation"`
	Confidence       float64                `json:"confidence"`
	OverallRiskScore float64                `json:"overall_risk_score"`
	ExecutiveSummary string                 `json:"executive_summary"`
	GeneratedAt      time.Time              `json:"generated_at"`
	Duration         time.Duration          `json:"duration"`
}

// AnalysisFor returns the analysis produced by the given role, if present.
func (r *DecisionReport) AnalysisFor(role AgentRole) (*AgentAnalysis, bool) {
	for i := range r.Analyses {
		if r.Analyses[i].Role == role {
			return &r.Analyses[i], true
		}
	}
	return nil, false
}

// TopOption returns the highest-ranked option, if any options were evaluated.
func (r *DecisionReport) TopOption() (OptionEvaluation, bool) {
	for _, ev := range r.OptionRanking {
		if ev.Rank == 1 {
			return ev, true
		}
	}
	if len(r.OptionRanking) > 0 {
		return r.OptionRanking[0], true
	}
	return OptionEvaluation{}, false
}
