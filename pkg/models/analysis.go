package models

import "time"

// AgentRole identifies a specialist on the decision-analysis team.
type AgentRole string

const (
	RoleInvestor   AgentRole = "investor"
	RoleLegal      AgentRole = "legal_officer"
	RoleAnalyst    AgentRole = "analyst"
	RoleCustomer   AgentRole = "customer_representative"
	RoleStrategist AgentRole = "strategic_consultant"
)

// RiskLevel is a qualitative risk rating.
type RiskLevel string

const (
	RiskVeryLow  RiskLevel = "very_low"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskVeryHigh RiskLevel = "very_high"
)

// RiskLevelFromScore maps a [0,1] risk score onto the qualitative scale.
func RiskLevelFromScore(score float64) RiskLevel {
	switch {
	case score < 0.2:
		return RiskVeryLow
	case score < 0.4:
		return RiskLow
	case score < 0.6:
		return RiskMedium
	case score < 0.8:
		return RiskHigh
	default:
		return RiskVeryHigh
	}
}

// Finding is one observation an agent makes about the decision.
type Finding struct {
	Title    string  `json:"title"`
	Detail   string  `json:"detail"`
	Severity string  `json:"severity,omitempty"` // info, concern, critical
	Metric   string  `json:"metric,omitempty"`   // name of the backing metric, if any
	Value    float64 `json:"value,omitempty"`
}

// AgentAnalysis is the structured output of a single agent.
type AgentAnalysis struct {
	AgentName      string                 `json:"agent_name"`
	Role           AgentRole              `json:"role"`
	Summary        string                 `json:"summary"`
	Findings       []Finding              `json:"findings,omitempty"`
	Recommendation RecommendationCategory `json:"recommendation"`
	Confidence     float64                `json:"confidence"` // 0.0 to 1.0
	RiskLevel      RiskLevel              `json:"risk_level"`
	Concerns       []string               `json:"concerns,omitempty"`
	OptionScores   map[string]float64     `json:"option_scores,omitempty"` // option name -> score
	Metrics        map[string]float64     `json:"metrics,omitempty"`       // agent-specific headline numbers
	ToolCalls      int                    `json:"tool_calls"`
	Duration       time.Duration          `json:"duration"`
	Error          string                 `json:"error,omitempty"`
	Timestamp      time.Time              `json:"timestamp"`
}

// Failed reports whether the agent's analysis ended in an error.
func (a *AgentAnalysis) Failed() bool { return a.Error != "" }
