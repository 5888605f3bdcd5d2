// Package agent implements the multi-agent decision-analysis team. It
// provides a base Agent interface, the five specialist agents (investor,
// legal officer, analyst, customer representative, strategic consultant),
// and a Team coordinator that runs them concurrently and merges their
// analyses into a decision report.
package agent

import (
	"context"
	"time"

	"github.com/strategysim/strategysim/pkg/models"
)

// ── Agent Interface ──

// Agent defines the interface every specialist on the team implements.
type Agent interface {
	// Name returns the agent's unique identifier (e.g. "investor").
	Name() string

	// Role returns the agent's role on the team.
	Role() models.AgentRole

	// Description returns a human-readable summary of what the agent covers.
	Description() string

	// Analyze examines the decision and returns a structured analysis.
	// Analysis failure is reported inside the result's Error field when the
	// agent could start at all; a returned error means it could not.
	Analyze(ctx context.Context, decision *models.DecisionInput) (*models.AgentAnalysis, error)
}

// ── BaseAgent ──

// BaseAgent carries the identity shared by all specialists. Agents embed it
// and implement Analyze.
type BaseAgent struct {
	name        string
	role        models.AgentRole
	description string
}

// NewBaseAgent creates the shared identity for a specialist agent.
func NewBaseAgent(name string, role models.AgentRole, description string) BaseAgent {
	return BaseAgent{name: name, role: role, description: description}
}

// Name returns the agent's identifier.
func (a BaseAgent) Name() string { return a.name }

// Role returns the agent's team role.
func (a BaseAgent) Role() models.AgentRole { return a.role }

// Description returns the agent's coverage summary.
func (a BaseAgent) Description() string { return a.description }

// begin starts a timestamped analysis shell for this agent.
func (a BaseAgent) begin() *models.AgentAnalysis {
	return &models.AgentAnalysis{
		AgentName: a.name,
		Role:      a.role,
		Timestamp: time.Now(),
		Metrics:   make(map[string]float64),
	}
}

// finish stamps the elapsed duration onto the analysis.
func (a BaseAgent) finish(analysis *models.AgentAnalysis, start time.Time) *models.AgentAnalysis {
	analysis.Duration = time.Since(start)
	return analysis
}

// ── Shared helpers ──

// clamp01 clamps v into [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// severityRank orders recommendation categories from most permissive to
// most conservative. Ties in team votes resolve toward the higher rank.
var severityRank = map[models.RecommendationCategory]int{
	models.RecommendProceed:     0,
	models.RecommendMoreInfo:    1,
	models.RecommendWithCaution: 2,
	models.RecommendModify:      3,
	models.RecommendDelay:       4,
	models.RecommendReject:      5,
}

// normalizeScores rescales a score map onto [0, 1] by min-max. A uniform
// map comes back as all 0.5.
func normalizeScores(scores map[string]float64) map[string]float64 {
	if len(scores) == 0 {
		return scores
	}
	lo, hi := 0.0, 0.0
	first := true
	for _, v := range scores {
		if first {
			lo, hi = v, v
			first = false
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	out := make(map[string]float64, len(scores))
	for k, v := range scores {
		if hi == lo {
			out[k] = 0.5
			continue
		}
		out[k] = (v - lo) / (hi - lo)
	}
	return out
}
