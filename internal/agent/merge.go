package agent

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/strategysim/strategysim/pkg/models"
)

// riskWeight maps qualitative risk levels onto [0,1] midpoints for
// averaging across agents.
var riskWeight = map[models.RiskLevel]float64{
	models.RiskVeryLow:  0.1,
	models.RiskLow:      0.3,
	models.RiskMedium:   0.5,
	models.RiskHigh:     0.7,
	models.RiskVeryHigh: 0.9,
}

// concernCategory maps each role's concerns into a risk-register category.
var concernCategory = map[models.AgentRole]models.RiskCategory{
	models.RoleInvestor:   models.RiskCatFinancial,
	models.RoleLegal:      models.RiskCatRegulatory,
	models.RoleAnalyst:    models.RiskCatOperational,
	models.RoleCustomer:   models.RiskCatMarket,
	models.RoleStrategist: models.RiskCatStrategic,
}

// merge combines the agents' analyses into the final decision report.
func (t *Team) merge(decision *models.DecisionInput, analyses []models.AgentAnalysis, elapsed time.Duration) *models.DecisionReport {
	report := &models.DecisionReport{
		ID:          "report_" + time.Now().Format("20060102_150405"),
		Decision:    *decision,
		Status:      models.ReportCompleted,
		Analyses:    analyses,
		GeneratedAt: time.Now(),
		Duration:    elapsed,
	}

	succeeded := make([]models.AgentAnalysis, 0, len(analyses))
	for _, a := range analyses {
		if !a.Failed() {
			succeeded = append(succeeded, a)
		}
	}

	report.Consensus = buildConsensus(succeeded)
	report.Recommendation = report.Consensus.MajorityView
	report.OptionRanking = rankOptions(decision, succeeded)
	report.RiskRegister = buildRiskRegister(succeeded)
	report.ActionItems = buildActionItems(report)
	report.Confidence = meanConfidence(succeeded) * report.Consensus.AgreementScore
	report.OverallRiskScore = meanRisk(succeeded)
	report.ExecutiveSummary = executiveSummary(report)
	return report
}

// buildConsensus tallies recommendation votes. Ties resolve toward the
// more conservative category.
func buildConsensus(analyses []models.AgentAnalysis) models.ConsensusAnalysis {
	consensus := models.ConsensusAnalysis{
		Distribution: make(map[models.RecommendationCategory]int),
	}
	for _, a := range analyses {
		consensus.Distribution[a.Recommendation]++
	}

	best, bestCount := models.RecommendMoreInfo, 0
	for cat, count := range consensus.Distribution {
		if count > bestCount || (count == bestCount && severityRank[cat] > severityRank[best]) {
			best, bestCount = cat, count
		}
	}
	consensus.MajorityView = best
	if len(analyses) > 0 {
		consensus.AgreementScore = float64(bestCount) / float64(len(analyses))
	}

	for _, a := range analyses {
		if a.Recommendation != best {
			consensus.Dissenting = append(consensus.Dissenting, a.AgentName)
		}
	}
	if len(consensus.Dissenting) > 0 {
		consensus.ConflictSummary = fmt.Sprintf("%d of %d agents dissent from the majority view of %s",
			len(consensus.Dissenting), len(analyses), best)
	}
	return consensus
}

// rankOptions averages per-agent option scores into an overall ranking.
func rankOptions(decision *models.DecisionInput, analyses []models.AgentAnalysis) []models.OptionEvaluation {
	evals := make([]models.OptionEvaluation, 0, len(decision.Options))
	for _, opt := range decision.Options {
		eval := models.OptionEvaluation{
			OptionName:  opt.Name,
			AgentScores: make(map[string]float64),
		}
		total, voters := 0.0, 0
		for _, a := range analyses {
			score, ok := a.OptionScores[opt.Name]
			if !ok {
				continue
			}
			eval.AgentScores[a.AgentName] = score
			total += score
			voters++
		}
		if voters > 0 {
			eval.OverallScore = total / float64(voters)
		}
		evals = append(evals, eval)
	}

	sort.SliceStable(evals, func(i, j int) bool {
		return evals[i].OverallScore > evals[j].OverallScore
	})
	for i := range evals {
		evals[i].Rank = i + 1
	}
	return evals
}

// buildRiskRegister turns agent concerns into typed register entries.
func buildRiskRegister(analyses []models.AgentAnalysis) []models.RiskRegisterEntry {
	var register []models.RiskRegisterEntry
	for _, a := range analyses {
		category, ok := concernCategory[a.Role]
		if !ok {
			category = models.RiskCatOperational
		}
		probability := riskWeight[a.RiskLevel]
		for _, concern := range a.Concerns {
			entry := models.RiskRegisterEntry{
				Category:    category,
				Description: concern,
				Probability: probability,
				Impact:      0.5,
				Owner:       a.AgentName,
			}
			entry.Score = entry.Probability * entry.Impact
			register = append(register, entry)
		}
	}
	sort.SliceStable(register, func(i, j int) bool {
		return register[i].Score > register[j].Score
	})
	return register
}

// buildActionItems derives follow-ups from the verdict and register.
func buildActionItems(report *models.DecisionReport) []models.ActionItem {
	var items []models.ActionItem

	switch report.Recommendation {
	case models.RecommendProceed, models.RecommendWithCaution:
		items = append(items, models.ActionItem{
			Title:       "Prepare implementation plan",
			Description: "Define milestones, owners and a rollback path for the chosen option.",
			Priority:    models.PriorityHigh,
			Category:    "implementation",
		})
	case models.RecommendModify:
		items = append(items, models.ActionItem{
			Title:       "Rework the option set",
			Description: "Address the weaknesses the team flagged before re-running the analysis.",
			Priority:    models.PriorityHigh,
			Category:    "research",
		})
	case models.RecommendDelay, models.RecommendReject:
		items = append(items, models.ActionItem{
			Title:       "Document the decision outcome",
			Description: "Record why the decision was deferred or rejected and the conditions for revisiting it.",
			Priority:    models.PriorityMedium,
			Category:    "governance",
		})
	case models.RecommendMoreInfo:
		items = append(items, models.ActionItem{
			Title:       "Gather missing inputs",
			Description: "Collect the financial and contextual data the agents found missing.",
			Priority:    models.PriorityCritical,
			Category:    "research",
		})
	}

	// The top register entries each get a mitigation follow-up.
	for i, entry := range report.RiskRegister {
		if i == 3 || entry.Score < 0.25 {
			break
		}
		items = append(items, models.ActionItem{
			Title:       "Mitigate: " + entry.Description,
			Description: fmt.Sprintf("Assign an owner and mitigation for this %s risk.", entry.Category),
			Priority:    models.PriorityMedium,
			Category:    "mitigation",
			Owner:       entry.Owner,
		})
	}
	return items
}

func meanConfidence(analyses []models.AgentAnalysis) float64 {
	if len(analyses) == 0 {
		return 0
	}
	total := 0.0
	for _, a := range analyses {
		total += a.Confidence
	}
	return total / float64(len(analyses))
}

func meanRisk(analyses []models.AgentAnalysis) float64 {
	if len(analyses) == 0 {
		return 0
	}
	total := 0.0
	for _, a := range analyses {
		total += riskWeight[a.RiskLevel]
	}
	return total / float64(len(analyses))
}

// executiveSummary writes the headline paragraph of the report.
func executiveSummary(report *models.DecisionReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The analysis team recommends: %s (confidence %.0f%%, agreement %.0f%%). ",
		report.Recommendation, report.Confidence*100, report.Consensus.AgreementScore*100)

	if top, ok := report.TopOption(); ok && top.OverallScore > 0 {
		fmt.Fprintf(&b, "Option %q ranks highest with an overall score of %.2f. ", top.OptionName, top.OverallScore)
	}
	fmt.Fprintf(&b, "Overall risk is assessed at %.2f with %d entries in the risk register.",
		report.OverallRiskScore, len(report.RiskRegister))

	if len(report.Consensus.Dissenting) > 0 {
		fmt.Fprintf(&b, " Dissenting views: %s.", strings.Join(report.Consensus.Dissenting, ", "))
	}
	return b.String()
}
