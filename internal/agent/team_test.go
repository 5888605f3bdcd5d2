package agent

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/strategysim/strategysim/pkg/models"
)

func newTestTeam(progress ProgressFunc) *Team {
	seed := int64(42)
	return NewTeam(TeamConfig{
		Iterations: 1000,
		Seed:       &seed,
		Logger:     zerolog.Nop(),
		Progress:   progress,
	})
}

func TestTeamAnalyzeProducesFullReport(t *testing.T) {
	report, err := newTestTeam(nil).Analyze(context.Background(), validDecision())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Analyses) != 5 {
		t.Fatalf("got %d analyses, want 5", len(report.Analyses))
	}
	for _, role := range []models.AgentRole{
		models.RoleInvestor, models.RoleLegal, models.RoleAnalyst,
		models.RoleCustomer, models.RoleStrategist,
	} {
		if _, ok := report.AnalysisFor(role); !ok {
			t.Errorf("analysis for role %v missing", role)
		}
	}

	if report.Status != models.ReportCompleted {
		t.Errorf("status = %v, want %v", report.Status, models.ReportCompleted)
	}
	if report.Recommendation == "" {
		t.Error("no final recommendation")
	}
	if report.Confidence < 0 || report.Confidence > 1 {
		t.Errorf("confidence %v outside [0,1]", report.Confidence)
	}
	if report.OverallRiskScore < 0 || report.OverallRiskScore > 1 {
		t.Errorf("overall risk %v outside [0,1]", report.OverallRiskScore)
	}
	if report.ExecutiveSummary == "" {
		t.Error("executive summary empty")
	}
	if len(report.OptionRanking) != 2 {
		t.Fatalf("got %d option evaluations, want 2", len(report.OptionRanking))
	}
	if report.OptionRanking[0].Rank != 1 || report.OptionRanking[1].Rank != 2 {
		t.Errorf("ranks not assigned in order: %v, %v",
			report.OptionRanking[0].Rank, report.OptionRanking[1].Rank)
	}
	if report.OptionRanking[0].OverallScore < report.OptionRanking[1].OverallScore {
		t.Error("option ranking not sorted by score")
	}
	if len(report.ActionItems) == 0 {
		t.Error("no action items generated")
	}
}

func TestTeamAnalyzeRejectsInvalidInput(t *testing.T) {
	d := validDecision()
	d.Options = d.Options[:1] // below the minimum of two options

	_, err := newTestTeam(nil).Analyze(context.Background(), d)
	if !errors.Is(err, ErrInvalidDecision) {
		t.Errorf("got err %v, want ErrInvalidDecision", err)
	}
}

func TestTeamAnalyzeEmitsProgress(t *testing.T) {
	var mu sync.Mutex
	stages := make(map[string]int)
	progress := func(ev ProgressEvent) {
		mu.Lock()
		stages[ev.Stage]++
		mu.Unlock()
	}

	if _, err := newTestTeam(progress).Analyze(context.Background(), validDecision()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if stages["started"] != 1 || stages["completed"] != 1 {
		t.Errorf("started/completed events: %v", stages)
	}
	if stages["agent_started"] != 5 {
		t.Errorf("agent_started = %d, want 5", stages["agent_started"])
	}
	if stages["agent_finished"]+stages["agent_failed"] != 5 {
		t.Errorf("agent completion events: %v", stages)
	}
}

func TestTeamAnalyzeCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestTeam(nil).Analyze(ctx, validDecision())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got err %v, want context.Canceled", err)
	}
}

func TestTeamReproducibleWithSeed(t *testing.T) {
	first, err := newTestTeam(nil).Analyze(context.Background(), validDecision())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := newTestTeam(nil).Analyze(context.Background(), validDecision())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	a, _ := first.AnalysisFor(models.RoleAnalyst)
	b, _ := second.AnalysisFor(models.RoleAnalyst)
	if a.Metrics["expected_outcome"] != b.Metrics["expected_outcome"] {
		t.Errorf("seeded team runs diverged: %v vs %v",
			a.Metrics["expected_outcome"], b.Metrics["expected_outcome"])
	}
	if first.Recommendation != second.Recommendation {
		t.Errorf("recommendations diverged: %v vs %v", first.Recommendation, second.Recommendation)
	}
}

func TestBuildConsensusTieBreaksConservative(t *testing.T) {
	analyses := []models.AgentAnalysis{
		{AgentName: "a", Recommendation: models.RecommendProceed},
		{AgentName: "b", Recommendation: models.RecommendReject},
	}
	consensus := buildConsensus(analyses)
	if consensus.MajorityView != models.RecommendReject {
		t.Errorf("tie resolved to %v, want %v", consensus.MajorityView, models.RecommendReject)
	}
	if consensus.AgreementScore != 0.5 {
		t.Errorf("agreement = %v, want 0.5", consensus.AgreementScore)
	}
	if len(consensus.Dissenting) != 1 || consensus.Dissenting[0] != "a" {
		t.Errorf("dissenting = %v, want [a]", consensus.Dissenting)
	}
}

func TestRiskRegisterSortedByScore(t *testing.T) {
	analyses := []models.AgentAnalysis{
		{AgentName: "a", Role: models.RoleLegal, RiskLevel: models.RiskVeryHigh, Concerns: []string{"antitrust"}},
		{AgentName: "b", Role: models.RoleCustomer, RiskLevel: models.RiskLow, Concerns: []string{"churn"}},
	}
	register := buildRiskRegister(analyses)
	if len(register) != 2 {
		t.Fatalf("got %d entries, want 2", len(register))
	}
	if register[0].Description != "antitrust" {
		t.Errorf("highest-score entry = %q, want antitrust", register[0].Description)
	}
	if register[0].Category != models.RiskCatRegulatory {
		t.Errorf("category = %v, want %v", register[0].Category, models.RiskCatRegulatory)
	}
}
