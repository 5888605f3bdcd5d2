package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/strategysim/strategysim/pkg/models"
)

// ErrInvalidDecision is returned when the decision input fails validation.
var ErrInvalidDecision = errors.New("agent: invalid decision input")

// ErrAllAgentsFailed is returned when no agent produced a usable analysis.
var ErrAllAgentsFailed = errors.New("agent: all agents failed")

// ── Progress events ──

// ProgressEvent is emitted as the team works, for streaming to clients.
type ProgressEvent struct {
	Stage   string    `json:"stage"` // started, agent_started, agent_finished, agent_failed, completed
	Agent   string    `json:"agent,omitempty"`
	Message string    `json:"message,omitempty"`
	Time    time.Time `json:"time"`
}

// ProgressFunc receives progress events. Must be safe for concurrent use.
type ProgressFunc func(ProgressEvent)

// ── Team ──

// TeamConfig configures the analysis team.
type TeamConfig struct {
	// Iterations for the analyst's simulations; zero means the default.
	Iterations int
	// Seed makes the analyst's simulations reproducible.
	Seed *int64
	// Researcher enriches the customer agent with market headlines. Optional.
	Researcher Researcher
	// Logger receives structured team events.
	Logger zerolog.Logger
	// Progress receives live progress events. Optional.
	Progress ProgressFunc
}

// Team runs the five specialists concurrently over a decision and merges
// their analyses into a decision report. Individual agent failure is
// tolerated; the report carries the error in that agent's analysis.
type Team struct {
	agents   []Agent
	log      zerolog.Logger
	progress ProgressFunc
}

// NewTeam assembles the standard five-specialist team.
func NewTeam(cfg TeamConfig) *Team {
	return &Team{
		agents: []Agent{
			NewInvestorAgent(),
			NewLegalAgent(),
			NewAnalystAgent(cfg.Iterations, cfg.Seed),
			NewCustomerAgent(cfg.Researcher),
			NewStrategistAgent(),
		},
		log:      cfg.Logger,
		progress: cfg.Progress,
	}
}

// Agents returns the team's members in execution order.
func (t *Team) Agents() []Agent { return t.agents }

// Analyze validates the decision, fans the agents out concurrently, and
// merges their analyses into a report.
func (t *Team) Analyze(ctx context.Context, decision *models.DecisionInput) (*models.DecisionReport, error) {
	start := time.Now()

	validation := decision.Validate()
	if !validation.Valid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDecision, validation.Errors[0].Message)
	}

	t.emit(ProgressEvent{Stage: "started", Message: decision.Title})
	t.log.Info().Str("decision", decision.Title).Int("agents", len(t.agents)).Msg("team analysis started")

	analyses := make([]models.AgentAnalysis, len(t.agents))
	g, gctx := errgroup.WithContext(ctx)
	for i, member := range t.agents {
		i, member := i, member
		g.Go(func() error {
			t.emit(ProgressEvent{Stage: "agent_started", Agent: member.Name()})

			analysis, err := member.Analyze(gctx, decision)
			if err != nil {
				// Context cancellation aborts the whole run; anything else
				// is recorded and the rest of the team continues.
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				analysis = &models.AgentAnalysis{
					AgentName: member.Name(),
					Role:      member.Role(),
					Error:     err.Error(),
					Timestamp: time.Now(),
				}
			}
			analyses[i] = *analysis

			if analysis.Failed() {
				t.emit(ProgressEvent{Stage: "agent_failed", Agent: member.Name(), Message: analysis.Error})
				t.log.Warn().Str("agent", member.Name()).Str("error", analysis.Error).Msg("agent failed")
			} else {
				t.emit(ProgressEvent{Stage: "agent_finished", Agent: member.Name()})
				t.log.Info().Str("agent", member.Name()).
					Dur("duration", analysis.Duration).
					Str("recommendation", string(analysis.Recommendation)).
					Msg("agent finished")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	succeeded := 0
	for i := range analyses {
		if !analyses[i].Failed() {
			succeeded++
		}
	}
	if succeeded == 0 {
		return nil, ErrAllAgentsFailed
	}

	report := t.merge(decision, analyses, time.Since(start))
	t.emit(ProgressEvent{Stage: "completed", Message: string(report.Recommendation)})
	t.log.Info().
		Str("recommendation", string(report.Recommendation)).
		Float64("confidence", report.Confidence).
		Dur("duration", report.Duration).
		Msg("team analysis completed")

	return report, nil
}

func (t *Team) emit(ev ProgressEvent) {
	if t.progress == nil {
		return
	}
	ev.Time = time.Now()
	t.progress(ev)
}
