// Package report renders decision reports produced by the analysis team
// into text, HTML and JSON, and scores report quality.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/strategysim/strategysim/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Report Generator — format selection and configuration
// ════════════════════════════════════════════════════════════════════

// Format specifies the output format.
type Format string

const (
	FormatHTML Format = "html"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config controls report rendering behaviour.
type Config struct {
	Format Format // output format (default: text)
	Title  string // custom report title (optional)
	Author string // author line (default: "StrategySim Analysis Team")
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Format: FormatText,
		Author: "StrategySim Analysis Team",
	}
}

// Generate renders the report in the configured format.
func Generate(r *models.DecisionReport, cfg Config) (string, error) {
	switch cfg.Format {
	case FormatHTML:
		return GenerateHTML(r, cfg)
	case FormatJSON:
		return GenerateJSON(r)
	case FormatText, "":
		return GenerateText(r, cfg)
	default:
		return "", fmt.Errorf("report: unsupported format %q", cfg.Format)
	}
}

// GenerateHTML renders a full HTML decision report.
func GenerateHTML(r *models.DecisionReport, cfg Config) (string, error) {
	if r == nil {
		return "", fmt.Errorf("report is nil")
	}

	data := buildReportData(r, cfg)

	tmpl, err := template.New("report").Parse(ReportTemplate)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

// GenerateText renders a terminal-friendly plain-text report.
func GenerateText(r *models.DecisionReport, cfg Config) (string, error) {
	if r == nil {
		return "", fmt.Errorf("report is nil")
	}
	data := buildReportData(r, cfg)
	return renderTextReport(data), nil
}

// GenerateJSON renders the report as indented JSON.
func GenerateJSON(r *models.DecisionReport) (string, error) {
	if r == nil {
		return "", fmt.Errorf("report is nil")
	}
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}
	return string(out), nil
}

// ════════════════════════════════════════════════════════════════════
// Report Data — flattened for template rendering
// ════════════════════════════════════════════════════════════════════

// ReportData is the template model for text and HTML rendering.
type ReportData struct {
	Title        string
	Author       string
	DecisionType string
	Urgency      string
	Timeline     string
	GeneratedAt  string
	Duration     string

	Recommendation      string
	RecommendationClass string
	Confidence          string
	RiskScore           string
	RiskClass           string
	Agreement           string
	ExecutiveSummary    string
	ConflictSummary     string

	Agents  []AgentSection
	Options []OptionRow
	Risks   []RiskRow
	Actions []ActionRow
}

// AgentSection is one agent's analysis rendered for display.
type AgentSection struct {
	Name           string
	Role           string
	Summary        string
	Recommendation string
	Confidence     string
	RiskLevel      string
	Failed         bool
	Error          string
	Findings       []string
	Concerns       []string
}

// OptionRow is one ranked option.
type OptionRow struct {
	Rank  int
	Name  string
	Score string
}

// RiskRow is one risk-register entry.
type RiskRow struct {
	Category    string
	Description string
	Score       string
	Owner       string
}

// ActionRow is one action item.
type ActionRow struct {
	Priority    string
	Title       string
	Description string
}

func buildReportData(r *models.DecisionReport, cfg Config) ReportData {
	data := ReportData{
		Title:        cfg.Title,
		Author:       cfg.Author,
		DecisionType: string(r.Decision.Type),
		Urgency:      string(r.Decision.Urgency),
		Timeline:     r.Decision.Timeline,
		GeneratedAt:  r.GeneratedAt.Format("02 Jan 2006, 15:04 MST"),
		Duration:     r.Duration.Round(time.Millisecond).String(),

		Recommendation:      formatRecommendation(r.Recommendation),
		RecommendationClass: recommendationClass(r.Recommendation),
		Confidence:          fmt.Sprintf("%.0f%%", r.Confidence*100),
		RiskScore:           fmt.Sprintf("%.2f", r.OverallRiskScore),
		RiskClass:           riskClass(r.OverallRiskScore),
		Agreement:           fmt.Sprintf("%.0f%%", r.Consensus.AgreementScore*100),
		ExecutiveSummary:    r.ExecutiveSummary,
		ConflictSummary:     r.Consensus.ConflictSummary,
	}
	if data.Title == "" {
		data.Title = r.Decision.Title + " — Decision Report"
	}
	if data.Author == "" {
		data.Author = "StrategySim Analysis Team"
	}

	for _, a := range r.Analyses {
		section := AgentSection{
			Name:           a.AgentName,
			Role:           string(a.Role),
			Summary:        a.Summary,
			Recommendation: formatRecommendation(a.Recommendation),
			Confidence:     fmt.Sprintf("%.0f%%", a.Confidence*100),
			RiskLevel:      string(a.RiskLevel),
			Failed:         a.Failed(),
			Error:          a.Error,
			Concerns:       a.Concerns,
		}
		for _, f := range a.Findings {
			section.Findings = append(section.Findings, f.Title+": "+f.Detail)
		}
		data.Agents = append(data.Agents, section)
	}

	for _, ev := range r.OptionRanking {
		data.Options = append(data.Options, OptionRow{
			Rank:  ev.Rank,
			Name:  ev.OptionName,
			Score: fmt.Sprintf("%.2f", ev.OverallScore),
		})
	}
	for _, entry := range r.RiskRegister {
		data.Risks = append(data.Risks, RiskRow{
			Category:    string(entry.Category),
			Description: entry.Description,
			Score:       fmt.Sprintf("%.2f", entry.Score),
			Owner:       entry.Owner,
		})
	}
	for _, item := range r.ActionItems {
		data.Actions = append(data.Actions, ActionRow{
			Priority:    string(item.Priority),
			Title:       item.Title,
			Description: item.Description,
		})
	}
	return data
}

func formatRecommendation(r models.RecommendationCategory) string {
	return strings.ToUpper(strings.ReplaceAll(string(r), "_", " "))
}

func recommendationClass(r models.RecommendationCategory) string {
	switch r {
	case models.RecommendProceed:
		return "green"
	case models.RecommendWithCaution, models.RecommendMoreInfo:
		return "orange"
	default:
		return "red"
	}
}

func riskClass(score float64) string {
	switch {
	case score < 0.4:
		return "green"
	case score < 0.7:
		return "orange"
	default:
		return "red"
	}
}

// ════════════════════════════════════════════════════════════════════
// Text rendering
// ════════════════════════════════════════════════════════════════════

func renderTextReport(d ReportData) string {
	var b strings.Builder
	rule := strings.Repeat("=", 68)
	thin := strings.Repeat("-", 68)

	fmt.Fprintf(&b, "%s\n%s\n%s\n", rule, d.Title, rule)
	fmt.Fprintf(&b, "Type: %s | Urgency: %s | Timeline: %s\n", d.DecisionType, d.Urgency, d.Timeline)
	fmt.Fprintf(&b, "Generated: %s (%s)\n\n", d.GeneratedAt, d.Duration)

	fmt.Fprintf(&b, "RECOMMENDATION: %s\n", d.Recommendation)
	fmt.Fprintf(&b, "Confidence: %s | Team agreement: %s | Risk score: %s\n\n", d.Confidence, d.Agreement, d.RiskScore)
	fmt.Fprintf(&b, "%s\n\n", d.ExecutiveSummary)

	if len(d.Options) > 0 {
		fmt.Fprintf(&b, "OPTION RANKING\n%s\n", thin)
		for _, o := range d.Options {
			fmt.Fprintf(&b, "  %d. %-40s %s\n", o.Rank, o.Name, o.Score)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "AGENT ANALYSES\n%s\n", thin)
	for _, a := range d.Agents {
		if a.Failed {
			fmt.Fprintf(&b, "[%s] FAILED: %s\n\n", a.Name, a.Error)
			continue
		}
		fmt.Fprintf(&b, "[%s] %s (confidence %s, risk %s)\n", a.Name, a.Recommendation, a.Confidence, a.RiskLevel)
		fmt.Fprintf(&b, "  %s\n", a.Summary)
		for _, c := range a.Concerns {
			fmt.Fprintf(&b, "  ! %s\n", c)
		}
		b.WriteString("\n")
	}

	if len(d.Risks) > 0 {
		fmt.Fprintf(&b, "RISK REGISTER\n%s\n", thin)
		for _, r := range d.Risks {
			fmt.Fprintf(&b, "  [%s] %s (score %s, owner %s)\n", r.Category, r.Description, r.Score, r.Owner)
		}
		b.WriteString("\n")
	}

	if len(d.Actions) > 0 {
		fmt.Fprintf(&b, "ACTION ITEMS\n%s\n", thin)
		for _, a := range d.Actions {
			fmt.Fprintf(&b, "  [%s] %s - %s\n", a.Priority, a.Title, a.Description)
		}
		b.WriteString("\n")
	}

	if d.ConflictSummary != "" {
		fmt.Fprintf(&b, "Note: %s\n", d.ConflictSummary)
	}
	return b.String()
}

// ════════════════════════════════════════════════════════════════════
// Quality validation
// ════════════════════════════════════════════════════════════════════

// QualityResult scores how complete and decision-ready a report is.
type QualityResult struct {
	Score  float64  `json:"quality_score"` // 0.0 to 1.0
	Issues []string `json:"issues,omitempty"`
}

// ValidateQuality checks a report against the completeness rubric: an
// executive summary, a majority of agents reporting, ranked options, a
// populated risk register, action items and a usable consensus.
func ValidateQuality(r *models.DecisionReport) QualityResult {
	var res QualityResult

	succeeded := 0
	for _, a := range r.Analyses {
		if !a.Failed() {
			succeeded++
		}
	}

	checks := []struct {
		ok    bool
		issue string
	}{
		{r.ExecutiveSummary != "", "missing executive summary"},
		{succeeded*2 > len(r.Analyses), "a majority of agents failed"},
		{len(r.OptionRanking) > 0, "no option ranking"},
		{len(r.RiskRegister) > 0, "empty risk register"},
		{len(r.ActionItems) > 0, "no action items"},
		{r.Recommendation != "", "no final recommendation"},
		{r.Consensus.AgreementScore >= 0.5, "weak team consensus"},
		{r.Confidence >= 0.3, "low overall confidence"},
	}

	passed := 0
	for _, c := range checks {
		if c.ok {
			passed++
		} else {
			res.Issues = append(res.Issues, c.issue)
		}
	}
	res.Score = float64(passed) / float64(len(checks))
	return res
}
