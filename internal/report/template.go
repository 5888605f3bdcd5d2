package report

// ReportTemplate is the HTML template for the decision report.
// It is embedded as a Go constant, no external file dependencies.
const ReportTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
  :root {
    --bg: #ffffff;
    --text: #1a1a2e;
    --muted: #6b7280;
    --border: #e5e7eb;
    --accent: #2563eb;
    --green: #16a34a;
    --red: #dc2626;
    --orange: #ea580c;
    --section-bg: #f8fafc;
  }
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    color: var(--text);
    background: var(--bg);
    line-height: 1.6;
    max-width: 900px;
    margin: 0 auto;
    padding: 20px;
  }
  h1, h2, h3 { font-weight: 600; }
  h1 { font-size: 1.5rem; margin-bottom: 4px; color: var(--accent); }
  h2 { font-size: 1.2rem; margin: 24px 0 12px; padding-bottom: 6px; border-bottom: 2px solid var(--accent); }
  p { margin: 6px 0; }
  .muted { color: var(--muted); font-size: 0.85rem; }
  .header { border-bottom: 3px solid var(--accent); padding-bottom: 12px; margin-bottom: 16px; }
  .verdict {
    display: inline-block;
    padding: 4px 16px;
    border-radius: 4px;
    color: white;
    font-weight: 700;
    font-size: 1.1rem;
  }
  .verdict.green { background: var(--green); }
  .verdict.orange { background: var(--orange); }
  .verdict.red { background: var(--red); }
  .stat { display: inline-block; margin-right: 24px; }
  .stat .label { color: var(--muted); font-size: 0.8rem; }
  .stat .value { font-weight: 600; font-size: 1.05rem; }
  .stat .value.green { color: var(--green); }
  .stat .value.orange { color: var(--orange); }
  .stat .value.red { color: var(--red); }
  table { width: 100%; border-collapse: collapse; margin: 8px 0 16px; }
  th, td { text-align: left; padding: 6px 10px; border-bottom: 1px solid var(--border); font-size: 0.9rem; }
  th { background: var(--section-bg); color: var(--muted); font-weight: 600; }
  .agent { background: var(--section-bg); border: 1px solid var(--border); border-radius: 6px; padding: 12px 16px; margin: 10px 0; }
  .agent .name { font-weight: 600; }
  .agent .meta { color: var(--muted); font-size: 0.82rem; margin-bottom: 6px; }
  .agent ul { margin: 6px 0 0 20px; font-size: 0.88rem; }
  .concern { color: var(--red); }
  .failed { border-color: var(--red); }
</style>
</head>
<body>

<div class="header">
  <h1>{{.Title}}</h1>
  <p class="muted">{{.DecisionType}} decision &middot; urgency {{.Urgency}} &middot; timeline {{.Timeline}}</p>
  <p class="muted">Generated {{.GeneratedAt}} in {{.Duration}} by {{.Author}}</p>
</div>

<p><span class="verdict {{.RecommendationClass}}">{{.Recommendation}}</span></p>
<p>
  <span class="stat"><span class="label">Confidence</span><br><span class="value">{{.Confidence}}</span></span>
  <span class="stat"><span class="label">Team agreement</span><br><span class="value">{{.Agreement}}</span></span>
  <span class="stat"><span class="label">Risk score</span><br><span class="value {{.RiskClass}}">{{.RiskScore}}</span></span>
</p>

<h2>Executive Summary</h2>
<p>{{.ExecutiveSummary}}</p>
{{if .ConflictSummary}}<p class="muted">{{.ConflictSummary}}</p>{{end}}

{{if .Options}}
<h2>Option Ranking</h2>
<table>
  <tr><th>Rank</th><th>Option</th><th>Score</th></tr>
  {{range .Options}}<tr><td>{{.Rank}}</td><td>{{.Name}}</td><td>{{.Score}}</td></tr>
  {{end}}
</table>
{{end}}

<h2>Agent Analyses</h2>
{{range .Agents}}
<div class="agent{{if .Failed}} failed{{end}}">
  <span class="name">{{.Name}}</span>
  {{if .Failed}}
  <p class="concern">Analysis failed: {{.Error}}</p>
  {{else}}
  <div class="meta">{{.Role}} &middot; {{.Recommendation}} &middot; confidence {{.Confidence}} &middot; risk {{.RiskLevel}}</div>
  <p>{{.Summary}}</p>
  {{if .Findings}}<ul>{{range .Findings}}<li>{{.}}</li>{{end}}</ul>{{end}}
  {{if .Concerns}}<ul>{{range .Concerns}}<li class="concern">{{.}}</li>{{end}}</ul>{{end}}
  {{end}}
</div>
{{end}}

{{if .Risks}}
<h2>Risk Register</h2>
<table>
  <tr><th>Category</th><th>Description</th><th>Score</th><th>Owner</th></tr>
  {{range .Risks}}<tr><td>{{.Category}}</td><td>{{.Description}}</td><td>{{.Score}}</td><td>{{.Owner}}</td></tr>
  {{end}}
</table>
{{end}}

{{if .Actions}}
<h2>Action Items</h2>
<table>
  <tr><th>Priority</th><th>Action</th><th>Description</th></tr>
  {{range .Actions}}<tr><td>{{.Priority}}</td><td>{{.Title}}</td><td>{{.Description}}</td></tr>
  {{end}}
</table>
{{end}}

</body>
</html>
`
