package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/strategysim/strategysim/internal/config"
	"github.com/strategysim/strategysim/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Test Helpers
// ════════════════════════════════════════════════════════════════════

func testServer(t *testing.T) *Server {
	t.Helper()
	seed := int64(42)
	cfg := &config.Config{
		Analysis: config.AnalysisConfig{Iterations: 1000, Seed: &seed},
		API:      config.APIConfig{Port: 8080},
		Report:   config.ReportConfig{Format: "text", Author: "StrategySim Analysis Team"},
		Logging:  config.LoggingConfig{Level: "info", Format: "text"},
	}
	srv := NewServer(cfg, zerolog.Nop())
	go srv.wsHub.Run()
	return srv
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func postJSON(t *testing.T, srv *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func getPath(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func testDecision() *models.DecisionInput {
	equity := 1500000.0
	debt := 500000.0
	return &models.DecisionInput{
		Title:       "European market entry",
		Description: "Evaluate two routes for entering the European market next fiscal year.",
		Type:        models.DecisionMarketEntry,
		Urgency:     models.UrgencyMedium,
		Timeline:    "12 months",
		Options: []models.DecisionOption{
			{
				Name:            "Direct subsidiary",
				Description:     "Open a wholly owned subsidiary",
				EstimatedCost:   800000,
				ConfidenceLevel: 0.6,
				CashFlows:       []float64{-800000, 150000, 300000, 400000, 450000},
			},
			{
				Name:            "Distribution partner",
				Description:     "License a local distribution partner",
				EstimatedCost:   250000,
				ConfidenceLevel: 0.75,
				CashFlows:       []float64{-250000, 100000, 150000, 180000, 180000},
			},
		},
		Context: models.DecisionContext{
			Industry:            "technology",
			StrategicPriorities: []string{"international growth", "market reach"},
		},
		Financials: &models.FinancialEnvelope{
			DiscountRate:      0.10,
			Revenue:           2000000,
			COGS:              900000,
			OperatingExpenses: 600000,
			TaxRate:           0.25,
			Equity:            &equity,
			Debt:              &debt,
		},
	}
}

// ════════════════════════════════════════════════════════════════════
// Health
// ════════════════════════════════════════════════════════════════════

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(t)
	rec := getPath(t, srv, "/health")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Error("health response should be successful")
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data should be an object, got %T", resp.Data)
	}
	if data["status"] != "ok" {
		t.Errorf("status field: got %v, want %q", data["status"], "ok")
	}
}

// ════════════════════════════════════════════════════════════════════
// Analysis endpoints
// ════════════════════════════════════════════════════════════════════

func TestAnalyzeEndpoint(t *testing.T) {
	srv := testServer(t)
	rec := postJSON(t, srv, "/api/v1/analyze", AnalyzeRequest{Decision: testDecision()})

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Fatalf("analyze failed: %s", resp.Error)
	}

	data, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatal(err)
	}
	var out AnalyzeResponse
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Report == nil {
		t.Fatal("report should be present")
	}
	if len(out.Report.Analyses) != 5 {
		t.Errorf("analyses: got %d, want 5", len(out.Report.Analyses))
	}
	if out.Report.Recommendation == "" {
		t.Error("recommendation should be set")
	}
	if out.Rendered != "" {
		t.Error("rendered report should be empty without a format")
	}
}

func TestAnalyzeEndpointInlineReport(t *testing.T) {
	srv := testServer(t)
	rec := postJSON(t, srv, "/api/v1/analyze", AnalyzeRequest{
		Decision: testDecision(),
		Format:   "text",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	resp := decodeResponse(t, rec)
	data, _ := json.Marshal(resp.Data)
	var out AnalyzeResponse
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.Rendered, "RECOMMENDATION") {
		t.Error("rendered text report should contain a RECOMMENDATION section")
	}
}

func TestAnalyzeEndpointInvalidDecision(t *testing.T) {
	srv := testServer(t)
	decision := testDecision()
	decision.Options = decision.Options[:1] // below minimum

	rec := postJSON(t, srv, "/api/v1/analyze", AnalyzeRequest{Decision: decision})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Success {
		t.Error("response should not be successful")
	}
}

func TestAnalyzeEndpointMissingDecision(t *testing.T) {
	srv := testServer(t)
	rec := postJSON(t, srv, "/api/v1/analyze", AnalyzeRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestValidateEndpoint(t *testing.T) {
	srv := testServer(t)
	rec := postJSON(t, srv, "/api/v1/validate", testDecision())

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	resp := decodeResponse(t, rec)
	data, _ := json.Marshal(resp.Data)
	var result models.ValidationResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatal(err)
	}
	if !result.Valid {
		t.Errorf("fixture decision should validate, errors: %v", result.Errors)
	}
}

func TestAgentsEndpoint(t *testing.T) {
	srv := testServer(t)
	rec := getPath(t, srv, "/api/v1/agents")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	resp := decodeResponse(t, rec)
	agents, ok := resp.Data.([]interface{})
	if !ok {
		t.Fatalf("data should be an array, got %T", resp.Data)
	}
	if len(agents) != 5 {
		t.Errorf("agents: got %d, want 5", len(agents))
	}
}

// ════════════════════════════════════════════════════════════════════
// Toolkit endpoints
// ════════════════════════════════════════════════════════════════════

func TestToolsEndpoint(t *testing.T) {
	srv := testServer(t)
	rec := getPath(t, srv, "/api/v1/tools")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	resp := decodeResponse(t, rec)
	tools, ok := resp.Data.([]interface{})
	if !ok {
		t.Fatalf("data should be an array, got %T", resp.Data)
	}
	if len(tools) != 10 {
		t.Errorf("tools: got %d, want 10", len(tools))
	}
}

func TestToolInvokeEndpoint(t *testing.T) {
	srv := testServer(t)
	body := map[string]any{
		"fixed_costs":            50000,
		"price_per_unit":         25,
		"variable_cost_per_unit": 10,
	}
	rec := postJSON(t, srv, "/api/v1/tools/break_even", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data should be an object, got %T", resp.Data)
	}
	units, ok := data["break_even_units"].(float64)
	if !ok || units != 50000.0/15.0 {
		t.Errorf("break_even_units: got %v, want %v", data["break_even_units"], 50000.0/15.0)
	}
}

func TestToolInvokeUnknownOp(t *testing.T) {
	srv := testServer(t)
	rec := postJSON(t, srv, "/api/v1/tools/stock_screener", map[string]any{})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

func TestSimulateEndpoint(t *testing.T) {
	srv := testServer(t)
	body := map[string]any{
		"variables": []map[string]any{
			{"name": "demand", "distribution": "normal", "parameters": map[string]float64{"mean": 100, "std": 10}},
		},
		"objective":  map[string]any{"coefficients": map[string]float64{"demand": 1}},
		"iterations": 2000,
		"seed":       7,
	}
	rec := postJSON(t, srv, "/api/v1/simulate", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data should be an object, got %T", resp.Data)
	}
	mean, ok := data["mean"].(float64)
	if !ok || mean < 95 || mean > 105 {
		t.Errorf("mean: got %v, want near 100", data["mean"])
	}
}

func TestSimulateEndpointBadRequest(t *testing.T) {
	srv := testServer(t)

	// Unsupported distribution propagates as a 400.
	body := map[string]any{
		"variables": []map[string]any{
			{"name": "x", "distribution": "cauchy", "parameters": map[string]float64{}},
		},
		"objective": map[string]any{"coefficients": map[string]float64{"x": 1}},
	}
	rec := postJSON(t, srv, "/api/v1/simulate", body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}

	// Malformed JSON is rejected outright.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/simulate", strings.NewReader("{not json"))
	rec2 := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec2, req)
	if rec2.Code != http.StatusBadRequest {
		t.Errorf("malformed JSON status: got %d, want 400", rec2.Code)
	}
}

func TestAssessEndpoint(t *testing.T) {
	srv := testServer(t)
	body := map[string]any{
		"context": "Product line margin risk",
		"variables": []map[string]any{
			{"name": "revenue", "distribution": "normal", "parameters": map[string]float64{"mean": 120000, "std": 20000}},
			{"name": "cost", "distribution": "uniform", "parameters": map[string]float64{"min": 50000, "max": 90000}},
		},
		"objective": map[string]any{
			"coefficients": map[string]float64{"revenue": 1, "cost": -1},
		},
		"base_inputs": map[string]float64{"revenue": 120000, "cost": 70000},
		"iterations":  2000,
		"seed":        11,
	}
	rec := postJSON(t, srv, "/api/v1/assess", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeResponse(t, rec)
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data should be an object, got %T", resp.Data)
	}
	id, _ := data["assessment_id"].(string)
	if !strings.HasPrefix(id, "risk_assessment_") {
		t.Errorf("id: got %q, want risk_assessment_ prefix", id)
	}
	score, ok := data["overall_risk_score"].(float64)
	if !ok || score < 0 || score > 1 {
		t.Errorf("overall_risk_score: got %v, want in [0,1]", data["overall_risk_score"])
	}
}

// ════════════════════════════════════════════════════════════════════
// Report endpoint
// ════════════════════════════════════════════════════════════════════

func TestReportEndpoint(t *testing.T) {
	srv := testServer(t)

	// Run an analysis to get a real report to render.
	rec := postJSON(t, srv, "/api/v1/analyze", AnalyzeRequest{Decision: testDecision()})
	if rec.Code != http.StatusOK {
		t.Fatalf("analyze status: got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	data, _ := json.Marshal(resp.Data)
	var out AnalyzeResponse
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}

	rec = postJSON(t, srv, "/api/v1/report", ReportRequest{Report: out.Report, Format: "text"})
	if rec.Code != http.StatusOK {
		t.Fatalf("report status: got %d, body %s", rec.Code, rec.Body.String())
	}
	textResp := decodeResponse(t, rec)
	rendered, ok := textResp.Data.(string)
	if !ok || !strings.Contains(rendered, "AGENT ANALYSES") {
		t.Error("text report should contain AGENT ANALYSES section")
	}

	// HTML format is served with an HTML content type.
	rec = postJSON(t, srv, "/api/v1/report", ReportRequest{Report: out.Report, Format: "html"})
	if rec.Code != http.StatusOK {
		t.Fatalf("html report status: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: got %q, want text/html", ct)
	}
	if !strings.Contains(rec.Body.String(), "<!DOCTYPE html>") {
		t.Error("HTML report should contain a doctype")
	}
}

func TestReportEndpointMissingReport(t *testing.T) {
	srv := testServer(t)
	rec := postJSON(t, srv, "/api/v1/report", ReportRequest{Format: "text"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestReportEndpointBadFormat(t *testing.T) {
	srv := testServer(t)
	rec := postJSON(t, srv, "/api/v1/report", ReportRequest{
		Report: &models.DecisionReport{ID: "report_1"},
		Format: "pdf",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

// ════════════════════════════════════════════════════════════════════
// WebSocket Hub
// ════════════════════════════════════════════════════════════════════

func TestWSHubRegisterAndBroadcast(t *testing.T) {
	hub := NewWSHub()
	go hub.Run()

	client := &WSClient{hub: hub, send: make(chan WSMessage, 8)}
	hub.Register(client)

	// Registration is asynchronous; wait for it to land.
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if hub.ClientCount() != 1 {
		t.Fatalf("client count: got %d, want 1", hub.ClientCount())
	}

	hub.Broadcast(WSMessage{Type: "progress", Data: "working"})
	select {
	case msg := <-client.send:
		if msg.Type != "progress" {
			t.Errorf("type: got %q, want %q", msg.Type, "progress")
		}
	case <-time.After(time.Second):
		t.Fatal("broadcast message not delivered")
	}

	hub.Unregister(client)
	deadline = time.Now().Add(time.Second)
	for hub.ClientCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if hub.ClientCount() != 0 {
		t.Errorf("client count after unregister: got %d, want 0", hub.ClientCount())
	}
}
