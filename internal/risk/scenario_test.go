package risk

import (
	"errors"
	"math"
	"testing"
)

func TestAnalyzeScenariosOverlayMerge(t *testing.T) {
	base := map[string]any{"revenue": 100000.0, "cost": 60000.0, "tax_rate": 0.25}
	defs := []ScenarioDefinition{
		{
			Name:        "downturn",
			Kind:        ScenarioWorstCase,
			Assumptions: map[string]any{"revenue": 70000.0},
			Probability: 0.2,
		},
	}
	outcome := func(assumptions map[string]any) map[string]float64 {
		rev := assumptions["revenue"].(float64)
		cost := assumptions["cost"].(float64)
		return map[string]float64{"profit": rev - cost}
	}

	analyses, err := AnalyzeScenarios(base, defs, outcome)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(analyses) != 1 {
		t.Fatalf("got %d analyses, want 1", len(analyses))
	}

	a := analyses[0]
	if a.Assumptions["revenue"] != 70000.0 {
		t.Errorf("override lost: revenue = %v, want 70000", a.Assumptions["revenue"])
	}
	if a.Assumptions["cost"] != 60000.0 {
		t.Errorf("base assumption lost: cost = %v, want 60000", a.Assumptions["cost"])
	}
	if a.Assumptions["tax_rate"] != 0.25 {
		t.Errorf("untouched base key lost: tax_rate = %v", a.Assumptions["tax_rate"])
	}
	if a.Outcomes["profit"] != 10000.0 {
		t.Errorf("profit = %v, want 10000", a.Outcomes["profit"])
	}

	// The base map itself must not be mutated by the overlay.
	if base["revenue"] != 100000.0 {
		t.Errorf("base map mutated: revenue = %v", base["revenue"])
	}
}

func TestAnalyzeScenariosValidation(t *testing.T) {
	base := map[string]any{"x": 1.0}
	outcome := func(map[string]any) map[string]float64 { return nil }

	tests := []struct {
		name string
		defs []ScenarioDefinition
	}{
		{"empty name", []ScenarioDefinition{{Name: "  ", Probability: 0.5}}},
		{"negative probability", []ScenarioDefinition{{Name: "s", Probability: -0.1}}},
		{"probability above one", []ScenarioDefinition{{Name: "s", Probability: 1.1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := AnalyzeScenarios(base, tt.defs, outcome); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("got err %v, want ErrInvalidArgument", err)
			}
		})
	}

	if _, err := AnalyzeScenarios(base, nil, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil outcome func: got err %v, want ErrInvalidArgument", err)
	}
}

func TestIdentifyBlackSwansBaseline(t *testing.T) {
	scenarios := IdentifyBlackSwans("expansion", "retail", "medium")
	if len(scenarios) != 4 {
		t.Fatalf("got %d scenarios, want 4", len(scenarios))
	}

	want := map[string]float64{
		"Black Swan: Pandemic":         0.05,
		"Black Swan: Financial Crisis": 0.10,
		"Black Swan: Cyber Attack":     0.15,
		"Black Swan: Regulatory Shock": 0.20,
	}
	for _, s := range scenarios {
		p, ok := want[s.Name]
		if !ok {
			t.Errorf("unexpected scenario %q", s.Name)
			continue
		}
		if math.Abs(s.Probability-p) > 1e-12 {
			t.Errorf("%s: probability = %v, want %v", s.Name, s.Probability, p)
		}
		if s.Kind != ScenarioBlackSwan {
			t.Errorf("%s: kind = %v, want %v", s.Name, s.Kind, ScenarioBlackSwan)
		}
		if len(s.Mitigations) == 0 {
			t.Errorf("%s: no mitigation strategies attached", s.Name)
		}
	}
}

func TestIdentifyBlackSwansMultipliers(t *testing.T) {
	tests := []struct {
		name     string
		industry string
		horizon  string
		scenario string
		want     float64
	}{
		{"technology doubles cyber", "technology", "medium", "Black Swan: Cyber Attack", 0.30},
		{"healthcare scales pandemic", "healthcare", "medium", "Black Swan: Pandemic", 0.075},
		{"financial scales crisis", "financial", "medium", "Black Swan: Financial Crisis", 0.15},
		{"long horizon scales up", "retail", "long_term", "Black Swan: Pandemic", 0.075},
		{"short horizon scales down", "retail", "short_term", "Black Swan: Regulatory Shock", 0.10},
		{"industry and horizon compound", "technology", "long_term", "Black Swan: Cyber Attack", 0.45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scenarios := IdentifyBlackSwans("ctx", tt.industry, tt.horizon)
			for _, s := range scenarios {
				if s.Name == tt.scenario {
					if math.Abs(s.Probability-tt.want) > 1e-12 {
						t.Errorf("probability = %v, want %v", s.Probability, tt.want)
					}
					return
				}
			}
			t.Fatalf("scenario %q not found", tt.scenario)
		})
	}
}
