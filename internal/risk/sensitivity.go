package risk

import (
	"fmt"
	"math"
	"sort"
)

// DefaultSensitivityPoints is the number of evenly spaced test values per
// variable when none is specified.
const DefaultSensitivityPoints = 10

// tornadoPerturbation is the relative perturbation used for tornado impacts
// and elasticity: each variable is tested at base*(1±0.10).
const tornadoPerturbation = 0.10

// Range bounds the values a variable is tested at.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// VariableSensitivity is the response curve of the objective to one variable,
// all other inputs held at base case.
type VariableSensitivity struct {
	InputValues  []float64 `json:"input_values"`
	OutputValues []float64 `json:"output_values"`
	OutputRange  float64   `json:"range"` // max(output) - min(output)
}

// TornadoEntry ranks one variable by its output impact under a ±10%
// perturbation. Impact is half the (high − low) output difference.
type TornadoEntry struct {
	Variable string  `json:"variable"`
	Impact   float64 `json:"impact"`
}

// SensitivityResult holds per-variable response curves, the tornado-chart
// ranking, and elasticity measures.
type SensitivityResult struct {
	BaseCaseValue float64                        `json:"base_case_value"`
	PerVariable   map[string]VariableSensitivity `json:"sensitivity_results"`
	Tornado       []TornadoEntry                 `json:"tornado_chart_data"`
	MostSensitive []string                       `json:"most_sensitive_variables"`
	Elasticity    map[string]float64             `json:"elasticity_measures"`
}

// Sensitivity measures how the objective responds to each named variable.
// For each variable with a declared range, the objective is evaluated at
// numPoints evenly spaced values. Independently, each variable is perturbed
// by ±10% of its base value to produce the tornado ranking and elasticity;
// variables with a zero base value are skipped there, since a percentage
// perturbation of zero is undefined.
func Sensitivity(baseInputs map[string]float64, ranges map[string]Range,
	objective ObjectiveFunc, numPoints int) (*SensitivityResult, error) {

	if objective == nil {
		return nil, fmt.Errorf("%w: objective function cannot be nil", ErrInvalidArgument)
	}
	if len(baseInputs) == 0 {
		return nil, fmt.Errorf("%w: base inputs cannot be empty", ErrInvalidArgument)
	}
	if numPoints <= 0 {
		numPoints = DefaultSensitivityPoints
	}
	for name := range ranges {
		if _, ok := baseInputs[name]; !ok {
			return nil, fmt.Errorf("%w: range declared for unknown variable %q", ErrInvalidArgument, name)
		}
	}

	baseValue := objective(baseInputs)

	res := &SensitivityResult{
		BaseCaseValue: baseValue,
		PerVariable:   make(map[string]VariableSensitivity, len(ranges)),
		Elasticity:    make(map[string]float64, len(ranges)),
	}

	// Deterministic variable order.
	names := make([]string, 0, len(ranges))
	for name := range ranges {
		names = append(names, name)
	}
	sort.Strings(names)

	evalWith := func(name string, value float64) float64 {
		modified := make(map[string]float64, len(baseInputs))
		for k, v := range baseInputs {
			modified[k] = v
		}
		modified[name] = value
		return objective(modified)
	}

	for _, name := range names {
		r := ranges[name]

		// Response curve across the declared range.
		inputs := make([]float64, numPoints)
		outputs := make([]float64, numPoints)
		lo, hi := math.Inf(1), math.Inf(-1)
		for i := 0; i < numPoints; i++ {
			v := r.Min
			if numPoints > 1 {
				v = r.Min + (r.Max-r.Min)*float64(i)/float64(numPoints-1)
			}
			out := evalWith(name, v)
			inputs[i] = v
			outputs[i] = out
			lo = math.Min(lo, out)
			hi = math.Max(hi, out)
		}
		res.PerVariable[name] = VariableSensitivity{
			InputValues:  inputs,
			OutputValues: outputs,
			OutputRange:  hi - lo,
		}

		// Tornado impact and elasticity from a ±10% perturbation.
		base := baseInputs[name]
		if base == 0 {
			continue
		}
		outHigh := evalWith(name, base*(1+tornadoPerturbation))
		outLow := evalWith(name, base*(1-tornadoPerturbation))
		res.Tornado = append(res.Tornado, TornadoEntry{
			Variable: name,
			Impact:   (outHigh - outLow) / 2,
		})
		if baseValue != 0 {
			res.Elasticity[name] = ((outHigh - outLow) / baseValue) / (2 * tornadoPerturbation)
		}
	}

	sort.SliceStable(res.Tornado, func(i, j int) bool {
		return math.Abs(res.Tornado[i].Impact) > math.Abs(res.Tornado[j].Impact)
	})
	for i, entry := range res.Tornado {
		if i == 5 {
			break
		}
		res.MostSensitive = append(res.MostSensitive, entry.Variable)
	}

	return res, nil
}
