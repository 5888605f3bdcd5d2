package risk

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Distribution identifies a probability distribution kind.
type Distribution string

const (
	DistNormal      Distribution = "normal"
	DistUniform     Distribution = "uniform"
	DistTriangular  Distribution = "triangular"
	DistBeta        Distribution = "beta"
	DistExponential Distribution = "exponential"
	DistLogNormal   Distribution = "lognormal"
)

// requiredParams lists the parameter keys each distribution kind demands.
var requiredParams = map[Distribution][]string{
	DistNormal:      {"mean", "std"},
	DistUniform:     {"min", "max"},
	DistTriangular:  {"min", "mode", "max"},
	DistBeta:        {"alpha", "beta"},
	DistExponential: {"scale"},
	DistLogNormal:   {"mean", "sigma"},
}

// RiskVariable declares one stochastic input to a simulation: a unique name,
// a distribution kind, and the distribution's parameters.
type RiskVariable struct {
	Name         string             `json:"name"`
	Description  string             `json:"description,omitempty"`
	Distribution Distribution       `json:"distribution"`
	Parameters   map[string]float64 `json:"parameters"`
	Unit         string             `json:"unit,omitempty"`
}

// NewRiskVariable constructs a validated risk variable. The parameter map
// must contain exactly the keys the distribution kind requires.
func NewRiskVariable(name string, dist Distribution, params map[string]float64) (RiskVariable, error) {
	v := RiskVariable{Name: name, Distribution: dist, Parameters: params}
	if err := v.Validate(); err != nil {
		return RiskVariable{}, err
	}
	return v, nil
}

// Validate checks the variable's name, distribution kind, and parameters.
func (v RiskVariable) Validate() error {
	if v.Name == "" {
		return fmt.Errorf("%w: risk variable name cannot be empty", ErrInvalidArgument)
	}
	required, ok := requiredParams[v.Distribution]
	if !ok {
		return fmt.Errorf("%w: unsupported distribution %q", ErrInvalidArgument, v.Distribution)
	}
	for _, key := range required {
		if _, present := v.Parameters[key]; !present {
			return fmt.Errorf("%w: %s distribution requires %q parameter for variable %q",
				ErrInvalidArgument, v.Distribution, key, v.Name)
		}
	}
	return v.validateParams()
}

// validateParams enforces each distribution's parameter constraints so that
// sampler construction can never panic on user input.
func (v RiskVariable) validateParams() error {
	p := v.Parameters
	switch v.Distribution {
	case DistNormal:
		if p["std"] <= 0 {
			return fmt.Errorf("%w: variable %q: std must be positive, got %g",
				ErrInvalidArgument, v.Name, p["std"])
		}
	case DistUniform:
		if p["min"] >= p["max"] {
			return fmt.Errorf("%w: variable %q: min %g must be less than max %g",
				ErrInvalidArgument, v.Name, p["min"], p["max"])
		}
	case DistTriangular:
		if p["min"] >= p["max"] {
			return fmt.Errorf("%w: variable %q: min %g must be less than max %g",
				ErrInvalidArgument, v.Name, p["min"], p["max"])
		}
		if p["mode"] < p["min"] || p["mode"] > p["max"] {
			return fmt.Errorf("%w: variable %q: mode %g must lie within [%g, %g]",
				ErrInvalidArgument, v.Name, p["mode"], p["min"], p["max"])
		}
	case DistBeta:
		if p["alpha"] <= 0 || p["beta"] <= 0 {
			return fmt.Errorf("%w: variable %q: alpha and beta must be positive, got %g and %g",
				ErrInvalidArgument, v.Name, p["alpha"], p["beta"])
		}
	case DistExponential:
		if p["scale"] <= 0 {
			return fmt.Errorf("%w: variable %q: scale must be positive, got %g",
				ErrInvalidArgument, v.Name, p["scale"])
		}
	case DistLogNormal:
		if p["sigma"] <= 0 {
			return fmt.Errorf("%w: variable %q: sigma must be positive, got %g",
				ErrInvalidArgument, v.Name, p["sigma"])
		}
	}
	return nil
}

// sampler builds the distuv sampler for this variable bound to the given
// random source. The variable must already be validated.
func (v RiskVariable) sampler(src rand.Source) (distuv.Rander, error) {
	p := v.Parameters
	switch v.Distribution {
	case DistNormal:
		return distuv.Normal{Mu: p["mean"], Sigma: p["std"], Src: src}, nil
	case DistUniform:
		return distuv.Uniform{Min: p["min"], Max: p["max"], Src: src}, nil
	case DistTriangular:
		return distuv.NewTriangle(p["min"], p["max"], p["mode"], src), nil
	case DistBeta:
		return distuv.Beta{Alpha: p["alpha"], Beta: p["beta"], Src: src}, nil
	case DistExponential:
		// distuv parameterizes by rate; the declared parameter is the mean.
		return distuv.Exponential{Rate: 1 / p["scale"], Src: src}, nil
	case DistLogNormal:
		return distuv.LogNormal{Mu: p["mean"], Sigma: p["sigma"], Src: src}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported distribution %q", ErrInvalidArgument, v.Distribution)
	}
}

// validateVariables checks a set of variables for individual validity and
// name uniqueness within the run.
func validateVariables(vars []RiskVariable) error {
	seen := make(map[string]bool, len(vars))
	for _, v := range vars {
		if err := v.Validate(); err != nil {
			return err
		}
		if seen[v.Name] {
			return fmt.Errorf("%w: duplicate risk variable name %q", ErrInvalidArgument, v.Name)
		}
		seen[v.Name] = true
	}
	return nil
}
