package finance

import (
	"fmt"
	"math"
)

// BreakEvenResult holds the break-even analysis for a unit economics model.
type BreakEvenResult struct {
	Units                   float64 `json:"break_even_units"`
	Revenue                 float64 `json:"break_even_revenue"`
	ContributionMargin      float64 `json:"contribution_margin"`
	ContributionMarginRatio float64 `json:"contribution_margin_ratio"`
	// OperatingLeverage is +Inf when the per-unit contribution margin does
	// not exceed fixed costs.
	OperatingLeverage float64 `json:"operating_leverage"`
}

// BreakEven computes the unit volume and revenue at which contribution
// margin covers fixed costs. The price must strictly exceed the variable
// cost per unit; a zero or negative contribution margin has no break-even
// unit count.
func BreakEven(fixedCosts, variableCostPerUnit, pricePerUnit float64) (*BreakEvenResult, error) {
	if pricePerUnit <= variableCostPerUnit {
		return nil, fmt.Errorf("%w: price per unit (%g) must be greater than variable cost per unit (%g)",
			ErrInvalidArgument, pricePerUnit, variableCostPerUnit)
	}

	margin := pricePerUnit - variableCostPerUnit
	units := fixedCosts / margin

	leverage := math.Inf(1)
	if margin > fixedCosts {
		leverage = margin / (margin - fixedCosts)
	}

	return &BreakEvenResult{
		Units:                   units,
		Revenue:                 units * pricePerUnit,
		ContributionMargin:      margin,
		ContributionMarginRatio: margin / pricePerUnit,
		OperatingLeverage:       leverage,
	}, nil
}
