package finance

import (
	"fmt"
	"math"
)

// NPV computes the net present value of a cash-flow series at the given
// discount rate: sum of cf[i] / (1+rate)^i.
func NPV(flows CashFlowSeries, rate float64) (float64, error) {
	if len(flows) == 0 {
		return 0, fmt.Errorf("%w: cash flows cannot be empty", ErrInvalidArgument)
	}
	if rate < 0 {
		return 0, fmt.Errorf("%w: discount rate cannot be negative, got %g", ErrInvalidArgument, rate)
	}

	npv := 0.0
	for i, cf := range flows {
		npv += cf / math.Pow(1+rate, float64(i))
	}
	return npv, nil
}

// npvAt evaluates NPV and its derivative with respect to the rate, without
// input validation. Used by the IRR root finder, where candidate rates may
// be negative.
func npvAt(flows CashFlowSeries, rate float64) (npv, derivative float64) {
	for i, cf := range flows {
		fi := float64(i)
		npv += cf / math.Pow(1+rate, fi)
		derivative += -fi * cf / math.Pow(1+rate, fi+1)
	}
	return npv, derivative
}

// IRR finds the internal rate of return by Newton-Raphson iteration starting
// from a 10% guess. Candidate rates are clamped to never fall below -99%,
// since a -100% rate is economically degenerate. Returns ok=false when the
// search does not converge within maxIter iterations or when fewer than two
// cash flows are supplied.
func IRR(flows CashFlowSeries, maxIter int) (float64, bool) {
	if len(flows) < 2 {
		return 0, false
	}
	if maxIter <= 0 {
		maxIter = DefaultIRRIterations
	}

	rate := irrInitialGuess
	for i := 0; i < maxIter; i++ {
		npv, derivative := npvAt(flows, rate)
		if math.Abs(npv) < irrTolerance {
			return rate, true
		}
		if math.Abs(derivative) < irrTolerance {
			break
		}
		rate -= npv / derivative
		if rate < irrRateFloor {
			rate = irrRateFloor
		}
	}
	return 0, false
}

// PaybackPeriod returns the first period at which the cumulative cash flow
// becomes non-negative, linearly interpolated within the crossing period.
// ok=false means the investment is never recovered.
func PaybackPeriod(flows CashFlowSeries) (float64, bool) {
	cumulative := 0.0
	for i, cf := range flows {
		cumulative += cf
		if cumulative >= 0 {
			if i == 0 {
				return 0, true
			}
			if cf != 0 {
				// Fraction of the crossing period needed to reach zero.
				return float64(i-1) + (cumulative-cf)/(-cf), true
			}
			return float64(i), true
		}
	}
	return 0, false
}

// DiscountedPaybackPeriod is PaybackPeriod over discounted cash flows.
func DiscountedPaybackPeriod(flows CashFlowSeries, rate float64) (float64, bool) {
	cumulative := 0.0
	for i, cf := range flows {
		discounted := cf / math.Pow(1+rate, float64(i))
		cumulative += discounted
		if cumulative >= 0 {
			if i == 0 {
				return 0, true
			}
			if discounted != 0 {
				return float64(i-1) + (cumulative-discounted)/(-discounted), true
			}
			return float64(i), true
		}
	}
	return 0, false
}

// ProfitabilityIndex is the present value of flows from period 1 onward
// divided by the absolute initial outlay. A zero initial outlay yields +Inf.
func ProfitabilityIndex(flows CashFlowSeries, rate float64) (float64, error) {
	if len(flows) == 0 {
		return 0, fmt.Errorf("%w: cash flows cannot be empty", ErrInvalidArgument)
	}
	if rate < 0 {
		return 0, fmt.Errorf("%w: discount rate cannot be negative, got %g", ErrInvalidArgument, rate)
	}

	initial := math.Abs(flows[0])
	if initial == 0 {
		return math.Inf(1), nil
	}

	pv := 0.0
	for i := 1; i < len(flows); i++ {
		pv += flows[i] / math.Pow(1+rate, float64(i))
	}
	return pv / initial, nil
}

// CashFlowAnalysis bundles the discounted-cash-flow metrics for one series.
type CashFlowAnalysis struct {
	CashFlows          CashFlowSeries `json:"cash_flows"`
	DiscountRate       float64        `json:"discount_rate"`
	NPV                float64        `json:"npv"`
	IRR                *float64       `json:"irr,omitempty"`
	PaybackPeriod      *float64       `json:"payback_period,omitempty"`
	DiscountedPayback  *float64       `json:"discounted_payback,omitempty"`
	ProfitabilityIndex float64        `json:"profitability_index"`
}

// AnalyzeCashFlows runs the full discounted-cash-flow analysis. Nil pointer
// fields mean the metric has no answer for this series (IRR did not
// converge, payback never reached), which is a valid outcome.
func AnalyzeCashFlows(flows CashFlowSeries, rate float64) (*CashFlowAnalysis, error) {
	npv, err := NPV(flows, rate)
	if err != nil {
		return nil, err
	}
	pi, err := ProfitabilityIndex(flows, rate)
	if err != nil {
		return nil, err
	}

	analysis := &CashFlowAnalysis{
		CashFlows:          flows,
		DiscountRate:       rate,
		NPV:                npv,
		ProfitabilityIndex: pi,
	}
	if irr, ok := IRR(flows, DefaultIRRIterations); ok {
		analysis.IRR = &irr
	}
	if pb, ok := PaybackPeriod(flows); ok {
		analysis.PaybackPeriod = &pb
	}
	if dpb, ok := DiscountedPaybackPeriod(flows, rate); ok {
		analysis.DiscountedPayback = &dpb
	}
	return analysis, nil
}
