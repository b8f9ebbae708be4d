// Package finmath holds the numeric helpers behind every figure the assistant
// quotes. All functions are pure and never return NaN or Inf.
package finmath

import (
	"math"

	"github.com/shopspring/decimal"
)

// Level is a coarse investing-experience tier.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// DoublingRuleNumerator is the numerator of the rule-of-72 heuristic.
const DoublingRuleNumerator = 72

// maxCents is where float64 stops resolving cents; larger results skip
// rounding.
const maxCents = 1e15

// Allocation splits an amount across risk buckets, in whole percent.
type Allocation struct {
	Low    int `yaml:"low" json:"low"`
	Medium int `yaml:"medium" json:"medium"`
	High   int `yaml:"high" json:"high"`
}

// Sum returns Low+Medium+High.
func (a Allocation) Sum() int {
	return a.Low + a.Medium + a.High
}

// EmergencyTarget is the 3/6/12 month emergency fund band.
type EmergencyTarget struct {
	Min   float64
	Ideal float64
	Max   float64
}

// CompoundGrow returns principal × (1 + rate/100)^years rounded to cents.
// Fractional years are allowed. A zero rate, non-positive years or a
// non-finite rate or horizon returns the principal unchanged. Growth that overflows
// float64 saturates at ±math.MaxFloat64.
func CompoundGrow(principal, annualRatePercent, years float64) float64 {
	if !finite(principal) {
		return 0
	}
	if !finite(annualRatePercent) || !finite(years) || years <= 0 || annualRatePercent == 0 {
		return principal
	}
	if annualRatePercent <= -100 || principal == 0 {
		return 0
	}

	factor := math.Pow(1+annualRatePercent/100, years)
	grown := principal * factor
	if !finite(factor) || !finite(grown) {
		return math.Copysign(math.MaxFloat64, principal)
	}
	if math.Abs(grown) >= maxCents {
		return grown
	}

	return decimal.NewFromFloat(principal).
		Mul(decimal.NewFromFloat(factor)).
		Round(2).
		InexactFloat64()
}

// DoublingTimeYears estimates how long money takes to double at the given
// annual rate using 72 / rate. ok is false when the rate is not positive.
func DoublingTimeYears(annualRatePercent float64) (years float64, ok bool) {
	if !finite(annualRatePercent) || annualRatePercent <= 0 {
		return 0, false
	}
	return decimal.NewFromInt(DoublingRuleNumerator).
		Div(decimal.NewFromFloat(annualRatePercent)).
		Round(1).
		InexactFloat64(), true
}

// SuggestedEmergencyFundTarget returns 3x, 6x and 12x the monthly expense
// estimate. Negative or non-finite estimates are treated as zero.
func SuggestedEmergencyFundTarget(monthlyExpenseEstimate float64) EmergencyTarget {
	if !finite(monthlyExpenseEstimate) || monthlyExpenseEstimate < 0 {
		monthlyExpenseEstimate = 0
	}
	m := decimal.NewFromFloat(monthlyExpenseEstimate)
	return EmergencyTarget{
		Min:   m.Mul(decimal.NewFromInt(3)).Round(2).InexactFloat64(),
		Ideal: m.Mul(decimal.NewFromInt(6)).Round(2).InexactFloat64(),
		Max:   m.Mul(decimal.NewFromInt(12)).Round(2).InexactFloat64(),
	}
}

// HasAdequateEmergencyFund reports whether savings cover at least
// DefaultPolicy's emergency ratio of the current balance.
func HasAdequateEmergencyFund(savings, balance float64) bool {
	return DefaultPolicy().HasAdequateEmergencyFund(savings, balance)
}

// EmergencyFundShortfall is how much more must be saved before the
// DefaultPolicy's emergency gate opens. Never negative.
func EmergencyFundShortfall(savings, balance float64) float64 {
	return DefaultPolicy().EmergencyFundShortfall(savings, balance)
}

// RecommendedAllocation maps a tier to DefaultPolicy's allocation triple.
func RecommendedAllocation(level Level) Allocation {
	return DefaultPolicy().RecommendedAllocation(level)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// SumOutflows totals the negative amounts as a positive figure.
func SumOutflows(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		if finite(a) && a < 0 {
			total = total.Sub(decimal.NewFromFloat(a))
		}
	}
	return total.Round(2).InexactFloat64()
}

// Split divides amount across an allocation's buckets. The high bucket takes
// the rounding remainder so the parts always add back to the amount.
func Split(amount float64, a Allocation) (low, medium, high float64) {
	if !finite(amount) || amount <= 0 {
		return 0, 0, 0
	}
	total := decimal.NewFromFloat(amount).Round(2)
	hundred := decimal.NewFromInt(100)
	l := total.Mul(decimal.NewFromInt(int64(a.Low))).Div(hundred).Round(2)
	m := total.Mul(decimal.NewFromInt(int64(a.Medium))).Div(hundred).Round(2)
	h := total.Sub(l).Sub(m)
	return l.InexactFloat64(), m.InexactFloat64(), h.InexactFloat64()
}
