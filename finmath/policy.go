package finmath

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultEmergencyFundRatio is the share of the current balance that must sit
// in savings before the assistant recommends investing. Product policy, not
// financial law: override it through Policy.
const DefaultEmergencyFundRatio = 0.20

var (
	DefaultBeginnerAllocation     = Allocation{Low: 70, Medium: 20, High: 10}
	DefaultIntermediateAllocation = Allocation{Low: 50, Medium: 30, High: 20}
	DefaultAdvancedAllocation     = Allocation{Low: 30, Medium: 40, High: 30}
)

// Policy bundles the overridable product heuristics. Every intent that quotes
// the emergency gate or an allocation reads it from the same Policy.
type Policy struct {
	EmergencyFundRatio float64    `yaml:"emergency_fund_ratio"`
	Beginner           Allocation `yaml:"beginner"`
	Intermediate       Allocation `yaml:"intermediate"`
	Advanced           Allocation `yaml:"advanced"`
}

// DefaultPolicy returns the built-in heuristics.
func DefaultPolicy() Policy {
	return Policy{
		EmergencyFundRatio: DefaultEmergencyFundRatio,
		Beginner:           DefaultBeginnerAllocation,
		Intermediate:       DefaultIntermediateAllocation,
		Advanced:           DefaultAdvancedAllocation,
	}
}

// Validate checks the ratio is in (0, 1] and every triple sums to 100.
func (p Policy) Validate() error {
	if !finite(p.EmergencyFundRatio) || p.EmergencyFundRatio <= 0 || p.EmergencyFundRatio > 1 {
		return fmt.Errorf("emergency_fund_ratio must be in (0, 1], got %v", p.EmergencyFundRatio)
	}
	var errs []error
	for name, a := range map[string]Allocation{
		"beginner":     p.Beginner,
		"intermediate": p.Intermediate,
		"advanced":     p.Advanced,
	} {
		if a.Low < 0 || a.Medium < 0 || a.High < 0 {
			errs = append(errs, fmt.Errorf("%s allocation has a negative bucket", name))
			continue
		}
		if a.Sum() != 100 {
			errs = append(errs, fmt.Errorf("%s allocation sums to %d, want 100", name, a.Sum()))
		}
	}
	return errors.Join(errs...)
}

// RatioPercent is the emergency ratio expressed in whole percent.
func (p Policy) RatioPercent() int {
	return int(decimal.NewFromFloat(p.EmergencyFundRatio).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

// EmergencyThreshold is the savings amount the gate requires for balance.
func (p Policy) EmergencyThreshold(balance float64) float64 {
	if !finite(balance) {
		return 0
	}
	return decimal.NewFromFloat(balance).
		Mul(decimal.NewFromFloat(p.EmergencyFundRatio)).
		Round(2).
		InexactFloat64()
}

// HasAdequateEmergencyFund reports savings >= ratio × balance.
func (p Policy) HasAdequateEmergencyFund(savings, balance float64) bool {
	if !finite(savings) || !finite(balance) {
		return false
	}
	threshold := decimal.NewFromFloat(balance).Mul(decimal.NewFromFloat(p.EmergencyFundRatio))
	return decimal.NewFromFloat(savings).GreaterThanOrEqual(threshold)
}

// EmergencyFundShortfall is max(0, ratio × balance - savings).
func (p Policy) EmergencyFundShortfall(savings, balance float64) float64 {
	if !finite(savings) || !finite(balance) {
		return 0
	}
	threshold := decimal.NewFromFloat(balance).Mul(decimal.NewFromFloat(p.EmergencyFundRatio))
	gap := threshold.Sub(decimal.NewFromFloat(savings))
	if !gap.IsPositive() {
		return 0
	}
	return gap.Round(2).InexactFloat64()
}

// RecommendedAllocation maps a tier to its triple; unknown tiers get the
// beginner triple.
func (p Policy) RecommendedAllocation(level Level) Allocation {
	switch level {
	case LevelIntermediate:
		return p.Intermediate
	case LevelAdvanced:
		return p.Advanced
	default:
		return p.Beginner
	}
}
