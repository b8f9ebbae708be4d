package finmath_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genie/finmath"
)

func TestCompoundGrow(t *testing.T) {
	tests := []struct {
		name      string
		principal float64
		rate      float64
		years     float64
		want      float64
	}{
		{name: "ten years at eight percent", principal: 1000, rate: 8, years: 10, want: 2158.92},
		{name: "one year", principal: 1000, rate: 5, years: 1, want: 1050},
		{name: "zero rate", principal: 1234.56, rate: 0, years: 30, want: 1234.56},
		{name: "zero years", principal: 500, rate: 7, years: 0, want: 500},
		{name: "negative years", principal: 500, rate: 7, years: -2, want: 500},
		{name: "half year", principal: 10000, rate: 10, years: 0.5, want: 10488.09},
		{name: "total loss", principal: 500, rate: -100, years: 3, want: 0},
		{name: "nan rate", principal: 500, rate: math.NaN(), years: 3, want: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, finmath.CompoundGrow(tt.principal, tt.rate, tt.years), 0.01)
		})
	}
}

func TestCompoundGrowMonotonicInTime(t *testing.T) {
	for _, rate := range []float64{0, 0.5, 3, 8, 25} {
		prev := finmath.CompoundGrow(2500, rate, 0)
		for years := 0.25; years <= 40; years += 0.25 {
			got := finmath.CompoundGrow(2500, rate, years)
			require.GreaterOrEqual(t, got, prev, "rate=%v years=%v", rate, years)
			prev = got
		}
	}
}

func TestCompoundGrowSaturatesOnOverflow(t *testing.T) {
	prev := finmath.CompoundGrow(1000, 8, 0)
	for years := 50.0; years <= 20000; years += 50 {
		got := finmath.CompoundGrow(1000, 8, years)
		require.False(t, math.IsInf(got, 0) || math.IsNaN(got), "years=%v", years)
		require.GreaterOrEqual(t, got, prev, "years=%v", years)
		prev = got
	}

	assert.Equal(t, math.MaxFloat64, finmath.CompoundGrow(1000, 8, 9200))
	assert.Equal(t, math.MaxFloat64, finmath.CompoundGrow(1000, 8, 10000))
	assert.Equal(t, -math.MaxFloat64, finmath.CompoundGrow(-1000, 8, 10000))
	assert.Equal(t, 0.0, finmath.CompoundGrow(0, 8, 10000))
}

func TestCompoundGrowZeroRateIsIdentity(t *testing.T) {
	for _, years := range []float64{0, 0.1, 1, 7.5, 100} {
		assert.Equal(t, 987.65, finmath.CompoundGrow(987.65, 0, years))
	}
}

func TestDoublingTimeYears(t *testing.T) {
	years, ok := finmath.DoublingTimeYears(8)
	require.True(t, ok)
	assert.Equal(t, 9.0, years)

	years, ok = finmath.DoublingTimeYears(7)
	require.True(t, ok)
	assert.Equal(t, 10.3, years)

	for _, rate := range []float64{0, -4, math.Inf(1), math.NaN()} {
		years, ok := finmath.DoublingTimeYears(rate)
		assert.False(t, ok, "rate=%v", rate)
		assert.Zero(t, years)
	}
}

func TestSuggestedEmergencyFundTarget(t *testing.T) {
	got := finmath.SuggestedEmergencyFundTarget(1500)
	assert.Equal(t, finmath.EmergencyTarget{Min: 4500, Ideal: 9000, Max: 18000}, got)

	assert.Equal(t, finmath.EmergencyTarget{}, finmath.SuggestedEmergencyFundTarget(-10))
	assert.Equal(t, finmath.EmergencyTarget{}, finmath.SuggestedEmergencyFundTarget(math.NaN()))
}

func TestHasAdequateEmergencyFund(t *testing.T) {
	tests := []struct {
		savings float64
		balance float64
		want    bool
	}{
		{savings: 10000, balance: 100000, want: false},
		{savings: 19999.99, balance: 100000, want: false},
		{savings: 20000, balance: 100000, want: true},
		{savings: 30000, balance: 100000, want: true},
		{savings: 0, balance: 0, want: true},
		{savings: 0, balance: 1, want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, finmath.HasAdequateEmergencyFund(tt.savings, tt.balance),
			"savings=%v balance=%v", tt.savings, tt.balance)
	}
}

func TestHasAdequateEmergencyFundMatchesRatio(t *testing.T) {
	for balance := 0.0; balance <= 50000; balance += 1250 {
		for savings := 0.0; savings <= 15000; savings += 500 {
			want := savings*5 >= balance
			assert.Equal(t, want, finmath.HasAdequateEmergencyFund(savings, balance),
				"savings=%v balance=%v", savings, balance)
		}
	}
}

func TestEmergencyFundShortfall(t *testing.T) {
	assert.Equal(t, 10000.0, finmath.EmergencyFundShortfall(10000, 100000))
	assert.Zero(t, finmath.EmergencyFundShortfall(30000, 100000))
	assert.Zero(t, finmath.EmergencyFundShortfall(math.NaN(), 100000))
}

func TestRecommendedAllocation(t *testing.T) {
	assert.Equal(t, finmath.Allocation{Low: 70, Medium: 20, High: 10}, finmath.RecommendedAllocation(finmath.LevelBeginner))
	assert.Equal(t, finmath.DefaultIntermediateAllocation, finmath.RecommendedAllocation(finmath.LevelIntermediate))
	assert.Equal(t, finmath.DefaultAdvancedAllocation, finmath.RecommendedAllocation(finmath.LevelAdvanced))
	assert.Equal(t, finmath.DefaultBeginnerAllocation, finmath.RecommendedAllocation(finmath.Level("wizard")))
}

func TestPolicyValidate(t *testing.T) {
	require.NoError(t, finmath.DefaultPolicy().Validate())

	p := finmath.DefaultPolicy()
	p.EmergencyFundRatio = 0
	assert.Error(t, p.Validate())

	p = finmath.DefaultPolicy()
	p.Advanced = finmath.Allocation{Low: 50, Medium: 50, High: 50}
	assert.ErrorContains(t, p.Validate(), "advanced")
}

func TestPolicyOverride(t *testing.T) {
	p := finmath.DefaultPolicy()
	p.EmergencyFundRatio = 0.5

	assert.False(t, p.HasAdequateEmergencyFund(30000, 100000))
	assert.Equal(t, 20000.0, p.EmergencyFundShortfall(30000, 100000))
	assert.Equal(t, 50, p.RatioPercent())
	assert.Equal(t, 50000.0, p.EmergencyThreshold(100000))
}

func TestSumOutflows(t *testing.T) {
	assert.Equal(t, 65.5, finmath.SumOutflows(-40, 200, -25.5, math.NaN()))
	assert.Zero(t, finmath.SumOutflows())
	assert.Zero(t, finmath.SumOutflows(10, 20))
}

func TestSplit(t *testing.T) {
	low, medium, high := finmath.Split(1000, finmath.DefaultBeginnerAllocation)
	assert.Equal(t, 700.0, low)
	assert.Equal(t, 200.0, medium)
	assert.Equal(t, 100.0, high)

	low, medium, high = finmath.Split(100.01, finmath.Allocation{Low: 33, Medium: 33, High: 34})
	assert.InDelta(t, 100.01, low+medium+high, 1e-9)

	low, medium, high = finmath.Split(-5, finmath.DefaultBeginnerAllocation)
	assert.Zero(t, low+medium+high)
}
