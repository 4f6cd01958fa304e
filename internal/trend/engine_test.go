package trend

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedEngine() *Engine {
	return New(
		WithNow(func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }),
		WithRand(rand.New(rand.NewSource(1))),
	)
}

func seriesFromRetail(values ...int64) []ValuationPoint {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]ValuationPoint, len(values))
	for i, v := range values {
		out[i] = ValuationPoint{
			Date:         base.AddDate(0, i, 0),
			Retail:       v,
			Trade:        v - 1000,
			PartExchange: v - 1500,
			Provenance:   ProvenanceAPI,
		}
	}
	return out
}

func TestComputeTrend_RisingSeries(t *testing.T) {
	e := fixedEngine()
	res := e.ComputeTrend(seriesFromRetail(10000, 11000, 12000, 13000))

	assert.Equal(t, DirectionRising, res.Direction)
	assert.Greater(t, res.Strength, 0.1)
	assert.LessOrEqual(t, res.Strength, 1.0)
}

func TestComputeTrend_DecliningSeries(t *testing.T) {
	e := fixedEngine()
	res := e.ComputeTrend(seriesFromRetail(13000, 12000, 11000, 10000))

	assert.Equal(t, DirectionDeclining, res.Direction)
	assert.Less(t, res.Strength, -0.1)
	assert.GreaterOrEqual(t, res.Strength, -1.0)
}

func TestComputeTrend_ConstantSeriesIsStable(t *testing.T) {
	e := fixedEngine()
	res := e.ComputeTrend(seriesFromRetail(12000, 12000, 12000))

	assert.Equal(t, DirectionStable, res.Direction)
	assert.Zero(t, res.Strength)
}

func TestComputeTrend_ShortSeriesIsStableNotError(t *testing.T) {
	e := fixedEngine()

	assert.Equal(t, Result{Direction: DirectionStable, Strength: 0}, e.ComputeTrend(nil))
	assert.Equal(t, Result{Direction: DirectionStable, Strength: 0}, e.ComputeTrend(seriesFromRetail(9000)))
}

func TestComputeTrend_StrengthClamped(t *testing.T) {
	e := fixedEngine()
	// A violent jump normalizes past 1 and must be clamped.
	res := e.ComputeTrend(seriesFromRetail(100, 100000))

	assert.Equal(t, DirectionRising, res.Direction)
	assert.Equal(t, 1.0, res.Strength)
}

func TestProjectFuture_AppliesMonthlyAndQuarterlyAdjustment(t *testing.T) {
	e := fixedEngine()
	series := seriesFromRetail(10000, 10000)
	trend := Result{Direction: DirectionRising, Strength: 0.5}

	proj, ok := e.ProjectFuture(series, trend)
	require.True(t, ok)

	latest := series[len(series)-1]

	// +0.5 * 0.02 = +1% for the month, +3% for the quarter.
	assert.Equal(t, int64(10100), proj.NextMonth.Retail)
	assert.Equal(t, int64(10300), proj.NextQuarter.Retail)

	assert.Equal(t, latest.Date.AddDate(0, 1, 0), proj.NextMonth.Date)
	assert.Equal(t, latest.Date.AddDate(0, 3, 0), proj.NextQuarter.Date)

	assert.Equal(t, ProvenanceInterpolated, proj.NextMonth.Provenance)
	assert.Equal(t, ProvenanceInterpolated, proj.NextQuarter.Provenance)
}

func TestProjectFuture_EmptySeries(t *testing.T) {
	e := fixedEngine()
	_, ok := e.ProjectFuture(nil, Result{Direction: DirectionStable})
	assert.False(t, ok)
}

func TestSynthesizeFallback_AgeZeroIsJustTheCurrentPoint(t *testing.T) {
	e := fixedEngine()
	current := CurrentValuation{Retail: 20000, Trade: 18000, PartExchange: 17000}

	series := e.SynthesizeFallback(current, 0)

	require.Len(t, series, 1)
	assert.Equal(t, int64(20000), series[0].Retail)
	assert.Equal(t, int64(18000), series[0].Trade)
	assert.Equal(t, int64(17000), series[0].PartExchange)
	assert.Equal(t, ProvenanceAPI, series[0].Provenance)
}

func TestSynthesizeFallback_NewestPointIsCurrentVerbatim(t *testing.T) {
	e := fixedEngine()
	current := CurrentValuation{Retail: 15000, Trade: 13500, PartExchange: 12800}

	series := e.SynthesizeFallback(current, 4)

	require.NotEmpty(t, series)
	newest := series[len(series)-1]
	assert.Equal(t, current.Retail, newest.Retail)
	assert.Equal(t, current.Trade, newest.Trade)
	assert.Equal(t, current.PartExchange, newest.PartExchange)
	assert.Equal(t, ProvenanceAPI, newest.Provenance)
}

func TestSynthesizeFallback_SpansAtMostTwoYears(t *testing.T) {
	e := fixedEngine()
	current := CurrentValuation{Retail: 9000, Trade: 8000, PartExchange: 7500}

	series := e.SynthesizeFallback(current, 10)
	assert.Len(t, series, 25) // 24 monthly samples + current

	series = e.SynthesizeFallback(current, 1)
	assert.Len(t, series, 13) // 12 monthly samples + current
}

func TestSynthesizeFallback_HistoricalPointsTaggedFallback(t *testing.T) {
	e := fixedEngine()
	series := e.SynthesizeFallback(CurrentValuation{Retail: 15000}, 3)

	require.Greater(t, len(series), 1)
	for _, p := range series[:len(series)-1] {
		assert.Equal(t, ProvenanceFallback, p.Provenance)
	}
	assert.True(t, HasFallback(series))
}

func TestSynthesizeFallback_DatesAreMonthlyAndOrdered(t *testing.T) {
	e := fixedEngine()
	series := e.SynthesizeFallback(CurrentValuation{Retail: 15000}, 2)

	for i := 1; i < len(series); i++ {
		assert.True(t, series[i].Date.After(series[i-1].Date))
	}
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), series[len(series)-1].Date)
}

func TestDepreciationFactor_MonotoneNonIncreasing(t *testing.T) {
	prev := DepreciationFactor(0)
	for age := 0.25; age <= 12; age += 0.25 {
		cur := DepreciationFactor(age)
		assert.LessOrEqual(t, cur, prev, "age %.2f", age)
		prev = cur
	}
}

func TestDepreciationFactor_CurveShape(t *testing.T) {
	assert.Equal(t, 1.0, DepreciationFactor(-1))
	assert.Equal(t, 1.0, DepreciationFactor(0))
	assert.Equal(t, 0.8, DepreciationFactor(0.5))
	assert.Equal(t, 0.8, DepreciationFactor(1))
	assert.InDelta(t, 0.7, DepreciationFactor(2), 1e-9)
	assert.InDelta(t, 0.6, DepreciationFactor(3), 1e-9)
	assert.InDelta(t, 0.55, DepreciationFactor(4), 1e-9)
	assert.InDelta(t, 0.5, DepreciationFactor(5), 1e-9)
	assert.InDelta(t, 0.4, DepreciationFactor(10), 1e-9)

	// 20% residual floor for very old vehicles.
	assert.Equal(t, 0.2, DepreciationFactor(40))
}

func TestHasFallback(t *testing.T) {
	assert.False(t, HasFallback(seriesFromRetail(1000, 1100)))
	assert.False(t, HasFallback(nil))

	mixed := seriesFromRetail(1000, 1100)
	mixed[0].Provenance = ProvenanceFallback
	assert.True(t, HasFallback(mixed))
}
