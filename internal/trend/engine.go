// Package trend turns a valuation time series into a market-trend
// classification with short-horizon projections, and can synthesize a
// plausible depreciation series when the provider has no real history.
package trend

import (
	"math"
	"math/rand"
	"time"
)

// Provenance tags where a valuation point came from. It is preserved
// end-to-end so consumers can tell real data from synthesized data.
type Provenance string

const (
	ProvenanceAPI          Provenance = "api"
	ProvenanceInterpolated Provenance = "interpolated"
	ProvenanceFallback     Provenance = "fallback"
)

// ValuationPoint is one sample in a valuation time series.
type ValuationPoint struct {
	Date         time.Time  `json:"date"`
	Retail       int64      `json:"retail"`
	Trade        int64      `json:"trade"`
	PartExchange int64      `json:"partExchange"`
	Mileage      *int       `json:"mileage,omitempty"`
	Provenance   Provenance `json:"provenance"`
}

// Direction classifies the market movement of a series.
type Direction string

const (
	DirectionRising    Direction = "rising"
	DirectionStable    Direction = "stable"
	DirectionDeclining Direction = "declining"
)

// Result is a trend classification with a normalized strength in [-1, 1].
// |strength| <= 0.1 is stable by definition.
type Result struct {
	Direction Direction `json:"direction"`
	Strength  float64   `json:"strength"`
}

// Projection extends the series one month and one quarter ahead.
type Projection struct {
	NextMonth   ValuationPoint `json:"nextMonth"`
	NextQuarter ValuationPoint `json:"nextQuarter"`
}

const (
	stableBand        = 0.1
	monthlyAdjustment = 0.02
	maxFallbackMonths = 24
	jitterRange       = 0.05
)

// Engine computes trends and synthesizes fallback series. The clock and
// random source are injectable so tests stay deterministic.
type Engine struct {
	now  func() time.Time
	rand *rand.Rand
}

type Option func(*Engine)

func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rand = r }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		now:  time.Now,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ComputeTrend fits an ordinary least-squares line to retail value against
// sample index and normalizes the slope by the mean value per sample. A
// series shorter than two points is stable by definition, not an error.
func (e *Engine) ComputeTrend(series []ValuationPoint) Result {
	n := len(series)
	if n < 2 {
		return Result{Direction: DirectionStable, Strength: 0}
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, p := range series {
		x := float64(i)
		y := float64(p.Retail)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return Result{Direction: DirectionStable, Strength: 0}
	}
	slope := (fn*sumXY - sumX*sumY) / denom

	avg := sumY / fn
	if avg == 0 {
		return Result{Direction: DirectionStable, Strength: 0}
	}

	strength := clamp(slope/(avg/fn), -1, 1)

	switch {
	case strength < -stableBand:
		return Result{Direction: DirectionDeclining, Strength: strength}
	case strength > stableBand:
		return Result{Direction: DirectionRising, Strength: strength}
	default:
		return Result{Direction: DirectionStable, Strength: strength}
	}
}

// ProjectFuture extends the series with one-month and one-quarter estimates
// derived from the most recent point and the trend strength. Projected
// points carry interpolated provenance.
func (e *Engine) ProjectFuture(series []ValuationPoint, trend Result) (Projection, bool) {
	if len(series) == 0 {
		return Projection{}, false
	}
	latest := series[len(series)-1]

	month := adjustPoint(latest, 1+trend.Strength*monthlyAdjustment)
	month.Date = latest.Date.AddDate(0, 1, 0)

	quarter := adjustPoint(latest, 1+trend.Strength*monthlyAdjustment*3)
	quarter.Date = latest.Date.AddDate(0, 3, 0)

	return Projection{NextMonth: month, NextQuarter: quarter}, true
}

func adjustPoint(p ValuationPoint, factor float64) ValuationPoint {
	return ValuationPoint{
		Date:         p.Date,
		Retail:       scale(p.Retail, factor),
		Trade:        scale(p.Trade, factor),
		PartExchange: scale(p.PartExchange, factor),
		Provenance:   ProvenanceInterpolated,
	}
}

// CurrentValuation anchors a synthesized series.
type CurrentValuation struct {
	Retail       int64
	Trade        int64
	PartExchange int64
}

// SynthesizeFallback fabricates a monthly depreciation series reaching up to
// two years into the past, anchored at the caller's current figures. The
// newest sample is the current valuation verbatim with api provenance; every
// historical sample is scaled by the depreciation curve relative to the
// vehicle's current age, jittered by up to ±5% to mimic market volatility,
// and tagged fallback. Points are returned oldest first.
func (e *Engine) SynthesizeFallback(current CurrentValuation, vehicleAgeYears float64) []ValuationPoint {
	months := int(math.Min(maxFallbackMonths, math.Max(0, vehicleAgeYears*12)))

	now := e.now()
	series := make([]ValuationPoint, 0, months+1)
	baseFactor := DepreciationFactor(vehicleAgeYears)

	for back := months; back >= 1; back-- {
		ageThen := vehicleAgeYears - float64(back)/12
		// Ratio against the current-age factor keeps the curve anchored at
		// today's value instead of re-depreciating the anchor itself.
		factor := DepreciationFactor(ageThen) / baseFactor
		jitter := 1 + (e.rand.Float64()*2-1)*jitterRange

		series = append(series, ValuationPoint{
			Date:         now.AddDate(0, -back, 0),
			Retail:       scale(current.Retail, factor*jitter),
			Trade:        scale(current.Trade, factor*jitter),
			PartExchange: scale(current.PartExchange, factor*jitter),
			Provenance:   ProvenanceFallback,
		})
	}

	series = append(series, ValuationPoint{
		Date:         now,
		Retail:       current.Retail,
		Trade:        current.Trade,
		PartExchange: current.PartExchange,
		Provenance:   ProvenanceAPI,
	})

	return series
}

// DepreciationFactor maps vehicle age in years to the share of original
// value retained: 20% off in year one, then progressively gentler decline
// with a 20% residual floor.
func DepreciationFactor(ageYears float64) float64 {
	switch {
	case ageYears <= 0:
		return 1.0
	case ageYears <= 1:
		return 0.8
	case ageYears <= 3:
		return 0.8 - (ageYears-1)*0.1
	case ageYears <= 5:
		return 0.6 - (ageYears-3)*0.05
	default:
		return math.Max(0.2, 0.5-(ageYears-5)*0.02)
	}
}

// HasFallback reports whether any point in the series was synthesized.
// Cache lifetimes and the result's source tag both depend on this.
func HasFallback(series []ValuationPoint) bool {
	for _, p := range series {
		if p.Provenance == ProvenanceFallback {
			return true
		}
	}
	return false
}

func scale(v int64, factor float64) int64 {
	return int64(math.Round(float64(v) * factor))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
