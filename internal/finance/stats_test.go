package finance

import (
	"errors"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundtracker/internal/date"
)

func days(start string, n int) []date.Date {
	d := date.MustParse(start)
	out := make([]date.Date, n)
	for i := range out {
		out[i] = d.Add(i)
	}
	return out
}

func TestLogReturns(t *testing.T) {
	ds := days("2020-01-01", 3)
	r := LogReturns(ds, []float64{100, 110, 99})
	require.Equal(t, 2, r.Len())
	assert.Equal(t, ds[1:], r.Dates)
	assert.InDelta(t, math.Log(1.1), r.Values[0], 1e-12)
	assert.InDelta(t, math.Log(0.9), r.Values[1], 1e-12)
}

func TestLogReturnsSkipsZeroValues(t *testing.T) {
	ds := days("2020-01-01", 4)
	r := LogReturns(ds, []float64{0, 0, 100, 105})
	require.Equal(t, 1, r.Len())
	assert.Equal(t, ds[3], r.Dates[0])
}

func TestAnnualizedReturn(t *testing.T) {
	got, err := AnnualizedReturn(100, 120, 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, got, 1e-12)

	_, err = AnnualizedReturn(100, 120, 0)
	assert.True(t, errors.Is(err, ErrNotComputable))
	_, err = AnnualizedReturn(0, 120, 1)
	assert.True(t, errors.Is(err, ErrNotComputable))
}

func TestElapsedYears(t *testing.T) {
	assert.InDelta(t, 1.0, ElapsedYears(date.MustParse("2019-01-01"), date.MustParse("2020-01-01")), 1e-12)
	assert.Zero(t, ElapsedYears(date.MustParse("2019-01-01"), date.MustParse("2019-01-01")))
}

func TestSampleStatistics(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	assert.InDelta(t, 5.0/3.0, SampleVariance(xs), 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/3.0), SampleStdDev(xs), 1e-12)
	assert.InDelta(t, 10.0/3.0, SampleCovariance(xs, []float64{2, 4, 6, 8}), 1e-12)
	assert.Zero(t, SampleVariance([]float64{7}))
}

func TestSharpeRatioZeroVolatility(t *testing.T) {
	ds := days("2020-01-01", 30)
	flat := make([]float64, len(ds))
	for i := range flat {
		flat[i] = 100
	}
	r := LogReturns(ds, flat)
	vol := Volatility(r, ElapsedYears(ds[0], ds[len(ds)-1]))
	assert.Zero(t, vol)

	s := SharpeRatio(0.05, 0.025, vol)
	assert.False(t, math.IsInf(s, 0) || math.IsNaN(s))
	assert.InDelta(t, 0.025/SharpeZeroVolatilityDenominator, s, 1e-18)
}

func TestVolatility(t *testing.T) {
	r := Returns{Values: []float64{0.01, -0.01, 0.01, -0.01}}
	std := SampleStdDev(r.Values)
	assert.InDelta(t, std*math.Sqrt(250*2), Volatility(r, 2), 1e-12)
	assert.Zero(t, Volatility(Returns{Values: []float64{0.3}}, 1))
}

func TestBetaAlignsByDate(t *testing.T) {
	ds := days("2020-01-01", 6)
	market := Returns{Dates: ds, Values: []float64{0.01, -0.02, 0.015, 0.0, 0.005, -0.01}}
	// asset moves twice as much, but misses the first day
	asset := Returns{Dates: ds[1:], Values: []float64{-0.04, 0.03, 0.0, 0.01, -0.02}}
	b, err := Beta(asset, market)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, b, 1e-9)
}

func TestBetaNotComputable(t *testing.T) {
	ds := days("2020-01-01", 3)
	_, err := Beta(Returns{Dates: ds[:1], Values: []float64{0.1}}, Returns{Dates: ds[:1], Values: []float64{0.1}})
	assert.True(t, errors.Is(err, ErrNotComputable))

	flat := Returns{Dates: ds, Values: []float64{0, 0, 0}}
	_, err = Beta(Returns{Dates: ds, Values: []float64{0.1, 0.2, 0.3}}, flat)
	assert.True(t, errors.Is(err, ErrNotComputable))
}

func TestAlpha(t *testing.T) {
	assert.InDelta(t, 0.01, Alpha(0.12, 1.5, 0.02, 0.08), 1e-12)
	assert.InDelta(t, 0.0, Alpha(0.08, 1, 0.02, 0.08), 1e-12)
}

func TestMaxDrawdown(t *testing.T) {
	assert.InDelta(t, 0.5, MaxDrawdown([]float64{100, 120, 60, 110, 130}), 1e-12)
	assert.Zero(t, MaxDrawdown([]float64{100, 101, 102}))
	assert.Zero(t, MaxDrawdown([]float64{100}))
}

func TestStatsProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("sharpe ratio is always finite", prop.ForAll(
		func(annRet, rf, vol float64) bool {
			s := SharpeRatio(annRet, rf, vol)
			return !math.IsNaN(s) && !math.IsInf(s, 0)
		},
		gen.Float64Range(-5, 5),
		gen.Float64Range(0, 0.2),
		gen.OneGenOf(gen.Const(0.0), gen.Float64Range(0.001, 3)),
	))

	properties.Property("beta of a series against itself is one", prop.ForAll(
		func(vals []float64) bool {
			ds := days("2020-01-01", len(vals))
			r := Returns{Dates: ds, Values: vals}
			if SampleVariance(vals) < 1e-12 {
				return true
			}
			b, err := Beta(r, r)
			return err == nil && math.Abs(b-1) < 1e-9
		},
		gen.SliceOfN(20, gen.Float64Range(-0.05, 0.05)),
	))

	properties.Property("max drawdown lies in [0,1]", prop.ForAll(
		func(vals []float64) bool {
			dd := MaxDrawdown(vals)
			return dd >= 0 && dd <= 1
		},
		gen.SliceOf(gen.Float64Range(0, 1000)),
	))

	properties.TestingRun(t)
}
