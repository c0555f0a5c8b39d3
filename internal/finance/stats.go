package finance

import (
	"fmt"
	"math"

	"fundtracker/internal/date"
)

const (
	// TradingDaysPerYear scales daily statistics to annual ones.
	TradingDaysPerYear = 250.0
	// DaysPerYear converts calendar days into elapsed years.
	DaysPerYear = 365.0
	// SharpeZeroVolatilityDenominator replaces a zero volatility in SharpeRatio.
	// The result stays finite instead of dividing by zero.
	SharpeZeroVolatilityDenominator = 1e9
)

// Returns is a log-return series. Values[i] is the return realised on Dates[i].
type Returns struct {
	Dates  []date.Date
	Values []float64
}

func (r Returns) Len() int { return len(r.Values) }

// LogReturns computes ln(v[t]/v[t-1]) labelled with date t.
// Pairs with a non-positive value are skipped.
func LogReturns(dates []date.Date, values []float64) Returns {
	n := min(len(dates), len(values))
	out := Returns{}
	for i := 1; i < n; i++ {
		if values[i-1] <= 0 || values[i] <= 0 {
			continue
		}
		out.Dates = append(out.Dates, dates[i])
		out.Values = append(out.Values, math.Log(values[i]/values[i-1]))
	}
	return out
}

// ElapsedYears is the calendar distance between two dates, in years of 365 days.
func ElapsedYears(from, to date.Date) float64 {
	return float64(to.DaysSince(from)) / DaysPerYear
}

// AnnualizedReturn is the total return from first to last divided by years.
func AnnualizedReturn(first, last, years float64) (float64, error) {
	if years <= 0 {
		return 0, fmt.Errorf("annualized return over %v years: %w", years, ErrNotComputable)
	}
	if first == 0 {
		return 0, fmt.Errorf("annualized return from zero value: %w", ErrNotComputable)
	}
	return (last/first - 1) / years, nil
}

func mean(xs []float64) float64 {
	s := 0.0
	for _, x := range xs {
		s += x
	}
	return s / float64(len(xs))
}

// SampleCovariance uses the n-1 denominator. It returns 0 for fewer than 2 pairs.
func SampleCovariance(xs, ys []float64) float64 {
	n := min(len(xs), len(ys))
	if n < 2 {
		return 0
	}
	xs, ys = xs[:n], ys[:n]
	mx, my := mean(xs), mean(ys)
	s := 0.0
	for i := 0; i < n; i++ {
		s += (xs[i] - mx) * (ys[i] - my)
	}
	return s / float64(n-1)
}

// SampleVariance uses the n-1 denominator. It returns 0 for fewer than 2 values.
func SampleVariance(xs []float64) float64 {
	return SampleCovariance(xs, xs)
}

// SampleStdDev is the square root of SampleVariance.
func SampleStdDev(xs []float64) float64 {
	return math.Sqrt(SampleVariance(xs))
}

// Volatility annualizes the daily std dev of r as std * sqrt(250 * years).
func Volatility(r Returns, years float64) float64 {
	if years <= 0 {
		return 0
	}
	return SampleStdDev(r.Values) * math.Sqrt(TradingDaysPerYear*years)
}

// SharpeRatio is (annRet - rf) / vol, with SharpeZeroVolatilityDenominator
// standing in for a zero vol.
func SharpeRatio(annRet, rf, vol float64) float64 {
	if vol == 0 {
		vol = SharpeZeroVolatilityDenominator
	}
	return (annRet - rf) / vol
}

// align keeps the returns present on the same dates in both series.
func align(a, b Returns) ([]float64, []float64) {
	idx := make(map[date.Date]int, len(b.Dates))
	for i, d := range b.Dates {
		idx[d] = i
	}
	var xs, ys []float64
	for i, d := range a.Dates {
		if j, ok := idx[d]; ok {
			xs = append(xs, a.Values[i])
			ys = append(ys, b.Values[j])
		}
	}
	return xs, ys
}

// Beta of asset against market over their common dates: cov*250 / (var*250).
func Beta(asset, market Returns) (float64, error) {
	xs, ys := align(asset, market)
	if len(xs) < 2 {
		return 0, fmt.Errorf("beta over %d common returns: %w", len(xs), ErrNotComputable)
	}
	v := SampleVariance(ys) * TradingDaysPerYear
	if v == 0 {
		return 0, fmt.Errorf("beta against a flat market: %w", ErrNotComputable)
	}
	return SampleCovariance(xs, ys) * TradingDaysPerYear / v, nil
}

// Alpha is the CAPM residual annRet - (rf + beta*(marketAnnRet - rf)).
func Alpha(annRet, beta, rf, marketAnnRet float64) float64 {
	return annRet - (rf + beta*(marketAnnRet-rf))
}

// MaxDrawdown is the largest peak-to-trough decline as a fraction of the peak.
func MaxDrawdown(values []float64) float64 {
	if len(values) < 2 {
		return 0.0
	}
	maxDrawdown := 0.0
	peak := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 && v >= 0 {
			if dd := (peak - v) / peak; dd > maxDrawdown {
				maxDrawdown = dd
			}
		}
	}
	return maxDrawdown
}

// TotalReturn is last/first - 1, or 0 when first is not positive.
func TotalReturn(values []float64) float64 {
	if len(values) == 0 || values[0] <= 0 {
		return 0
	}
	return values[len(values)-1]/values[0] - 1
}
